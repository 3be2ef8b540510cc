package lastfm

import (
	"context"
)

// TagService provides tag.* methods.
type TagService struct {
	client *Client
}

// GetInfo returns the description and usage counts of a tag.
func (s *TagService) GetInfo(ctx context.Context, tag string) (*Tag, error) {
	if err := requireTag("tag.getInfo", tag); err != nil {
		return nil, err
	}
	return fetchOne[Tag](ctx, s.client, get("tag", "getInfo", Params{"tag": tag}))
}

// GetTopArtists returns the artists most tagged with tag.
func (s *TagService) GetTopArtists(ctx context.Context, tag string, opts ListOptions) (*Collection[Artist], error) {
	if err := requireTag("tag.getTopArtists", tag); err != nil {
		return nil, err
	}
	r := get("tag", "getTopArtists", opts.apply(Params{"tag": tag}))
	return fetchMany[Artist](ctx, s.client, r, "artist")
}

// GetTopAlbums returns the albums most tagged with tag.
func (s *TagService) GetTopAlbums(ctx context.Context, tag string, opts ListOptions) (*Collection[Album], error) {
	if err := requireTag("tag.getTopAlbums", tag); err != nil {
		return nil, err
	}
	r := get("tag", "getTopAlbums", opts.apply(Params{"tag": tag}))
	return fetchMany[Album](ctx, s.client, r, "album")
}

// GetTopTracks returns the tracks most tagged with tag.
func (s *TagService) GetTopTracks(ctx context.Context, tag string, opts ListOptions) (*Collection[Track], error) {
	if err := requireTag("tag.getTopTracks", tag); err != nil {
		return nil, err
	}
	r := get("tag", "getTopTracks", opts.apply(Params{"tag": tag}))
	return fetchMany[Track](ctx, s.client, r, "track")
}

// GetSimilar returns tags Last.fm considers related to tag.
func (s *TagService) GetSimilar(ctx context.Context, tag string) (*Collection[Tag], error) {
	if err := requireTag("tag.getSimilar", tag); err != nil {
		return nil, err
	}
	return fetchMany[Tag](ctx, s.client, get("tag", "getSimilar", Params{"tag": tag}), "tag")
}

func requireTag(method, tag string) error {
	if tag == "" {
		return &InvalidOperationError{Method: method, Reason: "tag is required"}
	}
	return nil
}
