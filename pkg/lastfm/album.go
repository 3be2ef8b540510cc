package lastfm

import (
	"context"
)

// AlbumService provides album.* methods.
type AlbumService struct {
	client *Client
}

// AlbumQuery identifies an album by artist and title, or by MusicBrainz ID.
type AlbumQuery struct {
	Artist      string
	Album       string
	MBID        string
	Username    string
	Lang        string
	Autocorrect bool
}

func (q AlbumQuery) params(method string) (Params, error) {
	if q.MBID == "" && (q.Artist == "" || q.Album == "") {
		return nil, &InvalidOperationError{Method: method, Reason: "artist and album, or mbid, are required"}
	}
	p := Params{
		"artist":   optString(q.Artist),
		"album":    optString(q.Album),
		"mbid":     optString(q.MBID),
		"username": optString(q.Username),
		"lang":     optString(q.Lang),
	}
	if q.Autocorrect {
		p["autocorrect"] = true
	}
	return p, nil
}

// GetInfo returns the metadata and track listing of an album.
func (s *AlbumService) GetInfo(ctx context.Context, q AlbumQuery) (*Album, error) {
	params, err := q.params("album.getInfo")
	if err != nil {
		return nil, err
	}
	return fetchOne[Album](ctx, s.client, get("album", "getInfo", params))
}

// Search finds albums by title.
func (s *AlbumService) Search(ctx context.Context, album string, opts ListOptions) (*Collection[Album], error) {
	if album == "" {
		return nil, &InvalidOperationError{Method: "album.search", Reason: "album is required"}
	}
	params := opts.apply(Params{"album": album})
	return fetchMany[Album](ctx, s.client, get("album", "search", params), "albums.album")
}

// GetTopTags returns the most applied tags of an album.
func (s *AlbumService) GetTopTags(ctx context.Context, q AlbumQuery) (*Collection[Tag], error) {
	params, err := q.params("album.getTopTags")
	if err != nil {
		return nil, err
	}
	return fetchMany[Tag](ctx, s.client, get("album", "getTopTags", params), "tag")
}

// AddTags tags an album for the authenticated user.
func (s *AlbumService) AddTags(ctx context.Context, artist, album string, tags []string) (*RawResponse, error) {
	if err := checkTags("album.addTags", tags); err != nil {
		return nil, err
	}
	params, err := AlbumQuery{Artist: artist, Album: album}.params("album.addTags")
	if err != nil {
		return nil, err
	}
	params["tags"] = tags
	return fetchRaw(ctx, s.client, post("album", "addTags", params))
}

// RemoveTag removes one of the authenticated user's tags from an album.
func (s *AlbumService) RemoveTag(ctx context.Context, artist, album, tag string) (*RawResponse, error) {
	if tag == "" {
		return nil, &InvalidOperationError{Method: "album.removeTag", Reason: "tag is required"}
	}
	params, err := AlbumQuery{Artist: artist, Album: album}.params("album.removeTag")
	if err != nil {
		return nil, err
	}
	params["tag"] = tag
	return fetchRaw(ctx, s.client, post("album", "removeTag", params))
}
