package lastfm

import (
	"context"
)

// ChartService provides the global chart.* methods.
type ChartService struct {
	client *Client
}

// GetTopArtists returns the most listened artists on Last.fm.
func (s *ChartService) GetTopArtists(ctx context.Context, opts ListOptions) (*Collection[Artist], error) {
	return fetchMany[Artist](ctx, s.client, get("chart", "getTopArtists", opts.apply(nil)), "artist")
}

// GetTopTracks returns the most listened tracks on Last.fm.
func (s *ChartService) GetTopTracks(ctx context.Context, opts ListOptions) (*Collection[Track], error) {
	return fetchMany[Track](ctx, s.client, get("chart", "getTopTracks", opts.apply(nil)), "track")
}

// GetTopTags returns the most used tags on Last.fm.
func (s *ChartService) GetTopTags(ctx context.Context, opts ListOptions) (*Collection[Tag], error) {
	return fetchMany[Tag](ctx, s.client, get("chart", "getTopTags", opts.apply(nil)), "tag")
}
