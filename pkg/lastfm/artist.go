package lastfm

import (
	"context"
)

// ArtistService provides artist.* methods.
type ArtistService struct {
	client *Client
}

// ArtistQuery identifies an artist by name or MusicBrainz ID.
type ArtistQuery struct {
	Artist      string
	MBID        string
	Username    string // include this user's playcount
	Lang        string // ISO 639 code for the biography
	Autocorrect bool
}

func (q ArtistQuery) params(method string) (Params, error) {
	if q.Artist == "" && q.MBID == "" {
		return nil, &InvalidOperationError{Method: method, Reason: "artist or mbid is required"}
	}
	p := Params{
		"artist":   optString(q.Artist),
		"mbid":     optString(q.MBID),
		"username": optString(q.Username),
		"lang":     optString(q.Lang),
	}
	if q.Autocorrect {
		p["autocorrect"] = true
	}
	return p, nil
}

// GetInfo returns the metadata of an artist, including listener stats and
// biography.
func (s *ArtistService) GetInfo(ctx context.Context, q ArtistQuery) (*Artist, error) {
	params, err := q.params("artist.getInfo")
	if err != nil {
		return nil, err
	}
	return fetchOne[Artist](ctx, s.client, get("artist", "getInfo", params))
}

// GetCorrection returns the canonical spelling Last.fm uses for artist.
// The returned artist has an empty Name when no correction exists.
func (s *ArtistService) GetCorrection(ctx context.Context, artist string) (*Artist, error) {
	if artist == "" {
		return nil, &InvalidOperationError{Method: "artist.getCorrection", Reason: "artist is required"}
	}
	return fetchOne[Artist](ctx, s.client, get("artist", "getCorrection", Params{"artist": artist}))
}

// Search finds artists by name.
func (s *ArtistService) Search(ctx context.Context, artist string, opts ListOptions) (*Collection[Artist], error) {
	if artist == "" {
		return nil, &InvalidOperationError{Method: "artist.search", Reason: "artist is required"}
	}
	params := opts.apply(Params{"artist": artist})
	return fetchMany[Artist](ctx, s.client, get("artist", "search", params), "artists.artist")
}

// GetSimilar returns artists similar to the given one, best match first.
func (s *ArtistService) GetSimilar(ctx context.Context, q ArtistQuery, limit int) (*Collection[Artist], error) {
	params, err := q.params("artist.getSimilar")
	if err != nil {
		return nil, err
	}
	params["limit"] = optInt(limit)
	return fetchMany[Artist](ctx, s.client, get("artist", "getSimilar", params), "artist")
}

// GetTopAlbums returns an artist's albums ordered by popularity.
func (s *ArtistService) GetTopAlbums(ctx context.Context, q ArtistQuery, opts ListOptions) (*Collection[Album], error) {
	params, err := q.params("artist.getTopAlbums")
	if err != nil {
		return nil, err
	}
	return fetchMany[Album](ctx, s.client, get("artist", "getTopAlbums", opts.apply(params)), "album")
}

// GetTopTracks returns an artist's tracks ordered by popularity.
func (s *ArtistService) GetTopTracks(ctx context.Context, q ArtistQuery, opts ListOptions) (*Collection[Track], error) {
	params, err := q.params("artist.getTopTracks")
	if err != nil {
		return nil, err
	}
	return fetchMany[Track](ctx, s.client, get("artist", "getTopTracks", opts.apply(params)), "track")
}

// GetTopTags returns the most applied tags of an artist.
func (s *ArtistService) GetTopTags(ctx context.Context, q ArtistQuery) (*Collection[Tag], error) {
	params, err := q.params("artist.getTopTags")
	if err != nil {
		return nil, err
	}
	return fetchMany[Tag](ctx, s.client, get("artist", "getTopTags", params), "tag")
}

// AddTags tags an artist for the authenticated user.
func (s *ArtistService) AddTags(ctx context.Context, artist string, tags []string) (*RawResponse, error) {
	if artist == "" {
		return nil, &InvalidOperationError{Method: "artist.addTags", Reason: "artist is required"}
	}
	if err := checkTags("artist.addTags", tags); err != nil {
		return nil, err
	}
	return fetchRaw(ctx, s.client, post("artist", "addTags", Params{"artist": artist, "tags": tags}))
}

// RemoveTag removes one of the authenticated user's tags from an artist.
func (s *ArtistService) RemoveTag(ctx context.Context, artist, tag string) (*RawResponse, error) {
	if artist == "" || tag == "" {
		return nil, &InvalidOperationError{Method: "artist.removeTag", Reason: "artist and tag are required"}
	}
	return fetchRaw(ctx, s.client, post("artist", "removeTag", Params{"artist": artist, "tag": tag}))
}
