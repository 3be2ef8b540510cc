package lastfm

import (
	"context"
	"fmt"
)

// MaxTags is the most tags Last.fm accepts in one addTags call.
const MaxTags = 10

// TrackService provides track.* methods.
type TrackService struct {
	client *Client
}

// TrackQuery identifies a track by artist and name, or by MusicBrainz ID.
type TrackQuery struct {
	Artist      string
	Track       string
	MBID        string
	Username    string // include this user's playcount and loved state
	Autocorrect bool
}

func (q TrackQuery) params(method string) (Params, error) {
	if q.MBID == "" && (q.Artist == "" || q.Track == "") {
		return nil, &InvalidOperationError{Method: method, Reason: "artist and track, or mbid, are required"}
	}
	p := Params{
		"artist":   optString(q.Artist),
		"track":    optString(q.Track),
		"mbid":     optString(q.MBID),
		"username": optString(q.Username),
	}
	if q.Autocorrect {
		p["autocorrect"] = true
	}
	return p, nil
}

// GetInfo returns the metadata of a track.
//
// Example:
//
//	track, err := client.Track().GetInfo(ctx, lastfm.TrackQuery{
//	    Artist: "Muse",
//	    Track:  "Hysteria",
//	})
func (s *TrackService) GetInfo(ctx context.Context, q TrackQuery) (*Track, error) {
	params, err := q.params("track.getInfo")
	if err != nil {
		return nil, err
	}
	return fetchOne[Track](ctx, s.client, get("track", "getInfo", params))
}

// Search finds tracks by name, optionally narrowed to an artist.
func (s *TrackService) Search(ctx context.Context, track, artist string, opts ListOptions) (*Collection[Track], error) {
	if track == "" {
		return nil, &InvalidOperationError{Method: "track.search", Reason: "track is required"}
	}
	params := opts.apply(Params{"track": track, "artist": optString(artist)})
	return fetchMany[Track](ctx, s.client, get("track", "search", params), "tracks.track")
}

// GetSimilar returns tracks similar to the given one, best match first.
func (s *TrackService) GetSimilar(ctx context.Context, q TrackQuery, limit int) (*Collection[Track], error) {
	params, err := q.params("track.getSimilar")
	if err != nil {
		return nil, err
	}
	params["limit"] = optInt(limit)
	return fetchMany[Track](ctx, s.client, get("track", "getSimilar", params), "track")
}

// GetTopTags returns the most applied tags of a track.
func (s *TrackService) GetTopTags(ctx context.Context, q TrackQuery) (*Collection[Tag], error) {
	params, err := q.params("track.getTopTags")
	if err != nil {
		return nil, err
	}
	return fetchMany[Tag](ctx, s.client, get("track", "getTopTags", params), "tag")
}

// GetTags returns the tags a user applied to a track. q.Username defaults
// to the client's username.
func (s *TrackService) GetTags(ctx context.Context, q TrackQuery) (*Collection[Tag], error) {
	params, err := q.params("track.getTags")
	if err != nil {
		return nil, err
	}
	delete(params, "username")
	user, err := s.client.userOrDefault("track.getTags", q.Username)
	if err != nil {
		return nil, err
	}
	params["user"] = user
	return fetchMany[Tag](ctx, s.client, get("track", "getTags", params), "tag")
}

// AddTags tags a track for the authenticated user. At most MaxTags tags
// are accepted per call.
func (s *TrackService) AddTags(ctx context.Context, artist, track string, tags []string) (*RawResponse, error) {
	if err := checkTags("track.addTags", tags); err != nil {
		return nil, err
	}
	params, err := TrackQuery{Artist: artist, Track: track}.params("track.addTags")
	if err != nil {
		return nil, err
	}
	params["tags"] = tags
	return fetchRaw(ctx, s.client, post("track", "addTags", params))
}

// RemoveTag removes one of the authenticated user's tags from a track.
func (s *TrackService) RemoveTag(ctx context.Context, artist, track, tag string) (*RawResponse, error) {
	if tag == "" {
		return nil, &InvalidOperationError{Method: "track.removeTag", Reason: "tag is required"}
	}
	params, err := TrackQuery{Artist: artist, Track: track}.params("track.removeTag")
	if err != nil {
		return nil, err
	}
	params["tag"] = tag
	return fetchRaw(ctx, s.client, post("track", "removeTag", params))
}

// Love marks a track as loved by the authenticated user.
func (s *TrackService) Love(ctx context.Context, artist, track string) (*RawResponse, error) {
	return s.love(ctx, "love", artist, track)
}

// Unlove removes a track from the authenticated user's loved tracks.
func (s *TrackService) Unlove(ctx context.Context, artist, track string) (*RawResponse, error) {
	return s.love(ctx, "unlove", artist, track)
}

func (s *TrackService) love(ctx context.Context, op, artist, track string) (*RawResponse, error) {
	if artist == "" || track == "" {
		return nil, &InvalidOperationError{Method: "track." + op, Reason: "artist and track are required"}
	}
	return fetchRaw(ctx, s.client, post("track", op, Params{"artist": artist, "track": track}))
}

func checkTags(method string, tags []string) error {
	switch {
	case len(tags) == 0:
		return &InvalidOperationError{Method: method, Reason: "at least one tag is required"}
	case len(tags) > MaxTags:
		return &InvalidOperationError{Method: method, Reason: fmt.Sprintf("at most %d tags per call (got %d)", MaxTags, len(tags))}
	}
	for i, t := range tags {
		if t == "" {
			return &InvalidOperationError{Method: method, Reason: fmt.Sprintf("tag %d is empty", i)}
		}
	}
	return nil
}
