package lastfm

import (
	"context"
	"fmt"
	"time"
)

// ScrobbleService provides scrobbling operations for the Last.fm API.
type ScrobbleService struct {
	client *Client
}

const (
	// MaxBatchSize is the maximum number of scrobbles allowed in a single batch.
	MaxBatchSize = 50
)

// ScrobbleTrack describes a track being played or scrobbled.
type ScrobbleTrack struct {
	Artist       string        // Required: Artist name
	Track        string        // Required: Track name
	Album        string        // Optional: Album name
	AlbumArtist  string        // Optional: Album artist (if different from track artist)
	Duration     time.Duration // Optional: Track duration
	TrackNumber  int           // Optional: Track number on album
	MBID         string        // Optional: MusicBrainz track ID
	ChosenByUser *bool         // Optional: false for radio or recommendations
}

// Scrobble represents a single scrobble with timestamp.
type Scrobble struct {
	Track     ScrobbleTrack // The track being scrobbled
	Timestamp time.Time     // When the track started playing
}

// NowPlaying represents the response from track.updateNowPlaying.
type NowPlaying struct {
	origin

	Artist         string
	Track          string
	Album          string
	AlbumArtist    string
	IgnoredCode    int
	IgnoredMessage string
}

func (n *NowPlaying) decode(a attrs) {
	n.Artist = a.str("artist")
	n.Track = a.str("track")
	n.Album = a.str("album")
	n.AlbumArtist = a.str("album_artist")
	n.IgnoredCode = a.sub("ignored_message").integer("code")
	n.IgnoredMessage = a.str("ignored_message")
}

// ScrobbleEntry is the outcome of one submitted scrobble.
type ScrobbleEntry struct {
	Artist         string
	Track          string
	Album          string
	AlbumArtist    string
	Timestamp      int64
	IgnoredCode    int
	IgnoredMessage string
}

func (e *ScrobbleEntry) decode(a attrs) {
	e.Artist = a.str("artist")
	e.Track = a.str("track")
	e.Album = a.str("album")
	e.AlbumArtist = a.str("album_artist")
	e.Timestamp = a.int64("timestamp")
	e.IgnoredCode = a.sub("ignored_message").integer("code")
	e.IgnoredMessage = a.str("ignored_message")
}

// ScrobbleResult represents the response from track.scrobble.
type ScrobbleResult struct {
	origin

	Accepted int // Number of scrobbles accepted
	Ignored  int // Number of scrobbles ignored
	Entries  []ScrobbleEntry
}

func (r *ScrobbleResult) decode(a attrs) {
	meta := a.sub("attr")
	r.Accepted = meta.integer("accepted")
	r.Ignored = meta.integer("ignored")
	for _, item := range a.list("scrobble") {
		var e ScrobbleEntry
		e.decode(asAttrs(item))
		r.Entries = append(r.Entries, e)
	}
}

// UpdateNowPlaying updates the "now playing" status on Last.fm.
//
// This should be called when a track starts playing. It does not count
// as a scrobble and does not affect play counts.
//
// Requires a session key, or credentials a session can be obtained for.
//
// Example:
//
//	track := lastfm.ScrobbleTrack{
//	    Artist: "The Beatles",
//	    Track:  "Yesterday",
//	    Album:  "Help!",
//	}
//	resp, err := client.Scrobble().UpdateNowPlaying(ctx, track)
func (s *ScrobbleService) UpdateNowPlaying(ctx context.Context, track ScrobbleTrack) (*NowPlaying, error) {
	if track.Artist == "" || track.Track == "" {
		return nil, &InvalidOperationError{Method: "track.updateNowPlaying", Reason: "artist and track are required"}
	}

	params := Params{}
	addTrackParams(params, track, "")

	return fetchOne[NowPlaying](ctx, s.client, post("track", "updateNowPlaying", params))
}

// Scrobble submits a single scrobble to Last.fm.
//
// A track should only be scrobbled when:
//   - The track is longer than 30 seconds, AND
//   - The track has been played for at least 50% of its duration OR 4 minutes
//     (whichever comes first)
func (s *ScrobbleService) Scrobble(ctx context.Context, track ScrobbleTrack, timestamp time.Time) (*ScrobbleResult, error) {
	return s.ScrobbleBatch(ctx, []Scrobble{{Track: track, Timestamp: timestamp}})
}

// ScrobbleBatch submits up to MaxBatchSize scrobbles in a single request.
//
// Larger inputs are rejected; use ScrobbleMany to split them.
//
// Example:
//
//	scrobbles := []lastfm.Scrobble{
//	    {Track: track1, Timestamp: time.Now().Add(-10 * time.Minute)},
//	    {Track: track2, Timestamp: time.Now().Add(-5 * time.Minute)},
//	}
//	resp, err := client.Scrobble().ScrobbleBatch(ctx, scrobbles)
//	if err != nil {
//	    log.Printf("Failed to scrobble batch: %v", err)
//	}
//	fmt.Printf("Accepted: %d, Ignored: %d\n", resp.Accepted, resp.Ignored)
func (s *ScrobbleService) ScrobbleBatch(ctx context.Context, scrobbles []Scrobble) (*ScrobbleResult, error) {
	if len(scrobbles) == 0 {
		return &ScrobbleResult{}, nil
	}
	if len(scrobbles) > MaxBatchSize {
		return nil, &InvalidOperationError{
			Method: "track.scrobble",
			Reason: fmt.Sprintf("at most %d scrobbles per request (got %d)", MaxBatchSize, len(scrobbles)),
		}
	}

	params := Params{}
	for i, scrobble := range scrobbles {
		if scrobble.Track.Artist == "" || scrobble.Track.Track == "" {
			return nil, &InvalidOperationError{
				Method: "track.scrobble",
				Reason: fmt.Sprintf("scrobble %d: artist and track are required", i),
			}
		}
		idx := fmt.Sprintf("[%d]", i)
		addTrackParams(params, scrobble.Track, idx)
		params["timestamp"+idx] = scrobble.Timestamp.Unix()
	}

	return fetchOne[ScrobbleResult](ctx, s.client, post("track", "scrobble", params))
}

// ScrobbleMany submits any number of scrobbles in batches of MaxBatchSize.
//
// Counts are summed across batches and entries are concatenated in
// submission order. On error the result holds the batches that succeeded.
func (s *ScrobbleService) ScrobbleMany(ctx context.Context, scrobbles []Scrobble) (*ScrobbleResult, error) {
	total := &ScrobbleResult{}
	for start := 0; start < len(scrobbles); start += MaxBatchSize {
		end := min(start+MaxBatchSize, len(scrobbles))

		resp, err := s.ScrobbleBatch(ctx, scrobbles[start:end])
		if err != nil {
			return total, fmt.Errorf("lastfm: batch %d-%d: %w", start, end-1, err)
		}
		total.Accepted += resp.Accepted
		total.Ignored += resp.Ignored
		total.Entries = append(total.Entries, resp.Entries...)
	}
	return total, nil
}

// addTrackParams adds the parameters describing track, suffixed with idx
// for batch submissions. Optional fields are nil when unset so they are
// not transmitted.
func addTrackParams(params Params, track ScrobbleTrack, idx string) {
	params["artist"+idx] = track.Artist
	params["track"+idx] = track.Track
	params["album"+idx] = optString(track.Album)
	params["album_artist"+idx] = optString(track.AlbumArtist)
	params["mbid"+idx] = optString(track.MBID)
	params["track_number"+idx] = optInt(track.TrackNumber)
	if track.Duration > 0 {
		params["duration"+idx] = int(track.Duration.Seconds())
	}
	if track.ChosenByUser != nil {
		params["chosen_by_user"+idx] = *track.ChosenByUser
	}
}
