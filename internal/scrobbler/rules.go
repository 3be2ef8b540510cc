package scrobbler

import (
	"errors"
	"fmt"
	"time"
)

// Last.fm scrobbling rules
const (
	// MinimumTrackDuration is the shortest track Last.fm accepts.
	MinimumTrackDuration = 30 * time.Second

	// ScrobblePercentage is the share of a track that must be played.
	ScrobblePercentage = 0.5

	// MaxScrobbleThreshold caps the required play time for long tracks.
	MaxScrobbleThreshold = 4 * time.Minute
)

var (
	ErrTrackTooShort   = errors.New("track is shorter than 30 seconds")
	ErrNotPlayedEnough = errors.New("track was not played long enough")
)

// Threshold returns how long a track of the given length must play before
// it counts as a scrobble: half its length, capped at four minutes. Tracks
// too short to scrobble return a negative duration.
func Threshold(trackDuration time.Duration) time.Duration {
	if trackDuration < MinimumTrackDuration {
		return -1
	}
	return min(time.Duration(float64(trackDuration)*ScrobblePercentage), MaxScrobbleThreshold)
}

// CheckPlay reports whether a play qualifies as a scrobble. An unknown
// track length (zero) passes.
func CheckPlay(trackDuration, played time.Duration) error {
	if trackDuration == 0 {
		return nil
	}
	threshold := Threshold(trackDuration)
	if threshold < 0 {
		return ErrTrackTooShort
	}
	if played < threshold {
		return fmt.Errorf("%w: played %s of the required %s", ErrNotPlayedEnough,
			played.Round(time.Second), threshold.Round(time.Second))
	}
	return nil
}
