package scrobbler

import (
	"errors"
	"testing"
	"time"
)

func TestCheckPlay(t *testing.T) {
	tests := []struct {
		name          string
		trackDuration time.Duration
		played        time.Duration
		wantErr       error
	}{
		{
			name:          "track too short (29 seconds)",
			trackDuration: 29 * time.Second,
			played:        29 * time.Second,
			wantErr:       ErrTrackTooShort,
		},
		{
			name:          "track exactly 30 seconds, played 15 seconds (50%)",
			trackDuration: 30 * time.Second,
			played:        15 * time.Second,
		},
		{
			name:          "track exactly 30 seconds, played 14 seconds",
			trackDuration: 30 * time.Second,
			played:        14 * time.Second,
			wantErr:       ErrNotPlayedEnough,
		},
		{
			name:          "3 minute track, played 90 seconds (50%)",
			trackDuration: 3 * time.Minute,
			played:        90 * time.Second,
		},
		{
			name:          "3 minute track, played 89 seconds",
			trackDuration: 3 * time.Minute,
			played:        89 * time.Second,
			wantErr:       ErrNotPlayedEnough,
		},
		{
			name:          "10 minute track, played 4 minutes (cap)",
			trackDuration: 10 * time.Minute,
			played:        4 * time.Minute,
		},
		{
			name:          "10 minute track, played 3:59",
			trackDuration: 10 * time.Minute,
			played:        4*time.Minute - time.Second,
			wantErr:       ErrNotPlayedEnough,
		},
		{
			name:          "unknown duration",
			trackDuration: 0,
			played:        0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckPlay(tt.trackDuration, tt.played)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("CheckPlay(%v, %v) = %v, want nil", tt.trackDuration, tt.played, err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("CheckPlay(%v, %v) = %v, want %v", tt.trackDuration, tt.played, err, tt.wantErr)
			}
		})
	}
}

func TestThreshold(t *testing.T) {
	tests := []struct {
		trackDuration time.Duration
		want          time.Duration
	}{
		{trackDuration: 20 * time.Second, want: -1},
		{trackDuration: 30 * time.Second, want: 15 * time.Second},
		{trackDuration: 3 * time.Minute, want: 90 * time.Second},
		{trackDuration: 8 * time.Minute, want: 4 * time.Minute},
		{trackDuration: time.Hour, want: 4 * time.Minute},
	}

	for _, tt := range tests {
		if got := Threshold(tt.trackDuration); got != tt.want {
			t.Errorf("Threshold(%v) = %v, want %v", tt.trackDuration, got, tt.want)
		}
	}
}

func TestCheckPlay_Message(t *testing.T) {
	err := CheckPlay(3*time.Minute, 30*time.Second)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	want := "track was not played long enough: played 30s of the required 1m30s"
	if err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}
}
