package cmd

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// executeCommand runs lfm with args against a fresh config directory and
// returns what it printed.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(resetFlags)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(""))
	rootCmd.SetArgs(append([]string{"--config-dir", t.TempDir()}, args...))

	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

// resetFlags restores every flag to its default so commands do not leak
// state into each other.
func resetFlags() {
	var walk func(c *cobra.Command)
	walk = func(c *cobra.Command) {
		c.Flags().VisitAll(func(f *pflag.Flag) {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		})
		for _, sub := range c.Commands() {
			walk(sub)
		}
	}
	walk(rootCmd)
	rootCmd.SetArgs(nil)
}

// fakeAPI starts a Last.fm endpoint that answers with reply and points the
// configuration at it.
func fakeAPI(t *testing.T, reply func(form url.Values) string) *atomic.Int32 {
	t.Helper()
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		if err := r.ParseForm(); err != nil {
			t.Errorf("failed to parse form: %v", err)
			return
		}
		_, _ = fmt.Fprint(w, reply(r.Form))
	}))
	t.Cleanup(server.Close)

	t.Setenv("LFM_LASTFM_API_KEY", "key")
	t.Setenv("LFM_LASTFM_API_SECRET", "secret")
	t.Setenv("LFM_LASTFM_SESSION_KEY", "session")
	t.Setenv("LFM_LASTFM_BASE_URL", server.URL)
	return &requests
}

func topArtistsPage(form url.Values) string {
	page := form.Get("page")
	if page == "" {
		page = "1"
	}
	return fmt.Sprintf(`{"topartists": {
		"artist": [{"name": "Artist %[1]s", "playcount": "10", "@attr": {"rank": "%[1]s"}}],
		"@attr": {"user": "rj", "page": "%[1]s", "perPage": "1", "totalPages": "3", "total": "3"}
	}}`, page)
}

func TestUserTopArtists(t *testing.T) {
	requests := fakeAPI(t, topArtistsPage)

	out, err := executeCommand(t, "user", "top-artists", "rj", "--limit", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Artist 1")
	assert.NotContains(t, out, "Artist 2")
	assert.Equal(t, int32(1), requests.Load())
}

func TestUserTopArtists_All(t *testing.T) {
	requests := fakeAPI(t, topArtistsPage)

	out, err := executeCommand(t, "user", "top-artists", "rj", "--all", "--format", "{{.Rank}} {{.Name}}")
	require.NoError(t, err)
	assert.Equal(t, "1 Artist 1\n2 Artist 2\n3 Artist 3\n", out)
	assert.Equal(t, int32(3), requests.Load())
}

func TestCommand_APIError(t *testing.T) {
	fakeAPI(t, func(form url.Values) string {
		return `{"error": 6, "message": "The artist you supplied could not be found"}`
	})

	_, err := executeCommand(t, "artist", "info", "Nobody")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "could not be found")
}

func TestCommand_MissingAPIKey(t *testing.T) {
	t.Setenv("LFM_LASTFM_API_KEY", "")
	t.Setenv("LASTFM_API_KEY", "")

	_, err := executeCommand(t, "artist", "info", "Muse")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "APIKey is required")
}

func TestScrobbleQueue(t *testing.T) {
	configDir := t.TempDir()
	at := time.Now().Add(-time.Hour).Format(time.RFC3339)

	run := func(args ...string) string {
		t.Helper()
		t.Cleanup(resetFlags)
		var out bytes.Buffer
		rootCmd.SetOut(&out)
		rootCmd.SetErr(&out)
		rootCmd.SetArgs(append([]string{"--config-dir", configDir}, args...))
		require.NoError(t, rootCmd.ExecuteContext(context.Background()))
		resetFlags()
		return out.String()
	}

	out := run("scrobble", "queue", "Radiohead", "Airbag", "--at", at, "--duration", "4m44s", "--played", "4m")
	assert.Contains(t, out, "Queued Radiohead - Airbag (#1)")

	out = run("scrobble", "status")
	assert.Contains(t, out, "Pending: 1 (0 failing)")
	assert.Contains(t, out, "Airbag")
}

func TestScrobbleQueue_Rules(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{
			name:    "not played long enough",
			args:    []string{"--duration", "4m44s", "--played", "1m"},
			wantErr: "not played long enough",
		},
		{
			name:    "too short",
			args:    []string{"--duration", "20s", "--played", "20s"},
			wantErr: "shorter than 30 seconds",
		},
		{
			name:    "too old",
			args:    []string{"--at", time.Now().Add(-15 * 24 * time.Hour).Format(time.RFC3339)},
			wantErr: "rejected by Last.fm",
		},
		{
			name:    "bad time",
			args:    []string{"--at", "tomorrow"},
			wantErr: "invalid --at",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"scrobble", "queue", "Radiohead", "Airbag"}, tt.args...)
			_, err := executeCommand(t, args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestScrobbleQueue_Force(t *testing.T) {
	out, err := executeCommand(t, "scrobble", "queue", "Radiohead", "Airbag",
		"--duration", "4m44s", "--played", "1m", "--force")
	require.NoError(t, err)
	assert.Contains(t, out, "Queued Radiohead - Airbag")
}

func TestScrobbleNow(t *testing.T) {
	fakeAPI(t, func(form url.Values) string {
		assert.Equal(t, "track.updateNowPlaying", form.Get("method"))
		assert.Equal(t, "session", form.Get("sk"))
		return fmt.Sprintf(`{"nowplaying":{"artist":{"#text":%q},"track":{"#text":%q},"ignoredMessage":{"code":"0","#text":""}}}`,
			form.Get("artist"), form.Get("track"))
	})

	out, err := executeCommand(t, "scrobble", "now", "Radiohead", "Airbag", "--album", "OK Computer")
	require.NoError(t, err)
	assert.Equal(t, "Now playing Radiohead - Airbag\n", out)
}
