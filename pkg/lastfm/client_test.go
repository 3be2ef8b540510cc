package lastfm

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"unicode/utf8"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAPI is an httptest server that records every call and answers with
// a canned body.
type fakeAPI struct {
	*httptest.Server

	mu     sync.Mutex
	calls  []url.Values
	verbs  []string
	status int
	body   string
	reply  func(form url.Values) string
}

func newFakeAPI(t *testing.T, body string) *fakeAPI {
	t.Helper()
	return startFakeAPI(t, &fakeAPI{status: http.StatusOK, body: body})
}

// newFakeAPIFunc answers each call with reply(form).
func newFakeAPIFunc(t *testing.T, reply func(form url.Values) string) *fakeAPI {
	t.Helper()
	return startFakeAPI(t, &fakeAPI{status: http.StatusOK, reply: reply})
}

func startFakeAPI(t *testing.T, api *fakeAPI) *fakeAPI {
	t.Helper()
	api.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("failed to parse form: %v", err)
		}

		api.mu.Lock()
		api.calls = append(api.calls, r.Form)
		api.verbs = append(api.verbs, r.Method)
		status, out := api.status, api.body
		if api.reply != nil {
			out = api.reply(r.Form)
		}
		api.mu.Unlock()

		w.WriteHeader(status)
		if _, err := w.Write([]byte(out)); err != nil {
			t.Errorf("failed to write response body: %v", err)
		}
	}))
	t.Cleanup(api.Close)
	return api
}

// respond changes the canned answer for later calls.
func (f *fakeAPI) respond(status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status, f.body = status, body
}

func (f *fakeAPI) last(t *testing.T) url.Values {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.calls, "expected at least one request")
	return f.calls[len(f.calls)-1]
}

func (f *fakeAPI) lastVerb() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.verbs) == 0 {
		return ""
	}
	return f.verbs[len(f.verbs)-1]
}

func (f *fakeAPI) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func newTestClient(t *testing.T, api *fakeAPI, cfg Config) *Client {
	t.Helper()
	if cfg.APIKey == "" {
		cfg.APIKey = "test-api-key"
	}
	if api != nil {
		cfg.BaseURL = api.URL
	}
	client, err := NewClient(cfg)
	require.NoError(t, err)
	return client
}

func TestNewClient(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "api key only", cfg: Config{APIKey: "key"}},
		{name: "full credentials", cfg: Config{APIKey: "key", APISecret: "secret", Username: "rj", Password: "pw"}},
		{name: "missing api key", cfg: Config{APISecret: "secret"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.cfg)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidConfig)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.cfg.APIKey, client.Credentials().APIKey)
			assert.Equal(t, HashPassword(tt.cfg.Password), client.Credentials().PasswordHash)
		})
	}
}

func TestDefaultClient(t *testing.T) {
	t.Setenv(EnvAPIKey, "env-key")
	t.Setenv(EnvAPISecret, "env-secret")
	t.Setenv(EnvUsername, "rj")
	t.Setenv(EnvPassword, "hunter2")
	t.Setenv(EnvSessionKey, "env-sk")

	client, err := DefaultClient()
	require.NoError(t, err)

	creds := client.Credentials()
	assert.Equal(t, "env-key", creds.APIKey)
	assert.Equal(t, "env-secret", creds.APISecret)
	assert.Equal(t, "rj", creds.Username)
	assert.Equal(t, md5Hex("hunter2"), creds.PasswordHash)
	assert.Equal(t, "env-sk", client.GetSessionKey())

	t.Setenv(EnvAPIKey, "")
	_, err = DefaultClient()
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestClient_Reconfigure(t *testing.T) {
	client := newTestClient(t, nil, Config{APIKey: "old", SessionKey: "sk"})

	client.Reconfigure("new-key", "new-secret", "rj", "pw")

	creds := client.Credentials()
	assert.Equal(t, "new-key", creds.APIKey)
	assert.Equal(t, "new-secret", creds.APISecret)
	assert.Equal(t, "rj", creds.Username)
	assert.Equal(t, md5Hex("pw"), creds.PasswordHash)
	assert.Empty(t, creds.SessionKey, "reconfigure drops the old session key")

	client.SetSessionKey("fresh")
	assert.Equal(t, "fresh", client.GetSessionKey())
	assert.Equal(t, "new-key", client.Credentials().APIKey)
}

func TestClient_ReconfigureConcurrent(t *testing.T) {
	client := newTestClient(t, nil, Config{APIKey: "a"})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			client.Reconfigure("b", "secret-b", "user-b", "")
		}()
		go func() {
			defer wg.Done()
			creds := client.Credentials()
			// Readers see one complete set of credentials or the other.
			if creds.APIKey == "b" {
				assert.Equal(t, "secret-b", creds.APISecret)
			} else {
				assert.Empty(t, creds.APISecret)
			}
		}()
	}
	wg.Wait()
}

func TestClient_APIError(t *testing.T) {
	api := newFakeAPI(t, `{"error": 6, "message": "Track not found", "links": []}`)
	client := newTestClient(t, api, Config{})

	_, err := client.Track().GetInfo(context.Background(), TrackQuery{Artist: "Nobody", Track: "Nothing"})
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 6, apiErr.Code)
	assert.Equal(t, "Track not found", apiErr.Message)
	assert.Equal(t, []string{}, apiErr.Links)
	assert.False(t, apiErr.Temporary())
	assert.ErrorIs(t, err, &APIError{Code: ErrCodeInvalidParameters})
}

func TestClient_TemporaryAPIError(t *testing.T) {
	api := newFakeAPI(t, `{"error": 29, "message": "Rate Limit Exceeded"}`)
	client := newTestClient(t, api, Config{})

	_, err := client.Chart().GetTopArtists(context.Background(), ListOptions{})
	require.Error(t, err)
	assert.True(t, IsTemporary(err))
	assert.Equal(t, 1, api.count(), "no retries are attempted")
}

func TestClient_TransportError(t *testing.T) {
	api := newFakeAPI(t, "")
	api.respond(http.StatusBadGateway, "<html>bad gateway</html>")
	client := newTestClient(t, api, Config{})

	_, err := client.Artist().GetInfo(context.Background(), ArtistQuery{Artist: "Muse"})
	require.Error(t, err)

	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Equal(t, http.StatusBadGateway, transportErr.StatusCode)
	assert.Equal(t, "artist.getInfo", transportErr.Method)
	assert.Contains(t, transportErr.Body, "bad gateway")

	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr), "error bodies are not parsed")
}

func TestClient_TransportErrorTruncatesBody(t *testing.T) {
	api := newFakeAPI(t, "")
	api.respond(http.StatusBadGateway, "x"+strings.Repeat("é", maxErrorBody))
	client := newTestClient(t, api, Config{})

	_, err := client.Artist().GetInfo(context.Background(), ArtistQuery{Artist: "Muse"})

	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.LessOrEqual(t, len(transportErr.Body), maxErrorBody)
	assert.True(t, utf8.ValidString(transportErr.Body), "body was cut inside a rune")
	assert.Equal(t, maxErrorBody-1, len(transportErr.Body))
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"exact", 5, "exact"},
		{"abcdef", 3, "abc"},
		{"aé", 2, "a"},
		{"日本", 4, "日"},
		{"日本", 2, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, truncate(tt.in, tt.n), "truncate(%q, %d)", tt.in, tt.n)
	}
}

func TestClient_TransportErrorWithJSONBody(t *testing.T) {
	api := newFakeAPI(t, "")
	api.respond(http.StatusServiceUnavailable, `{"error": 11, "message": "Service Offline"}`)
	client := newTestClient(t, api, Config{})

	_, err := client.Tag().GetInfo(context.Background(), "rock")

	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Equal(t, http.StatusServiceUnavailable, transportErr.StatusCode)
}

func TestClient_DecodeError(t *testing.T) {
	api := newFakeAPI(t, `not json`)
	client := newTestClient(t, api, Config{})

	_, err := client.Tag().GetInfo(context.Background(), "rock")

	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Equal(t, "tag.getInfo", decodeErr.Method)
}

func TestClient_ContextCancellation(t *testing.T) {
	api := newFakeAPI(t, `{}`)
	client := newTestClient(t, api, Config{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Tag().GetInfo(ctx, "rock")
	require.Error(t, err)

	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Contains(t, err.Error(), "context canceled")
}

func TestClient_Metrics(t *testing.T) {
	api := newFakeAPI(t, `{"tag": {"name": "rock", "reach": "1000"}}`)

	reg := prometheus.NewRegistry()
	metrics, err := NewMetrics(reg)
	require.NoError(t, err)

	client := newTestClient(t, api, Config{Metrics: metrics})

	_, err = client.Tag().GetInfo(context.Background(), "rock")
	require.NoError(t, err)

	api.respond(http.StatusOK, `{"error": 6, "message": "Tag not found"}`)
	_, err = client.Tag().GetInfo(context.Background(), "nope")
	require.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.requests.WithLabelValues("tag.getInfo", outcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.requests.WithLabelValues("tag.getInfo", outcomeAPI)))
	assert.Equal(t, 1, testutil.CollectAndCount(metrics.duration))

	_, err = NewMetrics(reg)
	assert.Error(t, err, "collectors cannot be registered twice")
}

func TestClient_Logger(t *testing.T) {
	api := newFakeAPI(t, `{"tag": {"name": "rock"}}`)

	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)
	client := newTestClient(t, api, Config{Logger: &logger})

	_, err := client.Tag().GetInfo(context.Background(), "rock")
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `"component":"lastfm"`)
	assert.Contains(t, out, `"method":"tag.getInfo"`)
	assert.Contains(t, out, `"outcome":"ok"`)
	assert.False(t, strings.Contains(out, "test-api-key"), "credentials must not be logged")
}
