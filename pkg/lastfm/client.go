package lastfm

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/imroc/req/v3"
	"github.com/rs/zerolog"
)

// Config holds client configuration.
type Config struct {
	APIKey     string // Required: Last.fm API key
	APISecret  string // Optional: Last.fm API secret, required for signed calls
	Username   string // Optional: account name for mobile sessions
	Password   string // Optional: account password, hashed on construction
	SessionKey string // Optional: Session key for authenticated requests

	HTTPClient      *req.Client     // Optional: HTTP client (defaults to req.C())
	BaseURL         string          // Optional: Base URL for API (defaults to Last.fm API, used for testing)
	Logger          *zerolog.Logger // Optional: debug logging, disabled by default
	Metrics         *Metrics        // Optional: prometheus collectors
	SessionProvider SessionProvider // Optional: defaults to mobile sessions via Auth()
	UserAgent       string          // Optional: defaults to DefaultUserAgent
}

// SessionProvider obtains a session key for credentials that lack one.
// Stateful calls use it when neither the call nor the credentials carry sk.
type SessionProvider interface {
	SessionFor(ctx context.Context, creds Credentials) (string, error)
}

// Client is the main entry point for Last.fm API operations.
type Client struct {
	creds    atomic.Pointer[Credentials]
	http     *req.Client
	baseURL  string
	logger   zerolog.Logger
	metrics  *Metrics
	sessions SessionProvider

	auth     *AuthService
	scrobble *ScrobbleService
	track    *TrackService
	artist   *ArtistService
	album    *AlbumService
	tag      *TagService
	user     *UserService
	chart    *ChartService
}

const (
	// DefaultBaseURL is the default Last.fm API endpoint.
	DefaultBaseURL = "https://ws.audioscrobbler.com/2.0/"

	// DefaultUserAgent identifies the client to Last.fm.
	DefaultUserAgent = "lfm/1.0"
)

// NewClient creates a new Last.fm API client.
//
// Returns an error if the API key is missing.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: APIKey is required", ErrInvalidConfig)
	}

	creds := NewCredentials(cfg.APIKey, cfg.APISecret, cfg.Username, cfg.Password)
	creds.SessionKey = cfg.SessionKey
	return NewClientWithCredentials(creds, cfg)
}

// NewClientWithCredentials creates a client around pre-built credentials.
// The credential fields of cfg are ignored.
func NewClientWithCredentials(creds Credentials, cfg Config) (*Client, error) {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		userAgent := cfg.UserAgent
		if userAgent == "" {
			userAgent = DefaultUserAgent
		}
		httpClient = req.C().SetUserAgent(userAgent)
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = cfg.Logger.With().Str("component", "lastfm").Logger()
	}

	c := &Client{
		http:    httpClient,
		baseURL: baseURL,
		logger:  logger,
		metrics: cfg.Metrics,
	}
	c.creds.Store(&creds)

	c.auth = &AuthService{client: c}
	c.scrobble = &ScrobbleService{client: c}
	c.track = &TrackService{client: c}
	c.artist = &ArtistService{client: c}
	c.album = &AlbumService{client: c}
	c.tag = &TagService{client: c}
	c.user = &UserService{client: c}
	c.chart = &ChartService{client: c}

	c.sessions = cfg.SessionProvider
	if c.sessions == nil {
		c.sessions = c.auth
	}

	return c, nil
}

// DefaultClient creates a client from the LASTFM_* environment variables.
func DefaultClient() (*Client, error) {
	creds := CredentialsFromEnv()
	if creds.APIKey == "" {
		return nil, fmt.Errorf("%w: %s is not set", ErrInvalidConfig, EnvAPIKey)
	}
	return NewClientWithCredentials(creds, Config{})
}

// Auth returns the authentication service.
func (c *Client) Auth() *AuthService {
	return c.auth
}

// Scrobble returns the scrobbling service.
func (c *Client) Scrobble() *ScrobbleService {
	return c.scrobble
}

// Track returns the track service.
func (c *Client) Track() *TrackService {
	return c.track
}

// Artist returns the artist service.
func (c *Client) Artist() *ArtistService {
	return c.artist
}

// Album returns the album service.
func (c *Client) Album() *AlbumService {
	return c.album
}

// Tag returns the tag service.
func (c *Client) Tag() *TagService {
	return c.tag
}

// User returns the user service.
func (c *Client) User() *UserService {
	return c.user
}

// Chart returns the global chart service.
func (c *Client) Chart() *ChartService {
	return c.chart
}

// Credentials returns a copy of the active credentials.
func (c *Client) Credentials() Credentials {
	return *c.creds.Load()
}

// Reconfigure atomically replaces the active credentials. Any session key
// held by the previous credentials is discarded.
func (c *Client) Reconfigure(apiKey, apiSecret, username, password string) {
	creds := NewCredentials(apiKey, apiSecret, username, password)
	c.creds.Store(&creds)
}

// SetSessionKey sets the session key for authenticated requests.
func (c *Client) SetSessionKey(key string) {
	creds := c.Credentials().WithSessionKey(key)
	c.creds.Store(&creds)
}

// GetSessionKey returns the current session key.
func (c *Client) GetSessionKey() string {
	return c.Credentials().SessionKey
}

// do builds and executes r, returning the normalized payload.
func (c *Client) do(ctx context.Context, r Request) (map[string]any, error) {
	wire, err := c.build(ctx, r)
	if err != nil {
		return nil, err
	}
	return c.execute(ctx, r.Verb, wire)
}
