package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/jfmyers9/lfm/pkg/lastfm"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	// Go template applied to each result when --format is not given.
	// Empty prints a table.
	OutputFormat string

	// Path of the offline scrobble queue database.
	// Default: <config dir>/queue.db
	QueueDB string

	// Log level for stderr logging (debug, info, warn, error).
	LogLevel string

	// Last.fm API credentials
	LastFM LastFMConfig

	dir string
}

// LastFMConfig holds Last.fm specific configuration
type LastFMConfig struct {
	APIKey     string
	APISecret  string
	Username   string
	Password   string
	SessionKey string
	BaseURL    string
}

// Load reads configuration from the default config directory, a .env file
// in the working directory, and the environment.
func Load() (*Config, error) {
	return LoadFrom(GetConfigDir())
}

// LoadFrom reads config.yaml from dir. Environment variables override the
// file: LFM_OUTPUT_FORMAT, LFM_LASTFM_API_KEY and so on. The LASTFM_*
// variables understood by the lastfm package are accepted as well.
func LoadFrom(dir string) (*Config, error) {
	// .env is optional
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	v.SetDefault("queue_db", filepath.Join(dir, "queue.db"))
	v.SetDefault("log_level", "warn")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	v.SetEnvPrefix("LFM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindings := map[string]string{
		"lastfm.api_key":     lastfm.EnvAPIKey,
		"lastfm.api_secret":  lastfm.EnvAPISecret,
		"lastfm.username":    lastfm.EnvUsername,
		"lastfm.password":    lastfm.EnvPassword,
		"lastfm.session_key": lastfm.EnvSessionKey,
	}
	for key, env := range bindings {
		envKey := "LFM_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, envKey, env); err != nil {
			return nil, err
		}
	}

	return &Config{
		OutputFormat: v.GetString("output_format"),
		QueueDB:      v.GetString("queue_db"),
		LogLevel:     v.GetString("log_level"),
		LastFM: LastFMConfig{
			APIKey:     v.GetString("lastfm.api_key"),
			APISecret:  v.GetString("lastfm.api_secret"),
			Username:   v.GetString("lastfm.username"),
			Password:   v.GetString("lastfm.password"),
			SessionKey: v.GetString("lastfm.session_key"),
			BaseURL:    v.GetString("lastfm.base_url"),
		},
		dir: dir,
	}, nil
}

// GetConfigDir returns ~/.config/lfm, creating it if needed.
func GetConfigDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "."
	}

	configDir := filepath.Join(homeDir, ".config", "lfm")
	_ = os.MkdirAll(configDir, 0o700)
	return configDir
}

// Path returns the config file Save writes to.
func (c *Config) Path() string {
	dir := c.dir
	if dir == "" {
		dir = GetConfigDir()
	}
	return filepath.Join(dir, "config.yaml")
}

// Client returns the lastfm client configuration for these settings.
func (c *Config) Client() lastfm.Config {
	return lastfm.Config{
		APIKey:     c.LastFM.APIKey,
		APISecret:  c.LastFM.APISecret,
		Username:   c.LastFM.Username,
		Password:   c.LastFM.Password,
		SessionKey: c.LastFM.SessionKey,
		BaseURL:    c.LastFM.BaseURL,
	}
}

// Save writes configuration to file. The password is never written; a
// session key obtained from it is.
func (c *Config) Save() error {
	v := viper.New()

	v.Set("output_format", c.OutputFormat)
	v.Set("queue_db", c.QueueDB)
	v.Set("log_level", c.LogLevel)
	v.Set("lastfm.api_key", c.LastFM.APIKey)
	v.Set("lastfm.api_secret", c.LastFM.APISecret)
	v.Set("lastfm.username", c.LastFM.Username)
	v.Set("lastfm.session_key", c.LastFM.SessionKey)
	if c.LastFM.BaseURL != "" {
		v.Set("lastfm.base_url", c.LastFM.BaseURL)
	}

	path := c.Path()
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	if err := v.WriteConfigAs(path); err != nil {
		return err
	}
	// The file holds the API secret and session key.
	return os.Chmod(path, 0o600)
}
