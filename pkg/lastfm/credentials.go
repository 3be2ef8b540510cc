package lastfm

import (
	"crypto/md5"
	"encoding/hex"
	"os"
)

// Environment variables read by CredentialsFromEnv.
const (
	EnvAPIKey     = "LASTFM_API_KEY"
	EnvAPISecret  = "LASTFM_API_SECRET"
	EnvUsername   = "LASTFM_USERNAME"
	EnvPassword   = "LASTFM_PASSWORD"
	EnvSessionKey = "LASTFM_SESSION_KEY"
)

// Credentials identify the application and, optionally, the user on whose
// behalf calls are made.
//
// PasswordHash is always the md5 digest of the password, never the password
// itself. Credentials are values: use WithSessionKey to derive a copy once a
// session has been obtained.
type Credentials struct {
	APIKey       string
	APISecret    string
	Username     string
	PasswordHash string
	SessionKey   string
}

// NewCredentials builds credentials from explicit values, hashing password.
//
// An empty password yields an empty PasswordHash rather than the digest of
// the empty string, so "no password" stays distinguishable.
func NewCredentials(apiKey, apiSecret, username, password string) Credentials {
	return Credentials{
		APIKey:       apiKey,
		APISecret:    apiSecret,
		Username:     username,
		PasswordHash: HashPassword(password),
	}
}

// CredentialsFromEnv builds credentials from the LASTFM_* environment
// variables. Missing variables leave the matching fields empty.
func CredentialsFromEnv() Credentials {
	creds := NewCredentials(
		os.Getenv(EnvAPIKey),
		os.Getenv(EnvAPISecret),
		os.Getenv(EnvUsername),
		os.Getenv(EnvPassword),
	)
	creds.SessionKey = os.Getenv(EnvSessionKey)
	return creds
}

// WithSessionKey returns a copy of c carrying key.
func (c Credentials) WithSessionKey(key string) Credentials {
	c.SessionKey = key
	return c
}

// HashPassword returns the hex md5 digest of password, or "" for "".
func HashPassword(password string) string {
	if password == "" {
		return ""
	}
	return md5Hex(password)
}

// authToken is the mobile-session token: md5(username + md5(password)).
func (c Credentials) authToken() string {
	return md5Hex(c.Username + c.PasswordHash)
}

func md5Hex(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}
