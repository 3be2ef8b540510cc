package lastfm

import (
	"errors"
	"fmt"
)

// APIError represents an error payload returned by the Last.fm API.
//
// APIError is only produced after a successful HTTP exchange whose JSON
// body carried an "error" member. Network failures and non-2xx statuses are
// reported as *TransportError instead.
type APIError struct {
	Code    int      // Last.fm error code
	Message string   // Error message from Last.fm
	Links   []string // Documentation links sent with some errors
}

// Error returns the error message.
func (e *APIError) Error() string {
	return fmt.Sprintf("lastfm: error %d: %s", e.Code, e.Message)
}

// Is reports whether target is an *APIError with the same code.
//
// This allows errors.Is(err, &lastfm.APIError{Code: lastfm.ErrCodeInvalidParameters}).
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Temporary returns true if the error is temporary and the request
// could succeed if issued again later.
//
// The client never retries on its own; this is information for callers.
// The following Last.fm error codes are considered temporary:
//   - 11: Service Offline
//   - 16: Service Temporarily Unavailable
//   - 29: Rate limit exceeded
func (e *APIError) Temporary() bool {
	switch e.Code {
	case ErrCodeServiceOffline, ErrCodeTempUnavailable, ErrCodeRateLimitExceeded:
		return true
	default:
		return false
	}
}

// Common Last.fm error codes.
const (
	ErrCodeInvalidService       = 2
	ErrCodeInvalidMethod        = 3
	ErrCodeAuthenticationFailed = 4
	ErrCodeInvalidFormat        = 5
	ErrCodeInvalidParameters    = 6
	ErrCodeInvalidResourceSpec  = 7
	ErrCodeOperationFailed      = 8
	ErrCodeInvalidSessionKey    = 9
	ErrCodeInvalidAPIKey        = 10
	ErrCodeServiceOffline       = 11
	ErrCodeSubscribersOnly      = 12
	ErrCodeInvalidSignature     = 13
	ErrCodeUnauthorizedToken    = 14
	ErrCodeExpiredToken         = 15
	ErrCodeTempUnavailable      = 16
	ErrCodeRateLimitExceeded    = 29
)

// TransportError reports a failed HTTP exchange: the request could not be
// sent, the connection broke, or the server answered with a non-2xx status.
type TransportError struct {
	Method     string // Last.fm method, e.g. "track.getInfo"
	StatusCode int    // HTTP status, zero when no response was received
	Body       string // Response body, truncated
	Err        error  // Underlying network error, if any
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("lastfm: %s: request failed: %v", e.Method, e.Err)
	}
	return fmt.Sprintf("lastfm: %s: unexpected status code: %d", e.Method, e.StatusCode)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// DecodeError reports a 2xx response whose body is not a JSON object.
type DecodeError struct {
	Method string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("lastfm: %s: failed to parse response: %v", e.Method, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// ConfigurationError is returned when the active credentials cannot serve
// the attempted call, for example a signed call without an API secret.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("lastfm: invalid configuration: %s %s", e.Field, e.Reason)
}

// InvalidOperationError is returned before any network I/O when a call is
// missing the parameters that identify its target.
type InvalidOperationError struct {
	Method string
	Reason string
}

func (e *InvalidOperationError) Error() string {
	if e.Method == "" {
		return "lastfm: invalid operation: " + e.Reason
	}
	return fmt.Sprintf("lastfm: invalid operation %s: %s", e.Method, e.Reason)
}

// Predefined errors for common cases.
var (
	// ErrNoMorePages is returned by Collection.Next and Collection.Prev when
	// there is no page in the requested direction.
	ErrNoMorePages = errors.New("lastfm: no more pages")

	// ErrDetachedCollection is returned when paging a Collection that was
	// not returned by a Client.
	ErrDetachedCollection = errors.New("lastfm: collection has no client to page with")

	// ErrInvalidConfig is returned when client configuration is invalid.
	ErrInvalidConfig = errors.New("lastfm: invalid configuration")
)

// IsTemporary reports whether err carries a temporary Last.fm API error.
func IsTemporary(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Temporary()
	}
	return false
}
