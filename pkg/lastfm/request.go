package lastfm

import (
	"context"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// Params holds the parameters of a call. A nil value means "not set" and is
// never transmitted.
type Params map[string]any

// Clone returns a shallow copy of p.
func (p Params) Clone() Params {
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Int returns the value of key coerced to an int, or 0.
func (p Params) Int(key string) int {
	return intValue(p[key])
}

// Request describes one Last.fm call before it is put on the wire.
type Request struct {
	Namespace       string // e.g. "track"
	Operation       string // e.g. "getInfo" or "get_info"
	Verb            string // http.MethodGet or http.MethodPost
	Signed          bool   // add api_sig
	RequiresAuth    bool   // add username and authToken
	RequiresSession bool   // add sk
	Params          Params

	// credentials overrides the client's active credentials.
	credentials *Credentials
}

// Method returns the remote method name, e.g. "track.getInfo".
func (r Request) Method() string {
	return strings.ToLower(r.Namespace) + "." + camelCase(r.Operation)
}

func (r Request) withPage(page int) Request {
	r.Params = r.Params.Clone()
	r.Params["page"] = page
	return r
}

// build assembles the wire parameters for r:
//
//  1. nil parameters are dropped and names converted to remote casing
//  2. method, format and api_key are injected
//  3. username and authToken are added for authenticated calls
//  4. a session key is resolved for stateful calls
//  5. every value is cast to its wire form
//  6. signed calls and calls carrying sk get api_sig
func (c *Client) build(ctx context.Context, r Request) (map[string]string, error) {
	if r.Namespace == "" || r.Operation == "" {
		return nil, &InvalidOperationError{
			Method: r.Namespace + "." + r.Operation,
			Reason: "namespace and operation are required",
		}
	}

	creds := c.Credentials()
	if r.credentials != nil {
		creds = *r.credentials
	}

	raw := make(Params, len(r.Params)+6)
	for k, v := range r.Params {
		if isNone(v) {
			continue
		}
		raw[RemoteParamName(k)] = v
	}
	raw["method"] = r.Method()
	raw["format"] = "json"

	if creds.APIKey == "" && (r.Signed || r.RequiresAuth || r.RequiresSession) {
		return nil, &ConfigurationError{Field: "api_key", Reason: "is required for " + r.Method()}
	}
	raw["api_key"] = creds.APIKey

	if r.RequiresAuth {
		if creds.Username == "" || creds.PasswordHash == "" {
			return nil, &ConfigurationError{Field: "username/password", Reason: "are required for " + r.Method()}
		}
		raw["username"] = creds.Username
		raw["authToken"] = creds.authToken()
	}

	if r.RequiresSession && wireValue(raw["sk"]) == "" {
		key, err := c.resolveSessionKey(ctx, creds)
		if err != nil {
			return nil, err
		}
		raw["sk"] = key
	}

	wire := make(map[string]string, len(raw)+1)
	for k, v := range raw {
		wire[k] = wireValue(v)
	}

	if r.Signed || wire["sk"] != "" {
		if creds.APISecret == "" {
			return nil, &ConfigurationError{Field: "api_secret", Reason: "is required to sign " + r.Method()}
		}
		wire["api_sig"] = calculateSignature(wire, creds.APISecret)
	}

	return wire, nil
}

// resolveSessionKey returns the stored session key or asks the session
// provider for one. The key is not cached.
func (c *Client) resolveSessionKey(ctx context.Context, creds Credentials) (string, error) {
	if creds.SessionKey != "" {
		return creds.SessionKey, nil
	}
	if c.sessions == nil {
		return "", &ConfigurationError{Field: "session_key", Reason: "is required and no session provider is configured"}
	}

	c.logger.Debug().Str("username", creds.Username).Msg("Requesting session key")
	key, err := c.sessions.SessionFor(ctx, creds)
	if err != nil {
		return "", fmt.Errorf("lastfm: failed to obtain session key: %w", err)
	}
	if key == "" {
		return "", &ConfigurationError{Field: "session_key", Reason: "provider returned an empty key"}
	}
	return key, nil
}

// isNone reports whether v is nil or a nil pointer.
func isNone(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

// wireValue renders v the way Last.fm expects it: booleans as "1"/"0",
// times as unix seconds, everything else as its string form.
func wireValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		if t {
			return "1"
		}
		return "0"
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case time.Time:
		return strconv.FormatInt(t.Unix(), 10)
	case time.Duration:
		return strconv.FormatInt(int64(t.Seconds()), 10)
	case []string:
		return strings.Join(t, ",")
	case fmt.Stringer:
		return t.String()
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return ""
		}
		return wireValue(rv.Elem().Interface())
	}
	return cast.ToString(v)
}

// get and post describe the two request shapes used by resource services.
func get(namespace, operation string, params Params) Request {
	return Request{Namespace: namespace, Operation: operation, Verb: http.MethodGet, Params: params}
}

func post(namespace, operation string, params Params) Request {
	return Request{
		Namespace:       namespace,
		Operation:       operation,
		Verb:            http.MethodPost,
		Signed:          true,
		RequiresSession: true,
		Params:          params,
	}
}

// optString and optInt map zero values to nil so they are not transmitted.
func optString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func optInt(n int) any {
	if n == 0 {
		return nil
	}
	return n
}
