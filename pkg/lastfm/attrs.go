package lastfm

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// attrs is a normalized JSON object viewed through the coercions models
// need. Lookups never fail: values that cannot be coerced yield the zero
// value, which absorbs the API's inconsistent "no data" sentinels.
type attrs map[string]any

func asAttrs(v any) attrs {
	m, _ := v.(map[string]any)
	return attrs(m)
}

func (a attrs) has(key string) bool {
	_, ok := a[key]
	return ok
}

func (a attrs) str(key string) string {
	return stringValue(a[key])
}

func (a attrs) integer(key string) int {
	return intValue(a[key])
}

func (a attrs) int64(key string) int64 {
	return int64Value(a[key])
}

func (a attrs) float(key string) float64 {
	return floatValue(a[key])
}

func (a attrs) boolean(key string) bool {
	return boolValue(a[key])
}

// sub returns the object under key, or nil.
func (a attrs) sub(key string) attrs {
	return asAttrs(a[key])
}

// list returns the value under key as a list. A single object becomes a
// one-element list since Last.fm collapses singleton lists.
func (a attrs) list(key string) []any {
	return listValue(a[key])
}

// nested returns the list found under outer.inner, accepting both the
// wire shape {"tags": {"tag": [...]}} and the flat {"tags": [...]}.
func (a attrs) nested(outer, inner string) []any {
	v := a[outer]
	if m, ok := v.(map[string]any); ok {
		return listValue(m[inner])
	}
	return listValue(v)
}

// path descends a dotted key path. The second result is false if any
// segment is missing.
func (a attrs) path(dotted string) (any, bool) {
	var cur any = map[string]any(a)
	for _, seg := range strings.Split(dotted, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[seg]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

func listValue(v any) []any {
	switch t := v.(type) {
	case nil:
		return nil
	case []any:
		return t
	case map[string]any:
		return []any{t}
	default:
		return nil
	}
}

// stringValue collapses {text, corrected} wrappers to their text.
func stringValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case map[string]any:
		if text, ok := t["text"]; ok {
			return stringValue(text)
		}
		return stringValue(t["name"])
	case []any:
		return ""
	default:
		return cast.ToString(t)
	}
}

func intValue(v any) int {
	n := int64Value(v)
	if n > math.MaxInt || n < math.MinInt {
		return 0
	}
	return int(n)
}

func int64Value(v any) int64 {
	switch t := v.(type) {
	case nil:
		return 0
	case json.Number:
		return parseInt(t.String())
	case string:
		return parseInt(t)
	case map[string]any:
		return int64Value(t["text"])
	case bool:
		if t {
			return 1
		}
		return 0
	default:
		return cast.ToInt64(t)
	}
}

func parseInt(s string) int64 {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	// float64(math.MaxInt64) rounds up to 2^63, which is out of range.
	if f, err := strconv.ParseFloat(s, 64); err == nil && f >= math.MinInt64 && f < math.MaxInt64 {
		return int64(f)
	}
	return 0
}

func floatValue(v any) float64 {
	switch t := v.(type) {
	case nil:
		return 0
	case json.Number:
		f, _ := t.Float64()
		return f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0
		}
		return f
	case map[string]any:
		return floatValue(t["text"])
	default:
		return cast.ToFloat64(t)
	}
}

func boolValue(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case json.Number:
		return parseInt(t.String()) != 0
	case string:
		s := strings.TrimSpace(t)
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f != 0
		}
		return cast.ToBool(s)
	case map[string]any:
		return boolValue(t["text"])
	default:
		return cast.ToBool(t)
	}
}

// fields builds the map returned by ToMap methods. Zero values are
// skipped so the result only carries populated fields.
type fields map[string]any

func (f fields) str(key, v string) {
	if v != "" {
		f[key] = v
	}
}

func (f fields) integer(key string, v int) {
	if v != 0 {
		f[key] = v
	}
}

func (f fields) int64(key string, v int64) {
	if v != 0 {
		f[key] = v
	}
}

func (f fields) float(key string, v float64) {
	if v != 0 {
		f[key] = v
	}
}

func (f fields) boolean(key string, v bool) {
	if v {
		f[key] = true
	}
}

func (f fields) sub(key string, v map[string]any) {
	if len(v) > 0 {
		f[key] = v
	}
}

func (f fields) list(key string, v []any) {
	if len(v) > 0 {
		f[key] = v
	}
}
