package lastfm

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// fieldAliases maps Last.fm response keys to the canonical names models use.
// No canonical name appears as a source key, which keeps normalization
// idempotent.
var fieldAliases = map[string]string{
	"@attr":                   "attr",
	"#text":                   "text",
	"uts":                     "timestamp",
	"unixtime":                "timestamp",
	"perPage":                 "limit",
	"totalPages":              "total_pages",
	"startPage":               "page",
	"albummatches":            "albums",
	"artistmatches":           "artists",
	"trackmatches":            "tracks",
	"to":                      "to_date",
	"from":                    "from_date",
	"for":                     "user",
	"tagcount":                "tag_count",
	"realname":                "real_name",
	"ontour":                  "on_tour",
	"num_res":                 "limit",
	"title":                   "name",
	"opensearch:totalResults": "total",
	"opensearch:itemsPerPage": "limit",
	"opensearch:startIndex":   "start_index",
	"opensearch:Query":        "query",
	"userplaycount":           "user_playcount",
	"userloved":               "loved",
	"albumArtist":             "album_artist",
	"ignoredMessage":          "ignored_message",
}

// ignoredFields are dropped wherever they appear. Last.fm reports them
// inconsistently across endpoints and no model relies on them.
var ignoredFields = map[string]struct{}{
	"subscriber":     {},
	"type":           {},
	"scrobblesource": {},
	"bootstrap":      {},
	"streamable":     {},
}

// canonicalKey returns the canonical name for key, or false if the key
// must be dropped.
func canonicalKey(key string) (string, bool) {
	if _, drop := ignoredFields[key]; drop {
		return "", false
	}
	if alias, ok := fieldAliases[key]; ok {
		key = alias
	}
	if _, drop := ignoredFields[key]; drop {
		return "", false
	}
	return key, true
}

// Normalize rewrites every key of m, recursively, through the alias table
// and drops ignored fields. Values are not coerced.
//
// Normalize is idempotent. When two source keys collapse onto the same
// canonical key the one sorting last wins; payloads decoded from the wire
// keep document order instead (see decodeNormalized).
func Normalize(m map[string]any) map[string]any {
	out, _ := normalizeTree(m).(map[string]any)
	return out
}

func normalizeTree(v any) any {
	switch t := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		out := make(map[string]any, len(t))
		for _, k := range keys {
			canon, ok := canonicalKey(k)
			if !ok {
				continue
			}
			out[canon] = normalizeTree(t[k])
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = normalizeTree(item)
		}
		return out
	default:
		return v
	}
}

// decodeNormalized parses a JSON document, normalizing each object as it is
// completed. Objects are built bottom-up from the token stream so duplicate
// canonical keys resolve to the last one in document order. Numbers are
// kept as json.Number; models coerce them.
func decodeNormalized(r io.Reader) (any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	v, err := decodeValue(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("unexpected data after JSON document")
	}
	return v, nil
}

func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}

	switch delim {
	case '{':
		obj := make(map[string]any)
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, ok := keyTok.(string)
			if !ok {
				return nil, fmt.Errorf("unexpected object key %v", keyTok)
			}
			val, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			if canon, ok := canonicalKey(key); ok {
				obj[canon] = val
			}
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return obj, nil
	case '[':
		list := make([]any, 0)
		for dec.More() {
			val, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			list = append(list, val)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return list, nil
	default:
		return nil, fmt.Errorf("unexpected delimiter %v", delim)
	}
}

// remoteParamNames lists canonical parameter names whose wire name is not
// their plain camelCase form.
var remoteParamNames = map[string]string{
	"from_date": "from",
	"to_date":   "to",
}

// RemoteParamName converts a canonical snake_case parameter name into the
// casing Last.fm expects, e.g. "album_artist" becomes "albumArtist" and
// "track_number[3]" becomes "trackNumber[3]". Names without underscores are
// returned unchanged.
func RemoteParamName(name string) string {
	base, suffix := name, ""
	if i := strings.IndexByte(name, '['); i >= 0 {
		base, suffix = name[:i], name[i:]
	}
	if remote, ok := remoteParamNames[base]; ok {
		return remote + suffix
	}
	if !strings.Contains(base, "_") {
		return name
	}
	return camelCase(base) + suffix
}

// camelCase joins snake_case words as lowerCamelCase. Words that are
// already camel-cased keep their inner capitals.
func camelCase(s string) string {
	parts := strings.Split(s, "_")
	var b strings.Builder
	for i, part := range parts {
		if part == "" {
			continue
		}
		r, size := utf8.DecodeRuneInString(part)
		if i == 0 || b.Len() == 0 {
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(unicode.ToUpper(r))
		}
		b.WriteString(part[size:])
	}
	return b.String()
}
