package lastfm

import (
	"sort"
	"strings"
)

// calculateSignature generates an MD5 signature for Last.fm API requests.
//
// The signature is calculated by:
// 1. Sorting parameter keys alphabetically
// 2. Concatenating key+value pairs (e.g., "keyAvalueAkeyBvalueB")
// 3. Appending the API secret
// 4. Taking the MD5 hash of the result
//
// The format and api_sig parameters are never part of the signed string,
// and pairs with an empty value are skipped.
func calculateSignature(params map[string]string, secret string) string {
	keys := make([]string, 0, len(params))
	for k, v := range params {
		if k == "format" || k == "api_sig" || v == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sig strings.Builder
	for _, k := range keys {
		sig.WriteString(k)
		sig.WriteString(params[k])
	}
	sig.WriteString(secret)

	return md5Hex(sig.String())
}
