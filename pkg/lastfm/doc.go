// Package lastfm provides a client library for the Last.fm API 2.0.
//
// # Overview
//
// The client speaks the JSON flavor of the API. Every call goes through the
// same pipeline: parameters are assembled and signed, the request is sent
// with GET or POST, the body is parsed while response keys are rewritten to
// canonical names, remote error payloads become *APIError, and the result
// is bound to a typed model or a paginated Collection.
//
// # Installation
//
//	go get github.com/jfmyers9/lfm/pkg/lastfm
//
// # Quick Start
//
//	client, err := lastfm.NewClient(lastfm.Config{
//	    APIKey:    "your-api-key",
//	    APISecret: "your-api-secret",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	artist, err := client.Artist().GetInfo(ctx, lastfm.ArtistQuery{Artist: "Muse"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(artist.Name, artist.Listeners)
//
// # Authentication
//
// Read methods only need an API key. Write methods (scrobbling, loving,
// tagging) need a session key, obtained either through the web flow:
//
//  1. Get a token with Auth().GetToken
//  2. Direct the user to Auth().GetAuthURL(token)
//  3. Exchange the token with Auth().GetSession
//  4. Store the key and pass it back with SetSessionKey
//
// or, for applications holding the user's password, through mobile
// sessions. When Username and Password are configured and no session key
// is set, write methods obtain one with auth.getMobileSession on every
// call. Supply a SessionProvider to change that behavior.
//
// # Pagination
//
// List methods return a *Collection. Next and Prev fetch adjacent pages
// with the same filters and return ErrNoMorePages at either end:
//
//	page, err := client.User().GetRecentTracks(ctx, "rj", lastfm.RecentOptions{})
//	for err == nil {
//	    for _, t := range page.Items {
//	        fmt.Println(t.Artist.Name, "-", t.Name)
//	    }
//	    page, err = page.Next(ctx)
//	}
//	if !errors.Is(err, lastfm.ErrNoMorePages) {
//	    log.Fatal(err)
//	}
//
// # Error Handling
//
// Errors are typed and reported without retries:
//
//   - *ConfigurationError: the credentials cannot serve the call
//   - *InvalidOperationError: required identifiers are missing
//   - *TransportError: network failure or non-2xx HTTP status
//   - *APIError: Last.fm answered with an error payload
//
// Use errors.As to inspect them. APIError.Temporary reports codes worth
// retrying later.
//
// # Observability
//
// Config.Logger enables zerolog debug output for every call. Config.Metrics
// records prometheus counters and latency histograms. Each call is wrapped
// in an OpenTelemetry span using the global tracer provider.
package lastfm
