package lastfm

import (
	"context"
	"time"
)

// UserService provides user.* methods. Every method takes a user name;
// an empty name selects the username of the client's credentials.
type UserService struct {
	client *Client
}

// TopOptions selects the period and page of a user top list.
type TopOptions struct {
	Period Period // defaults to PeriodOverall on the server
	ListOptions
}

func (o TopOptions) apply(p Params) Params {
	p = o.ListOptions.apply(p)
	if o.Period != "" {
		p["period"] = o.Period
	}
	return p
}

// RecentOptions filters a user's listening history.
type RecentOptions struct {
	From     time.Time // only scrobbles after this time
	To       time.Time // only scrobbles before this time
	Extended bool      // include full artist data and loved state
	ListOptions
}

func (o RecentOptions) apply(p Params) Params {
	p = o.ListOptions.apply(p)
	if !o.From.IsZero() {
		p["from_date"] = o.From
	}
	if !o.To.IsZero() {
		p["to_date"] = o.To
	}
	if o.Extended {
		p["extended"] = true
	}
	return p
}

// userOrDefault returns name, or the configured username when name is
// empty.
func (c *Client) userOrDefault(method, name string) (string, error) {
	if name != "" {
		return name, nil
	}
	if name = c.Credentials().Username; name != "" {
		return name, nil
	}
	return "", &InvalidOperationError{Method: method, Reason: "user is required"}
}

func (s *UserService) params(method, user string) (Params, error) {
	name, err := s.client.userOrDefault(method, user)
	if err != nil {
		return nil, err
	}
	return Params{"user": name}, nil
}

// GetInfo returns a user's profile.
func (s *UserService) GetInfo(ctx context.Context, user string) (*User, error) {
	params, err := s.params("user.getInfo", user)
	if err != nil {
		return nil, err
	}
	return fetchOne[User](ctx, s.client, get("user", "getInfo", params))
}

// GetTopArtists returns the artists a user listened to most in a period.
//
// Example:
//
//	top, err := client.User().GetTopArtists(ctx, "rj", lastfm.TopOptions{
//	    Period: lastfm.Period7Day,
//	})
//	for top != nil {
//	    for _, a := range top.Items {
//	        fmt.Println(a.Rank, a.Name, a.Playcount)
//	    }
//	    top, err = top.Next(ctx)
//	}
func (s *UserService) GetTopArtists(ctx context.Context, user string, opts TopOptions) (*Collection[Artist], error) {
	params, err := s.params("user.getTopArtists", user)
	if err != nil {
		return nil, err
	}
	return fetchMany[Artist](ctx, s.client, get("user", "getTopArtists", opts.apply(params)), "artist")
}

// GetTopAlbums returns the albums a user listened to most in a period.
func (s *UserService) GetTopAlbums(ctx context.Context, user string, opts TopOptions) (*Collection[Album], error) {
	params, err := s.params("user.getTopAlbums", user)
	if err != nil {
		return nil, err
	}
	return fetchMany[Album](ctx, s.client, get("user", "getTopAlbums", opts.apply(params)), "album")
}

// GetTopTracks returns the tracks a user listened to most in a period.
func (s *UserService) GetTopTracks(ctx context.Context, user string, opts TopOptions) (*Collection[Track], error) {
	params, err := s.params("user.getTopTracks", user)
	if err != nil {
		return nil, err
	}
	return fetchMany[Track](ctx, s.client, get("user", "getTopTracks", opts.apply(params)), "track")
}

// GetTopTags returns the tags a user applied most.
func (s *UserService) GetTopTags(ctx context.Context, user string, limit int) (*Collection[Tag], error) {
	params, err := s.params("user.getTopTags", user)
	if err != nil {
		return nil, err
	}
	params["limit"] = optInt(limit)
	return fetchMany[Tag](ctx, s.client, get("user", "getTopTags", params), "tag")
}

// GetRecentTracks returns a user's listening history, newest first. A
// track currently playing is listed first with NowPlaying set.
func (s *UserService) GetRecentTracks(ctx context.Context, user string, opts RecentOptions) (*Collection[Track], error) {
	params, err := s.params("user.getRecentTracks", user)
	if err != nil {
		return nil, err
	}
	return fetchMany[Track](ctx, s.client, get("user", "getRecentTracks", opts.apply(params)), "track")
}

// GetLovedTracks returns the tracks a user has loved.
func (s *UserService) GetLovedTracks(ctx context.Context, user string, opts ListOptions) (*Collection[Track], error) {
	params, err := s.params("user.getLovedTracks", user)
	if err != nil {
		return nil, err
	}
	return fetchMany[Track](ctx, s.client, get("user", "getLovedTracks", opts.apply(params)), "track")
}

// GetFriends returns the users a user follows.
func (s *UserService) GetFriends(ctx context.Context, user string, opts ListOptions) (*Collection[User], error) {
	params, err := s.params("user.getFriends", user)
	if err != nil {
		return nil, err
	}
	return fetchMany[User](ctx, s.client, get("user", "getFriends", opts.apply(params)), "user")
}

// GetWeeklyChartList returns the date ranges for which weekly charts of
// a user are available.
func (s *UserService) GetWeeklyChartList(ctx context.Context, user string) (*Collection[Chart], error) {
	params, err := s.params("user.getWeeklyChartList", user)
	if err != nil {
		return nil, err
	}
	return fetchMany[Chart](ctx, s.client, get("user", "getWeeklyChartList", params), "chart")
}

// GetWeeklyArtistChart returns a user's artist chart for one range from
// GetWeeklyChartList. A zero chart selects the most recent week.
func (s *UserService) GetWeeklyArtistChart(ctx context.Context, user string, chart Chart) (*Collection[Artist], error) {
	params, err := s.params("user.getWeeklyArtistChart", user)
	if err != nil {
		return nil, err
	}
	chart.apply(params)
	return fetchMany[Artist](ctx, s.client, get("user", "getWeeklyArtistChart", params), "artist")
}

// GetWeeklyTrackChart returns a user's track chart for one range from
// GetWeeklyChartList. A zero chart selects the most recent week.
func (s *UserService) GetWeeklyTrackChart(ctx context.Context, user string, chart Chart) (*Collection[Track], error) {
	params, err := s.params("user.getWeeklyTrackChart", user)
	if err != nil {
		return nil, err
	}
	chart.apply(params)
	return fetchMany[Track](ctx, s.client, get("user", "getWeeklyTrackChart", params), "track")
}

func (c Chart) apply(p Params) {
	p["from_date"] = optString(c.FromDate)
	p["to_date"] = optString(c.ToDate)
}
