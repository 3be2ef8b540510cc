package lastfm

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestServices_Requests checks that each resource method sends the remote
// method, verb and parameters Last.fm expects.
func TestServices_Requests(t *testing.T) {
	from := time.Unix(1700000000, 0)

	tests := []struct {
		name       string
		call       func(ctx context.Context, c *Client) error
		wantMethod string
		wantVerb   string
		wantParams map[string]string
	}{
		{
			name: "track.getInfo",
			call: func(ctx context.Context, c *Client) error {
				_, err := c.Track().GetInfo(ctx, TrackQuery{Artist: "Muse", Track: "Hysteria", Username: "rj", Autocorrect: true})
				return err
			},
			wantMethod: "track.getInfo",
			wantVerb:   http.MethodGet,
			wantParams: map[string]string{"artist": "Muse", "track": "Hysteria", "username": "rj", "autocorrect": "1"},
		},
		{
			name: "track.search",
			call: func(ctx context.Context, c *Client) error {
				_, err := c.Track().Search(ctx, "Hysteria", "", ListOptions{Page: 2, Limit: 5})
				return err
			},
			wantMethod: "track.search",
			wantVerb:   http.MethodGet,
			wantParams: map[string]string{"track": "Hysteria", "page": "2", "limit": "5"},
		},
		{
			name: "track.getTags defaults to own user",
			call: func(ctx context.Context, c *Client) error {
				_, err := c.Track().GetTags(ctx, TrackQuery{Artist: "Muse", Track: "Hysteria"})
				return err
			},
			wantMethod: "track.getTags",
			wantVerb:   http.MethodGet,
			wantParams: map[string]string{"user": "me"},
		},
		{
			name: "track.addTags",
			call: func(ctx context.Context, c *Client) error {
				_, err := c.Track().AddTags(ctx, "Muse", "Hysteria", []string{"rock", "bass"})
				return err
			},
			wantMethod: "track.addTags",
			wantVerb:   http.MethodPost,
			wantParams: map[string]string{"tags": "rock,bass", "sk": "sk"},
		},
		{
			name: "track.love",
			call: func(ctx context.Context, c *Client) error {
				_, err := c.Track().Love(ctx, "Muse", "Hysteria")
				return err
			},
			wantMethod: "track.love",
			wantVerb:   http.MethodPost,
			wantParams: map[string]string{"artist": "Muse", "track": "Hysteria"},
		},
		{
			name: "artist.getSimilar",
			call: func(ctx context.Context, c *Client) error {
				_, err := c.Artist().GetSimilar(ctx, ArtistQuery{MBID: "ab"}, 10)
				return err
			},
			wantMethod: "artist.getSimilar",
			wantVerb:   http.MethodGet,
			wantParams: map[string]string{"mbid": "ab", "limit": "10"},
		},
		{
			name: "artist.removeTag",
			call: func(ctx context.Context, c *Client) error {
				_, err := c.Artist().RemoveTag(ctx, "Muse", "rock")
				return err
			},
			wantMethod: "artist.removeTag",
			wantVerb:   http.MethodPost,
			wantParams: map[string]string{"artist": "Muse", "tag": "rock"},
		},
		{
			name: "album.getInfo",
			call: func(ctx context.Context, c *Client) error {
				_, err := c.Album().GetInfo(ctx, AlbumQuery{Artist: "Muse", Album: "Absolution", Lang: "de"})
				return err
			},
			wantMethod: "album.getInfo",
			wantVerb:   http.MethodGet,
			wantParams: map[string]string{"artist": "Muse", "album": "Absolution", "lang": "de"},
		},
		{
			name: "tag.getTopTracks",
			call: func(ctx context.Context, c *Client) error {
				_, err := c.Tag().GetTopTracks(ctx, "rock", ListOptions{Limit: 3})
				return err
			},
			wantMethod: "tag.getTopTracks",
			wantVerb:   http.MethodGet,
			wantParams: map[string]string{"tag": "rock", "limit": "3"},
		},
		{
			name: "user.getRecentTracks",
			call: func(ctx context.Context, c *Client) error {
				_, err := c.User().GetRecentTracks(ctx, "rj", RecentOptions{From: from, Extended: true})
				return err
			},
			wantMethod: "user.getRecentTracks",
			wantVerb:   http.MethodGet,
			wantParams: map[string]string{"user": "rj", "from": "1700000000", "extended": "1"},
		},
		{
			name: "user.getTopAlbums with period",
			call: func(ctx context.Context, c *Client) error {
				_, err := c.User().GetTopAlbums(ctx, "", TopOptions{Period: Period3Month})
				return err
			},
			wantMethod: "user.getTopAlbums",
			wantVerb:   http.MethodGet,
			wantParams: map[string]string{"user": "me", "period": "3month"},
		},
		{
			name: "user.getWeeklyTrackChart",
			call: func(ctx context.Context, c *Client) error {
				_, err := c.User().GetWeeklyTrackChart(ctx, "rj", Chart{FromDate: "1", ToDate: "2"})
				return err
			},
			wantMethod: "user.getWeeklyTrackChart",
			wantVerb:   http.MethodGet,
			wantParams: map[string]string{"user": "rj", "from": "1", "to": "2"},
		},
		{
			name: "chart.getTopTags",
			call: func(ctx context.Context, c *Client) error {
				_, err := c.Chart().GetTopTags(ctx, ListOptions{})
				return err
			},
			wantMethod: "chart.getTopTags",
			wantVerb:   http.MethodGet,
			wantParams: map[string]string{"api_key": "test-api-key"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newFakeAPI(t, `{}`)
			client := newTestClient(t, api, Config{APISecret: "secret", SessionKey: "sk", Username: "me"})

			require.NoError(t, tt.call(context.Background(), client))

			form := api.last(t)
			assert.Equal(t, tt.wantMethod, form.Get("method"))
			assert.Equal(t, "json", form.Get("format"))
			assert.Equal(t, tt.wantVerb, api.lastVerb())
			for k, v := range tt.wantParams {
				assert.Equal(t, v, form.Get(k), "param %s", k)
			}
			if tt.wantVerb == http.MethodPost {
				assert.NotEmpty(t, form.Get("api_sig"))
			}
		})
	}
}

func TestServices_InvalidOperation(t *testing.T) {
	tests := []struct {
		name string
		call func(ctx context.Context, c *Client) error
	}{
		{"track without name", func(ctx context.Context, c *Client) error {
			_, err := c.Track().GetInfo(ctx, TrackQuery{Artist: "Muse"})
			return err
		}},
		{"empty search", func(ctx context.Context, c *Client) error {
			_, err := c.Artist().Search(ctx, "", ListOptions{})
			return err
		}},
		{"too many tags", func(ctx context.Context, c *Client) error {
			_, err := c.Album().AddTags(ctx, "Muse", "Absolution", make([]string, MaxTags+1))
			return err
		}},
		{"empty tag", func(ctx context.Context, c *Client) error {
			_, err := c.Track().AddTags(ctx, "Muse", "Hysteria", []string{"rock", ""})
			return err
		}},
		{"no tags", func(ctx context.Context, c *Client) error {
			_, err := c.Artist().AddTags(ctx, "Muse", nil)
			return err
		}},
		{"tag info without tag", func(ctx context.Context, c *Client) error {
			_, err := c.Tag().GetInfo(ctx, "")
			return err
		}},
		{"user without name", func(ctx context.Context, c *Client) error {
			_, err := c.User().GetInfo(ctx, "")
			return err
		}},
		{"love without track", func(ctx context.Context, c *Client) error {
			_, err := c.Track().Love(ctx, "Muse", "")
			return err
		}},
		{"session without token", func(ctx context.Context, c *Client) error {
			_, err := c.Auth().GetSession(ctx, "")
			return err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newFakeAPI(t, `{}`)
			client := newTestClient(t, api, Config{APISecret: "secret", SessionKey: "sk"})

			err := tt.call(context.Background(), client)

			var opErr *InvalidOperationError
			require.ErrorAs(t, err, &opErr)
			assert.Equal(t, 0, api.count(), "no request may be sent")
		})
	}
}

func TestArtistService_GetInfo(t *testing.T) {
	api := newFakeAPI(t, `{"artist": {"name": "Muse", "mbid": "ab", "stats": {"listeners": "100", "playcount": "200"}}}`)
	client := newTestClient(t, api, Config{})

	artist, err := client.Artist().GetInfo(context.Background(), ArtistQuery{Artist: "Muse"})
	require.NoError(t, err)

	assert.Equal(t, "Muse", artist.Name)
	assert.Equal(t, "ab", artist.MBID)
	assert.Equal(t, 100, artist.Listeners)
	assert.Equal(t, 200, artist.Playcount)
	assert.Equal(t, "Muse", artist.RequestParams()["artist"])
}

func TestArtistService_GetCorrection(t *testing.T) {
	api := newFakeAPI(t, `{"corrections": {"correction": {"artist": {"name": "Guns N' Roses", "mbid": "gnr"}, "@attr": {"index": "0"}}}}`)
	client := newTestClient(t, api, Config{})

	artist, err := client.Artist().GetCorrection(context.Background(), "guns and roses")
	require.NoError(t, err)
	assert.Equal(t, "Guns N' Roses", artist.Name)

	api.respond(http.StatusOK, `{"corrections": "\n"}`)
	artist, err = client.Artist().GetCorrection(context.Background(), "Muse")
	require.NoError(t, err)
	assert.Empty(t, artist.Name)
}

func TestTrackService_SearchEmpty(t *testing.T) {
	api := newFakeAPI(t, `{"results": {
		"opensearch:Query": {"#text": "", "role": "request", "searchTerms": "zzzz", "startPage": "1"},
		"opensearch:totalResults": "0",
		"opensearch:startIndex": "0",
		"opensearch:itemsPerPage": "30",
		"trackmatches": {"track": []},
		"@attr": {}
	}}`)
	client := newTestClient(t, api, Config{})

	results, err := client.Track().Search(context.Background(), "zzzz", "", ListOptions{})
	require.NoError(t, err)

	assert.Equal(t, 0, results.Len())
	assert.Equal(t, 1, results.Page)
	assert.Equal(t, 30, results.Limit)
	assert.False(t, results.HasNext())
}

func TestTrackService_Search(t *testing.T) {
	api := newFakeAPI(t, `{"results": {
		"opensearch:Query": {"#text": "", "role": "request", "startPage": "1"},
		"opensearch:totalResults": "60",
		"opensearch:itemsPerPage": "30",
		"trackmatches": {"track": [
			{"name": "Hysteria", "artist": "Muse", "listeners": "1000", "streamable": "0"},
			{"name": "Hysteria", "artist": "Def Leppard", "listeners": "900"}
		]}
	}}`)
	client := newTestClient(t, api, Config{})

	results, err := client.Track().Search(context.Background(), "Hysteria", "", ListOptions{})
	require.NoError(t, err)

	require.Equal(t, 2, results.Len())
	assert.Equal(t, "Muse", results.Items[0].Artist.Name)
	assert.Equal(t, 900, results.Items[1].Listeners)
	assert.Equal(t, 2, results.TotalPages)
	assert.True(t, results.HasNext())
}

func TestUserService_GetWeeklyChartList(t *testing.T) {
	api := newFakeAPI(t, `{"weeklychartlist": {
		"chart": [
			{"#text": "", "from": "1108296000", "to": "1108900800"},
			{"#text": "", "from": "1108900800", "to": "1109505600"}
		],
		"@attr": {"user": "rj"}
	}}`)
	client := newTestClient(t, api, Config{})

	charts, err := client.User().GetWeeklyChartList(context.Background(), "rj")
	require.NoError(t, err)

	require.Equal(t, 2, charts.Len())
	assert.Equal(t, "1108296000", charts.Items[0].FromDate)
	assert.Equal(t, "1108900800", charts.Items[0].ToDate)
	assert.Equal(t, "rj", charts.User)
}

func TestUserService_GetInfo(t *testing.T) {
	api := newFakeAPI(t, `{"user": {
		"name": "rj", "realname": "Richard Jones", "playcount": "150316",
		"registered": {"unixtime": "1037793040", "#text": 1037793040},
		"image": [{"#text": "http://img/rj.png", "size": "small"}],
		"type": "alum", "subscriber": "1"
	}}`)
	client := newTestClient(t, api, Config{})

	user, err := client.User().GetInfo(context.Background(), "rj")
	require.NoError(t, err)

	assert.Equal(t, "Richard Jones", user.RealName)
	assert.Equal(t, 150316, user.Playcount)
	assert.Equal(t, int64(1037793040), user.Registered)
	assert.Equal(t, []Image{{Size: "small", URL: "http://img/rj.png"}}, user.Images)
}

func TestTagService_GetInfo(t *testing.T) {
	api := newFakeAPI(t, `{"tag": {"name": "rock", "total": 4000000, "reach": 390000, "wiki": {"summary": "Rock music"}}}`)
	client := newTestClient(t, api, Config{})

	tag, err := client.Tag().GetInfo(context.Background(), "rock")
	require.NoError(t, err)

	assert.Equal(t, "rock", tag.Name)
	assert.Equal(t, 4000000, tag.Taggings)
	assert.Equal(t, 390000, tag.Reach)
	assert.Equal(t, "Rock music", tag.Wiki.Summary)
}
