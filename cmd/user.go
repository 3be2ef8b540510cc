package cmd

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/jfmyers9/lfm/pkg/lastfm"
	"github.com/spf13/cobra"
)

var (
	userPeriod   string
	userFrom     string
	userTo       string
	userExtended bool
	userTopPages pageFlags
	userRecent   pageFlags
	userLoved    pageFlags
	userFriends  pageFlags
	userTagLimit int
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Show profiles, top lists and listening history",
	Long: `Show profiles, top lists and listening history.

USER is optional everywhere; it defaults to lastfm.username from the
configuration.`,
}

var userInfoCmd = &cobra.Command{
	Use:   "info [USER]",
	Short: "Show a user's profile",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		user, err := client.User().GetInfo(cmd.Context(), optionalArg(args))
		if err != nil {
			return err
		}
		return printItem(cmd.OutOrStdout(), format(), *user, userFields)
	},
}

var userTopArtistsCmd = &cobra.Command{
	Use:   "top-artists [USER]",
	Short: "List a user's most played artists",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		return list(cmd, &userTopPages, artistColumns,
			func(ctx context.Context, opts lastfm.ListOptions) (*lastfm.Collection[lastfm.Artist], error) {
				return client.User().GetTopArtists(ctx, optionalArg(args), topOptions(opts))
			})
	},
}

var userTopAlbumsCmd = &cobra.Command{
	Use:   "top-albums [USER]",
	Short: "List a user's most played albums",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		return list(cmd, &userTopPages, albumColumns,
			func(ctx context.Context, opts lastfm.ListOptions) (*lastfm.Collection[lastfm.Album], error) {
				return client.User().GetTopAlbums(ctx, optionalArg(args), topOptions(opts))
			})
	},
}

var userTopTracksCmd = &cobra.Command{
	Use:   "top-tracks [USER]",
	Short: "List a user's most played tracks",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		return list(cmd, &userTopPages, trackColumns,
			func(ctx context.Context, opts lastfm.ListOptions) (*lastfm.Collection[lastfm.Track], error) {
				return client.User().GetTopTracks(ctx, optionalArg(args), topOptions(opts))
			})
	},
}

var userTopTagsCmd = &cobra.Command{
	Use:   "top-tags [USER]",
	Short: "List the tags a user applies most",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		tags, err := client.User().GetTopTags(cmd.Context(), optionalArg(args), userTagLimit)
		if err != nil {
			return err
		}
		return printItems(cmd.OutOrStdout(), format(), tags.Items, tagColumns)
	},
}

var userRecentCmd = &cobra.Command{
	Use:   "recent [USER]",
	Short: "List recently scrobbled tracks",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		from, err := parseTime(userFrom)
		if err != nil {
			return fmt.Errorf("invalid --from: %w", err)
		}
		to, err := parseTime(userTo)
		if err != nil {
			return fmt.Errorf("invalid --to: %w", err)
		}

		client, err := newClient()
		if err != nil {
			return err
		}
		return list(cmd, &userRecent, recentColumns,
			func(ctx context.Context, opts lastfm.ListOptions) (*lastfm.Collection[lastfm.Track], error) {
				return client.User().GetRecentTracks(ctx, optionalArg(args), lastfm.RecentOptions{
					From:        from,
					To:          to,
					Extended:    userExtended,
					ListOptions: opts,
				})
			})
	},
}

var userLovedCmd = &cobra.Command{
	Use:   "loved [USER]",
	Short: "List loved tracks",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		return list(cmd, &userLoved, recentColumns,
			func(ctx context.Context, opts lastfm.ListOptions) (*lastfm.Collection[lastfm.Track], error) {
				return client.User().GetLovedTracks(ctx, optionalArg(args), opts)
			})
	},
}

var userFriendsCmd = &cobra.Command{
	Use:   "friends [USER]",
	Short: "List a user's friends",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		return list(cmd, &userFriends, userColumns,
			func(ctx context.Context, opts lastfm.ListOptions) (*lastfm.Collection[lastfm.User], error) {
				return client.User().GetFriends(ctx, optionalArg(args), opts)
			})
	},
}

var userChartsCmd = &cobra.Command{
	Use:   "charts [USER]",
	Short: "List the weekly chart ranges available for a user",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		charts, err := client.User().GetWeeklyChartList(cmd.Context(), optionalArg(args))
		if err != nil {
			return err
		}
		return printItems(cmd.OutOrStdout(), format(), charts.Items, chartColumns)
	},
}

var userWeeklyCmd = &cobra.Command{
	Use:   "weekly-artists [USER]",
	Short: "Show a user's artist chart for one week (--from/--to unix times from 'user charts')",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		chart, err := client.User().GetWeeklyArtistChart(cmd.Context(), optionalArg(args),
			lastfm.Chart{FromDate: userFrom, ToDate: userTo})
		if err != nil {
			return err
		}
		return printItems(cmd.OutOrStdout(), format(), chart.Items, artistColumns)
	},
}

var userWeeklyTracksCmd = &cobra.Command{
	Use:   "weekly-tracks [USER]",
	Short: "Show a user's track chart for one week (--from/--to unix times from 'user charts')",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		chart, err := client.User().GetWeeklyTrackChart(cmd.Context(), optionalArg(args),
			lastfm.Chart{FromDate: userFrom, ToDate: userTo})
		if err != nil {
			return err
		}
		return printItems(cmd.OutOrStdout(), format(), chart.Items, trackColumns)
	},
}

func init() {
	rootCmd.AddCommand(userCmd)
	userCmd.AddCommand(userInfoCmd, userTopArtistsCmd, userTopAlbumsCmd, userTopTracksCmd,
		userTopTagsCmd, userRecentCmd, userLovedCmd, userFriendsCmd, userChartsCmd,
		userWeeklyCmd, userWeeklyTracksCmd)

	for _, c := range []*cobra.Command{userTopArtistsCmd, userTopAlbumsCmd, userTopTracksCmd} {
		c.Flags().StringVarP(&userPeriod, "period", "p", "", "overall, 7day, 1month, 3month, 6month or 12month")
		userTopPages.register(c)
	}

	userRecentCmd.Flags().StringVar(&userFrom, "from", "", "Only scrobbles after this time (RFC 3339, YYYY-MM-DD or unix seconds)")
	userRecentCmd.Flags().StringVar(&userTo, "to", "", "Only scrobbles before this time")
	userRecentCmd.Flags().BoolVar(&userExtended, "extended", false, "Include loved state and full artist data")
	userRecent.register(userRecentCmd)
	userLoved.register(userLovedCmd)
	userFriends.register(userFriendsCmd)

	userTopTagsCmd.Flags().IntVar(&userTagLimit, "limit", 0, "Number of tags to list")

	for _, c := range []*cobra.Command{userWeeklyCmd, userWeeklyTracksCmd} {
		c.Flags().StringVar(&userFrom, "from", "", "Start of the chart range (unix seconds)")
		c.Flags().StringVar(&userTo, "to", "", "End of the chart range (unix seconds)")
	}
}

func optionalArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

func topOptions(opts lastfm.ListOptions) lastfm.TopOptions {
	return lastfm.TopOptions{Period: lastfm.Period(userPeriod), ListOptions: opts}
}

// parseTime accepts RFC 3339, a bare date or unix seconds. Empty input
// yields the zero time.
func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	if unix, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(unix, 0), nil
	}
	return time.Time{}, fmt.Errorf("unrecognized time %q", s)
}

var userFields = []column[lastfm.User]{
	{"User", func(u lastfm.User) string { return u.Name }},
	{"Name", func(u lastfm.User) string { return u.RealName }},
	{"Country", func(u lastfm.User) string { return u.Country }},
	{"Plays", func(u lastfm.User) string { return number(u.Playcount) }},
	{"Registered", func(u lastfm.User) string {
		if u.Registered == 0 {
			return ""
		}
		return time.Unix(u.Registered, 0).Format("2006-01-02")
	}},
	{"URL", func(u lastfm.User) string { return u.URL }},
}
