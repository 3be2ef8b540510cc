package cmd

import (
	"context"
	"fmt"

	"github.com/jfmyers9/lfm/pkg/lastfm"
	"github.com/spf13/cobra"
)

var (
	trackUser        string
	trackAutocorrect bool
	trackSearchBy    string
	trackTopTags     bool
	trackSimilarMax  int
	trackSearchPages pageFlags
)

var trackCmd = &cobra.Command{
	Use:   "track",
	Short: "Look up and manage tracks",
}

var trackInfoCmd = &cobra.Command{
	Use:   "info ARTIST TRACK",
	Short: "Show track metadata",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		track, err := client.Track().GetInfo(cmd.Context(), trackQuery(args))
		if err != nil {
			return err
		}
		return printItem(cmd.OutOrStdout(), format(), *track, trackFields)
	},
}

var trackSearchCmd = &cobra.Command{
	Use:   "search TRACK",
	Short: "Search tracks by name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		return list(cmd, &trackSearchPages, trackColumns,
			func(ctx context.Context, opts lastfm.ListOptions) (*lastfm.Collection[lastfm.Track], error) {
				return client.Track().Search(ctx, args[0], trackSearchBy, opts)
			})
	},
}

var trackSimilarCmd = &cobra.Command{
	Use:   "similar ARTIST TRACK",
	Short: "List similar tracks",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		similar, err := client.Track().GetSimilar(cmd.Context(), trackQuery(args), trackSimilarMax)
		if err != nil {
			return err
		}
		return printItems(cmd.OutOrStdout(), format(), similar.Items, trackColumns)
	},
}

var trackTagsCmd = &cobra.Command{
	Use:   "tags ARTIST TRACK",
	Short: "List your tags on a track (--top for the global top tags)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		fetch := client.Track().GetTags
		if trackTopTags {
			fetch = client.Track().GetTopTags
		}
		tags, err := fetch(cmd.Context(), trackQuery(args))
		if err != nil {
			return err
		}
		return printItems(cmd.OutOrStdout(), format(), tags.Items, tagColumns)
	},
}

var trackLoveCmd = &cobra.Command{
	Use:   "love ARTIST TRACK",
	Short: "Love a track",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLove(cmd, args, true)
	},
}

var trackUnloveCmd = &cobra.Command{
	Use:   "unlove ARTIST TRACK",
	Short: "Remove a track from your loved tracks",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLove(cmd, args, false)
	},
}

func init() {
	rootCmd.AddCommand(trackCmd)
	trackCmd.AddCommand(trackInfoCmd, trackSearchCmd, trackSimilarCmd, trackTagsCmd, trackLoveCmd, trackUnloveCmd)

	for _, c := range []*cobra.Command{trackInfoCmd, trackSimilarCmd, trackTagsCmd} {
		c.Flags().BoolVar(&trackAutocorrect, "autocorrect", false, "Let Last.fm correct misspelled names")
	}
	trackInfoCmd.Flags().StringVarP(&trackUser, "user", "u", "", "Include this user's playcount and loved state")
	trackSearchCmd.Flags().StringVar(&trackSearchBy, "artist", "", "Narrow the search to an artist")
	trackSearchPages.register(trackSearchCmd)
	trackSimilarCmd.Flags().IntVar(&trackSimilarMax, "limit", 0, "Maximum number of results")
	trackTagsCmd.Flags().BoolVar(&trackTopTags, "top", false, "Show the most used tags instead of yours")
}

func trackQuery(args []string) lastfm.TrackQuery {
	return lastfm.TrackQuery{
		Artist:      args[0],
		Track:       args[1],
		Username:    trackUser,
		Autocorrect: trackAutocorrect,
	}
}

func runLove(cmd *cobra.Command, args []string, love bool) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	op, verb := client.Track().Love, "Loved"
	if !love {
		op, verb = client.Track().Unlove, "Unloved"
	}
	if _, err := op(cmd.Context(), args[0], args[1]); err != nil {
		return err
	}

	logger.Info().Str("artist", args[0]).Str("track", args[1]).Bool("love", love).Msg("updated loved state")
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s %s - %s\n", verb, args[0], args[1])
	return err
}

var trackFields = []column[lastfm.Track]{
	{"Track", func(t lastfm.Track) string { return t.Name }},
	{"Artist", func(t lastfm.Track) string { return artistName(t.Artist) }},
	{"Album", func(t lastfm.Track) string { return albumName(t.Album) }},
	{"Length", trackLength},
	{"Listeners", func(t lastfm.Track) string { return number(t.Listeners) }},
	{"Plays", func(t lastfm.Track) string { return number(t.Playcount) }},
	{"Your plays", func(t lastfm.Track) string { return number(t.UserPlaycount) }},
	{"Loved", func(t lastfm.Track) string {
		if t.Loved {
			return "yes"
		}
		return ""
	}},
	{"Tags", func(t lastfm.Track) string { return tagNames(t.Tags) }},
	{"URL", func(t lastfm.Track) string { return t.URL }},
}
