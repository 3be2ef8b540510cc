package cmd

import (
	"context"
	"strconv"

	"github.com/jfmyers9/lfm/pkg/lastfm"
	"github.com/spf13/cobra"
)

var (
	albumUser        string
	albumLang        string
	albumAutocorrect bool
	albumSearchPages pageFlags
)

var albumCmd = &cobra.Command{
	Use:   "album",
	Short: "Look up albums",
}

var albumInfoCmd = &cobra.Command{
	Use:   "info ARTIST ALBUM",
	Short: "Show album metadata and its track listing",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		album, err := client.Album().GetInfo(cmd.Context(), lastfm.AlbumQuery{
			Artist:      args[0],
			Album:       args[1],
			Username:    albumUser,
			Lang:        albumLang,
			Autocorrect: albumAutocorrect,
		})
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		if err := printItem(w, format(), *album, albumFields); err != nil {
			return err
		}
		if format() != "" || len(album.Tracks) == 0 {
			return nil
		}
		if _, err := w.Write([]byte("\n")); err != nil {
			return err
		}
		return printItems(w, "", album.Tracks, albumTrackColumns)
	},
}

var albumSearchCmd = &cobra.Command{
	Use:   "search ALBUM",
	Short: "Search albums by title",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		return list(cmd, &albumSearchPages, albumColumns,
			func(ctx context.Context, opts lastfm.ListOptions) (*lastfm.Collection[lastfm.Album], error) {
				return client.Album().Search(ctx, args[0], opts)
			})
	},
}

var albumTagsCmd = &cobra.Command{
	Use:   "tags ARTIST ALBUM",
	Short: "List an album's top tags",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		tags, err := client.Album().GetTopTags(cmd.Context(), lastfm.AlbumQuery{
			Artist:      args[0],
			Album:       args[1],
			Autocorrect: albumAutocorrect,
		})
		if err != nil {
			return err
		}
		return printItems(cmd.OutOrStdout(), format(), tags.Items, tagColumns)
	},
}

func init() {
	rootCmd.AddCommand(albumCmd)
	albumCmd.AddCommand(albumInfoCmd, albumSearchCmd, albumTagsCmd)

	for _, c := range []*cobra.Command{albumInfoCmd, albumTagsCmd} {
		c.Flags().BoolVar(&albumAutocorrect, "autocorrect", false, "Let Last.fm correct misspelled names")
	}
	albumInfoCmd.Flags().StringVarP(&albumUser, "user", "u", "", "Include this user's playcount")
	albumInfoCmd.Flags().StringVar(&albumLang, "lang", "", "Wiki language (ISO 639 alpha-2)")
	albumSearchPages.register(albumSearchCmd)
}

var albumFields = []column[lastfm.Album]{
	{"Album", func(a lastfm.Album) string { return a.Name }},
	{"Artist", func(a lastfm.Album) string { return artistName(a.Artist) }},
	{"Listeners", func(a lastfm.Album) string { return number(a.Listeners) }},
	{"Plays", func(a lastfm.Album) string { return number(a.Playcount) }},
	{"Your plays", func(a lastfm.Album) string { return number(a.UserPlaycount) }},
	{"Tags", func(a lastfm.Album) string { return tagNames(a.Tags) }},
	{"URL", func(a lastfm.Album) string { return a.URL }},
}

var albumTrackColumns = []column[lastfm.Track]{
	{"#", func(t lastfm.Track) string { return strconv.Itoa(t.Rank) }},
	{"TRACK", func(t lastfm.Track) string { return t.Name }},
	{"LENGTH", trackLength},
}
