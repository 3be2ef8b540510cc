package cmd

import (
	"context"
	"fmt"

	"github.com/jfmyers9/lfm/pkg/lastfm"
	"github.com/spf13/cobra"
)

var (
	artistUser        string
	artistLang        string
	artistAutocorrect bool
	artistSimilarMax  int
	artistSearchPages pageFlags
	artistTopPages    pageFlags
	artistAlbumPages  pageFlags
)

var artistCmd = &cobra.Command{
	Use:   "artist",
	Short: "Look up artists",
}

var artistInfoCmd = &cobra.Command{
	Use:   "info ARTIST",
	Short: "Show an artist's biography and stats",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		artist, err := client.Artist().GetInfo(cmd.Context(), artistQuery(args[0]))
		if err != nil {
			return err
		}
		return printItem(cmd.OutOrStdout(), format(), *artist, artistFields)
	},
}

var artistCorrectionCmd = &cobra.Command{
	Use:   "correct ARTIST",
	Short: "Show the canonical spelling of an artist name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		artist, err := client.Artist().GetCorrection(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		name := artist.Name
		if name == "" {
			name = args[0]
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), name)
		return err
	},
}

var artistSearchCmd = &cobra.Command{
	Use:   "search ARTIST",
	Short: "Search artists by name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		return list(cmd, &artistSearchPages, artistColumns,
			func(ctx context.Context, opts lastfm.ListOptions) (*lastfm.Collection[lastfm.Artist], error) {
				return client.Artist().Search(ctx, args[0], opts)
			})
	},
}

var artistSimilarCmd = &cobra.Command{
	Use:   "similar ARTIST",
	Short: "List similar artists",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		similar, err := client.Artist().GetSimilar(cmd.Context(), artistQuery(args[0]), artistSimilarMax)
		if err != nil {
			return err
		}
		return printItems(cmd.OutOrStdout(), format(), similar.Items, similarColumns)
	},
}

var artistTopTracksCmd = &cobra.Command{
	Use:   "top-tracks ARTIST",
	Short: "List an artist's most played tracks",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		return list(cmd, &artistTopPages, trackColumns,
			func(ctx context.Context, opts lastfm.ListOptions) (*lastfm.Collection[lastfm.Track], error) {
				return client.Artist().GetTopTracks(ctx, artistQuery(args[0]), opts)
			})
	},
}

var artistTopAlbumsCmd = &cobra.Command{
	Use:   "top-albums ARTIST",
	Short: "List an artist's most played albums",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		return list(cmd, &artistAlbumPages, albumColumns,
			func(ctx context.Context, opts lastfm.ListOptions) (*lastfm.Collection[lastfm.Album], error) {
				return client.Artist().GetTopAlbums(ctx, artistQuery(args[0]), opts)
			})
	},
}

var artistTagsCmd = &cobra.Command{
	Use:   "tags ARTIST",
	Short: "List an artist's top tags",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		tags, err := client.Artist().GetTopTags(cmd.Context(), artistQuery(args[0]))
		if err != nil {
			return err
		}
		return printItems(cmd.OutOrStdout(), format(), tags.Items, tagColumns)
	},
}

func init() {
	rootCmd.AddCommand(artistCmd)
	artistCmd.AddCommand(artistInfoCmd, artistCorrectionCmd, artistSearchCmd, artistSimilarCmd,
		artistTopTracksCmd, artistTopAlbumsCmd, artistTagsCmd)

	for _, c := range []*cobra.Command{artistInfoCmd, artistSimilarCmd, artistTopTracksCmd, artistTopAlbumsCmd, artistTagsCmd} {
		c.Flags().BoolVar(&artistAutocorrect, "autocorrect", false, "Let Last.fm correct misspelled names")
	}
	artistInfoCmd.Flags().StringVarP(&artistUser, "user", "u", "", "Include this user's playcount")
	artistInfoCmd.Flags().StringVar(&artistLang, "lang", "", "Biography language (ISO 639 alpha-2)")
	artistSimilarCmd.Flags().IntVar(&artistSimilarMax, "limit", 0, "Maximum number of results")
	artistSearchPages.register(artistSearchCmd)
	artistTopPages.register(artistTopTracksCmd)
	artistAlbumPages.register(artistTopAlbumsCmd)
}

func artistQuery(name string) lastfm.ArtistQuery {
	return lastfm.ArtistQuery{
		Artist:      name,
		Username:    artistUser,
		Lang:        artistLang,
		Autocorrect: artistAutocorrect,
	}
}

var similarColumns = []column[lastfm.Artist]{
	{"ARTIST", func(a lastfm.Artist) string { return a.Name }},
	{"MATCH", func(a lastfm.Artist) string {
		if a.Match == 0 {
			return ""
		}
		return fmt.Sprintf("%.0f%%", a.Match*100)
	}},
}

var artistFields = []column[lastfm.Artist]{
	{"Artist", func(a lastfm.Artist) string { return a.Name }},
	{"Listeners", func(a lastfm.Artist) string { return number(a.Listeners) }},
	{"Plays", func(a lastfm.Artist) string { return number(a.Playcount) }},
	{"Your plays", func(a lastfm.Artist) string { return number(a.UserPlaycount) }},
	{"On tour", func(a lastfm.Artist) string {
		if a.OnTour {
			return "yes"
		}
		return ""
	}},
	{"Tags", func(a lastfm.Artist) string { return tagNames(a.Tags) }},
	{"Similar", func(a lastfm.Artist) string { return artistNames(a.Similar) }},
	{"URL", func(a lastfm.Artist) string { return a.URL }},
	{"Bio", func(a lastfm.Artist) string {
		if a.Wiki == nil {
			return ""
		}
		return a.Wiki.Summary
	}},
}
