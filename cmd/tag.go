package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jfmyers9/lfm/pkg/lastfm"
	"github.com/spf13/cobra"
)

var (
	tagArtist     string
	tagTrack      string
	tagAlbum      string
	tagArtistPage pageFlags
	tagTrackPage  pageFlags
	tagAlbumPage  pageFlags
)

var tagCmd = &cobra.Command{
	Use:   "tag",
	Short: "Explore tags and tag your music",
}

var tagAddCmd = &cobra.Command{
	Use:   "add TAG...",
	Short: "Tag an artist, album or track",
	Long: `Tag an artist, album or track with up to 10 tags.

The target is --artist alone, --artist with --album, or --artist with --track.`,
	Args: cobra.RangeArgs(1, lastfm.MaxTags),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		target, err := tagTarget()
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		switch target {
		case "track":
			_, err = client.Track().AddTags(ctx, tagArtist, tagTrack, args)
		case "album":
			_, err = client.Album().AddTags(ctx, tagArtist, tagAlbum, args)
		default:
			_, err = client.Artist().AddTags(ctx, tagArtist, args)
		}
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "Tagged %s with %s\n", tagSubject(), strings.Join(args, ", "))
		return err
	},
}

var tagRemoveCmd = &cobra.Command{
	Use:   "remove TAG",
	Short: "Remove one of your tags from an artist, album or track",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		target, err := tagTarget()
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		switch target {
		case "track":
			_, err = client.Track().RemoveTag(ctx, tagArtist, tagTrack, args[0])
		case "album":
			_, err = client.Album().RemoveTag(ctx, tagArtist, tagAlbum, args[0])
		default:
			_, err = client.Artist().RemoveTag(ctx, tagArtist, args[0])
		}
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "Removed %s from %s\n", args[0], tagSubject())
		return err
	},
}

var tagInfoCmd = &cobra.Command{
	Use:   "info TAG",
	Short: "Show a tag's description and usage",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		tag, err := client.Tag().GetInfo(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printItem(cmd.OutOrStdout(), format(), *tag, tagFields)
	},
}

var tagSimilarCmd = &cobra.Command{
	Use:   "similar TAG",
	Short: "List related tags",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		tags, err := client.Tag().GetSimilar(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printItems(cmd.OutOrStdout(), format(), tags.Items, tagColumns)
	},
}

var tagTopArtistsCmd = &cobra.Command{
	Use:   "top-artists TAG",
	Short: "List the artists most tagged with TAG",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		return list(cmd, &tagArtistPage, artistColumns,
			func(ctx context.Context, opts lastfm.ListOptions) (*lastfm.Collection[lastfm.Artist], error) {
				return client.Tag().GetTopArtists(ctx, args[0], opts)
			})
	},
}

var tagTopAlbumsCmd = &cobra.Command{
	Use:   "top-albums TAG",
	Short: "List the albums most tagged with TAG",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		return list(cmd, &tagAlbumPage, albumColumns,
			func(ctx context.Context, opts lastfm.ListOptions) (*lastfm.Collection[lastfm.Album], error) {
				return client.Tag().GetTopAlbums(ctx, args[0], opts)
			})
	},
}

var tagTopTracksCmd = &cobra.Command{
	Use:   "top-tracks TAG",
	Short: "List the tracks most tagged with TAG",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		return list(cmd, &tagTrackPage, trackColumns,
			func(ctx context.Context, opts lastfm.ListOptions) (*lastfm.Collection[lastfm.Track], error) {
				return client.Tag().GetTopTracks(ctx, args[0], opts)
			})
	},
}

func init() {
	rootCmd.AddCommand(tagCmd)
	tagCmd.AddCommand(tagAddCmd, tagRemoveCmd, tagInfoCmd, tagSimilarCmd,
		tagTopArtistsCmd, tagTopAlbumsCmd, tagTopTracksCmd)

	for _, c := range []*cobra.Command{tagAddCmd, tagRemoveCmd} {
		c.Flags().StringVarP(&tagArtist, "artist", "a", "", "Artist to tag (required)")
		c.Flags().StringVarP(&tagTrack, "track", "t", "", "Tag this track of the artist")
		c.Flags().StringVar(&tagAlbum, "album", "", "Tag this album of the artist")
		_ = c.MarkFlagRequired("artist")
		c.MarkFlagsMutuallyExclusive("track", "album")
	}
	tagArtistPage.register(tagTopArtistsCmd)
	tagAlbumPage.register(tagTopAlbumsCmd)
	tagTrackPage.register(tagTopTracksCmd)
}

// tagTarget reports which kind of item the tag flags select.
func tagTarget() (string, error) {
	switch {
	case tagArtist == "":
		return "", errors.New("--artist is required")
	case tagTrack != "" && tagAlbum != "":
		return "", errors.New("--track and --album are mutually exclusive")
	case tagTrack != "":
		return "track", nil
	case tagAlbum != "":
		return "album", nil
	default:
		return "artist", nil
	}
}

func tagSubject() string {
	switch {
	case tagTrack != "":
		return tagArtist + " - " + tagTrack
	case tagAlbum != "":
		return tagArtist + " - " + tagAlbum
	default:
		return tagArtist
	}
}

var tagFields = []column[lastfm.Tag]{
	{"Tag", func(t lastfm.Tag) string { return t.Name }},
	{"Reach", func(t lastfm.Tag) string { return number(t.Reach) }},
	{"Taggings", func(t lastfm.Tag) string { return number(t.Taggings) }},
	{"URL", func(t lastfm.Tag) string { return t.URL }},
	{"Summary", func(t lastfm.Tag) string {
		if t.Wiki == nil {
			return ""
		}
		return t.Wiki.Summary
	}},
}
