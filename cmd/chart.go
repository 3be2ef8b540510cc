package cmd

import (
	"github.com/spf13/cobra"
)

var (
	chartArtistPages pageFlags
	chartTrackPages  pageFlags
	chartTagPages    pageFlags
)

var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Show the global Last.fm charts",
}

var chartTopArtistsCmd = &cobra.Command{
	Use:   "top-artists",
	Short: "Most popular artists on Last.fm",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		return list(cmd, &chartArtistPages, artistColumns, client.Chart().GetTopArtists)
	},
}

var chartTopTracksCmd = &cobra.Command{
	Use:   "top-tracks",
	Short: "Most popular tracks on Last.fm",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		return list(cmd, &chartTrackPages, trackColumns, client.Chart().GetTopTracks)
	},
}

var chartTopTagsCmd = &cobra.Command{
	Use:   "top-tags",
	Short: "Most used tags on Last.fm",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		return list(cmd, &chartTagPages, tagColumns, client.Chart().GetTopTags)
	},
}

func init() {
	rootCmd.AddCommand(chartCmd)
	chartCmd.AddCommand(chartTopArtistsCmd, chartTopTracksCmd, chartTopTagsCmd)

	chartArtistPages.register(chartTopArtistsCmd)
	chartTrackPages.register(chartTopTracksCmd)
	chartTagPages.register(chartTopTagsCmd)
}
