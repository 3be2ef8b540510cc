package cmd

import (
	"fmt"
	"time"

	"github.com/jfmyers9/lfm/internal/scrobbler"
	"github.com/jfmyers9/lfm/pkg/lastfm"
	"github.com/spf13/cobra"
)

var (
	scrobbleAlbum       string
	scrobbleAlbumArtist string
	scrobbleMBID        string
	scrobbleTrackNumber int
	scrobbleDuration    time.Duration
	scrobblePlayed      time.Duration
	scrobbleAt          string
	scrobbleForce       bool
	scrobbleFlushLimit  int
	scrobbleListAll     bool
	scrobblePruneKeep   time.Duration
)

var scrobbleCmd = &cobra.Command{
	Use:   "scrobble",
	Short: "Scrobble plays and manage the offline queue",
	Long: `Scrobble plays and manage the offline queue.

'scrobble track' submits a play immediately. 'scrobble queue' stores it in
a local SQLite database instead, and 'scrobble flush' submits everything
queued in batches of 50. Plays are checked against the Last.fm rules
(longer than 30 seconds, played for half the track or 4 minutes) when
--duration and --played are given; --force skips the check.`,
}

var scrobbleNowCmd = &cobra.Command{
	Use:   "now ARTIST TRACK",
	Short: "Set your now playing track",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		np, err := client.Scrobble().UpdateNowPlaying(cmd.Context(), scrobbleTrack(args))
		if err != nil {
			return err
		}
		if np.IgnoredCode != 0 {
			return fmt.Errorf("now playing was ignored: %s (code %d)", np.IgnoredMessage, np.IgnoredCode)
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "Now playing %s - %s\n", np.Artist, np.Track)
		return err
	},
}

var scrobbleTrackCmd = &cobra.Command{
	Use:   "track ARTIST TRACK",
	Short: "Scrobble a play immediately",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		play, err := scrobblePlay(args)
		if err != nil {
			return err
		}
		client, err := newClient()
		if err != nil {
			return err
		}
		result, err := client.Scrobble().Scrobble(cmd.Context(), play.Track, play.Timestamp)
		if err != nil {
			return err
		}
		if result.Ignored > 0 {
			reason := "ignored by Last.fm"
			if len(result.Entries) > 0 && result.Entries[0].IgnoredMessage != "" {
				reason = result.Entries[0].IgnoredMessage
			}
			return fmt.Errorf("scrobble was ignored: %s", reason)
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "Scrobbled %s - %s\n", args[0], args[1])
		return err
	},
}

var scrobbleQueueCmd = &cobra.Command{
	Use:   "queue ARTIST TRACK",
	Short: "Store a play in the offline queue",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		play, err := scrobblePlay(args)
		if err != nil {
			return err
		}
		queue, err := openQueue()
		if err != nil {
			return err
		}
		defer func() { _ = queue.Close() }()

		id, err := queue.Add(cmd.Context(), play)
		if err != nil {
			return err
		}
		logger.Debug().Int64("id", id).Str("artist", args[0]).Str("track", args[1]).Msg("queued scrobble")
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "Queued %s - %s (#%d)\n", args[0], args[1], id)
		return err
	},
}

var scrobbleFlushCmd = &cobra.Command{
	Use:   "flush",
	Short: "Submit queued plays to Last.fm",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		queue, err := openQueue()
		if err != nil {
			return err
		}
		defer func() { _ = queue.Close() }()

		client, err := newClient()
		if err != nil {
			return err
		}

		flusher := scrobbler.NewFlusher(queue, client.Scrobble(), &logger)
		flusher.Limit = scrobbleFlushLimit
		report, flushErr := flusher.Flush(cmd.Context())

		_, err = fmt.Fprintf(cmd.OutOrStdout(), "Submitted %d: %d accepted, %d ignored, %d failed\n",
			report.Submitted, report.Accepted, report.Ignored, report.Failed)
		if flushErr != nil {
			return flushErr
		}
		return err
	},
}

var scrobbleStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the offline queue",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		queue, err := openQueue()
		if err != nil {
			return err
		}
		defer func() { _ = queue.Close() }()

		ctx := cmd.Context()
		st, err := queue.Stats(ctx)
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		if _, err := fmt.Fprintf(w, "Pending: %d (%d failing)\nScrobbled: %d\nIgnored: %d\n",
			st.Pending, st.Failing, st.Scrobbled, st.Ignored); err != nil {
			return err
		}

		statuses := []scrobbler.Status{scrobbler.StatusPending}
		if scrobbleListAll {
			statuses = nil
		}
		entries, err := queue.List(ctx, statuses...)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			return nil
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
		return printItems(w, format(), entries, queueColumns)
	},
}

var scrobblePruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete old entries from the offline queue",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		queue, err := openQueue()
		if err != nil {
			return err
		}
		defer func() { _ = queue.Close() }()

		deleted, err := queue.Prune(cmd.Context(), time.Now(), scrobblePruneKeep)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d entries\n", deleted)
		return err
	},
}

func init() {
	rootCmd.AddCommand(scrobbleCmd)
	scrobbleCmd.AddCommand(scrobbleNowCmd, scrobbleTrackCmd, scrobbleQueueCmd,
		scrobbleFlushCmd, scrobbleStatusCmd, scrobblePruneCmd)

	for _, c := range []*cobra.Command{scrobbleNowCmd, scrobbleTrackCmd, scrobbleQueueCmd} {
		c.Flags().StringVar(&scrobbleAlbum, "album", "", "Album name")
		c.Flags().StringVar(&scrobbleAlbumArtist, "album-artist", "", "Album artist, if different from the artist")
		c.Flags().StringVar(&scrobbleMBID, "mbid", "", "MusicBrainz track ID")
		c.Flags().IntVar(&scrobbleTrackNumber, "track-number", 0, "Position of the track on the album")
		c.Flags().DurationVarP(&scrobbleDuration, "duration", "d", 0, "Track length (e.g. 3m45s)")
	}
	for _, c := range []*cobra.Command{scrobbleTrackCmd, scrobbleQueueCmd} {
		c.Flags().StringVar(&scrobbleAt, "at", "", "When playback started (RFC 3339, YYYY-MM-DD HH:MM or unix seconds; default now)")
		c.Flags().DurationVar(&scrobblePlayed, "played", 0, "How long the track was played")
		c.Flags().BoolVar(&scrobbleForce, "force", false, "Skip the scrobble eligibility check")
	}
	scrobbleFlushCmd.Flags().IntVar(&scrobbleFlushLimit, "limit", 0, "Submit at most this many plays")
	scrobbleStatusCmd.Flags().BoolVar(&scrobbleListAll, "all", false, "List submitted and ignored entries too")
	scrobblePruneCmd.Flags().DurationVar(&scrobblePruneKeep, "keep", 30*24*time.Hour, "Keep submitted entries played within this window")
}

func scrobbleTrack(args []string) lastfm.ScrobbleTrack {
	return lastfm.ScrobbleTrack{
		Artist:      args[0],
		Track:       args[1],
		Album:       scrobbleAlbum,
		AlbumArtist: scrobbleAlbumArtist,
		MBID:        scrobbleMBID,
		TrackNumber: scrobbleTrackNumber,
		Duration:    scrobbleDuration,
	}
}

// scrobblePlay builds a play from the flags and checks it against the
// scrobbling rules.
func scrobblePlay(args []string) (lastfm.Scrobble, error) {
	at, err := parseTime(scrobbleAt)
	if err != nil {
		return lastfm.Scrobble{}, fmt.Errorf("invalid --at: %w", err)
	}
	if at.IsZero() {
		at = time.Now()
	}
	if age := time.Since(at); age > scrobbler.MaxScrobbleAge {
		return lastfm.Scrobble{}, fmt.Errorf("plays older than %s are rejected by Last.fm", scrobbler.MaxScrobbleAge)
	}

	if !scrobbleForce && scrobblePlayed > 0 {
		if err := scrobbler.CheckPlay(scrobbleDuration, scrobblePlayed); err != nil {
			return lastfm.Scrobble{}, fmt.Errorf("%w (use --force to scrobble anyway)", err)
		}
	}

	return lastfm.Scrobble{Track: scrobbleTrack(args), Timestamp: at}, nil
}

func openQueue() (*scrobbler.Queue, error) {
	queue, err := scrobbler.NewQueue(cfg.QueueDB)
	if err != nil {
		return nil, fmt.Errorf("failed to open queue %s: %w", cfg.QueueDB, err)
	}
	return queue, nil
}

var queueColumns = []column[scrobbler.QueuedScrobble]{
	{"#", func(s scrobbler.QueuedScrobble) string { return fmt.Sprint(s.ID) }},
	{"PLAYED", func(s scrobbler.QueuedScrobble) string { return s.Timestamp.Local().Format("2006-01-02 15:04") }},
	{"TRACK", func(s scrobbler.QueuedScrobble) string { return s.Track.Track }},
	{"ARTIST", func(s scrobbler.QueuedScrobble) string { return s.Track.Artist }},
	{"STATUS", func(s scrobbler.QueuedScrobble) string { return string(s.Status) }},
	{"ERROR", func(s scrobbler.QueuedScrobble) string { return s.Error }},
}
