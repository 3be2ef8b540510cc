package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jfmyers9/lfm/pkg/lastfm"
	"github.com/spf13/cobra"
)

var (
	authMobile     bool
	authRetryDelay = 2 * time.Second
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authenticate with Last.fm",
	Long: `Authenticate with Last.fm to enable scrobbling, loving and tagging.

This command will guide you through the Last.fm authentication process:
1. You'll be prompted to enter your Last.fm API key and secret
2. A browser URL will be provided for you to authorize the application
   (or, with --mobile, your username and password are exchanged directly)
3. After authorization, a session key will be saved to your config file

You can get API credentials from: https://www.last.fm/api/account/create`,
	Args: cobra.NoArgs,
	RunE: runAuth,
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.Flags().BoolVar(&authMobile, "mobile", false, "Authenticate with username and password instead of the browser")
}

func runAuth(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	reader := bufio.NewReader(cmd.InOrStdin())

	fmt.Fprintln(out, "Last.fm Authentication")
	fmt.Fprintln(out, "======================")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "You can get API credentials from: https://www.last.fm/api/account/create")
	fmt.Fprintln(out)

	if cfg.LastFM.APIKey != "" && cfg.LastFM.APISecret != "" {
		fmt.Fprintf(out, "Found existing API credentials.\n")
		fmt.Fprintf(out, "API Key: %s\n", cfg.LastFM.APIKey)
		response := prompt(out, reader, "\nUse existing credentials? [Y/n]: ")
		response = strings.ToLower(response)
		if response != "" && response != "y" && response != "yes" {
			cfg.LastFM.APIKey = ""
			cfg.LastFM.APISecret = ""
		}
	}

	if cfg.LastFM.APIKey == "" {
		cfg.LastFM.APIKey = prompt(out, reader, "Enter your Last.fm API Key: ")
	}
	if cfg.LastFM.APISecret == "" {
		cfg.LastFM.APISecret = prompt(out, reader, "Enter your Last.fm API Secret: ")
	}
	if cfg.LastFM.APIKey == "" || cfg.LastFM.APISecret == "" {
		return fmt.Errorf("API key and secret are required")
	}

	var (
		session *lastfm.AuthSession
		err     error
	)
	if authMobile {
		session, err = mobileAuth(ctx, out, reader)
	} else {
		session, err = webAuth(ctx, out, reader)
	}
	if err != nil {
		return err
	}

	cfg.LastFM.SessionKey = session.Key
	if session.Username != "" {
		cfg.LastFM.Username = session.Username
	}
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Fprintf(out, "\n✓ Authenticated as %s\n", cfg.LastFM.Username)
	fmt.Fprintf(out, "✓ Session key saved to %s\n", cfg.Path())
	fmt.Fprintln(out, "\nYou can now use 'lfm scrobble' and 'lfm track love'.")
	return nil
}

// webAuth runs the token flow: the user authorizes a request token in the
// browser and it is exchanged for a session key.
func webAuth(ctx context.Context, out io.Writer, reader *bufio.Reader) (*lastfm.AuthSession, error) {
	client, err := newClient()
	if err != nil {
		return nil, err
	}

	fmt.Fprintln(out, "\nGenerating authentication token...")
	token, err := client.Auth().GetToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate auth token: %w", err)
	}

	fmt.Fprintln(out, "\nPlease visit this URL to authorize lfm:")
	fmt.Fprintf(out, "\n  %s\n\n", client.Auth().GetAuthURL(token.Token))
	fmt.Fprintln(out, "After authorizing, press Enter to continue...")
	_, _ = reader.ReadString('\n')

	// The token may take a moment to become authorized after the redirect.
	fmt.Fprintln(out, "Retrieving session key...")
	var session *lastfm.AuthSession
	maxRetries := 3
	for i := 0; i < maxRetries; i++ {
		session, err = client.Auth().GetSession(ctx, token.Token)
		if err == nil {
			return session, nil
		}
		logger.Debug().Err(err).Int("attempt", i+1).Msg("auth.getSession failed")

		if i < maxRetries-1 {
			fmt.Fprintf(out, "Failed to retrieve session (attempt %d/%d). Retrying in %v...\n",
				i+1, maxRetries, authRetryDelay)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(authRetryDelay):
			}
		}
	}
	return nil, fmt.Errorf("failed to get session key after %d attempts: %w", maxRetries, err)
}

// mobileAuth exchanges the username and password for a session key. Only
// the session key is saved.
func mobileAuth(ctx context.Context, out io.Writer, reader *bufio.Reader) (*lastfm.AuthSession, error) {
	if cfg.LastFM.Username == "" {
		cfg.LastFM.Username = prompt(out, reader, "Last.fm username: ")
	}
	if cfg.LastFM.Password == "" {
		cfg.LastFM.Password = prompt(out, reader, "Last.fm password: ")
	}
	if cfg.LastFM.Username == "" || cfg.LastFM.Password == "" {
		return nil, fmt.Errorf("username and password are required")
	}

	client, err := newClient()
	if err != nil {
		return nil, err
	}

	fmt.Fprintln(out, "\nRequesting session key...")
	session, err := client.Auth().GetMobileSession(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get session key: %w", err)
	}
	return session, nil
}

func prompt(out io.Writer, reader *bufio.Reader, label string) string {
	fmt.Fprint(out, label)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return ""
	}
	return strings.TrimSpace(line)
}
