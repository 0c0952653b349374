package main

import (
	"github.com/spf13/cobra"
)

// options are the persistent flags shared by every command.
type options struct {
	server  string
	json    bool
	session string // path of the cached session cookie
}

// client returns an API client carrying the cached session, if any.
func (o *options) client() (*Client, error) {
	cookie, err := loadSession(o.session)
	if err != nil {
		return nil, err
	}
	return NewClient(o.server, cookie), nil
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "controlroom",
		Short: "CLI client for the controlroom server",
		Long: `controlroom - CLI client for the controlroom server

Mirror your Plex library, keep a diary, session notes
and a ledger of transactions.

Run 'controlroomd' to start the server daemon.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.session != "" {
				return nil
			}
			path, err := defaultSessionPath()
			if err != nil {
				return err
			}
			opts.session = path
			return nil
		},
	}

	root.PersistentFlags().StringVar(&opts.server, "server", "http://localhost:8585", "Server URL")
	root.PersistentFlags().BoolVar(&opts.json, "json", false, "Output as JSON")
	root.PersistentFlags().StringVar(&opts.session, "session", "", "Session file (default: user config dir)")

	root.Version = version
	root.SetVersionTemplate("controlroom {{.Version}}\n")

	root.AddCommand(
		newLoginCmd(opts),
		newLogoutCmd(opts),
		newWhoamiCmd(opts),
		newSyncCmd(opts),
		newMoviesCmd(opts),
		newShowsCmd(opts),
		newStatsCmd(opts),
		newDiaryCmd(opts),
		newNotesCmd(opts),
		newFinanceCmd(opts),
	)
	return root
}
