package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/llehouerou/lyricsync/internal/errmsg"
	"github.com/llehouerou/lyricsync/internal/logging"
	"github.com/llehouerou/lyricsync/internal/mpris"
)

func newPlayersCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "players",
		Short: "List available MPRIS players",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			log, err := opts.logger(cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			names, err := mpris.Connect(logging.Component(log, "mpris")).ListPlayers()
			if err != nil {
				return errmsg.Error(errmsg.OpPlayersList, err)
			}
			if len(names) == 0 {
				fmt.Fprintln(cmd.ErrOrStderr(), "No active MPRIS players")
				return nil
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), formatPlayer(name))
			}
			return nil
		},
	}
}

// formatPlayer shows the short name accepted by --player next to the bus name.
func formatPlayer(busName string) string {
	return fmt.Sprintf("%-12s %s", mpris.ShortName(busName), busName)
}
