package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/llehouerou/lyricsync/internal/errmsg"
	"github.com/llehouerou/lyricsync/internal/track"
)

var errNoLyrics = errors.New("no lyrics found")

func newFetchCmd(opts *rootOptions) *cobra.Command {
	var key track.Key

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Resolve lyrics for one track and print them",
		Long:  "Resolve lyrics through the cache and configured sources. The lyrics go to stdout, the source to stderr.",
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
			svc, store, err := openService(cfg, log)
			if err != nil {
				return err
			}
			defer store.Close()

			resp := svc.Resolve(cmd.Context(), key)
			if !resp.HasLyrics {
				return errmsg.ErrorWith(errmsg.OpFetch, key.Display(), errNoLyrics)
			}

			fmt.Fprintf(cmd.ErrOrStderr(), "source: %s\n", resp.Source)
			text := resp.Text
			if !strings.HasSuffix(text, "\n") {
				text += "\n"
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), text)
			return err
		},
	}

	cmd.Flags().StringVar(&key.Artist, "artist", "", "Track artist")
	cmd.Flags().StringVar(&key.Title, "title", "", "Track title")
	cmd.Flags().StringVar(&key.Album, "album", "", "Track album")
	_ = cmd.MarkFlagRequired("artist")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}
