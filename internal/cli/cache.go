package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/llehouerou/lyricsync/internal/cache"
	"github.com/llehouerou/lyricsync/internal/errmsg"
)

func newCacheCmd(opts *rootOptions) *cobra.Command {
	var (
		clearCache bool
		list       bool
		limit      int
	)

	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the lyrics cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			store, err := cache.Open(cfg)
			if err != nil {
				return errmsg.Error(errmsg.OpCacheOpen, err)
			}
			defer store.Close()

			ctx := cmd.Context()
			w := cmd.OutOrStdout()
			location := cacheLocation(cfg)

			switch {
			case clearCache:
				if err := store.Clear(ctx); err != nil {
					return errmsg.Error(errmsg.OpCacheClear, err)
				}
				fmt.Fprintf(w, "Cache cleared: %s\n", location)
			case list:
				entries, err := store.List(ctx, limit)
				if err != nil {
					return errmsg.Error(errmsg.OpCacheList, err)
				}
				if len(entries) == 0 {
					fmt.Fprintln(w, "Cache is empty")
					return nil
				}
				for _, e := range entries {
					fmt.Fprintln(w, formatEntry(e))
				}
			default:
				n, err := store.Count(ctx)
				if err != nil {
					return errmsg.Error(errmsg.OpCacheList, err)
				}
				fmt.Fprintf(w, "%d cached entries in %s\n", n, location)
				fmt.Fprintln(w, "Use --list to show entries or --clear to clear the cache")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&clearCache, "clear", false, "Remove every cached entry")
	cmd.Flags().BoolVar(&list, "list", false, "List cached entries, newest first")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum entries to list (0: all)")
	cmd.MarkFlagsMutuallyExclusive("clear", "list")
	return cmd
}

func formatEntry(e cache.Entry) string {
	line := e.Key.Display()
	if e.Key.Album != "" {
		line += " [" + e.Key.Album + "]"
	}
	if e.HasLyrics {
		line += " (" + e.Source + ")"
	} else {
		line += " (no lyrics)"
	}
	return line + ", " + humanize.Time(e.UpdatedAt)
}
