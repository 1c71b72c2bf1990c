package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/llehouerou/lyricsync/internal/errmsg"
	"github.com/llehouerou/lyricsync/internal/sources"
)

var errNoSearcher = errors.New("no configured source supports search")

func newSearchCmd(opts *rootOptions) *cobra.Command {
	var (
		q          sources.SearchQuery
		limit      int
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search the lyrics database",
		Long:  "Search the lyrics database. At least one of --query or --track must be provided.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := q.Validate(); err != nil {
				return fmt.Errorf("at least one of --query or --track must be provided: %w", err)
			}

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

			if !svc.CanSearch() {
				return errmsg.Error(errmsg.OpSearch, errNoSearcher)
			}
			results, err := svc.Search(cmd.Context(), q)
			if err != nil {
				return errmsg.Error(errmsg.OpSearch, err)
			}

			w := cmd.OutOrStdout()
			if len(results) == 0 {
				fmt.Fprintln(w, "No results found")
				return nil
			}
			if limit > 0 && len(results) > limit {
				results = results[:limit]
			}

			if jsonOutput {
				return writeResultsJSON(w, results)
			}
			for i, r := range results {
				writeResult(w, i+1, r)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&q.Q, "query", "q", "", "Search keyword in any field")
	cmd.Flags().StringVarP(&q.TrackName, "track", "t", "", "Search in track name")
	cmd.Flags().StringVarP(&q.ArtistName, "artist", "a", "", "Search in artist name")
	cmd.Flags().StringVar(&q.AlbumName, "album", "", "Search in album name")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum results to show")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func writeResult(w io.Writer, n int, r sources.SearchResult) {
	duration := "?"
	if r.Duration > 0 {
		duration = fmt.Sprintf("%d:%02d", r.Duration/60, r.Duration%60)
	}
	instrumental := ""
	if r.Instrumental {
		instrumental = " [instrumental]"
	}

	fmt.Fprintf(w, "%d. %s - %s (%s)%s\n", n, r.ArtistName, r.TrackName, duration, instrumental)
	if r.AlbumName != "" {
		fmt.Fprintf(w, "   Album: %s\n", r.AlbumName)
	}
	fmt.Fprintf(w, "   Synced: %s  Plain: %s\n", mark(r.HasSynced), mark(r.HasPlain))
	if r.ID != 0 {
		fmt.Fprintf(w, "   ID: %d\n", r.ID)
	}
	fmt.Fprintln(w)
}

// writeResultsJSON prints result metadata without the lyric texts.
func writeResultsJSON(w io.Writer, results []sources.SearchResult) error {
	out := make([]sources.SearchResult, len(results))
	for i, r := range results {
		r.SyncedText, r.PlainText = "", ""
		out[i] = r
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func mark(ok bool) string {
	if ok {
		return "✓"
	}
	return "✗"
}
