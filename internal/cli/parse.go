package cli

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/llehouerou/lyricsync/internal/errmsg"
	"github.com/llehouerou/lyricsync/internal/lyrics"
)

func newParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse FILE",
		Short: "Parse an LRC file and print statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, stats, err := readDocument(args[0])
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "lines_total=%d\n", stats.LinesTotal)
			fmt.Fprintf(w, "lines_with_timestamps=%d\n", stats.LinesWithTimestamps)
			fmt.Fprintf(w, "lines_ignored=%d\n", stats.LinesIgnored)
			fmt.Fprintf(w, "events_total=%d\n", stats.EventsTotal)
			fmt.Fprintf(w, "offset_ms=%d\n", doc.Offset.Milliseconds())
			fmt.Fprintf(w, "tags=%s\n", formatTags(doc.Tags))
			return nil
		},
	}
}

// readDocument loads and parses an LRC file.
func readDocument(path string) (*lyrics.Document, lyrics.ParseStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, lyrics.ParseStats{}, errmsg.ErrorWith(errmsg.OpFileLoad, path, err)
	}
	defer f.Close()

	doc, stats, err := lyrics.ParseLRC(f)
	if err != nil {
		return nil, stats, errmsg.ErrorWith(errmsg.OpLyricsParse, path, err)
	}
	return doc, stats, nil
}

// formatTags renders tags as {key:value, ...} in key order.
func formatTags(tags map[string]string) string {
	keys := make([]string, 0, len(tags))
	for k := range tags {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ":" + tags[k]
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
