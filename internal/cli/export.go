package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/llehouerou/lyricsync/internal/errmsg"
	"github.com/llehouerou/lyricsync/internal/lyrics"
)

func newExportCmd(opts *rootOptions) *cobra.Command {
	var (
		format string
		out    string
	)

	cmd := &cobra.Command{
		Use:   "export FILE",
		Short: "Convert an LRC file to normalized LRC, SRT or JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format = strings.ToLower(strings.TrimSpace(format))
			switch format {
			case "lrc", "srt", "json":
			default:
				return fmt.Errorf("invalid --format %q: must be one of lrc, srt, json", format)
			}

			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}

			doc, _, err := readDocument(args[0])
			if err != nil {
				return err
			}

			var data []byte
			switch format {
			case "lrc":
				data = []byte(lyrics.ExportLRC(doc))
			case "srt":
				data = []byte(lyrics.ExportSRT(doc, cfg.GetLastLineDuration()))
			case "json":
				if data, err = lyrics.ExportJSON(doc); err != nil {
					return errmsg.Error(errmsg.OpExport, err)
				}
			}

			if out == "" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return errmsg.ErrorWith(errmsg.OpFileWrite, out, err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "srt", "Output format: lrc, srt or json")
	cmd.Flags().StringVar(&out, "out", "", "Output file (default: stdout)")
	return cmd
}
