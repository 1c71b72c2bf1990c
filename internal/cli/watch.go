package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/llehouerou/lyricsync/internal/errmsg"
	"github.com/llehouerou/lyricsync/internal/logging"
	"github.com/llehouerou/lyricsync/internal/mpris"
	"github.com/llehouerou/lyricsync/internal/ui/lyricsview"
	"github.com/llehouerou/lyricsync/internal/watch"
)

func newWatchCmd(opts *rootOptions) *cobra.Command {
	var (
		player       string
		refreshHz    float64
		contextLines int
		noAltScreen  bool
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Show synced lyrics for the playing track",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("refresh-hz") {
				cfg.Watch.RefreshHz = refreshHz
			}
			if cmd.Flags().Changed("context") {
				cfg.Watch.ContextLines = contextLines
			}
			if noAltScreen {
				off := false
				cfg.Watch.AltScreen = &off
			}
			if player == "" {
				player = cfg.Player
			}
			wcfg := cfg.GetWatchConfig()

			// The display owns the terminal, so logs go to a file.
			logPath, err := cfg.LogPath()
			if err != nil {
				return errmsg.Error(errmsg.OpLogSetup, err)
			}
			logFile, err := logging.OpenFile(logPath)
			if err != nil {
				return errmsg.ErrorWith(errmsg.OpLogSetup, logPath, err)
			}
			defer logFile.Close()

			log, err := logging.New(logFile, cfg.Log.Level, opts.debug, false)
			if err != nil {
				return errmsg.Error(errmsg.OpLogSetup, err)
			}

			svc, store, err := openService(cfg, log)
			if err != nil {
				return err
			}
			defer store.Close()

			client := mpris.Connect(logging.Component(log, "mpris"))
			session := watch.NewSession(playerPicker{client: client}, svc, watch.Options{
				Preferred:    player,
				ContextLines: wcfg.ContextLines,
				Tick:         wcfg.TickInterval(),
				Logger:       logging.Component(log, "watch"),
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			log.Info().Str("player", player).Float64("refresh_hz", wcfg.RefreshHz).Msg("watch started")
			if err := lyricsview.Run(ctx, session, *wcfg.AltScreen); err != nil {
				return errmsg.Error(errmsg.OpWatch, err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&player, "player", "", "MPRIS bus name or short name (e.g. vlc)")
	cmd.Flags().Float64Var(&refreshHz, "refresh-hz", 0, "Polling frequency in Hz (default from config: 30)")
	cmd.Flags().IntVar(&contextLines, "context", 0, "Lines shown above the current one (default from config: 1)")
	cmd.Flags().BoolVar(&noAltScreen, "no-alt-screen", false, "Do not use the alternate screen buffer")
	return cmd
}

// playerPicker adapts the MPRIS client to the session's Picker.
type playerPicker struct {
	client *mpris.Client
}

func (p playerPicker) Pick(preferred string) (watch.Player, error) {
	player, err := p.client.Pick(preferred)
	if err != nil {
		return nil, err
	}
	return player, nil
}
