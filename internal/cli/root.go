// Package cli implements the lyricsync command tree.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/llehouerou/lyricsync/internal/cache"
	"github.com/llehouerou/lyricsync/internal/config"
	"github.com/llehouerou/lyricsync/internal/errmsg"
	"github.com/llehouerou/lyricsync/internal/logging"
	"github.com/llehouerou/lyricsync/internal/retrieval"
	"github.com/llehouerou/lyricsync/internal/sources"
)

// rootOptions holds the persistent flags shared by every command.
type rootOptions struct {
	configPath string
	debug      bool
}

// Execute runs the command line and exits non-zero on failure.
func Execute() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "lyricsync",
		Short:         "Synced lyrics for whatever your MPRIS player is playing",
		Long:          "A terminal lyrics display that follows MPRIS players, with a local lyrics cache and LRC tools.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Config file (default: XDG config, then ./config.toml)")
	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "Enable debug logging")

	cmd.AddCommand(
		newWatchCmd(opts),
		newPlayersCmd(opts),
		newParseCmd(),
		newExportCmd(opts),
		newCacheCmd(opts),
		newSearchCmd(opts),
		newFetchCmd(opts),
	)
	return cmd
}

func (o *rootOptions) loadConfig() (*config.Config, error) {
	if o.configPath == "" {
		cfg, err := config.Load()
		if err != nil {
			return nil, errmsg.Error(errmsg.OpConfigLoad, err)
		}
		return cfg, nil
	}

	if _, err := os.Stat(o.configPath); err != nil {
		return nil, errmsg.ErrorWith(errmsg.OpConfigLoad, o.configPath, err)
	}
	cfg, err := config.LoadFrom([]string{o.configPath})
	if err != nil {
		return nil, errmsg.ErrorWith(errmsg.OpConfigLoad, o.configPath, err)
	}
	return cfg, nil
}

// logger returns a console logger on w for the non-interactive commands.
func (o *rootOptions) logger(cfg *config.Config, w io.Writer) (zerolog.Logger, error) {
	log, err := logging.New(w, cfg.Log.Level, o.debug, true)
	if err != nil {
		return zerolog.Nop(), errmsg.Error(errmsg.OpLogSetup, err)
	}
	return log, nil
}

// openService wires the cache store and configured sources into a
// retrieval service. The caller closes the returned store.
func openService(cfg *config.Config, log zerolog.Logger) (*retrieval.Service, cache.Store, error) {
	store, err := cache.Open(cfg)
	if err != nil {
		return nil, nil, errmsg.Error(errmsg.OpCacheOpen, err)
	}

	srcs := sources.Build(cfg, logging.Component(log, "sources"))
	svc := retrieval.New(store, srcs,
		retrieval.WithNegativeTTL(cfg.Cache.NegativeTTL),
		retrieval.WithLogger(logging.Component(log, "retrieval")),
	)
	return svc, store, nil
}

// cacheLocation describes where the configured cache lives.
func cacheLocation(cfg *config.Config) string {
	if cfg.Cache.Backend == "redis" {
		return "redis://" + cfg.Cache.Redis.Addr + "/" + cfg.Cache.Redis.Prefix
	}
	path, err := cfg.CachePath()
	if err != nil {
		return "sqlite"
	}
	return path
}
