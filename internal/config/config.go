package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	appName   = "lyricsync"
	envPrefix = "LYRICSYNC_"
)

type Config struct {
	// Lyric sources in priority order ("lrclib", "lyrics_ovh")
	Sources []string `koanf:"sources"`

	// Preferred MPRIS player: full bus name or short suffix like "vlc"
	Player string `koanf:"player"`

	// Rate limit and retry settings shared by all sources
	API APIConfig `koanf:"api"`

	// Per-source overrides keyed by source name; zero fields inherit from API
	Source map[string]APIConfig `koanf:"source"`

	Cache  CacheConfig  `koanf:"cache"`
	Watch  WatchConfig  `koanf:"watch"`
	Export ExportConfig `koanf:"export"`
	Log    LogConfig    `koanf:"log"`
}

// APIConfig holds outbound call policy for a lyric source.
type APIConfig struct {
	MinInterval time.Duration `koanf:"min_interval"` // minimum gap between calls (default: 5s)
	MaxRetries  int           `koanf:"max_retries"`  // attempts per fetch (default: 3)
	BackoffBase time.Duration `koanf:"backoff_base"` // delay grows as base*attempt (default: 1s)
	Timeout     time.Duration `koanf:"timeout"`      // per request (default: 10s)
}

// CacheConfig selects and configures the lyrics cache store.
type CacheConfig struct {
	Backend     string        `koanf:"backend"`      // "sqlite" or "redis" (default: "sqlite")
	Path        string        `koanf:"path"`         // SQLite file
	NegativeTTL time.Duration `koanf:"negative_ttl"` // 0: always re-check sources for negative entries
	Redis       RedisConfig   `koanf:"redis"`
}

// RedisConfig holds Redis connection settings for the redis cache backend.
type RedisConfig struct {
	Addr     string `koanf:"addr"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
	Prefix   string `koanf:"prefix"` // key prefix (default: "lyricsync")
}

// WatchConfig holds display loop settings.
type WatchConfig struct {
	RefreshHz    float64 `koanf:"refresh_hz"`    // polling frequency (default: 30)
	ContextLines int     `koanf:"context_lines"` // lines shown above the current one (default: 1)
	AltScreen    *bool   `koanf:"alt_screen"`    // use the alternate screen (default: true)
}

// ExportConfig holds exporter settings.
type ExportConfig struct {
	LastLineDuration time.Duration `koanf:"last_line_duration"` // final SRT cue length (default: 2s)
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `koanf:"level"` // "debug", "info", "warn", "error" (default: "info")
	File  string `koanf:"file"`  // log file used while the TUI owns the terminal
}

// Load reads config files in priority order, then environment overrides.
func Load() (*Config, error) {
	return LoadFrom(getConfigPaths())
}

// LoadFrom reads the given config files (missing ones are skipped) and
// applies LYRICSYNC_ environment overrides on top.
func LoadFrom(paths []string) (*Config, error) {
	k := koanf.New(".")

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, err
			}
		}
	}

	// LYRICSYNC_API__MIN_INTERVAL=2s -> api.min_interval
	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return nil, err
	}

	cfg := &Config{
		Watch: WatchConfig{ContextLines: 1},
	}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	cfg.normalize(k)
	return cfg, nil
}

func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, envPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

func (c *Config) normalize(k *koanf.Koanf) {
	c.Sources = splitList(c.Sources)
	if len(c.Sources) == 0 {
		c.Sources = []string{"lrclib"}
	}

	c.API = c.API.withDefaults(defaultAPI(), keySet(k, "api"))
	for name, override := range c.Source {
		c.Source[name] = override.withDefaults(c.API, keySet(k, "source."+name))
	}

	c.Cache.Backend = strings.ToLower(strings.TrimSpace(c.Cache.Backend))
	if c.Cache.Backend == "" {
		c.Cache.Backend = "sqlite"
	}
	c.Cache.Path = expandPath(c.Cache.Path)
	if c.Cache.Redis.Prefix == "" {
		c.Cache.Redis.Prefix = appName
	}

	c.Log.File = expandPath(c.Log.File)
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// splitList flattens comma-separated entries, which is how list values
// arrive from the environment.
func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for part := range strings.SplitSeq(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func defaultAPI() APIConfig {
	return APIConfig{
		MinInterval: 5 * time.Second,
		MaxRetries:  3,
		BackoffBase: time.Second,
		Timeout:     10 * time.Second,
	}
}

// withDefaults fills fields from d. A zero min_interval or backoff_base is
// kept when the key was set explicitly, which disables the rate limit or
// the delay between retries. Retries and timeout must be positive.
func (a APIConfig) withDefaults(d APIConfig, isSet func(key string) bool) APIConfig {
	if a.MinInterval < 0 || (a.MinInterval == 0 && !isSet("min_interval")) {
		a.MinInterval = d.MinInterval
	}
	if a.MaxRetries <= 0 {
		a.MaxRetries = d.MaxRetries
	}
	if a.BackoffBase < 0 || (a.BackoffBase == 0 && !isSet("backoff_base")) {
		a.BackoffBase = d.BackoffBase
	}
	if a.Timeout <= 0 {
		a.Timeout = d.Timeout
	}
	return a
}

func keySet(k *koanf.Koanf, prefix string) func(string) bool {
	return func(key string) bool {
		return k.Exists(prefix + "." + key)
	}
}

// SourceAPI returns the call policy for a source: its override section,
// already merged over the shared settings at load time, or the shared one.
func (c *Config) SourceAPI(name string) APIConfig {
	if override, ok := c.Source[name]; ok {
		return override
	}
	return c.API
}

// CachePath returns the SQLite cache location.
func (c *Config) CachePath() (string, error) {
	if c.Cache.Path != "" {
		return c.Cache.Path, nil
	}
	return xdg.CacheFile(filepath.Join(appName, "cache.sqlite3"))
}

// LogPath returns the log file used by the watch display.
func (c *Config) LogPath() (string, error) {
	if c.Log.File != "" {
		return c.Log.File, nil
	}
	return xdg.StateFile(filepath.Join(appName, appName+".log"))
}

// GetWatchConfig returns the display configuration with defaults applied.
func (c *Config) GetWatchConfig() WatchConfig {
	cfg := c.Watch

	if cfg.RefreshHz <= 0 {
		cfg.RefreshHz = 30
	}
	if cfg.RefreshHz < 1 {
		cfg.RefreshHz = 1
	}
	if cfg.ContextLines < 0 {
		cfg.ContextLines = 0
	}
	if cfg.AltScreen == nil {
		on := true
		cfg.AltScreen = &on
	}

	return cfg
}

// TickInterval returns the polling period for the watch loop.
func (w WatchConfig) TickInterval() time.Duration {
	return time.Duration(float64(time.Second) / w.RefreshHz)
}

// GetLastLineDuration returns the final SRT cue length with the default applied.
func (c *Config) GetLastLineDuration() time.Duration {
	if c.Export.LastLineDuration <= 0 {
		return 2 * time.Second
	}
	return c.Export.LastLineDuration
}

func getConfigPaths() []string {
	paths := []string{}

	// 1. $XDG_CONFIG_HOME/lyricsync/config.toml
	paths = append(paths, filepath.Join(xdg.ConfigHome, appName, "config.toml"))

	// 2. ./config.toml (pwd, highest priority)
	paths = append(paths, "config.toml")

	return paths
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
