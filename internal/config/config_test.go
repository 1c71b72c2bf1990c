package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("could not get home directory: %v", err)
	}

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "empty path",
			input: "",
			want:  "",
		},
		{
			name:  "absolute path unchanged",
			input: "/var/cache/lyrics.db",
			want:  "/var/cache/lyrics.db",
		},
		{
			name:  "relative path unchanged",
			input: "relative/path",
			want:  "relative/path",
		},
		{
			name:  "tilde only",
			input: "~",
			want:  home,
		},
		{
			name:  "tilde with path",
			input: "~/.cache/lyricsync/cache.sqlite3",
			want:  filepath.Join(home, ".cache/lyricsync/cache.sqlite3"),
		},
		{
			name:  "tilde in middle unchanged",
			input: "/path/~/music",
			want:  "/path/~/music",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := expandPath(tt.input)
			if got != tt.want {
				t.Errorf("expandPath(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestGetConfigPaths(t *testing.T) {
	paths := getConfigPaths()

	if len(paths) != 2 {
		t.Fatalf("getConfigPaths() returned %d paths, want 2", len(paths))
	}

	// Last path should be local config (highest priority)
	if paths[len(paths)-1] != "config.toml" {
		t.Errorf("last path = %q, want %q", paths[len(paths)-1], "config.toml")
	}

	if filepath.Base(filepath.Dir(paths[0])) != "lyricsync" {
		t.Errorf("first path = %q, want it under a lyricsync directory", paths[0])
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("could not write config file: %v", err)
	}
	return path
}

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom([]string{filepath.Join(t.TempDir(), "missing.toml")})
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if len(cfg.Sources) != 1 || cfg.Sources[0] != "lrclib" {
		t.Errorf("Sources = %v, want [lrclib]", cfg.Sources)
	}
	if cfg.API.MinInterval != 5*time.Second {
		t.Errorf("API.MinInterval = %v, want 5s", cfg.API.MinInterval)
	}
	if cfg.API.MaxRetries != 3 {
		t.Errorf("API.MaxRetries = %d, want 3", cfg.API.MaxRetries)
	}
	if cfg.API.BackoffBase != time.Second {
		t.Errorf("API.BackoffBase = %v, want 1s", cfg.API.BackoffBase)
	}
	if cfg.API.Timeout != 10*time.Second {
		t.Errorf("API.Timeout = %v, want 10s", cfg.API.Timeout)
	}
	if cfg.Cache.Backend != "sqlite" {
		t.Errorf("Cache.Backend = %q, want %q", cfg.Cache.Backend, "sqlite")
	}
	if cfg.Cache.NegativeTTL != 0 {
		t.Errorf("Cache.NegativeTTL = %v, want 0", cfg.Cache.NegativeTTL)
	}
	if cfg.Cache.Redis.Prefix != "lyricsync" {
		t.Errorf("Cache.Redis.Prefix = %q, want %q", cfg.Cache.Redis.Prefix, "lyricsync")
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, "info")
	}
	if cfg.Watch.ContextLines != 1 {
		t.Errorf("Watch.ContextLines = %d, want 1", cfg.Watch.ContextLines)
	}
	if got := cfg.GetLastLineDuration(); got != 2*time.Second {
		t.Errorf("GetLastLineDuration() = %v, want 2s", got)
	}
}

func TestLoadFrom_BasicConfig(t *testing.T) {
	path := writeConfig(t, `
sources = ["lyrics_ovh", "lrclib"]
player = "spotify"

[api]
min_interval = "2s"
max_retries = 5

[source.lyrics_ovh]
min_interval = "500ms"

[cache]
backend = "Redis"
path = "~/lyrics.sqlite3"
negative_ttl = "24h"

[cache.redis]
addr = "localhost:6379"
db = 2

[watch]
refresh_hz = 10
context_lines = 0
alt_screen = false

[export]
last_line_duration = "3s"

[log]
level = "debug"
`)

	cfg, err := LoadFrom([]string{path})
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if len(cfg.Sources) != 2 || cfg.Sources[0] != "lyrics_ovh" || cfg.Sources[1] != "lrclib" {
		t.Errorf("Sources = %v, want [lyrics_ovh lrclib]", cfg.Sources)
	}
	if cfg.Player != "spotify" {
		t.Errorf("Player = %q, want %q", cfg.Player, "spotify")
	}
	if cfg.API.MinInterval != 2*time.Second {
		t.Errorf("API.MinInterval = %v, want 2s", cfg.API.MinInterval)
	}
	if cfg.API.MaxRetries != 5 {
		t.Errorf("API.MaxRetries = %d, want 5", cfg.API.MaxRetries)
	}
	// Unset fields still get defaults
	if cfg.API.Timeout != 10*time.Second {
		t.Errorf("API.Timeout = %v, want 10s", cfg.API.Timeout)
	}
	if cfg.Cache.Backend != "redis" {
		t.Errorf("Cache.Backend = %q, want %q", cfg.Cache.Backend, "redis")
	}
	home, _ := os.UserHomeDir()
	if want := filepath.Join(home, "lyrics.sqlite3"); cfg.Cache.Path != want {
		t.Errorf("Cache.Path = %q, want %q", cfg.Cache.Path, want)
	}
	if cfg.Cache.NegativeTTL != 24*time.Hour {
		t.Errorf("Cache.NegativeTTL = %v, want 24h", cfg.Cache.NegativeTTL)
	}
	if cfg.Cache.Redis.Addr != "localhost:6379" || cfg.Cache.Redis.DB != 2 {
		t.Errorf("Cache.Redis = %+v, want addr localhost:6379 db 2", cfg.Cache.Redis)
	}
	if cfg.Watch.ContextLines != 0 {
		t.Errorf("Watch.ContextLines = %d, want 0", cfg.Watch.ContextLines)
	}
	if got := cfg.GetLastLineDuration(); got != 3*time.Second {
		t.Errorf("GetLastLineDuration() = %v, want 3s", got)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, "debug")
	}

	ovh := cfg.SourceAPI("lyrics_ovh")
	if ovh.MinInterval != 500*time.Millisecond {
		t.Errorf("SourceAPI(lyrics_ovh).MinInterval = %v, want 500ms", ovh.MinInterval)
	}
	if ovh.MaxRetries != 5 {
		t.Errorf("SourceAPI(lyrics_ovh).MaxRetries = %d, want inherited 5", ovh.MaxRetries)
	}
	if got := cfg.SourceAPI("lrclib"); got != cfg.API {
		t.Errorf("SourceAPI(lrclib) = %+v, want shared %+v", got, cfg.API)
	}

	watch := cfg.GetWatchConfig()
	if watch.RefreshHz != 10 {
		t.Errorf("RefreshHz = %v, want 10", watch.RefreshHz)
	}
	if watch.AltScreen == nil || *watch.AltScreen {
		t.Errorf("AltScreen = %v, want false", watch.AltScreen)
	}
	if got := watch.TickInterval(); got != 100*time.Millisecond {
		t.Errorf("TickInterval() = %v, want 100ms", got)
	}
}

func TestLoadFrom_LaterFileWins(t *testing.T) {
	first := writeConfig(t, "player = \"vlc\"\n[log]\nlevel = \"warn\"\n")
	second := writeConfig(t, "player = \"mpv\"\n")

	cfg, err := LoadFrom([]string{first, second})
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.Player != "mpv" {
		t.Errorf("Player = %q, want %q", cfg.Player, "mpv")
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, "warn")
	}
}

func TestLoadFrom_EnvOverrides(t *testing.T) {
	path := writeConfig(t, "sources = [\"lrclib\"]\n[api]\nmax_retries = 2\n")

	t.Setenv("LYRICSYNC_SOURCES", "lrclib, ovh")
	t.Setenv("LYRICSYNC_API__MAX_RETRIES", "7")
	t.Setenv("LYRICSYNC_CACHE__NEGATIVE_TTL", "1h")

	cfg, err := LoadFrom([]string{path})
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if len(cfg.Sources) != 2 || cfg.Sources[0] != "lrclib" || cfg.Sources[1] != "ovh" {
		t.Errorf("Sources = %v, want [lrclib ovh]", cfg.Sources)
	}
	if cfg.API.MaxRetries != 7 {
		t.Errorf("API.MaxRetries = %d, want 7", cfg.API.MaxRetries)
	}
	if cfg.Cache.NegativeTTL != time.Hour {
		t.Errorf("Cache.NegativeTTL = %v, want 1h", cfg.Cache.NegativeTTL)
	}
}

func TestLoadFrom_ExplicitZeroDisablesRateLimit(t *testing.T) {
	path := writeConfig(t, `
[api]
min_interval = "0s"
backoff_base = "0s"
max_retries = 0

[source.lyrics_ovh]
min_interval = "0s"

[source.lrclib]
max_retries = 2
`)

	cfg, err := LoadFrom([]string{path})
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if cfg.API.MinInterval != 0 {
		t.Errorf("API.MinInterval = %v, want explicit 0", cfg.API.MinInterval)
	}
	if cfg.API.BackoffBase != 0 {
		t.Errorf("API.BackoffBase = %v, want explicit 0", cfg.API.BackoffBase)
	}
	// Retries cannot be disabled; at least the default number of attempts
	if cfg.API.MaxRetries != 3 {
		t.Errorf("API.MaxRetries = %d, want default 3", cfg.API.MaxRetries)
	}

	if got := cfg.SourceAPI("lyrics_ovh").MinInterval; got != 0 {
		t.Errorf("SourceAPI(lyrics_ovh).MinInterval = %v, want explicit 0", got)
	}
	lrclib := cfg.SourceAPI("lrclib")
	if lrclib.MaxRetries != 2 {
		t.Errorf("SourceAPI(lrclib).MaxRetries = %d, want 2", lrclib.MaxRetries)
	}
	if lrclib.MinInterval != 0 {
		t.Errorf("SourceAPI(lrclib).MinInterval = %v, want inherited 0", lrclib.MinInterval)
	}
}

func TestLoadFrom_ExplicitZeroFromEnv(t *testing.T) {
	path := writeConfig(t, "[api]\nmin_interval = \"2s\"\n")
	t.Setenv("LYRICSYNC_API__MIN_INTERVAL", "0s")

	cfg, err := LoadFrom([]string{path})
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.API.MinInterval != 0 {
		t.Errorf("API.MinInterval = %v, want 0 from env", cfg.API.MinInterval)
	}
	if cfg.API.BackoffBase != time.Second {
		t.Errorf("API.BackoffBase = %v, want default 1s", cfg.API.BackoffBase)
	}
}

func TestLoadFrom_InvalidToml(t *testing.T) {
	path := writeConfig(t, "invalid = [[[")

	if _, err := LoadFrom([]string{path}); err == nil {
		t.Error("LoadFrom() expected error for invalid TOML, got nil")
	}
}

func TestEnvKey(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"LYRICSYNC_PLAYER", "player"},
		{"LYRICSYNC_API__MIN_INTERVAL", "api.min_interval"},
		{"LYRICSYNC_CACHE__REDIS__ADDR", "cache.redis.addr"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := envKey(tt.input); got != tt.want {
				t.Errorf("envKey(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestGetWatchConfig_Defaults(t *testing.T) {
	tests := []struct {
		name      string
		watch     WatchConfig
		wantHz    float64
		wantLines int
	}{
		{
			name:      "zero values",
			watch:     WatchConfig{},
			wantHz:    30,
			wantLines: 0,
		},
		{
			name:      "sub-hertz clamped to one",
			watch:     WatchConfig{RefreshHz: 0.2, ContextLines: 2},
			wantHz:    1,
			wantLines: 2,
		},
		{
			name:      "negative context lines",
			watch:     WatchConfig{RefreshHz: 60, ContextLines: -3},
			wantHz:    60,
			wantLines: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Watch: tt.watch}
			got := cfg.GetWatchConfig()
			if got.RefreshHz != tt.wantHz {
				t.Errorf("RefreshHz = %v, want %v", got.RefreshHz, tt.wantHz)
			}
			if got.ContextLines != tt.wantLines {
				t.Errorf("ContextLines = %d, want %d", got.ContextLines, tt.wantLines)
			}
			if got.AltScreen == nil || !*got.AltScreen {
				t.Errorf("AltScreen = %v, want true", got.AltScreen)
			}
		})
	}
}

func TestCachePath_Explicit(t *testing.T) {
	cfg := &Config{Cache: CacheConfig{Path: "/tmp/lyrics.sqlite3"}}
	got, err := cfg.CachePath()
	if err != nil {
		t.Fatalf("CachePath() error = %v", err)
	}
	if got != "/tmp/lyrics.sqlite3" {
		t.Errorf("CachePath() = %q, want %q", got, "/tmp/lyrics.sqlite3")
	}
}
