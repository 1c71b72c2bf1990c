// Package cache persists lyric lookups keyed by (artist, title, album).
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/llehouerou/lyricsync/internal/config"
	"github.com/llehouerou/lyricsync/internal/db"
	"github.com/llehouerou/lyricsync/internal/track"
)

// Entry is one cached lookup. A negative entry has HasLyrics false and
// records that no source produced lyrics as of UpdatedAt.
type Entry struct {
	Key       track.Key
	HasLyrics bool
	Source    string
	Text      string
	UpdatedAt time.Time
}

// Store is a durable lyric cache. Set is an upsert keyed on the track key.
type Store interface {
	// Get returns the entry for key; ok is false when none exists.
	Get(ctx context.Context, key track.Key) (e Entry, ok bool, err error)
	Set(ctx context.Context, key track.Key, hasLyrics bool, text, source string) error
	Clear(ctx context.Context) error
	// List returns entries, most recently updated first. limit <= 0 means all.
	List(ctx context.Context, limit int) ([]Entry, error)
	Count(ctx context.Context) (int, error)
	Close() error
}

// Open creates the store selected by the cache configuration.
func Open(cfg *config.Config) (Store, error) {
	switch cfg.Cache.Backend {
	case "", "sqlite":
		path, err := cfg.CachePath()
		if err != nil {
			return nil, fmt.Errorf("resolve cache path: %w", err)
		}
		conn, err := db.OpenSQLite(path)
		if err != nil {
			return nil, fmt.Errorf("open cache: %w", err)
		}
		store, err := NewSQLiteStore(conn)
		if err != nil {
			conn.Close()
			return nil, err
		}
		return store, nil
	case "redis":
		return OpenRedis(cfg.Cache.Redis)
	}
	return nil, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
}
