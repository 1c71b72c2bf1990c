package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/llehouerou/lyricsync/internal/db"
	"github.com/llehouerou/lyricsync/internal/track"
)

// SQLiteStore keeps entries in a single lyrics_cache table.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteStore creates the schema if needed and returns the store.
// The store takes ownership of conn.
func NewSQLiteStore(conn *sql.DB) (*SQLiteStore, error) {
	if err := initSchema(conn); err != nil {
		return nil, fmt.Errorf("init cache schema: %w", err)
	}
	return &SQLiteStore{db: conn, now: time.Now}, nil
}

func initSchema(conn *sql.DB) error {
	return db.WithTx(context.Background(), conn, func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			CREATE TABLE IF NOT EXISTS lyrics_cache (
				artist TEXT NOT NULL,
				title TEXT NOT NULL,
				album TEXT NOT NULL DEFAULT '',
				has_lyrics INTEGER NOT NULL,
				source TEXT,
				lrc_text TEXT,
				updated_at INTEGER NOT NULL,
				PRIMARY KEY (artist, title, album)
			);

			CREATE INDEX IF NOT EXISTS idx_lyrics_cache_updated_at ON lyrics_cache(updated_at);
		`)
		return err
	})
}

func (s *SQLiteStore) Get(ctx context.Context, key track.Key) (Entry, bool, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT artist, title, album, has_lyrics, source, lrc_text, updated_at
		FROM lyrics_cache
		WHERE artist = ? AND title = ? AND album = ?
	`, key.Artist, key.Title, key.Album)

	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, err
	}
	return e, true, nil
}

func (s *SQLiteStore) Set(ctx context.Context, key track.Key, hasLyrics bool, text, source string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO lyrics_cache (artist, title, album, has_lyrics, source, lrc_text, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(artist, title, album) DO UPDATE SET
			has_lyrics = excluded.has_lyrics,
			source = excluded.source,
			lrc_text = excluded.lrc_text,
			updated_at = excluded.updated_at
	`, key.Artist, key.Title, key.Album, hasLyrics,
		db.NullString(source), db.NullString(text), s.now().Unix())
	return err
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM lyrics_cache`)
	return err
}

func (s *SQLiteStore) List(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT artist, title, album, has_lyrics, source, lrc_text, updated_at
		FROM lyrics_cache
		ORDER BY updated_at DESC, artist, title, album
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM lyrics_cache`).Scan(&n)
	return n, err
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(sc scanner) (Entry, error) {
	var (
		e         Entry
		source    sql.NullString
		text      sql.NullString
		updatedAt int64
	)
	if err := sc.Scan(&e.Key.Artist, &e.Key.Title, &e.Key.Album,
		&e.HasLyrics, &source, &text, &updatedAt); err != nil {
		return Entry{}, err
	}
	e.Source = db.NullStringValue(source)
	e.Text = db.NullStringValue(text)
	e.UpdatedAt = time.Unix(updatedAt, 0)
	return e, nil
}
