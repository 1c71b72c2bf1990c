// Package sources adapts external lyric providers to a common interface.
package sources

import (
	"context"
	"errors"
	"strings"
	"unicode"

	"github.com/llehouerou/lyricsync/internal/track"
)

var (
	// ErrNotFound marks a provider's authoritative "no lyrics for this key".
	ErrNotFound = errors.New("no lyrics for track")

	// ErrUnavailable wraps transport failures that outlived the retry budget.
	ErrUnavailable = errors.New("source unavailable")

	// ErrEmptyQuery is returned by Search when neither Q nor TrackName is set.
	ErrEmptyQuery = errors.New("search needs a query or a track name")
)

// Source fetches lyrics for an exact track key.
type Source interface {
	Name() string
	Fetch(ctx context.Context, key track.Key) FetchResult
}

// Searcher is implemented by sources that support free-text search.
type Searcher interface {
	Source
	Search(ctx context.Context, q SearchQuery) ([]SearchResult, error)
}

// FetchResult is the outcome of a single Fetch.
// Empty Text with NotFound unset means inconclusive: the source was
// skipped or failed, and the caller must not record a negative.
type FetchResult struct {
	Text     string
	NotFound bool
	Source   string
}

// Found reports whether the fetch produced lyrics.
func (r FetchResult) Found() bool {
	return r.Text != ""
}

// Inconclusive reports whether the fetch neither found nor ruled out lyrics.
func (r FetchResult) Inconclusive() bool {
	return r.Text == "" && !r.NotFound
}

// SearchQuery holds free-text search filters.
type SearchQuery struct {
	Q          string
	TrackName  string
	ArtistName string
	AlbumName  string
}

// Validate checks that the query has something to search for.
func (q SearchQuery) Validate() error {
	if strings.TrimSpace(q.Q) == "" && strings.TrimSpace(q.TrackName) == "" {
		return ErrEmptyQuery
	}
	return nil
}

// SearchResult is one search candidate. ID and Duration are zero when the
// provider omits them.
type SearchResult struct {
	ID           int    `json:"id,omitempty"`
	TrackName    string `json:"track_name"`
	ArtistName   string `json:"artist_name"`
	AlbumName    string `json:"album_name"`
	Duration     int    `json:"duration,omitempty"`
	Instrumental bool   `json:"instrumental"`
	HasSynced    bool   `json:"has_synced_lyrics"`
	HasPlain     bool   `json:"has_plain_lyrics"`
	SyncedText   string `json:"synced_lyrics,omitempty"`
	PlainText    string `json:"plain_lyrics,omitempty"`
}

// Key returns the candidate's own track key.
func (r SearchResult) Key() track.Key {
	return track.Key{Artist: r.ArtistName, Title: r.TrackName, Album: r.AlbumName}
}

// normalizeText strips trailing whitespace and ends the text with a newline.
func normalizeText(s string) string {
	s = strings.TrimRightFunc(s, unicode.IsSpace)
	if s == "" {
		return ""
	}
	return s + "\n"
}
