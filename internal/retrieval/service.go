// Package retrieval resolves a track key to lyric text through the cache,
// the configured sources, and a fuzzy search fallback.
package retrieval

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/llehouerou/lyricsync/internal/cache"
	"github.com/llehouerou/lyricsync/internal/sources"
	"github.com/llehouerou/lyricsync/internal/track"
)

const (
	SourceCache  = "cache"
	SourceSearch = "lrclib_search"
)

// Response is the outcome of Resolve. Text and Source are empty when
// HasLyrics is false.
type Response struct {
	Text      string
	Source    string
	HasLyrics bool
}

// Service orchestrates cache and sources. It is not safe for concurrent use
// beyond what the store and sources themselves allow.
type Service struct {
	store       cache.Store
	sources     []sources.Source
	searcher    sources.Searcher
	negativeTTL time.Duration
	log         zerolog.Logger
	now         func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithNegativeTTL trusts negative cache entries younger than ttl.
// Zero re-checks sources on every lookup.
func WithNegativeTTL(ttl time.Duration) Option {
	return func(s *Service) {
		s.negativeTTL = ttl
	}
}

// WithLogger sets the service logger.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Service) {
		s.log = log
	}
}

// New creates a service over store and srcs, tried in order. The first
// source with search capability serves the fuzzy fallback.
func New(store cache.Store, srcs []sources.Source, opts ...Option) *Service {
	s := &Service{
		store:   store,
		sources: srcs,
		log:     zerolog.Nop(),
		now:     time.Now,
	}
	for _, src := range srcs {
		if searcher, ok := src.(sources.Searcher); ok {
			s.searcher = searcher
			break
		}
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CanSearch reports whether a configured source supports search.
func (s *Service) CanSearch() bool {
	return s.searcher != nil
}

// Resolve returns lyrics for key. Source and cache failures degrade to a
// miss, so the worst outcome is HasLyrics false.
func (s *Service) Resolve(ctx context.Context, key track.Key) Response {
	entry, ok, err := s.store.Get(ctx, key)
	switch {
	case err != nil:
		s.log.Warn().Err(err).Str("track", key.Display()).Msg("cache read failed")
	case ok && entry.HasLyrics && entry.Text != "":
		return Response{Text: entry.Text, Source: SourceCache, HasLyrics: true}
	case ok && !entry.HasLyrics:
		if s.negativeTTL > 0 && s.now().Sub(entry.UpdatedAt) < s.negativeTTL {
			return Response{}
		}
		s.log.Debug().Str("track", key.Display()).Msg("negative cache entry, re-checking sources")
	}

	// A definitive not-found from one source does not stop the next.
	for _, src := range s.sources {
		res := src.Fetch(ctx, key)
		if res.Found() {
			s.save(ctx, key, true, res.Text, res.Source)
			return Response{Text: res.Text, Source: res.Source, HasLyrics: true}
		}
		if res.Inconclusive() {
			s.log.Debug().Str("track", key.Display()).Str("source", src.Name()).Msg("source inconclusive, trying next")
		}
	}

	if s.searcher != nil {
		s.log.Info().Str("track", key.Display()).Msg("no exact match, trying search")
		if text := s.searchFallback(ctx, key); text != "" {
			s.save(ctx, key, true, text, SourceSearch)
			return Response{Text: text, Source: SourceSearch, HasLyrics: true}
		}
	}

	s.save(ctx, key, false, "", "")
	return Response{}
}

func (s *Service) save(ctx context.Context, key track.Key, hasLyrics bool, text, source string) {
	if err := s.store.Set(ctx, key, hasLyrics, text, source); err != nil {
		s.log.Warn().Err(err).Str("track", key.Display()).Msg("cache write failed")
	}
}

// Search runs a free-text search on the first searchable source.
// Without one it returns no results.
func (s *Service) Search(ctx context.Context, q sources.SearchQuery) ([]sources.SearchResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	if s.searcher == nil {
		return nil, nil
	}
	return s.searcher.Search(ctx, q)
}

func (s *Service) searchFallback(ctx context.Context, key track.Key) string {
	candidates := s.fuzzySearch(ctx, key)
	best, ok := BestMatch(key, candidates)
	if !ok {
		return ""
	}

	if best.SyncedText != "" {
		return best.SyncedText
	}
	if best.HasSynced {
		if res := s.searcher.Fetch(ctx, best.Key()); res.Found() {
			return res.Text
		}
	}
	if best.HasPlain {
		return best.PlainText
	}
	return ""
}

// fuzzySearch queries "{artist} {title}". With no results and several
// comma-separated artists it queries once per artist, deduplicating by ID.
func (s *Service) fuzzySearch(ctx context.Context, key track.Key) []sources.SearchResult {
	q := strings.TrimSpace(key.Artist + " " + key.Title)
	if q == "" {
		return nil
	}

	results := s.searchQuiet(ctx, sources.SearchQuery{Q: q, TrackName: key.Title, ArtistName: key.Artist})
	if len(results) > 0 || !strings.Contains(key.Artist, ",") {
		return results
	}

	seen := make(map[int]bool)
	for _, artist := range key.Artists() {
		sub := s.searchQuiet(ctx, sources.SearchQuery{
			Q:          strings.TrimSpace(artist + " " + key.Title),
			TrackName:  key.Title,
			ArtistName: artist,
		})
		for _, r := range sub {
			if !seen[r.ID] {
				seen[r.ID] = true
				results = append(results, r)
			}
		}
	}
	return results
}

func (s *Service) searchQuiet(ctx context.Context, q sources.SearchQuery) []sources.SearchResult {
	results, err := s.Search(ctx, q)
	if err != nil {
		s.log.Warn().Err(err).Str("query", q.Q).Msg("search failed")
		return nil
	}
	return results
}
