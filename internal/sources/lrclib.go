package sources

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"github.com/llehouerou/lyricsync/internal/lrclib"
	"github.com/llehouerou/lyricsync/internal/track"
)

const NameLRCLib = "lrclib"

// LRCLib serves synced lyrics from lrclib.net and supports search.
type LRCLib struct {
	client *lrclib.Client
	policy *Policy
	log    zerolog.Logger
}

// NewLRCLib creates the lrclib source.
func NewLRCLib(client *lrclib.Client, policy *Policy, log zerolog.Logger) *LRCLib {
	return &LRCLib{client: client, policy: policy, log: log}
}

func (s *LRCLib) Name() string { return NameLRCLib }

// Fetch looks up synced lyrics for the exact key. A track without synced
// lyrics counts as not found.
func (s *LRCLib) Fetch(ctx context.Context, key track.Key) FetchResult {
	if !s.policy.Allow() {
		s.log.Debug().Str("track", key.Display()).Msg("rate limited, skipping fetch")
		return FetchResult{Source: NameLRCLib}
	}

	var res *lrclib.LyricsResult
	err := s.policy.Do(ctx, func(ctx context.Context) error {
		r, err := s.client.Get(ctx, lrclib.GetParams{
			Artist: key.Artist,
			Title:  key.Title,
			Album:  key.Album,
		})
		if errors.Is(err, lrclib.ErrNotFound) {
			return ErrNotFound
		}
		res = r
		return err
	})

	switch {
	case errors.Is(err, ErrNotFound):
		return FetchResult{NotFound: true, Source: NameLRCLib}
	case err != nil:
		s.log.Warn().Err(err).Str("track", key.Display()).Msg("fetch failed")
		return FetchResult{Source: NameLRCLib}
	case !res.HasSyncedLyrics():
		return FetchResult{NotFound: true, Source: NameLRCLib}
	}
	return FetchResult{Text: normalizeText(res.SyncedLyrics), Source: NameLRCLib}
}

// Search runs a single free-text search. It records the call for rate
// limiting but is never skipped by it.
func (s *LRCLib) Search(ctx context.Context, q SearchQuery) ([]SearchResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	s.policy.Touch()
	found, err := s.client.Search(ctx, lrclib.SearchParams{
		Query:  q.Q,
		Track:  q.TrackName,
		Artist: q.ArtistName,
		Album:  q.AlbumName,
	})
	if errors.Is(err, lrclib.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	results := make([]SearchResult, 0, len(found))
	for i := range found {
		results = append(results, toSearchResult(&found[i]))
	}
	return results, nil
}

func toSearchResult(r *lrclib.LyricsResult) SearchResult {
	return SearchResult{
		ID:           r.ID,
		TrackName:    r.TrackName,
		ArtistName:   r.ArtistName,
		AlbumName:    r.AlbumName,
		Duration:     int(math.Round(r.Duration)),
		Instrumental: r.Instrumental,
		HasSynced:    r.HasSyncedLyrics(),
		HasPlain:     r.HasPlainLyrics(),
		SyncedText:   normalizeText(r.SyncedLyrics),
		PlainText:    normalizeText(r.PlainLyrics),
	}
}
