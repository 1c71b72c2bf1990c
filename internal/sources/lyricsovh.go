package sources

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/llehouerou/lyricsync/internal/lyricsovh"
	"github.com/llehouerou/lyricsync/internal/track"
)

const NameLyricsOVH = "lyrics_ovh"

// LyricsOVH serves plain lyrics from api.lyrics.ovh.
type LyricsOVH struct {
	client *lyricsovh.Client
	policy *Policy
	log    zerolog.Logger
}

// NewLyricsOVH creates the lyrics.ovh source.
func NewLyricsOVH(client *lyricsovh.Client, policy *Policy, log zerolog.Logger) *LyricsOVH {
	return &LyricsOVH{client: client, policy: policy, log: log}
}

func (s *LyricsOVH) Name() string { return NameLyricsOVH }

func (s *LyricsOVH) Fetch(ctx context.Context, key track.Key) FetchResult {
	if !s.policy.Allow() {
		s.log.Debug().Str("track", key.Display()).Msg("rate limited, skipping fetch")
		return FetchResult{Source: NameLyricsOVH}
	}

	var text string
	err := s.policy.Do(ctx, func(ctx context.Context) error {
		t, err := s.client.Get(ctx, key.Artist, key.Title)
		if errors.Is(err, lyricsovh.ErrNotFound) {
			return ErrNotFound
		}
		text = t
		return err
	})

	switch {
	case errors.Is(err, ErrNotFound):
		return FetchResult{NotFound: true, Source: NameLyricsOVH}
	case err != nil:
		s.log.Warn().Err(err).Str("track", key.Display()).Msg("fetch failed")
		return FetchResult{Source: NameLyricsOVH}
	}

	text = normalizeText(text)
	if text == "" {
		return FetchResult{NotFound: true, Source: NameLyricsOVH}
	}
	return FetchResult{Text: text, Source: NameLyricsOVH}
}
