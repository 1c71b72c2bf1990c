package retrieval

import (
	"slices"
	"strings"

	"github.com/llehouerou/lyricsync/internal/sources"
	"github.com/llehouerou/lyricsync/internal/track"
)

// Heuristic match weights.
const (
	scoreTitleExact   = 50
	scoreTitlePartial = 15
	scoreArtistExact  = 50
	scoreArtistOneOf  = 45
	scoreArtistPart   = 20
	scoreSynced       = 5
	scorePlainOnly    = 2
)

// Score rates how well a search result matches the target track.
// Comparisons ignore case and surrounding whitespace.
func Score(target track.Key, r sources.SearchResult) int {
	title := normalize(target.Title)
	artist := normalize(target.Artist)
	artists := lowerAll(target.Artists())
	if len(artists) == 0 && artist != "" {
		artists = []string{artist}
	}

	rTitle := normalize(r.TrackName)
	rArtist := normalize(r.ArtistName)

	score := 0

	switch {
	case rTitle == title:
		score += scoreTitleExact
	case title != "" && rTitle != "" &&
		(strings.Contains(rTitle, title) || strings.Contains(title, rTitle)):
		score += scoreTitlePartial
	}

	switch {
	case rArtist == artist:
		score += scoreArtistExact
	case slices.Contains(artists, rArtist):
		score += scoreArtistOneOf
	case overlaps(rArtist, artist) || slices.ContainsFunc(artists, func(a string) bool {
		return overlaps(rArtist, a)
	}):
		score += scoreArtistPart
	}

	switch {
	case r.HasSynced:
		score += scoreSynced
	case r.HasPlain:
		score += scorePlainOnly
	}

	return score
}

// BestMatch returns the highest-scoring candidate. Ties go to the earlier
// candidate, and a best score of zero or less means no match.
func BestMatch(target track.Key, candidates []sources.SearchResult) (sources.SearchResult, bool) {
	bestScore := -1
	var best sources.SearchResult
	for _, c := range candidates {
		if score := Score(target, c); score > bestScore {
			bestScore = score
			best = c
		}
	}
	if bestScore <= 0 {
		return sources.SearchResult{}, false
	}
	return best, true
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func lowerAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(s)
	}
	return out
}

func overlaps(a, b string) bool {
	return strings.Contains(a, b) || strings.Contains(b, a)
}
