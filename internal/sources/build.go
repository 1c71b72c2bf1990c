package sources

import (
	"strings"

	"github.com/rs/zerolog"

	"github.com/llehouerou/lyricsync/internal/config"
	"github.com/llehouerou/lyricsync/internal/lrclib"
	"github.com/llehouerou/lyricsync/internal/lyricsovh"
)

var aliases = map[string]string{
	"lrclib":     NameLRCLib,
	"lyrics_ovh": NameLyricsOVH,
	"lyrics.ovh": NameLyricsOVH,
	"ovh":        NameLyricsOVH,
}

// Canonical maps a configured source name or alias to its canonical name.
func Canonical(name string) (string, bool) {
	canon, ok := aliases[strings.ToLower(strings.TrimSpace(name))]
	return canon, ok
}

// Build creates the configured sources in priority order. Unknown and
// repeated names are logged and skipped.
func Build(cfg *config.Config, log zerolog.Logger) []Source {
	var out []Source
	seen := make(map[string]bool)

	for _, name := range cfg.Sources {
		canon, ok := Canonical(name)
		if !ok {
			log.Warn().Str("source", name).Msg("unknown lyrics source, skipping")
			continue
		}
		if seen[canon] {
			log.Debug().Str("source", name).Msg("duplicate lyrics source, skipping")
			continue
		}
		seen[canon] = true

		api := cfg.SourceAPI(canon)
		srcLog := log.With().Str("source", canon).Logger()
		policy := NewPolicy(api, srcLog)

		switch canon {
		case NameLRCLib:
			client := lrclib.New(lrclib.WithTimeout(api.Timeout))
			out = append(out, NewLRCLib(client, policy, srcLog))
		case NameLyricsOVH:
			client := lyricsovh.New(lyricsovh.WithTimeout(api.Timeout))
			out = append(out, NewLyricsOVH(client, policy, srcLog))
		}
	}
	return out
}
