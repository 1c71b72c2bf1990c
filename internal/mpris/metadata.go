package mpris

import (
	"fmt"
	"strings"

	"github.com/godbus/dbus/v5"

	"github.com/llehouerou/lyricsync/internal/track"
)

// ShortName strips the MPRIS bus prefix: "org.mpris.MediaPlayer2.vlc" -> "vlc".
func ShortName(busName string) string {
	return strings.TrimPrefix(busName, busPrefix)
}

// choosePlayer picks a bus name: the preferred player by full name or
// ".suffix", else the first one reporting Playing, else the first one.
// found is false when a preferred name was given but did not match.
func choosePlayer(names []string, preferred string, status func(string) (string, error)) (name string, found bool) {
	if preferred != "" {
		for _, n := range names {
			if n == preferred || strings.HasSuffix(n, "."+preferred) {
				return n, true
			}
		}
	}

	for _, n := range names {
		s, err := status(n)
		if err == nil && strings.EqualFold(s, "playing") {
			return n, preferred == ""
		}
	}
	return names[0], preferred == ""
}

func infoFromMetadata(md map[string]dbus.Variant) track.Info {
	return track.Info{
		Key: track.Key{
			Artist: joinArtists(md["xesam:artist"]),
			Title:  variantString(md["xesam:title"]),
			Album:  variantString(md["xesam:album"]),
		},
		URL:     variantString(md["xesam:url"]),
		TrackID: variantString(md["mpris:trackid"]),
	}
}

func variantString(v dbus.Variant) string {
	switch val := v.Value().(type) {
	case nil:
		return ""
	case string:
		return val
	case dbus.ObjectPath:
		return string(val)
	default:
		return fmt.Sprint(val)
	}
}

func joinArtists(v dbus.Variant) string {
	switch val := v.Value().(type) {
	case []string:
		names := make([]string, 0, len(val))
		for _, a := range val {
			if a != "" {
				names = append(names, a)
			}
		}
		return strings.Join(names, ", ")
	case []any:
		names := make([]string, 0, len(val))
		for _, a := range val {
			if s := fmt.Sprint(a); s != "" {
				names = append(names, s)
			}
		}
		return strings.Join(names, ", ")
	}
	return variantString(v)
}
