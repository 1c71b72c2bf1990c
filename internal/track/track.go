// Package track identifies the track whose lyrics are being looked up.
package track

import "strings"

// Key identifies a track for lookups and caching. Fields are compared
// exactly: case and whitespace differences are distinct keys.
type Key struct {
	Artist string
	Title  string
	Album  string // may be empty
}

// Display returns "Artist - Title", or whichever part is set.
func (k Key) Display() string {
	switch {
	case k.Artist != "" && k.Title != "":
		return k.Artist + " - " + k.Title
	case k.Title != "":
		return k.Title
	case k.Artist != "":
		return k.Artist
	}
	return "Unknown track"
}

// Artists splits a comma-separated artist field into trimmed, non-empty names.
func (k Key) Artists() []string {
	var out []string
	for part := range strings.SplitSeq(k.Artist, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Info is what a media player reports about the current track.
type Info struct {
	Key
	URL     string
	TrackID string
}

// Identity returns a string that changes whenever the playing track changes.
func (i Info) Identity() string {
	var parts []string
	for _, p := range []string{i.Artist, i.Title, i.Album, i.URL, i.TrackID} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " | ")
}
