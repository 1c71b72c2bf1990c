// Package mpris reads the current track and position from media players
// over the MPRIS D-Bus interface.
package mpris

import "errors"

var (
	// ErrNoPlayers is returned when no MPRIS player is on the session bus.
	ErrNoPlayers = errors.New("no active MPRIS players")

	// ErrPlayerUnavailable wraps D-Bus failures talking to a picked player.
	ErrPlayerUnavailable = errors.New("MPRIS player unavailable")
)

const (
	busPrefix   = "org.mpris.MediaPlayer2."
	objectPath  = "/org/mpris/MediaPlayer2"
	playerIface = "org.mpris.MediaPlayer2.Player"
)
