//go:build !linux

package mpris

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/llehouerou/lyricsync/internal/track"
)

// Client is a no-op on non-Linux platforms.
type Client struct{}

// Connect returns a client that never finds players.
func Connect(_ zerolog.Logger) *Client {
	return &Client{}
}

// ListPlayers returns no players on non-Linux platforms.
func (c *Client) ListPlayers() ([]string, error) {
	return nil, nil
}

// Pick always fails with ErrNoPlayers on non-Linux platforms.
func (c *Client) Pick(_ string) (*Player, error) {
	return nil, ErrNoPlayers
}

// Player is never returned on non-Linux platforms.
type Player struct{}

func (p *Player) Name() string { return "" }

func (p *Player) Status() (string, error) { return "", ErrPlayerUnavailable }

func (p *Player) Track() (track.Info, error) { return track.Info{}, ErrPlayerUnavailable }

func (p *Player) Position() (time.Duration, error) { return 0, ErrPlayerUnavailable }
