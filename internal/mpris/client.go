//go:build linux

package mpris

import (
	"fmt"
	"strings"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/rs/zerolog"

	"github.com/llehouerou/lyricsync/internal/track"
)

// Client lists and picks players on the session bus.
type Client struct {
	conn *dbus.Conn
	log  zerolog.Logger
}

// Connect opens the session bus. Without a reachable bus the client
// reports no players instead of failing.
func Connect(log zerolog.Logger) *Client {
	conn, err := dbus.SessionBus()
	if err != nil {
		log.Debug().Err(err).Msg("session bus unavailable")
		return &Client{log: log}
	}
	return &Client{conn: conn, log: log}
}

// ListPlayers returns the bus names of all MPRIS players.
func (c *Client) ListPlayers() ([]string, error) {
	if c.conn == nil {
		return nil, nil
	}

	var names []string
	if err := c.conn.BusObject().Call("org.freedesktop.DBus.ListNames", 0).Store(&names); err != nil {
		return nil, fmt.Errorf("list bus names: %w", err)
	}

	var players []string
	for _, n := range names {
		if strings.HasPrefix(n, busPrefix) {
			players = append(players, n)
		}
	}
	return players, nil
}

// Pick selects a player: preferred (full bus name or short suffix like
// "vlc") if present, else the first one playing, else the first one.
func (c *Client) Pick(preferred string) (*Player, error) {
	players, err := c.ListPlayers()
	if err != nil {
		c.log.Debug().Err(err).Msg("listing players failed")
	}
	if len(players) == 0 {
		return nil, ErrNoPlayers
	}

	name, found := choosePlayer(players, preferred, func(n string) (string, error) {
		return c.player(n).Status()
	})
	if !found {
		c.log.Warn().Str("preferred", preferred).Str("using", name).Msg("preferred player not found, falling back")
	}
	return c.player(name), nil
}

func (c *Client) player(name string) *Player {
	return &Player{name: name, obj: c.conn.Object(name, objectPath)}
}

// Player is one MPRIS media player.
type Player struct {
	name string
	obj  dbus.BusObject
}

// Name returns the player's bus name.
func (p *Player) Name() string { return p.name }

func (p *Player) property(name string) (dbus.Variant, error) {
	v, err := p.obj.GetProperty(playerIface + "." + name)
	if err != nil {
		return dbus.Variant{}, fmt.Errorf("%w: %s: %w", ErrPlayerUnavailable, p.name, err)
	}
	return v, nil
}

// Status returns PlaybackStatus: "Playing", "Paused" or "Stopped".
func (p *Player) Status() (string, error) {
	v, err := p.property("PlaybackStatus")
	if err != nil {
		return "", err
	}
	return variantString(v), nil
}

// Track returns the current track metadata.
func (p *Player) Track() (track.Info, error) {
	v, err := p.property("Metadata")
	if err != nil {
		return track.Info{}, err
	}
	md, ok := v.Value().(map[string]dbus.Variant)
	if !ok {
		return track.Info{}, fmt.Errorf("%w: unexpected metadata type %T", ErrPlayerUnavailable, v.Value())
	}
	return infoFromMetadata(md), nil
}

// Position returns the playback position.
func (p *Player) Position() (time.Duration, error) {
	v, err := p.property("Position")
	if err != nil {
		return 0, err
	}
	us, ok := v.Value().(int64)
	if !ok {
		return 0, fmt.Errorf("%w: unexpected position type %T", ErrPlayerUnavailable, v.Value())
	}
	return max(time.Duration(us)*time.Microsecond, 0), nil
}
