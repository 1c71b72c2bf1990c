// Package watch implements the polling loop that follows the active media
// player and keeps the displayed lyric line in step with playback.
package watch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/llehouerou/lyricsync/internal/lyrics"
	"github.com/llehouerou/lyricsync/internal/mpris"
	"github.com/llehouerou/lyricsync/internal/retrieval"
	"github.com/llehouerou/lyricsync/internal/track"
)

const (
	appTitle = "lyricsync"

	noPlayersWait = time.Second
	statusWait    = 500 * time.Millisecond
)

// Player reports what is playing and where playback is.
type Player interface {
	Track() (track.Info, error)
	Position() (time.Duration, error)
}

// Picker selects the player to follow on each tick.
type Picker interface {
	Pick(preferred string) (Player, error)
}

// Resolver turns a track key into lyrics.
type Resolver interface {
	Resolve(ctx context.Context, key track.Key) retrieval.Response
}

// Frame is one screenful for the display. Current is -1 when no line is
// active yet. Status frames carry a single message line.
type Frame struct {
	Title   string
	Lines   []string
	Current int
	Context int
	Synced  bool
	Status  bool
}

// Step is the result of one tick. Frame is nil when the display should
// keep what it shows. Wait is the delay before the next tick.
type Step struct {
	Frame *Frame
	Wait  time.Duration
}

// Options configures a Session.
type Options struct {
	Preferred    string
	ContextLines int
	Tick         time.Duration
	Logger       zerolog.Logger
}

// Session owns the tracker and the active document. It must be driven
// from a single goroutine.
type Session struct {
	picker   Picker
	resolver Resolver
	opts     Options

	identity string
	shown    *Frame // last frame for the current track
	stale    bool   // a player status is on screen instead of shown
	title    string
	lines    []string
	tracker  *lyrics.Tracker
}

// NewSession creates a polling session.
func NewSession(picker Picker, resolver Resolver, opts Options) *Session {
	if opts.Tick <= 0 {
		opts.Tick = time.Second / 30
	}
	return &Session{picker: picker, resolver: resolver, opts: opts}
}

// Tick reads player state once and reports what, if anything, to redraw.
func (s *Session) Tick(ctx context.Context) Step {
	player, err := s.picker.Pick(s.opts.Preferred)
	if err != nil {
		if errors.Is(err, mpris.ErrNoPlayers) {
			return s.playerStatus("No active MPRIS players", noPlayersWait)
		}
		return s.playerStatus(fmt.Sprintf("MPRIS unavailable: %v", err), statusWait)
	}

	info, err := player.Track()
	if err != nil {
		return s.playerStatus(fmt.Sprintf("MPRIS unavailable: %v", err), statusWait)
	}
	if info.Title == "" || info.Artist == "" {
		return s.playerStatus("Could not read artist/title from MPRIS", statusWait)
	}

	step := s.follow(ctx, player, info)
	if step.Frame == nil && s.stale {
		// A player status replaced the lyrics on screen; put them back.
		step.Frame = s.shown
	}
	if step.Frame != nil {
		s.shown = step.Frame
		s.stale = false
	}
	return step
}

func (s *Session) follow(ctx context.Context, player Player, info track.Info) Step {
	var frame *Frame
	if id := info.Identity(); id != s.identity {
		s.identity = id
		s.reset()

		var wait time.Duration
		frame, wait = s.load(ctx, info.Key)
		if wait > 0 {
			return Step{Frame: frame, Wait: wait}
		}
	}

	if s.tracker != nil {
		pos, err := player.Position()
		if err != nil {
			s.opts.Logger.Debug().Err(err).Msg("position read failed")
			return Step{Frame: frame, Wait: s.opts.Tick}
		}
		if idx, changed := s.tracker.ChangedIndex(pos); changed {
			frame = s.synced(idx)
		}
	}

	return Step{Frame: frame, Wait: s.opts.Tick}
}

// load resolves and parses lyrics for a new track. A positive wait means
// the returned frame is a status message.
func (s *Session) load(ctx context.Context, key track.Key) (*Frame, time.Duration) {
	s.title = key.Display()
	s.opts.Logger.Info().Str("track", s.title).Msg("track changed")

	res := s.resolver.Resolve(ctx, key)
	if !res.HasLyrics || res.Text == "" {
		return statusFrame(s.title, "No lyrics found for the current track"), statusWait
	}
	s.opts.Logger.Debug().Str("track", s.title).Str("source", res.Source).Msg("lyrics resolved")

	doc, err := lyrics.Parse(res.Text)
	if err != nil {
		s.opts.Logger.Warn().Err(err).Str("track", s.title).Msg("could not parse lyrics")
		return statusFrame(s.title, fmt.Sprintf("Could not parse lyrics: %v", err)), statusWait
	}

	if doc.IsSynced() {
		s.tracker = lyrics.NewTracker(doc.Events)
		s.lines = s.tracker.Texts()
		return s.synced(-1), 0
	}

	s.lines = lyrics.PlainLines(res.Text)
	return &Frame{
		Title:   s.title,
		Lines:   s.lines,
		Current: -1,
		Context: s.opts.ContextLines,
	}, 0
}

func (s *Session) reset() {
	s.shown = nil
	s.stale = false
	s.title = ""
	s.lines = nil
	s.tracker = nil
}

func (s *Session) synced(current int) *Frame {
	return &Frame{
		Title:   s.title,
		Lines:   s.lines,
		Current: current,
		Context: s.opts.ContextLines,
		Synced:  true,
	}
}

// playerStatus reports a player problem. The lyrics frame it replaces is
// shown again once the player recovers.
func (s *Session) playerStatus(msg string, wait time.Duration) Step {
	s.stale = s.shown != nil
	return Step{Frame: statusFrame(appTitle, msg), Wait: wait}
}

func statusFrame(title, msg string) *Frame {
	return &Frame{
		Title:   title,
		Lines:   []string{msg},
		Current: -1,
		Status:  true,
	}
}
