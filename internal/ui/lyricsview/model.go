// Package lyricsview is the full-screen bubbletea display for the watch
// command.
package lyricsview

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/lyricsync/internal/ui/styles"
	"github.com/llehouerou/lyricsync/internal/watch"
)

// Ticker advances the watch loop by one step.
type Ticker interface {
	Tick(ctx context.Context) watch.Step
}

type (
	// StepMsg carries the result of one session tick.
	StepMsg watch.Step

	pollMsg struct{}
)

// Model shows the latest frame. Ticks run one at a time: the next one is
// scheduled only after the previous step arrives.
type Model struct {
	ctx     context.Context
	session Ticker
	frame   *watch.Frame
	spinner spinner.Model
	width   int
	height  int
}

// New creates the display model for session.
func New(ctx context.Context, session Ticker) Model {
	sp := spinner.New(
		spinner.WithSpinner(spinner.MiniDot),
		spinner.WithStyle(styles.T().S().Current),
	)
	return Model{ctx: ctx, session: session, spinner: sp}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.tick())
}

func (m Model) tick() tea.Cmd {
	return func() tea.Msg {
		return StepMsg(m.session.Tick(m.ctx))
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case StepMsg:
		if msg.Frame != nil {
			m.frame = msg.Frame
		}
		return m, tea.Tick(msg.Wait, func(time.Time) tea.Msg { return pollMsg{} })
	case pollMsg:
		return m, m.tick()
	case spinner.TickMsg:
		if m.frame != nil {
			return m, nil // stop spinning once something is on screen
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) View() string {
	if m.frame == nil {
		return m.spinner.View() + " " + styles.T().S().Muted.Render("Looking for a player...")
	}
	return Render(m.frame, m.width, m.height)
}

// Run drives session until the user quits or ctx is canceled.
func Run(ctx context.Context, session Ticker, altScreen bool) error {
	opts := []tea.ProgramOption{tea.WithContext(ctx)}
	if altScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	_, err := tea.NewProgram(New(ctx, session), opts...).Run()
	if err != nil && ctx.Err() != nil {
		// Canceled from outside (signal): a normal exit.
		return nil
	}
	return err
}
