package lyricsview

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/lyricsync/internal/watch"
)

type fakeTicker struct {
	steps []watch.Step
	calls int
}

func (f *fakeTicker) Tick(context.Context) watch.Step {
	step := f.steps[min(f.calls, len(f.steps)-1)]
	f.calls++
	return step
}

func TestModel_StepKeepsLastFrame(t *testing.T) {
	frame := &watch.Frame{Title: "A - T", Lines: []string{"hi"}, Current: 0, Synced: true}
	ticker := &fakeTicker{steps: []watch.Step{{Frame: frame, Wait: time.Millisecond}}}

	m := New(context.Background(), ticker)
	var model tea.Model = m
	model, _ = model.Update(tea.WindowSizeMsg{Width: 40, Height: 5})

	model, cmd := model.Update(StepMsg{Frame: frame, Wait: time.Millisecond})
	require.NotNil(t, cmd, "next poll is scheduled")
	assert.Contains(t, model.View(), "hi")

	model, _ = model.Update(StepMsg{Wait: time.Millisecond})
	assert.Contains(t, model.View(), "hi", "nil frame keeps what is shown")
}

func TestModel_PollRunsTick(t *testing.T) {
	frame := &watch.Frame{Title: "x", Current: -1, Status: true}
	ticker := &fakeTicker{steps: []watch.Step{{Frame: frame, Wait: time.Second}}}

	var model tea.Model = New(context.Background(), ticker)
	_, cmd := model.Update(pollMsg{})
	require.NotNil(t, cmd)

	msg := cmd()
	assert.Equal(t, StepMsg{Frame: frame, Wait: time.Second}, msg)
	assert.Equal(t, 1, ticker.calls)
}

func TestModel_Quit(t *testing.T) {
	for _, key := range []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune("q")},
		{Type: tea.KeyCtrlC},
		{Type: tea.KeyEsc},
	} {
		t.Run(key.String(), func(t *testing.T) {
			var model tea.Model = New(context.Background(), &fakeTicker{})
			_, cmd := model.Update(key)
			require.NotNil(t, cmd)
			assert.Equal(t, tea.Quit(), cmd())
		})
	}
}

func TestModel_WaitingView(t *testing.T) {
	m := New(context.Background(), &fakeTicker{})
	assert.Contains(t, m.View(), "Looking for a player")
}
