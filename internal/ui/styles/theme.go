// Package styles holds the lipgloss theme used by the lyrics display.
package styles

import "github.com/charmbracelet/lipgloss"

// Theme defines the color palette and pre-built styles for the application.
type Theme struct {
	// Brand/accent colors
	Primary   lipgloss.Color // Purple - title gradient start, current line
	Secondary lipgloss.Color // Gold/orange - title gradient end

	// Text hierarchy (most to least prominent)
	FgBase   lipgloss.Color // Upcoming lines
	FgMuted  lipgloss.Color // Status messages
	FgSubtle lipgloss.Color // Lines already sung

	// Status colors
	Error   lipgloss.Color
	Warning lipgloss.Color // Unsynced indicator

	styles *Styles
}

// Styles contains pre-built lipgloss styles for the lyrics view.
type Styles struct {
	Base    lipgloss.Style // Default text
	Muted   lipgloss.Style // Dimmed text
	Subtle  lipgloss.Style // Very dim text
	Current lipgloss.Style // Active lyric line
	Error   lipgloss.Style
	Warning lipgloss.Style
}

var defaultTheme = Theme{
	Primary:   lipgloss.Color("#a78bfa"),
	Secondary: lipgloss.Color("#f1a208"),

	FgBase:   lipgloss.Color("#c0c0c0"),
	FgMuted:  lipgloss.Color("#808080"),
	FgSubtle: lipgloss.Color("#585858"),

	Error:   lipgloss.Color("#ff5555"),
	Warning: lipgloss.Color("#f1a208"),
}

// T returns the default theme.
func T() *Theme {
	return &defaultTheme
}

// S returns the pre-built styles for this theme.
func (t *Theme) S() *Styles {
	if t.styles == nil {
		t.styles = t.buildStyles()
	}
	return t.styles
}

// Title renders a title with the theme's accent gradient.
func (t *Theme) Title(text string) string {
	return ApplyBoldGradient(text, t.Primary, t.Secondary)
}

func (t *Theme) buildStyles() *Styles {
	return &Styles{
		Base:    lipgloss.NewStyle().Foreground(t.FgBase),
		Muted:   lipgloss.NewStyle().Foreground(t.FgMuted),
		Subtle:  lipgloss.NewStyle().Foreground(t.FgSubtle),
		Current: lipgloss.NewStyle().Foreground(t.Primary).Bold(true),
		Error:   lipgloss.NewStyle().Foreground(t.Error),
		Warning: lipgloss.NewStyle().Foreground(t.Warning).Bold(true),
	}
}
