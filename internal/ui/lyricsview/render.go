package lyricsview

import (
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/llehouerou/lyricsync/internal/ui/styles"
	"github.com/llehouerou/lyricsync/internal/watch"
)

const ellipsis = "…"

// Render draws a frame into width x height cells: a title row, then a
// window of lines starting ContextLines above the current one.
func Render(f *watch.Frame, width, height int) string {
	if f == nil || width <= 0 || height <= 0 {
		return ""
	}

	t := styles.T()
	s := t.S()

	title := "♫ " + f.Title + " ♫"
	indicator := ""
	if !f.Synced && !f.Status {
		indicator = " [unsynced]"
	}
	titleWidth := max(width-ansi.StringWidth(indicator), 1)

	out := make([]string, 0, height)
	out = append(out, t.Title(ansi.Truncate(title, titleWidth, ellipsis))+s.Warning.Render(indicator))

	start, end := window(len(f.Lines), f.Current, f.Context, max(height-1, 1))
	for i := start; i < end; i++ {
		line := ansi.Truncate(f.Lines[i], width, ellipsis)
		switch {
		case f.Status:
			out = append(out, s.Muted.Render(line))
		case i == f.Current:
			out = append(out, s.Current.Render(line))
		case f.Synced && i < f.Current:
			out = append(out, s.Subtle.Render(line))
		default:
			out = append(out, s.Base.Render(line))
		}
	}

	return strings.Join(out, "\n")
}

// window returns the [start, end) range of lines that fit in rows,
// beginning context lines above current and never leaving rows unused
// when earlier lines exist.
func window(total, current, context, rows int) (start, end int) {
	if current >= 0 {
		start = max(current-context, 0)
	}
	end = min(start+rows, total)
	start = max(end-rows, 0)
	return start, end
}
