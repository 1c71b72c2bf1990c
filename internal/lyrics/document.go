// Package lyrics provides the timed lyric document model, the LRC parser,
// exporters and the playback line tracker.
package lyrics

import (
	"strings"
	"time"
)

// Event is a single timestamped lyric line.
type Event struct {
	Time time.Duration
	Text string
}

// Document contains parsed lyrics. Events are sorted by (Time, Text) and
// contain no duplicate pairs. A Document is not modified after parsing.
type Document struct {
	Events []Event
	Offset time.Duration     // value of the last [offset:N] directive
	Tags   map[string]string // lowercase tag key -> value
}

// IsSynced returns true if the document has at least one timed event.
func (d *Document) IsSynced() bool {
	return d != nil && len(d.Events) > 0
}

// Texts returns the event texts in display order.
func (d *Document) Texts() []string {
	texts := make([]string, len(d.Events))
	for i, e := range d.Events {
		texts[i] = e.Text
	}
	return texts
}

// PlainLines splits untimed lyrics text into display lines, dropping
// trailing whitespace.
func PlainLines(text string) []string {
	var lines []string
	for line := range strings.Lines(text) {
		lines = append(lines, strings.TrimRight(line, " \t\r\n"))
	}
	return lines
}
