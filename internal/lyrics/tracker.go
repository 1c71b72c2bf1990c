package lyrics

import (
	"sort"
	"time"
)

// Tracker maps a playback position to the active event index. It remembers
// the last index it reported so callers can redraw only on change. A Tracker
// belongs to a single polling goroutine and is not safe for concurrent use.
type Tracker struct {
	times []time.Duration
	texts []string
	last  int
}

// NewTracker builds a tracker over events, which must already be sorted.
func NewTracker(events []Event) *Tracker {
	t := &Tracker{
		times: make([]time.Duration, len(events)),
		texts: make([]string, len(events)),
		last:  -1,
	}
	for i, e := range events {
		t.times[i] = e.Time
		t.texts[i] = e.Text
	}
	return t
}

// Texts returns the tracked line texts.
func (t *Tracker) Texts() []string {
	return t.texts
}

// CurrentIndex returns the index of the last line starting at or before pos,
// or -1 if pos precedes the first line.
func (t *Tracker) CurrentIndex(pos time.Duration) int {
	return sort.Search(len(t.times), func(i int) bool {
		return t.times[i] > pos
	}) - 1
}

// ChangedIndex returns the current index and true when it differs from the
// previously reported one. Seeking backward is handled like any other move.
func (t *Tracker) ChangedIndex(pos time.Duration) (int, bool) {
	idx := t.CurrentIndex(pos)
	if idx == t.last {
		return idx, false
	}
	t.last = idx
	return idx, true
}
