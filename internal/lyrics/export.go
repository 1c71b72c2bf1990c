package lyrics

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"
)

// DefaultLastLineDuration is how long the final SRT cue stays on screen.
const DefaultLastLineDuration = 2 * time.Second

// ExportLRC renders the document back to LRC. Tags come first in key order,
// then the offset directive when non-zero, then one line per event with
// centisecond timestamps (truncated, not rounded).
func ExportLRC(doc *Document) string {
	var out []string

	keys := make([]string, 0, len(doc.Tags))
	for k := range doc.Tags {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		out = append(out, fmt.Sprintf("[%s:%s]", k, doc.Tags[k]))
	}

	if offset := doc.Offset.Milliseconds(); offset != 0 {
		out = append(out, fmt.Sprintf("[offset:%d]", offset))
	}

	for _, e := range doc.Events {
		out = append(out, "["+formatLRCTime(e.Time)+"]"+e.Text)
	}

	if len(out) == 0 {
		return ""
	}
	return strings.Join(out, "\n") + "\n"
}

// ExportSRT renders the events as numbered subtitle cues. Each cue ends where
// the next one starts (at least 1ms later); the final cue lasts lastLine.
func ExportSRT(doc *Document, lastLine time.Duration) string {
	events := doc.Events
	if len(events) == 0 {
		return ""
	}

	var sb strings.Builder
	for i, e := range events {
		start := e.Time.Milliseconds()
		var end int64
		if i+1 < len(events) {
			end = max(events[i+1].Time.Milliseconds(), start+1)
		} else {
			end = start + lastLine.Milliseconds()
		}
		fmt.Fprintf(&sb, "%d\n%s --> %s\n%s\n", i+1, formatSRTTime(start), formatSRTTime(end), e.Text)
		if i+1 < len(events) {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

type jsonDocument struct {
	OffsetMS int64             `json:"offset_ms"`
	Tags     map[string]string `json:"tags"`
	Events   []jsonEvent       `json:"events"`
}

type jsonEvent struct {
	TimeMS int64  `json:"t_ms"`
	Text   string `json:"text"`
}

// ExportJSON renders the document as indented JSON.
func ExportJSON(doc *Document) ([]byte, error) {
	out := jsonDocument{
		OffsetMS: doc.Offset.Milliseconds(),
		Tags:     doc.Tags,
		Events:   make([]jsonEvent, len(doc.Events)),
	}
	if out.Tags == nil {
		out.Tags = map[string]string{}
	}
	for i, e := range doc.Events {
		out.Events[i] = jsonEvent{TimeMS: e.Time.Milliseconds(), Text: e.Text}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return nil, fmt.Errorf("encode json: %w", err)
	}
	return buf.Bytes(), nil
}

// formatLRCTime formats as mm:ss.cc.
func formatLRCTime(d time.Duration) string {
	ms := d.Milliseconds()
	return fmt.Sprintf("%02d:%02d.%02d", ms/60_000, ms%60_000/1000, ms%1000/10)
}

// formatSRTTime formats as HH:MM:SS,mmm.
func formatSRTTime(ms int64) string {
	return fmt.Sprintf("%02d:%02d:%02d,%03d", ms/3_600_000, ms%3_600_000/60_000, ms%60_000/1000, ms%1000)
}
