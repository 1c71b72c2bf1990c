package lyrics

import (
	"bufio"
	"cmp"
	"errors"
	"fmt"
	"io"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// ErrFormat is matched by every *FormatError.
var ErrFormat = errors.New("malformed lrc")

// FormatError reports a malformed timestamp or offset value.
type FormatError struct {
	Line   int    // 1-based physical line number
	Token  string // offending bracket or value
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("lrc line %d: %s %q", e.Line, e.Reason, e.Token)
}

// Is reports whether target is ErrFormat.
func (e *FormatError) Is(target error) bool {
	return target == ErrFormat
}

// ParseStats summarizes what the parser did with the input lines.
type ParseStats struct {
	LinesTotal          int
	LinesWithTimestamps int
	LinesIgnored        int
	EventsTotal         int
}

// Regular expressions for parsing LRC format
var (
	// Matches [mm:ss], [mm:ss.f], [mm:ss.ff] and [mm:ss.fff]; minutes may
	// run to three digits for tracks of 100 minutes or more
	timestampRe = regexp.MustCompile(`\[(\d{1,3}):(\d{2})(?:\.(\d{1,3}))?\]`)

	// Matches a whole-line offset directive like [offset:-250]
	offsetRe = regexp.MustCompile(`(?i)^\[offset:([+-]?\d+)\]\s*$`)

	// Matches metadata tags like [ar:Artist Name]
	tagRe = regexp.MustCompile(`^\[([a-zA-Z]{1,8}):(.*)\]\s*$`)
)

const maxLineSize = 1 << 20

// maxOffsetMS bounds the offset directive so that shifting any event
// timestamp by it cannot overflow a time.Duration.
const maxOffsetMS = math.MaxInt64 / int64(time.Millisecond) / 2

// ParseLRC parses LRC format lyrics from a reader.
func ParseLRC(r io.Reader) (*Document, ParseStats, error) {
	var (
		stats  ParseStats
		offset time.Duration
		events []Event
	)
	tags := make(map[string]string)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	for scanner.Scan() {
		stats.LinesTotal++
		line := scanner.Text()

		if strings.TrimSpace(line) == "" {
			stats.LinesIgnored++
			continue
		}

		if m := offsetRe.FindStringSubmatch(line); m != nil {
			ms, err := strconv.ParseInt(m[1], 10, 64)
			if err != nil {
				return nil, stats, &FormatError{Line: stats.LinesTotal, Token: m[1], Reason: "invalid offset"}
			}
			if ms > maxOffsetMS || ms < -maxOffsetMS {
				return nil, stats, &FormatError{Line: stats.LinesTotal, Token: m[1], Reason: "offset out of range"}
			}
			offset = time.Duration(ms) * time.Millisecond
			continue
		}

		matches := timestampRe.FindAllStringSubmatchIndex(line, -1)

		if len(matches) == 0 {
			if m := tagRe.FindStringSubmatch(line); m != nil {
				key := strings.ToLower(strings.TrimSpace(m[1]))
				value := strings.TrimSpace(m[2])
				if key != "" && value != "" {
					tags[key] = value
				}
				continue
			}
			stats.LinesIgnored++
			continue
		}

		stats.LinesWithTimestamps++

		// Text after the last timestamp is shared by every timestamp on the line
		last := matches[len(matches)-1]
		text := strings.TrimLeftFunc(line[last[1]:], unicode.IsSpace)

		for _, match := range matches {
			ts, err := parseTimestamp(line, match)
			if err != nil {
				return nil, stats, &FormatError{
					Line:   stats.LinesTotal,
					Token:  line[match[0]:match[1]],
					Reason: err.Error(),
				}
			}
			events = append(events, Event{Time: ts, Text: text})
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, stats, err
	}

	for i := range events {
		events[i].Time = max(events[i].Time+offset, 0)
	}

	slices.SortFunc(events, compareEvents)
	events = slices.Compact(events)

	stats.EventsTotal = len(events)
	return &Document{Events: events, Offset: offset, Tags: tags}, stats, nil
}

// Parse parses LRC text held in a string.
func Parse(text string) (*Document, error) {
	doc, _, err := ParseLRC(strings.NewReader(text))
	return doc, err
}

// parseTimestamp converts one timestamp submatch of line into a Duration.
// The fraction is right-padded to milliseconds: .2 is 200ms, .23 is 230ms.
func parseTimestamp(line string, match []int) (time.Duration, error) {
	minutes, err := strconv.Atoi(line[match[2]:match[3]])
	if err != nil {
		return 0, errors.New("invalid minutes")
	}

	seconds, err := strconv.Atoi(line[match[4]:match[5]])
	if err != nil || seconds > 59 {
		return 0, errors.New("invalid seconds")
	}

	var millis int
	if match[6] >= 0 {
		frac := line[match[6]:match[7]]
		frac += strings.Repeat("0", 3-len(frac))
		millis, err = strconv.Atoi(frac)
		if err != nil {
			return 0, errors.New("invalid fraction")
		}
	}

	return time.Duration(minutes)*time.Minute +
		time.Duration(seconds)*time.Second +
		time.Duration(millis)*time.Millisecond, nil
}

func compareEvents(a, b Event) int {
	return cmp.Or(cmp.Compare(a.Time, b.Time), strings.Compare(a.Text, b.Text))
}
