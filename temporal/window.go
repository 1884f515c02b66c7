package temporal

import (
	"fmt"
	"strings"
	"time"
)

// Accepted timestamp layouts. SOS endpoints commonly hand out offsets
// without a colon and begin/end positions without any zone at all.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05-0700",
	"2006-01-02T15:04:05",
}

// Window is the half-open event-time interval of an observation request.
type Window struct {
	Start time.Time
	End   time.Time
}

// ParseWindow parses a "first/last" timestamp pair such as
// "2015-06-01T00:00:00+0200/2015-06-03T00:00:00+0200".
func ParseWindow(str string) (Window, error) {
	parts := strings.Split(strings.TrimSpace(str), "/")
	if len(parts) != 2 {
		return Window{}, fmt.Errorf("event time %q must be two timestamps separated by a slash", str)
	}

	start, err := ParseTimestamp(parts[0])
	if err != nil {
		return Window{}, fmt.Errorf("event time start: %w", err)
	}
	end, err := ParseTimestamp(parts[1])
	if err != nil {
		return Window{}, fmt.Errorf("event time end: %w", err)
	}
	if end.Before(start) {
		return Window{}, fmt.Errorf("event time %q ends before it starts", str)
	}

	return Window{Start: start, End: end}, nil
}

// ParseTimestamp parses a single timestamp, assuming UTC when the
// source carries no zone information.
func ParseTimestamp(str string) (time.Time, error) {
	str = strings.TrimSpace(str)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, str); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported timestamp %q", str)
}

func (w Window) IsZero() bool {
	return w.Start.IsZero() && w.End.IsZero()
}

func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

func (w Window) String() string {
	return w.Start.UTC().Format(time.RFC3339) + "/" + w.End.UTC().Format(time.RFC3339)
}
