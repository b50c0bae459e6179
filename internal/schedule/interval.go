package schedule

import (
	"fmt"
	"strconv"
	"strings"
)

// Interval is a half-open [Start,End) time window on a single day, held as
// minutes since midnight. A zero-width interval (Start == End) can only
// conflict with a window that strictly contains its start.
type Interval struct {
	Start int
	End   int
}

// Overlaps reports whether two half-open intervals intersect. Adjacent
// windows (one ending exactly where the other starts) do not overlap.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start < other.End && other.Start < iv.End
}

// ParseClock converts "HH:MM" (seconds tolerated and ignored) to minutes
// since midnight.
func ParseClock(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 {
		return 0, fmt.Errorf("parse clock %q: want HH:MM", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("parse clock %q: bad hour", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("parse clock %q: bad minute", s)
	}
	return h*60 + m, nil
}

// ParseTimeRange parses "HH:MM-HH:MM" into an interval.
func ParseTimeRange(s string) (Interval, error) {
	start, end, ok := strings.Cut(s, "-")
	if !ok {
		return Interval{}, fmt.Errorf("parse time range %q: want HH:MM-HH:MM", s)
	}
	sMin, err := ParseClock(start)
	if err != nil {
		return Interval{}, fmt.Errorf("parse time range: %w", err)
	}
	eMin, err := ParseClock(end)
	if err != nil {
		return Interval{}, fmt.Errorf("parse time range: %w", err)
	}
	if eMin < sMin {
		return Interval{}, fmt.Errorf("parse time range %q: end before start", s)
	}
	return Interval{Start: sMin, End: eMin}, nil
}

// At builds a zero-width interval at the given start time. Used for existing
// appointments whose duration is unknown because no availability slot matches
// their start.
func At(start int) Interval {
	return Interval{Start: start, End: start}
}
