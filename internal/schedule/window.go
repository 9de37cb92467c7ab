// Package schedule implements the time-window arithmetic behind the
// reservation conflict check. Windows are half-open intervals of
// wall-clock minutes within a single day; dates are handled elsewhere.
package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Minutes counts minutes since midnight. The value 1440 (24:00) is a
// valid exclusive end bound.
type Minutes int

const dayEnd Minutes = 24 * 60

// ParseClock parses "HH:MM" or "HH:MM:SS" into minutes since midnight.
// Fields must be exactly two digits and nothing may follow the last
// one. Seconds are accepted because MySQL TIME columns render them,
// but they must be "00": reservations are placed on whole minutes.
func ParseClock(s string) (Minutes, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("invalid time %q", s)
	}
	for _, p := range parts {
		if len(p) != 2 || !isDigits(p) {
			return 0, fmt.Errorf("invalid time %q", s)
		}
	}
	if len(parts) == 3 && parts[2] != "00" {
		return 0, fmt.Errorf("invalid time %q", s)
	}
	h, _ := strconv.Atoi(parts[0])
	m, _ := strconv.Atoi(parts[1])
	if h > 23 || m > 59 {
		return 0, fmt.Errorf("invalid time %q", s)
	}
	return Minutes(h*60 + m), nil
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Clock renders the value as "HH:MM:SS", the format the API returns.
func (m Minutes) Clock() string {
	return fmt.Sprintf("%02d:%02d:00", int(m)/60, int(m)%60)
}

// Window is a half-open interval [Start, End) within one day.
type Window struct {
	Start Minutes
	End   Minutes
}

// NewWindow builds a window from two clock strings and validates the
// ordering invariant start < end.
func NewWindow(start, end string) (Window, error) {
	s, err := ParseClock(start)
	if err != nil {
		return Window{}, err
	}
	e, err := ParseClock(end)
	if err != nil {
		return Window{}, err
	}
	if s >= e {
		return Window{}, fmt.Errorf("start time %s must be before end time %s", start, end)
	}
	return Window{Start: s, End: e}, nil
}

// Duration returns the window length.
func (w Window) Duration() time.Duration {
	return time.Duration(w.End-w.Start) * time.Minute
}

// Overlaps reports whether two half-open intervals intersect:
// [a,b) and [c,d) intersect iff a < d && c < b. Back-to-back windows
// sharing a boundary do not overlap.
func (w Window) Overlaps(o Window) bool {
	return w.Start < o.End && o.Start < w.End
}

// Buffered expands the window by margin on both sides, clamped to the
// day bounds. The buffered window exists only for conflict detection;
// it is never stored.
func (w Window) Buffered(margin time.Duration) Window {
	d := Minutes(margin / time.Minute)
	b := Window{Start: w.Start - d, End: w.End + d}
	if b.Start < 0 {
		b.Start = 0
	}
	if b.End > dayEnd {
		b.End = dayEnd
	}
	return b
}
