package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// MinutesPerDay is the exclusive upper bound of a TimeOfDay.
const MinutesPerDay = 24 * 60

// TimeOfDay is a wall-clock time with minute resolution, stored as minutes since midnight.
// Valid values are in [0, MinutesPerDay).
type TimeOfDay int

// RangeEnd selects whether the end of a range is part of it.
type RangeEnd int

const (
	// EndExclusive treats the range as [start, end).
	EndExclusive RangeEnd = iota
	// EndInclusive treats the range as [start, end].
	EndInclusive
)

// NewTimeOfDay builds a TimeOfDay from an hour and minute.
func NewTimeOfDay(hour, minute int) (TimeOfDay, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("%w: %02d:%02d out of range", ErrInvalidTimeFormat, hour, minute)
	}
	return TimeOfDay(hour*60 + minute), nil
}

// ParseTimeOfDay parses an "HH:MM" string.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || len(mm) != 2 || len(hh) < 1 || len(hh) > 2 {
		return 0, fmt.Errorf("%w: %q, use HH:MM", ErrInvalidTimeFormat, s)
	}

	hour, err := parseDigits(hh)
	if err != nil {
		return 0, fmt.Errorf("%w: %q, use HH:MM", ErrInvalidTimeFormat, s)
	}
	minute, err := parseDigits(mm)
	if err != nil {
		return 0, fmt.Errorf("%w: %q, use HH:MM", ErrInvalidTimeFormat, s)
	}

	return NewTimeOfDay(hour, minute)
}

// MustParseTimeOfDay is like ParseTimeOfDay but panics on error. Intended for constants and tests.
func MustParseTimeOfDay(s string) TimeOfDay {
	t, err := ParseTimeOfDay(s)
	if err != nil {
		panic(err)
	}
	return t
}

// parseDigits rejects signs and whitespace that strconv.Atoi would accept.
func parseDigits(s string) (int, error) {
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, strconv.ErrSyntax
		}
	}
	return strconv.Atoi(s)
}

// Hour returns the hour component.
func (t TimeOfDay) Hour() int { return int(t) / 60 }

// Minute returns the minute component.
func (t TimeOfDay) Minute() int { return int(t) % 60 }

// Minutes returns minutes since midnight.
func (t TimeOfDay) Minutes() int { return int(t) }

// IsValid reports whether t lies within a single day.
func (t TimeOfDay) IsValid() bool {
	return t >= 0 && t < MinutesPerDay
}

// String formats the time as zero-padded HH:MM.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// AddMinutes shifts t by n minutes. Results that leave the day are rejected
// because overnight windows are not supported.
func (t TimeOfDay) AddMinutes(n int) (TimeOfDay, error) {
	shifted := TimeOfDay(int(t) + n)
	if !shifted.IsValid() {
		return 0, fmt.Errorf("%w: %s %+d minutes leaves the day", ErrInvalidWindow, t, n)
	}
	return shifted, nil
}

// LessOrEqual reports whether a <= b.
func LessOrEqual(a, b TimeOfDay) bool {
	return a <= b
}

// WithinRange reports whether point lies in the range starting at start (inclusive)
// and ending at end, inclusive or exclusive per the caller.
func WithinRange(point, start, end TimeOfDay, bound RangeEnd) bool {
	if point < start {
		return false
	}
	if bound == EndInclusive {
		return point <= end
	}
	return point < end
}

// MinutesBetween returns end - start in minutes.
func MinutesBetween(start, end TimeOfDay) int {
	return int(end) - int(start)
}

// MarshalText encodes the time as HH:MM.
func (t TimeOfDay) MarshalText() ([]byte, error) {
	if !t.IsValid() {
		return nil, fmt.Errorf("%w: %d minutes", ErrInvalidTimeFormat, int(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText decodes an HH:MM string.
func (t *TimeOfDay) UnmarshalText(text []byte) error {
	parsed, err := ParseTimeOfDay(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
