package domain

import (
	"fmt"
	"strings"
	"time"
)

// Weekday is the single canonical day-of-week used throughout scheduling.
// Values follow ISO-8601 numbering: Monday is 1 and Sunday is 7.
type Weekday int

const (
	Monday Weekday = iota + 1
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var weekdayNames = [...]string{
	Monday:    "monday",
	Tuesday:   "tuesday",
	Wednesday: "wednesday",
	Thursday:  "thursday",
	Friday:    "friday",
	Saturday:  "saturday",
	Sunday:    "sunday",
}

// AllWeekdays lists the week starting on Monday.
func AllWeekdays() []Weekday {
	return []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}
}

// ParseWeekday parses a canonical weekday name ("monday" ... "sunday", case-insensitive).
// Localised labels are translated by the adapters before reaching the domain.
func ParseWeekday(s string) (Weekday, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, d := range AllWeekdays() {
		if weekdayNames[d] == name {
			return d, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidWeekday, s)
}

// WeekdayOf returns the weekday of the given date.
func WeekdayOf(date time.Time) Weekday {
	return FromTimeWeekday(date.Weekday())
}

// FromTimeWeekday converts a time.Weekday (Sunday = 0) to a Weekday.
func FromTimeWeekday(d time.Weekday) Weekday {
	if d == time.Sunday {
		return Sunday
	}
	return Weekday(d)
}

// TimeWeekday converts to time.Weekday.
func (d Weekday) TimeWeekday() time.Weekday {
	if d == Sunday {
		return time.Sunday
	}
	return time.Weekday(d)
}

// IsValid reports whether d is one of the seven days.
func (d Weekday) IsValid() bool {
	return d >= Monday && d <= Sunday
}

// String returns the canonical lowercase English name.
func (d Weekday) String() string {
	if !d.IsValid() {
		return fmt.Sprintf("weekday(%d)", int(d))
	}
	return weekdayNames[d]
}

// MarshalText encodes the canonical name.
func (d Weekday) MarshalText() ([]byte, error) {
	if !d.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidWeekday, int(d))
	}
	return []byte(d.String()), nil
}

// UnmarshalText decodes a canonical name.
func (d *Weekday) UnmarshalText(text []byte) error {
	parsed, err := ParseWeekday(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
