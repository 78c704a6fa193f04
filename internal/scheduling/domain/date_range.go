package domain

import "time"

// DateLayout is the wire and storage format for calendar dates.
const DateLayout = "2006-01-02"

// DateRange is an inclusive range of calendar dates. The zero value is unbounded.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NewDateRange normalises both ends to midnight UTC.
func NewDateRange(start, end time.Time) DateRange {
	return DateRange{Start: DateOnly(start), End: DateOnly(end)}
}

// ParseDateRange parses two YYYY-MM-DD strings.
func ParseDateRange(start, end string) (DateRange, error) {
	s, err := time.Parse(DateLayout, start)
	if err != nil {
		return DateRange{}, err
	}
	e, err := time.Parse(DateLayout, end)
	if err != nil {
		return DateRange{}, err
	}
	return NewDateRange(s, e), nil
}

// DateOnly strips the clock and location, keeping the calendar date.
func DateOnly(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// IsBounded reports whether both ends are set.
func (r DateRange) IsBounded() bool {
	return !r.Start.IsZero() && !r.End.IsZero()
}

// IsEmpty reports whether a bounded range contains no dates.
func (r DateRange) IsEmpty() bool {
	return r.IsBounded() && DateOnly(r.Start).After(DateOnly(r.End))
}

// Contains reports whether date falls inside the range. Unbounded ends accept everything.
func (r DateRange) Contains(date time.Time) bool {
	d := DateOnly(date)
	if !r.Start.IsZero() && d.Before(DateOnly(r.Start)) {
		return false
	}
	if !r.End.IsZero() && d.After(DateOnly(r.End)) {
		return false
	}
	return true
}

// Intersect returns the overlap of two ranges. Unbounded ends defer to the other range.
func (r DateRange) Intersect(other DateRange) DateRange {
	out := DateRange{Start: DateOnly(r.Start), End: DateOnly(r.End)}
	if os := DateOnly(other.Start); !os.IsZero() && (out.Start.IsZero() || os.After(out.Start)) {
		out.Start = os
	}
	if oe := DateOnly(other.End); !oe.IsZero() && (out.End.IsZero() || oe.Before(out.End)) {
		out.End = oe
	}
	return out
}

// Overlaps reports whether the two ranges share at least one date.
func (r DateRange) Overlaps(other DateRange) bool {
	return !r.Intersect(other).IsEmpty()
}

// Days returns every date in a bounded range in ascending order.
// An empty or unbounded range yields nil.
func (r DateRange) Days() []time.Time {
	if !r.IsBounded() || r.IsEmpty() {
		return nil
	}
	var days []time.Time
	for d := DateOnly(r.Start); !d.After(DateOnly(r.End)); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// HasWeekday reports whether some date in the range falls on d. Ranges of a week
// or more, and unbounded ranges, contain every weekday.
func (r DateRange) HasWeekday(d Weekday) bool {
	if r.IsEmpty() {
		return false
	}
	if !r.IsBounded() {
		return true
	}
	end := DateOnly(r.End)
	day := DateOnly(r.Start)
	for i := 0; i < 7 && !day.After(end); i++ {
		if WeekdayOf(day) == d {
			return true
		}
		day = day.AddDate(0, 0, 1)
	}
	return false
}
