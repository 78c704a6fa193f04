package domain

import "fmt"

// Expand turns a template into concrete sessions for every date in r (inclusive).
// Sessions are ordered by date, then by slot declaration order within a date.
//
// An empty or unbounded range, or a template without slots, yields no sessions. A single invalid
// slot fails the whole expansion; partial results are never returned. When the
// template has a validity range, dates outside it are skipped.
//
// Expand is a pure function: it does not deduplicate against stored sessions.
func Expand(t *ScheduleTemplate, r DateRange) ([]ConcreteSession, error) {
	if t == nil {
		return nil, nil
	}
	if err := ValidateSlots(t.slots); err != nil {
		return nil, fmt.Errorf("expand template %s: %w", t.ID(), err)
	}
	days := r.Intersect(t.validity).Days()
	if len(days) == 0 || len(t.slots) == 0 {
		return []ConcreteSession{}, nil
	}

	sessions := make([]ConcreteSession, 0, len(days)*len(t.slots)/7+1)
	for _, day := range days {
		weekday := WeekdayOf(day)
		for _, slot := range t.slots {
			if slot.Weekday != weekday {
				continue
			}
			sessions = append(sessions, ConcreteSession{
				TemplateID:      t.ID(),
				Date:            day,
				Start:           slot.Start,
				End:             slot.End,
				DurationMinutes: slot.DurationMinutes(),
			})
		}
	}
	return sessions, nil
}
