package domain

import (
	"fmt"
	"time"

	sharedDomain "github.com/felixgeelhaar/academia/internal/shared/domain"
	"github.com/google/uuid"
)

// ActorKind identifies who owns an availability window.
type ActorKind string

const (
	ActorKindStudent ActorKind = "student"
	ActorKindTutor   ActorKind = "tutor"
)

// IsValid reports whether k is a known actor kind.
func (k ActorKind) IsValid() bool {
	return k == ActorKindStudent || k == ActorKindTutor
}

// AvailabilityWindow is a span of free time declared by a student or tutor.
// A recurring window repeats every week on its weekday; a one-off window is bound
// to a single calendar date.
type AvailabilityWindow struct {
	sharedDomain.BaseEntity
	actorID      uuid.UUID
	actorKind    ActorKind
	weekday      Weekday
	specificDate time.Time
	start        TimeOfDay
	end          TimeOfDay
	recurring    bool
}

// NewRecurringWindow creates a weekly availability window.
func NewRecurringWindow(actorID uuid.UUID, kind ActorKind, weekday Weekday, start, end TimeOfDay) (*AvailabilityWindow, error) {
	w := &AvailabilityWindow{
		BaseEntity: sharedDomain.NewBaseEntity(),
		actorID:    actorID,
		actorKind:  kind,
		weekday:    weekday,
		start:      start,
		end:        end,
		recurring:  true,
	}
	if err := w.Validate(); err != nil {
		return nil, err
	}
	return w, nil
}

// NewOneOffWindow creates an availability window bound to a single date.
func NewOneOffWindow(actorID uuid.UUID, kind ActorKind, date time.Time, start, end TimeOfDay) (*AvailabilityWindow, error) {
	w := &AvailabilityWindow{
		BaseEntity:   sharedDomain.NewBaseEntity(),
		actorID:      actorID,
		actorKind:    kind,
		specificDate: DateOnly(date),
		start:        start,
		end:          end,
		recurring:    false,
	}
	if err := w.Validate(); err != nil {
		return nil, err
	}
	return w, nil
}

// Validate checks the window invariants: a known actor, start < end within one day,
// and exactly one of weekday (recurring) or specific date (one-off).
func (w *AvailabilityWindow) Validate() error {
	if w.actorID == uuid.Nil {
		return fmt.Errorf("%w: actor id is required", ErrInvalidWindow)
	}
	if w.actorKind != "" && !w.actorKind.IsValid() {
		return fmt.Errorf("%w: unknown actor kind %q", ErrInvalidWindow, w.actorKind)
	}
	if err := ValidateInterval(w.start, w.end); err != nil {
		return err
	}

	hasWeekday := w.weekday != 0
	hasDate := !w.specificDate.IsZero()
	switch {
	case hasWeekday && hasDate:
		return fmt.Errorf("%w: both weekday and specific date are set", ErrInvalidWindow)
	case !hasWeekday && !hasDate:
		return fmt.Errorf("%w: one of weekday or specific date is required", ErrInvalidWindow)
	case w.recurring && !hasWeekday:
		return fmt.Errorf("%w: recurring window requires a weekday", ErrInvalidWindow)
	case !w.recurring && !hasDate:
		return fmt.Errorf("%w: one-off window requires a specific date", ErrInvalidWindow)
	case hasWeekday && !w.weekday.IsValid():
		return fmt.Errorf("%w: %w", ErrInvalidWindow, ErrInvalidWeekday)
	}
	return nil
}

// ValidateInterval checks that start and end are valid times with start < end.
func ValidateInterval(start, end TimeOfDay) error {
	if !start.IsValid() || !end.IsValid() {
		return fmt.Errorf("%w: time outside of day", ErrInvalidWindow)
	}
	if start >= end {
		return fmt.Errorf("%w: start %s must be before end %s", ErrInvalidWindow, start, end)
	}
	return nil
}

// Getters
func (w *AvailabilityWindow) ActorID() uuid.UUID      { return w.actorID }
func (w *AvailabilityWindow) ActorKind() ActorKind    { return w.actorKind }
func (w *AvailabilityWindow) Start() TimeOfDay        { return w.start }
func (w *AvailabilityWindow) End() TimeOfDay          { return w.end }
func (w *AvailabilityWindow) IsRecurring() bool       { return w.recurring }
func (w *AvailabilityWindow) SpecificDate() time.Time { return w.specificDate }

// Weekday returns the weekday the window applies to. One-off windows resolve
// their specific date to its weekday.
func (w *AvailabilityWindow) Weekday() Weekday {
	if w.recurring {
		return w.weekday
	}
	return WeekdayOf(w.specificDate)
}

// DurationMinutes returns the window length.
func (w *AvailabilityWindow) DurationMinutes() int {
	return MinutesBetween(w.start, w.end)
}

// AppliesOn reports whether the window covers the given calendar date.
func (w *AvailabilityWindow) AppliesOn(date time.Time) bool {
	if w.recurring {
		return WeekdayOf(date) == w.weekday
	}
	return DateOnly(date).Equal(w.specificDate)
}

// IsStale reports whether a one-off window's date has passed. Recurring windows never expire.
func (w *AvailabilityWindow) IsStale(today time.Time) bool {
	if w.recurring {
		return false
	}
	return w.specificDate.Before(DateOnly(today))
}

// WeeklyCellBounds returns the span of one hour in the weekly grid. The last cell
// of the day ends at 23:59.
func WeeklyCellBounds(hour int) (TimeOfDay, TimeOfDay, error) {
	if hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("%w: hour %d outside 0..23", ErrInvalidWindow, hour)
	}
	start := TimeOfDay(hour * 60)
	end := start + 60
	if hour == 23 {
		end = MinutesPerDay - 1
	}
	return start, end, nil
}

// IsWeeklyCell reports whether this is a recurring window on weekday covering
// exactly the grid cell of hour. Longer windows starting on the hour are not cells.
func (w *AvailabilityWindow) IsWeeklyCell(weekday Weekday, hour int) bool {
	start, end, err := WeeklyCellBounds(hour)
	if err != nil {
		return false
	}
	return w.recurring && w.weekday == weekday && w.start == start && w.end == end
}

// FilterCurrent drops one-off windows whose date is before today. Stale windows are
// never purged automatically; callers opt in to filtering.
func FilterCurrent(windows []*AvailabilityWindow, today time.Time) []*AvailabilityWindow {
	current := make([]*AvailabilityWindow, 0, len(windows))
	for _, w := range windows {
		if !w.IsStale(today) {
			current = append(current, w)
		}
	}
	return current
}

// RehydrateAvailabilityWindow recreates a window from persisted state.
func RehydrateAvailabilityWindow(
	id uuid.UUID,
	actorID uuid.UUID,
	kind ActorKind,
	weekday Weekday,
	specificDate time.Time,
	start, end TimeOfDay,
	recurring bool,
	createdAt, updatedAt time.Time,
) *AvailabilityWindow {
	return &AvailabilityWindow{
		BaseEntity:   sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt),
		actorID:      actorID,
		actorKind:    kind,
		weekday:      weekday,
		specificDate: DateOnly(specificDate),
		start:        start,
		end:          end,
		recurring:    recurring,
	}
}
