package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ConcreteSession is one dated occurrence produced by expanding a template.
// Sessions are values; once produced they are never mutated.
type ConcreteSession struct {
	TemplateID      uuid.UUID `json:"template_id"`
	Date            time.Time `json:"date"`
	Start           TimeOfDay `json:"start"`
	End             TimeOfDay `json:"end"`
	DurationMinutes int       `json:"duration_minutes"`
}

// StartsAt returns the session start as an absolute time in loc.
func (s ConcreteSession) StartsAt(loc *time.Location) time.Time {
	return atTime(s.Date, s.Start, loc)
}

// EndsAt returns the session end as an absolute time in loc.
func (s ConcreteSession) EndsAt(loc *time.Location) time.Time {
	return atTime(s.Date, s.End, loc)
}

// Key identifies the session by template, date and start; it is stable across expansions.
func (s ConcreteSession) Key() string {
	return fmt.Sprintf("%s/%s/%s", s.TemplateID, s.Date.Format(DateLayout), s.Start)
}

// CommittedSession is an individual session a resource has already booked.
type CommittedSession struct {
	ID         uuid.UUID
	ResourceID uuid.UUID
	Name       string
	Date       time.Time
	Start      TimeOfDay
	End        TimeOfDay
}

// NewCommittedSession creates a validated committed session.
func NewCommittedSession(resourceID uuid.UUID, name string, date time.Time, start, end TimeOfDay) (CommittedSession, error) {
	if err := ValidateInterval(start, end); err != nil {
		return CommittedSession{}, err
	}
	return CommittedSession{
		ID:         uuid.New(),
		ResourceID: resourceID,
		Name:       name,
		Date:       DateOnly(date),
		Start:      start,
		End:        end,
	}, nil
}

func atTime(date time.Time, t TimeOfDay, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, loc)
}
