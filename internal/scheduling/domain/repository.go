package domain

import (
	"context"

	"github.com/google/uuid"
)

// WindowRepository persists availability windows.
type WindowRepository interface {
	// Save inserts or updates a window.
	Save(ctx context.Context, window *AvailabilityWindow) error

	// FindByID returns ErrWindowNotFound when the window does not exist.
	FindByID(ctx context.Context, id uuid.UUID) (*AvailabilityWindow, error)

	// FindByActor returns every window of an actor, in no particular order.
	FindByActor(ctx context.Context, actorID uuid.UUID) ([]*AvailabilityWindow, error)

	// Delete removes a window. Deleting a missing window returns ErrWindowNotFound.
	Delete(ctx context.Context, id uuid.UUID) error
}

// TemplateRepository persists schedule templates.
type TemplateRepository interface {
	Save(ctx context.Context, template *ScheduleTemplate) error
	FindByID(ctx context.Context, id uuid.UUID) (*ScheduleTemplate, error)
	// FindActiveByResource returns the active templates led by a resource.
	FindActiveByResource(ctx context.Context, resourceID uuid.UUID) ([]*ScheduleTemplate, error)
	// FindActive returns every active template.
	FindActive(ctx context.Context) ([]*ScheduleTemplate, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// SessionRepository persists expanded sessions.
type SessionRepository interface {
	// SaveAll stores sessions. Sessions already stored under the same template,
	// date and start are skipped; the number of newly stored sessions is returned.
	SaveAll(ctx context.Context, sessions []ConcreteSession) (int, error)

	// FindByTemplate returns a template's sessions within r, ordered by date then start.
	FindByTemplate(ctx context.Context, templateID uuid.UUID, r DateRange) ([]ConcreteSession, error)
}

// CommittedSessionRepository reads and records a resource's individual bookings.
type CommittedSessionRepository interface {
	Save(ctx context.Context, session CommittedSession) error
	FindByResource(ctx context.Context, resourceID uuid.UUID, r DateRange) ([]CommittedSession, error)
}
