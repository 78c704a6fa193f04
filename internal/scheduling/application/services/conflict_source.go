package services

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/academia/internal/scheduling/domain"
	"github.com/google/uuid"
)

// ConflictSource reports the bookings a candidate template would collide with.
// Implementations must not resolve conflicts, only report them.
type ConflictSource interface {
	Conflicts(ctx context.Context, candidate *domain.ScheduleTemplate, r domain.DateRange) ([]domain.ConflictRecord, error)
}

// LocalConflictSource loads the resource's bookings from the repositories and
// runs the detector in process.
type LocalConflictSource struct {
	sessions  domain.CommittedSessionRepository
	templates domain.TemplateRepository
}

// NewLocalConflictSource creates a conflict source backed by local repositories.
func NewLocalConflictSource(sessions domain.CommittedSessionRepository, templates domain.TemplateRepository) *LocalConflictSource {
	return &LocalConflictSource{sessions: sessions, templates: templates}
}

// Conflicts implements ConflictSource.
func (s *LocalConflictSource) Conflicts(ctx context.Context, candidate *domain.ScheduleTemplate, r domain.DateRange) ([]domain.ConflictRecord, error) {
	if candidate == nil {
		return []domain.ConflictRecord{}, nil
	}
	window := r.Intersect(candidate.Validity())

	sessions, err := s.sessions.FindByResource(ctx, candidate.ResourceID(), window)
	if err != nil {
		return nil, fmt.Errorf("failed to load committed sessions: %w", err)
	}
	templates, err := s.templates.FindActiveByResource(ctx, candidate.ResourceID())
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	return domain.DetectConflicts(candidate.ResourceID(), candidate, r, sessions, templates), nil
}

// ConflictInvalidator is implemented by conflict sources that cache answers.
type ConflictInvalidator interface {
	Invalidate(resourceID uuid.UUID)
}
