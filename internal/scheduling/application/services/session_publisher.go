package services

import (
	"context"

	"github.com/felixgeelhaar/academia/internal/scheduling/domain"
)

// SessionPublisher writes expanded sessions to an external calendar.
type SessionPublisher interface {
	// Publish creates or updates one calendar entry per session and returns how
	// many were written.
	Publish(ctx context.Context, template *domain.ScheduleTemplate, sessions []domain.ConcreteSession) (int, error)
}
