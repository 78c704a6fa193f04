package queries

import (
	"context"
	"time"

	"github.com/felixgeelhaar/academia/internal/scheduling/domain"
	"github.com/google/uuid"
)

// ListSessionsQuery lists a template's stored sessions. Zero dates are open ends.
type ListSessionsQuery struct {
	TemplateID uuid.UUID
	From       time.Time
	Until      time.Time
}

// ListSessionsHandler handles the ListSessionsQuery.
type ListSessionsHandler struct {
	sessionRepo domain.SessionRepository
}

// NewListSessionsHandler creates a new ListSessionsHandler.
func NewListSessionsHandler(sessionRepo domain.SessionRepository) *ListSessionsHandler {
	return &ListSessionsHandler{sessionRepo: sessionRepo}
}

// Handle executes the ListSessionsQuery.
func (h *ListSessionsHandler) Handle(ctx context.Context, query ListSessionsQuery) ([]SessionDTO, error) {
	sessions, err := h.sessionRepo.FindByTemplate(ctx, query.TemplateID, domain.NewDateRange(query.From, query.Until))
	if err != nil {
		return nil, err
	}

	dtos := make([]SessionDTO, len(sessions))
	for i, s := range sessions {
		dtos[i] = toSessionDTO(s)
	}
	return dtos, nil
}
