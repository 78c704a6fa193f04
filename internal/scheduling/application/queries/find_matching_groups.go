package queries

import (
	"context"
	"time"

	"github.com/felixgeelhaar/academia/internal/scheduling/domain"
	"github.com/google/uuid"
)

// FindMatchingGroupsQuery looks for active group templates an actor can attend.
type FindMatchingGroupsQuery struct {
	ActorID uuid.UUID
	From    time.Time
	Until   time.Time
	// ResourceID restricts candidates to one tutor's groups.
	ResourceID uuid.UUID
}

// FindMatchingGroupsHandler handles the FindMatchingGroupsQuery.
type FindMatchingGroupsHandler struct {
	windowRepo   domain.WindowRepository
	templateRepo domain.TemplateRepository
}

// NewFindMatchingGroupsHandler creates a new FindMatchingGroupsHandler.
func NewFindMatchingGroupsHandler(windowRepo domain.WindowRepository, templateRepo domain.TemplateRepository) *FindMatchingGroupsHandler {
	return &FindMatchingGroupsHandler{windowRepo: windowRepo, templateRepo: templateRepo}
}

// Handle executes the FindMatchingGroupsQuery. An empty result means no group matches.
func (h *FindMatchingGroupsHandler) Handle(ctx context.Context, query FindMatchingGroupsQuery) ([]TemplateDTO, error) {
	windows, err := h.windowRepo.FindByActor(ctx, query.ActorID)
	if err != nil {
		return nil, err
	}

	var candidates []*domain.ScheduleTemplate
	if query.ResourceID != uuid.Nil {
		candidates, err = h.templateRepo.FindActiveByResource(ctx, query.ResourceID)
	} else {
		candidates, err = h.templateRepo.FindActive(ctx)
	}
	if err != nil {
		return nil, err
	}

	matches, err := domain.MatchGroups(windows, candidates, domain.NewDateRange(query.From, query.Until))
	if err != nil {
		return nil, err
	}

	dtos := make([]TemplateDTO, len(matches))
	for i, m := range matches {
		dtos[i] = toTemplateDTO(m)
	}
	return dtos, nil
}
