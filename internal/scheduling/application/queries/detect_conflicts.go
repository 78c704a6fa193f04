package queries

import (
	"context"
	"time"

	"github.com/felixgeelhaar/academia/internal/scheduling/application/services"
	"github.com/felixgeelhaar/academia/internal/scheduling/domain"
	"github.com/google/uuid"
)

// DetectConflictsQuery reports what a stored template collides with in a range.
type DetectConflictsQuery struct {
	TemplateID uuid.UUID
	From       time.Time
	Until      time.Time
}

// DetectConflictsHandler handles the DetectConflictsQuery.
type DetectConflictsHandler struct {
	templateRepo domain.TemplateRepository
	conflicts    services.ConflictSource
}

// NewDetectConflictsHandler creates a new DetectConflictsHandler.
func NewDetectConflictsHandler(templateRepo domain.TemplateRepository, conflicts services.ConflictSource) *DetectConflictsHandler {
	return &DetectConflictsHandler{templateRepo: templateRepo, conflicts: conflicts}
}

// Handle executes the DetectConflictsQuery. An empty result means no conflicts.
func (h *DetectConflictsHandler) Handle(ctx context.Context, query DetectConflictsQuery) ([]ConflictDTO, error) {
	template, err := h.templateRepo.FindByID(ctx, query.TemplateID)
	if err != nil {
		return nil, err
	}

	records, err := h.conflicts.Conflicts(ctx, template, domain.NewDateRange(query.From, query.Until))
	if err != nil {
		return nil, err
	}

	dtos := make([]ConflictDTO, len(records))
	for i, r := range records {
		dtos[i] = toConflictDTO(r)
	}
	return dtos, nil
}
