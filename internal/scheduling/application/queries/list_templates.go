package queries

import (
	"context"

	"github.com/felixgeelhaar/academia/internal/scheduling/domain"
	"github.com/google/uuid"
)

// ListTemplatesQuery lists active templates, optionally for one resource.
type ListTemplatesQuery struct {
	ResourceID uuid.UUID
}

// ListTemplatesHandler handles the ListTemplatesQuery.
type ListTemplatesHandler struct {
	templateRepo domain.TemplateRepository
}

// NewListTemplatesHandler creates a new ListTemplatesHandler.
func NewListTemplatesHandler(templateRepo domain.TemplateRepository) *ListTemplatesHandler {
	return &ListTemplatesHandler{templateRepo: templateRepo}
}

// Handle executes the ListTemplatesQuery.
func (h *ListTemplatesHandler) Handle(ctx context.Context, query ListTemplatesQuery) ([]TemplateDTO, error) {
	var (
		templates []*domain.ScheduleTemplate
		err       error
	)
	if query.ResourceID != uuid.Nil {
		templates, err = h.templateRepo.FindActiveByResource(ctx, query.ResourceID)
	} else {
		templates, err = h.templateRepo.FindActive(ctx)
	}
	if err != nil {
		return nil, err
	}

	dtos := make([]TemplateDTO, len(templates))
	for i, t := range templates {
		dtos[i] = toTemplateDTO(t)
	}
	return dtos, nil
}
