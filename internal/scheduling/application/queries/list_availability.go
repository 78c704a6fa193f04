package queries

import (
	"context"
	"time"

	"github.com/felixgeelhaar/academia/internal/scheduling/domain"
	"github.com/google/uuid"
)

// ListAvailabilityQuery contains the parameters for listing an actor's windows.
type ListAvailabilityQuery struct {
	ActorID uuid.UUID
	// CurrentOnly drops one-off windows dated before Today.
	CurrentOnly bool
	// Today defaults to the current date.
	Today time.Time
}

// ListAvailabilityHandler handles the ListAvailabilityQuery.
type ListAvailabilityHandler struct {
	windowRepo domain.WindowRepository
}

// NewListAvailabilityHandler creates a new ListAvailabilityHandler.
func NewListAvailabilityHandler(windowRepo domain.WindowRepository) *ListAvailabilityHandler {
	return &ListAvailabilityHandler{windowRepo: windowRepo}
}

// Handle executes the ListAvailabilityQuery.
func (h *ListAvailabilityHandler) Handle(ctx context.Context, query ListAvailabilityQuery) ([]WindowDTO, error) {
	windows, err := h.windowRepo.FindByActor(ctx, query.ActorID)
	if err != nil {
		return nil, err
	}

	if query.CurrentOnly {
		today := query.Today
		if today.IsZero() {
			today = time.Now()
		}
		windows = domain.FilterCurrent(windows, today)
	}

	dtos := make([]WindowDTO, len(windows))
	for i, w := range windows {
		dtos[i] = toWindowDTO(w)
	}
	return dtos, nil
}
