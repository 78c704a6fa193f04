package commands

import (
	"context"

	"github.com/felixgeelhaar/academia/internal/scheduling/application/services"
	"github.com/felixgeelhaar/academia/internal/scheduling/domain"
	"github.com/google/uuid"
)

// ToggleCellCommand flips one hour of an actor's weekly availability grid.
type ToggleCellCommand struct {
	ActorID   uuid.UUID
	ActorKind domain.ActorKind
	Weekday   domain.Weekday
	Hour      int
}

// ToggleCellResult reports the grid cell's new state.
type ToggleCellResult struct {
	WindowID uuid.UUID
	Weekday  domain.Weekday
	Hour     int
	// Available is true when the cell was switched on.
	Available bool
}

// ToggleCellHandler handles the ToggleCellCommand.
type ToggleCellHandler struct {
	store *services.AvailabilityStore
}

// NewToggleCellHandler creates a new ToggleCellHandler.
func NewToggleCellHandler(store *services.AvailabilityStore) *ToggleCellHandler {
	return &ToggleCellHandler{store: store}
}

// Handle executes the ToggleCellCommand.
func (h *ToggleCellHandler) Handle(ctx context.Context, cmd ToggleCellCommand) (*ToggleCellResult, error) {
	result, err := h.store.ToggleWeeklyCell(ctx, cmd.ActorID, cmd.ActorKind, cmd.Weekday, cmd.Hour)
	if err != nil {
		return nil, err
	}
	return &ToggleCellResult{
		WindowID:  result.Window.ID(),
		Weekday:   cmd.Weekday,
		Hour:      cmd.Hour,
		Available: result.Added,
	}, nil
}
