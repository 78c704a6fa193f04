package commands

import (
	"context"

	"github.com/felixgeelhaar/academia/internal/scheduling/application/services"
	"github.com/google/uuid"
)

// RemoveWindowCommand identifies the window to delete.
type RemoveWindowCommand struct {
	WindowID uuid.UUID
}

// RemoveWindowHandler handles the RemoveWindowCommand.
type RemoveWindowHandler struct {
	store *services.AvailabilityStore
}

// NewRemoveWindowHandler creates a new RemoveWindowHandler.
func NewRemoveWindowHandler(store *services.AvailabilityStore) *RemoveWindowHandler {
	return &RemoveWindowHandler{store: store}
}

// Handle executes the RemoveWindowCommand.
func (h *RemoveWindowHandler) Handle(ctx context.Context, cmd RemoveWindowCommand) error {
	_, err := h.store.Remove(ctx, cmd.WindowID)
	return err
}
