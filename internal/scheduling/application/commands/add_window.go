package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/felixgeelhaar/academia/internal/scheduling/application/services"
	"github.com/felixgeelhaar/academia/internal/scheduling/domain"
	"github.com/google/uuid"
)

// AddWindowCommand contains the data needed to declare an availability window.
// Exactly one of Weekday (recurring) or Date (one-off) must be set.
type AddWindowCommand struct {
	ActorID   uuid.UUID
	ActorKind domain.ActorKind
	Weekday   domain.Weekday
	Date      time.Time
	Start     string
	End       string
}

// AddWindowResult contains the result of adding a window.
type AddWindowResult struct {
	WindowID  uuid.UUID
	Recurring bool
}

// AddWindowHandler handles the AddWindowCommand.
type AddWindowHandler struct {
	store *services.AvailabilityStore
}

// NewAddWindowHandler creates a new AddWindowHandler.
func NewAddWindowHandler(store *services.AvailabilityStore) *AddWindowHandler {
	return &AddWindowHandler{store: store}
}

// Handle executes the AddWindowCommand.
func (h *AddWindowHandler) Handle(ctx context.Context, cmd AddWindowCommand) (*AddWindowResult, error) {
	start, err := domain.ParseTimeOfDay(cmd.Start)
	if err != nil {
		return nil, err
	}
	end, err := domain.ParseTimeOfDay(cmd.End)
	if err != nil {
		return nil, err
	}

	var window *domain.AvailabilityWindow
	switch {
	case cmd.Weekday != 0 && !cmd.Date.IsZero():
		return nil, fmt.Errorf("%w: both weekday and specific date are set", domain.ErrInvalidWindow)
	case !cmd.Date.IsZero():
		window, err = domain.NewOneOffWindow(cmd.ActorID, cmd.ActorKind, cmd.Date, start, end)
	default:
		window, err = domain.NewRecurringWindow(cmd.ActorID, cmd.ActorKind, cmd.Weekday, start, end)
	}
	if err != nil {
		return nil, err
	}

	if err := h.store.Add(ctx, window); err != nil {
		return nil, err
	}

	return &AddWindowResult{
		WindowID:  window.ID(),
		Recurring: window.IsRecurring(),
	}, nil
}
