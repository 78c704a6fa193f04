package queries

import (
	"context"
	"time"

	"github.com/felixgeelhaar/academia/internal/scheduling/domain"
	"github.com/google/uuid"
)

// CheckFitQuery asks whether fixed slots fit inside an actor's availability.
// Slots without an end time use the configured default duration.
type CheckFitQuery struct {
	ActorID uuid.UUID
	Slots   []domain.SlotSpec
	From    time.Time
	Until   time.Time
}

// SlotFit reports the outcome for a single slot.
type SlotFit struct {
	Slot SlotDTO
	Fits bool
}

// CheckFitResult contains the per-slot outcome. Fits is true only when every slot fits.
type CheckFitResult struct {
	Fits  bool
	Slots []SlotFit
}

// CheckFitHandler handles the CheckFitQuery.
type CheckFitHandler struct {
	windowRepo     domain.WindowRepository
	defaultMinutes int
}

// NewCheckFitHandler creates a new CheckFitHandler.
func NewCheckFitHandler(windowRepo domain.WindowRepository, defaultMinutes int) *CheckFitHandler {
	return &CheckFitHandler{windowRepo: windowRepo, defaultMinutes: defaultMinutes}
}

// Handle executes the CheckFitQuery.
func (h *CheckFitHandler) Handle(ctx context.Context, query CheckFitQuery) (*CheckFitResult, error) {
	slots, err := domain.ResolveSlots(query.Slots, h.defaultMinutes)
	if err != nil {
		return nil, err
	}

	windows, err := h.windowRepo.FindByActor(ctx, query.ActorID)
	if err != nil {
		return nil, err
	}
	within := domain.NewDateRange(query.From, query.Until)

	result := &CheckFitResult{
		Fits:  true,
		Slots: make([]SlotFit, 0, len(slots)),
	}
	for _, slot := range slots {
		ok, err := domain.Fits(slot.Fixed(), windows, within)
		if err != nil {
			return nil, err
		}
		result.Slots = append(result.Slots, SlotFit{Slot: toSlotDTO(slot), Fits: ok})
		result.Fits = result.Fits && ok
	}
	return result, nil
}
