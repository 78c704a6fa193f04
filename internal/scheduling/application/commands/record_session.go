package commands

import (
	"context"
	"time"

	"github.com/felixgeelhaar/academia/internal/scheduling/application/services"
	"github.com/felixgeelhaar/academia/internal/scheduling/domain"
	"github.com/google/uuid"
)

// RecordSessionCommand books an individual session for a resource.
type RecordSessionCommand struct {
	ResourceID uuid.UUID
	Name       string
	Date       time.Time
	Start      string
	End        string
}

// RecordSessionResult contains the stored session's identity.
type RecordSessionResult struct {
	SessionID uuid.UUID
}

// RecordSessionHandler handles the RecordSessionCommand.
type RecordSessionHandler struct {
	sessionRepo domain.CommittedSessionRepository
	conflicts   services.ConflictSource
}

// NewRecordSessionHandler creates a new RecordSessionHandler. conflicts is only
// used to drop cached answers for the resource and may be nil.
func NewRecordSessionHandler(sessionRepo domain.CommittedSessionRepository, conflicts services.ConflictSource) *RecordSessionHandler {
	return &RecordSessionHandler{sessionRepo: sessionRepo, conflicts: conflicts}
}

// Handle executes the RecordSessionCommand.
func (h *RecordSessionHandler) Handle(ctx context.Context, cmd RecordSessionCommand) (*RecordSessionResult, error) {
	start, err := domain.ParseTimeOfDay(cmd.Start)
	if err != nil {
		return nil, err
	}
	end, err := domain.ParseTimeOfDay(cmd.End)
	if err != nil {
		return nil, err
	}

	session, err := domain.NewCommittedSession(cmd.ResourceID, cmd.Name, cmd.Date, start, end)
	if err != nil {
		return nil, err
	}
	if err := h.sessionRepo.Save(ctx, session); err != nil {
		return nil, err
	}

	if invalidator, ok := h.conflicts.(services.ConflictInvalidator); ok {
		invalidator.Invalidate(cmd.ResourceID)
	}
	return &RecordSessionResult{SessionID: session.ID}, nil
}
