package commands

import (
	"context"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/academia/internal/scheduling/application/services"
	"github.com/felixgeelhaar/academia/internal/scheduling/domain"
	sharedApplication "github.com/felixgeelhaar/academia/internal/shared/application"
	sharedDomain "github.com/felixgeelhaar/academia/internal/shared/domain"
	"github.com/felixgeelhaar/academia/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// ExpandTemplateCommand turns a template into dated sessions for a range.
type ExpandTemplateCommand struct {
	TemplateID uuid.UUID
	ActorID    uuid.UUID
	StartDate  time.Time
	EndDate    time.Time
	// Publish also writes the sessions to the configured calendar.
	Publish bool
}

// ExpandTemplateResult contains the expanded sessions.
type ExpandTemplateResult struct {
	TemplateID uuid.UUID
	Sessions   []domain.ConcreteSession
	// Stored counts sessions that were not stored by an earlier expansion.
	Stored       int
	Published    int
	PublishError string
}

// ExpandTemplateHandler handles the ExpandTemplateCommand.
type ExpandTemplateHandler struct {
	templateRepo domain.TemplateRepository
	sessionRepo  domain.SessionRepository
	outboxRepo   outbox.Repository
	uow          sharedApplication.UnitOfWork
	publisher    services.SessionPublisher
	logger       *slog.Logger
}

// NewExpandTemplateHandler creates a new ExpandTemplateHandler. publisher may be nil.
func NewExpandTemplateHandler(
	templateRepo domain.TemplateRepository,
	sessionRepo domain.SessionRepository,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
	publisher services.SessionPublisher,
	logger *slog.Logger,
) *ExpandTemplateHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExpandTemplateHandler{
		templateRepo: templateRepo,
		sessionRepo:  sessionRepo,
		outboxRepo:   outboxRepo,
		uow:          uow,
		publisher:    publisher,
		logger:       logger,
	}
}

// Handle executes the ExpandTemplateCommand. The range must be bounded; a range
// whose start is after its end yields no sessions. Calendar publication happens
// after the sessions are committed and its failure does not undo them.
func (h *ExpandTemplateHandler) Handle(ctx context.Context, cmd ExpandTemplateCommand) (*ExpandTemplateResult, error) {
	r := domain.NewDateRange(cmd.StartDate, cmd.EndDate)
	if !r.IsBounded() {
		return nil, services.ErrUnboundedRange
	}

	template, err := h.templateRepo.FindByID(ctx, cmd.TemplateID)
	if err != nil {
		return nil, err
	}

	sessions, err := domain.Expand(template, r)
	if err != nil {
		return nil, err
	}

	result := &ExpandTemplateResult{
		TemplateID: template.ID(),
		Sessions:   sessions,
	}
	if len(sessions) == 0 {
		return result, nil
	}

	err = sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		stored, err := h.sessionRepo.SaveAll(txCtx, sessions)
		if err != nil {
			return err
		}
		result.Stored = stored

		event := domain.NewSessionsExpanded(template, r, sessions)
		events := []sharedDomain.DomainEvent{&event}
		sharedApplication.ApplyEventMetadata(events, sharedApplication.NewEventMetadata(txCtx, cmd.ActorID))

		msgs, err := outbox.NewMessages(events)
		if err != nil {
			return err
		}
		return h.outboxRepo.SaveBatch(txCtx, msgs)
	})
	if err != nil {
		return nil, err
	}

	if cmd.Publish && h.publisher != nil {
		published, err := h.publisher.Publish(ctx, template, sessions)
		result.Published = published
		if err != nil {
			h.logger.Warn("failed to publish sessions", "template_id", template.ID(), "error", err)
			result.PublishError = err.Error()
		}
	}

	h.logger.Info("template expanded",
		"template_id", template.ID(),
		"start", r.Start.Format(domain.DateLayout),
		"end", r.End.Format(domain.DateLayout),
		"sessions", len(sessions),
		"stored", result.Stored,
	)
	return result, nil
}
