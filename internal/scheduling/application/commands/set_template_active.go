package commands

import (
	"context"
	"log/slog"

	"github.com/felixgeelhaar/academia/internal/scheduling/application/services"
	"github.com/felixgeelhaar/academia/internal/scheduling/domain"
	sharedApplication "github.com/felixgeelhaar/academia/internal/shared/application"
	sharedDomain "github.com/felixgeelhaar/academia/internal/shared/domain"
	"github.com/felixgeelhaar/academia/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// SetTemplateActiveCommand activates or deactivates a template. Inactive
// templates take no part in conflict checks or group matching.
type SetTemplateActiveCommand struct {
	TemplateID uuid.UUID
	ActorID    uuid.UUID
	Active     bool
}

// SetTemplateActiveHandler handles the SetTemplateActiveCommand.
type SetTemplateActiveHandler struct {
	templateRepo domain.TemplateRepository
	conflicts    services.ConflictSource
	outboxRepo   outbox.Repository
	uow          sharedApplication.UnitOfWork
	logger       *slog.Logger
}

// NewSetTemplateActiveHandler creates a new SetTemplateActiveHandler. conflicts is
// only used to drop cached answers for the template's resource and may be nil.
func NewSetTemplateActiveHandler(
	templateRepo domain.TemplateRepository,
	conflicts services.ConflictSource,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
	logger *slog.Logger,
) *SetTemplateActiveHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SetTemplateActiveHandler{
		templateRepo: templateRepo,
		conflicts:    conflicts,
		outboxRepo:   outboxRepo,
		uow:          uow,
		logger:       logger,
	}
}

// Handle executes the SetTemplateActiveCommand. Setting the state a template
// already has is a no-op.
func (h *SetTemplateActiveHandler) Handle(ctx context.Context, cmd SetTemplateActiveCommand) error {
	template, err := h.templateRepo.FindByID(ctx, cmd.TemplateID)
	if err != nil {
		return err
	}
	if template.IsActive() == cmd.Active {
		return nil
	}
	if cmd.Active {
		template.Activate()
	} else {
		template.Deactivate()
	}

	err = sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		if err := h.templateRepo.Save(txCtx, template); err != nil {
			return err
		}

		event := domain.NewTemplateActivityChanged(template)
		events := []sharedDomain.DomainEvent{&event}
		sharedApplication.ApplyEventMetadata(events, sharedApplication.NewEventMetadata(txCtx, cmd.ActorID))

		msgs, err := outbox.NewMessages(events)
		if err != nil {
			return err
		}
		return h.outboxRepo.SaveBatch(txCtx, msgs)
	})
	if err != nil {
		return err
	}

	if invalidator, ok := h.conflicts.(services.ConflictInvalidator); ok {
		invalidator.Invalidate(template.ResourceID())
	}

	h.logger.Info("template activity changed",
		"template_id", template.ID(),
		"resource_id", template.ResourceID(),
		"active", cmd.Active,
	)
	return nil
}
