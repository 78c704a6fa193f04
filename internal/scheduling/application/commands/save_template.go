package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/academia/internal/scheduling/application/services"
	"github.com/felixgeelhaar/academia/internal/scheduling/domain"
	sharedApplication "github.com/felixgeelhaar/academia/internal/shared/application"
	sharedDomain "github.com/felixgeelhaar/academia/internal/shared/domain"
	"github.com/felixgeelhaar/academia/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// ConflictHorizonDays bounds the conflict check of a template with an open end.
const ConflictHorizonDays = 365

// SaveTemplateCommand creates a template, or replaces one when TemplateID is set.
type SaveTemplateCommand struct {
	TemplateID uuid.UUID
	ActorID    uuid.UUID
	Name       string
	ResourceID uuid.UUID
	Slots      []domain.SlotSpec
	ValidFrom  time.Time
	ValidUntil time.Time
	// Force saves the template even when it conflicts with existing bookings.
	Force bool
}

// SaveTemplateResult contains the outcome of a save. Conflicts are reported even
// when the save was forced.
type SaveTemplateResult struct {
	TemplateID uuid.UUID
	Saved      bool
	Conflicts  []domain.ConflictRecord
}

// SaveTemplateHandler handles the SaveTemplateCommand.
type SaveTemplateHandler struct {
	templateRepo   domain.TemplateRepository
	conflicts      services.ConflictSource
	outboxRepo     outbox.Repository
	uow            sharedApplication.UnitOfWork
	defaultMinutes int
	logger         *slog.Logger
	now            func() time.Time
}

// NewSaveTemplateHandler creates a new SaveTemplateHandler. Slots declared without
// an end time last defaultMinutes.
func NewSaveTemplateHandler(
	templateRepo domain.TemplateRepository,
	conflicts services.ConflictSource,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
	defaultMinutes int,
	logger *slog.Logger,
) *SaveTemplateHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SaveTemplateHandler{
		templateRepo:   templateRepo,
		conflicts:      conflicts,
		outboxRepo:     outboxRepo,
		uow:            uow,
		defaultMinutes: defaultMinutes,
		logger:         logger,
		now:            time.Now,
	}
}

// Handle executes the SaveTemplateCommand. When the template conflicts and Force
// is false, nothing is stored and the error wraps domain.ErrTemplateConflicts.
func (h *SaveTemplateHandler) Handle(ctx context.Context, cmd SaveTemplateCommand) (*SaveTemplateResult, error) {
	slots, err := domain.ResolveSlots(cmd.Slots, h.defaultMinutes)
	if err != nil {
		return nil, err
	}

	template, err := domain.NewScheduleTemplate(cmd.Name, cmd.ResourceID, slots)
	if err != nil {
		return nil, err
	}

	var previousResource uuid.UUID
	if cmd.TemplateID != uuid.Nil {
		existing, err := h.templateRepo.FindByID(ctx, cmd.TemplateID)
		if err != nil {
			return nil, err
		}
		previousResource = existing.ResourceID()
		template = domain.RehydrateScheduleTemplate(
			existing.ID(),
			template.Name(),
			template.ResourceID(),
			template.Slots(),
			existing.IsActive(),
			time.Time{}, time.Time{},
			existing.CreatedAt(),
			h.now().UTC(),
		)
	}

	if !cmd.ValidFrom.IsZero() || !cmd.ValidUntil.IsZero() {
		if err := template.SetValidity(cmd.ValidFrom, cmd.ValidUntil); err != nil {
			return nil, err
		}
	}

	conflicts, err := h.conflicts.Conflicts(ctx, template, h.conflictHorizon(template))
	if err != nil {
		return nil, fmt.Errorf("failed to check conflicts: %w", err)
	}

	result := &SaveTemplateResult{
		TemplateID: template.ID(),
		Conflicts:  conflicts,
	}
	if len(conflicts) > 0 && !cmd.Force {
		return result, fmt.Errorf("%w: %d conflicting bookings", domain.ErrTemplateConflicts, len(conflicts))
	}

	err = sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		if err := h.templateRepo.Save(txCtx, template); err != nil {
			return err
		}

		event := domain.NewTemplateSaved(template, len(conflicts))
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

	if invalidator, ok := h.conflicts.(services.ConflictInvalidator); ok {
		invalidator.Invalidate(template.ResourceID())
		if previousResource != uuid.Nil && previousResource != template.ResourceID() {
			invalidator.Invalidate(previousResource)
		}
	}

	h.logger.Info("template saved",
		"template_id", template.ID(),
		"resource_id", template.ResourceID(),
		"slots", len(slots),
		"conflicts", len(conflicts),
		"forced", cmd.Force && len(conflicts) > 0,
	)

	result.Saved = true
	return result, nil
}

// conflictHorizon is the template's validity with open ends closed: the start
// defaults to today and the end to ConflictHorizonDays after the start.
func (h *SaveTemplateHandler) conflictHorizon(t *domain.ScheduleTemplate) domain.DateRange {
	r := t.Validity()
	if r.Start.IsZero() {
		r.Start = domain.DateOnly(h.now())
	}
	if r.End.IsZero() {
		r.End = r.Start.AddDate(0, 0, ConflictHorizonDays)
	}
	return r
}
