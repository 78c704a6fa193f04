package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/felixgeelhaar/academia/internal/scheduling/domain"
	sharedApplication "github.com/felixgeelhaar/academia/internal/shared/application"
	sharedDomain "github.com/felixgeelhaar/academia/internal/shared/domain"
	"github.com/felixgeelhaar/academia/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// ToggleResult reports what a weekly-grid toggle did.
type ToggleResult struct {
	Added  bool
	Window *domain.AvailabilityWindow
}

// AvailabilityStore owns the availability windows of students and tutors. It is
// the only component that mutates shared scheduling state; mutations of one actor
// are serialized through the ActorLocker.
type AvailabilityStore struct {
	windows    domain.WindowRepository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
	locker     ActorLocker
	logger     *slog.Logger
}

// NewAvailabilityStore creates a new availability store. A nil locker falls back
// to an in-process one.
func NewAvailabilityStore(
	windows domain.WindowRepository,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
	locker ActorLocker,
	logger *slog.Logger,
) *AvailabilityStore {
	if locker == nil {
		locker = NewInProcessActorLocker()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AvailabilityStore{
		windows:    windows,
		outboxRepo: outboxRepo,
		uow:        uow,
		locker:     locker,
		logger:     logger,
	}
}

// WindowsFor returns every window of an actor, stale one-off windows included.
func (s *AvailabilityStore) WindowsFor(ctx context.Context, actorID uuid.UUID) ([]*domain.AvailabilityWindow, error) {
	windows, err := s.windows.FindByActor(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to load windows: %w", err)
	}
	return windows, nil
}

// Add validates and stores a window. An invalid window is rejected before any
// state changes.
func (s *AvailabilityStore) Add(ctx context.Context, window *domain.AvailabilityWindow) error {
	if window == nil {
		return fmt.Errorf("%w: window is required", domain.ErrInvalidWindow)
	}
	if err := window.Validate(); err != nil {
		return err
	}

	unlock, err := s.locker.Lock(ctx, window.ActorID())
	if err != nil {
		return fmt.Errorf("failed to lock actor %s: %w", window.ActorID(), err)
	}
	defer unlock()

	err = sharedApplication.WithUnitOfWork(ctx, s.uow, func(txCtx context.Context) error {
		if err := s.windows.Save(txCtx, window); err != nil {
			return err
		}
		event := domain.NewWindowAdded(window)
		return s.enqueue(txCtx, window.ActorID(), &event)
	})
	if err != nil {
		return err
	}

	s.logger.Info("availability window added",
		"window_id", window.ID(),
		"actor_id", window.ActorID(),
		"recurring", window.IsRecurring(),
	)
	return nil
}

// Remove deletes a window and returns it. A missing window is ErrWindowNotFound.
func (s *AvailabilityStore) Remove(ctx context.Context, windowID uuid.UUID) (*domain.AvailabilityWindow, error) {
	window, err := s.windows.FindByID(ctx, windowID)
	if err != nil {
		return nil, err
	}

	unlock, err := s.locker.Lock(ctx, window.ActorID())
	if err != nil {
		return nil, fmt.Errorf("failed to lock actor %s: %w", window.ActorID(), err)
	}
	defer unlock()

	err = sharedApplication.WithUnitOfWork(ctx, s.uow, func(txCtx context.Context) error {
		if err := s.windows.Delete(txCtx, windowID); err != nil {
			return err
		}
		event := domain.NewWindowRemoved(window)
		return s.enqueue(txCtx, window.ActorID(), &event)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("availability window removed", "window_id", windowID, "actor_id", window.ActorID())
	return window, nil
}

// ToggleWeeklyCell flips one hour of the weekly availability grid. A recurring
// window covering exactly that cell is removed; otherwise a one-hour recurring
// window is added. Wider windows are never touched, so toggling twice restores
// the previous windows. The last cell of the day ends at 23:59.
func (s *AvailabilityStore) ToggleWeeklyCell(
	ctx context.Context,
	actorID uuid.UUID,
	kind domain.ActorKind,
	weekday domain.Weekday,
	hour int,
) (*ToggleResult, error) {
	start, end, err := domain.WeeklyCellBounds(hour)
	if err != nil {
		return nil, err
	}
	if !weekday.IsValid() {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidWindow, domain.ErrInvalidWeekday)
	}

	unlock, err := s.locker.Lock(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock actor %s: %w", actorID, err)
	}
	defer unlock()

	var result *ToggleResult
	err = sharedApplication.WithUnitOfWork(ctx, s.uow, func(txCtx context.Context) error {
		windows, err := s.windows.FindByActor(txCtx, actorID)
		if err != nil {
			return err
		}

		for _, w := range windows {
			if !w.IsWeeklyCell(weekday, hour) {
				continue
			}
			if err := s.windows.Delete(txCtx, w.ID()); err != nil {
				return err
			}
			event := domain.NewWindowRemoved(w)
			result = &ToggleResult{Added: false, Window: w}
			return s.enqueue(txCtx, actorID, &event)
		}

		window, err := domain.NewRecurringWindow(actorID, kind, weekday, start, end)
		if err != nil {
			return err
		}
		if err := s.windows.Save(txCtx, window); err != nil {
			return err
		}
		event := domain.NewWindowAdded(window)
		result = &ToggleResult{Added: true, Window: window}
		return s.enqueue(txCtx, actorID, &event)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("weekly cell toggled",
		"actor_id", actorID,
		"weekday", weekday,
		"hour", hour,
		"added", result.Added,
	)
	return result, nil
}

func (s *AvailabilityStore) enqueue(ctx context.Context, actorID uuid.UUID, events ...sharedDomain.DomainEvent) error {
	sharedApplication.ApplyEventMetadata(events, sharedApplication.NewEventMetadata(ctx, actorID))

	msgs, err := outbox.NewMessages(events)
	if err != nil {
		return err
	}
	return s.outboxRepo.SaveBatch(ctx, msgs)
}
