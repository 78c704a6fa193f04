package commands

import (
	"context"
	"time"

	"github.com/felixgeelhaar/academia/internal/scheduling/domain"
	"github.com/felixgeelhaar/academia/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// mockTemplateRepo is a mock implementation of domain.TemplateRepository.
type mockTemplateRepo struct {
	mock.Mock
}

func (m *mockTemplateRepo) Save(ctx context.Context, template *domain.ScheduleTemplate) error {
	args := m.Called(ctx, template)
	return args.Error(0)
}

func (m *mockTemplateRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.ScheduleTemplate, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ScheduleTemplate), args.Error(1)
}

func (m *mockTemplateRepo) FindActiveByResource(ctx context.Context, resourceID uuid.UUID) ([]*domain.ScheduleTemplate, error) {
	args := m.Called(ctx, resourceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ScheduleTemplate), args.Error(1)
}

func (m *mockTemplateRepo) FindActive(ctx context.Context) ([]*domain.ScheduleTemplate, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ScheduleTemplate), args.Error(1)
}

func (m *mockTemplateRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// mockCommittedRepo is a mock implementation of domain.CommittedSessionRepository.
type mockCommittedRepo struct {
	mock.Mock
}

func (m *mockCommittedRepo) Save(ctx context.Context, session domain.CommittedSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *mockCommittedRepo) FindByResource(ctx context.Context, resourceID uuid.UUID, r domain.DateRange) ([]domain.CommittedSession, error) {
	args := m.Called(ctx, resourceID, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CommittedSession), args.Error(1)
}

// mockOutboxRepo is a mock implementation of outbox.Repository.
type mockOutboxRepo struct {
	mock.Mock
}

func (m *mockOutboxRepo) Save(ctx context.Context, msg *outbox.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *mockOutboxRepo) SaveBatch(ctx context.Context, msgs []*outbox.Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

func (m *mockOutboxRepo) GetUnpublished(ctx context.Context, limit int) ([]*outbox.Message, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*outbox.Message), args.Error(1)
}

func (m *mockOutboxRepo) MarkPublished(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockOutboxRepo) MarkFailed(ctx context.Context, id int64, err string, nextRetryAt time.Time) error {
	args := m.Called(ctx, id, err, nextRetryAt)
	return args.Error(0)
}

func (m *mockOutboxRepo) MarkDead(ctx context.Context, id int64, reason string) error {
	args := m.Called(ctx, id, reason)
	return args.Error(0)
}

func (m *mockOutboxRepo) GetFailed(ctx context.Context, maxRetries, limit int) ([]*outbox.Message, error) {
	args := m.Called(ctx, maxRetries, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*outbox.Message), args.Error(1)
}

func (m *mockOutboxRepo) DeleteOld(ctx context.Context, olderThanDays int) (int64, error) {
	args := m.Called(ctx, olderThanDays)
	return args.Get(0).(int64), args.Error(1)
}

// mockUnitOfWork is a mock implementation of UnitOfWork.
type mockUnitOfWork struct {
	mock.Mock
}

func (m *mockUnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	args := m.Called(ctx)
	return args.Get(0).(context.Context), args.Error(1)
}

func (m *mockUnitOfWork) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *mockUnitOfWork) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// mockSessionRepo is a mock implementation of domain.SessionRepository.
type mockSessionRepo struct {
	mock.Mock
}

func (m *mockSessionRepo) SaveAll(ctx context.Context, sessions []domain.ConcreteSession) (int, error) {
	args := m.Called(ctx, sessions)
	return args.Int(0), args.Error(1)
}

func (m *mockSessionRepo) FindByTemplate(ctx context.Context, templateID uuid.UUID, r domain.DateRange) ([]domain.ConcreteSession, error) {
	args := m.Called(ctx, templateID, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ConcreteSession), args.Error(1)
}

// mockConflictSource is a mock implementation of services.ConflictSource.
type mockConflictSource struct {
	mock.Mock
}

func (m *mockConflictSource) Conflicts(ctx context.Context, candidate *domain.ScheduleTemplate, r domain.DateRange) ([]domain.ConflictRecord, error) {
	args := m.Called(ctx, candidate, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ConflictRecord), args.Error(1)
}

// invalidatingSource is a conflict source that records invalidations.
type invalidatingSource struct {
	mockConflictSource
	invalidated []uuid.UUID
}

func (s *invalidatingSource) Invalidate(resourceID uuid.UUID) {
	s.invalidated = append(s.invalidated, resourceID)
}

// mockSessionPublisher is a mock implementation of services.SessionPublisher.
type mockSessionPublisher struct {
	mock.Mock
}

func (m *mockSessionPublisher) Publish(ctx context.Context, template *domain.ScheduleTemplate, sessions []domain.ConcreteSession) (int, error) {
	args := m.Called(ctx, template, sessions)
	return args.Int(0), args.Error(1)
}
