package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/felixgeelhaar/academia/internal/scheduling/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestLocalConflictSource_ReportsSessionsAndTemplates(t *testing.T) {
	ctx := context.Background()
	sessions := new(mockCommittedRepo)
	templates := new(mockTemplateRepo)
	source := NewLocalConflictSource(sessions, templates)

	resourceID := uuid.New()
	slot, err := domain.NewTemplateSlot(domain.Monday, tod("18:00"), tod("20:00"))
	require.NoError(t, err)
	candidate, err := domain.NewScheduleTemplate("Evening group", resourceID, []domain.TemplateSlot{slot})
	require.NoError(t, err)

	// 2024-03-04 is a Monday.
	booked, err := domain.NewCommittedSession(resourceID, "Ana", time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), tod("19:00"), tod("20:00"))
	require.NoError(t, err)

	otherSlot, err := domain.NewTemplateSlot(domain.Monday, tod("19:30"), tod("21:00"))
	require.NoError(t, err)
	other, err := domain.NewScheduleTemplate("Late group", resourceID, []domain.TemplateSlot{otherSlot})
	require.NoError(t, err)

	r, err := domain.ParseDateRange("2024-03-01", "2024-03-31")
	require.NoError(t, err)

	sessions.On("FindByResource", ctx, resourceID, r).Return([]domain.CommittedSession{booked}, nil)
	templates.On("FindActiveByResource", ctx, resourceID).Return([]*domain.ScheduleTemplate{candidate, other}, nil)

	conflicts, err := source.Conflicts(ctx, candidate, r)
	require.NoError(t, err)
	require.Len(t, conflicts, 2)
	assert.Equal(t, domain.ConflictTypeIndividualSession, conflicts[0].Type)
	assert.Equal(t, "Ana", conflicts[0].Name)
	assert.Equal(t, domain.ConflictTypeOtherTemplate, conflicts[1].Type)
	assert.Equal(t, "Late group", conflicts[1].Name)
}

func TestLocalConflictSource_RepositoryError(t *testing.T) {
	ctx := context.Background()
	sessions := new(mockCommittedRepo)
	templates := new(mockTemplateRepo)
	source := NewLocalConflictSource(sessions, templates)

	candidate, err := domain.NewScheduleTemplate("Group", uuid.New(), nil)
	require.NoError(t, err)

	boom := errors.New("db down")
	sessions.On("FindByResource", ctx, mock.Anything, mock.Anything).Return(nil, boom)

	_, err = source.Conflicts(ctx, candidate, domain.DateRange{})
	assert.ErrorIs(t, err, boom)
	templates.AssertNotCalled(t, "FindActiveByResource", mock.Anything, mock.Anything)
}

func TestLocalConflictSource_NilCandidate(t *testing.T) {
	source := NewLocalConflictSource(new(mockCommittedRepo), new(mockTemplateRepo))

	conflicts, err := source.Conflicts(context.Background(), nil, domain.DateRange{})
	require.NoError(t, err)
	assert.Empty(t, conflicts)
}
