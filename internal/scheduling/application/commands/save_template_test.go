package commands

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/felixgeelhaar/academia/internal/scheduling/domain"
	"github.com/felixgeelhaar/academia/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func tod(s string) domain.TimeOfDay {
	return domain.MustParseTimeOfDay(s)
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type saveTemplateFixture struct {
	handler   *SaveTemplateHandler
	templates *mockTemplateRepo
	conflicts *invalidatingSource
	outbox    *mockOutboxRepo
	uow       *mockUnitOfWork
}

func newSaveTemplateFixture() *saveTemplateFixture {
	f := &saveTemplateFixture{
		templates: new(mockTemplateRepo),
		conflicts: new(invalidatingSource),
		outbox:    new(mockOutboxRepo),
		uow:       new(mockUnitOfWork),
	}
	f.handler = NewSaveTemplateHandler(f.templates, f.conflicts, f.outbox, f.uow, 90, discardLogger())
	f.handler.now = func() time.Time { return time.Date(2024, 3, 1, 15, 30, 0, 0, time.UTC) }
	return f
}

func (f *saveTemplateFixture) expectCommit(ctx context.Context) {
	f.uow.On("Begin", ctx).Return(ctx, nil)
	f.uow.On("Commit", ctx).Return(nil)
	f.templates.On("Save", ctx, mock.AnythingOfType("*domain.ScheduleTemplate")).Return(nil)
	f.outbox.On("SaveBatch", ctx, mock.MatchedBy(func(msgs []*outbox.Message) bool {
		return len(msgs) == 1 && msgs[0].RoutingKey == domain.RoutingKeyTemplateSaved
	})).Return(nil)
}

func TestSaveTemplateHandler_Create(t *testing.T) {
	ctx := context.Background()
	f := newSaveTemplateFixture()
	resourceID := uuid.New()

	horizon := domain.NewDateRange(date(2024, 3, 1), date(2025, 3, 1))
	f.conflicts.On("Conflicts", ctx, mock.AnythingOfType("*domain.ScheduleTemplate"), horizon).
		Return([]domain.ConflictRecord{}, nil)
	f.expectCommit(ctx)

	result, err := f.handler.Handle(ctx, SaveTemplateCommand{
		ActorID:    resourceID,
		Name:       "Evening group",
		ResourceID: resourceID,
		Slots: []domain.SlotSpec{
			{Weekday: domain.Monday, Start: "18:00"},
			{Weekday: domain.Thursday, Start: "18:00", End: "19:00"},
		},
	})
	require.NoError(t, err)
	assert.True(t, result.Saved)
	assert.Empty(t, result.Conflicts)
	assert.Equal(t, []uuid.UUID{resourceID}, f.conflicts.invalidated)

	saved := f.templates.Calls[0].Arguments.Get(1).(*domain.ScheduleTemplate)
	assert.Equal(t, result.TemplateID, saved.ID())
	slots := saved.Slots()
	require.Len(t, slots, 2)
	// The first slot had no end and received the configured 90 minutes.
	assert.Equal(t, tod("19:30"), slots[0].End)
	assert.Equal(t, tod("19:00"), slots[1].End)
}

func TestSaveTemplateHandler_ConflictsBlockUnlessForced(t *testing.T) {
	ctx := context.Background()
	conflict := domain.ConflictRecord{
		Type:  domain.ConflictTypeOtherTemplate,
		Name:  "Late group",
		Start: tod("19:00"),
		End:   tod("20:00"),
	}
	cmd := SaveTemplateCommand{
		Name:       "Evening group",
		ResourceID: uuid.New(),
		Slots:      []domain.SlotSpec{{Weekday: domain.Monday, Start: "18:30"}},
	}

	t.Run("rejected", func(t *testing.T) {
		f := newSaveTemplateFixture()
		f.conflicts.On("Conflicts", ctx, mock.Anything, mock.Anything).Return([]domain.ConflictRecord{conflict}, nil)

		result, err := f.handler.Handle(ctx, cmd)
		assert.ErrorIs(t, err, domain.ErrTemplateConflicts)
		require.NotNil(t, result)
		assert.False(t, result.Saved)
		assert.Len(t, result.Conflicts, 1)
		f.templates.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		f.uow.AssertNotCalled(t, "Begin", mock.Anything)
	})

	t.Run("forced", func(t *testing.T) {
		f := newSaveTemplateFixture()
		f.conflicts.On("Conflicts", ctx, mock.Anything, mock.Anything).Return([]domain.ConflictRecord{conflict}, nil)
		f.expectCommit(ctx)

		forced := cmd
		forced.Force = true
		result, err := f.handler.Handle(ctx, forced)
		require.NoError(t, err)
		assert.True(t, result.Saved)
		assert.Len(t, result.Conflicts, 1)
	})
}

func TestSaveTemplateHandler_InvalidSlots(t *testing.T) {
	ctx := context.Background()
	f := newSaveTemplateFixture()

	_, err := f.handler.Handle(ctx, SaveTemplateCommand{
		Name:       "Broken",
		ResourceID: uuid.New(),
		Slots:      []domain.SlotSpec{{Weekday: domain.Monday, Start: "20:00", End: "18:00"}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidWindow)

	_, err = f.handler.Handle(ctx, SaveTemplateCommand{
		Name:       "Broken",
		ResourceID: uuid.New(),
		Slots:      []domain.SlotSpec{{Weekday: domain.Monday, Start: "8pm"}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidTimeFormat)

	_, err = f.handler.Handle(ctx, SaveTemplateCommand{ResourceID: uuid.New()})
	assert.ErrorIs(t, err, domain.ErrTemplateNameRequired)

	f.conflicts.AssertNotCalled(t, "Conflicts", mock.Anything, mock.Anything, mock.Anything)
}

func TestSaveTemplateHandler_ReplaceKeepsIdentity(t *testing.T) {
	ctx := context.Background()
	f := newSaveTemplateFixture()

	resourceID := uuid.New()
	slot, err := domain.NewTemplateSlot(domain.Monday, tod("18:00"), tod("19:00"))
	require.NoError(t, err)
	existing, err := domain.NewScheduleTemplate("Old name", resourceID, []domain.TemplateSlot{slot})
	require.NoError(t, err)
	existing.Deactivate()

	f.templates.On("FindByID", ctx, existing.ID()).Return(existing, nil)
	f.conflicts.On("Conflicts", ctx, mock.Anything, domain.NewDateRange(date(2024, 9, 1), date(2025, 6, 30))).
		Return([]domain.ConflictRecord{}, nil)
	f.expectCommit(ctx)

	result, err := f.handler.Handle(ctx, SaveTemplateCommand{
		TemplateID: existing.ID(),
		Name:       "New name",
		ResourceID: resourceID,
		Slots:      []domain.SlotSpec{{Weekday: domain.Tuesday, Start: "17:00"}},
		ValidFrom:  date(2024, 9, 1),
		ValidUntil: date(2025, 6, 30),
	})
	require.NoError(t, err)
	assert.Equal(t, existing.ID(), result.TemplateID)

	saved := f.templates.Calls[1].Arguments.Get(1).(*domain.ScheduleTemplate)
	assert.Equal(t, "New name", saved.Name())
	assert.False(t, saved.IsActive())
	assert.Equal(t, domain.Tuesday, saved.Slots()[0].Weekday)
	assert.Equal(t, date(2024, 9, 1), saved.Validity().Start)
}

func TestSaveTemplateHandler_ReplaceOnNewResourceInvalidatesBoth(t *testing.T) {
	ctx := context.Background()
	f := newSaveTemplateFixture()

	existing := mondayEvenings(t)
	newResource := uuid.New()

	f.templates.On("FindByID", ctx, existing.ID()).Return(existing, nil)
	f.conflicts.On("Conflicts", ctx, mock.Anything, mock.Anything).Return([]domain.ConflictRecord{}, nil)
	f.expectCommit(ctx)

	_, err := f.handler.Handle(ctx, SaveTemplateCommand{
		TemplateID: existing.ID(),
		Name:       existing.Name(),
		ResourceID: newResource,
		Slots:      []domain.SlotSpec{{Weekday: domain.Monday, Start: "18:00", End: "20:00"}},
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{newResource, existing.ResourceID()}, f.conflicts.invalidated)
}

func TestSaveTemplateHandler_ReplaceMissing(t *testing.T) {
	ctx := context.Background()
	f := newSaveTemplateFixture()

	id := uuid.New()
	f.templates.On("FindByID", ctx, id).Return(nil, domain.ErrTemplateNotFound)

	_, err := f.handler.Handle(ctx, SaveTemplateCommand{
		TemplateID: id,
		Name:       "Group",
		ResourceID: uuid.New(),
	})
	assert.ErrorIs(t, err, domain.ErrTemplateNotFound)
}

func TestSaveTemplateHandler_ConflictSourceError(t *testing.T) {
	ctx := context.Background()
	f := newSaveTemplateFixture()

	boom := errors.New("rpc down")
	f.conflicts.On("Conflicts", ctx, mock.Anything, mock.Anything).Return(nil, boom)

	_, err := f.handler.Handle(ctx, SaveTemplateCommand{
		Name:       "Group",
		ResourceID: uuid.New(),
		Slots:      []domain.SlotSpec{{Weekday: domain.Monday, Start: "10:00"}},
	})
	assert.ErrorIs(t, err, boom)
	f.uow.AssertNotCalled(t, "Begin", mock.Anything)
}
