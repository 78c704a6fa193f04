package persistence_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/academia/internal/scheduling/domain"
	"github.com/felixgeelhaar/academia/internal/scheduling/infrastructure/persistence"
	"github.com/felixgeelhaar/academia/internal/shared/infrastructure/database/dbtest"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func tod(s string) domain.TimeOfDay {
	return domain.MustParseTimeOfDay(s)
}

func TestSQLWindowRepository(t *testing.T) {
	ctx := context.Background()
	repo := persistence.NewSQLWindowRepository(dbtest.NewSQLite(t))
	actorID := uuid.New()

	recurring, err := domain.NewRecurringWindow(actorID, domain.ActorKindStudent, domain.Tuesday, tod("17:00"), tod("21:00"))
	require.NoError(t, err)
	oneOff, err := domain.NewOneOffWindow(actorID, domain.ActorKindStudent, date(2024, 3, 9), tod("09:00"), tod("12:00"))
	require.NoError(t, err)
	other, err := domain.NewRecurringWindow(uuid.New(), domain.ActorKindTutor, domain.Monday, tod("08:00"), tod("10:00"))
	require.NoError(t, err)

	for _, w := range []*domain.AvailabilityWindow{oneOff, recurring, other} {
		require.NoError(t, repo.Save(ctx, w))
	}

	t.Run("find by actor", func(t *testing.T) {
		windows, err := repo.FindByActor(ctx, actorID)
		require.NoError(t, err)
		require.Len(t, windows, 2)

		assert.Equal(t, recurring.ID(), windows[0].ID())
		assert.True(t, windows[0].IsRecurring())
		assert.Equal(t, domain.Tuesday, windows[0].Weekday())
		assert.Equal(t, tod("17:00"), windows[0].Start())
		assert.Equal(t, tod("21:00"), windows[0].End())

		assert.Equal(t, oneOff.ID(), windows[1].ID())
		assert.False(t, windows[1].IsRecurring())
		assert.Equal(t, date(2024, 3, 9), windows[1].SpecificDate())
		assert.Equal(t, domain.Saturday, windows[1].Weekday())
	})

	t.Run("find by id", func(t *testing.T) {
		w, err := repo.FindByID(ctx, other.ID())
		require.NoError(t, err)
		assert.Equal(t, domain.ActorKindTutor, w.ActorKind())
		assert.Equal(t, other.ActorID(), w.ActorID())

		_, err = repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, domain.ErrWindowNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, oneOff.ID()))
		assert.ErrorIs(t, repo.Delete(ctx, oneOff.ID()), domain.ErrWindowNotFound)

		windows, err := repo.FindByActor(ctx, actorID)
		require.NoError(t, err)
		assert.Len(t, windows, 1)
	})
}

func TestSQLTemplateRepository(t *testing.T) {
	ctx := context.Background()
	repo := persistence.NewSQLTemplateRepository(dbtest.NewSQLite(t))
	resourceID := uuid.New()

	slots := []domain.TemplateSlot{
		{Weekday: domain.Wednesday, Start: tod("18:00"), End: tod("20:00")},
		{Weekday: domain.Monday, Start: tod("18:00"), End: tod("20:00")},
	}
	tpl, err := domain.NewScheduleTemplate("Algebra I", resourceID, slots)
	require.NoError(t, err)
	require.NoError(t, tpl.SetValidity(date(2024, 1, 1), time.Time{}))
	require.NoError(t, repo.Save(ctx, tpl))

	t.Run("round trip keeps slot order and validity", func(t *testing.T) {
		got, err := repo.FindByID(ctx, tpl.ID())
		require.NoError(t, err)

		assert.Equal(t, "Algebra I", got.Name())
		assert.Equal(t, resourceID, got.ResourceID())
		assert.True(t, got.IsActive())
		assert.Equal(t, slots, got.Slots())
		assert.Equal(t, date(2024, 1, 1), got.Validity().Start)
		assert.True(t, got.Validity().End.IsZero())
	})

	t.Run("save replaces slots", func(t *testing.T) {
		replaced := domain.RehydrateScheduleTemplate(tpl.ID(), "Algebra I", resourceID,
			slots[:1], true, time.Time{}, time.Time{}, tpl.CreatedAt(), time.Now())
		require.NoError(t, repo.Save(ctx, replaced))

		got, err := repo.FindByID(ctx, tpl.ID())
		require.NoError(t, err)
		assert.Len(t, got.Slots(), 1)
		assert.False(t, got.Validity().IsBounded())
	})

	t.Run("active filters", func(t *testing.T) {
		inactive, err := domain.NewScheduleTemplate("Retired", resourceID, slots)
		require.NoError(t, err)
		inactive.Deactivate()
		require.NoError(t, repo.Save(ctx, inactive))

		elsewhere, err := domain.NewScheduleTemplate("Chemistry", uuid.New(), slots)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, elsewhere))

		byResource, err := repo.FindActiveByResource(ctx, resourceID)
		require.NoError(t, err)
		require.Len(t, byResource, 1)
		assert.Equal(t, tpl.ID(), byResource[0].ID())

		all, err := repo.FindActive(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 2)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, tpl.ID()))
		_, err := repo.FindByID(ctx, tpl.ID())
		assert.ErrorIs(t, err, domain.ErrTemplateNotFound)
		assert.ErrorIs(t, repo.Delete(ctx, tpl.ID()), domain.ErrTemplateNotFound)
	})
}

func TestSQLSessionRepository_SaveAllSkipsDuplicates(t *testing.T) {
	ctx := context.Background()
	conn := dbtest.NewSQLite(t)
	templates := persistence.NewSQLTemplateRepository(conn)
	repo := persistence.NewSQLSessionRepository(conn)

	tpl, err := domain.NewScheduleTemplate("Algebra I", uuid.New(), []domain.TemplateSlot{
		{Weekday: domain.Monday, Start: tod("18:00"), End: tod("20:00")},
	})
	require.NoError(t, err)
	require.NoError(t, templates.Save(ctx, tpl))

	sessions, err := domain.Expand(tpl, domain.NewDateRange(date(2024, 1, 1), date(2024, 1, 15)))
	require.NoError(t, err)
	require.Len(t, sessions, 3)

	n, err := repo.SaveAll(ctx, sessions[:2])
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = repo.SaveAll(ctx, sessions)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	stored, err := repo.FindByTemplate(ctx, tpl.ID(), domain.DateRange{})
	require.NoError(t, err)
	assert.Equal(t, sessions, stored)

	firstWeek, err := repo.FindByTemplate(ctx, tpl.ID(), domain.NewDateRange(date(2024, 1, 1), date(2024, 1, 7)))
	require.NoError(t, err)
	assert.Len(t, firstWeek, 1)
}

func TestSQLCommittedSessionRepository(t *testing.T) {
	ctx := context.Background()
	repo := persistence.NewSQLCommittedSessionRepository(dbtest.NewSQLite(t))
	resourceID := uuid.New()

	inRange, err := domain.NewCommittedSession(resourceID, "Ana - algebra", date(2024, 1, 10), tod("18:30"), tod("19:30"))
	require.NoError(t, err)
	outOfRange, err := domain.NewCommittedSession(resourceID, "Luis - physics", date(2024, 2, 10), tod("10:00"), tod("11:00"))
	require.NoError(t, err)
	otherResource, err := domain.NewCommittedSession(uuid.New(), "Other", date(2024, 1, 10), tod("18:30"), tod("19:30"))
	require.NoError(t, err)

	for _, s := range []domain.CommittedSession{inRange, outOfRange, otherResource} {
		require.NoError(t, repo.Save(ctx, s))
	}

	got, err := repo.FindByResource(ctx, resourceID, domain.NewDateRange(date(2024, 1, 1), date(2024, 1, 31)))
	require.NoError(t, err)
	assert.Equal(t, []domain.CommittedSession{inRange}, got)

	all, err := repo.FindByResource(ctx, resourceID, domain.DateRange{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
