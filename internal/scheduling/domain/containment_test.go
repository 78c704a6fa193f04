package domain_test

import (
	"testing"

	"github.com/felixgeelhaar/academia/internal/scheduling/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recurring(t *testing.T, d domain.Weekday, start, end string) *domain.AvailabilityWindow {
	t.Helper()
	w, err := domain.NewRecurringWindow(uuid.New(), domain.ActorKindStudent, d, tod(start), tod(end))
	require.NoError(t, err)
	return w
}

func fixed(d domain.Weekday, start, end string) domain.FixedWindow {
	return domain.FixedWindow{Weekday: d, Start: tod(start), End: tod(end)}
}

func TestFits_ContainmentIsStrict(t *testing.T) {
	candidate := fixed(domain.Monday, "09:00", "10:00")

	ok, err := domain.Fits(candidate, []*domain.AvailabilityWindow{recurring(t, domain.Monday, "09:30", "10:30")}, domain.DateRange{})
	require.NoError(t, err)
	assert.False(t, ok, "partial overlap is not containment")

	ok, err = domain.Fits(candidate, []*domain.AvailabilityWindow{recurring(t, domain.Monday, "08:00", "11:00")}, domain.DateRange{})
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestFits_EndpointsAreInclusive(t *testing.T) {
	ok, err := domain.Fits(fixed(domain.Monday, "09:00", "10:00"),
		[]*domain.AvailabilityWindow{recurring(t, domain.Monday, "09:00", "10:00")}, domain.DateRange{})

	require.NoError(t, err)
	assert.True(t, ok)
}

func TestFits_StudentTuesdayScenario(t *testing.T) {
	free := []*domain.AvailabilityWindow{recurring(t, domain.Tuesday, "17:00", "19:00")}

	ok, err := domain.Fits(fixed(domain.Tuesday, "17:00", "18:00"), free, domain.DateRange{})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = domain.Fits(fixed(domain.Wednesday, "17:00", "18:00"), free, domain.DateRange{})
	require.NoError(t, err)
	assert.False(t, ok, "weekday mismatch")
}

func TestFits_OneOffWindow(t *testing.T) {
	// 2024-01-03 is a Wednesday.
	oneOff, err := domain.NewOneOffWindow(uuid.New(), domain.ActorKindStudent, date(2024, 1, 3), tod("16:00"), tod("20:00"))
	require.NoError(t, err)
	free := []*domain.AvailabilityWindow{oneOff}
	candidate := fixed(domain.Wednesday, "17:00", "18:00")

	ok, err := domain.Fits(candidate, free, domain.NewDateRange(date(2024, 1, 1), date(2024, 1, 7)))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = domain.Fits(candidate, free, domain.NewDateRange(date(2024, 1, 8), date(2024, 1, 14)))
	require.NoError(t, err)
	assert.False(t, ok, "one-off date outside range")

	ok, err = domain.Fits(fixed(domain.Thursday, "17:00", "18:00"), free, domain.DateRange{})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFits_MalformedFixedWindow(t *testing.T) {
	_, err := domain.Fits(fixed(domain.Monday, "10:00", "09:00"), nil, domain.DateRange{})
	assert.ErrorIs(t, err, domain.ErrInvalidWindow)
}

func TestFits_NoWindows(t *testing.T) {
	ok, err := domain.Fits(fixed(domain.Monday, "09:00", "10:00"), nil, domain.DateRange{})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFitsTemplate_SlotsMayUseDifferentWindows(t *testing.T) {
	free := []*domain.AvailabilityWindow{
		recurring(t, domain.Monday, "17:00", "19:00"),
		recurring(t, domain.Thursday, "08:00", "12:00"),
	}
	slots := []domain.TemplateSlot{slot(domain.Monday, "17:30", "18:30"), slot(domain.Thursday, "09:00", "10:00")}

	ok, err := domain.FitsTemplate(slots, free, domain.DateRange{})
	require.NoError(t, err)
	assert.True(t, ok)

	slots = append(slots, slot(domain.Friday, "09:00", "10:00"))
	ok, err = domain.FitsTemplate(slots, free, domain.DateRange{})
	require.NoError(t, err)
	assert.False(t, ok, "every slot must fit")
}

func TestMatchGroups(t *testing.T) {
	free := []*domain.AvailabilityWindow{recurring(t, domain.Tuesday, "17:00", "19:00")}

	tuesday, err := domain.NewScheduleTemplate("Tuesday group", uuid.New(), []domain.TemplateSlot{slot(domain.Tuesday, "17:00", "18:00")})
	require.NoError(t, err)
	wednesday, err := domain.NewScheduleTemplate("Wednesday group", uuid.New(), []domain.TemplateSlot{slot(domain.Wednesday, "17:00", "18:00")})
	require.NoError(t, err)
	inactive, err := domain.NewScheduleTemplate("Closed group", uuid.New(), []domain.TemplateSlot{slot(domain.Tuesday, "17:00", "18:00")})
	require.NoError(t, err)
	inactive.Deactivate()

	matches, err := domain.MatchGroups(free, []*domain.ScheduleTemplate{wednesday, tuesday, inactive}, domain.DateRange{})

	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, tuesday.ID(), matches[0].ID())

	matches, err = domain.MatchGroups(free, []*domain.ScheduleTemplate{wednesday}, domain.DateRange{})
	require.NoError(t, err)
	assert.Empty(t, matches)
}
