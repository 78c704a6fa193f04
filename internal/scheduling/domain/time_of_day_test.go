package domain_test

import (
	"fmt"
	"testing"

	"github.com/felixgeelhaar/academia/internal/scheduling/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeOfDay_RoundTripsEveryMinute(t *testing.T) {
	for h := 0; h < 24; h++ {
		for m := 0; m < 60; m++ {
			s := fmt.Sprintf("%02d:%02d", h, m)
			tod, err := domain.ParseTimeOfDay(s)
			require.NoError(t, err, s)
			assert.Equal(t, s, tod.String())
			assert.Equal(t, h, tod.Hour())
			assert.Equal(t, m, tod.Minute())
		}
	}
}

func TestParseTimeOfDay_SingleDigitHour(t *testing.T) {
	tod, err := domain.ParseTimeOfDay("9:05")
	require.NoError(t, err)
	assert.Equal(t, "09:05", tod.String())
	assert.Equal(t, 545, tod.Minutes())
}

func TestParseTimeOfDay_Invalid(t *testing.T) {
	tests := []string{"", "9", "24:00", "12:60", "ab:cd", "12:5", "-1:00", "+1:00", "12:00:00", "123:00", " :30"}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			_, err := domain.ParseTimeOfDay(input)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidTimeFormat)
		})
	}
}

func TestTimeOfDay_AddMinutes(t *testing.T) {
	start := domain.MustParseTimeOfDay("18:00")

	end, err := start.AddMinutes(120)
	require.NoError(t, err)
	assert.Equal(t, "20:00", end.String())

	_, err = domain.MustParseTimeOfDay("23:30").AddMinutes(60)
	assert.ErrorIs(t, err, domain.ErrInvalidWindow)
}

func TestWithinRange(t *testing.T) {
	start := domain.MustParseTimeOfDay("09:00")
	end := domain.MustParseTimeOfDay("10:00")

	assert.True(t, domain.WithinRange(start, start, end, domain.EndExclusive))
	assert.False(t, domain.WithinRange(end, start, end, domain.EndExclusive))
	assert.True(t, domain.WithinRange(end, start, end, domain.EndInclusive))
	assert.False(t, domain.WithinRange(domain.MustParseTimeOfDay("08:59"), start, end, domain.EndInclusive))
	assert.True(t, domain.LessOrEqual(start, start))
	assert.False(t, domain.LessOrEqual(end, start))
}

func TestTimeOfDay_Text(t *testing.T) {
	var tod domain.TimeOfDay
	require.NoError(t, tod.UnmarshalText([]byte("07:45")))

	text, err := tod.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "07:45", string(text))

	_, err = domain.TimeOfDay(domain.MinutesPerDay).MarshalText()
	assert.ErrorIs(t, err, domain.ErrInvalidTimeFormat)
}
