package vocab

import (
	"testing"

	"github.com/felixgeelhaar/academia/internal/scheduling/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWeekday(t *testing.T) {
	tests := []struct {
		label string
		want  domain.Weekday
	}{
		{"monday", domain.Monday},
		{"Tuesday", domain.Tuesday},
		{"Lunes", domain.Monday},
		{"Miércoles", domain.Wednesday},
		{"miercoles", domain.Wednesday},
		{"MIÉRCOLES", domain.Wednesday},
		{"sábado", domain.Saturday},
		{"Sabado", domain.Saturday},
		{"  domingo ", domain.Sunday},
		{"7", domain.Sunday},
		{"1", domain.Monday},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			got, err := ParseWeekday(tt.label)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseWeekday_Invalid(t *testing.T) {
	for _, label := range []string{"", "mon", "8", "0", "lundi"} {
		_, err := ParseWeekday(label)
		assert.ErrorIs(t, err, domain.ErrInvalidWeekday, label)
	}
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "Wednesday", Label(domain.Wednesday, English))
	assert.Equal(t, "Miércoles", Label(domain.Wednesday, Spanish))
	assert.Equal(t, "Sunday", Label(domain.Sunday, Language("fr")))
	assert.Equal(t, "weekday(9)", Label(domain.Weekday(9), Spanish))
}

func TestLabels_RoundTrip(t *testing.T) {
	for _, lang := range []Language{English, Spanish} {
		week := Labels(lang)
		require.Len(t, week, 7)
		for i, label := range week {
			d, err := ParseWeekday(label)
			require.NoError(t, err)
			assert.Equal(t, domain.Weekday(i+1), d)
		}
	}
}

func TestParseLanguage(t *testing.T) {
	for in, want := range map[string]Language{"": English, "EN": English, "es": Spanish, "Español": Spanish} {
		got, err := ParseLanguage(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParseLanguage("fr")
	assert.ErrorIs(t, err, ErrUnknownLanguage)
}
