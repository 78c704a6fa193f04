// Package vocab translates weekday labels between the user-facing vocabularies
// and the canonical domain.Weekday.
package vocab

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/felixgeelhaar/academia/internal/scheduling/domain"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Language selects a weekday vocabulary.
type Language string

const (
	English Language = "en"
	Spanish Language = "es"
)

// ErrUnknownLanguage is returned for a language without a vocabulary.
var ErrUnknownLanguage = errors.New("unknown language")

var labels = map[Language][7]string{
	English: {"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"},
	Spanish: {"Lunes", "Martes", "Miércoles", "Jueves", "Viernes", "Sábado", "Domingo"},
}

// lookup maps folded labels of every vocabulary to their weekday.
var lookup = buildLookup()

func buildLookup() map[string]domain.Weekday {
	m := make(map[string]domain.Weekday, 14)
	for _, names := range labels {
		for i, name := range names {
			m[fold(name)] = domain.Weekday(i + 1)
		}
	}
	return m
}

// fold lowercases and strips diacritics, so "Miércoles" and "miercoles" agree.
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, strings.TrimSpace(s))
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}

// ParseLanguage accepts "en"/"english" and "es"/"spanish"/"español". Empty means English.
func ParseLanguage(s string) (Language, error) {
	switch fold(s) {
	case "", "en", "english":
		return English, nil
	case "es", "spanish", "espanol":
		return Spanish, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownLanguage, s)
}

// ParseWeekday accepts a weekday label from any vocabulary, ignoring case and
// accents, or an ISO day number 1-7.
func ParseWeekday(label string) (domain.Weekday, error) {
	key := fold(label)
	if d, ok := lookup[key]; ok {
		return d, nil
	}
	if len(key) == 1 && key[0] >= '1' && key[0] <= '7' {
		return domain.Weekday(key[0] - '0'), nil
	}
	return 0, fmt.Errorf("%w: %q", domain.ErrInvalidWeekday, label)
}

// Label renders d in the given vocabulary. Unknown languages fall back to English.
func Label(d domain.Weekday, lang Language) string {
	if !d.IsValid() {
		return d.String()
	}
	names, ok := labels[lang]
	if !ok {
		names = labels[English]
	}
	return names[d-1]
}

// Labels returns the week, Monday first, in the given vocabulary.
func Labels(lang Language) []string {
	week := domain.AllWeekdays()
	out := make([]string, len(week))
	for i, d := range week {
		out[i] = Label(d, lang)
	}
	return out
}
