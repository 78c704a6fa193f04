package cli

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/felixgeelhaar/academia/adapter/vocab"
	scheduleQueries "github.com/felixgeelhaar/academia/internal/scheduling/application/queries"
	"github.com/felixgeelhaar/academia/internal/scheduling/domain"
)

// ParseDate parses a YYYY-MM-DD flag. An empty value is the zero time (an open bound).
func ParseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	parsed, err := time.Parse(domain.DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format, use YYYY-MM-DD: %w", err)
	}
	return parsed, nil
}

// ParseSlotSpec parses "<weekday> HH:MM[-HH:MM]" or "<weekday>@HH:MM[-HH:MM]".
// The weekday may be English or Spanish. A missing end is left for the default duration.
func ParseSlotSpec(value string) (domain.SlotSpec, error) {
	parts := strings.FieldsFunc(value, func(r rune) bool {
		return r == '@' || unicode.IsSpace(r)
	})
	if len(parts) != 2 {
		return domain.SlotSpec{}, fmt.Errorf("invalid slot %q, use <weekday> HH:MM[-HH:MM]", value)
	}

	weekday, err := vocab.ParseWeekday(parts[0])
	if err != nil {
		return domain.SlotSpec{}, err
	}

	start, end, _ := strings.Cut(parts[1], "-")
	return domain.SlotSpec{Weekday: weekday, Start: start, End: end}, nil
}

// ParseSlotSpecs parses every value with ParseSlotSpec.
func ParseSlotSpecs(values []string) ([]domain.SlotSpec, error) {
	specs := make([]domain.SlotSpec, 0, len(values))
	for _, v := range values {
		spec, err := ParseSlotSpec(v)
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

// FormatSlot renders a slot as "Martes 18:00-20:00 (120m)".
func FormatSlot(slot scheduleQueries.SlotDTO, lang vocab.Language) string {
	return fmt.Sprintf("%s %s-%s (%dm)", vocab.Label(slot.Weekday, lang), slot.Start, slot.End, slot.DurationMin)
}

// FormatWindow renders a window's day: its weekday label, or its date for one-off windows.
func FormatWindow(w scheduleQueries.WindowDTO, lang vocab.Language) string {
	day := vocab.Label(w.Weekday, lang)
	if !w.Recurring && w.SpecificDate != nil {
		day = fmt.Sprintf("%s %s", w.SpecificDate.Format(domain.DateLayout), day)
	}
	return fmt.Sprintf("%s %s-%s", day, w.Start, w.End)
}
