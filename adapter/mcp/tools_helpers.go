package mcp

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/felixgeelhaar/academia/adapter/vocab"
	"github.com/felixgeelhaar/academia/internal/scheduling/domain"
	"github.com/google/uuid"
)

// errNotConnected is returned by tools whose handler was not wired.
var errNotConnected = errors.New("tool requires database connection")

// slotInput is a weekly slot as tools receive it. Day accepts English or Spanish
// names as well as ISO numbers.
type slotInput struct {
	Day   string `json:"day" jsonschema:"required"`
	Start string `json:"start" jsonschema:"required"`
	End   string `json:"end,omitempty"`
}

// slotOutput is a slot with its weekday rendered for people.
type slotOutput struct {
	Day             string `json:"day"`
	Weekday         int    `json:"weekday"`
	Start           string `json:"start"`
	End             string `json:"end"`
	DurationMinutes int    `json:"duration_minutes"`
}

func parseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	parsed, err := time.Parse(domain.DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format, use YYYY-MM-DD: %w", err)
	}
	return parsed, nil
}

func parseUUID(value string) (uuid.UUID, error) {
	if value == "" {
		return uuid.UUID{}, errors.New("id is required")
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.UUID{}, fmt.Errorf("invalid id: %w", err)
	}
	return id, nil
}

func parseOptionalUUID(value string) (uuid.UUID, error) {
	if value == "" {
		return uuid.Nil, nil
	}
	return parseUUID(value)
}

func parseActorKind(value string) (domain.ActorKind, error) {
	if value == "" {
		return domain.ActorKindStudent, nil
	}
	kind := domain.ActorKind(strings.ToLower(strings.TrimSpace(value)))
	if !kind.IsValid() {
		return "", fmt.Errorf("invalid actor kind: %s (valid: student, tutor)", value)
	}
	return kind, nil
}

func parseSlots(inputs []slotInput) ([]domain.SlotSpec, error) {
	if len(inputs) == 0 {
		return nil, errors.New("at least one slot is required")
	}
	specs := make([]domain.SlotSpec, 0, len(inputs))
	for _, in := range inputs {
		weekday, err := vocab.ParseWeekday(in.Day)
		if err != nil {
			return nil, err
		}
		specs = append(specs, domain.SlotSpec{Weekday: weekday, Start: in.Start, End: in.End})
	}
	return specs, nil
}

// resolveLanguage picks the request's language, falling back to the app's.
func resolveLanguage(value string, fallback vocab.Language) (vocab.Language, error) {
	if value == "" {
		return fallback, nil
	}
	return vocab.ParseLanguage(value)
}
