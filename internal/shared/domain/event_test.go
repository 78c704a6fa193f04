package domain_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/felixgeelhaar/academia/internal/shared/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sessionsBooked struct {
	domain.BaseEvent
	Count int `json:"count"`
}

func TestNewBaseEvent(t *testing.T) {
	aggregateID := uuid.New()
	before := time.Now().UTC()

	event := domain.NewBaseEvent(aggregateID, "ScheduleTemplate", "scheduling.template.saved")

	after := time.Now().UTC()

	assert.NotEqual(t, uuid.Nil, event.EventID())
	assert.Equal(t, aggregateID, event.AggregateID())
	assert.Equal(t, "ScheduleTemplate", event.AggregateType())
	assert.Equal(t, "scheduling.template.saved", event.RoutingKey())
	assert.False(t, event.OccurredAt().Before(before))
	assert.False(t, event.OccurredAt().After(after))
}

func TestBaseEvent_PayloadCarriesHeader(t *testing.T) {
	event := sessionsBooked{
		BaseEvent: domain.NewBaseEvent(uuid.New(), "ScheduleTemplate", "scheduling.sessions.expanded"),
		Count:     4,
	}
	event.SetMetadata(domain.EventMetadata{ActorID: uuid.New()})

	raw, err := json.Marshal(event)
	require.NoError(t, err)

	var decoded struct {
		Event struct {
			ID         uuid.UUID `json:"id"`
			RoutingKey string    `json:"routing_key"`
		} `json:"event"`
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, event.EventID(), decoded.Event.ID)
	assert.Equal(t, "scheduling.sessions.expanded", decoded.Event.RoutingKey)
	assert.Equal(t, 4, decoded.Count)
	assert.NotContains(t, string(raw), "actor_id")
}

func TestBaseEvent_WithMetadata(t *testing.T) {
	event := domain.NewBaseEvent(uuid.New(), "Availability", "scheduling.availability.added")
	metadata := domain.EventMetadata{
		CorrelationID: uuid.New(),
		CausationID:   uuid.New(),
		ActorID:       uuid.New(),
	}
	event.SetMetadata(metadata)

	assert.Equal(t, metadata, event.Metadata())
}
