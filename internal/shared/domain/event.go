package domain

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent is a fact recorded by the scheduling context and relayed through
// the outbox. The routing key doubles as the event type.
type DomainEvent interface {
	EventID() uuid.UUID
	AggregateID() uuid.UUID
	AggregateType() string
	RoutingKey() string
	OccurredAt() time.Time
	Metadata() EventMetadata
}

// EventMetadata ties an event to the request and actor that caused it.
type EventMetadata struct {
	CorrelationID uuid.UUID `json:"correlation_id"`
	CausationID   uuid.UUID `json:"causation_id"`
	ActorID       uuid.UUID `json:"actor_id"`
}

// EventHeader is serialized with every event payload under "event".
type EventHeader struct {
	ID            uuid.UUID `json:"id"`
	AggregateID   uuid.UUID `json:"aggregate_id"`
	AggregateType string    `json:"aggregate_type"`
	RoutingKey    string    `json:"routing_key"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// BaseEvent is embedded by concrete events.
type BaseEvent struct {
	Header   EventHeader `json:"event"`
	metadata EventMetadata
}

// NewBaseEvent stamps a new event for the given aggregate.
func NewBaseEvent(aggregateID uuid.UUID, aggregateType, routingKey string) BaseEvent {
	return BaseEvent{Header: EventHeader{
		ID:            uuid.New(),
		AggregateID:   aggregateID,
		AggregateType: aggregateType,
		RoutingKey:    routingKey,
		OccurredAt:    time.Now().UTC(),
	}}
}

func (e BaseEvent) EventID() uuid.UUID      { return e.Header.ID }
func (e BaseEvent) AggregateID() uuid.UUID  { return e.Header.AggregateID }
func (e BaseEvent) AggregateType() string   { return e.Header.AggregateType }
func (e BaseEvent) RoutingKey() string      { return e.Header.RoutingKey }
func (e BaseEvent) OccurredAt() time.Time   { return e.Header.OccurredAt }
func (e BaseEvent) Metadata() EventMetadata { return e.metadata }

// SetMetadata attaches request metadata. Metadata travels beside the payload,
// not inside it.
func (e *BaseEvent) SetMetadata(metadata EventMetadata) {
	e.metadata = metadata
}
