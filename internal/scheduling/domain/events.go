package domain

import (
	"time"

	sharedDomain "github.com/felixgeelhaar/academia/internal/shared/domain"
	"github.com/google/uuid"
)

const (
	AggregateTypeTemplate     = "ScheduleTemplate"
	AggregateTypeAvailability = "Availability"

	RoutingKeyTemplateSaved    = "scheduling.template.saved"
	RoutingKeyTemplateActivity = "scheduling.template.activity"
	RoutingKeySessionsExpanded = "scheduling.sessions.expanded"
	RoutingKeyWindowAdded      = "scheduling.availability.added"
	RoutingKeyWindowRemoved    = "scheduling.availability.removed"
)

// TemplateSaved is emitted when a template is created or replaced.
type TemplateSaved struct {
	sharedDomain.BaseEvent
	Name          string         `json:"name"`
	ResourceID    uuid.UUID      `json:"resource_id"`
	Slots         []TemplateSlot `json:"slots"`
	ConflictCount int            `json:"conflict_count"`
}

// NewTemplateSaved creates a TemplateSaved event.
func NewTemplateSaved(t *ScheduleTemplate, conflictCount int) TemplateSaved {
	return TemplateSaved{
		BaseEvent:     sharedDomain.NewBaseEvent(t.ID(), AggregateTypeTemplate, RoutingKeyTemplateSaved),
		Name:          t.Name(),
		ResourceID:    t.ResourceID(),
		Slots:         t.Slots(),
		ConflictCount: conflictCount,
	}
}

// TemplateActivityChanged is emitted when a template is activated or deactivated.
type TemplateActivityChanged struct {
	sharedDomain.BaseEvent
	ResourceID uuid.UUID `json:"resource_id"`
	Active     bool      `json:"active"`
}

// NewTemplateActivityChanged creates a TemplateActivityChanged event from the
// template's current state.
func NewTemplateActivityChanged(t *ScheduleTemplate) TemplateActivityChanged {
	return TemplateActivityChanged{
		BaseEvent:  sharedDomain.NewBaseEvent(t.ID(), AggregateTypeTemplate, RoutingKeyTemplateActivity),
		ResourceID: t.ResourceID(),
		Active:     t.IsActive(),
	}
}

// SessionsExpanded hands freshly expanded sessions to downstream consumers.
type SessionsExpanded struct {
	sharedDomain.BaseEvent
	ResourceID uuid.UUID         `json:"resource_id"`
	StartDate  string            `json:"start_date"`
	EndDate    string            `json:"end_date"`
	Sessions   []ConcreteSession `json:"sessions"`
}

// NewSessionsExpanded creates a SessionsExpanded event.
func NewSessionsExpanded(t *ScheduleTemplate, r DateRange, sessions []ConcreteSession) SessionsExpanded {
	return SessionsExpanded{
		BaseEvent:  sharedDomain.NewBaseEvent(t.ID(), AggregateTypeTemplate, RoutingKeySessionsExpanded),
		ResourceID: t.ResourceID(),
		StartDate:  r.Start.Format(DateLayout),
		EndDate:    r.End.Format(DateLayout),
		Sessions:   sessions,
	}
}

// AvailabilityChanged is emitted when an actor's window set gains or loses a window.
type AvailabilityChanged struct {
	sharedDomain.BaseEvent
	WindowID     uuid.UUID  `json:"window_id"`
	ActorKind    ActorKind  `json:"actor_kind"`
	Weekday      Weekday    `json:"weekday"`
	SpecificDate *time.Time `json:"specific_date,omitempty"`
	Start        TimeOfDay  `json:"start"`
	End          TimeOfDay  `json:"end"`
}

// NewWindowAdded creates an AvailabilityChanged event for an added window.
func NewWindowAdded(w *AvailabilityWindow) AvailabilityChanged {
	return newAvailabilityChanged(w, RoutingKeyWindowAdded)
}

// NewWindowRemoved creates an AvailabilityChanged event for a removed window.
func NewWindowRemoved(w *AvailabilityWindow) AvailabilityChanged {
	return newAvailabilityChanged(w, RoutingKeyWindowRemoved)
}

func newAvailabilityChanged(w *AvailabilityWindow, routingKey string) AvailabilityChanged {
	e := AvailabilityChanged{
		BaseEvent: sharedDomain.NewBaseEvent(w.ActorID(), AggregateTypeAvailability, routingKey),
		WindowID:  w.ID(),
		ActorKind: w.ActorKind(),
		Weekday:   w.Weekday(),
		Start:     w.Start(),
		End:       w.End(),
	}
	if !w.IsRecurring() {
		date := w.SpecificDate()
		e.SpecificDate = &date
	}
	return e
}
