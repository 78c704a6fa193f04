package domain

import (
	"fmt"
	"strings"
	"time"

	sharedDomain "github.com/felixgeelhaar/academia/internal/shared/domain"
	"github.com/google/uuid"
)

// DefaultSlotMinutes is the duration given to a slot declared without an end time.
const DefaultSlotMinutes = 60

// TemplateSlot is one weekly occurrence of a recurring group schedule.
type TemplateSlot struct {
	Weekday Weekday   `json:"weekday"`
	Start   TimeOfDay `json:"start"`
	End     TimeOfDay `json:"end"`
}

// NewTemplateSlot creates a validated slot.
func NewTemplateSlot(weekday Weekday, start, end TimeOfDay) (TemplateSlot, error) {
	slot := TemplateSlot{Weekday: weekday, Start: start, End: end}
	if err := slot.Validate(); err != nil {
		return TemplateSlot{}, err
	}
	return slot, nil
}

// Validate rejects unknown weekdays and non-positive durations.
func (s TemplateSlot) Validate() error {
	if !s.Weekday.IsValid() {
		return fmt.Errorf("%w: %w", ErrInvalidWindow, ErrInvalidWeekday)
	}
	return ValidateInterval(s.Start, s.End)
}

// DurationMinutes returns end - start.
func (s TemplateSlot) DurationMinutes() int {
	return MinutesBetween(s.Start, s.End)
}

// Fixed converts the slot into a window for containment checks.
func (s TemplateSlot) Fixed() FixedWindow {
	return FixedWindow{Weekday: s.Weekday, Start: s.Start, End: s.End}
}

// String renders the slot as "monday 18:00-20:00".
func (s TemplateSlot) String() string {
	return fmt.Sprintf("%s %s-%s", s.Weekday, s.Start, s.End)
}

// SlotSpec is a slot as entered by a user: times are raw "HH:MM" strings and the
// end time may be omitted.
type SlotSpec struct {
	Weekday Weekday
	Start   string
	End     string
}

// ResolveSlot turns a SlotSpec into a TemplateSlot. A missing end time becomes
// start + defaultMinutes (DefaultSlotMinutes when defaultMinutes <= 0). This is the
// only place a duration is ever inferred.
func ResolveSlot(spec SlotSpec, defaultMinutes int) (TemplateSlot, error) {
	if defaultMinutes <= 0 {
		defaultMinutes = DefaultSlotMinutes
	}

	start, err := ParseTimeOfDay(spec.Start)
	if err != nil {
		return TemplateSlot{}, fmt.Errorf("%w: start: %w", ErrInvalidWindow, err)
	}

	var end TimeOfDay
	if strings.TrimSpace(spec.End) == "" {
		end, err = start.AddMinutes(defaultMinutes)
		if err != nil {
			return TemplateSlot{}, err
		}
	} else {
		end, err = ParseTimeOfDay(spec.End)
		if err != nil {
			return TemplateSlot{}, fmt.Errorf("%w: end: %w", ErrInvalidWindow, err)
		}
	}

	return NewTemplateSlot(spec.Weekday, start, end)
}

// ResolveSlots resolves every spec, failing on the first invalid one.
func ResolveSlots(specs []SlotSpec, defaultMinutes int) ([]TemplateSlot, error) {
	slots := make([]TemplateSlot, 0, len(specs))
	for i, spec := range specs {
		slot, err := ResolveSlot(spec, defaultMinutes)
		if err != nil {
			return nil, fmt.Errorf("slot %d: %w", i, err)
		}
		slots = append(slots, slot)
	}
	return slots, nil
}

// ScheduleTemplate is a weekly recurring schedule for a group or workshop, led by
// a resource (tutor). Slot order is preserved but carries no meaning.
type ScheduleTemplate struct {
	sharedDomain.BaseEntity
	name       string
	resourceID uuid.UUID
	slots      []TemplateSlot
	active     bool
	validity   DateRange
}

// NewScheduleTemplate creates an active template with validated slots.
func NewScheduleTemplate(name string, resourceID uuid.UUID, slots []TemplateSlot) (*ScheduleTemplate, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrTemplateNameRequired
	}
	if err := ValidateSlots(slots); err != nil {
		return nil, err
	}

	t := &ScheduleTemplate{
		BaseEntity: sharedDomain.NewBaseEntity(),
		name:       name,
		resourceID: resourceID,
		slots:      append([]TemplateSlot(nil), slots...),
		active:     true,
	}
	return t, nil
}

// ValidateSlots checks every slot and reports the first offender.
func ValidateSlots(slots []TemplateSlot) error {
	for i, slot := range slots {
		if err := slot.Validate(); err != nil {
			return fmt.Errorf("slot %d (%s): %w", i, slot, err)
		}
	}
	return nil
}

// Getters
func (t *ScheduleTemplate) Name() string          { return t.name }
func (t *ScheduleTemplate) ResourceID() uuid.UUID { return t.resourceID }
func (t *ScheduleTemplate) IsActive() bool        { return t.active }
func (t *ScheduleTemplate) Validity() DateRange   { return t.validity }

// Slots returns a copy of the slots in declaration order.
func (t *ScheduleTemplate) Slots() []TemplateSlot {
	return append([]TemplateSlot(nil), t.slots...)
}

// SetValidity limits the template to the given dates. Zero ends are open.
func (t *ScheduleTemplate) SetValidity(from, until time.Time) error {
	r := DateRange{Start: DateOnly(from), End: DateOnly(until)}
	if r.IsEmpty() {
		return fmt.Errorf("%w: valid from %s is after valid until %s",
			ErrInvalidWindow, from.Format(DateLayout), until.Format(DateLayout))
	}
	t.validity = r
	t.Touch()
	return nil
}

// ActiveOn reports whether the template is active and valid over any part of r.
func (t *ScheduleTemplate) ActiveOn(r DateRange) bool {
	return t.active && t.validity.Overlaps(r)
}

// Deactivate stops the template from taking part in conflict checks.
func (t *ScheduleTemplate) Deactivate() {
	t.active = false
	t.Touch()
}

// Activate re-enables the template.
func (t *ScheduleTemplate) Activate() {
	t.active = true
	t.Touch()
}

// RehydrateScheduleTemplate recreates a template from persisted state.
func RehydrateScheduleTemplate(
	id uuid.UUID,
	name string,
	resourceID uuid.UUID,
	slots []TemplateSlot,
	active bool,
	validFrom, validUntil time.Time,
	createdAt, updatedAt time.Time,
) *ScheduleTemplate {
	entity := sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt)
	return &ScheduleTemplate{
		BaseEntity: entity,
		name:       name,
		resourceID: resourceID,
		slots:      slots,
		active:     active,
		validity:   DateRange{Start: DateOnly(validFrom), End: DateOnly(validUntil)},
	}
}
