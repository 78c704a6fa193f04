package queries

import (
	"time"

	"github.com/felixgeelhaar/academia/internal/scheduling/domain"
	"github.com/google/uuid"
)

// WindowDTO is a data transfer object for availability windows.
type WindowDTO struct {
	ID           uuid.UUID
	ActorID      uuid.UUID
	ActorKind    string
	Recurring    bool
	Weekday      domain.Weekday
	SpecificDate *time.Time
	Start        string
	End          string
	DurationMin  int
}

// SlotDTO is a data transfer object for template slots.
type SlotDTO struct {
	Weekday     domain.Weekday
	Start       string
	End         string
	DurationMin int
}

// TemplateDTO is a data transfer object for schedule templates.
type TemplateDTO struct {
	ID         uuid.UUID
	Name       string
	ResourceID uuid.UUID
	Active     bool
	ValidFrom  *time.Time
	ValidUntil *time.Time
	Slots      []SlotDTO
}

// ConflictDTO is a data transfer object for conflict records.
type ConflictDTO struct {
	Type          string
	Name          string
	Date          *time.Time
	Start         string
	End           string
	CandidateSlot *SlotDTO
}

// SessionDTO is a data transfer object for expanded sessions.
type SessionDTO struct {
	TemplateID  uuid.UUID
	Date        time.Time
	Start       string
	End         string
	DurationMin int
}

func toWindowDTO(w *domain.AvailabilityWindow) WindowDTO {
	dto := WindowDTO{
		ID:          w.ID(),
		ActorID:     w.ActorID(),
		ActorKind:   string(w.ActorKind()),
		Recurring:   w.IsRecurring(),
		Weekday:     w.Weekday(),
		Start:       w.Start().String(),
		End:         w.End().String(),
		DurationMin: w.DurationMinutes(),
	}
	if !w.IsRecurring() {
		d := w.SpecificDate()
		dto.SpecificDate = &d
	}
	return dto
}

func toSlotDTO(s domain.TemplateSlot) SlotDTO {
	return SlotDTO{
		Weekday:     s.Weekday,
		Start:       s.Start.String(),
		End:         s.End.String(),
		DurationMin: s.DurationMinutes(),
	}
}

func toTemplateDTO(t *domain.ScheduleTemplate) TemplateDTO {
	slots := t.Slots()
	dto := TemplateDTO{
		ID:         t.ID(),
		Name:       t.Name(),
		ResourceID: t.ResourceID(),
		Active:     t.IsActive(),
		Slots:      make([]SlotDTO, len(slots)),
	}
	for i, s := range slots {
		dto.Slots[i] = toSlotDTO(s)
	}
	if v := t.Validity(); !v.Start.IsZero() {
		dto.ValidFrom = &v.Start
	}
	if v := t.Validity(); !v.End.IsZero() {
		dto.ValidUntil = &v.End
	}
	return dto
}

func toConflictDTO(c domain.ConflictRecord) ConflictDTO {
	dto := ConflictDTO{
		Type:  string(c.Type),
		Name:  c.Name,
		Date:  c.Date,
		Start: c.Start.String(),
		End:   c.End.String(),
	}
	if c.CandidateSlot.Weekday.IsValid() {
		slot := toSlotDTO(c.CandidateSlot)
		dto.CandidateSlot = &slot
	}
	return dto
}

func toSessionDTO(s domain.ConcreteSession) SessionDTO {
	return SessionDTO{
		TemplateID:  s.TemplateID,
		Date:        s.Date,
		Start:       s.Start.String(),
		End:         s.End.String(),
		DurationMin: s.DurationMinutes,
	}
}

// ConflictDTOs converts conflict records reported by a command.
func ConflictDTOs(records []domain.ConflictRecord) []ConflictDTO {
	dtos := make([]ConflictDTO, len(records))
	for i, c := range records {
		dtos[i] = toConflictDTO(c)
	}
	return dtos
}

// SessionDTOs converts sessions produced by an expansion.
func SessionDTOs(sessions []domain.ConcreteSession) []SessionDTO {
	dtos := make([]SessionDTO, len(sessions))
	for i, s := range sessions {
		dtos[i] = toSessionDTO(s)
	}
	return dtos
}
