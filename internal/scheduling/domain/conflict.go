package domain

import (
	"time"

	"github.com/google/uuid"
)

// ConflictType identifies what kind of booking a candidate collides with.
type ConflictType string

const (
	// ConflictTypeIndividualSession is a clash with a one-to-one session already booked.
	ConflictTypeIndividualSession ConflictType = "individual_session"
	// ConflictTypeOtherTemplate is a clash with another active recurring template.
	ConflictTypeOtherTemplate ConflictType = "other_template"
)

// IsValid reports whether c is a known conflict type.
func (c ConflictType) IsValid() bool {
	return c == ConflictTypeIndividualSession || c == ConflictTypeOtherTemplate
}

// ConflictRecord reports one overlap. Date is nil for template conflicts, which
// recur weekly rather than on a single date.
type ConflictRecord struct {
	Type          ConflictType `json:"conflict_type"`
	Name          string       `json:"name"`
	Date          *time.Time   `json:"date,omitempty"`
	Start         TimeOfDay    `json:"start_time"`
	End           TimeOfDay    `json:"end_time"`
	ReferenceID   uuid.UUID    `json:"reference_id,omitempty"`
	CandidateSlot TemplateSlot `json:"candidate_slot"`
}

// Overlaps is the half-open overlap test [aStart,aEnd) vs [bStart,bEnd).
// Any shared minute counts; neither interval has to contain the other.
func Overlaps(aStart, aEnd, bStart, bEnd TimeOfDay) bool {
	return aStart < bEnd && bStart < aEnd
}

// DetectConflicts reports every overlap between the candidate's slots and the
// resource's committed sessions and other active templates, restricted to r and to
// the candidate's own validity. Bookings of other resources are ignored, as is the
// candidate itself. Records are ordered sessions first, then templates, each in
// input order. An empty result means no conflicts.
func DetectConflicts(
	resourceID uuid.UUID,
	candidate *ScheduleTemplate,
	r DateRange,
	sessions []CommittedSession,
	templates []*ScheduleTemplate,
) []ConflictRecord {
	if candidate == nil || len(candidate.slots) == 0 {
		return []ConflictRecord{}
	}
	window := r.Intersect(candidate.validity)
	if window.IsEmpty() {
		return []ConflictRecord{}
	}

	conflicts := make([]ConflictRecord, 0)
	for _, s := range sessions {
		if s.ResourceID != resourceID || !window.Contains(s.Date) {
			continue
		}
		weekday := WeekdayOf(s.Date)
		for _, slot := range candidate.slots {
			if slot.Weekday != weekday || !Overlaps(slot.Start, slot.End, s.Start, s.End) {
				continue
			}
			date := DateOnly(s.Date)
			conflicts = append(conflicts, ConflictRecord{
				Type:          ConflictTypeIndividualSession,
				Name:          s.Name,
				Date:          &date,
				Start:         s.Start,
				End:           s.End,
				ReferenceID:   s.ID,
				CandidateSlot: slot,
			})
		}
	}

	for _, other := range templates {
		if other == nil || other.ID() == candidate.ID() || other.resourceID != resourceID || !other.active {
			continue
		}
		shared := window.Intersect(other.validity)
		if shared.IsEmpty() {
			continue
		}
		for _, otherSlot := range other.slots {
			if !shared.HasWeekday(otherSlot.Weekday) {
				continue
			}
			for _, slot := range candidate.slots {
				if slot.Weekday != otherSlot.Weekday || !Overlaps(slot.Start, slot.End, otherSlot.Start, otherSlot.End) {
					continue
				}
				conflicts = append(conflicts, ConflictRecord{
					Type:          ConflictTypeOtherTemplate,
					Name:          other.name,
					Start:         otherSlot.Start,
					End:           otherSlot.End,
					ReferenceID:   other.ID(),
					CandidateSlot: slot,
				})
			}
		}
	}
	return conflicts
}
