package domain

// FixedWindow is a weekly time span that must be usable as a whole, such as a
// group's slot or a proposed session.
type FixedWindow struct {
	Weekday Weekday
	Start   TimeOfDay
	End     TimeOfDay
}

// Validate rejects unknown weekdays and non-positive durations.
func (f FixedWindow) Validate() error {
	return TemplateSlot(f).Validate()
}

// ContainedBy reports whether free covers f entirely, both ends inclusive.
// Partial overlap does not count.
func (f FixedWindow) ContainedBy(free *AvailabilityWindow, within DateRange) bool {
	if free == nil {
		return false
	}
	if free.IsRecurring() {
		if free.weekday != f.Weekday {
			return false
		}
	} else {
		if WeekdayOf(free.specificDate) != f.Weekday {
			return false
		}
		if !within.Contains(free.specificDate) {
			return false
		}
	}
	return WithinRange(f.Start, free.start, free.end, EndInclusive) &&
		WithinRange(f.End, free.start, free.end, EndInclusive)
}

// Fits reports whether any free window fully contains fixed. One-off windows only
// count when their date lies within the given range (an unbounded range accepts all).
// A malformed fixed window is an error; no match is simply false.
func Fits(fixed FixedWindow, free []*AvailabilityWindow, within DateRange) (bool, error) {
	if err := fixed.Validate(); err != nil {
		return false, err
	}
	for _, w := range free {
		if fixed.ContainedBy(w, within) {
			return true, nil
		}
	}
	return false, nil
}

// FitsTemplate reports whether every slot fits in some free window. Slots may be
// satisfied by different windows. A template without slots fits trivially.
func FitsTemplate(slots []TemplateSlot, free []*AvailabilityWindow, within DateRange) (bool, error) {
	if err := ValidateSlots(slots); err != nil {
		return false, err
	}
	for _, slot := range slots {
		ok, err := Fits(slot.Fixed(), free, within)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// MatchGroups returns the candidate templates whose slots all fit the free windows,
// in candidate order. Inactive, slotless and out-of-range templates are skipped. An empty result means no
// group matches.
func MatchGroups(free []*AvailabilityWindow, candidates []*ScheduleTemplate, within DateRange) ([]*ScheduleTemplate, error) {
	matches := make([]*ScheduleTemplate, 0)
	for _, candidate := range candidates {
		if candidate == nil || len(candidate.slots) == 0 || !candidate.ActiveOn(within) {
			continue
		}
		ok, err := FitsTemplate(candidate.slots, free, within)
		if err != nil {
			return nil, err
		}
		if ok {
			matches = append(matches, candidate)
		}
	}
	return matches, nil
}
