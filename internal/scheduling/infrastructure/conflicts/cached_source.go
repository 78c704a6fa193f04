package conflicts

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/felixgeelhaar/academia/internal/scheduling/application/services"
	"github.com/felixgeelhaar/academia/internal/scheduling/domain"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

var (
	_ services.ConflictSource      = (*CachedConflictSource)(nil)
	_ services.ConflictInvalidator = (*CachedConflictSource)(nil)
)

// CachedConflictSource memoizes another source for a short TTL. Entries are keyed
// by resource, candidate, slots and range, so editing a candidate's slots never
// returns a stale answer.
type CachedConflictSource struct {
	next  services.ConflictSource
	cache *cache.Cache
}

// NewCachedConflictSource wraps next with a TTL cache.
func NewCachedConflictSource(next services.ConflictSource, ttl time.Duration) *CachedConflictSource {
	return &CachedConflictSource{
		next:  next,
		cache: cache.New(ttl, 2*ttl),
	}
}

// Conflicts implements services.ConflictSource.
func (s *CachedConflictSource) Conflicts(ctx context.Context, candidate *domain.ScheduleTemplate, r domain.DateRange) ([]domain.ConflictRecord, error) {
	if candidate == nil {
		return s.next.Conflicts(ctx, candidate, r)
	}

	key := cacheKey(candidate, r)
	if cached, ok := s.cache.Get(key); ok {
		return append([]domain.ConflictRecord(nil), cached.([]domain.ConflictRecord)...), nil
	}

	records, err := s.next.Conflicts(ctx, candidate, r)
	if err != nil {
		return nil, err
	}
	s.cache.SetDefault(key, append([]domain.ConflictRecord(nil), records...))
	return records, nil
}

// Invalidate drops every cached answer for a resource. Called after the
// resource's bookings change.
func (s *CachedConflictSource) Invalidate(resourceID uuid.UUID) {
	prefix := resourceID.String() + "|"
	for key := range s.cache.Items() {
		if strings.HasPrefix(key, prefix) {
			s.cache.Delete(key)
		}
	}
}

func cacheKey(candidate *domain.ScheduleTemplate, r domain.DateRange) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s|%s|%s|%s", candidate.ResourceID(), candidate.ID(), formatRangeEnd(r.Start), formatRangeEnd(r.End))
	validity := candidate.Validity()
	fmt.Fprintf(&b, "|%s|%s", formatRangeEnd(validity.Start), formatRangeEnd(validity.End))
	for _, slot := range candidate.Slots() {
		fmt.Fprintf(&b, "|%d-%d-%d", slot.Weekday, slot.Start, slot.End)
	}
	return b.String()
}

func formatRangeEnd(t time.Time) string {
	if t.IsZero() {
		return "*"
	}
	return t.Format(domain.DateLayout)
}
