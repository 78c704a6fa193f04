// Package persistence stores scheduling aggregates through the driver-neutral
// database.Connection. Queries are written with ? placeholders and rebound per
// driver; dates are stored as YYYY-MM-DD text and times of day as minutes.
package persistence

import (
	"context"
	"time"

	"github.com/felixgeelhaar/academia/internal/scheduling/domain"
	"github.com/felixgeelhaar/academia/internal/shared/infrastructure/database"
)

type sqlRepository struct {
	conn database.Connection
}

func (r sqlRepository) bind(query string) string {
	return database.Rebind(r.conn.Driver(), query)
}

// executor returns the transaction carried by ctx, or the connection.
func (r sqlRepository) executor(ctx context.Context) database.Executor {
	return database.ExecutorFromContext(ctx, r.conn)
}

func formatDate(t time.Time) string {
	return t.Format(domain.DateLayout)
}

// nullableDate maps the zero time (an open end) to NULL.
func nullableDate(t time.Time) *string {
	if t.IsZero() {
		return nil
	}
	s := formatDate(t)
	return &s
}

func parseDate(s string) (time.Time, error) {
	return time.Parse(domain.DateLayout, s)
}

func parseNullableDate(s *string) (time.Time, error) {
	if s == nil || *s == "" {
		return time.Time{}, nil
	}
	return parseDate(*s)
}

// rangeBounds returns the text bounds for a date filter. Open ends widen to
// values every stored date sorts inside.
func rangeBounds(r domain.DateRange) (string, string) {
	from, until := "0000-01-01", "9999-12-31"
	if !r.Start.IsZero() {
		from = formatDate(r.Start)
	}
	if !r.End.IsZero() {
		until = formatDate(r.End)
	}
	return from, until
}
