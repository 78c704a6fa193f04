package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/felixgeelhaar/academia/internal/scheduling/domain"
	sharedApplication "github.com/felixgeelhaar/academia/internal/shared/application"
	"github.com/felixgeelhaar/academia/internal/shared/infrastructure/database"
	"github.com/google/uuid"
)

// SQLSessionRepository implements domain.SessionRepository.
type SQLSessionRepository struct {
	sqlRepository
}

// NewSQLSessionRepository creates a new expanded-session repository.
func NewSQLSessionRepository(conn database.Connection) *SQLSessionRepository {
	return &SQLSessionRepository{sqlRepository{conn: conn}}
}

// SaveAll stores sessions, skipping any already stored under the same template,
// date and start time. It returns how many rows were new.
func (r *SQLSessionRepository) SaveAll(ctx context.Context, sessions []domain.ConcreteSession) (int, error) {
	if len(sessions) == 0 {
		return 0, nil
	}

	inserted := 0
	err := sharedApplication.WithUnitOfWork(ctx, database.NewUnitOfWork(r.conn), func(txCtx context.Context) error {
		exec := r.executor(txCtx)
		query := r.bind(`
			INSERT INTO template_sessions (template_id, session_date, start_minute, end_minute, duration_minutes, created_at)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT (template_id, session_date, start_minute) DO NOTHING
		`)
		now := database.FormatTimestamp(time.Now())
		for _, s := range sessions {
			result, err := exec.Exec(txCtx, query,
				s.TemplateID,
				formatDate(s.Date),
				s.Start.Minutes(),
				s.End.Minutes(),
				s.DurationMinutes,
				now,
			)
			if err != nil {
				return fmt.Errorf("save session %s: %w", s.Key(), err)
			}
			n, err := result.RowsAffected()
			if err != nil {
				return err
			}
			inserted += int(n)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}

// FindByTemplate returns a template's sessions within r, ordered by date then start.
func (r *SQLSessionRepository) FindByTemplate(ctx context.Context, templateID uuid.UUID, dates domain.DateRange) ([]domain.ConcreteSession, error) {
	from, until := rangeBounds(dates)
	rows, err := r.executor(ctx).Query(ctx, r.bind(`
		SELECT template_id, session_date, start_minute, end_minute, duration_minutes
		FROM template_sessions
		WHERE template_id = ? AND session_date BETWEEN ? AND ?
		ORDER BY session_date, start_minute
	`), templateID, from, until)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := make([]domain.ConcreteSession, 0)
	for rows.Next() {
		var (
			s                 domain.ConcreteSession
			date              string
			start, end, total int
		)
		if err := rows.Scan(&s.TemplateID, &date, &start, &end, &total); err != nil {
			return nil, err
		}
		if s.Date, err = parseDate(date); err != nil {
			return nil, err
		}
		s.Start, s.End, s.DurationMinutes = domain.TimeOfDay(start), domain.TimeOfDay(end), total
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// SQLCommittedSessionRepository implements domain.CommittedSessionRepository.
type SQLCommittedSessionRepository struct {
	sqlRepository
}

// NewSQLCommittedSessionRepository creates a new committed-session repository.
func NewSQLCommittedSessionRepository(conn database.Connection) *SQLCommittedSessionRepository {
	return &SQLCommittedSessionRepository{sqlRepository{conn: conn}}
}

// Save records an individual booking.
func (r *SQLCommittedSessionRepository) Save(ctx context.Context, s domain.CommittedSession) error {
	_, err := r.executor(ctx).Exec(ctx, r.bind(`
		INSERT INTO committed_sessions (id, resource_id, name, session_date, start_minute, end_minute, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			session_date = excluded.session_date,
			start_minute = excluded.start_minute,
			end_minute = excluded.end_minute
	`),
		s.ID,
		s.ResourceID,
		s.Name,
		formatDate(s.Date),
		s.Start.Minutes(),
		s.End.Minutes(),
		database.FormatTimestamp(time.Now()),
	)
	if err != nil {
		return fmt.Errorf("save committed session %s: %w", s.ID, err)
	}
	return nil
}

// FindByResource returns a resource's bookings within r, ordered by date then start.
func (r *SQLCommittedSessionRepository) FindByResource(ctx context.Context, resourceID uuid.UUID, dates domain.DateRange) ([]domain.CommittedSession, error) {
	from, until := rangeBounds(dates)
	rows, err := r.executor(ctx).Query(ctx, r.bind(`
		SELECT id, resource_id, name, session_date, start_minute, end_minute
		FROM committed_sessions
		WHERE resource_id = ? AND session_date BETWEEN ? AND ?
		ORDER BY session_date, start_minute
	`), resourceID, from, until)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := make([]domain.CommittedSession, 0)
	for rows.Next() {
		var (
			s          domain.CommittedSession
			date       string
			start, end int
		)
		if err := rows.Scan(&s.ID, &s.ResourceID, &s.Name, &date, &start, &end); err != nil {
			return nil, err
		}
		if s.Date, err = parseDate(date); err != nil {
			return nil, err
		}
		s.Start, s.End = domain.TimeOfDay(start), domain.TimeOfDay(end)
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

var (
	_ domain.SessionRepository          = (*SQLSessionRepository)(nil)
	_ domain.CommittedSessionRepository = (*SQLCommittedSessionRepository)(nil)
)
