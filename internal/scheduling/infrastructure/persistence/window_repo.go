package persistence

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/academia/internal/scheduling/domain"
	"github.com/felixgeelhaar/academia/internal/shared/infrastructure/database"
	"github.com/google/uuid"
)

const windowColumns = `id, actor_id, actor_kind, weekday, specific_date, start_minute, end_minute,
	recurring, created_at, updated_at`

// SQLWindowRepository implements domain.WindowRepository.
type SQLWindowRepository struct {
	sqlRepository
}

// NewSQLWindowRepository creates a new availability window repository.
func NewSQLWindowRepository(conn database.Connection) *SQLWindowRepository {
	return &SQLWindowRepository{sqlRepository{conn: conn}}
}

// Save inserts the window or replaces its stored state.
func (r *SQLWindowRepository) Save(ctx context.Context, w *domain.AvailabilityWindow) error {
	var (
		weekday *int
		date    *string
	)
	if w.IsRecurring() {
		d := int(w.Weekday())
		weekday = &d
	} else {
		date = nullableDate(w.SpecificDate())
	}

	query := r.bind(`
		INSERT INTO availability_windows (` + windowColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			actor_kind = excluded.actor_kind,
			weekday = excluded.weekday,
			specific_date = excluded.specific_date,
			start_minute = excluded.start_minute,
			end_minute = excluded.end_minute,
			recurring = excluded.recurring,
			updated_at = excluded.updated_at
	`)
	_, err := r.executor(ctx).Exec(ctx, query,
		w.ID(),
		w.ActorID(),
		string(w.ActorKind()),
		weekday,
		date,
		w.Start().Minutes(),
		w.End().Minutes(),
		w.IsRecurring(),
		database.FormatTimestamp(w.CreatedAt()),
		database.FormatTimestamp(w.UpdatedAt()),
	)
	if err != nil {
		return fmt.Errorf("save availability window %s: %w", w.ID(), err)
	}
	return nil
}

// FindByID retrieves a window by its ID.
func (r *SQLWindowRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.AvailabilityWindow, error) {
	query := r.bind(`SELECT ` + windowColumns + ` FROM availability_windows WHERE id = ?`)
	w, err := scanWindow(r.executor(ctx).QueryRow(ctx, query, id))
	if err != nil {
		if database.IsNoRows(err) {
			return nil, domain.ErrWindowNotFound
		}
		return nil, err
	}
	return w, nil
}

// FindByActor returns every window of an actor, recurring ones first.
func (r *SQLWindowRepository) FindByActor(ctx context.Context, actorID uuid.UUID) ([]*domain.AvailabilityWindow, error) {
	query := r.bind(`
		SELECT ` + windowColumns + `
		FROM availability_windows
		WHERE actor_id = ?
		ORDER BY recurring DESC, weekday, specific_date, start_minute
	`)
	rows, err := r.executor(ctx).Query(ctx, query, actorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	windows := make([]*domain.AvailabilityWindow, 0)
	for rows.Next() {
		w, err := scanWindow(rows)
		if err != nil {
			return nil, err
		}
		windows = append(windows, w)
	}
	return windows, rows.Err()
}

// Delete removes a window.
func (r *SQLWindowRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.executor(ctx).Exec(ctx, r.bind(`DELETE FROM availability_windows WHERE id = ?`), id)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrWindowNotFound
	}
	return nil
}

func scanWindow(row database.Row) (*domain.AvailabilityWindow, error) {
	var (
		id, actorID          uuid.UUID
		kind                 string
		weekday              *int
		date                 *string
		start, end           int
		recurring            bool
		createdAt, updatedAt string
	)
	if err := row.Scan(&id, &actorID, &kind, &weekday, &date, &start, &end, &recurring, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	specificDate, err := parseNullableDate(date)
	if err != nil {
		return nil, fmt.Errorf("availability window %s: %w", id, err)
	}
	var day domain.Weekday
	if weekday != nil {
		day = domain.Weekday(*weekday)
	}

	return domain.RehydrateAvailabilityWindow(
		id,
		actorID,
		domain.ActorKind(kind),
		day,
		specificDate,
		domain.TimeOfDay(start),
		domain.TimeOfDay(end),
		recurring,
		database.ParseTimestamp(createdAt),
		database.ParseTimestamp(updatedAt),
	), nil
}

var _ domain.WindowRepository = (*SQLWindowRepository)(nil)
