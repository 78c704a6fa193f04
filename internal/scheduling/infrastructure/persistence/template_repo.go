package persistence

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/academia/internal/scheduling/domain"
	sharedApplication "github.com/felixgeelhaar/academia/internal/shared/application"
	"github.com/felixgeelhaar/academia/internal/shared/infrastructure/database"
	"github.com/google/uuid"
)

const templateColumns = `id, name, resource_id, active, valid_from, valid_until, created_at, updated_at`

// SQLTemplateRepository implements domain.TemplateRepository. Slots live in
// template_slots and are replaced wholesale on every save.
type SQLTemplateRepository struct {
	sqlRepository
}

// NewSQLTemplateRepository creates a new schedule template repository.
func NewSQLTemplateRepository(conn database.Connection) *SQLTemplateRepository {
	return &SQLTemplateRepository{sqlRepository{conn: conn}}
}

// Save persists a template and its slots atomically.
func (r *SQLTemplateRepository) Save(ctx context.Context, t *domain.ScheduleTemplate) error {
	return sharedApplication.WithUnitOfWork(ctx, database.NewUnitOfWork(r.conn), func(txCtx context.Context) error {
		exec := r.executor(txCtx)
		validity := t.Validity()

		_, err := exec.Exec(txCtx, r.bind(`
			INSERT INTO schedule_templates (`+templateColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (id) DO UPDATE SET
				name = excluded.name,
				resource_id = excluded.resource_id,
				active = excluded.active,
				valid_from = excluded.valid_from,
				valid_until = excluded.valid_until,
				updated_at = excluded.updated_at
		`),
			t.ID(),
			t.Name(),
			t.ResourceID(),
			t.IsActive(),
			nullableDate(validity.Start),
			nullableDate(validity.End),
			database.FormatTimestamp(t.CreatedAt()),
			database.FormatTimestamp(t.UpdatedAt()),
		)
		if err != nil {
			return fmt.Errorf("save template %s: %w", t.ID(), err)
		}

		// Delete existing slots and re-insert
		if _, err := exec.Exec(txCtx, r.bind(`DELETE FROM template_slots WHERE template_id = ?`), t.ID()); err != nil {
			return err
		}
		insert := r.bind(`
			INSERT INTO template_slots (template_id, position, weekday, start_minute, end_minute)
			VALUES (?, ?, ?, ?, ?)
		`)
		for i, slot := range t.Slots() {
			if _, err := exec.Exec(txCtx, insert, t.ID(), i, int(slot.Weekday), slot.Start.Minutes(), slot.End.Minutes()); err != nil {
				return fmt.Errorf("save slot %d of template %s: %w", i, t.ID(), err)
			}
		}
		return nil
	})
}

// FindByID retrieves a template with its slots.
func (r *SQLTemplateRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.ScheduleTemplate, error) {
	templates, err := r.find(ctx, `WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	if len(templates) == 0 {
		return nil, domain.ErrTemplateNotFound
	}
	return templates[0], nil
}

// FindActiveByResource returns the active templates led by a resource, oldest first.
func (r *SQLTemplateRepository) FindActiveByResource(ctx context.Context, resourceID uuid.UUID) ([]*domain.ScheduleTemplate, error) {
	return r.find(ctx, `WHERE resource_id = ? AND active = ?`, resourceID, true)
}

// FindActive returns every active template, oldest first.
func (r *SQLTemplateRepository) FindActive(ctx context.Context) ([]*domain.ScheduleTemplate, error) {
	return r.find(ctx, `WHERE active = ?`, true)
}

// Delete removes a template; its slots and expanded sessions cascade.
func (r *SQLTemplateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return sharedApplication.WithUnitOfWork(ctx, database.NewUnitOfWork(r.conn), func(txCtx context.Context) error {
		exec := r.executor(txCtx)
		for _, table := range []string{"template_sessions", "template_slots"} {
			if _, err := exec.Exec(txCtx, r.bind(`DELETE FROM `+table+` WHERE template_id = ?`), id); err != nil {
				return err
			}
		}
		result, err := exec.Exec(txCtx, r.bind(`DELETE FROM schedule_templates WHERE id = ?`), id)
		if err != nil {
			return err
		}
		n, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return domain.ErrTemplateNotFound
		}
		return nil
	})
}

type templateRow struct {
	id, resourceID       uuid.UUID
	name                 string
	active               bool
	validFrom, validTo   *string
	createdAt, updatedAt string
}

func (r *SQLTemplateRepository) find(ctx context.Context, where string, args ...any) ([]*domain.ScheduleTemplate, error) {
	exec := r.executor(ctx)
	rows, err := exec.Query(ctx, r.bind(`SELECT `+templateColumns+` FROM schedule_templates `+where+` ORDER BY created_at, id`), args...)
	if err != nil {
		return nil, err
	}

	// Rows are drained before slots are loaded: a transaction cannot run a
	// second query while a result set is open.
	var headers []templateRow
	for rows.Next() {
		var h templateRow
		if err := rows.Scan(&h.id, &h.name, &h.resourceID, &h.active, &h.validFrom, &h.validTo, &h.createdAt, &h.updatedAt); err != nil {
			_ = rows.Close()
			return nil, err
		}
		headers = append(headers, h)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, err
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}

	templates := make([]*domain.ScheduleTemplate, 0, len(headers))
	for _, h := range headers {
		slots, err := r.loadSlots(ctx, exec, h.id)
		if err != nil {
			return nil, err
		}
		from, err := parseNullableDate(h.validFrom)
		if err != nil {
			return nil, fmt.Errorf("template %s: %w", h.id, err)
		}
		until, err := parseNullableDate(h.validTo)
		if err != nil {
			return nil, fmt.Errorf("template %s: %w", h.id, err)
		}
		templates = append(templates, domain.RehydrateScheduleTemplate(
			h.id,
			h.name,
			h.resourceID,
			slots,
			h.active,
			from,
			until,
			database.ParseTimestamp(h.createdAt),
			database.ParseTimestamp(h.updatedAt),
		))
	}
	return templates, nil
}

func (r *SQLTemplateRepository) loadSlots(ctx context.Context, exec database.Executor, templateID uuid.UUID) ([]domain.TemplateSlot, error) {
	rows, err := exec.Query(ctx, r.bind(`
		SELECT weekday, start_minute, end_minute
		FROM template_slots
		WHERE template_id = ?
		ORDER BY position
	`), templateID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	slots := make([]domain.TemplateSlot, 0)
	for rows.Next() {
		var weekday, start, end int
		if err := rows.Scan(&weekday, &start, &end); err != nil {
			return nil, err
		}
		slots = append(slots, domain.TemplateSlot{
			Weekday: domain.Weekday(weekday),
			Start:   domain.TimeOfDay(start),
			End:     domain.TimeOfDay(end),
		})
	}
	return slots, rows.Err()
}

var _ domain.TemplateRepository = (*SQLTemplateRepository)(nil)
