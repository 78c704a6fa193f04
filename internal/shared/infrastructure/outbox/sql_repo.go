package outbox

import (
	"context"
	"time"

	sharedApplication "github.com/felixgeelhaar/academia/internal/shared/application"
	"github.com/felixgeelhaar/academia/internal/shared/infrastructure/database"
)

const selectColumns = `
	SELECT id, event_id, aggregate_type, aggregate_id, event_type, routing_key,
	       payload, metadata, created_at, published_at, next_retry_at, retry_count,
	       last_error, dead_lettered_at, dead_letter_reason
	FROM outbox`

// SQLRepository implements Repository over a database.Connection. It works for
// both SQLite and PostgreSQL and joins any transaction carried by the context.
type SQLRepository struct {
	conn database.Connection
	now  func() time.Time
}

// NewSQLRepository creates a new outbox repository.
func NewSQLRepository(conn database.Connection) *SQLRepository {
	return &SQLRepository{conn: conn, now: time.Now}
}

func (r *SQLRepository) bind(query string) string {
	return database.Rebind(r.conn.Driver(), query)
}

func (r *SQLRepository) executor(ctx context.Context) database.Executor {
	return database.ExecutorFromContext(ctx, r.conn)
}

// Save stores a new outbox message.
func (r *SQLRepository) Save(ctx context.Context, msg *Message) error {
	query := r.bind(`
		INSERT INTO outbox (
			event_id, aggregate_type, aggregate_id, event_type, routing_key,
			payload, metadata, created_at, next_retry_at, dead_lettered_at, dead_letter_reason
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`)

	return r.executor(ctx).QueryRow(ctx, query,
		msg.EventID,
		msg.AggregateType,
		msg.AggregateID,
		msg.EventType,
		msg.RoutingKey,
		string(msg.Payload),
		nullableText(msg.Metadata),
		database.FormatTimestamp(msg.CreatedAt),
		nullableTimestamp(msg.NextRetryAt),
		nullableTimestamp(msg.DeadLetteredAt),
		msg.DeadLetterReason,
	).Scan(&msg.ID)
}

// SaveBatch stores multiple outbox messages atomically. It joins the caller's
// transaction when there is one.
func (r *SQLRepository) SaveBatch(ctx context.Context, msgs []*Message) error {
	if len(msgs) == 0 {
		return nil
	}
	return sharedApplication.WithUnitOfWork(ctx, database.NewUnitOfWork(r.conn), func(txCtx context.Context) error {
		for _, msg := range msgs {
			if err := r.Save(txCtx, msg); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetUnpublished retrieves unpublished messages that are due, ordered by creation time.
func (r *SQLRepository) GetUnpublished(ctx context.Context, limit int) ([]*Message, error) {
	query := r.bind(selectColumns + `
		WHERE published_at IS NULL
		  AND dead_lettered_at IS NULL
		  AND (next_retry_at IS NULL OR next_retry_at <= ?)
		ORDER BY created_at, id
		LIMIT ?
	`)

	rows, err := r.executor(ctx).Query(ctx, query, database.FormatTimestamp(r.now()), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanMessages(rows)
}

// MarkPublished marks a message as successfully published.
func (r *SQLRepository) MarkPublished(ctx context.Context, id int64) error {
	query := r.bind(`UPDATE outbox SET published_at = ?, dead_lettered_at = NULL WHERE id = ?`)
	_, err := r.executor(ctx).Exec(ctx, query, database.FormatTimestamp(r.now()), id)
	return err
}

// MarkFailed records a publish failure with error message.
func (r *SQLRepository) MarkFailed(ctx context.Context, id int64, errMsg string, nextRetryAt time.Time) error {
	query := r.bind(`
		UPDATE outbox
		SET retry_count = retry_count + 1,
			last_error = ?,
			next_retry_at = ?
		WHERE id = ?
	`)
	_, err := r.executor(ctx).Exec(ctx, query, errMsg, database.FormatTimestamp(nextRetryAt), id)
	return err
}

// MarkDead marks a message as dead-lettered.
func (r *SQLRepository) MarkDead(ctx context.Context, id int64, reason string) error {
	query := r.bind(`
		UPDATE outbox
		SET dead_lettered_at = ?,
			dead_letter_reason = ?
		WHERE id = ?
	`)
	_, err := r.executor(ctx).Exec(ctx, query, database.FormatTimestamp(r.now()), reason, id)
	return err
}

// GetFailed retrieves failed messages eligible for retry.
func (r *SQLRepository) GetFailed(ctx context.Context, maxRetries, limit int) ([]*Message, error) {
	query := r.bind(selectColumns + `
		WHERE published_at IS NULL
		  AND dead_lettered_at IS NULL
		  AND retry_count > 0
		  AND retry_count < ?
		  AND (next_retry_at IS NULL OR next_retry_at <= ?)
		ORDER BY created_at, id
		LIMIT ?
	`)

	rows, err := r.executor(ctx).Query(ctx, query, maxRetries, database.FormatTimestamp(r.now()), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanMessages(rows)
}

// DeleteOld removes successfully published messages older than the retention period.
func (r *SQLRepository) DeleteOld(ctx context.Context, olderThanDays int) (int64, error) {
	cutoff := r.now().AddDate(0, 0, -olderThanDays)
	query := r.bind(`
		DELETE FROM outbox
		WHERE published_at IS NOT NULL
		  AND published_at < ?
	`)
	result, err := r.executor(ctx).Exec(ctx, query, database.FormatTimestamp(cutoff))
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func scanMessages(rows database.Rows) ([]*Message, error) {
	var messages []*Message

	for rows.Next() {
		var (
			msg                                Message
			payload, createdAt                 string
			metadata, publishedAt, nextRetryAt *string
			deadLetteredAt                     *string
		)
		err := rows.Scan(
			&msg.ID,
			&msg.EventID,
			&msg.AggregateType,
			&msg.AggregateID,
			&msg.EventType,
			&msg.RoutingKey,
			&payload,
			&metadata,
			&createdAt,
			&publishedAt,
			&nextRetryAt,
			&msg.RetryCount,
			&msg.LastError,
			&deadLetteredAt,
			&msg.DeadLetterReason,
		)
		if err != nil {
			return nil, err
		}
		msg.Payload = []byte(payload)
		if metadata != nil {
			msg.Metadata = []byte(*metadata)
		}
		msg.CreatedAt = database.ParseTimestamp(createdAt)
		msg.PublishedAt = parseOptional(publishedAt)
		msg.NextRetryAt = parseOptional(nextRetryAt)
		msg.DeadLetteredAt = parseOptional(deadLetteredAt)
		messages = append(messages, &msg)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return messages, nil
}

func nullableText(b []byte) *string {
	if len(b) == 0 {
		return nil
	}
	s := string(b)
	return &s
}

func nullableTimestamp(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := database.FormatTimestamp(*t)
	return &s
}

func parseOptional(s *string) *time.Time {
	if s == nil {
		return nil
	}
	t := database.ParseTimestamp(*s)
	return &t
}
