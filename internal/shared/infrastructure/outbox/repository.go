package outbox

import (
	"context"
	"time"
)

// Repository stores outbox messages. Save and SaveBatch join the transaction
// carried by ctx, so events commit or roll back with the change that raised them.
type Repository interface {
	Save(ctx context.Context, msg *Message) error
	SaveBatch(ctx context.Context, msgs []*Message) error

	// GetUnpublished returns messages that are due: never attempted, or past
	// their NextRetryAt, and not dead-lettered. Oldest first.
	GetUnpublished(ctx context.Context, limit int) ([]*Message, error)
	// GetFailed returns due messages that have failed at least once and have
	// fewer than maxRetries attempts.
	GetFailed(ctx context.Context, maxRetries, limit int) ([]*Message, error)

	MarkPublished(ctx context.Context, id int64) error
	MarkFailed(ctx context.Context, id int64, err string, nextRetryAt time.Time) error
	MarkDead(ctx context.Context, id int64, reason string) error

	// DeleteOld removes messages published more than olderThanDays ago.
	DeleteOld(ctx context.Context, olderThanDays int) (int64, error)
}
