package outbox_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sharedApplication "github.com/felixgeelhaar/academia/internal/shared/application"
	"github.com/felixgeelhaar/academia/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/academia/internal/shared/infrastructure/database/dbtest"
	"github.com/felixgeelhaar/academia/internal/shared/infrastructure/outbox"
)

func TestSQLRepository_SaveAndRead(t *testing.T) {
	ctx := context.Background()
	repo := outbox.NewSQLRepository(dbtest.NewSQLite(t))

	msg := createTestMessage("scheduling.template.saved")
	msg.Metadata = []byte(`{"CorrelationID":"c"}`)
	require.NoError(t, repo.Save(ctx, msg))
	assert.NotZero(t, msg.ID)

	pending, err := repo.GetUnpublished(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	got := pending[0]
	assert.Equal(t, msg.ID, got.ID)
	assert.Equal(t, msg.EventID, got.EventID)
	assert.Equal(t, msg.AggregateID, got.AggregateID)
	assert.Equal(t, msg.RoutingKey, got.RoutingKey)
	assert.JSONEq(t, string(msg.Payload), string(got.Payload))
	assert.Equal(t, `{"CorrelationID":"c"}`, string(got.Metadata))
	assert.Equal(t, msg.CreatedAt.UTC().Truncate(time.Second), got.CreatedAt)
	assert.Nil(t, got.PublishedAt)
	assert.Nil(t, got.LastError)
}

func TestSQLRepository_MarkFailedAndDead(t *testing.T) {
	ctx := context.Background()
	repo := outbox.NewSQLRepository(dbtest.NewSQLite(t))

	due := createTestMessage("scheduling.template.saved")
	later := createTestMessage("scheduling.sessions.expanded")
	require.NoError(t, repo.SaveBatch(ctx, []*outbox.Message{due, later}))

	require.NoError(t, repo.MarkFailed(ctx, due.ID, "broker down", time.Now().Add(-time.Minute)))
	require.NoError(t, repo.MarkFailed(ctx, later.ID, "broker down", time.Now().Add(time.Hour)))

	failed, err := repo.GetFailed(ctx, 5, 10)
	require.NoError(t, err)
	require.Len(t, failed, 1)
	assert.Equal(t, due.ID, failed[0].ID)
	assert.Equal(t, 1, failed[0].RetryCount)
	require.NotNil(t, failed[0].LastError)
	assert.Equal(t, "broker down", *failed[0].LastError)

	require.NoError(t, repo.MarkDead(ctx, due.ID, "gave up"))
	pending, err := repo.GetUnpublished(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestSQLRepository_SaveBatchJoinsTransaction(t *testing.T) {
	ctx := context.Background()
	conn := dbtest.NewSQLite(t)
	repo := outbox.NewSQLRepository(conn)

	err := sharedApplication.WithUnitOfWork(ctx, database.NewUnitOfWork(conn), func(txCtx context.Context) error {
		if err := repo.SaveBatch(txCtx, []*outbox.Message{createTestMessage("scheduling.template.saved")}); err != nil {
			return err
		}
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)

	pending, err := repo.GetUnpublished(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}
