// Package dbtest opens migrated in-memory databases for integration tests.
package dbtest

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/academia/internal/shared/infrastructure/database"
	_ "github.com/felixgeelhaar/academia/internal/shared/infrastructure/database/sqlite"
	"github.com/felixgeelhaar/academia/internal/shared/infrastructure/migrations"
)

// NewSQLite returns an in-memory SQLite connection with every migration applied.
// The connection is closed when the test ends.
func NewSQLite(t testing.TB) database.Connection {
	t.Helper()

	ctx := context.Background()
	conn, err := database.NewConnection(ctx, database.Config{
		Driver:     database.DriverSQLite,
		SQLitePath: database.InMemorySQLite,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	_, err = migrations.Run(ctx, conn, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return conn
}
