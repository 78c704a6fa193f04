package migrations

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"sort"
	"strings"
	"time"

	sharedApplication "github.com/felixgeelhaar/academia/internal/shared/application"
	"github.com/felixgeelhaar/academia/internal/shared/infrastructure/database"
)

//go:embed sqlite/*.sql postgres/*.sql
var migrationsFS embed.FS

const createVersionTable = `CREATE TABLE IF NOT EXISTS schema_migrations (
    version    TEXT PRIMARY KEY,
    applied_at TEXT NOT NULL
)`

// Migration is a single embedded schema change.
type Migration struct {
	Version string
	SQL     string
}

// Load returns the embedded migrations for the driver, ordered by version.
func Load(driver database.Driver) ([]Migration, error) {
	if !driver.IsValid() {
		return nil, fmt.Errorf("%w: %s", database.ErrUnsupportedDriver, driver)
	}
	dir := driver.String()

	entries, err := fs.ReadDir(migrationsFS, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var migrations []Migration
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasSuffix(name, ".up.sql") {
			continue
		}
		body, err := fs.ReadFile(migrationsFS, dir+"/"+name)
		if err != nil {
			return nil, fmt.Errorf("failed to read migration %s: %w", name, err)
		}
		migrations = append(migrations, Migration{
			Version: strings.TrimSuffix(name, ".up.sql"),
			SQL:     string(body),
		})
	}
	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})
	return migrations, nil
}

// Run applies every pending migration for the connection's driver. Each migration
// runs in its own transaction together with its schema_migrations row, so a failed
// migration leaves no trace and is retried on the next run.
func Run(ctx context.Context, conn database.Connection, logger *slog.Logger) (int, error) {
	if logger == nil {
		logger = slog.Default()
	}

	migrations, err := Load(conn.Driver())
	if err != nil {
		return 0, err
	}

	if _, err := conn.Exec(ctx, createVersionTable); err != nil {
		return 0, fmt.Errorf("failed to create schema_migrations: %w", err)
	}

	applied, err := appliedVersions(ctx, conn)
	if err != nil {
		return 0, err
	}

	uow := database.NewUnitOfWork(conn)
	insert := database.Rebind(conn.Driver(), `INSERT INTO schema_migrations (version, applied_at) VALUES (?, ?)`)

	count := 0
	for _, m := range migrations {
		if applied[m.Version] {
			continue
		}
		err := sharedApplication.WithUnitOfWork(ctx, uow, func(txCtx context.Context) error {
			exec := database.ExecutorFromContext(txCtx, conn)
			if _, err := exec.Exec(txCtx, m.SQL); err != nil {
				return err
			}
			_, err := exec.Exec(txCtx, insert, m.Version, database.FormatTimestamp(time.Now()))
			return err
		})
		if err != nil {
			return count, fmt.Errorf("failed to apply migration %s: %w", m.Version, err)
		}
		logger.Info("applied migration", "version", m.Version, "driver", conn.Driver())
		count++
	}
	return count, nil
}

func appliedVersions(ctx context.Context, exec database.Executor) (map[string]bool, error) {
	rows, err := exec.Query(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema_migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var version string
		if err := rows.Scan(&version); err != nil {
			return nil, err
		}
		applied[version] = true
	}
	return applied, rows.Err()
}
