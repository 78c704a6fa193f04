package app

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/felixgeelhaar/academia/internal/scheduling/application/services"
	schedulingDomain "github.com/felixgeelhaar/academia/internal/scheduling/domain"
	"github.com/felixgeelhaar/academia/internal/scheduling/infrastructure/conflicts"
	schedulingPersistence "github.com/felixgeelhaar/academia/internal/scheduling/infrastructure/persistence"
	"github.com/felixgeelhaar/academia/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/academia/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/academia/pkg/config"
)

// ErrUnsupportedConflictSource is returned for unknown CONFLICT_SOURCE values and
// for the rpc source on a database that has no stored procedures.
var ErrUnsupportedConflictSource = errors.New("unsupported conflict source")

// RepositoryFactory creates repositories and driver-dependent collaborators for one connection.
type RepositoryFactory struct {
	conn   database.Connection
	driver database.Driver
}

// NewRepositoryFactory creates a new repository factory.
func NewRepositoryFactory(conn database.Connection) *RepositoryFactory {
	return &RepositoryFactory{
		conn:   conn,
		driver: conn.Driver(),
	}
}

// WindowRepository creates an availability window repository.
func (f *RepositoryFactory) WindowRepository() schedulingDomain.WindowRepository {
	return schedulingPersistence.NewSQLWindowRepository(f.conn)
}

// TemplateRepository creates a schedule template repository.
func (f *RepositoryFactory) TemplateRepository() schedulingDomain.TemplateRepository {
	return schedulingPersistence.NewSQLTemplateRepository(f.conn)
}

// SessionRepository creates an expanded session repository.
func (f *RepositoryFactory) SessionRepository() schedulingDomain.SessionRepository {
	return schedulingPersistence.NewSQLSessionRepository(f.conn)
}

// CommittedSessionRepository creates a repository for individually booked sessions.
func (f *RepositoryFactory) CommittedSessionRepository() schedulingDomain.CommittedSessionRepository {
	return schedulingPersistence.NewSQLCommittedSessionRepository(f.conn)
}

// OutboxRepository creates an outbox repository.
func (f *RepositoryFactory) OutboxRepository() outbox.Repository {
	return outbox.NewSQLRepository(f.conn)
}

// ConflictSource creates the conflict source selected by cfg. The rpc source calls
// a PostgreSQL procedure and is only available on that driver. A positive
// ConflictCacheTTL puts a short-lived cache in front of either source.
func (f *RepositoryFactory) ConflictSource(cfg *config.Config, logger *slog.Logger) (services.ConflictSource, error) {
	var source services.ConflictSource

	switch cfg.ConflictSource {
	case "", config.ConflictSourceLocal:
		source = services.NewLocalConflictSource(f.CommittedSessionRepository(), f.TemplateRepository())

	case config.ConflictSourceRPC:
		if f.driver != database.DriverPostgres {
			return nil, fmt.Errorf("%w: %s requires postgres, got %s", ErrUnsupportedConflictSource, cfg.ConflictSource, f.driver)
		}
		failures := cfg.ConflictBreakerFailures
		if failures < 0 {
			failures = 0
		}
		rpc, err := conflicts.NewRPCConflictSource(f.conn, conflicts.RPCConfig{
			Function:        cfg.ConflictRPCFunction,
			BreakerTimeout:  cfg.ConflictBreakerTimeout,
			BreakerFailures: uint32(failures),
		}, logger)
		if err != nil {
			return nil, err
		}
		source = rpc

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedConflictSource, cfg.ConflictSource)
	}

	if cfg.ConflictCacheTTL > 0 {
		return conflicts.NewCachedConflictSource(source, cfg.ConflictCacheTTL), nil
	}
	return source, nil
}
