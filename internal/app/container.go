package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	scheduleCommands "github.com/felixgeelhaar/academia/internal/scheduling/application/commands"
	scheduleQueries "github.com/felixgeelhaar/academia/internal/scheduling/application/queries"
	"github.com/felixgeelhaar/academia/internal/scheduling/application/services"
	schedulingDomain "github.com/felixgeelhaar/academia/internal/scheduling/domain"
	"github.com/felixgeelhaar/academia/internal/scheduling/infrastructure/caldav"
	"github.com/felixgeelhaar/academia/internal/scheduling/infrastructure/locking"
	sharedApplication "github.com/felixgeelhaar/academia/internal/shared/application"
	"github.com/felixgeelhaar/academia/internal/shared/infrastructure/database"
	_ "github.com/felixgeelhaar/academia/internal/shared/infrastructure/database/postgres" // Register PostgreSQL driver
	_ "github.com/felixgeelhaar/academia/internal/shared/infrastructure/database/sqlite"   // Register SQLite driver
	"github.com/felixgeelhaar/academia/internal/shared/infrastructure/migrations"
	"github.com/felixgeelhaar/academia/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/academia/pkg/config"
	"github.com/redis/go-redis/v9"
)

// Container holds all application dependencies.
type Container struct {
	Config *config.Config
	Logger *slog.Logger

	// Database
	DBConn   database.Connection
	DBDriver database.Driver

	// Redis
	RedisClient *redis.Client

	// Repositories
	WindowRepo    schedulingDomain.WindowRepository
	TemplateRepo  schedulingDomain.TemplateRepository
	SessionRepo   schedulingDomain.SessionRepository
	CommittedRepo schedulingDomain.CommittedSessionRepository
	OutboxRepo    outbox.Repository

	// Unit of Work
	UnitOfWork sharedApplication.UnitOfWork

	// Scheduling services
	ActorLocker       services.ActorLocker
	AvailabilityStore *services.AvailabilityStore
	ConflictSource    services.ConflictSource
	SessionPublisher  services.SessionPublisher

	// Availability Command Handlers
	AddWindowHandler    *scheduleCommands.AddWindowHandler
	RemoveWindowHandler *scheduleCommands.RemoveWindowHandler
	ToggleCellHandler   *scheduleCommands.ToggleCellHandler

	// Template Command Handlers
	SaveTemplateHandler      *scheduleCommands.SaveTemplateHandler
	ExpandTemplateHandler    *scheduleCommands.ExpandTemplateHandler
	SetTemplateActiveHandler *scheduleCommands.SetTemplateActiveHandler
	RecordSessionHandler     *scheduleCommands.RecordSessionHandler

	// Query Handlers
	ListAvailabilityHandler   *scheduleQueries.ListAvailabilityHandler
	CheckFitHandler           *scheduleQueries.CheckFitHandler
	FindMatchingGroupsHandler *scheduleQueries.FindMatchingGroupsHandler
	DetectConflictsHandler    *scheduleQueries.DetectConflictsHandler
	ListTemplatesHandler      *scheduleQueries.ListTemplatesHandler
	ListSessionsHandler       *scheduleQueries.ListSessionsHandler
}

// NewContainer creates and wires all dependencies. The database driver follows the
// configuration: SQLite in local mode, PostgreSQL otherwise.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Container{
		Config: cfg,
		Logger: logger,
	}

	conn, err := openDatabase(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	c.DBConn = conn
	c.DBDriver = conn.Driver()

	// Connect to Redis (optional in development)
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			if !cfg.IsDevelopment() {
				c.Close()
				return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
			}
			logger.Warn("invalid Redis URL, availability locks stay in-process", "error", err)
		} else {
			redisClient := redis.NewClient(opt)
			if err := redisClient.Ping(ctx).Err(); err != nil {
				_ = redisClient.Close()
				if !cfg.IsDevelopment() {
					c.Close()
					return nil, fmt.Errorf("failed to connect to Redis: %w", err)
				}
				logger.Warn("Redis not available, availability locks stay in-process", "error", err)
			} else {
				c.RedisClient = redisClient
				logger.Info("connected to Redis")
			}
		}
	}

	if err := c.wire(); err != nil {
		c.Close()
		return nil, err
	}

	logger.Info("container initialized",
		"driver", c.DBDriver,
		"conflict_source", cfg.ConflictSource,
		"distributed_locks", c.RedisClient != nil,
		"caldav", c.SessionPublisher != nil,
	)
	return c, nil
}

// NewContainerWithConnection wires a container around an already migrated connection.
// Redis and CalDAV are left out regardless of cfg.
func NewContainerWithConnection(cfg *config.Config, conn database.Connection, logger *slog.Logger) (*Container, error) {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Container{
		Config:   cfg,
		Logger:   logger,
		DBConn:   conn,
		DBDriver: conn.Driver(),
	}
	local := *cfg
	local.CalDAVURL = ""
	c.Config = &local
	if err := c.wire(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Container) wire() error {
	cfg := c.Config
	factory := NewRepositoryFactory(c.DBConn)

	c.WindowRepo = factory.WindowRepository()
	c.TemplateRepo = factory.TemplateRepository()
	c.SessionRepo = factory.SessionRepository()
	c.CommittedRepo = factory.CommittedSessionRepository()
	c.OutboxRepo = factory.OutboxRepository()
	c.UnitOfWork = database.NewUnitOfWork(c.DBConn)

	source, err := factory.ConflictSource(cfg, c.Logger)
	if err != nil {
		return fmt.Errorf("failed to create conflict source: %w", err)
	}
	c.ConflictSource = source

	if c.RedisClient != nil {
		c.ActorLocker = locking.NewRedisActorLocker(c.RedisClient, cfg.ActorLockTTL, c.Logger)
	} else {
		c.ActorLocker = services.NewInProcessActorLocker()
	}

	if cfg.CalDAVEnabled() {
		loc, err := time.LoadLocation(cfg.CalDAVTimezone)
		if err != nil {
			return fmt.Errorf("invalid CalDAV timezone %q: %w", cfg.CalDAVTimezone, err)
		}
		c.SessionPublisher = caldav.NewSessionPublisher(cfg.CalDAVURL, cfg.CalDAVUsername, cfg.CalDAVPassword, c.Logger).
			WithCalendarPath(cfg.CalDAVCalendarPath).
			WithLocation(loc)
	}

	c.AvailabilityStore = services.NewAvailabilityStore(c.WindowRepo, c.OutboxRepo, c.UnitOfWork, c.ActorLocker, c.Logger)

	// Availability command handlers
	c.AddWindowHandler = scheduleCommands.NewAddWindowHandler(c.AvailabilityStore)
	c.RemoveWindowHandler = scheduleCommands.NewRemoveWindowHandler(c.AvailabilityStore)
	c.ToggleCellHandler = scheduleCommands.NewToggleCellHandler(c.AvailabilityStore)

	// Template command handlers
	c.SaveTemplateHandler = scheduleCommands.NewSaveTemplateHandler(
		c.TemplateRepo, c.ConflictSource, c.OutboxRepo, c.UnitOfWork, cfg.DefaultSlotMinutes, c.Logger,
	)
	c.ExpandTemplateHandler = scheduleCommands.NewExpandTemplateHandler(
		c.TemplateRepo, c.SessionRepo, c.OutboxRepo, c.UnitOfWork, c.SessionPublisher, c.Logger,
	)
	c.SetTemplateActiveHandler = scheduleCommands.NewSetTemplateActiveHandler(
		c.TemplateRepo, c.ConflictSource, c.OutboxRepo, c.UnitOfWork, c.Logger,
	)
	c.RecordSessionHandler = scheduleCommands.NewRecordSessionHandler(c.CommittedRepo, c.ConflictSource)

	// Query handlers
	c.ListAvailabilityHandler = scheduleQueries.NewListAvailabilityHandler(c.WindowRepo)
	c.CheckFitHandler = scheduleQueries.NewCheckFitHandler(c.WindowRepo, cfg.DefaultSlotMinutes)
	c.FindMatchingGroupsHandler = scheduleQueries.NewFindMatchingGroupsHandler(c.WindowRepo, c.TemplateRepo)
	c.DetectConflictsHandler = scheduleQueries.NewDetectConflictsHandler(c.TemplateRepo, c.ConflictSource)
	c.ListTemplatesHandler = scheduleQueries.NewListTemplatesHandler(c.TemplateRepo)
	c.ListSessionsHandler = scheduleQueries.NewListSessionsHandler(c.SessionRepo)

	return nil
}

// Close cleans up all resources.
func (c *Container) Close() {
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			c.Logger.Warn("error closing Redis connection", "error", err)
		} else {
			c.Logger.Info("Redis connection closed")
		}
	}

	if c.DBConn != nil {
		if err := c.DBConn.Close(); err != nil {
			c.Logger.Warn("error closing database connection", "driver", c.DBDriver, "error", err)
		} else {
			c.Logger.Info("database connection closed", "driver", c.DBDriver)
		}
	}
}

// openDatabase connects with the configured driver and applies pending migrations.
func openDatabase(ctx context.Context, cfg *config.Config, logger *slog.Logger) (database.Connection, error) {
	dbCfg := database.Config{
		Driver: database.Driver(cfg.DatabaseDriver),
		URL:    cfg.DatabaseURL,
	}
	if dbCfg.Driver == database.DriverSQLite {
		dbCfg.SQLitePath = cfg.SQLitePath
		if dbCfg.SQLitePath == "" {
			dbCfg.SQLitePath = database.DefaultSQLitePath()
		}
		if dbCfg.SQLitePath != database.InMemorySQLite {
			if err := database.EnsureDirectory(dbCfg.SQLitePath); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
	}

	conn, err := database.NewConnection(ctx, dbCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := conn.Ping(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	logger.Info("connected to database", "driver", conn.Driver())

	applied, err := migrations.Run(ctx, conn, logger)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	if applied > 0 {
		logger.Info("migrations completed", "applied", applied)
	}
	return conn, nil
}
