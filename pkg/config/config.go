package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Conflict source modes.
const (
	ConflictSourceLocal = "local"
	ConflictSourceRPC   = "rpc"
)

// Config holds application configuration.
type Config struct {
	// Application
	AppEnv    string
	LogLevel  string
	LogFormat string
	ActorID   string

	// Database
	DatabaseURL    string
	DatabaseDriver string
	SQLitePath     string
	LocalMode      bool

	// Redis
	RedisURL     string
	ActorLockTTL time.Duration

	// RabbitMQ
	RabbitMQURL      string
	RabbitMQExchange string

	// Outbox
	OutboxPollInterval     time.Duration
	OutboxBatchSize        int
	OutboxMaxRetries       int
	OutboxStatsInterval    time.Duration
	OutboxRetentionDays    int
	OutboxCleanupInterval  time.Duration
	OutboxProcessorEnabled bool

	// Worker
	WorkerHealthAddr string

	// Scheduling
	DefaultSlotMinutes int

	// Conflict source
	ConflictSource          string
	ConflictRPCFunction     string
	ConflictCacheTTL        time.Duration
	ConflictBreakerTimeout  time.Duration
	ConflictBreakerFailures int

	// CalDAV
	CalDAVURL          string
	CalDAVUsername     string
	CalDAVPassword     string
	CalDAVCalendarPath string
	CalDAVTimezone     string

	// MCP
	MCPAddr      string
	MCPAuthToken string
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	databaseURL := getEnv("DATABASE_URL", "")
	localMode := getBoolEnv("ACADEMIA_LOCAL_MODE", databaseURL == "")

	driver := strings.ToLower(getEnv("DATABASE_DRIVER", ""))
	if driver == "" {
		driver = "postgres"
		if localMode {
			driver = "sqlite"
		}
	}

	cfg := &Config{
		AppEnv:    getEnv("APP_ENV", "development"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
		ActorID:   getEnv("ACADEMIA_ACTOR_ID", ""),

		DatabaseURL:    databaseURL,
		DatabaseDriver: driver,
		SQLitePath:     getEnv("SQLITE_PATH", ""),
		LocalMode:      localMode,

		RedisURL:     getEnv("REDIS_URL", ""),
		ActorLockTTL: getDurationEnv("ACTOR_LOCK_TTL", 10*time.Second),

		RabbitMQURL:      getEnv("RABBITMQ_URL", ""),
		RabbitMQExchange: getEnv("RABBITMQ_EXCHANGE", "academia.scheduling.events"),

		OutboxPollInterval:     getDurationEnv("OUTBOX_POLL_INTERVAL", 500*time.Millisecond),
		OutboxBatchSize:        getIntEnv("OUTBOX_BATCH_SIZE", 100),
		OutboxMaxRetries:       getIntEnv("OUTBOX_MAX_RETRIES", 5),
		OutboxStatsInterval:    getDurationEnv("OUTBOX_STATS_INTERVAL", 30*time.Second),
		OutboxRetentionDays:    getIntEnv("OUTBOX_RETENTION_DAYS", 14),
		OutboxCleanupInterval:  getDurationEnv("OUTBOX_CLEANUP_INTERVAL", 24*time.Hour),
		OutboxProcessorEnabled: getBoolEnv("OUTBOX_PROCESSOR_ENABLED", true),

		WorkerHealthAddr: getEnv("WORKER_HEALTH_ADDR", "0.0.0.0:8081"),

		DefaultSlotMinutes: getIntEnv("DEFAULT_SLOT_MINUTES", 60),

		ConflictSource:          strings.ToLower(getEnv("CONFLICT_SOURCE", ConflictSourceLocal)),
		ConflictRPCFunction:     getEnv("CONFLICT_RPC_FUNCTION", "public.check_schedule_conflicts"),
		ConflictCacheTTL:        getDurationEnv("CONFLICT_CACHE_TTL", 30*time.Second),
		ConflictBreakerTimeout:  getDurationEnv("CONFLICT_BREAKER_TIMEOUT", 30*time.Second),
		ConflictBreakerFailures: getIntEnv("CONFLICT_BREAKER_FAILURES", 5),

		CalDAVURL:          getEnv("CALDAV_URL", ""),
		CalDAVUsername:     getEnv("CALDAV_USERNAME", ""),
		CalDAVPassword:     getEnv("CALDAV_PASSWORD", ""),
		CalDAVCalendarPath: getEnv("CALDAV_CALENDAR_PATH", ""),
		CalDAVTimezone:     getEnv("CALDAV_TIMEZONE", "UTC"),

		MCPAddr:      getEnv("MCP_ADDR", "0.0.0.0:8082"),
		MCPAuthToken: getEnv("MCP_AUTH_TOKEN", ""),
	}

	return cfg, nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// UsesRPCConflicts reports whether conflicts are read through the database procedure.
func (c *Config) UsesRPCConflicts() bool {
	return c.ConflictSource == ConflictSourceRPC
}

// CalDAVEnabled reports whether expanded sessions are also written to a CalDAV calendar.
func (c *Config) CalDAVEnabled() bool {
	return c.CalDAVURL != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
