package app

import (
	"fmt"
	"log/slog"

	"github.com/felixgeelhaar/academia/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/academia/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/academia/pkg/config"
)

// NewEventPublisher returns the broker publisher for cfg. Without RABBITMQ_URL
// events are only logged. In development an unreachable broker also falls back
// to logging; elsewhere it is an error.
func NewEventPublisher(cfg *config.Config, logger *slog.Logger) (eventbus.Publisher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.RabbitMQURL == "" {
		logger.Info("RABBITMQ_URL not set, events are logged only")
		return eventbus.NewLogPublisher(logger), nil
	}

	publisher, err := eventbus.NewRabbitMQPublisher(cfg.RabbitMQURL, cfg.RabbitMQExchange, logger)
	if err != nil {
		if cfg.IsDevelopment() {
			logger.Warn("RabbitMQ not available, events are logged only", "error", err)
			return eventbus.NewLogPublisher(logger), nil
		}
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	return publisher, nil
}

// NewOutboxProcessor builds a processor that drains the container's outbox into publisher.
func (c *Container) NewOutboxProcessor(publisher eventbus.Publisher) *outbox.Processor {
	cfg := c.Config
	processorConfig := outbox.DefaultProcessorConfig()
	if cfg.OutboxPollInterval > 0 {
		processorConfig.PollInterval = cfg.OutboxPollInterval
	}
	if cfg.OutboxBatchSize > 0 {
		processorConfig.BatchSize = cfg.OutboxBatchSize
	}
	if cfg.OutboxMaxRetries > 0 {
		processorConfig.MaxRetries = cfg.OutboxMaxRetries
	}
	processorConfig.RetentionDays = cfg.OutboxRetentionDays
	processorConfig.CleanupInterval = cfg.OutboxCleanupInterval

	return outbox.NewProcessor(c.OutboxRepo, publisher, processorConfig, c.Logger)
}
