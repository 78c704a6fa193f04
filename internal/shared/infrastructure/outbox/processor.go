package outbox

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/felixgeelhaar/academia/internal/shared/domain"
	"github.com/felixgeelhaar/academia/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/academia/pkg/observability"
)

// ProcessorConfig holds configuration for the outbox processor.
type ProcessorConfig struct {
	PollInterval     time.Duration
	BatchSize        int
	MaxRetries       int
	RetryBackoffBase time.Duration
	RetryBackoffMax  time.Duration

	// Published messages older than RetentionDays are removed every
	// CleanupInterval. Zero disables cleanup.
	RetentionDays   int
	CleanupInterval time.Duration
}

// DefaultProcessorConfig returns the settings used when nothing is configured.
func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{
		PollInterval:     100 * time.Millisecond,
		BatchSize:        100,
		MaxRetries:       5,
		RetryBackoffBase: time.Second,
		RetryBackoffMax:  time.Minute,
		RetentionDays:    14,
		CleanupInterval:  24 * time.Hour,
	}
}

// Stats is a snapshot of processor activity since start.
type Stats struct {
	IsRunning       bool
	PublishedCount  uint64
	FailedCount     uint64
	DeadCount       uint64
	LagSeconds      float64
	LastError       string
	LastErrorAt     *time.Time
	LastProcessedAt *time.Time
	OldestMessageAt *time.Time
}

// Processor relays scheduling events from the outbox table to the broker.
// Failed messages are retried with exponential backoff and dead-lettered after
// MaxRetries attempts.
type Processor struct {
	repo      Repository
	publisher eventbus.Publisher
	config    ProcessorConfig
	logger    *slog.Logger

	mu      sync.Mutex
	running bool
	stop    chan struct{}
	wg      sync.WaitGroup

	statsMu sync.Mutex
	stats   Stats
}

// NewProcessor creates a stopped processor.
func NewProcessor(repo Repository, publisher eventbus.Publisher, config ProcessorConfig, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		repo:      repo,
		publisher: publisher,
		config:    config,
		logger:    logger,
	}
}

// Start launches the polling loop. Starting a running processor is a no-op.
func (p *Processor) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		return nil
	}
	p.running = true
	p.stop = make(chan struct{})

	p.wg.Add(1)
	go p.loop(ctx, p.stop)

	p.logger.Info("outbox processor started",
		"poll_interval", p.config.PollInterval,
		"batch_size", p.config.BatchSize,
		"max_retries", p.config.MaxRetries,
	)
	return nil
}

// Stop signals the loop and waits for the in-flight batch to finish.
func (p *Processor) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	close(p.stop)
	p.mu.Unlock()

	p.wg.Wait()
	p.logger.Info("outbox processor stopped")
}

// IsRunning reports whether the polling loop is active.
func (p *Processor) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

// ProcessOnce relays a single batch synchronously.
func (p *Processor) ProcessOnce(ctx context.Context) error {
	return p.relayBatch(ctx)
}

func (p *Processor) loop(ctx context.Context, stop <-chan struct{}) {
	defer p.wg.Done()

	poll := time.NewTicker(p.config.PollInterval)
	defer poll.Stop()

	var cleanup <-chan time.Time
	if p.config.RetentionDays > 0 && p.config.CleanupInterval > 0 {
		t := time.NewTicker(p.config.CleanupInterval)
		defer t.Stop()
		cleanup = t.C
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-stop:
			return
		case <-poll.C:
			if err := p.relayBatch(ctx); err != nil {
				p.logger.Error("failed to relay outbox batch", "error", err)
			}
		case <-cleanup:
			p.Cleanup(ctx)
		}
	}
}

// Cleanup deletes published messages older than the retention period and returns
// how many were removed.
func (p *Processor) Cleanup(ctx context.Context) int64 {
	deleted, err := p.repo.DeleteOld(ctx, p.config.RetentionDays)
	if err != nil {
		p.noteError(err)
		p.logger.Error("failed to clean up outbox", "error", err)
		return 0
	}
	if deleted > 0 {
		p.logger.Info("outbox cleaned up", "deleted", deleted, "retention_days", p.config.RetentionDays)
	}
	return deleted
}

func (p *Processor) relayBatch(ctx context.Context) error {
	batch, err := p.repo.GetUnpublished(ctx, p.config.BatchSize)
	if err != nil {
		p.noteError(err)
		return err
	}
	p.noteBatch(batch)

	for _, msg := range batch {
		p.relay(ctx, msg)
	}
	return nil
}

// relay publishes one message and records the outcome. Bookkeeping failures are
// logged; the message is picked up again on a later poll.
func (p *Processor) relay(ctx context.Context, msg *Message) {
	meta := decodeMetadata(msg)
	if meta.CorrelationID != "" {
		ctx = observability.WithCorrelationID(ctx, meta.CorrelationID)
	}
	if meta.ActorID != "" {
		ctx = observability.WithActorID(ctx, meta.ActorID)
	}

	err := p.publisher.Publish(ctx, eventbus.Envelope{
		RoutingKey:    msg.RoutingKey,
		MessageID:     msg.EventID.String(),
		CorrelationID: meta.CorrelationID,
		Payload:       msg.Payload,
	})
	if err == nil {
		if markErr := p.repo.MarkPublished(ctx, msg.ID); markErr != nil {
			p.logger.ErrorContext(ctx, "failed to mark message as published",
				"id", msg.ID, "event_id", msg.EventID, "error", markErr)
			return
		}
		p.updateStats(func(s *Stats) { s.PublishedCount++ })
		return
	}

	p.logger.WarnContext(ctx, "failed to publish message",
		"id", msg.ID,
		"routing_key", msg.RoutingKey,
		"event_id", msg.EventID,
		"causation_id", meta.CausationID,
		"attempt", msg.RetryCount+1,
		"error", err,
	)

	if p.exhausted(msg) {
		p.noteFailure(err, true)
		if markErr := p.repo.MarkDead(ctx, msg.ID, err.Error()); markErr != nil {
			p.logger.ErrorContext(ctx, "failed to dead-letter message", "id", msg.ID, "error", markErr)
		}
		return
	}

	p.noteFailure(err, false)
	retryAt := time.Now().Add(p.backoff(msg.RetryCount + 1))
	if markErr := p.repo.MarkFailed(ctx, msg.ID, err.Error(), retryAt); markErr != nil {
		p.logger.ErrorContext(ctx, "failed to schedule message retry", "id", msg.ID, "error", markErr)
	}
}

func (p *Processor) exhausted(msg *Message) bool {
	return p.config.MaxRetries <= 0 || msg.RetryCount+1 >= p.config.MaxRetries
}

// backoff doubles from RetryBackoffBase per attempt, capped at RetryBackoffMax.
func (p *Processor) backoff(attempt int) time.Duration {
	delay := p.config.RetryBackoffBase
	if delay <= 0 {
		delay = time.Second
	}
	limit := p.config.RetryBackoffMax
	if limit <= 0 {
		limit = time.Minute
	}
	for i := 1; i < attempt && delay < limit; i++ {
		delay *= 2
	}
	return min(delay, limit)
}

type messageMetadata struct {
	CorrelationID string
	CausationID   string
	ActorID       string
}

func decodeMetadata(msg *Message) messageMetadata {
	if len(msg.Metadata) == 0 {
		return messageMetadata{}
	}
	var meta domain.EventMetadata
	if err := json.Unmarshal(msg.Metadata, &meta); err != nil {
		return messageMetadata{}
	}
	return messageMetadata{
		CorrelationID: meta.CorrelationID.String(),
		CausationID:   meta.CausationID.String(),
		ActorID:       meta.ActorID.String(),
	}
}

// GetStats returns a snapshot of the processor counters.
func (p *Processor) GetStats() Stats {
	running := p.IsRunning()

	p.statsMu.Lock()
	defer p.statsMu.Unlock()
	snapshot := p.stats
	snapshot.IsRunning = running
	return snapshot
}

func (p *Processor) updateStats(fn func(*Stats)) {
	p.statsMu.Lock()
	defer p.statsMu.Unlock()
	fn(&p.stats)
}

func (p *Processor) noteError(err error) {
	now := time.Now()
	p.updateStats(func(s *Stats) {
		s.LastError = err.Error()
		s.LastErrorAt = &now
	})
}

func (p *Processor) noteFailure(err error, dead bool) {
	p.noteError(err)
	p.updateStats(func(s *Stats) {
		if dead {
			s.DeadCount++
		} else {
			s.FailedCount++
		}
	})
}

// noteBatch records when the outbox was last polled and how far behind it is.
func (p *Processor) noteBatch(batch []*Message) {
	now := time.Now()
	p.updateStats(func(s *Stats) {
		s.LastProcessedAt = &now
		s.OldestMessageAt = nil
		s.LagSeconds = 0
		for _, msg := range batch {
			if s.OldestMessageAt == nil || msg.CreatedAt.Before(*s.OldestMessageAt) {
				created := msg.CreatedAt
				s.OldestMessageAt = &created
			}
		}
		if s.OldestMessageAt != nil {
			s.LagSeconds = now.Sub(*s.OldestMessageAt).Seconds()
		}
	})
}
