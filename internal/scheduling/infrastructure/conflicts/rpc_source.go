// Package conflicts provides ConflictSource implementations backed by the hosted
// database and an in-process cache.
package conflicts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/felixgeelhaar/academia/internal/scheduling/application/services"
	"github.com/felixgeelhaar/academia/internal/scheduling/domain"
	"github.com/felixgeelhaar/academia/internal/shared/infrastructure/database"
	"github.com/lib/pq"
	"github.com/sony/gobreaker/v2"
)

var _ services.ConflictSource = (*RPCConflictSource)(nil)

// DefaultFunction is the stored procedure installed by the postgres migrations.
const DefaultFunction = "public.check_schedule_conflicts"

// ErrInvalidFunctionName is returned for an empty or malformed procedure name.
var ErrInvalidFunctionName = errors.New("invalid conflict function name")

// RPCConfig configures the remote conflict source.
type RPCConfig struct {
	// Function is the optionally schema-qualified procedure name.
	Function string

	// BreakerTimeout is how long the breaker stays open before probing again.
	BreakerTimeout time.Duration

	// BreakerFailures is the number of consecutive failures that opens the breaker.
	BreakerFailures uint32
}

// DefaultRPCConfig returns sensible defaults.
func DefaultRPCConfig() RPCConfig {
	return RPCConfig{
		Function:        DefaultFunction,
		BreakerTimeout:  30 * time.Second,
		BreakerFailures: 5,
	}
}

// rpcSlot is the JSON shape the procedure reads candidate slots from.
type rpcSlot struct {
	Weekday     int `json:"weekday"`
	StartMinute int `json:"start_minute"`
	EndMinute   int `json:"end_minute"`
}

// RPCConflictSource asks the database procedure for conflicts. Rows come back as
// {conflict_type, name, date, start_time, end_time} with times as "HH:MM".
type RPCConflictSource struct {
	exec    database.Executor
	query   string
	breaker *gobreaker.CircuitBreaker[[]domain.ConflictRecord]
	logger  *slog.Logger
}

// NewRPCConflictSource creates a conflict source that calls cfg.Function.
func NewRPCConflictSource(exec database.Executor, cfg RPCConfig, logger *slog.Logger) (*RPCConflictSource, error) {
	if logger == nil {
		logger = slog.Default()
	}
	defaults := DefaultRPCConfig()
	if cfg.Function == "" {
		cfg.Function = defaults.Function
	}
	if cfg.BreakerTimeout <= 0 {
		cfg.BreakerTimeout = defaults.BreakerTimeout
	}
	if cfg.BreakerFailures == 0 {
		cfg.BreakerFailures = defaults.BreakerFailures
	}

	function, err := QuoteFunctionName(cfg.Function)
	if err != nil {
		return nil, err
	}

	settings := gobreaker.Settings{
		Name:        cfg.Function,
		MaxRequests: 1,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.BreakerFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Info("circuit breaker state changed",
				"function", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	}

	return &RPCConflictSource{
		exec: exec,
		query: fmt.Sprintf(
			`SELECT conflict_type, name, date, start_time, end_time FROM %s($1, $2, $3::text::jsonb, $4, $5)`,
			function,
		),
		breaker: gobreaker.NewCircuitBreaker[[]domain.ConflictRecord](settings),
		logger:  logger,
	}, nil
}

// QuoteFunctionName quotes each dot-separated part of a procedure name.
func QuoteFunctionName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrInvalidFunctionName
	}
	parts := strings.Split(name, ".")
	if len(parts) > 2 {
		return "", fmt.Errorf("%w: %q", ErrInvalidFunctionName, name)
	}
	for i, part := range parts {
		if part == "" {
			return "", fmt.Errorf("%w: %q", ErrInvalidFunctionName, name)
		}
		parts[i] = pq.QuoteIdentifier(part)
	}
	return strings.Join(parts, "."), nil
}

// Conflicts implements services.ConflictSource. The range, clamped to the
// candidate's validity, must be bounded.
func (s *RPCConflictSource) Conflicts(ctx context.Context, candidate *domain.ScheduleTemplate, r domain.DateRange) ([]domain.ConflictRecord, error) {
	if candidate == nil || len(candidate.Slots()) == 0 {
		return []domain.ConflictRecord{}, nil
	}
	window := r.Intersect(candidate.Validity())
	if window.IsEmpty() {
		return []domain.ConflictRecord{}, nil
	}
	if !window.IsBounded() {
		return nil, services.ErrUnboundedRange
	}

	records, err := s.breaker.Execute(func() ([]domain.ConflictRecord, error) {
		return s.call(ctx, candidate, window)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w: %w", services.ErrConflictSourceUnavailable, err)
	}
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (s *RPCConflictSource) call(ctx context.Context, candidate *domain.ScheduleTemplate, window domain.DateRange) ([]domain.ConflictRecord, error) {
	slots := candidate.Slots()
	payload := make([]rpcSlot, 0, len(slots))
	for _, slot := range slots {
		payload = append(payload, rpcSlot{
			Weekday:     int(slot.Weekday),
			StartMinute: slot.Start.Minutes(),
			EndMinute:   slot.End.Minutes(),
		})
	}
	slotsJSON, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	rows, err := s.exec.Query(ctx, s.query,
		candidate.ResourceID(),
		candidate.ID(),
		string(slotsJSON),
		window.Start.Format(domain.DateLayout),
		window.End.Format(domain.DateLayout),
	)
	if err != nil {
		return nil, fmt.Errorf("conflict rpc failed: %w", err)
	}
	defer rows.Close()

	records := make([]domain.ConflictRecord, 0)
	for rows.Next() {
		var (
			conflictType, name, start, end string
			date                            *string
		)
		if err := rows.Scan(&conflictType, &name, &date, &start, &end); err != nil {
			return nil, err
		}
		record, err := parseRow(conflictType, name, date, start, end, slots)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	s.logger.Debug("conflict rpc completed",
		"template_id", candidate.ID(),
		"resource_id", candidate.ResourceID(),
		"conflicts", len(records),
	)
	return records, nil
}

// parseRow converts one procedure row. Session rows are matched back to the first
// candidate slot they overlap; template rows carry no weekday so the slot stays empty.
func parseRow(conflictType, name string, date *string, start, end string, slots []domain.TemplateSlot) (domain.ConflictRecord, error) {
	record := domain.ConflictRecord{
		Type: domain.ConflictType(conflictType),
		Name: name,
	}
	if !record.Type.IsValid() {
		return domain.ConflictRecord{}, fmt.Errorf("unknown conflict type %q", conflictType)
	}

	var err error
	if record.Start, err = domain.ParseTimeOfDay(start); err != nil {
		return domain.ConflictRecord{}, err
	}
	if record.End, err = domain.ParseTimeOfDay(end); err != nil {
		return domain.ConflictRecord{}, err
	}

	if date != nil && *date != "" {
		d, err := time.Parse(domain.DateLayout, *date)
		if err != nil {
			return domain.ConflictRecord{}, fmt.Errorf("invalid conflict date %q: %w", *date, err)
		}
		record.Date = &d

		weekday := domain.WeekdayOf(d)
		for _, slot := range slots {
			if slot.Weekday == weekday && domain.Overlaps(slot.Start, slot.End, record.Start, record.End) {
				record.CandidateSlot = slot
				break
			}
		}
	}
	return record, nil
}
