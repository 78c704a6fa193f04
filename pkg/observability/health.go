package observability

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"
)

// HealthStatus represents the health state of a component.
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusDegraded  HealthStatus = "degraded"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

func (s HealthStatus) rank() int {
	switch s {
	case HealthStatusUnhealthy:
		return 2
	case HealthStatusDegraded:
		return 1
	default:
		return 0
	}
}

// HealthCheckResult is the result of a health check.
type HealthCheckResult struct {
	Status   HealthStatus   `json:"status"`
	Message  string         `json:"message,omitempty"`
	Duration time.Duration  `json:"duration_ns"`
	Details  map[string]any `json:"details,omitempty"`
}

// HealthChecker performs one component's check.
type HealthChecker func(ctx context.Context) HealthCheckResult

// HealthRegistry runs the registered checks of a binary. Each check gets at
// most the registry's timeout.
type HealthRegistry struct {
	mu       sync.RWMutex
	checkers map[string]HealthChecker
	timeout  time.Duration
}

// NewHealthRegistry creates a registry. A non-positive timeout means 2s.
func NewHealthRegistry(timeout time.Duration) *HealthRegistry {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &HealthRegistry{
		checkers: make(map[string]HealthChecker),
		timeout:  timeout,
	}
}

// Register adds or replaces the checker for a component.
func (r *HealthRegistry) Register(name string, checker HealthChecker) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checkers[name] = checker
}

// Components returns the registered component names, sorted.
func (r *HealthRegistry) Components() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.checkers))
	for name := range r.checkers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// OverallHealth aggregates every check; the worst component status wins.
type OverallHealth struct {
	Status    HealthStatus                 `json:"status"`
	Timestamp time.Time                    `json:"timestamp"`
	Checks    map[string]HealthCheckResult `json:"checks"`
}

// HTTPStatus maps the overall status to a probe response code. Degraded
// components still answer 200.
func (h OverallHealth) HTTPStatus() int {
	if h.Status == HealthStatusUnhealthy {
		return http.StatusServiceUnavailable
	}
	return http.StatusOK
}

// Check runs all checks concurrently.
func (r *HealthRegistry) Check(ctx context.Context) OverallHealth {
	r.mu.RLock()
	checkers := make(map[string]HealthChecker, len(r.checkers))
	for k, v := range r.checkers {
		checkers[k] = v
	}
	r.mu.RUnlock()

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results = make(map[string]HealthCheckResult, len(checkers))
	)
	for name, checker := range checkers {
		wg.Add(1)
		go func(name string, checker HealthChecker) {
			defer wg.Done()
			checkCtx, cancel := context.WithTimeout(ctx, r.timeout)
			defer cancel()

			start := time.Now()
			result := checker(checkCtx)
			result.Duration = time.Since(start)

			mu.Lock()
			results[name] = result
			mu.Unlock()
		}(name, checker)
	}
	wg.Wait()

	overall := OverallHealth{
		Status:    HealthStatusHealthy,
		Timestamp: time.Now().UTC(),
		Checks:    results,
	}
	for _, result := range results {
		if result.Status.rank() > overall.Status.rank() {
			overall.Status = result.Status
		}
	}
	return overall
}

// ServeHTTP writes the overall health as JSON.
func (r *HealthRegistry) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	health := r.Check(req.Context())
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(health.HTTPStatus())
	_ = json.NewEncoder(w).Encode(health)
}

// PingChecker reports a dependency reachable through ping. When ping fails the
// component is reported with failStatus: unhealthy for the database, degraded
// for optional dependencies such as Redis or RabbitMQ.
func PingChecker(component string, failStatus HealthStatus, ping func(ctx context.Context) error) HealthChecker {
	return func(ctx context.Context) HealthCheckResult {
		if err := ping(ctx); err != nil {
			return HealthCheckResult{
				Status:  failStatus,
				Message: fmt.Sprintf("%s connection failed: %v", component, err),
			}
		}
		return HealthCheckResult{
			Status:  HealthStatusHealthy,
			Message: component + " connection healthy",
		}
	}
}

// BacklogSnapshot is what BacklogChecker needs to know about a queue consumer.
type BacklogSnapshot struct {
	Running    bool
	LagSeconds float64
	Dead       uint64
	LastError  string
}

// BacklogChecker reports a polling consumer such as the outbox processor.
// A stopped consumer is unhealthy; lag above maxLag or dead-lettered messages
// make it degraded.
func BacklogChecker(maxLag time.Duration, snapshot func() BacklogSnapshot) HealthChecker {
	return func(ctx context.Context) HealthCheckResult {
		s := snapshot()
		details := map[string]any{
			"running":     s.Running,
			"lag_seconds": s.LagSeconds,
			"dead":        s.Dead,
		}
		if s.LastError != "" {
			details["last_error"] = s.LastError
		}

		switch {
		case !s.Running:
			return HealthCheckResult{Status: HealthStatusUnhealthy, Message: "consumer not running", Details: details}
		case maxLag > 0 && s.LagSeconds > maxLag.Seconds():
			return HealthCheckResult{Status: HealthStatusDegraded, Message: "backlog lag above threshold", Details: details}
		case s.Dead > 0:
			return HealthCheckResult{Status: HealthStatusDegraded, Message: "messages dead-lettered", Details: details}
		}
		return HealthCheckResult{Status: HealthStatusHealthy, Details: details}
	}
}
