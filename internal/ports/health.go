package ports

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrDuplicateChecker is returned when a checker name is registered twice.
var ErrDuplicateChecker = errors.New("duplicate health checker")

// HealthChecker is implemented by adapters that can report their health,
// such as the SQL store and the external quotes provider.
type HealthChecker interface {
	// Name identifies the check in readiness output.
	Name() string

	// Check returns nil when the component is healthy.
	Check(ctx context.Context) error
}

// HealthRegistry aggregates the checks behind the readiness probe.
type HealthRegistry interface {
	// Register adds a critical checker. A failing critical check makes the service unhealthy.
	Register(checker HealthChecker) error

	// RegisterOptional adds a checker whose failure only degrades the service.
	RegisterOptional(checker HealthChecker) error

	// CheckAll runs every registered check concurrently.
	CheckAll(ctx context.Context) *HealthResult
}

// HealthStatus represents the overall health state.
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusDegraded  HealthStatus = "degraded"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

// HealthResult contains the aggregated health check results.
type HealthResult struct {
	Status    HealthStatus            `json:"status"`
	Checks    map[string]*CheckResult `json:"checks"`
	Timestamp time.Time               `json:"timestamp"`
}

// CheckResult contains the result of a single health check.
type CheckResult struct {
	Status   HealthStatus  `json:"status"`
	Critical bool          `json:"critical"`
	Message  string        `json:"message,omitempty"`
	Duration time.Duration `json:"duration"`
}

type registeredCheck struct {
	checker  HealthChecker
	critical bool
}

// DefaultHealthRegistry is a thread-safe HealthRegistry.
type DefaultHealthRegistry struct {
	mu           sync.RWMutex
	checks       []registeredCheck
	checkTimeout time.Duration
}

// NewHealthRegistry creates a registry. A positive checkTimeout bounds each
// individual check on top of the caller's context.
func NewHealthRegistry(checkTimeout time.Duration) *DefaultHealthRegistry {
	return &DefaultHealthRegistry{checkTimeout: checkTimeout}
}

// Register adds a critical checker.
func (r *DefaultHealthRegistry) Register(checker HealthChecker) error {
	return r.add(checker, true)
}

// RegisterOptional adds a non-critical checker.
func (r *DefaultHealthRegistry) RegisterOptional(checker HealthChecker) error {
	return r.add(checker, false)
}

func (r *DefaultHealthRegistry) add(checker HealthChecker, critical bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := checker.Name()
	for _, c := range r.checks {
		if c.checker.Name() == name {
			return fmt.Errorf("%w: %s", ErrDuplicateChecker, name)
		}
	}

	r.checks = append(r.checks, registeredCheck{checker: checker, critical: critical})

	return nil
}

// CheckAll runs all registered health checks concurrently.
func (r *DefaultHealthRegistry) CheckAll(ctx context.Context) *HealthResult {
	r.mu.RLock()
	checks := append([]registeredCheck(nil), r.checks...)
	r.mu.RUnlock()

	result := &HealthResult{
		Status:    HealthStatusHealthy,
		Checks:    make(map[string]*CheckResult, len(checks)),
		Timestamp: time.Now(),
	}

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)

	for _, rc := range checks {
		wg.Go(func() {
			res := r.run(ctx, rc)

			mu.Lock()
			defer mu.Unlock()

			result.Checks[rc.checker.Name()] = res
			result.Status = worse(result.Status, res)
		})
	}

	wg.Wait()

	return result
}

func (r *DefaultHealthRegistry) run(ctx context.Context, rc registeredCheck) *CheckResult {
	if r.checkTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.checkTimeout)
		defer cancel()
	}

	start := time.Now()
	err := rc.checker.Check(ctx)

	res := &CheckResult{
		Status:   HealthStatusHealthy,
		Critical: rc.critical,
		Duration: time.Since(start),
	}

	if err != nil {
		res.Status = HealthStatusUnhealthy
		res.Message = err.Error()
	}

	return res
}

// worse folds one check result into the overall status.
func worse(current HealthStatus, res *CheckResult) HealthStatus {
	if res.Status == HealthStatusHealthy || current == HealthStatusUnhealthy {
		return current
	}

	if res.Critical {
		return HealthStatusUnhealthy
	}

	return HealthStatusDegraded
}
