// Package scheduler runs background jobs on cron schedules.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/jsamuelsen/portfolio-service/internal/platform/logging"
	"github.com/jsamuelsen/portfolio-service/internal/platform/metrics"
)

// DefaultJobTimeout bounds a single run when a job sets no timeout.
const DefaultJobTimeout = 5 * time.Minute

// Job is a named unit of scheduled work.
type Job struct {
	Name    string
	Spec    string
	Timeout time.Duration
	Run     func(ctx context.Context) error
}

// Scheduler owns a cron runner. Overlapping runs of the same job are skipped
// and panics are recovered.
type Scheduler struct {
	cron    *cron.Cron
	logger  *slog.Logger
	metrics *metrics.Metrics

	mu      sync.Mutex
	ctx     context.Context
	cancel  context.CancelFunc
	entries map[string]cron.EntryID
}

// New creates a stopped scheduler.
func New(logger *slog.Logger, m *metrics.Metrics) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}

	logger = logger.With(slog.String("component", "scheduler"))
	cronLogger := cronLog{logger: logger}

	ctx, cancel := context.WithCancel(logging.WithContext(context.Background(), logger))

	return &Scheduler{
		cron: cron.New(
			cron.WithLogger(cronLogger),
			cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
		),
		logger:  logger,
		metrics: m,
		ctx:     ctx,
		cancel:  cancel,
		entries: make(map[string]cron.EntryID),
	}
}

// Add schedules job. Spec accepts standard five-field expressions and
// descriptors such as @hourly.
func (s *Scheduler) Add(job Job) error {
	if job.Name == "" || job.Run == nil {
		return errors.New("scheduler: job needs a name and a run function")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[job.Name]; ok {
		return fmt.Errorf("scheduler: job %q already scheduled", job.Name)
	}

	id, err := s.cron.AddFunc(job.Spec, func() { s.run(job) })
	if err != nil {
		return fmt.Errorf("scheduling %s (%q): %w", job.Name, job.Spec, err)
	}

	s.entries[job.Name] = id
	s.logger.Info("job scheduled", slog.String("job", job.Name), slog.String("spec", job.Spec))

	return nil
}

// Next returns when job runs next, or false when it is unknown or the
// scheduler has not started.
func (s *Scheduler) Next(name string) (time.Time, bool) {
	s.mu.Lock()
	id, ok := s.entries[name]
	s.mu.Unlock()

	if !ok {
		return time.Time{}, false
	}

	next := s.cron.Entry(id).Next

	return next, !next.IsZero()
}

// Start begins running jobs in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts scheduling, cancels running jobs and waits for them to return
// or for ctx to end.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	s.cancel()

	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for scheduled jobs: %w", ctx.Err())
	}
}

func (s *Scheduler) run(job Job) {
	timeout := job.Timeout
	if timeout <= 0 {
		timeout = DefaultJobTimeout
	}

	ctx, cancel := context.WithTimeout(s.ctx, timeout)
	defer cancel()

	ctx = logging.With(ctx, slog.String("job", job.Name))
	logger := logging.FromContext(ctx)

	start := time.Now()
	err := job.Run(ctx)
	s.metrics.JobRun(job.Name, err)

	if err != nil {
		logger.ErrorContext(ctx, "scheduled job failed", slog.Any("error", err), slog.Duration("duration", time.Since(start)))
		return
	}

	logger.DebugContext(ctx, "scheduled job finished", slog.Duration("duration", time.Since(start)))
}

// cronLog adapts slog to cron.Logger.
type cronLog struct {
	logger *slog.Logger
}

func (l cronLog) Info(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l cronLog) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error(msg, append([]any{slog.Any("error", err)}, keysAndValues...)...)
}
