package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"agrihire-backend/models"
	"agrihire-backend/utils/logger"

	"github.com/robfig/cron"
)

const (
	// tokenCleanupSchedule drops revoked tokens once they would have expired anyway.
	tokenCleanupSchedule = "@every 10m"
	sweepTimeout         = 5 * time.Minute
)

// ExpirySweeper deactivates jobs whose expiry date has passed.
type ExpirySweeper interface {
	DeactivateExpiredJobs(ctx context.Context) (int64, error)
}

// TokenCleaner forgets revoked tokens past their expiry.
type TokenCleaner interface {
	CleanupExpiredTokens()
}

// Worker runs the periodic maintenance jobs on a cron schedule.
type Worker struct {
	schedule string
	jobs     ExpirySweeper
	tokens   TokenCleaner
	status   *StatusManager
	cron     *cron.Cron
	logger   logger.Logger

	mu        sync.Mutex
	sweeping  sync.Mutex
	isRunning bool
	ctx       context.Context
	cancel    context.CancelFunc
}

// NewWorker builds a worker for cfg.ExpirySweepSchedule. tokens may be nil.
func NewWorker(cfg *models.Config, jobs ExpirySweeper, tokens TokenCleaner, log logger.Logger) (*Worker, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if jobs == nil {
		return nil, fmt.Errorf("expiry sweeper cannot be nil")
	}
	if log == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	if err := validateSchedule(cfg.ExpirySweepSchedule); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Worker{
		schedule: cfg.ExpirySweepSchedule,
		jobs:     jobs,
		tokens:   tokens,
		status:   NewStatusManager(cfg.AppEnv),
		cron:     cron.New(),
		logger:   log,
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

// validateSchedule accepts six-field expressions with seconds and
// descriptors such as @hourly or @every 30m.
func validateSchedule(schedule string) error {
	if schedule == "" {
		return fmt.Errorf("expiry sweep schedule is required")
	}
	parser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	if _, err := parser.Parse(schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", schedule, err)
	}
	return nil
}

// Start registers the jobs and starts the scheduler.
func (w *Worker) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.isRunning {
		return fmt.Errorf("worker is already running")
	}
	select {
	case <-w.ctx.Done():
		return fmt.Errorf("worker context is cancelled, cannot start")
	default:
	}

	if err := w.cron.AddFunc(w.schedule, w.sweepJob); err != nil {
		return fmt.Errorf("failed to add expiry sweep: %w", err)
	}
	if w.tokens != nil {
		if err := w.cron.AddFunc(tokenCleanupSchedule, w.tokens.CleanupExpiredTokens); err != nil {
			return fmt.Errorf("failed to add token cleanup: %w", err)
		}
	}

	w.cron.Start()
	w.isRunning = true
	w.logger.Infof("Maintenance worker started, expiry sweep schedule: %s", w.schedule)
	return nil
}

// Stop halts the scheduler and cancels a sweep in flight.
func (w *Worker) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.isRunning {
		return nil
	}
	w.cancel()
	w.cron.Stop()
	w.isRunning = false
	w.logger.Info("Maintenance worker stopped")
	return nil
}

// IsRunning returns whether the scheduler is started
func (w *Worker) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.isRunning
}

// Status returns the outcome of the last sweep.
func (w *Worker) Status() (*ExecutionResult, bool) {
	return w.status.Last()
}

func (w *Worker) sweepJob() {
	ctx, cancel := context.WithTimeout(w.ctx, sweepTimeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			w.logger.Errorf("Expiry sweep panicked: %v", r)
			w.status.Finish(0, fmt.Errorf("panic: %v", r))
		}
	}()

	if _, err := w.RunSweep(ctx); err != nil && err != ErrSweepInProgress {
		w.logger.Errorf("Expiry sweep failed: %v", err)
	}
}

// RunSweep deactivates expired jobs now. Overlapping calls return
// ErrSweepInProgress.
func (w *Worker) RunSweep(ctx context.Context) (int64, error) {
	if !w.sweeping.TryLock() {
		w.logger.Debug("Expiry sweep still running, skipping")
		return 0, ErrSweepInProgress
	}
	defer w.sweeping.Unlock()

	w.status.Begin()
	n, err := w.jobs.DeactivateExpiredJobs(ctx)
	w.status.Finish(n, err)
	return n, err
}
