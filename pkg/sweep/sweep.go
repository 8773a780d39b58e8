package sweep

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Ettuli11/BlockDebt/pkg/loans"
	"github.com/robfig/cron/v3"
)

// DefaultSchedule runs the sweep at the top of every hour.
const DefaultSchedule = "@hourly"

// Sweeper accrues interest across all Active loans.
type Sweeper interface {
	Sweep(ctx context.Context) (loans.SweepReport, error)
}

// Runner triggers a Sweeper on a cron schedule inside the bot process.
type Runner struct {
	cron    *cron.Cron
	sweeper Sweeper
	logger  *slog.Logger
	timeout time.Duration
}

// New creates a Runner. An overlapping run is skipped rather than queued.
func New(sweeper Sweeper, schedule string, loc *time.Location, logger *slog.Logger) (*Runner, error) {
	if schedule == "" {
		schedule = DefaultSchedule
	}
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = slog.Default()
	}

	cl := cronLogger{logger: logger}
	r := &Runner{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		sweeper: sweeper,
		logger:  logger,
		timeout: 10 * time.Minute,
	}

	if _, err := r.cron.AddFunc(schedule, r.run); err != nil {
		return nil, fmt.Errorf("failed to parse sweep schedule %q: %w", schedule, err)
	}
	return r, nil
}

// Start begins running the schedule in the background.
func (r *Runner) Start() {
	r.cron.Start()
	r.logger.Info("accrual sweep scheduled", "next", r.Next())
}

// Next returns the time of the next scheduled sweep.
func (r *Runner) Next() time.Time {
	entries := r.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

// Stop halts the schedule and waits for a running sweep, or for ctx to end.
func (r *Runner) Stop(ctx context.Context) error {
	done := r.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RunOnce performs a single sweep immediately.
func (r *Runner) RunOnce(ctx context.Context) (loans.SweepReport, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return r.sweeper.Sweep(ctx)
}

func (r *Runner) run() {
	if _, err := r.RunOnce(context.Background()); err != nil {
		r.logger.Error("accrual sweep failed", "error", err)
	}
}

// cronLogger routes cron's own logging to slog.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, append(keysAndValues, "error", err)...)
}
