// Package jobs factors the process-internal cron scheduling that drives the
// outbox dispatcher, broadcast engine, recurring-assignment materializer and
// report archiver into a standalone, testable component (C10).
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// slogCronLogger adapts a *slog.Logger to cron.Logger so robfig/cron's own
// internal logging (including cron.Recover's panic reports) flows through
// the same structured logger as the rest of the service.
type slogCronLogger struct {
	logger *slog.Logger
}

// Info implements cron.Logger.
func (l *slogCronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Info(msg, keysAndValues...)
}

// Error implements cron.Logger.
func (l *slogCronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	args := append([]interface{}{"error", err}, keysAndValues...)
	l.logger.Error(msg, args...)
}

// Runner owns the in-process cron scheduler that drives the job-runner
// cadences named in config (C10). Each registered job runs through
// cron.Recover so a panic in one job is logged and does not bring down the
// scheduler or any other job.
type Runner struct {
	cron   *cron.Cron
	logger *slog.Logger
}

// NewRunner creates a Runner with no jobs registered yet. Jobs chain through
// SkipIfStillRunning so a slow invocation never overlaps its own next
// trigger.
func NewRunner(logger *slog.Logger) *Runner {
	cl := &slogCronLogger{logger: logger.With("component", "jobs")}
	c := cron.New(cron.WithLogger(cl), cron.WithChain(cron.SkipIfStillRunning(cl), cron.Recover(cl)))
	return &Runner{cron: c, logger: logger.With("component", "jobs")}
}

// Register schedules fn on spec (a robfig/cron expression, including the
// "@every"/"@hourly"/"@daily" shorthands). fn is run with a background
// context; each invocation is independent of the others.
func (r *Runner) Register(spec, name string, fn func(ctx context.Context)) error {
	_, err := r.cron.AddFunc(spec, func() {
		fn(context.Background())
	})
	if err != nil {
		return fmt.Errorf("register job %q on schedule %q: %w", name, spec, err)
	}
	r.logger.Info("registered job", "name", name, "schedule", spec)
	return nil
}

// Start begins running registered jobs on their schedules. Non-blocking.
func (r *Runner) Start() {
	r.cron.Start()
	r.logger.Info("job runner started")
}

// Stop asks the scheduler to stop and waits up to 10s for any in-flight job
// invocations to finish, matching the process shutdown budget (C11).
func (r *Runner) Stop() {
	stopCtx := r.cron.Stop()
	select {
	case <-stopCtx.Done():
		r.logger.Info("job runner stopped cleanly")
	case <-time.After(10 * time.Second):
		r.logger.Warn("job runner stop timed out after 10s, some jobs may still be running")
	}
}
