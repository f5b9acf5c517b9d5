// Package retention deletes parse logs that are older than the configured
// retention period.
package retention

import (
	"context"
	"log/slog"
	"time"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"

	"github.com/hrygo/yotei/store"
)

// Store is the interface for store operations needed by the retention runner.
type Store interface {
	DeleteParseLogs(ctx context.Context, delete *store.DeleteParseLog) (int64, error)
}

type Runner struct {
	store     Store
	retention time.Duration
	schedule  cron.Schedule
	spec      string
	now       func() time.Time
}

// NewRunner creates a retention runner. spec is a standard cron expression or
// descriptor such as "@daily". A non-positive retention disables the runner.
func NewRunner(s Store, retention time.Duration, spec string) (*Runner, error) {
	r := &Runner{
		store:     s,
		retention: retention,
		spec:      spec,
		now:       time.Now,
	}
	if retention <= 0 {
		return r, nil
	}
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid retention schedule %q", spec)
	}
	r.schedule = schedule
	return r, nil
}

// Enabled reports whether the runner deletes anything.
func (r *Runner) Enabled() bool {
	return r.retention > 0
}

// Run starts the background task and blocks until ctx is done.
func (r *Runner) Run(ctx context.Context) {
	if !r.Enabled() {
		slog.Info("parse log retention disabled")
		return
	}

	c := cron.New()
	c.Schedule(r.schedule, cron.FuncJob(func() {
		if _, err := r.RunOnce(ctx); err != nil {
			slog.Error("failed to purge parse logs", "error", err)
		}
	}))
	c.Start()
	slog.Info("retention runner started", "schedule", r.spec, "retention", r.retention.String())

	<-ctx.Done()
	<-c.Stop().Done()
	slog.Info("retention runner stopped")
}

// RunOnce deletes every log created before now minus the retention period
// and returns how many were removed.
func (r *Runner) RunOnce(ctx context.Context) (int64, error) {
	if !r.Enabled() {
		return 0, nil
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	cutoff := r.now().Add(-r.retention).Unix()
	deleted, err := r.store.DeleteParseLogs(ctx, &store.DeleteParseLog{CreatedBefore: &cutoff})
	if err != nil {
		return 0, errors.Wrap(err, "failed to delete expired parse logs")
	}
	if deleted > 0 {
		slog.Info("expired parse logs deleted", "count", deleted, "cutoff", cutoff)
	}
	return deleted, nil
}
