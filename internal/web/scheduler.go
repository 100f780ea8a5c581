package web

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"feedhub/internal/feed"
)

// Scheduler runs the fetch+store pipeline on a cron schedule, independent of
// client requests.
type Scheduler struct {
	cron *cron.Cron
	env  *feed.Env
}

func NewScheduler(env *feed.Env) *Scheduler {
	return &Scheduler{
		cron: cron.New(),
		env:  env,
	}
}

// Schedule registers a refresh on the given cron expression.
func (s *Scheduler) Schedule(expr string) error {
	if _, err := s.cron.AddFunc(expr, func() { s.run(expr) }); err != nil {
		return err
	}
	slog.Info("feed refresh scheduled", "cron", expr)
	return nil
}

// Start begins the cron scheduler.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the cron scheduler.
func (s *Scheduler) Stop() {
	s.cron.Stop()
}

// run is one scheduled refresh. The stored snapshot is overwritten even when
// the fresh payload is empty: a scheduled run finding zero items is still
// authoritative. Errors are logged and swallowed; a failed refresh must never
// take down the scheduler.
func (s *Scheduler) run(expr string) {
	if s.env.Store == nil {
		slog.Warn("scheduled refresh skipped, no cache store configured")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := feed.RecordLastCron(ctx, s.env.Store, expr); err != nil {
		slog.Error("failed to record cron marker", "error", err)
	}

	payload, err := feed.Fetch(ctx, s.env)
	if err != nil {
		slog.Error("scheduled feed refresh failed", "error", err)
		return
	}

	if err := feed.StorePayload(ctx, s.env.Store, payload); err != nil {
		slog.Error("failed to store refreshed feed", "error", err)
		return
	}

	slog.Info("feed refreshed", "items", len(payload.Items), "version", payload.Version)
}
