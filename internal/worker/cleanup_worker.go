// Package worker runs background maintenance: reaping stale interview slots
// and refreshing the open-applications gauge.
package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/yourorg/hireloop/internal/domain"
	"github.com/yourorg/hireloop/internal/observability/metrics"
)

// CleanupWorker periodically removes proposed interview slots that started
// in the past without being booked, and refreshes pipeline gauges.
type CleanupWorker struct {
	store    domain.Store
	logger   *slog.Logger
	interval time.Duration
	grace    time.Duration
}

// NewCleanupWorker creates a cleanup worker. grace is how long past a slot's
// start time it survives before being reaped.
func NewCleanupWorker(store domain.Store, logger *slog.Logger, interval, grace time.Duration) *CleanupWorker {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	if grace <= 0 {
		grace = time.Hour
	}
	return &CleanupWorker{store: store, logger: logger, interval: interval, grace: grace}
}

// Start begins the worker loop. It runs one pass immediately so a restart
// does not delay cleanup by a full interval, then ticks until ctx is done.
func (w *CleanupWorker) Start(ctx context.Context) {
	w.logger.Info("cleanup worker started",
		slog.Duration("interval", w.interval),
		slog.Duration("grace", w.grace),
	)

	w.runOnce(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("cleanup worker stopped")
			return
		case <-ticker.C:
			w.runOnce(ctx)
		}
	}
}

func (w *CleanupWorker) runOnce(ctx context.Context) {
	cutoff := time.Now().Add(-w.grace)
	reaped, err := w.store.InterviewSlots().DeleteExpiredUnbooked(ctx, cutoff)
	if err != nil {
		w.logger.Error("failed to reap expired slots", slog.String("error", err.Error()))
	} else if reaped > 0 {
		metrics.AddExpiredSlotsReaped(reaped)
		w.logger.Info("reaped expired interview slots", slog.Int("count", reaped))
	}

	open, err := w.store.Applications().CountOpen(ctx)
	if err != nil {
		w.logger.Error("failed to count open applications", slog.String("error", err.Error()))
		return
	}
	metrics.SetOpenApplications(open)
}
