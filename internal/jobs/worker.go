package jobs

import (
	"context"
	"log/slog"
	"time"
)

// Worker defines a background job that polls for work.
type Worker interface {
	Start(ctx context.Context)
	Name() string
}

// BaseWorker provides common polling infrastructure.
type BaseWorker struct {
	name     string
	interval time.Duration
	log      *slog.Logger
}

// NewBaseWorker creates a new base worker.
func NewBaseWorker(name string, interval time.Duration, log *slog.Logger) BaseWorker {
	return BaseWorker{
		name:     name,
		interval: interval,
		log:      log.With("worker", name),
	}
}

// Name returns the worker name.
func (w *BaseWorker) Name() string {
	return w.name
}

// Poll runs work immediately and then once per interval until ctx is
// cancelled. A run may not outlast the interval.
func (w *BaseWorker) Poll(ctx context.Context, work func(context.Context) error) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.log.Info("worker started", "interval", w.interval)
	w.runOnce(ctx, work)

	for {
		select {
		case <-ctx.Done():
			w.log.Info("worker stopping")
			return
		case <-ticker.C:
			w.runOnce(ctx, work)
		}
	}
}

func (w *BaseWorker) runOnce(ctx context.Context, work func(context.Context) error) {
	runCtx, cancel := context.WithTimeout(ctx, w.interval)
	defer cancel()

	start := time.Now()
	if err := work(runCtx); err != nil {
		if ctx.Err() != nil {
			return
		}
		w.log.Error("worker error", "err", err, "elapsed", time.Since(start))
		return
	}
	w.log.Debug("worker run complete", "elapsed", time.Since(start))
}
