package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/MrKriegler/insureflow/internal/core"
	"github.com/MrKriegler/insureflow/internal/platform/metrics"
)

// Backlog is one snapshot of work waiting on staff.
type Backlog struct {
	PendingUnassigned int
	StaleUnassigned   int
	PendingClaims     int
	OldestUnassigned  *time.Time
}

// BacklogWorker reports pending applications nobody has picked up and
// claims awaiting a decision. It never changes state.
type BacklogWorker struct {
	BaseWorker
	apps       core.ApplicationRepo
	claims     core.ClaimRepo
	metrics    *metrics.Metrics
	staleAfter time.Duration
	clock      func() time.Time
}

// NewBacklogWorker creates a new backlog worker.
func NewBacklogWorker(
	apps core.ApplicationRepo,
	claims core.ClaimRepo,
	m *metrics.Metrics,
	interval time.Duration,
	staleAfter time.Duration,
	log *slog.Logger,
) *BacklogWorker {
	return &BacklogWorker{
		BaseWorker: NewBaseWorker("backlog", interval, log),
		apps:       apps,
		claims:     claims,
		metrics:    m,
		staleAfter: staleAfter,
		clock:      time.Now,
	}
}

// Start begins the worker polling loop.
func (w *BacklogWorker) Start(ctx context.Context) {
	w.Poll(ctx, func(ctx context.Context) error {
		_, err := w.Scan(ctx)
		return err
	})
}

// Scan counts the current backlog and publishes it.
func (w *BacklogWorker) Scan(ctx context.Context) (Backlog, error) {
	b, err := w.count(ctx)
	if w.metrics != nil {
		w.metrics.BacklogRuns.WithLabelValues(strconv.FormatBool(err == nil)).Inc()
	}
	if err != nil {
		return Backlog{}, err
	}

	if w.metrics != nil {
		w.metrics.PendingUnassigned.Set(float64(b.PendingUnassigned))
		w.metrics.StaleUnassigned.Set(float64(b.StaleUnassigned))
		w.metrics.PendingClaims.Set(float64(b.PendingClaims))
	}

	attrs := []any{
		"pending_unassigned", b.PendingUnassigned,
		"stale_unassigned", b.StaleUnassigned,
		"pending_claims", b.PendingClaims,
	}
	if b.OldestUnassigned != nil {
		attrs = append(attrs, "oldest_unassigned", b.OldestUnassigned.UTC().Format(time.RFC3339))
	}
	if b.StaleUnassigned > 0 {
		w.log.Warn("applications waiting for an agent", attrs...)
	} else {
		w.log.Info("backlog scanned", attrs...)
	}
	return b, nil
}

func (w *BacklogWorker) count(ctx context.Context) (Backlog, error) {
	apps, err := w.apps.List(ctx, core.ApplicationFilter{
		Status:     core.ApplicationStatusPending,
		Unassigned: true,
	})
	if err != nil {
		return Backlog{}, fmt.Errorf("list unassigned applications: %w", err)
	}

	claims, err := w.claims.List(ctx, core.ClaimFilter{Status: core.ClaimStatusPending})
	if err != nil {
		return Backlog{}, fmt.Errorf("list pending claims: %w", err)
	}

	b := Backlog{PendingUnassigned: len(apps), PendingClaims: len(claims)}
	cutoff := w.clock().Add(-w.staleAfter)
	for _, app := range apps {
		if app.AppliedAt.Before(cutoff) {
			b.StaleUnassigned++
		}
		if b.OldestUnassigned == nil || app.AppliedAt.Before(*b.OldestUnassigned) {
			applied := app.AppliedAt
			b.OldestUnassigned = &applied
		}
	}
	return b, nil
}
