// Package retry runs startup probes with capped exponential backoff.
package retry

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

type Backoff struct {
	Attempts int
	Initial  time.Duration
	Max      time.Duration
}

// Startup is used while dependencies come up alongside the API.
var Startup = Backoff{Attempts: 5, Initial: time.Second, Max: 30 * time.Second}

// Do calls op until it succeeds, the attempts run out or ctx ends. The last
// error is returned wrapped with name.
func (b Backoff) Do(ctx context.Context, log *slog.Logger, name string, op func(context.Context) error) error {
	if log == nil {
		log = slog.Default()
	}
	wait := b.Initial
	var err error
	for attempt := 1; attempt <= b.Attempts; attempt++ {
		if err = op(ctx); err == nil {
			return nil
		}
		if attempt == b.Attempts {
			break
		}
		log.Warn(name+" failed, retrying", "attempt", attempt, "backoff", wait, "err", err)
		select {
		case <-ctx.Done():
			return fmt.Errorf("%s: %w", name, ctx.Err())
		case <-time.After(wait):
		}
		wait = min(wait*2, b.Max)
	}
	return fmt.Errorf("%s after %d attempts: %w", name, b.Attempts, err)
}
