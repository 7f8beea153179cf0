package retry

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestDoSucceedsAfterFailures(t *testing.T) {
	b := Backoff{Attempts: 4, Initial: time.Millisecond, Max: 2 * time.Millisecond}
	calls := 0
	err := b.Do(context.Background(), discard, "connect", func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("connection refused")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDoGivesUp(t *testing.T) {
	b := Backoff{Attempts: 2, Initial: time.Millisecond, Max: time.Millisecond}
	boom := errors.New("connection refused")
	calls := 0
	err := b.Do(context.Background(), discard, "connect to postgres", func(context.Context) error {
		calls++
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.ErrorContains(t, err, "connect to postgres after 2 attempts")
	assert.Equal(t, 2, calls)
}

func TestDoStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	b := Backoff{Attempts: 5, Initial: time.Hour, Max: time.Hour}
	err := b.Do(ctx, discard, "ping", func(context.Context) error {
		cancel()
		return errors.New("no route to host")
	})
	assert.ErrorIs(t, err, context.Canceled)
}
