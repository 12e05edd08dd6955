package timer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunWithTickerStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	ticks := 0
	done := make(chan error, 1)
	go func() {
		done <- RunWithTicker(ctx, &Interval{Duration: 10 * time.Millisecond}, func(ctx context.Context) error {
			ticks++
			return nil
		})
	}()

	time.Sleep(60 * time.Millisecond)
	cancel()

	err := <-done
	require.ErrorIs(t, err, context.Canceled)
	assert.Greater(t, ticks, 0, "the task must have run at least once")
}

func TestRunWithTickerStopsOnTaskError(t *testing.T) {
	boom := errors.New("boom")
	err := RunWithTicker(context.Background(), &Interval{Duration: time.Millisecond}, func(ctx context.Context) error {
		return boom
	})
	require.ErrorIs(t, err, boom)
}
