// Package timer runs periodic tasks on a ticker with optional jitter.
package timer

import (
	"context"
	"math/rand"
	"time"

	jitterbug "github.com/lthibault/jitterbug/v2"

	log "github.com/sirupsen/logrus"
)

type Interval struct {
	Duration time.Duration
	Jitter   time.Duration
}

type spread struct {
	max time.Duration
}

func (s spread) Jitter(d time.Duration) time.Duration {
	if s.max == 0 || s.max >= d {
		return d
	}
	return d + time.Duration(rand.Int63n(int64(2*s.max))) - s.max
}

// RunWithTicker invokes f once per interval until the context is cancelled or
// f returns an error. Missed ticks are not caught up.
func RunWithTicker(ctx context.Context, interval *Interval, f func(ctx context.Context) error) error {
	t := jitterbug.New(interval.Duration, spread{max: interval.Jitter})
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			if err := f(ctx); err != nil {
				log.Errorf("timer: periodic task failed: %v", err)
				return err
			}
		}
	}
}
