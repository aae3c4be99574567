// Package throttle paces successive calls to external providers.
package throttle

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Throttle blocks until the next call is allowed.
type Throttle interface {
	Wait(ctx context.Context) error
}

type intervalThrottle struct {
	limiter *rate.Limiter
}

// NewInterval allows at most one call per interval. A non-positive interval
// disables pacing.
func NewInterval(interval time.Duration) Throttle {
	if interval <= 0 {
		return Noop()
	}
	return &intervalThrottle{
		limiter: rate.NewLimiter(rate.Every(interval), 1),
	}
}

func (t *intervalThrottle) Wait(ctx context.Context) error {
	return t.limiter.Wait(ctx)
}

type noopThrottle struct{}

// Noop never waits.
func Noop() Throttle {
	return noopThrottle{}
}

func (noopThrottle) Wait(ctx context.Context) error {
	return ctx.Err()
}
