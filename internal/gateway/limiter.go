package gateway

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Limiter spaces outbound model calls. Wait returns once the caller may
// start a call at least the configured interval after the previous one.
type Limiter interface {
	Wait(ctx context.Context) error
}

// LocalLimiter is a single-slot gate shared by every caller in the process.
type LocalLimiter struct {
	limiter *rate.Limiter
}

// NewLocalLimiter returns a gate admitting one call per interval. A zero
// interval disables spacing.
func NewLocalLimiter(interval time.Duration) *LocalLimiter {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &LocalLimiter{limiter: rate.NewLimiter(limit, 1)}
}

func (l *LocalLimiter) Wait(ctx context.Context) error {
	return l.limiter.Wait(ctx)
}
