package crawl

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Pacer inserts a fixed courtesy delay between consecutive requests to one
// site. It is politeness, not a correctness mechanism: no jitter, no backoff.
type Pacer struct {
	lim *rate.Limiter
}

// NewPacer creates a Pacer that allows one request per interval with a burst
// of 1, so the first request passes immediately. A non-positive interval
// disables pacing.
func NewPacer(interval time.Duration) *Pacer {
	if interval <= 0 {
		return &Pacer{}
	}
	return &Pacer{lim: rate.NewLimiter(rate.Every(interval), 1)}
}

// Wait blocks until the next request is allowed.
// Returns an error only if the context is canceled first.
func (p *Pacer) Wait(ctx context.Context) error {
	if p == nil || p.lim == nil {
		return nil
	}
	return p.lim.Wait(ctx)
}
