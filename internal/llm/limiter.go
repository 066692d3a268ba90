package llm

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

type limitedClient struct {
	next    Client
	limiter *rate.Limiter
	timeout time.Duration
}

// withLimits throttles calls to next and bounds each one with timeout.
// A non-positive limit disables throttling.
func withLimits(next Client, limit rate.Limit, timeout time.Duration) Client {
	burst := 1
	if limit <= 0 {
		limit = rate.Inf
	} else if limit > 1 {
		burst = int(limit)
	}
	return &limitedClient{
		next:    next,
		limiter: rate.NewLimiter(limit, burst),
		timeout: timeout,
	}
}

func (c *limitedClient) Complete(ctx context.Context, req Request) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	return c.next.Complete(ctx, req)
}
