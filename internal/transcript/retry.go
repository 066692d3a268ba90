package transcript

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net"
	"net/http"
	"time"
)

type retryConfig struct {
	MaxRetries  int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

var defaultRetry = retryConfig{
	MaxRetries:  2,
	InitialWait: 500 * time.Millisecond,
	MaxWait:     5 * time.Second,
	Multiplier:  2.0,
}

// statusError is returned for non-200 upstream responses.
type statusError struct {
	StatusCode int
	URL        string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("HTTP %d from %s", e.StatusCode, e.URL)
}

// doWithRetry sends the request built by build, retrying transient failures
// with exponential backoff. The caller owns the returned body.
func (f *implFetcher) doWithRetry(ctx context.Context, build func() (*http.Request, error)) (*http.Response, error) {
	var lastErr error

	for attempt := 0; attempt <= f.retry.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		req, err := build()
		if err != nil {
			return nil, err
		}

		resp, err := f.client.Do(req)
		if err == nil {
			if resp.StatusCode == http.StatusOK {
				return resp, nil
			}
			resp.Body.Close()
			err = &statusError{StatusCode: resp.StatusCode, URL: req.URL.Redacted()}
		}
		lastErr = err

		if !isRetryable(err) || attempt == f.retry.MaxRetries {
			break
		}

		wait := time.Duration(float64(f.retry.InitialWait) * math.Pow(f.retry.Multiplier, float64(attempt)))
		if wait > f.retry.MaxWait {
			wait = f.retry.MaxWait
		}
		f.logger.Debug(ctx, "Retrying %s in %s (attempt %d): %v", req.URL.Path, wait, attempt+1, err)

		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return nil, lastErr
}

func isRetryable(err error) bool {
	var se *statusError
	if errors.As(err, &se) {
		switch se.StatusCode {
		case 429, 500, 502, 503, 504:
			return true
		}
		return false
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}

	return false
}
