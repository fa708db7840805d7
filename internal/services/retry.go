package services

import (
	"context"
	"errors"
	"math"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"google.golang.org/api/googleapi"
)

// RetryConfig controls retry behavior for outbound platform calls.
type RetryConfig struct {
	MaxRetries  int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultRetryConfig is used when a service is built without explicit retry settings.
var DefaultRetryConfig = RetryConfig{
	MaxRetries:  2,
	InitialWait: 250 * time.Millisecond,
	MaxWait:     5 * time.Second,
	Multiplier:  2.0,
}

// RetryDo calls fn until it succeeds, returns a non-retryable error, or MaxRetries retries have been spent.
//
// Waits between attempts grow exponentially from InitialWait and are capped at MaxWait.
// Cancellation of ctx stops the loop immediately.
func RetryDo[T any](ctx context.Context, rc RetryConfig, logger *log.Logger, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error

	for attempt := 0; attempt <= rc.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !IsRetryable(err) {
			return zero, err
		}

		if attempt < rc.MaxRetries {
			wait := backoff(rc, attempt)
			if logger != nil {
				logger.Debug("retrying", "attempt", attempt+1, "wait", wait, "error", err)
			}
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return zero, ctx.Err()
			}
		}
	}
	return zero, lastErr
}

func backoff(rc RetryConfig, attempt int) time.Duration {
	mult := rc.Multiplier
	if mult < 1 {
		mult = 1
	}
	wait := time.Duration(float64(rc.InitialWait) * math.Pow(mult, float64(attempt)))
	if rc.MaxWait > 0 && wait > rc.MaxWait {
		wait = rc.MaxWait
	}
	return wait
}

// IsRetryable reports whether err is a transient failure worth retrying.
//
// Platform errors are retried on 429 and 5xx gateway statuses; network errors on dial, DNS and timeout failures.
// Cancellation is never retried; a per-call timeout is, as long as the caller's context is still live.
func IsRetryable(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return isRetryableStatus(apiErr.Code)
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

func isRetryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}
