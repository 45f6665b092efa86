package retry

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/abroadmap/abroadmap/pkg/logger"
	"go.uber.org/zap"
)

// Policy describes how often and how patiently a failed call is repeated
type Policy struct {
	// Retries is the number of extra attempts after the first one
	Retries   int
	BaseDelay time.Duration
	MaxDelay  time.Duration
	// Jitter spreads each delay by up to a quarter in either direction
	Jitter bool
	// Retryable reports whether err is worth another attempt; nil retries everything
	// except context cancellation
	Retryable func(error) bool
}

// None makes a single attempt
func None() Policy {
	return Policy{}
}

// Backoff doubles the delay from 200ms up to 2s between attempts
func Backoff(retries int) Policy {
	return Policy{
		Retries:   retries,
		BaseDelay: 200 * time.Millisecond,
		MaxDelay:  2 * time.Second,
		Jitter:    true,
	}
}

// Do runs fn until it succeeds, the policy gives up or ctx ends.
// With no retries the error from fn is returned as is.
func Do[T any](ctx context.Context, p Policy, operation string, fn func() (T, error)) (T, error) {
	var zero T

	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		out, err := fn()
		if err == nil {
			if attempt > 0 {
				logger.Info("Backend call recovered",
					zap.String("operation", operation),
					zap.Int("attempt", attempt+1))
			}
			return out, nil
		}

		if p.Retries == 0 || !p.retryable(err) {
			return zero, err
		}
		if attempt == p.Retries {
			logger.Warn("Backend call gave up",
				zap.String("operation", operation),
				zap.Int("attempts", attempt+1),
				zap.Error(err))
			return zero, fmt.Errorf("%s failed after %d attempts: %w", operation, attempt+1, err)
		}

		delay := p.delay(attempt)
		logger.Debug("Retrying backend call",
			zap.String("operation", operation),
			zap.Int("attempt", attempt+1),
			zap.Duration("delay", delay),
			zap.Error(err))

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, ctx.Err()
		case <-timer.C:
		}
	}
}

func (p Policy) retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return p.Retryable == nil || p.Retryable(err)
}

// delay is the pause before attempt+1
func (p Policy) delay(attempt int) time.Duration {
	d := p.BaseDelay
	for i := 0; i < attempt && (p.MaxDelay <= 0 || d < p.MaxDelay); i++ {
		d *= 2
	}
	if p.MaxDelay > 0 && d > p.MaxDelay {
		d = p.MaxDelay
	}

	if p.Jitter && d > 0 {
		spread := int64(d) / 2
		//nolint:gosec // G404: math/rand is sufficient for retry jitter
		d += time.Duration(rand.Int63n(spread+1) - spread/2)
	}
	return d
}
