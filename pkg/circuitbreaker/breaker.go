package circuitbreaker

import (
	"errors"
	"fmt"
	"time"

	"github.com/abroadmap/abroadmap/pkg/logger"
	"github.com/abroadmap/abroadmap/pkg/metrics"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// ErrOpen is returned while the breaker rejects calls
var ErrOpen = gobreaker.ErrOpenState

// Settings tune when the breaker trips and how long it stays open
type Settings struct {
	Name string
	// ConsecutiveFailures trips the breaker
	ConsecutiveFailures uint32
	// OpenFor is how long calls are rejected before a probe is let through
	OpenFor time.Duration
	// Probes is the number of calls allowed while half-open
	Probes uint32
}

// DefaultSettings suits an interactive client talking to one backend
func DefaultSettings(name string) Settings {
	return Settings{
		Name:                name,
		ConsecutiveFailures: 5,
		OpenFor:             30 * time.Second,
		Probes:              1,
	}
}

// Breaker stops calling a backend that keeps failing at the transport level.
// A nil *Breaker lets every call through.
type Breaker struct {
	cb *gobreaker.CircuitBreaker
}

// New creates a breaker
func New(s Settings) *Breaker {
	threshold := s.ConsecutiveFailures
	if threshold == 0 {
		threshold = 1
	}

	return &Breaker{cb: gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        s.Name,
		MaxRequests: s.Probes,
		Timeout:     s.OpenFor,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			open := 0.0
			if to == gobreaker.StateOpen {
				open = 1
			}
			metrics.BackendBreakerOpen.WithLabelValues(name).Set(open)
			logger.Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})}
}

// Open reports whether calls are currently rejected
func (b *Breaker) Open() bool {
	return b != nil && b.cb.State() == gobreaker.StateOpen
}

// Run calls fn through b
func Run[T any](b *Breaker, fn func() (T, error)) (T, error) {
	if b == nil {
		return fn()
	}

	var out T
	_, err := b.cb.Execute(func() (any, error) {
		var err error
		out, err = fn()
		return nil, err
	})
	if err != nil {
		var zero T
		return zero, wrap(b.cb.Name(), err)
	}
	return out, nil
}

func wrap(name string, err error) error {
	switch {
	case errors.Is(err, gobreaker.ErrOpenState):
		return fmt.Errorf("circuit breaker '%s' is open: %w", name, err)
	case errors.Is(err, gobreaker.ErrTooManyRequests):
		return fmt.Errorf("circuit breaker '%s' is probing the backend: %w", name, err)
	}
	return err
}
