// Package resilience retries transient failures of outbound calls.
package resilience

import (
	"context"
	"math"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"
)

// Policy describes how many times a call is attempted and how long to wait
// between attempts.
type Policy struct {
	// Attempts is the total number of calls, including the first. Values
	// below 1 are treated as 1.
	Attempts int

	BaseDelay time.Duration
	MaxDelay  time.Duration

	// Jitter spreads each delay by up to ±Jitter of its value.
	Jitter float64

	// Retryable overrides IsTransient when set.
	Retryable func(err error) bool

	// OnRetry runs before each wait.
	OnRetry func(attempt int, err error)
}

// NewPolicy returns a policy with exponential backoff starting at base and
// doubling per attempt up to 30s.
func NewPolicy(attempts int, base time.Duration) Policy {
	return Policy{
		Attempts:  attempts,
		BaseDelay: base,
		MaxDelay:  30 * time.Second,
		Jitter:    0.25,
	}
}

// Run calls fn until it succeeds, returns a non-retryable error, the
// attempts are used up, or ctx is done. The last error is returned.
func Run[T any](ctx context.Context, p Policy, fn func(ctx context.Context) (T, error)) (T, error) {
	attempts := max(p.Attempts, 1)
	retryable := p.Retryable
	if retryable == nil {
		retryable = IsTransient
	}

	var zero T
	for attempt := 1; ; attempt++ {
		val, err := fn(ctx)
		if err == nil {
			return val, nil
		}
		if ctx.Err() != nil || !retryable(err) || attempt >= attempts {
			return zero, err
		}
		if p.OnRetry != nil {
			p.OnRetry(attempt, err)
		}

		timer := time.NewTimer(p.delay(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, err
		case <-timer.C:
		}
	}
}

// delay is the wait after the given 1-based attempt.
func (p Policy) delay(attempt int) time.Duration {
	if p.BaseDelay <= 0 {
		return 0
	}
	d := float64(p.BaseDelay) * math.Pow(2, float64(attempt-1))
	if p.MaxDelay > 0 && d > float64(p.MaxDelay) {
		d = float64(p.MaxDelay)
	}
	if p.Jitter > 0 {
		d += (rand.Float64()*2 - 1) * d * p.Jitter
	}
	return time.Duration(max(d, 0))
}

// LogRetries returns an OnRetry hook that logs each retry at warn level.
func LogRetries(service, op string) func(int, error) {
	return func(attempt int, err error) {
		zap.L().Warn("retrying call",
			zap.String("service", service),
			zap.String("op", op),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
	}
}
