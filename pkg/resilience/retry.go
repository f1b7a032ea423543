// Package resilience retries the connection handshakes of optional
// backing services (Redis, PostgreSQL) that may still be starting when a
// tool is launched.
package resilience

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"time"
)

type Backoff struct {
	Attempts       int
	InitialDelay   time.Duration
	MaxDelay       time.Duration
	Multiplier     float64
	JitterFraction float64
	// AttemptTimeout bounds each call to the dial function.
	AttemptTimeout time.Duration
}

func DefaultBackoff() Backoff {
	return Backoff{
		Attempts:       3,
		InitialDelay:   200 * time.Millisecond,
		MaxDelay:       5 * time.Second,
		Multiplier:     2.0,
		JitterFraction: 0.1,
		AttemptTimeout: 5 * time.Second,
	}
}

// WithAttempts returns the default backoff with n attempts; n <= 0 keeps
// the default.
func WithAttempts(n int) Backoff {
	b := DefaultBackoff()
	if n > 0 {
		b.Attempts = n
	}
	return b
}

// Connect calls dial until it succeeds, the attempts run out or ctx is
// done. Each attempt gets its own deadline.
func Connect(ctx context.Context, name string, b Backoff, dial func(ctx context.Context) error) error {
	b = b.withDefaults()
	logger := slog.Default().With("component", "connect", "service", name)
	var lastErr error
	for attempt := 1; attempt <= b.Attempts; attempt++ {
		lastErr = dialOnce(ctx, b.AttemptTimeout, dial)
		if lastErr == nil {
			if attempt > 1 {
				logger.Info("connected after retry", "attempt", attempt)
			}
			return nil
		}
		if attempt == b.Attempts {
			break
		}
		if ctx.Err() != nil {
			return fmt.Errorf("connecting to %s aborted: %w", name, ctx.Err())
		}
		delay := b.delay(attempt)
		logger.Warn("connection failed, retrying",
			"attempt", attempt,
			"max_attempts", b.Attempts,
			"error", lastErr,
			"next_delay", delay,
		)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return fmt.Errorf("connecting to %s aborted during backoff: %w", name, ctx.Err())
		}
	}
	return fmt.Errorf("connecting to %s failed after %d attempts: %w", name, b.Attempts, lastErr)
}

func dialOnce(ctx context.Context, timeout time.Duration, dial func(ctx context.Context) error) error {
	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return dial(attemptCtx)
}

func (b Backoff) withDefaults() Backoff {
	d := DefaultBackoff()
	if b.Attempts <= 0 {
		b.Attempts = d.Attempts
	}
	if b.InitialDelay <= 0 {
		b.InitialDelay = d.InitialDelay
	}
	if b.MaxDelay <= 0 {
		b.MaxDelay = d.MaxDelay
	}
	if b.Multiplier <= 0 {
		b.Multiplier = d.Multiplier
	}
	if b.JitterFraction < 0 {
		b.JitterFraction = 0
	}
	if b.AttemptTimeout <= 0 {
		b.AttemptTimeout = d.AttemptTimeout
	}
	return b
}

func (b Backoff) delay(attempt int) time.Duration {
	backoff := float64(b.InitialDelay) * math.Pow(b.Multiplier, float64(attempt-1))
	backoff += backoff * b.JitterFraction * (2*rand.Float64() - 1)
	if backoff > float64(b.MaxDelay) {
		backoff = float64(b.MaxDelay)
	}
	if backoff < 0 {
		backoff = float64(b.InitialDelay)
	}
	return time.Duration(backoff)
}
