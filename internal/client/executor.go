package client

import (
	"context"
	"time"

	"github.com/mshears713/HudsonBayOutposts/internal/core/domain"
	"github.com/mshears713/HudsonBayOutposts/internal/telemetry/logger"
	"github.com/mshears713/HudsonBayOutposts/internal/telemetry/metric"
)

// SleepFunc waits for the given duration or until the context ends.
// Injected in tests to avoid real delays.
type SleepFunc func(ctx context.Context, d time.Duration) error

// defaultSleep honors context cancellation while waiting.
func defaultSleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Executor runs operations with deterministic retry.
type Executor struct {
	policy  Policy
	sleep   SleepFunc
	log     logger.Logger
	metrics *metric.Registry
}

// ExecutorOption configures the Executor.
type ExecutorOption func(*Executor)

// WithSleep overrides the wait function. Used by tests.
func WithSleep(sleep SleepFunc) ExecutorOption {
	return func(e *Executor) { e.sleep = sleep }
}

// WithMetrics attaches a metrics registry.
func WithMetrics(m *metric.Registry) ExecutorOption {
	return func(e *Executor) { e.metrics = m }
}

// NewExecutor creates an executor with the given policy.
// The logger may be nil.
func NewExecutor(policy Policy, log logger.Logger, opts ...ExecutorOption) *Executor {
	if policy.MaxAttempts <= 0 {
		policy.MaxAttempts = DefaultMaxAttempts
	}
	if policy.BaseDelay <= 0 {
		policy.BaseDelay = DefaultBaseDelay
	}
	if policy.Factor <= 0 {
		policy.Factor = DefaultFactor
	}
	if log == nil {
		log = logger.Default()
	}

	e := &Executor{
		policy: policy,
		sleep:  defaultSleep,
		log:    log,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Do runs the operation, retrying retryable faults up to the policy's
// attempt budget. The last error is returned when attempts run out.
// Fatal faults and context cancellation end the loop immediately.
func (e *Executor) Do(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	var lastErr error

	for attempt := 0; attempt < e.policy.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := fn(ctx)
		if err == nil {
			if attempt > 0 {
				e.log.Info("operation recovered",
					"op", op,
					"attempt", attempt+1)
			}
			return nil
		}
		lastErr = err

		if Classify(err) == Fatal {
			e.log.Warn("operation failed",
				"op", op,
				"attempt", attempt+1,
				"error", err.Error())
			return err
		}

		if attempt == e.policy.MaxAttempts-1 {
			break
		}

		delay := e.policy.Delay(attempt)
		e.log.Warn("operation will retry",
			"op", op,
			"attempt", attempt+1,
			"max_attempts", e.policy.MaxAttempts,
			"delay", delay.String(),
			"error", err.Error())
		if e.metrics != nil {
			e.metrics.RetryAttempts.WithLabelValues(string(domain.CategoryOf(err))).Inc()
		}

		if err := e.sleep(ctx, delay); err != nil {
			return err
		}
	}

	e.log.Error("operation exhausted retries",
		"op", op,
		"attempts", e.policy.MaxAttempts,
		"error", lastErr.Error())
	return lastErr
}
