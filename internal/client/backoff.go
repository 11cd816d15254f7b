package client

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/mshears713/HudsonBayOutposts/internal/core/domain"
)

// Default retry policy values.
const (
	DefaultBaseDelay   = time.Second
	DefaultFactor      = 2.0
	DefaultMaxAttempts = 4
)

// Classification partitions faults into retry behavior.
type Classification int

const (
	// Retryable faults may succeed on a later attempt.
	Retryable Classification = iota
	// Fatal faults will not succeed on retry.
	Fatal
)

// Policy describes deterministic exponential backoff.
//
// The delay before retry i (zero-based) is BaseDelay * Factor^i.
// No jitter is applied: identical fault sequences produce identical
// timing, which keeps sync runs reproducible across outposts.
type Policy struct {
	// BaseDelay is the delay before the first retry.
	BaseDelay time.Duration

	// Factor is the multiplier applied per retry.
	Factor float64

	// MaxAttempts bounds the total attempts, including the first.
	MaxAttempts int
}

// DefaultPolicy returns the standard retry policy.
func DefaultPolicy() Policy {
	return Policy{
		BaseDelay:   DefaultBaseDelay,
		Factor:      DefaultFactor,
		MaxAttempts: DefaultMaxAttempts,
	}
}

// Delay returns the wait before retry i (zero-based).
func (p Policy) Delay(i int) time.Duration {
	if i < 0 {
		i = 0
	}
	return time.Duration(float64(p.BaseDelay) * math.Pow(p.Factor, float64(i)))
}

// Classify partitions an error into Retryable or Fatal.
//
// Network failures and the transient server statuses 500, 502, 503 and
// 504 are retryable. Everything else, including protocol faults and
// client-side rejections, is fatal. Context cancellation is fatal.
func Classify(err error) Classification {
	if err == nil {
		return Fatal
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return Fatal
	}

	var fe *domain.FaultError
	if !errors.As(err, &fe) {
		// Unclassified errors are treated as network faults.
		return Retryable
	}

	switch fe.Category {
	case domain.FaultNetwork:
		return Retryable
	case domain.FaultServer:
		switch fe.StatusCode {
		case 0, 500, 502, 503, 504:
			return Retryable
		}
		return Fatal
	default:
		return Fatal
	}
}
