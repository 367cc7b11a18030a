// Package retry holds the attempt budget and backoff schedule for content enhancement.
package retry

import (
	"context"
	"fmt"
	"time"

	"git.home.luguber.info/inful/docapply/internal/config"
)

// Policy encapsulates the attempt budget and the delay between attempts.
// It is immutable after construction.
type Policy struct {
	Mode        config.RetryBackoffMode // none|fixed|linear|exponential
	Initial     time.Duration           // base delay
	Max         time.Duration           // cap for growth
	MaxAttempts int                     // total attempts, including the first
}

// DefaultPolicy returns the enhancement default: 10 attempts, no delay.
func DefaultPolicy() Policy {
	return Policy{Mode: config.RetryBackoffNone, MaxAttempts: config.DefaultMaxAttempts}
}

// NewPolicy builds a policy from raw config fields; zero/invalid values fall back to defaults.
func NewPolicy(mode config.RetryBackoffMode, initial, maxDuration time.Duration, maxAttempts int) Policy {
	p := DefaultPolicy()
	if maxAttempts > 0 {
		p.MaxAttempts = maxAttempts
	}
	if initial > 0 {
		p.Initial = initial
	}
	if maxDuration > 0 {
		p.Max = maxDuration
	}
	switch mode {
	case config.RetryBackoffNone, config.RetryBackoffFixed, config.RetryBackoffLinear, config.RetryBackoffExponential:
		p.Mode = mode
	default:
		// unknown -> keep default
	}
	if p.Max == 0 || p.Initial > p.Max {
		p.Max = p.Initial
	}
	return p
}

// FromConfig builds the policy for an enhancement configuration.
func FromConfig(e config.EnhancementConfig) Policy {
	return NewPolicy(e.Retry.Backoff, e.Retry.Initial, e.Retry.Max, e.MaxAttempts)
}

// Delay returns the backoff delay before the given retry (1-based: first retry => 1).
func (p Policy) Delay(retryCount int) time.Duration {
	if retryCount <= 0 || p.Initial <= 0 {
		return 0
	}
	switch p.Mode {
	case config.RetryBackoffNone:
		return 0
	case config.RetryBackoffFixed:
		return p.Initial
	case config.RetryBackoffExponential:
		d := p.Initial * (1 << (retryCount - 1))
		if d > p.Max || d <= 0 {
			return p.Max
		}
		return d
	default: // linear
		d := time.Duration(retryCount) * p.Initial
		if d > p.Max {
			return p.Max
		}
		return d
	}
}

// Wait sleeps for Delay(retryCount) or until ctx is done.
func (p Policy) Wait(ctx context.Context, retryCount int) error {
	d := p.Delay(retryCount)
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Validate ensures invariants; returns error if policy impossible to apply.
func (p Policy) Validate() error {
	if p.MaxAttempts <= 0 {
		return fmt.Errorf("max attempts must be >0")
	}
	if p.Initial < 0 || p.Max < 0 {
		return fmt.Errorf("delays cannot be negative")
	}
	return nil
}
