// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package retry implements bounded retry with exponential backoff.
package retry

import (
	"context"
	"time"
)

// Policy describes how an operation is retried: how many attempts to make,
// how long to wait after the first failure, and how the wait grows. The zero
// value means a single attempt with no waiting.
type Policy struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int

	// BaseDelay is the wait after the first failed attempt.
	BaseDelay time.Duration

	// Multiplier scales the wait after every further failure. Values of
	// zero or less mean doubling.
	Multiplier float64
}

// DefaultPolicy matches the CLI defaults: three attempts, a two second base
// delay, doubling each time.
func DefaultPolicy() Policy {
	return Policy{MaxAttempts: 3, BaseDelay: 2 * time.Second, Multiplier: 2}
}

// Delay returns the wait before attempt n+2, where n is the zero-based index
// of the attempt that just failed: BaseDelay, then BaseDelay*Multiplier, and
// so on.
func (p Policy) Delay(n int) time.Duration {
	mult := p.Multiplier
	if mult <= 0 {
		mult = 2
	}
	d := float64(p.BaseDelay)
	for range n {
		d *= mult
	}
	return time.Duration(d)
}

// sleep waits for d or until ctx ends. Tests swap it for a fake clock.
var sleep = func(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// Do runs attempt until it succeeds or the policy is exhausted, sleeping with
// exponential backoff between failures. It returns nil on the first success,
// the context error if the context ends during a wait, and the last attempt
// error once the policy is spent. MaxAttempts of zero or less means one
// attempt.
func Do(ctx context.Context, p Policy, attempt func() error) error {
	attempts := p.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}

	var err error
	for n := range attempts {
		if err = attempt(); err == nil {
			return nil
		}
		if n == attempts-1 {
			break
		}
		if serr := sleep(ctx, p.Delay(n)); serr != nil {
			return serr
		}
	}
	return err
}
