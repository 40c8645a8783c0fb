// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock records requested sleeps without waiting.
func fakeClock(t *testing.T) *[]time.Duration {
	t.Helper()
	var slept []time.Duration
	old := sleep
	sleep = func(_ context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}
	t.Cleanup(func() { sleep = old })
	return &slept
}

func TestDo_ImmediateSuccess(t *testing.T) {
	slept := fakeClock(t)

	calls := 0
	err := Do(context.Background(), DefaultPolicy(), func() error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Empty(t, *slept)
}

func TestDo_RetriesThenSuccess(t *testing.T) {
	slept := fakeClock(t)

	p := Policy{MaxAttempts: 4, BaseDelay: 2 * time.Second, Multiplier: 2}
	calls := 0
	err := Do(context.Background(), p, func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	// Backoff doubles: 2s after the first failure, 4s after the second.
	assert.Equal(t, []time.Duration{2 * time.Second, 4 * time.Second}, *slept)
}

func TestDo_ExhaustsAttempts(t *testing.T) {
	slept := fakeClock(t)

	p := Policy{MaxAttempts: 3, BaseDelay: time.Second, Multiplier: 2}
	last := errors.New("still broken")
	calls := 0
	err := Do(context.Background(), p, func() error {
		calls++
		return last
	})

	assert.ErrorIs(t, err, last)
	assert.Equal(t, 3, calls)
	// No sleep after the final attempt.
	assert.Len(t, *slept, 2)
}

func TestDo_ZeroAttemptsMeansOne(t *testing.T) {
	fakeClock(t)

	calls := 0
	err := Do(context.Background(), Policy{}, func() error {
		calls++
		return errors.New("boom")
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestDo_ContextCancelledDuringWait(t *testing.T) {
	p := Policy{MaxAttempts: 5, BaseDelay: time.Minute, Multiplier: 2}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := Do(ctx, p, func() error {
		calls++
		return errors.New("transient")
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestPolicy_Delay(t *testing.T) {
	tests := []struct {
		name   string
		policy Policy
		n      int
		want   time.Duration
	}{
		{"first wait", Policy{BaseDelay: 2 * time.Second, Multiplier: 2}, 0, 2 * time.Second},
		{"second wait doubles", Policy{BaseDelay: 2 * time.Second, Multiplier: 2}, 1, 4 * time.Second},
		{"third wait doubles again", Policy{BaseDelay: 2 * time.Second, Multiplier: 2}, 2, 8 * time.Second},
		{"custom multiplier", Policy{BaseDelay: time.Second, Multiplier: 3}, 2, 9 * time.Second},
		{"zero multiplier doubles", Policy{BaseDelay: time.Second}, 1, 2 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.policy.Delay(tt.n))
		})
	}
}
