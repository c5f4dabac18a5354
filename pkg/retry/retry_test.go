package retry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"volleymatch/pkg/logger"
	"volleymatch/pkg/retry"
)

var errTransient = errors.New("connection reset")

func fastPolicy(attempts int) retry.Policy {
	return retry.Policy{MaxAttempts: attempts, InitialBackoff: time.Millisecond, MaxBackoff: 2 * time.Millisecond, BackoffFactor: 2}
}

func TestRetrier(t *testing.T) {
	ctx := logger.NewContext(context.Background(), logger.NewNop())

	t.Run("first success makes one call", func(t *testing.T) {
		calls := 0
		err := retry.New("test", fastPolicy(3)).Do(ctx, func(context.Context) error {
			calls++
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("transient failure is retried", func(t *testing.T) {
		calls := 0
		err := retry.New("test", fastPolicy(3)).Do(ctx, func(context.Context) error {
			calls++
			if calls < 3 {
				return errTransient
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("last error is returned after max attempts", func(t *testing.T) {
		calls := 0
		err := retry.New("test", fastPolicy(2)).Do(ctx, func(context.Context) error {
			calls++
			return errTransient
		})
		assert.ErrorIs(t, err, errTransient)
		assert.Equal(t, 2, calls)
	})

	t.Run("non retryable error stops immediately", func(t *testing.T) {
		policy := fastPolicy(5)
		policy.ShouldRetry = func(err error) bool { return !errors.Is(err, errTransient) }

		calls := 0
		err := retry.New("test", policy).Do(ctx, func(context.Context) error {
			calls++
			return errTransient
		})
		assert.ErrorIs(t, err, errTransient)
		assert.Equal(t, 1, calls)
	})

	t.Run("canceled context aborts the wait", func(t *testing.T) {
		ctx, cancel := context.WithCancel(ctx)
		policy := retry.Policy{MaxAttempts: 3, InitialBackoff: time.Hour}

		err := retry.New("test", policy).Do(ctx, func(context.Context) error {
			cancel()
			return errTransient
		})
		assert.ErrorIs(t, err, retry.ErrContextCanceled)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("zero policy makes a single attempt", func(t *testing.T) {
		calls := 0
		err := retry.New("test", retry.Policy{}).Do(ctx, func(context.Context) error {
			calls++
			return errTransient
		})
		assert.ErrorIs(t, err, errTransient)
		assert.Equal(t, 1, calls)
	})
}
