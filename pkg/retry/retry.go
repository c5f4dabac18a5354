// Package retry повторяет операции с экспоненциальной задержкой.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"volleymatch/pkg/logger"
)

// Константы для логирования.
const (
	LogRetryAttempt     = "retry attempt"
	LogRetrySuccess     = "retry succeeded"
	LogRetryMaxAttempts = "retry max attempts reached"
)

// ErrContextCanceled возвращается, когда контекст отменен во время ожидания перед повтором.
var ErrContextCanceled = errors.New("context was canceled during retry")

// Policy задает число попыток и рост задержки.
type Policy struct {
	// MaxAttempts включает первую попытку.
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	BackoffFactor  float64
	// ShouldRetry решает, повторять ли операцию после ошибки. nil - повторять всё, кроме отмены контекста.
	ShouldRetry func(error) bool
}

// DefaultPolicy возвращает политику по умолчанию: три попытки, задержка от 100мс до 1с.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:    3,
		InitialBackoff: 100 * time.Millisecond,
		MaxBackoff:     time.Second,
		BackoffFactor:  2,
	}
}

func retryable(err error) bool {
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

// Retrier выполняет операции по одной политике.
type Retrier struct {
	name   string
	policy Policy
}

// New создает Retrier с именем name для логов.
func New(name string, policy Policy) *Retrier {
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}
	if policy.BackoffFactor < 1 {
		policy.BackoffFactor = 1
	}
	if policy.ShouldRetry == nil {
		policy.ShouldRetry = retryable
	}
	return &Retrier{name: name, policy: policy}
}

// Do вызывает op, пока она не завершится успешно, не вернет неповторяемую ошибку
// или не исчерпает попытки. Возвращает последнюю ошибку op.
func (r *Retrier) Do(ctx context.Context, op func(ctx context.Context) error) error {
	log := logger.Log(ctx).With(zap.String("retry", r.name))
	backoff := r.policy.InitialBackoff

	for attempt := 1; ; attempt++ {
		err := op(ctx)
		if err == nil {
			if attempt > 1 {
				log.Info(ctx, LogRetrySuccess, zap.Int("attempts", attempt))
			}
			return nil
		}
		if !r.policy.ShouldRetry(err) {
			return err
		}
		if attempt >= r.policy.MaxAttempts {
			log.Warn(ctx, LogRetryMaxAttempts, zap.Int("attempts", attempt), zap.Error(err))
			return err
		}

		log.Info(ctx, LogRetryAttempt,
			zap.Int("attempt", attempt),
			zap.Duration("backoff", backoff),
			zap.Error(err))

		timer := time.NewTimer(backoff)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("%w: %w", ErrContextCanceled, ctx.Err())
		}

		backoff = time.Duration(float64(backoff) * r.policy.BackoffFactor)
		if r.policy.MaxBackoff > 0 && backoff > r.policy.MaxBackoff {
			backoff = r.policy.MaxBackoff
		}
	}
}
