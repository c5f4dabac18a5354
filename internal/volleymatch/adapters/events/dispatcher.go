// Package events доставляет доменные события агрегатов после фиксации единицы работы.
package events

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"volleymatch/internal/volleymatch/ports/services"
	"volleymatch/pkg/domain"
	"volleymatch/pkg/logger"
	"volleymatch/pkg/persistence"
	"volleymatch/pkg/retry"
)

// Константы для сообщений логгера и ошибок.
const (
	LogEventsDispatched = "domain events dispatched"
	LogEventsDiscarded  = "domain events of rolled back work discarded"
	ErrPublishEvents    = "failed to publish domain events"
)

// Dispatcher забирает события из отслеживаемых агрегатов и передает их издателю.
type Dispatcher struct {
	publisher services.EventPublisher
	retrier   *retry.Retrier
}

// DispatcherOption настраивает Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithRetry повторяет публикацию по policy. Доставка становится «хотя бы один раз»:
// при повторе часть событий может быть опубликована дважды.
func WithRetry(policy retry.Policy) DispatcherOption {
	return func(d *Dispatcher) {
		d.retrier = retry.New("events.publish", policy)
	}
}

// NewDispatcher создает диспетчер поверх publisher. Без WithRetry публикация выполняется один раз.
func NewDispatcher(publisher services.EventPublisher, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		publisher: publisher,
		retrier:   retry.New("events.publish", retry.Policy{MaxAttempts: 1}),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Hook возвращает функцию для persistence.WithAfterCommit.
func (d *Dispatcher) Hook() persistence.AfterCommitHook {
	return d.Dispatch
}

// DiscardHook возвращает функцию для persistence.WithAfterRollback.
func (d *Dispatcher) DiscardHook() persistence.AfterRollbackHook {
	return d.Discard
}

// Discard забирает и отбрасывает события roots, записанные в откаченной работе.
func (d *Dispatcher) Discard(ctx context.Context, roots []domain.AggregateRoot) {
	discarded := 0
	for _, root := range roots {
		discarded += len(root.PullEvents())
	}
	if discarded > 0 {
		logger.Log(ctx).Debug(ctx, LogEventsDiscarded, zap.Int("count", discarded))
	}
}

// Dispatch публикует события всех roots в порядке агрегатов и порядке записи событий.
// Забранные события не возвращаются в агрегат даже при ошибке публикации.
func (d *Dispatcher) Dispatch(ctx context.Context, roots []domain.AggregateRoot) error {
	var pending []domain.Event
	for _, root := range roots {
		pending = append(pending, root.PullEvents()...)
	}
	if len(pending) == 0 {
		return nil
	}

	err := d.retrier.Do(ctx, func(ctx context.Context) error {
		return d.publisher.Publish(ctx, pending...)
	})
	if err != nil {
		return fmt.Errorf("%s: %w", ErrPublishEvents, err)
	}

	logger.Log(ctx).Debug(ctx, LogEventsDispatched, zap.Int("count", len(pending)))
	return nil
}
