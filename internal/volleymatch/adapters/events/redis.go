package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"volleymatch/internal/volleymatch/ports/services"
	"volleymatch/pkg/domain"
	"volleymatch/pkg/logger"
)

// Поля записи потока.
const (
	FieldName        = "name"
	FieldAggregateID = "aggregate_id"
	FieldOccurredAt  = "occurred_at"
	FieldPayload     = "payload"
)

// Константы для сообщений об ошибках.
const (
	ErrEncodeEvent = "failed to encode domain event"
	ErrAppendEvent = "failed to append events to stream"
)

// DefaultStream - имя потока Redis по умолчанию.
const DefaultStream = "volleymatch:events"

// RedisPublisher добавляет события в поток Redis командой XADD.
type RedisPublisher struct {
	client redis.Cmdable
	stream string
	maxLen int64
}

var _ services.EventPublisher = (*RedisPublisher)(nil)

// NewRedisPublisher создает издателя в поток stream. maxLen > 0 ограничивает длину потока приблизительно.
func NewRedisPublisher(client redis.Cmdable, stream string, maxLen int64) *RedisPublisher {
	if stream == "" {
		stream = DefaultStream
	}
	return &RedisPublisher{client: client, stream: stream, maxLen: maxLen}
}

// Publish добавляет все события одним конвейером.
func (p *RedisPublisher) Publish(ctx context.Context, events ...domain.Event) error {
	if len(events) == 0 {
		return nil
	}
	log := logger.Log(ctx).With(zap.String("publisher", "redis"), zap.String("stream", p.stream))

	args := make([]*redis.XAddArgs, 0, len(events))
	for _, event := range events {
		payload, err := json.Marshal(event)
		if err != nil {
			return fmt.Errorf("%s: %w", ErrEncodeEvent, err)
		}
		args = append(args, &redis.XAddArgs{
			Stream: p.stream,
			MaxLen: p.maxLen,
			Approx: p.maxLen > 0,
			Values: map[string]any{
				FieldName:        event.EventName(),
				FieldAggregateID: event.AggregateID(),
				FieldOccurredAt:  event.OccurredAt().UTC().Format(time.RFC3339Nano),
				FieldPayload:     string(payload),
			},
		})
	}

	_, err := p.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, a := range args {
			pipe.XAdd(ctx, a)
		}
		return nil
	})
	if err != nil {
		log.Error(ctx, ErrAppendEvent, zap.Error(err), zap.Int("count", len(events)))
		return fmt.Errorf("%s: %w", ErrAppendEvent, err)
	}
	return nil
}
