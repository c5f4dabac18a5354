package services

import (
	"context"

	"volleymatch/pkg/domain"
)

// EventPublisher доставляет доменные события после фиксации транзакции.
type EventPublisher interface {
	Publish(ctx context.Context, events ...domain.Event) error
}
