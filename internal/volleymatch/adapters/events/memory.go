package events

import (
	"context"
	"slices"
	"sync"

	"volleymatch/internal/volleymatch/ports/services"
	"volleymatch/pkg/domain"
)

// MemoryPublisher накапливает события в памяти.
type MemoryPublisher struct {
	mu     sync.Mutex
	events []domain.Event
}

var _ services.EventPublisher = (*MemoryPublisher)(nil)

func NewMemoryPublisher() *MemoryPublisher {
	return &MemoryPublisher{}
}

func (p *MemoryPublisher) Publish(_ context.Context, events ...domain.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return nil
}

// Events возвращает опубликованные события.
func (p *MemoryPublisher) Events() []domain.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.events)
}

// Names возвращает имена опубликованных событий.
func (p *MemoryPublisher) Names() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	names := make([]string, 0, len(p.events))
	for _, e := range p.events {
		names = append(names, e.EventName())
	}
	return names
}
