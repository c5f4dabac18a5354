package domain

import "time"

// Event - доменное событие, записанное агрегатом.
type Event interface {
	EventName() string
	AggregateID() string
	OccurredAt() time.Time
}

// BaseEvent содержит общие поля доменных событий.
type BaseEvent struct {
	Aggregate string    `json:"aggregate_id"`
	Occurred  time.Time `json:"occurred_at"`
}

// NewBaseEvent фиксирует идентификатор агрегата и текущее время.
func NewBaseEvent(aggregateID string) BaseEvent {
	return BaseEvent{Aggregate: aggregateID, Occurred: time.Now().UTC()}
}

func (e BaseEvent) AggregateID() string {
	return e.Aggregate
}

func (e BaseEvent) OccurredAt() time.Time {
	return e.Occurred
}

// AggregateRoot - корень агрегата, который можно отслеживать в единице работы.
type AggregateRoot interface {
	PullEvents() []Event
}

// BaseAggregate добавляет к сущности накопление доменных событий.
type BaseAggregate[ID Identifier] struct {
	BaseEntity[ID]
	events []Event
}

// NewBaseAggregate создает основу агрегата с идентификатором id.
func NewBaseAggregate[ID Identifier](id ID) BaseAggregate[ID] {
	return BaseAggregate[ID]{BaseEntity: NewBaseEntity(id)}
}

// RecordEvent добавляет событие в очередь агрегата.
func (a *BaseAggregate[ID]) RecordEvent(event Event) {
	a.events = append(a.events, event)
}

// PullEvents возвращает накопленные события и очищает очередь.
func (a *BaseAggregate[ID]) PullEvents() []Event {
	events := a.events
	a.events = nil
	return events
}

// PendingEvents возвращает число событий, еще не забранных диспетчером.
func (a *BaseAggregate[ID]) PendingEvents() int {
	return len(a.events)
}

// Aggregate объединяет идентичность сущности и поведение корня агрегата.
type Aggregate[ID Identifier] interface {
	AggregateRoot
	Entity[ID]
}
