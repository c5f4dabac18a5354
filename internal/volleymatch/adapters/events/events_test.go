package events_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"volleymatch/internal/volleymatch/adapters/events"
	"volleymatch/internal/volleymatch/domain/entities"
	"volleymatch/pkg/domain"
	"volleymatch/pkg/logger"
	"volleymatch/pkg/retry"
)

func testContext() context.Context {
	return logger.NewContext(context.Background(), logger.NewNop())
}

func newPlayer(t *testing.T, name string) *entities.Player {
	t.Helper()
	player, _, err := entities.NewPlayer(entities.NewPlayerInput{UserID: uuid.NewString(), Name: name})
	require.NoError(t, err)
	return player
}

type failingPublisher struct{}

func (failingPublisher) Publish(context.Context, ...domain.Event) error {
	return errors.New("broker unavailable")
}

// flakyPublisher отказывает failures раз, затем передает события в MemoryPublisher.
type flakyPublisher struct {
	failures int
	calls    int
	target   *events.MemoryPublisher
}

func (p *flakyPublisher) Publish(ctx context.Context, evs ...domain.Event) error {
	p.calls++
	if p.calls <= p.failures {
		return errors.New("connection reset")
	}
	return p.target.Publish(ctx, evs...)
}

func TestDispatcher(t *testing.T) {
	ctx := testContext()

	t.Run("events are published in aggregate order and pulled once", func(t *testing.T) {
		publisher := events.NewMemoryPublisher()
		dispatcher := events.NewDispatcher(publisher)

		first, second := newPlayer(t, "Hinata"), newPlayer(t, "Kageyama")
		second.Evaluate(entities.DefaultStats())

		require.NoError(t, dispatcher.Dispatch(ctx, []domain.AggregateRoot{first, second}))
		assert.Equal(t, []string{
			entities.PlayerCreatedEvent,
			entities.PlayerCreatedEvent,
			entities.PlayerEvaluatedEvent,
		}, publisher.Names())

		require.NoError(t, dispatcher.Hook()(ctx, []domain.AggregateRoot{first, second}))
		assert.Len(t, publisher.Events(), 3, "pulled events are not published twice")
	})

	t.Run("nothing to publish", func(t *testing.T) {
		require.NoError(t, events.NewDispatcher(failingPublisher{}).Dispatch(ctx, nil))
	})

	t.Run("publisher failure is wrapped", func(t *testing.T) {
		err := events.NewDispatcher(failingPublisher{}).Dispatch(ctx, []domain.AggregateRoot{newPlayer(t, "Tanaka")})
		require.Error(t, err)
		assert.Contains(t, err.Error(), events.ErrPublishEvents)
	})

	t.Run("transient failure is retried", func(t *testing.T) {
		publisher := &flakyPublisher{failures: 2, target: events.NewMemoryPublisher()}
		policy := retry.Policy{MaxAttempts: 3, InitialBackoff: time.Millisecond, BackoffFactor: 2}
		dispatcher := events.NewDispatcher(publisher, events.WithRetry(policy))

		require.NoError(t, dispatcher.Dispatch(ctx, []domain.AggregateRoot{newPlayer(t, "Asahi")}))
		assert.Equal(t, 3, publisher.calls)
		assert.Equal(t, []string{entities.PlayerCreatedEvent}, publisher.target.Names())
	})

	t.Run("without retry a failure is final", func(t *testing.T) {
		publisher := &flakyPublisher{failures: 1, target: events.NewMemoryPublisher()}

		require.Error(t, events.NewDispatcher(publisher).Dispatch(ctx, []domain.AggregateRoot{newPlayer(t, "Sugawara")}))
		assert.Equal(t, 1, publisher.calls)
	})

	t.Run("discarded events are never published", func(t *testing.T) {
		publisher := events.NewMemoryPublisher()
		dispatcher := events.NewDispatcher(publisher)
		player := newPlayer(t, "Ennoshita")

		dispatcher.DiscardHook()(ctx, []domain.AggregateRoot{player})
		assert.Zero(t, player.PendingEvents())

		require.NoError(t, dispatcher.Dispatch(ctx, []domain.AggregateRoot{player}))
		assert.Empty(t, publisher.Events())
	})
}

func TestRedisPublisher(t *testing.T) {
	ctx := testContext()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	player := newPlayer(t, "Nishinoya")
	pending := player.PullEvents()

	publisher := events.NewRedisPublisher(client, "", 0)
	require.NoError(t, publisher.Publish(ctx, pending...))

	messages, err := client.XRange(ctx, events.DefaultStream, "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, messages, 1)

	values := messages[0].Values
	assert.Equal(t, entities.PlayerCreatedEvent, values[events.FieldName])
	assert.Equal(t, player.ID().String(), values[events.FieldAggregateID])
	assert.NotEmpty(t, values[events.FieldOccurredAt])

	var payload struct {
		AggregateID string `json:"aggregate_id"`
		Name        string `json:"name"`
	}
	require.NoError(t, json.Unmarshal([]byte(values[events.FieldPayload].(string)), &payload))
	assert.Equal(t, player.ID().String(), payload.AggregateID)
	assert.Equal(t, "Nishinoya", payload.Name)

	t.Run("no events is a no-op", func(t *testing.T) {
		require.NoError(t, publisher.Publish(ctx))
	})

	t.Run("closed server fails", func(t *testing.T) {
		mr.Close()
		err := publisher.Publish(ctx, pending...)
		require.Error(t, err)
		assert.Contains(t, err.Error(), events.ErrAppendEvent)
	})
}
