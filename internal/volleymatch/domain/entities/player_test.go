package entities_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"volleymatch/internal/volleymatch/domain/entities"
	"volleymatch/pkg/domain"
)

func newValidPlayer(t *testing.T) *entities.Player {
	t.Helper()
	player, outcome, err := entities.NewPlayer(entities.NewPlayerInput{
		UserID: uuid.NewString(),
		Name:   "Mikasa",
	})
	require.NoError(t, err)
	require.False(t, outcome.HasErrors(), outcome.String())
	return player
}

func TestNewPlayer(t *testing.T) {
	t.Run("valid input creates player with default stats", func(t *testing.T) {
		player := newValidPlayer(t)

		assert.False(t, player.ID().IsZero())
		assert.Equal(t, entities.DefaultStats(), player.Stats())
		assert.False(t, player.HasBeenEvaluated())
		assert.Empty(t, player.AvatarKey())

		events := player.PullEvents()
		require.Len(t, events, 1)
		assert.Equal(t, entities.PlayerCreatedEvent, events[0].EventName())
		assert.Equal(t, player.ID().String(), events[0].AggregateID())
	})

	t.Run("explicit id is kept", func(t *testing.T) {
		id := uuid.NewString()
		player, _, err := entities.NewPlayer(entities.NewPlayerInput{ID: id, UserID: uuid.NewString(), Name: "Kageyama"})
		require.NoError(t, err)
		assert.Equal(t, id, player.ID().String())
	})

	t.Run("malformed id fails immediately", func(t *testing.T) {
		_, _, err := entities.NewPlayer(entities.NewPlayerInput{ID: "nope", UserID: uuid.NewString(), Name: "Kageyama"})
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInvalidIdentifier)
	})

	t.Run("all violations are reported together", func(t *testing.T) {
		_, outcome, err := entities.NewPlayer(entities.NewPlayerInput{UserID: "user", Name: " "})
		require.NoError(t, err)
		require.True(t, outcome.HasErrors())

		assert.Equal(t, []string{"name", "user_id"}, outcome.Fields())
		assert.Equal(t, []string{"must not be blank", "must be at least 3 characters long"}, outcome.Messages("name"))
		assert.Equal(t, []string{"must be a valid UUID"}, outcome.Messages("user_id"))
	})
}

func TestPlayerChangeName(t *testing.T) {
	player := newValidPlayer(t)

	t.Run("only the name is validated", func(t *testing.T) {
		outcome := player.ChangeName("Al")
		assert.Equal(t, []string{"name"}, outcome.Fields())
		assert.Equal(t, "Al", player.Name())
	})

	t.Run("valid name", func(t *testing.T) {
		assert.False(t, player.ChangeName("Hinata").HasErrors())
	})
}

func TestPlayerEvaluate(t *testing.T) {
	t.Run("valid stats mark player as evaluated", func(t *testing.T) {
		player := newValidPlayer(t)
		player.PullEvents()

		stats := entities.Stats{Attack: 90, Defense: 60, Set: 60, Service: 60, Block: 60, Reception: 60, Positioning: 60, Consistency: 60}
		outcome := player.Evaluate(stats)

		require.False(t, outcome.HasErrors())
		assert.True(t, player.HasBeenEvaluated())
		assert.Equal(t, stats, player.Stats())

		events := player.PullEvents()
		require.Len(t, events, 1)
		evaluated, ok := events[0].(entities.PlayerEvaluated)
		require.True(t, ok)
		assert.Equal(t, 65, evaluated.Overall)
	})

	t.Run("out of range stats are reported per field", func(t *testing.T) {
		player := newValidPlayer(t)
		player.PullEvents()

		stats := entities.DefaultStats()
		stats.Attack = 101
		stats.Block = -1
		outcome := player.Evaluate(stats)

		assert.Equal(t, []string{"attack_stat", "block_stat"}, outcome.Fields())
		assert.Equal(t, []string{"must be less than or equal to 100"}, outcome.Messages("attack_stat"))
		assert.Equal(t, []string{"must be greater than or equal to 0"}, outcome.Messages("block_stat"))
		assert.Zero(t, player.PendingEvents())
	})
}

func TestPlayerOverall(t *testing.T) {
	tests := []struct {
		name  string
		stats entities.Stats
		want  int
	}{
		{"default stats", entities.DefaultStats(), 52},
		{"balanced high", stats(80, 80, 80, 80, 80, 80, 80, 80), 82},
		{"capped at maximum", stats(100, 100, 100, 100, 100, 100, 100, 100), 100},
		{"all zero gets balance bonus", stats(0, 0, 0, 0, 0, 0, 0, 0), 2},
		{"uneven stats lose the bonus", stats(90, 90, 90, 90, 70, 70, 70, 70), 82},
		{"attack specialist", stats(90, 60, 60, 60, 60, 60, 60, 60), 65},
		{"small deviation keeps part of the bonus", stats(51, 50, 50, 50, 50, 50, 50, 50), 52},
		{"consistency bump", stats(60, 60, 60, 60, 60, 60, 60, 62), 61},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			player := entities.RestorePlayer(entities.PlayerProps{
				ID:     entities.NewPlayerID(),
				UserID: uuid.NewString(),
				Name:   "Bokuto",
				Stats:  tt.stats,
			})
			assert.Equal(t, tt.want, player.Overall())
		})
	}
}

// stats принимает значения в порядке attack, service, set, defense, block, positioning, reception, consistency.
func stats(attack, service, set, defense, block, positioning, reception, consistency int) entities.Stats {
	return entities.Stats{
		Attack:      attack,
		Service:     service,
		Set:         set,
		Defense:     defense,
		Block:       block,
		Positioning: positioning,
		Reception:   reception,
		Consistency: consistency,
	}
}

func TestRestorePlayer(t *testing.T) {
	id := entities.NewPlayerID()
	player := entities.RestorePlayer(entities.PlayerProps{
		ID:               id,
		UserID:           "u",
		Name:             "x",
		HasBeenEvaluated: true,
		AvatarKey:        "avatars/x.png",
	})

	assert.Equal(t, id, player.ID())
	assert.True(t, player.HasBeenEvaluated())
	assert.Equal(t, "avatars/x.png", player.AvatarKey())
	assert.Zero(t, player.PendingEvents(), "restoring must not record events")
}
