package sqlstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"volleymatch/internal/volleymatch/domain/entities"
	"volleymatch/pkg/domain"
)

func TestVolleyGroupMapper(t *testing.T) {
	mapper := VolleyGroupMapper{}
	owner := entities.NewPlayerID()
	group := entities.RestoreVolleyGroup(entities.VolleyGroupProps{
		ID:      entities.NewVolleyGroupID(),
		Name:    "Date Tech",
		OwnerID: owner,
	})

	t.Run("id lists are stored as json arrays", func(t *testing.T) {
		model := mapper.ToModel(group)
		assert.JSONEq(t, `["`+owner.String()+`"]`, model.MemberIDs)
		assert.JSONEq(t, `[]`, model.GameIDs)
	})

	t.Run("empty columns decode to empty lists", func(t *testing.T) {
		model := mapper.ToModel(group)
		model.MemberIDs, model.GameIDs = "", ""

		restored, err := mapper.ToDomain(model)
		require.NoError(t, err)
		assert.Equal(t, []entities.PlayerID{owner}, restored.MemberIDs())
		assert.Empty(t, restored.GameIDs())
	})

	t.Run("malformed json fails", func(t *testing.T) {
		model := mapper.ToModel(group)
		model.GameIDs = "{"

		_, err := mapper.ToDomain(model)
		require.Error(t, err)
		assert.Contains(t, err.Error(), ErrDecodeIDs)
	})

	t.Run("malformed member id fails", func(t *testing.T) {
		model := mapper.ToModel(group)
		model.MemberIDs = `["not-a-uuid"]`

		_, err := mapper.ToDomain(model)
		assert.ErrorIs(t, err, domain.ErrInvalidIdentifier)
	})
}

func TestPlayerMapper(t *testing.T) {
	mapper := PlayerMapper{}
	player := entities.RestorePlayer(entities.PlayerProps{
		ID:     entities.NewPlayerID(),
		UserID: "user",
		Name:   "Ushijima",
		Stats:  entities.DefaultStats(),
	})

	model := mapper.ToModel(player)
	assert.Len(t, model.values(), len(playerColumns))

	restored, err := mapper.ToDomain(model)
	require.NoError(t, err)
	assert.Equal(t, player.Stats(), restored.Stats())

	model.ID = "x"
	_, err = mapper.ToDomain(model)
	assert.ErrorIs(t, err, domain.ErrInvalidIdentifier)
}
