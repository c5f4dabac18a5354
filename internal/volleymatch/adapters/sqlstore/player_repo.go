package sqlstore

import (
	"context"

	"github.com/Masterminds/squirrel"

	"volleymatch/internal/volleymatch/domain/entities"
	"volleymatch/internal/volleymatch/ports/repositories"
	"volleymatch/pkg/persistence"
)

// PlayerRepository хранит игроков в таблице players.
type PlayerRepository struct {
	*persistence.SQLRepository[entities.PlayerID, *entities.Player, playerModel]
}

var _ repositories.PlayerRepository = (*PlayerRepository)(nil)

// NewPlayerRepository создает репозиторий игроков поверх подключения units.
// Собственные транзакции репозитория открываются через units.
func NewPlayerRepository(units *persistence.Factory) *PlayerRepository {
	return &PlayerRepository{
		SQLRepository: persistence.NewSQLRepository(units.Conn(), persistence.RepositoryConfig[entities.PlayerID, *entities.Player, playerModel]{
			Entity: entities.PlayerEntity,
			Table: persistence.Table[playerModel]{
				Name:         "players",
				Columns:      playerColumns,
				Values:       playerModel.values,
				HasUpdatedAt: true,
				DefaultOrder: "created_at DESC",
			},
			Mapper: PlayerMapper{},
			NewID:  entities.ParsePlayerID,
			SortableFields: map[string]string{
				"name":       "name",
				"created_at": "created_at",
			},
			Filter: nameFilter,
			Units:  units,
		}),
	}
}

// FindByUserID ищет игрока пользователя userID.
func (r *PlayerRepository) FindByUserID(ctx context.Context, scope persistence.Scope, userID string) (*entities.Player, bool, error) {
	players, err := r.FindBy(ctx, scope, squirrel.Eq{"user_id": userID})
	if err != nil {
		return nil, false, err
	}
	if len(players) == 0 {
		return nil, false, nil
	}
	return players[0], true, nil
}

func nameFilter(filter string, dialect persistence.Dialect) squirrel.Sqlizer {
	return squirrel.Expr("name "+dialect.Like+" ?", "%"+filter+"%")
}
