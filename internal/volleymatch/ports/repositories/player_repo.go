package repositories

import (
	"context"

	"volleymatch/internal/volleymatch/domain/entities"
	"volleymatch/pkg/persistence"
)

// PlayerRepository определяет операции хранения игроков.
type PlayerRepository interface {
	persistence.SearchableRepository[entities.PlayerID, *entities.Player]

	// FindByUserID возвращает false, если у пользователя нет игрока.
	FindByUserID(ctx context.Context, scope persistence.Scope, userID string) (*entities.Player, bool, error)
}
