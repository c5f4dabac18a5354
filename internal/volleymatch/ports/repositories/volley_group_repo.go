package repositories

import (
	"context"

	"volleymatch/internal/volleymatch/domain/entities"
	"volleymatch/pkg/persistence"
)

// VolleyGroupRepository определяет операции хранения групп.
type VolleyGroupRepository interface {
	persistence.SearchableRepository[entities.VolleyGroupID, *entities.VolleyGroup]

	FindByOwnerID(ctx context.Context, scope persistence.Scope, ownerID entities.PlayerID) ([]*entities.VolleyGroup, error)
}
