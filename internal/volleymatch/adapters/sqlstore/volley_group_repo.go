package sqlstore

import (
	"context"

	"github.com/Masterminds/squirrel"

	"volleymatch/internal/volleymatch/domain/entities"
	"volleymatch/internal/volleymatch/ports/repositories"
	"volleymatch/pkg/persistence"
)

// VolleyGroupRepository хранит группы в таблице volley_groups.
type VolleyGroupRepository struct {
	*persistence.SQLRepository[entities.VolleyGroupID, *entities.VolleyGroup, volleyGroupModel]
}

var _ repositories.VolleyGroupRepository = (*VolleyGroupRepository)(nil)

// NewVolleyGroupRepository создает репозиторий групп поверх подключения units.
// Собственные транзакции репозитория открываются через units.
func NewVolleyGroupRepository(units *persistence.Factory) *VolleyGroupRepository {
	return &VolleyGroupRepository{
		SQLRepository: persistence.NewSQLRepository(units.Conn(), persistence.RepositoryConfig[entities.VolleyGroupID, *entities.VolleyGroup, volleyGroupModel]{
			Entity: entities.VolleyGroupEntity,
			Table: persistence.Table[volleyGroupModel]{
				Name:         "volley_groups",
				Columns:      volleyGroupColumns,
				Values:       volleyGroupModel.values,
				HasUpdatedAt: true,
				DefaultOrder: "created_at DESC",
			},
			Mapper: VolleyGroupMapper{},
			NewID:  entities.ParseVolleyGroupID,
			SortableFields: map[string]string{
				"name":       "name",
				"created_at": "created_at",
			},
			Filter: nameFilter,
			Units:  units,
		}),
	}
}

// FindByOwnerID возвращает группы, которыми владеет игрок ownerID.
func (r *VolleyGroupRepository) FindByOwnerID(
	ctx context.Context,
	scope persistence.Scope,
	ownerID entities.PlayerID,
) ([]*entities.VolleyGroup, error) {
	return r.FindBy(ctx, scope, squirrel.Eq{"owner_id": ownerID.String()})
}
