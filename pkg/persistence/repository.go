package persistence

import (
	"context"

	"volleymatch/pkg/domain"
	"volleymatch/pkg/search"
)

// ExistsResult разбивает запрошенные идентификаторы на найденные и отсутствующие.
type ExistsResult[ID domain.Identifier] struct {
	Exists    []ID
	NotExists []ID
}

// Repository - контракт хранения агрегатов A с идентификатором ID.
// Каждая операция исполняется в явно переданной области scope.
type Repository[ID domain.Identifier, A domain.Aggregate[ID]] interface {
	// Save вставляет или обновляет агрегат.
	Save(ctx context.Context, scope Scope, aggregate A) error
	// SaveMany вставляет или обновляет агрегаты одним запросом.
	SaveMany(ctx context.Context, scope Scope, aggregates []A) error
	// FindByID возвращает false, если агрегат не найден.
	FindByID(ctx context.Context, scope Scope, id ID) (A, bool, error)
	FindMany(ctx context.Context, scope Scope) ([]A, error)
	// FindManyByIDs может вернуть меньше агрегатов, чем запрошено.
	FindManyByIDs(ctx context.Context, scope Scope, ids []ID) ([]A, error)
	// Update возвращает *domain.EntityNotFoundError, если строки нет.
	Update(ctx context.Context, scope Scope, aggregate A) error
	// Delete возвращает *domain.EntityNotFoundError, если ничего не удалено.
	Delete(ctx context.Context, scope Scope, id ID) error
	// DeleteManyByIDs удаляет все агрегаты или ни одного.
	DeleteManyByIDs(ctx context.Context, scope Scope, ids []ID) error
	ExistsByID(ctx context.Context, scope Scope, ids []ID) (ExistsResult[ID], error)
}

// SearchableRepository добавляет постраничный поиск с сортировкой по разрешенным полям.
type SearchableRepository[ID domain.Identifier, A domain.Aggregate[ID]] interface {
	Repository[ID, A]
	Search(ctx context.Context, scope Scope, params search.Params) (search.Result[A], error)
	SortableFields() []string
}

// Mapper переводит агрегат в строку хранилища и обратно.
type Mapper[A any, M any] interface {
	ToDomain(model M) (A, error)
	ToModel(aggregate A) M
}
