package persistence

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/Masterminds/squirrel"
	"go.uber.org/zap"

	"volleymatch/pkg/domain"
	"volleymatch/pkg/logger"
	"volleymatch/pkg/search"
)

// Константы для сообщений логгера.
const (
	LogUnknownSortField = "sort field is not allowed, using default order"
	LogDeleteMismatch   = "deleted rows do not match existing ids"
)

// Константы для сообщений об ошибках.
const (
	ErrBuildQuery  = "failed to build query"
	ErrSaveRows    = "failed to save rows"
	ErrFindRows    = "failed to find rows"
	ErrUpdateRow   = "failed to update row"
	ErrDeleteRows  = "failed to delete rows"
	ErrCheckExists = "failed to check existing ids"
	ErrCountRows   = "failed to count rows"
	ErrMapRow      = "failed to map row to aggregate"
)

// UpdatedAtColumn обновляется при каждой записи, если таблица его объявляет.
const UpdatedAtColumn = "updated_at"

// Table описывает таблицу строк M.
type Table[M any] struct {
	Name string
	// IDColumn по умолчанию "id".
	IDColumn string
	// Columns перечисляет записываемые столбцы, первым идет идентификатор.
	Columns []string
	// Values возвращает значения для Columns в том же порядке.
	Values func(model M) []any
	// HasUpdatedAt включает обновление updated_at при записи.
	HasUpdatedAt bool
	// DefaultOrder применяется, если сортировка не задана или не разрешена.
	DefaultOrder string
}

func (t Table[M]) idColumn() string {
	if t.IDColumn == "" {
		return "id"
	}
	return t.IDColumn
}

// FilterFunc строит условие поиска для непустого фильтра.
type FilterFunc func(filter string, dialect Dialect) squirrel.Sqlizer

// RepositoryConfig собирает зависимости SQLRepository.
type RepositoryConfig[ID domain.Identifier, A domain.Aggregate[ID], M any] struct {
	// Entity - имя сущности для ошибок и логов.
	Entity string
	Table  Table[M]
	Mapper Mapper[A, M]
	// NewID строит идентификатор из строки хранилища.
	NewID func(raw string) (ID, error)
	// SortableFields сопоставляет разрешенные поля сортировки столбцам.
	SortableFields map[string]string
	Filter         FilterFunc
	// Units создает собственные транзакции репозитория, например в DeleteManyByIDs.
	// Без фабрики единица работы создается без хуков и метрик.
	Units *Factory
}

// SQLRepository реализует SearchableRepository поверх Conn.
// Каждая операция берет Querier из переданной области, иначе использует подключение по умолчанию.
type SQLRepository[ID domain.Identifier, A domain.Aggregate[ID], M any] struct {
	conn    Conn
	cfg     RepositoryConfig[ID, A, M]
	builder squirrel.StatementBuilderType
}

// NewSQLRepository создает репозиторий для cfg.Table.
func NewSQLRepository[ID domain.Identifier, A domain.Aggregate[ID], M any](
	conn Conn,
	cfg RepositoryConfig[ID, A, M],
) *SQLRepository[ID, A, M] {
	return &SQLRepository[ID, A, M]{
		conn:    conn,
		cfg:     cfg,
		builder: conn.Dialect().Builder(),
	}
}

// Conn возвращает подключение по умолчанию.
func (r *SQLRepository[ID, A, M]) Conn() Conn {
	return r.conn
}

// Entity возвращает имя сущности.
func (r *SQLRepository[ID, A, M]) Entity() string {
	return r.cfg.Entity
}

// ParseID строит идентификатор из строки.
func (r *SQLRepository[ID, A, M]) ParseID(raw string) (ID, error) {
	return r.cfg.NewID(raw)
}

// SortableFields возвращает разрешенные поля сортировки в алфавитном порядке.
func (r *SQLRepository[ID, A, M]) SortableFields() []string {
	return slices.Sorted(maps.Keys(r.cfg.SortableFields))
}

func (r *SQLRepository[ID, A, M]) log(ctx context.Context, method string) *logger.Logger {
	return logger.Log(ctx).With(zap.String("repository", r.cfg.Table.Name), zap.String("method", method))
}

func (r *SQLRepository[ID, A, M]) selectColumns() squirrel.SelectBuilder {
	return r.builder.Select(r.cfg.Table.Columns...).From(r.cfg.Table.Name)
}

// Save вставляет или обновляет агрегат по идентификатору.
func (r *SQLRepository[ID, A, M]) Save(ctx context.Context, scope Scope, aggregate A) error {
	return r.SaveMany(ctx, scope, []A{aggregate})
}

// SaveMany вставляет или обновляет агрегаты одним запросом.
// Из нескольких агрегатов с одним идентификатором сохраняется последний.
func (r *SQLRepository[ID, A, M]) SaveMany(ctx context.Context, scope Scope, aggregates []A) error {
	if len(aggregates) == 0 {
		return nil
	}
	log := r.log(ctx, "SaveMany")
	aggregates = lastByID[ID, A](aggregates)

	insert := r.builder.Insert(r.cfg.Table.Name).Columns(r.cfg.Table.Columns...)
	for _, aggregate := range aggregates {
		insert = insert.Values(r.cfg.Table.Values(r.cfg.Mapper.ToModel(aggregate))...)
	}
	insert = insert.Suffix(r.upsertClause())

	query, args, err := insert.ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", ErrBuildQuery, err)
	}

	if _, err := scope.Querier(r.conn).Exec(ctx, query, args...); err != nil {
		log.Error(ctx, ErrSaveRows, zap.Error(err), zap.Int("count", len(aggregates)))
		return fmt.Errorf("%s: %w", ErrSaveRows, err)
	}
	return nil
}

func (r *SQLRepository[ID, A, M]) upsertClause() string {
	id := r.cfg.Table.idColumn()
	sets := make([]string, 0, len(r.cfg.Table.Columns))
	for _, column := range r.cfg.Table.Columns {
		if column == id {
			continue
		}
		sets = append(sets, fmt.Sprintf("%s = excluded.%s", column, column))
	}
	if r.cfg.Table.HasUpdatedAt {
		sets = append(sets, UpdatedAtColumn+" = CURRENT_TIMESTAMP")
	}
	if len(sets) == 0 {
		return fmt.Sprintf("ON CONFLICT (%s) DO NOTHING", id)
	}
	return fmt.Sprintf("ON CONFLICT (%s) DO UPDATE SET %s", id, strings.Join(sets, ", "))
}

// FindByID возвращает агрегат и true, либо нулевое значение и false, если его нет.
func (r *SQLRepository[ID, A, M]) FindByID(ctx context.Context, scope Scope, id ID) (A, bool, error) {
	var zero A
	items, err := r.find(ctx, scope, "FindByID",
		r.selectColumns().Where(squirrel.Eq{r.cfg.Table.idColumn(): id.String()}).Limit(1))
	if err != nil {
		return zero, false, err
	}
	if len(items) == 0 {
		r.log(ctx, "FindByID").Debug(ctx, "entity not found", zap.String("id", id.String()))
		return zero, false, nil
	}
	return items[0], true, nil
}

// FindMany возвращает все агрегаты в порядке по умолчанию.
func (r *SQLRepository[ID, A, M]) FindMany(ctx context.Context, scope Scope) ([]A, error) {
	query := r.selectColumns()
	if r.cfg.Table.DefaultOrder != "" {
		query = query.OrderBy(r.cfg.Table.DefaultOrder)
	}
	return r.find(ctx, scope, "FindMany", query)
}

// FindManyByIDs возвращает найденные агрегаты; отсутствующие идентификаторы пропускаются.
func (r *SQLRepository[ID, A, M]) FindManyByIDs(ctx context.Context, scope Scope, ids []ID) ([]A, error) {
	if len(ids) == 0 {
		return []A{}, nil
	}
	return r.find(ctx, scope, "FindManyByIDs",
		r.selectColumns().Where(squirrel.Eq{r.cfg.Table.idColumn(): rawIDs(ids)}))
}

// FindBy возвращает агрегаты, удовлетворяющие where, в порядке по умолчанию.
func (r *SQLRepository[ID, A, M]) FindBy(ctx context.Context, scope Scope, where squirrel.Sqlizer) ([]A, error) {
	query := r.selectColumns().Where(where)
	if r.cfg.Table.DefaultOrder != "" {
		query = query.OrderBy(r.cfg.Table.DefaultOrder)
	}
	return r.find(ctx, scope, "FindBy", query)
}

func (r *SQLRepository[ID, A, M]) find(ctx context.Context, scope Scope, method string, builder squirrel.SelectBuilder) ([]A, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrBuildQuery, err)
	}

	var models []M
	if err := scope.Querier(r.conn).Select(ctx, &models, query, args...); err != nil {
		r.log(ctx, method).Error(ctx, ErrFindRows, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrFindRows, err)
	}
	return r.toDomain(models)
}

func (r *SQLRepository[ID, A, M]) toDomain(models []M) ([]A, error) {
	out := make([]A, 0, len(models))
	for _, model := range models {
		aggregate, err := r.cfg.Mapper.ToDomain(model)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMapRow, err)
		}
		out = append(out, aggregate)
	}
	return out, nil
}

// Update перезаписывает существующую строку. В отличие от Save не вставляет новую.
func (r *SQLRepository[ID, A, M]) Update(ctx context.Context, scope Scope, aggregate A) error {
	log := r.log(ctx, "Update")

	id := r.cfg.Table.idColumn()
	values := r.cfg.Table.Values(r.cfg.Mapper.ToModel(aggregate))
	update := r.builder.Update(r.cfg.Table.Name)
	for i, column := range r.cfg.Table.Columns {
		if column == id {
			continue
		}
		update = update.Set(column, values[i])
	}
	if r.cfg.Table.HasUpdatedAt {
		update = update.Set(UpdatedAtColumn, squirrel.Expr("CURRENT_TIMESTAMP"))
	}
	update = update.Where(squirrel.Eq{id: aggregate.ID().String()})

	query, args, err := update.ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", ErrBuildQuery, err)
	}

	affected, err := scope.Querier(r.conn).Exec(ctx, query, args...)
	if err != nil {
		log.Error(ctx, ErrUpdateRow, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrUpdateRow, err)
	}
	if affected == 0 {
		return domain.NewEntityNotFoundError(r.cfg.Entity, aggregate.ID())
	}
	return nil
}

// Delete удаляет строку по идентификатору.
func (r *SQLRepository[ID, A, M]) Delete(ctx context.Context, scope Scope, id ID) error {
	affected, err := r.deleteIDs(ctx, scope, "Delete", []ID{id})
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.NewEntityNotFoundError(r.cfg.Entity, id)
	}
	return nil
}

// DeleteManyByIDs удаляет все ids или ни одного. Повторяющиеся идентификаторы учитываются один раз.
// Если хотя бы один идентификатор отсутствует, возвращается ошибка с отсутствующими ids.
// Если число удаленных строк отличается от ожидаемого, возвращается ошибка,
// а удаление откатывается: на DefaultScope проверка и удаление идут в собственной транзакции.
func (r *SQLRepository[ID, A, M]) DeleteManyByIDs(ctx context.Context, scope Scope, ids []ID) error {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return nil
	}
	if !scope.IsDefault() {
		return r.deleteMany(ctx, scope, ids)
	}

	return r.newUnit().Do(ctx, func(ctx context.Context, scope Scope) error {
		return r.deleteMany(ctx, scope, ids)
	})
}

func (r *SQLRepository[ID, A, M]) newUnit() *UnitOfWork {
	if r.cfg.Units != nil {
		return r.cfg.Units.New()
	}
	return NewUnitOfWork(r.conn)
}

func (r *SQLRepository[ID, A, M]) deleteMany(ctx context.Context, scope Scope, ids []ID) error {
	exists, err := r.ExistsByID(ctx, scope, ids)
	if err != nil {
		return err
	}
	if len(exists.NotExists) > 0 {
		return domain.NewEntityNotFoundError(r.cfg.Entity, exists.NotExists...)
	}

	affected, err := r.deleteIDs(ctx, scope, "DeleteManyByIDs", exists.Exists)
	if err != nil {
		return err
	}
	if affected != int64(len(exists.Exists)) {
		r.log(ctx, "DeleteManyByIDs").Warn(ctx, LogDeleteMismatch,
			zap.Int64("affected", affected), zap.Int("expected", len(exists.Exists)))
		return domain.NewEntityNotFoundError(r.cfg.Entity, exists.Exists...)
	}
	return nil
}

func (r *SQLRepository[ID, A, M]) deleteIDs(ctx context.Context, scope Scope, method string, ids []ID) (int64, error) {
	query, args, err := r.builder.Delete(r.cfg.Table.Name).
		Where(squirrel.Eq{r.cfg.Table.idColumn(): rawIDs(ids)}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrBuildQuery, err)
	}

	affected, err := scope.Querier(r.conn).Exec(ctx, query, args...)
	if err != nil {
		r.log(ctx, method).Error(ctx, ErrDeleteRows, zap.Error(err))
		return 0, fmt.Errorf("%s: %w", ErrDeleteRows, err)
	}
	return affected, nil
}

// ExistsByID разбивает ids на существующие и отсутствующие с сохранением порядка ids.
// Повторяющиеся идентификаторы учитываются один раз.
func (r *SQLRepository[ID, A, M]) ExistsByID(ctx context.Context, scope Scope, ids []ID) (ExistsResult[ID], error) {
	result := ExistsResult[ID]{Exists: []ID{}, NotExists: []ID{}}
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return result, nil
	}

	idColumn := r.cfg.Table.idColumn()
	query, args, err := r.builder.Select(idColumn).
		From(r.cfg.Table.Name).
		Where(squirrel.Eq{idColumn: rawIDs(ids)}).
		ToSql()
	if err != nil {
		return result, fmt.Errorf("%s: %w", ErrBuildQuery, err)
	}

	var found []string
	if err := scope.Querier(r.conn).Select(ctx, &found, query, args...); err != nil {
		r.log(ctx, "ExistsByID").Error(ctx, ErrCheckExists, zap.Error(err))
		return result, fmt.Errorf("%s: %w", ErrCheckExists, err)
	}

	existing := make(map[string]struct{}, len(found))
	for _, raw := range found {
		existing[raw] = struct{}{}
	}
	for _, id := range ids {
		if _, ok := existing[id.String()]; ok {
			result.Exists = append(result.Exists, id)
		} else {
			result.NotExists = append(result.NotExists, id)
		}
	}
	return result, nil
}

// Search возвращает страницу агрегатов. Сортировка допускается только по SortableFields,
// неизвестное поле игнорируется.
func (r *SQLRepository[ID, A, M]) Search(ctx context.Context, scope Scope, params search.Params) (search.Result[A], error) {
	log := r.log(ctx, "Search")

	var where squirrel.Sqlizer
	if params.HasFilter() && r.cfg.Filter != nil {
		where = r.cfg.Filter(params.Filter(), r.conn.Dialect())
	}

	count := r.builder.Select("COUNT(*)").From(r.cfg.Table.Name)
	if where != nil {
		count = count.Where(where)
	}
	countQuery, countArgs, err := count.ToSql()
	if err != nil {
		return search.Result[A]{}, fmt.Errorf("%s: %w", ErrBuildQuery, err)
	}

	var total int64
	if err := scope.Querier(r.conn).Get(ctx, &total, countQuery, countArgs...); err != nil {
		log.Error(ctx, ErrCountRows, zap.Error(err))
		return search.Result[A]{}, fmt.Errorf("%s: %w", ErrCountRows, err)
	}

	page := r.selectColumns().
		Limit(uint64(params.Limit())).
		Offset(uint64(params.Offset()))
	if where != nil {
		page = page.Where(where)
	}
	if order := r.orderBy(ctx, params); order != "" {
		page = page.OrderBy(order)
	}

	items, err := r.find(ctx, scope, "Search", page)
	if err != nil {
		return search.Result[A]{}, err
	}
	return search.NewResult(items, int(total), params.Page(), params.PerPage()), nil
}

func (r *SQLRepository[ID, A, M]) orderBy(ctx context.Context, params search.Params) string {
	if !params.HasSort() {
		return r.cfg.Table.DefaultOrder
	}
	column, ok := r.cfg.SortableFields[params.Sort()]
	if !ok {
		r.log(ctx, "Search").Debug(ctx, LogUnknownSortField, zap.String("sort", params.Sort()))
		return r.cfg.Table.DefaultOrder
	}
	return column + " " + strings.ToUpper(string(params.SortDir()))
}

func uniqueIDs[ID domain.Identifier](ids []ID) []ID {
	seen := make(map[string]struct{}, len(ids))
	out := make([]ID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id.String()]; ok {
			continue
		}
		seen[id.String()] = struct{}{}
		out = append(out, id)
	}
	return out
}

// lastByID оставляет по одному агрегату на идентификатор: позиция первого, значение последнего.
// Postgres не разрешает ON CONFLICT DO UPDATE дважды затронуть одну строку.
func lastByID[ID domain.Identifier, A domain.Aggregate[ID]](aggregates []A) []A {
	index := make(map[string]int, len(aggregates))
	out := make([]A, 0, len(aggregates))
	for _, aggregate := range aggregates {
		key := aggregate.ID().String()
		if i, ok := index[key]; ok {
			out[i] = aggregate
			continue
		}
		index[key] = len(out)
		out = append(out, aggregate)
	}
	return out
}

func rawIDs[ID domain.Identifier](ids []ID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}

// IsNotFound сообщает, что err - ошибка отсутствия сущности.
func IsNotFound(err error) bool {
	return errors.Is(err, domain.ErrEntityNotFound)
}
