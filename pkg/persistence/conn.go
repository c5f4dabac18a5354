// Package persistence реализует единицу работы и обобщенный SQL-репозиторий агрегатов
// поверх любого хранилища с атомарными транзакциями.
package persistence

import (
	"context"
	"errors"

	"github.com/Masterminds/squirrel"
)

// ErrNoRows возвращается Querier.Get, если запрос не вернул строк.
var ErrNoRows = errors.New("no rows in result set")

// Querier выполняет запросы на подключении по умолчанию или внутри транзакции.
type Querier interface {
	// Exec возвращает число затронутых строк.
	Exec(ctx context.Context, query string, args ...any) (int64, error)
	// Select сканирует все строки результата в срез dst.
	Select(ctx context.Context, dst any, query string, args ...any) error
	// Get сканирует одну строку в dst или возвращает ErrNoRows.
	Get(ctx context.Context, dst any, query string, args ...any) error
}

// Tx - активная транзакция хранилища.
type Tx interface {
	Querier
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Conn - подключение по умолчанию (автокоммит), способное начинать транзакции.
type Conn interface {
	Querier
	Begin(ctx context.Context) (Tx, error)
	Dialect() Dialect
}

// Dialect описывает различия SQL между поддерживаемыми драйверами.
type Dialect struct {
	Name        string
	Placeholder squirrel.PlaceholderFormat
	// Like - оператор регистронезависимого сравнения по шаблону.
	Like string
}

// Поддерживаемые диалекты.
var (
	Postgres = Dialect{Name: "postgres", Placeholder: squirrel.Dollar, Like: "ILIKE"}
	SQLite   = Dialect{Name: "sqlite", Placeholder: squirrel.Question, Like: "LIKE"}
)

// Builder возвращает построитель запросов с плейсхолдерами диалекта.
func (d Dialect) Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(d.Placeholder)
}

// Scope - явный контекст исполнения операции репозитория:
// подключение по умолчанию либо конкретная транзакция.
type Scope struct {
	tx Tx
}

// DefaultScope исполняет операции на подключении по умолчанию.
var DefaultScope = Scope{}

// TxScope исполняет операции внутри tx.
func TxScope(tx Tx) Scope {
	return Scope{tx: tx}
}

// Tx возвращает транзакцию области, если она есть.
func (s Scope) Tx() (Tx, bool) {
	return s.tx, s.tx != nil
}

// IsDefault сообщает, что область не связана с транзакцией.
func (s Scope) IsDefault() bool {
	return s.tx == nil
}

// Querier выбирает транзакцию области или подключение def.
func (s Scope) Querier(def Querier) Querier {
	if s.tx != nil {
		return s.tx
	}
	return def
}
