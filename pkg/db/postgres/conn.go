package postgres

import (
	"context"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"volleymatch/pkg/persistence"
)

// ErrBeginTx - сообщение об ошибке начала транзакции.
const ErrBeginTx = "failed to begin pgx transaction"

// PgxPoolInterface - часть pgxpool.Pool, нужная подключению. Позволяет подставить pgxmock.
type PgxPoolInterface interface {
	Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, query string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, query string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Conn реализует persistence.Conn поверх пула pgx.
type Conn struct {
	pool PgxPoolInterface
}

var _ persistence.Conn = (*Conn)(nil)

// NewConn оборачивает пул.
func NewConn(pool PgxPoolInterface) *Conn {
	return &Conn{pool: pool}
}

func (c *Conn) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	return exec(ctx, c.pool, query, args...)
}

func (c *Conn) Select(ctx context.Context, dst any, query string, args ...any) error {
	return pgxscan.Select(ctx, c.pool, dst, query, args...)
}

func (c *Conn) Get(ctx context.Context, dst any, query string, args ...any) error {
	return get(ctx, c.pool, dst, query, args...)
}

// Begin начинает транзакцию на отдельном соединении пула.
func (c *Conn) Begin(ctx context.Context) (persistence.Tx, error) {
	tx, err := c.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrBeginTx, err)
	}
	return &Tx{tx: tx}, nil
}

func (c *Conn) Dialect() persistence.Dialect {
	return persistence.Postgres
}

// Tx реализует persistence.Tx поверх pgx.Tx.
type Tx struct {
	tx pgx.Tx
}

var _ persistence.Tx = (*Tx)(nil)

func (t *Tx) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	return exec(ctx, t.tx, query, args...)
}

func (t *Tx) Select(ctx context.Context, dst any, query string, args ...any) error {
	return pgxscan.Select(ctx, t.tx, dst, query, args...)
}

func (t *Tx) Get(ctx context.Context, dst any, query string, args ...any) error {
	return get(ctx, t.tx, dst, query, args...)
}

// Commit фиксирует транзакцию и возвращает соединение в пул.
func (t *Tx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

// Rollback откатывает транзакцию и возвращает соединение в пул.
func (t *Tx) Rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}

type execer interface {
	Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error)
}

func exec(ctx context.Context, e execer, query string, args ...any) (int64, error) {
	tag, err := e.Exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func get(ctx context.Context, q pgxscan.Querier, dst any, query string, args ...any) error {
	if err := pgxscan.Get(ctx, q, dst, query, args...); err != nil {
		if pgxscan.NotFound(err) {
			return persistence.ErrNoRows
		}
		return err
	}
	return nil
}
