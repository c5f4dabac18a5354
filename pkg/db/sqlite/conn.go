package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/georgysavva/scany/v2/sqlscan"

	"volleymatch/pkg/persistence"
)

// ErrBeginTx - сообщение об ошибке начала транзакции.
const ErrBeginTx = "failed to begin SQLite transaction"

type sqlQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Conn реализует persistence.Conn поверх database/sql.
type Conn struct {
	db *sql.DB
}

var _ persistence.Conn = (*Conn)(nil)

// NewConn оборачивает db.
func NewConn(db *sql.DB) *Conn {
	return &Conn{db: db}
}

func (c *Conn) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	return exec(ctx, c.db, query, args...)
}

func (c *Conn) Select(ctx context.Context, dst any, query string, args ...any) error {
	return sqlscan.Select(ctx, c.db, dst, query, args...)
}

func (c *Conn) Get(ctx context.Context, dst any, query string, args ...any) error {
	return get(ctx, c.db, dst, query, args...)
}

// Begin начинает транзакцию. Режим блокировки задается параметром _txlock в DSN.
func (c *Conn) Begin(ctx context.Context) (persistence.Tx, error) {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrBeginTx, err)
	}
	return &Tx{tx: tx}, nil
}

func (c *Conn) Dialect() persistence.Dialect {
	return persistence.SQLite
}

// Tx реализует persistence.Tx поверх *sql.Tx.
type Tx struct {
	tx *sql.Tx
}

var _ persistence.Tx = (*Tx)(nil)

func (t *Tx) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	return exec(ctx, t.tx, query, args...)
}

func (t *Tx) Select(ctx context.Context, dst any, query string, args ...any) error {
	return sqlscan.Select(ctx, t.tx, dst, query, args...)
}

func (t *Tx) Get(ctx context.Context, dst any, query string, args ...any) error {
	return get(ctx, t.tx, dst, query, args...)
}

func (t *Tx) Commit(_ context.Context) error {
	return t.tx.Commit()
}

func (t *Tx) Rollback(_ context.Context) error {
	return t.tx.Rollback()
}

func exec(ctx context.Context, q sqlQuerier, query string, args ...any) (int64, error) {
	res, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func get(ctx context.Context, q sqlQuerier, dst any, query string, args ...any) error {
	if err := sqlscan.Get(ctx, q, dst, query, args...); err != nil {
		if sqlscan.NotFound(err) || errors.Is(err, sql.ErrNoRows) {
			return persistence.ErrNoRows
		}
		return err
	}
	return nil
}
