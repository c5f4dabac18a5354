package persistence_test

import (
	"context"
	"errors"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"volleymatch/pkg/domain"
	"volleymatch/pkg/persistence"
)

var errWork = errors.New("work failed")

func TestUnitOfWorkStartCommit(t *testing.T) {
	ctx := testContext()

	t.Run("start then commit releases the transaction", func(t *testing.T) {
		mock, conn := newMockConn(t)
		mock.ExpectBegin()
		mock.ExpectCommit()

		uow := persistence.NewUnitOfWork(conn)
		require.NoError(t, uow.Start(ctx))
		assert.True(t, uow.Active())
		_, ok := uow.Transaction()
		assert.True(t, ok)
		assert.False(t, uow.Scope().IsDefault())

		require.NoError(t, uow.Commit(ctx))
		assert.False(t, uow.Active())
		assert.True(t, uow.Scope().IsDefault())
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("start is idempotent", func(t *testing.T) {
		mock, conn := newMockConn(t)
		mock.ExpectBegin()
		mock.ExpectRollback()

		uow := persistence.NewUnitOfWork(conn)
		require.NoError(t, uow.Start(ctx))
		first, _ := uow.Transaction()
		require.NoError(t, uow.Start(ctx))
		second, _ := uow.Transaction()

		assert.Same(t, first, second)
		require.NoError(t, uow.Rollback(ctx))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("commit and rollback without transaction fail", func(t *testing.T) {
		_, conn := newMockConn(t)
		uow := persistence.NewUnitOfWork(conn)

		assert.ErrorIs(t, uow.Commit(ctx), persistence.ErrTransactionNotStarted)
		assert.ErrorIs(t, uow.Rollback(ctx), persistence.ErrTransactionNotStarted)
		_, ok := uow.Transaction()
		assert.False(t, ok)
	})

	t.Run("failed commit still releases the transaction", func(t *testing.T) {
		mock, conn := newMockConn(t)
		mock.ExpectBegin()
		mock.ExpectCommit().WillReturnError(errors.New("connection reset"))

		uow := persistence.NewUnitOfWork(conn)
		require.NoError(t, uow.Start(ctx))

		err := uow.Commit(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), persistence.ErrCommitTransaction)
		assert.False(t, uow.Active())
		assert.ErrorIs(t, uow.Commit(ctx), persistence.ErrTransactionNotStarted)
	})

	t.Run("begin failure is wrapped", func(t *testing.T) {
		mock, conn := newMockConn(t)
		mock.ExpectBegin().WillReturnError(errors.New("too many connections"))

		uow := persistence.NewUnitOfWork(conn)
		err := uow.Start(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), persistence.ErrBeginTransaction)
		assert.False(t, uow.Active())
	})
}

func TestUnitOfWorkDo(t *testing.T) {
	ctx := testContext()

	t.Run("successful work is committed", func(t *testing.T) {
		mock, conn := newMockConn(t)
		mock.ExpectBegin()
		mock.ExpectExec("DELETE FROM widgets").WillReturnResult(pgxmock.NewResult("DELETE", 1))
		mock.ExpectCommit()

		uow := persistence.NewUnitOfWork(conn)
		err := uow.Do(ctx, func(ctx context.Context, scope persistence.Scope) error {
			_, err := scope.Querier(conn).Exec(ctx, "DELETE FROM widgets")
			return err
		})

		require.NoError(t, err)
		assert.False(t, uow.Active())
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failed work is rolled back and its error returned unchanged", func(t *testing.T) {
		mock, conn := newMockConn(t)
		mock.ExpectBegin()
		mock.ExpectRollback()

		uow := persistence.NewUnitOfWork(conn)
		err := uow.Do(ctx, func(context.Context, persistence.Scope) error {
			return errWork
		})

		assert.Same(t, errWork, err)
		assert.False(t, uow.Active())
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rollback failure does not replace the work error", func(t *testing.T) {
		mock, conn := newMockConn(t)
		mock.ExpectBegin()
		mock.ExpectRollback().WillReturnError(errors.New("rollback failed"))

		uow := persistence.NewUnitOfWork(conn)
		err := uow.Do(ctx, func(context.Context, persistence.Scope) error {
			return errWork
		})

		assert.Same(t, errWork, err)
		assert.False(t, uow.Active())
	})

	t.Run("panic rolls back and propagates", func(t *testing.T) {
		mock, conn := newMockConn(t)
		mock.ExpectBegin()
		mock.ExpectRollback()

		uow := persistence.NewUnitOfWork(conn)
		assert.PanicsWithValue(t, "boom", func() {
			_ = uow.Do(ctx, func(context.Context, persistence.Scope) error {
				panic("boom")
			})
		})

		assert.False(t, uow.Active())
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("nested work joins the outer transaction", func(t *testing.T) {
		mock, conn := newMockConn(t)
		mock.ExpectBegin()
		mock.ExpectCommit()

		uow := persistence.NewUnitOfWork(conn)
		err := uow.Do(ctx, func(ctx context.Context, outer persistence.Scope) error {
			return uow.Do(ctx, func(_ context.Context, inner persistence.Scope) error {
				outerTx, _ := outer.Tx()
				innerTx, _ := inner.Tx()
				assert.Same(t, outerTx, innerTx)
				return nil
			})
		})

		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("nested failure rolls back the whole unit", func(t *testing.T) {
		mock, conn := newMockConn(t)
		mock.ExpectBegin()
		mock.ExpectRollback()

		uow := persistence.NewUnitOfWork(conn)
		err := uow.Do(ctx, func(ctx context.Context, _ persistence.Scope) error {
			return uow.Do(ctx, func(context.Context, persistence.Scope) error {
				return errWork
			})
		})

		assert.ErrorIs(t, err, errWork)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("work may finish the transaction itself", func(t *testing.T) {
		mock, conn := newMockConn(t)
		mock.ExpectBegin()
		mock.ExpectCommit()

		uow := persistence.NewUnitOfWork(conn)
		err := uow.Do(ctx, func(ctx context.Context, _ persistence.Scope) error {
			return uow.Commit(ctx)
		})

		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("begin failure skips the work", func(t *testing.T) {
		mock, conn := newMockConn(t)
		mock.ExpectBegin().WillReturnError(errors.New("down"))

		called := false
		err := persistence.NewUnitOfWork(conn).Do(ctx, func(context.Context, persistence.Scope) error {
			called = true
			return nil
		})

		require.Error(t, err)
		assert.False(t, called)
	})
}

func TestUnitOfWorkAggregateRoots(t *testing.T) {
	_, conn := newMockConn(t)
	uow := persistence.NewUnitOfWork(conn)

	a, b := newWidget("a"), newWidget("b")
	uow.AddAggregateRoot(a)
	uow.AddAggregateRoot(b)
	uow.AddAggregateRoot(a)
	uow.AddAggregateRoot(nil)

	roots := uow.AggregateRoots()
	require.Len(t, roots, 2)
	assert.Same(t, a, roots[0])
	assert.Same(t, b, roots[1])

	roots[0] = nil
	assert.Same(t, a, uow.AggregateRoots()[0], "returned slice must be a copy")
}

func TestUnitOfWorkAfterCommit(t *testing.T) {
	ctx := testContext()

	t.Run("hook receives tracked roots after commit", func(t *testing.T) {
		mock, conn := newMockConn(t)
		mock.ExpectBegin()
		mock.ExpectCommit()

		var received []domain.AggregateRoot
		uow := persistence.NewUnitOfWork(conn, persistence.WithAfterCommit(
			func(_ context.Context, roots []domain.AggregateRoot) error {
				received = roots
				return nil
			}))

		w := newWidget("tracked")
		err := uow.Do(ctx, func(context.Context, persistence.Scope) error {
			uow.AddAggregateRoot(w)
			return nil
		})

		require.NoError(t, err)
		require.Len(t, received, 1)
		assert.Same(t, w, received[0])
		assert.Len(t, uow.AggregateRoots(), 1, "roots survive commit")
	})

	t.Run("hook is not called on rollback", func(t *testing.T) {
		mock, conn := newMockConn(t)
		mock.ExpectBegin()
		mock.ExpectRollback()

		called := false
		uow := persistence.NewUnitOfWork(conn, persistence.WithAfterCommit(
			func(context.Context, []domain.AggregateRoot) error {
				called = true
				return nil
			}))

		_ = uow.Do(ctx, func(context.Context, persistence.Scope) error { return errWork })
		assert.False(t, called)
	})

	t.Run("hook failure does not fail the commit", func(t *testing.T) {
		mock, conn := newMockConn(t)
		mock.ExpectBegin()
		mock.ExpectCommit()

		uow := persistence.NewUnitOfWork(conn, persistence.WithAfterCommit(
			func(context.Context, []domain.AggregateRoot) error {
				return errors.New("publisher down")
			}))

		require.NoError(t, uow.Do(ctx, func(context.Context, persistence.Scope) error { return nil }))
	})
}

func TestUnitOfWorkAfterRollback(t *testing.T) {
	ctx := testContext()

	t.Run("hook receives tracked roots after rollback", func(t *testing.T) {
		mock, conn := newMockConn(t)
		mock.ExpectBegin()
		mock.ExpectRollback()

		var received []domain.AggregateRoot
		uow := persistence.NewUnitOfWork(conn, persistence.WithAfterRollback(
			func(_ context.Context, roots []domain.AggregateRoot) {
				received = roots
			}))

		w := newWidget("dropped")
		err := uow.Do(ctx, func(context.Context, persistence.Scope) error {
			uow.AddAggregateRoot(w)
			return errWork
		})

		require.ErrorIs(t, err, errWork)
		require.Len(t, received, 1)
		assert.Same(t, w, received[0])
		assert.Len(t, uow.AggregateRoots(), 1, "roots survive rollback")
	})

	t.Run("failed commit runs the rollback hooks", func(t *testing.T) {
		mock, conn := newMockConn(t)
		mock.ExpectBegin()
		mock.ExpectCommit().WillReturnError(errors.New("connection reset"))

		rolledBack, committed := false, false
		uow := persistence.NewUnitOfWork(conn,
			persistence.WithAfterRollback(func(context.Context, []domain.AggregateRoot) { rolledBack = true }),
			persistence.WithAfterCommit(func(context.Context, []domain.AggregateRoot) error {
				committed = true
				return nil
			}))

		require.Error(t, uow.Do(ctx, func(context.Context, persistence.Scope) error { return nil }))
		assert.True(t, rolledBack)
		assert.False(t, committed)
	})

	t.Run("hook is not called on commit", func(t *testing.T) {
		mock, conn := newMockConn(t)
		mock.ExpectBegin()
		mock.ExpectCommit()

		called := false
		uow := persistence.NewUnitOfWork(conn, persistence.WithAfterRollback(
			func(context.Context, []domain.AggregateRoot) { called = true }))

		require.NoError(t, uow.Do(ctx, func(context.Context, persistence.Scope) error { return nil }))
		assert.False(t, called)
	})
}

func TestUnitOfWorkTransactionCallbacks(t *testing.T) {
	ctx := testContext()

	t.Run("commit runs commit callbacks and drops rollback callbacks", func(t *testing.T) {
		mock, conn := newMockConn(t)
		mock.ExpectBegin()
		mock.ExpectCommit()
		mock.ExpectBegin()
		mock.ExpectRollback()

		var calls []string
		uow := persistence.NewUnitOfWork(conn)
		err := uow.Do(ctx, func(ctx context.Context, _ persistence.Scope) error {
			return uow.Do(ctx, func(ctx context.Context, _ persistence.Scope) error {
				uow.OnCommit(ctx, func(context.Context) { calls = append(calls, "commit") })
				uow.OnRollback(func(context.Context) { calls = append(calls, "rollback") })
				return nil
			})
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"commit"}, calls)

		_ = uow.Do(ctx, func(context.Context, persistence.Scope) error { return errWork })
		assert.Equal(t, []string{"commit"}, calls, "callbacks belong to a single transaction")
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rollback of the outer unit runs callbacks of nested work", func(t *testing.T) {
		mock, conn := newMockConn(t)
		mock.ExpectBegin()
		mock.ExpectRollback()

		var calls []string
		uow := persistence.NewUnitOfWork(conn)
		err := uow.Do(ctx, func(ctx context.Context, _ persistence.Scope) error {
			if err := uow.Do(ctx, func(ctx context.Context, _ persistence.Scope) error {
				uow.OnCommit(ctx, func(context.Context) { calls = append(calls, "commit") })
				uow.OnRollback(func(context.Context) { calls = append(calls, "rollback") })
				return nil
			}); err != nil {
				return err
			}
			return errWork
		})

		require.ErrorIs(t, err, errWork)
		assert.Equal(t, []string{"rollback"}, calls)
	})

	t.Run("without a transaction commit callbacks run at once", func(t *testing.T) {
		_, conn := newMockConn(t)
		uow := persistence.NewUnitOfWork(conn)

		committed, rolledBack := false, false
		uow.OnCommit(ctx, func(context.Context) { committed = true })
		uow.OnRollback(func(context.Context) { rolledBack = true })

		assert.True(t, committed)
		assert.False(t, rolledBack)
	})
}

func TestUnitOfWorkMetrics(t *testing.T) {
	ctx := testContext()
	reg := prometheus.NewRegistry()
	metrics, err := persistence.NewMetrics(reg)
	require.NoError(t, err)

	mock, conn := newMockConn(t)
	mock.ExpectBegin()
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectRollback()

	factory := persistence.NewFactory(conn, persistence.WithMetrics(metrics))
	require.NoError(t, factory.New().Do(ctx, func(context.Context, persistence.Scope) error { return nil }))
	_ = factory.New().Do(ctx, func(context.Context, persistence.Scope) error { return errWork })

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.Transactions("begin")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Transactions("commit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Transactions("rollback")))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.Transactions("commit_error")))

	t.Run("registering twice fails", func(t *testing.T) {
		_, err := persistence.NewMetrics(reg)
		assert.Error(t, err)
	})
}
