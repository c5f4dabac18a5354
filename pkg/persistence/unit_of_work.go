package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"volleymatch/pkg/domain"
	"volleymatch/pkg/logger"
)

// ErrTransactionNotStarted возвращается Commit и Rollback без активной транзакции.
var ErrTransactionNotStarted = errors.New("no transaction started")

// Константы для сообщений логгера.
const (
	LogTransactionStarted    = "transaction started"
	LogTransactionCommitted  = "transaction committed"
	LogTransactionRolledBack = "transaction rolled back"
	LogRollbackFailed        = "rollback after failed work did not succeed"
	LogAfterCommitFailed     = "after-commit hook failed"
	LogWorkPanicked          = "work panicked, rolling back"
)

// Константы для сообщений об ошибках.
const (
	ErrBeginTransaction    = "failed to begin transaction"
	ErrCommitTransaction   = "failed to commit transaction"
	ErrRollbackTransaction = "failed to rollback transaction"
)

// Work - функция, выполняемая в рамках единицы работы.
type Work func(ctx context.Context, scope Scope) error

// AfterCommitHook вызывается после успешного коммита с отслеживаемыми агрегатами.
type AfterCommitHook func(ctx context.Context, roots []domain.AggregateRoot) error

// AfterRollbackHook вызывается после отката с отслеживаемыми агрегатами.
type AfterRollbackHook func(ctx context.Context, roots []domain.AggregateRoot)

// Option настраивает UnitOfWork.
type Option func(*UnitOfWork)

// WithAfterCommit регистрирует хук, вызываемый после каждого успешного коммита.
func WithAfterCommit(hook AfterCommitHook) Option {
	return func(u *UnitOfWork) {
		u.afterCommit = append(u.afterCommit, hook)
	}
}

// WithAfterRollback регистрирует хук, вызываемый после каждого отката,
// в том числе после неудачного коммита.
func WithAfterRollback(hook AfterRollbackHook) Option {
	return func(u *UnitOfWork) {
		u.afterRollback = append(u.afterRollback, hook)
	}
}

// WithMetrics включает учет транзакций в Prometheus.
func WithMetrics(metrics *Metrics) Option {
	return func(u *UnitOfWork) {
		u.metrics = metrics
	}
}

// UnitOfWork владеет не более чем одной активной транзакцией.
// Экземпляр не безопасен для конкурентного использования: один экземпляр на логический поток.
type UnitOfWork struct {
	conn          Conn
	tx            Tx
	startedAt     time.Time
	roots         []domain.AggregateRoot
	seen          map[domain.AggregateRoot]struct{}
	afterCommit   []AfterCommitHook
	afterRollback []AfterRollbackHook
	onCommit      []func(ctx context.Context)
	onRollback    []func(ctx context.Context)
	metrics       *Metrics
}

// NewUnitOfWork создает единицу работы поверх conn.
func NewUnitOfWork(conn Conn, opts ...Option) *UnitOfWork {
	u := &UnitOfWork{
		conn: conn,
		seen: make(map[domain.AggregateRoot]struct{}),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Start начинает транзакцию. Повторный вызов при активной транзакции ничего не делает.
func (u *UnitOfWork) Start(ctx context.Context) error {
	if u.tx != nil {
		return nil
	}

	tx, err := u.conn.Begin(ctx)
	if err != nil {
		u.metrics.observe(outcomeBeginError)
		return fmt.Errorf("%s: %w", ErrBeginTransaction, err)
	}

	u.tx = tx
	u.startedAt = time.Now()
	u.metrics.observe(outcomeBegin)
	logger.Log(ctx).Debug(ctx, LogTransactionStarted, zap.String("dialect", u.conn.Dialect().Name))
	return nil
}

// Commit фиксирует транзакцию и возвращает единицу работы в исходное состояние.
func (u *UnitOfWork) Commit(ctx context.Context) error {
	tx, startedAt, err := u.release()
	if err != nil {
		return err
	}
	onCommit, onRollback := u.takeCallbacks()

	if err := tx.Commit(ctx); err != nil {
		u.metrics.observe(outcomeCommitError)
		u.runAfterRollback(ctx, onRollback)
		return fmt.Errorf("%s: %w", ErrCommitTransaction, err)
	}

	u.metrics.observe(outcomeCommit)
	u.metrics.observeDuration(outcomeCommit, time.Since(startedAt))
	logger.Log(ctx).Debug(ctx, LogTransactionCommitted, zap.Duration("duration", time.Since(startedAt)))

	u.runAfterCommit(ctx)
	for _, fn := range onCommit {
		fn(ctx)
	}
	return nil
}

// Rollback откатывает транзакцию и возвращает единицу работы в исходное состояние.
func (u *UnitOfWork) Rollback(ctx context.Context) error {
	tx, startedAt, err := u.release()
	if err != nil {
		return err
	}
	_, onRollback := u.takeCallbacks()
	// Изменения не зафиксированы даже при ошибке драйвера.
	defer u.runAfterRollback(ctx, onRollback)

	if err := tx.Rollback(ctx); err != nil {
		u.metrics.observe(outcomeRollbackError)
		return fmt.Errorf("%s: %w", ErrRollbackTransaction, err)
	}

	u.metrics.observe(outcomeRollback)
	u.metrics.observeDuration(outcomeRollback, time.Since(startedAt))
	logger.Log(ctx).Debug(ctx, LogTransactionRolledBack, zap.Duration("duration", time.Since(startedAt)))
	return nil
}

// release снимает транзакцию с единицы работы до ее завершения,
// поэтому состояние очищается даже при ошибке драйвера.
func (u *UnitOfWork) release() (Tx, time.Time, error) {
	if u.tx == nil {
		return nil, time.Time{}, ErrTransactionNotStarted
	}
	tx, startedAt := u.tx, u.startedAt
	u.tx = nil
	u.startedAt = time.Time{}
	return tx, startedAt, nil
}

func (u *UnitOfWork) takeCallbacks() (onCommit, onRollback []func(ctx context.Context)) {
	onCommit, onRollback = u.onCommit, u.onRollback
	u.onCommit, u.onRollback = nil, nil
	return onCommit, onRollback
}

// OnCommit откладывает fn до коммита текущей транзакции. При откате fn не вызывается.
// Без активной транзакции fn выполняется сразу.
func (u *UnitOfWork) OnCommit(ctx context.Context, fn func(ctx context.Context)) {
	if u.tx == nil {
		fn(ctx)
		return
	}
	u.onCommit = append(u.onCommit, fn)
}

// OnRollback откладывает fn до отката текущей транзакции. При коммите fn отбрасывается.
// Без активной транзакции fn не вызывается.
func (u *UnitOfWork) OnRollback(fn func(ctx context.Context)) {
	if u.tx == nil {
		return
	}
	u.onRollback = append(u.onRollback, fn)
}

// Transaction возвращает активную транзакцию, если она есть.
func (u *UnitOfWork) Transaction() (Tx, bool) {
	return u.tx, u.tx != nil
}

// Active сообщает, что транзакция начата.
func (u *UnitOfWork) Active() bool {
	return u.tx != nil
}

// Scope возвращает область активной транзакции или DefaultScope.
func (u *UnitOfWork) Scope() Scope {
	if u.tx == nil {
		return DefaultScope
	}
	return TxScope(u.tx)
}

// Do выполняет work в транзакции.
// Если транзакция уже активна, work выполняется в ней без вложенного begin/commit.
// Иначе транзакция открывается, фиксируется при успехе и откатывается
// при ошибке или панике. Ошибка work возвращается без изменений.
func (u *UnitOfWork) Do(ctx context.Context, work Work) (err error) {
	if u.tx != nil {
		return work(ctx, u.Scope())
	}

	if err := u.Start(ctx); err != nil {
		return err
	}

	defer func() {
		if r := recover(); r != nil {
			logger.Log(ctx).Error(ctx, LogWorkPanicked, zap.Any("panic", r))
			u.rollbackQuietly(ctx)
			panic(r)
		}
		if err != nil {
			u.rollbackQuietly(ctx)
		}
	}()

	if err = work(ctx, u.Scope()); err != nil {
		return err
	}
	if u.tx == nil {
		// work сам завершил транзакцию.
		return nil
	}
	return u.Commit(ctx)
}

func (u *UnitOfWork) rollbackQuietly(ctx context.Context) {
	if u.tx == nil {
		return
	}
	if err := u.Rollback(context.WithoutCancel(ctx)); err != nil {
		logger.Log(ctx).Error(ctx, LogRollbackFailed, zap.Error(err))
	}
}

// AddAggregateRoot отслеживает агрегат. Один и тот же экземпляр добавляется один раз.
// Агрегаты должны передаваться по указателю.
func (u *UnitOfWork) AddAggregateRoot(root domain.AggregateRoot) {
	if root == nil {
		return
	}
	if _, ok := u.seen[root]; ok {
		return
	}
	u.seen[root] = struct{}{}
	u.roots = append(u.roots, root)
}

// AggregateRoots возвращает отслеживаемые агрегаты в порядке добавления.
// Набор не очищается при коммите и откате.
func (u *UnitOfWork) AggregateRoots() []domain.AggregateRoot {
	out := make([]domain.AggregateRoot, len(u.roots))
	copy(out, u.roots)
	return out
}

func (u *UnitOfWork) runAfterCommit(ctx context.Context) {
	if len(u.afterCommit) == 0 {
		return
	}
	roots := u.AggregateRoots()
	for _, hook := range u.afterCommit {
		if err := hook(ctx, roots); err != nil {
			logger.Log(ctx).Warn(ctx, LogAfterCommitFailed, zap.Error(err))
		}
	}
}

func (u *UnitOfWork) runAfterRollback(ctx context.Context, onRollback []func(ctx context.Context)) {
	ctx = context.WithoutCancel(ctx)
	if len(u.afterRollback) > 0 {
		roots := u.AggregateRoots()
		for _, hook := range u.afterRollback {
			hook(ctx, roots)
		}
	}
	for _, fn := range onRollback {
		fn(ctx)
	}
}

// Factory создает новую единицу работы на каждый логический поток.
type Factory struct {
	conn Conn
	opts []Option
}

// NewFactory запоминает подключение и опции для будущих единиц работы.
func NewFactory(conn Conn, opts ...Option) *Factory {
	return &Factory{conn: conn, opts: opts}
}

// New возвращает свежую единицу работы.
func (f *Factory) New() *UnitOfWork {
	return NewUnitOfWork(f.conn, f.opts...)
}

// Conn возвращает подключение по умолчанию.
func (f *Factory) Conn() Conn {
	return f.conn
}
