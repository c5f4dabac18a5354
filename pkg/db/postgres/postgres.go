// Package postgres подключает PostgreSQL через пул pgx и применяет миграции.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"volleymatch/pkg/logger"
	"volleymatch/pkg/retry"
)

// Константы для сообщений логгера.
const (
	LogConnecting        = "connecting to Postgres database"
	LogConnected         = "successfully connected to Postgres"
	LogClosing           = "closing Postgres connection pool"
	LogMigrationsApplied = "database migrations successfully applied"
)

// Константы для сообщений об ошибках.
const (
	ErrParseConfig  = "failed to parse connection config"
	ErrCreatePool   = "failed to create connection pool"
	ErrPingDatabase = "failed to ping database"
)

// PoolConfig описывает пул соединений. Нулевые длительности оставляют значения pgxpool.
type PoolConfig struct {
	DSN               string
	MinConns          int32
	MaxConns          int32
	MaxConnLifetime   time.Duration
	MaxConnIdleTime   time.Duration
	HealthCheckPeriod time.Duration
	ConnectTimeout    time.Duration
	// PingAttempts - сколько раз проверять доступность базы при старте.
	PingAttempts int
}

// ParsePoolConfig разбирает DSN и применяет к нему настройки пула.
func ParsePoolConfig(cfg PoolConfig) (*pgxpool.Config, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrParseConfig, err)
	}

	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	poolCfg.MinConns = min(cfg.MinConns, poolCfg.MaxConns)
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}
	if cfg.MaxConnIdleTime > 0 {
		poolCfg.MaxConnIdleTime = cfg.MaxConnIdleTime
	}
	if cfg.HealthCheckPeriod > 0 {
		poolCfg.HealthCheckPeriod = cfg.HealthCheckPeriod
	}
	if cfg.ConnectTimeout > 0 {
		poolCfg.ConnConfig.ConnectTimeout = cfg.ConnectTimeout
	}
	return poolCfg, nil
}

// Database владеет пулом соединений с Postgres.
type Database struct {
	pool *pgxpool.Pool
}

// New открывает пул и ждет доступности базы, повторяя проверку до cfg.PingAttempts раз.
func New(ctx context.Context, cfg PoolConfig) (*Database, error) {
	log := logger.Log(ctx)

	poolCfg, err := ParsePoolConfig(cfg)
	if err != nil {
		log.Error(ctx, ErrParseConfig, zap.Error(err))
		return nil, err
	}
	log.Info(ctx, LogConnecting,
		zap.String("host", poolCfg.ConnConfig.Host),
		zap.Int32("min_conns", poolCfg.MinConns),
		zap.Int32("max_conns", poolCfg.MaxConns))

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		log.Error(ctx, ErrCreatePool, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrCreatePool, err)
	}

	policy := retry.DefaultPolicy()
	policy.MaxAttempts = cfg.PingAttempts
	if err := retry.New("postgres.ping", policy).Do(ctx, pool.Ping); err != nil {
		pool.Close()
		log.Error(ctx, ErrPingDatabase, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrPingDatabase, err)
	}

	log.Info(ctx, LogConnected)
	return &Database{pool: pool}, nil
}

// Conn возвращает подключение для репозиториев и единиц работы.
func (db *Database) Conn() *Conn {
	return NewConn(db.pool)
}

// Close закрывает пул соединений.
func (db *Database) Close(ctx context.Context) {
	logger.Log(ctx).Info(ctx, LogClosing)
	db.pool.Close()
}

// Ping проверяет доступность базы данных.
func (db *Database) Ping(ctx context.Context) error {
	return db.pool.Ping(ctx)
}
