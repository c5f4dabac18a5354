// Package db открывает хранилище volleymatch выбранного драйвера и применяет миграции.
package db

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"volleymatch/internal/volleymatch/config"
	"volleymatch/migrations"
	"volleymatch/pkg/db/postgres"
	"volleymatch/pkg/db/sqlite"
	"volleymatch/pkg/logger"
	"volleymatch/pkg/persistence"
)

// Константы для сообщений об ошибках.
const (
	ErrUnknownDriver   = "unknown database driver"
	ErrOpenDatabase    = "failed to open database"
	ErrMigrateDatabase = "failed to migrate database"
)

// Store - открытое хранилище.
type Store struct {
	Conn  persistence.Conn
	ping  func(ctx context.Context) error
	close func(ctx context.Context) error
}

// Ping проверяет доступность базы.
func (s *Store) Ping(ctx context.Context) error {
	return s.ping(ctx)
}

// Close закрывает хранилище.
func (s *Store) Close(ctx context.Context) error {
	return s.close(ctx)
}

// Open подключается к базе из cfg и применяет миграции драйвера.
func Open(ctx context.Context, cfg *config.Config) (*Store, error) {
	log := logger.Log(ctx).With(zap.String("driver", cfg.Database.Driver))

	switch cfg.Database.Driver {
	case config.DriverPostgres:
		if err := postgres.MigrateDSN(ctx, cfg.Postgres.GetConnectionURL(), migrations.FS, migrations.PostgresDir); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMigrateDatabase, err)
		}
		database, err := postgres.New(ctx, cfg.Postgres.ToPoolConfig())
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrOpenDatabase, err)
		}
		closePool := func(ctx context.Context) error {
			database.Close(ctx)
			return nil
		}
		return &Store{Conn: database.Conn(), ping: database.Ping, close: closePool}, nil

	case config.DriverSQLite:
		return OpenSQLite(ctx, cfg.SQLite)

	default:
		log.Error(ctx, ErrUnknownDriver)
		return nil, fmt.Errorf("%s: %q", ErrUnknownDriver, cfg.Database.Driver)
	}
}

// OpenSQLite открывает встроенную базу и применяет миграции.
func OpenSQLite(ctx context.Context, cfg config.SQLiteConfig) (*Store, error) {
	database, err := sqlite.New(ctx, cfg.Path, cfg.BusyTimeoutMS)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrOpenDatabase, err)
	}
	if err := sqlite.Migrate(ctx, database.DB(), migrations.FS, migrations.SQLiteDir); err != nil {
		_ = database.Close(ctx)
		return nil, fmt.Errorf("%s: %w", ErrMigrateDatabase, err)
	}
	return &Store{Conn: database.Conn(), ping: database.Ping, close: database.Close}, nil
}
