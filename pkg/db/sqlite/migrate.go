package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"

	"volleymatch/pkg/logger"
)

// Константы для миграций.
const (
	LogMigrationsApplied       = "SQLite migrations successfully applied"
	ErrOpenMigrationSource     = "failed to open migration source"
	ErrCreateMigrationDriver   = "failed to create SQLite migration driver"
	ErrCreateMigrationInstance = "failed to create migration instance"
	ErrApplyMigrations         = "failed to apply migrations"
)

// Migrate применяет миграции из каталога dir файловой системы fsys к открытой базе db.
// Соединение db остается открытым.
func Migrate(ctx context.Context, db *sql.DB, fsys fs.FS, dir string) error {
	log := logger.Log(ctx).With(zap.String("dir", dir))

	src, err := iofs.New(fsys, dir)
	if err != nil {
		log.Error(ctx, ErrOpenMigrationSource, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrOpenMigrationSource, err)
	}
	defer src.Close()

	driver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
	if err != nil {
		log.Error(ctx, ErrCreateMigrationDriver, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrCreateMigrationDriver, err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		log.Error(ctx, ErrCreateMigrationInstance, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrCreateMigrationInstance, err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		log.Error(ctx, ErrApplyMigrations, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrApplyMigrations, err)
	}

	log.Info(ctx, LogMigrationsApplied)
	return nil
}
