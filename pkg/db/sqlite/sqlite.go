// Package sqlite подключает встроенную базу SQLite (modernc.org/sqlite) и применяет миграции.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"volleymatch/pkg/logger"
)

// Константы для сообщений логгера.
const (
	LogOpening = "opening SQLite database"
	LogOpened  = "SQLite database opened"
	LogClosing = "closing SQLite database"
)

// Константы для сообщений об ошибках.
const (
	ErrOpenDatabase = "failed to open SQLite database"
	ErrPingDatabase = "failed to ping SQLite database"
	ErrCloseDB      = "failed to close SQLite database"
)

// DefaultBusyTimeoutMS - время ожидания блокировки записи в миллисекундах.
const DefaultBusyTimeoutMS = 5000

// Database представляет соединение с файлом SQLite.
type Database struct {
	db   *sql.DB
	path string
}

// New открывает базу по пути path с внешними ключами и ожиданием блокировки.
func New(ctx context.Context, path string, busyTimeoutMS int) (*Database, error) {
	log := logger.Log(ctx).With(zap.String("path", path))
	log.Info(ctx, LogOpening)

	db, err := sql.Open("sqlite", DSN(path, busyTimeoutMS))
	if err != nil {
		log.Error(ctx, ErrOpenDatabase, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrOpenDatabase, err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		log.Error(ctx, ErrPingDatabase, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrPingDatabase, err)
	}

	log.Info(ctx, LogOpened)
	return &Database{db: db, path: path}, nil
}

// DSN строит строку подключения modernc с прагмами для каждого соединения пула.
func DSN(path string, busyTimeoutMS int) string {
	if busyTimeoutMS <= 0 {
		busyTimeoutMS = DefaultBusyTimeoutMS
	}
	params := url.Values{}
	params.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", busyTimeoutMS))
	params.Add("_pragma", "foreign_keys(1)")
	params.Add("_txlock", "immediate")

	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return "file:" + path + sep + params.Encode()
}

// DB возвращает *sql.DB.
func (d *Database) DB() *sql.DB {
	return d.db
}

// Conn возвращает подключение для репозиториев и единиц работы.
func (d *Database) Conn() *Conn {
	return NewConn(d.db)
}

// Close закрывает базу данных.
func (d *Database) Close(ctx context.Context) error {
	logger.Log(ctx).Info(ctx, LogClosing, zap.String("path", d.path))
	if err := d.db.Close(); err != nil {
		return fmt.Errorf("%s: %w", ErrCloseDB, err)
	}
	return nil
}

// Ping проверяет доступность базы данных.
func (d *Database) Ping(ctx context.Context) error {
	return d.db.PingContext(ctx)
}
