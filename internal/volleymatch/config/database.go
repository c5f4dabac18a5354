package config

import (
	"fmt"
	"time"

	"volleymatch/pkg/db/postgres"
)

// Поддерживаемые драйверы базы данных.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// DatabaseConfig выбирает хранилище агрегатов.
type DatabaseConfig struct {
	Driver string `yaml:"driver" env:"VOLLEY_DB_DRIVER" env-default:"postgres" validate:"oneof=postgres sqlite"`
}

// PostgresConfig содержит настройки подключения к базе данных.
type PostgresConfig struct {
	Host     string `yaml:"host" env:"VOLLEY_POSTGRES_HOST" env-default:"0.0.0.0"`
	Port     int    `yaml:"port" env:"VOLLEY_POSTGRES_PORT" env-default:"5432"`
	User     string `yaml:"user" env:"VOLLEY_POSTGRES_USER" env-default:"postgres"`
	Password string `yaml:"password" env:"VOLLEY_POSTGRES_PASSWORD" env-default:"postgres"`
	Database string `yaml:"database" env:"VOLLEY_POSTGRES_DB" env-default:"volleymatch"`
	MinConn  int    `yaml:"min_conn" env:"VOLLEY_POSTGRES_MIN_CONN" env-default:"1" validate:"gte=0"`
	MaxConn  int    `yaml:"max_conn" env:"VOLLEY_POSTGRES_MAX_CONN" env-default:"10" validate:"gtefield=MinConn"`

	// Длительности задаются в секундах.
	MaxConnLifetime   int `yaml:"max_conn_lifetime" env:"VOLLEY_POSTGRES_MAX_CONN_LIFETIME" env-default:"3600" validate:"gte=0"`
	MaxConnIdleTime   int `yaml:"max_conn_idle_time" env:"VOLLEY_POSTGRES_MAX_CONN_IDLE_TIME" env-default:"300" validate:"gte=0"`
	HealthCheckPeriod int `yaml:"health_check_period" env:"VOLLEY_POSTGRES_HEALTH_CHECK_PERIOD" env-default:"60" validate:"gte=0"`
	ConnectTimeout    int `yaml:"connect_timeout" env:"VOLLEY_POSTGRES_CONNECT_TIMEOUT" env-default:"5" validate:"gte=0"`
	PingAttempts      int `yaml:"ping_attempts" env:"VOLLEY_POSTGRES_PING_ATTEMPTS" env-default:"3" validate:"gte=1"`
}

// GetDSN возвращает строку подключения к Postgres.
func (p *PostgresConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		p.Host, p.Port, p.User, p.Password, p.Database)
}

// ToPoolConfig возвращает настройки пула соединений.
func (p *PostgresConfig) ToPoolConfig() postgres.PoolConfig {
	return postgres.PoolConfig{
		DSN:               p.GetDSN(),
		MinConns:          int32(p.MinConn),
		MaxConns:          int32(p.MaxConn),
		MaxConnLifetime:   time.Duration(p.MaxConnLifetime) * time.Second,
		MaxConnIdleTime:   time.Duration(p.MaxConnIdleTime) * time.Second,
		HealthCheckPeriod: time.Duration(p.HealthCheckPeriod) * time.Second,
		ConnectTimeout:    time.Duration(p.ConnectTimeout) * time.Second,
		PingAttempts:      p.PingAttempts,
	}
}

// GetConnectionURL возвращает URL-строку подключения для миграций.
func (p *PostgresConfig) GetConnectionURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		p.User, p.Password, p.Host, p.Port, p.Database)
}

// SQLiteConfig содержит настройки встроенной базы.
type SQLiteConfig struct {
	Path          string `yaml:"path" env:"VOLLEY_SQLITE_PATH" env-default:"volleymatch.db"`
	BusyTimeoutMS int    `yaml:"busy_timeout_ms" env:"VOLLEY_SQLITE_BUSY_TIMEOUT_MS" env-default:"5000" validate:"gte=0"`
}
