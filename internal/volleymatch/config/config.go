// Package config содержит конфигурацию сервиса volleymatch.
package config

import (
	"context"

	"go.uber.org/zap"

	"volleymatch/pkg/config"
	"volleymatch/pkg/logger"
)

// ServiceName - имя сервиса в логах.
const ServiceName = "volleymatch"

// DefaultEnvPath - путь к .env-файлу, который читается, если существует.
const DefaultEnvPath = "deploy/.env"

// Config представляет полную конфигурацию приложения.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Postgres PostgresConfig `yaml:"postgres"`
	SQLite   SQLiteConfig   `yaml:"sqlite"`
	Redis    RedisConfig    `yaml:"redis"`
	Storage  StorageConfig  `yaml:"storage"`
	Logging  LoggingConfig  `yaml:"logging"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Shutdown ShutdownConfig `yaml:"shutdown"`
}

// Load загружает конфигурацию из окружения и envPath.
func Load(ctx context.Context, envPath string) (*Config, error) {
	cfg, err := config.Load[Config](ctx, ServiceName, envPath)
	if err != nil {
		return nil, err
	}

	logger.Log(ctx).Info(ctx, "volleymatch configuration",
		zap.String("database_driver", cfg.Database.Driver),
		zap.String("storage_driver", cfg.Storage.Driver),
		zap.Bool("redis_enabled", cfg.Redis.Enabled),
		zap.Bool("metrics_enabled", cfg.Metrics.Enabled),
		zap.String("log_level", cfg.Logging.Level),
		zap.String("log_mode", cfg.Logging.Mode),
		zap.Int("shutdown_timeout_seconds", cfg.Shutdown.Timeout))

	return cfg, nil
}
