// Package main реализует точку входа сервиса volleymatch.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"volleymatch/internal/volleymatch/adapters/events"
	"volleymatch/internal/volleymatch/adapters/ops"
	"volleymatch/internal/volleymatch/adapters/sqlstore"
	"volleymatch/internal/volleymatch/adapters/storage"
	"volleymatch/internal/volleymatch/app"
	"volleymatch/internal/volleymatch/config"
	"volleymatch/internal/volleymatch/db"
	"volleymatch/internal/volleymatch/ports/services"
	"volleymatch/pkg/db/redis"
	"volleymatch/pkg/logger"
	"volleymatch/pkg/persistence"
	"volleymatch/pkg/retry"
	"volleymatch/pkg/shutdown"
)

// Константы для переменных окружения.
const (
	EnvLoggerMode  = "VOLLEY_LOGGER_MODE"
	EnvLoggerLevel = "VOLLEY_LOGGER_LEVEL"
	EnvConfigFile  = "VOLLEY_CONFIG_FILE"
)

// Константы для сообщений об ошибках.
const (
	ErrInitLogger           = "failed to initialize logger"
	ErrSyncLogger           = "failed to sync logger"
	ErrLoadConfig           = "failed to load configuration"
	ErrInitLoggerWithConfig = "failed to initialize logger with configuration settings"
	ErrInitDB               = "failed to initialize database"
	ErrCreateRedisClient    = "failed to create Redis client"
	ErrInitStorage          = "failed to initialize image storage"
	ErrInitMetrics          = "failed to register metrics"
	ErrStartOps             = "failed to start ops server"
	ErrShutdown             = "shutdown finished with errors"
)

// Константы для игнорируемых ошибок.
const (
	ErrSyncStderr = "sync /dev/stderr: invalid argument"
	ErrSyncStdout = "sync /dev/stdout: invalid argument"
)

// Константы для сообщений сервиса.
const (
	LogServiceStarted      = "volleymatch service started"
	LogServiceReady        = "volleymatch service ready"
	LogServiceShutdownDone = "volleymatch service shutdown complete"
	LogClosingDB           = "closing database connections"
	LogClosingRedis        = "closing Redis connection"
	LogInitRepo            = "initializing repositories"
	LogInitEvents          = "initializing event publisher"
	LogInitStorage         = "initializing image storage"
	LogInitUseCases        = "initializing use cases"
	LogEventsInMemory      = "Redis disabled, domain events are kept in memory"
)

func main() {
	env := logger.Development
	if strings.ToLower(os.Getenv(EnvLoggerMode)) == "production" {
		env = logger.Production
	}

	log, err := logger.NewLogger(env, os.Getenv(EnvLoggerLevel))
	if err != nil {
		panic(ErrInitLogger + ": " + err.Error())
	}

	logger.SetGlobalLogger(log)

	ctx := logger.NewRequestIDContext(context.Background(), "")

	var exitCode int

	func() {
		defer func() {
			if err := log.Sync(); err != nil {
				errMsg := err.Error()
				if strings.Contains(errMsg, ErrSyncStderr) || strings.Contains(errMsg, ErrSyncStdout) {
					return
				}
				if _, writeErr := fmt.Fprintf(os.Stderr, "%s: %v\n", ErrSyncLogger, err); writeErr != nil {
					panic(writeErr)
				}
			}
		}()

		envPath := os.Getenv(EnvConfigFile)
		if envPath == "" {
			envPath = config.DefaultEnvPath
		}
		cfg, err := config.Load(ctx, envPath)
		if err != nil {
			log.Error(ctx, ErrLoadConfig, zap.Error(err))
			exitCode = 1
			return
		}

		finalLogger, err := logger.NewLogger(cfg.Logging.GetEnvironment(), cfg.Logging.Level)
		if err != nil {
			log.Error(ctx, ErrInitLoggerWithConfig, zap.Error(err))
			exitCode = 1
			return
		}
		logger.SetGlobalLogger(finalLogger)
		log = finalLogger

		log.Info(ctx, LogServiceStarted,
			zap.String("environment", string(cfg.Logging.GetEnvironment())),
			zap.String("log_level", cfg.Logging.Level),
			zap.String("startup_time", time.Now().Format(time.RFC3339)))

		store, err := db.Open(ctx, cfg)
		if err != nil {
			log.Error(ctx, ErrInitDB, zap.Error(err))
			exitCode = 1
			return
		}
		hooks := []shutdown.Hook{func(ctx context.Context) error {
			log.Info(ctx, LogClosingDB)
			return store.Close(ctx)
		}}

		log.Info(ctx, LogInitEvents)
		var publisher services.EventPublisher
		if cfg.Redis.Enabled {
			redisClient, err := redis.NewClient(ctx, cfg.Redis.ToRedisConfig())
			if err != nil {
				log.Error(ctx, ErrCreateRedisClient, zap.Error(err))
				exitCode = 1
				return
			}
			hooks = append(hooks, func(ctx context.Context) error {
				log.Info(ctx, LogClosingRedis)
				return redisClient.Close(ctx)
			})
			publisher = events.NewRedisPublisher(redisClient.RawClient(), cfg.Redis.Stream, cfg.Redis.MaxLen)
		} else {
			log.Warn(ctx, LogEventsInMemory)
			publisher = events.NewMemoryPublisher()
		}

		registry := prometheus.NewRegistry()
		registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		metrics, err := persistence.NewMetrics(registry)
		if err != nil {
			log.Error(ctx, ErrInitMetrics, zap.Error(err))
			exitCode = 1
			return
		}

		dispatcher := events.NewDispatcher(publisher, events.WithRetry(retry.DefaultPolicy()))
		units := persistence.NewFactory(store.Conn,
			persistence.WithAfterCommit(dispatcher.Hook()),
			persistence.WithAfterRollback(dispatcher.DiscardHook()),
			persistence.WithMetrics(metrics),
		)

		log.Info(ctx, LogInitRepo)
		repoFactory := sqlstore.NewRepositoryFactory(units)

		log.Info(ctx, LogInitStorage, zap.String("driver", cfg.Storage.Driver))
		var images services.ImageStorage
		if cfg.Storage.Driver == config.StorageS3 {
			images, err = storage.NewS3Storage(ctx, cfg.Storage.ToS3Config())
			if err != nil {
				log.Error(ctx, ErrInitStorage, zap.Error(err))
				exitCode = 1
				return
			}
		} else {
			images = storage.NewMemoryStorage()
		}

		log.Info(ctx, LogInitUseCases)
		playerUseCase := app.NewPlayerUseCase(repoFactory.PlayerRepository(), images, cfg.Storage.GetAvatarURLTTL())
		groupUseCase := app.NewVolleyGroupUseCase(repoFactory.VolleyGroupRepository(), playerUseCase)
		service := app.NewService(units, playerUseCase, groupUseCase)

		if cfg.Metrics.Enabled {
			opsServer := ops.New(&cfg.Metrics, registry, store.Ping, service.Ready)
			if err := opsServer.Start(ctx); err != nil {
				log.Error(ctx, ErrStartOps, zap.Error(err))
				exitCode = 1
				return
			}
			hooks = append(hooks, opsServer.Stop)
		}

		log.Info(ctx, LogServiceReady)

		if err := shutdown.Wait(ctx, cfg.Shutdown.GetTimeout(), hooks...); err != nil {
			log.Error(ctx, ErrShutdown, zap.Error(err))
			exitCode = 1
		}

		log.Info(ctx, LogServiceShutdownDone)
	}()

	if exitCode != 0 {
		os.Exit(exitCode)
	}
}
