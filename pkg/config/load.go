// Package config загружает конфигурацию сервисов из переменных окружения и .env-файла.
package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
	"go.uber.org/zap"

	"volleymatch/pkg/logger"
)

const (
	msgLoadingConfiguration    = "loading configuration"
	msgConfigurationLoaded     = "configuration loaded successfully"
	msgFailedLoadConfiguration = "failed to load configuration"
	msgEnvFileMissing          = "env file not found, reading environment only"

	ErrLoadConfiguration     = "failed to load configuration"
	ErrValidateConfiguration = "invalid configuration"

	attrService = "service"
	attrPath    = "path"
)

// Load читает конфигурацию типа T. Если файл envPath существует, значения из него
// дополняют окружение, иначе читается только окружение. Результат проверяется
// по тегам validate.
func Load[T any](ctx context.Context, serviceName, envPath string) (*T, error) {
	log := logger.Log(ctx).With(zap.String(attrService, serviceName))

	var cfg T
	if envPath != "" && fileExists(envPath) {
		log.Info(ctx, msgLoadingConfiguration, zap.String(attrPath, envPath))
		if err := cleanenv.ReadConfig(envPath, &cfg); err != nil {
			log.Error(ctx, msgFailedLoadConfiguration, zap.Error(err))
			return nil, fmt.Errorf("%s: %w", ErrLoadConfiguration, err)
		}
	} else {
		if envPath != "" {
			log.Debug(ctx, msgEnvFileMissing, zap.String(attrPath, envPath))
		}
		log.Info(ctx, msgLoadingConfiguration)
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			log.Error(ctx, msgFailedLoadConfiguration, zap.Error(err))
			return nil, fmt.Errorf("%s: %w", ErrLoadConfiguration, err)
		}
	}

	if err := validator.New().Struct(&cfg); err != nil {
		log.Error(ctx, msgFailedLoadConfiguration, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrValidateConfiguration, err)
	}

	log.Info(ctx, msgConfigurationLoaded)
	return &cfg, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return !errors.Is(err, fs.ErrNotExist)
}
