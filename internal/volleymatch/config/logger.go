package config

import (
	"volleymatch/pkg/logger"
)

// LoggingConfig содержит настройки логирования.
type LoggingConfig struct {
	Level string `yaml:"level" env:"VOLLEY_LOGGER_LEVEL" env-default:"info"`
	Mode  string `yaml:"mode" env:"VOLLEY_LOGGER_MODE" env-default:"development" validate:"oneof=development production"`
}

// GetEnvironment получает строку режима в logger environment.
func (l *LoggingConfig) GetEnvironment() logger.Environment {
	if l.Mode == "production" {
		return logger.Production
	}
	return logger.Development
}
