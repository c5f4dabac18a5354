package config

import (
	"net"
	"strconv"
)

// MetricsConfig содержит настройки экспорта метрик Prometheus.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" env:"VOLLEY_METRICS_ENABLED" env-default:"true"`
	Host    string `yaml:"host" env:"VOLLEY_METRICS_HOST" env-default:"0.0.0.0"`
	Port    int    `yaml:"port" env:"VOLLEY_METRICS_PORT" env-default:"9090" validate:"gt=0,lt=65536"`
	Path    string `yaml:"path" env:"VOLLEY_METRICS_PATH" env-default:"/metrics" validate:"startswith=/"`
}

// Address возвращает адрес в форме host:port.
func (m *MetricsConfig) Address() string {
	return net.JoinHostPort(m.Host, strconv.Itoa(m.Port))
}
