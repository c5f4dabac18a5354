// Package ops поднимает служебный HTTP-сервер с метриками Prometheus и проверкой готовности.
package ops

import (
	"context"
	"fmt"
	"net"
	"net/http"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"volleymatch/internal/volleymatch/config"
	"volleymatch/pkg/logger"
)

// Константы для логирования.
const (
	LogServerStarting = "starting ops server"
	LogServerStarted  = "ops server started"
	LogServerStopping = "stopping ops server"
	LogHealthFailed   = "health check failed"
	ErrServerStart    = "failed to start ops server"
)

// HealthPath - путь проверки готовности.
const HealthPath = "/healthz"

// HealthCheck проверяет зависимость сервиса.
type HealthCheck func(ctx context.Context) error

// Server отдает метрики и состояние сервиса.
type Server struct {
	cfg *config.MetricsConfig
	app *fiber.App
}

// New создает сервер. Метрики берутся из gatherer, готовность определяется checks.
func New(cfg *config.MetricsConfig, gatherer prometheus.Gatherer, checks ...HealthCheck) *Server {
	app := fiber.New()

	app.Get(cfg.Path, adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	app.Get(HealthPath, func(c fiber.Ctx) error {
		ctx := c.Context()
		for _, check := range checks {
			if err := check(ctx); err != nil {
				logger.Log(ctx).Warn(ctx, LogHealthFailed, zap.Error(err))
				return c.Status(http.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable"})
			}
		}
		return c.JSON(fiber.Map{"status": "ok"})
	})

	return &Server{cfg: cfg, app: app}
}

// App возвращает fiber-приложение сервера.
func (s *Server) App() *fiber.App {
	return s.app
}

// Start открывает порт и обслуживает запросы в отдельной горутине.
func (s *Server) Start(ctx context.Context) error {
	log := logger.Log(ctx)
	address := s.cfg.Address()

	log.Info(ctx, LogServerStarting, zap.String("address", address))

	listener, err := net.Listen("tcp", address)
	if err != nil {
		log.Error(ctx, ErrServerStart, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrServerStart, err)
	}

	go func() {
		if err := s.app.Listener(listener, fiber.ListenConfig{DisableStartupMessage: true}); err != nil {
			log.Error(ctx, ErrServerStart, zap.Error(err))
		}
	}()

	log.Info(ctx, LogServerStarted, zap.String("address", address))
	return nil
}

// Stop останавливает сервер, дожидаясь активных запросов.
func (s *Server) Stop(ctx context.Context) error {
	logger.Log(ctx).Info(ctx, LogServerStopping)
	return s.app.ShutdownWithContext(ctx)
}
