// Package redis подключает Redis через go-redis.
package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"volleymatch/pkg/logger"
)

// Константы для сообщений логгера и ошибок.
const (
	LogConnected = "connected to Redis"
	LogClosing   = "closing Redis client"
	ErrConnect   = "failed to connect to Redis"
)

// Client оборачивает клиент Redis.
type Client struct {
	client *redis.Client
}

// NewClient создает клиент и проверяет соединение в пределах cfg.Timeout.
func NewClient(ctx context.Context, cfg *Config) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		ReadTimeout:  cfg.Timeout,
		WriteTimeout: cfg.Timeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		logger.Log(ctx).Error(ctx, ErrConnect, zap.String("addr", cfg.Addr()), zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrConnect, err)
	}

	logger.Log(ctx).Info(ctx, LogConnected, zap.String("addr", cfg.Addr()), zap.Int("db", cfg.DB))
	return &Client{client: rdb}, nil
}

// Ping проверяет доступность Redis.
func (c *Client) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close закрывает соединение с Redis.
func (c *Client) Close(ctx context.Context) error {
	logger.Log(ctx).Info(ctx, LogClosing)
	return c.client.Close()
}

// RawClient возвращает базовый клиент для команд, которых нет в обертке.
func (c *Client) RawClient() *redis.Client {
	return c.client
}
