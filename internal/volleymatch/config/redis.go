package config

import (
	"time"

	"volleymatch/pkg/db/redis"
)

// RedisConfig содержит настройки публикации событий в Redis Streams.
type RedisConfig struct {
	Enabled  bool   `yaml:"enabled" env:"VOLLEY_REDIS_ENABLED" env-default:"false"`
	Host     string `yaml:"host" env:"VOLLEY_REDIS_HOST" env-default:"localhost"`
	Port     int    `yaml:"port" env:"VOLLEY_REDIS_PORT" env-default:"6379"`
	Password string `yaml:"password" env:"VOLLEY_REDIS_PASSWORD" env-default:""`
	DB       int    `yaml:"db" env:"VOLLEY_REDIS_DB" env-default:"0"`
	PoolSize int    `yaml:"pool_size" env:"VOLLEY_REDIS_POOL_SIZE" env-default:"10"`
	Timeout  int    `yaml:"timeout" env:"VOLLEY_REDIS_TIMEOUT" env-default:"5"`
	Stream   string `yaml:"stream" env:"VOLLEY_REDIS_STREAM" env-default:"volleymatch:events"`
	MaxLen   int64  `yaml:"max_len" env:"VOLLEY_REDIS_STREAM_MAX_LEN" env-default:"10000" validate:"gte=0"`
}

// ToRedisConfig переводит настройки в конфигурацию клиента.
func (r *RedisConfig) ToRedisConfig() *redis.Config {
	return &redis.Config{
		Host:     r.Host,
		Port:     r.Port,
		Password: r.Password,
		DB:       r.DB,
		PoolSize: r.PoolSize,
		Timeout:  time.Duration(r.Timeout) * time.Second,
	}
}
