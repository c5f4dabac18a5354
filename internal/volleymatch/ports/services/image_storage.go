package services

import (
	"context"
	"io"
	"time"
)

// Image - загружаемое изображение.
type Image struct {
	Key         string
	ContentType string
	Size        int64
	Body        io.Reader
}

// ImageStorage хранит изображения игроков во внешнем хранилище.
type ImageStorage interface {
	Upload(ctx context.Context, image Image) error
	Delete(ctx context.Context, key string) error
	// PresignedURL возвращает временную ссылку на изображение.
	PresignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}
