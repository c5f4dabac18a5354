// Package storage хранит изображения игроков в S3-совместимом хранилище или в памяти.
package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"volleymatch/internal/volleymatch/ports/services"
	"volleymatch/pkg/logger"
)

// DefaultRegion используется, если регион не задан.
const DefaultRegion = "us-east-1"

// Константы для сообщений об ошибках.
const (
	ErrLoadAWSConfig = "failed to load AWS config"
	ErrUploadImage   = "failed to upload image"
	ErrDeleteImage   = "failed to delete image"
	ErrPresignImage  = "failed to presign image url"
)

// ErrBucketRequired возвращается при пустом имени бакета.
var ErrBucketRequired = errors.New("s3 bucket is required")

// S3Config - параметры подключения к бакету.
type S3Config struct {
	Bucket   string
	Region   string
	Endpoint string
	// AccessKeyID и SecretAccessKey необязательны: без них используется цепочка AWS по умолчанию.
	AccessKeyID     string
	SecretAccessKey string
	PathStyle       bool
}

// S3Storage реализует services.ImageStorage поверх одного бакета.
type S3Storage struct {
	client  *s3.Client
	presign *s3.PresignClient
	bucket  string
}

var _ services.ImageStorage = (*S3Storage)(nil)

// NewS3Storage создает клиент S3 по cfg.
func NewS3Storage(ctx context.Context, cfg S3Config) (*S3Storage, error) {
	if cfg.Bucket == "" {
		return nil, ErrBucketRequired
	}
	region := cfg.Region
	if region == "" {
		region = DefaultRegion
	}

	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrLoadAWSConfig, err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return NewS3StorageFromClient(client, cfg.Bucket), nil
}

// NewS3StorageFromClient оборачивает готовый клиент.
func NewS3StorageFromClient(client *s3.Client, bucket string) *S3Storage {
	return &S3Storage{client: client, presign: s3.NewPresignClient(client), bucket: bucket}
}

func (s *S3Storage) log(ctx context.Context, method string) *logger.Logger {
	return logger.Log(ctx).With(zap.String("storage", "s3"), zap.String("method", method), zap.String("bucket", s.bucket))
}

// Upload записывает изображение по ключу image.Key, перезаписывая существующее.
func (s *S3Storage) Upload(ctx context.Context, image services.Image) error {
	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(image.Key),
		Body:   image.Body,
	}
	if image.ContentType != "" {
		input.ContentType = aws.String(image.ContentType)
	}
	if image.Size > 0 {
		input.ContentLength = aws.Int64(image.Size)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		s.log(ctx, "Upload").Error(ctx, ErrUploadImage, zap.String("key", image.Key), zap.Error(err))
		return fmt.Errorf("%s: %w", ErrUploadImage, err)
	}
	return nil
}

// Delete удаляет изображение. Отсутствующий ключ не считается ошибкой.
func (s *S3Storage) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{Bucket: aws.String(s.bucket), Key: aws.String(key)})
	if err != nil {
		s.log(ctx, "Delete").Error(ctx, ErrDeleteImage, zap.String("key", key), zap.Error(err))
		return fmt.Errorf("%s: %w", ErrDeleteImage, err)
	}
	return nil
}

// PresignedURL возвращает подписанную ссылку GET, действующую ttl.
func (s *S3Storage) PresignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	out, err := s.presign.PresignGetObject(ctx,
		&s3.GetObjectInput{Bucket: aws.String(s.bucket), Key: aws.String(key)},
		func(o *s3.PresignOptions) { o.Expires = ttl })
	if err != nil {
		return "", fmt.Errorf("%s: %w", ErrPresignImage, err)
	}
	return out.URL, nil
}
