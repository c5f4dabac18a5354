package config

import (
	"time"

	"volleymatch/internal/volleymatch/adapters/storage"
)

// Поддерживаемые хранилища изображений.
const (
	StorageS3     = "s3"
	StorageMemory = "memory"
)

// StorageConfig содержит настройки хранилища аватаров.
type StorageConfig struct {
	Driver          string `yaml:"driver" env:"VOLLEY_STORAGE_DRIVER" env-default:"memory" validate:"oneof=s3 memory"`
	Bucket          string `yaml:"bucket" env:"VOLLEY_S3_BUCKET" validate:"required_if=Driver s3"`
	Region          string `yaml:"region" env:"VOLLEY_S3_REGION" env-default:"us-east-1"`
	Endpoint        string `yaml:"endpoint" env:"VOLLEY_S3_ENDPOINT"`
	AccessKeyID     string `yaml:"access_key_id" env:"VOLLEY_S3_ACCESS_KEY_ID"`
	SecretAccessKey string `yaml:"secret_access_key" env:"VOLLEY_S3_SECRET_ACCESS_KEY"`
	UsePathStyle    bool   `yaml:"use_path_style" env:"VOLLEY_S3_USE_PATH_STYLE" env-default:"false"`
	AvatarURLTTL    int    `yaml:"avatar_url_ttl" env:"VOLLEY_AVATAR_URL_TTL" env-default:"900" validate:"gt=0"`
}

// GetAvatarURLTTL возвращает время жизни ссылки на аватар.
func (s *StorageConfig) GetAvatarURLTTL() time.Duration {
	return time.Duration(s.AvatarURLTTL) * time.Second
}

// ToS3Config переводит настройки в конфигурацию S3-хранилища.
func (s *StorageConfig) ToS3Config() storage.S3Config {
	return storage.S3Config{
		Bucket:          s.Bucket,
		Region:          s.Region,
		Endpoint:        s.Endpoint,
		AccessKeyID:     s.AccessKeyID,
		SecretAccessKey: s.SecretAccessKey,
		PathStyle:       s.UsePathStyle,
	}
}
