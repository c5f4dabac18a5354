package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"sync"
	"time"

	"volleymatch/internal/volleymatch/ports/services"
)

// ErrImageNotFound возвращается для неизвестного ключа.
var ErrImageNotFound = errors.New("image not found")

type object struct {
	data        []byte
	contentType string
}

// MemoryStorage хранит изображения в памяти процесса. Подходит для локального запуска и тестов.
type MemoryStorage struct {
	mu      sync.RWMutex
	objects map[string]object
	now     func() time.Time
}

var _ services.ImageStorage = (*MemoryStorage)(nil)

// NewMemoryStorage создает пустое хранилище.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{objects: make(map[string]object), now: time.Now}
}

func (m *MemoryStorage) Upload(_ context.Context, image services.Image) error {
	data, err := io.ReadAll(image.Body)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrUploadImage, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[image.Key] = object{data: data, contentType: image.ContentType}
	return nil
}

func (m *MemoryStorage) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

// PresignedURL возвращает ссылку memory:// с моментом истечения.
func (m *MemoryStorage) PresignedURL(_ context.Context, key string, ttl time.Duration) (string, error) {
	m.mu.RLock()
	_, ok := m.objects[key]
	m.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("%s: %w", ErrPresignImage, ErrImageNotFound)
	}

	u := url.URL{Scheme: "memory", Path: "/" + key}
	u.RawQuery = url.Values{"expires": {m.now().Add(ttl).UTC().Format(time.RFC3339)}}.Encode()
	return u.String(), nil
}

// Object возвращает содержимое и тип изображения.
func (m *MemoryStorage) Object(key string) (io.Reader, string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[key]
	if !ok {
		return nil, "", false
	}
	return bytes.NewReader(obj.data), obj.contentType, true
}

// Len возвращает число хранимых изображений.
func (m *MemoryStorage) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}
