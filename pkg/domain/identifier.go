// Package domain содержит базовые строительные блоки агрегатов:
// идентификаторы, сущности, корни агрегатов, уведомления валидации и объекты-значения.
package domain

import (
	"github.com/google/uuid"
)

const canonicalUUIDLength = 36

// Identifier ограничивает типы, пригодные в качестве идентификатора сущности.
type Identifier interface {
	comparable
	String() string
}

// UUID - неизменяемый идентификатор в канонической форме 8-4-4-4-12.
// Сравнение чувствительно к регистру и не нормализует значение.
type UUID struct {
	value string
}

// NewUUID генерирует случайный идентификатор версии 4.
func NewUUID() UUID {
	return UUID{value: uuid.NewString()}
}

// ParseUUID проверяет raw и возвращает идентификатор.
// Некорректное значение сразу приводит к *InvalidIdentifierError.
func ParseUUID(raw string) (UUID, error) {
	if len(raw) != canonicalUUIDLength {
		return UUID{}, &InvalidIdentifierError{Value: raw}
	}
	if _, err := uuid.Parse(raw); err != nil {
		return UUID{}, &InvalidIdentifierError{Value: raw, Err: err}
	}
	return UUID{value: raw}, nil
}

// MustParseUUID паникует, если raw не является UUID. Используется в тестах и константах.
func MustParseUUID(raw string) UUID {
	id, err := ParseUUID(raw)
	if err != nil {
		panic(err)
	}
	return id
}

func (u UUID) String() string {
	return u.value
}

// Equals сравнивает строковые значения идентификаторов.
func (u UUID) Equals(other UUID) bool {
	return u.value == other.value
}

// IsZero сообщает, что идентификатор не был присвоен.
func (u UUID) IsZero() bool {
	return u.value == ""
}
