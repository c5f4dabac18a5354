package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Базовые ошибки домена. Конкретные типы ниже сопоставляются с ними через errors.Is.
var (
	ErrInvalidIdentifier = errors.New("invalid identifier")
	ErrEntityNotFound    = errors.New("entity not found")
	ErrEntityValidation  = errors.New("entity validation failed")
)

// InvalidIdentifierError возникает при создании идентификатора из некорректной строки.
type InvalidIdentifierError struct {
	Value string
	Err   error
}

func (e *InvalidIdentifierError) Error() string {
	return fmt.Sprintf("%s: %q must be a valid UUID", ErrInvalidIdentifier, e.Value)
}

func (e *InvalidIdentifierError) Is(target error) bool {
	return target == ErrInvalidIdentifier
}

func (e *InvalidIdentifierError) Unwrap() error {
	return e.Err
}

// EntityNotFoundError сообщает об отсутствии одной или нескольких сущностей.
type EntityNotFoundError struct {
	Entity string
	IDs    []string
}

// NewEntityNotFoundError создает ошибку для сущности entity с идентификаторами ids.
func NewEntityNotFoundError[ID Identifier](entity string, ids ...ID) *EntityNotFoundError {
	raw := make([]string, 0, len(ids))
	for _, id := range ids {
		raw = append(raw, id.String())
	}
	return &EntityNotFoundError{Entity: entity, IDs: raw}
}

func (e *EntityNotFoundError) Error() string {
	if len(e.IDs) == 0 {
		return fmt.Sprintf("%s not found", e.Entity)
	}
	return fmt.Sprintf("%s not found using id %s", e.Entity, strings.Join(e.IDs, ", "))
}

func (e *EntityNotFoundError) Is(target error) bool {
	return target == ErrEntityNotFound
}

// EntityValidationError поднимает накопленные ошибки валидации до границы use case.
type EntityValidationError struct {
	Notification Notification
}

// NewEntityValidationError оборачивает notification в ошибку.
func NewEntityValidationError(notification Notification) *EntityValidationError {
	return &EntityValidationError{Notification: notification}
}

func (e *EntityValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrEntityValidation, e.Notification.String())
}

func (e *EntityValidationError) Is(target error) bool {
	return target == ErrEntityValidation
}

// Err возвращает *EntityValidationError, если в n есть ошибки, иначе nil.
func (n Notification) Err() error {
	if !n.HasErrors() {
		return nil
	}
	return NewEntityValidationError(n)
}
