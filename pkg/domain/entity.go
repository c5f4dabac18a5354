package domain

import "reflect"

// Entity - объект с идентичностью.
type Entity[ID Identifier] interface {
	ID() ID
}

// BaseEntity хранит идентификатор, присвоенный при создании.
type BaseEntity[ID Identifier] struct {
	id ID
}

// NewBaseEntity создает основу сущности с идентификатором id.
func NewBaseEntity[ID Identifier](id ID) BaseEntity[ID] {
	return BaseEntity[ID]{id: id}
}

func (e BaseEntity[ID]) ID() ID {
	return e.id
}

// SameEntity сообщает, что a и b одного конкретного типа и имеют равные идентификаторы.
// Значения остальных атрибутов не учитываются.
func SameEntity[ID Identifier](a, b Entity[ID]) bool {
	if isNil(a) || isNil(b) {
		return isNil(a) && isNil(b)
	}
	if reflect.TypeOf(a) != reflect.TypeOf(b) {
		return false
	}
	return a.ID() == b.ID()
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		return rv.IsNil()
	default:
		return false
	}
}
