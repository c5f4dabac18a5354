package domain

import "reflect"

// ValueObjectEquals сравнивает объекты-значения структурно:
// совпадают конкретные типы и все атрибуты, упорядоченные коллекции поэлементно.
func ValueObjectEquals(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if reflect.TypeOf(a) != reflect.TypeOf(b) {
		return false
	}
	return reflect.DeepEqual(a, b)
}
