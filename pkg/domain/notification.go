package domain

import (
	"encoding/json"
	"slices"
	"strings"
)

// Notification - результат валидации: упорядоченный набор сообщений об ошибках по полям.
// Нулевое значение готово к использованию. Копии независимы: AddError на копии
// не меняет исходное значение.
type Notification struct {
	entries []fieldErrors
}

type fieldErrors struct {
	field    string
	messages []string
}

func (n Notification) index(field string) int {
	return slices.IndexFunc(n.entries, func(e fieldErrors) bool { return e.field == field })
}

// AddError добавляет сообщение msg к полю field. Повторное сообщение не дублируется.
func (n *Notification) AddError(field, msg string) {
	i := n.index(field)
	if i >= 0 && slices.Contains(n.entries[i].messages, msg) {
		return
	}

	entries := slices.Clone(n.entries)
	if i < 0 {
		n.entries = append(entries, fieldErrors{field: field, messages: []string{msg}})
		return
	}
	entries[i].messages = append(slices.Clip(entries[i].messages), msg)
	n.entries = entries
}

// Merge добавляет все ошибки other в n с сохранением порядка.
func (n *Notification) Merge(other Notification) {
	for _, e := range other.entries {
		for _, msg := range e.messages {
			n.AddError(e.field, msg)
		}
	}
}

func (n Notification) HasErrors() bool {
	return len(n.entries) > 0
}

// Fields возвращает поля с ошибками в порядке их появления.
func (n Notification) Fields() []string {
	out := make([]string, 0, len(n.entries))
	for _, e := range n.entries {
		out = append(out, e.field)
	}
	return out
}

// Messages возвращает сообщения для поля field.
func (n Notification) Messages(field string) []string {
	i := n.index(field)
	if i < 0 {
		return nil
	}
	return slices.Clone(n.entries[i].messages)
}

// Map возвращает копию ошибок в виде map.
func (n Notification) Map() map[string][]string {
	out := make(map[string][]string, len(n.entries))
	for _, e := range n.entries {
		out[e.field] = slices.Clone(e.messages)
	}
	return out
}

func (n Notification) String() string {
	parts := make([]string, 0, len(n.entries))
	for _, e := range n.entries {
		parts = append(parts, e.field+": "+strings.Join(e.messages, ", "))
	}
	return strings.Join(parts, "; ")
}

func (n Notification) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.Map())
}
