package search

import "encoding/json"

// Result - неизменяемая страница результатов поиска с метаданными пагинации.
type Result[T any] struct {
	items       []T
	total       int
	currentPage int
	perPage     int
	lastPage    int
	isFirstPage bool
	isLastPage  bool
}

// NewResult вычисляет метаданные страницы. При total == 0 последней считается страница 1.
func NewResult[T any](items []T, total, currentPage, perPage int) Result[T] {
	lastPage := 1
	if total > 0 && perPage > 0 {
		lastPage = (total + perPage - 1) / perPage
	}
	return Result[T]{
		items:       items,
		total:       total,
		currentPage: currentPage,
		perPage:     perPage,
		lastPage:    lastPage,
		isFirstPage: currentPage == 1,
		isLastPage:  total == 0 || currentPage == lastPage,
	}
}

// MapResult преобразует элементы страницы, сохраняя метаданные.
func MapResult[T, U any](r Result[T], fn func(T) U) Result[U] {
	items := make([]U, 0, len(r.items))
	for _, item := range r.items {
		items = append(items, fn(item))
	}
	return Result[U]{
		items:       items,
		total:       r.total,
		currentPage: r.currentPage,
		perPage:     r.perPage,
		lastPage:    r.lastPage,
		isFirstPage: r.isFirstPage,
		isLastPage:  r.isLastPage,
	}
}

// Items возвращает копию среза элементов.
func (r Result[T]) Items() []T {
	out := make([]T, len(r.items))
	copy(out, r.items)
	return out
}

func (r Result[T]) Total() int        { return r.total }
func (r Result[T]) CurrentPage() int  { return r.currentPage }
func (r Result[T]) PerPage() int      { return r.perPage }
func (r Result[T]) LastPage() int     { return r.lastPage }
func (r Result[T]) IsFirstPage() bool { return r.isFirstPage }
func (r Result[T]) IsLastPage() bool  { return r.isLastPage }
func (r Result[T]) ItemsCount() int   { return len(r.items) }

type resultJSON[T any] struct {
	Items       []T  `json:"items"`
	Total       int  `json:"total"`
	CurrentPage int  `json:"current_page"`
	PerPage     int  `json:"per_page"`
	LastPage    int  `json:"last_page"`
	IsFirstPage bool `json:"is_first_page"`
	IsLastPage  bool `json:"is_last_page"`
	ItemsCount  int  `json:"items_count"`
}

func (r Result[T]) MarshalJSON() ([]byte, error) {
	items := r.items
	if items == nil {
		items = []T{}
	}
	return json.Marshal(resultJSON[T]{
		Items:       items,
		Total:       r.total,
		CurrentPage: r.currentPage,
		PerPage:     r.perPage,
		LastPage:    r.lastPage,
		IsFirstPage: r.isFirstPage,
		IsLastPage:  r.isLastPage,
		ItemsCount:  len(r.items),
	})
}
