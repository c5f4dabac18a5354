// Package search нормализует параметры пагинации и формирует метаданные страницы результата.
package search

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
)

// DefaultPerPage - размер страницы, если он не задан или задан некорректно.
const DefaultPerPage = 10

// maxPageValue ограничивает page и perPage, чтобы смещение LIMIT/OFFSET не переполнялось.
const maxPageValue = math.MaxInt32

// SortDirection - направление сортировки.
type SortDirection string

const (
	Asc  SortDirection = "asc"
	Desc SortDirection = "desc"
)

// Input - сырые параметры поиска, как они приходят с внешней границы.
// Значения могут быть любого типа: строки запроса, числа, nil.
type Input struct {
	Page    any
	PerPage any
	Sort    any
	SortDir any
	Filter  any
}

// Params - неизменяемые нормализованные параметры поиска.
// Создание никогда не завершается ошибкой: некорректные значения заменяются безопасными.
type Params struct {
	page    int
	perPage int
	sort    string
	sortDir SortDirection
	filter  string
}

// NewParams нормализует in.
func NewParams(in Input) Params {
	p := Params{perPage: DefaultPerPage}
	p.setPage(in.Page)
	p.setPerPage(in.PerPage)
	p.setSort(in.Sort)
	p.setSortDir(in.SortDir)
	p.setFilter(in.Filter)
	return p
}

func (p Params) Page() int { return p.page }

func (p Params) PerPage() int { return p.perPage }

// Sort возвращает поле сортировки или пустую строку, если сортировка не задана.
func (p Params) Sort() string { return p.sort }

func (p Params) HasSort() bool { return p.sort != "" }

// SortDir пуст, когда сортировка не задана.
func (p Params) SortDir() SortDirection { return p.sortDir }

// Filter возвращает фильтр или пустую строку, если фильтр не задан.
func (p Params) Filter() string { return p.filter }

func (p Params) HasFilter() bool { return p.filter != "" }

// Offset возвращает число записей, пропускаемых до текущей страницы.
func (p Params) Offset() int { return (p.page - 1) * p.perPage }

// Limit возвращает размер страницы.
func (p Params) Limit() int { return p.perPage }

// WithPage возвращает копию с новым номером страницы.
func (p Params) WithPage(v any) Params {
	p.setPage(v)
	return p
}

// WithPerPage возвращает копию с новым размером страницы.
// Некорректное значение оставляет текущий размер, а не значение по умолчанию.
func (p Params) WithPerPage(v any) Params {
	p.setPerPage(v)
	return p
}

// WithSort возвращает копию с новым полем сортировки, сохраняя направление.
func (p Params) WithSort(v any) Params {
	dir := any(nil)
	if p.sortDir != "" {
		dir = string(p.sortDir)
	}
	p.setSort(v)
	p.setSortDir(dir)
	return p
}

// WithSortDir возвращает копию с новым направлением сортировки.
func (p Params) WithSortDir(v any) Params {
	p.setSortDir(v)
	return p
}

// WithFilter возвращает копию с новым фильтром.
func (p Params) WithFilter(v any) Params {
	p.setFilter(v)
	return p
}

func (p *Params) setPage(v any) {
	page, ok := positiveInt(v)
	if !ok {
		page = 1
	}
	p.page = page
}

func (p *Params) setPerPage(v any) {
	if b, isBool := v.(bool); isBool && b {
		return
	}
	if perPage, ok := positiveInt(v); ok {
		p.perPage = perPage
	}
}

func (p *Params) setSort(v any) {
	p.sort = stringForm(v)
}

func (p *Params) setSortDir(v any) {
	if p.sort == "" {
		p.sortDir = ""
		return
	}
	switch dir := SortDirection(strings.ToLower(fmt.Sprint(v))); dir {
	case Asc, Desc:
		p.sortDir = dir
	default:
		p.sortDir = Asc
	}
}

func (p *Params) setFilter(v any) {
	p.filter = stringForm(v)
}

func stringForm(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	if isNilPointer(v) {
		return ""
	}
	return fmt.Sprint(v)
}

// positiveInt приводит v к числу по правилам нестрогого ввода
// и возвращает его, только если это целое число больше нуля.
func positiveInt(v any) (int, bool) {
	f, ok := toNumber(v)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	if f <= 0 || f != math.Trunc(f) || f > maxPageValue {
		return 0, false
	}
	return int(f), true
}

func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case nil:
		return 0, false
	case bool:
		if n {
			return 1, true
		}
		return 0, true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case string:
		return parseNumber(n)
	default:
		rv := reflect.ValueOf(v)
		if rv.Kind() == reflect.Pointer {
			if rv.IsNil() {
				return 0, false
			}
			return toNumber(rv.Elem().Interface())
		}
		return 0, false
	}
}

func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, true
	}
	lower := strings.ToLower(s)
	if strings.HasPrefix(lower, "0x") || strings.HasPrefix(lower, "0o") || strings.HasPrefix(lower, "0b") {
		n, err := strconv.ParseInt(s, 0, 64)
		if err != nil {
			return 0, false
		}
		return float64(n), true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func isNilPointer(v any) bool {
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}
