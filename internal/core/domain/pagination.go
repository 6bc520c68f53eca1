package domain

import "sort"

// PageSize - фиксированное количество объявлений на странице.
const PageSize = 8

// PageControlKind - тип элемента полосы пагинации.
type PageControlKind string

const (
	PageControlPage     PageControlKind = "page"
	PageControlEllipsis PageControlKind = "ellipsis"
)

// PageControl - один элемент полосы пагинации: номер страницы или многоточие.
type PageControl struct {
	Kind   PageControlKind
	Number int // 0 для многоточия
	Active bool
}

// PaginationState - состояние пагинации для одного отображения списка.
// Инвариант: 1 <= CurrentPage <= TotalPages, либо TotalPages == 0.
type PaginationState struct {
	CurrentPage int
	TotalPages  int
	TotalItems  int
	PageSize    int
}

// TotalPages возвращает ceil(total / size).
func TotalPages(total, size int) int {
	if total <= 0 || size <= 0 {
		return 0
	}
	return (total + size - 1) / size
}

// ClampPage приводит номер страницы к диапазону [1, totalPages].
// При totalPages == 0 возвращается 1.
func ClampPage(page, totalPages int) int {
	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}
	return page
}

// NewPaginationState строит состояние для totalItems записей, ограничивая номер страницы.
func NewPaginationState(totalItems, page int) PaginationState {
	totalPages := TotalPages(totalItems, PageSize)
	return PaginationState{
		CurrentPage: ClampPage(page, totalPages),
		TotalPages:  totalPages,
		TotalItems:  totalItems,
		PageSize:    PageSize,
	}
}

// HasPrev - активна ли кнопка "назад".
func (s PaginationState) HasPrev() bool {
	return s.TotalPages > 0 && s.CurrentPage > 1
}

// HasNext - активна ли кнопка "вперед".
func (s PaginationState) HasNext() bool {
	return s.CurrentPage < s.TotalPages
}

// ShowControls - полоса пагинации показывается только если страниц больше одной.
func (s PaginationState) ShowControls() bool {
	return s.TotalPages > 1
}

// Controls возвращает элементы полосы пагинации для текущей страницы.
func (s PaginationState) Controls() []PageControl {
	return VisiblePageNumbers(s.CurrentPage, s.TotalPages)
}

// SelectPage возвращает срез [(page-1)*size, page*size), обрезанный по границам records.
// Для страницы вне диапазона результат пустой.
func SelectPage[T any](records []T, page, size int) []T {
	if page < 1 || size <= 0 {
		return nil
	}
	start := (page - 1) * size
	if start >= len(records) {
		return nil
	}
	end := start + size
	if end > len(records) {
		end = len(records)
	}
	return records[start:end:end]
}

// VisiblePageNumbers строит полосу пагинации: первая и последняя страницы,
// текущая и ее соседи. Пропуск из двух и более страниц сворачивается в одно многоточие,
// одиночная пропущенная страница показывается номером.
func VisiblePageNumbers(current, total int) []PageControl {
	if total <= 0 {
		return nil
	}

	candidates := []int{1, current - 1, current, current + 1, total}
	seen := make(map[int]struct{}, len(candidates))
	pages := make([]int, 0, len(candidates))
	for _, p := range candidates {
		if p < 1 || p > total {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		pages = append(pages, p)
	}
	sort.Ints(pages)

	controls := make([]PageControl, 0, len(pages)+2)
	prev := 0
	for _, p := range pages {
		switch gap := p - prev - 1; {
		case gap == 1:
			controls = append(controls, PageControl{Kind: PageControlPage, Number: p - 1, Active: p-1 == current})
		case gap >= 2:
			controls = append(controls, PageControl{Kind: PageControlEllipsis})
		}
		controls = append(controls, PageControl{Kind: PageControlPage, Number: p, Active: p == current})
		prev = p
	}
	return controls
}
