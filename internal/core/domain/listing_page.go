package domain

// ListingPage - одна страница сетки объявлений вместе с полосой пагинации.
type ListingPage struct {
	Pagination PaginationState
	Items      []PropertyRecord
	Controls   []PageControl
}

// BuildListingPage ограничивает page диапазоном страниц и выбирает записи для нее.
// Для пустого списка возвращается страница без записей и без элементов пагинации.
func BuildListingPage(records []PropertyRecord, page int) ListingPage {
	state := NewPaginationState(len(records), page)
	result := ListingPage{
		Pagination: state,
		Items:      SelectPage(records, state.CurrentPage, state.PageSize),
	}
	if state.ShowControls() {
		result.Controls = state.Controls()
	}
	return result
}
