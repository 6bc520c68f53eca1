package view

import (
	"listing-web/internal/core/domain"
	"sync"
	"time"
)

// ListingConfig - длительности искусственной загрузки сетки.
type ListingConfig struct {
	InitialDelay    time.Duration
	PageChangeDelay time.Duration
}

// ListingSnapshot - все, что нужно шаблону для отрисовки сетки.
type ListingSnapshot struct {
	Page        domain.ListingPage
	Busy        bool
	BusyFor     time.Duration
	ScrollToTop bool
}

// ListingView - состояние сетки объявлений одного посетителя между запросами.
// Живет от Mount до Unmount, номер страницы не переживает Unmount.
type ListingView struct {
	mu          sync.Mutex
	cfg         ListingConfig
	page        int
	mounted     bool
	scrollToTop bool
	busy        *ScopedTimer
}

func NewListingView(cfg ListingConfig) *ListingView {
	return &ListingView{
		cfg:  cfg,
		page: 1,
		busy: NewScopedTimer(),
	}
}

// Mount запускает начальную загрузку. Повторный вызов ничего не делает.
func (v *ListingView) Mount() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.mounted {
		return
	}
	v.mounted = true
	v.page = 1
	v.busy.Trigger(v.cfg.InitialDelay)
}

// ChangePage переключает страницу. Номер должен быть уже ограничен вызывающим.
// Возвращает false, если страница не изменилась.
func (v *ListingView) ChangePage(page int) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.mounted || page == v.page || page < 1 {
		return false
	}
	v.page = page
	v.scrollToTop = true
	v.busy.Trigger(v.cfg.PageChangeDelay)
	return true
}

func (v *ListingView) CurrentPage() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.page
}

// Render строит снимок для records. Флаг прокрутки вверх одноразовый.
func (v *ListingView) Render(records []domain.PropertyRecord) ListingSnapshot {
	v.mu.Lock()
	defer v.mu.Unlock()

	page := domain.BuildListingPage(records, v.page)
	// список мог уменьшиться после сброса кэша
	v.page = page.Pagination.CurrentPage

	snapshot := ListingSnapshot{
		Page:        page,
		Busy:        v.busy.Busy(),
		BusyFor:     v.busy.Remaining(),
		ScrollToTop: v.scrollToTop,
	}
	v.scrollToTop = false
	return snapshot
}

// Unmount отменяет все отложенные таймеры и сбрасывает состояние.
func (v *ListingView) Unmount() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.busy.Cancel()
	v.mounted = false
	v.page = 1
	v.scrollToTop = false
}
