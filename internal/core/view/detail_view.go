package view

import (
	"context"
	"errors"
	"listing-web/internal/contextkeys"
	"listing-web/internal/core/domain"
	"listing-web/internal/core/port"
	"listing-web/internal/core/port/usecases_port"
	"sync"
)

// DetailStatus - стадия загрузки детальной страницы.
type DetailStatus string

const (
	DetailIdle     DetailStatus = "idle"
	DetailLoading  DetailStatus = "loading"
	DetailReady    DetailStatus = "ready"
	DetailNotFound DetailStatus = "not_found"
)

// DetailSnapshot - копия состояния для шаблона.
type DetailSnapshot struct {
	ID           string
	Status       DetailStatus
	Record       *domain.PropertyRecord
	CurrentImage string
	ImageIndex   int
	ImageCount   int
	Dots         []domain.CarouselDot
}

// DetailView загружает объявление по идентификатору и держит карусель его изображений.
// Каждая загрузка помечена номером последовательности: смена идентификатора отменяет
// контекст текущей загрузки, а поздний ответ со старым номером отбрасывается.
type DetailView struct {
	mu      sync.Mutex
	fetcher usecases_port.GetPropertyDetailsUseCasePort

	lifeCtx    context.Context
	lifeCancel context.CancelFunc
	closed     bool

	id       string
	seq      uint64
	status   DetailStatus
	record   *domain.PropertyRecord
	carousel *domain.Carousel

	cancelFetch context.CancelFunc
	settled     chan struct{}
	wg          sync.WaitGroup
}

func NewDetailView(fetcher usecases_port.GetPropertyDetailsUseCasePort) *DetailView {
	lifeCtx, lifeCancel := context.WithCancel(context.Background())
	return &DetailView{
		fetcher:    fetcher,
		lifeCtx:    lifeCtx,
		lifeCancel: lifeCancel,
		status:     DetailIdle,
	}
}

// SetID начинает загрузку для id. Тот же id, уже загруженный или загружаемый, ничего не меняет.
// Загрузка живет в контексте представления, а не запроса; из ctx берутся только логгер и trace_id.
func (v *DetailView) SetID(ctx context.Context, id string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		return
	}
	if id == v.id && v.status != DetailIdle {
		return
	}

	v.supersedeLocked()

	v.id = id
	v.status = DetailLoading
	v.record = nil
	v.carousel = nil
	v.settled = make(chan struct{})

	fetchCtx, cancel := context.WithCancel(contextkeys.Detach(v.lifeCtx, ctx))
	v.cancelFetch = cancel
	seq := v.seq

	v.wg.Add(1)
	go v.run(fetchCtx, seq, id)
}

// supersedeLocked отменяет текущую загрузку и будит тех, кто ее ждал.
func (v *DetailView) supersedeLocked() {
	v.seq++
	if v.cancelFetch != nil {
		v.cancelFetch()
		v.cancelFetch = nil
	}
	v.closeSettledLocked()
}

func (v *DetailView) closeSettledLocked() {
	if v.settled != nil {
		close(v.settled)
		v.settled = nil
	}
}

func (v *DetailView) run(ctx context.Context, seq uint64, id string) {
	defer v.wg.Done()

	record, err := v.fetcher.Execute(ctx, id)
	v.complete(ctx, seq, id, record, err)
}

func (v *DetailView) complete(ctx context.Context, seq uint64, id string, record *domain.PropertyRecord, err error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{"component": "DetailView", "property_id": id})

	v.mu.Lock()
	defer v.mu.Unlock()

	if seq != v.seq {
		logger.Debug("Discarding stale detail fetch result", port.Fields{"fetch_seq": seq, "current_seq": v.seq})
		return
	}
	if v.cancelFetch != nil {
		v.cancelFetch()
		v.cancelFetch = nil
	}
	defer v.closeSettledLocked()

	if err != nil {
		if !errors.Is(err, domain.ErrPropertyNotFound) {
			logger.Error("Detail fetch failed", err, nil)
		}
		v.status = DetailNotFound
		return
	}
	if record == nil {
		v.status = DetailNotFound
		return
	}

	carousel, cErr := domain.NewCarousel(record.Images)
	if cErr != nil {
		logger.Warn("Property has no images", nil)
		v.status = DetailNotFound
		return
	}

	v.record = record
	v.carousel = carousel
	v.status = DetailReady
}

// Await ждет завершения текущей загрузки или окончания ctx и возвращает снимок.
func (v *DetailView) Await(ctx context.Context) DetailSnapshot {
	for {
		v.mu.Lock()
		if v.status != DetailLoading || v.settled == nil {
			snapshot := v.snapshotLocked()
			v.mu.Unlock()
			return snapshot
		}
		settled := v.settled
		v.mu.Unlock()

		select {
		case <-settled:
		case <-ctx.Done():
			return v.Snapshot()
		}
	}
}

func (v *DetailView) Snapshot() DetailSnapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.snapshotLocked()
}

func (v *DetailView) snapshotLocked() DetailSnapshot {
	snapshot := DetailSnapshot{ID: v.id, Status: v.status}
	if v.status != DetailReady {
		return snapshot
	}

	record := *v.record
	record.Images = v.carousel.Images()
	snapshot.Record = &record
	snapshot.CurrentImage = v.carousel.Current()
	snapshot.ImageIndex = v.carousel.Index()
	snapshot.ImageCount = v.carousel.Count()
	snapshot.Dots = v.carousel.Dots()
	return snapshot
}

// NextImage листает карусель вперед, если объявление загружено.
func (v *DetailView) NextImage() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.status != DetailReady {
		return false
	}
	v.carousel.Next()
	return true
}

// PrevImage листает карусель назад, если объявление загружено.
func (v *DetailView) PrevImage() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.status != DetailReady {
		return false
	}
	v.carousel.Prev()
	return true
}

// Unmount отменяет загрузку и дожидается завершения фоновых горутин.
func (v *DetailView) Unmount() {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}
	v.closed = true
	v.supersedeLocked()
	v.lifeCancel()
	if v.status == DetailLoading {
		v.status = DetailIdle
	}
	v.mu.Unlock()

	v.wg.Wait()
}
