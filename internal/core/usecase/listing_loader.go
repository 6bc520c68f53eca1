package usecase

import (
	"context"
	"errors"
	"fmt"
	"listing-web/internal/contextkeys"
	"listing-web/internal/core/domain"
	"listing-web/internal/core/port"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"
)

const (
	listingFlightKey = "listing"
	// общая загрузка не привязана к отмене отдельного вызывающего, но ограничена по времени
	flightTimeout = 30 * time.Second
)

// ListingLoader читает объявления через кэш и схлопывает одновременные загрузки в одну.
// Общая загрузка идет в собственном контексте: отмена одного вызывающего не влияет на остальных.
type ListingLoader struct {
	source port.PropertySourcePort
	cache  port.PropertyCachePort
	group  singleflight.Group

	// generation увеличивается при каждом сбросе кэша. Загрузка, начатая до сброса,
	// не записывает свой результат в кэш.
	generation atomic.Uint64
}

func NewListingLoader(source port.PropertySourcePort, cache port.PropertyCachePort) *ListingLoader {
	return &ListingLoader{
		source: source,
		cache:  cache,
	}
}

// Load возвращает все корректные объявления. Записи без id или изображений отбрасываются.
func (l *ListingLoader) Load(ctx context.Context) ([]domain.PropertyRecord, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{"component": "ListingLoader", "method": "Load"})

	// Шаг 1: кэш. Ошибка кэша не фатальна, идем в источник.
	cached, ok, err := l.cache.GetListing(ctx)
	if err != nil {
		logger.Warn("Listing cache read failed, falling back to source", port.Fields{"error": err.Error()})
	} else if ok {
		logger.Debug("Listing served from cache", port.Fields{"records_count": len(cached)})
		return cached, nil
	}

	// Шаг 2: источник, одна загрузка на всех ожидающих.
	v, err, shared := l.do(ctx, listingFlightKey, func(flightCtx context.Context, gen uint64) (interface{}, error) {
		records, err := l.source.ListProperties(flightCtx)
		if err != nil {
			return nil, err
		}

		valid := make([]domain.PropertyRecord, 0, len(records))
		for _, record := range records {
			if vErr := record.Validate(); vErr != nil {
				logger.Warn("Dropping invalid property record", port.Fields{"property_id": record.ID, "reason": vErr.Error()})
				continue
			}
			valid = append(valid, record)
		}

		if !l.current(gen) {
			logger.Debug("Listing cache was reset during load, result is not cached", nil)
			return valid, nil
		}
		if err := l.cache.SetListing(flightCtx, valid); err != nil {
			logger.Warn("Failed to store listing in cache", port.Fields{"error": err.Error()})
		}
		return valid, nil
	})
	if err != nil {
		logger.Error("Failed to load listing from source", err, nil)
		return nil, fmt.Errorf("failed to load listing: %w", err)
	}

	records := v.([]domain.PropertyRecord)
	logger.Debug("Listing loaded from source", port.Fields{"records_count": len(records), "shared": shared})
	return records, nil
}

// LoadByID возвращает одно объявление или domain.ErrPropertyNotFound.
func (l *ListingLoader) LoadByID(ctx context.Context, id string) (*domain.PropertyRecord, error) {
	id = strings.TrimSpace(id)
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component":   "ListingLoader",
		"method":      "LoadByID",
		"property_id": id,
	})
	if id == "" {
		return nil, domain.ErrPropertyNotFound
	}

	cached, ok, err := l.cache.GetProperty(ctx, id)
	if err != nil {
		logger.Warn("Property cache read failed, falling back to source", port.Fields{"error": err.Error()})
	} else if ok {
		logger.Debug("Property served from cache", nil)
		return cached, nil
	}

	v, err, _ := l.do(ctx, propertyFlightKey(id), func(flightCtx context.Context, gen uint64) (interface{}, error) {
		record, err := l.source.GetByID(flightCtx, id)
		if err != nil {
			return nil, err
		}
		if vErr := record.Validate(); vErr != nil {
			logger.Warn("Source returned invalid property record", port.Fields{"reason": vErr.Error()})
			return nil, fmt.Errorf("%w: %v", domain.ErrPropertyNotFound, vErr)
		}

		if !l.current(gen) {
			return record, nil
		}
		if err := l.cache.SetProperty(flightCtx, record); err != nil {
			logger.Warn("Failed to store property in cache", port.Fields{"error": err.Error()})
		}
		return record, nil
	})
	if err != nil {
		if !errors.Is(err, domain.ErrPropertyNotFound) {
			logger.Error("Failed to load property from source", err, nil)
		}
		return nil, fmt.Errorf("failed to load property %s: %w", id, err)
	}

	return v.(*domain.PropertyRecord), nil
}

// Reset отмечает кэш как сброшенный: текущие загрузки не запишут в него устаревшие данные,
// а новые вызовы начнут свою загрузку, не присоединяясь к старой.
func (l *ListingLoader) Reset(id string) {
	l.generation.Add(1)
	l.group.Forget(listingFlightKey)
	if id != "" {
		l.group.Forget(propertyFlightKey(id))
	}
}

func (l *ListingLoader) current(gen uint64) bool {
	return l.generation.Load() == gen
}

func propertyFlightKey(id string) string {
	return "property:" + id
}

// do запускает общую загрузку по key и ждет ее результат, пока жив ctx вызывающего.
// Загрузка получает логгер и trace_id первого вызывающего, но не его отмену.
func (l *ListingLoader) do(ctx context.Context, key string, fn func(flightCtx context.Context, gen uint64) (interface{}, error)) (interface{}, error, bool) {
	gen := l.generation.Load()
	ch := l.group.DoChan(key, func() (interface{}, error) {
		flightCtx, cancel := context.WithTimeout(contextkeys.Detach(context.Background(), ctx), flightTimeout)
		defer cancel()
		return fn(flightCtx, gen)
	})

	select {
	case res := <-ch:
		return res.Val, res.Err, res.Shared
	case <-ctx.Done():
		return nil, ctx.Err(), false
	}
}
