package port

import (
	"context"
	"listing-web/internal/core/domain"
)

// PropertyCachePort - кэш поверх PropertySourcePort.
// Промах кэша возвращается как (nil, false, nil), ошибка означает недоступность кэша.
type PropertyCachePort interface {
	GetListing(ctx context.Context) ([]domain.PropertyRecord, bool, error)
	SetListing(ctx context.Context, records []domain.PropertyRecord) error
	GetProperty(ctx context.Context, id string) (*domain.PropertyRecord, bool, error)
	SetProperty(ctx context.Context, record *domain.PropertyRecord) error

	InvalidateProperty(ctx context.Context, id string) error
	InvalidateListing(ctx context.Context) error
}
