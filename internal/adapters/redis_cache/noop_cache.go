package redis_cache

import (
	"context"
	"listing-web/internal/core/domain"
)

// NoopCache используется при REDIS_ENABLED=false: всегда промах, запись игнорируется.
type NoopCache struct{}

func (NoopCache) GetListing(ctx context.Context) ([]domain.PropertyRecord, bool, error) {
	return nil, false, nil
}

func (NoopCache) SetListing(ctx context.Context, records []domain.PropertyRecord) error {
	return nil
}

func (NoopCache) GetProperty(ctx context.Context, id string) (*domain.PropertyRecord, bool, error) {
	return nil, false, nil
}

func (NoopCache) SetProperty(ctx context.Context, record *domain.PropertyRecord) error {
	return nil
}

func (NoopCache) InvalidateProperty(ctx context.Context, id string) error { return nil }

func (NoopCache) InvalidateListing(ctx context.Context) error { return nil }
