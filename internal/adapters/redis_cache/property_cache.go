package redis_cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"listing-web/internal/core/domain"
	"time"

	"github.com/go-redis/redis/v8"
)

// Ключи кэша
const (
	keyListing        = "listing:all"
	keyPrefixProperty = "property:"
)

// PropertyCache реализует PropertyCachePort на Redis.
type PropertyCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewPropertyCache(client redis.Cmdable, ttl time.Duration) *PropertyCache {
	return &PropertyCache{
		client: client,
		ttl:    ttl,
	}
}

func propertyKey(id string) string {
	return keyPrefixProperty + id
}

func (c *PropertyCache) GetListing(ctx context.Context) ([]domain.PropertyRecord, bool, error) {
	var cached []cachedProperty
	ok, err := c.getValue(ctx, keyListing, &cached)
	if err != nil || !ok {
		return nil, false, err
	}

	records := make([]domain.PropertyRecord, len(cached))
	for i, p := range cached {
		records[i] = p.toDomain()
	}
	return records, true, nil
}

func (c *PropertyCache) SetListing(ctx context.Context, records []domain.PropertyRecord) error {
	cached := make([]cachedProperty, len(records))
	for i, r := range records {
		cached[i] = fromDomain(r)
	}
	return c.cacheValue(ctx, keyListing, cached)
}

func (c *PropertyCache) GetProperty(ctx context.Context, id string) (*domain.PropertyRecord, bool, error) {
	var cached cachedProperty
	ok, err := c.getValue(ctx, propertyKey(id), &cached)
	if err != nil || !ok {
		return nil, false, err
	}
	record := cached.toDomain()
	return &record, true, nil
}

func (c *PropertyCache) SetProperty(ctx context.Context, record *domain.PropertyRecord) error {
	if record == nil {
		return fmt.Errorf("cannot cache nil property")
	}
	return c.cacheValue(ctx, propertyKey(record.ID), fromDomain(*record))
}

func (c *PropertyCache) InvalidateProperty(ctx context.Context, id string) error {
	return c.deleteValue(ctx, propertyKey(id))
}

func (c *PropertyCache) InvalidateListing(ctx context.Context) error {
	return c.deleteValue(ctx, keyListing)
}

// cacheValue сериализует значение в JSON и сохраняет с TTL
func (c *PropertyCache) cacheValue(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value for key %s: %w", key, err)
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set key %s: %w", key, err)
	}
	return nil
}

// getValue читает JSON по ключу. Отсутствие ключа - это (false, nil).
func (c *PropertyCache) getValue(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to get key %s: %w", key, err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal value for key %s: %w", key, err)
	}
	return true, nil
}

func (c *PropertyCache) deleteValue(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete key %s: %w", key, err)
	}
	return nil
}
