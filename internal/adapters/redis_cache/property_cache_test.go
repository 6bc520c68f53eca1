package redis_cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"listing-web/internal/core/domain"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRedis реализует только Get/Set/Del, остальные методы Cmdable не вызываются.
type fakeRedis struct {
	redis.Cmdable
	data map[string][]byte
	ttls map[string]time.Duration
	err  error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: make(map[string][]byte), ttls: make(map[string]time.Duration)}
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	cmd := redis.NewStringCmd(ctx, "get", key)
	switch v, ok := f.data[key]; {
	case f.err != nil:
		cmd.SetErr(f.err)
	case !ok:
		cmd.SetErr(redis.Nil)
	default:
		cmd.SetVal(string(v))
	}
	return cmd
}

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	cmd := redis.NewStatusCmd(ctx, "set", key, value)
	if f.err != nil {
		cmd.SetErr(f.err)
		return cmd
	}
	f.data[key] = value.([]byte)
	f.ttls[key] = expiration
	cmd.SetVal("OK")
	return cmd
}

func (f *fakeRedis) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	cmd := redis.NewIntCmd(ctx, "del")
	if f.err != nil {
		cmd.SetErr(f.err)
		return cmd
	}
	var n int64
	for _, k := range keys {
		if _, ok := f.data[k]; ok {
			delete(f.data, k)
			n++
		}
	}
	cmd.SetVal(n)
	return cmd
}

func sampleRecord() domain.PropertyRecord {
	return domain.PropertyRecord{
		ID:            "17",
		Title:         "Căn hộ Quận 1",
		Cost:          "2500000000",
		LandArea:      "75",
		Images:        []string{"a.jpg", "b.jpg"},
		TypePostingID: domain.PostingTypeVIP,
		Details: domain.PropertyDetails{
			ProvinceCode:      "79",
			CostDeposit:       "10000000",
			ConditionInterior: 2,
		},
	}
}

func TestPropertyCache_ListingRoundTrip(t *testing.T) {
	client := newFakeRedis()
	cache := NewPropertyCache(client, time.Minute)
	ctx := context.Background()

	_, ok, err := cache.GetListing(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, cache.SetListing(ctx, []domain.PropertyRecord{sampleRecord()}))
	assert.Equal(t, time.Minute, client.ttls["listing:all"])

	got, ok, err := cache.GetListing(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []domain.PropertyRecord{sampleRecord()}, got)

	require.NoError(t, cache.InvalidateListing(ctx))
	_, ok, _ = cache.GetListing(ctx)
	assert.False(t, ok)
}

func TestPropertyCache_Property(t *testing.T) {
	client := newFakeRedis()
	cache := NewPropertyCache(client, time.Minute)
	ctx := context.Background()
	record := sampleRecord()

	require.NoError(t, cache.SetProperty(ctx, &record))
	assert.Contains(t, client.data, "property:17")

	got, ok, err := cache.GetProperty(ctx, "17")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, record, *got)

	require.NoError(t, cache.InvalidateProperty(ctx, "17"))
	_, ok, _ = cache.GetProperty(ctx, "17")
	assert.False(t, ok)

	assert.Error(t, cache.SetProperty(ctx, nil))
}

func TestPropertyCache_Errors(t *testing.T) {
	client := newFakeRedis()
	cache := NewPropertyCache(client, time.Minute)
	ctx := context.Background()

	client.data["property:bad"] = []byte("{not json")
	_, ok, err := cache.GetProperty(ctx, "bad")
	assert.Error(t, err)
	assert.False(t, ok)

	client.err = errors.New("connection refused")
	_, _, err = cache.GetListing(ctx)
	assert.ErrorIs(t, err, client.err)
	assert.Error(t, cache.SetListing(ctx, nil))
	assert.Error(t, cache.InvalidateListing(ctx))
}

func TestNoopCache(t *testing.T) {
	var cache NoopCache
	ctx := context.Background()
	record := sampleRecord()

	require.NoError(t, cache.SetProperty(ctx, &record))
	_, ok, err := cache.GetProperty(ctx, record.ID)
	assert.NoError(t, err)
	assert.False(t, ok)
}
