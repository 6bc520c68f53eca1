package usecase

import (
	"context"
	"testing"
	"time"

	"listing-web/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetListingPageUseCase_Execute(t *testing.T) {
	loader := NewListingLoader(&fakeSource{records: sampleRecords(20)}, newMemoryCache())
	uc := NewGetListingPageUseCase(loader)

	page, err := uc.Execute(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, 3, page.Pagination.CurrentPage)
	assert.Equal(t, 3, page.Pagination.TotalPages)
	assert.Len(t, page.Items, 4)

	page, err = uc.Execute(context.Background(), 99)
	require.NoError(t, err)
	assert.Equal(t, 3, page.Pagination.CurrentPage)
}

func TestGetListingPageUseCase_Empty(t *testing.T) {
	uc := NewGetListingPageUseCase(NewListingLoader(&fakeSource{}, newMemoryCache()))

	page, err := uc.Execute(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 0, page.Pagination.TotalPages)
	assert.Empty(t, page.Items)
	assert.Empty(t, page.Controls)
}

func TestGetListingPageUseCase_SourceError(t *testing.T) {
	uc := NewGetListingPageUseCase(NewListingLoader(&fakeSource{err: errSourceDown}, newMemoryCache()))

	_, err := uc.Execute(context.Background(), 1)
	assert.ErrorIs(t, err, errSourceDown)
}

func TestListPropertiesUseCase_Execute(t *testing.T) {
	uc := NewListPropertiesUseCase(NewListingLoader(&fakeSource{records: sampleRecords(9)}, newMemoryCache()))

	records, err := uc.Execute(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 9)
}

func TestGetPropertyDetailsUseCase_Execute(t *testing.T) {
	records := sampleRecords(2)
	uc := NewGetPropertyDetailsUseCase(NewListingLoader(&fakeSource{records: records}, newMemoryCache()))

	got, err := uc.Execute(context.Background(), records[1].ID)
	require.NoError(t, err)
	assert.Equal(t, records[1].ID, got.ID)

	_, err = uc.Execute(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrPropertyNotFound)
}

func TestInvalidatePropertyUseCase_Execute(t *testing.T) {
	records := sampleRecords(2)
	source := &fakeSource{records: records}
	cache := newMemoryCache()
	loader := NewListingLoader(source, cache)

	_, err := loader.Load(context.Background())
	require.NoError(t, err)
	_, err = loader.LoadByID(context.Background(), records[0].ID)
	require.NoError(t, err)

	uc := NewInvalidatePropertyUseCase(cache, loader)
	require.NoError(t, uc.Execute(context.Background(), domain.PropertyUpdatedEvent{PropertyID: records[0].ID, Action: "updated"}))

	_, ok, _ := cache.GetListing(context.Background())
	assert.False(t, ok)
	_, ok, _ = cache.GetProperty(context.Background(), records[0].ID)
	assert.False(t, ok)

	_, err = loader.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), source.listCalls.Load())
}

func TestInvalidatePropertyUseCase_RequiresID(t *testing.T) {
	uc := NewInvalidatePropertyUseCase(newMemoryCache(), nil)
	err := uc.Execute(context.Background(), domain.PropertyUpdatedEvent{})
	assert.ErrorIs(t, err, domain.ErrInvalidRecord)
}

func TestInvalidatePropertyUseCase_LoadInFlightDoesNotRefillCache(t *testing.T) {
	gate := make(chan struct{})
	source := &fakeSource{records: sampleRecords(3), gate: gate}
	cache := newMemoryCache()
	loader := NewListingLoader(source, cache)

	done := make(chan error, 1)
	go func() {
		_, err := loader.Load(context.Background())
		done <- err
	}()
	require.Eventually(t, func() bool { return source.listCalls.Load() == 1 }, time.Second, 5*time.Millisecond)

	uc := NewInvalidatePropertyUseCase(cache, loader)
	require.NoError(t, uc.Execute(context.Background(), domain.PropertyUpdatedEvent{PropertyID: "a0", Action: "updated"}))

	close(gate)
	require.NoError(t, <-done)

	_, ok, _ := cache.GetListing(context.Background())
	assert.False(t, ok, "listing loaded before the update must not be cached")

	_, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), source.listCalls.Load())
	_, ok, _ = cache.GetListing(context.Background())
	assert.True(t, ok)
}
