package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"listing-web/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListingLoader_DropsInvalidRecords(t *testing.T) {
	records := sampleRecords(3)
	records[1].Images = nil
	source := &fakeSource{records: records}
	loader := NewListingLoader(source, newMemoryCache())

	got, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, records[0].ID, got[0].ID)
	assert.Equal(t, records[2].ID, got[1].ID)
}

func TestListingLoader_UsesCache(t *testing.T) {
	source := &fakeSource{records: sampleRecords(5)}
	loader := NewListingLoader(source, newMemoryCache())

	_, err := loader.Load(context.Background())
	require.NoError(t, err)
	got, err := loader.Load(context.Background())
	require.NoError(t, err)

	assert.Len(t, got, 5)
	assert.Equal(t, int32(1), source.listCalls.Load())
}

func TestListingLoader_CacheErrorFallsBackToSource(t *testing.T) {
	cache := newMemoryCache()
	cache.readErr = assert.AnError
	source := &fakeSource{records: sampleRecords(2)}
	loader := NewListingLoader(source, cache)

	got, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestListingLoader_SourceError(t *testing.T) {
	loader := NewListingLoader(&fakeSource{err: errSourceDown}, newMemoryCache())

	_, err := loader.Load(context.Background())
	assert.ErrorIs(t, err, errSourceDown)
}

func TestListingLoader_CollapsesConcurrentLoads(t *testing.T) {
	gate := make(chan struct{})
	source := &fakeSource{records: sampleRecords(4), gate: gate}
	loader := NewListingLoader(source, newMemoryCache())

	const callers = 10
	var wg sync.WaitGroup
	results := make([][]domain.PropertyRecord, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = loader.Load(context.Background())
		}(i)
	}

	require.Eventually(t, func() bool { return source.listCalls.Load() == 1 }, time.Second, time.Millisecond)
	// даем остальным вызовам встать в ожидание той же загрузки
	time.Sleep(20 * time.Millisecond)
	close(gate)
	wg.Wait()

	assert.LessOrEqual(t, source.listCalls.Load(), int32(2))
	for _, r := range results {
		assert.Len(t, r, 4)
	}
}

func TestListingLoader_LoadByID(t *testing.T) {
	records := sampleRecords(3)
	records[2].Images = nil
	source := &fakeSource{records: records}
	loader := NewListingLoader(source, newMemoryCache())

	got, err := loader.LoadByID(context.Background(), " "+records[0].ID+" ")
	require.NoError(t, err)
	assert.Equal(t, records[0].ID, got.ID)

	_, err = loader.LoadByID(context.Background(), records[0].ID)
	require.NoError(t, err)
	assert.Equal(t, int32(1), source.getCalls.Load(), "second read is served from cache")

	_, err = loader.LoadByID(context.Background(), records[2].ID)
	assert.ErrorIs(t, err, domain.ErrPropertyNotFound, "record without images is treated as missing")

	_, err = loader.LoadByID(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrPropertyNotFound)

	_, err = loader.LoadByID(context.Background(), "  ")
	assert.ErrorIs(t, err, domain.ErrPropertyNotFound)
}

func TestListingLoader_CancelledCallerDoesNotFailSharedLoad(t *testing.T) {
	gate := make(chan struct{})
	source := &fakeSource{records: sampleRecords(4), gate: gate}
	cache := newMemoryCache()
	loader := NewListingLoader(source, cache)

	firstCtx, cancel := context.WithCancel(context.Background())
	firstDone := make(chan error, 1)
	go func() {
		_, err := loader.Load(firstCtx)
		firstDone <- err
	}()
	require.Eventually(t, func() bool { return source.listCalls.Load() == 1 }, time.Second, 5*time.Millisecond)

	type result struct {
		records []domain.PropertyRecord
		err     error
	}
	secondDone := make(chan result, 1)
	go func() {
		records, err := loader.Load(context.Background())
		secondDone <- result{records, err}
	}()
	time.Sleep(20 * time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-firstDone, context.Canceled)

	close(gate)
	second := <-secondDone
	require.NoError(t, second.err)
	assert.Len(t, second.records, 4)
	assert.Equal(t, int32(1), source.listCalls.Load())

	_, ok, _ := cache.GetListing(context.Background())
	assert.True(t, ok)
}

func TestListingLoader_LoadByIDCancelledCallerDoesNotFailSharedLoad(t *testing.T) {
	gate := make(chan struct{})
	records := sampleRecords(2)
	source := &fakeSource{records: records, gate: gate}
	loader := NewListingLoader(source, newMemoryCache())

	firstCtx, cancel := context.WithCancel(context.Background())
	firstDone := make(chan error, 1)
	go func() {
		_, err := loader.LoadByID(firstCtx, records[1].ID)
		firstDone <- err
	}()
	require.Eventually(t, func() bool { return source.getCalls.Load() == 1 }, time.Second, 5*time.Millisecond)

	secondDone := make(chan error, 1)
	go func() {
		record, err := loader.LoadByID(context.Background(), records[1].ID)
		if err == nil && record.ID != records[1].ID {
			err = domain.ErrPropertyNotFound
		}
		secondDone <- err
	}()
	time.Sleep(20 * time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-firstDone, context.Canceled)

	close(gate)
	assert.NoError(t, <-secondDone)
	assert.Equal(t, int32(1), source.getCalls.Load())
}
