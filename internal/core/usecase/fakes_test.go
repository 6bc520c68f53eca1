package usecase

import (
	"context"
	"errors"
	"listing-web/internal/core/domain"
	"sync"
	"sync/atomic"
)

type fakeSource struct {
	records []domain.PropertyRecord
	err     error
	gate    chan struct{} // если не nil, вызовы ждут закрытия или отмены ctx

	listCalls atomic.Int32
	getCalls  atomic.Int32
}

func (s *fakeSource) ListProperties(ctx context.Context) ([]domain.PropertyRecord, error) {
	s.listCalls.Add(1)
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	if s.err != nil {
		return nil, s.err
	}
	out := make([]domain.PropertyRecord, len(s.records))
	copy(out, s.records)
	return out, nil
}

func (s *fakeSource) GetByID(ctx context.Context, id string) (*domain.PropertyRecord, error) {
	s.getCalls.Add(1)
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	if s.err != nil {
		return nil, s.err
	}
	for _, r := range s.records {
		if r.ID == id {
			record := r
			return &record, nil
		}
	}
	return nil, domain.ErrPropertyNotFound
}

func (s *fakeSource) wait(ctx context.Context) error {
	if s.gate == nil {
		return nil
	}
	select {
	case <-s.gate:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type memoryCache struct {
	mu         sync.Mutex
	listing    []domain.PropertyRecord
	hasListing bool
	properties map[string]domain.PropertyRecord
	readErr    error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{properties: make(map[string]domain.PropertyRecord)}
}

func (c *memoryCache) GetListing(ctx context.Context) ([]domain.PropertyRecord, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.readErr != nil {
		return nil, false, c.readErr
	}
	return c.listing, c.hasListing, nil
}

func (c *memoryCache) SetListing(ctx context.Context, records []domain.PropertyRecord) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listing, c.hasListing = records, true
	return nil
}

func (c *memoryCache) GetProperty(ctx context.Context, id string) (*domain.PropertyRecord, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.readErr != nil {
		return nil, false, c.readErr
	}
	r, ok := c.properties[id]
	if !ok {
		return nil, false, nil
	}
	return &r, true, nil
}

func (c *memoryCache) SetProperty(ctx context.Context, record *domain.PropertyRecord) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.properties[record.ID] = *record
	return nil
}

func (c *memoryCache) InvalidateProperty(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.properties, id)
	return nil
}

func (c *memoryCache) InvalidateListing(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listing, c.hasListing = nil, false
	return nil
}

var errSourceDown = errors.New("source down")

func sampleRecords(n int) []domain.PropertyRecord {
	out := make([]domain.PropertyRecord, n)
	for i := range out {
		out[i] = domain.PropertyRecord{
			ID:     string(rune('a'+i%26)) + string(rune('0'+i/26)),
			Title:  "Nhà phố",
			Images: []string{"https://img.example/1.jpg"},
		}
	}
	return out
}
