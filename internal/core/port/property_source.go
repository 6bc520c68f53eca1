package port

import (
	"context"
	"listing-web/internal/core/domain"
)

// PropertySourcePort - внешний источник объявлений (HTTP API или read-only БД).
type PropertySourcePort interface {
	// ListProperties возвращает все объявления в порядке выдачи источника.
	ListProperties(ctx context.Context) ([]domain.PropertyRecord, error)
	// GetByID возвращает объявление или domain.ErrPropertyNotFound.
	GetByID(ctx context.Context, id string) (*domain.PropertyRecord, error)
}
