package usecases_port

import (
	"context"
	"listing-web/internal/core/domain"
)

type GetPropertyDetailsUseCasePort interface {
	// Возвращает domain.ErrPropertyNotFound, если объявления нет или оно некорректно
	Execute(ctx context.Context, id string) (*domain.PropertyRecord, error)
}
