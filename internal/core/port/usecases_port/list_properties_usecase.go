package usecases_port

import (
	"context"
	"listing-web/internal/core/domain"
)

type ListPropertiesUseCasePort interface {
	Execute(ctx context.Context) ([]domain.PropertyRecord, error)
}
