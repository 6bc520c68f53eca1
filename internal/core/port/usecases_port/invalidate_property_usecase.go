package usecases_port

import (
	"context"
	"listing-web/internal/core/domain"
)

type InvalidatePropertyUseCasePort interface {
	Execute(ctx context.Context, event domain.PropertyUpdatedEvent) error
}
