package usecases_port

import (
	"context"
	"listing-web/internal/core/domain"
)

type GetListingPageUseCasePort interface {
	// page ограничивается диапазоном [1, totalPages]
	Execute(ctx context.Context, page int) (*domain.ListingPage, error)
}
