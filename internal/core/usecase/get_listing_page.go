package usecase

import (
	"context"
	"fmt"
	"listing-web/internal/contextkeys"
	"listing-web/internal/core/domain"
	"listing-web/internal/core/port"
)

type GetListingPageUseCase struct {
	loader *ListingLoader
}

func NewGetListingPageUseCase(loader *ListingLoader) *GetListingPageUseCase {
	return &GetListingPageUseCase{
		loader: loader,
	}
}

func (uc *GetListingPageUseCase) Execute(ctx context.Context, page int) (*domain.ListingPage, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{"use_case": "GetListingPage", "requested_page": page})

	ucLogger.Info("Use case started", nil)

	records, err := uc.loader.Load(ctx)
	if err != nil {
		ucLogger.Error("Failed to load listing", err, nil)
		return nil, fmt.Errorf("failed to get listing page: %w", err)
	}

	result := domain.BuildListingPage(records, page)

	ucLogger.Info("Use case finished successfully", port.Fields{
		"current_page":  result.Pagination.CurrentPage,
		"total_pages":   result.Pagination.TotalPages,
		"items_on_page": len(result.Items),
	})
	return &result, nil
}
