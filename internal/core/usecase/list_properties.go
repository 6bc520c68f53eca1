package usecase

import (
	"context"
	"fmt"
	"listing-web/internal/contextkeys"
	"listing-web/internal/core/domain"
	"listing-web/internal/core/port"
)

// ListPropertiesUseCase отдает весь список; страницы выбирает вызывающий (ListingView).
type ListPropertiesUseCase struct {
	loader *ListingLoader
}

func NewListPropertiesUseCase(loader *ListingLoader) *ListPropertiesUseCase {
	return &ListPropertiesUseCase{loader: loader}
}

func (uc *ListPropertiesUseCase) Execute(ctx context.Context) ([]domain.PropertyRecord, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{"use_case": "ListProperties"})

	records, err := uc.loader.Load(ctx)
	if err != nil {
		ucLogger.Error("Failed to load listing", err, nil)
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}

	ucLogger.Debug("Use case finished successfully", port.Fields{"records_count": len(records)})
	return records, nil
}
