package usecase

import (
	"context"
	"errors"
	"listing-web/internal/contextkeys"
	"listing-web/internal/core/domain"
	"listing-web/internal/core/port"
)

type GetPropertyDetailsUseCase struct {
	loader *ListingLoader
}

func NewGetPropertyDetailsUseCase(loader *ListingLoader) *GetPropertyDetailsUseCase {
	return &GetPropertyDetailsUseCase{
		loader: loader,
	}
}

func (uc *GetPropertyDetailsUseCase) Execute(ctx context.Context, id string) (*domain.PropertyRecord, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{"use_case": "GetPropertyDetails", "property_id": id})

	ucLogger.Info("Use case started", nil)

	record, err := uc.loader.LoadByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrPropertyNotFound) {
			ucLogger.Warn("Property not found", nil)
		} else {
			ucLogger.Error("Failed to get property details", err, nil)
		}
		return nil, err
	}

	ucLogger.Info("Use case finished successfully", port.Fields{"images_count": len(record.Images)})
	return record, nil
}
