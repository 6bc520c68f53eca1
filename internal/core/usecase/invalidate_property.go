package usecase

import (
	"context"
	"fmt"
	"listing-web/internal/contextkeys"
	"listing-web/internal/core/domain"
	"listing-web/internal/core/port"
	"strings"
)

// InvalidatePropertyUseCase сбрасывает кэш объявления и списка по событию об изменении.
type InvalidatePropertyUseCase struct {
	cache  port.PropertyCachePort
	loader *ListingLoader
}

func NewInvalidatePropertyUseCase(cache port.PropertyCachePort, loader *ListingLoader) *InvalidatePropertyUseCase {
	return &InvalidatePropertyUseCase{cache: cache, loader: loader}
}

func (uc *InvalidatePropertyUseCase) Execute(ctx context.Context, event domain.PropertyUpdatedEvent) error {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":    "InvalidateProperty",
		"property_id": event.PropertyID,
		"action":      event.Action,
	})

	if strings.TrimSpace(event.PropertyID) == "" {
		return fmt.Errorf("%w: event without property id", domain.ErrInvalidRecord)
	}

	// Шаг 0: загрузки, начатые до события, не должны вернуть старые данные в кэш
	if uc.loader != nil {
		uc.loader.Reset(event.PropertyID)
	}

	// Шаг 1: запись. Шаг 2: список, в котором она могла измениться или исчезнуть.
	if err := uc.cache.InvalidateProperty(ctx, event.PropertyID); err != nil {
		ucLogger.Error("Failed to invalidate cached property", err, nil)
		return fmt.Errorf("failed to invalidate property %s: %w", event.PropertyID, err)
	}
	if err := uc.cache.InvalidateListing(ctx); err != nil {
		ucLogger.Error("Failed to invalidate cached listing", err, nil)
		return fmt.Errorf("failed to invalidate listing: %w", err)
	}

	ucLogger.Info("Cache invalidated", nil)
	return nil
}
