package domain

import "time"

// PropertyUpdatedEvent - уведомление о том, что объявление изменилось или снято с публикации.
// Сервис только сбрасывает кэш, содержимое события не отображается.
type PropertyUpdatedEvent struct {
	PropertyID string
	Action     string // "updated" | "deleted"
	UpdatedAt  time.Time
}
