package port

import "context"

// PropertyEventsListenerPort - источник событий об изменении объявлений.
type PropertyEventsListenerPort interface {
	Start(ctx context.Context) error
	Close() error
}
