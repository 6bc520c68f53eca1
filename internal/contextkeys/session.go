package contextkeys

import (
	"context"
	"listing-web/internal/core/port"
)

type sessionIDKeyType struct{}

var sessionIDKey = sessionIDKeyType{}

// ContextWithSessionID помещает идентификатор сессии посетителя в контекст
func ContextWithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionIDKey, sessionID)
}

// SessionIDFromContext возвращает пустую строку, если сессии нет
func SessionIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(sessionIDKey).(string); ok {
		return id
	}
	return ""
}

// Detach переносит логгер, trace_id и сессию из src в base.
// Нужен фоновым задачам, которые живут дольше запроса, но должны логировать с его полями.
func Detach(base, src context.Context) context.Context {
	ctx := base
	if logger, ok := src.Value(loggerKey).(port.LoggerPort); ok {
		ctx = ContextWithLogger(ctx, logger)
	}
	if traceID := TraceIDFromContext(src); traceID != "" {
		ctx = ContextWithTraceID(ctx, traceID)
	}
	if sessionID := SessionIDFromContext(src); sessionID != "" {
		ctx = ContextWithSessionID(ctx, sessionID)
	}
	return ctx
}
