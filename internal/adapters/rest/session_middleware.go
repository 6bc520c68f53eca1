package rest

import (
	"context"
	"listing-web/internal/adapters/session"
	"listing-web/internal/contextkeys"
	"listing-web/internal/core/port"
	"net/http"
)

type sessionKeyType struct{}

var sessionKey = sessionKeyType{}

// SessionMiddleware находит или создает сессию посетителя по cookie.
func SessionMiddleware(store *session.Store, secure bool) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var sid string
			if cookie, err := r.Cookie(session.CookieName); err == nil {
				sid = cookie.Value
			}

			sess, created, err := store.Get(sid)
			if err != nil {
				contextkeys.LoggerFromContext(r.Context()).Error("Session store unavailable", err, nil)
				http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
				return
			}

			if created {
				http.SetCookie(w, &http.Cookie{
					Name:     session.CookieName,
					Value:    sess.ID,
					Path:     "/",
					HttpOnly: true,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"session_id": sess.ID})
			ctx := contextkeys.ContextWithLogger(r.Context(), logger)
			ctx = contextkeys.ContextWithSessionID(ctx, sess.ID)
			ctx = context.WithValue(ctx, sessionKey, sess)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func sessionFromContext(ctx context.Context) (*session.Session, bool) {
	sess, ok := ctx.Value(sessionKey).(*session.Session)
	return sess, ok
}
