// Package middlewarectx содержит HTTP middleware панели и значения, которые они
// кладут в контекст запроса.
//
// SessionMiddleware находит браузерную сессию по cookie, восстанавливает ее
// состояние и кладет в контекст. Guard применяет к этому состоянию правило
// доступа маршрута. Fail отвечает на ошибку бэкенда и закрывает сессию,
// если бэкенд отверг токен.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/google/uuid"

	"github.com/magabrotheeeer/stealthnet-panel/internal/config"
	"github.com/magabrotheeeer/stealthnet-panel/internal/lib/sl"
	"github.com/magabrotheeeer/stealthnet-panel/internal/services/session"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

// Session ключ состояния сессии в контексте.
const Session Key = "session"

// SessionStore восстановление и закрытие сессий.
type SessionStore interface {
	Restore(ctx context.Context, sid string) (session.State, error)
	Logout(ctx context.Context, sid string) error
}

type current struct {
	state  session.State
	logout func(context.Context) error
}

// WithState кладет состояние в контекст. logout закрывает эту сессию, может быть nil.
func WithState(ctx context.Context, state session.State, logout func(context.Context) error) context.Context {
	return context.WithValue(ctx, Session, current{state: state, logout: logout})
}

// StateFrom состояние сессии запроса. Без SessionMiddleware сессия считается загружающейся.
func StateFrom(ctx context.Context) session.State {
	c, ok := ctx.Value(Session).(current)
	if !ok {
		return session.State{Loading: true}
	}
	return c.state
}

// SessionMiddleware выдает или продлевает cookie сессии и восстанавливает ее состояние.
// Ошибка хранилища превращается в загружающееся состояние: защитник ответит 503.
func SessionMiddleware(store SessionStore, cfg config.Session, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.Session"
			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			sid := ""
			if c, err := r.Cookie(cfg.CookieName); err == nil {
				if _, err := uuid.Parse(c.Value); err == nil {
					sid = c.Value
				}
			}
			if sid == "" {
				sid = session.NewID()
			}
			http.SetCookie(w, &http.Cookie{
				Name:     cfg.CookieName,
				Value:    sid,
				Path:     "/",
				MaxAge:   int(cfg.SessionTTL.Seconds()),
				HttpOnly: true,
				Secure:   cfg.SecureCookie,
				SameSite: http.SameSiteLaxMode,
			})

			state, err := store.Restore(r.Context(), sid)
			if err != nil {
				log.Error("failed to restore session", sl.Err(err))
				state = session.State{Loading: true, SessionID: sid}
			}

			logout := func(ctx context.Context) error { return store.Logout(ctx, sid) }
			next.ServeHTTP(w, r.WithContext(WithState(r.Context(), state, logout)))
		})
	}
}
