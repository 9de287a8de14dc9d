package middlewarectx

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/stealthnet-panel/internal/backend"
	"github.com/magabrotheeeer/stealthnet-panel/internal/http/response"
	"github.com/magabrotheeeer/stealthnet-panel/internal/lib/sl"
)

// Fail отвечает на ошибку бэкенда текстом msg. Если бэкенд отверг токен,
// сессия закрывается и браузер отправляется на страницу входа.
func Fail(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error, msg string) {
	if backend.IsSessionExpired(err) {
		if c, ok := r.Context().Value(Session).(current); ok && c.logout != nil {
			if lerr := c.logout(r.Context()); lerr != nil {
				log.Warn("failed to close expired session", sl.Err(lerr))
			}
		}
		log.Info("session expired upstream")
		w.Header().Set("Location", ExpiredLocation)
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Response{
			Status: response.StatusError,
			Error:  "Сессия истекла, войдите снова",
			Data:   response.Redirect{Location: ExpiredLocation},
		})
		return
	}

	log.Error("backend request failed", sl.Err(err))
	render.Status(r, response.StatusOf(err))
	render.JSON(w, r, response.Upstream(err, msg))
}
