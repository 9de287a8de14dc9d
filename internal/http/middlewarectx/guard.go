package middlewarectx

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/magabrotheeeer/stealthnet-panel/internal/http/response"
	"github.com/magabrotheeeer/stealthnet-panel/internal/services/guard"
)

// ExpiredLocation куда ведет истекшая сессия.
const ExpiredLocation = guard.LoginPath + "?reason=session_expired"

// retryAfter секунды до повторной попытки, пока сессии загружаются.
const retryAfter = "1"

// Guard применяет к состоянию сессии правило доступа маршрута.
// decisions может быть nil.
func Guard(policy guard.Policy, decisions *prometheus.CounterVec, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			state := StateFrom(r.Context())
			d := guard.Evaluate(policy, state)
			if decisions != nil {
				decisions.WithLabelValues(policy.String(), d.Outcome.String()).Inc()
			}

			switch d.Outcome {
			case guard.Render:
				next.ServeHTTP(w, r)
			case guard.Loading:
				w.Header().Set("Retry-After", retryAfter)
				render.Status(r, http.StatusServiceUnavailable)
				render.JSON(w, r, response.Error("Сессия загружается, повторите запрос"))
			case guard.Redirect:
				location := d.Location
				if state.Expired && location == guard.LoginPath {
					location = ExpiredLocation
				}
				log.Debug("guard redirect",
					slog.String("policy", policy.String()),
					slog.String("location", location),
					slog.String("request_id", middleware.GetReqID(r.Context())),
				)
				Redirect(w, r, location)
			}
		})
	}
}

// Redirect ответ 303 с адресом и в заголовке, и в теле.
func Redirect(w http.ResponseWriter, r *http.Request, location string) {
	w.Header().Set("Location", location)
	render.Status(r, http.StatusSeeOther)
	render.JSON(w, r, response.OKWithData(response.Redirect{Location: location}))
}
