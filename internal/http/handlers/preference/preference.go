// Package preference обработчик смены языка и валюты. Работает и без входа:
// настройки хранятся в браузерной сессии, а при входе еще и уходят в профиль.
package preference

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/stealthnet-panel/internal/http/handlers/request"
	"github.com/magabrotheeeer/stealthnet-panel/internal/http/middlewarectx"
	"github.com/magabrotheeeer/stealthnet-panel/internal/http/response"
	"github.com/magabrotheeeer/stealthnet-panel/internal/lib/sl"
	"github.com/magabrotheeeer/stealthnet-panel/internal/models"
	"github.com/magabrotheeeer/stealthnet-panel/internal/services/session"
)

// Service смена настроек.
type Service interface {
	SetLanguage(ctx context.Context, state session.State, acceptLanguage, lang string) (models.Preference, error)
	SetCurrency(ctx context.Context, state session.State, acceptLanguage, currency string) (models.Preference, error)
}

// Request новые язык и валюта. Пустое поле не меняется.
type Request struct {
	Language string `json:"language,omitempty" example:"ua"`
	Currency string `json:"currency,omitempty" example:"uah"`
}

type Handler struct {
	log     *slog.Logger
	service Service
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Язык и валюта
// @Description Меняет язык интерфейса и валюту цен. При входе настройки сохраняются в профиле в фоне.
// @Tags Preference
// @Accept  json
// @Produce  json
// @Param request body Request true "Настройки"
// @Success 200 {object} response.Response{data=models.Preference}
// @Failure 400 {object} response.ErrorResponse "Неизвестный язык или валюта"
// @Router /api/preference [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.preference"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if !request.Decode(w, r, log, nil, &req) {
		return
	}

	if req.Language == "" && req.Currency == "" {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("Укажите язык или валюту"))
		return
	}
	if !valid(req) {
		log.Info("unsupported preference", slog.Any("request", req))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("Неизвестный язык или валюта"))
		return
	}

	st := middlewarectx.StateFrom(r.Context())
	if st.Loading {
		w.Header().Set("Retry-After", "1")
		render.Status(r, http.StatusServiceUnavailable)
		render.JSON(w, r, response.Error("Сессия загружается, повторите запрос"))
		return
	}
	acceptLanguage := r.Header.Get("Accept-Language")

	var (
		pref models.Preference
		err  error
	)
	if req.Language != "" {
		if pref, err = h.service.SetLanguage(r.Context(), st, acceptLanguage, req.Language); err != nil {
			h.fail(w, r, log, err)
			return
		}
		st.Preference = &pref
	}
	if req.Currency != "" {
		if pref, err = h.service.SetCurrency(r.Context(), st, acceptLanguage, req.Currency); err != nil {
			h.fail(w, r, log, err)
			return
		}
	}

	log.Info("preference changed", slog.String("language", string(pref.Language)), slog.String("currency", string(pref.Currency)))
	render.JSON(w, r, response.OKWithData(pref))
}

func valid(req Request) bool {
	if req.Language != "" {
		if _, err := models.ParseLanguage(req.Language); err != nil {
			return false
		}
	}
	if req.Currency != "" {
		if _, err := models.ParseCurrency(req.Currency); err != nil {
			return false
		}
	}
	return true
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	log.Error("failed to change preference", sl.Err(err))
	render.Status(r, http.StatusInternalServerError)
	render.JSON(w, r, response.Error("Не удалось сохранить настройки"))
}
