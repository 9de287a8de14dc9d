// Package admin обработчики панели администратора.
//
// Списки (пользователи, тарифы, промокоды) хранятся в состоянии страниц сессии:
// после создания, изменения или удаления список меняется на месте, без повторной
// загрузки с сервера.
package admin

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/stealthnet-panel/internal/backend"
	"github.com/magabrotheeeer/stealthnet-panel/internal/http/middlewarectx"
	"github.com/magabrotheeeer/stealthnet-panel/internal/http/response"
	"github.com/magabrotheeeer/stealthnet-panel/internal/lib/sl"
	"github.com/magabrotheeeer/stealthnet-panel/internal/models"
	adminsvc "github.com/magabrotheeeer/stealthnet-panel/internal/services/admin"
)

const (
	viewUsers      = "admin_users"
	viewTariffs    = "admin_tariffs"
	viewPromoCodes = "admin_promocodes"
)

// Service операции администратора.
type Service interface {
	Dashboard(ctx context.Context, token string) (adminsvc.Dashboard, error)
	Squads(ctx context.Context, token string) ([]models.Squad, error)

	Users(ctx context.Context, token string) (adminsvc.Users, error)
	DeleteUser(ctx context.Context, token string, users adminsvc.Users, id int) (adminsvc.Users, string, error)
	RecipientEmails(ctx context.Context, token string) ([]string, error)

	TariffsPage(ctx context.Context, token string) (adminsvc.TariffsPage, error)
	CreateTariff(ctx context.Context, token string, list adminsvc.Tariffs, in models.TariffInput) (adminsvc.Tariffs, error)
	UpdateTariff(ctx context.Context, token string, list adminsvc.Tariffs, id int, in models.TariffInput) (adminsvc.Tariffs, error)
	DeleteTariff(ctx context.Context, token string, list adminsvc.Tariffs, id int) (adminsvc.Tariffs, error)

	PromoCodes(ctx context.Context, token string) (adminsvc.PromoCodes, error)
	CreatePromoCode(ctx context.Context, token string, list adminsvc.PromoCodes, in models.PromoCodeInput) (adminsvc.PromoCodes, error)
	DeletePromoCode(ctx context.Context, token string, list adminsvc.PromoCodes, id int) (adminsvc.PromoCodes, error)

	ReferralSettings(ctx context.Context, token string) (models.ReferralSettings, error)
	SaveReferralSettings(ctx context.Context, token string, rs models.ReferralSettings) (models.ReferralSettings, error)
	SystemSettings(ctx context.Context, token string) (models.SystemSettings, error)
	SaveSystemSettings(ctx context.Context, token string, ss models.SystemSettings) error
	TariffFeatures(ctx context.Context, token string) (models.TariffFeatures, error)
	SaveTariffFeatures(ctx context.Context, token string, f models.TariffFeatures) (models.TariffFeatures, error)

	Broadcast(ctx context.Context, token string, b models.Broadcast) (models.BroadcastResult, error)
}

// Views состояние страниц сессии.
type Views interface {
	Get(ctx context.Context, sid, name string, v any) (bool, error)
	Put(ctx context.Context, sid, name string, v any) error
}

type Handler struct {
	log      *slog.Logger
	service  Service
	views    Views
	validate *validator.Validate
}

func New(log *slog.Logger, service Service, views Views) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		views:    views,
		validate: validator.New(),
	}
}

func (h *Handler) logger(r *http.Request, op string) *slog.Logger {
	return h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}

func (h *Handler) put(ctx context.Context, log *slog.Logger, sid, name string, v any) {
	if err := h.views.Put(ctx, sid, name, v); err != nil {
		log.Warn("failed to store admin view", slog.String("view", name), sl.Err(err))
	}
}

// stored список со страницы. Если страница не открывалась в этой сессии, список
// загружается заново.
func stored[T any](ctx context.Context, h *Handler, log *slog.Logger, sid, name string, fetch func() (T, error)) (T, error) {
	var v T
	found, err := h.views.Get(ctx, sid, name, &v)
	if err != nil {
		log.Warn("failed to read admin view", slog.String("view", name), sl.Err(err))
	}
	if found {
		return v, nil
	}
	v, err = fetch()
	if err != nil {
		return v, err
	}
	h.put(ctx, log, sid, name, v)
	return v, nil
}

func fail(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	middlewarectx.Fail(w, r, log, err, backend.Message(err))
}

// Dashboard godoc
// @Summary Сводка
// @Description Статистика, последние пользователи и сквады. Ошибка сквадов не мешает сводке.
// @Tags Admin
// @Produce  json
// @Success 200 {object} response.Response{data=adminsvc.Dashboard}
// @Failure 502 {object} response.ErrorResponse "Бэкенд недоступен"
// @Router /api/admin/dashboard [get]
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.admin.dashboard")
	st := middlewarectx.StateFrom(r.Context())

	d, err := h.service.Dashboard(r.Context(), st.Token)
	if err != nil {
		fail(w, r, log, err)
		return
	}
	render.JSON(w, r, response.OKWithData(d))
}

// Squads godoc
// @Summary Сквады
// @Tags Admin
// @Produce  json
// @Success 200 {object} response.Response{data=[]models.Squad}
// @Router /api/admin/squads [get]
func (h *Handler) Squads(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.admin.squads")
	st := middlewarectx.StateFrom(r.Context())

	squads, err := h.service.Squads(r.Context(), st.Token)
	if err != nil {
		fail(w, r, log, err)
		return
	}
	render.JSON(w, r, response.OKWithData(squads))
}
