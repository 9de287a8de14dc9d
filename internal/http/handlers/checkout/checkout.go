// Package checkout обработчики страницы тарифов: витрина, промокод, выбор тарифа и оплата.
//
// Состояние страницы (промокод, выбранный тариф, ошибка, отметка загрузки) живет
// в состоянии страниц сессии, поэтому переживает перезагрузку вкладки.
package checkout

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/stealthnet-panel/internal/backend"
	"github.com/magabrotheeeer/stealthnet-panel/internal/http/handlers/request"
	"github.com/magabrotheeeer/stealthnet-panel/internal/http/middlewarectx"
	"github.com/magabrotheeeer/stealthnet-panel/internal/http/response"
	"github.com/magabrotheeeer/stealthnet-panel/internal/lib/sl"
	"github.com/magabrotheeeer/stealthnet-panel/internal/models"
	checkoutsvc "github.com/magabrotheeeer/stealthnet-panel/internal/services/checkout"
	"github.com/magabrotheeeer/stealthnet-panel/internal/services/preference"
	"github.com/magabrotheeeer/stealthnet-panel/internal/services/pricing"
)

const (
	viewState = "checkout"
	viewOffer = "checkout_offer"
)

// Service оплата.
type Service interface {
	Offer(ctx context.Context) (checkoutsvc.Offer, error)
	ApplyPromo(ctx context.Context, token, code string) (*models.PromoCode, error)
	Pay(ctx context.Context, token string, in checkoutsvc.PayInput) (string, error)
}

// Views состояние страниц сессии.
type Views interface {
	Get(ctx context.Context, sid, name string, v any) (bool, error)
	Put(ctx context.Context, sid, name string, v any) error
}

// Provider кнопка шлюза в окне выбора оплаты.
type Provider struct {
	Code  models.PaymentProvider `json:"code"`
	Label string                 `json:"label"`
}

// Page страница тарифов.
type Page struct {
	Groups         []pricing.TierGroup `json:"groups"`
	State          checkoutsvc.State   `json:"state"`
	Providers      []Provider          `json:"providers"`
	PlategaMethods []checkoutsvc.Method `json:"platega_methods"`
}

// PromoRequest промокод со страницы тарифов.
type PromoRequest struct {
	Code string `json:"code"`
}

// SelectRequest выбор тарифа.
type SelectRequest struct {
	TariffID int `json:"tariff_id" validate:"required,gt=0"`
}

// PayRequest выбор шлюза. Без tariff_id берется выбранный ранее тариф.
type PayRequest struct {
	TariffID      int    `json:"tariff_id"`
	Provider      string `json:"provider" validate:"required"`
	PlategaMethod int    `json:"platega_method"`
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

func providers() []Provider {
	out := make([]Provider, 0, len(models.Providers))
	for _, p := range models.Providers {
		out = append(out, Provider{Code: p, Label: p.Label()})
	}
	return out
}

// offer витрина из состояния страницы или свежая, если состояния нет.
func (h *Handler) offer(ctx context.Context, sid string, fresh bool) (checkoutsvc.Offer, error) {
	var o checkoutsvc.Offer
	if !fresh {
		if found, err := h.views.Get(ctx, sid, viewOffer, &o); err == nil && found {
			return o, nil
		}
	}
	o, err := h.service.Offer(ctx)
	if err != nil {
		return checkoutsvc.Offer{}, err
	}
	if err := h.views.Put(ctx, sid, viewOffer, o); err != nil {
		h.log.Warn("failed to store offer", sl.Err(err))
	}
	return o, nil
}

func (h *Handler) state(ctx context.Context, sid string) checkoutsvc.State {
	var st checkoutsvc.State
	if _, err := h.views.Get(ctx, sid, viewState, &st); err != nil {
		h.log.Warn("failed to read checkout state", sl.Err(err))
	}
	return st
}

func (h *Handler) page(r *http.Request, o checkoutsvc.Offer, st checkoutsvc.State) Page {
	sess := middlewarectx.StateFrom(r.Context())
	pref := preference.Current(sess, r.Header.Get("Accept-Language"))
	methods := o.PlategaMethods
	if methods == nil {
		methods = []checkoutsvc.Method{}
	}
	return Page{
		Groups:         pricing.Showcase(o.Tariffs, o.Features, st.Promo, pref, st.LoadingTariffID),
		State:          st,
		Providers:      providers(),
		PlategaMethods: methods,
	}
}

func (h *Handler) save(ctx context.Context, log *slog.Logger, sid string, st checkoutsvc.State) {
	if err := h.views.Put(ctx, sid, viewState, st); err != nil {
		log.Warn("failed to store checkout state", sl.Err(err))
	}
}

// Show godoc
// @Summary Витрина тарифов
// @Description Тарифы по уровням с ценами в валюте пользователя и состояние страницы.
// @Tags Checkout
// @Produce  json
// @Success 200 {object} response.Response{data=Page}
// @Failure 502 {object} response.ErrorResponse "Бэкенд недоступен"
// @Router /api/client/tariffs [get]
func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.checkout.show")
	sess := middlewarectx.StateFrom(r.Context())

	o, err := h.offer(r.Context(), sess.SessionID, true)
	if err != nil {
		middlewarectx.Fail(w, r, log, err, checkoutsvc.Message(err))
		return
	}
	render.JSON(w, r, response.OKWithData(h.page(r, o, h.state(r.Context(), sess.SessionID))))
}

// Promo godoc
// @Summary Применить промокод
// @Description Проверяет промокод. К оплате применяется только процентная скидка.
// @Tags Checkout
// @Accept  json
// @Produce  json
// @Param request body PromoRequest true "Промокод"
// @Success 200 {object} response.Response{data=Page}
// @Failure 400 {object} response.ErrorResponse "Промокод не подходит"
// @Router /api/client/tariffs/promo [post]
func (h *Handler) Promo(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.checkout.promo")
	sess := middlewarectx.StateFrom(r.Context())

	var req PromoRequest
	if !request.Decode(w, r, log, nil, &req) {
		return
	}

	promo, err := h.service.ApplyPromo(r.Context(), sess.Token, req.Code)
	st := h.state(r.Context(), sess.SessionID).WithPromo(req.Code, promo, err)
	h.save(r.Context(), log, sess.SessionID, st)
	if err != nil {
		h.reject(w, r, log, err, st.PromoError, st)
		return
	}

	o, err := h.offer(r.Context(), sess.SessionID, false)
	if err != nil {
		middlewarectx.Fail(w, r, log, err, checkoutsvc.Message(err))
		return
	}
	render.JSON(w, r, response.OKWithData(h.page(r, o, st)))
}

// Select godoc
// @Summary Выбрать тариф
// @Description Открывает окно выбора шлюза для тарифа.
// @Tags Checkout
// @Accept  json
// @Produce  json
// @Param request body SelectRequest true "Тариф"
// @Success 200 {object} response.Response{data=checkoutsvc.State}
// @Router /api/client/tariffs/select [post]
func (h *Handler) Select(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.checkout.select")
	sess := middlewarectx.StateFrom(r.Context())

	var req SelectRequest
	if !request.Decode(w, r, log, h.validate, &req) {
		return
	}

	st := h.state(r.Context(), sess.SessionID).Select(req.TariffID)
	h.save(r.Context(), log, sess.SessionID, st)
	render.JSON(w, r, response.OKWithData(st))
}

// Pay godoc
// @Summary Оплатить
// @Description Создает счет у выбранного шлюза. Успех дает 303 на страницу оплаты,
// @Description ошибка возвращает окно выбора шлюза с текстом ошибки.
// @Tags Checkout
// @Accept  json
// @Produce  json
// @Param request body PayRequest true "Шлюз и способ оплаты"
// @Success 303 {object} response.Response{data=response.Redirect}
// @Failure 400 {object} response.ErrorResponse "Шлюз не выбран"
// @Failure 502 {object} response.ErrorResponse "Шлюз недоступен"
// @Router /api/client/payments [post]
func (h *Handler) Pay(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.checkout.pay")
	sess := middlewarectx.StateFrom(r.Context())

	var req PayRequest
	if !request.Decode(w, r, log, h.validate, &req) {
		return
	}

	st := h.state(r.Context(), sess.SessionID)
	if req.TariffID > 0 {
		st = st.Select(req.TariffID)
	}
	st = st.Begin()
	h.save(r.Context(), log, sess.SessionID, st)

	url, err := h.service.Pay(r.Context(), sess.Token, st.Payload(models.PaymentProvider(req.Provider), req.PlategaMethod))
	if err != nil {
		st = st.Fail(err)
		h.save(context.WithoutCancel(r.Context()), log, sess.SessionID, st)
		h.reject(w, r, log, err, st.Error, st)
		return
	}

	st.LoadingTariffID = 0
	h.save(r.Context(), log, sess.SessionID, st)
	log.Info("redirecting to payment page", slog.Int("tariff_id", st.SelectedTariffID))
	middlewarectx.Redirect(w, r, url)
}

// reject ответ с ошибкой и состоянием страницы, чтобы окно оплаты показало текст.
func (h *Handler) reject(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error, msg string, st checkoutsvc.State) {
	if backend.IsSessionExpired(err) {
		middlewarectx.Fail(w, r, log, err, msg)
		return
	}

	status := response.StatusOf(err)
	switch {
	case checkoutsvc.IsInput(err):
		status = http.StatusBadRequest
		log.Info("checkout rejected", sl.Err(err))
	case errors.Is(err, checkoutsvc.ErrNoPaymentURL):
		status = http.StatusBadGateway
		log.Error("checkout failed", sl.Err(err))
	default:
		log.Error("checkout failed", sl.Err(err))
	}

	resp := response.Upstream(err, msg)
	resp.Data = st
	render.Status(r, status)
	render.JSON(w, r, resp)
}
