// Package client обработчики личного кабинета клиента.
package client

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/stealthnet-panel/internal/http/handlers/request"
	"github.com/magabrotheeeer/stealthnet-panel/internal/http/middlewarectx"
	"github.com/magabrotheeeer/stealthnet-panel/internal/http/response"
	"github.com/magabrotheeeer/stealthnet-panel/internal/models"
	clientsvc "github.com/magabrotheeeer/stealthnet-panel/internal/services/client"
	"github.com/magabrotheeeer/stealthnet-panel/internal/services/session"
)

// Service личный кабинет.
type Service interface {
	Profile(ctx context.Context, state session.State, acceptLanguage string) (clientsvc.Profile, error)
	ActivateTrial(ctx context.Context, state session.State, acceptLanguage string) (clientsvc.Profile, string, error)
	ActivatePromocode(ctx context.Context, state session.State, acceptLanguage, code string) (clientsvc.Profile, string, error)
	Nodes(ctx context.Context, token string) ([]models.Node, error)
}

// PromocodeRequest промокод на дни подписки.
type PromocodeRequest struct {
	Code string `json:"code"`
}

// ActionResult профиль после действия и сообщение бэкенда.
type ActionResult struct {
	Profile clientsvc.Profile `json:"profile"`
	Message string            `json:"message,omitempty"`
}

type Handler struct {
	log       *slog.Logger
	service   Service
	publicURL string
	validate  *validator.Validate
}

// New создает обработчики. publicURL адрес панели для ссылок-приглашений.
func New(log *slog.Logger, service Service, publicURL string) *Handler {
	return &Handler{
		log:       log,
		service:   service,
		publicURL: publicURL,
		validate:  validator.New(),
	}
}

func (h *Handler) logger(r *http.Request, op string) *slog.Logger {
	return h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}

// Profile godoc
// @Summary Статус подписки
// @Description Профиль клиента с живыми данными подписки.
// @Tags Client
// @Produce  json
// @Success 200 {object} response.Response{data=clientsvc.Profile}
// @Failure 401 {object} response.ErrorResponse "Сессия истекла"
// @Failure 502 {object} response.ErrorResponse "Бэкенд недоступен"
// @Router /api/client/me [get]
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.client.profile")
	st := middlewarectx.StateFrom(r.Context())

	p, err := h.service.Profile(r.Context(), st, r.Header.Get("Accept-Language"))
	if err != nil {
		middlewarectx.Fail(w, r, log, err, clientsvc.Message(err))
		return
	}
	render.JSON(w, r, response.OKWithData(p))
}

// Trial godoc
// @Summary Активировать пробный период
// @Tags Client
// @Produce  json
// @Success 200 {object} response.Response{data=ActionResult}
// @Failure 400 {object} response.ErrorResponse "Пробный период уже использован"
// @Router /api/client/activate-trial [post]
func (h *Handler) Trial(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.client.trial")
	st := middlewarectx.StateFrom(r.Context())

	p, msg, err := h.service.ActivateTrial(r.Context(), st, r.Header.Get("Accept-Language"))
	if err != nil {
		middlewarectx.Fail(w, r, log, err, clientsvc.Message(err))
		return
	}
	render.JSON(w, r, response.OKWithData(ActionResult{Profile: p, Message: msg}))
}

// Promocode godoc
// @Summary Активировать промокод на дни
// @Tags Client
// @Accept  json
// @Produce  json
// @Param request body PromocodeRequest true "Промокод"
// @Success 200 {object} response.Response{data=ActionResult}
// @Failure 400 {object} response.ErrorResponse "Промокод не найден"
// @Router /api/client/activate-promocode [post]
func (h *Handler) Promocode(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.client.promocode")

	var req PromocodeRequest
	if !request.Decode(w, r, log, h.validate, &req) {
		return
	}

	st := middlewarectx.StateFrom(r.Context())
	p, msg, err := h.service.ActivatePromocode(r.Context(), st, r.Header.Get("Accept-Language"), req.Code)
	if err != nil {
		middlewarectx.Fail(w, r, log, err, clientsvc.Message(err))
		return
	}
	render.JSON(w, r, response.OKWithData(ActionResult{Profile: p, Message: msg}))
}

// Nodes godoc
// @Summary Серверы
// @Description Активные VPN-узлы клиента.
// @Tags Client
// @Produce  json
// @Success 200 {object} response.Response{data=[]models.Node}
// @Router /api/client/nodes [get]
func (h *Handler) Nodes(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.client.nodes")
	st := middlewarectx.StateFrom(r.Context())

	nodes, err := h.service.Nodes(r.Context(), st.Token)
	if err != nil {
		middlewarectx.Fail(w, r, log, err, clientsvc.Message(err))
		return
	}
	render.JSON(w, r, response.OKWithData(nodes))
}

// Referrals godoc
// @Summary Реферальная программа
// @Description Реферальный код и ссылка-приглашение.
// @Tags Client
// @Produce  json
// @Success 200 {object} response.Response{data=clientsvc.Referrals}
// @Router /api/client/referrals [get]
func (h *Handler) Referrals(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.client.referrals")
	st := middlewarectx.StateFrom(r.Context())

	user := st.User
	if user == nil || user.ReferralCode == "" {
		p, err := h.service.Profile(r.Context(), st, r.Header.Get("Accept-Language"))
		if err != nil {
			middlewarectx.Fail(w, r, log, err, clientsvc.Message(err))
			return
		}
		user = &p.User
	}
	render.JSON(w, r, response.OKWithData(clientsvc.ReferralsFor(*user, h.publicURL)))
}
