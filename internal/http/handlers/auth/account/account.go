// Package account обработчики браузерной сессии: ее состояние, подтверждение почты,
// повторная отправка письма и выход.
package account

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/stealthnet-panel/internal/backend"
	"github.com/magabrotheeeer/stealthnet-panel/internal/http/handlers/request"
	"github.com/magabrotheeeer/stealthnet-panel/internal/http/middlewarectx"
	"github.com/magabrotheeeer/stealthnet-panel/internal/http/response"
	"github.com/magabrotheeeer/stealthnet-panel/internal/lib/sl"
	"github.com/magabrotheeeer/stealthnet-panel/internal/models"
	"github.com/magabrotheeeer/stealthnet-panel/internal/services/guard"
	"github.com/magabrotheeeer/stealthnet-panel/internal/services/preference"
	"github.com/magabrotheeeer/stealthnet-panel/internal/services/session"
)

// Service операции сессии.
type Service interface {
	VerifyEmail(ctx context.Context, sid, verifyToken string) (backend.Credentials, string, bool, error)
	ResendVerification(ctx context.Context, email string) (string, error)
	Logout(ctx context.Context, sid string) error
}

// VerifyRequest токен из ссылки в письме.
type VerifyRequest struct {
	Token string `json:"token" validate:"required"`
}

// ResendRequest адрес для повторного письма.
type ResendRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// State состояние сессии для SPA.
type State struct {
	Loading       bool              `json:"loading"`
	Authenticated bool              `json:"authenticated"`
	Expired       bool              `json:"expired,omitempty"`
	Role          models.Role       `json:"role,omitempty" swaggertype:"string"`
	User          *models.User      `json:"user,omitempty"`
	Preference    models.Preference `json:"preference"`
	Location      string            `json:"location,omitempty"`
}

// VerifyResult итог подтверждения почты.
type VerifyResult struct {
	Message  string      `json:"message"`
	LoggedIn bool        `json:"logged_in"`
	Role     models.Role `json:"role,omitempty" swaggertype:"string"`
	Location string      `json:"location"`
}

type Handler struct {
	log      *slog.Logger
	sessions Service
	validate *validator.Validate
}

func New(log *slog.Logger, sessions Service) *Handler {
	return &Handler{
		log:      log,
		sessions: sessions,
		validate: validator.New(),
	}
}

func (h *Handler) logger(r *http.Request, op string) *slog.Logger {
	return h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}

// State godoc
// @Summary Состояние сессии
// @Description Роль, профиль и настройки браузерной сессии. Пока сессии загружаются, loading=true.
// @Tags Auth
// @Produce  json
// @Success 200 {object} response.Response{data=State}
// @Router /api/session [get]
func (h *Handler) State(w http.ResponseWriter, r *http.Request) {
	st := middlewarectx.StateFrom(r.Context())
	out := State{
		Loading:       st.Loading,
		Authenticated: st.Authenticated(),
		Expired:       st.Expired,
		User:          st.User,
		Preference:    preference.Current(st, r.Header.Get("Accept-Language")),
	}
	if out.Authenticated {
		out.Role = st.Role
	}
	if d := guard.Landing(st); d.Outcome == guard.Redirect {
		out.Location = d.Location
	}
	render.JSON(w, r, response.OKWithData(out))
}

// Verify godoc
// @Summary Подтверждение почты
// @Description Подтверждает почту по токену. Если бэкенд сразу выдал токен сессии, пользователь входит.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body VerifyRequest true "Токен из письма"
// @Success 200 {object} response.Response{data=VerifyResult}
// @Failure 400 {object} response.ErrorResponse "Ссылка недействительна"
// @Failure 422 {object} response.ErrorResponse "Нет токена"
// @Router /api/public/verify-email [post]
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.auth.verify")

	var req VerifyRequest
	if !request.Decode(w, r, log, h.validate, &req) {
		return
	}

	st := middlewarectx.StateFrom(r.Context())
	creds, msg, loggedIn, err := h.sessions.VerifyEmail(r.Context(), st.SessionID, strings.TrimSpace(req.Token))
	if err != nil {
		middlewarectx.Fail(w, r, log, err, backend.Message(err))
		return
	}
	if msg == "" {
		msg = "Почта подтверждена"
	}

	res := VerifyResult{Message: msg, LoggedIn: loggedIn, Location: guard.LoginPath}
	if loggedIn {
		res.Role = creds.Role
		res.Location = guard.Landing(session.State{Token: creds.Token, Role: creds.Role}).Location
	}
	log.Info("email verified", slog.Bool("logged_in", loggedIn))
	render.JSON(w, r, response.OKWithData(res))
}

// Resend godoc
// @Summary Повторное письмо подтверждения
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body ResendRequest true "Почта"
// @Success 200 {object} response.Response
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 429 {object} response.ErrorResponse "Слишком много попыток"
// @Router /api/public/resend-verification [post]
func (h *Handler) Resend(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.auth.resend")

	var req ResendRequest
	if !request.Decode(w, r, log, h.validate, &req) {
		return
	}

	msg, err := h.sessions.ResendVerification(r.Context(), strings.TrimSpace(req.Email))
	if err != nil {
		middlewarectx.Fail(w, r, log, err, backend.Message(err))
		return
	}
	if msg == "" {
		msg = "Письмо отправлено повторно"
	}
	render.JSON(w, r, response.OKWithData(map[string]any{"message": msg}))
}

// Logout godoc
// @Summary Выход
// @Description Удаляет сессию и состояние страниц. Бэкенд не вызывается.
// @Tags Auth
// @Produce  json
// @Success 200 {object} response.Response{data=response.Redirect}
// @Router /api/auth/logout [post]
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.auth.logout")

	st := middlewarectx.StateFrom(r.Context())
	if err := h.sessions.Logout(r.Context(), st.SessionID); err != nil {
		log.Error("failed to logout", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("Не удалось выйти, попробуйте еще раз"))
		return
	}
	log.Info("logged out")
	render.JSON(w, r, response.OKWithData(response.Redirect{Location: guard.LoginPath}))
}
