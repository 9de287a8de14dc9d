// Package login реализует HTTP-обработчик входа в панель.
//
// Учетные данные проверяет бэкенд, токен и роль сохраняются в браузерной сессии,
// в ответ уходит роль и адрес стартовой страницы. Для неподтвержденной почты
// ответ содержит код NOT_VERIFIED, и страница входа предлагает отправить письмо повторно.
package login

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
	"github.com/magabrotheeeer/stealthnet-panel/internal/services/guard"
	"github.com/magabrotheeeer/stealthnet-panel/internal/services/session"
)

// Request — структура входных данных для входа.
type Request struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Result ответ на успешный вход.
type Result struct {
	Role     models.Role `json:"role" swaggertype:"string" example:"CLIENT"`
	Location string      `json:"location" example:"/dashboard"`
}

// Service описывает вход с сохранением в сессию.
type Service interface {
	Login(ctx context.Context, sid, email, password string) (backend.Credentials, error)
}

// Handler обрабатывает HTTP-запросы для входа.
type Handler struct {
	log      *slog.Logger        // Логгер для записи операций и ошибок
	sessions Service             // Хранилище сессий
	validate *validator.Validate // Валидатор для проверки входных данных
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, sessions Service) *Handler {
	return &Handler{
		log:      log,
		sessions: sessions,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Вход в панель
// @Description Проверяет почту и пароль, сохраняет токен в сессии браузера и возвращает стартовую страницу роли.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Учетные данные пользователя"
// @Success 200 {object} response.Response{data=Result} "Успешный вход"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Неверные учетные данные"
// @Failure 403 {object} response.ErrorResponse "Почта не подтверждена, code=NOT_VERIFIED"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 502 {object} response.ErrorResponse "Бэкенд недоступен"
// @Failure 503 {object} response.ErrorResponse "Сессии еще загружаются"
// @Router /api/public/login [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if !request.Decode(w, r, log, h.validate, &req) {
		return
	}

	state := middlewarectx.StateFrom(r.Context())
	creds, err := h.sessions.Login(r.Context(), state.SessionID, req.Email, req.Password)
	if err != nil {
		var authErr *backend.AuthError
		switch {
		case errors.Is(err, session.ErrNotReady):
			log.Warn("session store is not ready")
			w.Header().Set("Retry-After", "1")
			render.Status(r, http.StatusServiceUnavailable)
			render.JSON(w, r, response.Error("Сессия загружается, повторите запрос"))
		case errors.Is(err, backend.ErrIncompleteSession):
			log.Error("incomplete login response", sl.Err(err))
			render.Status(r, http.StatusBadGateway)
			render.JSON(w, r, response.Error("Сервер вернул неполный ответ, попробуйте позже"))
		case errors.As(err, &authErr):
			log.Info("login rejected", sl.Err(err))
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.Error(authErr.Message))
		default:
			middlewarectx.Fail(w, r, log, err, backend.Message(err))
		}
		return
	}

	d := guard.Landing(session.State{Token: creds.Token, Role: creds.Role})
	log.Info("login success", slog.String("role", creds.Role.String()))
	render.JSON(w, r, response.OKWithData(Result{Role: creds.Role, Location: d.Location}))
}
