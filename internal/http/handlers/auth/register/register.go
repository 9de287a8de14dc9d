// Package register обработчик регистрации. Сессия не создается: сначала нужно
// подтвердить почту по ссылке из письма.
package register

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
)

// Request — входные данные для регистрации
type Request struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	RefCode  string `json:"ref_code"`
}

// Service регистрация на бэкенде.
type Service interface {
	Register(ctx context.Context, email, password, refCode string) (string, error)
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

// ServeHTTP godoc
// @Summary Регистрация
// @Description Создает учетную запись и отправляет письмо подтверждения. Реферальный код необязателен.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Данные регистрации"
// @Success 200 {object} response.Response "Письмо отправлено"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или почта занята"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 502 {object} response.ErrorResponse "Бэкенд недоступен"
// @Router /api/public/register [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.register"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if !request.Decode(w, r, log, h.validate, &req) {
		return
	}

	msg, err := h.sessions.Register(r.Context(), strings.TrimSpace(req.Email), req.Password, strings.TrimSpace(req.RefCode))
	if err != nil {
		middlewarectx.Fail(w, r, log, err, backend.Message(err))
		return
	}
	if msg == "" {
		msg = "Регистрация прошла успешно. Проверьте почту."
	}

	log.Info("user registered")
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message": msg,
	}))
}
