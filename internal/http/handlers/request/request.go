// Package request разбор входных данных обработчиков: JSON-тело с валидацией,
// числовые параметры пути и подтверждение удаления.
package request

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/stealthnet-panel/internal/http/response"
	"github.com/magabrotheeeer/stealthnet-panel/internal/lib/sl"
)

// ConfirmParam параметр запроса, подтверждающий удаление.
const ConfirmParam = "confirm"

// Decode читает JSON в v и проверяет его валидатором. При ошибке ответ уже записан.
func Decode(w http.ResponseWriter, r *http.Request, log *slog.Logger, validate *validator.Validate, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("Некорректный запрос"))
		return false
	}
	if validate == nil {
		return true
	}
	if err := validate.Struct(v); err != nil {
		log.Error("validation failed", sl.Err(err))
		var verrs validator.ValidationErrors
		render.Status(r, http.StatusUnprocessableEntity)
		if errors.As(err, &verrs) {
			render.JSON(w, r, response.ValidationError(verrs))
		} else {
			render.JSON(w, r, response.Error("Некорректный запрос"))
		}
		return false
	}
	return true
}

// ID числовой параметр пути name. При ошибке ответ уже записан.
func ID(w http.ResponseWriter, r *http.Request, log *slog.Logger, name string) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil || id <= 0 {
		log.Error("invalid id format", slog.String("param", name))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("Некорректный идентификатор"))
		return 0, false
	}
	return id, true
}

// Confirmed удаление подтверждено параметром confirm=yes. Иначе отвечает 428 с текстом prompt.
func Confirmed(w http.ResponseWriter, r *http.Request, prompt string) bool {
	if r.URL.Query().Get(ConfirmParam) == "yes" {
		return true
	}
	render.Status(r, http.StatusPreconditionRequired)
	render.JSON(w, r, response.Response{
		Status: response.StatusError,
		Error:  prompt,
		Data:   response.Confirm{Prompt: prompt},
	})
	return false
}
