// Package response содержит вспомогательные типы и функции для формирования
// унифицированных JSON‑ответов HTTP‑обработчиков панели: успех, ошибка,
// ошибки валидации, перенаправление и запрос подтверждения.
package response

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/stealthnet-panel/internal/backend"
)

// Response описывает стандартную структуру JSON‑ответа сервера.
// Поле Status — статус запроса ("OK" или "Error").
// Поле Error — текст ошибки (опционально, при неуспехе).
// Поле Code — машинный код ошибки, например NOT_VERIFIED.
// Поле Data — данные ответа (опционально, при успехе).
type Response struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
	Code   string `json:"code,omitempty"`
	Data   any    `json:"data,omitempty"`
}

// ErrorResponse — структура ошибки для Swagger-документации.
type ErrorResponse struct {
	Status string `json:"status" example:"Error"`
	Error  string `json:"error" example:"Сервер недоступен, попробуйте позже"`
}

// Redirect тело ответа 303 и ответа защитника маршрута.
type Redirect struct {
	Location string `json:"location" example:"/login"`
}

// Confirm тело ответа 428: удаление ждет подтверждения.
type Confirm struct {
	Prompt string `json:"prompt" example:"Удалить этот тариф?"`
}

const (
	// StatusOK — значение статуса для успешного ответа.
	StatusOK = "OK"
	// StatusError — значение статуса для ответа с ошибкой.
	StatusError = "Error"
)

// OK успешный ответ без данных.
func OK() Response {
	return Response{Status: StatusOK}
}

// OKWithData возвращает успешный Response с переданными данными.
func OKWithData(data any) Response {
	return Response{
		Status: StatusOK,
		Data:   data,
	}
}

// Error возвращает Response с ошибкой и переданным сообщением.
func Error(msg string) Response {
	return Response{
		Status: StatusError,
		Error:  msg,
	}
}

// ErrorWithCode ошибка с машинным кодом.
func ErrorWithCode(msg, code string) Response {
	return Response{
		Status: StatusError,
		Error:  msg,
		Code:   code,
	}
}

// ValidationError формирует Response со статусом Error на основе ошибок валидации.
// Каждое нарушение формируется в человеко‑читаемый текст, объединённый через запятую.
func ValidationError(errs validator.ValidationErrors) Response {
	var errsMsgs []string

	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			errsMsgs = append(errsMsgs, fmt.Sprintf("поле %s обязательно", err.Field()))
		case "email":
			errsMsgs = append(errsMsgs, fmt.Sprintf("поле %s должно быть адресом почты", err.Field()))
		case "alphanum":
			errsMsgs = append(errsMsgs, fmt.Sprintf("поле %s может содержать только буквы и цифры", err.Field()))
		case "min":
			errsMsgs = append(errsMsgs, fmt.Sprintf("поле %s слишком короткое", err.Field()))
		case "gt", "gte":
			errsMsgs = append(errsMsgs, fmt.Sprintf("поле %s должно быть больше %s", err.Field(), lowerBound(err)))
		case "oneof":
			errsMsgs = append(errsMsgs, fmt.Sprintf("поле %s должно быть одним из: %s", err.Field(), err.Param()))
		default:
			errsMsgs = append(errsMsgs, fmt.Sprintf("поле %s заполнено неверно", err.Field()))
		}
	}
	return Response{
		Status: StatusError,
		Error:  strings.Join(errsMsgs, ", "),
	}
}

func lowerBound(err validator.FieldError) string {
	if err.ActualTag() == "gte" {
		return "или равно " + err.Param()
	}
	return err.Param()
}

// StatusOf HTTP-статус ответа панели для ошибки бэкенда.
func StatusOf(err error) int {
	var (
		validationErr *backend.ValidationError
		authErr       *backend.AuthError
		notVerified   *backend.NotVerifiedError
		networkErr    *backend.NetworkError
		serverErr     *backend.ServerError
	)
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.As(err, &validationErr):
		if validationErr.Status >= 400 && validationErr.Status < 500 {
			return validationErr.Status
		}
		return http.StatusBadRequest
	case errors.As(err, &authErr):
		return http.StatusUnauthorized
	case errors.As(err, &notVerified):
		return http.StatusForbidden
	case errors.As(err, &networkErr), errors.As(err, &serverErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Upstream ответ на ошибку бэкенда с текстом msg.
func Upstream(err error, msg string) Response {
	var notVerified *backend.NotVerifiedError
	if errors.As(err, &notVerified) {
		return ErrorWithCode(msg, backend.CodeNotVerified)
	}
	return Error(msg)
}
