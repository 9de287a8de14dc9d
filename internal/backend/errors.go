package backend

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// CodeNotVerified код ответа бэкенда для неподтвержденной почты.
const CodeNotVerified = "NOT_VERIFIED"

// ErrIncompleteSession вход вернул ответ без токена или без роли.
var ErrIncompleteSession = errors.New("token or role missing in login response")

// FieldError ошибка конкретного поля формы.
type FieldError struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// ValidationError ответ 4xx с сообщением от сервера.
type ValidationError struct {
	Status  int
	Message string
	Fields  []FieldError
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error (%d): %s", e.Status, e.Message)
}

// AuthError неверные учетные данные или истекший токен.
type AuthError struct {
	Status  int
	Message string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth error (%d): %s", e.Status, e.Message)
}

// Expired токен отвергнут сервером, сессию нужно закрыть.
func (e *AuthError) Expired() bool {
	return e.Status == http.StatusUnauthorized
}

// NotVerifiedError почта не подтверждена, нужно предложить повторную отправку письма.
type NotVerifiedError struct {
	Message string
}

func (e *NotVerifiedError) Error() string {
	return "email not verified: " + e.Message
}

// NetworkError запрос не дошел до сервера.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return "network error: " + e.Err.Error()
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ServerError 5xx или ответ, который не удалось разобрать.
type ServerError struct {
	Status int
	Err    error
}

func (e *ServerError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("server error (%d): %v", e.Status, e.Err)
	}
	return fmt.Sprintf("server error (%d)", e.Status)
}

func (e *ServerError) Unwrap() error { return e.Err }

// IsSessionExpired сообщает, что ошибка требует выхода из сессии.
func IsSessionExpired(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr) && authErr.Expired()
}

// errorBody тело ошибки бэкенда. Встречаются оба варианта: message и errors[].
type errorBody struct {
	Message string       `json:"message"`
	Error   string       `json:"error"`
	Code    string       `json:"code"`
	Errors  []FieldError `json:"errors"`
}

func (b errorBody) text() string {
	if len(b.Errors) > 0 && b.Errors[0].Message != "" {
		return b.Errors[0].Message
	}
	if b.Message != "" {
		return b.Message
	}
	return b.Error
}

// classify превращает ответ не-2xx в ошибку из таксономии.
func classify(status int, body []byte) error {
	var eb errorBody
	_ = json.Unmarshal(body, &eb)
	msg := eb.text()
	if msg == "" {
		msg = http.StatusText(status)
	}

	switch {
	case status == http.StatusForbidden && eb.Code == CodeNotVerified:
		return &NotVerifiedError{Message: msg}
	case status == http.StatusUnauthorized:
		return &AuthError{Status: status, Message: msg}
	case status >= 500:
		return &ServerError{Status: status, Err: errors.New(msg)}
	default:
		return &ValidationError{Status: status, Message: msg, Fields: eb.Errors}
	}
}

// Message текст ошибки, пригодный для показа пользователю.
func Message(err error) string {
	var (
		validationErr *ValidationError
		authErr       *AuthError
		notVerified   *NotVerifiedError
		networkErr    *NetworkError
		serverErr     *ServerError
	)
	switch {
	case errors.As(err, &validationErr):
		return validationErr.Message
	case errors.As(err, &authErr):
		return authErr.Message
	case errors.As(err, &notVerified):
		return notVerified.Message
	case errors.As(err, &networkErr):
		return "Сервер недоступен, попробуйте позже"
	case errors.As(err, &serverErr):
		return "Ошибка сервера, попробуйте позже"
	default:
		return "Непредвиденная ошибка"
	}
}
