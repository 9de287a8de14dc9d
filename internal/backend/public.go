package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/magabrotheeeer/stealthnet-panel/internal/models"
)

// Credentials токен и роль, выданные при входе.
type Credentials struct {
	Token string
	Role  models.Role
}

type credentialsBody struct {
	Token   string `json:"token"`
	Role    string `json:"role"`
	Message string `json:"message"`
}

func (b credentialsBody) credentials() (Credentials, error) {
	if b.Token == "" || b.Role == "" {
		return Credentials{}, ErrIncompleteSession
	}
	role, err := models.ParseRole(b.Role)
	if err != nil {
		return Credentials{}, fmt.Errorf("%w: %v", ErrIncompleteSession, err)
	}
	return Credentials{Token: b.Token, Role: role}, nil
}

// Register регистрирует пользователя. Сессию не создает: нужно подтвердить почту.
func (c *Client) Register(ctx context.Context, email, password, refCode string) (MessageResponse, error) {
	body := map[string]any{"email": email, "password": password}
	if refCode != "" {
		body["ref_code"] = refCode
	}
	var resp MessageResponse
	if err := c.do(ctx, http.MethodPost, "/api/public/register", "", body, &resp); err != nil {
		return MessageResponse{}, err
	}
	return resp, nil
}

// Login проверяет учетные данные.
//
// 403 с кодом NOT_VERIFIED дает NotVerifiedError, прочие отказы AuthError.
// Ответ без токена или роли дает ErrIncompleteSession.
func (c *Client) Login(ctx context.Context, email, password string) (Credentials, error) {
	var body credentialsBody
	err := c.do(ctx, http.MethodPost, "/api/public/login", "",
		map[string]string{"email": email, "password": password}, &body)
	if err != nil {
		var validationErr *ValidationError
		if errors.As(err, &validationErr) {
			return Credentials{}, &AuthError{Status: validationErr.Status, Message: validationErr.Message}
		}
		return Credentials{}, err
	}
	return body.credentials()
}

// VerifyEmail подтверждает почту по токену из письма. Бэкенд может сразу выдать токен сессии,
// тогда ok равен true.
func (c *Client) VerifyEmail(ctx context.Context, verifyToken string) (creds Credentials, message string, ok bool, err error) {
	var body credentialsBody
	if err = c.do(ctx, http.MethodPost, "/api/public/verify-email", "",
		map[string]string{"token": verifyToken}, &body); err != nil {
		return Credentials{}, "", false, err
	}
	creds, credErr := body.credentials()
	if credErr != nil {
		return Credentials{}, body.Message, false, nil
	}
	return creds, body.Message, true, nil
}

// ResendVerification повторно отправляет письмо подтверждения.
func (c *Client) ResendVerification(ctx context.Context, email string) (MessageResponse, error) {
	var resp MessageResponse
	err := c.do(ctx, http.MethodPost, "/api/public/resend-verification", "",
		map[string]string{"email": email}, &resp)
	return resp, err
}

// PublicTariffs тарифы для витрины.
func (c *Client) PublicTariffs(ctx context.Context) ([]models.Tariff, error) {
	var tariffs []models.Tariff
	err := c.do(ctx, http.MethodGet, "/api/public/tariffs", "", nil, &tariffs)
	return tariffs, err
}

// PublicTariffFeatures преимущества тарифов по уровням.
func (c *Client) PublicTariffFeatures(ctx context.Context) (models.TariffFeatures, error) {
	var features models.TariffFeatures
	err := c.do(ctx, http.MethodGet, "/api/public/tariff-features", "", nil, &features)
	return features, err
}

// PlategaMethods способы оплаты, включенные для Platega.
func (c *Client) PlategaMethods(ctx context.Context) ([]int, error) {
	var body struct {
		Methods []int `json:"methods"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/public/platega-methods", "", nil, &body); err != nil {
		return nil, err
	}
	return body.Methods, nil
}
