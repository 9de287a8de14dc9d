package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/magabrotheeeer/stealthnet-panel/internal/models"
)

// Me профиль текущего пользователя.
func (c *Client) Me(ctx context.Context, token string) (models.User, error) {
	var user models.User
	err := c.do(ctx, http.MethodGet, "/api/client/me", token, nil, &user)
	return user, err
}

// Settings настройки языка и валюты. Пустые поля не отправляются.
type Settings struct {
	Lang     string `json:"lang,omitempty"`
	Currency string `json:"currency,omitempty"`
}

// SaveSettings сохраняет языковые настройки пользователя.
func (c *Client) SaveSettings(ctx context.Context, token string, s Settings) error {
	return c.do(ctx, http.MethodPost, "/api/client/settings", token, s, nil)
}

// Nodes активные узлы клиента.
func (c *Client) Nodes(ctx context.Context, token string) ([]models.Node, error) {
	var body struct {
		ActiveNodes []models.Node `json:"activeNodes"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/client/nodes", token, nil, &body); err != nil {
		return nil, err
	}
	return body.ActiveNodes, nil
}

// ActivateTrial включает пробный период.
func (c *Client) ActivateTrial(ctx context.Context, token string) (MessageResponse, error) {
	var resp MessageResponse
	err := c.do(ctx, http.MethodPost, "/api/client/activate-trial", token, map[string]any{}, &resp)
	return resp, err
}

// ActivatePromocode активирует промокод на бесплатные дни.
func (c *Client) ActivatePromocode(ctx context.Context, token, code string) (MessageResponse, error) {
	var resp MessageResponse
	err := c.do(ctx, http.MethodPost, "/api/client/activate-promocode", token,
		map[string]string{"code": code}, &resp)
	return resp, err
}

// CheckPromocode проверяет промокод перед оплатой.
func (c *Client) CheckPromocode(ctx context.Context, token, code string) (models.PromoCode, error) {
	var promo models.PromoCode
	err := c.do(ctx, http.MethodPost, "/api/client/check-promocode", token,
		map[string]string{"code": code}, &promo)
	return promo, err
}

// CreatePayment создает счет и возвращает адрес страницы оплаты.
func (c *Client) CreatePayment(ctx context.Context, token string, req models.PaymentRequest) (models.PaymentResponse, error) {
	const op = "backend.CreatePayment"
	var resp models.PaymentResponse
	if err := c.do(ctx, http.MethodPost, "/api/client/create-payment", token, req, &resp); err != nil {
		return models.PaymentResponse{}, err
	}
	if resp.PaymentURL == "" {
		return models.PaymentResponse{}, fmt.Errorf("%s: %w", op, &ServerError{Status: http.StatusOK, Err: fmt.Errorf("payment_url missing")})
	}
	return resp, nil
}

// MyTickets обращения текущего клиента.
func (c *Client) MyTickets(ctx context.Context, token string) ([]models.SupportTicket, error) {
	var tickets []models.SupportTicket
	err := c.do(ctx, http.MethodGet, "/api/client/support-tickets", token, nil, &tickets)
	return tickets, err
}

// CreateTicket создает обращение и возвращает его id.
func (c *Client) CreateTicket(ctx context.Context, token string, in models.NewTicketInput) (int, error) {
	var body struct {
		TicketID int `json:"ticket_id"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/client/support-tickets", token, in, &body); err != nil {
		return 0, err
	}
	return body.TicketID, nil
}

// Ticket обращение с перепиской. Доступно и клиенту, и администратору.
func (c *Client) Ticket(ctx context.Context, token string, id int) (models.SupportTicket, error) {
	var ticket models.SupportTicket
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/support-tickets/%d", id), token, nil, &ticket)
	return ticket, err
}

// Reply отправляет сообщение в обращение и возвращает созданное сообщение.
func (c *Client) Reply(ctx context.Context, token string, id int, message string) (models.TicketMessage, error) {
	var msg models.TicketMessage
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/support-tickets/%d/reply", id), token,
		models.ReplyInput{Message: message}, &msg)
	return msg, err
}

// decodeEntity разбирает созданную сущность, если сервер ее вернул.
// Нулевой id означает, что в ответе сущности нет.
func decodeEntity[T interface{ Key() string }](data json.RawMessage) (*T, bool) {
	if data == nil {
		return nil, false
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, false
	}
	if v.Key() == "" || v.Key() == "0" {
		return nil, false
	}
	return &v, true
}
