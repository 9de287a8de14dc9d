package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/magabrotheeeer/stealthnet-panel/internal/models"
)

// Statistics сводка продаж и пользователей.
func (c *Client) Statistics(ctx context.Context, token string) (models.Statistics, error) {
	var stats models.Statistics
	err := c.do(ctx, http.MethodGet, "/api/admin/statistics", token, nil, &stats)
	return stats, err
}

// Users все пользователи с живыми данными узлов.
func (c *Client) Users(ctx context.Context, token string) ([]models.User, error) {
	var users []models.User
	err := c.do(ctx, http.MethodGet, "/api/admin/users", token, nil, &users)
	return users, err
}

// DeleteUser удаляет пользователя.
func (c *Client) DeleteUser(ctx context.Context, token string, id int) (MessageResponse, error) {
	var resp MessageResponse
	err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/admin/users/%d", id), token, nil, &resp)
	return resp, err
}

// UserEmails адреса всех пользователей для рассылки.
func (c *Client) UserEmails(ctx context.Context, token string) ([]string, error) {
	var emails []string
	err := c.do(ctx, http.MethodGet, "/api/admin/users/emails", token, nil, &emails)
	return emails, err
}

// Tariffs тарифы в админке.
func (c *Client) Tariffs(ctx context.Context, token string) ([]models.Tariff, error) {
	var tariffs []models.Tariff
	err := c.do(ctx, http.MethodGet, "/api/admin/tariffs", token, nil, &tariffs)
	return tariffs, err
}

// CreateTariff создает тариф. Возвращает nil, если сервер не прислал созданный тариф.
func (c *Client) CreateTariff(ctx context.Context, token string, in models.TariffInput) (*models.Tariff, error) {
	data, err := c.raw(ctx, http.MethodPost, "/api/admin/tariffs", token, in)
	if err != nil {
		return nil, err
	}
	t, _ := decodeEntity[models.Tariff](data)
	return t, nil
}

// UpdateTariff изменяет тариф. Возвращает то, что сервер прислал в ответ, может быть nil.
func (c *Client) UpdateTariff(ctx context.Context, token string, id int, in models.TariffInput) (*models.Tariff, error) {
	data, err := c.raw(ctx, http.MethodPatch, fmt.Sprintf("/api/admin/tariffs/%d", id), token, in)
	if err != nil {
		return nil, err
	}
	t, _ := decodeEntity[models.Tariff](data)
	return t, nil
}

// DeleteTariff удаляет тариф.
func (c *Client) DeleteTariff(ctx context.Context, token string, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/admin/tariffs/%d", id), token, nil, nil)
}

// PromoCodes промокоды.
func (c *Client) PromoCodes(ctx context.Context, token string) ([]models.PromoCode, error) {
	var codes []models.PromoCode
	err := c.do(ctx, http.MethodGet, "/api/admin/promocodes", token, nil, &codes)
	return codes, err
}

// CreatePromoCode создает промокод. Возвращает nil, если сервер не прислал созданный промокод.
func (c *Client) CreatePromoCode(ctx context.Context, token string, in models.PromoCodeInput) (*models.PromoCode, error) {
	data, err := c.raw(ctx, http.MethodPost, "/api/admin/promocodes", token, in)
	if err != nil {
		return nil, err
	}
	p, _ := decodeEntity[models.PromoCode](data)
	return p, nil
}

// DeletePromoCode удаляет промокод.
func (c *Client) DeletePromoCode(ctx context.Context, token string, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/admin/promocodes/%d", id), token, nil, nil)
}

// Squads сквады внешней системы узлов.
func (c *Client) Squads(ctx context.Context, token string) ([]models.Squad, error) {
	var squads []models.Squad
	err := c.do(ctx, http.MethodGet, "/api/admin/squads", token, nil, &squads)
	return squads, err
}

// ReferralSettings настройки реферальной программы.
func (c *Client) ReferralSettings(ctx context.Context, token string) (models.ReferralSettings, error) {
	var s models.ReferralSettings
	err := c.do(ctx, http.MethodGet, "/api/admin/referral-settings", token, nil, &s)
	return s.WithDefaults(), err
}

// SaveReferralSettings сохраняет настройки реферальной программы.
func (c *Client) SaveReferralSettings(ctx context.Context, token string, s models.ReferralSettings) error {
	return c.do(ctx, http.MethodPost, "/api/admin/referral-settings", token, s, nil)
}

// SystemSettings системные настройки.
func (c *Client) SystemSettings(ctx context.Context, token string) (models.SystemSettings, error) {
	var s models.SystemSettings
	err := c.do(ctx, http.MethodGet, "/api/admin/system-settings", token, nil, &s)
	return s, err
}

// SaveSystemSettings сохраняет системные настройки.
func (c *Client) SaveSystemSettings(ctx context.Context, token string, s models.SystemSettings) error {
	return c.do(ctx, http.MethodPost, "/api/admin/system-settings", token, s, nil)
}

// TariffFeatures преимущества тарифов для редактирования.
func (c *Client) TariffFeatures(ctx context.Context, token string) (models.TariffFeatures, error) {
	var f models.TariffFeatures
	err := c.do(ctx, http.MethodGet, "/api/admin/tariff-features", token, nil, &f)
	return f, err
}

// SaveTariffFeatures сохраняет преимущества тарифов.
func (c *Client) SaveTariffFeatures(ctx context.Context, token string, f models.TariffFeatures) error {
	return c.do(ctx, http.MethodPost, "/api/admin/tariff-features", token, f, nil)
}

// AllTickets все обращения.
func (c *Client) AllTickets(ctx context.Context, token string) ([]models.SupportTicket, error) {
	var tickets []models.SupportTicket
	err := c.do(ctx, http.MethodGet, "/api/admin/support-tickets", token, nil, &tickets)
	return tickets, err
}

// SetTicketStatus открывает или закрывает обращение.
func (c *Client) SetTicketStatus(ctx context.Context, token string, id int, status models.TicketStatus) error {
	return c.do(ctx, http.MethodPatch, fmt.Sprintf("/api/admin/support-tickets/%d", id), token,
		models.TicketStatusInput{Status: status}, nil)
}

// Broadcast отправляет рассылку.
func (c *Client) Broadcast(ctx context.Context, token string, b models.Broadcast) (models.BroadcastResult, error) {
	var res models.BroadcastResult
	err := c.do(ctx, http.MethodPost, "/api/admin/broadcast", token, b, &res)
	return res, err
}
