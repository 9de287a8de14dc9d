package models

import (
	"encoding/json"
	"strconv"
)

// User учетная запись. Живые данные трафика приходят из внешней системы узлов как есть.
type User struct {
	ID                int             `json:"id"`
	Email             string          `json:"email"`
	Role              string          `json:"role,omitempty"`
	ReferralCode      string          `json:"referral_code,omitempty"`
	ReferrerID        *int            `json:"referrer_id,omitempty"`
	IsVerified        bool            `json:"is_verified"`
	PreferredLang     string          `json:"preferred_lang,omitempty"`
	PreferredCurrency string          `json:"preferred_currency,omitempty"`
	Balance           float64         `json:"balance,omitempty"`
	TrialUsed         bool            `json:"trial_used,omitempty"`
	Expire            string          `json:"expire,omitempty"`
	LiveData          json.RawMessage `json:"live_data,omitempty"`
	FetchError        bool            `json:"fetch_error,omitempty"`
}

// Key идентификатор для коллекций.
func (u User) Key() string { return strconv.Itoa(u.ID) }

// Node активный VPN-узел, доступный клиенту.
type Node struct {
	UUID    string `json:"uuid"`
	Node    string `json:"node,omitempty"`
	Country string `json:"country,omitempty"`
	City    string `json:"city,omitempty"`
	Region  string `json:"region,omitempty"`
}

// Statistics сводка для дашборда администратора.
type Statistics struct {
	TotalUsers      int     `json:"total_users"`
	TotalRevenue    float64 `json:"total_revenue"`
	TodayRevenue    float64 `json:"today_revenue"`
	TotalSalesCount int     `json:"total_sales_count"`
}

// ReferralSettings бонусы реферальной программы и сквад пробного периода.
type ReferralSettings struct {
	InviteeBonusDays  int    `json:"invitee_bonus_days" validate:"gte=0"`
	ReferrerBonusDays int    `json:"referrer_bonus_days" validate:"gte=0"`
	TrialSquadID      string `json:"trial_squad_id"`
}

// WithDefaults подставляет 7 дней там, где бэкенд ничего не вернул.
func (s ReferralSettings) WithDefaults() ReferralSettings {
	if s.InviteeBonusDays == 0 {
		s.InviteeBonusDays = 7
	}
	if s.ReferrerBonusDays == 0 {
		s.ReferrerBonusDays = 7
	}
	return s
}

// SystemSettings настройки по умолчанию для новых пользователей.
type SystemSettings struct {
	DefaultLanguage Language `json:"default_language" validate:"required,oneof=ru ua cn en"`
	DefaultCurrency Currency `json:"default_currency" validate:"required,oneof=uah rub usd"`
}

// RecipientType кому уходит рассылка.
type RecipientType string

// Варианты получателей рассылки.
const (
	RecipientAll      RecipientType = "all"
	RecipientActive   RecipientType = "active"
	RecipientInactive RecipientType = "inactive"
	RecipientCustom   RecipientType = "custom"
)

// Broadcast письмо-рассылка.
type Broadcast struct {
	Subject       string        `json:"subject" validate:"required"`
	Message       string        `json:"message" validate:"required"`
	RecipientType RecipientType `json:"recipient_type" validate:"required,oneof=all active inactive custom"`
	CustomEmails  []string      `json:"custom_emails"`
}

// BroadcastResult итог рассылки.
type BroadcastResult struct {
	Total  int `json:"total_recipients"`
	Sent   int `json:"sent"`
	Failed int `json:"failed"`
}
