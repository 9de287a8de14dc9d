package models

import (
	"strconv"
	"strings"
)

// PromoType вид промокода.
type PromoType string

const (
	// PromoPercent скидка в процентах от цены тарифа.
	PromoPercent PromoType = "PERCENT"
	// PromoDays бесплатные дни подписки.
	PromoDays PromoType = "DAYS"
)

// PromoCode промокод.
type PromoCode struct {
	ID        int       `json:"id"`
	Code      string    `json:"code"`
	PromoType PromoType `json:"promo_type"`
	Value     float64   `json:"value"`
	UsesLeft  int       `json:"uses_left"`
}

// Key идентификатор для коллекций.
func (p PromoCode) Key() string { return strconv.Itoa(p.ID) }

// PromoCodeInput форма создания промокода.
type PromoCodeInput struct {
	Code      string    `json:"code" validate:"required,alphanum"`
	PromoType PromoType `json:"promo_type" validate:"required,oneof=PERCENT DAYS"`
	Value     float64   `json:"value" validate:"required,gt=0"`
	UsesLeft  int       `json:"uses_left" validate:"gte=0"`
}

// NormalizeCode промокоды хранятся в верхнем регистре без пробелов по краям.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
