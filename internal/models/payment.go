package models

import "fmt"

// PaymentProvider платежный шлюз.
type PaymentProvider string

// Поддерживаемые шлюзы.
const (
	ProviderCrystalPay    PaymentProvider = "crystalpay"
	ProviderHeleket       PaymentProvider = "heleket"
	ProviderPlatega       PaymentProvider = "platega"
	ProviderTelegramStars PaymentProvider = "telegram_stars"
)

// Providers шлюзы в порядке показа в окне выбора оплаты.
var Providers = []PaymentProvider{ProviderCrystalPay, ProviderHeleket, ProviderPlatega, ProviderTelegramStars}

// ParseProvider проверяет код шлюза.
func ParseProvider(s string) (PaymentProvider, error) {
	switch p := PaymentProvider(s); p {
	case ProviderCrystalPay, ProviderHeleket, ProviderPlatega, ProviderTelegramStars:
		return p, nil
	default:
		return "", fmt.Errorf("unknown payment provider %q", s)
	}
}

// Label подпись кнопки шлюза.
func (p PaymentProvider) Label() string {
	switch p {
	case ProviderCrystalPay:
		return "CrystalPay"
	case ProviderHeleket:
		return "Heleket (Криптовалюты)"
	case ProviderPlatega:
		return "Platega"
	case ProviderTelegramStars:
		return "Telegram Stars ⭐"
	default:
		return string(p)
	}
}

var plategaLabels = map[int]string{
	2:  "СБП QR (НСПК / QR)",
	10: "Карты (RUB) — МИР/Visa/Mastercard",
	11: "Карточный эквайринг",
	12: "Международный эквайринг",
	13: "Криптовалюта",
}

// PlategaMethodLabel подпись способа оплаты Platega.
func PlategaMethodLabel(code int) string {
	if l, ok := plategaLabels[code]; ok {
		return l
	}
	return fmt.Sprintf("Platega %d", code)
}

// PaymentRequest запрос на создание счета.
type PaymentRequest struct {
	TariffID      int             `json:"tariff_id"`
	PromoCode     *string         `json:"promo_code"`
	Provider      PaymentProvider `json:"payment_provider"`
	PlategaMethod *int            `json:"platega_payment_method,omitempty"`
}

// PaymentResponse ответ с адресом страницы оплаты.
type PaymentResponse struct {
	PaymentURL string `json:"payment_url"`
}
