package models

import "fmt"

// Language язык интерфейса.
type Language string

// Поддерживаемые языки.
const (
	LangRU Language = "ru"
	LangUA Language = "ua"
	LangCN Language = "cn"
	LangEN Language = "en"
)

// Currency валюта отображения цен.
type Currency string

// Поддерживаемые валюты.
const (
	CurrencyUAH Currency = "uah"
	CurrencyRUB Currency = "rub"
	CurrencyUSD Currency = "usd"
)

// Значения по умолчанию, пока нет сессии.
const (
	DefaultLanguage = LangRU
	DefaultCurrency = CurrencyUAH
)

// Languages все языки в порядке отображения.
var Languages = []Language{LangRU, LangUA, LangCN, LangEN}

// Preference языковые и валютные настройки браузера.
type Preference struct {
	Language Language `json:"language"`
	Currency Currency `json:"currency"`
}

// DefaultPreference настройки до входа.
func DefaultPreference() Preference {
	return Preference{Language: DefaultLanguage, Currency: DefaultCurrency}
}

// ParseLanguage проверяет код языка.
func ParseLanguage(s string) (Language, error) {
	switch l := Language(s); l {
	case LangRU, LangUA, LangCN, LangEN:
		return l, nil
	default:
		return "", fmt.Errorf("unsupported language %q", s)
	}
}

// ParseCurrency проверяет код валюты.
func ParseCurrency(s string) (Currency, error) {
	switch c := Currency(s); c {
	case CurrencyUAH, CurrencyRUB, CurrencyUSD:
		return c, nil
	default:
		return "", fmt.Errorf("unsupported currency %q", s)
	}
}

// Code ISO-код валюты.
func (c Currency) Code() string {
	switch c {
	case CurrencyRUB:
		return "RUB"
	case CurrencyUSD:
		return "USD"
	default:
		return "UAH"
	}
}

// Symbol знак валюты для отображения.
func (c Currency) Symbol() string {
	switch c {
	case CurrencyRUB:
		return "₽"
	case CurrencyUSD:
		return "$"
	default:
		return "₴"
	}
}
