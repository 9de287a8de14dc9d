package models

import (
	"strconv"
)

// Tier уровень тарифа.
type Tier string

// Уровни тарифов от младшего к старшему.
const (
	TierBasic Tier = "basic"
	TierPro   Tier = "pro"
	TierElite Tier = "elite"
)

// Tiers все уровни в порядке отображения.
var Tiers = []Tier{TierBasic, TierPro, TierElite}

// Valid сообщает, что уровень известен.
func (t Tier) Valid() bool {
	switch t {
	case TierBasic, TierPro, TierElite:
		return true
	default:
		return false
	}
}

// BytesInGB множитель для лимита трафика, вводимого в гигабайтах.
const BytesInGB = 1073741824

// Tariff тариф подписки.
type Tariff struct {
	ID                int     `json:"id"`
	Name              string  `json:"name"`
	DurationDays      int     `json:"duration_days"`
	PriceUAH          float64 `json:"price_uah"`
	PriceRUB          float64 `json:"price_rub"`
	PriceUSD          float64 `json:"price_usd"`
	SquadID           *string `json:"squad_id,omitempty"`
	TrafficLimitBytes int64   `json:"traffic_limit_bytes"`
	Tier              *Tier   `json:"tier,omitempty"`
	Badge             *string `json:"badge,omitempty"`
}

// Key идентификатор для коллекций.
func (t Tariff) Key() string { return strconv.Itoa(t.ID) }

// Price цена в выбранной валюте.
func (t Tariff) Price(c Currency) float64 {
	switch c {
	case CurrencyRUB:
		return t.PriceRUB
	case CurrencyUSD:
		return t.PriceUSD
	default:
		return t.PriceUAH
	}
}

// TariffInput форма создания и редактирования тарифа.
type TariffInput struct {
	Name              string  `json:"name" validate:"required"`
	DurationDays      int     `json:"duration_days" validate:"required,gt=0"`
	PriceUAH          float64 `json:"price_uah" validate:"gte=0"`
	PriceRUB          float64 `json:"price_rub" validate:"gte=0"`
	PriceUSD          float64 `json:"price_usd" validate:"gte=0"`
	SquadID           *string `json:"squad_id"`
	TrafficLimitGB    float64 `json:"traffic_limit_gb,omitempty" validate:"gte=0"`
	TrafficLimitBytes int64   `json:"traffic_limit_bytes"`
	Tier              *Tier   `json:"tier" validate:"omitempty,oneof=basic pro elite"`
	Badge             *string `json:"badge"`
}

// Normalize приводит пустые необязательные поля к null и пересчитывает лимит трафика.
func (in TariffInput) Normalize() TariffInput {
	if in.SquadID != nil && *in.SquadID == "" {
		in.SquadID = nil
	}
	if in.Tier != nil && *in.Tier == "" {
		in.Tier = nil
	}
	if in.Badge != nil && *in.Badge == "" {
		in.Badge = nil
	}
	if in.TrafficLimitGB > 0 {
		in.TrafficLimitBytes = int64(in.TrafficLimitGB*BytesInGB + 0.5)
	}
	in.TrafficLimitGB = 0
	return in
}

// Apply накладывает отредактированные поля на тариф, id не меняется.
func (in TariffInput) Apply(t Tariff) Tariff {
	t.Name = in.Name
	t.DurationDays = in.DurationDays
	t.PriceUAH = in.PriceUAH
	t.PriceRUB = in.PriceRUB
	t.PriceUSD = in.PriceUSD
	t.SquadID = in.SquadID
	t.TrafficLimitBytes = in.TrafficLimitBytes
	t.Tier = in.Tier
	t.Badge = in.Badge
	return t
}

// TariffFeatures списки преимуществ по уровням.
type TariffFeatures map[Tier][]string

// Squad группа VPN-узлов во внешней системе.
type Squad struct {
	UUID        string `json:"uuid,omitempty"`
	ID          string `json:"id,omitempty"`
	Name        string `json:"name,omitempty"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
}

// Key uuid, а если его нет, id.
func (s Squad) Key() string {
	if s.UUID != "" {
		return s.UUID
	}
	return s.ID
}

// DisplayName имя сквада для таблиц.
func (s Squad) DisplayName() string {
	switch {
	case s.Name != "":
		return s.Name
	case s.Title != "":
		return s.Title
	default:
		return "Без названия"
	}
}
