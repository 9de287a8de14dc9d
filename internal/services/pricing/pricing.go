// Package pricing раскладывает тарифы по уровням и считает цены для витрины:
// скидку по промокоду, цену за день и их отображение в валюте пользователя.
package pricing

import (
	"math"
	"sort"

	"github.com/magabrotheeeer/stealthnet-panel/internal/models"
)

// Пороги длительности для тарифов без явного уровня, включительно.
const (
	ProMinDays   = 90
	EliteMinDays = 180
)

// TierOf уровень тарифа. Явный уровень важнее длительности.
func TierOf(t models.Tariff) models.Tier {
	if t.Tier != nil && t.Tier.Valid() {
		return *t.Tier
	}
	switch {
	case t.DurationDays >= EliteMinDays:
		return models.TierElite
	case t.DurationDays >= ProMinDays:
		return models.TierPro
	default:
		return models.TierBasic
	}
}

// Group раскладывает тарифы по уровням, внутри уровня по возрастанию длительности.
// Ключи всех уровней присутствуют всегда.
func Group(tariffs []models.Tariff) map[models.Tier][]models.Tariff {
	groups := make(map[models.Tier][]models.Tariff, len(models.Tiers))
	for _, tier := range models.Tiers {
		groups[tier] = []models.Tariff{}
	}
	for _, t := range tariffs {
		tier := TierOf(t)
		groups[tier] = append(groups[tier], t)
	}
	for _, list := range groups {
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].DurationDays < list[j].DurationDays
		})
	}
	return groups
}

var presets = models.TariffFeatures{
	models.TierBasic: {"Безлимитный трафик", "До 5 устройств", "Базовый анти-DPI"},
	models.TierPro:   {"Приоритетная скорость", "До 10 устройств", "Ротация IP-адресов"},
	models.TierElite: {"VIP-поддержка 24/7", "Статический IP по запросу", "Автообновление ключей"},
}

// DefaultFeatures преимущества по умолчанию.
func DefaultFeatures() models.TariffFeatures {
	return MergeFeatures(nil)
}

// MergeFeatures подставляет значения по умолчанию для уровней без преимуществ.
func MergeFeatures(f models.TariffFeatures) models.TariffFeatures {
	out := make(models.TariffFeatures, len(models.Tiers))
	for _, tier := range models.Tiers {
		list := f[tier]
		if len(list) == 0 {
			list = presets[tier]
		}
		out[tier] = append([]string(nil), list...)
	}
	return out
}

// TierLabel подпись уровня.
func TierLabel(t models.Tier) string {
	switch t {
	case models.TierPro:
		return "Премиум"
	case models.TierElite:
		return "Элитный"
	default:
		return "Базовый"
	}
}

// BonusDays бонусные дни, которые показываются на карточке.
func BonusDays(t models.Tier) int {
	if t == models.TierElite {
		return 15
	}
	return 7
}

// Discount цена после промокода. Скидку дает только PERCENT, промокод на дни цену не меняет.
func Discount(price float64, promo *models.PromoCode) float64 {
	if promo == nil || promo.PromoType != models.PromoPercent {
		return price
	}
	return price * (1 - promo.Value/100)
}

// PerDay цена за день.
func PerDay(price float64, durationDays int) float64 {
	if durationDays <= 0 {
		return price
	}
	return price / float64(durationDays)
}

func round(v float64, digits int) float64 {
	p := math.Pow10(digits)
	return math.Round(v*p) / p
}
