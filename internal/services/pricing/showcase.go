package pricing

import (
	"github.com/magabrotheeeer/stealthnet-panel/internal/models"
)

// Card карточка тарифа на витрине.
type Card struct {
	ID            int         `json:"id"`
	Name          string      `json:"name"`
	Tier          models.Tier `json:"tier"`
	TierLabel     string      `json:"tier_label"`
	Badge         string      `json:"badge,omitempty"`
	Price         string      `json:"price"`
	Discounted    string      `json:"discounted,omitempty"`
	DiscountLabel string      `json:"discount_label,omitempty"`
	Duration      string      `json:"duration"`
	PerDay        string      `json:"per_day"`
	BonusDays     int         `json:"bonus_days"`
	Features      []string    `json:"features"`
	Loading       bool        `json:"loading,omitempty"`
}

// TierGroup тарифы одного уровня.
type TierGroup struct {
	Tier  models.Tier `json:"tier"`
	Label string      `json:"label"`
	Cards []Card      `json:"cards"`
}

// Showcase собирает витрину: уровни по порядку, внутри по длительности.
// promo может быть nil. loadingID отмечает тариф, для которого создается счет.
func Showcase(tariffs []models.Tariff, features models.TariffFeatures, promo *models.PromoCode,
	pref models.Preference, loadingID int) []TierGroup {
	f := NewFormatter(pref)
	merged := MergeFeatures(features)
	groups := Group(tariffs)

	out := make([]TierGroup, 0, len(models.Tiers))
	for _, tier := range models.Tiers {
		g := TierGroup{Tier: tier, Label: TierLabel(tier), Cards: []Card{}}
		for _, t := range groups[tier] {
			g.Cards = append(g.Cards, card(t, tier, merged[tier], promo, pref, f, loadingID))
		}
		out = append(out, g)
	}
	return out
}

func card(t models.Tariff, tier models.Tier, features []string, promo *models.PromoCode,
	pref models.Preference, f Formatter, loadingID int) Card {
	price := t.Price(pref.Currency)
	c := Card{
		ID:        t.ID,
		Name:      TranslateName(t.Name, t.DurationDays, pref.Language),
		Tier:      tier,
		TierLabel: TierLabel(tier),
		Price:     f.Headline(price),
		Duration:  Days(t.DurationDays, pref.Language),
		PerDay:    f.Daily(PerDay(price, t.DurationDays)),
		BonusDays: BonusDays(tier),
		Features:  features,
		Loading:   loadingID != 0 && loadingID == t.ID,
	}
	if t.Badge != nil {
		c.Badge = *t.Badge
	}
	if label := DiscountLabel(promo); label != "" {
		c.Discounted = f.Headline(Discount(price, promo))
		c.DiscountLabel = label
	}
	return c
}
