package admin

import (
	"context"
	"fmt"
	"strings"

	"github.com/magabrotheeeer/stealthnet-panel/internal/models"
	"github.com/magabrotheeeer/stealthnet-panel/internal/services/pricing"
)

// ReferralSettings настройки реферальной программы.
func (s *Service) ReferralSettings(ctx context.Context, token string) (models.ReferralSettings, error) {
	const op = "admin.ReferralSettings"
	rs, err := s.backend.ReferralSettings(ctx, token)
	if err != nil {
		return models.ReferralSettings{}.WithDefaults(), fmt.Errorf("%s: %w", op, err)
	}
	return rs.WithDefaults(), nil
}

// SaveReferralSettings сохраняет настройки реферальной программы.
func (s *Service) SaveReferralSettings(ctx context.Context, token string, rs models.ReferralSettings) (models.ReferralSettings, error) {
	const op = "admin.SaveReferralSettings"
	rs.TrialSquadID = strings.TrimSpace(rs.TrialSquadID)
	if err := s.backend.SaveReferralSettings(ctx, token, rs); err != nil {
		return rs, fmt.Errorf("%s: %w", op, err)
	}
	return rs, nil
}

func defaultSystemSettings(ss models.SystemSettings) models.SystemSettings {
	if _, err := models.ParseLanguage(string(ss.DefaultLanguage)); err != nil {
		ss.DefaultLanguage = models.DefaultLanguage
	}
	if _, err := models.ParseCurrency(string(ss.DefaultCurrency)); err != nil {
		ss.DefaultCurrency = models.DefaultCurrency
	}
	return ss
}

// SystemSettings язык и валюта по умолчанию для новых пользователей.
func (s *Service) SystemSettings(ctx context.Context, token string) (models.SystemSettings, error) {
	const op = "admin.SystemSettings"
	ss, err := s.backend.SystemSettings(ctx, token)
	if err != nil {
		return defaultSystemSettings(models.SystemSettings{}), fmt.Errorf("%s: %w", op, err)
	}
	return defaultSystemSettings(ss), nil
}

// SaveSystemSettings сохраняет системные настройки.
func (s *Service) SaveSystemSettings(ctx context.Context, token string, ss models.SystemSettings) error {
	const op = "admin.SaveSystemSettings"
	if err := s.backend.SaveSystemSettings(ctx, token, ss); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// TariffFeatures преимущества тарифов, ключи всех уровней присутствуют.
func (s *Service) TariffFeatures(ctx context.Context, token string) (models.TariffFeatures, error) {
	const op = "admin.TariffFeatures"
	f, err := s.backend.TariffFeatures(ctx, token)
	if err != nil {
		return pricing.DefaultFeatures(), fmt.Errorf("%s: %w", op, err)
	}
	return completeFeatures(f), nil
}

// SaveTariffFeatures сохраняет преимущества. Пустые строки отбрасываются,
// отсутствующий уровень сохраняется пустым списком.
func (s *Service) SaveTariffFeatures(ctx context.Context, token string, f models.TariffFeatures) (models.TariffFeatures, error) {
	const op = "admin.SaveTariffFeatures"
	clean := make(models.TariffFeatures, len(models.Tiers))
	for _, tier := range models.Tiers {
		list := []string{}
		for _, item := range f[tier] {
			if item = strings.TrimSpace(item); item != "" {
				list = append(list, item)
			}
		}
		clean[tier] = list
	}
	if err := s.backend.SaveTariffFeatures(ctx, token, clean); err != nil {
		return f, fmt.Errorf("%s: %w", op, err)
	}
	return clean, nil
}

// completeFeatures ключи всех уровней, без подстановки значений по умолчанию.
func completeFeatures(f models.TariffFeatures) models.TariffFeatures {
	out := make(models.TariffFeatures, len(models.Tiers))
	for _, tier := range models.Tiers {
		out[tier] = append([]string{}, f[tier]...)
	}
	return out
}
