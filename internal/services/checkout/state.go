package checkout

import "github.com/magabrotheeeer/stealthnet-panel/internal/models"

// State состояние страницы тарифов для одной сессии.
type State struct {
	PromoInput       string            `json:"promo_input,omitempty"`
	Promo            *models.PromoCode `json:"promo,omitempty"`
	PromoError       string            `json:"promo_error,omitempty"`
	SelectedTariffID int               `json:"selected_tariff_id,omitempty"`
	ShowProviders    bool              `json:"show_providers"`
	LoadingTariffID  int               `json:"loading_tariff_id,omitempty"`
	Error            string            `json:"error,omitempty"`
}

// WithPromo результат проверки промокода. При ошибке примененный промокод снимается.
func (s State) WithPromo(input string, promo *models.PromoCode, err error) State {
	s.PromoInput = models.NormalizeCode(input)
	if err != nil {
		s.Promo = nil
		s.PromoError = Message(err)
		return s
	}
	s.Promo = promo
	s.PromoError = ""
	return s
}

// Select открывает выбор шлюза для тарифа.
func (s State) Select(tariffID int) State {
	s.SelectedTariffID = tariffID
	s.ShowProviders = true
	return s
}

// Begin счет создается, окно выбора закрыто.
func (s State) Begin() State {
	s.LoadingTariffID = s.SelectedTariffID
	s.Error = ""
	s.ShowProviders = false
	return s
}

// Fail возвращает окно выбора шлюза с ошибкой и снимает отметку загрузки.
func (s State) Fail(err error) State {
	s.Error = Message(err)
	s.LoadingTariffID = 0
	s.ShowProviders = s.SelectedTariffID != 0
	return s
}

// Payload запрос оплаты из состояния.
func (s State) Payload(provider models.PaymentProvider, plategaMethod int) PayInput {
	return PayInput{
		TariffID:      s.SelectedTariffID,
		Promo:         s.Promo,
		Provider:      provider,
		PlategaMethod: plategaMethod,
	}
}
