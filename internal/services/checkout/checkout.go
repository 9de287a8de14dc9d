// Package checkout выбор тарифа, проверка промокода и создание счета у платежного шлюза.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/magabrotheeeer/stealthnet-panel/internal/backend"
	"github.com/magabrotheeeer/stealthnet-panel/internal/lib/sl"
	"github.com/magabrotheeeer/stealthnet-panel/internal/models"
	"github.com/magabrotheeeer/stealthnet-panel/internal/services/pricing"
)

var (
	// ErrEmptyPromo промокод не введен.
	ErrEmptyPromo = errors.New("promo code is empty")
	// ErrDaysPromo промокод на дни нельзя применить к оплате.
	ErrDaysPromo = errors.New("days promo code cannot be applied to payment")
	// ErrNoTariff тариф не выбран.
	ErrNoTariff = errors.New("tariff is not selected")
	// ErrProvider неизвестный платежный шлюз.
	ErrProvider = errors.New("unknown payment provider")
	// ErrNoPaymentURL шлюз не вернул ссылку на оплату.
	ErrNoPaymentURL = errors.New("payment url is empty")
)

var messages = map[error]string{
	ErrEmptyPromo: "Введите промокод",
	ErrDaysPromo:  "Промокод на бесплатные дни активируется на странице подписки",
	ErrNoTariff:   "Тариф не выбран",
	ErrProvider:   "Выберите способ оплаты",

	ErrNoPaymentURL: "Платежный шлюз не вернул ссылку на оплату, попробуйте другой способ",
}

// Backend методы бэкенда, нужные для оплаты.
type Backend interface {
	PublicTariffs(ctx context.Context) ([]models.Tariff, error)
	PublicTariffFeatures(ctx context.Context) (models.TariffFeatures, error)
	PlategaMethods(ctx context.Context) ([]int, error)
	CheckPromocode(ctx context.Context, token, code string) (models.PromoCode, error)
	CreatePayment(ctx context.Context, token string, req models.PaymentRequest) (models.PaymentResponse, error)
}

// Method способ оплаты Platega.
type Method struct {
	Code  int    `json:"code"`
	Label string `json:"label"`
}

// Offer все, что нужно для витрины.
type Offer struct {
	Tariffs        []models.Tariff       `json:"tariffs"`
	Features       models.TariffFeatures `json:"features"`
	PlategaMethods []Method              `json:"platega_methods"`
}

// Service сервис оплаты.
type Service struct {
	backend Backend
	log     *slog.Logger
}

// New создает сервис.
func New(backend Backend, log *slog.Logger) *Service {
	return &Service{backend: backend, log: log}
}

// Offer загружает тарифы и преимущества параллельно. Без тарифов витрины нет,
// а преимущества при ошибке берутся по умолчанию. Способы Platega необязательны.
func (s *Service) Offer(ctx context.Context) (Offer, error) {
	const op = "checkout.Offer"
	log := s.log.With(slog.String("op", op))

	var (
		offer   Offer
		methods []int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		tariffs, err := s.backend.PublicTariffs(gctx)
		if err != nil {
			return err
		}
		offer.Tariffs = tariffs
		return nil
	})
	g.Go(func() error {
		features, err := s.backend.PublicTariffFeatures(gctx)
		if err != nil {
			log.Warn("failed to load tariff features, using defaults", sl.Err(err))
			return nil
		}
		offer.Features = features
		return nil
	})
	g.Go(func() error {
		codes, err := s.backend.PlategaMethods(gctx)
		if err != nil {
			log.Warn("failed to load platega methods", sl.Err(err))
			return nil
		}
		methods = codes
		return nil
	})
	if err := g.Wait(); err != nil {
		return Offer{}, fmt.Errorf("%s: %w", op, err)
	}

	offer.Features = pricing.MergeFeatures(offer.Features)
	offer.PlategaMethods = make([]Method, 0, len(methods))
	for _, code := range methods {
		offer.PlategaMethods = append(offer.PlategaMethods, Method{Code: code, Label: models.PlategaMethodLabel(code)})
	}
	return offer, nil
}

// ApplyPromo проверяет промокод. К оплате применим только PERCENT.
func (s *Service) ApplyPromo(ctx context.Context, token, code string) (*models.PromoCode, error) {
	const op = "checkout.ApplyPromo"
	code = models.NormalizeCode(code)
	if code == "" {
		return nil, ErrEmptyPromo
	}
	promo, err := s.backend.CheckPromocode(ctx, token, code)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if promo.PromoType != models.PromoPercent {
		return nil, ErrDaysPromo
	}
	if promo.Code == "" {
		promo.Code = code
	}
	return &promo, nil
}

// PayInput выбор пользователя в окне оплаты.
type PayInput struct {
	TariffID      int
	Promo         *models.PromoCode
	Provider      models.PaymentProvider
	PlategaMethod int
}

// Request запрос на создание счета. Промокод уходит только процентный.
func (in PayInput) Request() (models.PaymentRequest, error) {
	if in.TariffID <= 0 {
		return models.PaymentRequest{}, ErrNoTariff
	}
	if _, err := models.ParseProvider(string(in.Provider)); err != nil {
		return models.PaymentRequest{}, fmt.Errorf("%w: %v", ErrProvider, err)
	}
	req := models.PaymentRequest{TariffID: in.TariffID, Provider: in.Provider}
	if in.Promo != nil && in.Promo.PromoType == models.PromoPercent {
		code := in.Promo.Code
		req.PromoCode = &code
	}
	if in.Provider == models.ProviderPlatega && in.PlategaMethod > 0 {
		m := in.PlategaMethod
		req.PlategaMethod = &m
	}
	return req, nil
}

// Pay создает счет и возвращает адрес страницы оплаты.
func (s *Service) Pay(ctx context.Context, token string, in PayInput) (string, error) {
	const op = "checkout.Pay"
	req, err := in.Request()
	if err != nil {
		return "", err
	}
	resp, err := s.backend.CreatePayment(ctx, token, req)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if resp.PaymentURL == "" {
		return "", fmt.Errorf("%s: %w", op, ErrNoPaymentURL)
	}
	s.log.Info("payment created",
		slog.String("op", op),
		slog.Int("tariff_id", req.TariffID),
		slog.String("provider", string(req.Provider)),
	)
	return resp.PaymentURL, nil
}

// IsInput ошибка в выборе пользователя, а не сбой бэкенда.
func IsInput(err error) bool {
	return errors.Is(err, ErrEmptyPromo) || errors.Is(err, ErrDaysPromo) ||
		errors.Is(err, ErrNoTariff) || errors.Is(err, ErrProvider)
}

// Message текст ошибки для окна оплаты.
func Message(err error) string {
	for target, msg := range messages {
		if errors.Is(err, target) {
			return msg
		}
	}
	return backend.Message(err)
}
