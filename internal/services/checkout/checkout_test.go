package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/stealthnet-panel/internal/backend"
	"github.com/magabrotheeeer/stealthnet-panel/internal/lib/sl"
	"github.com/magabrotheeeer/stealthnet-panel/internal/models"
)

// BackendMock мок методов оплаты бэкенда
type BackendMock struct {
	mock.Mock
}

func (m *BackendMock) PublicTariffs(ctx context.Context) ([]models.Tariff, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Tariff), args.Error(1)
}

func (m *BackendMock) PublicTariffFeatures(ctx context.Context) (models.TariffFeatures, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(models.TariffFeatures), args.Error(1)
}

func (m *BackendMock) PlategaMethods(ctx context.Context) ([]int, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int), args.Error(1)
}

func (m *BackendMock) CheckPromocode(ctx context.Context, token, code string) (models.PromoCode, error) {
	args := m.Called(ctx, token, code)
	return args.Get(0).(models.PromoCode), args.Error(1)
}

func (m *BackendMock) CreatePayment(ctx context.Context, token string, req models.PaymentRequest) (models.PaymentResponse, error) {
	args := m.Called(ctx, token, req)
	return args.Get(0).(models.PaymentResponse), args.Error(1)
}

func TestOffer(t *testing.T) {
	tariffs := []models.Tariff{{ID: 1, DurationDays: 30}}

	tests := []struct {
		name      string
		setupMock func(*BackendMock)
		wantErr   bool
		check     func(t *testing.T, o Offer)
	}{
		{
			name: "все загрузилось",
			setupMock: func(m *BackendMock) {
				m.On("PublicTariffs", mock.Anything).Return(tariffs, nil)
				m.On("PublicTariffFeatures", mock.Anything).Return(models.TariffFeatures{models.TierPro: {"X"}}, nil)
				m.On("PlategaMethods", mock.Anything).Return([]int{2, 13}, nil)
			},
			check: func(t *testing.T, o Offer) {
				assert.Equal(t, tariffs, o.Tariffs)
				assert.Equal(t, []string{"X"}, o.Features[models.TierPro])
				assert.Len(t, o.Features[models.TierBasic], 3)
				assert.Equal(t, []Method{{2, "СБП QR (НСПК / QR)"}, {13, "Криптовалюта"}}, o.PlategaMethods)
			},
		},
		{
			name: "преимущества не загрузились",
			setupMock: func(m *BackendMock) {
				m.On("PublicTariffs", mock.Anything).Return(tariffs, nil)
				m.On("PublicTariffFeatures", mock.Anything).Return(nil, errors.New("boom"))
				m.On("PlategaMethods", mock.Anything).Return(nil, errors.New("boom"))
			},
			check: func(t *testing.T, o Offer) {
				assert.Len(t, o.Features, 3)
				assert.Empty(t, o.PlategaMethods)
			},
		},
		{
			name: "тарифы не загрузились",
			setupMock: func(m *BackendMock) {
				m.On("PublicTariffs", mock.Anything).Return(nil, &backend.ServerError{Status: 500})
				m.On("PublicTariffFeatures", mock.Anything).Return(models.TariffFeatures{}, nil).Maybe()
				m.On("PlategaMethods", mock.Anything).Return([]int{}, nil).Maybe()
			},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &BackendMock{}
			tt.setupMock(m)
			o, err := New(m, sl.Discard()).Offer(context.Background())
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, o)
		})
	}
}

func TestApplyPromo(t *testing.T) {
	m := &BackendMock{}
	m.On("CheckPromocode", mock.Anything, "tok", "SALE10").
		Return(models.PromoCode{Code: "SALE10", PromoType: models.PromoPercent, Value: 10}, nil)
	m.On("CheckPromocode", mock.Anything, "tok", "FREE7").
		Return(models.PromoCode{Code: "FREE7", PromoType: models.PromoDays, Value: 7}, nil)
	svc := New(m, sl.Discard())
	ctx := context.Background()

	promo, err := svc.ApplyPromo(ctx, "tok", "  sale10 ")
	require.NoError(t, err)
	assert.Equal(t, 10.0, promo.Value)

	_, err = svc.ApplyPromo(ctx, "tok", "free7")
	assert.ErrorIs(t, err, ErrDaysPromo)

	_, err = svc.ApplyPromo(ctx, "tok", "   ")
	assert.ErrorIs(t, err, ErrEmptyPromo)
	m.AssertNumberOfCalls(t, "CheckPromocode", 2)
}

func TestPay(t *testing.T) {
	sale := &models.PromoCode{Code: "SALE10", PromoType: models.PromoPercent, Value: 10}
	code := "SALE10"
	method := 13

	tests := []struct {
		name    string
		in      PayInput
		wantReq *models.PaymentRequest
		wantErr error
	}{
		{
			name:    "heleket с промокодом",
			in:      PayInput{TariffID: 1, Promo: sale, Provider: models.ProviderHeleket},
			wantReq: &models.PaymentRequest{TariffID: 1, PromoCode: &code, Provider: models.ProviderHeleket},
		},
		{
			name:    "platega со способом",
			in:      PayInput{TariffID: 2, Provider: models.ProviderPlatega, PlategaMethod: 13},
			wantReq: &models.PaymentRequest{TariffID: 2, Provider: models.ProviderPlatega, PlategaMethod: &method},
		},
		{
			name:    "способ platega не уходит другому шлюзу",
			in:      PayInput{TariffID: 2, Provider: models.ProviderCrystalPay, PlategaMethod: 13},
			wantReq: &models.PaymentRequest{TariffID: 2, Provider: models.ProviderCrystalPay},
		},
		{
			name:    "промокод на дни не уходит",
			in:      PayInput{TariffID: 3, Provider: models.ProviderTelegramStars, Promo: &models.PromoCode{Code: "D", PromoType: models.PromoDays}},
			wantReq: &models.PaymentRequest{TariffID: 3, Provider: models.ProviderTelegramStars},
		},
		{name: "без тарифа", in: PayInput{Provider: models.ProviderHeleket}, wantErr: ErrNoTariff},
		{name: "неизвестный шлюз", in: PayInput{TariffID: 1, Provider: "yookassa"}, wantErr: ErrProvider},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &BackendMock{}
			if tt.wantReq != nil {
				m.On("CreatePayment", mock.Anything, "tok", *tt.wantReq).
					Return(models.PaymentResponse{PaymentURL: "https://pay.example/1"}, nil)
			}
			url, err := New(m, sl.Discard()).Pay(context.Background(), "tok", tt.in)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				m.AssertNotCalled(t, "CreatePayment", mock.Anything, mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "https://pay.example/1", url)
			m.AssertExpectations(t)
		})
	}
}

func TestState(t *testing.T) {
	var s State
	s = s.WithPromo("sale10", &models.PromoCode{Code: "SALE10", PromoType: models.PromoPercent, Value: 10}, nil)
	assert.Equal(t, "SALE10", s.PromoInput)
	require.NotNil(t, s.Promo)

	s = s.Select(4)
	assert.True(t, s.ShowProviders)

	s = s.Begin()
	assert.Equal(t, 4, s.LoadingTariffID)
	assert.False(t, s.ShowProviders)

	s = s.Fail(&backend.ValidationError{Status: 400, Message: "Тариф недоступен"})
	assert.Equal(t, "Тариф недоступен", s.Error)
	assert.Zero(t, s.LoadingTariffID)
	assert.True(t, s.ShowProviders)
	assert.Equal(t, 4, s.Payload(models.ProviderHeleket, 0).TariffID)

	s = s.WithPromo("free", nil, ErrDaysPromo)
	assert.Nil(t, s.Promo)
	assert.Equal(t, "Промокод на бесплатные дни активируется на странице подписки", s.PromoError)
}

func TestPayEmptyURL(t *testing.T) {
	m := &BackendMock{}
	m.On("CreatePayment", mock.Anything, "tok", mock.Anything).Return(models.PaymentResponse{}, nil)

	_, err := New(m, sl.Discard()).Pay(context.Background(), "tok", PayInput{TariffID: 1, Provider: models.ProviderHeleket})

	assert.ErrorIs(t, err, ErrNoPaymentURL)
	assert.False(t, IsInput(err))
	assert.True(t, IsInput(ErrNoTariff))
}
