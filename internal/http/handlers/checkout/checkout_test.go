package checkout

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/stealthnet-panel/internal/backend"
	"github.com/magabrotheeeer/stealthnet-panel/internal/cache"
	"github.com/magabrotheeeer/stealthnet-panel/internal/config"
	"github.com/magabrotheeeer/stealthnet-panel/internal/http/middlewarectx"
	"github.com/magabrotheeeer/stealthnet-panel/internal/lib/sl"
	"github.com/magabrotheeeer/stealthnet-panel/internal/models"
	checkoutsvc "github.com/magabrotheeeer/stealthnet-panel/internal/services/checkout"
	"github.com/magabrotheeeer/stealthnet-panel/internal/services/session"
	"github.com/magabrotheeeer/stealthnet-panel/internal/services/viewstate"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Offer(ctx context.Context) (checkoutsvc.Offer, error) {
	args := m.Called(ctx)
	return args.Get(0).(checkoutsvc.Offer), args.Error(1)
}

func (m *ServiceMock) ApplyPromo(ctx context.Context, token, code string) (*models.PromoCode, error) {
	args := m.Called(ctx, token, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PromoCode), args.Error(1)
}

func (m *ServiceMock) Pay(ctx context.Context, token string, in checkoutsvc.PayInput) (string, error) {
	args := m.Called(ctx, token, in)
	return args.String(0), args.Error(1)
}

var (
	state = session.State{SessionID: "sid", Token: "tok", Role: models.RoleClient,
		Preference: &models.Preference{Language: models.LangRU, Currency: models.CurrencyRUB}}
	offer = checkoutsvc.Offer{
		Tariffs:        []models.Tariff{{ID: 7, Name: "Месяц", DurationDays: 30, PriceRUB: 300}},
		PlategaMethods: []checkoutsvc.Method{{Code: 2, Label: "СБП QR (НСПК / QR)"}},
	}
)

func setup(t *testing.T) (*ServiceMock, *viewstate.Store, *Handler) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := cache.New(config.RedisConnection{AddressRedis: mr.Addr()})
	t.Cleanup(func() { _ = c.Close() })
	views := viewstate.New(c, time.Minute)
	service := new(ServiceMock)
	return service, views, New(sl.Discard(), service, views)
}

func newRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	return req.WithContext(middlewarectx.WithState(req.Context(), state, nil))
}

func stored(t *testing.T, views *viewstate.Store) checkoutsvc.State {
	t.Helper()
	var st checkoutsvc.State
	found, err := views.Get(context.Background(), "sid", viewState, &st)
	require.NoError(t, err)
	require.True(t, found)
	return st
}

func TestShow(t *testing.T) {
	service, views, h := setup(t)
	service.On("Offer", mock.Anything).Return(offer, nil)
	require.NoError(t, views.Put(context.Background(), "sid", viewState, checkoutsvc.State{SelectedTariffID: 7, ShowProviders: true}))

	w := httptest.NewRecorder()
	h.Show(w, newRequest(http.MethodGet, "/api/client/tariffs", ""))

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `"selected_tariff_id":7`)
	assert.Contains(t, body, `"label":"CrystalPay"`)
	assert.Contains(t, body, `"platega_methods":[{"code":2`)
}

func TestPromo(t *testing.T) {
	sale := &models.PromoCode{Code: "SALE10", PromoType: models.PromoPercent, Value: 10}

	tests := []struct {
		name           string
		body           string
		setupMock      func(*ServiceMock)
		expectedStatus int
		expectedBody   string
		check          func(t *testing.T, st checkoutsvc.State)
	}{
		{
			name: "процентный промокод",
			body: `{"code":"sale10"}`,
			setupMock: func(m *ServiceMock) {
				m.On("ApplyPromo", mock.Anything, "tok", "sale10").Return(sale, nil)
				m.On("Offer", mock.Anything).Return(offer, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"promo_input":"SALE10"`,
			check: func(t *testing.T, st checkoutsvc.State) {
				require.NotNil(t, st.Promo)
				assert.Equal(t, 10.0, st.Promo.Value)
			},
		},
		{
			name: "промокод на дни",
			body: `{"code":"free7"}`,
			setupMock: func(m *ServiceMock) {
				m.On("ApplyPromo", mock.Anything, "tok", "free7").Return(nil, checkoutsvc.ErrDaysPromo)
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `активируется на странице подписки`,
			check: func(t *testing.T, st checkoutsvc.State) {
				assert.Nil(t, st.Promo)
				assert.NotEmpty(t, st.PromoError)
			},
		},
		{
			name: "промокод не найден",
			body: `{"code":"nope"}`,
			setupMock: func(m *ServiceMock) {
				m.On("ApplyPromo", mock.Anything, "tok", "nope").
					Return(nil, &backend.ValidationError{Status: http.StatusNotFound, Message: "Промокод не найден"})
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `Промокод не найден`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, views, h := setup(t)
			tt.setupMock(service)

			w := httptest.NewRecorder()
			h.Promo(w, newRequest(http.MethodPost, "/api/client/tariffs/promo", tt.body))

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
			if tt.check != nil {
				tt.check(t, stored(t, views))
			}
		})
	}
}

func TestSelect(t *testing.T) {
	_, views, h := setup(t)

	w := httptest.NewRecorder()
	h.Select(w, newRequest(http.MethodPost, "/api/client/tariffs/select", `{"tariff_id":7}`))

	assert.Equal(t, http.StatusOK, w.Code)
	st := stored(t, views)
	assert.Equal(t, 7, st.SelectedTariffID)
	assert.True(t, st.ShowProviders)

	w = httptest.NewRecorder()
	h.Select(w, newRequest(http.MethodPost, "/api/client/tariffs/select", `{"tariff_id":0}`))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestPay(t *testing.T) {
	tests := []struct {
		name           string
		setupMock      func(*ServiceMock)
		expectedStatus int
		expectedBody   string
		check          func(t *testing.T, st checkoutsvc.State)
	}{
		{
			name: "переход на страницу оплаты",
			setupMock: func(m *ServiceMock) {
				m.On("Pay", mock.Anything, "tok", checkoutsvc.PayInput{TariffID: 7, Provider: models.ProviderHeleket}).
					Return("https://pay.example/1", nil)
			},
			expectedStatus: http.StatusSeeOther,
			expectedBody:   `"location":"https://pay.example/1"`,
			check: func(t *testing.T, st checkoutsvc.State) {
				assert.Zero(t, st.LoadingTariffID)
				assert.False(t, st.ShowProviders)
			},
		},
		{
			name: "шлюз недоступен",
			setupMock: func(m *ServiceMock) {
				m.On("Pay", mock.Anything, "tok", mock.Anything).
					Return("", &backend.ServerError{Status: http.StatusServiceUnavailable})
			},
			expectedStatus: http.StatusBadGateway,
			expectedBody:   `"show_providers":true`,
			check: func(t *testing.T, st checkoutsvc.State) {
				assert.Zero(t, st.LoadingTariffID)
				assert.True(t, st.ShowProviders)
				assert.NotEmpty(t, st.Error)
			},
		},
		{
			name: "пустая ссылка на оплату",
			setupMock: func(m *ServiceMock) {
				m.On("Pay", mock.Anything, "tok", mock.Anything).Return("", checkoutsvc.ErrNoPaymentURL)
			},
			expectedStatus: http.StatusBadGateway,
			expectedBody:   `не вернул ссылку`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, views, h := setup(t)
			tt.setupMock(service)

			w := httptest.NewRecorder()
			h.Pay(w, newRequest(http.MethodPost, "/api/client/payments", `{"tariff_id":7,"provider":"heleket"}`))

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
			if tt.check != nil {
				tt.check(t, stored(t, views))
			}
		})
	}
}
