package admin

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/stealthnet-panel/internal/backend"
	"github.com/magabrotheeeer/stealthnet-panel/internal/cache"
	"github.com/magabrotheeeer/stealthnet-panel/internal/collection"
	"github.com/magabrotheeeer/stealthnet-panel/internal/config"
	"github.com/magabrotheeeer/stealthnet-panel/internal/http/middlewarectx"
	"github.com/magabrotheeeer/stealthnet-panel/internal/lib/sl"
	"github.com/magabrotheeeer/stealthnet-panel/internal/models"
	adminsvc "github.com/magabrotheeeer/stealthnet-panel/internal/services/admin"
	"github.com/magabrotheeeer/stealthnet-panel/internal/services/session"
	"github.com/magabrotheeeer/stealthnet-panel/internal/services/viewstate"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Dashboard(ctx context.Context, token string) (adminsvc.Dashboard, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(adminsvc.Dashboard), args.Error(1)
}

func (m *ServiceMock) Squads(ctx context.Context, token string) ([]models.Squad, error) {
	args := m.Called(ctx, token)
	return args.Get(0).([]models.Squad), args.Error(1)
}

func (m *ServiceMock) Users(ctx context.Context, token string) (adminsvc.Users, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(adminsvc.Users), args.Error(1)
}

func (m *ServiceMock) DeleteUser(ctx context.Context, token string, users adminsvc.Users, id int) (adminsvc.Users, string, error) {
	args := m.Called(ctx, token, users, id)
	return args.Get(0).(adminsvc.Users), args.String(1), args.Error(2)
}

func (m *ServiceMock) RecipientEmails(ctx context.Context, token string) ([]string, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *ServiceMock) TariffsPage(ctx context.Context, token string) (adminsvc.TariffsPage, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(adminsvc.TariffsPage), args.Error(1)
}

func (m *ServiceMock) CreateTariff(ctx context.Context, token string, list adminsvc.Tariffs, in models.TariffInput) (adminsvc.Tariffs, error) {
	args := m.Called(ctx, token, list, in)
	return args.Get(0).(adminsvc.Tariffs), args.Error(1)
}

func (m *ServiceMock) UpdateTariff(ctx context.Context, token string, list adminsvc.Tariffs, id int, in models.TariffInput) (adminsvc.Tariffs, error) {
	args := m.Called(ctx, token, list, id, in)
	return args.Get(0).(adminsvc.Tariffs), args.Error(1)
}

func (m *ServiceMock) DeleteTariff(ctx context.Context, token string, list adminsvc.Tariffs, id int) (adminsvc.Tariffs, error) {
	args := m.Called(ctx, token, list, id)
	return args.Get(0).(adminsvc.Tariffs), args.Error(1)
}

func (m *ServiceMock) PromoCodes(ctx context.Context, token string) (adminsvc.PromoCodes, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(adminsvc.PromoCodes), args.Error(1)
}

func (m *ServiceMock) CreatePromoCode(ctx context.Context, token string, list adminsvc.PromoCodes, in models.PromoCodeInput) (adminsvc.PromoCodes, error) {
	args := m.Called(ctx, token, list, in)
	return args.Get(0).(adminsvc.PromoCodes), args.Error(1)
}

func (m *ServiceMock) DeletePromoCode(ctx context.Context, token string, list adminsvc.PromoCodes, id int) (adminsvc.PromoCodes, error) {
	args := m.Called(ctx, token, list, id)
	return args.Get(0).(adminsvc.PromoCodes), args.Error(1)
}

func (m *ServiceMock) ReferralSettings(ctx context.Context, token string) (models.ReferralSettings, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(models.ReferralSettings), args.Error(1)
}

func (m *ServiceMock) SaveReferralSettings(ctx context.Context, token string, rs models.ReferralSettings) (models.ReferralSettings, error) {
	args := m.Called(ctx, token, rs)
	return args.Get(0).(models.ReferralSettings), args.Error(1)
}

func (m *ServiceMock) SystemSettings(ctx context.Context, token string) (models.SystemSettings, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(models.SystemSettings), args.Error(1)
}

func (m *ServiceMock) SaveSystemSettings(ctx context.Context, token string, ss models.SystemSettings) error {
	args := m.Called(ctx, token, ss)
	return args.Error(0)
}

func (m *ServiceMock) TariffFeatures(ctx context.Context, token string) (models.TariffFeatures, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(models.TariffFeatures), args.Error(1)
}

func (m *ServiceMock) SaveTariffFeatures(ctx context.Context, token string, f models.TariffFeatures) (models.TariffFeatures, error) {
	args := m.Called(ctx, token, f)
	return args.Get(0).(models.TariffFeatures), args.Error(1)
}

func (m *ServiceMock) Broadcast(ctx context.Context, token string, b models.Broadcast) (models.BroadcastResult, error) {
	args := m.Called(ctx, token, b)
	return args.Get(0).(models.BroadcastResult), args.Error(1)
}

var state = session.State{SessionID: "sid", Token: "adm", Role: models.RoleAdmin}

func setup(t *testing.T) (*ServiceMock, *viewstate.Store, *Handler) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := cache.New(config.RedisConnection{AddressRedis: mr.Addr()})
	t.Cleanup(func() { _ = c.Close() })
	views := viewstate.New(c, time.Minute)
	service := new(ServiceMock)
	return service, views, New(sl.Discard(), service, views)
}

func newRequest(method, target, id, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rctx := chi.NewRouteContext()
	if id != "" {
		rctx.URLParams.Add("id", id)
	}
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	return req.WithContext(middlewarectx.WithState(ctx, state, nil))
}

func TestDashboard(t *testing.T) {
	tests := []struct {
		name           string
		setupMock      func(*ServiceMock)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "сводка",
			setupMock: func(m *ServiceMock) {
				m.On("Dashboard", mock.Anything, "adm").Return(adminsvc.Dashboard{
					Stats:       models.Statistics{TotalUsers: 10},
					SquadsError: "Сервер недоступен, попробуйте позже",
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"squads_error":"Сервер недоступен, попробуйте позже"`,
		},
		{
			name: "бэкенд недоступен",
			setupMock: func(m *ServiceMock) {
				m.On("Dashboard", mock.Anything, "adm").
					Return(adminsvc.Dashboard{}, &backend.NetworkError{Err: errors.New("dial tcp")})
			},
			expectedStatus: http.StatusBadGateway,
			expectedBody:   `Сервер недоступен`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, _, h := setup(t)
			tt.setupMock(service)

			w := httptest.NewRecorder()
			h.Dashboard(w, newRequest(http.MethodGet, "/api/admin/dashboard", "", ""))

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
		})
	}
}

func TestDeleteUser(t *testing.T) {
	users := collection.New([]adminsvc.UserRow{
		{User: models.User{ID: 1, Email: "a@x.io"}, Status: "ACTIVE"},
		{User: models.User{ID: 2, Email: "b@x.io"}, Status: "ACTIVE"},
	})

	t.Run("без подтверждения", func(t *testing.T) {
		service, views, h := setup(t)
		require.NoError(t, views.Put(context.Background(), "sid", viewUsers, users))

		w := httptest.NewRecorder()
		h.DeleteUser(w, newRequest(http.MethodDelete, "/api/admin/users/2", "2", ""))

		assert.Equal(t, http.StatusPreconditionRequired, w.Code)
		assert.Contains(t, w.Body.String(), "Вы уверены, что хотите удалить b@x.io?")
		service.AssertNotCalled(t, "DeleteUser", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("подтверждено", func(t *testing.T) {
		service, views, h := setup(t)
		require.NoError(t, views.Put(context.Background(), "sid", viewUsers, users))
		rest := users.Remove("2")
		service.On("DeleteUser", mock.Anything, "adm", users, 2).Return(rest, "Пользователь удален", nil)

		w := httptest.NewRecorder()
		h.DeleteUser(w, newRequest(http.MethodDelete, "/api/admin/users/2?confirm=yes", "2", ""))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Пользователь удален")

		var got adminsvc.Users
		_, err := views.Get(context.Background(), "sid", viewUsers, &got)
		require.NoError(t, err)
		assert.Equal(t, 1, got.Len())
	})

	t.Run("список не открывался", func(t *testing.T) {
		service, _, h := setup(t)
		service.On("Users", mock.Anything, "adm").Return(users, nil)

		w := httptest.NewRecorder()
		h.DeleteUser(w, newRequest(http.MethodDelete, "/api/admin/users/1", "1", ""))

		assert.Equal(t, http.StatusPreconditionRequired, w.Code)
		assert.Contains(t, w.Body.String(), "a@x.io")
		service.AssertExpectations(t)
	})
}

func TestCreateTariff(t *testing.T) {
	page := adminsvc.TariffsPage{Tariffs: collection.New([]models.Tariff{{ID: 1, Name: "Месяц", DurationDays: 30}})}

	tests := []struct {
		name           string
		body           string
		setupMock      func(*ServiceMock)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "тариф добавлен в конец",
			body: `{"name":"Год","duration_days":365,"price_rub":2500}`,
			setupMock: func(m *ServiceMock) {
				m.On("CreateTariff", mock.Anything, "adm", page.Tariffs, mock.Anything).
					Return(page.Tariffs.Add(models.Tariff{ID: 2, Name: "Год", DurationDays: 365}), nil)
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   `"name":"Год"`,
		},
		{
			name:           "нет названия",
			body:           `{"duration_days":30}`,
			setupMock:      func(_ *ServiceMock) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `поле Name обязательно`,
		},
		{
			name:           "неизвестный уровень",
			body:           `{"name":"X","duration_days":30,"tier":"gold"}`,
			setupMock:      func(_ *ServiceMock) {},
			expectedStatus: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, views, h := setup(t)
			require.NoError(t, views.Put(context.Background(), "sid", viewTariffs, page))
			tt.setupMock(service)

			w := httptest.NewRecorder()
			h.CreateTariff(w, newRequest(http.MethodPost, "/api/admin/tariffs", "", tt.body))

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
			service.AssertExpectations(t)
		})
	}
}

func TestDeleteTariff(t *testing.T) {
	service, views, h := setup(t)
	page := adminsvc.TariffsPage{Tariffs: collection.New([]models.Tariff{{ID: 1}, {ID: 2}})}
	require.NoError(t, views.Put(context.Background(), "sid", viewTariffs, page))
	service.On("DeleteTariff", mock.Anything, "adm", page.Tariffs, 1).Return(page.Tariffs.Remove("1"), nil)

	w := httptest.NewRecorder()
	h.DeleteTariff(w, newRequest(http.MethodDelete, "/api/admin/tariffs/1", "1", ""))
	assert.Equal(t, http.StatusPreconditionRequired, w.Code)
	assert.Contains(t, w.Body.String(), adminsvc.DeleteTariffPrompt)

	w = httptest.NewRecorder()
	h.DeleteTariff(w, newRequest(http.MethodDelete, "/api/admin/tariffs/1?confirm=yes", "1", ""))
	assert.Equal(t, http.StatusOK, w.Code)

	var got adminsvc.TariffsPage
	_, err := views.Get(context.Background(), "sid", viewTariffs, &got)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Tariffs.Len())
}

func TestCreatePromoCode(t *testing.T) {
	service, _, h := setup(t)
	list := collection.New([]models.PromoCode{})
	service.On("PromoCodes", mock.Anything, "adm").Return(list, nil)
	service.On("CreatePromoCode", mock.Anything, "adm", list,
		models.PromoCodeInput{Code: "sale10", PromoType: models.PromoPercent, Value: 10}).
		Return(list.Add(models.PromoCode{ID: 5, Code: "SALE10", PromoType: models.PromoPercent, Value: 10}), nil)

	w := httptest.NewRecorder()
	h.CreatePromoCode(w, newRequest(http.MethodPost, "/api/admin/promocodes", "",
		`{"code":"sale10","promo_type":"PERCENT","value":10}`))

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"SALE10"`)
	service.AssertExpectations(t)
}

func TestSettings(t *testing.T) {
	service, _, h := setup(t)
	service.On("ReferralSettings", mock.Anything, "adm").
		Return(models.ReferralSettings{InviteeBonusDays: 7, ReferrerBonusDays: 7}, nil)
	service.On("SystemSettings", mock.Anything, "adm").
		Return(models.SystemSettings{DefaultLanguage: models.LangRU, DefaultCurrency: models.CurrencyUAH}, nil)
	service.On("TariffFeatures", mock.Anything, "adm").
		Return(models.TariffFeatures{models.TierBasic: {"1 устройство"}}, errors.New("boom"))

	w := httptest.NewRecorder()
	h.Settings(w, newRequest(http.MethodGet, "/api/admin/settings", "", ""))

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `"invitee_bonus_days":7`)
	assert.Contains(t, body, `"default_currency":"uah"`)
	assert.Contains(t, body, `"1 устройство"`)
}

func TestSaveTariffFeatures(t *testing.T) {
	service, _, h := setup(t)

	w := httptest.NewRecorder()
	h.SaveTariffFeatures(w, newRequest(http.MethodPut, "/api/admin/settings/tariff-features", "", `{"gold":["x"]}`))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	service.AssertNotCalled(t, "SaveTariffFeatures", mock.Anything, mock.Anything, mock.Anything)
}

func TestBroadcast(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setupMock      func(*ServiceMock)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "всем пользователям",
			body: `{"subject":"Новости","message":"Привет","recipient_type":"all"}`,
			setupMock: func(m *ServiceMock) {
				m.On("Broadcast", mock.Anything, "adm", mock.Anything).
					Return(models.BroadcastResult{Total: 3, Sent: 3}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"sent":3`,
		},
		{
			name: "нет адресов",
			body: `{"subject":"Новости","message":"Привет","recipient_type":"custom","custom_emails":["нет"]}`,
			setupMock: func(m *ServiceMock) {
				m.On("Broadcast", mock.Anything, "adm", mock.Anything).
					Return(models.BroadcastResult{}, adminsvc.ErrNoRecipients)
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `Укажите хотя бы один адрес`,
		},
		{
			name:           "неизвестные получатели",
			body:           `{"subject":"Новости","message":"Привет","recipient_type":"vip"}`,
			setupMock:      func(_ *ServiceMock) {},
			expectedStatus: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, _, h := setup(t)
			tt.setupMock(service)

			w := httptest.NewRecorder()
			h.Broadcast(w, newRequest(http.MethodPost, "/api/admin/broadcast", "", tt.body))

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
		})
	}
}
