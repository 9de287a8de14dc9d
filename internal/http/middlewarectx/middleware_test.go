package middlewarectx_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/stealthnet-panel/internal/backend"
	"github.com/magabrotheeeer/stealthnet-panel/internal/config"
	"github.com/magabrotheeeer/stealthnet-panel/internal/http/middlewarectx"
	"github.com/magabrotheeeer/stealthnet-panel/internal/lib/sl"
	"github.com/magabrotheeeer/stealthnet-panel/internal/models"
	"github.com/magabrotheeeer/stealthnet-panel/internal/services/guard"
	"github.com/magabrotheeeer/stealthnet-panel/internal/services/session"
)

type StoreMock struct {
	mock.Mock
}

func (m *StoreMock) Restore(ctx context.Context, sid string) (session.State, error) {
	args := m.Called(ctx, sid)
	return args.Get(0).(session.State), args.Error(1)
}

func (m *StoreMock) Logout(ctx context.Context, sid string) error {
	return m.Called(ctx, sid).Error(0)
}

const sid = "8d0aa5fb-4f36-4a3e-9a55-0f0f44b1b1a1"

var sessionCfg = config.Session{CookieName: "sid", SessionTTL: time.Hour}

func TestSessionMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		cookie     string
		wantReused bool
	}{
		{name: "существующая сессия", cookie: sid, wantReused: true},
		{name: "без cookie", cookie: ""},
		{name: "cookie не uuid", cookie: "not-a-uuid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := new(StoreMock)
			store.On("Restore", mock.Anything, mock.Anything).
				Return(session.State{Token: "tok", Role: models.RoleClient}, nil)

			var got session.State
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = middlewarectx.StateFrom(r.Context())
			})

			req := httptest.NewRequest(http.MethodGet, "/api/client/me", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "sid", Value: tt.cookie})
			}
			rec := httptest.NewRecorder()
			middlewarectx.SessionMiddleware(store, sessionCfg, sl.Discard())(next).ServeHTTP(rec, req)

			cookies := rec.Result().Cookies()
			require.Len(t, cookies, 1)
			assert.True(t, cookies[0].HttpOnly)
			assert.Equal(t, 3600, cookies[0].MaxAge)
			if tt.wantReused {
				assert.Equal(t, sid, cookies[0].Value)
			} else {
				assert.NotEqual(t, tt.cookie, cookies[0].Value)
			}
			assert.Equal(t, "tok", got.Token)
			store.AssertCalled(t, "Restore", mock.Anything, cookies[0].Value)
		})
	}
}

func TestSessionMiddleware_StorageErrorIsLoading(t *testing.T) {
	store := new(StoreMock)
	store.On("Restore", mock.Anything, sid).Return(session.State{}, errors.New("redis down"))

	var got session.State
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = middlewarectx.StateFrom(r.Context())
	})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	middlewarectx.SessionMiddleware(store, sessionCfg, sl.Discard())(next).ServeHTTP(httptest.NewRecorder(), req)

	assert.True(t, got.Loading)
	assert.Equal(t, sid, got.SessionID)
}

func TestGuard(t *testing.T) {
	tests := []struct {
		name         string
		policy       guard.Policy
		state        session.State
		wantCode     int
		wantLocation string
		wantCalled   bool
	}{
		{
			name:       "клиент на своей странице",
			policy:     guard.ClientOnly,
			state:      session.State{Token: "t", Role: models.RoleClient},
			wantCode:   http.StatusOK,
			wantCalled: true,
		},
		{
			name:         "гость в админке",
			policy:       guard.AdminOnly,
			state:        session.State{},
			wantCode:     http.StatusSeeOther,
			wantLocation: "/login",
		},
		{
			name:         "истекшая сессия",
			policy:       guard.ClientOnly,
			state:        session.State{Expired: true},
			wantCode:     http.StatusSeeOther,
			wantLocation: "/login?reason=session_expired",
		},
		{
			name:         "клиент на корне",
			policy:       guard.Root,
			state:        session.State{Token: "t", Role: models.RoleClient},
			wantCode:     http.StatusSeeOther,
			wantLocation: "/dashboard",
		},
		{
			name:     "загрузка",
			policy:   guard.AdminOnly,
			state:    session.State{Loading: true},
			wantCode: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decisions := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "decisions"}, []string{"policy", "outcome"})
			called := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/x", nil)
			req = req.WithContext(middlewarectx.WithState(req.Context(), tt.state, nil))
			rec := httptest.NewRecorder()
			middlewarectx.Guard(tt.policy, decisions, sl.Discard())(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantCalled, called)
			assert.Equal(t, tt.wantLocation, rec.Header().Get("Location"))
			if tt.wantCode == http.StatusServiceUnavailable {
				assert.Equal(t, "1", rec.Header().Get("Retry-After"))
			}
			assert.Equal(t, 1, testutil.CollectAndCount(decisions))
		})
	}
}

func TestFail(t *testing.T) {
	t.Run("истекший токен закрывает сессию", func(t *testing.T) {
		loggedOut := false
		req := httptest.NewRequest(http.MethodGet, "/api/client/me", nil)
		req = req.WithContext(middlewarectx.WithState(req.Context(), session.State{SessionID: sid},
			func(context.Context) error { loggedOut = true; return nil }))
		rec := httptest.NewRecorder()

		middlewarectx.Fail(rec, req, sl.Discard(), &backend.AuthError{Status: http.StatusUnauthorized}, "x")

		assert.True(t, loggedOut)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, middlewarectx.ExpiredLocation, rec.Header().Get("Location"))
	})

	t.Run("ошибка сервера", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/client/me", nil)
		rec := httptest.NewRecorder()

		middlewarectx.Fail(rec, req, sl.Discard(), &backend.ServerError{Status: 500}, "Ошибка сервера")

		assert.Equal(t, http.StatusBadGateway, rec.Code)
		var body map[string]any
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, "Ошибка сервера", body["error"])
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	limiter := middlewarectx.NewIPLimiter(config.LoginLimit{RPS: 0.001, Burst: 2})
	h := middlewarectx.RateLimitMiddleware(limiter, sl.Discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	do := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/public/login", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, do("10.0.0.1:1000"))
	assert.Equal(t, http.StatusOK, do("10.0.0.1:1001"))
	assert.Equal(t, http.StatusTooManyRequests, do("10.0.0.1:1002"))
	assert.Equal(t, http.StatusOK, do("10.0.0.2:1000"))
}
