// Package panel собирает сервер панели: хранилище сессий, клиент бэкенда, сервисы и маршруты.
package panel

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/stealthnet-panel/internal/backend"
	"github.com/magabrotheeeer/stealthnet-panel/internal/cache"
	"github.com/magabrotheeeer/stealthnet-panel/internal/config"
	"github.com/magabrotheeeer/stealthnet-panel/internal/lib/metrics"
	"github.com/magabrotheeeer/stealthnet-panel/internal/lib/sl"
	"github.com/magabrotheeeer/stealthnet-panel/internal/services/admin"
	"github.com/magabrotheeeer/stealthnet-panel/internal/services/checkout"
	"github.com/magabrotheeeer/stealthnet-panel/internal/services/client"
	"github.com/magabrotheeeer/stealthnet-panel/internal/services/preference"
	"github.com/magabrotheeeer/stealthnet-panel/internal/services/session"
	"github.com/magabrotheeeer/stealthnet-panel/internal/services/support"
	"github.com/magabrotheeeer/stealthnet-panel/internal/services/viewstate"
)

const (
	hydrateRetry    = time.Second
	shutdownTimeout = 15 * time.Second
)

// Deps сервисы, из которых собираются маршруты.
type Deps struct {
	Config      *config.Config
	Log         *slog.Logger
	Metrics     *metrics.Metrics
	Sessions    *session.Store
	Views       *viewstate.Store
	Preferences *preference.Service
	Client      *client.Service
	Checkout    *checkout.Service
	Support     *support.Service
	Admin       *admin.Service
}

type App struct {
	server   *http.Server
	logger   *slog.Logger
	cache    *cache.Cache
	sessions *session.Store
	prefs    *preference.Service
	hydrate  time.Duration
}

// New собирает приложение. Redis может быть недоступен при старте: пока хранилище
// не ответит, сессии отдаются в состоянии загрузки.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "panel.New"
	if cfg == nil {
		return nil, errors.New(op + ": config is nil")
	}

	redisCache, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		logger.Warn("redis is not reachable at startup", sl.Err(err))
		redisCache = cache.New(cfg.RedisConnection)
	}
	deps := NewDeps(cfg, logger, redisCache)

	router := chi.NewRouter()
	RegisterRoutes(router, deps)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server:   srv,
		logger:   logger,
		cache:    redisCache,
		sessions: deps.Sessions,
		prefs:    deps.Preferences,
		hydrate:  cfg.HydrateWithin,
	}, nil
}

// NewDeps собирает клиент бэкенда и сервисы поверх хранилища storage.
func NewDeps(cfg *config.Config, logger *slog.Logger, storage *cache.Cache) Deps {
	m := metrics.New()
	api := backend.New(cfg.BaseURL, cfg.TimeoutBackend, backend.WithTransport(m.InstrumentTransport(nil)))

	sessions := session.New(storage, api, cfg.SessionTTL, logger)
	prefs := preference.New(sessions, api, logger)

	return Deps{
		Config:      cfg,
		Log:         logger,
		Metrics:     m,
		Sessions:    sessions,
		Views:       viewstate.New(storage, cfg.ViewTTL),
		Preferences: prefs,
		Client:      client.New(api, sessions, prefs, logger),
		Checkout:    checkout.New(api, logger),
		Support:     support.New(api, logger),
		Admin:       admin.New(api, logger),
	}
}

// Run запускает сервер и загрузку сессий и останавливает их по отмене ctx.
func (a *App) Run(ctx context.Context) error {
	go a.hydrateSessions(ctx)

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.close()
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.close()
		return err
	}
}

func (a *App) hydrateSessions(ctx context.Context) {
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := a.sessions.Hydrate(ctx, hydrateRetry); err != nil {
			a.logger.Warn("session hydration stopped", sl.Err(err))
		}
	}()

	if a.hydrate <= 0 {
		return
	}
	timer := time.NewTimer(a.hydrate)
	defer timer.Stop()
	select {
	case <-done:
	case <-ctx.Done():
	case <-timer.C:
		a.logger.Error("session storage is still unreachable", slog.Duration("waited", a.hydrate))
	}
}

func (a *App) close() {
	a.prefs.Wait()
	if err := a.cache.Close(); err != nil {
		a.logger.Warn("failed to close redis", sl.Err(err))
	}
}
