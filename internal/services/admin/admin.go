// Package admin ресурсы админки: сводка, пользователи, тарифы, промокоды, сквады,
// настройки и рассылка. Списки хранятся как collection.Collection и меняются
// локально после успешного ответа бэкенда.
package admin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/magabrotheeeer/stealthnet-panel/internal/backend"
	"github.com/magabrotheeeer/stealthnet-panel/internal/lib/sl"
	"github.com/magabrotheeeer/stealthnet-panel/internal/models"
)

// recentUsers сколько последних регистраций показывать на сводке.
const recentUsers = 5

// Backend админские методы бэкенда.
type Backend interface {
	Statistics(ctx context.Context, token string) (models.Statistics, error)
	Users(ctx context.Context, token string) ([]models.User, error)
	DeleteUser(ctx context.Context, token string, id int) (backend.MessageResponse, error)
	UserEmails(ctx context.Context, token string) ([]string, error)

	Tariffs(ctx context.Context, token string) ([]models.Tariff, error)
	CreateTariff(ctx context.Context, token string, in models.TariffInput) (*models.Tariff, error)
	UpdateTariff(ctx context.Context, token string, id int, in models.TariffInput) (*models.Tariff, error)
	DeleteTariff(ctx context.Context, token string, id int) error

	PromoCodes(ctx context.Context, token string) ([]models.PromoCode, error)
	CreatePromoCode(ctx context.Context, token string, in models.PromoCodeInput) (*models.PromoCode, error)
	DeletePromoCode(ctx context.Context, token string, id int) error

	Squads(ctx context.Context, token string) ([]models.Squad, error)

	ReferralSettings(ctx context.Context, token string) (models.ReferralSettings, error)
	SaveReferralSettings(ctx context.Context, token string, s models.ReferralSettings) error
	SystemSettings(ctx context.Context, token string) (models.SystemSettings, error)
	SaveSystemSettings(ctx context.Context, token string, s models.SystemSettings) error
	TariffFeatures(ctx context.Context, token string) (models.TariffFeatures, error)
	SaveTariffFeatures(ctx context.Context, token string, f models.TariffFeatures) error

	Broadcast(ctx context.Context, token string, b models.Broadcast) (models.BroadcastResult, error)
}

// Service админка.
type Service struct {
	backend Backend
	log     *slog.Logger
}

// New создает сервис.
func New(backend Backend, log *slog.Logger) *Service {
	return &Service{backend: backend, log: log}
}

// Dashboard сводка. Статистика и пользователи грузятся вместе: ошибка любого
// запроса означает ошибку всей сводки. Сквады грузятся отдельно со своей ошибкой.
type Dashboard struct {
	Stats       models.Statistics `json:"stats"`
	RecentUsers []models.User     `json:"recent_users"`
	Squads      []models.Squad    `json:"squads"`
	SquadsError string            `json:"squads_error,omitempty"`
}

// Dashboard загружает сводку.
func (s *Service) Dashboard(ctx context.Context, token string) (Dashboard, error) {
	const op = "admin.Dashboard"

	var (
		d     Dashboard
		users []models.User
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		stats, err := s.backend.Statistics(gctx, token)
		if err != nil {
			return err
		}
		d.Stats = stats
		return nil
	})
	g.Go(func() error {
		list, err := s.backend.Users(gctx, token)
		if err != nil {
			return err
		}
		users = list
		return nil
	})

	var (
		squads    []models.Squad
		squadsErr error
	)
	squadsDone := make(chan struct{})
	go func() {
		defer close(squadsDone)
		squads, squadsErr = s.backend.Squads(ctx, token)
	}()

	if err := g.Wait(); err != nil {
		<-squadsDone
		return Dashboard{}, fmt.Errorf("%s: %w", op, err)
	}
	<-squadsDone

	sort.SliceStable(users, func(i, j int) bool { return users[i].ID > users[j].ID })
	if len(users) > recentUsers {
		users = users[:recentUsers]
	}
	d.RecentUsers = users

	if squadsErr != nil {
		s.log.Warn("failed to load squads", slog.String("op", op), sl.Err(squadsErr))
		d.SquadsError = backend.Message(squadsErr)
		d.Squads = []models.Squad{}
	} else {
		d.Squads = squads
	}
	return d, nil
}

// Squads сквады внешней системы узлов.
func (s *Service) Squads(ctx context.Context, token string) ([]models.Squad, error) {
	const op = "admin.Squads"
	squads, err := s.backend.Squads(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return squads, nil
}

// alreadyGone удаляемой сущности уже нет на сервере. Повторное удаление не ошибка.
func alreadyGone(err error) bool {
	var validationErr *backend.ValidationError
	return errors.As(err, &validationErr) && validationErr.Status == http.StatusNotFound
}
