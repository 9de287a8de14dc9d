// Package client страницы личного кабинета: подписка, серверы, рефералы и настройки.
package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/magabrotheeeer/stealthnet-panel/internal/backend"
	"github.com/magabrotheeeer/stealthnet-panel/internal/lib/sl"
	"github.com/magabrotheeeer/stealthnet-panel/internal/models"
	"github.com/magabrotheeeer/stealthnet-panel/internal/services/session"
)

// ErrEmptyCode промокод не введен.
var ErrEmptyCode = errors.New("empty promo code")

// Message текст ошибки для пользователя.
func Message(err error) string {
	if errors.Is(err, ErrEmptyCode) {
		return "Введите промокод"
	}
	return backend.Message(err)
}

// Backend клиентские методы бэкенда.
type Backend interface {
	Me(ctx context.Context, token string) (models.User, error)
	Nodes(ctx context.Context, token string) ([]models.Node, error)
	ActivateTrial(ctx context.Context, token string) (backend.MessageResponse, error)
	ActivatePromocode(ctx context.Context, token, code string) (backend.MessageResponse, error)
}

// Sessions обновление профиля в сессии.
type Sessions interface {
	SetUser(ctx context.Context, sid string, user models.User) error
}

// Preferences синхронизация языка и валюты с профилем.
type Preferences interface {
	SyncFromProfile(ctx context.Context, state session.State, acceptLanguage string, user models.User) (models.Preference, error)
}

// Service личный кабинет клиента.
type Service struct {
	backend     Backend
	sessions    Sessions
	preferences Preferences
	log         *slog.Logger
}

// New создает сервис.
func New(backend Backend, sessions Sessions, preferences Preferences, log *slog.Logger) *Service {
	return &Service{backend: backend, sessions: sessions, preferences: preferences, log: log}
}

// Profile профиль с текущими настройками отображения.
type Profile struct {
	User       models.User       `json:"user"`
	Preference models.Preference `json:"preference"`
}

// Profile перечитывает профиль, кладет его в сессию и подтягивает из него язык и валюту.
// Ошибки сохранения в сессию не мешают показать профиль.
func (s *Service) Profile(ctx context.Context, state session.State, acceptLanguage string) (Profile, error) {
	const op = "client.Profile"
	log := s.log.With(slog.String("op", op))

	user, err := s.backend.Me(ctx, state.Token)
	if err != nil {
		return Profile{}, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.sessions.SetUser(ctx, state.SessionID, user); err != nil {
		log.Warn("failed to cache profile", sl.Err(err))
	}
	state.User = &user
	pref, err := s.preferences.SyncFromProfile(ctx, state, acceptLanguage, user)
	if err != nil {
		log.Warn("failed to sync preference", sl.Err(err))
	}
	return Profile{User: user, Preference: pref}, nil
}

// ActivateTrial включает пробный период и перечитывает профиль.
func (s *Service) ActivateTrial(ctx context.Context, state session.State, acceptLanguage string) (Profile, string, error) {
	const op = "client.ActivateTrial"
	resp, err := s.backend.ActivateTrial(ctx, state.Token)
	if err != nil {
		return Profile{}, "", fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("trial activated", slog.String("op", op))
	p, err := s.Profile(ctx, state, acceptLanguage)
	if err != nil {
		return Profile{}, resp.Message, fmt.Errorf("%s: %w", op, err)
	}
	return p, resp.Message, nil
}

// ActivatePromocode активирует промокод на дни подписки и перечитывает профиль.
func (s *Service) ActivatePromocode(ctx context.Context, state session.State, acceptLanguage, code string) (Profile, string, error) {
	const op = "client.ActivatePromocode"
	code = models.NormalizeCode(code)
	if code == "" {
		return Profile{}, "", ErrEmptyCode
	}
	resp, err := s.backend.ActivatePromocode(ctx, state.Token, code)
	if err != nil {
		return Profile{}, "", fmt.Errorf("%s: %w", op, err)
	}
	p, err := s.Profile(ctx, state, acceptLanguage)
	if err != nil {
		return Profile{}, resp.Message, fmt.Errorf("%s: %w", op, err)
	}
	return p, resp.Message, nil
}

// Nodes активные серверы клиента.
func (s *Service) Nodes(ctx context.Context, token string) ([]models.Node, error) {
	const op = "client.Nodes"
	nodes, err := s.backend.Nodes(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if nodes == nil {
		nodes = []models.Node{}
	}
	return nodes, nil
}

// Referrals реферальный код и ссылка-приглашение.
type Referrals struct {
	Code       string `json:"code"`
	InviteLink string `json:"invite_link"`
}

// ReferralsFor собирает ссылку-приглашение на страницу регистрации.
// Без кода ссылка пустая.
func ReferralsFor(user models.User, publicURL string) Referrals {
	r := Referrals{Code: user.ReferralCode}
	if r.Code == "" {
		return r
	}
	u, err := url.Parse(publicURL)
	if err != nil {
		return r
	}
	u = u.JoinPath("register")
	u.RawQuery = url.Values{"ref": {r.Code}}.Encode()
	r.InviteLink = u.String()
	return r
}
