// Package session хранилище браузерных сессий панели: токен, роль и кэш профиля.
//
// Запись сессии лежит в долговременном хранилище под ключом session:<sid>, где sid
// берется из cookie браузера. Читать и менять сессию можно только через методы Store.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/magabrotheeeer/stealthnet-panel/internal/backend"
	"github.com/magabrotheeeer/stealthnet-panel/internal/lib/sl"
	"github.com/magabrotheeeer/stealthnet-panel/internal/models"
)

// ErrNotReady хранилище еще не прочитано.
var ErrNotReady = errors.New("session store is not ready")

// Storage долговременное хранилище записей.
type Storage interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, keys ...string) error
	InvalidatePrefix(ctx context.Context, prefix string) error
	Ping(ctx context.Context) error
}

// Authenticator публичные методы авторизации бэкенда.
type Authenticator interface {
	Register(ctx context.Context, email, password, refCode string) (backend.MessageResponse, error)
	Login(ctx context.Context, email, password string) (backend.Credentials, error)
	VerifyEmail(ctx context.Context, verifyToken string) (backend.Credentials, string, bool, error)
	ResendVerification(ctx context.Context, email string) (backend.MessageResponse, error)
}

// Record то, что хранится о браузере. Token и Role заполнены вместе или пусты оба.
type Record struct {
	Token      string             `json:"token,omitempty"`
	Role       models.Role        `json:"role,omitempty"`
	User       *models.User       `json:"user,omitempty"`
	Preference *models.Preference `json:"preference,omitempty"`
}

func (r Record) consistent() bool {
	if (r.Token == "") != (r.Role == models.RoleNone) {
		return false
	}
	return r.User == nil || r.Token != ""
}

// State состояние сессии для одного запроса.
type State struct {
	// Loading хранилище еще не готово, решение о доступе принимать нельзя.
	Loading bool
	// Expired токен из хранилища уже истек и был удален.
	Expired    bool
	SessionID  string
	Token      string
	Role       models.Role
	User       *models.User
	Preference *models.Preference
}

// Authenticated есть токен и роль.
func (s State) Authenticated() bool {
	return s.Token != "" && s.Role != models.RoleNone
}

// Store хранилище сессий.
type Store struct {
	storage Storage
	auth    Authenticator
	ttl     time.Duration
	log     *slog.Logger
	ready   atomic.Bool
	now     func() time.Time
}

// New создает хранилище. До вызова Hydrate все состояния имеют Loading.
func New(storage Storage, auth Authenticator, ttl time.Duration, log *slog.Logger) *Store {
	return &Store{
		storage: storage,
		auth:    auth,
		ttl:     ttl,
		log:     log,
		now:     time.Now,
	}
}

// NewID новый идентификатор браузерной сессии.
func NewID() string {
	return uuid.NewString()
}

// ViewKeyPrefix префикс ключей состояния страниц этой сессии.
func ViewKeyPrefix(sid string) string {
	return "view:" + sid + ":"
}

func recordKey(sid string) string {
	return "session:" + sid
}

// Hydrate ждет доступности хранилища, повторяя проверку каждые retryEvery,
// и переводит хранилище в готовое состояние.
func (s *Store) Hydrate(ctx context.Context, retryEvery time.Duration) error {
	const op = "session.Hydrate"
	for {
		err := s.storage.Ping(ctx)
		if err == nil {
			s.ready.Store(true)
			s.log.Info("session store is ready")
			return nil
		}
		s.log.Warn("session storage is not reachable yet", slog.String("op", op), sl.Err(err))

		select {
		case <-ctx.Done():
			return fmt.Errorf("%s: %w", op, ctx.Err())
		case <-time.After(retryEvery):
		}
	}
}

// Ready хранилище прочитано.
func (s *Store) Ready() bool {
	return s.ready.Load()
}

func (s *Store) load(ctx context.Context, sid string) (Record, error) {
	var rec Record
	if sid == "" {
		return rec, nil
	}
	found, err := s.storage.Get(ctx, recordKey(sid), &rec)
	if err != nil {
		return Record{}, err
	}
	if !found {
		return Record{}, nil
	}
	return rec, nil
}

func (s *Store) save(ctx context.Context, sid string, rec Record) error {
	return s.storage.Set(ctx, recordKey(sid), rec, s.ttl)
}

// Restore читает состояние сессии. Несогласованная запись и истекший токен
// удаляются, как будто сессии не было.
func (s *Store) Restore(ctx context.Context, sid string) (State, error) {
	const op = "session.Restore"
	if !s.Ready() {
		return State{Loading: true, SessionID: sid}, nil
	}

	rec, err := s.load(ctx, sid)
	if err != nil {
		return State{SessionID: sid}, fmt.Errorf("%s: %w", op, err)
	}

	state := State{SessionID: sid, Preference: rec.Preference}
	if !rec.consistent() {
		s.log.Warn("dropping inconsistent session record", slog.String("op", op))
		if err := s.save(ctx, sid, Record{Preference: rec.Preference}); err != nil {
			return state, fmt.Errorf("%s: %w", op, err)
		}
		return state, nil
	}
	if rec.Token != "" && s.tokenExpired(rec.Token) {
		if err := s.Logout(ctx, sid); err != nil {
			return state, fmt.Errorf("%s: %w", op, err)
		}
		return State{SessionID: sid, Expired: true}, nil
	}

	state.Token = rec.Token
	state.Role = rec.Role
	state.User = rec.User
	return state, nil
}

// tokenExpired смотрит exp, если токен похож на JWT. Подпись не проверяется:
// это делает бэкенд, панели нужен только срок.
func (s *Store) tokenExpired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(s.now())
}

// Register регистрирует пользователя. Сессия не создается.
func (s *Store) Register(ctx context.Context, email, password, refCode string) (string, error) {
	const op = "session.Register"
	resp, err := s.auth.Register(ctx, email, password, refCode)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return resp.Message, nil
}

// Login проверяет учетные данные и сохраняет токен с ролью.
// При любой ошибке запись сессии не меняется.
func (s *Store) Login(ctx context.Context, sid, email, password string) (backend.Credentials, error) {
	const op = "session.Login"
	if !s.Ready() {
		return backend.Credentials{}, fmt.Errorf("%s: %w", op, ErrNotReady)
	}
	creds, err := s.auth.Login(ctx, email, password)
	if err != nil {
		return backend.Credentials{}, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.establish(ctx, sid, creds); err != nil {
		return backend.Credentials{}, fmt.Errorf("%s: %w", op, err)
	}
	return creds, nil
}

// VerifyEmail подтверждает почту. Если бэкенд выдал токен, сессия создается сразу.
func (s *Store) VerifyEmail(ctx context.Context, sid, verifyToken string) (creds backend.Credentials, message string, loggedIn bool, err error) {
	const op = "session.VerifyEmail"
	creds, message, loggedIn, err = s.auth.VerifyEmail(ctx, verifyToken)
	if err != nil {
		return backend.Credentials{}, "", false, fmt.Errorf("%s: %w", op, err)
	}
	if !loggedIn {
		return backend.Credentials{}, message, false, nil
	}
	if err := s.establish(ctx, sid, creds); err != nil {
		return backend.Credentials{}, "", false, fmt.Errorf("%s: %w", op, err)
	}
	return creds, message, true, nil
}

// ResendVerification повторно отправляет письмо подтверждения.
func (s *Store) ResendVerification(ctx context.Context, email string) (string, error) {
	const op = "session.ResendVerification"
	resp, err := s.auth.ResendVerification(ctx, email)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return resp.Message, nil
}

func (s *Store) establish(ctx context.Context, sid string, creds backend.Credentials) error {
	if creds.Token == "" || creds.Role == models.RoleNone {
		return backend.ErrIncompleteSession
	}
	rec, err := s.load(ctx, sid)
	if err != nil {
		return err
	}
	return s.save(ctx, sid, Record{
		Token:      creds.Token,
		Role:       creds.Role,
		Preference: rec.Preference,
	})
}

// Logout удаляет сессию, настройки и состояние страниц. К бэкенду не обращается.
func (s *Store) Logout(ctx context.Context, sid string) error {
	const op = "session.Logout"
	if sid == "" {
		return nil
	}
	if err := s.storage.Invalidate(ctx, recordKey(sid)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.storage.InvalidatePrefix(ctx, ViewKeyPrefix(sid)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// SetUser кэширует профиль. Без токена профиль не сохраняется.
func (s *Store) SetUser(ctx context.Context, sid string, user models.User) error {
	const op = "session.SetUser"
	rec, err := s.load(ctx, sid)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rec.Token == "" {
		return nil
	}
	rec.User = &user
	if err := s.save(ctx, sid, rec); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// SetPreference сохраняет языковые настройки браузера, с сессией или без нее.
func (s *Store) SetPreference(ctx context.Context, sid string, pref models.Preference) error {
	const op = "session.SetPreference"
	rec, err := s.load(ctx, sid)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rec.Preference = &pref
	if rec.User != nil {
		u := *rec.User
		u.PreferredLang = string(pref.Language)
		u.PreferredCurrency = string(pref.Currency)
		rec.User = &u
	}
	if err := s.save(ctx, sid, rec); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
