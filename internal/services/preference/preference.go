// Package preference выбирает язык и валюту интерфейса и синхронизирует их с профилем.
//
// Настройки доступны и до входа. Изменение применяется сразу, а сохранение на
// бэкенде идет в фоне и на результат не влияет.
package preference

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/text/language"

	"github.com/magabrotheeeer/stealthnet-panel/internal/backend"
	"github.com/magabrotheeeer/stealthnet-panel/internal/lib/sl"
	"github.com/magabrotheeeer/stealthnet-panel/internal/models"
	"github.com/magabrotheeeer/stealthnet-panel/internal/services/session"
)

// syncTimeout время на фоновое сохранение настроек.
const syncTimeout = 10 * time.Second

// Storage хранит настройки внутри сессии браузера.
type Storage interface {
	SetPreference(ctx context.Context, sid string, pref models.Preference) error
}

// SettingsSaver сохраняет настройки в профиле на бэкенде.
type SettingsSaver interface {
	SaveSettings(ctx context.Context, token string, s backend.Settings) error
}

var tags = []language.Tag{
	language.Russian,
	language.Ukrainian,
	language.SimplifiedChinese,
	language.English,
}

var matcher = language.NewMatcher(tags)

// Tag языковой тег для форматирования чисел и склонений.
func Tag(l models.Language) language.Tag {
	for i, lang := range models.Languages {
		if lang == l {
			return tags[i]
		}
	}
	return language.Russian
}

// Detect язык по заголовку Accept-Language. Без совпадений русский.
func Detect(acceptLanguage string) models.Language {
	if acceptLanguage == "" {
		return models.DefaultLanguage
	}
	requested, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(requested) == 0 {
		return models.DefaultLanguage
	}
	_, idx, conf := matcher.Match(requested...)
	if conf == language.No {
		return models.DefaultLanguage
	}
	return models.Languages[idx]
}

// Service настройки языка и валюты.
type Service struct {
	storage Storage
	saver   SettingsSaver
	log     *slog.Logger
	wg      sync.WaitGroup
}

// New создает сервис.
func New(storage Storage, saver SettingsSaver, log *slog.Logger) *Service {
	return &Service{storage: storage, saver: saver, log: log}
}

// Current настройки для запроса: сохраненные в сессии, затем из профиля,
// затем язык браузера и валюта по умолчанию.
func Current(state session.State, acceptLanguage string) models.Preference {
	if state.Preference != nil {
		return *state.Preference
	}
	pref := models.Preference{Language: Detect(acceptLanguage), Currency: models.DefaultCurrency}
	if state.User != nil {
		pref = fromProfile(pref, *state.User)
	}
	return pref
}

func fromProfile(pref models.Preference, user models.User) models.Preference {
	if l, err := models.ParseLanguage(user.PreferredLang); err == nil {
		pref.Language = l
	}
	if c, err := models.ParseCurrency(user.PreferredCurrency); err == nil {
		pref.Currency = c
	}
	return pref
}

// SetLanguage меняет язык. При активной сессии язык отправляется в профиль в фоне.
func (s *Service) SetLanguage(ctx context.Context, state session.State, acceptLanguage, lang string) (models.Preference, error) {
	const op = "preference.SetLanguage"
	l, err := models.ParseLanguage(lang)
	if err != nil {
		return models.Preference{}, fmt.Errorf("%s: %w", op, err)
	}
	pref := Current(state, acceptLanguage)
	pref.Language = l
	if err := s.storage.SetPreference(ctx, state.SessionID, pref); err != nil {
		return models.Preference{}, fmt.Errorf("%s: %w", op, err)
	}
	s.push(ctx, state, backend.Settings{Lang: string(l)})
	return pref, nil
}

// SetCurrency меняет валюту. При активной сессии валюта отправляется в профиль в фоне.
func (s *Service) SetCurrency(ctx context.Context, state session.State, acceptLanguage, currency string) (models.Preference, error) {
	const op = "preference.SetCurrency"
	c, err := models.ParseCurrency(currency)
	if err != nil {
		return models.Preference{}, fmt.Errorf("%s: %w", op, err)
	}
	pref := Current(state, acceptLanguage)
	pref.Currency = c
	if err := s.storage.SetPreference(ctx, state.SessionID, pref); err != nil {
		return models.Preference{}, fmt.Errorf("%s: %w", op, err)
	}
	s.push(ctx, state, backend.Settings{Currency: string(c)})
	return pref, nil
}

// SyncFromProfile переписывает настройки значениями из профиля, если они там заданы.
func (s *Service) SyncFromProfile(ctx context.Context, state session.State, acceptLanguage string, user models.User) (models.Preference, error) {
	const op = "preference.SyncFromProfile"
	current := Current(state, acceptLanguage)
	pref := fromProfile(current, user)
	if state.Preference != nil && pref == current {
		return pref, nil
	}
	if err := s.storage.SetPreference(ctx, state.SessionID, pref); err != nil {
		return current, fmt.Errorf("%s: %w", op, err)
	}
	return pref, nil
}

// push сохраняет настройки на бэкенде без ожидания. Ошибка только пишется в лог.
func (s *Service) push(ctx context.Context, state session.State, settings backend.Settings) {
	if !state.Authenticated() {
		return
	}
	log := s.log.With(slog.String("op", "preference.push"))
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), syncTimeout)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer cancel()
		if err := s.saver.SaveSettings(ctx, state.Token, settings); err != nil {
			log.Warn("failed to save settings", sl.Err(err))
		}
	}()
}

// Wait дожидается фоновых сохранений.
func (s *Service) Wait() {
	s.wg.Wait()
}
