// Package viewstate хранит состояние страницы между запросами одной сессии:
// загруженные списки, ошибки и формы. Каждая загрузка страницы заменяет его целиком.
package viewstate

import (
	"context"
	"fmt"
	"time"

	"github.com/magabrotheeeer/stealthnet-panel/internal/services/session"
)

// Storage хранилище JSON-значений.
type Storage interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, keys ...string) error
}

// Store состояние страниц.
type Store struct {
	storage Storage
	ttl     time.Duration
}

// New создает хранилище. ttl ограничивает жизнь брошенных страниц.
func New(storage Storage, ttl time.Duration) *Store {
	return &Store{storage: storage, ttl: ttl}
}

func key(sid, name string) string {
	return session.ViewKeyPrefix(sid) + name
}

// Get читает состояние страницы name в v. false означает, что состояния нет.
func (s *Store) Get(ctx context.Context, sid, name string, v any) (bool, error) {
	const op = "viewstate.Get"
	found, err := s.storage.Get(ctx, key(sid, name), v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return found, nil
}

// Put сохраняет состояние. Если запрос уже отменен, результат отбрасывается
// и возвращается ошибка контекста.
func (s *Store) Put(ctx context.Context, sid, name string, v any) error {
	const op = "viewstate.Put"
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.storage.Set(ctx, key(sid, name), v, s.ttl); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Drop удаляет состояние страницы.
func (s *Store) Drop(ctx context.Context, sid, name string) error {
	const op = "viewstate.Drop"
	if err := s.storage.Invalidate(ctx, key(sid, name)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Update читает состояние, применяет fn и сохраняет результат.
// Отсутствующее состояние передается в fn нулевым значением.
func Update[T any](ctx context.Context, s *Store, sid, name string, fn func(T) T) (T, error) {
	var cur T
	if _, err := s.Get(ctx, sid, name, &cur); err != nil {
		return cur, err
	}
	next := fn(cur)
	if err := s.Put(ctx, sid, name, next); err != nil {
		return cur, err
	}
	return next, nil
}
