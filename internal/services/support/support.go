// Package support обращения в поддержку: список, переписка, ответ и смена статуса.
// Обновлений в реальном времени нет, переписка перечитывается при открытии.
package support

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/stealthnet-panel/internal/backend"
	"github.com/magabrotheeeer/stealthnet-panel/internal/collection"
	"github.com/magabrotheeeer/stealthnet-panel/internal/models"
	"github.com/magabrotheeeer/stealthnet-panel/internal/services/session"
)

var (
	// ErrTicketClosed в закрытое обращение писать нельзя.
	ErrTicketClosed = errors.New("ticket is closed")
	// ErrEmptyMessage пустое сообщение.
	ErrEmptyMessage = errors.New("message is empty")
	// ErrForbidden действие доступно только администратору.
	ErrForbidden = errors.New("admin role required")
)

// Backend методы бэкенда для поддержки.
type Backend interface {
	MyTickets(ctx context.Context, token string) ([]models.SupportTicket, error)
	AllTickets(ctx context.Context, token string) ([]models.SupportTicket, error)
	Ticket(ctx context.Context, token string, id int) (models.SupportTicket, error)
	CreateTicket(ctx context.Context, token string, in models.NewTicketInput) (int, error)
	Reply(ctx context.Context, token string, id int, message string) (models.TicketMessage, error)
	SetTicketStatus(ctx context.Context, token string, id int, status models.TicketStatus) error
}

// Tickets список обращений.
type Tickets = collection.Collection[models.SupportTicket]

// Service сервис поддержки.
type Service struct {
	backend Backend
	log     *slog.Logger
}

// New создает сервис.
func New(backend Backend, log *slog.Logger) *Service {
	return &Service{backend: backend, log: log}
}

// List обращения: клиенту свои, администратору все.
func (s *Service) List(ctx context.Context, state session.State) (Tickets, error) {
	const op = "support.List"
	var (
		tickets []models.SupportTicket
		err     error
	)
	switch state.Role {
	case models.RoleAdmin:
		tickets, err = s.backend.AllTickets(ctx, state.Token)
	case models.RoleClient:
		tickets, err = s.backend.MyTickets(ctx, state.Token)
	case models.RoleNone:
		return Tickets{}, fmt.Errorf("%s: %w", op, ErrForbidden)
	default:
		panic(fmt.Sprintf("support: unexpected role %d", int(state.Role)))
	}
	if err != nil {
		return Tickets{}, fmt.Errorf("%s: %w", op, err)
	}
	return collection.New(tickets), nil
}

// Thread обращение с перепиской.
func (s *Service) Thread(ctx context.Context, token string, id int) (models.SupportTicket, error) {
	const op = "support.Thread"
	t, err := s.backend.Ticket(ctx, token, id)
	if err != nil {
		return models.SupportTicket{}, fmt.Errorf("%s: %w", op, err)
	}
	if t.ID == 0 {
		t.ID = id
	}
	return t, nil
}

// Create создает обращение клиента и возвращает его id.
func (s *Service) Create(ctx context.Context, token string, in models.NewTicketInput) (int, error) {
	const op = "support.Create"
	in.Subject = strings.TrimSpace(in.Subject)
	in.Message = strings.TrimSpace(in.Message)
	if in.Subject == "" || in.Message == "" {
		return 0, ErrEmptyMessage
	}
	id, err := s.backend.CreateTicket(ctx, token, in)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("ticket created", slog.String("op", op), slog.Int("ticket_id", id))
	return id, nil
}

// Reply отправляет сообщение и добавляет его в конец переписки.
// В закрытое обращение сообщение не отправляется.
func (s *Service) Reply(ctx context.Context, token string, thread models.SupportTicket, message string) (models.SupportTicket, error) {
	const op = "support.Reply"
	if thread.Status == models.TicketClosed {
		return thread, ErrTicketClosed
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return thread, ErrEmptyMessage
	}
	msg, err := s.backend.Reply(ctx, token, thread.ID, message)
	if err != nil {
		return thread, fmt.Errorf("%s: %w", op, err)
	}
	if msg.Message == "" {
		msg.Message = message
	}
	msgs := make([]models.TicketMessage, 0, len(thread.Messages)+1)
	msgs = append(msgs, thread.Messages...)
	thread.Messages = append(msgs, msg)
	return thread, nil
}

// Toggle открывает или закрывает обращение. Новый статус попадает и в переписку,
// и в список без повторной загрузки.
func (s *Service) Toggle(ctx context.Context, state session.State, thread models.SupportTicket, list Tickets) (models.SupportTicket, Tickets, error) {
	const op = "support.Toggle"
	if state.Role != models.RoleAdmin {
		return thread, list, ErrForbidden
	}
	next := thread.Status.Toggled()
	if err := s.backend.SetTicketStatus(ctx, state.Token, thread.ID, next); err != nil {
		return thread, list, fmt.Errorf("%s: %w", op, err)
	}
	thread.Status = next
	list = list.Update(thread.Key(), func(t models.SupportTicket) models.SupportTicket {
		t.Status = next
		return t
	})
	return thread, list, nil
}

// Message текст ошибки для пользователя.
func Message(err error) string {
	switch {
	case errors.Is(err, ErrTicketClosed):
		return "Обращение закрыто"
	case errors.Is(err, ErrEmptyMessage):
		return "Введите сообщение"
	case errors.Is(err, ErrForbidden):
		return "Недостаточно прав"
	default:
		return backend.Message(err)
	}
}
