package models

import "strconv"

// TicketStatus статус обращения в поддержку.
type TicketStatus string

const (
	// TicketOpen обращение открыто.
	TicketOpen TicketStatus = "OPEN"
	// TicketClosed обращение закрыто администратором.
	TicketClosed TicketStatus = "CLOSED"
)

// Toggled противоположный статус.
func (s TicketStatus) Toggled() TicketStatus {
	if s == TicketOpen {
		return TicketClosed
	}
	return TicketOpen
}

// TicketMessage сообщение в переписке. Порядок сообщений тот, что вернул сервер.
type TicketMessage struct {
	ID          int    `json:"id"`
	SenderID    int    `json:"sender_id"`
	SenderEmail string `json:"sender_email"`
	Message     string `json:"message"`
	CreatedAt   string `json:"created_at"`
}

// SupportTicket обращение вместе с перепиской.
type SupportTicket struct {
	ID        int             `json:"id"`
	Subject   string          `json:"subject"`
	Status    TicketStatus    `json:"status"`
	UserEmail string          `json:"user_email,omitempty"`
	CreatedAt string          `json:"created_at,omitempty"`
	Messages  []TicketMessage `json:"messages,omitempty"`
}

// Key идентификатор для коллекций.
func (t SupportTicket) Key() string { return strconv.Itoa(t.ID) }

// NewTicketInput форма нового обращения.
type NewTicketInput struct {
	Subject string `json:"subject" validate:"required"`
	Message string `json:"message" validate:"required"`
}

// ReplyInput ответ в обращение.
type ReplyInput struct {
	Message string `json:"message" validate:"required"`
}

// TicketStatusInput смена статуса обращения.
type TicketStatusInput struct {
	Status TicketStatus `json:"status" validate:"required,oneof=OPEN CLOSED"`
}
