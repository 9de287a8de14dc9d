// Package support обработчики обращений в поддержку для клиента и администратора.
package support

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/stealthnet-panel/internal/http/handlers/request"
	"github.com/magabrotheeeer/stealthnet-panel/internal/http/middlewarectx"
	"github.com/magabrotheeeer/stealthnet-panel/internal/http/response"
	"github.com/magabrotheeeer/stealthnet-panel/internal/lib/sl"
	"github.com/magabrotheeeer/stealthnet-panel/internal/models"
	"github.com/magabrotheeeer/stealthnet-panel/internal/services/session"
	supportsvc "github.com/magabrotheeeer/stealthnet-panel/internal/services/support"
)

const (
	viewList   = "support_list"
	viewThread = "support_thread"
)

// Service поддержка.
type Service interface {
	List(ctx context.Context, state session.State) (supportsvc.Tickets, error)
	Thread(ctx context.Context, token string, id int) (models.SupportTicket, error)
	Create(ctx context.Context, token string, in models.NewTicketInput) (int, error)
	Reply(ctx context.Context, token string, thread models.SupportTicket, message string) (models.SupportTicket, error)
	Toggle(ctx context.Context, state session.State, thread models.SupportTicket, list supportsvc.Tickets) (models.SupportTicket, supportsvc.Tickets, error)
}

// Views состояние страниц сессии.
type Views interface {
	Get(ctx context.Context, sid, name string, v any) (bool, error)
	Put(ctx context.Context, sid, name string, v any) error
}

// Created id нового обращения.
type Created struct {
	ID int `json:"id"`
}

// Toggled обращение и список после смены статуса.
type Toggled struct {
	Ticket  models.SupportTicket `json:"ticket"`
	Tickets supportsvc.Tickets   `json:"tickets"`
}

type Handler struct {
	log     *slog.Logger
	service Service
	views   Views
}

func New(log *slog.Logger, service Service, views Views) *Handler {
	return &Handler{log: log, service: service, views: views}
}

func (h *Handler) logger(r *http.Request, op string) *slog.Logger {
	return h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	switch {
	case errors.Is(err, supportsvc.ErrTicketClosed):
		render.Status(r, http.StatusConflict)
	case errors.Is(err, supportsvc.ErrEmptyMessage):
		render.Status(r, http.StatusBadRequest)
	case errors.Is(err, supportsvc.ErrForbidden):
		render.Status(r, http.StatusForbidden)
	default:
		middlewarectx.Fail(w, r, log, err, supportsvc.Message(err))
		return
	}
	log.Info("support request rejected", sl.Err(err))
	render.JSON(w, r, response.Error(supportsvc.Message(err)))
}

func (h *Handler) put(ctx context.Context, log *slog.Logger, sid, name string, v any) {
	if err := h.views.Put(ctx, sid, name, v); err != nil {
		log.Warn("failed to store support view", slog.String("view", name), sl.Err(err))
	}
}

// thread переписка из состояния страницы, если открыта та же, иначе с сервера.
func (h *Handler) thread(ctx context.Context, st session.State, id int) (models.SupportTicket, error) {
	var t models.SupportTicket
	if found, err := h.views.Get(ctx, st.SessionID, viewThread, &t); err == nil && found && t.ID == id {
		return t, nil
	}
	return h.service.Thread(ctx, st.Token, id)
}

// List godoc
// @Summary Обращения
// @Description Клиенту свои обращения, администратору все.
// @Tags Support
// @Produce  json
// @Success 200 {object} response.Response{data=supportsvc.Tickets}
// @Router /api/client/support/tickets [get]
// @Router /api/admin/support/tickets [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.support.list")
	st := middlewarectx.StateFrom(r.Context())

	list, err := h.service.List(r.Context(), st)
	if err != nil {
		h.fail(w, r, log, err)
		return
	}
	h.put(r.Context(), log, st.SessionID, viewList, list)
	render.JSON(w, r, response.OKWithData(list))
}

// Thread godoc
// @Summary Переписка по обращению
// @Tags Support
// @Produce  json
// @Param id path int true "ID обращения"
// @Success 200 {object} response.Response{data=models.SupportTicket}
// @Failure 404 {object} response.ErrorResponse "Обращение не найдено"
// @Router /api/client/support/tickets/{id} [get]
// @Router /api/admin/support/tickets/{id} [get]
func (h *Handler) Thread(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.support.thread")
	id, ok := request.ID(w, r, log, "id")
	if !ok {
		return
	}
	st := middlewarectx.StateFrom(r.Context())

	t, err := h.service.Thread(r.Context(), st.Token, id)
	if err != nil {
		h.fail(w, r, log, err)
		return
	}
	h.put(r.Context(), log, st.SessionID, viewThread, t)
	render.JSON(w, r, response.OKWithData(t))
}

// Create godoc
// @Summary Новое обращение
// @Tags Support
// @Accept  json
// @Produce  json
// @Param request body models.NewTicketInput true "Тема и сообщение"
// @Success 201 {object} response.Response{data=Created}
// @Failure 400 {object} response.ErrorResponse "Пустое сообщение"
// @Router /api/client/support/tickets [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.support.create")

	var in models.NewTicketInput
	if !request.Decode(w, r, log, nil, &in) {
		return
	}
	st := middlewarectx.StateFrom(r.Context())

	id, err := h.service.Create(r.Context(), st.Token, in)
	if err != nil {
		h.fail(w, r, log, err)
		return
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.OKWithData(Created{ID: id}))
}

// Reply godoc
// @Summary Ответить в обращение
// @Description Сообщение добавляется в конец переписки. В закрытое обращение писать нельзя.
// @Tags Support
// @Accept  json
// @Produce  json
// @Param id path int true "ID обращения"
// @Param request body models.ReplyInput true "Сообщение"
// @Success 200 {object} response.Response{data=models.SupportTicket}
// @Failure 409 {object} response.ErrorResponse "Обращение закрыто"
// @Router /api/client/support/tickets/{id}/reply [post]
// @Router /api/admin/support/tickets/{id}/reply [post]
func (h *Handler) Reply(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.support.reply")
	id, ok := request.ID(w, r, log, "id")
	if !ok {
		return
	}
	var in models.ReplyInput
	if !request.Decode(w, r, log, nil, &in) {
		return
	}
	st := middlewarectx.StateFrom(r.Context())

	t, err := h.thread(r.Context(), st, id)
	if err != nil {
		h.fail(w, r, log, err)
		return
	}
	t, err = h.service.Reply(r.Context(), st.Token, t, in.Message)
	if err != nil {
		h.fail(w, r, log, err)
		return
	}
	h.put(r.Context(), log, st.SessionID, viewThread, t)
	render.JSON(w, r, response.OKWithData(t))
}

// Toggle godoc
// @Summary Открыть или закрыть обращение
// @Tags Support
// @Produce  json
// @Param id path int true "ID обращения"
// @Success 200 {object} response.Response{data=Toggled}
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Router /api/admin/support/tickets/{id}/toggle [post]
func (h *Handler) Toggle(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.support.toggle")
	id, ok := request.ID(w, r, log, "id")
	if !ok {
		return
	}
	st := middlewarectx.StateFrom(r.Context())

	t, err := h.thread(r.Context(), st, id)
	if err != nil {
		h.fail(w, r, log, err)
		return
	}
	var list supportsvc.Tickets
	if _, err := h.views.Get(r.Context(), st.SessionID, viewList, &list); err != nil {
		log.Warn("failed to read ticket list", sl.Err(err))
	}

	t, list, err = h.service.Toggle(r.Context(), st, t, list)
	if err != nil {
		h.fail(w, r, log, err)
		return
	}
	h.put(r.Context(), log, st.SessionID, viewThread, t)
	h.put(r.Context(), log, st.SessionID, viewList, list)
	log.Info("ticket status changed", slog.Int("ticket_id", t.ID), slog.String("status", string(t.Status)))
	render.JSON(w, r, response.OKWithData(Toggled{Ticket: t, Tickets: list}))
}
