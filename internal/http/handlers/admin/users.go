package admin

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/stealthnet-panel/internal/http/handlers/request"
	"github.com/magabrotheeeer/stealthnet-panel/internal/http/middlewarectx"
	"github.com/magabrotheeeer/stealthnet-panel/internal/http/response"
	adminsvc "github.com/magabrotheeeer/stealthnet-panel/internal/services/admin"
)

// DeletedUser список после удаления и сообщение бэкенда.
type DeletedUser struct {
	Users   adminsvc.Users `json:"users"`
	Message string         `json:"message,omitempty"`
}

// Users godoc
// @Summary Пользователи
// @Description Пользователи с живыми данными подписки. Недоступные данные показываются как N/A.
// @Tags Admin
// @Produce  json
// @Success 200 {object} response.Response{data=adminsvc.Users}
// @Router /api/admin/users [get]
func (h *Handler) Users(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.admin.users")
	st := middlewarectx.StateFrom(r.Context())

	users, err := h.service.Users(r.Context(), st.Token)
	if err != nil {
		fail(w, r, log, err)
		return
	}
	h.put(r.Context(), log, st.SessionID, viewUsers, users)
	render.JSON(w, r, response.OKWithData(users))
}

// DeleteUser godoc
// @Summary Удалить пользователя
// @Description Без confirm=yes возвращает 428 с текстом подтверждения.
// @Tags Admin
// @Produce  json
// @Param id path int true "ID пользователя"
// @Param confirm query string false "yes"
// @Success 200 {object} response.Response{data=DeletedUser}
// @Failure 428 {object} response.Response{data=response.Confirm}
// @Router /api/admin/users/{id} [delete]
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.admin.delete_user")
	id, ok := request.ID(w, r, log, "id")
	if !ok {
		return
	}
	st := middlewarectx.StateFrom(r.Context())

	users, err := stored(r.Context(), h, log, st.SessionID, viewUsers, func() (adminsvc.Users, error) {
		return h.service.Users(r.Context(), st.Token)
	})
	if err != nil {
		fail(w, r, log, err)
		return
	}
	if !request.Confirmed(w, r, adminsvc.DeleteUserPrompt(users, id)) {
		return
	}

	users, msg, err := h.service.DeleteUser(r.Context(), st.Token, users, id)
	if err != nil {
		fail(w, r, log, err)
		return
	}
	h.put(r.Context(), log, st.SessionID, viewUsers, users)
	log.Info("user removed from list", slog.Int("user_id", id))
	render.JSON(w, r, response.OKWithData(DeletedUser{Users: users, Message: msg}))
}

// Emails godoc
// @Summary Адреса пользователей
// @Description Адреса всех пользователей для рассылки.
// @Tags Admin
// @Produce  json
// @Success 200 {object} response.Response{data=[]string}
// @Router /api/admin/users/emails [get]
func (h *Handler) Emails(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.admin.emails")
	st := middlewarectx.StateFrom(r.Context())

	emails, err := h.service.RecipientEmails(r.Context(), st.Token)
	if err != nil {
		fail(w, r, log, err)
		return
	}
	if emails == nil {
		emails = []string{}
	}
	render.JSON(w, r, response.OKWithData(emails))
}
