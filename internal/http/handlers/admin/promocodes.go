package admin

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/stealthnet-panel/internal/http/handlers/request"
	"github.com/magabrotheeeer/stealthnet-panel/internal/http/middlewarectx"
	"github.com/magabrotheeeer/stealthnet-panel/internal/http/response"
	"github.com/magabrotheeeer/stealthnet-panel/internal/models"
	adminsvc "github.com/magabrotheeeer/stealthnet-panel/internal/services/admin"
)

// PromoCodes godoc
// @Summary Промокоды
// @Tags Admin
// @Produce  json
// @Success 200 {object} response.Response{data=adminsvc.PromoCodes}
// @Router /api/admin/promocodes [get]
func (h *Handler) PromoCodes(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.admin.promocodes")
	st := middlewarectx.StateFrom(r.Context())

	list, err := h.service.PromoCodes(r.Context(), st.Token)
	if err != nil {
		fail(w, r, log, err)
		return
	}
	h.put(r.Context(), log, st.SessionID, viewPromoCodes, list)
	render.JSON(w, r, response.OKWithData(list))
}

// CreatePromoCode godoc
// @Summary Создать промокод
// @Description Код сохраняется в верхнем регистре.
// @Tags Admin
// @Accept  json
// @Produce  json
// @Param request body models.PromoCodeInput true "Промокод"
// @Success 201 {object} response.Response{data=adminsvc.PromoCodes}
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /api/admin/promocodes [post]
func (h *Handler) CreatePromoCode(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.admin.create_promocode")

	var in models.PromoCodeInput
	if !request.Decode(w, r, log, h.validate, &in) {
		return
	}
	st := middlewarectx.StateFrom(r.Context())

	list, err := stored(r.Context(), h, log, st.SessionID, viewPromoCodes, func() (adminsvc.PromoCodes, error) {
		return h.service.PromoCodes(r.Context(), st.Token)
	})
	if err != nil {
		fail(w, r, log, err)
		return
	}
	list, err = h.service.CreatePromoCode(r.Context(), st.Token, list, in)
	if err != nil {
		fail(w, r, log, err)
		return
	}
	h.put(r.Context(), log, st.SessionID, viewPromoCodes, list)
	log.Info("promo code created", slog.String("code", models.NormalizeCode(in.Code)))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.OKWithData(list))
}

// DeletePromoCode godoc
// @Summary Удалить промокод
// @Tags Admin
// @Produce  json
// @Param id path int true "ID промокода"
// @Param confirm query string false "yes"
// @Success 200 {object} response.Response{data=adminsvc.PromoCodes}
// @Failure 428 {object} response.Response{data=response.Confirm}
// @Router /api/admin/promocodes/{id} [delete]
func (h *Handler) DeletePromoCode(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.admin.delete_promocode")
	id, ok := request.ID(w, r, log, "id")
	if !ok {
		return
	}
	if !request.Confirmed(w, r, adminsvc.DeletePromoPrompt) {
		return
	}
	st := middlewarectx.StateFrom(r.Context())

	list, err := stored(r.Context(), h, log, st.SessionID, viewPromoCodes, func() (adminsvc.PromoCodes, error) {
		return h.service.PromoCodes(r.Context(), st.Token)
	})
	if err != nil {
		fail(w, r, log, err)
		return
	}
	list, err = h.service.DeletePromoCode(r.Context(), st.Token, list, id)
	if err != nil {
		fail(w, r, log, err)
		return
	}
	h.put(r.Context(), log, st.SessionID, viewPromoCodes, list)
	render.JSON(w, r, response.OKWithData(list))
}
