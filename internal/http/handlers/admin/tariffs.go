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

// TariffsView таблица тарифов и сквады для формы.
type TariffsView struct {
	Rows        []adminsvc.TariffRow `json:"rows"`
	Squads      []models.Squad       `json:"squads"`
	SquadsError string               `json:"squads_error,omitempty"`
}

func tariffsView(p adminsvc.TariffsPage) TariffsView {
	squads := p.Squads
	if squads == nil {
		squads = []models.Squad{}
	}
	return TariffsView{Rows: p.Rows(), Squads: squads, SquadsError: p.SquadsError}
}

func (h *Handler) tariffsPage(r *http.Request, log *slog.Logger) (adminsvc.TariffsPage, error) {
	st := middlewarectx.StateFrom(r.Context())
	return stored(r.Context(), h, log, st.SessionID, viewTariffs, func() (adminsvc.TariffsPage, error) {
		return h.service.TariffsPage(r.Context(), st.Token)
	})
}

// Tariffs godoc
// @Summary Тарифы
// @Description Таблица тарифов с именами сквадов.
// @Tags Admin
// @Produce  json
// @Success 200 {object} response.Response{data=TariffsView}
// @Router /api/admin/tariffs [get]
func (h *Handler) Tariffs(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.admin.tariffs")
	st := middlewarectx.StateFrom(r.Context())

	page, err := h.service.TariffsPage(r.Context(), st.Token)
	if err != nil {
		fail(w, r, log, err)
		return
	}
	h.put(r.Context(), log, st.SessionID, viewTariffs, page)
	render.JSON(w, r, response.OKWithData(tariffsView(page)))
}

// CreateTariff godoc
// @Summary Создать тариф
// @Tags Admin
// @Accept  json
// @Produce  json
// @Param request body models.TariffInput true "Тариф"
// @Success 201 {object} response.Response{data=TariffsView}
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /api/admin/tariffs [post]
func (h *Handler) CreateTariff(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.admin.create_tariff")

	var in models.TariffInput
	if !request.Decode(w, r, log, h.validate, &in) {
		return
	}
	st := middlewarectx.StateFrom(r.Context())

	page, err := h.tariffsPage(r, log)
	if err != nil {
		fail(w, r, log, err)
		return
	}
	page.Tariffs, err = h.service.CreateTariff(r.Context(), st.Token, page.Tariffs, in)
	if err != nil {
		fail(w, r, log, err)
		return
	}
	h.put(r.Context(), log, st.SessionID, viewTariffs, page)
	log.Info("tariff created", slog.String("name", in.Name))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.OKWithData(tariffsView(page)))
}

// UpdateTariff godoc
// @Summary Изменить тариф
// @Tags Admin
// @Accept  json
// @Produce  json
// @Param id path int true "ID тарифа"
// @Param request body models.TariffInput true "Тариф"
// @Success 200 {object} response.Response{data=TariffsView}
// @Router /api/admin/tariffs/{id} [put]
func (h *Handler) UpdateTariff(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.admin.update_tariff")
	id, ok := request.ID(w, r, log, "id")
	if !ok {
		return
	}
	var in models.TariffInput
	if !request.Decode(w, r, log, h.validate, &in) {
		return
	}
	st := middlewarectx.StateFrom(r.Context())

	page, err := h.tariffsPage(r, log)
	if err != nil {
		fail(w, r, log, err)
		return
	}
	page.Tariffs, err = h.service.UpdateTariff(r.Context(), st.Token, page.Tariffs, id, in)
	if err != nil {
		fail(w, r, log, err)
		return
	}
	h.put(r.Context(), log, st.SessionID, viewTariffs, page)
	render.JSON(w, r, response.OKWithData(tariffsView(page)))
}

// DeleteTariff godoc
// @Summary Удалить тариф
// @Tags Admin
// @Produce  json
// @Param id path int true "ID тарифа"
// @Param confirm query string false "yes"
// @Success 200 {object} response.Response{data=TariffsView}
// @Failure 428 {object} response.Response{data=response.Confirm}
// @Router /api/admin/tariffs/{id} [delete]
func (h *Handler) DeleteTariff(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.admin.delete_tariff")
	id, ok := request.ID(w, r, log, "id")
	if !ok {
		return
	}
	if !request.Confirmed(w, r, adminsvc.DeleteTariffPrompt) {
		return
	}
	st := middlewarectx.StateFrom(r.Context())

	page, err := h.tariffsPage(r, log)
	if err != nil {
		fail(w, r, log, err)
		return
	}
	page.Tariffs, err = h.service.DeleteTariff(r.Context(), st.Token, page.Tariffs, id)
	if err != nil {
		fail(w, r, log, err)
		return
	}
	h.put(r.Context(), log, st.SessionID, viewTariffs, page)
	log.Info("tariff deleted", slog.Int("tariff_id", id))
	render.JSON(w, r, response.OKWithData(tariffsView(page)))
}
