package admin

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/stealthnet-panel/internal/http/handlers/request"
	"github.com/magabrotheeeer/stealthnet-panel/internal/http/middlewarectx"
	"github.com/magabrotheeeer/stealthnet-panel/internal/http/response"
	"github.com/magabrotheeeer/stealthnet-panel/internal/lib/sl"
	"github.com/magabrotheeeer/stealthnet-panel/internal/models"
	adminsvc "github.com/magabrotheeeer/stealthnet-panel/internal/services/admin"
)

// Settings все настройки для страницы настроек.
type Settings struct {
	Referral       models.ReferralSettings `json:"referral"`
	System         models.SystemSettings   `json:"system"`
	TariffFeatures models.TariffFeatures   `json:"tariff_features"`
}

// Settings godoc
// @Summary Настройки
// @Description Реферальные и системные настройки и преимущества уровней тарифов.
// @Tags Admin
// @Produce  json
// @Success 200 {object} response.Response{data=Settings}
// @Router /api/admin/settings [get]
func (h *Handler) Settings(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.admin.settings")
	st := middlewarectx.StateFrom(r.Context())
	ctx := r.Context()

	referral, err := h.service.ReferralSettings(ctx, st.Token)
	if err != nil {
		fail(w, r, log, err)
		return
	}
	system, err := h.service.SystemSettings(ctx, st.Token)
	if err != nil {
		fail(w, r, log, err)
		return
	}
	// Ошибку преимуществ сервис закрывает значениями по умолчанию.
	features, err := h.service.TariffFeatures(ctx, st.Token)
	if err != nil {
		log.Warn("tariff features fallback", sl.Err(err))
	}

	render.JSON(w, r, response.OKWithData(Settings{Referral: referral, System: system, TariffFeatures: features}))
}

// SaveReferral godoc
// @Summary Сохранить реферальные настройки
// @Tags Admin
// @Accept  json
// @Produce  json
// @Param request body models.ReferralSettings true "Настройки"
// @Success 200 {object} response.Response{data=models.ReferralSettings}
// @Router /api/admin/settings/referral [put]
func (h *Handler) SaveReferral(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.admin.save_referral")

	var in models.ReferralSettings
	if !request.Decode(w, r, log, h.validate, &in) {
		return
	}
	st := middlewarectx.StateFrom(r.Context())

	saved, err := h.service.SaveReferralSettings(r.Context(), st.Token, in)
	if err != nil {
		fail(w, r, log, err)
		return
	}
	log.Info("referral settings saved")
	render.JSON(w, r, response.OKWithData(saved))
}

// SaveSystem godoc
// @Summary Сохранить системные настройки
// @Description Язык и валюта по умолчанию для новых пользователей.
// @Tags Admin
// @Accept  json
// @Produce  json
// @Param request body models.SystemSettings true "Настройки"
// @Success 200 {object} response.Response{data=models.SystemSettings}
// @Router /api/admin/settings/system [put]
func (h *Handler) SaveSystem(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.admin.save_system")

	var in models.SystemSettings
	if !request.Decode(w, r, log, h.validate, &in) {
		return
	}
	st := middlewarectx.StateFrom(r.Context())

	if err := h.service.SaveSystemSettings(r.Context(), st.Token, in); err != nil {
		fail(w, r, log, err)
		return
	}
	log.Info("system settings saved")
	render.JSON(w, r, response.OKWithData(in))
}

// SaveTariffFeatures godoc
// @Summary Сохранить преимущества уровней
// @Description Пустые строки отбрасываются, каждый уровень присутствует в ответе.
// @Tags Admin
// @Accept  json
// @Produce  json
// @Param request body models.TariffFeatures true "Преимущества по уровням"
// @Success 200 {object} response.Response{data=models.TariffFeatures}
// @Router /api/admin/settings/tariff-features [put]
func (h *Handler) SaveTariffFeatures(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.admin.save_tariff_features")

	var in models.TariffFeatures
	if !request.Decode(w, r, log, nil, &in) {
		return
	}
	for tier := range in {
		if !tier.Valid() {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("Неизвестный уровень тарифа: "+string(tier)))
			return
		}
	}
	st := middlewarectx.StateFrom(r.Context())

	saved, err := h.service.SaveTariffFeatures(r.Context(), st.Token, in)
	if err != nil {
		fail(w, r, log, err)
		return
	}
	render.JSON(w, r, response.OKWithData(saved))
}

// Broadcast godoc
// @Summary Рассылка
// @Description Для получателей custom адреса берутся из custom_emails построчно.
// @Tags Admin
// @Accept  json
// @Produce  json
// @Param request body models.Broadcast true "Рассылка"
// @Success 200 {object} response.Response{data=models.BroadcastResult}
// @Failure 400 {object} response.ErrorResponse "Нет получателей"
// @Router /api/admin/broadcast [post]
func (h *Handler) Broadcast(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.admin.broadcast")

	var in models.Broadcast
	if !request.Decode(w, r, log, h.validate, &in) {
		return
	}
	st := middlewarectx.StateFrom(r.Context())

	res, err := h.service.Broadcast(r.Context(), st.Token, in)
	if errors.Is(err, adminsvc.ErrNoRecipients) {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("Укажите хотя бы один адрес получателя"))
		return
	}
	if err != nil {
		fail(w, r, log, err)
		return
	}
	render.JSON(w, r, response.OKWithData(res))
}
