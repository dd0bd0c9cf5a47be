package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"vigia/internal/middleware"
	"vigia/internal/models"
	"vigia/internal/services"
	helpers "vigia/internal/utils/helpers"

	"github.com/gorilla/mux"
)

type AlertHandler struct {
	emergency *services.EmergencyService
	weather   *services.WeatherService
}

func NewAlertHandler(emergency *services.EmergencyService, weather *services.WeatherService) *AlertHandler {
	return &AlertHandler{emergency: emergency, weather: weather}
}

type triggerAlertRequest struct {
	Kind        string   `json:"kind"`
	Description string   `json:"description"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
}

// Trigger godoc
// @Summary Dispara um alerta de emergência (SOS)
// @Tags alerts
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param input body triggerAlertRequest true "Alerta"
// @Success 201 {object} models.EmergencyAlert
// @Router /api/alerts/emergency [post]
func (h *AlertHandler) Trigger(w http.ResponseWriter, r *http.Request) {
	var req triggerAlertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		helpers.Error(w, http.StatusBadRequest, services.MsgInvalidInput)
		return
	}

	userID := r.Context().Value(middleware.ContextUserID).(int)
	alert := &models.EmergencyAlert{
		UserID:      userID,
		Kind:        req.Kind,
		Description: req.Description,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
	}
	if err := h.emergency.TriggerAlert(r.Context(), alert); err != nil {
		helpers.Error(w, http.StatusBadRequest, services.MapError(err))
		return
	}
	helpers.JSON(w, http.StatusCreated, alert)
}

// ListEmergency godoc
// @Summary Lista alertas de emergência
// @Tags alerts
// @Security ApiKeyAuth
// @Produce json
// @Param active query bool false "Somente alertas ativos"
// @Success 200 {array} models.EmergencyAlert
// @Router /api/alerts/emergency [get]
func (h *AlertHandler) ListEmergency(w http.ResponseWriter, r *http.Request) {
	onlyActive := r.URL.Query().Get("active") == "true"
	alerts, err := h.emergency.ListAlerts(r.Context(), onlyActive)
	if err != nil {
		helpers.Error(w, http.StatusInternalServerError, services.MapError(err))
		return
	}
	helpers.JSON(w, http.StatusOK, alerts)
}

// Resolve godoc
// @Summary Marca um alerta de emergência como resolvido (admin)
// @Tags admin
// @Security ApiKeyAuth
// @Produce json
// @Param id path int true "ID do alerta"
// @Success 200 {string} string "OK"
// @Failure 404 {string} string "Alerta não encontrado ou já resolvido"
// @Router /api/admin/alerts/{id}/resolve [patch]
func (h *AlertHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	alertID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		helpers.Error(w, http.StatusBadRequest, services.MsgInvalidInput)
		return
	}
	adminID := r.Context().Value(middleware.ContextUserID).(int)

	resolved, err := h.emergency.ResolveAlert(r.Context(), alertID, adminID)
	if err != nil {
		helpers.Error(w, http.StatusInternalServerError, services.MapError(err))
		return
	}
	if !resolved {
		helpers.Error(w, http.StatusNotFound, "Alerta não encontrado ou já resolvido")
		return
	}
	helpers.JSON(w, http.StatusOK, "ok")
}

// ListWeather godoc
// @Summary Alertas climáticos vigentes para o condomínio
// @Tags alerts
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {array} models.WeatherAlert
// @Router /api/alerts/weather [get]
func (h *AlertHandler) ListWeather(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.weather.ListCurrent(r.Context())
	if err != nil {
		helpers.Error(w, http.StatusInternalServerError, services.MapError(err))
		return
	}
	helpers.JSON(w, http.StatusOK, alerts)
}
