package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"vigia/internal/models"
	"vigia/internal/services"
	helpers "vigia/internal/utils/helpers"

	"github.com/gorilla/mux"
)

type CameraHandler struct {
	cameras *services.CameraService
}

func NewCameraHandler(cameras *services.CameraService) *CameraHandler {
	return &CameraHandler{cameras: cameras}
}

// List godoc
// @Summary Lista câmeras do condomínio
// @Tags cameras
// @Security ApiKeyAuth
// @Produce json
// @Param all query bool false "Incluir câmeras inativas (apenas admin vê diferença)"
// @Success 200 {array} models.Camera
// @Router /api/cameras [get]
func (h *CameraHandler) List(w http.ResponseWriter, r *http.Request) {
	includeInactive := r.URL.Query().Get("all") == "true"
	cams, err := h.cameras.List(r.Context(), includeInactive)
	if err != nil {
		helpers.Error(w, http.StatusInternalServerError, services.MapError(err))
		return
	}
	helpers.JSON(w, http.StatusOK, cams)
}

// Get godoc
// @Summary Detalhe de uma câmera
// @Tags cameras
// @Security ApiKeyAuth
// @Produce json
// @Param id path int true "ID da câmera"
// @Success 200 {object} models.Camera
// @Failure 404 {string} string "Não encontrada"
// @Router /api/cameras/{id} [get]
func (h *CameraHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		helpers.Error(w, http.StatusBadRequest, services.MsgInvalidInput)
		return
	}
	cam, err := h.cameras.Get(r.Context(), id)
	if err != nil {
		helpers.Error(w, http.StatusNotFound, services.MapError(err))
		return
	}
	helpers.JSON(w, http.StatusOK, cam)
}

// Create godoc
// @Summary Cadastra uma câmera (admin)
// @Tags admin
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param input body models.Camera true "Câmera"
// @Success 201 {object} models.Camera
// @Router /api/admin/cameras [post]
func (h *CameraHandler) Create(w http.ResponseWriter, r *http.Request) {
	var cam models.Camera
	if err := json.NewDecoder(r.Body).Decode(&cam); err != nil {
		helpers.Error(w, http.StatusBadRequest, services.MsgInvalidInput)
		return
	}
	if cam.Name == "" || cam.StreamURL == "" {
		helpers.Error(w, http.StatusBadRequest, "Nome e URL do stream são obrigatórios")
		return
	}
	if err := h.cameras.Create(r.Context(), &cam); err != nil {
		helpers.Error(w, http.StatusInternalServerError, services.MapError(err))
		return
	}
	helpers.JSON(w, http.StatusCreated, cam)
}

// Update godoc
// @Summary Atualiza uma câmera (admin)
// @Tags admin
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path int true "ID da câmera"
// @Param input body models.UpdateCameraRequest true "Campos a atualizar"
// @Success 200 {string} string "OK"
// @Router /api/admin/cameras/{id} [patch]
func (h *CameraHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		helpers.Error(w, http.StatusBadRequest, services.MsgInvalidInput)
		return
	}
	var input models.UpdateCameraRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		helpers.Error(w, http.StatusBadRequest, services.MsgInvalidInput)
		return
	}
	if err := h.cameras.Update(r.Context(), id, &input); err != nil {
		helpers.Error(w, http.StatusInternalServerError, services.MapError(err))
		return
	}
	helpers.JSON(w, http.StatusOK, "ok")
}

// Delete godoc
// @Summary Remove uma câmera (admin)
// @Tags admin
// @Security ApiKeyAuth
// @Produce json
// @Param id path int true "ID da câmera"
// @Success 200 {string} string "OK"
// @Router /api/admin/cameras/{id} [delete]
func (h *CameraHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		helpers.Error(w, http.StatusBadRequest, services.MsgInvalidInput)
		return
	}
	if err := h.cameras.Delete(r.Context(), id); err != nil {
		helpers.Error(w, http.StatusInternalServerError, services.MapError(err))
		return
	}
	helpers.JSON(w, http.StatusOK, "ok")
}
