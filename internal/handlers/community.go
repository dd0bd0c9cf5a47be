package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"vigia/internal/middleware"
	"vigia/internal/models"
	"vigia/internal/services"
	helpers "vigia/internal/utils/helpers"

	"github.com/gorilla/mux"
)

type CommunityHandler struct {
	community *services.CommunityService
}

func NewCommunityHandler(community *services.CommunityService) *CommunityHandler {
	return &CommunityHandler{community: community}
}

// --- SOS Pets ---

// RegisterPet godoc
// @Summary Registra um pet perdido
// @Tags community
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param input body models.SosPet true "Pet"
// @Success 201 {object} models.SosPet
// @Router /api/pets [post]
func (h *CommunityHandler) RegisterPet(w http.ResponseWriter, r *http.Request) {
	var pet models.SosPet
	if err := json.NewDecoder(r.Body).Decode(&pet); err != nil {
		helpers.Error(w, http.StatusBadRequest, services.MsgInvalidInput)
		return
	}
	pet.UserID = r.Context().Value(middleware.ContextUserID).(int)

	if err := h.community.RegisterLostPet(r.Context(), &pet); err != nil {
		helpers.Error(w, http.StatusBadRequest, services.MapError(err))
		return
	}
	helpers.JSON(w, http.StatusCreated, pet)
}

// ListPets godoc
// @Summary Lista pets perdidos
// @Tags community
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {array} models.SosPet
// @Router /api/pets [get]
func (h *CommunityHandler) ListPets(w http.ResponseWriter, r *http.Request) {
	pets, err := h.community.ListLostPets(r.Context())
	if err != nil {
		helpers.Error(w, http.StatusInternalServerError, services.MapError(err))
		return
	}
	helpers.JSON(w, http.StatusOK, pets)
}

type petStatusRequest struct {
	Status string `json:"status"` // lost|found
}

// UpdatePetStatus godoc
// @Summary Atualiza o status do pet (somente o dono)
// @Tags community
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path int true "ID do registro"
// @Param input body petStatusRequest true "Novo status"
// @Success 200 {string} string "OK"
// @Failure 403 {string} string "Registro não pertence a você"
// @Router /api/pets/{id}/status [patch]
func (h *CommunityHandler) UpdatePetStatus(w http.ResponseWriter, r *http.Request) {
	petID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		helpers.Error(w, http.StatusBadRequest, services.MsgInvalidInput)
		return
	}
	var req petStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		helpers.Error(w, http.StatusBadRequest, services.MsgInvalidInput)
		return
	}

	userID := r.Context().Value(middleware.ContextUserID).(int)
	err = h.community.UpdatePetStatus(r.Context(), petID, userID, req.Status)
	if errors.Is(err, services.ErrNotOwner) {
		helpers.Error(w, http.StatusForbidden, services.ErrNotOwner.Error())
		return
	}
	if err != nil {
		helpers.Error(w, http.StatusBadRequest, services.MapError(err))
		return
	}
	helpers.JSON(w, http.StatusOK, "ok")
}

// DeletePet godoc
// @Summary Remove um registro de pet (somente o dono)
// @Tags community
// @Security ApiKeyAuth
// @Produce json
// @Param id path int true "ID do registro"
// @Success 200 {string} string "OK"
// @Failure 403 {string} string "Registro não pertence a você"
// @Router /api/pets/{id} [delete]
func (h *CommunityHandler) DeletePet(w http.ResponseWriter, r *http.Request) {
	petID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		helpers.Error(w, http.StatusBadRequest, services.MsgInvalidInput)
		return
	}
	userID := r.Context().Value(middleware.ContextUserID).(int)

	err = h.community.DeletePet(r.Context(), petID, userID)
	if errors.Is(err, services.ErrNotOwner) {
		helpers.Error(w, http.StatusForbidden, services.ErrNotOwner.Error())
		return
	}
	if err != nil {
		helpers.Error(w, http.StatusInternalServerError, services.MapError(err))
		return
	}
	helpers.JSON(w, http.StatusOK, "ok")
}

// --- Denúncias anônimas ---

// SubmitReport godoc
// @Summary Envia uma denúncia anônima
// @Description O autor fica registrado apenas para auditoria interna e nunca
// @Description aparece nas listagens.
// @Tags community
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param input body models.AnonymousReport true "Denúncia"
// @Success 201 {string} string "Recebida"
// @Router /api/reports [post]
func (h *CommunityHandler) SubmitReport(w http.ResponseWriter, r *http.Request) {
	var rep models.AnonymousReport
	if err := json.NewDecoder(r.Body).Decode(&rep); err != nil {
		helpers.Error(w, http.StatusBadRequest, services.MsgInvalidInput)
		return
	}
	rep.AuthorID = r.Context().Value(middleware.ContextUserID).(int)

	if err := h.community.SubmitReport(r.Context(), &rep); err != nil {
		helpers.Error(w, http.StatusBadRequest, services.MapError(err))
		return
	}
	helpers.JSON(w, http.StatusCreated, "Denúncia recebida")
}

// ListReports godoc
// @Summary Lista denúncias anônimas (admin)
// @Tags admin
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {array} models.AnonymousReport
// @Router /api/admin/reports [get]
func (h *CommunityHandler) ListReports(w http.ResponseWriter, r *http.Request) {
	reports, err := h.community.ListReports(r.Context())
	if err != nil {
		helpers.Error(w, http.StatusInternalServerError, services.MapError(err))
		return
	}
	helpers.JSON(w, http.StatusOK, reports)
}

// --- Contatos de utilidade pública ---

// ListContacts godoc
// @Summary Contatos de utilidade pública
// @Tags community
// @Produce json
// @Success 200 {array} models.UtilityContact
// @Router /api/contacts [get]
func (h *CommunityHandler) ListContacts(w http.ResponseWriter, r *http.Request) {
	contacts, err := h.community.ListContacts(r.Context())
	if err != nil {
		helpers.Error(w, http.StatusInternalServerError, services.MapError(err))
		return
	}
	helpers.JSON(w, http.StatusOK, contacts)
}

// CreateContact godoc
// @Summary Cadastra contato de utilidade pública (admin)
// @Tags admin
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param input body models.UtilityContact true "Contato"
// @Success 201 {object} models.UtilityContact
// @Router /api/admin/contacts [post]
func (h *CommunityHandler) CreateContact(w http.ResponseWriter, r *http.Request) {
	var c models.UtilityContact
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		helpers.Error(w, http.StatusBadRequest, services.MsgInvalidInput)
		return
	}
	if c.Name == "" || c.Phone == "" {
		helpers.Error(w, http.StatusBadRequest, "Nome e telefone são obrigatórios")
		return
	}
	if err := h.community.CreateContact(r.Context(), &c); err != nil {
		helpers.Error(w, http.StatusInternalServerError, services.MapError(err))
		return
	}
	helpers.JSON(w, http.StatusCreated, c)
}

// UpdateContact godoc
// @Summary Atualiza contato de utilidade pública (admin)
// @Tags admin
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path int true "ID do contato"
// @Param input body models.UtilityContact true "Contato"
// @Success 200 {string} string "OK"
// @Router /api/admin/contacts/{id} [put]
func (h *CommunityHandler) UpdateContact(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		helpers.Error(w, http.StatusBadRequest, services.MsgInvalidInput)
		return
	}
	var c models.UtilityContact
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		helpers.Error(w, http.StatusBadRequest, services.MsgInvalidInput)
		return
	}
	c.ID = id
	if err := h.community.UpdateContact(r.Context(), &c); err != nil {
		helpers.Error(w, http.StatusInternalServerError, services.MapError(err))
		return
	}
	helpers.JSON(w, http.StatusOK, "ok")
}

// DeleteContact godoc
// @Summary Remove contato de utilidade pública (admin)
// @Tags admin
// @Security ApiKeyAuth
// @Produce json
// @Param id path int true "ID do contato"
// @Success 200 {string} string "OK"
// @Router /api/admin/contacts/{id} [delete]
func (h *CommunityHandler) DeleteContact(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		helpers.Error(w, http.StatusBadRequest, services.MsgInvalidInput)
		return
	}
	if err := h.community.DeleteContact(r.Context(), id); err != nil {
		helpers.Error(w, http.StatusInternalServerError, services.MapError(err))
		return
	}
	helpers.JSON(w, http.StatusOK, "ok")
}
