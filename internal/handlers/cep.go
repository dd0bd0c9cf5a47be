package handlers

import (
	"net/http"

	"vigia/internal/services"
	helpers "vigia/internal/utils/helpers"

	"github.com/gorilla/mux"
)

type CEPHandler struct {
	cep *services.CEPService
}

func NewCEPHandler(cep *services.CEPService) *CEPHandler {
	return &CEPHandler{cep: cep}
}

// Lookup godoc
// @Summary Consulta endereço por CEP
// @Description Proxy da consulta de CEP usada no formulário de cadastro.
// @Tags public
// @Produce json
// @Param cep path string true "CEP com 8 dígitos"
// @Success 200 {object} services.CEPResult
// @Failure 404 {string} string "CEP não encontrado"
// @Router /api/cep/{cep} [get]
func (h *CEPHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	result, err := h.cep.Lookup(r.Context(), mux.Vars(r)["cep"])
	if err != nil {
		helpers.Error(w, http.StatusNotFound, "CEP não encontrado")
		return
	}
	helpers.JSON(w, http.StatusOK, result)
}
