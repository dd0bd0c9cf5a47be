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

type PaymentHandler struct {
	payments *services.PaymentService
}

func NewPaymentHandler(payments *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

// MyCharges godoc
// @Summary Cobranças do morador autenticado
// @Description Cobranças pending/overdue vêm com o payload PIX; paid não.
// @Tags payments
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {array} services.ChargeWithPix
// @Router /api/payments [get]
func (h *PaymentHandler) MyCharges(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(middleware.ContextUserID).(int)

	charges, err := h.payments.ListMyCharges(r.Context(), userID)
	if err != nil {
		helpers.Error(w, http.StatusInternalServerError, services.MapError(err))
		return
	}
	helpers.JSON(w, http.StatusOK, charges)
}

// ListAll godoc
// @Summary Lista cobranças de todos os moradores (admin)
// @Tags payments
// @Security ApiKeyAuth
// @Produce json
// @Param status query string false "Filtra por status: pending|paid|overdue"
// @Param page query int false "Página"
// @Param page_size query int false "Tamanho da página"
// @Success 200 {array} models.Payment
// @Router /api/admin/payments [get]
func (h *PaymentHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	payments, total, err := h.payments.ListAll(r.Context(), status, pageSize, (page-1)*pageSize)
	if err != nil {
		helpers.Error(w, http.StatusInternalServerError, services.MapError(err))
		return
	}
	helpers.JSON(w, http.StatusOK, map[string]any{
		"payments": payments,
		"total":    total,
		"page":     page,
	})
}

// UpdatePayment godoc
// @Summary Edita uma cobrança (admin)
// @Tags payments
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path int true "ID da cobrança"
// @Param input body models.UpdatePaymentRequest true "Campos a atualizar"
// @Success 200 {string} string "Cobrança atualizada"
// @Router /api/admin/payments/{id} [patch]
func (h *PaymentHandler) UpdatePayment(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		helpers.Error(w, http.StatusBadRequest, services.MsgInvalidInput)
		return
	}

	var req models.UpdatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		helpers.Error(w, http.StatusBadRequest, services.MsgInvalidInput)
		return
	}

	if err := h.payments.UpdatePayment(r.Context(), id, &req); err != nil {
		helpers.Error(w, http.StatusInternalServerError, services.MapError(err))
		return
	}
	helpers.JSON(w, http.StatusOK, "Cobrança atualizada")
}

type generateChargesRequest struct {
	Amount float64 `json:"amount"`
	DueDay int     `json:"due_day"`
}

// GenerateMonthly godoc
// @Summary Gera as mensalidades do mês (admin)
// @Tags payments
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param input body generateChargesRequest true "Valor e dia de vencimento"
// @Success 200 {object} map[string]int64
// @Router /api/admin/payments/generate [post]
func (h *PaymentHandler) GenerateMonthly(w http.ResponseWriter, r *http.Request) {
	var req generateChargesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		helpers.Error(w, http.StatusBadRequest, services.MsgInvalidInput)
		return
	}
	if req.Amount <= 0 || req.DueDay < 1 || req.DueDay > 28 {
		helpers.Error(w, http.StatusBadRequest, "Informe um valor positivo e dia de vencimento entre 1 e 28")
		return
	}

	created, err := h.payments.GenerateMonthlyCharges(r.Context(), req.Amount, req.DueDay)
	if err != nil {
		helpers.Error(w, http.StatusInternalServerError, services.MapError(err))
		return
	}
	helpers.JSON(w, http.StatusOK, map[string]int64{"created": created})
}
