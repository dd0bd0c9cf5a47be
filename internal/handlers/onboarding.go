package handlers

import (
	"errors"
	"net/http"

	"vigia/internal/logger"
	"vigia/internal/middleware"
	"vigia/internal/services"
	helpers "vigia/internal/utils/helpers"

	"go.uber.org/zap"
)

type OnboardingHandler struct {
	onboarding *services.OnboardingService
}

func NewOnboardingHandler(onboarding *services.OnboardingService) *OnboardingHandler {
	return &OnboardingHandler{onboarding: onboarding}
}

// InitialCharge godoc
// @Summary Cobrança da taxa de adesão com QR PIX
// @Tags onboarding
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} services.InitialChargeInfo
// @Failure 404 {string} string "Cobrança não encontrada"
// @Router /api/onboarding/charge [get]
func (h *OnboardingHandler) InitialCharge(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(middleware.ContextUserID).(int)

	info, err := h.onboarding.GetInitialCharge(r.Context(), userID)
	if err != nil {
		helpers.Error(w, http.StatusNotFound, services.MapError(err))
		return
	}
	helpers.JSON(w, http.StatusOK, info)
}

// SelfReportPayment godoc
// @Summary Morador declara que pagou a taxa de adesão
// @Description Transição unpaid -> pending. Nunca marca como pago direto; a
// @Description confirmação é feita pelo admin na aprovação.
// @Tags onboarding
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {string} string "Pagamento declarado"
// @Failure 409 {string} string "Pagamento já declarado"
// @Router /api/onboarding/report-payment [post]
func (h *OnboardingHandler) SelfReportPayment(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(middleware.ContextUserID).(int)

	err := h.onboarding.SelfReportPayment(r.Context(), userID)
	if errors.Is(err, services.ErrAlreadyReported) {
		helpers.Error(w, http.StatusConflict, "Pagamento já declarado ou cadastro já aprovado")
		return
	}
	if err != nil {
		logger.Log.Error("Erro na autodeclaração", zap.Error(err), zap.Int("user_id", userID))
		helpers.Error(w, http.StatusInternalServerError, services.MapError(err))
		return
	}
	helpers.JSON(w, http.StatusOK, "Pagamento declarado. Aguarde a confirmação da administração.")
}
