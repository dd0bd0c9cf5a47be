package handlers

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"

	"vigia/internal/logger"
	"vigia/internal/services"
	helpers "vigia/internal/utils/helpers"

	"go.uber.org/zap"
)

// WebhookHandler recebe o aviso de pagamento confirmado (ex.: conciliação
// bancária externa). Autenticado por token fixo de serviço, não por JWT de
// usuário.
type WebhookHandler struct {
	onboarding *services.OnboardingService
	payments   *services.PaymentService
	notifier   *services.Notifier
	token      string
}

func NewWebhookHandler(onboarding *services.OnboardingService, payments *services.PaymentService, notifier *services.Notifier, token string) *WebhookHandler {
	return &WebhookHandler{
		onboarding: onboarding,
		payments:   payments,
		notifier:   notifier,
		token:      token,
	}
}

type paymentWebhook struct {
	Event     string `json:"event"` // payment.confirmed
	UserID    int    `json:"user_id"`
	PaymentID int    `json:"payment_id,omitempty"`
	Type      string `json:"type"` // initial|recurring
}

// HandleWebhook godoc
// @Summary Notificação de pagamento confirmado
// @Description Marca a cobrança como paga; para taxa de adesão, aprova o
// @Description cadastro junto. Exige Bearer token de serviço.
// @Tags payments
// @Accept json
// @Produce json
// @Success 200 {string} string "OK"
// @Failure 400 {string} string "Corpo inválido"
// @Failure 401 {string} string "Token inválido"
// @Router /api/payments/webhook [post]
func (h *WebhookHandler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	auth := r.Header.Get("Authorization")
	token := strings.TrimPrefix(auth, "Bearer ")
	if h.token == "" || subtle.ConstantTimeCompare([]byte(token), []byte(h.token)) != 1 {
		logger.Log.Warn("Webhook com token inválido")
		helpers.Error(w, http.StatusUnauthorized, "Token inválido")
		return
	}

	var webhook paymentWebhook
	if err := json.NewDecoder(r.Body).Decode(&webhook); err != nil {
		logger.Log.Error("Erro ao decodificar webhook", zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, "JSON inválido")
		return
	}

	logger.Log.Info("Webhook recebido",
		zap.String("event", webhook.Event),
		zap.Int("user_id", webhook.UserID),
		zap.String("type", webhook.Type),
	)

	if webhook.Event != "payment.confirmed" || webhook.UserID <= 0 {
		helpers.Error(w, http.StatusBadRequest, "Evento não suportado")
		return
	}

	switch webhook.Type {
	case "initial":
		// pagamento de adesão confirmado por fora: aprova como o admin faria
		// (admin_id 0 = sistema)
		if err := h.onboarding.ApproveUser(r.Context(), 0, webhook.UserID); err != nil {
			logger.Log.Error("Webhook: falha ao aprovar cadastro", zap.Error(err), zap.Int("user_id", webhook.UserID))
			helpers.Error(w, http.StatusInternalServerError, services.MapError(err))
			return
		}
	default:
		if webhook.PaymentID <= 0 {
			helpers.Error(w, http.StatusBadRequest, "payment_id obrigatório para cobrança recorrente")
			return
		}
		if err := h.payments.MarkPaid(r.Context(), webhook.PaymentID); err != nil {
			logger.Log.Error("Webhook: falha ao quitar cobrança", zap.Error(err), zap.Int("payment_id", webhook.PaymentID))
			helpers.Error(w, http.StatusInternalServerError, services.MapError(err))
			return
		}
	}

	if h.notifier != nil {
		h.notifier.NotifyAdmins(r.Context(), "Pagamento confirmado",
			"Pagamento confirmado via integração externa", "payment_webhook", &webhook.UserID)
	}

	helpers.JSON(w, http.StatusOK, "ok")
}
