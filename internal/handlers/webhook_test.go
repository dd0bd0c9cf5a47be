package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"vigia/internal/models"
	"vigia/internal/services"
)

type webhookUserRepo struct {
	user     *models.User
	approved bool
}

func (m *webhookUserRepo) GetUserByID(_ context.Context, _ int) (*models.User, error) {
	return m.user, nil
}

func (m *webhookUserRepo) TransitionInitialPaymentStatus(_ context.Context, _ int, _, _ string) (bool, error) {
	return false, nil
}

func (m *webhookUserRepo) ApproveUser(_ context.Context, _ int, _ time.Time) error {
	m.approved = true
	m.user.IsApproved = true
	m.user.InitialPaymentStatus = models.PaymentStatusPaid
	return nil
}

type webhookChargeRepo struct{}

func (m *webhookChargeRepo) TouchInitialSelfReport(_ context.Context, _ int) error { return nil }
func (m *webhookChargeRepo) ListByUser(_ context.Context, _ int) ([]*models.Payment, error) {
	return nil, nil
}

type webhookPaymentRepo struct {
	paidIDs []int
}

func (m *webhookPaymentRepo) CreatePayment(_ context.Context, _ *models.Payment) error { return nil }
func (m *webhookPaymentRepo) GetByID(_ context.Context, _ int) (*models.Payment, error) {
	return nil, nil
}
func (m *webhookPaymentRepo) ListByUser(_ context.Context, _ int) ([]*models.Payment, error) {
	return nil, nil
}
func (m *webhookPaymentRepo) ListAllPaginated(_ context.Context, _ string, _, _ int) ([]*models.Payment, int, error) {
	return nil, 0, nil
}
func (m *webhookPaymentRepo) UpdatePaymentFields(_ context.Context, _ int, _ *models.UpdatePaymentRequest) error {
	return nil
}

func (m *webhookPaymentRepo) MarkPaid(_ context.Context, id int, _ time.Time) error {
	m.paidIDs = append(m.paidIDs, id)
	return nil
}

func (m *webhookPaymentRepo) MarkOverdue(_ context.Context, _ time.Time) (int64, error) {
	return 0, nil
}

func (m *webhookPaymentRepo) GenerateMonthly(_ context.Context, _ float64, _ time.Time, _ string) (int64, error) {
	return 0, nil
}

func newWebhookFixture(token string) (*WebhookHandler, *webhookUserRepo, *webhookPaymentRepo) {
	users := &webhookUserRepo{user: &models.User{
		ID:                   7,
		FullName:             "Maria da Silva",
		InitialPaymentStatus: models.PaymentStatusPending,
	}}
	onboarding := services.NewOnboardingService(users, &webhookChargeRepo{}, nil, nil, nil)
	payments := &webhookPaymentRepo{}
	paymentSvc := services.NewPaymentService(payments, services.NewPixService("chave@vigia.com.br", "Vigia", "Sao Paulo"))
	h := NewWebhookHandler(onboarding, paymentSvc, nil, token)
	return h, users, payments
}

func postWebhook(h *WebhookHandler, token, body string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodPost, "/api/payments/webhook", strings.NewReader(body))
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.HandleWebhook(w, r)
	return w
}

func TestWebhook_WrongToken(t *testing.T) {
	h, users, payments := newWebhookFixture("segredo")

	w := postWebhook(h, "errado", `{"event":"payment.confirmed","user_id":7,"type":"initial"}`)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("token errado tem que dar 401, veio %d", w.Code)
	}
	if users.approved || len(payments.paidIDs) > 0 {
		t.Fatal("nada pode ser processado sem token válido")
	}
}

func TestWebhook_EmptyConfiguredToken(t *testing.T) {
	// sem WEBHOOK_TOKEN configurado o endpoint fica fechado, não aberto
	h, _, _ := newWebhookFixture("")

	w := postWebhook(h, "", `{"event":"payment.confirmed","user_id":7,"type":"initial"}`)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("token vazio no config tem que dar 401, veio %d", w.Code)
	}
}

func TestWebhook_MalformedBody(t *testing.T) {
	h, _, _ := newWebhookFixture("segredo")

	w := postWebhook(h, "segredo", `{"event":`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("corpo quebrado tem que dar 400, veio %d", w.Code)
	}
}

func TestWebhook_UnsupportedEvent(t *testing.T) {
	h, users, _ := newWebhookFixture("segredo")

	w := postWebhook(h, "segredo", `{"event":"payment.refunded","user_id":7,"type":"initial"}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("evento desconhecido tem que dar 400, veio %d", w.Code)
	}
	if users.approved {
		t.Fatal("evento desconhecido não pode aprovar cadastro")
	}
}

func TestWebhook_InitialApprovesUser(t *testing.T) {
	h, users, payments := newWebhookFixture("segredo")

	w := postWebhook(h, "segredo", `{"event":"payment.confirmed","user_id":7,"type":"initial"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("esperava 200, veio %d: %s", w.Code, w.Body.String())
	}
	if !users.approved {
		t.Fatal("taxa de adesão confirmada tem que aprovar o cadastro")
	}
	if len(payments.paidIDs) > 0 {
		t.Fatal("adesão não passa pelo caminho de cobrança recorrente")
	}
}

func TestWebhook_RecurringMarksCharge(t *testing.T) {
	h, users, payments := newWebhookFixture("segredo")

	w := postWebhook(h, "segredo", `{"event":"payment.confirmed","user_id":7,"payment_id":31,"type":"recurring"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("esperava 200, veio %d: %s", w.Code, w.Body.String())
	}
	if len(payments.paidIDs) != 1 || payments.paidIDs[0] != 31 {
		t.Fatalf("cobrança 31 deveria ter sido quitada, veio %v", payments.paidIDs)
	}
	if users.approved {
		t.Fatal("mensalidade não mexe na aprovação do cadastro")
	}
}

func TestWebhook_RecurringWithoutPaymentID(t *testing.T) {
	h, _, payments := newWebhookFixture("segredo")

	w := postWebhook(h, "segredo", `{"event":"payment.confirmed","user_id":7,"type":"recurring"}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("recorrente sem payment_id tem que dar 400, veio %d", w.Code)
	}
	if len(payments.paidIDs) > 0 {
		t.Fatal("nenhuma cobrança podia ser quitada")
	}
}
