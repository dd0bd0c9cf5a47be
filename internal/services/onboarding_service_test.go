package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"vigia/internal/models"
)

// Mocks da adesão
type mockOnboardingUsers struct {
	user        *models.User
	transitions []string
	approved    bool
}

func (m *mockOnboardingUsers) GetUserByID(_ context.Context, id int) (*models.User, error) {
	if m.user == nil || m.user.ID != id {
		return nil, errors.New("not found")
	}
	return m.user, nil
}

func (m *mockOnboardingUsers) TransitionInitialPaymentStatus(_ context.Context, _ int, from, to string) (bool, error) {
	if m.user.InitialPaymentStatus != from {
		return false, nil
	}
	m.user.InitialPaymentStatus = to
	m.transitions = append(m.transitions, from+"->"+to)
	return true, nil
}

func (m *mockOnboardingUsers) ApproveUser(_ context.Context, _ int, _ time.Time) error {
	m.user.IsApproved = true
	m.user.InitialPaymentStatus = models.PaymentStatusPaid
	m.approved = true
	return nil
}

type mockOnboardingPayments struct {
	charges []*models.Payment
	touched int
}

func (m *mockOnboardingPayments) TouchInitialSelfReport(_ context.Context, _ int) error {
	m.touched++
	return nil
}

func (m *mockOnboardingPayments) ListByUser(_ context.Context, _ int) ([]*models.Payment, error) {
	return m.charges, nil
}

type mockAudit struct {
	logs []*models.AdminLog
}

func (m *mockAudit) InsertLog(_ context.Context, l *models.AdminLog) error {
	m.logs = append(m.logs, l)
	return nil
}

func newOnboardingFixture(status string) (*OnboardingService, *mockOnboardingUsers, *mockOnboardingPayments, *mockAudit) {
	users := &mockOnboardingUsers{user: &models.User{
		ID:                   7,
		FullName:             "João da Silva",
		InitialPaymentStatus: status,
	}}
	payments := &mockOnboardingPayments{charges: []*models.Payment{{
		ID:          1,
		UserID:      7,
		Amount:      132.00,
		Status:      models.ChargeStatusPending,
		PaymentType: models.PaymentTypeInitial,
	}}}
	audit := &mockAudit{}
	pix := NewPixService("chave@vigia.com.br", "ASSOC VIGIA", "SAO PAULO")
	svc := NewOnboardingService(users, payments, audit, nil, pix)
	return svc, users, payments, audit
}

func TestSelfReportPayment_FromUnpaid(t *testing.T) {
	svc, users, payments, _ := newOnboardingFixture(models.PaymentStatusUnpaid)

	if err := svc.SelfReportPayment(context.Background(), 7); err != nil {
		t.Fatalf("autodeclaração falhou: %v", err)
	}
	if users.user.InitialPaymentStatus != models.PaymentStatusPending {
		t.Fatalf("status esperado pending, veio %s", users.user.InitialPaymentStatus)
	}
	if payments.touched != 1 {
		t.Fatal("anotação na cobrança não foi feita")
	}
}

func TestSelfReportPayment_AlreadyPending(t *testing.T) {
	svc, users, _, _ := newOnboardingFixture(models.PaymentStatusPending)

	err := svc.SelfReportPayment(context.Background(), 7)
	if !errors.Is(err, ErrAlreadyReported) {
		t.Fatalf("esperava ErrAlreadyReported, veio %v", err)
	}
	if len(users.transitions) != 0 {
		t.Fatal("transição indevida registrada")
	}
}

func TestSelfReportPayment_NeverJumpsToPaid(t *testing.T) {
	svc, users, _, _ := newOnboardingFixture(models.PaymentStatusUnpaid)

	_ = svc.SelfReportPayment(context.Background(), 7)
	if users.user.InitialPaymentStatus == models.PaymentStatusPaid {
		t.Fatal("autodeclaração nunca pode marcar como pago")
	}
	// segunda chamada também não pode avançar
	err := svc.SelfReportPayment(context.Background(), 7)
	if !errors.Is(err, ErrAlreadyReported) {
		t.Fatalf("repetição deveria ser rejeitada, veio %v", err)
	}
}

func TestApproveUser_SetsBothFlags(t *testing.T) {
	svc, users, _, audit := newOnboardingFixture(models.PaymentStatusPending)

	if err := svc.ApproveUser(context.Background(), 1, 7); err != nil {
		t.Fatalf("aprovação falhou: %v", err)
	}
	if !users.user.IsApproved || users.user.InitialPaymentStatus != models.PaymentStatusPaid {
		t.Fatal("aprovação deve marcar is_approved e initial_payment_status juntos")
	}
	if len(audit.logs) != 1 || audit.logs[0].Action != "approve_user" {
		t.Fatal("aprovação não deixou rastro na auditoria")
	}
}

func TestApproveUser_Idempotent(t *testing.T) {
	svc, users, _, audit := newOnboardingFixture(models.PaymentStatusPaid)
	users.user.IsApproved = true

	if err := svc.ApproveUser(context.Background(), 1, 7); err != nil {
		t.Fatalf("reaprovação deveria ser no-op: %v", err)
	}
	if users.approved {
		t.Fatal("reaprovação não pode tocar o repositório")
	}
	if len(audit.logs) != 0 {
		t.Fatal("reaprovação não pode gerar auditoria nova")
	}
}

func TestGetInitialCharge_PixOnlyWhileUnpaid(t *testing.T) {
	svc, _, payments, _ := newOnboardingFixture(models.PaymentStatusUnpaid)

	info, err := svc.GetInitialCharge(context.Background(), 7)
	if err != nil {
		t.Fatalf("consulta da cobrança falhou: %v", err)
	}
	if info.PixPayload == "" {
		t.Fatal("cobrança pendente precisa vir com payload PIX")
	}

	payments.charges[0].Status = models.ChargeStatusPaid
	info, err = svc.GetInitialCharge(context.Background(), 7)
	if err != nil {
		t.Fatalf("consulta da cobrança falhou: %v", err)
	}
	if info.PixPayload != "" {
		t.Fatal("cobrança quitada não deve trazer payload PIX")
	}
}
