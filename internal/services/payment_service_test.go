package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"vigia/internal/models"
)

type mockPaymentRepo struct {
	payments map[int]*models.Payment
	lastDue  time.Time
	lastDesc string
}

func (m *mockPaymentRepo) CreatePayment(_ context.Context, p *models.Payment) error {
	p.ID = len(m.payments) + 1
	m.payments[p.ID] = p
	return nil
}

func (m *mockPaymentRepo) GetByID(_ context.Context, id int) (*models.Payment, error) {
	p, ok := m.payments[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return p, nil
}

func (m *mockPaymentRepo) ListByUser(_ context.Context, userID int) ([]*models.Payment, error) {
	var out []*models.Payment
	for _, p := range m.payments {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockPaymentRepo) ListAllPaginated(_ context.Context, _ string, _, _ int) ([]*models.Payment, int, error) {
	return nil, 0, nil
}

func (m *mockPaymentRepo) UpdatePaymentFields(_ context.Context, _ int, _ *models.UpdatePaymentRequest) error {
	return nil
}

func (m *mockPaymentRepo) MarkPaid(_ context.Context, id int, paidAt time.Time) error {
	p, ok := m.payments[id]
	if !ok {
		return errors.New("not found")
	}
	if p.Status != models.ChargeStatusPaid {
		p.Status = models.ChargeStatusPaid
		p.PaidAt = &paidAt
	}
	return nil
}

func (m *mockPaymentRepo) MarkOverdue(_ context.Context, now time.Time) (int64, error) {
	var n int64
	for _, p := range m.payments {
		if p.Status == models.ChargeStatusPending && p.DueDate.Before(now) {
			p.Status = models.ChargeStatusOverdue
			n++
		}
	}
	return n, nil
}

func (m *mockPaymentRepo) GenerateMonthly(_ context.Context, amount float64, dueDate time.Time, description string) (int64, error) {
	m.lastDue = dueDate
	m.lastDesc = description
	return 3, nil
}

func newPaymentFixture() (*PaymentService, *mockPaymentRepo) {
	repo := &mockPaymentRepo{payments: make(map[int]*models.Payment)}
	pix := NewPixService("chave@vigia.com.br", "ASSOC VIGIA", "SAO PAULO")
	return NewPaymentService(repo, pix), repo
}

func TestListMyCharges_PixOnlyForOpenCharges(t *testing.T) {
	svc, repo := newPaymentFixture()
	ctx := context.Background()

	due := time.Now().AddDate(0, 0, 5)
	_ = repo.CreatePayment(ctx, &models.Payment{UserID: 7, Amount: 132, DueDate: due, Status: models.ChargeStatusPending})
	_ = repo.CreatePayment(ctx, &models.Payment{UserID: 7, Amount: 132, DueDate: due, Status: models.ChargeStatusPaid})
	_ = repo.CreatePayment(ctx, &models.Payment{UserID: 7, Amount: 132, DueDate: due, Status: models.ChargeStatusOverdue})

	charges, err := svc.ListMyCharges(ctx, 7)
	if err != nil {
		t.Fatalf("listagem falhou: %v", err)
	}
	if len(charges) != 3 {
		t.Fatalf("esperava 3 cobranças, veio %d", len(charges))
	}
	for _, c := range charges {
		open := c.Status != models.ChargeStatusPaid
		if open && c.PixPayload == "" {
			t.Fatalf("cobrança %s deveria ter payload PIX", c.Status)
		}
		if !open && c.PixPayload != "" {
			t.Fatal("cobrança paga não leva payload PIX")
		}
	}
}

func TestMarkOverdueCharges(t *testing.T) {
	svc, repo := newPaymentFixture()
	ctx := context.Background()

	_ = repo.CreatePayment(ctx, &models.Payment{UserID: 1, DueDate: time.Now().AddDate(0, 0, -3), Status: models.ChargeStatusPending})
	_ = repo.CreatePayment(ctx, &models.Payment{UserID: 2, DueDate: time.Now().AddDate(0, 0, 3), Status: models.ChargeStatusPending})

	n, err := svc.MarkOverdueCharges(ctx)
	if err != nil {
		t.Fatalf("marcação falhou: %v", err)
	}
	if n != 1 {
		t.Fatalf("só a vencida deveria virar overdue, veio %d", n)
	}
}

func TestGenerateMonthlyCharges_DueDateAndDescription(t *testing.T) {
	svc, repo := newPaymentFixture()

	n, err := svc.GenerateMonthlyCharges(context.Background(), 132.00, 10)
	if err != nil {
		t.Fatalf("geração falhou: %v", err)
	}
	if n != 3 {
		t.Fatalf("repassa o total criado pelo banco, veio %d", n)
	}

	now := time.Now()
	if repo.lastDue.Day() != 10 || repo.lastDue.Month() != now.Month() || repo.lastDue.Year() != now.Year() {
		t.Fatalf("vencimento errado: %v", repo.lastDue)
	}
	if repo.lastDesc != "Mensalidade "+now.Format("01/2006") {
		t.Fatalf("descrição errada: %q", repo.lastDesc)
	}
}

func TestMarkPaid_Idempotent(t *testing.T) {
	svc, repo := newPaymentFixture()
	ctx := context.Background()

	_ = repo.CreatePayment(ctx, &models.Payment{UserID: 1, Status: models.ChargeStatusPending})

	if err := svc.MarkPaid(ctx, 1); err != nil {
		t.Fatalf("quitação falhou: %v", err)
	}
	firstPaidAt := *repo.payments[1].PaidAt

	if err := svc.MarkPaid(ctx, 1); err != nil {
		t.Fatalf("requitação deveria ser no-op: %v", err)
	}
	if !repo.payments[1].PaidAt.Equal(firstPaidAt) {
		t.Fatal("requitação não pode mexer no paid_at")
	}
}
