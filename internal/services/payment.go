package services

import (
	"context"
	"time"

	"vigia/internal/logger"
	"vigia/internal/models"

	"go.uber.org/zap"
)

type PaymentService struct {
	repo PaymentRepo
	pix  *PixService
}

type PaymentRepo interface {
	CreatePayment(ctx context.Context, p *models.Payment) error
	GetByID(ctx context.Context, id int) (*models.Payment, error)
	ListByUser(ctx context.Context, userID int) ([]*models.Payment, error)
	ListAllPaginated(ctx context.Context, status string, limit, offset int) ([]*models.Payment, int, error)
	UpdatePaymentFields(ctx context.Context, id int, input *models.UpdatePaymentRequest) error
	MarkPaid(ctx context.Context, id int, paidAt time.Time) error
	MarkOverdue(ctx context.Context, now time.Time) (int64, error)
	GenerateMonthly(ctx context.Context, amount float64, dueDate time.Time, description string) (int64, error)
}

func NewPaymentService(repo PaymentRepo, pix *PixService) *PaymentService {
	return &PaymentService{repo: repo, pix: pix}
}

// ChargeWithPix acrescenta o payload PIX às cobranças em aberto.
type ChargeWithPix struct {
	*models.Payment
	PixPayload string `json:"pix_payload,omitempty"`
}

func (s *PaymentService) ListMyCharges(ctx context.Context, userID int) ([]*ChargeWithPix, error) {
	payments, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]*ChargeWithPix, 0, len(payments))
	for _, p := range payments {
		c := &ChargeWithPix{Payment: p}
		// pending e overdue ainda são pagáveis; paid não leva QR
		if p.Status != models.ChargeStatusPaid {
			c.PixPayload = s.pix.BuildPayload(p.Amount, "VIGIA"+p.DueDate.Format("200601"))
		}
		out = append(out, c)
	}
	return out, nil
}

func (s *PaymentService) ListAll(ctx context.Context, status string, limit, offset int) ([]*models.Payment, int, error) {
	return s.repo.ListAllPaginated(ctx, status, limit, offset)
}

func (s *PaymentService) UpdatePayment(ctx context.Context, id int, input *models.UpdatePaymentRequest) error {
	logger.Log.Info("Atualizando cobrança (service)", zap.Int("payment_id", id))
	return s.repo.UpdatePaymentFields(ctx, id, input)
}

func (s *PaymentService) MarkPaid(ctx context.Context, id int) error {
	return s.repo.MarkPaid(ctx, id, time.Now())
}

// GenerateMonthlyCharges cria a mensalidade do mês corrente para moradores
// aprovados que ainda não têm. Chamado pelo admin ou pelo job agendado.
func (s *PaymentService) GenerateMonthlyCharges(ctx context.Context, amount float64, dueDay int) (int64, error) {
	now := time.Now()
	due := time.Date(now.Year(), now.Month(), dueDay, 0, 0, 0, 0, time.Local)
	desc := "Mensalidade " + now.Format("01/2006")

	created, err := s.repo.GenerateMonthly(ctx, amount, due, desc)
	if err != nil {
		logger.Log.Error("Erro ao gerar mensalidades (service)", zap.Error(err))
		return 0, err
	}
	logger.Log.Info("Mensalidades geradas (service)", zap.Int64("created", created))
	return created, nil
}

// MarkOverdueCharges roda no agendador: pending vencida vira overdue.
func (s *PaymentService) MarkOverdueCharges(ctx context.Context) (int64, error) {
	n, err := s.repo.MarkOverdue(ctx, time.Now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		logger.Log.Info("Cobranças marcadas como vencidas (service)", zap.Int64("count", n))
	}
	return n, nil
}
