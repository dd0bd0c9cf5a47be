package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"vigia/internal/logger"
	"vigia/internal/models"

	"go.uber.org/zap"
)

// OnboardingService concentra a máquina de estados de adesão:
// unpaid -> pending (morador declara o pagamento) -> paid (admin aprova).
// Não existe caminho de volta pending -> unpaid nem expiração automática.
type OnboardingService struct {
	users    OnboardingUserRepo
	payments OnboardingPaymentRepo
	audit    AuditRepo
	notifier *Notifier
	pix      *PixService
}

type OnboardingUserRepo interface {
	GetUserByID(ctx context.Context, id int) (*models.User, error)
	TransitionInitialPaymentStatus(ctx context.Context, userID int, from, to string) (bool, error)
	ApproveUser(ctx context.Context, userID int, paidAt time.Time) error
}

type OnboardingPaymentRepo interface {
	TouchInitialSelfReport(ctx context.Context, userID int) error
	ListByUser(ctx context.Context, userID int) ([]*models.Payment, error)
}

type AuditRepo interface {
	InsertLog(ctx context.Context, l *models.AdminLog) error
}

func NewOnboardingService(users OnboardingUserRepo, payments OnboardingPaymentRepo, audit AuditRepo, notifier *Notifier, pix *PixService) *OnboardingService {
	return &OnboardingService{
		users:    users,
		payments: payments,
		audit:    audit,
		notifier: notifier,
		pix:      pix,
	}
}

var ErrAlreadyReported = errors.New("pagamento já declarado ou cadastro já aprovado")

// InitialCharge devolve a cobrança de adesão do morador com o payload PIX.
type InitialChargeInfo struct {
	Payment    *models.Payment `json:"payment"`
	PixPayload string          `json:"pix_payload"`
	Status     string          `json:"status"`
}

func (s *OnboardingService) GetInitialCharge(ctx context.Context, userID int) (*InitialChargeInfo, error) {
	u, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	all, err := s.payments.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	var initial *models.Payment
	for _, p := range all {
		if p.PaymentType == models.PaymentTypeInitial {
			initial = p
			break
		}
	}
	if initial == nil {
		return nil, errors.New("cobrança de adesão não encontrada")
	}

	info := &InitialChargeInfo{Payment: initial, Status: u.InitialPaymentStatus}
	if initial.Status != models.ChargeStatusPaid {
		info.PixPayload = s.pix.BuildPayload(initial.Amount, fmt.Sprintf("VIGIA%d", userID))
	}
	return info, nil
}

// SelfReportPayment — morador clica em "já paguei". Só vale a transição
// unpaid -> pending; nunca pula direto para paid.
func (s *OnboardingService) SelfReportPayment(ctx context.Context, userID int) error {
	logger.Log.Info("Morador declarou pagamento (service)", zap.Int("user_id", userID))

	ok, err := s.users.TransitionInitialPaymentStatus(ctx, userID, models.PaymentStatusUnpaid, models.PaymentStatusPending)
	if err != nil {
		logger.Log.Error("Erro na autodeclaração de pagamento (service)", zap.Error(err), zap.Int("user_id", userID))
		return err
	}
	if !ok {
		return ErrAlreadyReported
	}

	if err := s.payments.TouchInitialSelfReport(ctx, userID); err != nil {
		// anotação na cobrança é secundária; a transição do perfil já valeu
		logger.Log.Warn("Falha ao anotar cobrança na autodeclaração", zap.Error(err), zap.Int("user_id", userID))
	}

	if s.notifier != nil {
		u, err := s.users.GetUserByID(ctx, userID)
		name := "Morador"
		if err == nil {
			name = u.FullName
		}
		s.notifier.NotifyAdmins(ctx, "Pagamento declarado",
			name+" informou que pagou a taxa de adesão. Confira e aprove o cadastro.",
			"payment_reported", &userID)
	}

	return nil
}

// ApproveUser — só o admin chega aqui. is_approved e initial_payment_status
// mudam juntos, na mesma transação, e a cobrança inicial pendente é quitada.
// Reaprovar um cadastro já aprovado não muda nada observável.
func (s *OnboardingService) ApproveUser(ctx context.Context, adminID, userID int) error {
	logger.Log.Info("Aprovando cadastro (service)", zap.Int("admin_id", adminID), zap.Int("user_id", userID))

	u, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if u.IsApproved && u.InitialPaymentStatus == models.PaymentStatusPaid {
		logger.Log.Info("Cadastro já aprovado — no-op (service)", zap.Int("user_id", userID))
		return nil
	}

	if err := s.users.ApproveUser(ctx, userID, time.Now()); err != nil {
		logger.Log.Error("Erro ao aprovar cadastro (service)", zap.Error(err), zap.Int("user_id", userID))
		return err
	}

	// Efeitos colaterais best-effort: auditoria e aviso. Falha aqui não desfaz
	// a aprovação.
	if s.audit != nil {
		err := s.audit.InsertLog(ctx, &models.AdminLog{
			AdminID: adminID,
			Action:  "approve_user",
			Details: fmt.Sprintf("aprovou o cadastro do morador %d", userID),
		})
		if err != nil {
			logger.Log.Warn("Auditoria da aprovação falhou (best-effort)", zap.Error(err))
		}
	}
	if s.notifier != nil {
		s.notifier.NotifyAdmins(ctx, "Cadastro aprovado",
			fmt.Sprintf("O cadastro do morador %d foi aprovado pelo admin %d", userID, adminID),
			"user_approved", &userID)
	}

	return nil
}
