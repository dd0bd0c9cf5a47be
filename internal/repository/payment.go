package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"vigia/internal/logger"
	"vigia/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type PaymentRepository struct {
	db *pgxpool.Pool
}

func NewPaymentRepository(db *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) CreatePayment(ctx context.Context, p *models.Payment) error {
	logger.Log.Info("Criando cobrança (repo)",
		zap.Int("user_id", p.UserID), zap.String("type", p.PaymentType), zap.Float64("amount", p.Amount))
	query := `
	INSERT INTO payments (user_id, amount, due_date, status, payment_type, description)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING id, created_at`
	return r.db.QueryRow(ctx, query,
		p.UserID,
		p.Amount,
		p.DueDate,
		p.Status,
		p.PaymentType,
		p.Description,
	).Scan(&p.ID, &p.CreatedAt)
}

func (r *PaymentRepository) GetByID(ctx context.Context, id int) (*models.Payment, error) {
	query := `SELECT id, user_id, amount, due_date, status, payment_type, description, paid_at, created_at
	FROM payments WHERE id = $1`

	var p models.Payment
	err := r.db.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.UserID, &p.Amount, &p.DueDate, &p.Status, &p.PaymentType, &p.Description, &p.PaidAt, &p.CreatedAt,
	)
	if err != nil {
		logger.Log.Error("Erro ao buscar cobrança (repo)", zap.Int("payment_id", id), zap.Error(err))
		return nil, err
	}
	return &p, nil
}

func (r *PaymentRepository) ListByUser(ctx context.Context, userID int) ([]*models.Payment, error) {
	logger.Log.Debug("Listando cobranças do morador (repo)", zap.Int("user_id", userID))
	query := `SELECT id, user_id, amount, due_date, status, payment_type, description, paid_at, created_at
	FROM payments WHERE user_id = $1 ORDER BY due_date DESC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		logger.Log.Error("Erro ao listar cobranças (repo)", zap.Error(err))
		return nil, err
	}
	defer rows.Close()
	return scanPayments(rows)
}

func (r *PaymentRepository) ListAllPaginated(ctx context.Context, status string, limit, offset int) ([]*models.Payment, int, error) {
	where := ""
	args := []interface{}{}
	if status != "" {
		where = " WHERE status = $1"
		args = append(args, status)
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM payments`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT id, user_id, amount, due_date, status, payment_type, description, paid_at, created_at
	FROM payments%s ORDER BY due_date DESC LIMIT $%d OFFSET $%d`, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		logger.Log.Error("Erro ao listar cobranças (repo)", zap.Error(err))
		return nil, 0, err
	}
	defer rows.Close()

	payments, err := scanPayments(rows)
	return payments, total, err
}

func (r *PaymentRepository) UpdatePaymentFields(ctx context.Context, id int, input *models.UpdatePaymentRequest) error {
	logger.Log.Info("Atualizando cobrança (repo)", zap.Int("payment_id", id))
	query := `UPDATE payments SET`
	var args []interface{}
	argNum := 1

	if input.Amount != nil {
		query += fmt.Sprintf(" amount = $%d,", argNum)
		args = append(args, *input.Amount)
		argNum++
	}
	if input.DueDate != nil {
		query += fmt.Sprintf(" due_date = $%d,", argNum)
		args = append(args, *input.DueDate)
		argNum++
	}
	if input.Status != nil {
		query += fmt.Sprintf(" status = $%d,", argNum)
		args = append(args, *input.Status)
		argNum++
	}
	if input.Description != nil {
		query += fmt.Sprintf(" description = $%d,", argNum)
		args = append(args, *input.Description)
		argNum++
	}

	if len(args) == 0 {
		return nil
	}

	query = strings.TrimSuffix(query, ",") + fmt.Sprintf(" WHERE id = $%d", argNum)
	args = append(args, id)

	_, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		logger.Log.Error("Erro ao atualizar cobrança (repo)", zap.Error(err), zap.Int("payment_id", id))
	}
	return err
}

// TouchInitialSelfReport anota na cobrança inicial que o morador declarou o
// pagamento. A linha continua pending — quem muda para paid é a aprovação do
// admin.
func (r *PaymentRepository) TouchInitialSelfReport(ctx context.Context, userID int) error {
	query := `UPDATE payments SET description = description || ' [pagamento declarado pelo morador]'
	WHERE user_id = $1 AND payment_type = 'initial' AND status = 'pending'
	AND description NOT LIKE '%[pagamento declarado pelo morador]%'`
	_, err := r.db.Exec(ctx, query, userID)
	if err != nil {
		logger.Log.Error("Erro ao anotar autodeclaração (repo)", zap.Error(err), zap.Int("user_id", userID))
	}
	return err
}

func (r *PaymentRepository) MarkPaid(ctx context.Context, id int, paidAt time.Time) error {
	logger.Log.Info("Quitando cobrança (repo)", zap.Int("payment_id", id))
	query := `UPDATE payments SET status = 'paid', paid_at = $2 WHERE id = $1 AND status <> 'paid'`
	_, err := r.db.Exec(ctx, query, id, paidAt)
	if err != nil {
		logger.Log.Error("Erro ao quitar cobrança (repo)", zap.Error(err), zap.Int("payment_id", id))
	}
	return err
}

// MarkOverdue passa para overdue toda cobrança pendente com vencimento no passado.
func (r *PaymentRepository) MarkOverdue(ctx context.Context, now time.Time) (int64, error) {
	query := `UPDATE payments SET status = 'overdue' WHERE status = 'pending' AND due_date < $1`
	tag, err := r.db.Exec(ctx, query, now)
	if err != nil {
		logger.Log.Error("Erro ao marcar cobranças vencidas (repo)", zap.Error(err))
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// GenerateMonthly cria a mensalidade do mês para todo morador aprovado que
// ainda não tem cobrança recorrente com vencimento naquele mês.
func (r *PaymentRepository) GenerateMonthly(ctx context.Context, amount float64, dueDate time.Time, description string) (int64, error) {
	logger.Log.Info("Gerando mensalidades (repo)", zap.Time("due_date", dueDate))
	query := `
	INSERT INTO payments (user_id, amount, due_date, status, payment_type, description)
	SELECT u.id, $1, $2, 'pending', 'recurring', $3
	FROM users u
	WHERE u.is_approved
	AND NOT EXISTS (
		SELECT 1 FROM payments p
		WHERE p.user_id = u.id
		AND p.payment_type = 'recurring'
		AND date_trunc('month', p.due_date) = date_trunc('month', $2::timestamptz)
	)`
	tag, err := r.db.Exec(ctx, query, amount, dueDate, description)
	if err != nil {
		logger.Log.Error("Erro ao gerar mensalidades (repo)", zap.Error(err))
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func scanPayments(rows interface {
	Next() bool
	Scan(dest ...any) error
}) ([]*models.Payment, error) {
	var out []*models.Payment
	for rows.Next() {
		var p models.Payment
		err := rows.Scan(&p.ID, &p.UserID, &p.Amount, &p.DueDate, &p.Status, &p.PaymentType, &p.Description, &p.PaidAt, &p.CreatedAt)
		if err != nil {
			logger.Log.Error("Erro ao escanear cobrança (repo)", zap.Error(err))
			return nil, err
		}
		out = append(out, &p)
	}
	return out, nil
}
