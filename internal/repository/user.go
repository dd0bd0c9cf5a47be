package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"vigia/internal/logger"
	"vigia/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) CreateUser(ctx context.Context, user *models.User) error {
	logger.Log.Info("Criando morador (repo)", zap.String("email", user.Email))
	query := `
	INSERT INTO users (full_name, phone, email, address, cep, avatar_url, password_hash, is_approved, initial_payment_status)
	VALUES ($1, $2, $3, $4, $5, $6, $7, false, 'unpaid')
	RETURNING id, created_at, updated_at`
	return r.db.QueryRow(ctx, query,
		user.FullName,
		user.Phone,
		user.Email,
		user.Address,
		user.CEP,
		user.AvatarURL,
		user.PasswordHash,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
}

func (r *UserRepository) IsEmailTaken(ctx context.Context, email string) (bool, error) {
	logger.Log.Debug("Verificando unicidade do email (repo)", zap.String("email", email))
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`
	var exists bool
	err := r.db.QueryRow(ctx, query, email).Scan(&exists)
	if err != nil {
		logger.Log.Error("Erro ao verificar email (repo)", zap.Error(err))
	}
	return exists, err
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	logger.Log.Debug("Buscando morador por email (repo)", zap.String("email", email))
	query := `SELECT id, full_name, phone, email, address, cep, avatar_url, password_hash, is_approved, initial_payment_status, created_at, updated_at
	FROM users
	WHERE email = $1`

	var user models.User
	err := r.db.QueryRow(ctx, query, email).Scan(
		&user.ID,
		&user.FullName,
		&user.Phone,
		&user.Email,
		&user.Address,
		&user.CEP,
		&user.AvatarURL,
		&user.PasswordHash,
		&user.IsApproved,
		&user.InitialPaymentStatus,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		logger.Log.Warn("Morador não encontrado por email (repo)", zap.String("email", email), zap.Error(err))
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetUserByID(ctx context.Context, id int) (*models.User, error) {
	logger.Log.Debug("Buscando morador por ID (repo)", zap.Int("user_id", id))
	query := `SELECT id, full_name, phone, email, address, cep, avatar_url, password_hash, is_approved, initial_payment_status, created_at, updated_at
	FROM users
	WHERE id = $1`

	var u models.User
	err := r.db.QueryRow(ctx, query, id).Scan(
		&u.ID,
		&u.FullName,
		&u.Phone,
		&u.Email,
		&u.Address,
		&u.CEP,
		&u.AvatarURL,
		&u.PasswordHash,
		&u.IsApproved,
		&u.InitialPaymentStatus,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		logger.Log.Error("Erro ao buscar morador por ID (repo)", zap.Int("user_id", id), zap.Error(err))
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetAllUsersPaginated(ctx context.Context, limit, offset int) ([]*models.User, int, error) {
	logger.Log.Debug("Listando moradores (repo)", zap.Int("limit", limit), zap.Int("offset", offset))

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT id, full_name, phone, email, address, cep, avatar_url, is_approved, initial_payment_status, created_at, updated_at
	FROM users
	ORDER BY created_at DESC
	LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		logger.Log.Error("Erro ao listar moradores (repo)", zap.Error(err))
		return nil, 0, err
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		var u models.User
		err := rows.Scan(
			&u.ID,
			&u.FullName,
			&u.Phone,
			&u.Email,
			&u.Address,
			&u.CEP,
			&u.AvatarURL,
			&u.IsApproved,
			&u.InitialPaymentStatus,
			&u.CreatedAt,
			&u.UpdatedAt,
		)
		if err != nil {
			logger.Log.Error("Erro ao escanear morador (repo)", zap.Error(err))
			return nil, 0, err
		}
		users = append(users, &u)
	}
	return users, total, nil
}

func (r *UserRepository) UpdateUserFields(ctx context.Context, id int, input *models.UpdateUserRequest) error {
	logger.Log.Info("Atualizando morador (repo)", zap.Int("user_id", id))
	query := `UPDATE users SET`
	var args []interface{}
	argNum := 1

	if input.FullName != nil {
		query += fmt.Sprintf(" full_name = $%d,", argNum)
		args = append(args, *input.FullName)
		argNum++
	}
	if input.Phone != nil {
		query += fmt.Sprintf(" phone = $%d,", argNum)
		args = append(args, *input.Phone)
		argNum++
	}
	if input.Address != nil {
		query += fmt.Sprintf(" address = $%d,", argNum)
		args = append(args, *input.Address)
		argNum++
	}
	if input.CEP != nil {
		query += fmt.Sprintf(" cep = $%d,", argNum)
		args = append(args, *input.CEP)
		argNum++
	}
	if input.AvatarURL != nil {
		query += fmt.Sprintf(" avatar_url = $%d,", argNum)
		args = append(args, *input.AvatarURL)
		argNum++
	}

	if len(args) == 0 {
		logger.Log.Warn("Nenhum campo para atualizar (repo)", zap.Int("user_id", id))
		return nil // nada a fazer
	}

	query += " updated_at = now()"
	query = strings.TrimSuffix(query, ",") + fmt.Sprintf(" WHERE id = $%d", argNum)
	args = append(args, id)

	_, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		logger.Log.Error("Erro ao atualizar morador (repo)", zap.Error(err), zap.Int("user_id", id))
	}
	return err
}

// TransitionInitialPaymentStatus muda o status de pagamento inicial apenas se o
// status atual for o esperado. Retorna false quando a transição não se aplica.
func (r *UserRepository) TransitionInitialPaymentStatus(ctx context.Context, userID int, from, to string) (bool, error) {
	logger.Log.Info("Transição de status de pagamento (repo)",
		zap.Int("user_id", userID), zap.String("from", from), zap.String("to", to))
	query := `UPDATE users SET initial_payment_status = $1, updated_at = now()
	WHERE id = $2 AND initial_payment_status = $3`
	tag, err := r.db.Exec(ctx, query, to, userID, from)
	if err != nil {
		logger.Log.Error("Erro na transição de status (repo)", zap.Error(err), zap.Int("user_id", userID))
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// ApproveUser aprova o morador: marca is_approved e initial_payment_status em
// conjunto e quita a cobrança inicial pendente. Tudo numa transação só —
// aprovação parcial deixaria o cadastro num estado inconsistente.
func (r *UserRepository) ApproveUser(ctx context.Context, userID int, paidAt time.Time) error {
	logger.Log.Info("Aprovando morador (repo)", zap.Int("user_id", userID))

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `UPDATE users
	SET is_approved = true, initial_payment_status = 'paid', updated_at = now()
	WHERE id = $1`, userID)
	if err != nil {
		logger.Log.Error("Erro ao aprovar morador (repo)", zap.Error(err), zap.Int("user_id", userID))
		return err
	}

	_, err = tx.Exec(ctx, `UPDATE payments
	SET status = 'paid', paid_at = $2
	WHERE user_id = $1 AND payment_type = 'initial' AND status = 'pending'`, userID, paidAt)
	if err != nil {
		logger.Log.Error("Erro ao quitar cobrança inicial (repo)", zap.Error(err), zap.Int("user_id", userID))
		return err
	}

	return tx.Commit(ctx)
}

func (r *UserRepository) DeleteUserByID(ctx context.Context, userID int) error {
	logger.Log.Info("Removendo morador (repo)", zap.Int("user_id", userID))
	_, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, userID)
	if err != nil {
		logger.Log.Error("Erro ao remover morador (repo)", zap.Error(err), zap.Int("user_id", userID))
	}
	return err
}

func (r *UserRepository) SaveRefreshToken(ctx context.Context, userID int, token string) error {
	logger.Log.Debug("Salvando refresh token (repo)", zap.Int("user_id", userID))
	query := `INSERT INTO refresh_tokens (user_id, token) VALUES ($1, $2)`
	_, err := r.db.Exec(ctx, query, userID, token)
	if err != nil {
		logger.Log.Error("Erro ao salvar refresh token (repo)", zap.Error(err))
	}
	return err
}

func (r *UserRepository) IsRefreshTokenValid(ctx context.Context, userID int, token string) (bool, error) {
	logger.Log.Debug("Validando refresh token (repo)", zap.Int("user_id", userID))
	query := `SELECT EXISTS(SELECT 1 FROM refresh_tokens WHERE user_id = $1 AND token = $2)`
	var exists bool
	err := r.db.QueryRow(ctx, query, userID, token).Scan(&exists)
	if err != nil {
		logger.Log.Error("Erro ao validar refresh token (repo)", zap.Error(err))
	}
	return exists, err
}

func (r *UserRepository) DeleteRefreshToken(ctx context.Context, userID int, token string) error {
	logger.Log.Debug("Removendo refresh token (repo)", zap.Int("user_id", userID))
	query := `DELETE FROM refresh_tokens WHERE user_id = $1 AND token = $2`
	_, err := r.db.Exec(ctx, query, userID, token)
	if err != nil {
		logger.Log.Error("Erro ao remover refresh token (repo)", zap.Error(err))
	}
	return err
}

func (r *UserRepository) GetSystemStats(ctx context.Context) (*models.SystemStats, error) {
	var s models.SystemStats
	err := r.db.QueryRow(ctx, `
	SELECT
		(SELECT COUNT(*) FROM users),
		(SELECT COUNT(*) FROM users WHERE NOT is_approved AND initial_payment_status = 'pending'),
		(SELECT COUNT(*) FROM users WHERE is_approved),
		(SELECT COUNT(*) FROM payments WHERE status = 'pending'),
		(SELECT COUNT(*) FROM payments WHERE status = 'overdue'),
		(SELECT COUNT(*) FROM emergency_alerts WHERE status = 'active'),
		(SELECT COUNT(*) FROM cameras WHERE active)
	`).Scan(
		&s.TotalUsers,
		&s.PendingApprovals,
		&s.ApprovedUsers,
		&s.PendingPayments,
		&s.OverduePayments,
		&s.ActiveAlerts,
		&s.ActiveCameras,
	)
	if err != nil {
		logger.Log.Error("Erro ao coletar estatísticas (repo)", zap.Error(err))
		return nil, err
	}
	return &s, nil
}
