package repository

import (
	"context"

	"vigia/internal/logger"
	"vigia/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type RoleRepository struct {
	db *pgxpool.Pool
}

func NewRoleRepository(db *pgxpool.Pool) *RoleRepository {
	return &RoleRepository{db: db}
}

func (r *RoleRepository) HasRole(ctx context.Context, userID int, role string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM user_roles WHERE user_id = $1 AND role = $2)`
	var exists bool
	err := r.db.QueryRow(ctx, query, userID, role).Scan(&exists)
	if err != nil {
		logger.Log.Error("Erro ao verificar papel (repo)", zap.Error(err), zap.Int("user_id", userID))
	}
	return exists, err
}

func (r *RoleRepository) GrantRole(ctx context.Context, userID int, role string, grantedBy int) error {
	logger.Log.Info("Concedendo papel (repo)", zap.Int("user_id", userID), zap.String("role", role))
	query := `INSERT INTO user_roles (user_id, role, granted_by)
	VALUES ($1, $2, $3)
	ON CONFLICT (user_id, role) DO NOTHING`
	_, err := r.db.Exec(ctx, query, userID, role, grantedBy)
	if err != nil {
		logger.Log.Error("Erro ao conceder papel (repo)", zap.Error(err))
	}
	return err
}

func (r *RoleRepository) RevokeRole(ctx context.Context, userID int, role string) error {
	logger.Log.Info("Revogando papel (repo)", zap.Int("user_id", userID), zap.String("role", role))
	query := `DELETE FROM user_roles WHERE user_id = $1 AND role = $2`
	_, err := r.db.Exec(ctx, query, userID, role)
	if err != nil {
		logger.Log.Error("Erro ao revogar papel (repo)", zap.Error(err))
	}
	return err
}

func (r *RoleRepository) ListByRole(ctx context.Context, role string) ([]*models.UserRole, error) {
	rows, err := r.db.Query(ctx, `SELECT user_id, role, granted_by, created_at FROM user_roles WHERE role = $1`, role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.UserRole
	for rows.Next() {
		var ur models.UserRole
		if err := rows.Scan(&ur.UserID, &ur.Role, &ur.GrantedBy, &ur.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &ur)
	}
	return out, nil
}
