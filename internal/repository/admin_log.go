package repository

import (
	"context"

	"vigia/internal/logger"
	"vigia/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type AdminLogRepository struct {
	db *pgxpool.Pool
}

func NewAdminLogRepository(db *pgxpool.Pool) *AdminLogRepository {
	return &AdminLogRepository{db: db}
}

func (r *AdminLogRepository) InsertLog(ctx context.Context, l *models.AdminLog) error {
	query := `INSERT INTO admin_logs (admin_id, action, details) VALUES ($1, $2, $3) RETURNING id, created_at`
	err := r.db.QueryRow(ctx, query, l.AdminID, l.Action, l.Details).Scan(&l.ID, &l.CreatedAt)
	if err != nil {
		logger.Log.Error("Erro ao gravar auditoria (repo)", zap.Error(err))
	}
	return err
}

func (r *AdminLogRepository) ListLogs(ctx context.Context, limit, offset int) ([]*models.AdminLog, error) {
	query := `SELECT id, admin_id, action, details, created_at
	FROM admin_logs ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		logger.Log.Error("Erro ao listar auditoria (repo)", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var out []*models.AdminLog
	for rows.Next() {
		var l models.AdminLog
		if err := rows.Scan(&l.ID, &l.AdminID, &l.Action, &l.Details, &l.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &l)
	}
	return out, nil
}
