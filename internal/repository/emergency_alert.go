package repository

import (
	"context"
	"time"

	"vigia/internal/logger"
	"vigia/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type EmergencyAlertRepository struct {
	db *pgxpool.Pool
}

func NewEmergencyAlertRepository(db *pgxpool.Pool) *EmergencyAlertRepository {
	return &EmergencyAlertRepository{db: db}
}

func (r *EmergencyAlertRepository) CreateAlert(ctx context.Context, a *models.EmergencyAlert) error {
	logger.Log.Info("Registrando alerta de emergência (repo)", zap.Int("user_id", a.UserID), zap.String("kind", a.Kind))
	query := `
	INSERT INTO emergency_alerts (user_id, kind, description, latitude, longitude, status)
	VALUES ($1, $2, $3, $4, $5, 'active')
	RETURNING id, created_at`
	err := r.db.QueryRow(ctx, query, a.UserID, a.Kind, a.Description, a.Latitude, a.Longitude).
		Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		logger.Log.Error("Erro ao registrar alerta (repo)", zap.Error(err))
	}
	return err
}

func (r *EmergencyAlertRepository) ListAlerts(ctx context.Context, onlyActive bool) ([]*models.EmergencyAlert, error) {
	query := `SELECT id, user_id, kind, description, latitude, longitude, status, created_at, resolved_at, resolved_by
	FROM emergency_alerts`
	if onlyActive {
		query += ` WHERE status = 'active'`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		logger.Log.Error("Erro ao listar alertas (repo)", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var out []*models.EmergencyAlert
	for rows.Next() {
		var a models.EmergencyAlert
		err := rows.Scan(&a.ID, &a.UserID, &a.Kind, &a.Description, &a.Latitude, &a.Longitude, &a.Status, &a.CreatedAt, &a.ResolvedAt, &a.ResolvedBy)
		if err != nil {
			logger.Log.Error("Erro ao escanear alerta (repo)", zap.Error(err))
			return nil, err
		}
		out = append(out, &a)
	}
	return out, nil
}

// ResolveAlert fecha o alerta; resolver de novo é no-op.
func (r *EmergencyAlertRepository) ResolveAlert(ctx context.Context, alertID, adminID int, at time.Time) (bool, error) {
	logger.Log.Info("Resolvendo alerta (repo)", zap.Int("alert_id", alertID), zap.Int("admin_id", adminID))
	query := `UPDATE emergency_alerts SET status = 'resolved', resolved_at = $3, resolved_by = $2
	WHERE id = $1 AND status = 'active'`
	tag, err := r.db.Exec(ctx, query, alertID, adminID, at)
	if err != nil {
		logger.Log.Error("Erro ao resolver alerta (repo)", zap.Error(err))
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
