package repository

import (
	"context"
	"time"

	"vigia/internal/logger"
	"vigia/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type NotificationRepository struct {
	db *pgxpool.Pool
}

func NewNotificationRepository(db *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) InsertNotification(ctx context.Context, n *models.Notification) error {
	query := `INSERT INTO notifications (title, body, kind, user_id) VALUES ($1, $2, $3, $4) RETURNING id, created_at`
	err := r.db.QueryRow(ctx, query, n.Title, n.Body, n.Kind, n.UserID).Scan(&n.ID, &n.CreatedAt)
	if err != nil {
		logger.Log.Error("Erro ao gravar notificação (repo)", zap.Error(err))
	}
	return err
}

func (r *NotificationRepository) ListUnread(ctx context.Context) ([]*models.Notification, error) {
	query := `SELECT id, title, body, kind, user_id, read_at, created_at
	FROM notifications WHERE read_at IS NULL ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		logger.Log.Error("Erro ao listar notificações (repo)", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var out []*models.Notification
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.Title, &n.Body, &n.Kind, &n.UserID, &n.ReadAt, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &n)
	}
	return out, nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id int, at time.Time) error {
	_, err := r.db.Exec(ctx, `UPDATE notifications SET read_at = $2 WHERE id = $1 AND read_at IS NULL`, id, at)
	if err != nil {
		logger.Log.Error("Erro ao marcar notificação lida (repo)", zap.Error(err), zap.Int("notification_id", id))
	}
	return err
}
