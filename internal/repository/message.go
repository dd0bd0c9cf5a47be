package repository

import (
	"context"
	"errors"
	"time"

	"vigia/internal/logger"
	"vigia/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type MessageRepository struct {
	db *pgxpool.Pool
}

func NewMessageRepository(db *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) CreateMessage(ctx context.Context, m *models.Message) error {
	logger.Log.Debug("Gravando mensagem (repo)", zap.String("message_id", m.ID), zap.Int("sender_id", m.SenderID))
	query := `
	INSERT INTO messages (id, sender_id, receiver_id, group_id, content, is_group)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (id) DO NOTHING
	RETURNING created_at`
	err := r.db.QueryRow(ctx, query,
		m.ID,
		m.SenderID,
		m.ReceiverID,
		m.GroupID,
		m.Content,
		m.IsGroup,
	).Scan(&m.CreatedAt)
	if err != nil {
		// Sem linha retornada = id já existia (reenvio); o chamador decide.
		if errors.Is(err, pgx.ErrNoRows) {
			return pgx.ErrNoRows
		}
		logger.Log.Error("Erro ao gravar mensagem (repo)", zap.Error(err))
	}
	return err
}

func (r *MessageRepository) GetByID(ctx context.Context, id string) (*models.Message, error) {
	query := `SELECT id, sender_id, receiver_id, group_id, content, is_group, created_at, delivered_at, read_at
	FROM messages WHERE id = $1`

	var m models.Message
	err := r.db.QueryRow(ctx, query, id).Scan(
		&m.ID, &m.SenderID, &m.ReceiverID, &m.GroupID, &m.Content, &m.IsGroup, &m.CreatedAt, &m.DeliveredAt, &m.ReadAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MessageRepository) GetConversation(ctx context.Context, userA, userB, limit int) ([]*models.Message, error) {
	logger.Log.Debug("Buscando conversa (repo)", zap.Int("user_a", userA), zap.Int("user_b", userB))
	query := `SELECT id, sender_id, receiver_id, group_id, content, is_group, created_at, delivered_at, read_at
	FROM messages
	WHERE NOT is_group
	AND ((sender_id = $1 AND receiver_id = $2) OR (sender_id = $2 AND receiver_id = $1))
	ORDER BY created_at DESC
	LIMIT $3`

	rows, err := r.db.Query(ctx, query, userA, userB, limit)
	if err != nil {
		logger.Log.Error("Erro ao buscar conversa (repo)", zap.Error(err))
		return nil, err
	}
	defer rows.Close()
	return scanMessages(rows)
}

func (r *MessageRepository) GetGroupMessages(ctx context.Context, groupID, limit int) ([]*models.Message, error) {
	query := `SELECT id, sender_id, receiver_id, group_id, content, is_group, created_at, delivered_at, read_at
	FROM messages
	WHERE is_group AND group_id = $1
	ORDER BY created_at DESC
	LIMIT $2`

	rows, err := r.db.Query(ctx, query, groupID, limit)
	if err != nil {
		logger.Log.Error("Erro ao buscar mensagens do grupo (repo)", zap.Error(err))
		return nil, err
	}
	defer rows.Close()
	return scanMessages(rows)
}

// MarkDelivered carimba delivered_at apenas se ainda estiver vazio e o
// destinatário for quem confirma — reentregar é no-op.
func (r *MessageRepository) MarkDelivered(ctx context.Context, messageID string, receiverID int, at time.Time) (bool, error) {
	query := `UPDATE messages SET delivered_at = $3
	WHERE id = $1 AND receiver_id = $2 AND delivered_at IS NULL`
	tag, err := r.db.Exec(ctx, query, messageID, receiverID, at)
	if err != nil {
		logger.Log.Error("Erro ao confirmar entrega (repo)", zap.Error(err), zap.String("message_id", messageID))
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *MessageRepository) MarkRead(ctx context.Context, messageID string, receiverID int, at time.Time) (bool, error) {
	query := `UPDATE messages SET read_at = $3, delivered_at = COALESCE(delivered_at, $3)
	WHERE id = $1 AND receiver_id = $2 AND read_at IS NULL`
	tag, err := r.db.Exec(ctx, query, messageID, receiverID, at)
	if err != nil {
		logger.Log.Error("Erro ao confirmar leitura (repo)", zap.Error(err), zap.String("message_id", messageID))
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// ListUndelivered devolve mensagens diretas ainda não entregues — usado ao
// reconectar o stream, já que não há fila offline no transporte.
func (r *MessageRepository) ListUndelivered(ctx context.Context, receiverID int) ([]*models.Message, error) {
	query := `SELECT id, sender_id, receiver_id, group_id, content, is_group, created_at, delivered_at, read_at
	FROM messages
	WHERE receiver_id = $1 AND delivered_at IS NULL
	ORDER BY created_at ASC`

	rows, err := r.db.Query(ctx, query, receiverID)
	if err != nil {
		logger.Log.Error("Erro ao listar não entregues (repo)", zap.Error(err))
		return nil, err
	}
	defer rows.Close()
	return scanMessages(rows)
}

func scanMessages(rows interface {
	Next() bool
	Scan(dest ...any) error
}) ([]*models.Message, error) {
	var out []*models.Message
	for rows.Next() {
		var m models.Message
		err := rows.Scan(&m.ID, &m.SenderID, &m.ReceiverID, &m.GroupID, &m.Content, &m.IsGroup, &m.CreatedAt, &m.DeliveredAt, &m.ReadAt)
		if err != nil {
			logger.Log.Error("Erro ao escanear mensagem (repo)", zap.Error(err))
			return nil, err
		}
		out = append(out, &m)
	}
	return out, nil
}
