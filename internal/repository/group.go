package repository

import (
	"context"

	"vigia/internal/logger"
	"vigia/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type GroupRepository struct {
	db *pgxpool.Pool
}

func NewGroupRepository(db *pgxpool.Pool) *GroupRepository {
	return &GroupRepository{db: db}
}

func (r *GroupRepository) CreateGroup(ctx context.Context, g *models.Group) error {
	logger.Log.Info("Criando grupo (repo)", zap.String("name", g.Name))
	query := `INSERT INTO groups (name, created_by) VALUES ($1, $2) RETURNING id, created_at`
	err := r.db.QueryRow(ctx, query, g.Name, g.CreatedBy).Scan(&g.ID, &g.CreatedAt)
	if err != nil {
		logger.Log.Error("Erro ao criar grupo (repo)", zap.Error(err))
	}
	return err
}

func (r *GroupRepository) AddMember(ctx context.Context, groupID, userID int) error {
	query := `INSERT INTO group_members (group_id, user_id) VALUES ($1, $2)
	ON CONFLICT (group_id, user_id) DO NOTHING`
	_, err := r.db.Exec(ctx, query, groupID, userID)
	if err != nil {
		logger.Log.Error("Erro ao adicionar membro (repo)", zap.Error(err), zap.Int("group_id", groupID))
	}
	return err
}

func (r *GroupRepository) RemoveMember(ctx context.Context, groupID, userID int) error {
	query := `DELETE FROM group_members WHERE group_id = $1 AND user_id = $2`
	_, err := r.db.Exec(ctx, query, groupID, userID)
	if err != nil {
		logger.Log.Error("Erro ao remover membro (repo)", zap.Error(err), zap.Int("group_id", groupID))
	}
	return err
}

func (r *GroupRepository) IsMember(ctx context.Context, groupID, userID int) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM group_members WHERE group_id = $1 AND user_id = $2)`
	var exists bool
	err := r.db.QueryRow(ctx, query, groupID, userID).Scan(&exists)
	if err != nil {
		logger.Log.Error("Erro ao verificar membro (repo)", zap.Error(err))
	}
	return exists, err
}

func (r *GroupRepository) ListGroupsByUser(ctx context.Context, userID int) ([]*models.Group, error) {
	query := `SELECT g.id, g.name, g.created_by, g.created_at
	FROM groups g
	JOIN group_members gm ON gm.group_id = g.id
	WHERE gm.user_id = $1
	ORDER BY g.name`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		logger.Log.Error("Erro ao listar grupos (repo)", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var out []*models.Group
	for rows.Next() {
		var g models.Group
		if err := rows.Scan(&g.ID, &g.Name, &g.CreatedBy, &g.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &g)
	}
	return out, nil
}

func (r *GroupRepository) ListMembers(ctx context.Context, groupID int) ([]*models.GroupMember, error) {
	rows, err := r.db.Query(ctx, `SELECT group_id, user_id, joined_at FROM group_members WHERE group_id = $1`, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.GroupMember
	for rows.Next() {
		var gm models.GroupMember
		if err := rows.Scan(&gm.GroupID, &gm.UserID, &gm.JoinedAt); err != nil {
			return nil, err
		}
		out = append(out, &gm)
	}
	return out, nil
}

// DeleteGroup remove o grupo apenas quando requesterID é quem o criou.
// Devolve false quando o grupo não existe ou pertence a outro morador.
func (r *GroupRepository) DeleteGroup(ctx context.Context, groupID, requesterID int) (bool, error) {
	logger.Log.Info("Removendo grupo (repo)", zap.Int("group_id", groupID))
	tag, err := r.db.Exec(ctx, `DELETE FROM groups WHERE id = $1 AND created_by = $2`, groupID, requesterID)
	if err != nil {
		logger.Log.Error("Erro ao remover grupo (repo)", zap.Error(err))
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
