package repository

import (
	"context"

	"vigia/internal/logger"
	"vigia/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type SosPetRepository struct {
	db *pgxpool.Pool
}

func NewSosPetRepository(db *pgxpool.Pool) *SosPetRepository {
	return &SosPetRepository{db: db}
}

func (r *SosPetRepository) CreatePet(ctx context.Context, p *models.SosPet) error {
	logger.Log.Info("Registrando pet perdido (repo)", zap.Int("user_id", p.UserID), zap.String("pet", p.PetName))
	query := `
	INSERT INTO sos_pets (user_id, pet_name, species, description, photo_url, last_seen, status)
	VALUES ($1, $2, $3, $4, $5, $6, 'lost')
	RETURNING id, created_at`
	err := r.db.QueryRow(ctx, query, p.UserID, p.PetName, p.Species, p.Description, p.PhotoURL, p.LastSeen).
		Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		logger.Log.Error("Erro ao registrar pet (repo)", zap.Error(err))
	}
	return err
}

func (r *SosPetRepository) ListPets(ctx context.Context) ([]*models.SosPet, error) {
	query := `SELECT id, user_id, pet_name, species, description, photo_url, last_seen, status, created_at
	FROM sos_pets ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		logger.Log.Error("Erro ao listar pets (repo)", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var out []*models.SosPet
	for rows.Next() {
		var p models.SosPet
		err := rows.Scan(&p.ID, &p.UserID, &p.PetName, &p.Species, &p.Description, &p.PhotoURL, &p.LastSeen, &p.Status, &p.CreatedAt)
		if err != nil {
			return nil, err
		}
		out = append(out, &p)
	}
	return out, nil
}

// UpdateStatus só permite que o dono do registro mude o status.
func (r *SosPetRepository) UpdateStatus(ctx context.Context, petID, ownerID int, status string) (bool, error) {
	query := `UPDATE sos_pets SET status = $3 WHERE id = $1 AND user_id = $2`
	tag, err := r.db.Exec(ctx, query, petID, ownerID, status)
	if err != nil {
		logger.Log.Error("Erro ao atualizar status do pet (repo)", zap.Error(err), zap.Int("pet_id", petID))
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *SosPetRepository) DeletePet(ctx context.Context, petID, ownerID int) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM sos_pets WHERE id = $1 AND user_id = $2`, petID, ownerID)
	if err != nil {
		logger.Log.Error("Erro ao remover pet (repo)", zap.Error(err), zap.Int("pet_id", petID))
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
