package repository

import (
	"context"

	"vigia/internal/logger"
	"vigia/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type ContactRepository struct {
	db *pgxpool.Pool
}

func NewContactRepository(db *pgxpool.Pool) *ContactRepository {
	return &ContactRepository{db: db}
}

func (r *ContactRepository) ListContacts(ctx context.Context) ([]*models.UtilityContact, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, category, phone, description FROM public_utility_contacts ORDER BY category, name`)
	if err != nil {
		logger.Log.Error("Erro ao listar contatos úteis (repo)", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var out []*models.UtilityContact
	for rows.Next() {
		var c models.UtilityContact
		if err := rows.Scan(&c.ID, &c.Name, &c.Category, &c.Phone, &c.Description); err != nil {
			return nil, err
		}
		out = append(out, &c)
	}
	return out, nil
}

func (r *ContactRepository) CreateContact(ctx context.Context, c *models.UtilityContact) error {
	logger.Log.Info("Cadastrando contato útil (repo)", zap.String("name", c.Name))
	query := `INSERT INTO public_utility_contacts (name, category, phone, description)
	VALUES ($1, $2, $3, $4) RETURNING id`
	err := r.db.QueryRow(ctx, query, c.Name, c.Category, c.Phone, c.Description).Scan(&c.ID)
	if err != nil {
		logger.Log.Error("Erro ao cadastrar contato (repo)", zap.Error(err))
	}
	return err
}

func (r *ContactRepository) UpdateContact(ctx context.Context, c *models.UtilityContact) error {
	query := `UPDATE public_utility_contacts SET name = $2, category = $3, phone = $4, description = $5 WHERE id = $1`
	_, err := r.db.Exec(ctx, query, c.ID, c.Name, c.Category, c.Phone, c.Description)
	if err != nil {
		logger.Log.Error("Erro ao atualizar contato (repo)", zap.Error(err), zap.Int("contact_id", c.ID))
	}
	return err
}

func (r *ContactRepository) DeleteContact(ctx context.Context, id int) error {
	_, err := r.db.Exec(ctx, `DELETE FROM public_utility_contacts WHERE id = $1`, id)
	if err != nil {
		logger.Log.Error("Erro ao remover contato (repo)", zap.Error(err), zap.Int("contact_id", id))
	}
	return err
}
