package repository

import (
	"context"
	"fmt"
	"strings"

	"vigia/internal/logger"
	"vigia/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type CameraRepository struct {
	db *pgxpool.Pool
}

func NewCameraRepository(db *pgxpool.Pool) *CameraRepository {
	return &CameraRepository{db: db}
}

func (r *CameraRepository) CreateCamera(ctx context.Context, c *models.Camera) error {
	logger.Log.Info("Cadastrando câmera (repo)", zap.String("name", c.Name))
	query := `INSERT INTO cameras (name, location, stream_url, description, active)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING id, created_at`
	err := r.db.QueryRow(ctx, query, c.Name, c.Location, c.StreamURL, c.Description, c.Active).
		Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		logger.Log.Error("Erro ao cadastrar câmera (repo)", zap.Error(err))
	}
	return err
}

func (r *CameraRepository) GetByID(ctx context.Context, id int) (*models.Camera, error) {
	query := `SELECT id, name, location, stream_url, description, active, created_at FROM cameras WHERE id = $1`
	var c models.Camera
	err := r.db.QueryRow(ctx, query, id).Scan(&c.ID, &c.Name, &c.Location, &c.StreamURL, &c.Description, &c.Active, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CameraRepository) ListCameras(ctx context.Context, onlyActive bool) ([]*models.Camera, error) {
	query := `SELECT id, name, location, stream_url, description, active, created_at FROM cameras`
	if onlyActive {
		query += ` WHERE active`
	}
	query += ` ORDER BY name`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		logger.Log.Error("Erro ao listar câmeras (repo)", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var out []*models.Camera
	for rows.Next() {
		var c models.Camera
		if err := rows.Scan(&c.ID, &c.Name, &c.Location, &c.StreamURL, &c.Description, &c.Active, &c.CreatedAt); err != nil {
			logger.Log.Error("Erro ao escanear câmera (repo)", zap.Error(err))
			return nil, err
		}
		out = append(out, &c)
	}
	return out, nil
}

func (r *CameraRepository) UpdateCameraFields(ctx context.Context, id int, input *models.UpdateCameraRequest) error {
	logger.Log.Info("Atualizando câmera (repo)", zap.Int("camera_id", id))
	query := `UPDATE cameras SET`
	var args []interface{}
	argNum := 1

	if input.Name != nil {
		query += fmt.Sprintf(" name = $%d,", argNum)
		args = append(args, *input.Name)
		argNum++
	}
	if input.Location != nil {
		query += fmt.Sprintf(" location = $%d,", argNum)
		args = append(args, *input.Location)
		argNum++
	}
	if input.StreamURL != nil {
		query += fmt.Sprintf(" stream_url = $%d,", argNum)
		args = append(args, *input.StreamURL)
		argNum++
	}
	if input.Description != nil {
		query += fmt.Sprintf(" description = $%d,", argNum)
		args = append(args, *input.Description)
		argNum++
	}
	if input.Active != nil {
		query += fmt.Sprintf(" active = $%d,", argNum)
		args = append(args, *input.Active)
		argNum++
	}

	if len(args) == 0 {
		return nil
	}

	query = strings.TrimSuffix(query, ",") + fmt.Sprintf(" WHERE id = $%d", argNum)
	args = append(args, id)

	_, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		logger.Log.Error("Erro ao atualizar câmera (repo)", zap.Error(err), zap.Int("camera_id", id))
	}
	return err
}

func (r *CameraRepository) DeleteCamera(ctx context.Context, id int) error {
	logger.Log.Info("Removendo câmera (repo)", zap.Int("camera_id", id))
	_, err := r.db.Exec(ctx, `DELETE FROM cameras WHERE id = $1`, id)
	if err != nil {
		logger.Log.Error("Erro ao remover câmera (repo)", zap.Error(err))
	}
	return err
}
