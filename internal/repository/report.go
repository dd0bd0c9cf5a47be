package repository

import (
	"context"

	"vigia/internal/logger"
	"vigia/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type ReportRepository struct {
	db *pgxpool.Pool
}

func NewReportRepository(db *pgxpool.Pool) *ReportRepository {
	return &ReportRepository{db: db}
}

func (r *ReportRepository) CreateReport(ctx context.Context, rep *models.AnonymousReport) error {
	// Sem user_id no log — a denúncia é anônima para fora do banco.
	logger.Log.Info("Registrando denúncia anônima (repo)", zap.String("category", rep.Category))
	query := `
	INSERT INTO anonymous_reports (author_id, category, description, location)
	VALUES ($1, $2, $3, $4)
	RETURNING id, created_at`
	err := r.db.QueryRow(ctx, query, rep.AuthorID, rep.Category, rep.Description, rep.Location).
		Scan(&rep.ID, &rep.CreatedAt)
	if err != nil {
		logger.Log.Error("Erro ao registrar denúncia (repo)", zap.Error(err))
	}
	return err
}

func (r *ReportRepository) ListReports(ctx context.Context) ([]*models.AnonymousReport, error) {
	query := `SELECT id, category, description, location, created_at
	FROM anonymous_reports ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		logger.Log.Error("Erro ao listar denúncias (repo)", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var out []*models.AnonymousReport
	for rows.Next() {
		var rep models.AnonymousReport
		if err := rows.Scan(&rep.ID, &rep.Category, &rep.Description, &rep.Location, &rep.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &rep)
	}
	return out, nil
}
