package repository

import (
	"context"

	"vigia/internal/logger"
	"vigia/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type WeatherAlertRepository struct {
	db *pgxpool.Pool
}

func NewWeatherAlertRepository(db *pgxpool.Pool) *WeatherAlertRepository {
	return &WeatherAlertRepository{db: db}
}

// UpsertAlert insere o alerta ou atualiza o existente com o mesmo event_id do
// provedor — a ingestão roda de hora em hora e reprocessa a janela inteira.
func (r *WeatherAlertRepository) UpsertAlert(ctx context.Context, a *models.WeatherAlert) error {
	query := `
	INSERT INTO weather_alerts (event_id, event, severity, description, starts_at, ends_at)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (event_id) DO UPDATE
	SET event = EXCLUDED.event,
	    severity = EXCLUDED.severity,
	    description = EXCLUDED.description,
	    starts_at = EXCLUDED.starts_at,
	    ends_at = EXCLUDED.ends_at
	RETURNING id, created_at`
	err := r.db.QueryRow(ctx, query, a.EventID, a.Event, a.Severity, a.Description, a.StartsAt, a.EndsAt).
		Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		logger.Log.Error("Erro ao gravar alerta climático (repo)", zap.Error(err), zap.String("event_id", a.EventID))
	}
	return err
}

func (r *WeatherAlertRepository) ListCurrent(ctx context.Context) ([]*models.WeatherAlert, error) {
	query := `SELECT id, event_id, event, severity, description, starts_at, ends_at, created_at
	FROM weather_alerts
	WHERE ends_at IS NULL OR ends_at > now()
	ORDER BY starts_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		logger.Log.Error("Erro ao listar alertas climáticos (repo)", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var out []*models.WeatherAlert
	for rows.Next() {
		var a models.WeatherAlert
		if err := rows.Scan(&a.ID, &a.EventID, &a.Event, &a.Severity, &a.Description, &a.StartsAt, &a.EndsAt, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &a)
	}
	return out, nil
}
