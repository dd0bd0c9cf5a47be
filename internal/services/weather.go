package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"vigia/internal/logger"
	"vigia/internal/models"

	"go.uber.org/zap"
)

// WeatherService consulta o provedor de clima e mantém a tabela de alertas.
// A ingestão roda no agendador; falha numa rodada não afeta a próxima.
type WeatherService struct {
	repo       WeatherRepo
	BaseURL    string
	APIKey     string
	City       string
	HTTPClient *http.Client
}

type WeatherRepo interface {
	UpsertAlert(ctx context.Context, a *models.WeatherAlert) error
	ListCurrent(ctx context.Context) ([]*models.WeatherAlert, error)
}

func NewWeatherService(repo WeatherRepo, baseURL, apiKey, city string) *WeatherService {
	return &WeatherService{
		repo:       repo,
		BaseURL:    baseURL,
		APIKey:     apiKey,
		City:       city,
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
	}
}

type providerAlert struct {
	ID          string `json:"id"`
	Event       string `json:"event"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
	Start       int64  `json:"start"`
	End         int64  `json:"end"`
}

type providerResponse struct {
	Alerts []providerAlert `json:"alerts"`
}

// IngestAlerts puxa os alertas vigentes do provedor e grava com upsert —
// o event_id do provedor evita duplicata entre rodadas.
func (s *WeatherService) IngestAlerts(ctx context.Context) (int, error) {
	if s.APIKey == "" {
		return 0, nil // ingestão desabilitada
	}

	endpoint := fmt.Sprintf("%s/alerts?q=%s&appid=%s", s.BaseURL, url.QueryEscape(s.City), s.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, err
	}

	resp, err := s.HTTPClient.Do(req)
	if err != nil {
		logger.Log.Error("Erro ao consultar provedor de clima", zap.Error(err))
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Log.Error("Provedor de clima respondeu com erro", zap.Int("status", resp.StatusCode))
		return 0, fmt.Errorf("provedor de clima: status %d", resp.StatusCode)
	}

	var payload providerResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, err
	}

	saved := 0
	for _, pa := range payload.Alerts {
		alert := &models.WeatherAlert{
			EventID:     pa.ID,
			Event:       pa.Event,
			Severity:    pa.Severity,
			Description: pa.Description,
			StartsAt:    time.Unix(pa.Start, 0),
		}
		if pa.End > 0 {
			end := time.Unix(pa.End, 0)
			alert.EndsAt = &end
		}
		if err := s.repo.UpsertAlert(ctx, alert); err != nil {
			// segue para o próximo; o upsert que falhou fica para a próxima rodada
			continue
		}
		saved++
	}

	logger.Log.Info("Ingestão de alertas climáticos concluída", zap.Int("received", len(payload.Alerts)), zap.Int("saved", saved))
	return saved, nil
}

func (s *WeatherService) ListCurrent(ctx context.Context) ([]*models.WeatherAlert, error) {
	return s.repo.ListCurrent(ctx)
}
