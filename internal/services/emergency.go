package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"vigia/internal/logger"
	"vigia/internal/models"

	"go.uber.org/zap"
)

type EmergencyService struct {
	repo     EmergencyRepo
	realtime *RealtimeService
	notifier *Notifier
}

type EmergencyRepo interface {
	CreateAlert(ctx context.Context, a *models.EmergencyAlert) error
	ListAlerts(ctx context.Context, onlyActive bool) ([]*models.EmergencyAlert, error)
	ResolveAlert(ctx context.Context, alertID, adminID int, at time.Time) (bool, error)
}

func NewEmergencyService(repo EmergencyRepo, realtime *RealtimeService, notifier *Notifier) *EmergencyService {
	return &EmergencyService{repo: repo, realtime: realtime, notifier: notifier}
}

var validAlertKinds = map[string]struct{}{
	"sos": {}, "roubo": {}, "incendio": {}, "medico": {}, "outro": {},
}

// TriggerAlert registra o SOS e avisa todo mundo pelo broadcast. O aviso é
// best-effort; o registro no banco é o que vale.
func (s *EmergencyService) TriggerAlert(ctx context.Context, a *models.EmergencyAlert) error {
	if _, ok := validAlertKinds[a.Kind]; !ok {
		return errors.New("tipo de alerta inválido")
	}

	if err := s.repo.CreateAlert(ctx, a); err != nil {
		logger.Log.Error("Erro ao registrar SOS (service)", zap.Error(err), zap.Int("user_id", a.UserID))
		return err
	}

	s.realtime.PublishBroadcast(ctx, &models.RealtimeEvent{Type: models.EventAlertNew, Alert: a})
	if s.notifier != nil {
		s.notifier.NotifyAdmins(ctx, "Alerta de emergência",
			fmt.Sprintf("SOS (%s) disparado pelo morador %d", a.Kind, a.UserID),
			"emergency", &a.UserID)
	}

	logger.Log.Info("SOS registrado (service)", zap.Int("alert_id", a.ID), zap.String("kind", a.Kind))
	return nil
}

func (s *EmergencyService) ListAlerts(ctx context.Context, onlyActive bool) ([]*models.EmergencyAlert, error) {
	return s.repo.ListAlerts(ctx, onlyActive)
}

func (s *EmergencyService) ResolveAlert(ctx context.Context, alertID, adminID int) (bool, error) {
	return s.repo.ResolveAlert(ctx, alertID, adminID, time.Now())
}
