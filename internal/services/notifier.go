// internal/services/notifier.go
package services

import (
	"context"

	"vigia/internal/logger"
	"vigia/internal/models"

	"go.uber.org/zap"
)

// Notifier grava avisos para o back-office. Tudo aqui é best-effort: falha em
// notificação nunca derruba a operação principal — só vai para o log.
type Notifier struct {
	repo NotificationRepo
}

type NotificationRepo interface {
	InsertNotification(ctx context.Context, n *models.Notification) error
}

func NewNotifier(repo NotificationRepo) *Notifier {
	return &Notifier{repo: repo}
}

func (n *Notifier) NotifyAdmins(ctx context.Context, title, body, kind string, userID *int) {
	// importante: não amarrar no contexto HTTP
	ctx = context.WithoutCancel(ctx)

	err := n.repo.InsertNotification(ctx, &models.Notification{
		Title:  title,
		Body:   body,
		Kind:   kind,
		UserID: userID,
	})
	if err != nil {
		logger.Log.Warn("Notificação para admins falhou (best-effort)", zap.Error(err), zap.String("kind", kind))
	}
}
