package services

import (
	"context"
	"time"

	"vigia/internal/models"
)

// AdminService cobre o miolo do back-office: notificações internas e trilha
// de auditoria. As operações sobre usuários ficam no AuthService.
type AdminService struct {
	notifications AdminNotificationRepo
	audit         AdminAuditRepo
}

type AdminNotificationRepo interface {
	ListUnread(ctx context.Context) ([]*models.Notification, error)
	MarkRead(ctx context.Context, id int, at time.Time) error
}

type AdminAuditRepo interface {
	ListLogs(ctx context.Context, limit, offset int) ([]*models.AdminLog, error)
}

func NewAdminService(notifications AdminNotificationRepo, audit AdminAuditRepo) *AdminService {
	return &AdminService{notifications: notifications, audit: audit}
}

func (s *AdminService) UnreadNotifications(ctx context.Context) ([]*models.Notification, error) {
	return s.notifications.ListUnread(ctx)
}

func (s *AdminService) MarkNotificationRead(ctx context.Context, id int) error {
	return s.notifications.MarkRead(ctx, id, time.Now())
}

func (s *AdminService) AuditTrail(ctx context.Context, limit, offset int) ([]*models.AdminLog, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.audit.ListLogs(ctx, limit, offset)
}
