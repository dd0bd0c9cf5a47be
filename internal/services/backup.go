package services

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"vigia/internal/config"
	"vigia/internal/logger"
	"vigia/internal/models"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// BackupService lista o conteúdo do bucket de backups e registra a auditoria.
// Não copia nada — o gatilho só confere o estado do storage e deixa rastro.
type BackupService struct {
	client *minio.Client
	bucket string
	audit  AuditRepo
}

func NewBackupService(cfg *config.Config, audit AuditRepo) (*BackupService, error) {
	if cfg.MinioEndpoint == "" {
		return &BackupService{audit: audit}, nil // storage não configurado
	}

	endpoint := cfg.MinioEndpoint
	useSSL := cfg.MinioUseSSL
	if strings.HasPrefix(endpoint, "http") {
		u, err := url.Parse(endpoint)
		if err != nil {
			return nil, fmt.Errorf("endpoint do MinIO inválido: %w", err)
		}
		endpoint = u.Host
		useSSL = u.Scheme == "https"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio: %w", err)
	}

	return &BackupService{client: client, bucket: cfg.BackupBucket, audit: audit}, nil
}

type BackupSummary struct {
	Bucket      string    `json:"bucket"`
	ObjectCount int       `json:"object_count"`
	TotalBytes  int64     `json:"total_bytes"`
	CheckedAt   time.Time `json:"checked_at"`
}

func (s *BackupService) TriggerBackup(ctx context.Context, adminID int) (*BackupSummary, error) {
	if s.client == nil {
		return nil, fmt.Errorf("storage de backup não configurado")
	}

	logger.Log.Info("Gatilho de backup acionado", zap.Int("admin_id", adminID), zap.String("bucket", s.bucket))

	summary := &BackupSummary{Bucket: s.bucket, CheckedAt: time.Now()}
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Recursive: true}) {
		if obj.Err != nil {
			logger.Log.Error("Erro ao listar objetos de backup", zap.Error(obj.Err))
			return nil, obj.Err
		}
		summary.ObjectCount++
		summary.TotalBytes += obj.Size
	}

	// auditoria best-effort
	if s.audit != nil {
		err := s.audit.InsertLog(ctx, &models.AdminLog{
			AdminID: adminID,
			Action:  "backup_trigger",
			Details: fmt.Sprintf("bucket %s: %d objetos, %d bytes", s.bucket, summary.ObjectCount, summary.TotalBytes),
		})
		if err != nil {
			logger.Log.Warn("Auditoria do backup falhou (best-effort)", zap.Error(err))
		}
	}

	return summary, nil
}
