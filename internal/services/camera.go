package services

import (
	"context"

	"vigia/internal/models"
)

type CameraService struct {
	repo CameraRepo
}

type CameraRepo interface {
	CreateCamera(ctx context.Context, c *models.Camera) error
	GetByID(ctx context.Context, id int) (*models.Camera, error)
	ListCameras(ctx context.Context, onlyActive bool) ([]*models.Camera, error)
	UpdateCameraFields(ctx context.Context, id int, input *models.UpdateCameraRequest) error
	DeleteCamera(ctx context.Context, id int) error
}

func NewCameraService(repo CameraRepo) *CameraService {
	return &CameraService{repo: repo}
}

func (s *CameraService) Create(ctx context.Context, c *models.Camera) error {
	return s.repo.CreateCamera(ctx, c)
}

func (s *CameraService) Get(ctx context.Context, id int) (*models.Camera, error) {
	return s.repo.GetByID(ctx, id)
}

// List: morador vê só as ativas; admin enxerga tudo.
func (s *CameraService) List(ctx context.Context, includeInactive bool) ([]*models.Camera, error) {
	return s.repo.ListCameras(ctx, !includeInactive)
}

func (s *CameraService) Update(ctx context.Context, id int, input *models.UpdateCameraRequest) error {
	return s.repo.UpdateCameraFields(ctx, id, input)
}

func (s *CameraService) Delete(ctx context.Context, id int) error {
	return s.repo.DeleteCamera(ctx, id)
}
