package services

import (
	"context"
	"errors"

	"vigia/internal/models"
)

// CommunityService reúne os cadastros simples do mural: pets perdidos,
// denúncias anônimas e contatos de utilidade pública.
type CommunityService struct {
	pets     SosPetRepo
	reports  ReportRepo
	contacts ContactRepo
}

type SosPetRepo interface {
	CreatePet(ctx context.Context, p *models.SosPet) error
	ListPets(ctx context.Context) ([]*models.SosPet, error)
	UpdateStatus(ctx context.Context, petID, ownerID int, status string) (bool, error)
	DeletePet(ctx context.Context, petID, ownerID int) (bool, error)
}

type ReportRepo interface {
	CreateReport(ctx context.Context, rep *models.AnonymousReport) error
	ListReports(ctx context.Context) ([]*models.AnonymousReport, error)
}

type ContactRepo interface {
	ListContacts(ctx context.Context) ([]*models.UtilityContact, error)
	CreateContact(ctx context.Context, c *models.UtilityContact) error
	UpdateContact(ctx context.Context, c *models.UtilityContact) error
	DeleteContact(ctx context.Context, id int) error
}

func NewCommunityService(pets SosPetRepo, reports ReportRepo, contacts ContactRepo) *CommunityService {
	return &CommunityService{pets: pets, reports: reports, contacts: contacts}
}

var ErrNotOwner = errors.New("registro não encontrado ou não pertence a você")

func (s *CommunityService) RegisterLostPet(ctx context.Context, p *models.SosPet) error {
	if p.PetName == "" {
		return errors.New("nome do pet é obrigatório")
	}
	return s.pets.CreatePet(ctx, p)
}

func (s *CommunityService) ListLostPets(ctx context.Context) ([]*models.SosPet, error) {
	return s.pets.ListPets(ctx)
}

func (s *CommunityService) UpdatePetStatus(ctx context.Context, petID, ownerID int, status string) error {
	if status != "lost" && status != "found" {
		return errors.New("status inválido")
	}
	ok, err := s.pets.UpdateStatus(ctx, petID, ownerID, status)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotOwner
	}
	return nil
}

func (s *CommunityService) DeletePet(ctx context.Context, petID, ownerID int) error {
	ok, err := s.pets.DeletePet(ctx, petID, ownerID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotOwner
	}
	return nil
}

func (s *CommunityService) SubmitReport(ctx context.Context, rep *models.AnonymousReport) error {
	if rep.Description == "" {
		return errors.New("descrição é obrigatória")
	}
	return s.reports.CreateReport(ctx, rep)
}

func (s *CommunityService) ListReports(ctx context.Context) ([]*models.AnonymousReport, error) {
	return s.reports.ListReports(ctx)
}

func (s *CommunityService) ListContacts(ctx context.Context) ([]*models.UtilityContact, error) {
	return s.contacts.ListContacts(ctx)
}

func (s *CommunityService) CreateContact(ctx context.Context, c *models.UtilityContact) error {
	return s.contacts.CreateContact(ctx, c)
}

func (s *CommunityService) UpdateContact(ctx context.Context, c *models.UtilityContact) error {
	return s.contacts.UpdateContact(ctx, c)
}

func (s *CommunityService) DeleteContact(ctx context.Context, id int) error {
	return s.contacts.DeleteContact(ctx, id)
}
