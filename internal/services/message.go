package services

import (
	"context"
	"errors"
	"time"

	"vigia/internal/logger"
	"vigia/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type MessageService struct {
	repo     MessageRepo
	groups   GroupRepo
	realtime *RealtimeService
}

type MessageRepo interface {
	CreateMessage(ctx context.Context, m *models.Message) error
	GetByID(ctx context.Context, id string) (*models.Message, error)
	GetConversation(ctx context.Context, userA, userB, limit int) ([]*models.Message, error)
	GetGroupMessages(ctx context.Context, groupID, limit int) ([]*models.Message, error)
	MarkDelivered(ctx context.Context, messageID string, receiverID int, at time.Time) (bool, error)
	MarkRead(ctx context.Context, messageID string, receiverID int, at time.Time) (bool, error)
	ListUndelivered(ctx context.Context, receiverID int) ([]*models.Message, error)
}

type GroupRepo interface {
	CreateGroup(ctx context.Context, g *models.Group) error
	AddMember(ctx context.Context, groupID, userID int) error
	RemoveMember(ctx context.Context, groupID, userID int) error
	IsMember(ctx context.Context, groupID, userID int) (bool, error)
	ListGroupsByUser(ctx context.Context, userID int) ([]*models.Group, error)
	ListMembers(ctx context.Context, groupID int) ([]*models.GroupMember, error)
	DeleteGroup(ctx context.Context, groupID, requesterID int) (bool, error)
}

func NewMessageService(repo MessageRepo, groups GroupRepo, realtime *RealtimeService) *MessageService {
	return &MessageService{repo: repo, groups: groups, realtime: realtime}
}

var (
	ErrNotGroupMember  = errors.New("você não participa deste grupo")
	ErrNotGroupCreator = errors.New("apenas quem criou o grupo pode removê-lo")
	ErrEmptyMessage    = errors.New("mensagem vazia")
)

// SendDirect grava e publica uma mensagem direta. O id (UUID) vem do cliente
// quando ele quer reenvio idempotente; reenviar o mesmo id é no-op.
func (s *MessageService) SendDirect(ctx context.Context, senderID, receiverID int, id, content string) (*models.Message, error) {
	if content == "" {
		return nil, ErrEmptyMessage
	}
	if id == "" {
		id = uuid.NewString()
	}

	m := &models.Message{
		ID:         id,
		SenderID:   senderID,
		ReceiverID: &receiverID,
		Content:    content,
		IsGroup:    false,
	}

	err := s.repo.CreateMessage(ctx, m)
	if errors.Is(err, pgx.ErrNoRows) {
		// id repetido: devolve a mensagem original sem publicar de novo
		logger.Log.Debug("Mensagem duplicada ignorada (service)", zap.String("message_id", id))
		return s.repo.GetByID(ctx, id)
	}
	if err != nil {
		return nil, err
	}

	s.realtime.PublishToUser(ctx, receiverID, &models.RealtimeEvent{Type: models.EventMessageNew, Message: m})
	return m, nil
}

func (s *MessageService) SendToGroup(ctx context.Context, senderID, groupID int, id, content string) (*models.Message, error) {
	if content == "" {
		return nil, ErrEmptyMessage
	}

	member, err := s.groups.IsMember(ctx, groupID, senderID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, ErrNotGroupMember
	}

	if id == "" {
		id = uuid.NewString()
	}

	m := &models.Message{
		ID:       id,
		SenderID: senderID,
		GroupID:  &groupID,
		Content:  content,
		IsGroup:  true,
	}

	err = s.repo.CreateMessage(ctx, m)
	if errors.Is(err, pgx.ErrNoRows) {
		logger.Log.Debug("Mensagem duplicada ignorada (service)", zap.String("message_id", id))
		return s.repo.GetByID(ctx, id)
	}
	if err != nil {
		return nil, err
	}

	s.realtime.PublishToGroup(ctx, groupID, &models.RealtimeEvent{Type: models.EventMessageNew, Message: m})
	return m, nil
}

func (s *MessageService) GetConversation(ctx context.Context, userA, userB, limit int) ([]*models.Message, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.repo.GetConversation(ctx, userA, userB, limit)
}

func (s *MessageService) GetGroupMessages(ctx context.Context, userID, groupID, limit int) ([]*models.Message, error) {
	member, err := s.groups.IsMember(ctx, groupID, userID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, ErrNotGroupMember
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.repo.GetGroupMessages(ctx, groupID, limit)
}

// ConfirmDelivered carimba a entrega. Confirmar duas vezes é no-op — o UPDATE
// condicional não acha linha na segunda.
func (s *MessageService) ConfirmDelivered(ctx context.Context, messageID string, receiverID int) error {
	_, err := s.repo.MarkDelivered(ctx, messageID, receiverID, time.Now())
	return err
}

// ConfirmRead carimba a leitura e avisa o remetente pelo canal realtime.
func (s *MessageService) ConfirmRead(ctx context.Context, messageID string, receiverID int) error {
	changed, err := s.repo.MarkRead(ctx, messageID, receiverID, time.Now())
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}

	m, err := s.repo.GetByID(ctx, messageID)
	if err != nil {
		logger.Log.Warn("Leitura confirmada mas mensagem não recarregada", zap.Error(err), zap.String("message_id", messageID))
		return nil
	}
	s.realtime.PublishToUser(ctx, m.SenderID, &models.RealtimeEvent{Type: models.EventMessageRead, Message: m})
	return nil
}

// PendingMessages devolve o que ficou sem entrega enquanto o morador estava
// offline — chamado na abertura do stream.
func (s *MessageService) PendingMessages(ctx context.Context, userID int) ([]*models.Message, error) {
	return s.repo.ListUndelivered(ctx, userID)
}

// ===== grupos =====

func (s *MessageService) CreateGroup(ctx context.Context, name string, creatorID int) (*models.Group, error) {
	if name == "" {
		return nil, errors.New("nome do grupo é obrigatório")
	}
	g := &models.Group{Name: name, CreatedBy: creatorID}
	if err := s.groups.CreateGroup(ctx, g); err != nil {
		return nil, err
	}
	// quem cria já entra
	if err := s.groups.AddMember(ctx, g.ID, creatorID); err != nil {
		logger.Log.Warn("Criador não adicionado ao grupo", zap.Error(err), zap.Int("group_id", g.ID))
	}
	return g, nil
}

func (s *MessageService) JoinGroup(ctx context.Context, groupID, userID int) error {
	return s.groups.AddMember(ctx, groupID, userID)
}

func (s *MessageService) LeaveGroup(ctx context.Context, groupID, userID int) error {
	return s.groups.RemoveMember(ctx, groupID, userID)
}

func (s *MessageService) MyGroups(ctx context.Context, userID int) ([]*models.Group, error) {
	return s.groups.ListGroupsByUser(ctx, userID)
}

// GroupMembers lista quem participa do grupo. Só membros podem consultar.
func (s *MessageService) GroupMembers(ctx context.Context, userID, groupID int) ([]*models.GroupMember, error) {
	member, err := s.groups.IsMember(ctx, groupID, userID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, ErrNotGroupMember
	}
	return s.groups.ListMembers(ctx, groupID)
}

// DeleteGroup remove o grupo. O DELETE é restrito ao criador no próprio SQL,
// então quem não criou recebe ErrNotGroupCreator sem consulta extra.
func (s *MessageService) DeleteGroup(ctx context.Context, groupID, userID int) error {
	deleted, err := s.groups.DeleteGroup(ctx, groupID, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotGroupCreator
	}
	logger.Log.Info("Grupo removido", zap.Int("group_id", groupID), zap.Int("user_id", userID))
	return nil
}

func (s *MessageService) GroupIDsOf(ctx context.Context, userID int) ([]int, error) {
	gs, err := s.groups.ListGroupsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	ids := make([]int, 0, len(gs))
	for _, g := range gs {
		ids = append(ids, g.ID)
	}
	return ids, nil
}
