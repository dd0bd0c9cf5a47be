package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"vigia/internal/models"

	"github.com/jackc/pgx/v5"
)

type mockMessageRepo struct {
	byID map[string]*models.Message
}

func (m *mockMessageRepo) CreateMessage(_ context.Context, msg *models.Message) error {
	if _, exists := m.byID[msg.ID]; exists {
		return pgx.ErrNoRows // mesmo contrato do banco: id repetido vira no-op
	}
	msg.CreatedAt = time.Now()
	m.byID[msg.ID] = msg
	return nil
}

func (m *mockMessageRepo) GetByID(_ context.Context, id string) (*models.Message, error) {
	msg, ok := m.byID[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return msg, nil
}

func (m *mockMessageRepo) GetConversation(_ context.Context, _, _, _ int) ([]*models.Message, error) {
	return nil, nil
}

func (m *mockMessageRepo) GetGroupMessages(_ context.Context, _, _ int) ([]*models.Message, error) {
	return nil, nil
}

func (m *mockMessageRepo) MarkDelivered(_ context.Context, id string, receiverID int, at time.Time) (bool, error) {
	msg, ok := m.byID[id]
	if !ok || msg.ReceiverID == nil || *msg.ReceiverID != receiverID || msg.DeliveredAt != nil {
		return false, nil
	}
	msg.DeliveredAt = &at
	return true, nil
}

func (m *mockMessageRepo) MarkRead(_ context.Context, id string, receiverID int, at time.Time) (bool, error) {
	msg, ok := m.byID[id]
	if !ok || msg.ReceiverID == nil || *msg.ReceiverID != receiverID {
		return false, nil
	}
	msg.ReadAt = &at
	return true, nil
}

func (m *mockMessageRepo) ListUndelivered(_ context.Context, receiverID int) ([]*models.Message, error) {
	var out []*models.Message
	for _, msg := range m.byID {
		if msg.ReceiverID != nil && *msg.ReceiverID == receiverID && msg.DeliveredAt == nil {
			out = append(out, msg)
		}
	}
	return out, nil
}

type mockGroupRepo struct {
	members  map[int][]int // groupID -> userIDs
	creators map[int]int   // groupID -> created_by
}

func (m *mockGroupRepo) CreateGroup(_ context.Context, g *models.Group) error {
	g.ID = len(m.members) + 1
	if m.creators != nil {
		m.creators[g.ID] = g.CreatedBy
	}
	return nil
}

func (m *mockGroupRepo) AddMember(_ context.Context, groupID, userID int) error {
	m.members[groupID] = append(m.members[groupID], userID)
	return nil
}

func (m *mockGroupRepo) RemoveMember(_ context.Context, groupID, userID int) error {
	out := m.members[groupID][:0]
	for _, id := range m.members[groupID] {
		if id != userID {
			out = append(out, id)
		}
	}
	m.members[groupID] = out
	return nil
}

func (m *mockGroupRepo) IsMember(_ context.Context, groupID, userID int) (bool, error) {
	for _, id := range m.members[groupID] {
		if id == userID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockGroupRepo) ListGroupsByUser(_ context.Context, _ int) ([]*models.Group, error) {
	return nil, nil
}

func (m *mockGroupRepo) ListMembers(_ context.Context, groupID int) ([]*models.GroupMember, error) {
	var out []*models.GroupMember
	for _, id := range m.members[groupID] {
		out = append(out, &models.GroupMember{GroupID: groupID, UserID: id})
	}
	return out, nil
}

func (m *mockGroupRepo) DeleteGroup(_ context.Context, groupID, requesterID int) (bool, error) {
	if m.creators[groupID] != requesterID {
		return false, nil
	}
	delete(m.members, groupID)
	delete(m.creators, groupID)
	return true, nil
}

func newMessageFixture() (*MessageService, *mockMessageRepo, *mockGroupRepo) {
	repo := &mockMessageRepo{byID: make(map[string]*models.Message)}
	groups := &mockGroupRepo{members: make(map[int][]int), creators: make(map[int]int)}
	svc := NewMessageService(repo, groups, NewRealtimeService(nil))
	return svc, repo, groups
}

func TestSendDirect_GeneratesID(t *testing.T) {
	svc, repo, _ := newMessageFixture()

	m, err := svc.SendDirect(context.Background(), 1, 2, "", "oi, vizinho")
	if err != nil {
		t.Fatalf("envio falhou: %v", err)
	}
	if m.ID == "" {
		t.Fatal("mensagem sem id de idempotência")
	}
	if _, ok := repo.byID[m.ID]; !ok {
		t.Fatal("mensagem não foi persistida")
	}
}

func TestSendDirect_DuplicateIsNoop(t *testing.T) {
	svc, repo, _ := newMessageFixture()

	first, err := svc.SendDirect(context.Background(), 1, 2, "msg-uuid-1", "oi")
	if err != nil {
		t.Fatalf("primeiro envio falhou: %v", err)
	}

	second, err := svc.SendDirect(context.Background(), 1, 2, "msg-uuid-1", "oi")
	if err != nil {
		t.Fatalf("reenvio deveria ser aceito como no-op: %v", err)
	}
	if second.ID != first.ID {
		t.Fatal("reenvio deve devolver a mensagem original")
	}
	if len(repo.byID) != 1 {
		t.Fatalf("reenvio não pode duplicar a mensagem: %d registros", len(repo.byID))
	}
}

func TestSendDirect_EmptyContent(t *testing.T) {
	svc, _, _ := newMessageFixture()

	if _, err := svc.SendDirect(context.Background(), 1, 2, "", ""); !errors.Is(err, ErrEmptyMessage) {
		t.Fatalf("mensagem vazia deveria ser rejeitada, veio %v", err)
	}
}

func TestSendToGroup_RequiresMembership(t *testing.T) {
	svc, _, groups := newMessageFixture()
	groups.members[10] = []int{2, 3}

	if _, err := svc.SendToGroup(context.Background(), 1, 10, "", "oi grupo"); !errors.Is(err, ErrNotGroupMember) {
		t.Fatalf("não-membro deveria ser barrado, veio %v", err)
	}

	m, err := svc.SendToGroup(context.Background(), 2, 10, "", "oi grupo")
	if err != nil {
		t.Fatalf("membro deveria conseguir enviar: %v", err)
	}
	if !m.IsGroup || m.GroupID == nil || *m.GroupID != 10 {
		t.Fatalf("mensagem de grupo mal formada: %+v", m)
	}
}

func TestConfirmDelivered_OnlyReceiver(t *testing.T) {
	svc, repo, _ := newMessageFixture()

	m, _ := svc.SendDirect(context.Background(), 1, 2, "", "oi")

	// o remetente não pode confirmar a entrega da própria mensagem
	if err := svc.ConfirmDelivered(context.Background(), m.ID, 1); err != nil {
		t.Fatalf("confirmação de não-destinatário deve ser no-op, veio %v", err)
	}
	if repo.byID[m.ID].DeliveredAt != nil {
		t.Fatal("remetente não pode marcar a entrega")
	}

	if err := svc.ConfirmDelivered(context.Background(), m.ID, 2); err != nil {
		t.Fatalf("confirmação do destinatário falhou: %v", err)
	}
	if repo.byID[m.ID].DeliveredAt == nil {
		t.Fatal("entrega não foi marcada")
	}
}

func TestPendingMessages(t *testing.T) {
	svc, _, _ := newMessageFixture()

	m1, _ := svc.SendDirect(context.Background(), 1, 2, "", "primeira")
	_, _ = svc.SendDirect(context.Background(), 1, 2, "", "segunda")
	_ = svc.ConfirmDelivered(context.Background(), m1.ID, 2)

	pending, err := svc.PendingMessages(context.Background(), 2)
	if err != nil {
		t.Fatalf("consulta de pendentes falhou: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("esperava 1 pendente, veio %d", len(pending))
	}
}

func TestCreateGroup_AddsCreator(t *testing.T) {
	svc, _, groups := newMessageFixture()

	g, err := svc.CreateGroup(context.Background(), "Rua das Flores", 5)
	if err != nil {
		t.Fatalf("criação do grupo falhou: %v", err)
	}
	member, _ := groups.IsMember(context.Background(), g.ID, 5)
	if !member {
		t.Fatal("quem cria o grupo já entra como membro")
	}
}

func TestGroupMembers_RequiresMembership(t *testing.T) {
	svc, _, _ := newMessageFixture()
	ctx := context.Background()

	g, _ := svc.CreateGroup(ctx, "Quadra 3", 5)
	_ = svc.JoinGroup(ctx, g.ID, 6)

	members, err := svc.GroupMembers(ctx, 6, g.ID)
	if err != nil {
		t.Fatalf("listagem de membros falhou: %v", err)
	}
	if len(members) != 2 {
		t.Fatalf("esperava 2 membros, veio %d", len(members))
	}

	if _, err := svc.GroupMembers(ctx, 99, g.ID); !errors.Is(err, ErrNotGroupMember) {
		t.Fatalf("quem está fora do grupo não pode ver os membros, veio %v", err)
	}
}

func TestDeleteGroup_OnlyCreator(t *testing.T) {
	svc, _, groups := newMessageFixture()
	ctx := context.Background()

	g, _ := svc.CreateGroup(ctx, "Obras", 5)
	_ = svc.JoinGroup(ctx, g.ID, 6)

	if err := svc.DeleteGroup(ctx, g.ID, 6); !errors.Is(err, ErrNotGroupCreator) {
		t.Fatalf("membro comum não pode remover o grupo, veio %v", err)
	}
	if err := svc.DeleteGroup(ctx, g.ID, 5); err != nil {
		t.Fatalf("criador deveria remover o grupo: %v", err)
	}
	if _, ok := groups.members[g.ID]; ok {
		t.Fatal("grupo continua existindo depois da remoção")
	}
}
