package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"vigia/internal/models"
	"vigia/internal/utils"
)

// Mock do repositório de moradores
type mockUserRepo struct {
	users    map[string]*models.User
	lastUser *models.User
	failByID bool
}

func (m *mockUserRepo) IsEmailTaken(_ context.Context, email string) (bool, error) {
	_, exists := m.users[email]
	return exists, nil
}

func (m *mockUserRepo) CreateUser(_ context.Context, user *models.User) error {
	user.ID = len(m.users) + 1
	m.users[user.Email] = user
	m.lastUser = user
	return nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	u, ok := m.users[email]
	if !ok {
		return nil, errors.New("not found")
	}
	return u, nil
}

func (m *mockUserRepo) GetUserByID(_ context.Context, id int) (*models.User, error) {
	if m.failByID {
		return nil, errors.New("db down")
	}
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, errors.New("not found")
}

func (m *mockUserRepo) GetAllUsersPaginated(_ context.Context, _, _ int) ([]*models.User, int, error) {
	return nil, 0, nil
}

func (m *mockUserRepo) UpdateUserFields(_ context.Context, _ int, _ *models.UpdateUserRequest) error {
	return nil
}

func (m *mockUserRepo) TransitionInitialPaymentStatus(_ context.Context, _ int, _, _ string) (bool, error) {
	return false, nil
}

func (m *mockUserRepo) ApproveUser(_ context.Context, _ int, _ time.Time) error { return nil }
func (m *mockUserRepo) DeleteUserByID(_ context.Context, _ int) error           { return nil }
func (m *mockUserRepo) SaveRefreshToken(_ context.Context, _ int, _ string) error {
	return nil
}
func (m *mockUserRepo) IsRefreshTokenValid(_ context.Context, _ int, _ string) (bool, error) {
	return true, nil
}
func (m *mockUserRepo) DeleteRefreshToken(_ context.Context, _ int, _ string) error { return nil }
func (m *mockUserRepo) GetSystemStats(_ context.Context) (*models.SystemStats, error) {
	return &models.SystemStats{}, nil
}

type mockRoleRepo struct {
	roles map[int]string
	fail  bool
}

func (m *mockRoleRepo) HasRole(_ context.Context, userID int, role string) (bool, error) {
	if m.fail {
		return false, errors.New("db down")
	}
	return m.roles[userID] == role, nil
}

func (m *mockRoleRepo) GrantRole(_ context.Context, userID int, role string, _ int) error {
	m.roles[userID] = role
	return nil
}

func (m *mockRoleRepo) RevokeRole(_ context.Context, userID int, _ string) error {
	delete(m.roles, userID)
	return nil
}

func (m *mockRoleRepo) ListByRole(_ context.Context, role string) ([]*models.UserRole, error) {
	if m.fail {
		return nil, errors.New("db down")
	}
	var out []*models.UserRole
	for id, r := range m.roles {
		if r == role {
			out = append(out, &models.UserRole{UserID: id, Role: r})
		}
	}
	return out, nil
}

type mockChargeRepo struct {
	charges []*models.Payment
}

func (m *mockChargeRepo) CreatePayment(_ context.Context, p *models.Payment) error {
	m.charges = append(m.charges, p)
	return nil
}

func newAuthFixture(adminEmails []string) (*AuthService, *mockUserRepo, *mockRoleRepo, *mockChargeRepo) {
	repo := &mockUserRepo{users: make(map[string]*models.User)}
	roles := &mockRoleRepo{roles: make(map[int]string)}
	charges := &mockChargeRepo{}
	svc := NewAuthService(repo, roles, charges, nil, adminEmails, 132.00)
	return svc, repo, roles, charges
}

func TestRegisterUser_CreatesInitialCharge(t *testing.T) {
	svc, repo, _, charges := newAuthFixture(nil)

	user := &models.User{Email: "maria@example.com", FullName: "Maria Souza"}
	if err := svc.RegisterUser(context.Background(), user, "segredo123"); err != nil {
		t.Fatalf("erro no cadastro: %v", err)
	}

	if repo.lastUser == nil || repo.lastUser.PasswordHash == "" {
		t.Fatal("senha não foi hasheada ou morador não foi salvo")
	}
	if repo.lastUser.InitialPaymentStatus != models.PaymentStatusUnpaid {
		t.Fatalf("cadastro novo deve começar unpaid, veio %s", repo.lastUser.InitialPaymentStatus)
	}
	if len(charges.charges) != 1 {
		t.Fatal("cadastro deve gerar a cobrança da taxa de adesão")
	}
	c := charges.charges[0]
	if c.Amount != 132.00 || c.PaymentType != models.PaymentTypeInitial || c.Status != models.ChargeStatusPending {
		t.Fatalf("cobrança inicial mal formada: %+v", c)
	}
}

func TestRegisterUser_DuplicateEmail(t *testing.T) {
	svc, _, _, _ := newAuthFixture(nil)

	u1 := &models.User{Email: "maria@example.com", FullName: "Maria"}
	if err := svc.RegisterUser(context.Background(), u1, "segredo123"); err != nil {
		t.Fatalf("primeiro cadastro falhou: %v", err)
	}

	u2 := &models.User{Email: "maria@example.com", FullName: "Outra Maria"}
	if err := svc.RegisterUser(context.Background(), u2, "outrasenha"); err == nil {
		t.Fatal("e-mail repetido deveria ser rejeitado")
	}
}

func TestLoginUser(t *testing.T) {
	svc, repo, _, _ := newAuthFixture(nil)

	hash, _ := utils.HashPassword("segredo123")
	repo.users["maria@example.com"] = &models.User{
		ID: 1, Email: "maria@example.com", PasswordHash: hash,
	}

	access, refresh, user, err := svc.LoginUser(context.Background(),
		"maria@example.com", "segredo123", "test-secret", time.Minute, time.Hour)
	if err != nil {
		t.Fatalf("login falhou: %v", err)
	}
	if access == "" || refresh == "" || user.ID != 1 {
		t.Fatal("login deve devolver o par de tokens e o morador")
	}

	_, _, _, err = svc.LoginUser(context.Background(),
		"maria@example.com", "senhaerrada", "test-secret", time.Minute, time.Hour)
	if err == nil {
		t.Fatal("senha errada deveria falhar")
	}
}

func TestIsAdmin_RoleAndFallback(t *testing.T) {
	svc, repo, roles, _ := newAuthFixture([]string{"sindico@vigia.com.br"})
	repo.users["x@example.com"] = &models.User{ID: 5, Email: "x@example.com"}

	if svc.IsAdmin(context.Background(), 5, "x@example.com") {
		t.Fatal("morador sem papel e fora da lista não é admin")
	}

	roles.roles[5] = "admin"
	if !svc.IsAdmin(context.Background(), 5, "x@example.com") {
		t.Fatal("papel admin deveria liberar")
	}

	// fallback por e-mail independe de papel no banco
	if !svc.IsAdmin(context.Background(), 99, "SINDICO@vigia.com.br") {
		t.Fatal("e-mail da lista de fallback deveria liberar (case-insensitive)")
	}
}

func TestIsAdmin_QueryErrorFallsBackToEmailOnly(t *testing.T) {
	svc, _, roles, _ := newAuthFixture([]string{"sindico@vigia.com.br"})
	roles.fail = true

	if svc.IsAdmin(context.Background(), 5, "qualquer@example.com") {
		t.Fatal("erro de consulta não pode conceder acesso por papel")
	}
	if !svc.IsAdmin(context.Background(), 5, "sindico@vigia.com.br") {
		t.Fatal("fallback por e-mail segue valendo mesmo com o banco fora")
	}
}

func TestIsApproved_FailClosed(t *testing.T) {
	svc, repo, _, _ := newAuthFixture(nil)
	repo.users["a@example.com"] = &models.User{ID: 3, Email: "a@example.com", IsApproved: true}

	if !svc.IsApproved(context.Background(), 3) {
		t.Fatal("morador aprovado deveria passar")
	}

	repo.failByID = true
	if svc.IsApproved(context.Background(), 3) {
		t.Fatal("erro de consulta tem que negar acesso (fail-closed)")
	}
}
