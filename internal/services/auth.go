package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"vigia/internal/logger"
	"vigia/internal/models"
	"vigia/internal/utils"

	"go.uber.org/zap"
)

type AuthService struct {
	repo        UserRepo
	roles       RoleRepo
	payments    PaymentChargeRepo
	notifier    *Notifier
	adminEmails map[string]struct{}
	initialFee  float64
}

type UserRepo interface {
	IsEmailTaken(ctx context.Context, email string) (bool, error)
	CreateUser(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id int) (*models.User, error)
	GetAllUsersPaginated(ctx context.Context, limit, offset int) ([]*models.User, int, error)
	UpdateUserFields(ctx context.Context, id int, input *models.UpdateUserRequest) error
	TransitionInitialPaymentStatus(ctx context.Context, userID int, from, to string) (bool, error)
	ApproveUser(ctx context.Context, userID int, paidAt time.Time) error
	DeleteUserByID(ctx context.Context, userID int) error
	SaveRefreshToken(ctx context.Context, userID int, token string) error
	IsRefreshTokenValid(ctx context.Context, userID int, token string) (bool, error)
	DeleteRefreshToken(ctx context.Context, userID int, token string) error
	GetSystemStats(ctx context.Context) (*models.SystemStats, error)
}

type RoleRepo interface {
	HasRole(ctx context.Context, userID int, role string) (bool, error)
	GrantRole(ctx context.Context, userID int, role string, grantedBy int) error
	RevokeRole(ctx context.Context, userID int, role string) error
	ListByRole(ctx context.Context, role string) ([]*models.UserRole, error)
}

// PaymentChargeRepo é o recorte do repositório de cobranças que o cadastro usa.
type PaymentChargeRepo interface {
	CreatePayment(ctx context.Context, p *models.Payment) error
}

func NewAuthService(repo UserRepo, roles RoleRepo, payments PaymentChargeRepo, notifier *Notifier, adminEmails []string, initialFee float64) *AuthService {
	set := make(map[string]struct{}, len(adminEmails))
	for _, e := range adminEmails {
		set[strings.ToLower(e)] = struct{}{}
	}
	return &AuthService{
		repo:        repo,
		roles:       roles,
		payments:    payments,
		notifier:    notifier,
		adminEmails: set,
		initialFee:  initialFee,
	}
}

// RegisterUser cria o cadastro do morador já com a cobrança da taxa de adesão.
func (s *AuthService) RegisterUser(ctx context.Context, input *models.User, plainPassword string) error {
	logger.Log.Info("Registrando morador (service)", zap.String("email", input.Email))
	if exists, err := s.repo.IsEmailTaken(ctx, input.Email); exists || err != nil {
		if err != nil {
			logger.Log.Error("Erro ao verificar email", zap.Error(err))
			return err
		}
		return errors.New("este e-mail já está cadastrado")
	}

	hashed, err := utils.HashPassword(plainPassword)
	if err != nil {
		logger.Log.Error("Erro ao gerar hash da senha", zap.Error(err))
		return err
	}

	input.PasswordHash = hashed
	input.InitialPaymentStatus = models.PaymentStatusUnpaid

	if err := s.repo.CreateUser(ctx, input); err != nil {
		logger.Log.Error("Erro ao criar morador", zap.Error(err))
		return err
	}

	charge := &models.Payment{
		UserID:      input.ID,
		Amount:      s.initialFee,
		DueDate:     time.Now().AddDate(0, 0, 7),
		Status:      models.ChargeStatusPending,
		PaymentType: models.PaymentTypeInitial,
		Description: "Taxa de adesão",
	}
	if err := s.payments.CreatePayment(ctx, charge); err != nil {
		logger.Log.Error("Erro ao criar cobrança inicial", zap.Error(err), zap.Int("user_id", input.ID))
		return err
	}

	if s.notifier != nil {
		s.notifier.NotifyAdmins(ctx, "Novo cadastro", input.FullName+" se cadastrou e aguarda aprovação", "signup", &input.ID)
	}

	logger.Log.Info("Morador registrado (service)", zap.Int("user_id", input.ID))
	return nil
}

func (s *AuthService) LoginUser(
	ctx context.Context,
	email, password, jwtSecret string,
	accessTTL, refreshTTL time.Duration,
) (string, string, *models.User, error) {
	logger.Log.Info("Tentativa de login (service)", zap.String("email", email))
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		logger.Log.Warn("Morador não encontrado (service)", zap.String("email", email), zap.Error(err))
		return "", "", nil, errors.New("e-mail ou senha incorretos")
	}

	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		logger.Log.Warn("Senha incorreta (service)", zap.String("email", email))
		return "", "", nil, errors.New("e-mail ou senha incorretos")
	}

	accessToken, err := utils.GenerateToken(jwtSecret, user.ID, user.Email, accessTTL, "access")
	if err != nil {
		logger.Log.Error("Erro ao gerar access token", zap.Error(err))
		return "", "", nil, err
	}

	refreshToken, err := utils.GenerateToken(jwtSecret, user.ID, user.Email, refreshTTL, "refresh")
	if err != nil {
		logger.Log.Error("Erro ao gerar refresh token", zap.Error(err))
		return "", "", nil, err
	}

	if err := s.repo.SaveRefreshToken(ctx, user.ID, refreshToken); err != nil {
		logger.Log.Error("Erro ao salvar refresh token", zap.Error(err))
		return "", "", nil, err
	}

	logger.Log.Info("Login efetuado (service)", zap.Int("user_id", user.ID))
	return accessToken, refreshToken, user, nil
}

// IssueTokens gera um novo par access/refresh e persiste o refresh — usado na
// rotação do /refresh.
func (s *AuthService) IssueTokens(ctx context.Context, user *models.User, jwtSecret string, accessTTL, refreshTTL time.Duration) (string, string, error) {
	accessToken, err := utils.GenerateToken(jwtSecret, user.ID, user.Email, accessTTL, "access")
	if err != nil {
		return "", "", err
	}
	refreshToken, err := utils.GenerateToken(jwtSecret, user.ID, user.Email, refreshTTL, "refresh")
	if err != nil {
		return "", "", err
	}
	if err := s.repo.SaveRefreshToken(ctx, user.ID, refreshToken); err != nil {
		return "", "", err
	}
	return accessToken, refreshToken, nil
}

func (s *AuthService) ValidateRefreshToken(ctx context.Context, userID int, token string) (bool, error) {
	return s.repo.IsRefreshTokenValid(ctx, userID, token)
}

func (s *AuthService) Logout(ctx context.Context, userID int, token string) error {
	logger.Log.Info("Logout (service)", zap.Int("user_id", userID))
	return s.repo.DeleteRefreshToken(ctx, userID, token)
}

// IsAdmin decide o acesso ao back-office: linha em user_roles OU e-mail na
// lista de fallback do config. A flag de aprovação não entra nessa conta.
func (s *AuthService) IsAdmin(ctx context.Context, userID int, email string) bool {
	has, err := s.roles.HasRole(ctx, userID, "admin")
	if err != nil {
		logger.Log.Error("Erro ao checar papel admin (service)", zap.Error(err), zap.Int("user_id", userID))
		// fail-closed: erro de consulta não dá acesso por papel
	}
	if has {
		return true
	}
	_, listed := s.adminEmails[strings.ToLower(email)]
	return listed
}

// IsApproved é a guarda das rotas de morador: qualquer erro de consulta conta
// como não aprovado (fail-closed).
func (s *AuthService) IsApproved(ctx context.Context, userID int) bool {
	u, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		logger.Log.Warn("Falha ao consultar aprovação — negando acesso (service)", zap.Int("user_id", userID), zap.Error(err))
		return false
	}
	return u.IsApproved
}

func (s *AuthService) GetUsersPaginated(ctx context.Context, limit, offset int) ([]*models.User, int, error) {
	return s.repo.GetAllUsersPaginated(ctx, limit, offset)
}

func (s *AuthService) GetUserByID(ctx context.Context, id int) (*models.User, error) {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		logger.Log.Warn("Morador não encontrado por ID (service)", zap.Int("user_id", id), zap.Error(err))
	}
	return user, err
}

func (s *AuthService) UpdateUser(ctx context.Context, id int, input *models.UpdateUserRequest) error {
	logger.Log.Info("Atualizando morador (service)", zap.Int("user_id", id))
	return s.repo.UpdateUserFields(ctx, id, input)
}

func (s *AuthService) DeleteUserByID(ctx context.Context, id int) error {
	logger.Log.Info("Removendo morador (service)", zap.Int("user_id", id))
	return s.repo.DeleteUserByID(ctx, id)
}

func (s *AuthService) GrantAdmin(ctx context.Context, userID, grantedBy int) error {
	return s.roles.GrantRole(ctx, userID, "admin", grantedBy)
}

func (s *AuthService) RevokeAdmin(ctx context.Context, userID int) error {
	return s.roles.RevokeRole(ctx, userID, "admin")
}

// ListAdmins devolve os papéis de administrador concedidos via banco.
// Os e-mails de fallback do config não aparecem aqui.
func (s *AuthService) ListAdmins(ctx context.Context) ([]*models.UserRole, error) {
	return s.roles.ListByRole(ctx, "admin")
}

func (s *AuthService) GetSystemStats(ctx context.Context) (*models.SystemStats, error) {
	return s.repo.GetSystemStats(ctx)
}
