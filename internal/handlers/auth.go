package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"vigia/internal/config"
	"vigia/internal/logger"
	"vigia/internal/middleware"
	"vigia/internal/models"
	"vigia/internal/services"
	helpers "vigia/internal/utils/helpers"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type registerRequest struct {
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Address  string `json:"address"`
	CEP      string `json:"cep"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	FullName     string `json:"full_name"`
	IsApproved   bool   `json:"is_approved"`
	IsAdmin      bool   `json:"is_admin"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Register godoc
// @Summary Cadastro de novo morador
// @Tags auth
// @Accept json
// @Produce json
// @Param input body registerRequest true "Dados do cadastro"
// @Success 201 {string} string "Cadastro criado"
// @Failure 400 {string} string "Erro de validação"
// @Router /api/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Log.Warn("JSON inválido em Register", zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, services.MsgInvalidInput)
		return
	}
	if req.Email == "" || req.Password == "" || req.FullName == "" {
		helpers.Error(w, http.StatusBadRequest, "Nome, e-mail e senha são obrigatórios")
		return
	}

	user := &models.User{
		FullName: req.FullName,
		Phone:    req.Phone,
		Email:    req.Email,
		Address:  req.Address,
		CEP:      req.CEP,
	}

	if err := h.authService.RegisterUser(r.Context(), user, req.Password); err != nil {
		logger.Log.Error("Erro no cadastro", zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, services.MapError(err))
		return
	}

	helpers.JSON(w, http.StatusCreated, "Cadastro criado. Conclua o pagamento da taxa de adesão para liberar o acesso.")
}

// Login godoc
// @Summary Login do morador
// @Tags auth
// @Accept json
// @Produce json
// @Param input body loginRequest true "Credenciais"
// @Success 200 {object} loginResponse
// @Failure 401 {string} string "E-mail ou senha incorretos"
// @Router /api/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Log.Warn("JSON inválido em Login", zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, services.MsgInvalidInput)
		return
	}

	cfg, _ := config.LoadConfig()
	accessTTL, _ := time.ParseDuration(cfg.AccessTokenTTL)
	refreshTTL, _ := time.ParseDuration(cfg.RefreshTokenTTL)

	access, refresh, user, err := h.authService.LoginUser(
		r.Context(), req.Email, req.Password, cfg.JWTSecret, accessTTL, refreshTTL,
	)
	if err != nil {
		helpers.Error(w, http.StatusUnauthorized, services.MapError(err))
		return
	}

	resp := loginResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		FullName:     user.FullName,
		IsApproved:   user.IsApproved,
		IsAdmin:      h.authService.IsAdmin(r.Context(), user.ID, user.Email),
	}
	helpers.JSON(w, http.StatusOK, resp)
}

// AdminLogin godoc
// @Summary Login do back-office
// @Description Igual ao login comum, mas recusa quem não é admin.
// @Tags auth
// @Accept json
// @Produce json
// @Param input body loginRequest true "Credenciais"
// @Success 200 {object} loginResponse
// @Failure 403 {string} string "Acesso restrito à administração"
// @Router /api/admin-login [post]
func (h *AuthHandler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		helpers.Error(w, http.StatusBadRequest, services.MsgInvalidInput)
		return
	}

	cfg, _ := config.LoadConfig()
	accessTTL, _ := time.ParseDuration(cfg.AccessTokenTTL)
	refreshTTL, _ := time.ParseDuration(cfg.RefreshTokenTTL)

	access, refresh, user, err := h.authService.LoginUser(
		r.Context(), req.Email, req.Password, cfg.JWTSecret, accessTTL, refreshTTL,
	)
	if err != nil {
		helpers.Error(w, http.StatusUnauthorized, services.MapError(err))
		return
	}

	if !h.authService.IsAdmin(r.Context(), user.ID, user.Email) {
		logger.Log.Warn("Login de admin recusado", zap.Int("user_id", user.ID))
		helpers.ErrorRedirect(w, http.StatusForbidden, "Acesso restrito à administração", "/admin-login")
		return
	}

	resp := loginResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		FullName:     user.FullName,
		IsApproved:   user.IsApproved,
		IsAdmin:      true,
	}
	helpers.JSON(w, http.StatusOK, resp)
}

// Refresh godoc
// @Summary Renova o par de tokens
// @Tags auth
// @Accept json
// @Produce json
// @Param input body refreshRequest true "Refresh token"
// @Success 200 {object} loginResponse
// @Failure 401 {string} string "Token inválido"
// @Router /api/refresh [post]
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
		helpers.Error(w, http.StatusBadRequest, services.MsgInvalidInput)
		return
	}

	cfg, _ := config.LoadConfig()

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(req.RefreshToken, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		helpers.Error(w, http.StatusUnauthorized, services.MsgUnauthorized)
		return
	}

	userIDf, ok1 := claims["user_id"].(float64)
	email, ok2 := claims["email"].(string)
	tokenType, _ := claims["token_type"].(string)
	if !ok1 || !ok2 || tokenType != "refresh" {
		helpers.Error(w, http.StatusUnauthorized, services.MsgUnauthorized)
		return
	}
	userID := int(userIDf)

	valid, err := h.authService.ValidateRefreshToken(r.Context(), userID, req.RefreshToken)
	if err != nil || !valid {
		helpers.Error(w, http.StatusUnauthorized, services.MsgUnauthorized)
		return
	}

	// rotaciona: o refresh antigo sai, entra um novo par
	_ = h.authService.Logout(r.Context(), userID, req.RefreshToken)

	accessTTL, _ := time.ParseDuration(cfg.AccessTokenTTL)
	refreshTTL, _ := time.ParseDuration(cfg.RefreshTokenTTL)

	user, err := h.authService.GetUserByID(r.Context(), userID)
	if err != nil {
		helpers.Error(w, http.StatusUnauthorized, services.MapError(err))
		return
	}

	access, refresh, err := h.authService.IssueTokens(r.Context(), user, cfg.JWTSecret, accessTTL, refreshTTL)
	if err != nil {
		helpers.Error(w, http.StatusInternalServerError, services.MapError(err))
		return
	}

	resp := loginResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		FullName:     user.FullName,
		IsApproved:   user.IsApproved,
		IsAdmin:      h.authService.IsAdmin(r.Context(), userID, email),
	}
	helpers.JSON(w, http.StatusOK, resp)
}

// Logout godoc
// @Summary Encerra a sessão
// @Tags auth
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param input body refreshRequest true "Refresh token a invalidar"
// @Success 200 {string} string "Sessão encerrada"
// @Router /api/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		helpers.Error(w, http.StatusBadRequest, services.MsgInvalidInput)
		return
	}

	userID, _ := r.Context().Value(middleware.ContextUserID).(int)
	if err := h.authService.Logout(r.Context(), userID, req.RefreshToken); err != nil {
		helpers.Error(w, http.StatusInternalServerError, services.MapError(err))
		return
	}
	helpers.JSON(w, http.StatusOK, "Sessão encerrada")
}

// Profile godoc
// @Summary Perfil do morador autenticado
// @Tags auth
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} models.UserProfileResponse
// @Router /api/profile [get]
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(middleware.ContextUserID).(int)
	email, _ := r.Context().Value(middleware.ContextEmail).(string)

	user, err := h.authService.GetUserByID(r.Context(), userID)
	if err != nil {
		helpers.Error(w, http.StatusNotFound, services.MapError(err))
		return
	}

	resp := models.UserProfileResponse{
		ID:                   user.ID,
		FullName:             user.FullName,
		Phone:                user.Phone,
		Email:                user.Email,
		Address:              user.Address,
		CEP:                  user.CEP,
		AvatarURL:            user.AvatarURL,
		IsApproved:           user.IsApproved,
		InitialPaymentStatus: user.InitialPaymentStatus,
		IsAdmin:              h.authService.IsAdmin(r.Context(), userID, email),
		CreatedAt:            user.CreatedAt,
		UpdatedAt:            user.UpdatedAt,
	}
	helpers.JSON(w, http.StatusOK, resp)
}

// UpdateProfile godoc
// @Summary Atualiza dados do próprio perfil
// @Description Campos de aprovação e pagamento não passam por aqui.
// @Tags auth
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param input body models.UpdateUserRequest true "Campos a atualizar"
// @Success 200 {string} string "Perfil atualizado"
// @Router /api/profile [patch]
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		helpers.Error(w, http.StatusBadRequest, services.MsgInvalidInput)
		return
	}

	userID := r.Context().Value(middleware.ContextUserID).(int)
	if err := h.authService.UpdateUser(r.Context(), userID, &req); err != nil {
		helpers.Error(w, http.StatusInternalServerError, services.MapError(err))
		return
	}
	helpers.JSON(w, http.StatusOK, "Perfil atualizado")
}
