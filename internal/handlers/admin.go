package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"vigia/internal/logger"
	"vigia/internal/middleware"
	"vigia/internal/models"
	"vigia/internal/services"
	helpers "vigia/internal/utils/helpers"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type AdminHandler struct {
	auth       *services.AuthService
	onboarding *services.OnboardingService
	admin      *services.AdminService
	backup     *services.BackupService
}

func NewAdminHandler(auth *services.AuthService, onboarding *services.OnboardingService, admin *services.AdminService, backup *services.BackupService) *AdminHandler {
	return &AdminHandler{auth: auth, onboarding: onboarding, admin: admin, backup: backup}
}

// ListUsers godoc
// @Summary Lista moradores com paginação (admin)
// @Tags admin
// @Security ApiKeyAuth
// @Produce json
// @Param page query int false "Página (padrão 1)"
// @Param page_size query int false "Tamanho da página (padrão 20)"
// @Success 200 {object} map[string]interface{}
// @Router /api/admin/users [get]
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	users, total, err := h.auth.GetUsersPaginated(r.Context(), pageSize, offset)
	if err != nil {
		helpers.Error(w, http.StatusInternalServerError, services.MapError(err))
		return
	}
	helpers.JSON(w, http.StatusOK, map[string]interface{}{
		"data":      users,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// GetUser godoc
// @Summary Detalhe de um morador (admin)
// @Tags admin
// @Security ApiKeyAuth
// @Produce json
// @Param id path int true "ID do morador"
// @Success 200 {object} models.User
// @Failure 404 {string} string "Não encontrado"
// @Router /api/admin/users/{id} [get]
func (h *AdminHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		helpers.Error(w, http.StatusBadRequest, services.MsgInvalidInput)
		return
	}
	user, err := h.auth.GetUserByID(r.Context(), id)
	if err != nil {
		helpers.Error(w, http.StatusNotFound, services.MapError(err))
		return
	}
	helpers.JSON(w, http.StatusOK, user)
}

// UpdateUser godoc
// @Summary Atualiza dados de um morador (admin)
// @Tags admin
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path int true "ID do morador"
// @Param input body models.UpdateUserRequest true "Campos a atualizar"
// @Success 200 {string} string "OK"
// @Router /api/admin/users/{id} [patch]
func (h *AdminHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		helpers.Error(w, http.StatusBadRequest, services.MsgInvalidInput)
		return
	}
	var input models.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		helpers.Error(w, http.StatusBadRequest, services.MsgInvalidInput)
		return
	}
	if err := h.auth.UpdateUser(r.Context(), id, &input); err != nil {
		helpers.Error(w, http.StatusInternalServerError, services.MapError(err))
		return
	}
	helpers.JSON(w, http.StatusOK, "ok")
}

// DeleteUser godoc
// @Summary Remove um morador (admin)
// @Tags admin
// @Security ApiKeyAuth
// @Produce json
// @Param id path int true "ID do morador"
// @Success 200 {string} string "OK"
// @Router /api/admin/users/{id} [delete]
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		helpers.Error(w, http.StatusBadRequest, services.MsgInvalidInput)
		return
	}
	adminID := r.Context().Value(middleware.ContextUserID).(int)
	if id == adminID {
		helpers.Error(w, http.StatusBadRequest, "Você não pode remover a própria conta por aqui")
		return
	}
	if err := h.auth.DeleteUserByID(r.Context(), id); err != nil {
		helpers.Error(w, http.StatusInternalServerError, services.MapError(err))
		return
	}
	logger.Log.Info("Morador removido pelo back-office", zap.Int("user_id", id), zap.Int("admin_id", adminID))
	helpers.JSON(w, http.StatusOK, "ok")
}

// ApproveUser godoc
// @Summary Aprova o cadastro de um morador (admin)
// @Description Confirma o pagamento da taxa de adesão e libera o acesso. A
// @Description operação é atômica e idempotente.
// @Tags admin
// @Security ApiKeyAuth
// @Produce json
// @Param id path int true "ID do morador"
// @Success 200 {string} string "Aprovado"
// @Router /api/admin/users/{id}/approve [post]
func (h *AdminHandler) ApproveUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		helpers.Error(w, http.StatusBadRequest, services.MsgInvalidInput)
		return
	}
	adminID := r.Context().Value(middleware.ContextUserID).(int)

	if err := h.onboarding.ApproveUser(r.Context(), adminID, id); err != nil {
		helpers.Error(w, http.StatusInternalServerError, services.MapError(err))
		return
	}
	helpers.JSON(w, http.StatusOK, "Cadastro aprovado")
}

type grantRoleRequest struct {
	UserID int `json:"user_id"`
}

// GrantAdmin godoc
// @Summary Concede papel de administrador (admin)
// @Tags admin
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param input body grantRoleRequest true "Morador"
// @Success 200 {string} string "OK"
// @Router /api/admin/roles/grant [post]
func (h *AdminHandler) GrantAdmin(w http.ResponseWriter, r *http.Request) {
	var req grantRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID <= 0 {
		helpers.Error(w, http.StatusBadRequest, services.MsgInvalidInput)
		return
	}
	adminID := r.Context().Value(middleware.ContextUserID).(int)
	if err := h.auth.GrantAdmin(r.Context(), req.UserID, adminID); err != nil {
		helpers.Error(w, http.StatusInternalServerError, services.MapError(err))
		return
	}
	helpers.JSON(w, http.StatusOK, "ok")
}

// RevokeAdmin godoc
// @Summary Revoga papel de administrador (admin)
// @Tags admin
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param input body grantRoleRequest true "Morador"
// @Success 200 {string} string "OK"
// @Router /api/admin/roles/revoke [post]
func (h *AdminHandler) RevokeAdmin(w http.ResponseWriter, r *http.Request) {
	var req grantRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID <= 0 {
		helpers.Error(w, http.StatusBadRequest, services.MsgInvalidInput)
		return
	}
	adminID := r.Context().Value(middleware.ContextUserID).(int)
	if req.UserID == adminID {
		helpers.Error(w, http.StatusBadRequest, "Você não pode revogar o próprio papel")
		return
	}
	if err := h.auth.RevokeAdmin(r.Context(), req.UserID); err != nil {
		helpers.Error(w, http.StatusInternalServerError, services.MapError(err))
		return
	}
	helpers.JSON(w, http.StatusOK, "ok")
}

// ListAdmins godoc
// @Summary Lista os administradores cadastrados (admin)
// @Tags admin
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {array} models.UserRole
// @Router /api/admin/roles [get]
func (h *AdminHandler) ListAdmins(w http.ResponseWriter, r *http.Request) {
	roles, err := h.auth.ListAdmins(r.Context())
	if err != nil {
		helpers.Error(w, http.StatusInternalServerError, services.MapError(err))
		return
	}
	helpers.JSON(w, http.StatusOK, roles)
}

// Stats godoc
// @Summary Estatísticas gerais do sistema (admin)
// @Tags admin
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} models.SystemStats
// @Router /api/admin/stats [get]
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.auth.GetSystemStats(r.Context())
	if err != nil {
		helpers.Error(w, http.StatusInternalServerError, services.MapError(err))
		return
	}
	helpers.JSON(w, http.StatusOK, stats)
}

// Notifications godoc
// @Summary Notificações não lidas do back-office (admin)
// @Tags admin
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {array} models.Notification
// @Router /api/admin/notifications [get]
func (h *AdminHandler) Notifications(w http.ResponseWriter, r *http.Request) {
	ns, err := h.admin.UnreadNotifications(r.Context())
	if err != nil {
		helpers.Error(w, http.StatusInternalServerError, services.MapError(err))
		return
	}
	helpers.JSON(w, http.StatusOK, ns)
}

// MarkNotificationRead godoc
// @Summary Marca notificação como lida (admin)
// @Tags admin
// @Security ApiKeyAuth
// @Produce json
// @Param id path int true "ID da notificação"
// @Success 200 {string} string "OK"
// @Router /api/admin/notifications/{id}/read [patch]
func (h *AdminHandler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		helpers.Error(w, http.StatusBadRequest, services.MsgInvalidInput)
		return
	}
	if err := h.admin.MarkNotificationRead(r.Context(), id); err != nil {
		helpers.Error(w, http.StatusInternalServerError, services.MapError(err))
		return
	}
	helpers.JSON(w, http.StatusOK, "ok")
}

// AuditLogs godoc
// @Summary Trilha de auditoria das ações administrativas (admin)
// @Tags admin
// @Security ApiKeyAuth
// @Produce json
// @Param limit query int false "Máximo de registros"
// @Param offset query int false "Deslocamento"
// @Success 200 {array} models.AdminLog
// @Router /api/admin/logs [get]
func (h *AdminHandler) AuditLogs(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	logs, err := h.admin.AuditTrail(r.Context(), limit, offset)
	if err != nil {
		helpers.Error(w, http.StatusInternalServerError, services.MapError(err))
		return
	}
	helpers.JSON(w, http.StatusOK, logs)
}

// TriggerBackup godoc
// @Summary Dispara a rotina de backup manual (admin)
// @Description Verifica o bucket de backups e devolve um resumo do que há lá.
// @Description A cópia do banco em si roda fora do serviço.
// @Tags admin
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} services.BackupSummary
// @Router /api/admin/backup [post]
func (h *AdminHandler) TriggerBackup(w http.ResponseWriter, r *http.Request) {
	if h.backup == nil {
		helpers.Error(w, http.StatusServiceUnavailable, "Storage de backup indisponível")
		return
	}
	adminID := r.Context().Value(middleware.ContextUserID).(int)

	summary, err := h.backup.TriggerBackup(r.Context(), adminID)
	if err != nil {
		helpers.Error(w, http.StatusInternalServerError, services.MapError(err))
		return
	}
	helpers.JSON(w, http.StatusOK, summary)
}
