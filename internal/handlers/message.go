package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"vigia/internal/logger"
	"vigia/internal/middleware"
	"vigia/internal/services"
	helpers "vigia/internal/utils/helpers"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type MessageHandler struct {
	messages *services.MessageService
	realtime *services.RealtimeService
}

func NewMessageHandler(messages *services.MessageService, realtime *services.RealtimeService) *MessageHandler {
	return &MessageHandler{messages: messages, realtime: realtime}
}

type sendMessageRequest struct {
	ID         string `json:"id,omitempty"` // UUID opcional para reenvio idempotente
	ReceiverID int    `json:"receiver_id,omitempty"`
	GroupID    int    `json:"group_id,omitempty"`
	Content    string `json:"content"`
}

// Send godoc
// @Summary Envia mensagem direta ou de grupo
// @Tags messages
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param input body sendMessageRequest true "Mensagem"
// @Success 201 {object} models.Message
// @Failure 403 {string} string "Não é membro do grupo"
// @Router /api/messages [post]
func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		helpers.Error(w, http.StatusBadRequest, services.MsgInvalidInput)
		return
	}

	senderID := r.Context().Value(middleware.ContextUserID).(int)

	if req.GroupID > 0 {
		m, err := h.messages.SendToGroup(r.Context(), senderID, req.GroupID, req.ID, req.Content)
		if errors.Is(err, services.ErrNotGroupMember) {
			helpers.Error(w, http.StatusForbidden, "Você não participa deste grupo")
			return
		}
		if err != nil {
			helpers.Error(w, http.StatusInternalServerError, services.MapError(err))
			return
		}
		helpers.JSON(w, http.StatusCreated, m)
		return
	}

	if req.ReceiverID <= 0 {
		helpers.Error(w, http.StatusBadRequest, "Informe receiver_id ou group_id")
		return
	}

	m, err := h.messages.SendDirect(r.Context(), senderID, req.ReceiverID, req.ID, req.Content)
	if err != nil {
		helpers.Error(w, http.StatusInternalServerError, services.MapError(err))
		return
	}
	helpers.JSON(w, http.StatusCreated, m)
}

// Conversation godoc
// @Summary Histórico de conversa com outro morador
// @Tags messages
// @Security ApiKeyAuth
// @Produce json
// @Param id path int true "ID do outro morador"
// @Param limit query int false "Máximo de mensagens"
// @Success 200 {array} models.Message
// @Router /api/messages/with/{id} [get]
func (h *MessageHandler) Conversation(w http.ResponseWriter, r *http.Request) {
	otherID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		helpers.Error(w, http.StatusBadRequest, services.MsgInvalidInput)
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	userID := r.Context().Value(middleware.ContextUserID).(int)
	msgs, err := h.messages.GetConversation(r.Context(), userID, otherID, limit)
	if err != nil {
		helpers.Error(w, http.StatusInternalServerError, services.MapError(err))
		return
	}
	helpers.JSON(w, http.StatusOK, msgs)
}

// GroupMessages godoc
// @Summary Histórico de mensagens do grupo
// @Tags messages
// @Security ApiKeyAuth
// @Produce json
// @Param id path int true "ID do grupo"
// @Param limit query int false "Máximo de mensagens"
// @Success 200 {array} models.Message
// @Failure 403 {string} string "Não é membro do grupo"
// @Router /api/groups/{id}/messages [get]
func (h *MessageHandler) GroupMessages(w http.ResponseWriter, r *http.Request) {
	groupID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		helpers.Error(w, http.StatusBadRequest, services.MsgInvalidInput)
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	userID := r.Context().Value(middleware.ContextUserID).(int)
	msgs, err := h.messages.GetGroupMessages(r.Context(), userID, groupID, limit)
	if errors.Is(err, services.ErrNotGroupMember) {
		helpers.Error(w, http.StatusForbidden, "Você não participa deste grupo")
		return
	}
	if err != nil {
		helpers.Error(w, http.StatusInternalServerError, services.MapError(err))
		return
	}
	helpers.JSON(w, http.StatusOK, msgs)
}

// ConfirmDelivered godoc
// @Summary Confirma entrega de uma mensagem
// @Tags messages
// @Security ApiKeyAuth
// @Produce json
// @Param id path string true "UUID da mensagem"
// @Success 200 {string} string "OK"
// @Router /api/messages/{id}/delivered [patch]
func (h *MessageHandler) ConfirmDelivered(w http.ResponseWriter, r *http.Request) {
	messageID := mux.Vars(r)["id"]
	userID := r.Context().Value(middleware.ContextUserID).(int)

	if err := h.messages.ConfirmDelivered(r.Context(), messageID, userID); err != nil {
		helpers.Error(w, http.StatusInternalServerError, services.MapError(err))
		return
	}
	helpers.JSON(w, http.StatusOK, "ok")
}

// ConfirmRead godoc
// @Summary Confirma leitura de uma mensagem
// @Tags messages
// @Security ApiKeyAuth
// @Produce json
// @Param id path string true "UUID da mensagem"
// @Success 200 {string} string "OK"
// @Router /api/messages/{id}/read [patch]
func (h *MessageHandler) ConfirmRead(w http.ResponseWriter, r *http.Request) {
	messageID := mux.Vars(r)["id"]
	userID := r.Context().Value(middleware.ContextUserID).(int)

	if err := h.messages.ConfirmRead(r.Context(), messageID, userID); err != nil {
		helpers.Error(w, http.StatusInternalServerError, services.MapError(err))
		return
	}
	helpers.JSON(w, http.StatusOK, "ok")
}

// Stream godoc
// @Summary Stream SSE de eventos realtime (mensagens e alertas)
// @Description Abre um event-stream inscrito no canal pessoal, nos grupos do
// @Description morador e no broadcast de alertas. Mensagens represadas chegam
// @Description primeiro, com evento "backlog".
// @Tags messages
// @Security ApiKeyAuth
// @Produce text/event-stream
// @Success 200 {string} string "stream"
// @Router /api/messages/stream [get]
func (h *MessageHandler) Stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		helpers.Error(w, http.StatusInternalServerError, "Streaming não suportado")
		return
	}

	userID := r.Context().Value(middleware.ContextUserID).(int)

	groupIDs, err := h.messages.GroupIDsOf(r.Context(), userID)
	if err != nil {
		helpers.Error(w, http.StatusInternalServerError, services.MapError(err))
		return
	}

	events, err := h.realtime.Subscribe(r.Context(), userID, groupIDs)
	if err != nil {
		logger.Log.Error("Erro ao abrir stream realtime", zap.Error(err), zap.Int("user_id", userID))
		helpers.Error(w, http.StatusInternalServerError, services.MapError(err))
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	// backlog: mensagens que chegaram enquanto o morador estava offline
	if pending, err := h.messages.PendingMessages(r.Context(), userID); err == nil && len(pending) > 0 {
		payload, _ := json.Marshal(pending)
		fmt.Fprintf(w, "event: backlog\ndata: %s\n\n", payload)
		flusher.Flush()
	}

	for ev := range events {
		payload, err := json.Marshal(ev)
		if err != nil {
			continue
		}
		fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, payload)
		flusher.Flush()
	}
	// o canal fecha quando o contexto da requisição é cancelado
}

type createGroupRequest struct {
	Name string `json:"name"`
}

// CreateGroup godoc
// @Summary Cria um grupo de conversa
// @Tags messages
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param input body createGroupRequest true "Nome do grupo"
// @Success 201 {object} models.Group
// @Router /api/groups [post]
func (h *MessageHandler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	var req createGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		helpers.Error(w, http.StatusBadRequest, services.MsgInvalidInput)
		return
	}

	userID := r.Context().Value(middleware.ContextUserID).(int)
	g, err := h.messages.CreateGroup(r.Context(), req.Name, userID)
	if err != nil {
		helpers.Error(w, http.StatusBadRequest, services.MapError(err))
		return
	}
	helpers.JSON(w, http.StatusCreated, g)
}

// MyGroups godoc
// @Summary Grupos do morador autenticado
// @Tags messages
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {array} models.Group
// @Router /api/groups [get]
func (h *MessageHandler) MyGroups(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(middleware.ContextUserID).(int)
	groups, err := h.messages.MyGroups(r.Context(), userID)
	if err != nil {
		helpers.Error(w, http.StatusInternalServerError, services.MapError(err))
		return
	}
	helpers.JSON(w, http.StatusOK, groups)
}

// JoinGroup godoc
// @Summary Entra num grupo
// @Tags messages
// @Security ApiKeyAuth
// @Produce json
// @Param id path int true "ID do grupo"
// @Success 200 {string} string "OK"
// @Router /api/groups/{id}/join [post]
func (h *MessageHandler) JoinGroup(w http.ResponseWriter, r *http.Request) {
	groupID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		helpers.Error(w, http.StatusBadRequest, services.MsgInvalidInput)
		return
	}
	userID := r.Context().Value(middleware.ContextUserID).(int)
	if err := h.messages.JoinGroup(r.Context(), groupID, userID); err != nil {
		helpers.Error(w, http.StatusInternalServerError, services.MapError(err))
		return
	}
	helpers.JSON(w, http.StatusOK, "ok")
}

// LeaveGroup godoc
// @Summary Sai de um grupo
// @Tags messages
// @Security ApiKeyAuth
// @Produce json
// @Param id path int true "ID do grupo"
// @Success 200 {string} string "OK"
// @Router /api/groups/{id}/leave [post]
func (h *MessageHandler) LeaveGroup(w http.ResponseWriter, r *http.Request) {
	groupID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		helpers.Error(w, http.StatusBadRequest, services.MsgInvalidInput)
		return
	}
	userID := r.Context().Value(middleware.ContextUserID).(int)
	if err := h.messages.LeaveGroup(r.Context(), groupID, userID); err != nil {
		helpers.Error(w, http.StatusInternalServerError, services.MapError(err))
		return
	}
	helpers.JSON(w, http.StatusOK, "ok")
}

// GroupMembers godoc
// @Summary Membros de um grupo
// @Tags messages
// @Security ApiKeyAuth
// @Produce json
// @Param id path int true "ID do grupo"
// @Success 200 {array} models.GroupMember
// @Failure 403 {object} map[string]string
// @Router /api/groups/{id}/members [get]
func (h *MessageHandler) GroupMembers(w http.ResponseWriter, r *http.Request) {
	groupID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		helpers.Error(w, http.StatusBadRequest, services.MsgInvalidInput)
		return
	}
	userID := r.Context().Value(middleware.ContextUserID).(int)
	members, err := h.messages.GroupMembers(r.Context(), userID, groupID)
	if err != nil {
		if errors.Is(err, services.ErrNotGroupMember) {
			helpers.Error(w, http.StatusForbidden, err.Error())
			return
		}
		helpers.Error(w, http.StatusInternalServerError, services.MapError(err))
		return
	}
	helpers.JSON(w, http.StatusOK, members)
}

// DeleteGroup godoc
// @Summary Remove um grupo (apenas o criador)
// @Tags messages
// @Security ApiKeyAuth
// @Produce json
// @Param id path int true "ID do grupo"
// @Success 200 {string} string "OK"
// @Failure 403 {object} map[string]string
// @Router /api/groups/{id} [delete]
func (h *MessageHandler) DeleteGroup(w http.ResponseWriter, r *http.Request) {
	groupID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		helpers.Error(w, http.StatusBadRequest, services.MsgInvalidInput)
		return
	}
	userID := r.Context().Value(middleware.ContextUserID).(int)
	if err := h.messages.DeleteGroup(r.Context(), groupID, userID); err != nil {
		if errors.Is(err, services.ErrNotGroupCreator) {
			helpers.Error(w, http.StatusForbidden, err.Error())
			return
		}
		helpers.Error(w, http.StatusInternalServerError, services.MapError(err))
		return
	}
	helpers.JSON(w, http.StatusOK, "Grupo removido")
}
