package models

import "time"

type Message struct {
	ID          string     `json:"id"` // UUID — também serve de chave de idempotência
	SenderID    int        `json:"sender_id"`
	ReceiverID  *int       `json:"receiver_id,omitempty"`
	GroupID     *int       `json:"group_id,omitempty"`
	Content     string     `json:"content"`
	IsGroup     bool       `json:"is_group"`
	CreatedAt   time.Time  `json:"created_at"`
	DeliveredAt *time.Time `json:"delivered_at,omitempty"`
	ReadAt      *time.Time `json:"read_at,omitempty"`
}

// Evento publicado no canal realtime.
const (
	EventMessageNew  = "message.new"
	EventMessageRead = "message.read"
	EventAlertNew    = "alert.new"
)

type RealtimeEvent struct {
	Type    string    `json:"type"`
	Message *Message  `json:"message,omitempty"`
	Alert   any       `json:"alert,omitempty"`
	SentAt  time.Time `json:"sent_at"`
}
