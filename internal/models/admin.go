package models

import "time"

type AdminLog struct {
	ID        int       `json:"id"`
	AdminID   int       `json:"admin_id"`
	Action    string    `json:"action"`
	Details   string    `json:"details"`
	CreatedAt time.Time `json:"created_at"`
}

// Notification — aviso para o back-office (ex.: morador declarou pagamento).
type Notification struct {
	ID        int        `json:"id"`
	Title     string     `json:"title"`
	Body      string     `json:"body"`
	Kind      string     `json:"kind"`
	UserID    *int       `json:"user_id,omitempty"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

type UserRole struct {
	UserID    int       `json:"user_id"`
	Role      string    `json:"role"`
	GrantedBy int       `json:"granted_by"`
	CreatedAt time.Time `json:"created_at"`
}
