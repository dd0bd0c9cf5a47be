package models

import "time"

type WeatherAlert struct {
	ID          int        `json:"id"`
	EventID     string     `json:"event_id"` // id do evento no provedor — evita duplicatas
	Event       string     `json:"event"`
	Severity    string     `json:"severity"`
	Description string     `json:"description"`
	StartsAt    time.Time  `json:"starts_at"`
	EndsAt      *time.Time `json:"ends_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Status de um alerta de emergência (SOS).
const (
	AlertStatusActive   = "active"
	AlertStatusResolved = "resolved"
)

type EmergencyAlert struct {
	ID          int        `json:"id"`
	UserID      int        `json:"user_id"`
	Kind        string     `json:"kind"` // sos|roubo|incendio|medico|outro
	Description string     `json:"description"`
	Latitude    *float64   `json:"latitude,omitempty"`
	Longitude   *float64   `json:"longitude,omitempty"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	ResolvedAt  *time.Time `json:"resolved_at,omitempty"`
	ResolvedBy  *int       `json:"resolved_by,omitempty"`
}
