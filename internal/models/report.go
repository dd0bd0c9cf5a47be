package models

import "time"

// AnonymousReport guarda o autor apenas para fins de auditoria interna;
// o campo nunca é serializado nas respostas.
type AnonymousReport struct {
	ID          int       `json:"id"`
	AuthorID    int       `json:"-"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	CreatedAt   time.Time `json:"created_at"`
}
