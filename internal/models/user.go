package models

import "time"

// Status do pagamento inicial no perfil.
const (
	PaymentStatusUnpaid  = "unpaid"
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
)

type User struct {
	ID                   int       `json:"id"`
	FullName             string    `json:"full_name"`
	Phone                string    `json:"phone"`
	Email                string    `json:"email"`
	Address              string    `json:"address"`
	CEP                  string    `json:"cep"`
	AvatarURL            string    `json:"avatar_url"`
	PasswordHash         string    `json:"-"`
	IsApproved           bool      `json:"is_approved"`
	InitialPaymentStatus string    `json:"initial_payment_status"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

type UpdateUserRequest struct {
	FullName  *string `json:"full_name,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	Address   *string `json:"address,omitempty"`
	CEP       *string `json:"cep,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

type UserProfileResponse struct {
	ID                   int       `json:"id"`
	FullName             string    `json:"full_name"`
	Phone                string    `json:"phone"`
	Email                string    `json:"email"`
	Address              string    `json:"address"`
	CEP                  string    `json:"cep"`
	AvatarURL            string    `json:"avatar_url"`
	IsApproved           bool      `json:"is_approved"`
	InitialPaymentStatus string    `json:"initial_payment_status"`
	IsAdmin              bool      `json:"is_admin"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}
