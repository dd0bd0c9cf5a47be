package models

import "time"

// Status de uma cobrança.
const (
	ChargeStatusPending = "pending"
	ChargeStatusPaid    = "paid"
	ChargeStatusOverdue = "overdue"
)

// Tipo de cobrança.
const (
	PaymentTypeInitial   = "initial"
	PaymentTypeRecurring = "recurring"
)

type Payment struct {
	ID          int        `json:"id"`
	UserID      int        `json:"user_id"`
	Amount      float64    `json:"amount"`
	DueDate     time.Time  `json:"due_date"`
	Status      string     `json:"status"`
	PaymentType string     `json:"payment_type"`
	Description string     `json:"description"`
	PaidAt      *time.Time `json:"paid_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

type UpdatePaymentRequest struct {
	Amount      *float64   `json:"amount,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Status      *string    `json:"status,omitempty"`
	Description *string    `json:"description,omitempty"`
}
