package models

type SystemStats struct {
	TotalUsers       int `json:"total_users"`
	PendingApprovals int `json:"pending_approvals"`
	ApprovedUsers    int `json:"approved_users"`
	PendingPayments  int `json:"pending_payments"`
	OverduePayments  int `json:"overdue_payments"`
	ActiveAlerts     int `json:"active_alerts"`
	ActiveCameras    int `json:"active_cameras"`
}
