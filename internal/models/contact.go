package models

type UtilityContact struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Phone       string `json:"phone"`
	Description string `json:"description"`
}
