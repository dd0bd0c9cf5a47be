package models

import "time"

type SosPet struct {
	ID          int       `json:"id"`
	UserID      int       `json:"user_id"`
	PetName     string    `json:"pet_name"`
	Species     string    `json:"species"`
	Description string    `json:"description"`
	PhotoURL    string    `json:"photo_url"`
	LastSeen    string    `json:"last_seen"`
	Status      string    `json:"status"` // lost|found
	CreatedAt   time.Time `json:"created_at"`
}
