package model

import (
	"time"
)

// Favorite is a user's bookmark of a listing, unique per (user, property).
type Favorite struct {
	UserID     string    `json:"user_id"`
	PropertyID string    `json:"property_id"`
	CreatedAt  time.Time `json:"created_at"`
}
