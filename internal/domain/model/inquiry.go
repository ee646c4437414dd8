package model

import (
	"time"
)

// Inquiry is a message from a prospective buyer or renter to a listing's
// owner. It is sent either by a registered user (UserID set) or anonymously,
// in which case all three contact fields must be present.
type Inquiry struct {
	ID         string    `json:"id"`
	PropertyID string    `json:"property_id"`
	UserID     *string   `json:"user_id,omitempty"`
	Name       *string   `json:"name,omitempty"`
	Email      *string   `json:"email,omitempty"`
	Phone      *string   `json:"phone,omitempty"`
	Message    string    `json:"message"`
	CreatedAt  time.Time `json:"created_at"`
}
