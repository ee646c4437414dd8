package model

import (
	"time"
)

// PropertyImage is a reference to an image object stored outside the
// database. SortOrder is a dense integer sequence per property.
type PropertyImage struct {
	ID         string    `json:"id"`
	PropertyID string    `json:"property_id"`
	URL        string    `json:"url"`
	SortOrder  int       `json:"sort_order"`
	CreatedAt  time.Time `json:"created_at"`
}
