package model

import (
	"time"
)

type PropertyType string
type ListingStatus string

const (
	TypeHouse      PropertyType = "house"
	TypeApartment  PropertyType = "apartment"
	TypeCondo      PropertyType = "condo"
	TypeTownhouse  PropertyType = "townhouse"
	TypeLand       PropertyType = "land"
	TypeCommercial PropertyType = "commercial"

	StatusForSale ListingStatus = "for_sale"
	StatusForRent ListingStatus = "for_rent"
	StatusSold    ListingStatus = "sold"
	StatusRented  ListingStatus = "rented"
)

func ValidPropertyType(t PropertyType) bool {
	switch t {
	case TypeHouse, TypeApartment, TypeCondo, TypeTownhouse, TypeLand, TypeCommercial:
		return true
	}
	return false
}

func ValidListingStatus(s ListingStatus) bool {
	switch s {
	case StatusForSale, StatusForRent, StatusSold, StatusRented:
		return true
	}
	return false
}

type Property struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Slug        string          `json:"slug"`
	Description string          `json:"description"`
	Price       float64         `json:"price"`
	Bedrooms    int             `json:"bedrooms"`
	Bathrooms   int             `json:"bathrooms"`
	AreaSqm     float64         `json:"area_sqm"`
	Type        PropertyType    `json:"type"`
	Status      ListingStatus   `json:"status"`
	City        string          `json:"city"`
	District    string          `json:"district"`
	Address     string          `json:"address"`
	Features    []string        `json:"features,omitempty"`
	Images      []PropertyImage `json:"images,omitempty"`
	OwnerID     string          `json:"owner_id"`
	OwnerName   *string         `json:"owner_name,omitempty"` // For display
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
