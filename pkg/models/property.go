package models

import "time"

const (
	PropertyStatusActive   = "active"
	PropertyStatusInactive = "inactive"
	PropertyStatusRented   = "rented"
	PropertyStatusSold     = "sold"
)

type Property struct {
	ID              string    `json:"id" db:"id"`
	Address         string    `json:"address" db:"address" validate:"required"`
	Price           float64   `json:"price" db:"price" validate:"gte=0"`
	Bedrooms        int       `json:"bedrooms" db:"bedrooms"`
	Bathrooms       int       `json:"bathrooms" db:"bathrooms"`
	AreaSqm         float64   `json:"area_sqm" db:"area_sqm"`
	Status          string    `json:"status" db:"status"`
	Description     *string   `json:"description,omitempty" db:"description"`
	Features        *string   `json:"features,omitempty" db:"features"`
	ListingURL      *string   `json:"listing_url,omitempty" db:"listing_url"`
	OwnerID         *string   `json:"owner_id,omitempty" db:"owner_id"`
	DistrictID      *string   `json:"district_id,omitempty" db:"district_id"`
	ApartmentTypeID *string   `json:"apartment_type_id,omitempty" db:"apartment_type_id"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}

// PropertyDetail is a Property joined with its district and apartment type
// names for display.
type PropertyDetail struct {
	Property
	DistrictName      *string `json:"district_name,omitempty" db:"district_name"`
	ApartmentTypeName *string `json:"apartment_type_name,omitempty" db:"apartment_type_name"`
}

// SearchCriteria is a partial predicate over properties. Nil fields are
// ignored; all comparisons are exact or range, never fuzzy.
type SearchCriteria struct {
	MinPrice    *float64 `json:"min_price,omitempty"`
	MaxPrice    *float64 `json:"max_price,omitempty"`
	MinBedrooms *int     `json:"min_bedrooms,omitempty"`
	MaxBedrooms *int     `json:"max_bedrooms,omitempty"`
	Status      *string  `json:"status,omitempty"`
	DistrictID  *string  `json:"district_id,omitempty"`
}

// SearchOptions control result count, offset and ordering.
type SearchOptions struct {
	Limit   int    `json:"limit,omitempty"`
	Offset  int    `json:"offset,omitempty"`
	OrderBy string `json:"order_by,omitempty"`
}

// PropertyListResponse is the API response for property listings.
type PropertyListResponse struct {
	Items      []PropertyDetail `json:"items"`
	TotalCount int              `json:"total_count"`
}
