package models

import "time"

// UserPreference holds one search preference record per user.
type UserPreference struct {
	ID                string    `json:"id" db:"id"`
	UserID            string    `json:"user_id" db:"user_id"`
	BudgetMin         *float64  `json:"budget_min,omitempty" db:"budget_min"`
	BudgetMax         *float64  `json:"budget_max,omitempty" db:"budget_max"`
	BedroomsMin       *int      `json:"bedrooms_min,omitempty" db:"bedrooms_min"`
	BedroomsMax       *int      `json:"bedrooms_max,omitempty" db:"bedrooms_max"`
	BathroomsMin      *int      `json:"bathrooms_min,omitempty" db:"bathrooms_min"`
	BathroomsMax      *int      `json:"bathrooms_max,omitempty" db:"bathrooms_max"`
	PreferredLocation *string   `json:"preferred_location,omitempty" db:"preferred_location"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
}

// PreferenceFields is the upsert payload for a user's preference record.
// Nil fields are left untouched on update.
type PreferenceFields struct {
	BudgetMin         *float64 `json:"budget_min,omitempty" validate:"omitempty,gte=0"`
	BudgetMax         *float64 `json:"budget_max,omitempty" validate:"omitempty,gte=0"`
	BedroomsMin       *int     `json:"bedrooms_min,omitempty" validate:"omitempty,gte=0"`
	BedroomsMax       *int     `json:"bedrooms_max,omitempty" validate:"omitempty,gte=0"`
	BathroomsMin      *int     `json:"bathrooms_min,omitempty" validate:"omitempty,gte=0"`
	BathroomsMax      *int     `json:"bathrooms_max,omitempty" validate:"omitempty,gte=0"`
	PreferredLocation *string  `json:"preferred_location,omitempty"`
}
