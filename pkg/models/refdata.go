package models

import "time"

// Reference entities are seeded once at process start and otherwise
// read-only.

const (
	RoleRenter = "renter"
	RoleAgent  = "agent"
	RoleOwner  = "owner"
)

type UserRole struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type ApartmentType struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type Country struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type City struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CountryID string    `json:"country_id" db:"country_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type District struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CityID    string    `json:"city_id" db:"city_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
