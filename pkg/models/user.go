package models

import "time"

// User is identified by phone number. Created lazily on first inbound
// message, never deleted.
type User struct {
	ID          string    `json:"id" db:"id"`
	PhoneNumber string    `json:"phone_number" db:"phone_number" validate:"required"`
	Name        *string   `json:"name,omitempty" db:"name"`
	RoleID      string    `json:"role_id" db:"role_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// UserWithRole is a User joined with its role name.
type UserWithRole struct {
	User
	RoleName string `json:"role_name" db:"role_name"`
}

// DisplayName returns the stored name or the phone number when no name is
// known.
func (u *User) DisplayName() string {
	if u.Name != nil && *u.Name != "" {
		return *u.Name
	}
	return u.PhoneNumber
}

// UpdateUserRequest is the request body for profile edits.
type UpdateUserRequest struct {
	Name   *string `json:"name,omitempty"`
	RoleID *string `json:"role_id,omitempty"`
}
