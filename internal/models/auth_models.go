package models

import "time"

// Role names as stored in the roles table.
const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

// User represents a user in the system
type User struct {
	ID             int64         `json:"id"`
	Username       string        `json:"username"`
	PasswordHash   string        `json:"-"`
	Email          *string       `json:"email,omitempty"`
	FullName       *string       `json:"fullName,omitempty"`
	Role           string        `json:"role"`
	CongregationID *int64        `json:"congregationId,omitempty"`
	IsActive       bool          `json:"isActive"`
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt"`
	Congregation   *Congregation `json:"congregation,omitempty"`
}
