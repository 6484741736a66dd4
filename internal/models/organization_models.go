package models

import "time"

// Area groups congregations regionally.
type Area struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Congregation is the organizational unit that submits orders.
type Congregation struct {
	ID        int64     `json:"id"`
	AreaID    int64     `json:"areaId"`
	Name      string    `json:"name"`
	City      *string   `json:"city,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Area      *Area     `json:"area,omitempty"`
}
