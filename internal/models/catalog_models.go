package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Magazine is a catalog product orderable by congregations.
// UnitPrice is the legacy base price; orders are priced from combinations.
type Magazine struct {
	ID        int64           `json:"id"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	ClassName *string         `json:"className,omitempty"`
	AgeRange  *string         `json:"ageRange,omitempty"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Active    bool            `json:"active"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`

	Combinations []VariantCombination `json:"combinations,omitempty"`
}

// VariantCombination is one sellable SKU of a magazine (e.g. "Aluno - Capa dura").
type VariantCombination struct {
	ID         int64           `json:"id"`
	MagazineID int64           `json:"magazineId"`
	Name       string          `json:"name"`
	Code       string          `json:"code"`
	Price      decimal.Decimal `json:"price"`
	Active     bool            `json:"active"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}
