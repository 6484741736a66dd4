package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusApproved  OrderStatus = "APPROVED"
	OrderStatusDelivered OrderStatus = "DELIVERED"
	OrderStatusCanceled  OrderStatus = "CANCELED"
)

// Valid reports whether s is one of the four known states.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusApproved, OrderStatusDelivered, OrderStatusCanceled:
		return true
	default:
		return false
	}
}

// Order is a congregation's request for magazines in one period.
type Order struct {
	ID             int64           `json:"id"`
	CongregationID int64           `json:"congregationId"`
	SubmittedByID  int64           `json:"submittedById"`
	PeriodID       int64           `json:"periodId"`
	Status         OrderStatus     `json:"status"`
	TotalValue     decimal.Decimal `json:"totalValue"`
	Observations   *string         `json:"observations,omitempty"`
	ApprovedByID   *int64          `json:"approvedById,omitempty"`
	ApprovedAt     *time.Time      `json:"approvedAt,omitempty"`
	DeliveredAt    *time.Time      `json:"deliveredAt,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`

	Items        []OrderItem   `json:"items"`
	Congregation *Congregation `json:"congregation,omitempty"`
	Period       *Period       `json:"period,omitempty"`
}

// OrderItem is one line of an order. UnitPrice and TotalValue are snapshots taken
// when the line was priced and are never recomputed.
type OrderItem struct {
	ID            int64            `json:"id"`
	OrderID       int64            `json:"orderId"`
	MagazineID    int64            `json:"magazineId"`
	CombinationID *int64           `json:"combinationId"`
	Quantity      int              `json:"quantity"`
	UnitPrice     decimal.Decimal  `json:"unitPrice"`
	TotalValue    decimal.Decimal  `json:"totalValue"`
	VariantData   *VariantSnapshot `json:"variantData,omitempty"`
	CreatedAt     time.Time        `json:"createdAt"`

	Magazine           *Magazine           `json:"magazine,omitempty"`
	VariantCombination *VariantCombination `json:"variantCombination,omitempty"`
}

// VariantSnapshot is the denormalized identity of the combination an item was priced
// with. It survives edits and deletions of the combination and is the fallback when
// the item has no combination_id.
type VariantSnapshot struct {
	CombinationID   *int64  `json:"combinationId,omitempty"`
	CombinationName *string `json:"combinationName,omitempty"`
	CombinationCode *string `json:"combinationCode,omitempty"`
}

// SnapshotOf captures the identity of c.
func SnapshotOf(c *VariantCombination) *VariantSnapshot {
	id, name, code := c.ID, c.Name, c.Code
	return &VariantSnapshot{CombinationID: &id, CombinationName: &name, CombinationCode: &code}
}

// Value implements driver.Valuer, storing the snapshot as JSON.
func (v VariantSnapshot) Value() (driver.Value, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal variant snapshot: %w", err)
	}
	return b, nil
}

// Scan implements sql.Scanner for JSON/JSONB columns.
func (v *VariantSnapshot) Scan(src interface{}) error {
	var raw []byte
	switch s := src.(type) {
	case nil:
		*v = VariantSnapshot{}
		return nil
	case []byte:
		raw = s
	case string:
		raw = []byte(s)
	default:
		return fmt.Errorf("variant snapshot: unsupported source type %T", src)
	}
	if len(raw) == 0 {
		*v = VariantSnapshot{}
		return nil
	}
	return json.Unmarshal(raw, v)
}

// IsZero reports whether the snapshot carries no identity at all.
func (v *VariantSnapshot) IsZero() bool {
	return v == nil || (v.CombinationID == nil && v.CombinationName == nil && v.CombinationCode == nil)
}

// OrderFilters defines the available filters for querying orders.
type OrderFilters struct {
	PeriodID       *int64
	CongregationID *int64
	SubmittedByID  *int64
	Status         *OrderStatus
	Page           int
	PageSize       int
}
