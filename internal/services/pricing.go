package services

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"revistas_backend/internal/models"
)

// OrderItemRequest is one requested order line.
type OrderItemRequest struct {
	MagazineID    int64 `json:"magazineId" validate:"required,gt=0"`
	CombinationID int64 `json:"combinationId" validate:"required,gt=0"`
	Quantity      int   `json:"quantity" validate:"gt=0"`
}

// PricedOrder is the outcome of pricing a whole order.
type PricedOrder struct {
	Items []models.OrderItem
	Total decimal.Decimal
}

type combinationResolver interface {
	Resolve(ctx context.Context, magazineID, combinationID int64) (*models.VariantCombination, error)
}

// PricingEngine prices requested lines against the current catalog.
type PricingEngine struct {
	resolver combinationResolver
}

func NewPricingEngine(resolver combinationResolver) *PricingEngine {
	return &PricingEngine{resolver: resolver}
}

// Price is all-or-nothing: the first invalid line fails the whole order and no
// partial result is returned.
func (e *PricingEngine) Price(ctx context.Context, items []OrderItemRequest) (*PricedOrder, error) {
	if len(items) == 0 {
		return nil, ErrEmptyOrder
	}
	for i, item := range items {
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("%w (item %d: %d)", ErrInvalidQuantity, i, item.Quantity)
		}
	}

	priced := &PricedOrder{
		Items: make([]models.OrderItem, 0, len(items)),
		Total: decimal.Zero,
	}
	for _, item := range items {
		combination, err := e.resolver.Resolve(ctx, item.MagazineID, item.CombinationID)
		if err != nil {
			return nil, err
		}
		combinationID := combination.ID
		lineTotal := models.RoundMoney(combination.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))

		priced.Items = append(priced.Items, models.OrderItem{
			MagazineID:    item.MagazineID,
			CombinationID: &combinationID,
			Quantity:      item.Quantity,
			UnitPrice:     combination.Price,
			TotalValue:    lineTotal,
			VariantData:   models.SnapshotOf(combination),
		})
		priced.Total = priced.Total.Add(lineTotal)
	}
	return priced, nil
}
