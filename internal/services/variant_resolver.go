package services

import (
	"context"
	"errors"
	"fmt"

	"revistas_backend/internal/models"
	"revistas_backend/internal/repositories"
)

// CatalogReader is the read side of the catalog needed to price order lines.
type CatalogReader interface {
	GetMagazineByID(ctx context.Context, id int64) (*models.Magazine, error)
	GetCombinationByID(ctx context.Context, id int64) (*models.VariantCombination, error)
}

// VariantResolver turns a (magazine, combination) pair into the sellable
// combination and its current price. It never writes.
type VariantResolver struct {
	catalog CatalogReader
}

func NewVariantResolver(catalog CatalogReader) *VariantResolver {
	return &VariantResolver{catalog: catalog}
}

// Resolve returns ErrMagazineNotFound when the magazine is unknown or inactive, and
// ErrCombinationNotFound when the combination is unknown, inactive or belongs to
// another magazine.
func (r *VariantResolver) Resolve(ctx context.Context, magazineID, combinationID int64) (*models.VariantCombination, error) {
	magazine, err := r.catalog.GetMagazineByID(ctx, magazineID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w (id %d)", ErrMagazineNotFound, magazineID)
		}
		return nil, fmt.Errorf("failed to load magazine %d: %w", magazineID, err)
	}
	if !magazine.Active {
		return nil, fmt.Errorf("%w (id %d is inactive)", ErrMagazineNotFound, magazineID)
	}

	combination, err := r.catalog.GetCombinationByID(ctx, combinationID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w (id %d)", ErrCombinationNotFound, combinationID)
		}
		return nil, fmt.Errorf("failed to load combination %d: %w", combinationID, err)
	}
	if combination.MagazineID != magazineID || !combination.Active {
		return nil, fmt.Errorf("%w (id %d for magazine %d)", ErrCombinationNotFound, combinationID, magazineID)
	}
	return combination, nil
}
