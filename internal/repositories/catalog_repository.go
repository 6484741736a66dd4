package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"revistas_backend/internal/models"

	"github.com/lib/pq"
)

// CatalogRepository persists magazines and their variant combinations.
type CatalogRepository interface {
	CreateMagazine(ctx context.Context, executor SQLExecutor, magazine *models.Magazine) (int64, error)
	GetMagazineByID(ctx context.Context, id int64) (*models.Magazine, error)
	ListMagazines(ctx context.Context, onlyActive bool) ([]models.Magazine, error)
	UpdateMagazine(ctx context.Context, executor SQLExecutor, magazine *models.Magazine) error
	DeleteMagazine(ctx context.Context, executor SQLExecutor, id int64) error

	CreateCombination(ctx context.Context, executor SQLExecutor, combination *models.VariantCombination) (int64, error)
	GetCombinationByID(ctx context.Context, id int64) (*models.VariantCombination, error)
	ListCombinations(ctx context.Context, magazineID int64) ([]models.VariantCombination, error)
	UpdateCombination(ctx context.Context, executor SQLExecutor, combination *models.VariantCombination) error
	DeleteCombination(ctx context.Context, executor SQLExecutor, id int64) error
	// GetCombinationsByIDs returns every combination still present among ids, keyed by id.
	// Inactive combinations are included; missing ids are simply absent from the map.
	GetCombinationsByIDs(ctx context.Context, ids []int64) (map[int64]models.VariantCombination, error)
}

type catalogRepository struct {
	db *sql.DB
}

// NewCatalogRepository creates a new instance of CatalogRepository.
func NewCatalogRepository(db *sql.DB) CatalogRepository {
	return &catalogRepository{db: db}
}

const magazineColumns = `id, code, name, class_name, age_range, unit_price, active, created_at, updated_at`

func scanMagazine(s scanner, m *models.Magazine) error {
	return s.Scan(&m.ID, &m.Code, &m.Name, &m.ClassName, &m.AgeRange, &m.UnitPrice, &m.Active, &m.CreatedAt, &m.UpdatedAt)
}

const combinationColumns = `id, magazine_id, name, code, price, active, created_at, updated_at`

func scanCombination(s scanner, c *models.VariantCombination) error {
	return s.Scan(&c.ID, &c.MagazineID, &c.Name, &c.Code, &c.Price, &c.Active, &c.CreatedAt, &c.UpdatedAt)
}

// --- Magazine Methods ---

func (r *catalogRepository) CreateMagazine(ctx context.Context, executor SQLExecutor, magazine *models.Magazine) (int64, error) {
	query := `INSERT INTO magazines (code, name, class_name, age_range, unit_price, active, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	          RETURNING id`
	now := time.Now()
	magazine.CreatedAt, magazine.UpdatedAt = now, now

	err := executor.QueryRowContext(ctx, query,
		magazine.Code, magazine.Name, magazine.ClassName, magazine.AgeRange, magazine.UnitPrice, magazine.Active, now, now,
	).Scan(&magazine.ID)
	if err != nil {
		return 0, wrapWriteError(err, fmt.Sprintf("creating magazine '%s'", magazine.Code))
	}
	return magazine.ID, nil
}

func (r *catalogRepository) GetMagazineByID(ctx context.Context, id int64) (*models.Magazine, error) {
	magazine := &models.Magazine{}
	query := `SELECT ` + magazineColumns + ` FROM magazines WHERE id = $1`
	if err := scanMagazine(r.db.QueryRowContext(ctx, query, id), magazine); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting magazine by ID %d: %v", ErrDatabaseError, id, err)
	}
	return magazine, nil
}

func (r *catalogRepository) ListMagazines(ctx context.Context, onlyActive bool) ([]models.Magazine, error) {
	query := `SELECT ` + magazineColumns + ` FROM magazines`
	if onlyActive {
		query += ` WHERE active = TRUE`
	}
	query += ` ORDER BY code`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: querying magazines: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	magazines := []models.Magazine{}
	for rows.Next() {
		var m models.Magazine
		if err := scanMagazine(rows, &m); err != nil {
			return nil, fmt.Errorf("%w: scanning magazine: %v", ErrDatabaseError, err)
		}
		magazines = append(magazines, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating magazines: %v", ErrDatabaseError, err)
	}
	return magazines, nil
}

func (r *catalogRepository) UpdateMagazine(ctx context.Context, executor SQLExecutor, magazine *models.Magazine) error {
	query := `UPDATE magazines
	          SET code = $1, name = $2, class_name = $3, age_range = $4, unit_price = $5, active = $6, updated_at = $7
	          WHERE id = $8`
	magazine.UpdatedAt = time.Now()
	result, err := executor.ExecContext(ctx, query,
		magazine.Code, magazine.Name, magazine.ClassName, magazine.AgeRange, magazine.UnitPrice, magazine.Active,
		magazine.UpdatedAt, magazine.ID,
	)
	if err != nil {
		return wrapWriteError(err, fmt.Sprintf("updating magazine ID %d", magazine.ID))
	}
	return expectAffected(result, fmt.Sprintf("magazine update ID %d", magazine.ID))
}

func (r *catalogRepository) DeleteMagazine(ctx context.Context, executor SQLExecutor, id int64) error {
	result, err := executor.ExecContext(ctx, `DELETE FROM magazines WHERE id = $1`, id)
	if err != nil {
		return wrapWriteError(err, fmt.Sprintf("deleting magazine ID %d", id))
	}
	return expectAffected(result, fmt.Sprintf("deleting magazine ID %d", id))
}

// --- VariantCombination Methods ---

func (r *catalogRepository) CreateCombination(ctx context.Context, executor SQLExecutor, combination *models.VariantCombination) (int64, error) {
	query := `INSERT INTO variant_combinations (magazine_id, name, code, price, active, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          RETURNING id`
	now := time.Now()
	combination.CreatedAt, combination.UpdatedAt = now, now

	err := executor.QueryRowContext(ctx, query,
		combination.MagazineID, combination.Name, combination.Code, combination.Price, combination.Active, now, now,
	).Scan(&combination.ID)
	if err != nil {
		return 0, wrapWriteError(err, fmt.Sprintf("creating combination '%s' for magazine ID %d", combination.Code, combination.MagazineID))
	}
	return combination.ID, nil
}

func (r *catalogRepository) GetCombinationByID(ctx context.Context, id int64) (*models.VariantCombination, error) {
	combination := &models.VariantCombination{}
	query := `SELECT ` + combinationColumns + ` FROM variant_combinations WHERE id = $1`
	if err := scanCombination(r.db.QueryRowContext(ctx, query, id), combination); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting combination by ID %d: %v", ErrDatabaseError, id, err)
	}
	return combination, nil
}

func (r *catalogRepository) ListCombinations(ctx context.Context, magazineID int64) ([]models.VariantCombination, error) {
	query := `SELECT ` + combinationColumns + ` FROM variant_combinations WHERE magazine_id = $1 ORDER BY name, id`
	return r.queryCombinations(ctx, query, magazineID)
}

func (r *catalogRepository) UpdateCombination(ctx context.Context, executor SQLExecutor, combination *models.VariantCombination) error {
	query := `UPDATE variant_combinations
	          SET name = $1, code = $2, price = $3, active = $4, updated_at = $5
	          WHERE id = $6`
	combination.UpdatedAt = time.Now()
	result, err := executor.ExecContext(ctx, query,
		combination.Name, combination.Code, combination.Price, combination.Active, combination.UpdatedAt, combination.ID,
	)
	if err != nil {
		return wrapWriteError(err, fmt.Sprintf("updating combination ID %d", combination.ID))
	}
	return expectAffected(result, fmt.Sprintf("combination update ID %d", combination.ID))
}

// DeleteCombination removes the row. order_items.combination_id is set to NULL by the
// foreign key, leaving the item's variant snapshot as its only identity.
func (r *catalogRepository) DeleteCombination(ctx context.Context, executor SQLExecutor, id int64) error {
	result, err := executor.ExecContext(ctx, `DELETE FROM variant_combinations WHERE id = $1`, id)
	if err != nil {
		return wrapWriteError(err, fmt.Sprintf("deleting combination ID %d", id))
	}
	return expectAffected(result, fmt.Sprintf("deleting combination ID %d", id))
}

func (r *catalogRepository) GetCombinationsByIDs(ctx context.Context, ids []int64) (map[int64]models.VariantCombination, error) {
	found := make(map[int64]models.VariantCombination, len(ids))
	if len(ids) == 0 {
		return found, nil
	}
	query := `SELECT ` + combinationColumns + ` FROM variant_combinations WHERE id = ANY($1)`
	combinations, err := r.queryCombinations(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	for _, c := range combinations {
		found[c.ID] = c
	}
	return found, nil
}

func (r *catalogRepository) queryCombinations(ctx context.Context, query string, args ...interface{}) ([]models.VariantCombination, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: querying combinations: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	combinations := []models.VariantCombination{}
	for rows.Next() {
		var c models.VariantCombination
		if err := scanCombination(rows, &c); err != nil {
			return nil, fmt.Errorf("%w: scanning combination: %v", ErrDatabaseError, err)
		}
		combinations = append(combinations, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating combinations: %v", ErrDatabaseError, err)
	}
	return combinations, nil
}
