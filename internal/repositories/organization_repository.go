package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"revistas_backend/internal/models"
)

// OrganizationRepository persists areas and congregations.
type OrganizationRepository interface {
	CreateArea(ctx context.Context, executor SQLExecutor, area *models.Area) (int64, error)
	GetAreaByID(ctx context.Context, id int64) (*models.Area, error)
	ListAreas(ctx context.Context) ([]models.Area, error)
	UpdateArea(ctx context.Context, executor SQLExecutor, area *models.Area) error
	DeleteArea(ctx context.Context, executor SQLExecutor, id int64) error

	CreateCongregation(ctx context.Context, executor SQLExecutor, congregation *models.Congregation) (int64, error)
	GetCongregationByID(ctx context.Context, id int64) (*models.Congregation, error) // joins area
	ListCongregations(ctx context.Context, areaID *int64) ([]models.Congregation, error)
	UpdateCongregation(ctx context.Context, executor SQLExecutor, congregation *models.Congregation) error
	DeleteCongregation(ctx context.Context, executor SQLExecutor, id int64) error
}

type organizationRepository struct {
	db *sql.DB
}

// NewOrganizationRepository creates a new instance of OrganizationRepository.
func NewOrganizationRepository(db *sql.DB) OrganizationRepository {
	return &organizationRepository{db: db}
}

// --- Area Methods ---

func (r *organizationRepository) CreateArea(ctx context.Context, executor SQLExecutor, area *models.Area) (int64, error) {
	query := `INSERT INTO areas (name, created_at, updated_at) VALUES ($1, $2, $3) RETURNING id`
	now := time.Now()
	area.CreatedAt, area.UpdatedAt = now, now
	if err := executor.QueryRowContext(ctx, query, area.Name, now, now).Scan(&area.ID); err != nil {
		return 0, wrapWriteError(err, fmt.Sprintf("creating area '%s'", area.Name))
	}
	return area.ID, nil
}

func (r *organizationRepository) GetAreaByID(ctx context.Context, id int64) (*models.Area, error) {
	area := &models.Area{}
	query := `SELECT id, name, created_at, updated_at FROM areas WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&area.ID, &area.Name, &area.CreatedAt, &area.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting area by ID %d: %v", ErrDatabaseError, id, err)
	}
	return area, nil
}

func (r *organizationRepository) ListAreas(ctx context.Context) ([]models.Area, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, created_at, updated_at FROM areas ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("%w: querying areas: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	areas := []models.Area{}
	for rows.Next() {
		var a models.Area
		if err := rows.Scan(&a.ID, &a.Name, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%w: scanning area: %v", ErrDatabaseError, err)
		}
		areas = append(areas, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating areas: %v", ErrDatabaseError, err)
	}
	return areas, nil
}

func (r *organizationRepository) UpdateArea(ctx context.Context, executor SQLExecutor, area *models.Area) error {
	area.UpdatedAt = time.Now()
	result, err := executor.ExecContext(ctx, `UPDATE areas SET name = $1, updated_at = $2 WHERE id = $3`, area.Name, area.UpdatedAt, area.ID)
	if err != nil {
		return wrapWriteError(err, fmt.Sprintf("updating area ID %d", area.ID))
	}
	return expectAffected(result, fmt.Sprintf("area update ID %d", area.ID))
}

func (r *organizationRepository) DeleteArea(ctx context.Context, executor SQLExecutor, id int64) error {
	result, err := executor.ExecContext(ctx, `DELETE FROM areas WHERE id = $1`, id)
	if err != nil {
		return wrapWriteError(err, fmt.Sprintf("deleting area ID %d", id))
	}
	return expectAffected(result, fmt.Sprintf("deleting area ID %d", id))
}

// --- Congregation Methods ---

const congregationSelect = `
	SELECT c.id, c.area_id, c.name, c.city, c.active, c.created_at, c.updated_at, a.name
	FROM congregations c
	JOIN areas a ON a.id = c.area_id`

func scanCongregation(s scanner, c *models.Congregation) error {
	var areaName string
	if err := s.Scan(&c.ID, &c.AreaID, &c.Name, &c.City, &c.Active, &c.CreatedAt, &c.UpdatedAt, &areaName); err != nil {
		return err
	}
	c.Area = &models.Area{ID: c.AreaID, Name: areaName}
	return nil
}

func (r *organizationRepository) CreateCongregation(ctx context.Context, executor SQLExecutor, congregation *models.Congregation) (int64, error) {
	query := `INSERT INTO congregations (area_id, name, city, active, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          RETURNING id`
	now := time.Now()
	congregation.CreatedAt, congregation.UpdatedAt = now, now
	err := executor.QueryRowContext(ctx, query,
		congregation.AreaID, congregation.Name, congregation.City, congregation.Active, now, now,
	).Scan(&congregation.ID)
	if err != nil {
		return 0, wrapWriteError(err, fmt.Sprintf("creating congregation '%s'", congregation.Name))
	}
	return congregation.ID, nil
}

func (r *organizationRepository) GetCongregationByID(ctx context.Context, id int64) (*models.Congregation, error) {
	congregation := &models.Congregation{}
	if err := scanCongregation(r.db.QueryRowContext(ctx, congregationSelect+` WHERE c.id = $1`, id), congregation); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting congregation by ID %d: %v", ErrDatabaseError, id, err)
	}
	return congregation, nil
}

func (r *organizationRepository) ListCongregations(ctx context.Context, areaID *int64) ([]models.Congregation, error) {
	query := congregationSelect
	var args []interface{}
	if areaID != nil {
		query += ` WHERE c.area_id = $1`
		args = append(args, *areaID)
	}
	query += ` ORDER BY a.name, c.name`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: querying congregations: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	congregations := []models.Congregation{}
	for rows.Next() {
		var c models.Congregation
		if err := scanCongregation(rows, &c); err != nil {
			return nil, fmt.Errorf("%w: scanning congregation: %v", ErrDatabaseError, err)
		}
		congregations = append(congregations, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating congregations: %v", ErrDatabaseError, err)
	}
	return congregations, nil
}

func (r *organizationRepository) UpdateCongregation(ctx context.Context, executor SQLExecutor, congregation *models.Congregation) error {
	query := `UPDATE congregations SET area_id = $1, name = $2, city = $3, active = $4, updated_at = $5 WHERE id = $6`
	congregation.UpdatedAt = time.Now()
	result, err := executor.ExecContext(ctx, query,
		congregation.AreaID, congregation.Name, congregation.City, congregation.Active, congregation.UpdatedAt, congregation.ID,
	)
	if err != nil {
		return wrapWriteError(err, fmt.Sprintf("updating congregation ID %d", congregation.ID))
	}
	return expectAffected(result, fmt.Sprintf("congregation update ID %d", congregation.ID))
}

func (r *organizationRepository) DeleteCongregation(ctx context.Context, executor SQLExecutor, id int64) error {
	result, err := executor.ExecContext(ctx, `DELETE FROM congregations WHERE id = $1`, id)
	if err != nil {
		return wrapWriteError(err, fmt.Sprintf("deleting congregation ID %d", id))
	}
	return expectAffected(result, fmt.Sprintf("deleting congregation ID %d", id))
}
