package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"revistas_backend/internal/models"
)

// PeriodRepository persists ordering windows.
type PeriodRepository interface {
	CreatePeriod(ctx context.Context, executor SQLExecutor, period *models.Period) (int64, error)
	GetPeriodByID(ctx context.Context, id int64) (*models.Period, error)
	ListPeriods(ctx context.Context, onlyActive bool) ([]models.Period, error)
	UpdatePeriod(ctx context.Context, executor SQLExecutor, period *models.Period) error
	DeletePeriod(ctx context.Context, executor SQLExecutor, id int64) error
}

type periodRepository struct {
	db *sql.DB
}

// NewPeriodRepository creates a new instance of PeriodRepository.
func NewPeriodRepository(db *sql.DB) PeriodRepository {
	return &periodRepository{db: db}
}

const periodColumns = `id, code, name, start_date, end_date, active, created_at, updated_at`

func scanPeriod(s scanner, p *models.Period) error {
	return s.Scan(&p.ID, &p.Code, &p.Name, &p.StartDate, &p.EndDate, &p.Active, &p.CreatedAt, &p.UpdatedAt)
}

func (r *periodRepository) CreatePeriod(ctx context.Context, executor SQLExecutor, period *models.Period) (int64, error) {
	query := `INSERT INTO periods (code, name, start_date, end_date, active, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          RETURNING id`
	now := time.Now()
	period.CreatedAt, period.UpdatedAt = now, now

	err := executor.QueryRowContext(ctx, query,
		period.Code, period.Name, period.StartDate, period.EndDate, period.Active, now, now,
	).Scan(&period.ID)
	if err != nil {
		return 0, wrapWriteError(err, fmt.Sprintf("creating period '%s'", period.Code))
	}
	return period.ID, nil
}

func (r *periodRepository) GetPeriodByID(ctx context.Context, id int64) (*models.Period, error) {
	period := &models.Period{}
	query := `SELECT ` + periodColumns + ` FROM periods WHERE id = $1`
	if err := scanPeriod(r.db.QueryRowContext(ctx, query, id), period); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting period by ID %d: %v", ErrDatabaseError, id, err)
	}
	return period, nil
}

func (r *periodRepository) ListPeriods(ctx context.Context, onlyActive bool) ([]models.Period, error) {
	query := `SELECT ` + periodColumns + ` FROM periods`
	if onlyActive {
		query += ` WHERE active = TRUE`
	}
	query += ` ORDER BY start_date DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: querying periods: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	periods := []models.Period{}
	for rows.Next() {
		var p models.Period
		if err := scanPeriod(rows, &p); err != nil {
			return nil, fmt.Errorf("%w: scanning period: %v", ErrDatabaseError, err)
		}
		periods = append(periods, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating periods: %v", ErrDatabaseError, err)
	}
	return periods, nil
}

func (r *periodRepository) UpdatePeriod(ctx context.Context, executor SQLExecutor, period *models.Period) error {
	query := `UPDATE periods SET code = $1, name = $2, start_date = $3, end_date = $4, active = $5, updated_at = $6
	          WHERE id = $7`
	period.UpdatedAt = time.Now()
	result, err := executor.ExecContext(ctx, query,
		period.Code, period.Name, period.StartDate, period.EndDate, period.Active, period.UpdatedAt, period.ID,
	)
	if err != nil {
		return wrapWriteError(err, fmt.Sprintf("updating period ID %d", period.ID))
	}
	return expectAffected(result, fmt.Sprintf("period update ID %d", period.ID))
}

func (r *periodRepository) DeletePeriod(ctx context.Context, executor SQLExecutor, id int64) error {
	result, err := executor.ExecContext(ctx, `DELETE FROM periods WHERE id = $1`, id)
	if err != nil {
		return wrapWriteError(err, fmt.Sprintf("deleting period ID %d", id))
	}
	return expectAffected(result, fmt.Sprintf("deleting period ID %d", id))
}
