package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"revistas_backend/internal/models"
	"revistas_backend/internal/repositories"
)

const dateLayout = "2006-01-02"

type CreatePeriodRequest struct {
	Code      string `json:"code" validate:"required,max=20"`
	Name      string `json:"name" validate:"required,max=100"`
	StartDate string `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"endDate" validate:"required,datetime=2006-01-02"`
	Active    *bool  `json:"active"`
}

type UpdatePeriodRequest struct {
	Code      *string `json:"code" validate:"omitempty,min=1,max=20"`
	Name      *string `json:"name" validate:"omitempty,min=1,max=100"`
	StartDate *string `json:"startDate" validate:"omitempty,datetime=2006-01-02"`
	EndDate   *string `json:"endDate" validate:"omitempty,datetime=2006-01-02"`
	Active    *bool   `json:"active"`
}

type PeriodService interface {
	CreatePeriod(ctx context.Context, req CreatePeriodRequest) (*models.Period, error)
	GetPeriodByID(ctx context.Context, id int64) (*models.Period, error)
	GetPeriods(ctx context.Context, onlyActive bool) ([]models.Period, error)
	UpdatePeriod(ctx context.Context, id int64, req UpdatePeriodRequest) (*models.Period, error)
	DeletePeriod(ctx context.Context, id int64) error
}

type periodService struct {
	periodRepo repositories.PeriodRepository
	db         repositories.SQLExecutor
	now        func() time.Time
}

func NewPeriodService(repo repositories.PeriodRepository, db repositories.SQLExecutor) PeriodService {
	return &periodService{periodRepo: repo, db: db, now: time.Now}
}

// parseDateRange parses already-validated dates and rejects inverted ranges.
func parseDateRange(start, end string) (time.Time, time.Time, error) {
	startDate, err := time.Parse(dateLayout, start)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: startDate: %v", ErrValidation, err)
	}
	endDate, err := time.Parse(dateLayout, end)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: endDate: %v", ErrValidation, err)
	}
	if endDate.Before(startDate) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: endDate must not be before startDate", ErrValidation)
	}
	return startDate, endDate, nil
}

func (s *periodService) CreatePeriod(ctx context.Context, req CreatePeriodRequest) (*models.Period, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	startDate, endDate, err := parseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}
	now := s.now()
	period := &models.Period{
		Code:      strings.TrimSpace(req.Code),
		Name:      strings.TrimSpace(req.Name),
		StartDate: startDate,
		EndDate:   endDate,
		Active:    req.Active == nil || *req.Active,
		CreatedAt: now,
		UpdatedAt: now,
	}
	id, err := s.periodRepo.CreatePeriod(ctx, s.db, period)
	if err != nil {
		return nil, translateRepoError(err, ErrPeriodNotFound, "create period")
	}
	period.ID = id
	return period, nil
}

func (s *periodService) GetPeriodByID(ctx context.Context, id int64) (*models.Period, error) {
	period, err := s.periodRepo.GetPeriodByID(ctx, id)
	if err != nil {
		return nil, translateRepoError(err, ErrPeriodNotFound, "get period")
	}
	return period, nil
}

func (s *periodService) GetPeriods(ctx context.Context, onlyActive bool) ([]models.Period, error) {
	periods, err := s.periodRepo.ListPeriods(ctx, onlyActive)
	if err != nil {
		return nil, fmt.Errorf("failed to list periods: %w", err)
	}
	return periods, nil
}

func (s *periodService) UpdatePeriod(ctx context.Context, id int64, req UpdatePeriodRequest) (*models.Period, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	period, err := s.periodRepo.GetPeriodByID(ctx, id)
	if err != nil {
		return nil, translateRepoError(err, ErrPeriodNotFound, "get period")
	}

	if req.Code != nil {
		period.Code = strings.TrimSpace(*req.Code)
	}
	if req.Name != nil {
		period.Name = strings.TrimSpace(*req.Name)
	}
	start, end := period.StartDate.Format(dateLayout), period.EndDate.Format(dateLayout)
	if req.StartDate != nil {
		start = *req.StartDate
	}
	if req.EndDate != nil {
		end = *req.EndDate
	}
	if period.StartDate, period.EndDate, err = parseDateRange(start, end); err != nil {
		return nil, err
	}
	if req.Active != nil {
		period.Active = *req.Active
	}
	period.UpdatedAt = s.now()

	if err := s.periodRepo.UpdatePeriod(ctx, s.db, period); err != nil {
		return nil, translateRepoError(err, ErrPeriodNotFound, "update period")
	}
	return period, nil
}

// DeletePeriod fails with ErrInUse while orders reference the period.
func (s *periodService) DeletePeriod(ctx context.Context, id int64) error {
	return translateRepoError(s.periodRepo.DeletePeriod(ctx, s.db, id), ErrPeriodNotFound, "delete period")
}
