package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"revistas_backend/internal/models"
	"revistas_backend/internal/repositories"
)

type AreaRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

type CreateCongregationRequest struct {
	AreaID int64   `json:"areaId" validate:"required,gt=0"`
	Name   string  `json:"name" validate:"required,max=150"`
	City   *string `json:"city" validate:"omitempty,max=100"`
	Active *bool   `json:"active"`
}

type UpdateCongregationRequest struct {
	AreaID *int64  `json:"areaId" validate:"omitempty,gt=0"`
	Name   *string `json:"name" validate:"omitempty,min=1,max=150"`
	City   *string `json:"city" validate:"omitempty,max=100"`
	Active *bool   `json:"active"`
}

type OrganizationService interface {
	CreateArea(ctx context.Context, req AreaRequest) (*models.Area, error)
	GetAreas(ctx context.Context) ([]models.Area, error)
	UpdateArea(ctx context.Context, id int64, req AreaRequest) (*models.Area, error)
	DeleteArea(ctx context.Context, id int64) error

	CreateCongregation(ctx context.Context, req CreateCongregationRequest) (*models.Congregation, error)
	GetCongregationByID(ctx context.Context, id int64) (*models.Congregation, error)
	GetCongregations(ctx context.Context, areaID *int64) ([]models.Congregation, error)
	UpdateCongregation(ctx context.Context, id int64, req UpdateCongregationRequest) (*models.Congregation, error)
	DeleteCongregation(ctx context.Context, id int64) error
}

type organizationService struct {
	orgRepo repositories.OrganizationRepository
	db      repositories.SQLExecutor
	now     func() time.Time
}

func NewOrganizationService(repo repositories.OrganizationRepository, db repositories.SQLExecutor) OrganizationService {
	return &organizationService{orgRepo: repo, db: db, now: time.Now}
}

func (s *organizationService) CreateArea(ctx context.Context, req AreaRequest) (*models.Area, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	now := s.now()
	area := &models.Area{Name: strings.TrimSpace(req.Name), CreatedAt: now, UpdatedAt: now}
	id, err := s.orgRepo.CreateArea(ctx, s.db, area)
	if err != nil {
		return nil, translateRepoError(err, ErrAreaNotFound, "create area")
	}
	area.ID = id
	return area, nil
}

func (s *organizationService) GetAreas(ctx context.Context) ([]models.Area, error) {
	areas, err := s.orgRepo.ListAreas(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list areas: %w", err)
	}
	return areas, nil
}

func (s *organizationService) UpdateArea(ctx context.Context, id int64, req AreaRequest) (*models.Area, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	area, err := s.orgRepo.GetAreaByID(ctx, id)
	if err != nil {
		return nil, translateRepoError(err, ErrAreaNotFound, "get area")
	}
	area.Name = strings.TrimSpace(req.Name)
	area.UpdatedAt = s.now()
	if err := s.orgRepo.UpdateArea(ctx, s.db, area); err != nil {
		return nil, translateRepoError(err, ErrAreaNotFound, "update area")
	}
	return area, nil
}

func (s *organizationService) DeleteArea(ctx context.Context, id int64) error {
	return translateRepoError(s.orgRepo.DeleteArea(ctx, s.db, id), ErrAreaNotFound, "delete area")
}

func (s *organizationService) CreateCongregation(ctx context.Context, req CreateCongregationRequest) (*models.Congregation, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if _, err := s.orgRepo.GetAreaByID(ctx, req.AreaID); err != nil {
		return nil, translateRepoError(err, ErrAreaNotFound, "get area")
	}
	now := s.now()
	congregation := &models.Congregation{
		AreaID:    req.AreaID,
		Name:      strings.TrimSpace(req.Name),
		City:      optionalText(req.City),
		Active:    req.Active == nil || *req.Active,
		CreatedAt: now,
		UpdatedAt: now,
	}
	id, err := s.orgRepo.CreateCongregation(ctx, s.db, congregation)
	if err != nil {
		return nil, translateRepoError(err, ErrCongregationMissing, "create congregation")
	}
	return s.GetCongregationByID(ctx, id)
}

func (s *organizationService) GetCongregationByID(ctx context.Context, id int64) (*models.Congregation, error) {
	congregation, err := s.orgRepo.GetCongregationByID(ctx, id)
	if err != nil {
		return nil, translateRepoError(err, ErrCongregationMissing, "get congregation")
	}
	return congregation, nil
}

func (s *organizationService) GetCongregations(ctx context.Context, areaID *int64) ([]models.Congregation, error) {
	congregations, err := s.orgRepo.ListCongregations(ctx, areaID)
	if err != nil {
		return nil, fmt.Errorf("failed to list congregations: %w", err)
	}
	return congregations, nil
}

func (s *organizationService) UpdateCongregation(ctx context.Context, id int64, req UpdateCongregationRequest) (*models.Congregation, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	congregation, err := s.orgRepo.GetCongregationByID(ctx, id)
	if err != nil {
		return nil, translateRepoError(err, ErrCongregationMissing, "get congregation")
	}
	if req.AreaID != nil && *req.AreaID != congregation.AreaID {
		if _, err := s.orgRepo.GetAreaByID(ctx, *req.AreaID); err != nil {
			return nil, translateRepoError(err, ErrAreaNotFound, "get area")
		}
		congregation.AreaID = *req.AreaID
	}
	if req.Name != nil {
		congregation.Name = strings.TrimSpace(*req.Name)
	}
	if req.City != nil {
		congregation.City = optionalText(req.City)
	}
	if req.Active != nil {
		congregation.Active = *req.Active
	}
	congregation.UpdatedAt = s.now()

	if err := s.orgRepo.UpdateCongregation(ctx, s.db, congregation); err != nil {
		return nil, translateRepoError(err, ErrCongregationMissing, "update congregation")
	}
	return s.GetCongregationByID(ctx, id)
}

func (s *organizationService) DeleteCongregation(ctx context.Context, id int64) error {
	return translateRepoError(s.orgRepo.DeleteCongregation(ctx, s.db, id), ErrCongregationMissing, "delete congregation")
}
