package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"revistas_backend/internal/models"
	"revistas_backend/internal/repositories"
)

// --- Magazine DTOs ---
type CreateMagazineRequest struct {
	Code      string          `json:"code" validate:"required,max=50"`
	Name      string          `json:"name" validate:"required,max=200"`
	ClassName *string         `json:"className" validate:"omitempty,max=100"`
	AgeRange  *string         `json:"ageRange" validate:"omitempty,max=50"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Active    *bool           `json:"active"`
}

type UpdateMagazineRequest struct {
	Code      *string          `json:"code" validate:"omitempty,min=1,max=50"`
	Name      *string          `json:"name" validate:"omitempty,min=1,max=200"`
	ClassName *string          `json:"className" validate:"omitempty,max=100"`
	AgeRange  *string          `json:"ageRange" validate:"omitempty,max=50"`
	UnitPrice *decimal.Decimal `json:"unitPrice"`
	Active    *bool            `json:"active"`
}

// --- Combination DTOs ---
type CreateCombinationRequest struct {
	Name   string          `json:"name" validate:"required,max=200"`
	Code   string          `json:"code" validate:"required,max=50"`
	Price  decimal.Decimal `json:"price"`
	Active *bool           `json:"active"`
}

type UpdateCombinationRequest struct {
	Name   *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Code   *string          `json:"code" validate:"omitempty,min=1,max=50"`
	Price  *decimal.Decimal `json:"price"`
	Active *bool            `json:"active"`
}

type CatalogService interface {
	CreateMagazine(ctx context.Context, req CreateMagazineRequest) (*models.Magazine, error)
	GetMagazineByID(ctx context.Context, id int64) (*models.Magazine, error)
	GetMagazines(ctx context.Context, onlyActive bool) ([]models.Magazine, error)
	UpdateMagazine(ctx context.Context, id int64, req UpdateMagazineRequest) (*models.Magazine, error)
	DeleteMagazine(ctx context.Context, id int64) error

	ListCombinations(ctx context.Context, magazineID int64) ([]models.VariantCombination, error)
	CreateCombination(ctx context.Context, magazineID int64, req CreateCombinationRequest) (*models.VariantCombination, error)
	UpdateCombination(ctx context.Context, magazineID, combinationID int64, req UpdateCombinationRequest) (*models.VariantCombination, error)
	DeleteCombination(ctx context.Context, magazineID, combinationID int64) error
}

type catalogService struct {
	catalogRepo repositories.CatalogRepository
	db          repositories.SQLExecutor
	now         func() time.Time
}

func NewCatalogService(repo repositories.CatalogRepository, db repositories.SQLExecutor) CatalogService {
	return &catalogService{catalogRepo: repo, db: db, now: time.Now}
}

func checkPrice(field string, price decimal.Decimal) error {
	if price.IsNegative() {
		return fmt.Errorf("%w: %s cannot be negative", ErrValidation, field)
	}
	return nil
}

func (s *catalogService) CreateMagazine(ctx context.Context, req CreateMagazineRequest) (*models.Magazine, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if err := checkPrice("unitPrice", req.UnitPrice); err != nil {
		return nil, err
	}
	now := s.now()
	magazine := &models.Magazine{
		Code:      strings.TrimSpace(req.Code),
		Name:      strings.TrimSpace(req.Name),
		ClassName: optionalText(req.ClassName),
		AgeRange:  optionalText(req.AgeRange),
		UnitPrice: models.RoundMoney(req.UnitPrice),
		Active:    req.Active == nil || *req.Active,
		CreatedAt: now,
		UpdatedAt: now,
	}
	id, err := s.catalogRepo.CreateMagazine(ctx, s.db, magazine)
	if err != nil {
		return nil, translateRepoError(err, ErrMagazineNotFound, "create magazine")
	}
	return s.GetMagazineByID(ctx, id)
}

// GetMagazineByID returns the magazine with all of its combinations.
func (s *catalogService) GetMagazineByID(ctx context.Context, id int64) (*models.Magazine, error) {
	magazine, err := s.catalogRepo.GetMagazineByID(ctx, id)
	if err != nil {
		return nil, translateRepoError(err, ErrMagazineNotFound, "get magazine")
	}
	combinations, err := s.catalogRepo.ListCombinations(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list combinations of magazine %d: %w", id, err)
	}
	magazine.Combinations = combinations
	return magazine, nil
}

func (s *catalogService) GetMagazines(ctx context.Context, onlyActive bool) ([]models.Magazine, error) {
	magazines, err := s.catalogRepo.ListMagazines(ctx, onlyActive)
	if err != nil {
		return nil, fmt.Errorf("failed to list magazines: %w", err)
	}
	return magazines, nil
}

func (s *catalogService) UpdateMagazine(ctx context.Context, id int64, req UpdateMagazineRequest) (*models.Magazine, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	magazine, err := s.catalogRepo.GetMagazineByID(ctx, id)
	if err != nil {
		return nil, translateRepoError(err, ErrMagazineNotFound, "get magazine")
	}

	if req.Code != nil {
		magazine.Code = strings.TrimSpace(*req.Code)
	}
	if req.Name != nil {
		magazine.Name = strings.TrimSpace(*req.Name)
	}
	if req.ClassName != nil {
		magazine.ClassName = optionalText(req.ClassName)
	}
	if req.AgeRange != nil {
		magazine.AgeRange = optionalText(req.AgeRange)
	}
	if req.UnitPrice != nil {
		if err := checkPrice("unitPrice", *req.UnitPrice); err != nil {
			return nil, err
		}
		magazine.UnitPrice = models.RoundMoney(*req.UnitPrice)
	}
	if req.Active != nil {
		magazine.Active = *req.Active
	}
	magazine.UpdatedAt = s.now()

	if err := s.catalogRepo.UpdateMagazine(ctx, s.db, magazine); err != nil {
		return nil, translateRepoError(err, ErrMagazineNotFound, "update magazine")
	}
	return s.GetMagazineByID(ctx, id)
}

// DeleteMagazine removes the magazine and its combinations. Magazines that
// already appear on orders cannot be deleted.
func (s *catalogService) DeleteMagazine(ctx context.Context, id int64) error {
	return translateRepoError(s.catalogRepo.DeleteMagazine(ctx, s.db, id), ErrMagazineNotFound, "delete magazine")
}

func (s *catalogService) ListCombinations(ctx context.Context, magazineID int64) ([]models.VariantCombination, error) {
	if _, err := s.catalogRepo.GetMagazineByID(ctx, magazineID); err != nil {
		return nil, translateRepoError(err, ErrMagazineNotFound, "get magazine")
	}
	combinations, err := s.catalogRepo.ListCombinations(ctx, magazineID)
	if err != nil {
		return nil, fmt.Errorf("failed to list combinations of magazine %d: %w", magazineID, err)
	}
	return combinations, nil
}

func (s *catalogService) CreateCombination(ctx context.Context, magazineID int64, req CreateCombinationRequest) (*models.VariantCombination, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if err := checkPrice("price", req.Price); err != nil {
		return nil, err
	}
	if _, err := s.catalogRepo.GetMagazineByID(ctx, magazineID); err != nil {
		return nil, translateRepoError(err, ErrMagazineNotFound, "get magazine")
	}

	now := s.now()
	combination := &models.VariantCombination{
		MagazineID: magazineID,
		Name:       strings.TrimSpace(req.Name),
		Code:       strings.TrimSpace(req.Code),
		Price:      models.RoundMoney(req.Price),
		Active:     req.Active == nil || *req.Active,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	id, err := s.catalogRepo.CreateCombination(ctx, s.db, combination)
	if err != nil {
		return nil, translateRepoError(err, ErrCombinationNotFound, "create combination")
	}
	combination.ID = id
	return combination, nil
}

func (s *catalogService) UpdateCombination(ctx context.Context, magazineID, combinationID int64, req UpdateCombinationRequest) (*models.VariantCombination, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	combination, err := s.combinationOf(ctx, magazineID, combinationID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		combination.Name = strings.TrimSpace(*req.Name)
	}
	if req.Code != nil {
		combination.Code = strings.TrimSpace(*req.Code)
	}
	if req.Price != nil {
		if err := checkPrice("price", *req.Price); err != nil {
			return nil, err
		}
		combination.Price = models.RoundMoney(*req.Price)
	}
	if req.Active != nil {
		combination.Active = *req.Active
	}
	combination.UpdatedAt = s.now()

	if err := s.catalogRepo.UpdateCombination(ctx, s.db, combination); err != nil {
		return nil, translateRepoError(err, ErrCombinationNotFound, "update combination")
	}
	return combination, nil
}

// DeleteCombination hard-deletes the combination. Existing order items keep
// their variant snapshot and lose the live reference.
func (s *catalogService) DeleteCombination(ctx context.Context, magazineID, combinationID int64) error {
	if _, err := s.combinationOf(ctx, magazineID, combinationID); err != nil {
		return err
	}
	return translateRepoError(s.catalogRepo.DeleteCombination(ctx, s.db, combinationID), ErrCombinationNotFound, "delete combination")
}

func (s *catalogService) combinationOf(ctx context.Context, magazineID, combinationID int64) (*models.VariantCombination, error) {
	combination, err := s.catalogRepo.GetCombinationByID(ctx, combinationID)
	if err != nil {
		return nil, translateRepoError(err, ErrCombinationNotFound, "get combination")
	}
	if combination.MagazineID != magazineID {
		return nil, fmt.Errorf("%w (id %d for magazine %d)", ErrCombinationNotFound, combinationID, magazineID)
	}
	return combination, nil
}
