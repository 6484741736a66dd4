package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"revistas_backend/internal/models"
	"revistas_backend/internal/repositories"
	"revistas_backend/pkg/utils"
)

var ErrUsernameExists = kind(ErrConflict, "username already exists")

// LoginRequest DTO
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RegisterUserRequest DTO. Role defaults to USER.
type RegisterUserRequest struct {
	Username       string  `json:"username" validate:"required,min=3,max=50"`
	Password       string  `json:"password" validate:"required,min=8,max=72"`
	Email          *string `json:"email" validate:"omitempty,email"`
	FullName       *string `json:"fullName" validate:"omitempty,max=150"`
	Role           string  `json:"role" validate:"omitempty,oneof=ADMIN USER"`
	CongregationID *int64  `json:"congregationId" validate:"omitempty,gt=0"`
}

// AuthResponse DTO
type AuthResponse struct {
	User        *models.User `json:"user"`
	AccessToken string       `json:"accessToken"`
	ExpiresIn   int64        `json:"expiresIn"`
}

type AuthService interface {
	RegisterUser(ctx context.Context, req RegisterUserRequest) (*models.User, error)
	LoginUser(ctx context.Context, req LoginRequest) (*AuthResponse, error)
	GetUserProfile(ctx context.Context, userID int64) (*models.User, error)
}

type authService struct {
	authRepo      repositories.AuthRepository
	congregations congregationReader
	db            repositories.SQLExecutor
	tokens        *utils.TokenManager
	now           func() time.Time
}

func NewAuthService(authRepo repositories.AuthRepository, congregations congregationReader, db repositories.SQLExecutor, tokens *utils.TokenManager) AuthService {
	return &authService{
		authRepo:      authRepo,
		congregations: congregations,
		db:            db,
		tokens:        tokens,
		now:           time.Now,
	}
}

func (s *authService) RegisterUser(ctx context.Context, req RegisterUserRequest) (*models.User, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if req.CongregationID != nil {
		if _, err := s.congregations.GetCongregationByID(ctx, *req.CongregationID); err != nil {
			return nil, translateRepoError(err, ErrCongregationMissing, "load congregation")
		}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	role := req.Role
	if role == "" {
		role = models.RoleUser
	}
	now := s.now()
	user := &models.User{
		Username:       strings.TrimSpace(req.Username),
		Email:          req.Email,
		FullName:       req.FullName,
		Role:           role,
		CongregationID: req.CongregationID,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	id, err := s.authRepo.CreateUser(ctx, s.db, user, string(hashed))
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrUsernameExists
		}
		return nil, translateRepoError(err, fmt.Errorf("%w: role %s", ErrValidation, role), "register user")
	}
	utils.LogInfo("user registered", map[string]interface{}{"user_id": id, "role": role})
	return s.GetUserProfile(ctx, id)
}

// LoginUser answers ErrInvalidCredentials for unknown users, inactive users and
// wrong passwords alike.
func (s *authService) LoginUser(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	user, storedHash, err := s.authRepo.FindUserByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login attempt failed: %w", err)
	}
	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateAccessToken(user.ID, user.Username, user.Role, user.CongregationID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	user.PasswordHash = ""
	return &AuthResponse{
		User:        user,
		AccessToken: token,
		ExpiresIn:   int64(s.tokens.TTL().Seconds()),
	}, nil
}

func (s *authService) GetUserProfile(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.authRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, translateRepoError(err, ErrUserNotFound, "get user")
	}
	user.PasswordHash = ""
	return user, nil
}
