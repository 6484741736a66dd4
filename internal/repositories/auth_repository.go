package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"revistas_backend/internal/models"
)

// AuthRepository defines the interface for authentication-related database operations.
type AuthRepository interface {
	CreateUser(ctx context.Context, executor SQLExecutor, user *models.User, hashedPassword string) (int64, error)
	FindUserByUsername(ctx context.Context, username string) (*models.User, string, error) // User, hashed password
	FindUserByID(ctx context.Context, userID int64) (*models.User, error)
}

type authRepository struct {
	db *sql.DB
}

// NewAuthRepository creates a new instance of AuthRepository.
func NewAuthRepository(db *sql.DB) AuthRepository {
	return &authRepository{db: db}
}

// CreateUser inserts a new user. The role is resolved by name; an unknown role
// name inserts nothing and yields ErrNotFound.
func (r *authRepository) CreateUser(ctx context.Context, executor SQLExecutor, user *models.User, hashedPassword string) (int64, error) {
	query := `INSERT INTO users (username, password_hash, email, full_name, role_id, congregation_id, is_active, created_at, updated_at)
	          SELECT $1::TEXT, $2::TEXT, $3::TEXT, $4::TEXT, ro.id, $6::BIGINT, TRUE, $7::TIMESTAMPTZ, $7::TIMESTAMPTZ
	          FROM roles ro WHERE ro.name = $5
	          RETURNING id`

	now := time.Now()
	err := executor.QueryRowContext(ctx, query,
		user.Username, hashedPassword, user.Email, user.FullName, user.Role, user.CongregationID, now,
	).Scan(&user.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("%w: role '%s'", ErrNotFound, user.Role)
		}
		return 0, wrapWriteError(err, fmt.Sprintf("creating user '%s'", user.Username))
	}
	user.IsActive = true
	user.CreatedAt, user.UpdatedAt = now, now
	return user.ID, nil
}

const userSelect = `
	SELECT u.id, u.username, u.password_hash, u.email, u.full_name, ro.name, u.congregation_id,
	       u.is_active, u.created_at, u.updated_at
	FROM users u
	JOIN roles ro ON u.role_id = ro.id`

func scanUser(s scanner, user *models.User, passwordHash *string) error {
	return s.Scan(&user.ID, &user.Username, passwordHash, &user.Email, &user.FullName, &user.Role,
		&user.CongregationID, &user.IsActive, &user.CreatedAt, &user.UpdatedAt)
}

// FindUserByUsername retrieves a user together with their hashed password.
func (r *authRepository) FindUserByUsername(ctx context.Context, username string) (*models.User, string, error) {
	user := &models.User{}
	var hashedPassword string
	if err := scanUser(r.db.QueryRowContext(ctx, userSelect+` WHERE u.username = $1`, username), user, &hashedPassword); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", ErrNotFound
		}
		return nil, "", fmt.Errorf("%w: finding user by username %s: %v", ErrDatabaseError, username, err)
	}
	return user, hashedPassword, nil
}

// FindUserByID retrieves a user profile; the password hash is never populated.
func (r *authRepository) FindUserByID(ctx context.Context, userID int64) (*models.User, error) {
	user := &models.User{}
	var passwordHash string
	if err := scanUser(r.db.QueryRowContext(ctx, userSelect+` WHERE u.id = $1`, userID), user, &passwordHash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: finding user by ID %d: %v", ErrDatabaseError, userID, err)
	}
	return user, nil
}
