package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"invoice-service/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type userRepository struct {
	q sqlx.ExtContext
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = now()
	user.UpdatedAt = user.CreatedAt

	query := `
		INSERT INTO users (id, company_id, username, password_hash, role, is_active, created_at, updated_at)
		VALUES (:id, :company_id, :username, :password_hash, :role, :is_active, :created_at, :updated_at)`

	if _, err := sqlx.NamedExecContext(ctx, r.q, query, user); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `
		SELECT id, company_id, username, password_hash, role, is_active, created_at, updated_at
		FROM users WHERE username = $1`

	var user models.User
	if err := sqlx.GetContext(ctx, r.q, &user, query, username); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}
