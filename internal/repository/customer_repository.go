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

const customerColumns = `id, company_id, customer_name, company_name, phone, email, payment_terms_days, created_at, updated_at`

type customerRepository struct {
	q sqlx.ExtContext
}

func (r *customerRepository) Create(ctx context.Context, customer *models.Customer) error {
	if customer.ID == uuid.Nil {
		customer.ID = uuid.New()
	}
	customer.CreatedAt = now()
	customer.UpdatedAt = customer.CreatedAt

	query := `
		INSERT INTO customers (` + customerColumns + `)
		VALUES (:id, :company_id, :customer_name, :company_name, :phone, :email, :payment_terms_days, :created_at, :updated_at)`

	if _, err := sqlx.NamedExecContext(ctx, r.q, query, customer); err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}
	return nil
}

func (r *customerRepository) GetByID(ctx context.Context, scope models.TenantScope, id uuid.UUID) (*models.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`
	args := []any{id}
	if !scope.Unscoped() {
		query += ` AND company_id = $2`
		args = append(args, scope.CompanyID)
	}

	var customer models.Customer
	if err := sqlx.GetContext(ctx, r.q, &customer, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, missReason(ctx, r.q, "customers", id)
		}
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	return &customer, nil
}

func (r *customerRepository) ListByCompany(ctx context.Context, companyID uuid.UUID) ([]models.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE company_id = $1 ORDER BY customer_name ASC`

	customers := []models.Customer{}
	if err := sqlx.SelectContext(ctx, r.q, &customers, query, companyID); err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	return customers, nil
}
