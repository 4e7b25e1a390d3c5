package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"invoice-service/internal/models"
	"invoice-service/internal/utils"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const companyColumns = `id, name, gst_number, is_active, is_approved, contact_email, contact_phone, created_at, updated_at`

type companyRepository struct {
	q sqlx.ExtContext
}

func (r *companyRepository) Create(ctx context.Context, company *models.Company) error {
	if company.ID == uuid.Nil {
		company.ID = uuid.New()
	}
	company.CreatedAt = now()
	company.UpdatedAt = company.CreatedAt

	query := `
		INSERT INTO companies (` + companyColumns + `)
		VALUES (:id, :name, :gst_number, :is_active, :is_approved, :contact_email, :contact_phone, :created_at, :updated_at)`

	if _, err := sqlx.NamedExecContext(ctx, r.q, query, company); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create company: %w", err)
	}
	return nil
}

func (r *companyRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	return r.getOne(ctx, `SELECT `+companyColumns+` FROM companies WHERE id = $1`, id)
}

func (r *companyRepository) GetByGSTNumber(ctx context.Context, gstNumber string) (*models.Company, error) {
	return r.getOne(ctx, `SELECT `+companyColumns+` FROM companies WHERE gst_number = $1`, gstNumber)
}

func (r *companyRepository) getOne(ctx context.Context, query string, arg any) (*models.Company, error) {
	var company models.Company
	if err := sqlx.GetContext(ctx, r.q, &company, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get company: %w", err)
	}
	return &company, nil
}

func (r *companyRepository) List(ctx context.Context, approved *bool) ([]models.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies`
	args := []any{}
	if approved != nil {
		query += ` WHERE is_approved = $1`
		args = append(args, *approved)
	}
	query += ` ORDER BY created_at DESC`

	companies := []models.Company{}
	if err := sqlx.SelectContext(ctx, r.q, &companies, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	return companies, nil
}

func (r *companyRepository) UpdateStatus(ctx context.Context, id uuid.UUID, approved, active bool) error {
	query := `UPDATE companies SET is_approved = $1, is_active = $2, updated_at = $3 WHERE id = $4`
	err := utils.ExecWithCheck(ctx, r.q, query, utils.ExecUpdate, approved, active, now(), id)
	if errors.Is(err, utils.ErrNoRowsAffected) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update company status: %w", err)
	}
	return nil
}

func (r *companyRepository) UpdateProfile(ctx context.Context, company *models.Company) error {
	company.UpdatedAt = now()
	query := `
		UPDATE companies
		SET name = $1, gst_number = $2, contact_email = $3, contact_phone = $4, updated_at = $5
		WHERE id = $6`
	err := utils.ExecWithCheck(ctx, r.q, query, utils.ExecUpdate,
		company.Name, company.GSTNumber, company.ContactEmail, company.ContactPhone, company.UpdatedAt, company.ID)
	switch {
	case errors.Is(err, utils.ErrNoRowsAffected):
		return ErrNotFound
	case isUniqueViolation(err):
		return ErrDuplicate
	case err != nil:
		return fmt.Errorf("failed to update company profile: %w", err)
	}
	return nil
}
