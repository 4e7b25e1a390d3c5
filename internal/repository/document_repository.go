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

const documentColumns = `id, company_id, invoice_id, original_file_name, stored_file_name, file_path, document_type, mime_type, file_size, description, created_at, updated_at`

type documentRepository struct {
	q sqlx.ExtContext
}

func (r *documentRepository) Create(ctx context.Context, doc *models.Document) error {
	if doc.ID == uuid.Nil {
		doc.ID = uuid.New()
	}
	doc.CreatedAt = now()
	doc.UpdatedAt = doc.CreatedAt

	query := `
		INSERT INTO documents (` + documentColumns + `)
		VALUES (:id, :company_id, :invoice_id, :original_file_name, :stored_file_name, :file_path,
		        :document_type, :mime_type, :file_size, :description, :created_at, :updated_at)`

	if _, err := sqlx.NamedExecContext(ctx, r.q, query, doc); err != nil {
		if isForeignKeyViolation(err) {
			return ErrOutsideTenant
		}
		return fmt.Errorf("failed to create document: %w", err)
	}
	return nil
}

func (r *documentRepository) GetByID(ctx context.Context, scope models.TenantScope, id uuid.UUID) (*models.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE id = $1`
	args := []any{id}
	if !scope.Unscoped() {
		query += ` AND company_id = $2`
		args = append(args, scope.CompanyID)
	}

	var doc models.Document
	if err := sqlx.GetContext(ctx, r.q, &doc, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, missReason(ctx, r.q, "documents", id)
		}
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return &doc, nil
}

func (r *documentRepository) ListByCompany(ctx context.Context, companyID uuid.UUID, invoiceID *uuid.UUID) ([]models.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE company_id = $1`
	args := []any{companyID}
	if invoiceID != nil {
		query += ` AND invoice_id = $2`
		args = append(args, *invoiceID)
	}
	query += ` ORDER BY created_at DESC`

	docs := []models.Document{}
	if err := sqlx.SelectContext(ctx, r.q, &docs, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	return docs, nil
}
