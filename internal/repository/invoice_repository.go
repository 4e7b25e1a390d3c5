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
	"github.com/shopspring/decimal"
)

const invoiceColumns = `id, company_id, customer_id, invoice_number, invoice_date, due_date, amount,
	file_path, extracted_data, status, created_at, updated_at`

type invoiceRepository struct {
	q sqlx.ExtContext
}

func (r *invoiceRepository) Create(ctx context.Context, invoice *models.Invoice) error {
	if invoice.ID == uuid.Nil {
		invoice.ID = uuid.New()
	}
	invoice.CreatedAt = now()
	invoice.UpdatedAt = invoice.CreatedAt

	query := `
		INSERT INTO invoices (` + invoiceColumns + `)
		VALUES (:id, :company_id, :customer_id, :invoice_number, :invoice_date, :due_date, :amount,
			:file_path, :extracted_data, :status, :created_at, :updated_at)`

	if _, err := sqlx.NamedExecContext(ctx, r.q, query, invoice); err != nil {
		return fmt.Errorf("failed to create invoice: %w", err)
	}
	return nil
}

func (r *invoiceRepository) GetByID(ctx context.Context, scope models.TenantScope, id uuid.UUID) (*models.Invoice, error) {
	return r.get(ctx, scope, id, "")
}

func (r *invoiceRepository) GetByIDForUpdate(ctx context.Context, scope models.TenantScope, id uuid.UUID) (*models.Invoice, error) {
	return r.get(ctx, scope, id, " FOR UPDATE")
}

func (r *invoiceRepository) get(ctx context.Context, scope models.TenantScope, id uuid.UUID, suffix string) (*models.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1`
	args := []any{id}
	if !scope.Unscoped() {
		query += ` AND company_id = $2`
		args = append(args, scope.CompanyID)
	}
	query += suffix

	var invoice models.Invoice
	if err := sqlx.GetContext(ctx, r.q, &invoice, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, missReason(ctx, r.q, "invoices", id)
		}
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}
	return &invoice, nil
}

func (r *invoiceRepository) UpdateGuarded(ctx context.Context, invoice *models.Invoice, expected models.InvoiceStatus) error {
	invoice.UpdatedAt = now()

	query := `
		UPDATE invoices SET
			customer_id = $1,
			invoice_number = $2,
			invoice_date = $3,
			due_date = $4,
			amount = $5,
			extracted_data = $6,
			status = $7,
			updated_at = $8
		WHERE id = $9 AND company_id = $10 AND status = $11`

	err := utils.ExecWithCheck(ctx, r.q, query, utils.ExecUpdate,
		invoice.CustomerID,
		invoice.InvoiceNumber,
		invoice.InvoiceDate,
		invoice.DueDate,
		invoice.Amount,
		invoice.ExtractedData,
		invoice.Status,
		invoice.UpdatedAt,
		invoice.ID,
		invoice.CompanyID,
		expected,
	)
	if errors.Is(err, utils.ErrNoRowsAffected) {
		return ErrStaleWrite
	}
	if err != nil {
		return fmt.Errorf("failed to update invoice: %w", err)
	}
	return nil
}

func (r *invoiceRepository) ListByCompany(ctx context.Context, companyID uuid.UUID, status *models.InvoiceStatus) ([]models.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE company_id = $1`
	args := []any{companyID}
	if status != nil {
		query += ` AND status = $2`
		args = append(args, *status)
	}
	query += ` ORDER BY created_at DESC`

	invoices := []models.Invoice{}
	if err := sqlx.SelectContext(ctx, r.q, &invoices, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	return invoices, nil
}

func (r *invoiceRepository) ListPendingForReminder(ctx context.Context, companyID *uuid.UUID) ([]models.InvoiceReminder, error) {
	query := `
		SELECT i.id, i.invoice_number, i.due_date, i.amount, i.company_id,
			c.customer_name, c.email AS customer_email, c.phone AS customer_phone
		FROM invoices i
		LEFT JOIN customers c ON c.id = i.customer_id AND c.company_id = i.company_id
		WHERE i.status = $1`
	args := []any{models.InvoiceStatusPending}
	if companyID != nil {
		query += ` AND i.company_id = $2`
		args = append(args, *companyID)
	}
	query += ` ORDER BY i.due_date ASC, i.id ASC`

	rows := []models.InvoiceReminder{}
	if err := sqlx.SelectContext(ctx, r.q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list invoices pending reminder: %w", err)
	}
	return rows, nil
}

func (r *invoiceRepository) SummarizeByStatus(ctx context.Context, companyID uuid.UUID) ([]models.StatusSummary, error) {
	query := `
		SELECT status, COUNT(*) AS invoice_count, COALESCE(SUM(amount), 0) AS total_amount
		FROM invoices
		WHERE company_id = $1
		GROUP BY status`

	rows := []models.StatusSummary{}
	if err := sqlx.SelectContext(ctx, r.q, &rows, query, companyID); err != nil {
		return nil, fmt.Errorf("failed to summarize invoices: %w", err)
	}
	return rows, nil
}

func (r *invoiceRepository) SummarizeOverdue(ctx context.Context, companyID uuid.UUID, today models.Date) (int, decimal.Decimal, error) {
	query := `
		SELECT COUNT(*) AS invoice_count, COALESCE(SUM(amount), 0) AS total_amount
		FROM invoices
		WHERE company_id = $1 AND status IN ($2, $3) AND due_date < $4`

	var row struct {
		Count       int             `db:"invoice_count"`
		TotalAmount decimal.Decimal `db:"total_amount"`
	}
	err := sqlx.GetContext(ctx, r.q, &row, query,
		companyID, models.InvoiceStatusPending, models.InvoiceStatusPartial, today)
	if err != nil {
		return 0, decimal.Zero, fmt.Errorf("failed to summarize overdue invoices: %w", err)
	}
	return row.Count, row.TotalAmount, nil
}
