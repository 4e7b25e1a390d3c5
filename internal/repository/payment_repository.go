package repository

import (
	"context"
	"fmt"

	"invoice-service/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

const paymentColumns = `id, invoice_id, amount_received, payment_date, created_at`

type paymentRepository struct {
	q sqlx.ExtContext
}

func (r *paymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	payment.CreatedAt = now()

	query := `
		INSERT INTO payments (` + paymentColumns + `)
		VALUES (:id, :invoice_id, :amount_received, :payment_date, :created_at)`

	if _, err := sqlx.NamedExecContext(ctx, r.q, query, payment); err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}
	return nil
}

func (r *paymentRepository) ListByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]models.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE invoice_id = $1 ORDER BY payment_date ASC, created_at ASC`

	payments := []models.Payment{}
	if err := sqlx.SelectContext(ctx, r.q, &payments, query, invoiceID); err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return payments, nil
}

func (r *paymentRepository) ListByCompany(ctx context.Context, companyID uuid.UUID) ([]models.Payment, error) {
	query := `
		SELECT p.id, p.invoice_id, p.amount_received, p.payment_date, p.created_at
		FROM payments p
		JOIN invoices i ON i.id = p.invoice_id
		WHERE i.company_id = $1
		ORDER BY p.payment_date DESC, p.created_at DESC`

	payments := []models.Payment{}
	if err := sqlx.SelectContext(ctx, r.q, &payments, query, companyID); err != nil {
		return nil, fmt.Errorf("failed to list company payments: %w", err)
	}
	return payments, nil
}

func (r *paymentRepository) SumByInvoice(ctx context.Context, invoiceID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.Decimal
	query := `SELECT COALESCE(SUM(amount_received), 0) FROM payments WHERE invoice_id = $1`
	if err := sqlx.GetContext(ctx, r.q, &total, query, invoiceID); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum payments: %w", err)
	}
	return total, nil
}
