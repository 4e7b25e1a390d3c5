package repository

import (
	"context"
	"fmt"

	"invoice-service/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type reminderLogRepository struct {
	q sqlx.ExtContext
}

func (r *reminderLogRepository) Create(ctx context.Context, log *models.ReminderLog) error {
	if log.ID == uuid.Nil {
		log.ID = uuid.New()
	}
	log.CreatedAt = now()

	query := `
		INSERT INTO reminder_logs (id, invoice_id, reminder_type, channel, sent_date, created_at)
		VALUES (:id, :invoice_id, :reminder_type, :channel, :sent_date, :created_at)`

	if _, err := sqlx.NamedExecContext(ctx, r.q, query, log); err != nil {
		return fmt.Errorf("failed to create reminder log: %w", err)
	}
	return nil
}

func (r *reminderLogRepository) ListByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]models.ReminderLog, error) {
	query := `
		SELECT id, invoice_id, reminder_type, channel, sent_date, created_at
		FROM reminder_logs WHERE invoice_id = $1 ORDER BY sent_date DESC`

	logs := []models.ReminderLog{}
	if err := sqlx.SelectContext(ctx, r.q, &logs, query, invoiceID); err != nil {
		return nil, fmt.Errorf("failed to list reminder logs: %w", err)
	}
	return logs, nil
}
