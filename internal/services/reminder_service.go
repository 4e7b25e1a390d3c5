package services

import (
	"context"
	"time"

	"invoice-service/internal/logger"
	"invoice-service/internal/models"
	"invoice-service/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type ReminderService struct {
	store repository.Store
	log   zerolog.Logger
	clock func() models.Date
}

func NewReminderService(store repository.Store) *ReminderService {
	return &ReminderService{
		store: store,
		log:   logger.WithComponent("reminder_service"),
		clock: today,
	}
}

// PendingForReminder lists PENDING invoices across every company, soonest due
// first. Platform callers only.
func (s *ReminderService) PendingForReminder(ctx context.Context, scope models.TenantScope) ([]models.InvoiceReminder, error) {
	const op = "pending invoices for reminder"
	if err := requireAdmin(op, scope); err != nil {
		return nil, err
	}
	rows, err := s.store.Invoices().ListPendingForReminder(ctx, nil)
	if err != nil {
		return nil, translate(op, err)
	}
	return s.annotate(rows), nil
}

func (s *ReminderService) PendingForReminderByCompany(ctx context.Context, scope models.TenantScope) ([]models.InvoiceReminder, error) {
	const op = "company pending invoices for reminder"
	companyID, err := requireCompany(op, scope)
	if err != nil {
		return nil, err
	}
	rows, err := s.store.Invoices().ListPendingForReminder(ctx, &companyID)
	if err != nil {
		return nil, translate(op, err)
	}
	return s.annotate(rows), nil
}

func (s *ReminderService) annotate(rows []models.InvoiceReminder) []models.InvoiceReminder {
	now := s.clock()
	for i := range rows {
		if rows[i].DueDate == nil {
			continue
		}
		days := rows[i].DueDate.DaysUntil(now)
		rows[i].DaysFromDue = &days
		if kind, ok := models.ReminderTypeFor(*rows[i].DueDate, now); ok {
			rows[i].SuggestedReminder = &kind
		}
	}
	return rows
}

// LogReminder records that a reminder went out for an invoice visible to the caller.
func (s *ReminderService) LogReminder(ctx context.Context, scope models.TenantScope, req models.LogReminderRequest) (*models.ReminderLog, error) {
	const op = "log reminder"
	if !req.ReminderType.IsValid() {
		return nil, validationError(op, "unknown reminder type %q", req.ReminderType)
	}
	if !req.Channel.IsValid() {
		return nil, validationError(op, "unknown reminder channel %q", req.Channel)
	}
	if _, err := s.store.Invoices().GetByID(ctx, scope, req.InvoiceID); err != nil {
		logScopeMiss(s.log, op, scope, req.InvoiceID, err)
		return nil, translate(op, err)
	}

	entry := &models.ReminderLog{
		InvoiceID:    req.InvoiceID,
		ReminderType: req.ReminderType,
		Channel:      req.Channel,
		SentDate:     time.Now().UTC(),
	}
	if err := s.store.ReminderLogs().Create(ctx, entry); err != nil {
		return nil, translate(op, err)
	}

	s.log.Info().
		Str("invoice_id", req.InvoiceID.String()).
		Str("reminder_type", string(req.ReminderType)).
		Str("channel", string(req.Channel)).
		Msg("reminder logged")
	return entry, nil
}

func (s *ReminderService) ListLogs(ctx context.Context, scope models.TenantScope, invoiceID uuid.UUID) ([]models.ReminderLog, error) {
	const op = "list reminder logs"
	if _, err := s.store.Invoices().GetByID(ctx, scope, invoiceID); err != nil {
		logScopeMiss(s.log, op, scope, invoiceID, err)
		return nil, translate(op, err)
	}
	logs, err := s.store.ReminderLogs().ListByInvoice(ctx, invoiceID)
	return logs, translate(op, err)
}
