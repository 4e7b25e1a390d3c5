package services

import (
	"context"
	"errors"
	"strings"

	"invoice-service/internal/logger"
	"invoice-service/internal/models"
	"invoice-service/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type ConfirmationService struct {
	store repository.Store
	log   zerolog.Logger
}

func NewConfirmationService(store repository.Store) *ConfirmationService {
	return &ConfirmationService{store: store, log: logger.WithComponent("confirmation_service")}
}

// Confirm moves a DRAFT invoice to PENDING with the reviewed core fields.
// The row is locked for the whole check-and-write, so concurrent confirms of
// the same draft see exactly one winner.
func (s *ConfirmationService) Confirm(ctx context.Context, scope models.TenantScope, invoiceID uuid.UUID, req models.ConfirmInvoiceRequest) (*models.Invoice, error) {
	const op = "confirm invoice"

	number := strings.TrimSpace(req.InvoiceNumber)
	switch {
	case number == "":
		return nil, validationError(op, "invoice number is required")
	case req.InvoiceDate == nil:
		return nil, validationError(op, "invoice date is required")
	case req.DueDate == nil:
		return nil, validationError(op, "due date is required")
	case !req.Amount.IsPositive():
		return nil, validationError(op, "amount must be greater than zero")
	}

	var invoice *models.Invoice
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		var err error
		invoice, err = tx.Invoices().GetByIDForUpdate(ctx, scope, invoiceID)
		if err != nil {
			logScopeMiss(s.log, op, scope, invoiceID, err)
			return err
		}
		if invoice.Status != models.InvoiceStatusDraft {
			return newError(op, ErrInvalidState,
				"can only confirm DRAFT invoices. Current status: %s", invoice.Status)
		}

		if req.CustomerID != nil {
			// The customer must belong to the invoice's company, whoever the caller is.
			owner := models.CompanyScope(invoice.CompanyID, scope.Subject)
			if _, err := tx.Customers().GetByID(ctx, owner, *req.CustomerID); err != nil {
				logScopeMiss(s.log, op, owner, *req.CustomerID, err)
				if errors.Is(err, repository.ErrOutsideTenant) {
					return &Error{
						Op:      op,
						Kind:    ErrValidation,
						Err:     &Error{Op: op, Kind: ErrCrossTenant, Err: err},
						Details: "customer does not belong to the invoice's company",
					}
				}
				return err
			}
			invoice.CustomerID = req.CustomerID
		}

		invoice.InvoiceNumber = &number
		invoice.InvoiceDate = req.InvoiceDate
		invoice.DueDate = req.DueDate
		invoice.Amount.Decimal, invoice.Amount.Valid = req.Amount, true
		invoice.Status = models.InvoiceStatusPending
		return tx.Invoices().UpdateGuarded(ctx, invoice, models.InvoiceStatusDraft)
	})
	if err != nil {
		return nil, translate(op, err)
	}

	s.log.Info().
		Str("invoice_id", invoiceID.String()).
		Str("company_id", invoice.CompanyID.String()).
		Str("from", string(models.InvoiceStatusDraft)).
		Str("to", string(invoice.Status)).
		Msg("invoice confirmed")
	return invoice, nil
}
