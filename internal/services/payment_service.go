package services

import (
	"context"
	"fmt"

	"invoice-service/internal/logger"
	"invoice-service/internal/models"
	"invoice-service/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// SettlementMode decides how a recorded payment moves the invoice status.
type SettlementMode string

const (
	// SettlementFull marks the invoice PAID on any positive payment.
	SettlementFull SettlementMode = "full"
	// SettlementReconcile compares the running total against the invoice amount.
	SettlementReconcile SettlementMode = "reconcile"
)

func ParseSettlementMode(s string) (SettlementMode, error) {
	switch SettlementMode(s) {
	case SettlementFull, SettlementReconcile:
		return SettlementMode(s), nil
	case "":
		return SettlementFull, nil
	}
	return "", fmt.Errorf("unknown settlement mode %q", s)
}

// ReconcileStatus returns the status an invoice of amount takes once total has been received.
func ReconcileStatus(current models.InvoiceStatus, amount decimal.NullDecimal, total decimal.Decimal) models.InvoiceStatus {
	if !amount.Valid {
		return current
	}
	switch {
	case total.GreaterThanOrEqual(amount.Decimal):
		return models.InvoiceStatusPaid
	case total.IsPositive():
		return models.InvoiceStatusPartial
	}
	return current
}

type PaymentService struct {
	store repository.Store
	mode  SettlementMode
	log   zerolog.Logger
}

func NewPaymentService(store repository.Store, mode SettlementMode) *PaymentService {
	if mode == "" {
		mode = SettlementFull
	}
	return &PaymentService{store: store, mode: mode, log: logger.WithComponent("payment_service")}
}

func (s *PaymentService) Mode() SettlementMode { return s.mode }

// MarkPaid appends a payment and settles the invoice under the configured mode.
func (s *PaymentService) MarkPaid(ctx context.Context, scope models.TenantScope, invoiceID uuid.UUID, req models.MarkPaidRequest) (*models.PaymentReceipt, error) {
	const op = "mark invoice paid"
	if !req.AmountReceived.IsPositive() {
		return nil, validationError(op, "amount received must be greater than zero")
	}
	if req.PaymentDate == nil {
		return nil, validationError(op, "payment date is required")
	}

	receipt := &models.PaymentReceipt{}
	var previous models.InvoiceStatus
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		invoice, err := tx.Invoices().GetByIDForUpdate(ctx, scope, invoiceID)
		if err != nil {
			logScopeMiss(s.log, op, scope, invoiceID, err)
			return err
		}
		previous = invoice.Status
		if err := s.checkPayable(op, invoice); err != nil {
			return err
		}

		payment := &models.Payment{
			InvoiceID:      invoice.ID,
			AmountReceived: req.AmountReceived,
			PaymentDate:    *req.PaymentDate,
		}
		if err := tx.Payments().Create(ctx, payment); err != nil {
			return err
		}
		total, err := tx.Payments().SumByInvoice(ctx, invoice.ID)
		if err != nil {
			return err
		}

		next := models.InvoiceStatusPaid
		if s.mode == SettlementReconcile {
			next = ReconcileStatus(previous, invoice.Amount, total)
		}
		if next != previous {
			invoice.Status = next
			if err := tx.Invoices().UpdateGuarded(ctx, invoice, previous); err != nil {
				return err
			}
		}

		receipt.Invoice, receipt.Payment, receipt.TotalReceived = invoice, payment, total
		return nil
	})
	if err != nil {
		return nil, translate(op, err)
	}

	s.log.Info().
		Str("invoice_id", invoiceID.String()).
		Str("amount", req.AmountReceived.String()).
		Str("total_received", receipt.TotalReceived.String()).
		Str("from", string(previous)).
		Str("to", string(receipt.Invoice.Status)).
		Str("mode", string(s.mode)).
		Msg("payment recorded")
	return receipt, nil
}

func (s *PaymentService) checkPayable(op string, invoice *models.Invoice) error {
	if s.mode == SettlementReconcile {
		if invoice.Status != models.InvoiceStatusPending && invoice.Status != models.InvoiceStatusPartial {
			return newError(op, ErrInvalidState,
				"can only record payments for PENDING or PARTIAL invoices. Current status: %s", invoice.Status)
		}
		return nil
	}
	// A confirmed-status row must carry core fields, so a bare draft cannot jump to PAID.
	if invoice.Status == models.InvoiceStatusDraft && !invoice.HasCoreFields() {
		return newError(op, ErrInvalidState,
			"cannot record payment for a DRAFT invoice without number, dates and amount. Current status: %s", invoice.Status)
	}
	return nil
}

func (s *PaymentService) ListPayments(ctx context.Context, scope models.TenantScope, invoiceID uuid.UUID) ([]models.Payment, error) {
	const op = "list invoice payments"
	if _, err := s.store.Invoices().GetByID(ctx, scope, invoiceID); err != nil {
		logScopeMiss(s.log, op, scope, invoiceID, err)
		return nil, translate(op, err)
	}
	payments, err := s.store.Payments().ListByInvoice(ctx, invoiceID)
	return payments, translate(op, err)
}

func (s *PaymentService) ListCompanyPayments(ctx context.Context, scope models.TenantScope) ([]models.Payment, error) {
	const op = "list company payments"
	companyID, err := requireCompany(op, scope)
	if err != nil {
		return nil, err
	}
	payments, err := s.store.Payments().ListByCompany(ctx, companyID)
	return payments, translate(op, err)
}
