package services

import (
	"context"
	"fmt"
	"time"

	"invoice-service/internal/logger"
	"invoice-service/internal/models"
	"invoice-service/internal/repository"
	"invoice-service/internal/utils"
	"invoice-service/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ExtractionDispatcher delivers an extraction request to the external extractor.
type ExtractionDispatcher interface {
	Dispatch(ctx context.Context, req models.ExtractionRequest) error
}

type JobSubmitter interface {
	TrySubmit(job worker.Job) error
}

type ExtractionService struct {
	store      repository.Store
	dispatcher ExtractionDispatcher
	jobs       JobSubmitter
	timeout    time.Duration
	log        zerolog.Logger
}

// NewExtractionService wires intake. A nil dispatcher disables triggering.
func NewExtractionService(store repository.Store, dispatcher ExtractionDispatcher, jobs JobSubmitter, timeout time.Duration) *ExtractionService {
	return &ExtractionService{
		store:      store,
		dispatcher: dispatcher,
		jobs:       jobs,
		timeout:    timeout,
		log:        logger.WithComponent("extraction_service"),
	}
}

// Trigger queues the dispatch and returns at once. A full queue or a failed
// dispatch is logged and never reaches the caller.
func (s *ExtractionService) Trigger(invoiceID uuid.UUID, filePath string) {
	if s.dispatcher == nil || s.jobs == nil {
		s.log.Debug().Str("invoice_id", invoiceID.String()).Msg("extraction disabled, skipping trigger")
		return
	}

	req := models.ExtractionRequest{InvoiceID: invoiceID, FilePath: filePath}
	job := func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()
		if err := s.dispatcher.Dispatch(ctx, req); err != nil {
			return fmt.Errorf("extraction dispatch for invoice %s: %w", invoiceID, err)
		}
		s.log.Info().Str("invoice_id", invoiceID.String()).Msg("extraction requested")
		return nil
	}

	if err := s.jobs.TrySubmit(job); err != nil {
		s.log.Warn().Err(err).Str("invoice_id", invoiceID.String()).Msg("extraction trigger dropped")
	}
}

// StoreExtracted replaces the extracted data of a DRAFT invoice. Status is left as is.
func (s *ExtractionService) StoreExtracted(ctx context.Context, scope models.TenantScope, invoiceID uuid.UUID, data models.ExtractedInvoiceData) (*models.Invoice, error) {
	const op = "store extracted data"

	blob, err := utils.ToJSONMap(data)
	if err != nil {
		return nil, &Error{Op: op, Kind: ErrValidation, Err: err}
	}

	var invoice *models.Invoice
	err = s.store.WithinTx(ctx, func(tx repository.Store) error {
		var err error
		invoice, err = tx.Invoices().GetByIDForUpdate(ctx, scope, invoiceID)
		if err != nil {
			logScopeMiss(s.log, op, scope, invoiceID, err)
			return err
		}
		if invoice.Status != models.InvoiceStatusDraft {
			return newError(op, ErrInvalidState,
				"can only store extracted data for DRAFT invoices. Current status: %s", invoice.Status)
		}
		invoice.ExtractedData = blob
		return tx.Invoices().UpdateGuarded(ctx, invoice, models.InvoiceStatusDraft)
	})
	if err != nil {
		return nil, translate(op, err)
	}

	s.log.Info().
		Str("invoice_id", invoiceID.String()).
		Str("company_id", invoice.CompanyID.String()).
		Int("fields", len(blob)).
		Msg("extracted data stored")
	return invoice, nil
}
