package services

import (
	"context"
	"strings"

	"invoice-service/internal/logger"
	"invoice-service/internal/models"
	"invoice-service/internal/repository"
	"invoice-service/internal/utils"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// ExtractionTrigger hands a stored file to the extractor without waiting for it.
type ExtractionTrigger interface {
	Trigger(invoiceID uuid.UUID, filePath string)
}

type InvoiceService struct {
	store      repository.Store
	extraction ExtractionTrigger
	log        zerolog.Logger
}

func NewInvoiceService(store repository.Store, extraction ExtractionTrigger) *InvoiceService {
	return &InvoiceService{
		store:      store,
		extraction: extraction,
		log:        logger.WithComponent("invoice_service"),
	}
}

// CreateDraft stores a new DRAFT invoice from either an uploaded file or typed-in fields.
// File drafts are queued for extraction only after the insert commits.
func (s *InvoiceService) CreateDraft(ctx context.Context, scope models.TenantScope, req models.CreateDraftRequest) (*models.Invoice, error) {
	const op = "create draft invoice"
	companyID, err := requireTenantAccount(op, scope)
	if err != nil {
		return nil, err
	}

	filePath := utils.TrimmedOrNil(req.FilePath)
	if (filePath == nil) == (req.Manual == nil) {
		return nil, validationError(op, "exactly one of file path or manual invoice fields is required")
	}

	invoice := &models.Invoice{
		CompanyID:  companyID,
		CustomerID: req.CustomerID,
		FilePath:   filePath,
		Status:     models.InvoiceStatusDraft,
	}
	if req.Manual != nil {
		if err := validateManualFields(op, req.Manual); err != nil {
			return nil, err
		}
		number := strings.TrimSpace(req.Manual.InvoiceNumber)
		invoice.InvoiceNumber = &number
		invoice.InvoiceDate = req.Manual.InvoiceDate
		invoice.DueDate = req.Manual.DueDate
		invoice.Amount.Decimal, invoice.Amount.Valid = req.Manual.Amount, true
	}

	err = s.store.WithinTx(ctx, func(tx repository.Store) error {
		if err := s.checkDraftTarget(ctx, tx, op, scope, companyID, req.CustomerID); err != nil {
			return err
		}
		return tx.Invoices().Create(ctx, invoice)
	})
	if err != nil {
		return nil, translate(op, err)
	}

	s.log.Info().
		Str("invoice_id", invoice.ID.String()).
		Str("company_id", companyID.String()).
		Bool("has_file", filePath != nil).
		Msg("draft invoice created")

	if filePath != nil && s.extraction != nil {
		s.extraction.Trigger(invoice.ID, *filePath)
	}
	return invoice, nil
}

// ValidateDraftTarget runs the ownership checks of CreateDraft without writing, so
// an upload can be refused before its file is stored.
func (s *InvoiceService) ValidateDraftTarget(ctx context.Context, scope models.TenantScope, customerID *uuid.UUID) error {
	const op = "create draft invoice"
	companyID, err := requireTenantAccount(op, scope)
	if err != nil {
		return err
	}
	return translate(op, s.checkDraftTarget(ctx, s.store, op, scope, companyID, customerID))
}

func (s *InvoiceService) checkDraftTarget(ctx context.Context, st repository.Store, op string, scope models.TenantScope, companyID uuid.UUID, customerID *uuid.UUID) error {
	if _, err := st.Companies().GetByID(ctx, companyID); err != nil {
		return err
	}
	if customerID == nil {
		return nil
	}
	if _, err := st.Customers().GetByID(ctx, models.CompanyScope(companyID, scope.Subject), *customerID); err != nil {
		logScopeMiss(s.log, op, scope, *customerID, err)
		return err
	}
	return nil
}

func validateManualFields(op string, m *models.ManualInvoiceFields) error {
	if strings.TrimSpace(m.InvoiceNumber) == "" {
		return validationError(op, "invoice number is required")
	}
	if m.InvoiceDate == nil {
		return validationError(op, "invoice date is required")
	}
	if !m.Amount.IsPositive() {
		return validationError(op, "amount must be greater than zero")
	}
	return nil
}

func (s *InvoiceService) Get(ctx context.Context, scope models.TenantScope, id uuid.UUID) (*models.Invoice, error) {
	const op = "get invoice"
	invoice, err := s.store.Invoices().GetByID(ctx, scope, id)
	if err != nil {
		logScopeMiss(s.log, op, scope, id, err)
		return nil, translate(op, err)
	}
	return invoice, nil
}

// List pages through the caller's invoices, newest first. Page numbers start at 0.
func (s *InvoiceService) List(ctx context.Context, scope models.TenantScope, filter models.InvoiceListFilter) (*models.InvoicePage, error) {
	const op = "list invoices"
	companyID, err := requireCompany(op, scope)
	if err != nil {
		return nil, err
	}

	size := filter.Size
	if size <= 0 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	page := max(filter.Page, 0)

	invoices, err := s.store.Invoices().ListByCompany(ctx, companyID, filter.Status)
	if err != nil {
		return nil, translate(op, err)
	}

	if search := strings.ToLower(strings.TrimSpace(filter.Search)); search != "" {
		customers, err := s.store.Customers().ListByCompany(ctx, companyID)
		if err != nil {
			return nil, translate(op, err)
		}
		names := make(map[uuid.UUID]string, len(customers))
		for _, c := range customers {
			names[c.ID] = strings.ToLower(c.CustomerName)
		}

		matched := invoices[:0]
		for _, inv := range invoices {
			if inv.InvoiceNumber != nil && strings.Contains(strings.ToLower(*inv.InvoiceNumber), search) {
				matched = append(matched, inv)
				continue
			}
			if inv.CustomerID != nil && strings.Contains(names[*inv.CustomerID], search) {
				matched = append(matched, inv)
			}
		}
		invoices = matched
	}

	total := len(invoices)
	start := min(page*size, total)
	end := min(start+size, total)
	return &models.InvoicePage{
		Invoices: invoices[start:end],
		Total:    total,
		Page:     page,
		Size:     size,
	}, nil
}

func (s *InvoiceService) ListDrafts(ctx context.Context, scope models.TenantScope) ([]models.Invoice, error) {
	const op = "list draft invoices"
	companyID, err := requireCompany(op, scope)
	if err != nil {
		return nil, err
	}
	draft := models.InvoiceStatusDraft
	invoices, err := s.store.Invoices().ListByCompany(ctx, companyID, &draft)
	return invoices, translate(op, err)
}
