package services

import (
	"context"
	"path"
	"strings"
	"unicode/utf8"

	"invoice-service/internal/logger"
	"invoice-service/internal/models"
	"invoice-service/internal/repository"
	"invoice-service/internal/utils"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const maxDocumentDescription = 500

// DocumentService records uploaded files against a company and, optionally, one of
// its invoices.
type DocumentService struct {
	store repository.Store
	log   zerolog.Logger
}

func NewDocumentService(store repository.Store) *DocumentService {
	return &DocumentService{store: store, log: logger.WithComponent("document_service")}
}

// CheckTarget verifies the caller may attach a document to invoiceID before the
// file is written anywhere.
func (s *DocumentService) CheckTarget(ctx context.Context, scope models.TenantScope, invoiceID *uuid.UUID) error {
	const op = "upload document"
	companyID, err := requireTenantAccount(op, scope)
	if err != nil {
		return err
	}
	return translate(op, s.checkTarget(ctx, s.store, op, scope, companyID, invoiceID))
}

func (s *DocumentService) checkTarget(ctx context.Context, st repository.Store, op string, scope models.TenantScope, companyID uuid.UUID, invoiceID *uuid.UUID) error {
	if _, err := st.Companies().GetByID(ctx, companyID); err != nil {
		return err
	}
	if invoiceID == nil {
		return nil
	}
	if _, err := st.Invoices().GetByID(ctx, models.CompanyScope(companyID, scope.Subject), *invoiceID); err != nil {
		logScopeMiss(s.log, op, scope, *invoiceID, err)
		return err
	}
	return nil
}

func (s *DocumentService) Create(ctx context.Context, scope models.TenantScope, req models.CreateDocumentRequest) (*models.Document, error) {
	const op = "upload document"
	companyID, err := requireTenantAccount(op, scope)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.OriginalFileName)
	if name == "" {
		return nil, validationError(op, "original file name is required")
	}
	filePath := strings.TrimSpace(req.FilePath)
	if filePath == "" {
		return nil, validationError(op, "file path is required")
	}
	if req.FileSize <= 0 {
		return nil, validationError(op, "file must not be empty")
	}
	description := utils.TrimmedOrNil(req.Description)
	if description != nil && utf8.RuneCountInString(*description) > maxDocumentDescription {
		return nil, validationError(op, "description must be at most %d characters", maxDocumentDescription)
	}

	doc := &models.Document{
		CompanyID:        companyID,
		InvoiceID:        req.InvoiceID,
		OriginalFileName: name,
		StoredFileName:   path.Base(filePath),
		FilePath:         filePath,
		DocumentType:     models.DocumentTypeFor(req.MimeType),
		MimeType:         utils.TrimmedOrNil(&req.MimeType),
		FileSize:         req.FileSize,
		Description:      description,
	}

	err = s.store.WithinTx(ctx, func(tx repository.Store) error {
		if err := s.checkTarget(ctx, tx, op, scope, companyID, req.InvoiceID); err != nil {
			return err
		}
		return tx.Documents().Create(ctx, doc)
	})
	if err != nil {
		return nil, translate(op, err)
	}

	ev := s.log.Info().
		Str("document_id", doc.ID.String()).
		Str("company_id", companyID.String()).
		Str("document_type", string(doc.DocumentType))
	if doc.InvoiceID != nil {
		ev = ev.Str("invoice_id", doc.InvoiceID.String())
	}
	ev.Msg("document stored")
	return doc, nil
}

func (s *DocumentService) Get(ctx context.Context, scope models.TenantScope, id uuid.UUID) (*models.Document, error) {
	const op = "get document"
	doc, err := s.store.Documents().GetByID(ctx, scope, id)
	if err != nil {
		logScopeMiss(s.log, op, scope, id, err)
		return nil, translate(op, err)
	}
	return doc, nil
}

// List returns the caller's documents, narrowed to one invoice when invoiceID is set.
func (s *DocumentService) List(ctx context.Context, scope models.TenantScope, invoiceID *uuid.UUID) ([]models.Document, error) {
	const op = "list documents"
	companyID, err := requireCompany(op, scope)
	if err != nil {
		return nil, err
	}
	docs, err := s.store.Documents().ListByCompany(ctx, companyID, invoiceID)
	return docs, translate(op, err)
}
