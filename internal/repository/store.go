package repository

import (
	"context"
	"errors"
	"time"

	"invoice-service/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrOutsideTenant = errors.New("record belongs to another company")
	ErrStaleWrite    = errors.New("record changed since it was read")
	ErrDuplicate     = errors.New("duplicate record")
)

type CompanyRepository interface {
	Create(ctx context.Context, company *models.Company) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Company, error)
	GetByGSTNumber(ctx context.Context, gstNumber string) (*models.Company, error)
	List(ctx context.Context, approved *bool) ([]models.Company, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, approved, active bool) error
	// UpdateProfile writes name, GST number and contact fields.
	UpdateProfile(ctx context.Context, company *models.Company) error
}

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

type CustomerRepository interface {
	Create(ctx context.Context, customer *models.Customer) error
	// GetByID returns ErrOutsideTenant when the customer exists under another company.
	GetByID(ctx context.Context, scope models.TenantScope, id uuid.UUID) (*models.Customer, error)
	ListByCompany(ctx context.Context, companyID uuid.UUID) ([]models.Customer, error)
}

type InvoiceRepository interface {
	Create(ctx context.Context, invoice *models.Invoice) error
	// GetByID returns ErrOutsideTenant when the invoice exists under another company.
	GetByID(ctx context.Context, scope models.TenantScope, id uuid.UUID) (*models.Invoice, error)
	// GetByIDForUpdate also locks the row until the surrounding transaction ends.
	GetByIDForUpdate(ctx context.Context, scope models.TenantScope, id uuid.UUID) (*models.Invoice, error)
	// UpdateGuarded writes every mutable field only if the stored status is still expected.
	UpdateGuarded(ctx context.Context, invoice *models.Invoice, expected models.InvoiceStatus) error
	ListByCompany(ctx context.Context, companyID uuid.UUID, status *models.InvoiceStatus) ([]models.Invoice, error)
	// ListPendingForReminder is unscoped. companyID narrows it when not nil.
	ListPendingForReminder(ctx context.Context, companyID *uuid.UUID) ([]models.InvoiceReminder, error)
	SummarizeByStatus(ctx context.Context, companyID uuid.UUID) ([]models.StatusSummary, error)
	SummarizeOverdue(ctx context.Context, companyID uuid.UUID, today models.Date) (int, decimal.Decimal, error)
}

type PaymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) error
	ListByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]models.Payment, error)
	ListByCompany(ctx context.Context, companyID uuid.UUID) ([]models.Payment, error)
	SumByInvoice(ctx context.Context, invoiceID uuid.UUID) (decimal.Decimal, error)
}

type DocumentRepository interface {
	Create(ctx context.Context, doc *models.Document) error
	// GetByID returns ErrOutsideTenant when the document exists under another company.
	GetByID(ctx context.Context, scope models.TenantScope, id uuid.UUID) (*models.Document, error)
	// ListByCompany narrows to one invoice when invoiceID is not nil.
	ListByCompany(ctx context.Context, companyID uuid.UUID, invoiceID *uuid.UUID) ([]models.Document, error)
}

type ReminderLogRepository interface {
	Create(ctx context.Context, log *models.ReminderLog) error
	ListByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]models.ReminderLog, error)
}

// Store groups the repositories over one backend. Repositories obtained from the
// Store passed to a WithinTx callback share that transaction.
type Store interface {
	Companies() CompanyRepository
	Users() UserRepository
	Customers() CustomerRepository
	Invoices() InvoiceRepository
	Payments() PaymentRepository
	ReminderLogs() ReminderLogRepository
	Documents() DocumentRepository
	WithinTx(ctx context.Context, fn func(tx Store) error) error
}

func now() time.Time {
	return time.Now().UTC()
}
