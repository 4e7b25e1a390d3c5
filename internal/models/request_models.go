package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	Role      string    `json:"role"`
	CompanyID uuid.UUID `json:"company_id"`
	Username  string    `json:"username"`
	ExpiresIn int64     `json:"expires_in"`
}

type RegisterCompanyRequest struct {
	CompanyName  string  `json:"company_name" binding:"required"`
	GSTNumber    *string `json:"gst_number"`
	ContactEmail *string `json:"contact_email"`
	ContactPhone *string `json:"contact_phone"`
	Username     string  `json:"username" binding:"required"`
	Password     string  `json:"password" binding:"required,min=6"`
}

// UpdateCompanyProfileRequest replaces the editable profile fields. Approval and
// activation stay admin-only.
type UpdateCompanyProfileRequest struct {
	Name         string  `json:"name" binding:"required"`
	GSTNumber    *string `json:"gst_number"`
	ContactEmail *string `json:"contact_email"`
	ContactPhone *string `json:"contact_phone"`
}

type SetCompanyStatusRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

type CreateCustomerRequest struct {
	CustomerName     string  `json:"customer_name" binding:"required"`
	CompanyName      *string `json:"company_name"`
	Phone            *string `json:"phone"`
	Email            *string `json:"email"`
	PaymentTermsDays *int    `json:"payment_terms_days"`
}

// ManualInvoiceFields are the typed-in values of an invoice entered without a file.
type ManualInvoiceFields struct {
	InvoiceNumber string          `json:"invoice_number"`
	InvoiceDate   *Date           `json:"invoice_date"`
	DueDate       *Date           `json:"due_date"`
	Amount        decimal.Decimal `json:"amount"`
}

// CreateDraftRequest carries exactly one of FilePath or Manual.
type CreateDraftRequest struct {
	CustomerID *uuid.UUID
	FilePath   *string
	Manual     *ManualInvoiceFields
}

// CreateDocumentRequest describes a file already written to storage.
type CreateDocumentRequest struct {
	InvoiceID        *uuid.UUID
	OriginalFileName string
	FilePath         string
	MimeType         string
	FileSize         int64
	Description      *string
}

type CreateInvoiceRequest struct {
	CustomerID *uuid.UUID `json:"customer_id"`
	ManualInvoiceFields
}

type ConfirmInvoiceRequest struct {
	InvoiceNumber string          `json:"invoice_number"`
	InvoiceDate   *Date           `json:"invoice_date"`
	DueDate       *Date           `json:"due_date"`
	Amount        decimal.Decimal `json:"amount"`
	CustomerID    *uuid.UUID      `json:"customer_id"`
}

type MarkPaidRequest struct {
	AmountReceived decimal.Decimal `json:"amount_received"`
	PaymentDate    *Date           `json:"payment_date"`
}

type LogReminderRequest struct {
	InvoiceID    uuid.UUID       `json:"invoice_id" binding:"required"`
	ReminderType ReminderType    `json:"reminder_type" binding:"required"`
	Channel      ReminderChannel `json:"channel" binding:"required"`
}

type ExtractionRequest struct {
	InvoiceID uuid.UUID `json:"invoiceId"`
	FilePath  string    `json:"filePath"`
}

type ExtractedLineItem struct {
	Description string               `json:"description,omitempty"`
	Quantity    *decimal.NullDecimal `json:"quantity,omitempty"`
	UnitPrice   *decimal.NullDecimal `json:"unitPrice,omitempty"`
	Amount      *decimal.NullDecimal `json:"amount,omitempty"`
}

// ExtractedInvoiceData is what the extraction service sends back for a DRAFT invoice.
type ExtractedInvoiceData struct {
	InvoiceNumber  *string              `json:"invoiceNumber,omitempty"`
	InvoiceDate    *Date                `json:"invoiceDate,omitempty"`
	DueDate        *Date                `json:"dueDate,omitempty"`
	Amount         *decimal.NullDecimal `json:"amount,omitempty"`
	CustomerName   *string              `json:"customerName,omitempty"`
	CustomerEmail  *string              `json:"customerEmail,omitempty"`
	CustomerPhone  *string              `json:"customerPhone,omitempty"`
	LineItems      []ExtractedLineItem  `json:"lineItems,omitempty"`
	TaxAmount      *decimal.NullDecimal `json:"taxAmount,omitempty"`
	TotalAmount    *decimal.NullDecimal `json:"totalAmount,omitempty"`
	Currency       *string              `json:"currency,omitempty"`
	Notes          *string              `json:"notes,omitempty"`
	AdditionalData map[string]any       `json:"additionalData,omitempty"`
}

type InvoiceListFilter struct {
	Status *InvoiceStatus
	Search string
	Page   int
	Size   int
}

type InvoicePage struct {
	Invoices []Invoice `json:"invoices"`
	Total    int       `json:"total"`
	Page     int       `json:"page"`
	Size     int       `json:"size"`
}

type DashboardMetrics struct {
	TotalInvoices   int             `json:"total_invoices"`
	DraftInvoices   int             `json:"draft_invoices"`
	PendingInvoices int             `json:"pending_invoices"`
	PartialInvoices int             `json:"partial_invoices"`
	PaidInvoices    int             `json:"paid_invoices"`
	PendingAmount   decimal.Decimal `json:"pending_amount"`
	PaidAmount      decimal.Decimal `json:"paid_amount"`
	OverdueInvoices int             `json:"overdue_invoices"`
	OverdueAmount   decimal.Decimal `json:"overdue_amount"`
}

// StatusSummary is one GROUP BY status row.
type StatusSummary struct {
	Status      InvoiceStatus   `db:"status"`
	Count       int             `db:"invoice_count"`
	TotalAmount decimal.Decimal `db:"total_amount"`
}

// PaymentReceipt is the outcome of recording one payment.
type PaymentReceipt struct {
	Invoice       *Invoice        `json:"invoice"`
	Payment       *Payment        `json:"payment"`
	TotalReceived decimal.Decimal `json:"total_received"`
}
