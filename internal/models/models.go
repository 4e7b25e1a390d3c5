package models

import (
	"time"

	"invoice-service/internal/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Company is the tenant. Every customer and invoice belongs to exactly one.
type Company struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	GSTNumber    *string   `json:"gst_number,omitempty" db:"gst_number"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	IsApproved   bool      `json:"is_approved" db:"is_approved"`
	ContactEmail *string   `json:"contact_email,omitempty" db:"contact_email"`
	ContactPhone *string   `json:"contact_phone,omitempty" db:"contact_phone"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	CompanyID    uuid.UUID `json:"company_id" db:"company_id"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         Role      `json:"role" db:"role"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

type Customer struct {
	ID               uuid.UUID `json:"id" db:"id"`
	CompanyID        uuid.UUID `json:"company_id" db:"company_id"`
	CustomerName     string    `json:"customer_name" db:"customer_name"`
	CompanyName      *string   `json:"company_name,omitempty" db:"company_name"`
	Phone            *string   `json:"phone,omitempty" db:"phone"`
	Email            *string   `json:"email,omitempty" db:"email"`
	PaymentTermsDays int       `json:"payment_terms_days" db:"payment_terms_days"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`
}

// Invoice fields other than ID, CompanyID and Status stay nil while in DRAFT.
type Invoice struct {
	ID            uuid.UUID           `json:"id" db:"id"`
	CompanyID     uuid.UUID           `json:"company_id" db:"company_id"`
	CustomerID    *uuid.UUID          `json:"customer_id,omitempty" db:"customer_id"`
	InvoiceNumber *string             `json:"invoice_number,omitempty" db:"invoice_number"`
	InvoiceDate   *Date               `json:"invoice_date,omitempty" db:"invoice_date"`
	DueDate       *Date               `json:"due_date,omitempty" db:"due_date"`
	Amount        decimal.NullDecimal `json:"amount" db:"amount"`
	FilePath      *string             `json:"file_path,omitempty" db:"file_path"`
	ExtractedData utils.JSONMap       `json:"extracted_data,omitempty" db:"extracted_data"`
	Status        InvoiceStatus       `json:"status" db:"status"`
	CreatedAt     time.Time           `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at" db:"updated_at"`
}

// HasCoreFields reports whether number, both dates and amount are all present.
func (i *Invoice) HasCoreFields() bool {
	return i.InvoiceNumber != nil && i.InvoiceDate != nil && i.DueDate != nil && i.Amount.Valid
}

// Payment is an append-only ledger entry.
type Payment struct {
	ID             uuid.UUID       `json:"id" db:"id"`
	InvoiceID      uuid.UUID       `json:"invoice_id" db:"invoice_id"`
	AmountReceived decimal.Decimal `json:"amount_received" db:"amount_received"`
	PaymentDate    Date            `json:"payment_date" db:"payment_date"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
}

type ReminderLog struct {
	ID           uuid.UUID       `json:"id" db:"id"`
	InvoiceID    uuid.UUID       `json:"invoice_id" db:"invoice_id"`
	ReminderType ReminderType    `json:"reminder_type" db:"reminder_type"`
	Channel      ReminderChannel `json:"channel" db:"channel"`
	SentDate     time.Time       `json:"sent_date" db:"sent_date"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
}

// Document is an uploaded file kept for a company, optionally attached to one of its invoices.
type Document struct {
	ID               uuid.UUID    `json:"id" db:"id"`
	CompanyID        uuid.UUID    `json:"company_id" db:"company_id"`
	InvoiceID        *uuid.UUID   `json:"invoice_id,omitempty" db:"invoice_id"`
	OriginalFileName string       `json:"original_file_name" db:"original_file_name"`
	StoredFileName   string       `json:"stored_file_name" db:"stored_file_name"`
	FilePath         string       `json:"file_path" db:"file_path"`
	DocumentType     DocumentType `json:"document_type" db:"document_type"`
	MimeType         *string      `json:"mime_type,omitempty" db:"mime_type"`
	FileSize         int64        `json:"file_size" db:"file_size"`
	Description      *string      `json:"description,omitempty" db:"description"`
	CreatedAt        time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at" db:"updated_at"`
}

// Session backs one issued token so it can be revoked before it expires.
type Session struct {
	ID        string    `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	CompanyID uuid.UUID `json:"company_id"`
	Role      Role      `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}
