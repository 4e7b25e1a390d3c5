package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceReminder is one row of the reminder eligibility projection.
type InvoiceReminder struct {
	InvoiceID         uuid.UUID           `json:"id" db:"id"`
	InvoiceNumber     *string             `json:"invoice_number" db:"invoice_number"`
	DueDate           *Date               `json:"due_date" db:"due_date"`
	Amount            decimal.NullDecimal `json:"amount" db:"amount"`
	CompanyID         uuid.UUID           `json:"company_id" db:"company_id"`
	CustomerName      *string             `json:"customer_name" db:"customer_name"`
	CustomerEmail     *string             `json:"customer_email" db:"customer_email"`
	CustomerPhone     *string             `json:"customer_phone" db:"customer_phone"`
	DaysFromDue       *int                `json:"days_from_due,omitempty" db:"-"`
	SuggestedReminder *ReminderType       `json:"suggested_reminder,omitempty" db:"-"`
}

// Offsets in days relative to the due date at which each reminder goes out.
const (
	GentleOffsetDays     = -5
	DueOffsetDays        = 0
	FirmOffsetDays       = 7
	EscalationOffsetDays = 15
)

// ReminderTypeFor returns the reminder due today for an invoice, if any.
func ReminderTypeFor(due, today Date) (ReminderType, bool) {
	switch due.DaysUntil(today) {
	case GentleOffsetDays:
		return ReminderGentle, true
	case DueOffsetDays:
		return ReminderDue, true
	case FirmOffsetDays:
		return ReminderFirm, true
	case EscalationOffsetDays:
		return ReminderEscalation, true
	}
	return "", false
}
