package models

import (
	"fmt"
	"strings"
)

type InvoiceStatus string

const (
	InvoiceStatusDraft   InvoiceStatus = "DRAFT"
	InvoiceStatusPending InvoiceStatus = "PENDING"
	InvoiceStatusPartial InvoiceStatus = "PARTIAL"
	InvoiceStatusPaid    InvoiceStatus = "PAID"
)

func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusPending, InvoiceStatusPartial, InvoiceStatusPaid:
		return true
	}
	return false
}

// IsConfirmed reports whether the invoice has left DRAFT, which implies its core fields are set.
func (s InvoiceStatus) IsConfirmed() bool {
	return s == InvoiceStatusPending || s == InvoiceStatusPartial || s == InvoiceStatusPaid
}

// ParseInvoiceStatus accepts any letter case.
func ParseInvoiceStatus(s string) (InvoiceStatus, error) {
	status := InvoiceStatus(strings.ToUpper(strings.TrimSpace(s)))
	if !status.IsValid() {
		return "", fmt.Errorf("invalid invoice status: %q", s)
	}
	return status, nil
}

type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleAccount Role = "ACCOUNT"
)

// companyTokenRole is the name ACCOUNT users carry inside issued tokens.
const companyTokenRole = "COMPANY"

// TokenName is the role name written into issued tokens.
func (r Role) TokenName() string {
	if r == RoleAccount {
		return companyTokenRole
	}
	return string(r)
}

// RoleFromTokenName maps a token role name back to a Role.
func RoleFromTokenName(name string) (Role, error) {
	switch strings.ToUpper(name) {
	case string(RoleAdmin):
		return RoleAdmin, nil
	case companyTokenRole, string(RoleAccount):
		return RoleAccount, nil
	}
	return "", fmt.Errorf("unknown role: %q", name)
}

type ReminderType string

const (
	ReminderGentle     ReminderType = "GENTLE"
	ReminderDue        ReminderType = "DUE"
	ReminderFirm       ReminderType = "FIRM"
	ReminderEscalation ReminderType = "ESCALATION"
)

func (t ReminderType) IsValid() bool {
	switch t {
	case ReminderGentle, ReminderDue, ReminderFirm, ReminderEscalation:
		return true
	}
	return false
}

type ReminderChannel string

const (
	ChannelEmail    ReminderChannel = "EMAIL"
	ChannelWhatsApp ReminderChannel = "WHATSAPP"
)

func (c ReminderChannel) IsValid() bool {
	return c == ChannelEmail || c == ChannelWhatsApp
}

// DocumentType is the coarse family of an uploaded file.
type DocumentType string

const (
	DocumentPDF   DocumentType = "PDF"
	DocumentImage DocumentType = "IMAGE"
	DocumentDoc   DocumentType = "DOC"
	DocumentExcel DocumentType = "EXCEL"
	DocumentOther DocumentType = "OTHER"
)

// DocumentTypeFor classifies a detected MIME type.
func DocumentTypeFor(mimeType string) DocumentType {
	switch {
	case mimeType == "application/pdf":
		return DocumentPDF
	case strings.HasPrefix(mimeType, "image/"):
		return DocumentImage
	case mimeType == "application/msword",
		mimeType == "application/vnd.openxmlformats-officedocument.wordprocessingml.document":
		return DocumentDoc
	case mimeType == "application/vnd.ms-excel",
		mimeType == "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":
		return DocumentExcel
	}
	return DocumentOther
}
