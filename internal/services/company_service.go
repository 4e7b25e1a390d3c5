package services

import (
	"context"
	"errors"
	"strings"

	"invoice-service/internal/logger"
	"invoice-service/internal/models"
	"invoice-service/internal/repository"
	"invoice-service/internal/utils"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

type CompanyService struct {
	store repository.Store
	log   zerolog.Logger
	clock func() models.Date
}

func NewCompanyService(store repository.Store) *CompanyService {
	return &CompanyService{
		store: store,
		log:   logger.WithComponent("company_service"),
		clock: today,
	}
}

func requireAdmin(op string, scope models.TenantScope) error {
	if scope.Role != models.RoleAdmin {
		return newError(op, ErrForbidden, "admin role required")
	}
	return nil
}

// requireCompany returns the company a tenant-bound write lands in.
func requireCompany(op string, scope models.TenantScope) (uuid.UUID, error) {
	if scope.CompanyID == uuid.Nil {
		return uuid.Nil, validationError(op, "a company context is required")
	}
	return scope.CompanyID, nil
}

// requireTenantAccount guards writes that create or change company-owned records.
// Admin tokens carry the platform company, which must never own tenant data.
func requireTenantAccount(op string, scope models.TenantScope) (uuid.UUID, error) {
	if scope.Role == models.RoleAdmin {
		return uuid.Nil, newError(op, ErrForbidden, "platform accounts cannot create company records")
	}
	return requireCompany(op, scope)
}

func (s *CompanyService) Profile(ctx context.Context, scope models.TenantScope) (*models.Company, error) {
	const op = "company profile"
	companyID, err := requireCompany(op, scope)
	if err != nil {
		return nil, err
	}
	company, err := s.store.Companies().GetByID(ctx, companyID)
	return company, translate(op, err)
}

// UpdateProfile replaces the caller's name, GST number and contact details.
func (s *CompanyService) UpdateProfile(ctx context.Context, scope models.TenantScope, req models.UpdateCompanyProfileRequest) (*models.Company, error) {
	const op = "update company profile"
	companyID, err := requireTenantAccount(op, scope)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, validationError(op, "company name is required")
	}
	email := utils.TrimmedOrNil(req.ContactEmail)
	if email != nil {
		if err := utils.ValidateEmail(*email); err != nil {
			return nil, validationError(op, "invalid contact email")
		}
	}
	gst := utils.TrimmedOrNil(req.GSTNumber)

	var company *models.Company
	err = s.store.WithinTx(ctx, func(tx repository.Store) error {
		var err error
		if company, err = tx.Companies().GetByID(ctx, companyID); err != nil {
			return err
		}
		if gst != nil {
			holder, err := tx.Companies().GetByGSTNumber(ctx, *gst)
			switch {
			case err == nil && holder.ID != companyID:
				return newError(op, ErrConflict, "GST number is already registered")
			case err != nil && !errors.Is(err, repository.ErrNotFound):
				return err
			}
		}
		company.Name = name
		company.GSTNumber = gst
		company.ContactEmail = email
		company.ContactPhone = utils.TrimmedOrNil(req.ContactPhone)
		return tx.Companies().UpdateProfile(ctx, company)
	})
	if err != nil {
		return nil, translate(op, err)
	}

	s.log.Info().Str("company_id", companyID.String()).Str("by", scope.Subject).Msg("company profile updated")
	return company, nil
}

func (s *CompanyService) List(ctx context.Context, scope models.TenantScope, approved *bool) ([]models.Company, error) {
	const op = "list companies"
	if err := requireAdmin(op, scope); err != nil {
		return nil, err
	}
	companies, err := s.store.Companies().List(ctx, approved)
	return companies, translate(op, err)
}

func (s *CompanyService) Approve(ctx context.Context, scope models.TenantScope, companyID uuid.UUID) (*models.Company, error) {
	return s.setStatus(ctx, scope, "approve company", companyID, func(c *models.Company) {
		c.IsApproved, c.IsActive = true, true
	})
}

func (s *CompanyService) Reject(ctx context.Context, scope models.TenantScope, companyID uuid.UUID) (*models.Company, error) {
	return s.setStatus(ctx, scope, "reject company", companyID, func(c *models.Company) {
		c.IsApproved, c.IsActive = false, false
	})
}

func (s *CompanyService) SetActive(ctx context.Context, scope models.TenantScope, companyID uuid.UUID, active bool) (*models.Company, error) {
	return s.setStatus(ctx, scope, "set company status", companyID, func(c *models.Company) {
		c.IsActive = active
	})
}

func (s *CompanyService) setStatus(ctx context.Context, scope models.TenantScope, op string, companyID uuid.UUID, apply func(*models.Company)) (*models.Company, error) {
	if err := requireAdmin(op, scope); err != nil {
		return nil, err
	}

	var company *models.Company
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		var err error
		company, err = tx.Companies().GetByID(ctx, companyID)
		if err != nil {
			return err
		}
		apply(company)
		return tx.Companies().UpdateStatus(ctx, company.ID, company.IsApproved, company.IsActive)
	})
	if err != nil {
		return nil, translate(op, err)
	}

	s.log.Info().
		Str("company_id", companyID.String()).
		Bool("approved", company.IsApproved).
		Bool("active", company.IsActive).
		Str("by", scope.Subject).
		Msg("company status changed")
	return company, nil
}

// Dashboard aggregates the caller's invoices. PARTIAL amounts count as pending.
func (s *CompanyService) Dashboard(ctx context.Context, scope models.TenantScope) (*models.DashboardMetrics, error) {
	const op = "dashboard metrics"
	companyID, err := requireCompany(op, scope)
	if err != nil {
		return nil, err
	}

	summary, err := s.store.Invoices().SummarizeByStatus(ctx, companyID)
	if err != nil {
		return nil, translate(op, err)
	}
	overdueCount, overdueAmount, err := s.store.Invoices().SummarizeOverdue(ctx, companyID, s.clock())
	if err != nil {
		return nil, translate(op, err)
	}

	m := &models.DashboardMetrics{
		PendingAmount:   decimal.Zero,
		PaidAmount:      decimal.Zero,
		OverdueInvoices: overdueCount,
		OverdueAmount:   overdueAmount,
	}
	for _, row := range summary {
		switch row.Status {
		case models.InvoiceStatusDraft:
			m.DraftInvoices = row.Count
		case models.InvoiceStatusPending:
			m.PendingInvoices = row.Count
			m.PendingAmount = m.PendingAmount.Add(row.TotalAmount)
		case models.InvoiceStatusPartial:
			m.PartialInvoices = row.Count
			m.PendingAmount = m.PendingAmount.Add(row.TotalAmount)
		case models.InvoiceStatusPaid:
			m.PaidInvoices = row.Count
			m.PaidAmount = row.TotalAmount
		}
		m.TotalInvoices += row.Count
	}
	return m, nil
}
