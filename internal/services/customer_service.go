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

const defaultPaymentTermsDays = 30

type CustomerService struct {
	store repository.Store
	log   zerolog.Logger
}

func NewCustomerService(store repository.Store) *CustomerService {
	return &CustomerService{store: store, log: logger.WithComponent("customer_service")}
}

func (s *CustomerService) Create(ctx context.Context, scope models.TenantScope, req models.CreateCustomerRequest) (*models.Customer, error) {
	const op = "create customer"
	companyID, err := requireTenantAccount(op, scope)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.CustomerName)
	if name == "" {
		return nil, validationError(op, "customer name is required")
	}
	email := utils.TrimmedOrNil(req.Email)
	if email != nil {
		if err := utils.ValidateEmail(*email); err != nil {
			return nil, validationError(op, "invalid customer email")
		}
	}
	terms := defaultPaymentTermsDays
	if req.PaymentTermsDays != nil {
		if *req.PaymentTermsDays < 0 {
			return nil, validationError(op, "payment terms must not be negative")
		}
		terms = *req.PaymentTermsDays
	}

	customer := &models.Customer{
		CompanyID:        companyID,
		CustomerName:     name,
		CompanyName:      utils.TrimmedOrNil(req.CompanyName),
		Phone:            utils.TrimmedOrNil(req.Phone),
		Email:            email,
		PaymentTermsDays: terms,
	}
	if err := s.store.Customers().Create(ctx, customer); err != nil {
		return nil, translate(op, err)
	}

	s.log.Info().Str("customer_id", customer.ID.String()).Str("company_id", companyID.String()).Msg("customer created")
	return customer, nil
}

func (s *CustomerService) Get(ctx context.Context, scope models.TenantScope, id uuid.UUID) (*models.Customer, error) {
	const op = "get customer"
	customer, err := s.store.Customers().GetByID(ctx, scope, id)
	if err != nil {
		logScopeMiss(s.log, op, scope, id, err)
		return nil, translate(op, err)
	}
	return customer, nil
}

func (s *CustomerService) List(ctx context.Context, scope models.TenantScope) ([]models.Customer, error) {
	const op = "list customers"
	companyID, err := requireCompany(op, scope)
	if err != nil {
		return nil, err
	}
	customers, err := s.store.Customers().ListByCompany(ctx, companyID)
	return customers, translate(op, err)
}
