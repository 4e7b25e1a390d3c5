package services

import (
	"context"
	"testing"

	"invoice-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomerService_CreateAndIsolation(t *testing.T) {
	f := newTenantFixture(t)
	svc := NewCustomerService(f.store)
	ctx := context.Background()

	customer, err := svc.Create(ctx, f.scopeB, models.CreateCustomerRequest{
		CustomerName: "  Anil Traders ",
		Email:        strPtr("accounts@anil.example"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Anil Traders", customer.CustomerName)
	assert.Equal(t, 30, customer.PaymentTermsDays)
	assert.Equal(t, f.companyB.ID, customer.CompanyID)

	_, err = svc.Get(ctx, f.scopeA, customer.ID)
	assert.ErrorIs(t, err, ErrCrossTenant)

	list, err := svc.List(ctx, f.scopeB)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestCustomerService_Validation(t *testing.T) {
	f := newTenantFixture(t)
	svc := NewCustomerService(f.store)
	negative := -3

	tests := map[string]models.CreateCustomerRequest{
		"blank name":     {CustomerName: " "},
		"bad email":      {CustomerName: "X", Email: strPtr("not-an-email")},
		"negative terms": {CustomerName: "X", PaymentTermsDays: &negative},
	}
	for name, req := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), f.scopeA, req)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestCustomerService_AdminCannotCreate(t *testing.T) {
	f := newTenantFixture(t)
	svc := NewCustomerService(f.store)

	_, err := svc.Create(context.Background(), models.PlatformScope(f.companyA.ID, "admin"), models.CreateCustomerRequest{
		CustomerName: "Platform Customer",
	})
	assert.ErrorIs(t, err, ErrForbidden)

	list, err := svc.List(context.Background(), f.scopeA)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
