package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"invoice-service/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func confirmRequest(customerID *uuid.UUID) models.ConfirmInvoiceRequest {
	return models.ConfirmInvoiceRequest{
		InvoiceNumber: "INV-2026-001",
		InvoiceDate:   datePtr(models.NewDate(2026, time.October, 1)),
		DueDate:       datePtr(models.NewDate(2026, time.October, 31)),
		Amount:        dec("1250.75"),
		CustomerID:    customerID,
	}
}

// ============================================================================
// CONFIRM
// ============================================================================

func TestConfirm_DraftBecomesPending(t *testing.T) {
	f := newTenantFixture(t)
	svc := NewConfirmationService(f.store)
	draft := f.seedInvoice(t, models.Invoice{CompanyID: f.companyA.ID, FilePath: strPtr("a.pdf"), Status: models.InvoiceStatusDraft})

	inv, err := svc.Confirm(context.Background(), f.scopeA, draft.ID, confirmRequest(&f.customerA.ID))
	require.NoError(t, err)

	assert.Equal(t, models.InvoiceStatusPending, inv.Status)
	assert.True(t, inv.HasCoreFields())

	stored, err := f.store.Invoices().GetByID(context.Background(), f.scopeA, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, models.InvoiceStatusPending, stored.Status)
	assert.Equal(t, "INV-2026-001", *stored.InvoiceNumber)
	assert.Equal(t, "2026-10-31", stored.DueDate.String())
	assert.True(t, stored.Amount.Decimal.Equal(dec("1250.75")))
	assert.Equal(t, f.customerA.ID, *stored.CustomerID)
	assert.Equal(t, "a.pdf", *stored.FilePath)
}

func TestConfirm_KeepsCustomerWhenNoneGiven(t *testing.T) {
	f := newTenantFixture(t)
	svc := NewConfirmationService(f.store)
	draft := f.seedInvoice(t, models.Invoice{CompanyID: f.companyA.ID, CustomerID: &f.customerA.ID, Status: models.InvoiceStatusDraft})

	inv, err := svc.Confirm(context.Background(), f.scopeA, draft.ID, confirmRequest(nil))
	require.NoError(t, err)
	assert.Equal(t, f.customerA.ID, *inv.CustomerID)
}

func TestConfirm_OnlyFromDraft(t *testing.T) {
	f := newTenantFixture(t)
	svc := NewConfirmationService(f.store)
	pending := f.pendingInvoice(t, "INV-9", "10", models.NewDate(2026, time.November, 1))

	_, err := svc.Confirm(context.Background(), f.scopeA, pending.ID, confirmRequest(nil))
	require.ErrorIs(t, err, ErrInvalidState)

	var svcErr *Error
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, "can only confirm DRAFT invoices. Current status: PENDING", svcErr.Message())

	stored, err := f.store.Invoices().GetByID(context.Background(), f.scopeA, pending.ID)
	require.NoError(t, err)
	assert.Equal(t, "INV-9", *stored.InvoiceNumber)
}

func TestConfirm_RequiresCoreFields(t *testing.T) {
	f := newTenantFixture(t)
	svc := NewConfirmationService(f.store)
	draft := f.seedInvoice(t, models.Invoice{CompanyID: f.companyA.ID, Status: models.InvoiceStatusDraft})

	mutations := map[string]func(*models.ConfirmInvoiceRequest){
		"blank number":    func(r *models.ConfirmInvoiceRequest) { r.InvoiceNumber = "  " },
		"no invoice date": func(r *models.ConfirmInvoiceRequest) { r.InvoiceDate = nil },
		"no due date":     func(r *models.ConfirmInvoiceRequest) { r.DueDate = nil },
		"negative amount": func(r *models.ConfirmInvoiceRequest) { r.Amount = dec("-1") },
		"zero amount":     func(r *models.ConfirmInvoiceRequest) { r.Amount = dec("0") },
	}
	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			req := confirmRequest(nil)
			mutate(&req)
			_, err := svc.Confirm(context.Background(), f.scopeA, draft.ID, req)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}

	stored, err := f.store.Invoices().GetByID(context.Background(), f.scopeA, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, models.InvoiceStatusDraft, stored.Status)
}

func TestConfirm_CustomerFromAnotherCompanyIsValidationError(t *testing.T) {
	f := newTenantFixture(t)
	svc := NewConfirmationService(f.store)
	draft := f.seedInvoice(t, models.Invoice{CompanyID: f.companyA.ID, Status: models.InvoiceStatusDraft})

	for _, scope := range []models.TenantScope{f.scopeA, f.admin} {
		_, err := svc.Confirm(context.Background(), scope, draft.ID, confirmRequest(&f.customerB.ID))
		assert.ErrorIs(t, err, ErrValidation)
		assert.ErrorIs(t, err, ErrCrossTenant)
	}

	stored, err := f.store.Invoices().GetByID(context.Background(), f.scopeA, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, models.InvoiceStatusDraft, stored.Status)
	assert.Nil(t, stored.InvoiceNumber)
}

func TestConfirm_InvoiceOfAnotherCompany(t *testing.T) {
	f := newTenantFixture(t)
	svc := NewConfirmationService(f.store)
	draft := f.seedInvoice(t, models.Invoice{CompanyID: f.companyA.ID, Status: models.InvoiceStatusDraft})

	_, err := svc.Confirm(context.Background(), f.scopeB, draft.ID, confirmRequest(nil))
	assert.ErrorIs(t, err, ErrCrossTenant)
}

func TestConfirm_ConcurrentConfirmsHaveOneWinner(t *testing.T) {
	f := newTenantFixture(t)
	svc := NewConfirmationService(f.store)
	draft := f.seedInvoice(t, models.Invoice{CompanyID: f.companyA.ID, Status: models.InvoiceStatusDraft})

	const callers = 8
	results := make([]error, callers)
	var wg sync.WaitGroup
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, results[i] = svc.Confirm(context.Background(), f.scopeA, draft.ID, confirmRequest(nil))
		}()
	}
	wg.Wait()

	succeeded := 0
	for _, err := range results {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, ErrInvalidState)
	}
	assert.Equal(t, 1, succeeded)
}
