package services

import (
	"context"
	"testing"

	"invoice-service/internal/models"
	"invoice-service/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// TEST HELPERS
// ============================================================================

type tenantFixture struct {
	store     *repository.MemoryStore
	companyA  *models.Company
	companyB  *models.Company
	customerA *models.Customer
	customerB *models.Customer
	scopeA    models.TenantScope
	scopeB    models.TenantScope
	admin     models.TenantScope
}

func newTenantFixture(t *testing.T) *tenantFixture {
	t.Helper()
	ctx := context.Background()
	store := repository.NewMemoryStore()

	f := &tenantFixture{store: store}
	f.companyA = &models.Company{Name: "Acme Traders", IsActive: true, IsApproved: true}
	f.companyB = &models.Company{Name: "Bolt Supplies", IsActive: true, IsApproved: true}
	require.NoError(t, store.Companies().Create(ctx, f.companyA))
	require.NoError(t, store.Companies().Create(ctx, f.companyB))

	email := "ravi@example.com"
	f.customerA = &models.Customer{CompanyID: f.companyA.ID, CustomerName: "Ravi Kumar", Email: &email, PaymentTermsDays: 30}
	f.customerB = &models.Customer{CompanyID: f.companyB.ID, CustomerName: "Meera Shah", PaymentTermsDays: 15}
	require.NoError(t, store.Customers().Create(ctx, f.customerA))
	require.NoError(t, store.Customers().Create(ctx, f.customerB))

	f.scopeA = models.CompanyScope(f.companyA.ID, "acme")
	f.scopeB = models.CompanyScope(f.companyB.ID, "bolt")
	f.admin = models.PlatformScope(uuid.Nil, "admin")
	return f
}

// seedInvoice stores an invoice directly, bypassing the services.
func (f *tenantFixture) seedInvoice(t *testing.T, inv models.Invoice) *models.Invoice {
	t.Helper()
	require.NoError(t, f.store.Invoices().Create(context.Background(), &inv))
	return &inv
}

// pendingInvoice returns a confirmed invoice of company A due on due.
func (f *tenantFixture) pendingInvoice(t *testing.T, number string, amount string, due models.Date) *models.Invoice {
	t.Helper()
	invoiceDate := due.AddDate(0, 0, -30)
	return f.seedInvoice(t, models.Invoice{
		CompanyID:     f.companyA.ID,
		CustomerID:    &f.customerA.ID,
		InvoiceNumber: &number,
		InvoiceDate:   datePtr(models.DateOf(invoiceDate)),
		DueDate:       &due,
		Amount:        decimal.NewNullDecimal(decimal.RequireFromString(amount)),
		Status:        models.InvoiceStatusPending,
	})
}

func datePtr(d models.Date) *models.Date { return &d }

func strPtr(s string) *string { return &s }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type recordingTrigger struct {
	calls []models.ExtractionRequest
}

func (r *recordingTrigger) Trigger(invoiceID uuid.UUID, filePath string) {
	r.calls = append(r.calls, models.ExtractionRequest{InvoiceID: invoiceID, FilePath: filePath})
}
