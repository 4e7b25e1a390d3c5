package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"invoice-service/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func datePtr(d models.Date) *models.Date { return &d }

func TestMemoryStore_TenantScopedLookups(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	companyA, companyB := uuid.New(), uuid.New()

	inv := &models.Invoice{CompanyID: companyA, Status: models.InvoiceStatusDraft}
	require.NoError(t, store.Invoices().Create(ctx, inv))

	_, err := store.Invoices().GetByID(ctx, models.CompanyScope(companyA, "a"), inv.ID)
	assert.NoError(t, err)

	_, err = store.Invoices().GetByID(ctx, models.CompanyScope(companyB, "b"), inv.ID)
	assert.ErrorIs(t, err, ErrOutsideTenant)

	_, err = store.Invoices().GetByID(ctx, models.CompanyScope(companyB, "b"), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.Invoices().GetByID(ctx, models.PlatformScope(uuid.Nil, "admin"), inv.ID)
	assert.NoError(t, err)

	listed, err := store.Invoices().ListByCompany(ctx, companyB, nil)
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestMemoryStore_WithinTx_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	companyID := uuid.New()
	boom := errors.New("boom")

	err := store.WithinTx(ctx, func(tx Store) error {
		if err := tx.Invoices().Create(ctx, &models.Invoice{CompanyID: companyID, Status: models.InvoiceStatusDraft}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	listed, err := store.Invoices().ListByCompany(ctx, companyID, nil)
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestMemoryStore_UpdateGuarded(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	inv := &models.Invoice{CompanyID: uuid.New(), Status: models.InvoiceStatusDraft}
	require.NoError(t, store.Invoices().Create(ctx, inv))

	inv.Status = models.InvoiceStatusPending
	require.NoError(t, store.Invoices().UpdateGuarded(ctx, inv, models.InvoiceStatusDraft))

	inv.Status = models.InvoiceStatusPaid
	assert.ErrorIs(t, store.Invoices().UpdateGuarded(ctx, inv, models.InvoiceStatusDraft), ErrStaleWrite)

	got, err := store.Invoices().GetByID(ctx, models.PlatformScope(uuid.Nil, "admin"), inv.ID)
	require.NoError(t, err)
	assert.Equal(t, models.InvoiceStatusPending, got.Status)
}

func TestMemoryStore_ListPendingForReminder(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	companyID := uuid.New()

	customer := &models.Customer{CompanyID: companyID, CustomerName: "Globex", Email: strPtr("ap@globex.test")}
	require.NoError(t, store.Customers().Create(ctx, customer))

	late := &models.Invoice{CompanyID: companyID, Status: models.InvoiceStatusPending, DueDate: datePtr(models.NewDate(2024, time.March, 1))}
	early := &models.Invoice{CompanyID: companyID, Status: models.InvoiceStatusPending, DueDate: datePtr(models.NewDate(2024, time.January, 1)), CustomerID: &customer.ID}
	draft := &models.Invoice{CompanyID: companyID, Status: models.InvoiceStatusDraft, DueDate: datePtr(models.NewDate(2023, time.January, 1))}
	for _, inv := range []*models.Invoice{late, early, draft} {
		require.NoError(t, store.Invoices().Create(ctx, inv))
	}

	rows, err := store.Invoices().ListPendingForReminder(ctx, nil)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, early.ID, rows[0].InvoiceID)
	assert.Equal(t, "Globex", *rows[0].CustomerName)
	assert.Equal(t, "ap@globex.test", *rows[0].CustomerEmail)
	assert.Equal(t, late.ID, rows[1].InvoiceID)
	assert.Nil(t, rows[1].CustomerName)

	other := uuid.New()
	rows, err = store.Invoices().ListPendingForReminder(ctx, &other)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestMemoryStore_PaymentsSumAndSummaries(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	companyID := uuid.New()
	inv := &models.Invoice{
		CompanyID: companyID,
		Status:    models.InvoiceStatusPending,
		Amount:    decimal.NewNullDecimal(decimal.RequireFromString("300")),
		DueDate:   datePtr(models.NewDate(2024, time.January, 10)),
	}
	require.NoError(t, store.Invoices().Create(ctx, inv))

	for _, amt := range []string{"100", "50.25"} {
		require.NoError(t, store.Payments().Create(ctx, &models.Payment{
			InvoiceID:      inv.ID,
			AmountReceived: decimal.RequireFromString(amt),
			PaymentDate:    models.NewDate(2024, time.January, 5),
		}))
	}

	total, err := store.Payments().SumByInvoice(ctx, inv.ID)
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.RequireFromString("150.25")))

	count, amount, err := store.Invoices().SummarizeOverdue(ctx, companyID, models.NewDate(2024, time.February, 1))
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.True(t, amount.Equal(decimal.RequireFromString("300")))

	summary, err := store.Invoices().SummarizeByStatus(ctx, companyID)
	require.NoError(t, err)
	require.Len(t, summary, 1)
	assert.Equal(t, models.InvoiceStatusPending, summary[0].Status)
	assert.Equal(t, 1, summary[0].Count)
}

func TestMemoryStore_DuplicateCompanyAndUser(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Companies().Create(ctx, &models.Company{Name: "A", GSTNumber: strPtr("GST-1")}))
	assert.ErrorIs(t, store.Companies().Create(ctx, &models.Company{Name: "B", GSTNumber: strPtr("GST-1")}), ErrDuplicate)

	require.NoError(t, store.Users().Create(ctx, &models.User{Username: "alice"}))
	assert.ErrorIs(t, store.Users().Create(ctx, &models.User{Username: "Alice"}), ErrDuplicate)
}

func TestMemoryStore_Documents(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	companyA, companyB := uuid.New(), uuid.New()

	inv := &models.Invoice{CompanyID: companyA, Status: models.InvoiceStatusDraft}
	require.NoError(t, store.Invoices().Create(ctx, inv))

	attached := &models.Document{CompanyID: companyA, InvoiceID: &inv.ID, DocumentType: models.DocumentPDF, FileSize: 10}
	require.NoError(t, store.Documents().Create(ctx, attached))
	loose := &models.Document{CompanyID: companyA, DocumentType: models.DocumentImage, FileSize: 10}
	require.NoError(t, store.Documents().Create(ctx, loose))

	foreign := &models.Document{CompanyID: companyB, InvoiceID: &inv.ID, DocumentType: models.DocumentPDF, FileSize: 10}
	assert.ErrorIs(t, store.Documents().Create(ctx, foreign), ErrOutsideTenant)

	_, err := store.Documents().GetByID(ctx, models.CompanyScope(companyB, "b"), attached.ID)
	assert.ErrorIs(t, err, ErrOutsideTenant)

	all, err := store.Documents().ListByCompany(ctx, companyA, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	byInvoice, err := store.Documents().ListByCompany(ctx, companyA, &inv.ID)
	require.NoError(t, err)
	require.Len(t, byInvoice, 1)
	assert.Equal(t, attached.ID, byInvoice[0].ID)

	none, err := store.Documents().ListByCompany(ctx, companyB, nil)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestMemoryStore_UpdateProfile_GSTUniqueness(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	a := &models.Company{Name: "A", GSTNumber: strPtr("GST-A")}
	b := &models.Company{Name: "B", GSTNumber: strPtr("GST-B")}
	require.NoError(t, store.Companies().Create(ctx, a))
	require.NoError(t, store.Companies().Create(ctx, b))

	b.GSTNumber = strPtr("GST-A")
	assert.ErrorIs(t, store.Companies().UpdateProfile(ctx, b), ErrDuplicate)

	a.Name = "A Renamed"
	require.NoError(t, store.Companies().UpdateProfile(ctx, a))
	got, err := store.Companies().GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "A Renamed", got.Name)
	assert.Equal(t, "GST-A", *got.GSTNumber)
}
