package services

import (
	"context"
	"testing"
	"time"

	"invoice-service/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(d models.Date) func() models.Date {
	return func() models.Date { return d }
}

// ============================================================================
// ELIGIBILITY VIEW
// ============================================================================

func TestPendingForReminder_OrderedByDueDateAcrossCompanies(t *testing.T) {
	f := newTenantFixture(t)
	svc := NewReminderService(f.store)
	svc.clock = fixedClock(models.NewDate(2026, time.October, 14))

	late := f.pendingInvoice(t, "A-LATE", "100", models.NewDate(2026, time.December, 1))
	early := f.pendingInvoice(t, "A-EARLY", "100", models.NewDate(2026, time.October, 1))
	number := "B-MID"
	mid := f.seedInvoice(t, models.Invoice{
		CompanyID:     f.companyB.ID,
		InvoiceNumber: &number,
		InvoiceDate:   datePtr(models.NewDate(2026, time.September, 1)),
		DueDate:       datePtr(models.NewDate(2026, time.November, 1)),
		Amount:        decimal.NewNullDecimal(dec("50")),
		Status:        models.InvoiceStatusPending,
	})
	f.seedInvoice(t, models.Invoice{CompanyID: f.companyA.ID, Status: models.InvoiceStatusDraft})
	paid := f.pendingInvoice(t, "A-PAID", "10", models.NewDate(2026, time.September, 1))
	paid.Status = models.InvoiceStatusPaid
	require.NoError(t, f.store.Invoices().UpdateGuarded(context.Background(), paid, models.InvoiceStatusPending))

	rows, err := svc.PendingForReminder(context.Background(), f.admin)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []uuid.UUID{early.ID, mid.ID, late.ID}, []uuid.UUID{rows[0].InvoiceID, rows[1].InvoiceID, rows[2].InvoiceID})

	assert.Equal(t, f.companyA.ID, rows[0].CompanyID)
	require.NotNil(t, rows[0].CustomerName)
	assert.Equal(t, "Ravi Kumar", *rows[0].CustomerName)
	assert.Equal(t, "ravi@example.com", *rows[0].CustomerEmail)
	assert.Nil(t, rows[1].CustomerName)
	require.NotNil(t, rows[0].DaysFromDue)
	assert.Equal(t, 13, *rows[0].DaysFromDue)
}

func TestPendingForReminder_PaidInvoiceDropsOut(t *testing.T) {
	f := newTenantFixture(t)
	reminders := NewReminderService(f.store)
	payments := NewPaymentService(f.store, SettlementFull)
	inv := f.pendingInvoice(t, "INV-1", "100", models.NewDate(2026, time.October, 31))

	before, err := reminders.PendingForReminder(context.Background(), f.admin)
	require.NoError(t, err)
	require.Len(t, before, 1)

	_, err = payments.MarkPaid(context.Background(), f.scopeA, inv.ID, paidOn("100"))
	require.NoError(t, err)

	after, err := reminders.PendingForReminder(context.Background(), f.admin)
	require.NoError(t, err)
	assert.Empty(t, after)
}

func TestPendingForReminder_PlatformOnly(t *testing.T) {
	f := newTenantFixture(t)
	svc := NewReminderService(f.store)

	_, err := svc.PendingForReminder(context.Background(), f.scopeA)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestPendingForReminderByCompany_OnlyOwnRows(t *testing.T) {
	f := newTenantFixture(t)
	svc := NewReminderService(f.store)
	svc.clock = fixedClock(models.NewDate(2026, time.October, 26))
	inv := f.pendingInvoice(t, "INV-1", "100", models.NewDate(2026, time.October, 31))

	rows, err := svc.PendingForReminderByCompany(context.Background(), f.scopeA)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, inv.ID, rows[0].InvoiceID)
	require.NotNil(t, rows[0].SuggestedReminder)
	assert.Equal(t, models.ReminderGentle, *rows[0].SuggestedReminder)

	other, err := svc.PendingForReminderByCompany(context.Background(), f.scopeB)
	require.NoError(t, err)
	assert.Empty(t, other)
}

// ============================================================================
// REMINDER LOG
// ============================================================================

func TestLogReminder(t *testing.T) {
	f := newTenantFixture(t)
	svc := NewReminderService(f.store)
	inv := f.pendingInvoice(t, "INV-1", "100", models.NewDate(2026, time.October, 31))

	entry, err := svc.LogReminder(context.Background(), f.admin, models.LogReminderRequest{
		InvoiceID:    inv.ID,
		ReminderType: models.ReminderDue,
		Channel:      models.ChannelWhatsApp,
	})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), entry.SentDate, time.Minute)

	logs, err := svc.ListLogs(context.Background(), f.scopeA, inv.ID)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, models.ReminderDue, logs[0].ReminderType)

	stored, err := f.store.Invoices().GetByID(context.Background(), f.scopeA, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, models.InvoiceStatusPending, stored.Status)
}

func TestLogReminder_Rejects(t *testing.T) {
	f := newTenantFixture(t)
	svc := NewReminderService(f.store)
	inv := f.pendingInvoice(t, "INV-1", "100", models.NewDate(2026, time.October, 31))

	_, err := svc.LogReminder(context.Background(), f.admin, models.LogReminderRequest{
		InvoiceID: inv.ID, ReminderType: "SHOUTY", Channel: models.ChannelEmail,
	})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.LogReminder(context.Background(), f.admin, models.LogReminderRequest{
		InvoiceID: inv.ID, ReminderType: models.ReminderFirm, Channel: "PIGEON",
	})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.LogReminder(context.Background(), f.scopeB, models.LogReminderRequest{
		InvoiceID: inv.ID, ReminderType: models.ReminderFirm, Channel: models.ChannelEmail,
	})
	assert.ErrorIs(t, err, ErrCrossTenant)
}
