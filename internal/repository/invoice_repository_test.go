package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"invoice-service/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var invoiceRowColumns = []string{
	"id", "company_id", "customer_id", "invoice_number", "invoice_date", "due_date", "amount",
	"file_path", "extracted_data", "status", "created_at", "updated_at",
}

func newMockStore(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresStore(sqlx.NewDb(db, "postgres")), mock
}

func draftRow(id, companyID uuid.UUID) *sqlmock.Rows {
	ts := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	return sqlmock.NewRows(invoiceRowColumns).AddRow(
		id.String(), companyID.String(), nil, "INV-1", ts, nil, "1000.00",
		"c/2024/01/01/x.pdf", []byte(`{"invoiceNumber":"INV-1"}`), "DRAFT", ts, ts,
	)
}

func TestInvoiceRepository_GetByID_AppliesTenantPredicate(t *testing.T) {
	store, mock := newMockStore(t)
	id, companyID := uuid.New(), uuid.New()

	mock.ExpectQuery(`SELECT .* FROM invoices WHERE id = \$1 AND company_id = \$2$`).
		WithArgs(id, companyID).
		WillReturnRows(draftRow(id, companyID))

	inv, err := store.Invoices().GetByID(context.Background(), models.CompanyScope(companyID, "alice"), id)
	require.NoError(t, err)
	assert.Equal(t, id, inv.ID)
	assert.Equal(t, models.InvoiceStatusDraft, inv.Status)
	assert.True(t, inv.Amount.Decimal.Equal(decimal.RequireFromString("1000")))
	assert.Equal(t, "INV-1", inv.ExtractedData["invoiceNumber"])
	assert.Nil(t, inv.CustomerID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInvoiceRepository_GetByID_AdminIsUnscoped(t *testing.T) {
	store, mock := newMockStore(t)
	id, companyID := uuid.New(), uuid.New()

	mock.ExpectQuery(`SELECT .* FROM invoices WHERE id = \$1$`).
		WithArgs(id).
		WillReturnRows(draftRow(id, companyID))

	inv, err := store.Invoices().GetByID(context.Background(), models.PlatformScope(uuid.Nil, "service"), id)
	require.NoError(t, err)
	assert.Equal(t, companyID, inv.CompanyID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInvoiceRepository_GetByID_DistinguishesMissReasons(t *testing.T) {
	cases := map[string]struct {
		exists bool
		want   error
	}{
		"other company": {exists: true, want: ErrOutsideTenant},
		"absent":        {exists: false, want: ErrNotFound},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			store, mock := newMockStore(t)
			id, companyID := uuid.New(), uuid.New()

			mock.ExpectQuery(`SELECT .* FROM invoices WHERE id = \$1 AND company_id = \$2$`).
				WithArgs(id, companyID).
				WillReturnRows(sqlmock.NewRows(invoiceRowColumns))
			mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM invoices WHERE id = \$1\)`).
				WithArgs(id).
				WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(tc.exists))

			_, err := store.Invoices().GetByID(context.Background(), models.CompanyScope(companyID, "bob"), id)
			assert.ErrorIs(t, err, tc.want)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestInvoiceRepository_GetByIDForUpdate_LocksRow(t *testing.T) {
	store, mock := newMockStore(t)
	id, companyID := uuid.New(), uuid.New()

	mock.ExpectQuery(`SELECT .* FROM invoices WHERE id = \$1 AND company_id = \$2 FOR UPDATE$`).
		WithArgs(id, companyID).
		WillReturnRows(draftRow(id, companyID))

	_, err := store.Invoices().GetByIDForUpdate(context.Background(), models.CompanyScope(companyID, "alice"), id)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInvoiceRepository_UpdateGuarded(t *testing.T) {
	id, companyID := uuid.New(), uuid.New()
	inv := &models.Invoice{ID: id, CompanyID: companyID, Status: models.InvoiceStatusPending}

	t.Run("applies when status matches", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectExec(`UPDATE invoices SET .* WHERE id = \$9 AND company_id = \$10 AND status = \$11`).
			WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
				sqlmock.AnyArg(), "PENDING", sqlmock.AnyArg(), id, companyID, "DRAFT").
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, store.Invoices().UpdateGuarded(context.Background(), inv, models.InvoiceStatusDraft))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("stale when no row matches", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectExec(`UPDATE invoices SET`).WillReturnResult(sqlmock.NewResult(0, 0))

		err := store.Invoices().UpdateGuarded(context.Background(), inv, models.InvoiceStatusDraft)
		assert.ErrorIs(t, err, ErrStaleWrite)
	})
}

func TestInvoiceRepository_ListPendingForReminder(t *testing.T) {
	store, mock := newMockStore(t)
	id, companyID := uuid.New(), uuid.New()
	due := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`LEFT JOIN customers c .* WHERE i.status = \$1 ORDER BY i.due_date ASC`).
		WithArgs("PENDING").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "invoice_number", "due_date", "amount", "company_id", "customer_name", "customer_email", "customer_phone",
		}).AddRow(id.String(), "INV-1", due, "1000.00", companyID.String(), nil, nil, nil))

	rows, err := store.Invoices().ListPendingForReminder(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "2024-01-31", rows[0].DueDate.String())
	assert.Nil(t, rows[0].CustomerName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_WithinTx(t *testing.T) {
	t.Run("commits on success", func(t *testing.T) {
		store, mock := newMockStore(t)
		invoiceID := uuid.New()
		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO payments`).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`SELECT COALESCE\(SUM\(amount_received\), 0\) FROM payments WHERE invoice_id = \$1`).
			WithArgs(invoiceID).
			WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow("250.50"))
		mock.ExpectCommit()

		var total decimal.Decimal
		err := store.WithinTx(context.Background(), func(tx Store) error {
			p := &models.Payment{InvoiceID: invoiceID, AmountReceived: decimal.RequireFromString("250.50"), PaymentDate: models.NewDate(2024, 1, 20)}
			if err := tx.Payments().Create(context.Background(), p); err != nil {
				return err
			}
			var err error
			total, err = tx.Payments().SumByInvoice(context.Background(), invoiceID)
			return err
		})
		require.NoError(t, err)
		assert.True(t, total.Equal(decimal.RequireFromString("250.50")))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back on error", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectBegin()
		mock.ExpectRollback()

		boom := errors.New("boom")
		err := store.WithinTx(context.Background(), func(tx Store) error { return boom })
		assert.ErrorIs(t, err, boom)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCompanyRepository_Create_Duplicate(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectExec(`INSERT INTO companies`).WillReturnError(&pq.Error{Code: "23505"})

	err := store.Companies().Create(context.Background(), &models.Company{Name: "Acme"})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestCompanyRepository_UpdateStatus_NotFound(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectExec(`UPDATE companies SET is_approved = \$1, is_active = \$2`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.Companies().UpdateStatus(context.Background(), uuid.New(), true, true)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCompanyRepository_UpdateProfile(t *testing.T) {
	t.Run("duplicate gst", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectExec(`UPDATE companies\s+SET name = \$1, gst_number = \$2`).
			WillReturnError(&pq.Error{Code: "23505"})

		err := store.Companies().UpdateProfile(context.Background(), &models.Company{ID: uuid.New(), Name: "Acme"})
		assert.ErrorIs(t, err, ErrDuplicate)
	})

	t.Run("missing company", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectExec(`UPDATE companies\s+SET name = \$1`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := store.Companies().UpdateProfile(context.Background(), &models.Company{ID: uuid.New(), Name: "Acme"})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

var documentRowColumns = []string{
	"id", "company_id", "invoice_id", "original_file_name", "stored_file_name", "file_path",
	"document_type", "mime_type", "file_size", "description", "created_at", "updated_at",
}

func TestDocumentRepository_GetByID_AppliesTenantPredicate(t *testing.T) {
	store, mock := newMockStore(t)
	id, companyID := uuid.New(), uuid.New()
	ts := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT .* FROM documents WHERE id = \$1 AND company_id = \$2$`).
		WithArgs(id, companyID).
		WillReturnRows(sqlmock.NewRows(documentRowColumns).AddRow(
			id.String(), companyID.String(), nil, "po.pdf", "x.pdf", "c/2024/01/01/x.pdf",
			"PDF", "application/pdf", int64(1024), nil, ts, ts,
		))

	doc, err := store.Documents().GetByID(context.Background(), models.CompanyScope(companyID, "bob"), id)
	require.NoError(t, err)
	assert.Equal(t, models.DocumentPDF, doc.DocumentType)
	assert.Nil(t, doc.InvoiceID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentRepository_GetByID_OtherCompany(t *testing.T) {
	store, mock := newMockStore(t)
	id, companyID := uuid.New(), uuid.New()

	mock.ExpectQuery(`SELECT .* FROM documents WHERE id = \$1 AND company_id = \$2$`).
		WithArgs(id, companyID).
		WillReturnRows(sqlmock.NewRows(documentRowColumns))
	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM documents WHERE id = \$1\)`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	_, err := store.Documents().GetByID(context.Background(), models.CompanyScope(companyID, "bob"), id)
	assert.ErrorIs(t, err, ErrOutsideTenant)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentRepository_Create_ForeignInvoice(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectExec(`INSERT INTO documents`).WillReturnError(&pq.Error{Code: "23503"})

	invoiceID := uuid.New()
	err := store.Documents().Create(context.Background(), &models.Document{
		CompanyID: uuid.New(), InvoiceID: &invoiceID, OriginalFileName: "po.pdf",
		StoredFileName: "x.pdf", FilePath: "x.pdf", DocumentType: models.DocumentPDF, FileSize: 10,
	})
	assert.ErrorIs(t, err, ErrOutsideTenant)
}
