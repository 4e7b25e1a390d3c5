package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// PostgresStore implements Store over sqlx. q is the pool or the open transaction.
type PostgresStore struct {
	db *sqlx.DB
	q  sqlx.ExtContext
}

func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db, q: db}
}

func (s *PostgresStore) Companies() CompanyRepository { return &companyRepository{q: s.q} }

func (s *PostgresStore) Users() UserRepository { return &userRepository{q: s.q} }

func (s *PostgresStore) Customers() CustomerRepository { return &customerRepository{q: s.q} }

func (s *PostgresStore) Invoices() InvoiceRepository { return &invoiceRepository{q: s.q} }

func (s *PostgresStore) Payments() PaymentRepository { return &paymentRepository{q: s.q} }

func (s *PostgresStore) ReminderLogs() ReminderLogRepository { return &reminderLogRepository{q: s.q} }

func (s *PostgresStore) Documents() DocumentRepository { return &documentRepository{q: s.q} }

// WithinTx runs fn in one transaction. Nested calls join the outer transaction.
func (s *PostgresStore) WithinTx(ctx context.Context, fn func(tx Store) error) error {
	if _, inTx := s.q.(*sqlx.Tx); inTx {
		return fn(s)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(&PostgresStore{db: s.db, q: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23503"
}

// missReason tells a missing row apart from one hidden by the tenant predicate.
// table is always a package constant.
func missReason(ctx context.Context, q sqlx.QueryerContext, table string, id uuid.UUID) error {
	var exists bool
	query := fmt.Sprintf(`SELECT EXISTS(SELECT 1 FROM %s WHERE id = $1)`, table)
	if err := sqlx.GetContext(ctx, q, &exists, query, id); err != nil {
		return fmt.Errorf("failed to check %s existence: %w", table, err)
	}
	if exists {
		return ErrOutsideTenant
	}
	return ErrNotFound
}
