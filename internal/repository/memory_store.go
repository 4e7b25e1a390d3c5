package repository

import (
	"context"
	"sort"
	"strings"
	"sync"

	"invoice-service/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type memoryState struct {
	companies    map[uuid.UUID]models.Company
	users        map[uuid.UUID]models.User
	customers    map[uuid.UUID]models.Customer
	invoices     map[uuid.UUID]models.Invoice
	payments     []models.Payment
	reminderLogs []models.ReminderLog
	documents    map[uuid.UUID]models.Document
}

func newMemoryState() *memoryState {
	return &memoryState{
		companies: map[uuid.UUID]models.Company{},
		users:     map[uuid.UUID]models.User{},
		customers: map[uuid.UUID]models.Customer{},
		invoices:  map[uuid.UUID]models.Invoice{},
		documents: map[uuid.UUID]models.Document{},
	}
}

func (s *memoryState) clone() *memoryState {
	c := &memoryState{
		companies:    make(map[uuid.UUID]models.Company, len(s.companies)),
		users:        make(map[uuid.UUID]models.User, len(s.users)),
		customers:    make(map[uuid.UUID]models.Customer, len(s.customers)),
		invoices:     make(map[uuid.UUID]models.Invoice, len(s.invoices)),
		payments:     append([]models.Payment(nil), s.payments...),
		reminderLogs: append([]models.ReminderLog(nil), s.reminderLogs...),
		documents:    make(map[uuid.UUID]models.Document, len(s.documents)),
	}
	for k, v := range s.companies {
		c.companies[k] = v
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.customers {
		c.customers[k] = v
	}
	for k, v := range s.invoices {
		c.invoices[k] = v
	}
	for k, v := range s.documents {
		c.documents[k] = v
	}
	return c
}

type memoryRoot struct {
	mu    sync.Mutex
	state *memoryState
}

// MemoryStore is a Store kept in process memory. A transaction holds the store-wide
// lock for its whole duration and works on a copy that replaces the state on commit.
// Records are stored and returned by value.
type MemoryStore struct {
	root *memoryRoot
	tx   *memoryState
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{root: &memoryRoot{state: newMemoryState()}}
}

func (s *MemoryStore) Companies() CompanyRepository { return &memoryCompanies{s} }

func (s *MemoryStore) Users() UserRepository { return &memoryUsers{s} }

func (s *MemoryStore) Customers() CustomerRepository { return &memoryCustomers{s} }

func (s *MemoryStore) Invoices() InvoiceRepository { return &memoryInvoices{s} }

func (s *MemoryStore) Payments() PaymentRepository { return &memoryPayments{s} }

func (s *MemoryStore) ReminderLogs() ReminderLogRepository { return &memoryReminderLogs{s} }

func (s *MemoryStore) Documents() DocumentRepository { return &memoryDocuments{s} }

func (s *MemoryStore) WithinTx(ctx context.Context, fn func(tx Store) error) error {
	if s.tx != nil {
		return fn(s)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.root.mu.Lock()
	defer s.root.mu.Unlock()

	work := s.root.state.clone()
	if err := fn(&MemoryStore{root: s.root, tx: work}); err != nil {
		return err
	}
	s.root.state = work
	return nil
}

func (s *MemoryStore) with(fn func(st *memoryState) error) error {
	if s.tx != nil {
		return fn(s.tx)
	}
	s.root.mu.Lock()
	defer s.root.mu.Unlock()
	return fn(s.root.state)
}

type memoryCompanies struct{ s *MemoryStore }

func (r *memoryCompanies) Create(_ context.Context, company *models.Company) error {
	return r.s.with(func(st *memoryState) error {
		if company.GSTNumber != nil {
			for _, c := range st.companies {
				if c.GSTNumber != nil && *c.GSTNumber == *company.GSTNumber {
					return ErrDuplicate
				}
			}
		}
		if company.ID == uuid.Nil {
			company.ID = uuid.New()
		}
		company.CreatedAt = now()
		company.UpdatedAt = company.CreatedAt
		st.companies[company.ID] = *company
		return nil
	})
}

func (r *memoryCompanies) GetByID(_ context.Context, id uuid.UUID) (*models.Company, error) {
	var out *models.Company
	err := r.s.with(func(st *memoryState) error {
		c, ok := st.companies[id]
		if !ok {
			return ErrNotFound
		}
		out = &c
		return nil
	})
	return out, err
}

func (r *memoryCompanies) GetByGSTNumber(_ context.Context, gstNumber string) (*models.Company, error) {
	var out *models.Company
	err := r.s.with(func(st *memoryState) error {
		for _, c := range st.companies {
			if c.GSTNumber != nil && *c.GSTNumber == gstNumber {
				out = &c
				return nil
			}
		}
		return ErrNotFound
	})
	return out, err
}

func (r *memoryCompanies) List(_ context.Context, approved *bool) ([]models.Company, error) {
	out := []models.Company{}
	err := r.s.with(func(st *memoryState) error {
		for _, c := range st.companies {
			if approved == nil || c.IsApproved == *approved {
				out = append(out, c)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, err
}

func (r *memoryCompanies) UpdateStatus(_ context.Context, id uuid.UUID, approved, active bool) error {
	return r.s.with(func(st *memoryState) error {
		c, ok := st.companies[id]
		if !ok {
			return ErrNotFound
		}
		c.IsApproved = approved
		c.IsActive = active
		c.UpdatedAt = now()
		st.companies[id] = c
		return nil
	})
}

func (r *memoryCompanies) UpdateProfile(_ context.Context, company *models.Company) error {
	return r.s.with(func(st *memoryState) error {
		c, ok := st.companies[company.ID]
		if !ok {
			return ErrNotFound
		}
		if company.GSTNumber != nil {
			for id, other := range st.companies {
				if id != company.ID && other.GSTNumber != nil && *other.GSTNumber == *company.GSTNumber {
					return ErrDuplicate
				}
			}
		}
		company.UpdatedAt = now()
		c.Name = company.Name
		c.GSTNumber = company.GSTNumber
		c.ContactEmail = company.ContactEmail
		c.ContactPhone = company.ContactPhone
		c.UpdatedAt = company.UpdatedAt
		st.companies[company.ID] = c
		return nil
	})
}

type memoryUsers struct{ s *MemoryStore }

func (r *memoryUsers) Create(_ context.Context, user *models.User) error {
	return r.s.with(func(st *memoryState) error {
		for _, u := range st.users {
			if strings.EqualFold(u.Username, user.Username) {
				return ErrDuplicate
			}
		}
		if user.ID == uuid.Nil {
			user.ID = uuid.New()
		}
		user.CreatedAt = now()
		user.UpdatedAt = user.CreatedAt
		st.users[user.ID] = *user
		return nil
	})
}

func (r *memoryUsers) GetByUsername(_ context.Context, username string) (*models.User, error) {
	var out *models.User
	err := r.s.with(func(st *memoryState) error {
		for _, u := range st.users {
			if u.Username == username {
				out = &u
				return nil
			}
		}
		return ErrNotFound
	})
	return out, err
}

type memoryCustomers struct{ s *MemoryStore }

func (r *memoryCustomers) Create(_ context.Context, customer *models.Customer) error {
	return r.s.with(func(st *memoryState) error {
		if customer.ID == uuid.Nil {
			customer.ID = uuid.New()
		}
		customer.CreatedAt = now()
		customer.UpdatedAt = customer.CreatedAt
		st.customers[customer.ID] = *customer
		return nil
	})
}

func (r *memoryCustomers) GetByID(_ context.Context, scope models.TenantScope, id uuid.UUID) (*models.Customer, error) {
	var out *models.Customer
	err := r.s.with(func(st *memoryState) error {
		c, ok := st.customers[id]
		if !ok {
			return ErrNotFound
		}
		if !scope.Owns(c.CompanyID) {
			return ErrOutsideTenant
		}
		out = &c
		return nil
	})
	return out, err
}

func (r *memoryCustomers) ListByCompany(_ context.Context, companyID uuid.UUID) ([]models.Customer, error) {
	out := []models.Customer{}
	err := r.s.with(func(st *memoryState) error {
		for _, c := range st.customers {
			if c.CompanyID == companyID {
				out = append(out, c)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].CustomerName < out[j].CustomerName })
	return out, err
}

type memoryInvoices struct{ s *MemoryStore }

func (r *memoryInvoices) Create(_ context.Context, invoice *models.Invoice) error {
	return r.s.with(func(st *memoryState) error {
		if invoice.ID == uuid.Nil {
			invoice.ID = uuid.New()
		}
		invoice.CreatedAt = now()
		invoice.UpdatedAt = invoice.CreatedAt
		st.invoices[invoice.ID] = *invoice
		return nil
	})
}

func (r *memoryInvoices) GetByID(_ context.Context, scope models.TenantScope, id uuid.UUID) (*models.Invoice, error) {
	var out *models.Invoice
	err := r.s.with(func(st *memoryState) error {
		inv, ok := st.invoices[id]
		if !ok {
			return ErrNotFound
		}
		if !scope.Owns(inv.CompanyID) {
			return ErrOutsideTenant
		}
		out = &inv
		return nil
	})
	return out, err
}

// GetByIDForUpdate needs no extra locking: a transaction already holds the store lock.
func (r *memoryInvoices) GetByIDForUpdate(ctx context.Context, scope models.TenantScope, id uuid.UUID) (*models.Invoice, error) {
	return r.GetByID(ctx, scope, id)
}

func (r *memoryInvoices) UpdateGuarded(_ context.Context, invoice *models.Invoice, expected models.InvoiceStatus) error {
	return r.s.with(func(st *memoryState) error {
		current, ok := st.invoices[invoice.ID]
		if !ok || current.CompanyID != invoice.CompanyID || current.Status != expected {
			return ErrStaleWrite
		}
		invoice.UpdatedAt = now()
		updated := current
		updated.CustomerID = invoice.CustomerID
		updated.InvoiceNumber = invoice.InvoiceNumber
		updated.InvoiceDate = invoice.InvoiceDate
		updated.DueDate = invoice.DueDate
		updated.Amount = invoice.Amount
		updated.ExtractedData = invoice.ExtractedData
		updated.Status = invoice.Status
		updated.UpdatedAt = invoice.UpdatedAt
		st.invoices[invoice.ID] = updated
		return nil
	})
}

func (r *memoryInvoices) ListByCompany(_ context.Context, companyID uuid.UUID, status *models.InvoiceStatus) ([]models.Invoice, error) {
	out := []models.Invoice{}
	err := r.s.with(func(st *memoryState) error {
		for _, inv := range st.invoices {
			if inv.CompanyID != companyID {
				continue
			}
			if status != nil && inv.Status != *status {
				continue
			}
			out = append(out, inv)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, err
}

func (r *memoryInvoices) ListPendingForReminder(_ context.Context, companyID *uuid.UUID) ([]models.InvoiceReminder, error) {
	out := []models.InvoiceReminder{}
	err := r.s.with(func(st *memoryState) error {
		for _, inv := range st.invoices {
			if inv.Status != models.InvoiceStatusPending {
				continue
			}
			if companyID != nil && inv.CompanyID != *companyID {
				continue
			}
			row := models.InvoiceReminder{
				InvoiceID:     inv.ID,
				InvoiceNumber: inv.InvoiceNumber,
				DueDate:       inv.DueDate,
				Amount:        inv.Amount,
				CompanyID:     inv.CompanyID,
			}
			if inv.CustomerID != nil {
				if c, ok := st.customers[*inv.CustomerID]; ok && c.CompanyID == inv.CompanyID {
					name := c.CustomerName
					row.CustomerName = &name
					row.CustomerEmail = c.Email
					row.CustomerPhone = c.Phone
				}
			}
			out = append(out, row)
		}
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool { return reminderLess(out[i], out[j]) })
	return out, err
}

// reminderLess orders by due date ascending with missing dates last, like Postgres ASC.
func reminderLess(a, b models.InvoiceReminder) bool {
	switch {
	case a.DueDate == nil && b.DueDate == nil:
	case a.DueDate == nil:
		return false
	case b.DueDate == nil:
		return true
	case !a.DueDate.Equal(b.DueDate.Time):
		return a.DueDate.Before(b.DueDate.Time)
	}
	return a.InvoiceID.String() < b.InvoiceID.String()
}

func (r *memoryInvoices) SummarizeByStatus(_ context.Context, companyID uuid.UUID) ([]models.StatusSummary, error) {
	byStatus := map[models.InvoiceStatus]*models.StatusSummary{}
	err := r.s.with(func(st *memoryState) error {
		for _, inv := range st.invoices {
			if inv.CompanyID != companyID {
				continue
			}
			row, ok := byStatus[inv.Status]
			if !ok {
				row = &models.StatusSummary{Status: inv.Status, TotalAmount: decimal.Zero}
				byStatus[inv.Status] = row
			}
			row.Count++
			if inv.Amount.Valid {
				row.TotalAmount = row.TotalAmount.Add(inv.Amount.Decimal)
			}
		}
		return nil
	})
	out := make([]models.StatusSummary, 0, len(byStatus))
	for _, row := range byStatus {
		out = append(out, *row)
	}
	return out, err
}

func (r *memoryInvoices) SummarizeOverdue(_ context.Context, companyID uuid.UUID, today models.Date) (int, decimal.Decimal, error) {
	count, total := 0, decimal.Zero
	err := r.s.with(func(st *memoryState) error {
		for _, inv := range st.invoices {
			if inv.CompanyID != companyID || inv.DueDate == nil || !inv.DueDate.Before(today.Time) {
				continue
			}
			if inv.Status != models.InvoiceStatusPending && inv.Status != models.InvoiceStatusPartial {
				continue
			}
			count++
			if inv.Amount.Valid {
				total = total.Add(inv.Amount.Decimal)
			}
		}
		return nil
	})
	return count, total, err
}

type memoryPayments struct{ s *MemoryStore }

func (r *memoryPayments) Create(_ context.Context, payment *models.Payment) error {
	return r.s.with(func(st *memoryState) error {
		if payment.ID == uuid.Nil {
			payment.ID = uuid.New()
		}
		payment.CreatedAt = now()
		st.payments = append(st.payments, *payment)
		return nil
	})
}

func (r *memoryPayments) ListByInvoice(_ context.Context, invoiceID uuid.UUID) ([]models.Payment, error) {
	out := []models.Payment{}
	err := r.s.with(func(st *memoryState) error {
		for _, p := range st.payments {
			if p.InvoiceID == invoiceID {
				out = append(out, p)
			}
		}
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].PaymentDate.Before(out[j].PaymentDate.Time) })
	return out, err
}

func (r *memoryPayments) ListByCompany(_ context.Context, companyID uuid.UUID) ([]models.Payment, error) {
	out := []models.Payment{}
	err := r.s.with(func(st *memoryState) error {
		for _, p := range st.payments {
			if inv, ok := st.invoices[p.InvoiceID]; ok && inv.CompanyID == companyID {
				out = append(out, p)
			}
		}
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].PaymentDate.After(out[j].PaymentDate.Time) })
	return out, err
}

func (r *memoryPayments) SumByInvoice(_ context.Context, invoiceID uuid.UUID) (decimal.Decimal, error) {
	total := decimal.Zero
	err := r.s.with(func(st *memoryState) error {
		for _, p := range st.payments {
			if p.InvoiceID == invoiceID {
				total = total.Add(p.AmountReceived)
			}
		}
		return nil
	})
	return total, err
}

type memoryReminderLogs struct{ s *MemoryStore }

func (r *memoryReminderLogs) Create(_ context.Context, log *models.ReminderLog) error {
	return r.s.with(func(st *memoryState) error {
		if log.ID == uuid.Nil {
			log.ID = uuid.New()
		}
		log.CreatedAt = now()
		st.reminderLogs = append(st.reminderLogs, *log)
		return nil
	})
}

func (r *memoryReminderLogs) ListByInvoice(_ context.Context, invoiceID uuid.UUID) ([]models.ReminderLog, error) {
	out := []models.ReminderLog{}
	err := r.s.with(func(st *memoryState) error {
		for _, l := range st.reminderLogs {
			if l.InvoiceID == invoiceID {
				out = append(out, l)
			}
		}
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].SentDate.After(out[j].SentDate) })
	return out, err
}

type memoryDocuments struct{ s *MemoryStore }

func (r *memoryDocuments) Create(_ context.Context, doc *models.Document) error {
	return r.s.with(func(st *memoryState) error {
		if doc.InvoiceID != nil {
			inv, ok := st.invoices[*doc.InvoiceID]
			if !ok {
				return ErrNotFound
			}
			if inv.CompanyID != doc.CompanyID {
				return ErrOutsideTenant
			}
		}
		if doc.ID == uuid.Nil {
			doc.ID = uuid.New()
		}
		doc.CreatedAt = now()
		doc.UpdatedAt = doc.CreatedAt
		st.documents[doc.ID] = *doc
		return nil
	})
}

func (r *memoryDocuments) GetByID(_ context.Context, scope models.TenantScope, id uuid.UUID) (*models.Document, error) {
	var out *models.Document
	err := r.s.with(func(st *memoryState) error {
		d, ok := st.documents[id]
		if !ok {
			return ErrNotFound
		}
		if !scope.Owns(d.CompanyID) {
			return ErrOutsideTenant
		}
		out = &d
		return nil
	})
	return out, err
}

func (r *memoryDocuments) ListByCompany(_ context.Context, companyID uuid.UUID, invoiceID *uuid.UUID) ([]models.Document, error) {
	out := []models.Document{}
	err := r.s.with(func(st *memoryState) error {
		for _, d := range st.documents {
			if d.CompanyID != companyID {
				continue
			}
			if invoiceID != nil && (d.InvoiceID == nil || *d.InvoiceID != *invoiceID) {
				continue
			}
			out = append(out, d)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, err
}
