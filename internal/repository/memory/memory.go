// Package memory provides mutex-guarded in-process stores with the same
// semantics as the Postgres repositories. Used by STORE_DRIVER=memory and tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shashi-bhusan/fitpreneurs/internal/domain"
	"github.com/shashi-bhusan/fitpreneurs/internal/repository"
)

type Store struct {
	mu            sync.Mutex
	customers     map[uuid.UUID]domain.Customer
	employees     map[uuid.UUID]domain.Employee
	users         map[uuid.UUID]domain.User
	notifications map[uuid.UUID]domain.Notification
}

func New() *Store {
	return &Store{
		customers:     map[uuid.UUID]domain.Customer{},
		employees:     map[uuid.UUID]domain.Employee{},
		users:         map[uuid.UUID]domain.User{},
		notifications: map[uuid.UUID]domain.Notification{},
	}
}

func (s *Store) Customers() Customers         { return Customers{s: s} }
func (s *Store) Employees() Employees         { return Employees{s: s} }
func (s *Store) Users() Users                 { return Users{s: s} }
func (s *Store) Notifications() Notifications { return Notifications{s: s} }

// Health always succeeds; the store lives in process.
func (s *Store) Health(context.Context) error { return nil }

type Customers struct{ s *Store }

func (r Customers) Create(_ context.Context, c domain.Customer) (*domain.Customer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.customers[c.ID]; ok {
		return nil, repository.ErrDuplicate
	}
	if err := r.s.checkCustomer(c); err != nil {
		return nil, err
	}
	stored := normalizeCustomer(c.Clone())
	r.s.customers[c.ID] = stored
	out := stored.Clone()
	return &out, nil
}

func (r Customers) Get(_ context.Context, id uuid.UUID) (*domain.Customer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.customers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := c.Clone()
	return &out, nil
}

func (r Customers) List(_ context.Context, f repository.CustomerFilter) ([]domain.Customer, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	search := strings.ToLower(strings.TrimSpace(f.Search))

	var matched []domain.Customer
	for _, c := range r.s.customers {
		if search != "" && !containsAny(search, c.Fullname, c.EmailID, c.MobileNumber, c.Address) {
			continue
		}
		if f.CreatedSince != nil && c.CreatedAt.Before(*f.CreatedSince) {
			continue
		}
		if f.PaymentMode != "" && c.PaymentMode != f.PaymentMode {
			continue
		}
		if f.WithTrainer && c.SessionCost <= 0 && len(c.AssignedEmployees) == 0 {
			continue
		}
		matched = append(matched, c.Clone())
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID.String() < matched[j].ID.String()
	})
	return paginate(matched, f.Limit, f.Offset), len(matched), nil
}

func (r Customers) Update(_ context.Context, id uuid.UUID, fn func(*domain.Customer) error) (*domain.Customer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	current, ok := r.s.customers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	next := current.Clone()
	if err := fn(&next); err != nil {
		return nil, err
	}
	if len(next.Payments) < len(current.Payments) || len(next.PlanHistory) < len(current.PlanHistory) {
		return nil, fmt.Errorf("update customer %s: ledger is append-only", id)
	}
	next.ID = id
	if err := r.s.checkCustomer(next); err != nil {
		return nil, err
	}
	stored := normalizeCustomer(next.Clone())
	r.s.customers[id] = stored
	out := stored.Clone()
	return &out, nil
}

func (r Customers) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.customers[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.customers, id)
	r.s.detachNotifications(id)
	return nil
}

func (r Customers) DeleteAll(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := int64(len(r.s.customers))
	for id := range r.s.customers {
		r.s.detachNotifications(id)
	}
	r.s.customers = map[uuid.UUID]domain.Customer{}
	return n, nil
}

func (r Customers) ListExpiring(_ context.Context, from, to time.Time) ([]domain.Customer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.Customer
	for _, c := range r.s.customers {
		if c.Status == domain.StatusTransferred {
			continue
		}
		if c.MembershipEndDate.Before(from) || c.MembershipEndDate.After(to) {
			continue
		}
		out = append(out, c.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MembershipEndDate.Before(out[j].MembershipEndDate) })
	return out, nil
}

func (r Customers) ListWithBirthday(_ context.Context) ([]domain.Customer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.Customer
	for _, c := range r.s.customers {
		if c.DateOfBirth != nil {
			out = append(out, c.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Fullname < out[j].Fullname })
	return out, nil
}

func (r Customers) ListByEmployee(_ context.Context, employeeID uuid.UUID) ([]domain.Customer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.Customer
	for _, c := range r.s.customers {
		for _, e := range c.AssignedEmployees {
			if e == employeeID {
				out = append(out, c.Clone())
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Fullname < out[j].Fullname })
	return out, nil
}

func (r Customers) ListPayments(_ context.Context, from, to time.Time) ([]domain.CustomerPayment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.CustomerPayment
	for _, c := range r.s.customers {
		for _, p := range c.Payments {
			if p.Date.Before(from) || !p.Date.Before(to) {
				continue
			}
			out = append(out, domain.CustomerPayment{
				CustomerID:   c.ID,
				Fullname:     c.Fullname,
				MobileNumber: c.MobileNumber,
				Payment:      p,
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

// checkCustomer enforces the unique and foreign key constraints of the schema.
// Callers hold the lock.
func (s *Store) checkCustomer(c domain.Customer) error {
	for id, other := range s.customers {
		if id == c.ID {
			continue
		}
		if strings.EqualFold(other.EmailID, c.EmailID) || other.MobileNumber == c.MobileNumber {
			return repository.ErrDuplicate
		}
	}
	for _, e := range c.AssignedEmployees {
		if _, ok := s.employees[e]; !ok {
			return repository.ErrInvalidReference
		}
	}
	return nil
}

func (s *Store) detachNotifications(customerID uuid.UUID) {
	for id, n := range s.notifications {
		if n.CustomerID != nil && *n.CustomerID == customerID {
			n.CustomerID = nil
			s.notifications[id] = n
		}
	}
}

// normalizeCustomer mirrors the Postgres read path, which never returns nil slices.
func normalizeCustomer(c domain.Customer) domain.Customer {
	if c.Payments == nil {
		c.Payments = []domain.Payment{}
	}
	if c.PlanHistory == nil {
		c.PlanHistory = []domain.PlanPeriod{}
	}
	if c.AssignedEmployees == nil {
		c.AssignedEmployees = []uuid.UUID{}
	}
	return c
}

func containsAny(needle string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset > len(items) {
		offset = len(items)
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
