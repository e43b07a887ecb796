package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shashi-bhusan/fitpreneurs/internal/domain"
	"github.com/shashi-bhusan/fitpreneurs/internal/repository"
)

type Employees struct{ s *Store }

func (r Employees) Create(_ context.Context, e domain.Employee) (*domain.Employee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.employees[e.ID]; ok {
		return nil, repository.ErrDuplicate
	}
	r.s.employees[e.ID] = e
	return &e, nil
}

func (r Employees) Get(_ context.Context, id uuid.UUID) (*domain.Employee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.employees[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &e, nil
}

func (r Employees) List(_ context.Context, f repository.EmployeeFilter) ([]domain.Employee, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	search := strings.ToLower(strings.TrimSpace(f.Search))
	var matched []domain.Employee
	for _, e := range r.s.employees {
		if search != "" && !containsAny(search, e.Fullname, e.EmailID, e.MobileNumber, e.Role) {
			continue
		}
		matched = append(matched, e)
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID.String() < matched[j].ID.String()
	})
	return paginate(matched, f.Limit, f.Offset), len(matched), nil
}

func (r Employees) Update(_ context.Context, e domain.Employee) (*domain.Employee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.employees[e.ID]; !ok {
		return nil, repository.ErrNotFound
	}
	r.s.employees[e.ID] = e
	return &e, nil
}

// Delete removes the employee and its assignments, like ON DELETE CASCADE.
func (r Employees) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.employees[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.employees, id)
	for cid, c := range r.s.customers {
		kept := c.AssignedEmployees[:0:0]
		for _, e := range c.AssignedEmployees {
			if e != id {
				kept = append(kept, e)
			}
		}
		c.AssignedEmployees = kept
		r.s.customers[cid] = c
	}
	return nil
}

func (r Employees) Missing(_ context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var missing []uuid.UUID
	for _, id := range ids {
		if _, ok := r.s.employees[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

type Users struct{ s *Store }

func (r Users) Create(_ context.Context, p repository.CreateUserParams) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	email := strings.ToLower(p.Email)
	for _, u := range r.s.users {
		if u.Email == email {
			return nil, repository.ErrDuplicate
		}
	}
	now := time.Now()
	u := domain.User{
		ID:           uuid.New(),
		Name:         p.Name,
		Email:        email,
		Role:         p.Role,
		IsGoogle:     p.IsGoogle,
		PasswordHash: p.PasswordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	r.s.users[u.ID] = u
	return &u, nil
}

func (r Users) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	email = strings.ToLower(email)
	for _, u := range r.s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r Users) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

type Notifications struct{ s *Store }

func (r Notifications) Create(_ context.Context, n domain.Notification) (*domain.Notification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, other := range r.s.notifications {
		if other.Kind == n.Kind && other.Channel == n.Channel && sameCustomer(other.CustomerID, n.CustomerID) &&
			other.EventDate.Equal(n.EventDate) {
			return nil, repository.ErrDuplicate
		}
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	r.s.notifications[n.ID] = n
	return &n, nil
}

func (r Notifications) List(_ context.Context, f repository.NotificationFilter) ([]domain.Notification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.Notification
	for _, n := range r.s.notifications {
		if f.UnreadOnly && n.ReadAt != nil {
			continue
		}
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID.String() > out[j].ID.String()
	})
	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}
	return paginate(out, limit, 0), nil
}

func (r Notifications) MarkRead(_ context.Context, id uuid.UUID, at time.Time) (*domain.Notification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n, ok := r.s.notifications[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if n.ReadAt == nil {
		n.ReadAt = &at
		r.s.notifications[id] = n
	}
	return &n, nil
}

func sameCustomer(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return false
	}
	return *a == *b
}
