package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shashi-bhusan/fitpreneurs/internal/domain"
	"github.com/shashi-bhusan/fitpreneurs/internal/repository"
)

// CustomerStore persists customers with their ledger, plan history and
// trainer assignments. Update must run fn under an exclusive lock on the row.
type CustomerStore interface {
	Create(ctx context.Context, c domain.Customer) (*domain.Customer, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Customer, error)
	List(ctx context.Context, f repository.CustomerFilter) ([]domain.Customer, int, error)
	Update(ctx context.Context, id uuid.UUID, fn func(*domain.Customer) error) (*domain.Customer, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteAll(ctx context.Context) (int64, error)
	ListExpiring(ctx context.Context, from, to time.Time) ([]domain.Customer, error)
	ListWithBirthday(ctx context.Context) ([]domain.Customer, error)
	ListByEmployee(ctx context.Context, employeeID uuid.UUID) ([]domain.Customer, error)
	ListPayments(ctx context.Context, from, to time.Time) ([]domain.CustomerPayment, error)
}

type EmployeeStore interface {
	Create(ctx context.Context, e domain.Employee) (*domain.Employee, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Employee, error)
	List(ctx context.Context, f repository.EmployeeFilter) ([]domain.Employee, int, error)
	Update(ctx context.Context, e domain.Employee) (*domain.Employee, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Missing(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error)
}

type UserStore interface {
	Create(ctx context.Context, p repository.CreateUserParams) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

type NotificationStore interface {
	Create(ctx context.Context, n domain.Notification) (*domain.Notification, error)
	List(ctx context.Context, f repository.NotificationFilter) ([]domain.Notification, error)
	MarkRead(ctx context.Context, id uuid.UUID, at time.Time) (*domain.Notification, error)
}

type clock func() time.Time

func (c clock) now() time.Time {
	if c == nil {
		return time.Now()
	}
	return c()
}
