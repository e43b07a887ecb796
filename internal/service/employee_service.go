package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shashi-bhusan/fitpreneurs/internal/domain"
	"github.com/shashi-bhusan/fitpreneurs/internal/metrics"
	"github.com/shashi-bhusan/fitpreneurs/internal/repository"
)

type EmployeeService struct {
	Employees EmployeeStore
	Customers CustomerStore
	Logger    *slog.Logger
	Clock     func() time.Time
}

type EmployeeInput struct {
	Fullname     string
	EmailID      string
	MobileNumber string
	Address      string
	Role         string
	DateOfBirth  *time.Time
	JoinDate     *time.Time
	Active       *bool
}

func (s EmployeeService) now() time.Time { return clock(s.Clock).now() }

func (s EmployeeService) Create(ctx context.Context, in EmployeeInput) (*domain.Employee, error) {
	now := s.now()
	e := domain.Employee{
		ID:        uuid.New(),
		JoinDate:  now,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	applyEmployeeInput(&e, in)
	out, err := s.Employees.Create(ctx, e)
	if err != nil {
		return nil, fmt.Errorf("create employee: %w", err)
	}
	return out, nil
}

func (s EmployeeService) Get(ctx context.Context, id uuid.UUID) (*domain.Employee, error) {
	return s.Employees.Get(ctx, id)
}

type EmployeePage struct {
	Employees []domain.Employee `json:"employees"`
	Total     int               `json:"total"`
	Page      int               `json:"page"`
	Pages     int               `json:"pages"`
}

func (s EmployeeService) List(ctx context.Context, search string, page, limit int, all bool) (*EmployeePage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageSize
	}
	f := repository.EmployeeFilter{Search: search}
	if !all {
		f.Limit = limit
		f.Offset = (page - 1) * limit
	}
	items, total, err := s.Employees.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	if items == nil {
		items = []domain.Employee{}
	}
	out := &EmployeePage{Employees: items, Total: total, Page: page, Pages: 1}
	if !all {
		out.Pages = (total + limit - 1) / limit
	}
	return out, nil
}

func (s EmployeeService) Update(ctx context.Context, id uuid.UUID, in EmployeeInput) (*domain.Employee, error) {
	e, err := s.Employees.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	applyEmployeeInput(e, in)
	e.UpdatedAt = s.now()
	return s.Employees.Update(ctx, *e)
}

func (s EmployeeService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.Employees.Delete(ctx, id)
}

// AssignedCustomers lists the customers an employee trains.
func (s EmployeeService) AssignedCustomers(ctx context.Context, id uuid.UUID) ([]domain.Customer, error) {
	if _, err := s.Employees.Get(ctx, id); err != nil {
		return nil, err
	}
	items, err := s.Customers.ListByEmployee(ctx, id)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.Customer{}
	}
	return items, nil
}

type AssignInput struct {
	CustomerID  uuid.UUID
	EmployeeID  uuid.UUID
	SessionType string
	SessionCost int64
	PaidCost    int64
	PaymentMode domain.PaymentMode
	PaymentDate *time.Time
}

// Assign attaches a personal-training add-on and its trainer to a customer.
func (s EmployeeService) Assign(ctx context.Context, in AssignInput) (*domain.Customer, error) {
	if _, err := s.Employees.Get(ctx, in.EmployeeID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownEmployee, in.EmployeeID)
		}
		return nil, err
	}
	now := s.now()
	out, err := s.Customers.Update(ctx, in.CustomerID, func(c *domain.Customer) error {
		return c.AssignTrainer(domain.TrainerAssignment{
			EmployeeID:  in.EmployeeID,
			SessionType: in.SessionType,
			SessionCost: in.SessionCost,
			PaidCost:    in.PaidCost,
			PaymentMode: in.PaymentMode,
			PaymentDate: in.PaymentDate,
		}, now)
	})
	if err != nil {
		return nil, err
	}
	if in.PaidCost > 0 {
		metrics.RecordPayment(string(domain.PaymentSession), string(out.Payments[len(out.Payments)-1].Mode), in.PaidCost)
	}
	metrics.RecordLifecycle("assign")
	if s.Logger != nil {
		s.Logger.Info("trainer assigned", "customer_id", in.CustomerID, "employee_id", in.EmployeeID, "session_cost", in.SessionCost)
	}
	return out, nil
}

func applyEmployeeInput(e *domain.Employee, in EmployeeInput) {
	e.Fullname = strings.TrimSpace(in.Fullname)
	e.EmailID = strings.ToLower(strings.TrimSpace(in.EmailID))
	e.MobileNumber = strings.TrimSpace(in.MobileNumber)
	e.Address = in.Address
	e.Role = strings.TrimSpace(in.Role)
	if in.DateOfBirth != nil {
		e.DateOfBirth = in.DateOfBirth
	}
	if in.JoinDate != nil {
		e.JoinDate = *in.JoinDate
	}
	if in.Active != nil {
		e.Active = *in.Active
	}
}
