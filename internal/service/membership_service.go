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

var ErrUnknownEmployee = errors.New("unknown employee")

const (
	defaultPageSize   = 8
	defaultWindowDays = 7
)

// MembershipService orchestrates the customer lifecycle: registration, plan
// changes, status transitions, the payment ledger and reporting queries.
type MembershipService struct {
	Customers    CustomerStore
	Employees    EmployeeStore
	Logger       *slog.Logger
	Location     *time.Location
	MinStartDate time.Time
	Currency     string
	Clock        func() time.Time
}

func (s MembershipService) now() time.Time {
	return clock(s.Clock).now().In(s.loc())
}

func (s MembershipService) loc() *time.Location {
	if s.Location == nil {
		return time.Local
	}
	return s.Location
}

func (s MembershipService) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}

func (s MembershipService) Register(ctx context.Context, in domain.Registration) (*domain.Customer, error) {
	if err := s.checkEmployees(ctx, in.AssignedEmployees); err != nil {
		return nil, err
	}
	c, err := domain.NewCustomer(in, s.MinStartDate, s.now())
	if err != nil {
		return nil, err
	}
	out, err := s.Customers.Create(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("create customer: %w", err)
	}

	metrics.RecordRegistration()
	for _, p := range out.Payments {
		metrics.RecordPayment(string(p.Type), string(p.Mode), p.Amount)
	}
	s.logger().Info("customer registered", "customer_id", out.ID, "plan", out.Plan, "initial_payment", out.AmountPaid)
	return out, nil
}

func (s MembershipService) Get(ctx context.Context, id uuid.UUID) (*domain.Customer, error) {
	return s.Customers.Get(ctx, id)
}

// ListCustomersInput mirrors the dashboard's query parameters.
type ListCustomersInput struct {
	Search string
	Filter string
	Page   int
	Limit  int
	All    bool
}

type CustomerPage struct {
	Customers []domain.Customer `json:"customers"`
	Total     int               `json:"total"`
	Page      int               `json:"page"`
	Pages     int               `json:"pages"`
}

func (s MembershipService) List(ctx context.Context, in ListCustomersInput) (*CustomerPage, error) {
	f := repository.CustomerFilter{Search: in.Search}
	switch in.Filter {
	case "last7Days":
		since := s.now().AddDate(0, 0, -7)
		f.CreatedSince = &since
	case "last30Days":
		since := s.now().AddDate(0, 0, -30)
		f.CreatedSince = &since
	}

	page, limit := in.Page, in.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageSize
	}
	if !in.All {
		f.Limit = limit
		f.Offset = (page - 1) * limit
	}

	items, total, err := s.Customers.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	if items == nil {
		items = []domain.Customer{}
	}
	out := &CustomerPage{Customers: items, Total: total, Page: page, Pages: 1}
	if !in.All {
		out.Pages = (total + limit - 1) / limit
	}
	return out, nil
}

// ListFiltered returns every customer matching f, used by exports.
func (s MembershipService) ListFiltered(ctx context.Context, f repository.CustomerFilter) ([]domain.Customer, error) {
	f.Limit, f.Offset = 0, 0
	items, _, err := s.Customers.List(ctx, f)
	return items, err
}

// ProfileUpdate carries the non-financial fields editable on a customer. Nil
// fields are left untouched.
type ProfileUpdate struct {
	Fullname          *string
	EmailID           *string
	MobileNumber      *string
	DateOfBirth       *time.Time
	Address           *string
	Time              *string
	PaymentMode       *domain.PaymentMode
	AssignedEmployees *[]uuid.UUID
}

func (s MembershipService) UpdateProfile(ctx context.Context, id uuid.UUID, in ProfileUpdate) (*domain.Customer, error) {
	if in.AssignedEmployees != nil {
		if err := s.checkEmployees(ctx, *in.AssignedEmployees); err != nil {
			return nil, err
		}
	}
	if in.PaymentMode != nil && !in.PaymentMode.Valid() {
		return nil, domain.ErrInvalidPaymentMode
	}
	now := s.now()
	return s.Customers.Update(ctx, id, func(c *domain.Customer) error {
		if in.Fullname != nil {
			c.Fullname = strings.TrimSpace(*in.Fullname)
		}
		if in.EmailID != nil {
			c.EmailID = strings.ToLower(strings.TrimSpace(*in.EmailID))
		}
		if in.MobileNumber != nil {
			c.MobileNumber = strings.TrimSpace(*in.MobileNumber)
		}
		if in.DateOfBirth != nil {
			dob := *in.DateOfBirth
			c.DateOfBirth = &dob
		}
		if in.Address != nil {
			c.Address = *in.Address
		}
		if in.Time != nil {
			c.Time = *in.Time
		}
		if in.PaymentMode != nil {
			c.PaymentMode = *in.PaymentMode
		}
		if in.AssignedEmployees != nil {
			c.AssignedEmployees = domain.DedupeIDs(*in.AssignedEmployees)
		}
		c.UpdatedAt = now
		return nil
	})
}

type UpgradeInput struct {
	Plan        string
	PlanDays    int
	TotalAmount int64
}

func (s MembershipService) Upgrade(ctx context.Context, id uuid.UUID, in UpgradeInput) (*domain.Customer, error) {
	now := s.now()
	out, err := s.Customers.Update(ctx, id, func(c *domain.Customer) error {
		return c.Upgrade(in.Plan, in.PlanDays, in.TotalAmount, now)
	})
	if err != nil {
		return nil, err
	}
	metrics.RecordLifecycle("upgrade")
	s.logger().Info("plan upgraded", "customer_id", id, "plan", out.Plan, "amount", in.TotalAmount)
	return out, nil
}

func (s MembershipService) Renew(ctx context.Context, id uuid.UUID, in domain.Renewal) (*domain.Customer, error) {
	now := s.now()
	out, err := s.Customers.Update(ctx, id, func(c *domain.Customer) error {
		return c.Renew(in, now)
	})
	if err != nil {
		return nil, err
	}
	metrics.RecordLifecycle("renew")
	s.logger().Info("membership renewed", "customer_id", id, "plan", out.Plan, "end", out.MembershipEndDate)
	return out, nil
}

func (s MembershipService) UpdateStatus(ctx context.Context, id uuid.UUID, in domain.StatusChange) (*domain.Customer, error) {
	now := s.now()
	var fee *domain.Payment
	out, err := s.Customers.Update(ctx, id, func(c *domain.Customer) error {
		before := len(c.Payments)
		if err := c.ChangeStatus(in, now); err != nil {
			return err
		}
		if len(c.Payments) > before {
			p := c.Payments[len(c.Payments)-1]
			fee = &p
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.RecordLifecycle(strings.ToLower(in.Status))
	if fee != nil {
		metrics.RecordPayment(string(fee.Type), string(fee.Mode), fee.Amount)
	}
	s.logger().Info("status changed", "customer_id", id, "status", out.Status)
	return out, nil
}

func (s MembershipService) AddPayment(ctx context.Context, id uuid.UUID, in domain.PaymentInput) (*domain.Customer, *domain.Payment, error) {
	now := s.now()
	var recorded domain.Payment
	out, err := s.Customers.Update(ctx, id, func(c *domain.Customer) error {
		p, err := c.RecordPayment(in, now)
		recorded = p
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	metrics.RecordPayment(string(recorded.Type), string(recorded.Mode), recorded.Amount)
	s.logger().Info("payment recorded", "customer_id", id, "amount", recorded.Amount, "type", recorded.Type, "mode", recorded.Mode)
	return out, &recorded, nil
}

type PaymentHistory struct {
	CustomerID  uuid.UUID        `json:"customerId"`
	Fullname    string           `json:"fullname"`
	Payments    []domain.Payment `json:"payments"`
	TotalAmount int64            `json:"totalAmount"`
	AmountPaid  int64            `json:"amountPaid"`
	PlanDebt    int64            `json:"planDebt"`
	SessionDebt int64            `json:"sessionDebt"`
	TotalDebt   int64            `json:"totalDebt"`
	TotalPaid   int64            `json:"totalPaid"`
}

// PaymentHistory returns the ledger newest first. TotalPaid is summed from the
// ledger so it can be compared with the stored AmountPaid.
func (s MembershipService) PaymentHistory(ctx context.Context, id uuid.UUID) (*PaymentHistory, error) {
	c, err := s.Customers.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &PaymentHistory{
		CustomerID:  c.ID,
		Fullname:    c.Fullname,
		Payments:    domain.NewestFirst(c.Payments),
		TotalAmount: c.TotalAmount,
		AmountPaid:  c.AmountPaid,
		PlanDebt:    c.PlanDebt,
		SessionDebt: c.SessionDebt,
		TotalDebt:   c.TotalDebt(),
		TotalPaid:   domain.LedgerTotal(c.Payments),
	}, nil
}

// RevenueMonth resolves the reporting month, defaulting to the current one.
func (s MembershipService) RevenueMonth(year, month int) (int, time.Month, error) {
	now := s.now()
	if year == 0 && month == 0 {
		return now.Year(), now.Month(), nil
	}
	if year == 0 {
		year = now.Year()
	}
	if month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("%w: month must be between 1 and 12", ErrInvalidInput)
	}
	return year, time.Month(month), nil
}

// Revenue aggregates every payment dated within the month.
func (s MembershipService) Revenue(ctx context.Context, year int, month time.Month) (*domain.RevenueReport, []domain.CustomerPayment, error) {
	from, to := domain.MonthWindow(year, month, s.loc())
	entries, err := s.Customers.ListPayments(ctx, from, to)
	if err != nil {
		return nil, nil, fmt.Errorf("list payments: %w", err)
	}
	payments := make([]domain.Payment, len(entries))
	for i, e := range entries {
		payments[i] = e.Payment
	}
	report := domain.AggregateRevenue(payments, from, to)
	report.Currency = s.Currency
	return &report, entries, nil
}

func (s MembershipService) Expiring(ctx context.Context, days int) ([]domain.Customer, error) {
	if days <= 0 {
		days = defaultWindowDays
	}
	from, to := domain.ExpiryWindow(s.now(), days, s.loc())
	items, err := s.Customers.ListExpiring(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("list expiring: %w", err)
	}
	if items == nil {
		items = []domain.Customer{}
	}
	return items, nil
}

type UpcomingBirthday struct {
	Customer     domain.Customer `json:"customer"`
	NextBirthday time.Time       `json:"nextBirthday"`
	DaysUntil    int             `json:"daysUntil"`
}

func (s MembershipService) Birthdays(ctx context.Context, days int) ([]UpcomingBirthday, error) {
	if days <= 0 {
		days = defaultWindowDays
	}
	candidates, err := s.Customers.ListWithBirthday(ctx)
	if err != nil {
		return nil, fmt.Errorf("list birthdays: %w", err)
	}
	now := s.now()
	today := domain.DayStart(now, s.loc())
	out := []UpcomingBirthday{}
	for _, c := range candidates {
		if c.DateOfBirth == nil {
			continue
		}
		next, ok := domain.BirthdayWithin(*c.DateOfBirth, now, days, s.loc())
		if !ok {
			continue
		}
		out = append(out, UpcomingBirthday{
			Customer:     c,
			NextBirthday: next,
			DaysUntil:    daysBetween(today, next),
		})
	}
	sortBirthdays(out)
	return out, nil
}

func (s MembershipService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.Customers.Delete(ctx, id); err != nil {
		return err
	}
	s.logger().Info("customer deleted", "customer_id", id)
	return nil
}

func (s MembershipService) DeleteAll(ctx context.Context) (int64, error) {
	n, err := s.Customers.DeleteAll(ctx)
	if err != nil {
		return 0, err
	}
	s.logger().Warn("all customers deleted", "count", n)
	return n, nil
}

func (s MembershipService) checkEmployees(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	missing, err := s.Employees.Missing(ctx, ids)
	if err != nil {
		return fmt.Errorf("check employees: %w", err)
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrUnknownEmployee, missing[0])
	}
	return nil
}
