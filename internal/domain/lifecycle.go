package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Registration carries the fields of a new membership.
type Registration struct {
	Fullname            string
	EmailID             string
	MobileNumber        string
	DateOfBirth         *time.Time
	Address             string
	Time                string
	Plan                string
	PlanDays            int
	PlanCost            int64
	SessionType         string
	SessionCost         int64
	InitialPayment      int64
	PlanDebt            *int64
	SessionDebt         *int64
	PaymentMode         PaymentMode
	PaymentDate         *time.Time
	MembershipStartDate time.Time
	AssignedEmployees   []uuid.UUID
}

// NewCustomer builds a customer from a registration. Membership may not start
// before cutoff.
func NewCustomer(in Registration, cutoff, now time.Time) (Customer, error) {
	if in.MembershipStartDate.Before(cutoff) {
		return Customer{}, ErrStartBeforeCutoff
	}
	plan, err := NormalizePlan(in.Plan)
	if err != nil {
		return Customer{}, err
	}
	end, err := PlanEndDate(plan, in.PlanDays, in.MembershipStartDate)
	if err != nil {
		return Customer{}, err
	}
	if in.PlanCost < 0 || in.SessionCost < 0 || in.InitialPayment < 0 {
		return Customer{}, ErrNegativeAmount
	}
	total := in.PlanCost + in.SessionCost
	if in.InitialPayment > total {
		return Customer{}, ErrOverpayment
	}

	mode := in.PaymentMode
	if mode == "" {
		mode = ModeCash
	}
	if !mode.Valid() {
		return Customer{}, ErrInvalidPaymentMode
	}

	// Unpaid shares when the caller leaves a debt out: the initial payment
	// settles the session first, then the plan.
	sessionPaid := min(in.InitialPayment, in.SessionCost)
	planPaid := min(in.InitialPayment-sessionPaid, in.PlanCost)

	sessionDebt := in.SessionCost - sessionPaid
	if in.SessionDebt != nil {
		sessionDebt = *in.SessionDebt
	}
	planDebt := in.PlanCost - planPaid
	if in.PlanDebt != nil {
		planDebt = *in.PlanDebt
	}
	if sessionDebt < 0 || sessionDebt > in.SessionCost || planDebt < 0 || planDebt > in.PlanCost {
		return Customer{}, ErrInvalidDebt
	}

	sessionType := strings.TrimSpace(in.SessionType)
	if sessionType == "" {
		sessionType = DefaultSessionType
	}
	planDays := 0
	if plan == PlanPerDay {
		planDays = in.PlanDays
	}

	c := Customer{
		ID:                  uuid.New(),
		Fullname:            strings.TrimSpace(in.Fullname),
		EmailID:             strings.ToLower(strings.TrimSpace(in.EmailID)),
		MobileNumber:        strings.TrimSpace(in.MobileNumber),
		DateOfBirth:         in.DateOfBirth,
		Address:             in.Address,
		Time:                in.Time,
		Plan:                plan,
		PlanDays:            planDays,
		PlanCost:            in.PlanCost,
		SessionType:         sessionType,
		SessionCost:         in.SessionCost,
		TotalAmount:         total,
		AmountPaid:          in.InitialPayment,
		PlanDebt:            planDebt,
		SessionDebt:         sessionDebt,
		PaymentMode:         mode,
		Status:              StatusActive,
		MembershipStartDate: in.MembershipStartDate,
		MembershipEndDate:   end,
		PlanHistory:         []PlanPeriod{{Plan: plan, StartDate: in.MembershipStartDate, EndDate: end}},
		AssignedEmployees:   DedupeIDs(in.AssignedEmployees),
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	if in.InitialPayment > 0 {
		paidAt := now
		if in.PaymentDate != nil {
			paidAt = *in.PaymentDate
		}
		// Each cost component is booked as cost minus its debt. Fully owed
		// components produce no zero-amount entry.
		if in.SessionCost > 0 {
			if paid := in.SessionCost - sessionDebt; paid > 0 {
				c.appendPayment(paid, paidAt, mode, PaymentSession, "session")
			}
		}
		if in.PlanCost > 0 {
			if paid := in.PlanCost - planDebt; paid > 0 {
				c.appendPayment(paid, paidAt, mode, PaymentPlan, "membership")
			}
		}
	}
	return c, nil
}

// Upgrade switches the plan and charges the extra amount as plan debt. The
// end date is recomputed from the existing start date.
func (c *Customer) Upgrade(plan string, planDays int, amount int64, now time.Time) error {
	if c.Status == StatusTransferred {
		return ErrInvalidTransition
	}
	if amount < 0 {
		return ErrNegativeAmount
	}
	name, err := NormalizePlan(plan)
	if err != nil {
		return err
	}
	end, err := PlanEndDate(name, planDays, c.MembershipStartDate)
	if err != nil {
		return err
	}

	c.Plan = name
	c.PlanDays = 0
	if name == PlanPerDay {
		c.PlanDays = planDays
	}
	c.PlanCost += amount
	c.TotalAmount += amount
	c.PlanDebt += amount
	c.MembershipEndDate = end
	c.PlanHistory = append(c.PlanHistory, PlanPeriod{Plan: name, StartDate: c.MembershipStartDate, EndDate: end})
	c.UpdatedAt = now
	return nil
}

// Renewal describes a fresh plan period.
type Renewal struct {
	Plan        string
	PlanDays    int
	TotalAmount int64
	StartDate   time.Time
}

// Renew replaces the plan with a new period. Session add-ons and the paid
// amount reset; the new cost is added to the outstanding plan debt.
func (c *Customer) Renew(in Renewal, now time.Time) error {
	if c.Status == StatusTransferred {
		return ErrInvalidTransition
	}
	if in.TotalAmount < 0 {
		return ErrNegativeAmount
	}
	name, err := NormalizePlan(in.Plan)
	if err != nil {
		return err
	}
	start := in.StartDate
	if start.IsZero() {
		start = now
	}
	end, err := PlanEndDate(name, in.PlanDays, start)
	if err != nil {
		return err
	}

	c.Plan = name
	c.PlanDays = 0
	if name == PlanPerDay {
		c.PlanDays = in.PlanDays
	}
	c.PlanCost = in.TotalAmount
	c.SessionCost = 0
	c.SessionType = DefaultSessionType
	c.MembershipStartDate = start
	c.MembershipEndDate = end
	c.TotalAmount = in.TotalAmount
	c.AmountPaid = 0
	c.PlanDebt += in.TotalAmount
	c.PlanHistory = append(c.PlanHistory, PlanPeriod{Plan: name, StartDate: start, EndDate: end})
	c.UpdatedAt = now
	return nil
}

// StatusChange is a freeze, unfreeze or transfer request.
type StatusChange struct {
	Status      string
	FreezeDays  int
	FreezeDate  *time.Time
	ExpiryDate  *time.Time
	Amount      int64
	PaymentMode PaymentMode
	PaymentDate *time.Time
	Notes       string
}

const (
	ActionFreeze   = "freeze"
	ActionUnfreeze = "unfreeze"
	ActionTransfer = "transferred"
)

// ChangeStatus applies a status transition. Freeze fees are appended to the
// ledger without touching amountPaid.
func (c *Customer) ChangeStatus(in StatusChange, now time.Time) error {
	if in.Amount < 0 || in.FreezeDays < 0 {
		return ErrNegativeAmount
	}
	mode := in.PaymentMode
	if mode == "" {
		mode = c.PaymentMode
	}
	if in.Amount > 0 && !mode.Valid() {
		return ErrInvalidPaymentMode
	}
	paidAt := now
	if in.PaymentDate != nil {
		paidAt = *in.PaymentDate
	}

	switch strings.ToLower(strings.TrimSpace(in.Status)) {
	case ActionFreeze:
		if c.Status != StatusActive {
			return ErrInvalidTransition
		}
		freezeDate := now
		if in.FreezeDate != nil {
			freezeDate = *in.FreezeDate
		}
		c.Status = StatusFreeze
		c.FreezeDays = in.FreezeDays
		c.FreezeDate = &freezeDate
		if in.Amount > 0 {
			c.appendPayment(in.Amount, paidAt, mode, PaymentFreeze, "freeze account")
		}
	case ActionUnfreeze:
		if c.Status != StatusFreeze {
			return ErrInvalidTransition
		}
		if in.ExpiryDate == nil || in.ExpiryDate.IsZero() {
			return ErrExpiryRequired
		}
		c.Status = StatusActive
		c.FreezeDays = 0
		c.FreezeDate = nil
		c.MembershipEndDate = *in.ExpiryDate
		if in.Amount > 0 {
			notes := strings.TrimSpace(in.Notes)
			if notes == "" {
				notes = "freeze account"
			}
			c.appendPayment(in.Amount, paidAt, mode, PaymentFreeze, notes)
		}
	case ActionTransfer:
		if c.Status != StatusActive && c.Status != StatusFreeze {
			return ErrInvalidTransition
		}
		c.Status = StatusTransferred
	default:
		return ErrUnknownStatus
	}
	c.UpdatedAt = now
	return nil
}

// TrainerAssignment attaches a personal-training add-on to a customer.
type TrainerAssignment struct {
	EmployeeID  uuid.UUID
	SessionType string
	SessionCost int64
	PaidCost    int64
	PaymentMode PaymentMode
	PaymentDate *time.Time
}

func (c *Customer) AssignTrainer(in TrainerAssignment, now time.Time) error {
	if c.Status == StatusTransferred {
		return ErrInvalidTransition
	}
	if in.SessionCost < 0 || in.PaidCost < 0 {
		return ErrNegativeAmount
	}
	if in.PaidCost > in.SessionCost {
		return ErrOverpayment
	}
	mode := in.PaymentMode
	if mode == "" {
		mode = ModeCash
	}
	if !mode.Valid() {
		return ErrInvalidPaymentMode
	}

	if st := strings.TrimSpace(in.SessionType); st != "" {
		c.SessionType = st
	}
	c.SessionCost = in.SessionCost
	c.TotalAmount += in.SessionCost
	c.SessionDebt += in.SessionCost - in.PaidCost
	c.AmountPaid += in.PaidCost
	if in.PaidCost > 0 {
		paidAt := now
		if in.PaymentDate != nil {
			paidAt = *in.PaymentDate
		}
		c.appendPayment(in.PaidCost, paidAt, mode, PaymentSession, "personal training")
	}
	c.AssignedEmployees = DedupeIDs(append(c.AssignedEmployees, in.EmployeeID))
	c.UpdatedAt = now
	return nil
}

// DedupeIDs drops repeated ids, keeping first-seen order.
func DedupeIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
