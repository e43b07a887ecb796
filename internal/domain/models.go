package domain

import (
	"time"

	"github.com/google/uuid"
)

// Enumerations
const (
	RoleAdmin   UserRole = "admin"
	RoleManager UserRole = "manager"
	RoleStaff   UserRole = "staff"

	StatusActive      CustomerStatus = "active"
	StatusFreeze      CustomerStatus = "freeze"
	StatusTransferred CustomerStatus = "transferred"

	ModeCash   PaymentMode = "cash"
	ModeOnline PaymentMode = "online"
	ModeUPI    PaymentMode = "upi"
	ModeCard   PaymentMode = "card"

	PaymentPlan        PaymentType = "plan"
	PaymentSession     PaymentType = "session"
	PaymentPlanDebt    PaymentType = "planDebt"
	PaymentSessionDebt PaymentType = "sessionDebt"
	PaymentFreeze      PaymentType = "freeze"
	PaymentDebt        PaymentType = "debt"
	PaymentOther       PaymentType = "other"

	NotificationExpiring NotificationKind = "expiring"
	NotificationBirthday NotificationKind = "birthday"

	ChannelInbox NotificationChannel = "inbox"
	ChannelSMS   NotificationChannel = "sms"

	DeliveryStored DeliveryStatus = "stored"
	DeliverySent   DeliveryStatus = "sent"
	DeliveryFailed DeliveryStatus = "failed"
)

// DefaultSessionType is the session label of a customer without personal training.
const DefaultSessionType = "0 Sessions"

type UserRole string
type CustomerStatus string
type PaymentMode string
type PaymentType string
type NotificationKind string
type NotificationChannel string
type DeliveryStatus string

type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         UserRole  `json:"role"`
	IsGoogle     bool      `json:"isGoogle"`
	PasswordHash *string   `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type Employee struct {
	ID           uuid.UUID  `json:"id"`
	Fullname     string     `json:"fullname"`
	EmailID      string     `json:"emailId"`
	MobileNumber string     `json:"mobileNumber"`
	Address      string     `json:"address"`
	Role         string     `json:"role"`
	DateOfBirth  *time.Time `json:"dateOfBirth,omitempty"`
	JoinDate     time.Time  `json:"joinDate"`
	Active       bool       `json:"active"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// Payment is one immutable ledger entry of a customer.
type Payment struct {
	ID     uuid.UUID   `json:"id"`
	Amount int64       `json:"amount"`
	Date   time.Time   `json:"date"`
	Mode   PaymentMode `json:"mode"`
	Type   PaymentType `json:"type"`
	Notes  string      `json:"notes"`
}

type PlanPeriod struct {
	Plan      string    `json:"plan"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
}

type Customer struct {
	ID                  uuid.UUID      `json:"id"`
	Fullname            string         `json:"fullname"`
	EmailID             string         `json:"emailId"`
	MobileNumber        string         `json:"mobileNumber"`
	DateOfBirth         *time.Time     `json:"dateOfBirth,omitempty"`
	Address             string         `json:"address"`
	Time                string         `json:"time"`
	Plan                string         `json:"plan"`
	PlanDays            int            `json:"planDays"`
	PlanCost            int64          `json:"planCost"`
	SessionType         string         `json:"sessionType"`
	SessionCost         int64          `json:"sessionCost"`
	TotalAmount         int64          `json:"totalAmount"`
	AmountPaid          int64          `json:"amountPaid"`
	PlanDebt            int64          `json:"planDebt"`
	SessionDebt         int64          `json:"sessionDebt"`
	PaymentMode         PaymentMode    `json:"paymentMode"`
	Status              CustomerStatus `json:"status"`
	FreezeDays          int            `json:"freezeDays"`
	FreezeDate          *time.Time     `json:"freezeDate,omitempty"`
	MembershipStartDate time.Time      `json:"membershipStartDate"`
	MembershipEndDate   time.Time      `json:"membershipEndDate"`
	Payments            []Payment      `json:"payments"`
	PlanHistory         []PlanPeriod   `json:"planHistory"`
	AssignedEmployees   []uuid.UUID    `json:"assignedEmployees"`
	CreatedAt           time.Time      `json:"createdAt"`
	UpdatedAt           time.Time      `json:"updatedAt"`
}

// CustomerPayment is a ledger entry joined with its owner, used for reporting.
type CustomerPayment struct {
	CustomerID   uuid.UUID `json:"customerId"`
	Fullname     string    `json:"fullname"`
	MobileNumber string    `json:"mobileNumber"`
	Payment
}

type Notification struct {
	ID         uuid.UUID           `json:"id"`
	Kind       NotificationKind    `json:"kind"`
	CustomerID *uuid.UUID          `json:"customerId,omitempty"`
	Title      string              `json:"title"`
	Message    string              `json:"message"`
	Channel    NotificationChannel `json:"channel"`
	Status     DeliveryStatus      `json:"status"`
	Error      string              `json:"error,omitempty"`
	EventDate  time.Time           `json:"eventDate"`
	CreatedAt  time.Time           `json:"createdAt"`
	ReadAt     *time.Time          `json:"readAt,omitempty"`
}

func (m PaymentMode) Valid() bool {
	switch m {
	case ModeCash, ModeOnline, ModeUPI, ModeCard:
		return true
	}
	return false
}

func (t PaymentType) Valid() bool {
	switch t {
	case PaymentPlan, PaymentSession, PaymentPlanDebt, PaymentSessionDebt, PaymentFreeze, PaymentDebt, PaymentOther:
		return true
	}
	return false
}

func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleStaff:
		return true
	}
	return false
}

// Clone returns a deep copy so callers can mutate without aliasing slices.
func (c Customer) Clone() Customer {
	out := c
	out.Payments = cloneSlice(c.Payments)
	out.PlanHistory = cloneSlice(c.PlanHistory)
	out.AssignedEmployees = cloneSlice(c.AssignedEmployees)
	if c.DateOfBirth != nil {
		dob := *c.DateOfBirth
		out.DateOfBirth = &dob
	}
	if c.FreezeDate != nil {
		fd := *c.FreezeDate
		out.FreezeDate = &fd
	}
	return out
}

func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}
