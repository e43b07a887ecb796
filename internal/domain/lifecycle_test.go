package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cutoff = date(2024, 1, 1)

func baseRegistration() Registration {
	return Registration{
		Fullname:            "Asha Rao",
		EmailID:             "Asha@Example.com",
		MobileNumber:        "9876543210",
		Plan:                "3 months",
		PlanCost:            6000,
		SessionType:         "12 Sessions",
		SessionCost:         3000,
		PaymentMode:         ModeUPI,
		MembershipStartDate: date(2024, 6, 1),
	}
}

func i64(v int64) *int64 { return &v }

func TestNewCustomerWithSuppliedDebts(t *testing.T) {
	in := baseRegistration()
	in.InitialPayment = 5000
	in.PlanDebt = i64(3000)
	in.SessionDebt = i64(1000)
	now := date(2024, 6, 1)

	c, err := NewCustomer(in, cutoff, now)
	require.NoError(t, err)

	assert.Equal(t, "asha@example.com", c.EmailID)
	assert.Equal(t, StatusActive, c.Status)
	assert.Equal(t, int64(9000), c.TotalAmount)
	assert.Equal(t, int64(5000), c.AmountPaid)
	assert.Equal(t, int64(3000), c.PlanDebt)
	assert.Equal(t, int64(1000), c.SessionDebt)
	assert.Equal(t, date(2024, 9, 1), c.MembershipEndDate)

	require.Len(t, c.Payments, 2)
	assert.Equal(t, PaymentSession, c.Payments[0].Type)
	assert.Equal(t, int64(2000), c.Payments[0].Amount)
	assert.Equal(t, "session", c.Payments[0].Notes)
	assert.Equal(t, PaymentPlan, c.Payments[1].Type)
	assert.Equal(t, int64(3000), c.Payments[1].Amount)
	assert.Equal(t, "membership", c.Payments[1].Notes)
	assert.Equal(t, ModeUPI, c.Payments[1].Mode)

	require.Len(t, c.PlanHistory, 1)
	assert.Equal(t, PlanPeriod{Plan: "3 months", StartDate: date(2024, 6, 1), EndDate: date(2024, 9, 1)}, c.PlanHistory[0])
}

func TestNewCustomerDefaultsDebtsFromInitialPayment(t *testing.T) {
	in := baseRegistration()
	in.InitialPayment = 4000

	c, err := NewCustomer(in, cutoff, date(2024, 6, 1))
	require.NoError(t, err)

	assert.Equal(t, int64(0), c.SessionDebt)
	assert.Equal(t, int64(5000), c.PlanDebt)
	require.Len(t, c.Payments, 2)
	assert.Equal(t, int64(3000), c.Payments[0].Amount)
	assert.Equal(t, int64(1000), c.Payments[1].Amount)
	assert.Equal(t, c.AmountPaid, LedgerTotal(c.Payments))
}

func TestNewCustomerBooksCostMinusSuppliedDebt(t *testing.T) {
	t.Run("plan only", func(t *testing.T) {
		in := baseRegistration()
		in.Plan = "1 month"
		in.PlanCost = 1000
		in.SessionCost = 0
		in.SessionType = ""
		in.PlanDebt = i64(400)
		in.InitialPayment = 500

		c, err := NewCustomer(in, cutoff, date(2024, 6, 1))
		require.NoError(t, err)
		assert.Equal(t, int64(500), c.AmountPaid)
		assert.Equal(t, int64(400), c.PlanDebt)
		require.Len(t, c.Payments, 1)
		assert.Equal(t, PaymentPlan, c.Payments[0].Type)
		assert.Equal(t, int64(600), c.Payments[0].Amount)
	})
	t.Run("plan debt cleared", func(t *testing.T) {
		in := baseRegistration()
		in.InitialPayment = 1000
		in.PlanDebt = i64(0)

		c, err := NewCustomer(in, cutoff, date(2024, 6, 1))
		require.NoError(t, err)
		assert.Equal(t, int64(2000), c.SessionDebt)
		require.Len(t, c.Payments, 2)
		assert.Equal(t, PaymentSession, c.Payments[0].Type)
		assert.Equal(t, int64(1000), c.Payments[0].Amount)
		assert.Equal(t, PaymentPlan, c.Payments[1].Type)
		assert.Equal(t, int64(6000), c.Payments[1].Amount)
	})
	t.Run("fully owed component is skipped", func(t *testing.T) {
		in := baseRegistration()
		in.InitialPayment = 3000
		in.PlanDebt = i64(6000)
		in.SessionDebt = i64(0)

		c, err := NewCustomer(in, cutoff, date(2024, 6, 1))
		require.NoError(t, err)
		require.Len(t, c.Payments, 1)
		assert.Equal(t, PaymentSession, c.Payments[0].Type)
		assert.Equal(t, int64(3000), c.Payments[0].Amount)
	})
}

func TestNewCustomerWithoutPaymentHasNoLedger(t *testing.T) {
	in := baseRegistration()
	in.SessionType = ""
	in.SessionCost = 0

	c, err := NewCustomer(in, cutoff, date(2024, 6, 1))
	require.NoError(t, err)
	assert.Empty(t, c.Payments)
	assert.Equal(t, DefaultSessionType, c.SessionType)
	assert.Equal(t, int64(6000), c.PlanDebt)
	assert.Equal(t, ModeUPI, c.PaymentMode)
}

func TestNewCustomerRejections(t *testing.T) {
	t.Run("before cutoff", func(t *testing.T) {
		in := baseRegistration()
		in.MembershipStartDate = date(2023, 12, 31)
		_, err := NewCustomer(in, cutoff, date(2024, 6, 1))
		assert.ErrorIs(t, err, ErrStartBeforeCutoff)
	})
	t.Run("unknown plan", func(t *testing.T) {
		in := baseRegistration()
		in.Plan = "weekly"
		_, err := NewCustomer(in, cutoff, date(2024, 6, 1))
		assert.ErrorIs(t, err, ErrUnknownPlan)
	})
	t.Run("debt above cost", func(t *testing.T) {
		in := baseRegistration()
		in.PlanDebt = i64(7000)
		_, err := NewCustomer(in, cutoff, date(2024, 6, 1))
		assert.ErrorIs(t, err, ErrInvalidDebt)
	})
	t.Run("overpayment", func(t *testing.T) {
		in := baseRegistration()
		in.InitialPayment = 9001
		_, err := NewCustomer(in, cutoff, date(2024, 6, 1))
		assert.ErrorIs(t, err, ErrOverpayment)
	})
	t.Run("bad mode", func(t *testing.T) {
		in := baseRegistration()
		in.PaymentMode = "cheque"
		_, err := NewCustomer(in, cutoff, date(2024, 6, 1))
		assert.ErrorIs(t, err, ErrInvalidPaymentMode)
	})
}

func TestUpgrade(t *testing.T) {
	c, err := NewCustomer(baseRegistration(), cutoff, date(2024, 6, 1))
	require.NoError(t, err)
	paymentsBefore := len(c.Payments)

	require.NoError(t, c.Upgrade("12 months", 0, 4000, date(2024, 7, 1)))

	assert.Equal(t, "12 months", c.Plan)
	assert.Equal(t, int64(10000), c.PlanCost)
	assert.Equal(t, int64(13000), c.TotalAmount)
	assert.Equal(t, int64(10000), c.PlanDebt)
	assert.Equal(t, date(2025, 6, 1), c.MembershipEndDate)
	assert.Len(t, c.PlanHistory, 2)
	assert.Len(t, c.Payments, paymentsBefore)
}

func TestRenew(t *testing.T) {
	in := baseRegistration()
	in.InitialPayment = 9000
	c, err := NewCustomer(in, cutoff, date(2024, 6, 1))
	require.NoError(t, err)

	err = c.Renew(Renewal{Plan: "1 month", TotalAmount: 2500, StartDate: date(2024, 9, 1)}, date(2024, 9, 1))
	require.NoError(t, err)

	assert.Equal(t, "1 month", c.Plan)
	assert.Equal(t, int64(2500), c.PlanCost)
	assert.Equal(t, int64(2500), c.TotalAmount)
	assert.Equal(t, int64(0), c.SessionCost)
	assert.Equal(t, DefaultSessionType, c.SessionType)
	assert.Equal(t, int64(0), c.AmountPaid)
	assert.Equal(t, int64(2500), c.PlanDebt)
	assert.Equal(t, date(2024, 10, 1), c.MembershipEndDate)
	assert.Len(t, c.PlanHistory, 2)
	assert.Len(t, c.Payments, 2)
}

func TestFreezeThenUnfreeze(t *testing.T) {
	c, err := NewCustomer(baseRegistration(), cutoff, date(2024, 6, 1))
	require.NoError(t, err)
	paid := c.AmountPaid

	err = c.ChangeStatus(StatusChange{Status: "freeze", FreezeDays: 15, Amount: 500}, date(2024, 7, 1))
	require.NoError(t, err)
	assert.Equal(t, StatusFreeze, c.Status)
	assert.Equal(t, 15, c.FreezeDays)
	require.NotNil(t, c.FreezeDate)
	require.Len(t, c.Payments, 1)
	assert.Equal(t, PaymentFreeze, c.Payments[0].Type)
	assert.Equal(t, "freeze account", c.Payments[0].Notes)
	assert.Equal(t, paid, c.AmountPaid)

	expiry := date(2024, 12, 24)
	err = c.ChangeStatus(StatusChange{Status: "unfreeze", ExpiryDate: &expiry}, date(2024, 7, 20))
	require.NoError(t, err)
	assert.Equal(t, StatusActive, c.Status)
	assert.Equal(t, 0, c.FreezeDays)
	assert.Nil(t, c.FreezeDate)
	assert.Equal(t, expiry, c.MembershipEndDate)

	require.NoError(t, c.ChangeStatus(StatusChange{Status: "freeze"}, date(2024, 8, 1)))
	err = c.ChangeStatus(StatusChange{Status: "unfreeze", ExpiryDate: &expiry, Amount: 200}, date(2024, 8, 10))
	require.NoError(t, err)
	require.Len(t, c.Payments, 2)
	assert.Equal(t, "freeze account", c.Payments[1].Notes)

	require.NoError(t, c.ChangeStatus(StatusChange{Status: "freeze"}, date(2024, 9, 1)))
	err = c.ChangeStatus(StatusChange{Status: "unfreeze", ExpiryDate: &expiry, Amount: 100, Notes: "late fee"}, date(2024, 9, 5))
	require.NoError(t, err)
	require.Len(t, c.Payments, 3)
	assert.Equal(t, "late fee", c.Payments[2].Notes)
}

func TestStatusTransitionRules(t *testing.T) {
	c, err := NewCustomer(baseRegistration(), cutoff, date(2024, 6, 1))
	require.NoError(t, err)

	assert.ErrorIs(t, c.ChangeStatus(StatusChange{Status: "unfreeze"}, date(2024, 7, 1)), ErrInvalidTransition)
	assert.ErrorIs(t, c.ChangeStatus(StatusChange{Status: "paused"}, date(2024, 7, 1)), ErrUnknownStatus)

	require.NoError(t, c.ChangeStatus(StatusChange{Status: "freeze"}, date(2024, 7, 1)))
	assert.ErrorIs(t, c.ChangeStatus(StatusChange{Status: "freeze"}, date(2024, 7, 2)), ErrInvalidTransition)
	assert.ErrorIs(t, c.ChangeStatus(StatusChange{Status: "unfreeze"}, date(2024, 7, 2)), ErrExpiryRequired)

	require.NoError(t, c.ChangeStatus(StatusChange{Status: "transferred"}, date(2024, 7, 3)))
	assert.Equal(t, StatusTransferred, c.Status)
	assert.ErrorIs(t, c.ChangeStatus(StatusChange{Status: "freeze"}, date(2024, 7, 4)), ErrInvalidTransition)
	assert.ErrorIs(t, c.Upgrade("6 months", 0, 100, date(2024, 7, 4)), ErrInvalidTransition)
}

func TestAssignTrainer(t *testing.T) {
	in := baseRegistration()
	in.SessionCost = 0
	in.SessionType = ""
	c, err := NewCustomer(in, cutoff, date(2024, 6, 1))
	require.NoError(t, err)
	emp := uuid.New()

	err = c.AssignTrainer(TrainerAssignment{
		EmployeeID:  emp,
		SessionType: "8 Sessions",
		SessionCost: 4000,
		PaidCost:    1500,
		PaymentMode: ModeCard,
	}, date(2024, 6, 10))
	require.NoError(t, err)

	assert.Equal(t, "8 Sessions", c.SessionType)
	assert.Equal(t, int64(4000), c.SessionCost)
	assert.Equal(t, int64(10000), c.TotalAmount)
	assert.Equal(t, int64(2500), c.SessionDebt)
	assert.Equal(t, int64(1500), c.AmountPaid)
	assert.Equal(t, []uuid.UUID{emp}, c.AssignedEmployees)
	require.Len(t, c.Payments, 1)
	assert.Equal(t, PaymentSession, c.Payments[0].Type)

	require.NoError(t, c.AssignTrainer(TrainerAssignment{EmployeeID: emp, SessionCost: 0}, date(2024, 6, 11)))
	assert.Len(t, c.AssignedEmployees, 1)
}

func TestCloneDoesNotAlias(t *testing.T) {
	c, err := NewCustomer(baseRegistration(), cutoff, date(2024, 6, 1))
	require.NoError(t, err)
	cp := c.Clone()
	cp.PlanHistory[0].Plan = "changed"
	assert.Equal(t, "3 months", c.PlanHistory[0].Plan)
}

func TestDedupeIDsKeepsFirstSeenOrder(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	assert.Equal(t, []uuid.UUID{a, b}, DedupeIDs([]uuid.UUID{a, b, a, b}))
	assert.Empty(t, DedupeIDs(nil))
}
