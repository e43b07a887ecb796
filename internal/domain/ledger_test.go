package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func debtor(t *testing.T) Customer {
	t.Helper()
	in := baseRegistration()
	in.InitialPayment = 1000
	c, err := NewCustomer(in, cutoff, date(2024, 6, 1))
	require.NoError(t, err)
	require.Equal(t, int64(6000), c.PlanDebt)
	require.Equal(t, int64(2000), c.SessionDebt)
	return c
}

func TestRecordPlanDebtPayment(t *testing.T) {
	c := debtor(t)
	paidBefore := c.AmountPaid

	p, err := c.RecordPayment(PaymentInput{Amount: 2500, Mode: ModeCash, Type: PaymentPlanDebt}, date(2024, 6, 5))
	require.NoError(t, err)

	assert.Equal(t, int64(3500), c.PlanDebt)
	assert.Equal(t, int64(2000), c.SessionDebt)
	assert.Equal(t, paidBefore+2500, c.AmountPaid)
	assert.Equal(t, date(2024, 6, 5), p.Date)
	assert.Equal(t, p, c.Payments[len(c.Payments)-1])
}

func TestRecordSessionDebtPayment(t *testing.T) {
	c := debtor(t)
	paymentDate := date(2024, 6, 3)

	_, err := c.RecordPayment(PaymentInput{Amount: 2000, Type: PaymentSessionDebt, Date: &paymentDate}, date(2024, 6, 5))
	require.NoError(t, err)
	assert.Equal(t, int64(0), c.SessionDebt)
	assert.Equal(t, paymentDate, c.Payments[len(c.Payments)-1].Date)
	assert.Equal(t, ModeUPI, c.Payments[len(c.Payments)-1].Mode)
}

func TestRecordPaymentRejections(t *testing.T) {
	c := debtor(t)
	snapshot := c.Clone()

	_, err := c.RecordPayment(PaymentInput{Amount: 0, Type: PaymentPlanDebt}, date(2024, 6, 5))
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = c.RecordPayment(PaymentInput{Amount: 6001, Type: PaymentPlanDebt}, date(2024, 6, 5))
	assert.ErrorIs(t, err, ErrDebtExceeded)

	_, err = c.RecordPayment(PaymentInput{Amount: 10, Type: "tip"}, date(2024, 6, 5))
	assert.ErrorIs(t, err, ErrInvalidPaymentType)

	_, err = c.RecordPayment(PaymentInput{Amount: 10, Mode: "barter"}, date(2024, 6, 5))
	assert.ErrorIs(t, err, ErrInvalidPaymentMode)

	assert.Equal(t, snapshot, c)
}

func TestNewestFirst(t *testing.T) {
	payments := []Payment{
		{Amount: 1, Date: date(2024, 1, 1)},
		{Amount: 3, Date: date(2024, 3, 1)},
		{Amount: 2, Date: date(2024, 2, 1)},
	}
	sorted := NewestFirst(payments)
	assert.Equal(t, []int64{3, 2, 1}, []int64{sorted[0].Amount, sorted[1].Amount, sorted[2].Amount})
	assert.Equal(t, int64(1), payments[0].Amount)
	assert.Equal(t, int64(6), LedgerTotal(payments))
}

func TestRecordPaymentDefaultsDateToNow(t *testing.T) {
	c := debtor(t)
	now := time.Date(2024, 6, 9, 14, 0, 0, 0, time.UTC)
	p, err := c.RecordPayment(PaymentInput{Amount: 100, Type: PaymentOther}, now)
	require.NoError(t, err)
	assert.Equal(t, now, p.Date)
	assert.Equal(t, now, c.UpdatedAt)
}
