package domain

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// PaymentInput is a payment posted against an existing customer.
type PaymentInput struct {
	Amount int64
	Date   *time.Time
	Mode   PaymentMode
	Type   PaymentType
	Notes  string
}

// RecordPayment appends a payment and settles the matching debt bucket.
func (c *Customer) RecordPayment(in PaymentInput, now time.Time) (Payment, error) {
	if in.Amount <= 0 {
		return Payment{}, ErrInvalidAmount
	}
	mode := in.Mode
	if mode == "" {
		mode = c.PaymentMode
	}
	if !mode.Valid() {
		return Payment{}, ErrInvalidPaymentMode
	}
	typ := in.Type
	if typ == "" {
		typ = PaymentOther
	}
	if !typ.Valid() {
		return Payment{}, ErrInvalidPaymentType
	}

	switch typ {
	case PaymentPlanDebt:
		if in.Amount > c.PlanDebt {
			return Payment{}, ErrDebtExceeded
		}
		c.PlanDebt -= in.Amount
	case PaymentSessionDebt:
		if in.Amount > c.SessionDebt {
			return Payment{}, ErrDebtExceeded
		}
		c.SessionDebt -= in.Amount
	}
	c.AmountPaid += in.Amount

	paidAt := now
	if in.Date != nil && !in.Date.IsZero() {
		paidAt = *in.Date
	}
	p := c.appendPayment(in.Amount, paidAt, mode, typ, in.Notes)
	c.UpdatedAt = now
	return p, nil
}

func (c *Customer) appendPayment(amount int64, at time.Time, mode PaymentMode, typ PaymentType, notes string) Payment {
	p := Payment{
		ID:     uuid.New(),
		Amount: amount,
		Date:   at,
		Mode:   mode,
		Type:   typ,
		Notes:  notes,
	}
	c.Payments = append(c.Payments, p)
	return p
}

// LedgerTotal sums every payment amount.
func LedgerTotal(payments []Payment) int64 {
	var total int64
	for _, p := range payments {
		total += p.Amount
	}
	return total
}

// NewestFirst returns a copy of payments ordered by date descending.
func NewestFirst(payments []Payment) []Payment {
	out := make([]Payment, len(payments))
	for i, p := range payments {
		out[len(payments)-1-i] = p
	}
	// Equal dates keep the later-recorded entry first.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out
}

// TotalDebt is the outstanding plan and session balance.
func (c Customer) TotalDebt() int64 {
	return c.PlanDebt + c.SessionDebt
}
