package domain

import (
	"strings"
	"time"
)

// RevenueReport is the monthly revenue breakdown.
type RevenueReport struct {
	Year              int              `json:"year"`
	Month             int              `json:"month"`
	From              time.Time        `json:"from"`
	To                time.Time        `json:"to"`
	Currency          string           `json:"currency"`
	TotalRevenue      int64            `json:"totalRevenue"`
	CashRevenue       int64            `json:"cashRevenue"`
	OnlineRevenue     int64            `json:"onlineRevenue"`
	UpiRevenue        int64            `json:"upiRevenue"`
	CardRevenue       int64            `json:"cardRevenue"`
	OnlineUpiRevenue  int64            `json:"onlineUpiRevenue"`
	MembershipRevenue int64            `json:"membershipRevenue"`
	SessionsRevenue   int64            `json:"sessionsRevenue"`
	OtherRevenue      int64            `json:"otherRevenue"`
	PaymentCount      int              `json:"paymentCount"`
	ByMode            map[string]int64 `json:"byMode"`
}

// MonthWindow returns [first day of month, first day of next month) in loc.
func MonthWindow(year int, month time.Month, loc *time.Location) (time.Time, time.Time) {
	from := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	return from, from.AddDate(0, 1, 0)
}

// RevenueCategory partitions payment types: plan-like types count as
// membership, session-like types as sessions, everything else as other.
func RevenueCategory(t PaymentType) string {
	lower := strings.ToLower(string(t))
	switch {
	case strings.Contains(lower, "plan"):
		return "membership"
	case strings.Contains(lower, "session"):
		return "sessions"
	default:
		return "other"
	}
}

// AggregateRevenue sums payments dated within [from, to). Each payment lands
// in exactly one mode bucket and one category bucket.
func AggregateRevenue(payments []Payment, from, to time.Time) RevenueReport {
	r := RevenueReport{
		Year:   from.Year(),
		Month:  int(from.Month()),
		From:   from,
		To:     to,
		ByMode: map[string]int64{},
	}
	for _, p := range payments {
		if p.Date.Before(from) || !p.Date.Before(to) {
			continue
		}
		r.PaymentCount++
		r.TotalRevenue += p.Amount

		switch p.Mode {
		case ModeCash:
			r.CashRevenue += p.Amount
		case ModeOnline:
			r.OnlineRevenue += p.Amount
		case ModeUPI:
			r.UpiRevenue += p.Amount
		case ModeCard:
			r.CardRevenue += p.Amount
		}
		mode := string(p.Mode)
		if !p.Mode.Valid() {
			mode = "other"
		}
		r.ByMode[mode] += p.Amount

		switch RevenueCategory(p.Type) {
		case "membership":
			r.MembershipRevenue += p.Amount
		case "sessions":
			r.SessionsRevenue += p.Amount
		default:
			r.OtherRevenue += p.Amount
		}
	}
	r.OnlineUpiRevenue = r.OnlineRevenue + r.UpiRevenue
	return r
}
