package domain

import (
	"strings"
	"time"
)

const (
	PlanPerDay      = "Per Day"
	PlanOneMonth    = "1 month"
	PlanThreeMonths = "3 months"
	PlanSixMonths   = "6 months"
	PlanTwelveMonth = "12 months"
)

var planMonths = map[string]int{
	PlanOneMonth:    1,
	PlanThreeMonths: 3,
	PlanSixMonths:   6,
	PlanTwelveMonth: 12,
}

// NormalizePlan returns the canonical plan name, ignoring case and surrounding spaces.
func NormalizePlan(plan string) (string, error) {
	p := strings.TrimSpace(plan)
	if strings.EqualFold(p, PlanPerDay) {
		return PlanPerDay, nil
	}
	for name := range planMonths {
		if strings.EqualFold(p, name) {
			return name, nil
		}
	}
	return "", ErrUnknownPlan
}

// PlanEndDate computes the membership end date for a plan starting at start.
func PlanEndDate(plan string, planDays int, start time.Time) (time.Time, error) {
	name, err := NormalizePlan(plan)
	if err != nil {
		return time.Time{}, err
	}
	if name == PlanPerDay {
		if planDays < 1 {
			return time.Time{}, ErrInvalidPlanDays
		}
		return start.AddDate(0, 0, planDays), nil
	}
	return AddMonthsClamped(start, planMonths[name]), nil
}

// AddMonthsClamped adds months to t, clamping the day to the last day of the
// target month instead of overflowing into the next one.
func AddMonthsClamped(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	target := time.Date(y, m+time.Month(months), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	if last := daysIn(target.Year(), target.Month()); d > last {
		d = last
	}
	return time.Date(target.Year(), target.Month(), d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
