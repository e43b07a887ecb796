package service

import (
	"errors"
	"math"
	"sort"
	"time"
)

// ErrInvalidInput marks request values rejected before reaching the domain.
var ErrInvalidInput = errors.New("invalid input")

// daysBetween counts calendar days, rounding so DST shifts do not lose a day.
func daysBetween(from, to time.Time) int {
	return int(math.Round(to.Sub(from).Hours() / 24))
}

func sortBirthdays(items []UpcomingBirthday) {
	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].NextBirthday.Equal(items[j].NextBirthday) {
			return items[i].NextBirthday.Before(items[j].NextBirthday)
		}
		return items[i].Customer.Fullname < items[j].Customer.Fullname
	})
}

func ptr[T any](v T) *T { return &v }
