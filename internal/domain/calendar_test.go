package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestExpiryWindow(t *testing.T) {
	now := time.Date(2024, 6, 10, 15, 4, 5, 0, time.UTC)
	from, to := ExpiryWindow(now, 7, time.UTC)
	assert.Equal(t, date(2024, 6, 10), from)
	assert.Equal(t, date(2024, 6, 18).Add(-time.Nanosecond), to)
}

func TestBirthdayWithinWrapsYearEnd(t *testing.T) {
	now := time.Date(2024, 12, 28, 10, 0, 0, 0, time.UTC)

	next, ok := BirthdayWithin(date(1990, 1, 2), now, 7, time.UTC)
	assert.True(t, ok)
	assert.Equal(t, date(2025, 1, 2), next)

	_, ok = BirthdayWithin(date(1990, 1, 10), now, 7, time.UTC)
	assert.False(t, ok)

	next, ok = BirthdayWithin(date(1985, 12, 28), now, 7, time.UTC)
	assert.True(t, ok)
	assert.Equal(t, date(2024, 12, 28), next)

	next, _ = BirthdayWithin(date(1985, 12, 27), now, 7, time.UTC)
	assert.Equal(t, date(2025, 12, 27), next)
}

func TestLeapDayBirthday(t *testing.T) {
	now := time.Date(2025, 2, 25, 0, 0, 0, 0, time.UTC)
	next, ok := BirthdayWithin(date(2000, 2, 29), now, 7, time.UTC)
	assert.True(t, ok)
	assert.Equal(t, date(2025, 2, 28), next)

	next = NextBirthday(date(2000, 2, 29), time.Date(2028, 2, 1, 0, 0, 0, 0, time.UTC), time.UTC)
	assert.Equal(t, date(2028, 2, 29), next)
}
