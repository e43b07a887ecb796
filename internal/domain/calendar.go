package domain

import "time"

// DayStart truncates t to midnight in loc.
func DayStart(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// ExpiryWindow spans from the start of today to the end of the day `days` ahead.
func ExpiryWindow(now time.Time, days int, loc *time.Location) (time.Time, time.Time) {
	from := DayStart(now, loc)
	to := from.AddDate(0, 0, days+1).Add(-time.Nanosecond)
	return from, to
}

// NextBirthday returns the next occurrence of dob's month and day on or after
// today. Feb 29 birthdays fall on Feb 28 in common years.
func NextBirthday(dob, now time.Time, loc *time.Location) time.Time {
	today := DayStart(now, loc)
	next := birthdayIn(dob, today.Year(), loc)
	if next.Before(today) {
		next = birthdayIn(dob, today.Year()+1, loc)
	}
	return next
}

// BirthdayWithin reports whether the next birthday falls within days of today.
func BirthdayWithin(dob, now time.Time, days int, loc *time.Location) (time.Time, bool) {
	next := NextBirthday(dob, now, loc)
	_, to := ExpiryWindow(now, days, loc)
	return next, !next.After(to)
}

func birthdayIn(dob time.Time, year int, loc *time.Location) time.Time {
	month, day := dob.Month(), dob.Day()
	if month == time.February && day == 29 && daysIn(year, time.February) == 28 {
		day = 28
	}
	return time.Date(year, month, day, 0, 0, 0, 0, loc)
}
