// SPDX-License-Identifier: MIT

package panel

import "time"

// Step advances a period timestamp by one canonical period.
type Step func(t time.Time) time.Time

// Month is the default step: one calendar month.
var Month = MonthStep(1)

// MonthStep advances by n calendar months, clamping the day to the last day of
// the target month (Jan 31 + 1 month = Feb 28, or Feb 29 in leap years).
// time.AddDate would normalize Jan 31 + 1 month into early March instead,
// which breaks month-end panels.
func MonthStep(n int) Step {
	return func(t time.Time) time.Time {
		y, m, d := t.Date()
		first := time.Date(y, m+time.Month(n), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
		if last := daysIn(first.Year(), first.Month(), t.Location()); d > last {
			d = last
		}

		return time.Date(first.Year(), first.Month(), d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	}
}

// DayStep advances by n calendar days.
func DayStep(n int) Step {
	return func(t time.Time) time.Time { return t.AddDate(0, 0, n) }
}

// WeekStep advances by n weeks.
func WeekStep(n int) Step { return DayStep(7 * n) }

// daysIn returns the number of days in month m of year y.
func daysIn(y int, m time.Month, loc *time.Location) int {
	return time.Date(y, m+1, 0, 0, 0, 0, 0, loc).Day()
}
