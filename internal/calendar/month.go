package calendar

import "time"

// IsLeapYear applies the proleptic Gregorian rule.
func IsLeapYear(year int) bool {
	return (year%4 == 0 && year%100 != 0) || year%400 == 0
}

// DaysInMonth returns the number of days in a given month (1-12)
func DaysInMonth(year, month int) int {
	if month == 2 {
		if IsLeapYear(year) {
			return 29
		}
		return 28
	}

	// Months with 30 days: April, June, September, November
	if month == 4 || month == 6 || month == 9 || month == 11 {
		return 30
	}

	return 31
}

// FirstWeekdayOfMonth returns the weekday of the 1st, 0 = Sunday.
func FirstWeekdayOfMonth(year, month int) int {
	return int(time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC).Weekday())
}

// MonthGrid lays a month out for a Sunday-first calendar. Leading cells
// before the 1st are zero, followed by the days 1..n.
func MonthGrid(year, month int) []int {
	lead := FirstWeekdayOfMonth(year, month)
	n := DaysInMonth(year, month)
	cells := make([]int, lead+n)
	for day := 1; day <= n; day++ {
		cells[lead+day-1] = day
	}
	return cells
}

// ShiftMonth moves (year, month) by delta months, carrying across years.
func ShiftMonth(year, month, delta int) (int, int) {
	// 0-indexed arithmetic keeps the modulo simple
	idx := year*12 + (month - 1) + delta
	y, m := idx/12, idx%12
	if m < 0 {
		m += 12
		y--
	}
	return y, m + 1
}
