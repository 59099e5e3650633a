package calendar

import (
	"database/sql/driver"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const layout = "2006-01-02"

// Date represents a calendar date without a time-of-day component.
// Month is 1-indexed.
type Date struct {
	Year  int
	Month int
	Day   int
}

// New returns the date for the given year, month (1-12) and day.
func New(year, month, day int) Date {
	return Date{Year: year, Month: month, Day: day}
}

// ParseDate converts a yyyy-mm-dd formatted string into a Date
func ParseDate(dateStr string) (Date, error) {
	parts := strings.Split(strings.TrimSpace(dateStr), "-")
	if len(parts) != 3 {
		return Date{}, fmt.Errorf("invalid date format, expected yyyy-mm-dd")
	}

	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return Date{}, fmt.Errorf("invalid year: %v", err)
	}

	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return Date{}, fmt.Errorf("invalid month: %v", err)
	}

	day, err := strconv.Atoi(parts[2])
	if err != nil {
		return Date{}, fmt.Errorf("invalid day: %v", err)
	}

	if month < 1 || month > 12 {
		return Date{}, fmt.Errorf("month must be between 1 and 12")
	}

	if day < 1 || day > DaysInMonth(year, month) {
		return Date{}, fmt.Errorf("day must be between 1 and %d", DaysInMonth(year, month))
	}

	return Date{Year: year, Month: month, Day: day}, nil
}

// FromTime drops the time-of-day of t, keeping the date as seen in t's location.
func FromTime(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: int(m), Day: d}
}

// Today returns the current date in loc. A nil loc means UTC.
func Today(now time.Time, loc *time.Location) Date {
	if loc == nil {
		loc = time.UTC
	}
	return FromTime(now.In(loc))
}

// Time returns midnight UTC of the date.
func (d Date) Time() time.Time {
	return time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC)
}

// AddDays returns the date n days after d (before d when n is negative).
func (d Date) AddDays(n int) Date {
	return FromTime(d.Time().AddDate(0, 0, n))
}

// DaysBetween returns the number of days from a to b. It is negative when b is before a.
func DaysBetween(a, b Date) int {
	return int(b.Time().Sub(a.Time()).Hours() / 24)
}

// Compare orders dates lexicographically on (year, month, day) and returns -1, 0 or 1.
func Compare(a, b Date) int {
	switch {
	case a.Year != b.Year:
		return sign(a.Year - b.Year)
	case a.Month != b.Month:
		return sign(a.Month - b.Month)
	default:
		return sign(a.Day - b.Day)
	}
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}

func (d Date) Compare(o Date) int { return Compare(d, o) }
func (d Date) Before(o Date) bool { return Compare(d, o) < 0 }
func (d Date) After(o Date) bool { return Compare(d, o) > 0 }
func (d Date) Equal(o Date) bool { return d == o }
func (d Date) IsZero() bool { return d == Date{} }
func (d Date) Weekday() time.Weekday { return d.Time().Weekday() }

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(text []byte) error {
	parsed, err := ParseDate(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Scan implements sql.Scanner for DATE columns.
func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*d = FromTime(v)
		return nil
	case string:
		return d.UnmarshalText([]byte(firstTen(v)))
	case []byte:
		return d.UnmarshalText([]byte(firstTen(string(v))))
	case nil:
		*d = Date{}
		return nil
	}
	return fmt.Errorf("calendar: cannot scan %T into Date", src)
}

// Value implements driver.Valuer.
func (d Date) Value() (driver.Value, error) {
	return d.String(), nil
}

// firstTen trims timestamp suffixes some drivers append to DATE values.
func firstTen(s string) string {
	if len(s) > len(layout) {
		return s[:len(layout)]
	}
	return s
}
