package model

import (
	"fmt"
	"time"
)

// Month identifies a calendar month, independent of time zone.
type Month struct {
	Year  int
	Month time.Month
}

// MonthOf returns the month containing t in t's own location.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// ParseMonth parses a "2006-01" formatted month.
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Month{}, fmt.Errorf("%w: %q", ErrInvalidMonth, s)
	}
	return MonthOf(t), nil
}

// AddMonths moves the month by delta, rolling over year boundaries.
func (m Month) AddMonths(delta int) Month {
	return MonthOf(time.Date(m.Year, m.Month+time.Month(delta), 1, 0, 0, 0, 0, time.UTC))
}

// Contains reports whether t falls within m when viewed in loc.
func (m Month) Contains(t time.Time, loc *time.Location) bool {
	if loc != nil {
		t = t.In(loc)
	}
	return t.Year() == m.Year && t.Month() == m.Month
}

// Days returns the number of days in the month.
func (m Month) Days() int {
	return time.Date(m.Year, m.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Start returns midnight of the first day of the month in loc.
func (m Month) Start(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, loc)
}

// Before reports whether m is earlier than other.
func (m Month) Before(other Month) bool {
	if m.Year != other.Year {
		return m.Year < other.Year
	}
	return m.Month < other.Month
}

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

func (m Month) clampedDate(day int, loc *time.Location) time.Time {
	if day > m.Days() {
		day = m.Days()
	}
	return time.Date(m.Year, m.Month, day, 0, 0, 0, 0, loc)
}
