package utils

import (
	"fmt"
	"time"
)

const DayLayout = "2006-01-02"

// Day is a calendar date with no time-of-day or zone.
type Day struct {
	Year  int
	Month time.Month
	Day   int
}

// DayKey returns the calendar day t falls on in loc.
func DayKey(t time.Time, loc *time.Location) Day {
	if loc == nil {
		loc = time.Local
	}
	y, m, d := t.In(loc).Date()
	return Day{Year: y, Month: m, Day: d}
}

func ParseDay(s string) (Day, error) {
	t, err := time.Parse(DayLayout, s)
	if err != nil {
		return Day{}, fmt.Errorf("invalid day %q: %w", s, err)
	}
	return Day{Year: t.Year(), Month: t.Month(), Day: t.Day()}, nil
}

// AddDays handles month and year rollover.
func (d Day) AddDays(n int) Day {
	y, m, dd := d.midnight().AddDate(0, 0, n).Date()
	return Day{Year: y, Month: m, Day: dd}
}

func (d Day) Before(o Day) bool {
	return d.midnight().Before(o.midnight())
}

// Equal compares calendar positions, so an unnormalised Day such as
// March 32 equals April 1.
func (d Day) Equal(o Day) bool {
	return d.midnight().Equal(o.midnight())
}

func (d Day) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

func (d Day) IsZero() bool {
	return d == Day{}
}

// midnight is in UTC so day arithmetic never crosses a DST shift.
func (d Day) midnight() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// LoadLocation resolves an IANA zone name; empty or "Local" is the server zone.
func LoadLocation(name string) (*time.Location, error) {
	if name == "" || name == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", name, err)
	}
	return loc, nil
}
