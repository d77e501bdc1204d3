package domain

import (
	"fmt"
	"time"
)

const dayLayout = "2006-01-02"

// CalendarDay is a timezone-free date. Which day a timestamp falls on depends
// on the location it is truncated in, so callers always pass one explicitly.
type CalendarDay struct {
	Year  int
	Month time.Month
	Day   int
}

// DayOf truncates t to its calendar day in loc.
func DayOf(t time.Time, loc *time.Location) CalendarDay {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return CalendarDay{Year: y, Month: m, Day: d}
}

func ParseDay(s string) (CalendarDay, error) {
	t, err := time.Parse(dayLayout, s)
	if err != nil {
		return CalendarDay{}, fmt.Errorf("parse day %q: %w", s, err)
	}
	return DayOf(t, time.UTC), nil
}

func (d CalendarDay) IsZero() bool {
	return d == CalendarDay{}
}

// Time returns midnight UTC of the day.
func (d CalendarDay) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func (d CalendarDay) AddDays(n int) CalendarDay {
	return DayOf(d.Time().AddDate(0, 0, n), time.UTC)
}

func (d CalendarDay) Before(o CalendarDay) bool {
	return d.Time().Before(o.Time())
}

func (d CalendarDay) String() string {
	if d.IsZero() {
		return ""
	}
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

func (d CalendarDay) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *CalendarDay) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*d = CalendarDay{}
		return nil
	}
	parsed, err := ParseDay(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	dayLayout,
}

// ParseTimestamp is best-effort: anything that is not a recognised
// timestamp string yields ok=false. Zone-less values are read as UTC.
func ParseTimestamp(v any) (time.Time, bool) {
	s, ok := v.(string)
	if !ok || s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
