package calendar

import (
	"encoding/json"
	"fmt"
	"time"
)

const layout = "2006-01-02"

// Date is a calendar day with no time-of-day or zone attached.
// The zero value is "no date" and reports IsZero.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// Parse parses a YYYY-MM-DD string.
func Parse(s string) (Date, error) {
	t, err := time.Parse(layout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}, nil
}

// MustParse is Parse for literals in tests and fixtures.
func MustParse(s string) Date {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Of returns the calendar day t falls on in loc. A nil loc means UTC.
// Timestamps coming from the time clock or the database must pass through
// here instead of being string-truncated, so the day is taken in the
// portal's zone and not in whatever offset the driver happened to use.
func Of(t time.Time, loc *time.Location) Date {
	if loc == nil {
		loc = time.UTC
	}
	t = t.In(loc)
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// FromDateColumn converts a DATE column value (midnight UTC from pgx/mysql)
// into a Date without applying any zone shift.
func FromDateColumn(t time.Time) Date {
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// Today returns the current day in loc.
func Today(loc *time.Location) Date {
	return Of(time.Now(), loc)
}

func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// Time returns midnight of d in loc (UTC when loc is nil).
func (d Date) Time(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Time(nil).Format(layout)
}

func (d Date) Weekday() time.Weekday {
	return d.Time(nil).Weekday()
}

func (d Date) AddDays(n int) Date {
	return FromDateColumn(d.Time(nil).AddDate(0, 0, n))
}

// Compare returns -1, 0 or +1.
func (d Date) Compare(u Date) int {
	switch {
	case d.Year != u.Year:
		return cmpInt(d.Year, u.Year)
	case d.Month != u.Month:
		return cmpInt(int(d.Month), int(u.Month))
	default:
		return cmpInt(d.Day, u.Day)
	}
}

func (d Date) Before(u Date) bool { return d.Compare(u) < 0 }
func (d Date) After(u Date) bool  { return d.Compare(u) > 0 }

func cmpInt(a, b int) int {
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Range is an inclusive span of days. A zero bound is open.
type Range struct {
	From Date
	To   Date
}

// Contains reports whether d lies within r (bounds inclusive).
func (r Range) Contains(d Date) bool {
	if !r.From.IsZero() && d.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && d.After(r.To) {
		return false
	}
	return true
}

func (r Range) IsOpen() bool {
	return r.From.IsZero() && r.To.IsZero()
}

// ParseRange parses optional start/end strings; empty strings leave the
// bound open.
func ParseRange(start, end string) (Range, error) {
	var r Range
	var err error
	if start != "" {
		if r.From, err = Parse(start); err != nil {
			return Range{}, err
		}
	}
	if end != "" {
		if r.To, err = Parse(end); err != nil {
			return Range{}, err
		}
	}
	if !r.From.IsZero() && !r.To.IsZero() && r.To.Before(r.From) {
		return Range{}, fmt.Errorf("end date %s is before start date %s", r.To, r.From)
	}
	return r, nil
}
