// Package dates normalizes the several date shapes the community data
// carries (ISO strings, RFC3339 timestamps, native times) into one
// canonical representation: midnight in the service timezone. Applied
// once at the intake boundary so everything downstream sees a single
// form.
package dates

import (
	"fmt"
	"time"
)

const ISOLayout = "2006-01-02"

// Normalize accepts a YYYY-MM-DD string, an RFC3339 string, or a
// time.Time and returns midnight of that calendar day in loc.
func Normalize(v interface{}, loc *time.Location) (time.Time, error) {
	switch d := v.(type) {
	case string:
		return NormalizeString(d, loc)
	case time.Time:
		return Midnight(d.In(loc)), nil
	case *time.Time:
		if d == nil {
			return time.Time{}, fmt.Errorf("nil date")
		}
		return Midnight(d.In(loc)), nil
	default:
		return time.Time{}, fmt.Errorf("unsupported date type %T", v)
	}
}

// NormalizeString parses YYYY-MM-DD first, then RFC3339.
func NormalizeString(s string, loc *time.Location) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	if t, err := time.ParseInLocation(ISOLayout, s, loc); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return Midnight(t.In(loc)), nil
	}
	return time.Time{}, fmt.Errorf("unparseable date %q (expected YYYY-MM-DD or RFC3339)", s)
}

// Midnight truncates t to 00:00 of its calendar day, keeping its location.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// ISO formats t as YYYY-MM-DD.
func ISO(t time.Time) string {
	return t.Format(ISOLayout)
}

// MonthDay extracts the month and day of a YYYY-MM-DD birth date.
// The year is parsed but ignored by birthday math.
func MonthDay(birthDate string) (time.Month, int, error) {
	t, err := time.Parse(ISOLayout, birthDate)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid birth_date %q: %w", birthDate, err)
	}
	return t.Month(), t.Day(), nil
}
