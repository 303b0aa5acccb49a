package booking

import (
	"fmt"
	"time"
)

// DateLayout is the wire and storage layout of a calendar date.
const DateLayout = "2006-01-02"

// Date is a calendar date in YYYY-MM-DD form. Because the layout is fixed
// width, lexicographic order on the string is chronological order.
type Date string

// ParseDate validates s as a YYYY-MM-DD calendar date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return "", fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return Date(t.Format(DateLayout)), nil
}

// DateOf returns the UTC calendar date of t.
func DateOf(t time.Time) Date {
	return Date(t.UTC().Format(DateLayout))
}

// Before reports whether d is strictly earlier than other.
func (d Date) Before(other Date) bool { return d < other }

// After reports whether d is strictly later than other.
func (d Date) After(other Date) bool { return d > other }

// String returns the YYYY-MM-DD representation.
func (d Date) String() string { return string(d) }

// Clock supplies the current time. Tests substitute a fixed clock.
type Clock func() time.Time

// Today returns the current UTC calendar date according to c.
func (c Clock) Today() Date {
	if c == nil {
		return DateOf(time.Now())
	}
	return DateOf(c())
}

// SystemClock is the wall clock.
var SystemClock Clock = time.Now
