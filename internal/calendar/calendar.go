// Package calendar resolves "today" in the dining halls' home timezone and
// builds the rolling seven-day window shown in the date bar.  Every date is
// anchored to America/Los_Angeles so that a visitor east of California does
// not see tomorrow's menus early after local midnight.
package calendar

import (
	"fmt"
	"time"
	_ "time/tzdata" // reference zone must resolve on images without zoneinfo
)

// ReferenceZone is the IANA zone that defines "today".
const ReferenceZone = "America/Los_Angeles"

// WindowDays is the length of the date bar.
const WindowDays = 7

const layout = "2006-01-02"

// Date is a calendar day with no time-of-day or zone attached.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the calendar date of t as observed in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(layout, s)
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// noon is the instant used for all date arithmetic; adding days there can
// never cross into a neighbouring calendar day.
func (d Date) noon() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 12, 0, 0, 0, time.UTC)
}

// AddDays returns d shifted by n days.
func (d Date) AddDays(n int) Date {
	return DateOf(d.noon().AddDate(0, 0, n))
}

// Weekday of the date.
func (d Date) Weekday() time.Weekday {
	return d.noon().Weekday()
}

// Equal reports whether both dates name the same day.
func (d Date) Equal(o Date) bool {
	return d == o
}

// Before reports whether d is strictly earlier than o.
func (d Date) Before(o Date) bool {
	return d.noon().Before(o.noon())
}

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool {
	return d == Date{}
}

// String renders the date as YYYY-MM-DD.
func (d Date) String() string {
	return d.noon().Format(layout)
}

// MarshalText implements encoding.TextMarshaler so dates serialise as
// YYYY-MM-DD in JSON.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Date) UnmarshalText(b []byte) error {
	p, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = p
	return nil
}

// Day pairs a date of the window with its date-bar label.
type Day struct {
	Date  Date   `json:"date"`
	Label string `json:"label"`
}

// Window returns WindowDays consecutive dates starting at anchor.
func Window(anchor Date) []Date {
	out := make([]Date, WindowDays)
	for i := range out {
		out[i] = anchor.AddDays(i)
	}
	return out
}

// Label returns "Today", "Tomorrow" or a short form like "Mon, Feb 10".
func Label(date, anchor Date) string {
	switch date {
	case anchor:
		return "Today"
	case anchor.AddDays(1):
		return "Tomorrow"
	}
	return date.noon().Format("Mon, Jan 2")
}

// Days returns the labelled window for anchor.
func Days(anchor Date) []Day {
	dates := Window(anchor)
	out := make([]Day, len(dates))
	for i, d := range dates {
		out[i] = Day{Date: d, Label: Label(d, anchor)}
	}
	return out
}

// InWindow reports whether d falls inside the window that starts at anchor.
func InWindow(d, anchor Date) bool {
	return !d.Before(anchor) && d.Before(anchor.AddDays(WindowDays))
}
