// Package calendar normalizes the date and time-of-day strings stored on slots
// and implements the "today" and time-of-day ordering rules shared by every view.
//
// Dates are calendar days in the service's fixed zone (UTC-3 by default) and
// are stored as YYYY-MM-DD. Two dates are the same day when their dd-mm-yyyy
// renderings are equal; no timestamp ranges are involved.
package calendar

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	DateLayout    = "2006-01-02" // storage form
	DisplayLayout = "02-01-2006" // dd-mm-yyyy
	TimeLayout    = "15:04"

	// MidnightKey is the sort key of 00:00, which closes the operating day.
	MidnightKey = 24 * 60
)

// DefaultLocation is UTC-3 with no daylight saving.
var DefaultLocation = time.FixedZone("UTC-03:00", -3*60*60)

// ParseOffset turns "-03:00", "+05:30" or "-3" into a fixed zone.
func ParseOffset(s string) (*time.Location, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultLocation, nil
	}
	if strings.EqualFold(s, "UTC") || s == "Z" {
		return time.UTC, nil
	}

	sign := 1
	switch s[0] {
	case '-':
		sign = -1
		s = s[1:]
	case '+':
		s = s[1:]
	}

	hh, mm, found := strings.Cut(s, ":")
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 14 {
		return nil, fmt.Errorf("invalid utc offset %q", s)
	}
	m := 0
	if found {
		m, err = strconv.Atoi(mm)
		if err != nil || m < 0 || m > 59 {
			return nil, fmt.Errorf("invalid utc offset %q", s)
		}
	}

	secs := sign * (h*3600 + m*60)
	name := fmt.Sprintf("UTC%s%02d:%02d", signString(sign), h, m)
	return time.FixedZone(name, secs), nil
}

func signString(sign int) string {
	if sign < 0 {
		return "-"
	}
	return "+"
}

// Today returns the current calendar day in loc as YYYY-MM-DD.
func Today(now time.Time, loc *time.Location) string {
	if loc == nil {
		loc = DefaultLocation
	}
	return now.In(loc).Format(DateLayout)
}

// NormalizeDate accepts YYYY-MM-DD, an ISO-8601 timestamp (only its date part
// is kept) or dd-mm-yyyy, and returns YYYY-MM-DD.
func NormalizeDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, 'T'); i > 0 {
		s = s[:i]
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t.Format(DateLayout), nil
	}
	if t, err := time.Parse(DisplayLayout, s); err == nil {
		return t.Format(DateLayout), nil
	}
	return "", fmt.Errorf("invalid date %q", s)
}

// DisplayDate renders a stored date as dd-mm-yyyy. Unparseable input is returned as is.
func DisplayDate(date string) string {
	d, err := NormalizeDate(date)
	if err != nil {
		return date
	}
	t, _ := time.Parse(DateLayout, d)
	return t.Format(DisplayLayout)
}

// SameDay reports whether a and b denote the same calendar day.
func SameDay(a, b string) bool {
	return DisplayDate(a) == DisplayDate(b)
}

// NormalizeTime accepts H:MM, HH:MM or HH:MM:SS and returns HH:MM.
func NormalizeTime(s string) (string, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return "", fmt.Errorf("invalid time %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return "", fmt.Errorf("invalid time %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || len(parts[1]) != 2 || m < 0 || m > 59 {
		return "", fmt.Errorf("invalid time %q", s)
	}
	if len(parts) == 3 {
		if sec, err := strconv.Atoi(parts[2]); err != nil || sec < 0 || sec > 59 {
			return "", fmt.Errorf("invalid time %q", s)
		}
	}
	return fmt.Sprintf("%02d:%02d", h, m), nil
}

// MinuteKey returns the minutes since midnight of an HH:MM time, except that
// 00:00 maps to MidnightKey so that it sorts after 23:59. Invalid times sort
// after everything else.
func MinuteKey(hhmm string) int {
	t, err := NormalizeTime(hhmm)
	if err != nil {
		return MidnightKey + 1
	}
	h, _ := strconv.Atoi(t[:2])
	m, _ := strconv.Atoi(t[3:])
	if h == 0 && m == 0 {
		return MidnightKey
	}
	return h*60 + m
}

// TimeLess orders two times of day by MinuteKey.
func TimeLess(a, b string) bool {
	return MinuteKey(a) < MinuteKey(b)
}

var (
	weekdays = [...]string{"domingo", "lunes", "martes", "miércoles", "jueves", "viernes", "sábado"}
	months   = [...]string{"enero", "febrero", "marzo", "abril", "mayo", "junio", "julio",
		"agosto", "septiembre", "octubre", "noviembre", "diciembre"}
)

// LongLabel renders a date as "lunes 5 de mayo".
func LongLabel(date string) string {
	d, err := NormalizeDate(date)
	if err != nil {
		return date
	}
	t, _ := time.Parse(DateLayout, d)
	return fmt.Sprintf("%s %d de %s", weekdays[t.Weekday()], t.Day(), months[t.Month()-1])
}

// DayMonth renders a date as "5 de mayo".
func DayMonth(date string) string {
	d, err := NormalizeDate(date)
	if err != nil {
		return date
	}
	t, _ := time.Parse(DateLayout, d)
	return fmt.Sprintf("%d de %s", t.Day(), months[t.Month()-1])
}
