// Package date handles calendar days: no time of day, no time zone.
//
// Days are keyed by their "YYYY-MM-DD" text, which is also how they are read and
// written in ledgers, price files and reports.
package date

import (
	"cmp"
	"encoding/json"
	"fmt"
	"iter"
	"regexp"
	"strings"
	"time"
)

// DateFormat is the canonical text form of a Date.
const DateFormat = "2006-01-02"

// lenientFormat also accepts single digit months and days, for dates typed on the command line.
const lenientFormat = "2006-1-2"

// Date is a calendar day.
//
// The zero Date means "no date", for instance the end of an open-ended interval.
type Date struct {
	y int
	m time.Month
	d int
}

// New returns the Date for year, month and day, normalized the way time.Date does:
// New(2024, 1, 32) is 2024-02-01 and New(2024, 3, 0) is 2024-02-29.
func New(year int, month time.Month, day int) Date {
	y, m, d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Date()
	return Date{y, m, d}
}

func fromTime(t time.Time) Date { return New(t.Date()) }

// Time returns midnight UTC of d.
func (d Date) Time() time.Time { return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, time.UTC) }

func (d Date) Year() int              { return d.y }
func (d Date) Month() time.Month      { return d.m }
func (d Date) Day() int               { return d.d }
func (d Date) Weekday() time.Weekday  { return d.Time().Weekday() }
func (d Date) ISOWeek() (year, w int) { return d.Time().ISOWeek() }
func (d Date) IsZero() bool           { return d == Date{} }

// Compare returns -1, 0 or +1 when d is before, on or after x.
func (d Date) Compare(x Date) int {
	if c := cmp.Compare(d.y, x.y); c != 0 {
		return c
	}
	if c := cmp.Compare(d.m, x.m); c != 0 {
		return c
	}
	return cmp.Compare(d.d, x.d)
}

func (d Date) Before(x Date) bool { return d.Compare(x) < 0 }
func (d Date) After(x Date) bool  { return d.Compare(x) > 0 }

// Add returns the day n days after d (before when n is negative).
func (d Date) Add(n int) Date { return New(d.y, d.m, d.d+n) }

// Sub returns the number of days from x to d.
func (d Date) Sub(x Date) int { return int(d.Time().Sub(x.Time()) / (24 * time.Hour)) }

func (d Date) String() string { return d.Format(DateFormat) }

// Format formats d with a time layout.
func (d Date) Format(layout string) string { return d.Time().Format(layout) }

// Parse reads a date typed by a user. Month and day may have a single digit.
func Parse(str string) (Date, error) {
	t, err := time.Parse(lenientFormat, strings.TrimSpace(str))
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q want format %q: %w", str, DateFormat, err)
	}
	return fromTime(t), nil
}

// MustParse is like Parse but panics on error.
func MustParse(str string) Date {
	d, err := Parse(str)
	if err != nil {
		panic(err)
	}
	return d
}

var keyPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ParseKey reads a date found in data files.
//
// It accepts a "YYYY-MM-DD" key, or a RFC 3339 timestamp which stands for its UTC day.
// Anything else is an error.
func ParseKey(str string) (Date, error) {
	str = strings.TrimSpace(str)
	layout := time.RFC3339Nano
	if keyPattern.MatchString(str) {
		layout = DateFormat
	}
	t, err := time.Parse(layout, str)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date key %q want format %q", str, DateFormat)
	}
	return fromTime(t.UTC()), nil
}

// MarshalJSON writes d as a "YYYY-MM-DD" string, null for the zero Date.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

// UnmarshalJSON reads a date key. Null and "" read as the zero Date.
func (d *Date) UnmarshalJSON(data []byte) error {
	var str *string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	if str == nil || *str == "" {
		*d = Date{}
		return nil
	}
	on, err := ParseKey(*str)
	if err != nil {
		return err
	}
	*d = on
	return nil
}

// Days iterates over every calendar day of [from, to].
func Days(from, to Date) iter.Seq[Date] {
	return func(yield func(Date) bool) {
		for on := from; !on.After(to); on = on.Add(1) {
			if !yield(on) {
				return
			}
		}
	}
}
