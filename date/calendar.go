package date

import "time"

// US equity market calendar (NYSE holidays). Early closes are trading days.

// IsTradingDay reports whether the US equity market is open on d.
func IsTradingDay(d Date) bool {
	switch d.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	return !isHoliday(d)
}

// NextTradingDay returns the first trading day strictly after d.
func NextTradingDay(d Date) Date {
	next := d.Add(1)
	for !IsTradingDay(next) {
		next = next.Add(1)
	}
	return next
}

// TradingDays returns the trading days in [from, to].
func TradingDays(from, to Date) []Date {
	var days []Date
	for on := range Days(from, to) {
		if IsTradingDay(on) {
			days = append(days, on)
		}
	}
	return days
}

// TradingDayAge counts the trading days after from, up to and including to.
//
// It is 0 when to is not after from.
func TradingDayAge(from, to Date) int {
	if !to.After(from) {
		return 0
	}
	return len(TradingDays(from.Add(1), to))
}

func isHoliday(d Date) bool {
	y := d.Year()
	holidays := []Date{
		observed(New(y, time.January, 1)),
		nthWeekday(y, time.January, time.Monday, 3),  // Martin Luther King Jr. Day
		nthWeekday(y, time.February, time.Monday, 3), // Washington's Birthday
		easter(y).Add(-2),                            // Good Friday
		lastWeekday(y, time.May, time.Monday),        // Memorial Day
		observed(New(y, time.July, 4)),
		nthWeekday(y, time.September, time.Monday, 1),  // Labor Day
		nthWeekday(y, time.November, time.Thursday, 4), // Thanksgiving
		observed(New(y, time.December, 25)),
	}
	if y >= 2021 {
		holidays = append(holidays, observed(New(y, time.June, 19)))
	}
	// A Saturday New Year's Day is not observed on the previous Friday.
	for _, h := range holidays {
		if h == d {
			return true
		}
	}
	return false
}

// observed moves a Saturday holiday to Friday and a Sunday holiday to Monday.
func observed(d Date) Date {
	switch d.Weekday() {
	case time.Saturday:
		return d.Add(-1)
	case time.Sunday:
		return d.Add(1)
	}
	return d
}

func nthWeekday(year int, month time.Month, weekday time.Weekday, n int) Date {
	first := New(year, month, 1)
	offset := (int(weekday) - int(first.Weekday()) + 7) % 7
	return first.Add(offset + 7*(n-1))
}

func lastWeekday(year int, month time.Month, weekday time.Weekday) Date {
	last := New(year, month+1, 0)
	offset := (int(last.Weekday()) - int(weekday) + 7) % 7
	return last.Add(-offset)
}

// easter returns Western Easter Sunday (anonymous Gregorian algorithm).
func easter(year int) Date {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := (h+l-7*m+114)%31 + 1
	return New(year, time.Month(month), day)
}
