package returns

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is used whenever a currency code is missing or malformed.
const DefaultCurrency = "USD"

// Money is an amount in a currency, in major units.
type Money struct {
	value decimal.Decimal
	cur   string
}

// M returns a Money for value in currency.
func M[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | string | decimal.Decimal](value T, currency string) Money {
	return Money{value: D(value), cur: currency}
}

// MinorUnits returns the number of decimal places of currency, 2 for unknown currencies.
func MinorUnits(currency string) int32 {
	if c := money.GetCurrency(currency); c != nil {
		return int32(c.Fraction)
	}
	return centPlaces
}

func (m Money) Currency() string         { return m.cur }
func (m Money) Decimal() decimal.Decimal { return m.value }
func (m Money) IsZero() bool             { return m.value.IsZero() }

// Mul returns m times rate, unrounded.
func (m Money) Mul(rate decimal.Decimal) Money { return Money{value: m.value.Mul(rate), cur: m.cur} }

// Round returns m rounded half away from zero to the currency minor units.
func (m Money) Round() Money {
	return Money{value: m.value.Round(MinorUnits(m.cur)), cur: m.cur}
}

// String formats m the go-money way, "$1,234.50" or "1.234,50 €".
func (m Money) String() string {
	units := MinorUnits(m.cur)
	minor := m.value.Round(units).Shift(units).IntPart()
	return money.New(minor, m.cur).Display()
}
