package returns

import (
	"math"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

const (
	// centPlaces is the number of decimal places of a money amount.
	centPlaces = 2
	// microSharePlaces is the number of decimal places of a share count.
	microSharePlaces = 6
	// divisionPlaces bounds the digits produced by a division inside a return computation.
	divisionPlaces = 24
)

var (
	decZero = decimal.Zero
	decOne  = decimal.NewFromInt(1)
)

// D is a convenient factory for decimal.Decimal.
//
// Non-finite floats and unparseable strings yield zero.
func D[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | string | decimal.Decimal](value T) decimal.Decimal {
	switch v := any(value).(type) {
	case decimal.Decimal:
		return v
	case float32:
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			return decZero
		}
		return decimal.NewFromFloat32(v)
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return decZero
		}
		return decimal.NewFromFloat(v)
	case int:
		return decimal.NewFromInt(int64(v))
	case int32:
		return decimal.NewFromInt32(v)
	case int64:
		return decimal.NewFromInt(v)
	case uint:
		return decimal.NewFromUint64(uint64(v))
	case uint32:
		return decimal.NewFromUint64(uint64(v))
	case uint64:
		return decimal.NewFromUint64(v)
	case string:
		d, err := decimal.NewFromString(v)
		if err != nil {
			return decZero
		}
		return d
	default:
		panic("unsupported type")
	}
}

// ToCents returns x as a whole number of cents, rounding half away from zero.
func ToCents(x decimal.Decimal) int64 { return x.Round(centPlaces).Shift(centPlaces).IntPart() }

// FromCents returns the amount for c cents.
func FromCents(c int64) decimal.Decimal { return decimal.New(c, -centPlaces) }

// ToMicroShares returns x as a whole number of millionths of a share, rounding half away from zero.
func ToMicroShares(x decimal.Decimal) int64 {
	return x.Round(microSharePlaces).Shift(microSharePlaces).IntPart()
}

// FromMicroShares returns the share count for m micro-shares.
func FromMicroShares(m int64) decimal.Decimal { return decimal.New(m, -microSharePlaces) }

// RoundDecimal rounds x to n places, half away from zero.
func RoundDecimal(x decimal.Decimal, n int32) decimal.Decimal { return x.Round(n) }

// Float returns x rounded to n places as a float64.
//
// This is the only place where a decimal leaves the exact domain.
func Float(x decimal.Decimal, n int32) float64 { return x.Round(n).InexactFloat64() }

// ratio returns num/den, or zero when den is not positive.
func ratio(num, den decimal.Decimal) decimal.Decimal {
	if !den.IsPositive() {
		return decZero
	}
	return num.DivRound(den, divisionPlaces)
}

// returnStep is the simple return of nav over prev once flow is taken out.
//
// It is zero when prev is not positive.
func returnStep(prev, nav, flow decimal.Decimal) decimal.Decimal {
	if !prev.IsPositive() {
		return decZero
	}
	return ratio(nav.Sub(flow), prev).Sub(decOne)
}

// compound returns acc*(1+r), bounded to divisionPlaces.
func compound(acc decimal.Decimal, r float64) decimal.Decimal {
	return acc.Mul(decOne.Add(D(r))).Round(divisionPlaces)
}
