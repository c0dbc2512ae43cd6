package returns

import "github.com/shopspring/decimal"

// exp and ln on decimals, evaluated with local state only.
//
// decimal.Decimal.ExpTaylor memoizes factorials in a package-level slice, which is not safe
// for concurrent callers, and Decimal.Ln relies on it.

// mathPlaces is the working precision of expDecimal and lnDecimal.
const mathPlaces = 32

var (
	decTwo        = decimal.NewFromInt(2)
	decHalf       = decimal.New(5, -1)
	threeQuarters = decimal.New(75, -2)
	threeHalves   = decimal.New(15, -1)

	// ln2 is read-only after init.
	ln2 = atanhLn(decTwo)
)

// atanhLn returns ln(z) = 2·atanh((z-1)/(z+1)), accurate for z close to 1.
func atanhLn(z decimal.Decimal) decimal.Decimal {
	const places = mathPlaces + 4
	y := z.Sub(decOne).DivRound(z.Add(decOne), places)
	y2 := y.Mul(y).Round(places)
	sum := decZero
	power := y
	for n := int64(1); ; n += 2 {
		term := power.DivRound(decimal.NewFromInt(n), places)
		if term.IsZero() {
			break
		}
		sum = sum.Add(term)
		power = power.Mul(y2).Round(places)
	}
	return sum.Mul(decTwo)
}

// lnDecimal returns the natural logarithm of x. x must be positive.
func lnDecimal(x decimal.Decimal) decimal.Decimal {
	if !x.IsPositive() {
		panic("lnDecimal of a non positive value " + x.String())
	}
	// x = m·2^k with m in [0.75, 1.5)
	k := int64(0)
	m := x
	for m.GreaterThanOrEqual(threeHalves) {
		m = m.DivRound(decTwo, mathPlaces+8)
		k++
	}
	for m.LessThan(threeQuarters) {
		m = m.Mul(decTwo)
		k--
	}
	return atanhLn(m).Add(ln2.Mul(decimal.NewFromInt(k))).Round(mathPlaces)
}

// expDecimal returns e^x.
func expDecimal(x decimal.Decimal) decimal.Decimal {
	const places = mathPlaces + 8
	// e^x = (e^(x/2^n))^(2^n) with |x/2^n| <= 1/2
	n := 0
	r := x
	for r.Abs().GreaterThan(decHalf) {
		r = r.DivRound(decTwo, places)
		n++
	}
	sum := decOne
	term := decOne
	for i := int64(1); ; i++ {
		term = term.Mul(r).DivRound(decimal.NewFromInt(i), places)
		if term.IsZero() {
			break
		}
		sum = sum.Add(term)
	}
	for ; n > 0; n-- {
		sum = sum.Mul(sum).Round(places)
	}
	return sum.Round(mathPlaces)
}

// powDecimal returns base^exponent for a positive base.
func powDecimal(base, exponent decimal.Decimal) decimal.Decimal {
	if exponent.IsZero() {
		return decOne
	}
	return expDecimal(exponent.Mul(lnDecimal(base)))
}
