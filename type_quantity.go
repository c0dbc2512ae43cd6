package returns

import "github.com/shopspring/decimal"

// Quantity is a share count, kept at micro-share precision.
type Quantity struct {
	value decimal.Decimal
}

// Q returns a Quantity rounded to micro-shares.
func Q[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | string | decimal.Decimal](value T) Quantity {
	return Quantity{value: FromMicroShares(ToMicroShares(D(value)))}
}

func (t Quantity) Equal(p Quantity) bool    { return t.value.Equal(p.value) }
func (t Quantity) Add(p Quantity) Quantity  { return Q(t.value.Add(p.value)) }
func (t Quantity) IsZero() bool             { return t.value.IsZero() }
func (t Quantity) Decimal() decimal.Decimal { return t.value }
func (t Quantity) String() string           { return t.value.String() }

// Value returns the market value of t at price.
func (t Quantity) Value(price decimal.Decimal) decimal.Decimal { return t.value.Mul(price) }

func (t Quantity) MarshalJSON() ([]byte, error) {
	return t.value.MarshalJSON()
}

func (t *Quantity) UnmarshalJSON(decimalBytes []byte) error {
	var v decimal.Decimal
	if err := v.UnmarshalJSON(decimalBytes); err != nil {
		return err
	}
	*t = Q(v)
	return nil
}
