package returns

import "fmt"

// Percent is a return expressed in percent, for display only.
type Percent float64

// AsPercent converts a fractional return (0.05) into a Percent (5%).
func AsPercent(r float64) Percent { return Percent(100 * r) }

func (p Percent) String() string {
	return fmt.Sprintf("%.2f%%", float64(p))
}

func (p Percent) SignedString() string {
	res := fmt.Sprintf("%+.2f%%", float64(p))
	if res == "+0.00%" || res == "-0.00%" {
		return "-"
	}
	return res
}
