package render

import (
	"math"

	"github.com/dustin/go-humanize"
)

// Money formats amounts with a currency symbol and two decimals.
type Money struct {
	Symbol string
}

func (m Money) Format(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	if v < 0 {
		return "-" + m.Symbol + humanize.FormatFloat("#,###.##", -v)
	}
	return m.Symbol + humanize.FormatFloat("#,###.##", v)
}

func metres(v float64) string {
	return humanize.Ftoa(math.Round(v*100)/100) + " m"
}
