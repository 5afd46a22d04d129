package analytics

import (
	"math"

	"github.com/shopspring/decimal"
)

// round rounds half to even at the given number of decimal places.
func round(v float64, places int32) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	f, _ := decimal.NewFromFloat(v).RoundBank(places).Float64()
	return f
}

func round2(v float64) float64 { return round(v, 2) }
