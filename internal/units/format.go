package units

import "math"

// Format rounds an amount for display. Precision follows magnitude, except
// that count units always snap to whole items.
//
//	count        nearest integer
//	< 0.1        2 decimals
//	[0.1, 10)    1 decimal
//	>= 10        nearest integer
func Format(amount float64, unit string) float64 {
	if IsCount(unit) {
		return math.Round(amount)
	}
	switch {
	case amount < 0.1:
		return roundTo(amount, 2)
	case amount < 10:
		return roundTo(amount, 1)
	default:
		return math.Round(amount)
	}
}

func roundTo(x float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(x*p) / p
}
