package invest

import "math" // Rounding helpers

// Round2 rounds a currency amount to 2 decimal places
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Round6 rounds a unit quantity to 6 decimal places
func Round6(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}

// Roundup returns the gap between amount and the next multiple of nearest,
// rounded to 2 decimal places. An amount that is already an exact multiple
// still rounds up to the next one, so every transaction yields savings:
// the result is always in (0, nearest].
func Roundup(amount, nearest float64) float64 {
	if nearest <= 0 {
		nearest = 1 // Default to whole currency units
	}
	next := (math.Floor(amount/nearest) + 1) * nearest // Next multiple above amount
	return Round2(next - amount)
}
