package domain

import "math"

// Round rounds half away from zero to the given number of decimal places.
// Monetary values and scores use 2 places at the API boundary, ratios use 4.
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
