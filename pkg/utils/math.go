package utils

import "math"

// RoundDecimal rounds value to the given number of decimal places.
// RoundDecimal(0.123456, 4) returns 0.1235.
func RoundDecimal(value float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))
	return math.Round(value*pow) / pow
}
