// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"
	"strconv"

	"github.com/mbeaufils/patrimoine/pkg/constants"
)

// Round rounds a value half-away-from-zero at the given decimal count.
// The shift is performed on the decimal string representation rather than
// by multiplying with pow(10, decimals), because the multiplication loses
// the decimal value before rounding (1.005*100 is 100.49999... in binary
// floats and would round down).
func Round(value float64, decimals int) float64 {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return value
	}
	shifted := shiftDecimal(value, decimals)
	return shiftDecimal(math.Round(shifted), -decimals)
}

// shiftDecimal multiplies value by 10^exp exactly with respect to its
// decimal representation.
func shiftDecimal(value float64, exp int) float64 {
	s := strconv.FormatFloat(value, 'f', -1, 64) + "e" + strconv.Itoa(exp)
	shifted, err := strconv.ParseFloat(s, 64)
	if err != nil {
		// FormatFloat output always reparses; reachable only on overflow.
		return value * math.Pow(10, float64(exp))
	}
	return shifted
}

// RoundCurrency rounds a value to two decimals, i.e. to represent real
// currency. Used both for reported figures and for logical comparisons.
func RoundCurrency(value float64) float64 {
	return Round(value, constants.CurrencyDecimals)
}

// RoundToStep rounds a value to the nearest multiple of step.
func RoundToStep(value, step float64) float64 {
	if step == 0 {
		return value
	}
	return Round(value/step, 0) * step
}

// Clamp constrains x to the inclusive range [min, max]. The caller
// guarantees min <= max.
func Clamp(x, min, max float64) float64 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}

// IsZero checks if a value is effectively zero (within currency tolerance)
func IsZero(val float64) bool {
	return math.Abs(val) <= constants.CurrencyTolerance
}

// WithinTolerance checks if two values are within a specified tolerance
func WithinTolerance(val1, val2, tolerance float64) bool {
	return math.Abs(val1-val2) <= tolerance
}
