// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/iwvelando/seasonality-forecast/pkg/constants"
)

// fixedNotationLimit is the magnitude from which ToFixed switches to
// exponent notation.
const fixedNotationLimit = 1e21

// Round rounds a value to two decimals.
// Used for making logical comparisons.
func Round(val float64) float64 {
	return math.Round(val*constants.DecimalPrecision) / constants.DecimalPrecision
}

// WithinTolerance checks if two values are within a specified tolerance
func WithinTolerance(val1, val2, tolerance float64) bool {
	return math.Abs(val1-val2) <= tolerance
}

// IsFinite reports whether val is neither NaN nor an infinity.
func IsFinite(val float64) bool {
	return !math.IsNaN(val) && !math.IsInf(val, 0)
}

// ToFixed formats val with exactly digits decimals. Rounding is half away
// from zero on the exact binary value of val, so 0.125 becomes "0.13" while
// 1.005 (stored as 1.00499999...) becomes "1.00". Negative values keep their
// sign even when they round to zero.
func ToFixed(val float64, digits int) string {
	switch {
	case math.IsNaN(val):
		return "NaN"
	case math.IsInf(val, 1):
		return "Infinity"
	case math.IsInf(val, -1):
		return "-Infinity"
	}
	if digits < 0 {
		digits = 0
	}
	if math.Abs(val) >= fixedNotationLimit {
		return strconv.FormatFloat(val, 'g', -1, 64)
	}

	exact := new(big.Rat).SetFloat64(math.Abs(val))
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(digits)), nil)
	exact.Mul(exact, new(big.Rat).SetInt(scale))
	exact.Add(exact, big.NewRat(1, 2))
	units := new(big.Int).Quo(exact.Num(), exact.Denom()).String()

	if digits > 0 {
		if len(units) <= digits {
			units = strings.Repeat("0", digits-len(units)+1) + units
		}
		cut := len(units) - digits
		units = units[:cut] + "." + units[cut:]
	}
	if val < 0 {
		return "-" + units
	}
	return units
}
