// Package numeric provides lenient number parsing for user-entered values.
package numeric

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"unicode"
)

const infinity = "Infinity"

// ParseFloat reads the longest leading decimal literal of s, after skipping
// leading whitespace, and ignores whatever follows it. "1.5kg" yields 1.5,
// " .5" yields 0.5 and "Infinity" yields +Inf. The boolean is false when no
// number prefix exists, which mirrors a browser parseFloat returning NaN.
func ParseFloat(s string) (float64, bool) {
	s = strings.TrimLeftFunc(s, isSpace)
	prefix := literalPrefix(s)
	if prefix == "" {
		return math.NaN(), false
	}

	unsigned := strings.TrimLeft(prefix, "+-")
	if unsigned == infinity {
		if strings.HasPrefix(prefix, "-") {
			return math.Inf(-1), true
		}
		return math.Inf(1), true
	}

	v, err := strconv.ParseFloat(prefix, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return math.NaN(), false
	}
	return v, true
}

// ParseFloatOrNaN returns NaN when s holds no number. It is the convenient form
// for callers that validate with math.IsNaN afterwards.
func ParseFloatOrNaN(s string) float64 {
	v, _ := ParseFloat(s)
	return v
}

// literalPrefix returns the longest prefix of s forming a decimal literal:
// [sign] (Infinity | digits [. digits] | . digits) [e [sign] digits].
func literalPrefix(s string) string {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	if strings.HasPrefix(s[i:], infinity) {
		return s[:i+len(infinity)]
	}

	intStart := i
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	intDigits := i - intStart

	fracDigits := 0
	if i < len(s) && s[i] == '.' {
		j := i + 1
		for j < len(s) && isDigit(s[j]) {
			j++
		}
		fracDigits = j - i - 1
		if intDigits > 0 || fracDigits > 0 {
			i = j
		}
	}
	if intDigits == 0 && fracDigits == 0 {
		return ""
	}

	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		expStart := j
		for j < len(s) && isDigit(s[j]) {
			j++
		}
		if j > expStart {
			i = j
		}
	}

	return s[:i]
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isSpace(r rune) bool {
	return unicode.IsSpace(r) || r == '\uFEFF'
}
