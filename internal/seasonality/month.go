// Package seasonality holds the month reference data, the seasonality
// coefficient sets and the resolver that normalizes arbitrary candidate sets
// against the defaults.
package seasonality

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/iwvelando/seasonality-forecast/pkg/constants"
)

// ErrInvalidMonth is returned when a value does not name one of the twelve months.
var ErrInvalidMonth = errors.New("invalid month")

// Month identifies a calendar month, January = 1 through December = 12.
type Month int

// The twelve months.
const (
	January Month = iota + 1
	February
	March
	April
	May
	June
	July
	August
	September
	October
	November
	December
)

var monthNames = [constants.MonthsPerYear]string{
	"January",
	"February",
	"March",
	"April",
	"May",
	"June",
	"July",
	"August",
	"September",
	"October",
	"November",
	"December",
}

// Months returns all twelve months in calendar order.
func Months() []Month {
	months := make([]Month, 0, constants.MonthsPerYear)
	for m := January; m <= December; m++ {
		months = append(months, m)
	}
	return months
}

// Valid reports whether m is one of the twelve months.
func (m Month) Valid() bool {
	return m >= January && m <= December
}

// String returns the English month name.
func (m Month) String() string {
	if !m.Valid() {
		return fmt.Sprintf("Month(%d)", int(m))
	}
	return monthNames[m-1]
}

// Key returns the JSON object key used for m in stored and exported sets.
func (m Month) Key() string {
	return strconv.Itoa(int(m))
}

// ParseMonth accepts a month number ("1".."12"), a full English month name or
// its three letter abbreviation, case-insensitively.
func ParseMonth(value string) (Month, error) {
	trimmed := strings.TrimSpace(value)
	if n, err := strconv.Atoi(trimmed); err == nil {
		m := Month(n)
		if !m.Valid() {
			return 0, fmt.Errorf("%w: %d is outside 1-12", ErrInvalidMonth, n)
		}
		return m, nil
	}

	lower := strings.ToLower(trimmed)
	if len(lower) >= 3 {
		for i, name := range monthNames {
			full := strings.ToLower(name)
			if lower == full || lower == full[:3] {
				return Month(i + 1), nil
			}
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidMonth, value)
}
