// Package datetime provides date and time utility functions.
package datetime

import (
	"fmt"
	"strings"
	"time"

	"github.com/iwvelando/seasonality-forecast/pkg/constants"
)

const (
	// DateTimeLayout is the format accepted when a month is chosen by date.
	DateTimeLayout = constants.DateTimeLayout
)

// MustParseTime parses a date string using the given layout and panics on error.
// This is intended for use in tests where the date string is known to be valid.
func MustParseTime(layout, dateStr string) time.Time {
	t, err := time.Parse(layout, dateStr)
	if err != nil {
		panic(err)
	}
	return t
}

// MonthOf returns the calendar month number (1-12) of t.
func MonthOf(t time.Time) int {
	return int(t.Month())
}

// MonthOfDate returns the month number of a "2006-01" formatted date.
func MonthOfDate(date string) (int, error) {
	t, err := time.Parse(DateTimeLayout, strings.TrimSpace(date))
	if err != nil {
		return 0, fmt.Errorf("invalid date %q, expected YYYY-MM: %w", date, err)
	}
	return MonthOf(t), nil
}
