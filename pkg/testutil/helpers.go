// Package testutil provides common utility functions for testing.
package testutil

import (
	"github.com/iwvelando/seasonality-forecast/internal/forecast"
	"github.com/iwvelando/seasonality-forecast/internal/seasonality"
)

// FindMonth finds the forecast for month in the results slice.
// Returns a pointer to the result if found, nil otherwise.
func FindMonth(results []forecast.Result, month seasonality.Month) *forecast.Result {
	for i := range results {
		if results[i].Month == month {
			return &results[i]
		}
	}
	return nil
}
