// Package forecast computes monthly demand forecasts from an annual demand
// figure and a set of seasonality coefficients.
package forecast

import (
	"errors"
	"fmt"
	"math"

	"github.com/iwvelando/seasonality-forecast/internal/seasonality"
	"github.com/iwvelando/seasonality-forecast/pkg/constants"
	"github.com/iwvelando/seasonality-forecast/pkg/mathutil"
	"github.com/iwvelando/seasonality-forecast/pkg/numeric"
)

// ValidationMessage is the user-facing text for an unusable annual demand.
const ValidationMessage = constants.AnnualDemandValidationMessage

// ValidationError reports an annual demand that is not a positive number.
type ValidationError struct {
	AnnualDemand float64
}

func (e *ValidationError) Error() string {
	return ValidationMessage
}

// IsValidationError reports whether err is, or wraps, a *ValidationError.
func IsValidationError(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

// Result holds the forecast for a single month.
type Result struct {
	Month         seasonality.Month `json:"month"`
	MonthName     string            `json:"monthName"`
	AnnualDemand  float64           `json:"annualDemand"`
	Factor        float64           `json:"factor"`
	MonthlyDemand float64           `json:"monthlyDemand"`
}

// Formatted returns the monthly demand with two decimals.
func (r Result) Formatted() string {
	return mathutil.ToFixed(r.MonthlyDemand, constants.DisplayDecimals)
}

// String renders the result as "Forecast for <Month>: <demand>".
func (r Result) String() string {
	return "Forecast for " + r.Month.String() + ": " + r.Formatted()
}

// ValidateAnnualDemand returns a *ValidationError when value is not a finite
// number greater than zero.
func ValidateAnnualDemand(value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) || value <= 0 {
		return &ValidationError{AnnualDemand: value}
	}
	return nil
}

// ParseAnnualDemand reads a user-entered annual demand. Text without a leading
// number yields NaN, which ValidateAnnualDemand rejects.
func ParseAnnualDemand(value string) float64 {
	return numeric.ParseFloatOrNaN(value)
}

// Calculate forecasts the demand of month as (annualDemand / 12) * factor,
// where factor comes from coefficients and falls back to the month's default.
func Calculate(annualDemand float64, month seasonality.Month, coefficients seasonality.Coefficients) (Result, error) {
	if err := ValidateAnnualDemand(annualDemand); err != nil {
		return Result{}, err
	}
	if !month.Valid() {
		return Result{}, fmt.Errorf("%w: %d", seasonality.ErrInvalidMonth, int(month))
	}

	factor := coefficients.Factor(month)
	monthlyDemand := (annualDemand / constants.MonthsPerYear) * factor

	return Result{
		Month:         month,
		MonthName:     month.String(),
		AnnualDemand:  annualDemand,
		Factor:        factor,
		MonthlyDemand: monthlyDemand,
	}, nil
}

// CalculateYear forecasts every month of the year in calendar order.
func CalculateYear(annualDemand float64, coefficients seasonality.Coefficients) ([]Result, error) {
	if err := ValidateAnnualDemand(annualDemand); err != nil {
		return nil, err
	}

	results := make([]Result, 0, constants.MonthsPerYear)
	for _, m := range seasonality.Months() {
		result, err := Calculate(annualDemand, m, coefficients)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, nil
}

// Total returns the summed monthly demand of results.
func Total(results []Result) float64 {
	var total float64
	for _, r := range results {
		total += r.MonthlyDemand
	}
	return total
}

// Display returns the line shown to a user: the forecast, or the validation
// message when the annual demand is unusable.
func Display(annualDemand float64, month seasonality.Month, coefficients seasonality.Coefficients) string {
	result, err := Calculate(annualDemand, month, coefficients)
	if err != nil {
		return err.Error()
	}
	return result.String()
}
