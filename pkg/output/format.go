// Package output provides utilities for formatting and displaying coefficient
// sets and forecast results.
package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/iwvelando/seasonality-forecast/internal/forecast"
	"github.com/iwvelando/seasonality-forecast/internal/seasonality"
	"github.com/iwvelando/seasonality-forecast/pkg/constants"
	"github.com/iwvelando/seasonality-forecast/pkg/mathutil"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Coefficients writes c in the requested output format.
func Coefficients(w io.Writer, format string, c seasonality.Coefficients) error {
	switch format {
	case constants.OutputFormatPretty:
		PrettyCoefficients(w, c)
	case constants.OutputFormatCSV:
		CsvCoefficients(w, c)
	case constants.OutputFormatJSON:
		return JSONCoefficients(w, c)
	default:
		return fmt.Errorf("unsupported output format %s", format)
	}
	return nil
}

// Forecast writes results in the requested output format.
func Forecast(w io.Writer, format string, results []forecast.Result) error {
	switch format {
	case constants.OutputFormatPretty:
		PrettyForecast(w, results)
	case constants.OutputFormatCSV:
		CsvForecast(w, results)
	case constants.OutputFormatJSON:
		return JSONForecast(w, results)
	default:
		return fmt.Errorf("unsupported output format %s", format)
	}
	return nil
}

// PrettyCoefficients outputs a human-readable table of c, flagging months
// that differ from their default.
func PrettyCoefficients(w io.Writer, c seasonality.Coefficients) {
	p := message.NewPrinter(language.English)
	_, _ = fmt.Fprintf(w, "Month     | Factor | Default\n")
	_, _ = fmt.Fprintf(w, "_____     | ______ | _______\n")
	for _, m := range seasonality.Months() {
		marker := ""
		if c.Factor(m) != seasonality.Default(m) {
			marker = " *"
		}
		_, _ = fmt.Fprintf(w, "%-9s | %6.2f | %7.2f%s\n", m.String(), c.Factor(m), seasonality.Default(m), marker)
	}
	_, _ = p.Fprintf(w, "Sum of factors: %.2f\n", c.Sum())
}

// CsvCoefficients outputs c in comma-separated value format.
func CsvCoefficients(w io.Writer, c seasonality.Coefficients) {
	_, _ = fmt.Fprintf(w, `"month","name","factor","default"`+"\n")
	for _, m := range seasonality.Months() {
		_, _ = fmt.Fprintf(w, `"%d","%s","%v","%v"`+"\n", int(m), m, c.Factor(m), seasonality.Default(m))
	}
}

// JSONCoefficients outputs c in the export file format.
func JSONCoefficients(w io.Writer, c seasonality.Coefficients) error {
	data, err := seasonality.EncodeIndent(c)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}

// PrettyForecast outputs a human-readable table of monthly forecasts with a
// yearly total.
func PrettyForecast(w io.Writer, results []forecast.Result) {
	p := message.NewPrinter(language.English)
	_, _ = fmt.Fprintf(w, "Month     | Factor | Demand\n")
	_, _ = fmt.Fprintf(w, "_____     | ______ | ______\n")
	for _, r := range results {
		demand := p.Sprintf("%.2f", mathutil.Round(r.MonthlyDemand))
		_, _ = fmt.Fprintf(w, "%-9s | %6.2f | %s\n", r.Month.String(), r.Factor, demand)
	}
	total := p.Sprintf("%.2f", mathutil.Round(forecast.Total(results)))
	_, _ = fmt.Fprintf(w, "Total     |        | %s\n", total)
}

// CsvForecast outputs monthly forecasts in comma-separated value format.
func CsvForecast(w io.Writer, results []forecast.Result) {
	_, _ = fmt.Fprintf(w, `"month","name","factor","demand"`+"\n")
	for _, r := range results {
		_, _ = fmt.Fprintf(w, `"%d","%s","%v","%s"`+"\n", int(r.Month), r.Month, r.Factor, r.Formatted())
	}
}

// JSONForecast outputs monthly forecasts as an indented JSON array.
func JSONForecast(w io.Writer, results []forecast.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", constants.ExportIndent)
	return enc.Encode(results)
}
