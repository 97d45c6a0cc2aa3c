package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/iwvelando/seasonality-forecast/internal/forecast"
	"github.com/iwvelando/seasonality-forecast/internal/seasonality"
	"github.com/iwvelando/seasonality-forecast/pkg/constants"
	"github.com/iwvelando/seasonality-forecast/pkg/datetime"
	"github.com/iwvelando/seasonality-forecast/pkg/output"
	"github.com/iwvelando/seasonality-forecast/pkg/validation"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// resolveMonth picks the forecast month from --month, then --date, then the
// current month.
func (a *app) resolveMonth(month, date string) (seasonality.Month, error) {
	switch {
	case month != "":
		return seasonality.ParseMonth(month)
	case date != "":
		m, err := datetime.MonthOfDate(date)
		if err != nil {
			return 0, err
		}
		return seasonality.Month(m), nil
	default:
		return seasonality.Month(datetime.MonthOf(a.now())), nil
	}
}

func (a *app) outputFormat(override string) (string, error) {
	format := a.conf.Output.Format
	if override != "" {
		format = override
	}
	if err := validation.ValidateOutputFormat(format); err != nil {
		return "", err
	}
	return format, nil
}

func NewForecastCommand(a *app) *cobra.Command {
	var (
		month  string
		date   string
		year   bool
		format string
	)

	cmd := &cobra.Command{
		GroupID: gForecast,
		Use:     "forecast <annual-demand>",
		Short:   "Forecast the demand of one month or the whole year",
		Long: `Forecast splits an annual demand figure into a monthly forecast using the
current seasonality coefficients.

The month defaults to the current calendar month. Use --month with a number
or a name, or --date with a YYYY-MM value, to pick another one.`,
		Example: `  seasonality-forecast forecast 1200 --month december
  seasonality-forecast forecast 1200 --date 2024-07
  seasonality-forecast forecast 1200 --year -o csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			op := "main.forecast"
			out := cmd.OutOrStdout()

			format, err := a.outputFormat(format)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("month") && cmd.Flags().Changed("date") {
				return fmt.Errorf("--month and --date cannot be used together")
			}

			annualDemand := forecast.ParseAnnualDemand(args[0])
			if err := forecast.ValidateAnnualDemand(annualDemand); err != nil {
				a.logger.Debug("annual demand rejected",
					zap.String("op", op),
					zap.String("input", args[0]),
				)
				_, _ = color.New(color.FgYellow).Fprintln(out, err.Error())
				return nil
			}

			var results []forecast.Result
			if year {
				results, err = a.store.ForecastYear(annualDemand)
				if err != nil {
					return err
				}
			} else {
				m, err := a.resolveMonth(month, date)
				if err != nil {
					return err
				}
				result, err := a.store.Forecast(annualDemand, m)
				if err != nil {
					return err
				}
				if format == constants.OutputFormatPretty {
					_, _ = fmt.Fprintln(out, result.String())
					return nil
				}
				results = []forecast.Result{result}
			}

			return output.Forecast(out, format, results)
		},
	}

	cmd.Flags().StringVarP(&month, "month", "m", "", "month to forecast as a number or name (default current month)")
	cmd.Flags().StringVar(&date, "date", "", "month to forecast as YYYY-MM")
	cmd.Flags().BoolVar(&year, "year", false, "forecast every month of the year")
	cmd.Flags().StringVarP(&format, "output-format", "o", "", "output format (pretty, csv, json)")

	return cmd
}
