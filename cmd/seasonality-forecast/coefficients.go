package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/iwvelando/seasonality-forecast/internal/seasonality"
	"github.com/iwvelando/seasonality-forecast/pkg/constants"
	"github.com/iwvelando/seasonality-forecast/pkg/mathutil"
	"github.com/iwvelando/seasonality-forecast/pkg/numeric"
	"github.com/iwvelando/seasonality-forecast/pkg/output"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func NewCoefficientsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		GroupID: gCoefficients,
		Use:     "coefficients",
		Aliases: []string{"coeff"},
		Short:   "Show and edit the seasonality coefficients",
	}

	cmd.AddCommand(
		newCoefficientsShowCommand(a),
		newCoefficientsSetCommand(a),
		newCoefficientsExportCommand(a),
		newCoefficientsImportCommand(a),
		newCoefficientsResetCommand(a),
	)

	return cmd
}

func newCoefficientsShowCommand(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the current coefficients",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := a.outputFormat(format)
			if err != nil {
				return err
			}
			return output.Coefficients(cmd.OutOrStdout(), format, a.store.Coefficients())
		},
	}
	cmd.Flags().StringVarP(&format, "output-format", "o", "", "output format (pretty, csv, json)")

	return cmd
}

func newCoefficientsSetCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set <month> <value>",
		Short: "Set the coefficient of one month",
		Long: `Set stores a new coefficient for one month. A value that is not a
non-negative number is replaced by the month's default.`,
		Example: `  seasonality-forecast coefficients set 12 1.75
  seasonality-forecast coefficients set march 0.9`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			m, err := seasonality.ParseMonth(args[0])
			if err != nil {
				return err
			}

			c, err := a.store.Set(m, args[1])
			if err != nil {
				return err
			}

			if v, ok := numeric.ParseFloat(args[1]); !ok || v < 0 || !mathutil.IsFinite(v) {
				_, _ = color.New(color.FgYellow).Fprintf(out, "%q is not a non-negative number, using the default for %s\n", args[1], m)
			}
			_, _ = color.New(color.FgGreen).Fprintf(out, "%s coefficient set to %s\n", m, mathutil.ToFixed(c[m], constants.DisplayDecimals))
			return nil
		},
	}
}

func newCoefficientsExportCommand(a *app) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the coefficients as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if file == "-" {
				if err := a.store.Export(cmd.OutOrStdout()); err != nil {
					return err
				}
				_, err := fmt.Fprintln(cmd.OutOrStdout())
				return err
			}

			var buf bytes.Buffer
			if err := a.store.Export(&buf); err != nil {
				return err
			}
			if err := os.WriteFile(file, buf.Bytes(), 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", file, err)
			}

			a.logger.Info("coefficients exported",
				zap.String("op", "main.coefficientsExport"),
				zap.String("file", file),
			)
			_, _ = color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "Coefficients exported to %s\n", file)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", constants.ExportFileName, `destination file, "-" for stdout`)

	return cmd
}

func newCoefficientsImportCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import coefficients from a JSON file",
		Long: `Import replaces the current coefficients with the ones in a JSON file.
Months that are missing or unusable in the file take their default value. A
file that is not a JSON object leaves the current coefficients untouched.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", args[0], err)
			}
			defer f.Close()

			if _, err := a.store.Import(f); err != nil {
				a.logger.Warn("import failed",
					zap.String("op", "main.coefficientsImport"),
					zap.String("file", args[0]),
					zap.Error(err),
				)
				return fmt.Errorf("%s: %w", constants.ImportFailureMessage, err)
			}

			_, _ = color.New(color.FgGreen).Fprintln(cmd.OutOrStdout(), constants.ImportSuccessMessage)
			return nil
		},
	}
}

func newCoefficientsResetCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Reset every coefficient to its default",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a.store.Reset()
			_, _ = color.New(color.FgGreen).Fprintln(cmd.OutOrStdout(), constants.ResetMessage)
			return nil
		},
	}
}
