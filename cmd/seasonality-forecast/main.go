package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/iwvelando/seasonality-forecast/internal/config"
	"github.com/iwvelando/seasonality-forecast/internal/store"
	"github.com/iwvelando/seasonality-forecast/pkg/constants"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// version is overridden at build time with -ldflags "-X main.version=..."
var version = "dev"

var (
	gForecast     = "Forecast:"
	gCoefficients = "Coefficients:"
	commandGroups = []string{
		gForecast,
		gCoefficients,
	}
)

// app carries the state shared by all subcommands once the root command has
// loaded configuration.
type app struct {
	configPath  string
	logLevel    string
	storagePath string

	conf   *config.Configuration
	logger *zap.Logger
	store  *store.Store
	now    func() time.Time
}

// initializeLogger creates a zap logger based on configuration and CLI override
func initializeLogger(loggingConfig config.LoggingConfig, logLevelOverride string) (*zap.Logger, error) {
	// Determine log level (CLI override takes precedence)
	level := loggingConfig.Level
	if logLevelOverride != "" {
		level = logLevelOverride
	}
	if level == "" {
		level = "warn"
	}

	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn", "warning":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		return nil, fmt.Errorf("invalid log level: %s", level)
	}

	format := loggingConfig.Format
	if format == "" {
		format = "json"
	}

	var zapConfig zap.Config
	switch format {
	case "console":
		zapConfig = zap.NewDevelopmentConfig()
	case "json":
		zapConfig = zap.NewProductionConfig()
	default:
		return nil, fmt.Errorf("invalid log format: %s", format)
	}
	zapConfig.Level = zap.NewAtomicLevelAt(zapLevel)

	if loggingConfig.OutputFile != "" {
		if dir := filepath.Dir(loggingConfig.OutputFile); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create log directory %s: %v", dir, err)
			}
		}

		// Test if we can create/write to the file
		if file, err := os.OpenFile(loggingConfig.OutputFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %v", loggingConfig.OutputFile, err)
		} else {
			_ = file.Close()
		}

		zapConfig.OutputPaths = []string{loggingConfig.OutputFile}
		zapConfig.ErrorOutputPaths = []string{loggingConfig.OutputFile}
	}

	return zapConfig.Build()
}

// loadConfiguration reads the config file when one was requested or the
// default file exists; otherwise it uses the built-in defaults.
func (a *app) loadConfiguration(explicit bool) (*config.Configuration, error) {
	if explicit {
		return config.LoadConfiguration(a.configPath)
	}
	if _, err := os.Stat(a.configPath); err == nil {
		return config.LoadConfiguration(a.configPath)
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to stat config file %s: %w", a.configPath, err)
	}
	return config.DefaultConfiguration()
}

func (a *app) setup(cmd *cobra.Command) error {
	// A missing .env file is the common case.
	_ = godotenv.Load()

	conf, err := a.loadConfiguration(cmd.Flags().Changed("config"))
	if err != nil {
		return fmt.Errorf("failed to load configuration at %s: %w", a.configPath, err)
	}
	if a.storagePath != "" {
		conf.Storage.Backend = config.StorageBackendFile
		conf.Storage.Path = a.storagePath
	}
	a.conf = conf

	logger, err := initializeLogger(conf.Logging, a.logLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.logger = logger

	a.store = store.New(logger, conf.NewKeyValue(), conf.Storage.Key)
	a.logger.Debug("configuration loaded",
		zap.String("op", "main.setup"),
		zap.String("storageBackend", conf.Storage.Backend),
		zap.String("storagePath", conf.Storage.Path),
	)
	return nil
}

func (a *app) teardown() {
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

// NewCommand builds the root command and its subcommands.
func NewCommand() *cobra.Command {
	a := &app{
		configPath: constants.DefaultConfigFile,
		now:        time.Now,
	}

	cmd := &cobra.Command{
		Use:   "seasonality-forecast",
		Short: "Seasonal monthly demand forecasts from an annual figure",
		Long: `seasonality-forecast splits an annual demand figure into a monthly forecast
using editable per-month seasonality coefficients.

Coefficients are persisted between runs and can be exported, imported and
reset to their defaults.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			a.teardown()
		},
	}

	globalFlags := cmd.PersistentFlags()
	globalFlags.StringVar(&a.configPath, "config", a.configPath, "path to configuration file")
	globalFlags.StringVarP(&a.logLevel, "log-level", "l", "", "log level override (debug, info, warn, error)")
	globalFlags.StringVar(&a.storagePath, "storage", "", "path to the coefficient store file (overrides configuration)")

	for _, i := range commandGroups {
		cmd.AddGroup(&cobra.Group{
			ID:    i,
			Title: i,
		})
	}

	cmd.AddCommand(
		NewForecastCommand(a),
		NewCoefficientsCommand(a),
		NewServeCommand(a),
		NewVersionCommand(),
	)

	return cmd
}

func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		// Printing the version needs no configuration or store.
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error { return nil },
		PersistentPostRun: func(_ *cobra.Command, _ []string) {},
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "seasonality-forecast %s\n", version)
		},
	}
}

func handleCmdError(err error) {
	_, _ = color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
}

func main() {
	cmd := NewCommand()
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		handleCmdError(err)
		os.Exit(1)
	}
}
