// Package constants provides shared constants for the seasonality-forecast application.
package constants

// DateTimeLayout is the format accepted for --date style month selection.
const DateTimeLayout = "2006-01"

// Calendar and precision constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// DecimalPrecision is the precision used when rounding demand (2 decimal places)
	DecimalPrecision = 100

	// DisplayDecimals is the number of decimals shown in a forecast line
	DisplayDecimals = 2
)

// Persistence constants
const (
	// StorageKey is the key holding the coefficient set in the key-value store
	StorageKey = "seasonality-factors-v1"

	// DefaultStorageFile is the default path of the file-backed key-value store
	DefaultStorageFile = "seasonality-store.json"

	// ExportFileName is the file name offered for coefficient exports
	ExportFileName = "seasonality_factors.json"

	// ExportIndent is the indentation used for exported coefficient files
	ExportIndent = "  "
)

// User-facing messages
const (
	// AnnualDemandValidationMessage is shown when the annual demand cannot be used
	AnnualDemandValidationMessage = "Enter annual demand greater than 0 to calculate."

	// ImportSuccessMessage confirms a successful import
	ImportSuccessMessage = "Seasonality factors imported successfully!"

	// ImportFailureMessage is shown when an import file cannot be parsed
	ImportFailureMessage = "Could not import settings. Please provide a valid JSON file."

	// ResetMessage confirms a reset to the default coefficients
	ResetMessage = "Coefficients reset to defaults."
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the JSON output format
	OutputFormatJSON = "json"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// EnvPrefix is the prefix for environment overrides, e.g. SEASONALITY_STORAGE_PATH
	EnvPrefix = "SEASONALITY"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum upload size for imported coefficient files (64 KB)
	DefaultMaxUploadSizeBytes int64 = 64 * 1024

	// DefaultShutdownTimeout is the default graceful shutdown window
	DefaultShutdownTimeout = "10s"
)
