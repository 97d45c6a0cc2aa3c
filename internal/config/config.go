// Package config defines the application configuration and the functions for
// loading it from YAML files and the environment.
package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/iwvelando/seasonality-forecast/internal/storage"
	"github.com/iwvelando/seasonality-forecast/pkg/constants"
	"github.com/iwvelando/seasonality-forecast/pkg/validation"
	"github.com/spf13/viper"
)

// Storage backends
const (
	StorageBackendFile   = "file"
	StorageBackendMemory = "memory"
)

// Configuration holds all configuration for seasonality-forecast.
type Configuration struct {
	Logging LoggingConfig `yaml:"logging,omitempty"`
	Output  OutputConfig  `yaml:"output,omitempty"`
	Storage StorageConfig `yaml:"storage,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv, json
}

// StorageConfig selects where the coefficient set is persisted.
type StorageConfig struct {
	Backend string `yaml:"backend,omitempty"` // file, memory
	Path    string `yaml:"path,omitempty"`    // file backend location
	Key     string `yaml:"key,omitempty"`     // key holding the coefficient set
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yml")

	// Defaults double as the key list AutomaticEnv consults during Unmarshal.
	v.SetDefault("logging.level", "")
	v.SetDefault("logging.format", "")
	v.SetDefault("logging.outputFile", "")
	v.SetDefault("output.format", constants.OutputFormatPretty)
	v.SetDefault("storage.backend", StorageBackendFile)
	v.SetDefault("storage.path", constants.DefaultStorageFile)
	v.SetDefault("storage.key", constants.StorageKey)

	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}
	return decode(v)
}

// LoadConfigurationFromReader loads YAML-formatted configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %s", err)
	}
	return decode(v)
}

// DefaultConfiguration returns the configuration used when no file is given,
// with environment overrides applied.
func DefaultConfiguration() (*Configuration, error) {
	return decode(newViper())
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}
	if err := configuration.Validate(); err != nil {
		return nil, err
	}
	return &configuration, nil
}

// Validate checks the enumerated settings.
func (c *Configuration) Validate() error {
	if err := validation.ValidateOutputFormat(c.Output.Format); err != nil {
		return err
	}
	switch c.Storage.Backend {
	case StorageBackendFile:
		if strings.TrimSpace(c.Storage.Path) == "" {
			return fmt.Errorf("storage path is required for the %s backend", StorageBackendFile)
		}
	case StorageBackendMemory:
	default:
		return fmt.Errorf("expected storage backend of %s or %s, got %s",
			StorageBackendFile, StorageBackendMemory, c.Storage.Backend)
	}
	return nil
}

// NewKeyValue opens the configured storage backend.
func (c *Configuration) NewKeyValue() storage.KeyValue {
	if c.Storage.Backend == StorageBackendMemory {
		return storage.NewMemory()
	}
	return storage.NewFile(c.Storage.Path)
}
