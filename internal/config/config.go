// Package config provides configuration types and defaults for signup.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/zjrosen/signup/internal/api"
	"github.com/zjrosen/signup/internal/log"
	"github.com/zjrosen/signup/internal/tracing"
)

// MinWidth is the narrowest form the UI will lay out.
const MinWidth = 40

// Config holds all configuration options for signup.
type Config struct {
	Endpoint string        `mapstructure:"endpoint"`
	Debug    bool          `mapstructure:"debug"`
	LogFile  string        `mapstructure:"log_file"`
	LogLevel string        `mapstructure:"log_level"` // debug, info, warn or error
	UI       UIConfig      `mapstructure:"ui"`
	Tracing  TracingConfig `mapstructure:"tracing"`
}

// UIConfig holds user interface configuration options.
type UIConfig struct {
	ShowFooter bool `mapstructure:"show_footer"` // Show key help and latest log line
	Width      int  `mapstructure:"width"`       // Form width in cells
}

// TracingConfig holds distributed tracing options.
type TracingConfig struct {
	Enabled      bool    `mapstructure:"enabled"`
	Exporter     string  `mapstructure:"exporter"` // "none", "file", "stdout" or "otlp"
	FilePath     string  `mapstructure:"file_path"`
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	SampleRate   float64 `mapstructure:"sample_rate"`
}

// Provider converts the config into tracing.Config, filling the default
// trace file when none is set.
func (t TracingConfig) Provider() tracing.Config {
	path := t.FilePath
	if path == "" {
		path = DefaultTracesFilePath()
	}
	return tracing.Config{
		Enabled:      t.Enabled,
		Exporter:     t.Exporter,
		FilePath:     path,
		OTLPEndpoint: t.OTLPEndpoint,
		SampleRate:   t.SampleRate,
		ServiceName:  tracing.DefaultServiceName,
	}
}

// DefaultTracesFilePath returns ~/.config/signup/traces/traces.jsonl, or an
// empty string when the home directory is unknown.
func DefaultTracesFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "signup", "traces", "traces.jsonl")
}

// DefaultConfigPath returns ~/.config/signup/config.yaml, or an empty string
// when the home directory is unknown.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "signup", "config.yaml")
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Endpoint: api.DefaultEndpoint,
		Debug:    false,
		LogFile:  "debug.log",
		LogLevel: "debug",
		UI: UIConfig{
			ShowFooter: true,
			Width:      60,
		},
		Tracing: TracingConfig{
			Enabled:      false,
			Exporter:     tracing.ExporterFile,
			FilePath:     "", // Derived from home dir at runtime
			OTLPEndpoint: "localhost:4317",
			SampleRate:   1.0,
		},
	}
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := api.ValidateEndpoint(c.Endpoint); err != nil {
		return fmt.Errorf("endpoint: %w", err)
	}
	if c.UI.Width < MinWidth {
		return fmt.Errorf("ui.width must be at least %d, got %d", MinWidth, c.UI.Width)
	}
	if c.Debug && c.LogFile == "" {
		return fmt.Errorf("log_file is required when debug is enabled")
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	return ValidateTracing(c.Tracing)
}

// ValidateTracing checks exporter names, the sample rate, and per-exporter
// requirements.
func ValidateTracing(t TracingConfig) error {
	if t.SampleRate < 0.0 || t.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", t.SampleRate)
	}

	switch t.Exporter {
	case "", tracing.ExporterNone, tracing.ExporterFile, tracing.ExporterStdout, tracing.ExporterOTLP:
	default:
		return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", t.Exporter)
	}

	if t.Enabled && t.Exporter == tracing.ExporterOTLP && t.OTLPEndpoint == "" {
		return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
	}
	return nil
}

// DefaultConfigTemplate returns the default config as commented YAML.
func DefaultConfigTemplate() string {
	return `# signup configuration

# Registration service the form posts to
endpoint: ` + api.DefaultEndpoint + `

# Write a debug log (also: --debug or SIGNUP_DEBUG=1)
debug: false
log_file: debug.log
log_level: debug      # debug | info | warn | error

# UI settings
ui:
  show_footer: true   # Key help and latest log line under the form
  width: 60           # Form width in cells (minimum 40)

# Tracing of registration requests
tracing:
  enabled: false
  exporter: file      # none | file | stdout | otlp
  # file_path: ~/.config/signup/traces/traces.jsonl
  otlp_endpoint: localhost:4317
  sample_rate: 1.0     # 0.0 records no spans
`
}

// WriteDefaultConfig writes the default template to configPath, creating the
// parent directory. An existing file is left alone unless overwrite is set.
func WriteDefaultConfig(configPath string, overwrite bool) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	if !overwrite {
		if _, err := os.Stat(configPath); err == nil {
			return fmt.Errorf("config file %s already exists", configPath)
		}
	}

	if err := checkTemplate(DefaultConfigTemplate()); err != nil {
		return err
	}
	if err := writeAtomic(configPath, []byte(DefaultConfigTemplate())); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return err
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
