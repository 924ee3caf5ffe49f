package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults for a parseload run.
const (
	DefaultEndpoint      = "http://localhost:3002/parse"
	DefaultOutputDir     = "/tmp/pdf_responses"
	DefaultMaxConcurrent = 4
	DefaultListenAddr    = ":3002"
)

// Report formats accepted by --report-format.
var ReportFormats = []string{"text", "json"}

// Config holds all runtime configuration for a parseload run.
type Config struct {
	InputDir      string
	OutputDir     string
	Endpoint      string
	MaxConcurrent int
	Limit         int           // 0 processes every discovered file
	Timeout       time.Duration // 0 disables the per-request timeout
	LogFormat     string        // "text" or "json"
	LogLevel      string
	ReportFormat  string
	ReportParquet string // optional per-document parquet export
	ListenAddr    string
}

// Default returns a Config populated with the built-in defaults.
func Default() Config {
	return Config{
		OutputDir:     DefaultOutputDir,
		Endpoint:      DefaultEndpoint,
		MaxConcurrent: DefaultMaxConcurrent,
		LogFormat:     "text",
		LogLevel:      "info",
		ReportFormat:  "text",
		ListenAddr:    DefaultListenAddr,
	}
}

// ConfigurationError reports an invalid or unusable setting. It is returned
// before any network activity takes place.
type ConfigurationError struct {
	Field string
	Err   error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// yamlConfig is the on-disk YAML structure. Pointer fields distinguish an
// absent key from an explicit zero value.
type yamlConfig struct {
	InputDir      *string `yaml:"input_dir"`
	OutputDir     *string `yaml:"output_dir"`
	Endpoint      *string `yaml:"endpoint"`
	MaxConcurrent *int    `yaml:"max_concurrent"`
	Limit         *int    `yaml:"limit"`
	Timeout       *string `yaml:"timeout"`
	ReportFormat  *string `yaml:"report_format"`
	ReportParquet *string `yaml:"report_parquet"`
	ListenAddr    *string `yaml:"listen_addr"`
}

// LoadFromFile reads a YAML config file and merges the keys it sets into Config.
func (c *Config) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}

	setString(&c.InputDir, yc.InputDir)
	setString(&c.OutputDir, yc.OutputDir)
	setString(&c.Endpoint, yc.Endpoint)
	setString(&c.ReportFormat, yc.ReportFormat)
	setString(&c.ReportParquet, yc.ReportParquet)
	setString(&c.ListenAddr, yc.ListenAddr)
	if yc.MaxConcurrent != nil {
		c.MaxConcurrent = *yc.MaxConcurrent
	}
	if yc.Limit != nil {
		c.Limit = *yc.Limit
	}
	if yc.Timeout != nil {
		d, err := time.ParseDuration(*yc.Timeout)
		if err != nil {
			return fmt.Errorf("parse config timeout %q: %w", *yc.Timeout, err)
		}
		c.Timeout = d
	}
	return nil
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

// Validate checks every field needed by a run. The input directory must exist
// and be readable.
func (c *Config) Validate() error {
	if c.InputDir == "" {
		return &ConfigurationError{Field: "input_dir", Err: errors.New("--input-dir is required")}
	}
	stat, err := os.Stat(c.InputDir)
	if err != nil {
		return &ConfigurationError{Field: "input_dir", Err: fmt.Errorf("directory not accessible: %w", err)}
	}
	if !stat.IsDir() {
		return &ConfigurationError{Field: "input_dir", Err: fmt.Errorf("%s is not a directory", c.InputDir)}
	}
	f, err := os.Open(c.InputDir)
	if err != nil {
		return &ConfigurationError{Field: "input_dir", Err: fmt.Errorf("directory not readable: %w", err)}
	}
	f.Close()

	if c.MaxConcurrent < 1 {
		return &ConfigurationError{Field: "max_concurrent", Err: fmt.Errorf("must be >= 1, got %d", c.MaxConcurrent)}
	}
	if c.Limit < 0 {
		return &ConfigurationError{Field: "limit", Err: fmt.Errorf("must be >= 0, got %d", c.Limit)}
	}
	if c.Timeout < 0 {
		return &ConfigurationError{Field: "timeout", Err: fmt.Errorf("must be >= 0, got %s", c.Timeout)}
	}
	if err := validateEndpoint(c.Endpoint); err != nil {
		return &ConfigurationError{Field: "endpoint", Err: err}
	}
	return c.ValidateOutput()
}

// ValidateOutput checks only the fields used when reading back results.
func (c *Config) ValidateOutput() error {
	if c.OutputDir == "" {
		return &ConfigurationError{Field: "output_dir", Err: errors.New("--output-dir is required")}
	}
	if !knownReportFormat(c.ReportFormat) {
		return &ConfigurationError{Field: "report_format", Err: fmt.Errorf("unknown format %q (want text or json)", c.ReportFormat)}
	}
	return nil
}

func validateEndpoint(endpoint string) error {
	u, err := url.Parse(endpoint)
	if err != nil {
		return fmt.Errorf("parse url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("missing host in %q", endpoint)
	}
	return nil
}

func knownReportFormat(format string) bool {
	for _, f := range ReportFormats {
		if f == format {
			return true
		}
	}
	return false
}
