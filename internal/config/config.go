// Package config loads steelcalc configuration from YAML, applies
// project-local overlays and environment overrides, and exposes a
// process-wide instance for the CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// Environment variables read by the configuration layer.
const (
	EnvHome         = "STEELCALC_HOME"
	EnvProjectDir   = "STEELCALC_PROJECT_DIR"
	EnvLogLevel     = "STEELCALC_LOG_LEVEL"
	EnvLogFormat    = "STEELCALC_LOG_FORMAT"
	EnvLogFile      = "STEELCALC_LOG_FILE"
	EnvOutputFormat = "STEELCALC_OUTPUT_FORMAT"
	EnvFlangeFile   = "STEELCALC_FLANGE_FILE"
	EnvGaugeFile    = "STEELCALC_GAUGE_FILE"
	EnvConcurrency  = "STEELCALC_CONCURRENCY"
	EnvServerAddr   = "STEELCALC_ADDR"
)

const (
	configDirName  = ".steelcalc"
	configFileName = "config.yaml"
	outputTypeFile = "file"
)

// Output formats accepted by output.default_format.
const (
	FormatTable  = "table"
	FormatJSON   = "json"
	FormatNDJSON = "ndjson"
)

// Config is the full configuration document.
type Config struct {
	SchemaVersion string         `yaml:"schema_version"`
	Output        OutputConfig   `yaml:"output"`
	Logging       LoggingConfig  `yaml:"logging"`
	Tables        TablesConfig   `yaml:"tables"`
	Defaults      DefaultsConfig `yaml:"defaults"`
	Batch         BatchConfig    `yaml:"batch"`
	Server        ServerConfig   `yaml:"server"`

	configPath string
}

// OutputConfig controls CLI rendering.
type OutputConfig struct {
	DefaultFormat       string `yaml:"default_format"`
	ThousandsSeparators bool   `yaml:"thousands_separators"`
}

// LoggingConfig controls the zerolog logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file,omitempty"`
}

// TablesConfig points at reference table files. Empty paths select the
// embedded tables.
type TablesConfig struct {
	FlangeFile string `yaml:"flange_file,omitempty"`
	GaugeFile  string `yaml:"gauge_file,omitempty"`
}

// DefaultsConfig holds the initial calculator selections. An empty flange
// width or gauge selects the first key of its table.
type DefaultsConfig struct {
	Shape           string  `yaml:"shape"`
	MemberDepth     float64 `yaml:"member_depth"`
	FlangeWidth     string  `yaml:"flange_width,omitempty"`
	Gauge           string  `yaml:"gauge,omitempty"`
	OutsideDiameter float64 `yaml:"outside_diameter"`
	CWTPrice        float64 `yaml:"cwt_price"`
}

// BatchConfig controls batch computation. Zero concurrency means one
// worker per CPU.
type BatchConfig struct {
	Concurrency int `yaml:"concurrency"`
	MaxRows     int `yaml:"max_rows"`
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	RateLimit       float64       `yaml:"rate_limit"`
	RateBurst       int           `yaml:"rate_burst"`
	CORSOrigin      string        `yaml:"cors_origin,omitempty"`
	MaxBatchItems   int           `yaml:"max_batch_items"`
}

// Default returns the built-in configuration without reading any file or
// environment variable.
func Default() *Config {
	return &Config{
		SchemaVersion: CurrentSchemaVersion,
		Output: OutputConfig{
			DefaultFormat:       FormatTable,
			ThousandsSeparators: true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Defaults: DefaultsConfig{
			Shape:           "C Stud/C Joist",
			MemberDepth:     6.0,
			OutsideDiameter: 50,
			CWTPrice:        50,
		},
		Batch: BatchConfig{
			MaxRows: 10000,
		},
		Server: ServerConfig{
			Addr:            "127.0.0.1:8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			RateLimit:       20,
			RateBurst:       40,
			MaxBatchItems:   1000,
		},
	}
}

// New returns the configuration from the global config file, falling back
// to defaults when the file is missing or unreadable, with environment
// overrides applied.
func New() *Config {
	cfg := Default()
	path, err := defaultConfigPath()
	if err == nil {
		cfg.configPath = path
		if loadErr := cfg.loadFile(path); loadErr != nil && !errors.Is(loadErr, os.ErrNotExist) {
			fallback := Default()
			fallback.configPath = path
			cfg = fallback
		}
	}
	cfg.ApplyEnvOverrides()
	return cfg
}

// Load reads the configuration at path strictly: a missing or malformed
// file is an error. Environment overrides are not applied.
func Load(path string) (*Config, error) {
	cfg := Default()
	cfg.configPath = path
	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

// ConfigPath returns the file this configuration is read from and saved to.
func (c *Config) ConfigPath() string {
	return c.configPath
}

// SetConfigPath changes where Save writes.
func (c *Config) SetConfigPath(path string) {
	c.configPath = path
}

// Save writes the configuration as YAML, creating the directory if needed.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.New("config path is not set")
	}
	if err := os.MkdirAll(filepath.Dir(c.configPath), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(c.configPath, data, 0o600); err != nil {
		return fmt.Errorf("writing config %s: %w", c.configPath, err)
	}
	return nil
}

// ApplyEnvOverrides applies STEELCALC_* environment variables. Unparseable
// numeric values are ignored.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv(EnvLogFile); v != "" {
		c.Logging.File = v
	}
	if v := os.Getenv(EnvOutputFormat); v != "" {
		c.Output.DefaultFormat = v
	}
	if v := os.Getenv(EnvFlangeFile); v != "" {
		c.Tables.FlangeFile = v
	}
	if v := os.Getenv(EnvGaugeFile); v != "" {
		c.Tables.GaugeFile = v
	}
	if v := os.Getenv(EnvConcurrency); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Batch.Concurrency = n
		}
	}
	if v := os.Getenv(EnvServerAddr); v != "" {
		c.Server.Addr = v
	}
}

// Validate checks every section and returns all problems joined.
func (c *Config) Validate() error {
	var errs []error

	if err := CheckSchemaVersion(c.SchemaVersion); err != nil {
		errs = append(errs, err)
	}

	switch c.Output.DefaultFormat {
	case FormatTable, FormatJSON, FormatNDJSON:
	default:
		errs = append(errs, fmt.Errorf("output.default_format %q must be one of table, json, ndjson",
			c.Output.DefaultFormat))
	}

	if c.Logging.Level != "" {
		if _, err := zerolog.ParseLevel(strings.ToLower(c.Logging.Level)); err != nil {
			errs = append(errs, fmt.Errorf("logging.level %q is not a log level", c.Logging.Level))
		}
	}
	switch c.Logging.Format {
	case "", "json", "console", "text":
	default:
		errs = append(errs, fmt.Errorf("logging.format %q must be json, console or text", c.Logging.Format))
	}

	if (c.Tables.GaugeFile != "") && c.Tables.FlangeFile == "" {
		errs = append(errs, errors.New("tables.gauge_file requires tables.flange_file"))
	}

	if c.Defaults.MemberDepth < 0 {
		errs = append(errs, errors.New("defaults.member_depth must be >= 0"))
	}
	if c.Defaults.OutsideDiameter < 0 {
		errs = append(errs, errors.New("defaults.outside_diameter must be >= 0"))
	}
	if c.Defaults.CWTPrice < 0 {
		errs = append(errs, errors.New("defaults.cwt_price must be >= 0"))
	}

	if c.Batch.Concurrency < 0 {
		errs = append(errs, errors.New("batch.concurrency must be >= 0"))
	}
	if c.Batch.MaxRows < 0 {
		errs = append(errs, errors.New("batch.max_rows must be >= 0"))
	}

	if c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 || c.Server.ShutdownTimeout < 0 {
		errs = append(errs, errors.New("server timeouts must be >= 0"))
	}
	if c.Server.RateLimit < 0 || c.Server.RateBurst < 0 {
		errs = append(errs, errors.New("server.rate_limit and server.rate_burst must be >= 0"))
	}
	if c.Server.RateLimit > 0 && c.Server.RateBurst == 0 {
		errs = append(errs, errors.New("server.rate_burst must be > 0 when server.rate_limit is set"))
	}
	if c.Server.MaxBatchItems < 0 {
		errs = append(errs, errors.New("server.max_batch_items must be >= 0"))
	}

	return errors.Join(errs...)
}

func defaultConfigPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}
