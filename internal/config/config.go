package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// Mode constants
	ModeBatch = "batch"
	ModeStdio = "stdio"

	// Default values
	DefaultInputDir    = "./INPUT/"
	DefaultOutputDir   = "./OUTPUT/"
	DefaultOutputName  = "output"
	DefaultFormats     = "csv"
	DefaultWorkers     = 1
	DefaultLogLevel    = "info"
	DefaultMaxFileSize = 100 * 1024 * 1024 // 100MB

	// EnvPrefix is prepended to every environment variable, e.g. CANDIDATE_PDF_INPUT.
	EnvPrefix = "CANDIDATE_PDF"
)

// ErrVersionRequested is returned by LoadFromFlags when --version is given.
var ErrVersionRequested = errors.New("version requested")

var validFormats = map[string]bool{"csv": true, "xlsx": true}

// Config holds all configuration for the extractor
type Config struct {
	Mode string // "batch" or "stdio"

	// Batch configuration
	InputDir   string
	OutputDir  string
	OutputName string
	Formats    []string
	Workers    int

	// PDF configuration
	MaxFileSize int64 // Maximum PDF file size in bytes
	Repair      bool  // Rewrite unparseable files with pdfcpu before giving up

	// Application configuration
	Version    string
	ServerName string
	LogLevel   string
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Mode:        ModeBatch,
		InputDir:    DefaultInputDir,
		OutputDir:   DefaultOutputDir,
		OutputName:  DefaultOutputName,
		Formats:     []string{DefaultFormats},
		Workers:     DefaultWorkers,
		MaxFileSize: DefaultMaxFileSize,
		Repair:      true,
		Version:     "1.0.0",
		ServerName:  "candidate-extractor",
		LogLevel:    DefaultLogLevel,
	}
}

// LoadFromFlags reads .env, the environment and the command line, in
// increasing precedence, and returns a validated configuration.
func LoadFromFlags() (*Config, error) {
	cfg := DefaultConfig()

	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	setupViperEnvironment(cfg)
	defineCommandLineFlags(cfg)
	bindFlagsToViper()
	setupUsageMessage()

	// Check for version flag before parsing
	if err := checkVersionFlag(); err != nil {
		return nil, err
	}

	pflag.Parse()

	populateConfigFromViper(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// loadDotEnv exports the variables in path without overriding ones already
// set. A missing file is not an error.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("cannot load %s: %w", path, err)
	}
	return nil
}

// setupViperEnvironment configures viper with environment variables and defaults
func setupViperEnvironment(cfg *Config) {
	viper.SetEnvPrefix(EnvPrefix)
	viper.AutomaticEnv()

	viper.SetDefault("mode", cfg.Mode)
	viper.SetDefault("input", cfg.InputDir)
	viper.SetDefault("output", cfg.OutputDir)
	viper.SetDefault("name", cfg.OutputName)
	viper.SetDefault("formats", strings.Join(cfg.Formats, ","))
	viper.SetDefault("workers", cfg.Workers)
	viper.SetDefault("loglevel", cfg.LogLevel)
	viper.SetDefault("maxfilesize", cfg.MaxFileSize)
	viper.SetDefault("repair", cfg.Repair)
}

// defineCommandLineFlags sets up all command line flags
func defineCommandLineFlags(cfg *Config) {
	pflag.String("mode", cfg.Mode, "Run mode: 'batch' to process the input directory, 'stdio' for MCP standard I/O")
	pflag.String("input", cfg.InputDir, "Directory containing the registration form PDFs")
	pflag.String("output", cfg.OutputDir, "Directory the report is written to")
	pflag.String("name", cfg.OutputName, "Report file name without extension")
	pflag.String("formats", strings.Join(cfg.Formats, ","), "Report formats: csv, xlsx or csv,xlsx")
	pflag.Int("workers", cfg.Workers, "Number of forms processed concurrently")
	pflag.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	pflag.Int64("maxfilesize", cfg.MaxFileSize, "Maximum PDF file size in bytes")
	pflag.Bool("repair", cfg.Repair, "Retry unparseable PDFs after rewriting them with pdfcpu")
	pflag.Bool("version", false, "Print version information and exit")
}

// bindFlagsToViper binds command line flags to viper configuration
func bindFlagsToViper() {
	for _, name := range []string{
		"mode", "input", "output", "name", "formats",
		"workers", "loglevel", "maxfilesize", "repair",
	} {
		_ = viper.BindPFlag(name, pflag.Lookup(name))
	}
}

// setupUsageMessage configures the custom usage message
func setupUsageMessage() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nCandidate Extractor - collects registration form fields from PDFs into a report\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s                                  # ./INPUT/ to ./OUTPUT/output.csv\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --input=forms --formats=csv,xlsx # also write output.xlsx\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --workers=4                      # process four forms at once\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --mode=stdio                     # serve MCP tools\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables (also read from .env):\n")
		fmt.Fprintf(os.Stderr, "  %s_MODE, %s_INPUT, %s_OUTPUT, %s_NAME, %s_FORMATS,\n",
			EnvPrefix, EnvPrefix, EnvPrefix, EnvPrefix, EnvPrefix)
		fmt.Fprintf(os.Stderr, "  %s_WORKERS, %s_LOGLEVEL, %s_MAXFILESIZE, %s_REPAIR\n",
			EnvPrefix, EnvPrefix, EnvPrefix, EnvPrefix)
	}
}

// checkVersionFlag checks if version flag was requested
func checkVersionFlag() error {
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			return ErrVersionRequested
		}
	}
	return nil
}

// populateConfigFromViper fills the config struct with values from viper
func populateConfigFromViper(cfg *Config) {
	cfg.Mode = viper.GetString("mode")
	cfg.InputDir = viper.GetString("input")
	cfg.OutputDir = viper.GetString("output")
	cfg.OutputName = viper.GetString("name")
	cfg.Formats = splitFormats(viper.GetString("formats"))
	cfg.Workers = viper.GetInt("workers")
	cfg.LogLevel = viper.GetString("loglevel")
	cfg.MaxFileSize = viper.GetInt64("maxfilesize")
	cfg.Repair = viper.GetBool("repair")
}

func splitFormats(list string) []string {
	var formats []string
	for _, f := range strings.Split(list, ",") {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			formats = append(formats, f)
		}
	}
	return formats
}

// Validate checks if the configuration is valid. The input directory is not
// required to exist; the batch reports a missing directory itself.
func (c *Config) Validate() error {
	if c.Mode != ModeBatch && c.Mode != ModeStdio {
		return errors.New("mode must be either 'batch' or 'stdio'")
	}

	if c.InputDir == "" {
		return errors.New("input directory cannot be empty")
	}
	if c.OutputDir == "" {
		return errors.New("output directory cannot be empty")
	}
	if c.OutputName == "" || strings.ContainsAny(c.OutputName, `/\`) {
		return fmt.Errorf("invalid output name: %q", c.OutputName)
	}

	if len(c.Formats) == 0 {
		return errors.New("at least one output format is required")
	}
	for _, f := range c.Formats {
		if !validFormats[f] {
			return fmt.Errorf("invalid format: %s (must be csv or xlsx)", f)
		}
	}

	if c.Workers < 1 {
		return errors.New("workers must be at least 1")
	}

	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	return nil
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{Mode: %s, InputDir: %s, OutputDir: %s, OutputName: %s, Formats: %s, "+
		"Workers: %d, LogLevel: %s, MaxFileSize: %d, Repair: %t}",
		c.Mode, c.InputDir, c.OutputDir, c.OutputName, strings.Join(c.Formats, ","),
		c.Workers, c.LogLevel, c.MaxFileSize, c.Repair)
}

// IsStdioMode returns true if the tools are served over stdio
func (c *Config) IsStdioMode() bool {
	return c.Mode == ModeStdio
}
