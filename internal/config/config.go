// =============================================================================
// Comma Fixer - Configuration Module
// =============================================================================
//
// This module is responsible for loading the application configuration. A
// configuration file is optional: with no file the tool repairs the ".ts" and
// ".tsx" files under "./src", which is the layout it was written for.
//
// CONFIGURATION FILE (commafix.yaml):
//   root_dir: ./src
//   extensions: [".ts", ".tsx"]
//   exclude: ["**/node_modules/**"]
//   max_concurrency: 4
//   continue_on_error: true
//   atomic_write: true
//   verify: true
//   log_level: info
//   log_file: ./logs/commafix.log
//   report_dir: ./reports
//   xlsx_report: false
//   backup_dir: ./backups
//   backup_date_subdirs: true
//   backup_max_age: 720h
//
// PRECEDENCE:
//   defaults < configuration file < command-line flags
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// MainConfig holds the global application configuration.
type MainConfig struct {
	// =========================================================================
	// DISCOVERY SETTINGS
	// =========================================================================

	// RootDir is the directory tree that is scanned for source files.
	// Default: "./src"
	RootDir string `yaml:"root_dir"`

	// Extensions lists the file extensions to repair. Matching is
	// case-insensitive and by suffix, so ".ts" also covers "x.d.ts".
	// Default: [".ts", ".tsx"]
	Extensions []string `yaml:"extensions"`

	// Exclude is a list of doublestar glob patterns matched against the
	// slash-separated path relative to RootDir. Matching directories are not
	// descended into.
	// Default: ["**/node_modules/**", "**/.git/**"]
	Exclude []string `yaml:"exclude"`

	// =========================================================================
	// PROCESSING SETTINGS
	// =========================================================================

	// MaxConcurrency is the maximum number of files repaired concurrently.
	// Set to 1 for sequential processing.
	// Default: 1
	MaxConcurrency int `yaml:"max_concurrency"`

	// ContinueOnError keeps processing the remaining files when one file
	// cannot be read, verified or written.
	// Default: true
	ContinueOnError *bool `yaml:"continue_on_error"`

	// AtomicWrite writes changed files through a temporary file and a rename
	// so a crash never leaves a truncated source file behind.
	// Default: true
	AtomicWrite *bool `yaml:"atomic_write"`

	// Verify checks every repaired document before it is written.
	// Default: true
	Verify *bool `yaml:"verify"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// LogFile is an optional file that receives a copy of the log output.
	LogFile string `yaml:"log_file"`

	// =========================================================================
	// REPORT SETTINGS
	// =========================================================================

	// ReportDir is where run summaries and error logs are written.
	// Empty disables report files.
	ReportDir string `yaml:"report_dir"`

	// XLSXReport additionally writes the run report as an .xlsx workbook.
	// Requires ReportDir.
	XLSXReport bool `yaml:"xlsx_report"`

	// =========================================================================
	// BACKUP SETTINGS
	// =========================================================================

	// BackupDir receives a timestamped copy of every file before it is
	// rewritten. The layout below it mirrors the source tree.
	// Empty disables backups.
	BackupDir string `yaml:"backup_dir"`

	// BackupDateSubdirs stores backups under year/month/day subdirectories.
	// Example: backups/2024/01/15/components/Header.tsx.20240115_143022.bak
	BackupDateSubdirs bool `yaml:"backup_date_subdirs"`

	// BackupMaxAge removes backups older than this after each run.
	// Zero keeps backups forever.
	BackupMaxAge time.Duration `yaml:"backup_max_age"`
}

// DefaultConfigFile is the configuration file looked up when --config is not
// given explicitly.
const DefaultConfigFile = "commafix.yaml"

// validLogLevels are the accepted LogLevel values.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// Default returns a configuration with every default applied.
func Default() *MainConfig {
	config := &MainConfig{}
	applyMainConfigDefaults(config)
	return config
}

// Load loads the main configuration from a YAML file.
//
// PARAMETERS:
//   - configPath: The path to the configuration file.
//
// RETURNS:
//   - A pointer to the MainConfig struct with defaults applied.
//   - An error if the file cannot be read, parsed or validated.
func Load(configPath string) (*MainConfig, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config MainConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyMainConfigDefaults(&config)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// LoadOrDefault loads configPath, falling back to Default when the file does
// not exist and the path was not requested explicitly.
func LoadOrDefault(configPath string, explicit bool) (*MainConfig, error) {
	config, err := Load(configPath)
	if err == nil {
		return config, nil
	}
	if !explicit && errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return nil, err
}

// applyMainConfigDefaults sets default values for any unset configuration options.
func applyMainConfigDefaults(config *MainConfig) {
	if config.RootDir == "" {
		config.RootDir = "./src"
	}
	if len(config.Extensions) == 0 {
		config.Extensions = []string{".ts", ".tsx"}
	}
	if config.Exclude == nil {
		config.Exclude = []string{"**/node_modules/**", "**/.git/**"}
	}
	if config.MaxConcurrency == 0 {
		config.MaxConcurrency = 1
	}
	if config.ContinueOnError == nil {
		config.ContinueOnError = boolPtr(true)
	}
	if config.AtomicWrite == nil {
		config.AtomicWrite = boolPtr(true)
	}
	if config.Verify == nil {
		config.Verify = boolPtr(true)
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	config.Extensions = NormalizeExtensions(config.Extensions)
}

// Validate checks the configuration for values the tool cannot work with.
func (c *MainConfig) Validate() error {
	if strings.TrimSpace(c.RootDir) == "" {
		return errors.New("root_dir must not be empty")
	}
	if len(c.Extensions) == 0 {
		return errors.New("at least one extension is required")
	}
	if c.MaxConcurrency < 1 {
		return fmt.Errorf("max_concurrency must be at least 1, got %d", c.MaxConcurrency)
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("unknown log_level %q", c.LogLevel)
	}
	for _, pattern := range c.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("invalid exclude pattern %q", pattern)
		}
	}
	if c.XLSXReport && c.ReportDir == "" {
		return errors.New("xlsx_report requires report_dir")
	}
	if c.BackupMaxAge < 0 {
		return fmt.Errorf("backup_max_age must not be negative, got %s", c.BackupMaxAge)
	}
	if c.BackupMaxAge > 0 && c.BackupDir == "" {
		return errors.New("backup_max_age requires backup_dir")
	}
	return nil
}

// NormalizeExtensions lower-cases extensions, adds a missing leading dot and
// drops blanks and duplicates while keeping the original order.
func NormalizeExtensions(extensions []string) []string {
	seen := make(map[string]bool, len(extensions))
	result := make([]string, 0, len(extensions))

	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		if seen[ext] {
			continue
		}
		seen[ext] = true
		result = append(result, ext)
	}

	return result
}

func boolPtr(b bool) *bool {
	return &b
}
