package common

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig
	Parser   ParserConfig
	Export   ExportConfig
	Ingest   IngestConfig
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	DSN              string
	MaxConns         int32
	MinConns         int32
	MaxConnLifetime  time.Duration
	MaxConnIdleTime  time.Duration
	DialTimeout      time.Duration
	StatementTimeout time.Duration
}

// ParserConfig holds tuning knobs for row reconstruction.
// RowTolerance is the maximum Y distance (in document units) between tokens
// judged to share one printed line; it is calibrated to the extraction
// library's font-size units and should be recalibrated if the backend changes.
type ParserConfig struct {
	RowTolerance float64
	ProfilePath  string
}

// ExportConfig holds export-related configuration
type ExportConfig struct {
	DefaultUnit   string // "auto", "dm2" or "ft2"
	DefaultFormat string // "csv" or "xlsx"
}

// IngestConfig holds ingest-related configuration
type IngestConfig struct {
	WatchDebounce time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			DSN:              getEnv("DB_URL", "file:partes.db"),
			MaxConns:         getEnvAsInt32("DB_MAX_CONNS", 20),
			MinConns:         getEnvAsInt32("DB_MIN_CONNS", 5),
			MaxConnLifetime:  getEnvAsDuration("DB_MAX_CONN_LIFETIME", 30*time.Minute),
			MaxConnIdleTime:  getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 5*time.Minute),
			DialTimeout:      getEnvAsDuration("DB_DIAL_TIMEOUT", 3*time.Second),
			StatementTimeout: getEnvAsDuration("DB_STATEMENT_TIMEOUT", 0),
		},
		Parser: ParserConfig{
			RowTolerance: getEnvAsFloat64("ROW_TOLERANCE", 5.0),
			ProfilePath:  getEnv("PARSER_PROFILE", ""),
		},
		Export: ExportConfig{
			DefaultUnit:   getEnv("EXPORT_UNIT", "auto"),
			DefaultFormat: getEnv("EXPORT_FORMAT", "csv"),
		},
		Ingest: IngestConfig{
			WatchDebounce: getEnvAsDuration("WATCH_DEBOUNCE", 500*time.Millisecond),
		},
	}
}

// ParserProfile is the optional YAML override file for parser and export
// defaults, pointed at by PARSER_PROFILE.
type ParserProfile struct {
	RowTolerance  float64 `yaml:"row_tolerance"`
	DefaultUnit   string  `yaml:"default_unit"`
	DefaultFormat string  `yaml:"default_format"`
}

// ApplyProfile reads the YAML profile at Parser.ProfilePath (if set) and
// overlays its non-zero values on the config.
func (c *Config) ApplyProfile() error {
	if c.Parser.ProfilePath == "" {
		return nil
	}
	data, err := os.ReadFile(c.Parser.ProfilePath)
	if err != nil {
		return fmt.Errorf("read parser profile: %w", err)
	}
	var p ParserProfile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("parse parser profile: %w", err)
	}
	if p.RowTolerance > 0 {
		c.Parser.RowTolerance = p.RowTolerance
	}
	if p.DefaultUnit != "" {
		c.Export.DefaultUnit = p.DefaultUnit
	}
	if p.DefaultFormat != "" {
		c.Export.DefaultFormat = p.DefaultFormat
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt32(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(intVal)
		}
	}
	return defaultValue
}

func getEnvAsFloat64(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.Database.DSN == "" {
		return NewAppError("CONFIG_ERROR", "DB_URL is required", ErrInvalidInput)
	}
	if c.Parser.RowTolerance <= 0 {
		return NewAppError("CONFIG_ERROR", "ROW_TOLERANCE must be positive", ErrInvalidInput)
	}
	switch c.Export.DefaultUnit {
	case "auto", "dm2", "ft2":
	default:
		return NewAppError("CONFIG_ERROR", "EXPORT_UNIT must be auto, dm2 or ft2", ErrInvalidInput)
	}
	switch c.Export.DefaultFormat {
	case "csv", "xlsx":
	default:
		return NewAppError("CONFIG_ERROR", "EXPORT_FORMAT must be csv or xlsx", ErrInvalidInput)
	}
	return nil
}
