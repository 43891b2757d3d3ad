package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	// Log configuration
	Log LogConfig `mapstructure:"log"`

	// Server configuration
	Server ServerConfig `mapstructure:"server"`

	// Data configuration
	Data DataConfig `mapstructure:"data"`

	// Eval configuration
	Eval EvalConfig `mapstructure:"eval"`

	// Telemetry configuration
	Telemetry TelemetryConfig `mapstructure:"telemetry"`

	// Catalog configuration
	Catalog CatalogConfig `mapstructure:"catalog"`

	// CircuitBreaker configuration
	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuit_breaker"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // gin mode: debug, release, test
}

// DataConfig holds model data locations
type DataConfig struct {
	// Dir is where coefficient files live; relative model names resolve
	// against it.
	Dir string `mapstructure:"dir"`
	// ParquetDir is where grid and coefficient exports are written.
	ParquetDir string `mapstructure:"parquet_dir"`
}

// EvalConfig holds evaluation defaults
type EvalConfig struct {
	// Norm is the default normalization for files that do not declare
	// one: 4pi, schmidt, unnorm, or ortho.
	Norm string `mapstructure:"norm"`
	// CondonShortley applies the (-1)^m phase when true.
	CondonShortley bool `mapstructure:"condon_shortley"`
	// LMax truncates every expansion when positive.
	LMax int `mapstructure:"lmax"`
	// Sampling is the default longitudinal sampling for synthesis.
	Sampling int `mapstructure:"sampling"`
}

// TelemetryConfig holds telemetry configuration
type TelemetryConfig struct {
	ParquetPath string `mapstructure:"parquet_path"`
}

// CatalogConfig holds remote model catalog configuration
type CatalogConfig struct {
	// IndexURL points at the YAML catalog index.
	IndexURL string `mapstructure:"index_url"`
	// CacheDir is where downloaded models are stored.
	CacheDir string `mapstructure:"cache_dir"`
	// MaxRetries bounds download retry attempts.
	MaxRetries int `mapstructure:"max_retries"`
}

// CircuitBreakerConfig holds configuration for circuit breaking around
// catalog downloads
type CircuitBreakerConfig struct {
	Enabled          bool    `mapstructure:"enabled"`
	MaxRequests      uint32  `mapstructure:"max_requests"`
	Interval         int     `mapstructure:"interval"` // in seconds
	Timeout          int     `mapstructure:"timeout"`  // in seconds
	ReadyToTripRatio float64 `mapstructure:"ready_to_trip_ratio"`
}

// Load loads configuration from file and environment variables
func Load() (*Config, error) {
	setDefaults()

	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	overrideWithEnv(config)

	return config, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// Log defaults
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "text")

	// Server defaults
	viper.SetDefault("server.host", "localhost")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.mode", "debug")

	// Data defaults
	viper.SetDefault("data.dir", "../ExampleDataFiles")
	viper.SetDefault("eval.norm", "4pi")
	viper.SetDefault("eval.condon_shortley", false)
	viper.SetDefault("eval.sampling", 2)

	// Catalog defaults
	viper.SetDefault("catalog.max_retries", 3)

	// Circuit breaker defaults
	viper.SetDefault("circuit_breaker.enabled", true)
	viper.SetDefault("circuit_breaker.max_requests", 1)
	viper.SetDefault("circuit_breaker.interval", 60)
	viper.SetDefault("circuit_breaker.timeout", 30)
	viper.SetDefault("circuit_breaker.ready_to_trip_ratio", 0.6)

	home, err := os.UserHomeDir()
	if err == nil {
		viper.SetDefault("telemetry.parquet_path", filepath.Join(home, ".shtk", "telemetry"))
		viper.SetDefault("data.parquet_dir", filepath.Join(home, ".shtk", "exports"))
		viper.SetDefault("catalog.cache_dir", filepath.Join(home, ".shtk", "models"))
	}
}

// overrideWithEnv overrides config with environment variables
func overrideWithEnv(config *Config) {
	if dir := os.Getenv("SHTK_DATA_DIR"); dir != "" {
		config.Data.Dir = dir
	}
	if dir := os.Getenv("SHTK_PARQUET_DIR"); dir != "" {
		config.Data.ParquetDir = dir
	}
	if url := os.Getenv("SHTK_CATALOG_URL"); url != "" {
		config.Catalog.IndexURL = url
	}
	if dir := os.Getenv("SHTK_CACHE_DIR"); dir != "" {
		config.Catalog.CacheDir = dir
	}
	if host := os.Getenv("SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if port := os.Getenv("SERVER_PORT"); port != "" {
		viper.Set("server.port", port)
	}
	if path := os.Getenv("TELEMETRY_PARQUET_PATH"); path != "" {
		config.Telemetry.ParquetPath = path
	}
}
