package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"sheetsplit/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server  ServerConfig
	Upload  UploadConfig
	Logging LoggingConfig
	Metrics MetricsConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	APIPort string
	GinMode string
}

// UploadConfig bounds what a single request may send and how long results are kept
type UploadConfig struct {
	MaxSizeBytes  int64
	MaxConcurrent int64
	DownloadTTL   time.Duration
	SheetName     string // Empty means the first sheet of the workbook
}

// LoggingConfig controls the zap logger and optional file rotation
type LoggingConfig struct {
	Level      string
	Format     string // json or console
	OutputPath string // stdout, stderr or a file path
	MaxSize    int    // megabytes before rotation
	MaxBackups int
	MaxAge     int // days
	Compress   bool
}

// MetricsConfig toggles the prometheus endpoint
type MetricsConfig struct {
	Enabled bool
	Path    string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	upload, err := loadUploadConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load upload configuration")
	}

	logging, err := loadLoggingConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load logging configuration")
	}

	metrics, err := loadMetricsConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load metrics configuration")
	}

	config := &Config{
		Server:  *loadServerConfig(),
		Upload:  *upload,
		Logging: *logging,
		Metrics: *metrics,
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:    getEnvOrDefault("PORT", "8080"),
		APIPort: getEnvOrDefault("API_PORT", "8081"),
		GinMode: getEnvOrDefault("GIN_MODE", "release"),
	}
}

func loadUploadConfig() (*UploadConfig, error) {
	maxMB, err := getEnvIntOrDefault("MAX_UPLOAD_MB", 10)
	if err != nil {
		return nil, err
	}
	maxConcurrent, err := getEnvIntOrDefault("MAX_CONCURRENT_UPLOADS", 4)
	if err != nil {
		return nil, err
	}
	ttl, err := getEnvDurationOrDefault("DOWNLOAD_TTL", 15*time.Minute)
	if err != nil {
		return nil, err
	}

	return &UploadConfig{
		MaxSizeBytes:  int64(maxMB) * 1024 * 1024,
		MaxConcurrent: int64(maxConcurrent),
		DownloadTTL:   ttl,
		SheetName:     getEnvOrDefault("SHEET_NAME", ""),
	}, nil
}

func loadLoggingConfig() (*LoggingConfig, error) {
	cfg := &LoggingConfig{
		Level:      strings.ToLower(getEnvOrDefault("LOG_LEVEL", "info")),
		Format:     strings.ToLower(getEnvOrDefault("LOG_FORMAT", "json")),
		OutputPath: getEnvOrDefault("LOG_FILE", "stdout"),
	}

	var err error
	if cfg.MaxSize, err = getEnvIntOrDefault("LOG_MAX_SIZE_MB", 0); err != nil {
		return nil, err
	}
	if cfg.MaxBackups, err = getEnvIntOrDefault("LOG_MAX_BACKUPS", 0); err != nil {
		return nil, err
	}
	if cfg.MaxAge, err = getEnvIntOrDefault("LOG_MAX_AGE_DAYS", 0); err != nil {
		return nil, err
	}
	if cfg.Compress, err = getEnvBoolOrDefault("LOG_COMPRESS", false); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadMetricsConfig() (*MetricsConfig, error) {
	enabled, err := getEnvBoolOrDefault("METRICS_ENABLED", true)
	if err != nil {
		return nil, err
	}
	return &MetricsConfig{
		Enabled: enabled,
		Path:    getEnvOrDefault("METRICS_PATH", "/metrics"),
	}, nil
}

func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return errors.ConfigInvalid("PORT is required")
	}
	if config.Upload.MaxSizeBytes <= 0 {
		return errors.ConfigInvalid("MAX_UPLOAD_MB must be positive")
	}
	if config.Upload.MaxConcurrent <= 0 {
		return errors.ConfigInvalid("MAX_CONCURRENT_UPLOADS must be positive")
	}
	if config.Upload.DownloadTTL <= 0 {
		return errors.ConfigInvalid("DOWNLOAD_TTL must be positive")
	}
	switch config.Logging.Format {
	case "json", "console":
	default:
		return errors.ConfigInvalid(fmt.Sprintf("LOG_FORMAT must be json or console, got %q", config.Logging.Format))
	}
	if !strings.HasPrefix(config.Metrics.Path, "/") {
		return errors.ConfigInvalid("METRICS_PATH must start with /")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	intValue, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, errors.ConfigInvalid(fmt.Sprintf("%s: invalid integer %q", key, value))
	}
	return intValue, nil
}

func getEnvBoolOrDefault(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	boolValue, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return false, errors.ConfigInvalid(fmt.Sprintf("%s: invalid boolean %q", key, value))
	}
	return boolValue, nil
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		return 0, errors.ConfigInvalid(fmt.Sprintf("%s: invalid duration %q", key, value))
	}
	return duration, nil
}
