package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/niprotogeros/epw-visualizer/internal/epw"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Pipeline configuration.
	UnifiedYear    int
	ParseCacheSize int
	MaxUploadBytes int64

	// Postgres archive configuration (enabled when DATABASE_URL is set).
	DatabaseURL    string
	ArchiveEnabled bool

	// Kafka summary publishing configuration (enabled when KAFKA_BROKERS is set).
	KafkaBrokers      []string
	KafkaSummaryTopic string
	KafkaEnabled      bool
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	unifiedYear, err := parseInt("UNIFIED_YEAR", epw.DefaultUnifiedYear)
	if err != nil {
		return nil, err
	}
	if unifiedYear < 1 || unifiedYear > 9999 {
		return nil, fmt.Errorf("UNIFIED_YEAR must be between 1 and 9999, got %d", unifiedYear)
	}

	cacheSize, err := parseInt("PARSE_CACHE_SIZE", 32)
	if err != nil {
		return nil, err
	}
	if cacheSize < 1 {
		return nil, fmt.Errorf("PARSE_CACHE_SIZE must be positive, got %d", cacheSize)
	}

	maxUpload, err := parseInt("MAX_UPLOAD_BYTES", 32<<20)
	if err != nil {
		return nil, err
	}
	if maxUpload < 1 {
		return nil, fmt.Errorf("MAX_UPLOAD_BYTES must be positive, got %d", maxUpload)
	}

	databaseURL := os.Getenv("DATABASE_URL")
	archiveEnabled := databaseURL != ""
	if v := os.Getenv("ARCHIVE_ENABLED"); v != "" {
		archiveEnabled = v == "true"
	}

	brokers := parseBrokers(os.Getenv("KAFKA_BROKERS"))
	kafkaEnabled := len(brokers) > 0
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		kafkaEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		UnifiedYear:    unifiedYear,
		ParseCacheSize: cacheSize,
		MaxUploadBytes: int64(maxUpload),

		DatabaseURL:    databaseURL,
		ArchiveEnabled: archiveEnabled,

		KafkaBrokers:      brokers,
		KafkaSummaryTopic: envOrDefault("KAFKA_SUMMARY_TOPIC", "epw-parse-summaries"),
		KafkaEnabled:      kafkaEnabled,
	}

	if cfg.ArchiveEnabled && cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("ARCHIVE_ENABLED is true but DATABASE_URL is not set")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, fmt.Errorf("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}
	if cfg.KafkaEnabled && cfg.KafkaSummaryTopic == "" {
		return nil, fmt.Errorf("KAFKA_SUMMARY_TOPIC is required when Kafka publishing is enabled")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, fallback))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseInt(key string, fallback int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return n, nil
}

// parseBrokers splits a comma-separated broker list, dropping empty entries.
func parseBrokers(s string) []string {
	var brokers []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
