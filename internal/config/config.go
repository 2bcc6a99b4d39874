package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/forecast-client/internal/domain"
	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	// Forecast API configuration.
	APIKey    string
	BaseURL   string
	Timeout   time.Duration
	Locations []domain.Location
	Lang      string
	Units     string
	Exclude   string
	Extend    bool

	PollInterval   time.Duration
	RateLimitRPS   float64
	RateLimitBurst int
	CacheSize      int
	CacheTTL       time.Duration

	// Sinks. Kafka is enabled when brokers are set; Postgres when DATABASE_URL is.
	KafkaBrokers []string
	KafkaTopic   string
	KafkaEnabled bool
	DatabaseURL  string

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	timeout, err := parsePositiveDuration("FORECAST_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}
	pollInterval, err := parsePositiveDuration("POLL_INTERVAL", "10m")
	if err != nil {
		return nil, err
	}
	cacheTTL, err := parsePositiveDuration("CACHE_TTL", "5m")
	if err != nil {
		return nil, err
	}

	rps, err := strconv.ParseFloat(sharedcfg.EnvOrDefault("RATE_LIMIT_RPS", "1"), 64)
	if err != nil || rps <= 0 {
		return nil, errors.New("invalid RATE_LIMIT_RPS")
	}
	burst, err := parsePositiveInt("RATE_LIMIT_BURST", "1")
	if err != nil {
		return nil, err
	}
	cacheSize, err := parsePositiveInt("CACHE_SIZE", "256")
	if err != nil {
		return nil, err
	}

	extend, err := parseBool("FORECAST_EXTEND", false)
	if err != nil {
		return nil, err
	}

	locations, err := parseLocations(os.Getenv("FORECAST_LOCATIONS"))
	if err != nil {
		return nil, err
	}

	var brokers []string
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		brokers = sharedcfg.ParseBrokers(v)
	}
	kafkaEnabled, err := parseBool("KAFKA_ENABLED", len(brokers) > 0)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		APIKey:    os.Getenv("FORECAST_API_KEY"),
		BaseURL:   sharedcfg.EnvOrDefault("FORECAST_BASE_URL", "https://api.darksky.net/forecast"),
		Timeout:   timeout,
		Locations: locations,
		Lang:      sharedcfg.EnvOrDefault("FORECAST_LANG", "en"),
		Units:     sharedcfg.EnvOrDefault("FORECAST_UNITS", "us"),
		Exclude:   os.Getenv("FORECAST_EXCLUDE"),
		Extend:    extend,

		PollInterval:   pollInterval,
		RateLimitRPS:   rps,
		RateLimitBurst: burst,
		CacheSize:      cacheSize,
		CacheTTL:       cacheTTL,

		KafkaBrokers: brokers,
		KafkaTopic:   sharedcfg.EnvOrDefault("KAFKA_TOPIC", "forecast-documents"),
		KafkaEnabled: kafkaEnabled,
		DatabaseURL:  os.Getenv("DATABASE_URL"),

		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
	}

	if cfg.APIKey == "" {
		return nil, errors.New("FORECAST_API_KEY is required")
	}
	if len(cfg.Locations) == 0 {
		return nil, errors.New("FORECAST_LOCATIONS is required")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}
	if cfg.KafkaEnabled && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_TOPIC is required")
	}

	return cfg, nil
}

// parseLocations splits "lat,lon;lat,lon". Empty entries are skipped.
func parseLocations(s string) ([]domain.Location, error) {
	var out []domain.Location
	for _, part := range strings.Split(s, ";") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		loc, err := domain.ParseLocation(part)
		if err != nil {
			return nil, fmt.Errorf("invalid FORECAST_LOCATIONS: %w", err)
		}
		out = append(out, loc)
	}
	return out, nil
}

func parsePositiveDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parsePositiveInt(key, def string) (int, error) {
	n, err := strconv.Atoi(sharedcfg.EnvOrDefault(key, def))
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return n, nil
}

func parseBool(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s", key)
	}
	return b, nil
}
