package config

import (
	"testing"
	"time"

	"github.com/couchcryptid/forecast-client/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testAPIKey    = "test-key"
	testLocations = "30.2672,-97.7431"
)

// setRequired sets the variables Load refuses to run without.
func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("FORECAST_API_KEY", testAPIKey)
	t.Setenv("FORECAST_LOCATIONS", testLocations)
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, testAPIKey, cfg.APIKey)
	assert.Equal(t, "https://api.darksky.net/forecast", cfg.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, []domain.Location{{Lat: 30.2672, Lon: -97.7431}}, cfg.Locations)
	assert.Equal(t, "en", cfg.Lang)
	assert.Equal(t, "us", cfg.Units)
	assert.Empty(t, cfg.Exclude)
	assert.False(t, cfg.Extend)
	assert.Equal(t, 10*time.Minute, cfg.PollInterval)
	assert.Equal(t, 1.0, cfg.RateLimitRPS)
	assert.Equal(t, 1, cfg.RateLimitBurst)
	assert.Equal(t, 256, cfg.CacheSize)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, "forecast-documents", cfg.KafkaTopic)
	assert.False(t, cfg.KafkaEnabled)
	assert.Empty(t, cfg.DatabaseURL)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
}

func TestLoad_CustomEnv(t *testing.T) {
	setRequired(t)
	t.Setenv("FORECAST_BASE_URL", "https://api.pirateweather.net/forecast")
	t.Setenv("FORECAST_TIMEOUT", "2s")
	t.Setenv("FORECAST_LOCATIONS", "30.2672,-97.7431; 37.8267,-122.4233;")
	t.Setenv("FORECAST_LANG", "de")
	t.Setenv("FORECAST_UNITS", "si")
	t.Setenv("FORECAST_EXCLUDE", "minutely,flags")
	t.Setenv("FORECAST_EXTEND", "true")
	t.Setenv("POLL_INTERVAL", "1m")
	t.Setenv("RATE_LIMIT_RPS", "0.5")
	t.Setenv("RATE_LIMIT_BURST", "3")
	t.Setenv("CACHE_SIZE", "16")
	t.Setenv("CACHE_TTL", "30s")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("KAFKA_TOPIC", "custom-topic")
	t.Setenv("DATABASE_URL", "postgres://forecast@localhost/forecast")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://api.pirateweather.net/forecast", cfg.BaseURL)
	assert.Equal(t, 2*time.Second, cfg.Timeout)
	assert.Equal(t, []domain.Location{
		{Lat: 30.2672, Lon: -97.7431},
		{Lat: 37.8267, Lon: -122.4233},
	}, cfg.Locations)
	assert.Equal(t, "de", cfg.Lang)
	assert.Equal(t, "si", cfg.Units)
	assert.Equal(t, "minutely,flags", cfg.Exclude)
	assert.True(t, cfg.Extend)
	assert.Equal(t, time.Minute, cfg.PollInterval)
	assert.Equal(t, 0.5, cfg.RateLimitRPS)
	assert.Equal(t, 3, cfg.RateLimitBurst)
	assert.Equal(t, 16, cfg.CacheSize)
	assert.Equal(t, 30*time.Second, cfg.CacheTTL)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "custom-topic", cfg.KafkaTopic)
	assert.True(t, cfg.KafkaEnabled)
	assert.Equal(t, "postgres://forecast@localhost/forecast", cfg.DatabaseURL)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
}

func TestLoad_MissingAPIKey(t *testing.T) {
	t.Setenv("FORECAST_API_KEY", "")
	t.Setenv("FORECAST_LOCATIONS", testLocations)
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FORECAST_API_KEY")
}

func TestLoad_MissingLocations(t *testing.T) {
	t.Setenv("FORECAST_API_KEY", testAPIKey)
	t.Setenv("FORECAST_LOCATIONS", " ; ")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FORECAST_LOCATIONS")
}

func TestLoad_InvalidLocation(t *testing.T) {
	setRequired(t)
	t.Setenv("FORECAST_LOCATIONS", "30.2672,-97.7431;95,0")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FORECAST_LOCATIONS")
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	setRequired(t)
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_NegativeShutdownTimeout(t *testing.T) {
	setRequired(t)
	t.Setenv("SHUTDOWN_TIMEOUT", "-1s")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_InvalidDurations(t *testing.T) {
	for _, key := range []string{"FORECAST_TIMEOUT", "POLL_INTERVAL", "CACHE_TTL"} {
		t.Run(key, func(t *testing.T) {
			setRequired(t)
			t.Setenv(key, "0s")
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), key)
		})
	}
}

func TestLoad_InvalidNumbers(t *testing.T) {
	for _, key := range []string{"RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "CACHE_SIZE"} {
		t.Run(key, func(t *testing.T) {
			setRequired(t)
			t.Setenv(key, "-2")
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), key)
		})
	}
}

func TestLoad_InvalidExtend(t *testing.T) {
	setRequired(t)
	t.Setenv("FORECAST_EXTEND", "sometimes")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FORECAST_EXTEND")
}

func TestLoad_KafkaEnabledWithoutBrokers(t *testing.T) {
	setRequired(t)
	t.Setenv("KAFKA_ENABLED", "true")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "KAFKA_BROKERS")
}

func TestLoad_KafkaExplicitlyDisabled(t *testing.T) {
	setRequired(t)
	t.Setenv("KAFKA_BROKERS", "localhost:9092")
	t.Setenv("KAFKA_ENABLED", "false")
	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
}
