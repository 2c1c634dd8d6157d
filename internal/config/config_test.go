package config_test

import (
	"testing"
	"time"

	"resto/internal/config"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper(overrides map[string]any) *viper.Viper {
	v := viper.New()
	config.SetDefaults(v)
	v.Set("JWT_SECRET", "0123456789abcdef")
	for k, val := range overrides {
		v.Set(k, val)
	}
	return v
}

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := config.FromViper(newViper(nil))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.AppPort)
	assert.Equal(t, "sqlite", cfg.DatabaseDriver)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, "none", cfg.EventsDriver)
	assert.Equal(t, "catalog", cfg.PriceSource)
	assert.False(t, cfg.StrictTransitions)
	assert.Equal(t, 10, cfg.ItemsPerPage)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
}

func TestFromViper_Overrides(t *testing.T) {
	cfg, err := config.FromViper(newViper(map[string]any{
		"DATABASE_DRIVER":           "Postgres",
		"KAFKA_BROKERS":             "a:9092, b:9092",
		"EVENTS_DRIVER":             "kafka",
		"ORDERS_STRICT_TRANSITIONS": "true",
		"PUBLIC_BASE_URL":           "https://resto.example.com/",
	}))
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.DatabaseDriver)
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.KafkaBrokers)
	assert.True(t, cfg.StrictTransitions)
	assert.Equal(t, "https://resto.example.com", cfg.PublicBaseURL)
}

func TestFromViper_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		overrides map[string]any
		contains  string
	}{
		{"short secret", map[string]any{"JWT_SECRET": "short"}, "JWT_SECRET"},
		{"unknown driver", map[string]any{"DATABASE_DRIVER": "mysql"}, "DATABASE_DRIVER"},
		{"unknown events driver", map[string]any{"EVENTS_DRIVER": "sqs"}, "EVENTS_DRIVER"},
		{"unknown price source", map[string]any{"ORDERS_PRICE_SOURCE": "random"}, "ORDERS_PRICE_SOURCE"},
		{"half admin", map[string]any{"ADMIN_EMAIL": "admin@example.com"}, "ADMIN_PASSWORD"},
		{"bad ttl", map[string]any{"TOKEN_TTL": "forever"}, "TOKEN_TTL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.FromViper(newViper(tt.overrides))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestLoad_ReadsEnvironment(t *testing.T) {
	t.Setenv("JWT_SECRET", "env-secret-0123456789")
	t.Setenv("ITEMS_PER_PAGE", "25")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "env-secret-0123456789", cfg.JWTSecret)
	assert.Equal(t, 25, cfg.ItemsPerPage)
}
