package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "aster-api", cfg.AppName)
	assert.Equal(t, 3004, cfg.Port)
	assert.Equal(t, 0.7, cfg.MatchThreshold)
	assert.Equal(t, 0.9, cfg.HighConfidenceThreshold)
	assert.Equal(t, 128, cfg.EmbeddingDim)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv("APP_NAME", "aster-test")
	t.Setenv("PORT", "9090")
	t.Setenv("MATCH_THRESHOLD", "0.65")
	t.Setenv("KAFKA_BROKERS", "broker-a:9092,broker-b:9092")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "aster-test", cfg.AppName)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 0.65, cfg.MatchThreshold)
	assert.Equal(t, []string{"broker-a:9092", "broker-b:9092"}, cfg.KafkaBrokers)
}
