package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnv(t *testing.T) {
	t.Run("defaults follow the upstream call contract", func(t *testing.T) {
		cfg := FromEnv()
		assert.Equal(t, 10*time.Second, cfg.Upstreams.Timeout)
		assert.Equal(t, 2, cfg.Upstreams.MaxRetries)
		assert.Equal(t, TopicVendorStatusChanged, cfg.Kafka.VendorStatusTopic)
		assert.False(t, cfg.Kafka.Enabled())
		assert.Equal(t, "memory", cfg.Server.Storage)
	})

	t.Run("overrides from environment", func(t *testing.T) {
		t.Setenv("KAFKA_BROKERS", "broker-1:9092, broker-2:9092,")
		t.Setenv("UPSTREAM_TIMEOUT", "3s")
		t.Setenv("UPSTREAM_MAX_RETRIES", "5")
		t.Setenv("ADMIN_STORAGE", "postgres")

		cfg := FromEnv()
		assert.Equal(t, []string{"broker-1:9092", "broker-2:9092"}, cfg.Kafka.Brokers)
		assert.True(t, cfg.Kafka.Enabled())
		assert.Equal(t, 3*time.Second, cfg.Upstreams.Timeout)
		assert.Equal(t, 5, cfg.Upstreams.MaxRetries)
		assert.Equal(t, "postgres", cfg.Server.Storage)
	})

	t.Run("malformed numbers fall back to defaults", func(t *testing.T) {
		t.Setenv("UPSTREAM_MAX_RETRIES", "many")
		t.Setenv("UPSTREAM_TIMEOUT", "soon")

		cfg := FromEnv()
		assert.Equal(t, DefaultUpstreamRetries, cfg.Upstreams.MaxRetries)
		assert.Equal(t, DefaultUpstreamTimeout, cfg.Upstreams.Timeout)
	})
}
