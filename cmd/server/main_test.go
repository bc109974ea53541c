package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"soukscan/internal/platform/config"
)

func parse(t *testing.T, args ...string) config.Config {
	t.Helper()
	var cfg config.Config
	app := cli.NewApp()
	app.Flags = flags()
	app.Action = func(cctx *cli.Context) error {
		cfg = configFromCLI(cctx)
		return nil
	}
	require.NoError(t, app.Run(append([]string{"soukscan-admin"}, args...)))
	return cfg
}

func TestConfigFromCLI(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg := parse(t)
		assert.Equal(t, ":8085", cfg.Server.Addr)
		assert.Equal(t, "memory", cfg.Server.Storage)
		assert.Equal(t, config.DefaultUpstreamTimeout, cfg.Upstreams.Timeout)
		assert.Equal(t, config.DefaultUpstreamRetries, cfg.Upstreams.MaxRetries)
		assert.False(t, cfg.Kafka.Enabled())
		assert.Equal(t, config.TopicPriceValidated, cfg.Kafka.PriceValidatedTopic)
		assert.Equal(t, int64(300), cfg.RateLimit.Requests)
	})

	t.Run("flags win", func(t *testing.T) {
		cfg := parse(t,
			"--storage", "postgres",
			"--upstream-timeout", "2s",
			"--upstream-max-retries", "0",
			"--kafka-brokers", "a:9092,b:9092",
		)
		assert.Equal(t, "postgres", cfg.Server.Storage)
		assert.Equal(t, 2*time.Second, cfg.Upstreams.Timeout)
		assert.Equal(t, 0, cfg.Upstreams.MaxRetries)
		assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.Kafka.Brokers)
	})

	t.Run("environment fallback", func(t *testing.T) {
		t.Setenv("VENDOR_SERVICE_URL", "http://vendors.internal/api/vendors")
		t.Setenv("KAFKA_TOPIC_USER_CREATED", "users.v2")
		cfg := parse(t)
		assert.Equal(t, "http://vendors.internal/api/vendors", cfg.Upstreams.VendorServiceURL)
		assert.Equal(t, "users.v2", cfg.Kafka.UserCreatedTopic)
	})
}
