package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/carlmjohnson/versioninfo"
	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v2"

	"soukscan/internal/platform/config"
)

func main() {
	app := cli.NewApp()
	app.Name = "soukscan-admin"
	app.Usage = "marketplace back-office: moderation, vendor verification and audit"
	app.Version = versioninfo.Short()
	app.Flags = flags()
	app.Action = func(cctx *cli.Context) error {
		return run(cctx.Context, configFromCLI(cctx))
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("exited with error", "err", err)
		os.Exit(1)
	}
}

func flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "addr",
			Usage:   "HTTP listen address",
			Value:   ":8085",
			EnvVars: []string{"ADMIN_ADDR"},
		},
		&cli.DurationFlag{
			Name:    "shutdown-timeout",
			Usage:   "grace period for in-flight requests on shutdown",
			Value:   10 * time.Second,
			EnvVars: []string{"ADMIN_SHUTDOWN_TIMEOUT"},
		},
		&cli.StringFlag{
			Name:    "storage",
			Usage:   "store implementation: memory or postgres",
			Value:   "memory",
			EnvVars: []string{"ADMIN_STORAGE"},
		},
		&cli.StringFlag{
			Name:    "log-level",
			Value:   "info",
			EnvVars: []string{"LOG_LEVEL"},
		},
		&cli.StringFlag{
			Name:    "log-format",
			Usage:   "json or text",
			Value:   "json",
			EnvVars: []string{"LOG_FORMAT"},
		},
		&cli.StringFlag{
			Name:    "jwt-public-key",
			Usage:   "path to an RS256 public key (PEM); wins over the HMAC secret",
			EnvVars: []string{"JWT_PUBLIC_KEY_PATH"},
		},
		&cli.StringFlag{
			Name:    "jwt-hmac-secret",
			Value:   "dev-secret-key-change-in-production",
			EnvVars: []string{"JWT_HMAC_SECRET"},
		},
		&cli.StringFlag{
			Name:    "jwt-issuer",
			EnvVars: []string{"JWT_ISSUER"},
		},
		&cli.StringFlag{
			Name:    "vendor-service-url",
			Value:   "http://localhost:8082/api/vendors",
			EnvVars: []string{"VENDOR_SERVICE_URL"},
		},
		&cli.StringFlag{
			Name:    "product-service-url",
			Value:   "http://localhost:8083/api/products",
			EnvVars: []string{"PRODUCT_SERVICE_URL"},
		},
		&cli.DurationFlag{
			Name:    "upstream-timeout",
			Usage:   "per-attempt timeout for calls to the vendor and product services",
			Value:   config.DefaultUpstreamTimeout,
			EnvVars: []string{"UPSTREAM_TIMEOUT"},
		},
		&cli.IntFlag{
			Name:    "upstream-max-retries",
			Value:   config.DefaultUpstreamRetries,
			EnvVars: []string{"UPSTREAM_MAX_RETRIES"},
		},
		&cli.StringSliceFlag{
			Name:    "kafka-brokers",
			Usage:   "broker addresses; events are only logged when empty",
			EnvVars: []string{"KAFKA_BROKERS"},
		},
		&cli.StringFlag{
			Name:    "kafka-consumer-group",
			Value:   "admin-service",
			EnvVars: []string{"KAFKA_CONSUMER_GROUP"},
		},
		&cli.StringFlag{
			Name:    "kafka-topic-vendor-status",
			Value:   config.TopicVendorStatusChanged,
			EnvVars: []string{"KAFKA_TOPIC_VENDOR_STATUS"},
		},
		&cli.StringFlag{
			Name:    "kafka-topic-user-created",
			Value:   config.TopicUserCreated,
			EnvVars: []string{"KAFKA_TOPIC_USER_CREATED"},
		},
		&cli.StringFlag{
			Name:    "kafka-topic-price-reported",
			Value:   config.TopicPriceReported,
			EnvVars: []string{"KAFKA_TOPIC_PRICE_REPORTED"},
		},
		&cli.StringFlag{
			Name:    "kafka-topic-price-validated",
			Value:   config.TopicPriceValidated,
			EnvVars: []string{"KAFKA_TOPIC_PRICE_VALIDATED"},
		},
		&cli.BoolFlag{
			Name:    "kafka-ensure-topics",
			Usage:   "create missing topics on startup",
			EnvVars: []string{"KAFKA_ENSURE_TOPICS"},
		},
		&cli.StringFlag{
			Name:    "database-url",
			EnvVars: []string{"DATABASE_URL"},
		},
		&cli.IntFlag{
			Name:    "database-max-open-conns",
			Value:   20,
			EnvVars: []string{"DATABASE_MAX_OPEN_CONNS"},
		},
		&cli.IntFlag{
			Name:    "database-max-idle-conns",
			Value:   5,
			EnvVars: []string{"DATABASE_MAX_IDLE_CONNS"},
		},
		&cli.StringFlag{
			Name:    "redis-url",
			Usage:   "redis://<user>:<pass>@<host>:6379/<db>; enables distributed locks and rate limits",
			EnvVars: []string{"REDIS_URL"},
		},
		&cli.StringFlag{
			Name:    "otel-exporter",
			Usage:   "none, stdout or otlp",
			Value:   "none",
			EnvVars: []string{"OTEL_EXPORTER"},
		},
		&cli.StringFlag{
			Name:    "otel-service-name",
			Value:   "admin-service",
			EnvVars: []string{"OTEL_SERVICE_NAME"},
		},
		&cli.StringFlag{
			Name:    "otel-environment",
			Value:   "development",
			EnvVars: []string{"OTEL_ENVIRONMENT"},
		},
		&cli.Int64Flag{
			Name:    "rate-limit-requests",
			Value:   300,
			EnvVars: []string{"RATE_LIMIT_REQUESTS"},
		},
		&cli.DurationFlag{
			Name:    "rate-limit-period",
			Value:   time.Minute,
			EnvVars: []string{"RATE_LIMIT_PERIOD"},
		},
	}
}

func configFromCLI(cctx *cli.Context) config.Config {
	cfg := config.FromEnv()
	cfg.Server.Addr = cctx.String("addr")
	cfg.Server.ShutdownTimeout = cctx.Duration("shutdown-timeout")
	cfg.Server.Storage = cctx.String("storage")
	cfg.Log.Level = cctx.String("log-level")
	cfg.Log.Format = cctx.String("log-format")
	cfg.Auth.PublicKeyPath = cctx.String("jwt-public-key")
	cfg.Auth.HMACSecret = cctx.String("jwt-hmac-secret")
	cfg.Auth.Issuer = cctx.String("jwt-issuer")
	cfg.Upstreams.VendorServiceURL = cctx.String("vendor-service-url")
	cfg.Upstreams.ProductServiceURL = cctx.String("product-service-url")
	cfg.Upstreams.Timeout = cctx.Duration("upstream-timeout")
	cfg.Upstreams.MaxRetries = cctx.Int("upstream-max-retries")
	cfg.Kafka.Brokers = cctx.StringSlice("kafka-brokers")
	cfg.Kafka.ConsumerGroup = cctx.String("kafka-consumer-group")
	cfg.Kafka.VendorStatusTopic = cctx.String("kafka-topic-vendor-status")
	cfg.Kafka.UserCreatedTopic = cctx.String("kafka-topic-user-created")
	cfg.Kafka.PriceReportedTopic = cctx.String("kafka-topic-price-reported")
	cfg.Kafka.PriceValidatedTopic = cctx.String("kafka-topic-price-validated")
	cfg.Kafka.EnsureTopics = cctx.Bool("kafka-ensure-topics")
	cfg.Database.DSN = cctx.String("database-url")
	cfg.Database.MaxOpenConns = cctx.Int("database-max-open-conns")
	cfg.Database.MaxIdleConns = cctx.Int("database-max-idle-conns")
	cfg.Redis.URL = cctx.String("redis-url")
	cfg.Tracing.Exporter = cctx.String("otel-exporter")
	cfg.Tracing.ServiceName = cctx.String("otel-service-name")
	cfg.Tracing.Environment = cctx.String("otel-environment")
	cfg.RateLimit.Requests = cctx.Int64("rate-limit-requests")
	cfg.RateLimit.Period = cctx.Duration("rate-limit-period")
	return cfg
}
