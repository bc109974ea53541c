package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures process level configuration. cmd/server fills it from CLI
// flags (each with an env fallback); FromEnv builds the same struct without
// the CLI for tests and tooling.
type Config struct {
	Server    Server
	Log       Log
	Auth      Auth
	Upstreams Upstreams
	Kafka     Kafka
	Database  Database
	Redis     RedisConfig
	Tracing   Tracing
	RateLimit RateLimit
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string
	ShutdownTimeout time.Duration
	// Storage selects the store implementation: "memory" or "postgres".
	Storage string
}

type Log struct {
	Level  string
	Format string
}

// Auth configures bearer token validation. PublicKeyPath (RS256) wins over
// HMACSecret when both are set.
type Auth struct {
	PublicKeyPath string
	HMACSecret    string
	Issuer        string
}

// Upstreams are the systems of record this service drives.
type Upstreams struct {
	VendorServiceURL  string
	ProductServiceURL string
	Timeout           time.Duration
	MaxRetries        int
}

type Kafka struct {
	Brokers       []string
	ConsumerGroup string
	// VendorStatusTopic carries both outbound workflow events and inbound
	// status changes published by the vendor service.
	VendorStatusTopic   string
	UserCreatedTopic    string
	PriceReportedTopic  string
	PriceValidatedTopic string
	EnsureTopics        bool
}

// Enabled reports whether a broker is configured.
func (k Kafka) Enabled() bool {
	return len(k.Brokers) > 0
}

type Database struct {
	DSN          string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type Tracing struct {
	// Exporter is "none", "stdout" or "otlp".
	Exporter    string
	ServiceName string
	Environment string
}

type RateLimit struct {
	Requests int64
	Period   time.Duration
}

// External call contract: fixed timeout and bounded retries.
const (
	DefaultUpstreamTimeout = 10 * time.Second
	DefaultUpstreamRetries = 2
)

// Default topic names shared with the other marketplace services.
const (
	TopicVendorStatusChanged = "vendor.status.changed"
	TopicUserCreated         = "user.created"
	TopicPriceReported       = "price.reported"
	TopicPriceValidated      = "price.validated"
)

// FromEnv builds a Config from environment variables.
func FromEnv() Config {
	return Config{
		Server: Server{
			Addr:            envOrDefault("ADMIN_ADDR", ":8085"),
			ShutdownTimeout: envDuration("ADMIN_SHUTDOWN_TIMEOUT", 10*time.Second),
			Storage:         envOrDefault("ADMIN_STORAGE", "memory"),
		},
		Log: Log{
			Level:  envOrDefault("LOG_LEVEL", "info"),
			Format: envOrDefault("LOG_FORMAT", "json"),
		},
		Auth: Auth{
			PublicKeyPath: os.Getenv("JWT_PUBLIC_KEY_PATH"),
			// Use a default for development - should be overridden in production
			HMACSecret: envOrDefault("JWT_HMAC_SECRET", "dev-secret-key-change-in-production"),
			Issuer:     os.Getenv("JWT_ISSUER"),
		},
		Upstreams: Upstreams{
			VendorServiceURL:  envOrDefault("VENDOR_SERVICE_URL", "http://localhost:8082/api/vendors"),
			ProductServiceURL: envOrDefault("PRODUCT_SERVICE_URL", "http://localhost:8083/api/products"),
			Timeout:           envDuration("UPSTREAM_TIMEOUT", DefaultUpstreamTimeout),
			MaxRetries:        envInt("UPSTREAM_MAX_RETRIES", DefaultUpstreamRetries),
		},
		Kafka: Kafka{
			Brokers:             splitList(os.Getenv("KAFKA_BROKERS")),
			ConsumerGroup:       envOrDefault("KAFKA_CONSUMER_GROUP", "admin-service"),
			VendorStatusTopic:   envOrDefault("KAFKA_TOPIC_VENDOR_STATUS", TopicVendorStatusChanged),
			UserCreatedTopic:    envOrDefault("KAFKA_TOPIC_USER_CREATED", TopicUserCreated),
			PriceReportedTopic:  envOrDefault("KAFKA_TOPIC_PRICE_REPORTED", TopicPriceReported),
			PriceValidatedTopic: envOrDefault("KAFKA_TOPIC_PRICE_VALIDATED", TopicPriceValidated),
			EnsureTopics:        os.Getenv("KAFKA_ENSURE_TOPICS") == "true",
		},
		Database: Database{
			DSN:          os.Getenv("DATABASE_URL"),
			MaxOpenConns: envInt("DATABASE_MAX_OPEN_CONNS", 20),
			MaxIdleConns: envInt("DATABASE_MAX_IDLE_CONNS", 5),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Tracing: Tracing{
			Exporter:    envOrDefault("OTEL_EXPORTER", "none"),
			ServiceName: envOrDefault("OTEL_SERVICE_NAME", "admin-service"),
			Environment: envOrDefault("OTEL_ENVIRONMENT", "development"),
		},
		RateLimit: RateLimit{
			Requests: int64(envInt("RATE_LIMIT_REQUESTS", 300)),
			Period:   envDuration("RATE_LIMIT_PERIOD", time.Minute),
		},
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
