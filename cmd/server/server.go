package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/carlmjohnson/versioninfo"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/riandyrn/otelchi"
	"github.com/ulule/limiter/v3"
	"golang.org/x/sync/errgroup"

	"soukscan/internal/audit"
	audithandler "soukscan/internal/audit/handler"
	"soukscan/internal/events"
	eventconsumer "soukscan/internal/events/consumer"
	jwttoken "soukscan/internal/jwt_token"
	"soukscan/internal/moderation"
	"soukscan/internal/moderation/fsm"
	moderationhandler "soukscan/internal/moderation/handler"
	"soukscan/internal/platform/config"
	"soukscan/internal/platform/httpclient"
	"soukscan/internal/platform/httpserver"
	"soukscan/internal/platform/kafka"
	"soukscan/internal/platform/kafka/consumer"
	"soukscan/internal/platform/kafka/producer"
	"soukscan/internal/platform/logger"
	"soukscan/internal/platform/metrics"
	"soukscan/internal/platform/middleware"
	"soukscan/internal/platform/redis"
	"soukscan/internal/platform/tracing"
	"soukscan/internal/product"
	producthandler "soukscan/internal/product/handler"
	"soukscan/internal/stats"
	statshandler "soukscan/internal/stats/handler"
	"soukscan/internal/stats/lock"
	"soukscan/internal/vendoradmin"
	"soukscan/internal/vendoradmin/document"
	vendorhandler "soukscan/internal/vendoradmin/handler"
	"soukscan/internal/workflow"
	"soukscan/pkg/platform/httputil"
	adminmw "soukscan/pkg/platform/middleware/admin"
	authmw "soukscan/pkg/platform/middleware/auth"
	"soukscan/pkg/platform/middleware/metadata"
	request "soukscan/pkg/platform/middleware/request"
	"soukscan/pkg/platform/middleware/requesttime"
)

// app holds everything that needs closing on shutdown.
type app struct {
	cfg       config.Config
	log       *slog.Logger
	metrics   *metrics.Metrics
	stores    *stores
	redis     *redis.Client
	producer  *producer.Producer
	publisher events.Publisher
	consumer  *consumer.Consumer
	handler   http.Handler
}

func run(parent context.Context, cfg config.Config) error {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	slog.SetDefault(log)

	providers, err := tracing.Setup(ctx, tracing.Config{
		ServiceName:    cfg.Tracing.ServiceName,
		ServiceVersion: versioninfo.Short(),
		Environment:    cfg.Tracing.Environment,
		Exporter:       cfg.Tracing.Exporter,
	})
	if err != nil {
		return fmt.Errorf("tracing: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			log.Error("failed to flush telemetry", "error", err)
		}
	}()

	a, err := build(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.close()

	srv := httpserver.New(cfg.Server.Addr, a.handler)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("admin service listening", "addr", cfg.Server.Addr, "storage", cfg.Server.Storage, "version", versioninfo.Short())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	if a.consumer != nil {
		g.Go(func() error {
			return a.consumer.Run(gctx)
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func build(ctx context.Context, cfg config.Config, log *slog.Logger) (_ *app, err error) {
	a := &app{cfg: cfg, log: log, metrics: metrics.New()}
	defer func() {
		if err != nil {
			a.close()
		}
	}()

	if a.stores, err = openStores(ctx, cfg, log); err != nil {
		return nil, err
	}
	if a.redis, err = redis.New(ctx, cfg.Redis); err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}
	if a.publisher, err = a.newPublisher(ctx); err != nil {
		return nil, err
	}

	vendorClient := vendoradmin.NewClient(a.upstream("vendor-service", cfg.Upstreams.VendorServiceURL))
	productClient := product.NewClient(a.upstream("product-service", cfg.Upstreams.ProductServiceURL))
	documents := document.NewGate(vendorClient, log)

	var locker stats.KeyLocker = lock.NewLocal()
	if a.redis != nil {
		locker = lock.NewRedis(a.redis.Client)
	}
	engine, err := stats.New(a.stores.stats, log,
		stats.WithLocker(locker),
		stats.WithModerationCounter(a.stores.moderation),
	)
	if err != nil {
		return nil, err
	}

	ledger := audit.NewLedger(a.stores.audit, log)
	modService, err := moderation.NewService(a.stores.moderation, a.stores.tx, fsm.New(), engine, log,
		moderation.WithMetrics(a.metrics))
	if err != nil {
		return nil, err
	}

	orchestrator := workflow.New(vendorClient, documents, engine, ledger, modService, a.publisher, log,
		workflow.WithMetrics(a.metrics),
		workflow.WithTopics(workflow.Topics{
			VendorStatus:   cfg.Kafka.VendorStatusTopic,
			PriceValidated: cfg.Kafka.PriceValidatedTopic,
		}),
	)
	products := product.NewService(productClient, ledger, log)

	if cfg.Kafka.Enabled() {
		router := eventconsumer.NewRouter(log, a.metrics)
		router.Register(cfg.Kafka.UserCreatedTopic, eventconsumer.NewUserCreatedHandler(engine, log))
		router.Register(cfg.Kafka.VendorStatusTopic, eventconsumer.NewVendorStatusHandler(engine, ledger, log))
		router.Register(cfg.Kafka.PriceReportedTopic, eventconsumer.NewPriceReportedHandler(modService, log))
		router.Register(cfg.Kafka.PriceValidatedTopic, eventconsumer.NewPriceValidatedHandler(modService, log))
		a.consumer, err = consumer.New(consumer.Config{
			Brokers: cfg.Kafka.Brokers,
			Group:   cfg.Kafka.ConsumerGroup,
			Topics:  router.Topics(),
		}, router, log)
		if err != nil {
			return nil, err
		}
	}

	validator, err := jwttoken.NewFromConfig(cfg.Auth.PublicKeyPath, cfg.Auth.HMACSecret, cfg.Auth.Issuer)
	if err != nil {
		return nil, fmt.Errorf("jwt: %w", err)
	}
	limit, err := a.newRateLimiter()
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(request.RequestID)
	r.Use(requesttime.Middleware)
	r.Use(metadata.ClientMetadata)
	r.Use(middleware.Recovery(log))
	r.Use(middleware.Logger(log))
	r.Use(otelchi.Middleware(cfg.Tracing.ServiceName, otelchi.WithChiRoutes(r)))
	r.Use(middleware.LatencyMiddleware(a.metrics))

	r.Get("/health", a.handleHealth)
	r.Handle("/metrics", promhttp.HandlerFor(prometheus.DefaultGatherer, promhttp.HandlerOpts{}))

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(cfg.Upstreams.Timeout * time.Duration(cfg.Upstreams.MaxRetries+2)))
		r.Use(middleware.ContentTypeJSON)
		r.Use(authmw.RequireAuth(jwttoken.NewJWTServiceAdapter(validator), log))
		r.Use(adminmw.RequireAnyRole(log, adminmw.RoleAdmin, adminmw.RoleModerator))
		r.Use(limit.Handler)

		audithandler.New(ledger, log).Register(r)
		statshandler.New(engine, log).Register(r)
		vendorhandler.New(vendorClient, documents, orchestrator, log).Register(r)
		moderationhandler.New(modService, orchestrator, log).Register(r)
		producthandler.New(products, log).Register(r)
	})

	a.handler = r
	return a, nil
}

func (a *app) upstream(service, baseURL string) *httpclient.Client {
	return httpclient.New(service, baseURL,
		httpclient.WithTimeout(a.cfg.Upstreams.Timeout),
		httpclient.WithMaxRetries(a.cfg.Upstreams.MaxRetries),
		httpclient.WithFailureRecorder(a.metrics),
		httpclient.WithLogger(a.log),
	)
}

// newPublisher returns a Kafka publisher when brokers are configured and a
// log-only publisher otherwise.
func (a *app) newPublisher(ctx context.Context) (events.Publisher, error) {
	k := a.cfg.Kafka
	if !k.Enabled() {
		a.log.Warn("no kafka brokers configured, events are logged only")
		return events.NewLogPublisher(a.log), nil
	}
	if k.EnsureTopics {
		if err := kafka.EnsureTopics(ctx, k.Brokers, 3, 1,
			k.VendorStatusTopic, k.UserCreatedTopic, k.PriceReportedTopic, k.PriceValidatedTopic); err != nil {
			return nil, fmt.Errorf("ensure topics: %w", err)
		}
	}
	p, err := producer.New(k.Brokers, a.log)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	a.producer = p
	kp := events.NewKafkaPublisher(p, a.log, events.WithMetrics(events.NewMetrics(prometheus.DefaultRegisterer)))
	return events.NewTracingPublisher(kp), nil
}

func (a *app) newRateLimiter() (*middleware.RateLimiter, error) {
	rate := limiter.Rate{Period: a.cfg.RateLimit.Period, Limit: a.cfg.RateLimit.Requests}
	if a.redis != nil {
		return middleware.NewRedisRateLimiter(a.redis.Client, rate, a.log)
	}
	return middleware.NewRateLimiter(rate, a.log), nil
}

func (a *app) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	checks := map[string]string{}
	healthy := true
	check := func(name string, err error) {
		if err != nil {
			checks[name] = err.Error()
			healthy = false
			return
		}
		checks[name] = "ok"
	}
	if a.stores.ping != nil {
		check("database", a.stores.ping(ctx))
	}
	if a.redis != nil {
		check("redis", a.redis.Health(ctx))
	}
	if a.producer != nil {
		check("kafka", a.producer.Ping(ctx))
	}

	status := http.StatusOK
	state := "UP"
	if !healthy {
		status = http.StatusServiceUnavailable
		state = "DOWN"
	}
	httputil.WriteJSON(w, status, map[string]any{"status": state, "checks": checks})
}

func (a *app) close() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if a.producer != nil {
		if err := a.producer.Close(ctx); err != nil {
			a.log.Error("failed to flush producer", "error", err)
		}
	}
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.stores != nil && a.stores.close != nil {
		a.stores.close()
	}
}
