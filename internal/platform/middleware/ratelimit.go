package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"

	"soukscan/pkg/platform/middleware/metadata"
	"soukscan/pkg/requestcontext"
)

// RateLimiter throttles admin API calls per caller, or per client IP for
// anonymous requests.
type RateLimiter struct {
	instance *limiter.Limiter
	logger   *slog.Logger
}

// NewRateLimiter builds an in-process limiter. Use NewRedisRateLimiter when
// several replicas must share one budget.
func NewRateLimiter(rate limiter.Rate, logger *slog.Logger) *RateLimiter {
	return &RateLimiter{
		instance: limiter.New(memory.NewStore(), rate),
		logger:   logger,
	}
}

// NewRedisRateLimiter shares counters across replicas through Redis.
func NewRedisRateLimiter(client *redis.Client, rate limiter.Rate, logger *slog.Logger) (*RateLimiter, error) {
	store, err := sredis.NewStoreWithOptions(client, limiter.StoreOptions{Prefix: "soukscan_admin_limiter"})
	if err != nil {
		return nil, fmt.Errorf("rate limit store: %w", err)
	}
	return &RateLimiter{instance: limiter.New(store, rate), logger: logger}, nil
}

func (l *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		key := "ip:" + metadata.ClientIPFromRequest(r)
		if caller := requestcontext.CallerID(ctx); caller != 0 {
			key = "caller:" + caller.String()
		}

		lctx, err := l.instance.Get(ctx, key)
		if err != nil {
			// Fail open: the limiter store is not a reason to reject admin traffic.
			l.logger.WarnContext(ctx, "rate limiter unavailable", "error", err)
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("X-RateLimit-Limit", strconv.FormatInt(lctx.Limit, 10))
		w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(lctx.Remaining, 10))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(lctx.Reset, 10))

		if lctx.Reached {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":"rate_limited","error_description":"too many requests"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}
