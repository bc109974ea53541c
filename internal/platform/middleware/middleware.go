// Package middleware holds the HTTP middleware chain shared by every admin
// router: panic recovery, request logging, timeouts, JSON content type,
// latency metrics and rate limiting.
package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"soukscan/internal/platform/metrics"
	"soukscan/pkg/platform/middleware/metadata"
	"soukscan/pkg/requestcontext"
)

// statusRecorder captures the response status for logging and metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
	wrote  bool
}

func (r *statusRecorder) WriteHeader(code int) {
	if !r.wrote {
		r.status = code
		r.wrote = true
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if !r.wrote {
		r.status = http.StatusOK
		r.wrote = true
	}
	return r.ResponseWriter.Write(b)
}

func wrap(w http.ResponseWriter) *statusRecorder {
	if rec, ok := w.(*statusRecorder); ok {
		return rec
	}
	return &statusRecorder{ResponseWriter: w, status: http.StatusOK}
}

// Recovery turns a handler panic into a 500 and logs the stack.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					logger.ErrorContext(r.Context(), "panic recovered",
						"panic", rec,
						"request_id", requestcontext.RequestID(r.Context()),
						"stack", string(debug.Stack()),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_, _ = w.Write([]byte(`{"error":"internal_error"}`))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// Logger logs one line per request after it completes.
func Logger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := wrap(w)
			next.ServeHTTP(rec, r)

			ctx := r.Context()
			agent := metadata.ParseAgent(r.Header.Get("User-Agent"))
			attrs := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", requestcontext.RequestID(ctx),
				"client_ip", metadata.ClientIPFromRequest(r),
				"browser", agent.Browser,
				"os", agent.OS,
			}
			if agent.Bot {
				attrs = append(attrs, "bot", true)
			}
			if caller := requestcontext.CallerID(ctx); caller != 0 {
				attrs = append(attrs, "caller_id", int64(caller))
			}

			switch {
			case rec.status >= 500:
				logger.ErrorContext(ctx, "request completed", attrs...)
			case rec.status >= 400:
				logger.WarnContext(ctx, "request completed", attrs...)
			default:
				logger.InfoContext(ctx, "request completed", attrs...)
			}
		})
	}
}

// Timeout bounds the request context. Handlers observe ctx.Done.
func Timeout(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ContentTypeJSON sets the JSON content type on every response.
func ContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// LatencyMiddleware records request latency labelled by chi route pattern.
func LatencyMiddleware(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := wrap(w)
			next.ServeHTTP(rec, r)

			route := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if pattern := rctx.RoutePattern(); pattern != "" {
					route = pattern
				}
			}
			m.ObserveHTTPRequest(route, r.Method, strconv.Itoa(rec.status), time.Since(start).Seconds())
		})
	}
}
