package middleware

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ulule/limiter/v3"

	"soukscan/internal/platform/metrics"
	pkgtestutil "soukscan/pkg/testutil"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRecovery(t *testing.T) {
	h := Recovery(discardLogger())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/logs", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"internal_error"}`, w.Body.String())
}

func TestLoggerWritesStatusAndAgent(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	h := Logger(logger)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	req := httptest.NewRequest(http.MethodGet, "/admin/vendors/9", nil)
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	h.ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	assert.Contains(t, out, `"status":404`)
	assert.Contains(t, out, `"level":"WARN"`)
	assert.Contains(t, out, "Chrome")
}

func TestTimeoutSetsDeadline(t *testing.T) {
	var hasDeadline bool
	h := Timeout(time.Second)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		_, hasDeadline = r.Context().Deadline()
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.True(t, hasDeadline)
}

func TestLatencyMiddlewareUsesRoutePattern(t *testing.T) {
	m := metrics.NewWithRegisterer(prometheus.NewRegistry())
	r := chi.NewRouter()
	r.Use(LatencyMiddleware(m))
	r.Get("/admin/vendors/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/admin/vendors/42", nil))

	assert.Equal(t, 1, testutil.CollectAndCount(m.HTTPRequestDuration))
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(limiter.Rate{Period: time.Minute, Limit: 2}, discardLogger())
	h := rl.Handler(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	send := func(callerID int64) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/admin/stats/global", nil)
		if callerID != 0 {
			req = pkgtestutil.WithCaller(req, callerID, "ADMIN")
		}
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		return w
	}

	require.Equal(t, http.StatusOK, send(7).Code)
	first := send(7)
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "0", first.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, http.StatusTooManyRequests, send(7).Code)

	assert.Equal(t, http.StatusOK, send(8).Code, "budgets are per caller")
}
