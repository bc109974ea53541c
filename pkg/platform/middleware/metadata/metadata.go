package metadata

import (
	"net/http"
	"strings"

	"github.com/mssola/useragent"

	"soukscan/pkg/requestcontext"
)

// ClientMetadata extracts client IP address and User-Agent from the request
// and adds them to the context for use by handlers and services.
// This middleware should be applied early in the chain.
func ClientMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithClientMetadata(r.Context(), ClientIPFromRequest(r), r.Header.Get("User-Agent"))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Agent is a compact description of a User-Agent string for request logs.
type Agent struct {
	Browser string
	OS      string
	Bot     bool
}

// ParseAgent summarises a raw User-Agent header.
func ParseAgent(raw string) Agent {
	if raw == "" {
		return Agent{}
	}
	ua := useragent.New(raw)
	name, version := ua.Browser()
	browser := name
	if version != "" {
		browser = name + " " + version
	}
	return Agent{Browser: browser, OS: ua.OS(), Bot: ua.Bot()}
}

// ClientIPFromRequest extracts the real client IP from the request, handling proxies and load balancers.
func ClientIPFromRequest(r *http.Request) string {
	// X-Forwarded-For can contain multiple IPs (client, proxy1, proxy2, ...)
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	// RemoteAddr is "ip:port", or "[::1]:port" for IPv6
	if addr := r.RemoteAddr; addr != "" {
		if idx := strings.LastIndex(addr, ":"); idx != -1 {
			return addr[:idx]
		}
		return addr
	}

	return "unknown"
}
