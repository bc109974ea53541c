// Package request assigns and exposes a per-request correlation id.
package request

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"soukscan/pkg/requestcontext"
)

// HeaderRequestID is echoed back on every response.
const HeaderRequestID = "X-Request-ID"

// RequestID reuses an inbound X-Request-ID or generates one.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get(HeaderRequestID)
		if reqID == "" || len(reqID) > 128 {
			reqID = uuid.NewString()
		}
		w.Header().Set(HeaderRequestID, reqID)
		ctx := requestcontext.WithRequestID(r.Context(), reqID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID retrieves the request ID from the context.
func GetRequestID(ctx context.Context) string {
	return requestcontext.RequestID(ctx)
}
