package testutil

import (
	"context"
	"net/http"

	id "soukscan/pkg/domain"
	"soukscan/pkg/requestcontext"
)

// WithCaller adds an authenticated caller to the request context.
// This simulates what the auth middleware would do for authenticated requests.
func WithCaller(req *http.Request, callerID int64, roles ...string) *http.Request {
	ctx := requestcontext.WithCaller(req.Context(), requestcontext.Caller{
		ID:    id.AdminID(callerID),
		Roles: roles,
	})
	return req.WithContext(ctx)
}

// WithAuthorization stores a raw Authorization header as the auth middleware would.
func WithAuthorization(req *http.Request, header string) *http.Request {
	req.Header.Set("Authorization", header)
	return req.WithContext(requestcontext.WithAuthorization(req.Context(), header))
}

// WithContextValue adds an arbitrary key-value pair to the request context.
func WithContextValue(req *http.Request, key, value any) *http.Request {
	ctx := context.WithValue(req.Context(), key, value)
	return req.WithContext(ctx)
}
