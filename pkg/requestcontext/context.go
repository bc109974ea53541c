// Package requestcontext provides HTTP-independent context accessors for request-scoped values.
//
// This package defines context keys and getter/setter functions for values that are
// typically set by middleware but consumed by services. By keeping this package free
// of net/http dependencies, services and outbound clients can import only what they
// need without pulling in HTTP-related code.
//
// Usage in services (read values):
//
//	callerID := requestcontext.CallerID(ctx)
//	requestID := requestcontext.RequestID(ctx)
//	now := requestcontext.Now(ctx)
//
// Usage in middleware (set values):
//
//	ctx = requestcontext.WithCaller(ctx, caller)
//	ctx = requestcontext.WithAuthorization(ctx, r.Header.Get("Authorization"))
//
// Usage in tests (inject values):
//
//	ctx = requestcontext.WithTime(ctx, fixedTime)
package requestcontext

import (
	"context"
	"slices"
	"time"

	id "soukscan/pkg/domain"
)

// Context key types (unexported for encapsulation).
type (
	callerKey        struct{}
	authorizationKey struct{}
	clientIPKey      struct{}
	userAgentKey     struct{}
	requestIDKey     struct{}
	requestTimeKey   struct{}
)

// Exported context keys for direct use in tests that need context.WithValue.
var (
	ContextKeyCaller        = callerKey{}
	ContextKeyAuthorization = authorizationKey{}
	ContextKeyClientIP      = clientIPKey{}
	ContextKeyUserAgent     = userAgentKey{}
	ContextKeyRequestID     = requestIDKey{}
	ContextKeyRequestTime   = requestTimeKey{}
)

// -----------------------------------------------------------------------------
// Caller identity (resolved by the auth gate)
// -----------------------------------------------------------------------------

// Caller is the authenticated identity behind a request.
type Caller struct {
	ID       id.AdminID
	Username string
	Email    string
	Roles    []string
}

// HasAnyRole reports whether the caller holds at least one of roles.
func (c Caller) HasAnyRole(roles ...string) bool {
	for _, r := range roles {
		if slices.Contains(c.Roles, r) {
			return true
		}
	}
	return false
}

// CallerFrom retrieves the authenticated caller. ok is false for anonymous contexts.
func CallerFrom(ctx context.Context) (Caller, bool) {
	c, ok := ctx.Value(ContextKeyCaller).(Caller)
	return c, ok
}

// CallerID returns the authenticated caller id, or zero when absent.
func CallerID(ctx context.Context) id.AdminID {
	c, _ := CallerFrom(ctx)
	return c.ID
}

// WithCaller injects the authenticated caller into the context.
func WithCaller(ctx context.Context, c Caller) context.Context {
	return context.WithValue(ctx, ContextKeyCaller, c)
}

// Authorization returns the inbound Authorization header, forwarded verbatim
// to downstream services.
func Authorization(ctx context.Context) string {
	if v, ok := ctx.Value(ContextKeyAuthorization).(string); ok {
		return v
	}
	return ""
}

// WithAuthorization stores the inbound Authorization header.
func WithAuthorization(ctx context.Context, header string) context.Context {
	if header == "" {
		return ctx
	}
	return context.WithValue(ctx, ContextKeyAuthorization, header)
}

// -----------------------------------------------------------------------------
// Client metadata (IP, User-Agent)
// -----------------------------------------------------------------------------

// ClientIP retrieves the client IP address from the context.
func ClientIP(ctx context.Context) string {
	if ip, ok := ctx.Value(ContextKeyClientIP).(string); ok {
		return ip
	}
	return ""
}

// UserAgent retrieves the User-Agent from the context.
func UserAgent(ctx context.Context) string {
	if ua, ok := ctx.Value(ContextKeyUserAgent).(string); ok {
		return ua
	}
	return ""
}

// WithClientMetadata injects client IP and User-Agent into a context.
func WithClientMetadata(ctx context.Context, clientIP, userAgent string) context.Context {
	ctx = context.WithValue(ctx, ContextKeyClientIP, clientIP)
	ctx = context.WithValue(ctx, ContextKeyUserAgent, userAgent)
	return ctx
}

// -----------------------------------------------------------------------------
// Request metadata
// -----------------------------------------------------------------------------

// RequestID retrieves the request ID from the context.
func RequestID(ctx context.Context) string {
	if reqID, ok := ctx.Value(ContextKeyRequestID).(string); ok {
		return reqID
	}
	return ""
}

// WithRequestID injects a request ID into the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, requestID)
}

// -----------------------------------------------------------------------------
// Request time
// -----------------------------------------------------------------------------

// Now retrieves the request-scoped time from context.
// Falls back to time.Now() if not set (consumers, CLI, tests).
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(ContextKeyRequestTime).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime injects a specific time into a context.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, ContextKeyRequestTime, t)
}
