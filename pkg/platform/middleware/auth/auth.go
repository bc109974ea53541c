package auth

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	id "soukscan/pkg/domain"
	request "soukscan/pkg/platform/middleware/request"
	"soukscan/pkg/requestcontext"
)

// JWTValidator defines the interface for validating JWT tokens
type JWTValidator interface {
	ValidateToken(tokenString string) (*JWTClaims, error)
}

// JWTClaims represents the claims we expect from the JWT validator
type JWTClaims struct {
	Subject  string
	Username string
	Email    string
	Roles    []string
}

// writeJSONError writes a JSON error response with the given status code and error details.
func writeJSONError(w http.ResponseWriter, status int, errCode, errDesc string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(fmt.Appendf(nil, `{"error":"%s","error_description":"%s"}`, errCode, errDesc))
}

// RequireAuth validates the bearer token, resolves the caller and stores the
// raw Authorization header so outbound clients can forward it unchanged.
func RequireAuth(validator JWTValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			authHeader := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok || token == "" {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", request.GetRequestID(ctx),
				)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Missing or invalid Authorization header")
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", request.GetRequestID(ctx),
				)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Invalid or expired token")
				return
			}

			callerID, err := id.ParseAdminID(claims.Subject)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - non numeric subject",
					"subject", claims.Subject,
					"request_id", request.GetRequestID(ctx),
				)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Invalid token subject")
				return
			}

			ctx = requestcontext.WithCaller(ctx, requestcontext.Caller{
				ID:       callerID,
				Username: claims.Username,
				Email:    claims.Email,
				Roles:    claims.Roles,
			})
			ctx = requestcontext.WithAuthorization(ctx, authHeader)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
