package admin

import (
	"log/slog"
	"net/http"

	request "soukscan/pkg/platform/middleware/request"
	"soukscan/pkg/requestcontext"
)

// Roles allowed on the back-office API.
const (
	RoleAdmin     = "ADMIN"
	RoleModerator = "MODERATOR"
)

// RequireAnyRole rejects callers holding none of roles. Must run after RequireAuth.
func RequireAnyRole(logger *slog.Logger, roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			caller, ok := requestcontext.CallerFrom(ctx)
			if !ok {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"unauthorized","error_description":"authentication required"}`))
				return
			}
			if !caller.HasAnyRole(roles...) {
				logger.WarnContext(ctx, "forbidden - missing role",
					"caller_id", caller.ID,
					"roles", caller.Roles,
					"request_id", request.GetRequestID(ctx),
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				_, _ = w.Write([]byte(`{"error":"forbidden","error_description":"admin or moderator role required"}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
