package middleware

import (
	"log/slog"
	"net/http"

	"storefront/internal/session"
	"storefront/internal/transport/http/shared"
	derrors "storefront/pkg/domain-errors"
)

// SessionSource exposes the current session to the gates.
type SessionSource interface {
	Current() session.Session
}

// RequireSession rejects anonymous requests with a login redirect envelope.
func RequireSession(src SessionSource, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !src.Current().Authenticated {
				logger.WarnContext(r.Context(), "anonymous request to gated route",
					"path", r.URL.Path,
					"request_id", GetRequestID(r.Context()),
				)
				shared.WriteError(w, derrors.New(derrors.CodeUnauthorized, "please log in first"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin gates the order-management console. This is UX gating only; the
// remote API still authorizes every order call with the bearer token.
func RequireAdmin(src SessionSource, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			current := src.Current()
			if !current.Authenticated {
				shared.WriteError(w, derrors.New(derrors.CodeUnauthorized, "please log in first"))
				return
			}
			if current.Role != session.RoleAdmin {
				logger.WarnContext(r.Context(), "non-admin request to admin console",
					"path", r.URL.Path,
					"user_id", current.UserID,
					"request_id", GetRequestID(r.Context()),
				)
				shared.WriteError(w, derrors.New(derrors.CodeForbidden, "admin role required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
