package web

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/kasen/storefront/internal/identity"
)

type contextKey string

const requestIDKey contextKey = "request_id"

// RequestIDMiddleware adds a unique request ID to each request
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = fmt.Sprintf("req-%d", time.Now().UnixNano())
		}

		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireUser gates the signed-in views: anyone not signed in is sent back to
// the storefront. While the session is still unknown the redirect applies
// too; the client retries once the session resolves.
func RequireUser(adapter *identity.Adapter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, state := adapter.Current(); state != identity.StateSignedIn {
				http.Redirect(w, r, "/", http.StatusFound)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin sends signed-in non-admins to their own dashboard.
func RequireAdmin(adapter *identity.Adapter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, state := adapter.Current()
			if state != identity.StateSignedIn {
				http.Redirect(w, r, "/", http.StatusFound)
				return
			}
			if user.Role != identity.RoleAdmin {
				http.Redirect(w, r, "/dashboard", http.StatusFound)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// API variants respond with JSON instead of redirecting.

func requireUserAPI(adapter *identity.Adapter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, state := adapter.Current(); state != identity.StateSignedIn {
				respondError(w, http.StatusUnauthorized, "unauthorized", "sign in required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func requireAdminAPI(adapter *identity.Adapter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, state := adapter.Current()
			if state != identity.StateSignedIn {
				respondError(w, http.StatusUnauthorized, "unauthorized", "sign in required")
				return
			}
			if user.Role != identity.RoleAdmin {
				respondError(w, http.StatusForbidden, "permission_denied", "admin role required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
