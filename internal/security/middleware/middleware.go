// Package middleware holds the HTTP middleware for the staff API and the
// public portal: bearer-token auth with lazy tenant provisioning, capability
// checks, keyed rate limiting and audit logging.
package middleware

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strings"

	"github.com/yourorg/hireloop/internal/domain"
	"github.com/yourorg/hireloop/internal/security"
	"github.com/yourorg/hireloop/internal/security/audit"
	"github.com/yourorg/hireloop/internal/security/auth"
)

type principalContextKey struct{}

// Principal is the resolved staff identity attached to authenticated
// requests.
type Principal struct {
	Tenant *domain.Tenant
	User   *domain.User
	Role   string
}

// Resolver maps a verified token's org and subject to local tenant and user
// rows, creating them on first sight.
type Resolver interface {
	Resolve(ctx context.Context, orgID, externalUserID string) (*domain.Tenant, *domain.User, error)
}

// StaffAuth verifies the bearer token and resolves the principal. Mounted on
// the staff route group only; public routes never pass through it.
func StaffAuth(tm *auth.TokenManager, resolver Resolver, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, `{"error":"missing auth"}`, http.StatusUnauthorized)
				return
			}

			tokenString, err := auth.ExtractToken(authHeader)
			if err != nil {
				http.Error(w, `{"error":"invalid auth"}`, http.StatusUnauthorized)
				return
			}

			claims, err := tm.ValidateToken(tokenString)
			if err != nil {
				http.Error(w, `{"error":"invalid token"}`, http.StatusUnauthorized)
				return
			}

			tenant, user, err := resolver.Resolve(r.Context(), claims.OrgID, claims.Subject)
			if err != nil {
				log.Error("principal resolution failed",
					slog.String("org_id", claims.OrgID),
					slog.String("error", err.Error()),
				)
				http.Error(w, `{"error":"identity resolution failed"}`, http.StatusUnauthorized)
				return
			}

			principal := &Principal{Tenant: tenant, User: user, Role: claims.OrgRole}
			ctx := context.WithValue(r.Context(), principalContextKey{}, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireCapability rejects requests whose principal's role does not grant
// the capability.
func RequireCapability(as *security.AuthorizationService, cap security.Capability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p := PrincipalFromContext(r.Context())
			if p == nil {
				http.Error(w, `{"error":"missing auth"}`, http.StatusUnauthorized)
				return
			}
			if err := as.ValidateCapability(p.Role, cap); err != nil {
				http.Error(w, `{"error":"forbidden"}`, http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// KeyedRateLimiter is the Allow surface of the ratelimit package.
type KeyedRateLimiter interface {
	Allow(key string) bool
}

// RateLimit throttles by client address. Used on the unauthenticated portal
// routes where there is no principal to key by.
func RateLimit(limiter KeyedRateLimiter, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientIP(r)
			if !limiter.Allow(key) {
				log.Warn("rate limit exceeded",
					slog.String("client", key),
					slog.String("path", r.URL.Path),
				)
				http.Error(w, `{"error":"rate limit exceeded"}`, http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Audit logs every staff mutation before it runs. Read traffic is not
// audited.
func Audit(auditLog *audit.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet && r.Method != http.MethodHead {
				tenantID, userID := "", ""
				if p := PrincipalFromContext(r.Context()); p != nil {
					tenantID = p.Tenant.ID
					userID = p.User.ID
				}
				auditLog.LogRequest(r.Context(), tenantID, userID, r.Method, r.URL.Path)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// PrincipalFromContext returns the authenticated principal, or nil outside
// the staff route group.
func PrincipalFromContext(ctx context.Context) *Principal {
	if p, ok := ctx.Value(principalContextKey{}).(*Principal); ok {
		return p
	}
	return nil
}

// clientIP prefers the first X-Forwarded-For hop, falling back to the
// connection's remote address.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if i := strings.IndexByte(xff, ','); i >= 0 {
			return strings.TrimSpace(xff[:i])
		}
		return strings.TrimSpace(xff)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
