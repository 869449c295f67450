package middle

import (
	"context"
	"net/http"
	"strings"
)

type contextKey string

// TenantIDKey is the context key under which the tenant ID travels
const TenantIDKey contextKey = "tenantID"

// TenantMiddleware resolves the tenant from the X-Tenant-Id header and
// stores it in the request context. Requests without the header belong to
// the default tenant; handlers downstream decide the fallback.
func TenantMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tenantID := strings.TrimSpace(r.Header.Get("X-Tenant-Id"))
			if tenantID != "" {
				ctx := context.WithValue(r.Context(), TenantIDKey, tenantID)
				r = r.WithContext(ctx)
			}

			next.ServeHTTP(w, r)
		})
	}
}

// GetTenantIDFromContext returns the tenant ID stored in the context, or
// an empty string when no tenant was identified
func GetTenantIDFromContext(ctx context.Context) string {
	if tenantID, ok := ctx.Value(TenantIDKey).(string); ok {
		return tenantID
	}
	return ""
}

// GetClientIP extracts the client IP address from the request
func GetClientIP(r *http.Request) string {
	// X-Forwarded-For may hold a chain; the first entry is the client
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		return strings.TrimSpace(parts[0])
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	// RemoteAddr includes the port
	addr := r.RemoteAddr
	if idx := strings.LastIndex(addr, ":"); idx != -1 {
		addr = addr[:idx]
	}
	return addr
}
