package httpserver

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/mshears713/HudsonBayOutposts/internal/core/domain"
	"github.com/mshears713/HudsonBayOutposts/internal/core/service"
	"github.com/mshears713/HudsonBayOutposts/internal/server/httpserver/handler"
	"github.com/mshears713/HudsonBayOutposts/internal/telemetry/logger"
	"github.com/mshears713/HudsonBayOutposts/internal/telemetry/metric"
)

// Context keys for request-scoped values.
type contextKey string

const (
	// ContextKeyRequestID is the context key for the request ID.
	ContextKeyRequestID contextKey = "request_id"

	// ContextKeyUser is the context key for the authenticated user.
	ContextKeyUser contextKey = "user"
)

// Middleware wraps an http.Handler with additional functionality.
type Middleware func(http.Handler) http.Handler

// Chain chains multiple middlewares together.
func Chain(h http.Handler, middlewares ...Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

// RequestID adds a unique request ID to each request.
func RequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get("X-Request-ID")
			if requestID == "" {
				requestID = "req-" + ulid.Make().String()
			}

			w.Header().Set("X-Request-ID", requestID)
			ctx := context.WithValue(r.Context(), ContextKeyRequestID, requestID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Recover recovers from panics and returns a 500 error.
func Recover(log logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					log.Error("panic recovered",
						"request_id", RequestIDFromContext(r.Context()),
						"panic", rec,
						"path", r.URL.Path)
					handler.WriteFault(w, log, domain.ErrServerFault)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// Observe logs each request and records request metrics.
// The metrics registry may be nil.
func Observe(log logger.Logger, metrics *metric.Registry) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(wrapped, r)

			duration := time.Since(start)
			route := routeLabel(r)

			if metrics != nil {
				metrics.RequestsTotal.WithLabelValues(
					r.Method, route, httpStatusLabel(wrapped.statusCode)).Inc()
				metrics.RequestDuration.WithLabelValues(r.Method, route).
					Observe(duration.Seconds())
			}

			attrs := []any{
				"request_id", RequestIDFromContext(r.Context()),
				"method", r.Method,
				"path", r.URL.Path,
				"status", wrapped.statusCode,
				"duration_ms", duration.Milliseconds(),
				"client_ip", clientIP(r),
			}
			if user := UserFromContext(r.Context()); user != nil {
				attrs = append(attrs, "username", user.Username, "role", string(user.Role))
			}

			switch {
			case wrapped.statusCode >= 500:
				log.Error("request completed with error", attrs...)
			case wrapped.statusCode >= 400:
				log.Warn("request completed with client error", attrs...)
			default:
				log.Info("request completed", attrs...)
			}
		})
	}
}

// BearerAuth validates the bearer token and stores the resolved user in
// the request context.
func BearerAuth(auth *service.AuthService, log logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			value, ok := bearerToken(r)
			if !ok {
				handler.WriteFault(w, log, domain.ErrUnauthorized.WithDetails("bearer token required"))
				return
			}

			user, err := auth.Validate(r.Context(), value)
			if err != nil {
				handler.WriteFault(w, log, err)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyUser, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireMutate rejects requests whose role may not modify inventory.
// Must run after BearerAuth.
func RequireMutate(log logger.Logger) Middleware {
	return requireRole(log, domain.CanMutate, "role may not modify inventory")
}

// RequireSync rejects requests whose role may not run sync operations.
// Must run after BearerAuth.
func RequireSync(log logger.Logger) Middleware {
	return requireRole(log, domain.CanSync, "role may not synchronize inventory")
}

func requireRole(log logger.Logger, allowed func(domain.Role) bool, detail string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := UserFromContext(r.Context())
			if user == nil {
				handler.WriteFault(w, log, domain.ErrUnauthorized)
				return
			}
			if !allowed(user.Role) {
				handler.WriteFault(w, log, domain.ErrForbidden.WithDetails(detail))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// UserFromContext retrieves the authenticated user from the context.
func UserFromContext(ctx context.Context) *domain.User {
	if user, ok := ctx.Value(ContextKeyUser).(*domain.User); ok {
		return user
	}
	return nil
}

// RequestIDFromContext retrieves the request ID from the context.
func RequestIDFromContext(ctx context.Context) string {
	if requestID, ok := ctx.Value(ContextKeyRequestID).(string); ok {
		return requestID
	}
	return ""
}

// bearerToken extracts the bearer token from the Authorization header.
func bearerToken(r *http.Request) (string, bool) {
	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return "", false
	}
	value := strings.TrimPrefix(auth, "Bearer ")
	return value, value != ""
}

// routeLabel returns the matched mux pattern for metric labels, keeping
// cardinality bounded. Falls back to the method when no pattern matched.
func routeLabel(r *http.Request) string {
	if r.Pattern != "" {
		return r.Pattern
	}
	return r.Method + " unmatched"
}

func httpStatusLabel(code int) string {
	return strconv.Itoa(code)
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (w *responseWriter) WriteHeader(code int) {
	w.statusCode = code
	w.ResponseWriter.WriteHeader(code)
}

// clientIP extracts the client IP from the request.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		return strings.TrimSpace(parts[0])
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
