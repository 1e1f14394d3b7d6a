package http

import (
	"context"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/linkstash/linkstash/framework/container"
)

// ── Request logging ──────────────────────────────────────────────────────────

// RequestLogger logs one line per request through the application's zap
// logger.
func RequestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.Info("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
				zap.String("remote", r.RemoteAddr),
			)
		})
	}
}

// ── Per-request scope ────────────────────────────────────────────────────────

type scopeCtxKey struct{}

// RequestScope opens a container Scope for each request, stores it in the
// request context, and disposes it when the handler returns. Scoped services
// resolved during the request therefore live exactly as long as the request.
//
// Scope creation only fails once the container is disposed (i.e. during
// shutdown); those requests are refused with 503 rather than crashing.
func RequestScope(c *container.Container, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			scope, err := c.CreateScope()
			if err != nil {
				logger.Warn("request refused, container unavailable", zap.Error(err))
				NewResponse(w).ServiceUnavailable()
				return
			}
			defer func() {
				if err := scope.Dispose(); err != nil {
					logger.Error("request scope teardown failed", zap.Error(err))
				}
			}()

			ctx := context.WithValue(r.Context(), scopeCtxKey{}, scope)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ScopeFrom returns the request's Scope, or nil when the middleware is not
// installed.
func ScopeFrom(ctx context.Context) *container.Scope {
	scope, _ := ctx.Value(scopeCtxKey{}).(*container.Scope)
	return scope
}
