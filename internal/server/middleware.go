package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/chordwheel/pkg/errors"
	"github.com/matzehuels/chordwheel/pkg/observability"
)

// requestLogger logs each request with its route pattern and reports it to
// the server hooks.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		d := time.Since(start)
		observability.Server().OnRequest(r.Context(), r.Method, route, status, d)
		s.logger.Debug("request",
			"id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"took", d.Round(time.Microsecond))
	})
}

// rateLimit rejects requests beyond the configured upload rate with 429.
func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.limiter != nil && !s.limiter.Allow() {
			observability.Server().OnRateLimited(r.Context(), r.Method, r.URL.Path)
			w.Header().Set("Retry-After", "1")
			writeError(w, errors.New(errors.ErrCodeRateLimited, "too many uploads, retry shortly"))
			return
		}
		next.ServeHTTP(w, r)
	})
}
