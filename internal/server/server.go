// Package server serves chord diagrams of a persisted relationship set over
// HTTP.
//
// Routes:
//
//	GET  /healthz
//	GET  /version                build information as JSON
//	GET  /                       HTML page with the interactive diagram
//	GET  /api/relationships      the set as CSV (attachment)
//	POST /api/relationships      replace the set (text/csv body)
//	GET  /api/diagram.svg        interactive SVG
//	GET  /api/diagram.png        PNG; ?scale= or ?dpr=
//	GET  /api/layout             order, categories and geometry as JSON
//
// Diagram routes accept width, height and color_by query parameters.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	"github.com/matzehuels/chordwheel/pkg/buildinfo"
	"github.com/matzehuels/chordwheel/pkg/dataset"
	"github.com/matzehuels/chordwheel/pkg/pipeline"
	"github.com/matzehuels/chordwheel/pkg/render/chord/scene"
)

// Defaults for [Options].
const (
	DefaultRateLimit      = 2.0
	DefaultBurst          = 5
	DefaultMaxUploadBytes = 4 << 20
	DefaultRequestTimeout = 60 * time.Second
	shutdownTimeout       = 10 * time.Second
)

// Options configures a [Server].
type Options struct {
	// View is the base view; query parameters override it per request.
	View scene.ViewState
	// RateLimit is uploads per second across all clients. Zero disables
	// the limit.
	RateLimit float64
	Burst     int
	// MaxUploadBytes caps the POST body size.
	MaxUploadBytes int64
	// RequestTimeout bounds each request.
	RequestTimeout time.Duration
}

func (o *Options) setDefaults() {
	o.View = o.View.Normalize()
	if o.Burst <= 0 {
		o.Burst = DefaultBurst
	}
	if o.MaxUploadBytes <= 0 {
		o.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if o.RequestTimeout <= 0 {
		o.RequestTimeout = DefaultRequestTimeout
	}
}

// Server wires the dataset store and the render pipeline to HTTP routes.
type Server struct {
	store   dataset.Store
	runner  *pipeline.Runner
	logger  *log.Logger
	opts    Options
	limiter *rate.Limiter
	router  chi.Router
}

// New creates a server. A nil logger uses the charmbracelet default.
func New(store dataset.Store, runner *pipeline.Runner, logger *log.Logger, opts Options) *Server {
	if logger == nil {
		logger = log.Default()
	}
	opts.setDefaults()
	s := &Server{
		store:  store,
		runner: runner,
		logger: logger,
		opts:   opts,
	}
	if opts.RateLimit > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), opts.Burst)
	}
	s.router = s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.SetHeader("Server", buildinfo.ServerHeader()))
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.opts.RequestTimeout))

	r.Get("/healthz", s.handleHealth)
	r.Get("/version", s.handleVersion)
	r.Get("/", s.handleIndex)
	r.Route("/api", func(r chi.Router) {
		r.Get("/relationships", s.handleGetRelationships)
		r.With(s.rateLimit).Post("/relationships", s.handlePostRelationships)
		r.Get("/diagram.svg", s.handleDiagram(pipeline.FormatSVG))
		r.Get("/diagram.png", s.handleDiagram(pipeline.FormatPNG))
		r.Get("/layout", s.handleDiagram(pipeline.FormatJSON))
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()
	s.logger.Info("listening", "addr", ln.Addr().String())

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
