// Package httpserver exposes the diagnostic HTTP surface: the status
// report, the screenshot routes and Prometheus metrics.
package httpserver

import (
	"context"
	"net/http"
	"time"

	"fleet-status-gateway/internal/config"
	"fleet-status-gateway/internal/health"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Consumer-side interfaces so handler tests substitute fakes for the
// OS-backed implementations in internal/health and internal/x11.

// HealthSource produces the current status report.
type HealthSource interface {
	Report(ctx context.Context) health.Report
}

// WindowLocator resolves a window ID from a name pattern.
type WindowLocator interface {
	Find(ctx context.Context, pattern string) (string, bool)
}

// ScreenshotTool captures a window (or the whole screen for an empty
// window ID) as PNG bytes.
type ScreenshotTool interface {
	Capture(ctx context.Context, windowID string) ([]byte, bool)
}

type RouterDeps struct {
	Config  config.Config
	Health  HealthSource
	Windows WindowLocator
	Screens ScreenshotTool

	// RequestLog enables per-request logging when non-nil. The default
	// is no request logging at all (diagnostic-only deployment).
	RequestLog *zap.Logger
}

type Server struct {
	cfg     config.Config
	health  HealthSource
	windows WindowLocator
	screens ScreenshotTool
}

func NewRouter(deps RouterDeps) (http.Handler, error) {
	s := &Server{
		cfg:     deps.Config,
		health:  deps.Health,
		windows: deps.Windows,
		screens: deps.Screens,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(corsOpen)

	if len(s.cfg.AllowedSubnets) > 0 {
		allow, err := newCIDRAllowlist(s.cfg.AllowedSubnets)
		if err != nil {
			return nil, err
		}
		r.Use(allow.middleware)
	}

	if deps.RequestLog != nil {
		r.Use(requestLogger(deps.RequestLog))
	}

	r.Get("/", s.handleStatus)
	r.Get("/status", s.handleStatus)
	r.Get("/screenshot", s.handleScreenshot)
	r.Get("/screenshot/terminal", s.handleScreenshotTerminal)
	r.Get("/screenshot/chromium", s.handleScreenshotChromium)
	r.Handle("/metrics", promhttp.Handler())

	// Unknown paths get a bare 404, no body.
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	return r, nil
}

func corsOpen(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		next.ServeHTTP(w, r)
	})
}

func requestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			log.Info("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("duration", time.Since(start)))
		})
	}
}
