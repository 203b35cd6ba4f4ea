// Package server provides the HTTP surface for the theme controller:
// a server-rendered page, a form endpoint for the web toggle, and a JSON API.
package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	log "github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"
	"github.com/go-pkgz/routegroup"
	"golang.org/x/crypto/bcrypt"

	"github.com/go-shade/shade/app/store"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed static
var staticFS embed.FS

// PrefStore defines the interface for preference storage operations.
// Defined here (consumer side) to allow different store implementations.
type PrefStore interface {
	Get(profile string) (string, error)
	Set(profile, theme string) error
	Delete(profile string) error
	List() ([]store.PrefInfo, error)
}

// HostScheme reports the color scheme preference of the host the server
// runs on, used as a fallback when the client sends no hint.
// Defined here (consumer side); pass nil to disable the fallback.
type HostScheme interface {
	PrefersDark() bool
}

// Config holds server configuration.
type Config struct {
	Address         string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	Version         string
	BaseURL         string // base URL path for reverse proxy (e.g., /shade)
	PasswordHash    string // bcrypt hash for admin endpoints (empty = admin disabled)

	// limits
	BodySizeLimit  int64 // max request body size in bytes
	RequestsPerSec int64 // max requests per second
}

// Server represents the HTTP server.
type Server struct {
	prefs    PrefStore
	host     HostScheme // optional, nil disables host fallback
	cfg      Config
	tmpl     *template.Template
	staticFS fs.FS
}

// New creates a new Server instance.
func New(prefs PrefStore, host HostScheme, cfg Config) (*Server, error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	staticContent, err := fs.Sub(staticFS, "static")
	if err != nil {
		return nil, fmt.Errorf("failed to load static files: %w", err)
	}

	return &Server{prefs: prefs, host: host, cfg: cfg, tmpl: tmpl, staticFS: staticContent}, nil
}

// Run starts the HTTP server and blocks until context is canceled.
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.cfg.Address,
		Handler:           s.handler(),
		ReadHeaderTimeout: s.cfg.ReadTimeout,
		WriteTimeout:      s.cfg.WriteTimeout,
		IdleTimeout:       s.cfg.IdleTimeout,
	}

	// graceful shutdown
	go func() {
		<-ctx.Done()
		log.Printf("[INFO] shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout())
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("[WARN] shutdown error: %v", err)
		}
	}()

	log.Printf("[DEBUG] started server on %s", s.cfg.Address)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// handler returns the HTTP handler, wrapping routes with base URL support if configured.
func (s *Server) handler() http.Handler {
	routes := s.routes()
	if s.cfg.BaseURL == "" {
		return routes
	}
	mux := http.NewServeMux()
	// redirect /base to /base/
	mux.HandleFunc(s.cfg.BaseURL, func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, s.cfg.BaseURL+"/", http.StatusMovedPermanently)
	})
	// strip prefix for all routes under base URL
	mux.Handle(s.cfg.BaseURL+"/", http.StripPrefix(s.cfg.BaseURL, routes))
	return mux
}

// routes configures and returns the HTTP handler with all routes and middleware.
func (s *Server) routes() http.Handler {
	router := routegroup.New(http.NewServeMux())

	// global middleware (applies to all routes)
	router.Use(
		rest.Recoverer(log.Default()),
		rest.RealIP, // must be before Throttle to rate-limit by real client IP
		rest.Throttle(s.requestsPerSec()),
		rest.Trace,
		rest.SizeLimit(s.bodySizeLimit()),
		rest.AppInfo("shade", "go-shade", s.cfg.Version),
		rest.Ping,
	)

	router.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(s.staticFS))))

	// web UI
	router.HandleFunc("GET /{$}", s.handleIndex)
	router.HandleFunc("POST /web/theme", s.handleThemeToggle)

	// JSON API
	router.Mount("/api").Route(func(api *routegroup.Bundle) {
		api.HandleFunc("GET /theme", s.handleThemeGet)
		api.HandleFunc("PUT /theme", s.handleThemeSet)
		api.HandleFunc("POST /theme/toggle", s.handleThemeToggleAPI)
	})

	// admin endpoints, basic auth with bcrypt hash
	router.Group().Route(func(admin *routegroup.Bundle) {
		admin.Use(s.adminAuth)
		admin.HandleFunc("GET /api/prefs", s.handlePrefsList)
	})

	return router
}

// adminAuth protects admin routes with basic auth against the configured
// bcrypt hash. With no hash configured admin routes are rejected outright.
func (s *Server) adminAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.PasswordHash == "" {
			http.Error(w, "admin access disabled", http.StatusForbidden)
			return
		}
		_, passwd, ok := r.BasicAuth()
		if !ok || bcrypt.CompareHashAndPassword([]byte(s.cfg.PasswordHash), []byte(passwd)) != nil {
			w.Header().Set("WWW-Authenticate", `Basic realm="shade admin"`)
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// bodySizeLimit returns the configured body size limit, or default 64KB if not set.
func (s *Server) bodySizeLimit() int64 {
	if s.cfg.BodySizeLimit > 0 {
		return s.cfg.BodySizeLimit
	}
	return 64 * 1024 // small payloads only, theme values are tiny
}

// requestsPerSec returns the configured requests per second limit, or default 1000 if not set.
func (s *Server) requestsPerSec() int64 {
	if s.cfg.RequestsPerSec > 0 {
		return s.cfg.RequestsPerSec
	}
	return 1000 // default
}

// shutdownTimeout returns the configured shutdown timeout, or default 5s if not set.
func (s *Server) shutdownTimeout() time.Duration {
	if s.cfg.ShutdownTimeout > 0 {
		return s.cfg.ShutdownTimeout
	}
	return 5 * time.Second
}
