// Package api serves the login, callback and task endpoints over HTTP.
package api

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/custodia-labs/planner-api/internal/core/ports/driving"
	"github.com/custodia-labs/planner-api/internal/logger"
)

// Config holds the server configuration.
type Config struct {
	Addr string
	// AllowedOrigins lists origins granted CORS access. "*" allows any.
	AllowedOrigins []string
	// SecureCookies marks the state cookie Secure.
	SecureCookies bool
	// StateTTL is the lifetime of the state cookie.
	StateTTL time.Duration
	// ExposeErrorDetail puts internal error text in 500 responses.
	ExposeErrorDetail bool
}

// Deps holds the service dependencies.
type Deps struct {
	Auth  driving.AuthService
	Tasks driving.TaskService
}

// Server wraps the HTTP server and router.
type Server struct {
	httpServer *http.Server
	handler    http.Handler
}

// New creates a new Server with all routes wired.
func New(cfg Config, deps Deps) *Server {
	cookies := stateCookie{secure: cfg.SecureCookies, maxAge: cfg.StateTTL}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", Health())
	mux.HandleFunc("GET /api/login", Login(deps.Auth, cookies))
	mux.HandleFunc("GET /api/auth_callback", Callback(deps.Auth, cookies))
	mux.HandleFunc("GET /api/tasks", Tasks(deps.Tasks, cfg.ExposeErrorDetail))

	var h http.Handler = mux
	h = corsMiddleware(cfg.AllowedOrigins, h)
	h = loggingMiddleware(h)
	h = requestIDMiddleware(h)
	h = otelhttp.NewHandler(h, "planner-api")

	return &Server{
		handler: h,
		httpServer: &http.Server{
			Addr:              cfg.Addr,
			Handler:           h,
			ReadHeaderTimeout: 10 * time.Second,
			// Task aggregation fans out to Graph, so writes get more room.
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// Handler returns the server's HTTP handler (for testing).
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Start begins listening and serving. It returns http.ErrServerClosed after
// Shutdown.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.httpServer.Addr, err)
	}
	logger.Info("planner-api listening on %s", s.httpServer.Addr)
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
