// Package api serves the draft planner over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"github.com/ramonehamilton/moba-draft/internal/api/response"
	"github.com/ramonehamilton/moba-draft/internal/api/websocket"
	"github.com/ramonehamilton/moba-draft/internal/draft"
	"github.com/ramonehamilton/moba-draft/internal/metrics"
	"github.com/ramonehamilton/moba-draft/internal/recommend"
	"github.com/ramonehamilton/moba-draft/internal/roster"
)

// Server represents the REST API server.
type Server struct {
	router     *chi.Mux
	httpServer *http.Server
	listener   net.Listener
	config     *Config
	logger     *slog.Logger

	wsHub   *websocket.Hub
	limiter *rate.Limiter

	roster   *roster.Provider
	board    *draft.Board
	engine   recommend.Config
	metrics  *metrics.RecommendMetrics
	gatherer prometheus.Gatherer
}

// Config holds configuration for the API server.
type Config struct {
	Port           int
	RateLimit      float64 // requests per second across all clients; 0 disables limiting
	Burst          int
	AllowedOrigins []string
	RequestTimeout time.Duration
	Logger         *slog.Logger
}

// DefaultConfig returns the default API server configuration.
func DefaultConfig() *Config {
	return &Config{
		Port:           8080,
		RateLimit:      20,
		Burst:          40,
		AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*", "https://localhost:*"},
		RequestTimeout: 30 * time.Second,
	}
}

// Dependencies are the domain services the server exposes.
type Dependencies struct {
	Roster  *roster.Provider // required
	Board   *draft.Board     // nil creates a fresh board
	Engine  recommend.Config
	Metrics *metrics.RecommendMetrics

	// Gatherer backs /metrics; nil uses prometheus.DefaultGatherer.
	Gatherer prometheus.Gatherer

	// Hub receives board events; nil creates one from Config.
	Hub *websocket.Hub
}

// NewServer creates a new API server.
func NewServer(cfg *Config, deps Dependencies) (*Server, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if deps.Roster == nil {
		return nil, errors.New("roster provider is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		router:   chi.NewRouter(),
		config:   cfg,
		logger:   logger,
		wsHub:    deps.Hub,
		roster:   deps.Roster,
		board:    deps.Board,
		engine:   deps.Engine,
		metrics:  deps.Metrics,
		gatherer: deps.Gatherer,
	}
	if s.board == nil {
		s.board = draft.NewBoard()
	}
	if s.gatherer == nil {
		s.gatherer = prometheus.DefaultGatherer
	}
	if s.wsHub == nil {
		s.wsHub = websocket.NewHub(websocket.HubConfig{AllowedOrigins: cfg.AllowedOrigins, Logger: logger})
	}
	if cfg.RateLimit > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s, nil
}

// setupMiddleware configures the middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)

	if s.config.RequestTimeout > 0 {
		s.router.Use(middleware.Timeout(s.config.RequestTimeout))
	}

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.config.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	if s.limiter != nil {
		s.router.Use(s.rateLimitMiddleware)
	}

	// POST bodies must be JSON.
	s.router.Use(s.jsonContentTypeMiddleware)
}

// rateLimitMiddleware rejects requests beyond the configured rate with 429.
func (s *Server) rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow() {
			w.Header().Set("Retry-After", "1")
			response.TooManyRequests(w, errors.New("rate limit exceeded"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// jsonContentTypeMiddleware enforces application/json content-type for requests with bodies.
func (s *Server) jsonContentTypeMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && r.ContentLength != 0 {
			contentType := r.Header.Get("Content-Type")
			if contentType != "application/json" && !strings.HasPrefix(contentType, "application/json;") {
				response.Error(w, http.StatusUnsupportedMediaType, errors.New("Content-Type must be application/json"))
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// Start binds the port, starts the websocket hub and serves in a goroutine.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", s.config.Port))
	if err != nil {
		return fmt.Errorf("failed to listen on port %d: %w", s.config.Port, err)
	}
	s.listener = ln

	go s.wsHub.Run()

	s.httpServer = &http.Server{
		Handler:           s.router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		s.logger.Info("API server listening", "addr", ln.Addr().String())
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", "error", err)
		}
	}()

	return nil
}

// Shutdown stops the websocket hub and gracefully drains HTTP connections.
func (s *Server) Shutdown(ctx context.Context) error {
	s.wsHub.Stop()
	if s.httpServer == nil {
		return nil
	}

	s.logger.Info("shutting down API server")
	return s.httpServer.Shutdown(ctx)
}

// Handler returns the router, for embedding or tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr returns the bound address once Start has succeeded.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Port returns the configured port.
func (s *Server) Port() int {
	return s.config.Port
}

// Board returns the shared draft board.
func (s *Server) Board() *draft.Board {
	return s.board
}

// WebSocketHub returns the hub that receives board events.
func (s *Server) WebSocketHub() *websocket.Hub {
	return s.wsHub
}
