// Package api provides the HTTP API server and handlers for the Folio application.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/folioapp/folio-server/internal/ratelimit"
	"github.com/folioapp/folio-server/internal/service"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	essayService      *service.EssayService
	authService       *service.AuthService
	fileService       *service.FileService
	engagementService *service.EngagementService
	limiter           *ratelimit.KeyedRateLimiter
	maxUploadSize     int64
	corsOrigins       []string
	router            *chi.Mux
	logger            *slog.Logger
}

// ServerOptions configures a Server beyond its service dependencies.
type ServerOptions struct {
	Limiter       *ratelimit.KeyedRateLimiter
	MaxUploadSize int64
	CORSOrigins   []string
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(
	essayService *service.EssayService,
	authService *service.AuthService,
	fileService *service.FileService,
	engagementService *service.EngagementService,
	opts ServerOptions,
	logger *slog.Logger,
) *Server {
	if opts.MaxUploadSize <= 0 {
		opts.MaxUploadSize = 50 << 20
	}
	if len(opts.CORSOrigins) == 0 {
		opts.CORSOrigins = []string{"*"}
	}

	s := &Server{
		essayService:      essayService,
		authService:       authService,
		fileService:       fileService,
		engagementService: engagementService,
		limiter:           opts.Limiter,
		maxUploadSize:     opts.MaxUploadSize,
		corsOrigins:       opts.CORSOrigins,
		router:            chi.NewRouter(),
		logger:            logger,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.corsOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	// Health check.
	s.router.Get("/health", s.handleHealthCheck)

	// API v1.
	s.router.Route("/api/v1", func(r chi.Router) {
		// Essays: reads are public, writes require a bearer token.
		r.Route("/essays", func(r chi.Router) {
			r.Get("/", s.handleListEssays)
			r.Get("/{id}", s.handleGetEssay)

			r.Group(func(r chi.Router) {
				r.Use(s.requireAuth)
				r.Post("/", s.handleCreateEssay)
				r.Put("/{id}", s.handleUpdateEssay)
				r.Delete("/{id}", s.handleDeleteEssay)
			})
		})

		// Auth endpoints (public, rate limited against credential stuffing).
		r.Route("/auth", func(r chi.Router) {
			r.Use(s.rateLimit)
			r.Post("/signup", s.handleSignup)
			r.Post("/login", s.handleLogin)
		})

		// File upload (authoring only).
		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Post("/upload", s.handleUpload)
		})

		// Public intake endpoints, rate limited per client IP.
		r.Group(func(r chi.Router) {
			r.Use(s.rateLimit)
			r.Post("/newsletter/subscribe", s.handleSubscribe)
			r.Post("/contact", s.handleContact)
		})

		// Ebook download link.
		r.Get("/ebook/download", s.handleEbookDownload)

		// Signed file serving.
		r.Get("/files/{bucket}/{name}", s.handleServeFile)
	})
}
