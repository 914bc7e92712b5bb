// Package api wires the receipt analysis pipeline to HTTP.
package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/khatib49/Scan-ocr/internal/api/handlers"
	"github.com/khatib49/Scan-ocr/internal/api/middleware"
	"github.com/khatib49/Scan-ocr/internal/domain/matcher"
	"github.com/khatib49/Scan-ocr/internal/domain/validator"
	"github.com/khatib49/Scan-ocr/internal/infrastructure/storage"
	"github.com/khatib49/Scan-ocr/internal/vision"
)

// Config holds API server configuration.
type Config struct {
	Port           int
	AllowedOrigins []string
	APIKey         string

	Model        string
	SystemPrompt string
	PromptSource string
	ProbeEnabled bool

	CatalogPath  string
	StrategyName string
}

// DefaultConfig returns sensible defaults for the API server.
func DefaultConfig() Config {
	return Config{
		Port:         8080,
		StrategyName: matcher.StrategySimilarity,
		ProbeEnabled: true,
	}
}

// Server is the HTTP API server.
type Server struct {
	config     Config
	router     chi.Router
	httpServer *http.Server
	logger     *slog.Logger
	repo       storage.Repository
	extractor  vision.Extractor
	store      *matcher.Store
	engine     *validator.Engine
}

// NewServer creates a new API server.
func NewServer(
	cfg Config,
	repo storage.Repository,
	extractor vision.Extractor,
	store *matcher.Store,
	engine *validator.Engine,
	logger *slog.Logger,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		config:    cfg,
		router:    chi.NewRouter(),
		logger:    logger,
		repo:      repo,
		extractor: extractor,
		store:     store,
		engine:    engine,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// setupMiddleware configures global middleware.
func (s *Server) setupMiddleware() {
	corsConfig := middleware.DefaultCORSConfig()
	if len(s.config.AllowedOrigins) > 0 {
		corsConfig.AllowedOrigins = s.config.AllowedOrigins
	}
	s.router.Use(middleware.CORS(corsConfig))
	s.router.Use(middleware.Logging(s.logger))
}

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	// Health check (no /api prefix - for load balancers)
	healthHandler := handlers.NewHealthHandler(s.config.Model, s.config.PromptSource, s.store)
	s.router.Get("/health", healthHandler.ServeHTTP)

	strategy := matcher.ForName(s.config.StrategyName, s.store)

	s.router.Route("/api", func(r chi.Router) {
		r.Use(middleware.APIKey(s.config.APIKey))

		analyzeHandler := handlers.NewAnalyzeHandler(
			s.repo,
			s.extractor,
			strategy,
			s.config.StrategyName,
			s.engine,
			s.config.SystemPrompt,
			s.config.ProbeEnabled,
			s.logger,
		)
		r.Post("/analyze", analyzeHandler.Analyze)

		analysesHandler := handlers.NewAnalysesHandler(s.repo)
		r.Get("/analyses", analysesHandler.List)
		r.Get("/analyses/{id}", analysesHandler.Get)

		statsHandler := handlers.NewStatsHandler(s.repo)
		r.Get("/stats", statsHandler.Get)

		catalogHandler := handlers.NewCatalogHandler(s.store, s.config.CatalogPath, s.logger)
		r.Post("/catalog/reload", catalogHandler.Reload)
	})
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("starting API server", "addr", addr, "strategy", s.config.StrategyName)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down API server")

	if s.httpServer == nil {
		return nil
	}

	return s.httpServer.Shutdown(ctx)
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}
