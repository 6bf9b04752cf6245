// Package server wires handlers, middleware and routes into one HTTP server.
//
// This is the composition root: every dependency — store, hasher, token
// service, services, handlers — is constructed here from the Config and
// injected downward. Nothing below this package reads ambient state.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/OSMA-D/osma-server/internal/auth"
	"github.com/OSMA-D/osma-server/internal/handler"
	"github.com/OSMA-D/osma-server/internal/middleware"
	sqliteRepo "github.com/OSMA-D/osma-server/internal/repository/sqlite"
	"github.com/OSMA-D/osma-server/internal/service"
)

// Config holds everything the server needs, loaded once at startup in
// cmd/server and never mutated afterwards.
type Config struct {
	Port      int
	DBPath    string
	JWTSecret string // signs and verifies session tokens
	Salt      string // process-wide credential-hash salt
}

// Server owns the router and the store connection; the connection is closed
// during graceful shutdown.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New builds the full dependency graph and the route table.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes configures middleware and the operation surface.
//
// Two scopes, mirroring the capability table:
//
//	/auth — public: signup, signin
//	/api  — identity-gated: the gate resolves the bearer token (fail-open),
//	        each handler enforces its own capability set
func (s *Server) setupRoutes() error {
	hasher, err := auth.NewHasher(s.config.Salt)
	if err != nil {
		return fmt.Errorf("creating hasher: %w", err)
	}
	tokens, err := auth.NewTokenService(s.config.JWTSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}

	// Global middleware, in order: request id, real ip, panic recovery,
	// request logging, allow-any-origin CORS (the marketplace is consumed
	// by browser clients on other origins).
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}))

	// Services: each gets the repository interfaces it needs, never the
	// concrete store.
	identityService := service.NewIdentity(s.db, s.db, hasher, tokens, s.logger)
	catalogService := service.NewCatalog(s.db, s.db, s.logger)
	reviewService := service.NewReview(s.db, s.db, s.logger)
	libraryService := service.NewLibrary(s.db, s.db, s.logger)

	authHandler := handler.NewAuthHandler(identityService, s.logger)
	userHandler := handler.NewUserHandler(identityService, s.logger)
	catalogHandler := handler.NewCatalogHandler(catalogService, s.logger)
	reviewHandler := handler.NewReviewHandler(reviewService, s.logger)
	libraryHandler := handler.NewLibraryHandler(libraryService, s.logger)

	s.router.Route("/auth", func(r chi.Router) {
		r.Post("/signup", authHandler.HandleSignup)
		r.Post("/signin", authHandler.HandleSignin)
	})

	s.router.Route("/api", func(r chi.Router) {
		r.Use(auth.ResolveIdentity(tokens))

		r.Get("/apps", catalogHandler.HandleApps)
		r.Post("/apps_by_tag", catalogHandler.HandleAppsByTags)
		r.Get("/app/{app_id}", catalogHandler.HandleApp)
		r.Get("/versions/{app_id}", catalogHandler.HandleVersions)
		r.Get("/latest_version/{app_id}", catalogHandler.HandleLatestVersion)
		r.Get("/reviews/{app_id}", catalogHandler.HandleReviews)
		r.Get("/rating/{app_id}", catalogHandler.HandleRating)

		r.Get("/personal_library", libraryHandler.HandleList)
		r.Post("/add_app_to_personal_library", libraryHandler.HandleAdd)
		r.Post("/delete_app_from_personal_library", libraryHandler.HandleRemove)

		r.Post("/write_review", reviewHandler.HandleWrite)

		r.Post("/change_password", userHandler.HandleChangePassword)
		r.Post("/update", userHandler.HandleUpdate)
	})

	return nil
}

// Router exposes the configured router, mainly for httptest-based tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start runs the server until SIGINT/SIGTERM, then shuts down gracefully:
// stop accepting connections, drain in-flight requests (30s budget), close
// the store.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
