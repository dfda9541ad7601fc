// Package server wires the application together: the document store, the
// token verifier, the services, and the chi router — and owns startup and
// graceful shutdown.
//
// DEPENDENCY FLOW:
//
//	main.go builds Config → New() creates:
//	  sqlite.DB → NoteService / RegistrationService → handlers → routes
//	  TokenService (Verifier) → Authenticate middleware
//
// All wiring happens here, in one composition root; no package reaches for
// ambient globals.
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

	"github.com/FredrikNymoen/NoteApp/internal/auth"
	"github.com/FredrikNymoen/NoteApp/internal/handler"
	"github.com/FredrikNymoen/NoteApp/internal/middleware"
	sqliteRepo "github.com/FredrikNymoen/NoteApp/internal/repository/sqlite"
	"github.com/FredrikNymoen/NoteApp/internal/service"
)

// Config holds everything the server needs, assembled by main from the
// environment. Passing it as one value keeps signatures stable as options
// are added.
type Config struct {
	Port        int
	DBPath      string // path to the SQLite database file, or ":memory:"
	TokenSecret string // HMAC secret shared with the token issuer
	TokenIssuer string // expected "iss" claim on incoming tokens
}

// Server is the HTTP server and the resources it owns. The database
// connection is closed during graceful shutdown.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New creates a Server, opening the database and wiring the full dependency
// chain. The returned server owns the database connection.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	verifier, err := auth.NewTokenService(cfg.TokenSecret, cfg.TokenIssuer)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating token verifier: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	s.setupRoutes(verifier)

	return s, nil
}

// setupRoutes configures middleware and the API surface:
//
//	GET    /api/auth/verify     → 200 {"status":"authenticated"} (identity enforced by middleware)
//	POST   /api/auth/register   → 201 User (unauthenticated)
//	GET    /api/notes           → 200 [enriched notes]
//	GET    /api/notes/{id}      → 200 enriched note | 403 | 404
//	POST   /api/notes           → 201 enriched note | 400
//	DELETE /api/notes/{id}      → 200 {"success":true} | 403/404 {"success":false}
//
// Authenticate is mounted before Logger so the request log can include the
// verified user id.
func (s *Server) setupRoutes(verifier auth.Verifier) {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(auth.Authenticate(verifier, s.logger))
	s.router.Use(middleware.Logger(s.logger))

	noteService := service.NewNoteService(s.db, s.db, s.logger)
	registrationService := service.NewRegistrationService(s.db, s.logger)

	noteHandler := handler.NewNoteHandler(noteService, s.logger)
	authHandler := handler.NewAuthHandler(registrationService, s.logger)

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", authHandler.HandleRegister)
		r.With(auth.RequireIdentity).Get("/auth/verify", authHandler.HandleVerify)

		r.Get("/notes", noteHandler.HandleList)
		r.Get("/notes/{id}", noteHandler.HandleGetByID)
		r.Post("/notes", noteHandler.HandleCreate)
		r.Delete("/notes/{id}", noteHandler.HandleDelete)
	})
}

// Handler exposes the configured router, mainly for tests that drive the
// full middleware chain through httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, give in-flight requests 30 seconds
// to finish, close the database.
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
