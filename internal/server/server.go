// Package server wires the application together and runs the HTTP server.
//
// This is the composition root: the one place where concrete types meet.
// New() builds the dependency chain
//
//	notion.Client → notion Store (repositories) → services → handlers
//
// plus the user-ID allocator, which is seeded from a backend scan before
// the server starts accepting requests. Everything below this package
// depends on interfaces.
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

	"github.com/sakif/workshop-tracker/internal/allocator"
	"github.com/sakif/workshop-tracker/internal/auth"
	"github.com/sakif/workshop-tracker/internal/config"
	"github.com/sakif/workshop-tracker/internal/github"
	"github.com/sakif/workshop-tracker/internal/handler"
	"github.com/sakif/workshop-tracker/internal/middleware"
	"github.com/sakif/workshop-tracker/internal/notion"
	notionrepo "github.com/sakif/workshop-tracker/internal/repository/notion"
	"github.com/sakif/workshop-tracker/internal/service"
)

// Server owns the router and configuration.
type Server struct {
	router *chi.Mux
	cfg    *config.Config
	logger *slog.Logger
}

// New assembles the full application. The allocator's boot scan runs
// here, before any request can allocate an ID; a failing scan logs and
// degrades rather than aborting startup (see internal/allocator).
func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	var clientOpts []notion.Option
	if cfg.Notion.BaseURL != "" {
		clientOpts = append(clientOpts, notion.WithBaseURL(cfg.Notion.BaseURL))
	}
	client := notion.New(cfg.Notion.APIKey, clientOpts...)

	store := notionrepo.NewStore(client, notionrepo.Databases{
		Users:        cfg.Notion.UserDatabaseID,
		Progress:     cfg.Notion.ProgressDatabaseID,
		Transactions: cfg.Notion.TransactionDatabaseID,
	})

	// Seed the allocator with a bounded scan: a hung backend at boot
	// should degrade to the fallback, not block startup forever.
	scanCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	alloc := allocator.New(scanCtx, store.Users(), logger)

	identity := github.New(cfg.GitHub.BaseURL, cfg.GitHub.Token)

	s := &Server{
		router: chi.NewRouter(),
		cfg:    cfg,
		logger: logger,
	}
	if err := s.setupRoutes(store, alloc, identity); err != nil {
		return nil, fmt.Errorf("setting up routes: %w", err)
	}
	return s, nil
}

// Handler exposes the router, mainly for httptest in integration tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupRoutes(store *notionrepo.Store, alloc *allocator.Allocator, identity service.IdentityValidator) error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	// Liveness probe stays outside the auth gate so the platform can
	// always reach it.
	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	userService := service.NewUserService(store.Users(), alloc, identity, s.logger)
	progressService := service.NewProgressService(store.Users(), store.Progress(), s.logger)
	scoreboardService := service.NewScoreboardService(store.Users(), s.logger)
	transactionService := service.NewTransactionService(store.Transactions(), s.logger)
	webhookService := service.NewWebhookService(store.Users(), nil, s.logger)

	userHandler := handler.NewUserHandler(userService, s.logger)
	webhookHandler := handler.NewWebhookHandler(webhookService, s.logger)
	merchantHandler := handler.NewMerchantHandler(progressService, s.logger)
	scoreboardHandler := handler.NewScoreboardHandler(scoreboardService, s.logger)
	transactionHandler := handler.NewTransactionHandler(transactionService, s.logger)

	var ba *auth.BasicAuth
	if s.cfg.BasicAuth.Enabled() {
		var err error
		ba, err = auth.New(s.cfg.BasicAuth.Username, s.cfg.BasicAuth.Password)
		if err != nil {
			return fmt.Errorf("configuring basic auth: %w", err)
		}
		s.logger.Info("basic auth enabled",
			slog.String("username", s.cfg.BasicAuth.Username))
	}

	s.router.Group(func(r chi.Router) {
		if ba != nil {
			r.Use(ba.Middleware)
		}

		r.Post("/users", userHandler.HandleCreate)
		r.Get("/users", scoreboardHandler.HandleScoreboard)
		r.Get("/scoreboard", scoreboardHandler.HandleScoreboard)

		r.Route("/users/{id}", func(r chi.Router) {
			r.Get("/", userHandler.HandleGet)
			r.Patch("/", userHandler.HandleGithub)
			r.Post("/webhook", webhookHandler.HandleSchedule)
			r.Post("/node-check", userHandler.HandleNodeCheck)
			r.Post("/merchant", merchantHandler.HandleRegister)
			r.Get("/establish-return-cancel", merchantHandler.HandleEstablishReturnCancel)
		})

		r.Route("/transactions", func(r chi.Router) {
			r.Get("/{transactionId}", transactionHandler.HandleGet)
			r.Post("/", transactionHandler.HandleCreate)
			r.Patch("/{transactionId}", transactionHandler.HandlePatch)
		})
	})

	return nil
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully. In-flight requests get 30 seconds; armed webhook timers
// are NOT waited for — fire-and-forget tasks die with the process, which
// matches their no-guarantee contract.
func (s *Server) Start() error {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Port),
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
			slog.Int("port", s.cfg.Port),
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.cfg.Port)),
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
