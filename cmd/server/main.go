package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/gatherly/api/internal/config"
	"github.com/gatherly/api/internal/database"
	"github.com/gatherly/api/internal/handler"
	"github.com/gatherly/api/internal/mailer"
	"github.com/gatherly/api/internal/middleware"
	"github.com/gatherly/api/internal/repository"
	"github.com/gatherly/api/internal/service"
	"github.com/gatherly/api/internal/storage"
	"github.com/gatherly/api/pkg/token"
)

func main() {
	// Initialize structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load .env if present; environment variables take precedence
	if err := godotenv.Load(); err == nil {
		slog.Info("loaded environment from .env")
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize database connection
	db := database.NewSurrealDB(database.Config{
		Host:      cfg.Database.Host,
		Port:      cfg.Database.Port,
		User:      cfg.Database.User,
		Password:  cfg.Database.Password,
		Namespace: cfg.Database.Namespace,
		Database:  cfg.Database.Database,
	})

	ctx := context.Background()
	if err := db.Connect(ctx); err != nil {
		slog.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	slog.Info("connected to database",
		slog.String("host", cfg.Database.Host),
		slog.String("database", cfg.Database.Database),
	)

	// Apply index definitions, including the rsvp unique index the RSVP
	// workflow depends on
	if err := repository.EnsureSchema(ctx, db); err != nil {
		slog.Error("failed to apply database schema", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize token verification
	verifier, err := token.NewVerifier(token.Config{
		Secret: cfg.Auth.JWTSecret,
		Issuer: cfg.Auth.Issuer,
	})
	if err != nil {
		slog.Error("failed to initialize token verifier", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize repositories
	eventRepo := repository.NewEventRepository(db)
	rsvpRepo := repository.NewRSVPRepository(db)

	// Initialize object storage for event images
	assetStore := storage.NewClient(storage.Config{
		BaseURL:    cfg.Storage.BaseURL,
		Bucket:     cfg.Storage.Bucket,
		ServiceKey: cfg.Storage.ServiceKey,
		Timeout:    cfg.Storage.Timeout,
	})

	// Initialize confirmation mailer when enabled
	var confirmationMailer service.ConfirmationMailer
	if cfg.Email.Enabled {
		confirmationMailer = mailer.NewResendMailer(mailer.Config{
			APIKey:  cfg.Email.ResendKey,
			From:    cfg.Email.FromAddress,
			SiteURL: cfg.Email.SiteURL,
		})
		slog.Info("rsvp confirmation emails enabled", slog.String("from", cfg.Email.FromAddress))
	}

	// Initialize services
	effects := service.NewEffectLog(logger)
	eventService := service.NewEventService(eventRepo, rsvpRepo, assetStore, effects)
	rsvpService := service.NewRSVPService(eventRepo, rsvpRepo, confirmationMailer, effects)

	// Initialize handlers
	healthHandler := handler.NewHealthHandler(db)
	eventHandler := handler.NewEventHandler(eventService, rsvpService)
	rsvpHandler := handler.NewRSVPHandler(rsvpService)

	// Create router and register routes
	mux := http.NewServeMux()

	// Health check endpoint
	mux.HandleFunc("GET /health", healthHandler.Health)

	// Public event endpoints; an optional session personalizes attendance
	authRequired := middleware.Auth(verifier)
	authOptional := middleware.OptionalAuth(verifier)

	mux.Handle("GET /v1/events", authOptional(http.HandlerFunc(eventHandler.ListEvents)))
	mux.Handle("GET /v1/events/{eventId}", authOptional(http.HandlerFunc(eventHandler.GetEvent)))
	mux.Handle("GET /v1/events/{eventId}/related", authOptional(http.HandlerFunc(eventHandler.ListRelated)))
	mux.Handle("GET /v1/events/{eventId}/attendance", authOptional(http.HandlerFunc(rsvpHandler.GetAttendance)))

	// Event management endpoints (owner scoped)
	mux.Handle("POST /v1/events", authRequired(http.HandlerFunc(eventHandler.CreateEvent)))
	mux.Handle("PATCH /v1/events/{eventId}", authRequired(http.HandlerFunc(eventHandler.UpdateEvent)))
	mux.Handle("DELETE /v1/events/{eventId}", authRequired(http.HandlerFunc(eventHandler.DeleteEvent)))
	mux.Handle("GET /v1/my/events", authRequired(http.HandlerFunc(eventHandler.ListMyEvents)))

	// RSVP endpoints
	mux.Handle("POST /v1/events/{eventId}/rsvp", authRequired(http.HandlerFunc(rsvpHandler.Rsvp)))
	mux.Handle("DELETE /v1/events/{eventId}/rsvp", authRequired(http.HandlerFunc(rsvpHandler.CancelRsvp)))

	// Apply global middleware
	wrapped := middleware.Chain(
		mux,
		middleware.RequestID,
		middleware.Logger,
		middleware.Recovery,
		middleware.CORS(cfg.Server.AllowedOrigins),
	)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      wrapped,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("starting server",
			slog.String("port", cfg.Server.Port),
			slog.String("env", cfg.Server.Env),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", slog.String("error", err.Error()))
	}

	slog.Info("server exited")
}
