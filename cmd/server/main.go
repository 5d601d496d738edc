package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/perevoscic/envitefy-sub005/internal/config"
	"github.com/perevoscic/envitefy-sub005/internal/database"
	"github.com/perevoscic/envitefy-sub005/internal/handler"
	"github.com/perevoscic/envitefy-sub005/internal/jobs"
	"github.com/perevoscic/envitefy-sub005/internal/middleware"
	"github.com/perevoscic/envitefy-sub005/internal/repository"
	"github.com/perevoscic/envitefy-sub005/internal/service"
	"github.com/perevoscic/envitefy-sub005/pkg/token"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize structured logging, verbose in development
	logLevel := slog.LevelInfo
	if cfg.IsDevelopment() {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

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

	// Initialize token manager
	tokenManager := token.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.Issuer,
		time.Duration(cfg.JWT.ExpirationMins)*time.Minute,
	)

	// Initialize repositories
	formRepo := repository.NewFormRepository(db)

	// Initialize notifier (optional; disabled without an API key)
	var notifier service.Notifier
	var mailer *service.EmailNotifier
	if cfg.Email.Enabled {
		mailer = service.NewEmailNotifier(cfg.Email.APIKey, cfg.Email.FromEmail, cfg.Email.FromName)
		notifier = mailer
	}

	// Initialize services
	signupService := service.NewSignupService(formRepo, notifier)

	// Initialize reminder processor
	if mailer != nil {
		reminders := jobs.NewReminderProcessor(formRepo, mailer, cfg.Jobs.ReminderSchedule)
		if err := reminders.Start(); err != nil {
			slog.Error("failed to start reminder processor", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer reminders.Stop()
	}

	// Initialize handlers
	signupHandler := handler.NewSignupHandler(signupService)
	healthHandler := handler.NewHealthHandler(db)

	// Create router and register routes
	mux := http.NewServeMux()

	// Health check endpoint
	mux.HandleFunc("GET /health", healthHandler.Health)

	authMiddleware := middleware.Auth(tokenManager)
	optionalAuth := middleware.OptionalAuth(tokenManager)

	// Sign-up sheet endpoints
	mux.Handle("POST /v1/events/{eventId}/signup-form", authMiddleware(http.HandlerFunc(signupHandler.PutForm)))
	mux.Handle("GET /v1/events/{eventId}/signup-form", optionalAuth(http.HandlerFunc(signupHandler.GetForm)))
	mux.Handle("POST /v1/events/{eventId}/signup", optionalAuth(http.HandlerFunc(signupHandler.Signup)))
	mux.Handle("DELETE /v1/events/{eventId}/signup/{signupId}", optionalAuth(http.HandlerFunc(signupHandler.CancelSignup)))

	// Apply global middleware
	wrapped := middleware.Chain(
		mux,
		middleware.RequestID,
		middleware.Logger,
		middleware.Recovery,
		middleware.CORS(cfg.Server.AllowedOrigins),
		middleware.Compress,
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
