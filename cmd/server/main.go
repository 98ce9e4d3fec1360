package main

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
	"github.com/ruralcart/order-relay/internal/assets"
	"github.com/ruralcart/order-relay/internal/config"
	"github.com/ruralcart/order-relay/internal/handlers"
	"github.com/ruralcart/order-relay/internal/metrics"
	"github.com/ruralcart/order-relay/internal/middleware"
	"github.com/ruralcart/order-relay/internal/service"
	"github.com/ruralcart/order-relay/internal/whatsapp"
	"github.com/ruralcart/order-relay/pkg/logger"
)

func main() {
	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	log.Info("starting order relay server",
		"port", cfg.Server.Port,
		"host", cfg.Server.Host,
		"log_level", cfg.LogLevel,
		"wa_session", cfg.WhatsApp.Session,
	)

	// Initialize the WhatsApp gateway session. Bootstrap runs in the
	// background; requests report SessionUnavailable until it connects.
	waClient := whatsapp.NewClient(cfg.WhatsApp.GatewayURL, cfg.WhatsApp.Session, cfg.WhatsApp.Token, log)
	supervisor := whatsapp.NewSupervisor(waClient, cfg.WhatsApp.BrowserPath, log)
	supervisor.Start(context.Background())

	// Initialize asset resolver
	resolver := assets.NewResolver(cfg.Assets.Dir)

	// Initialize services
	relayService := service.NewRelayService(supervisor, resolver, cfg.WhatsApp.Recipient, log)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(supervisor, log)
	orderHandler := handlers.NewOrderHandler(relayService, log)

	// Create router
	r := chi.NewRouter()

	// Apply middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(log))
	r.Use(metrics.Middleware)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(120 * time.Second))

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "api_key"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Register liveness and metrics endpoints
	r.Get("/health", healthHandler.ServeHTTP)
	r.Get("/metrics", metrics.Handler().ServeHTTP)

	// Order relay endpoint; API-key auth is disabled unless keys are configured
	r.Group(func(r chi.Router) {
		r.Use(middleware.APIKeyAuth(cfg.Auth))
		r.Post("/send-order", orderHandler.SendOrder)
	})

	// Create HTTP server
	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	// Attempt graceful shutdown
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped gracefully")
}
