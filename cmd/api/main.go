// Package main is the entry point for the API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cartai/negotiation-platform/internal/config"
	"github.com/cartai/negotiation-platform/internal/handler"
	"github.com/cartai/negotiation-platform/internal/llm"
	"github.com/cartai/negotiation-platform/internal/middleware"
	natsclient "github.com/cartai/negotiation-platform/internal/nats"
	"github.com/cartai/negotiation-platform/internal/service"
	"github.com/cartai/negotiation-platform/internal/store"
	"github.com/cartai/negotiation-platform/pkg/logger"
	"github.com/cartai/negotiation-platform/pkg/tracing"
)

func main() {
	// Load .env if present
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Initialize logger
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	logger.SetGlobal(log)

	log.Info("starting API server")

	// Initialize tracing if enabled
	ctx := context.Background()
	if cfg.TracingEnabled {
		tp, err := tracing.InitTracer(ctx, "negotiation-platform", cfg.TracingEndpoint)
		if err != nil {
			log.Warn("failed to initialize tracing", "error", err)
		} else {
			defer tracing.Shutdown(ctx, tp)
		}
	}

	// Connect to NATS; transcript persistence is optional
	var streamManager *natsclient.StreamManager
	natsClient, err := natsclient.Connect(ctx, natsclient.Config{
		URL:      cfg.NATSURL,
		CAFile:   cfg.NATSCAFile,
		CertFile: cfg.NATSCertFile,
		KeyFile:  cfg.NATSKeyFile,
		Token:    cfg.NATSToken,
	}, log)
	if err != nil {
		log.Warn("failed to connect to NATS, transcripts will not be persisted", "error", err)
	} else {
		defer natsClient.Close()
		streamManager = natsclient.NewStreamManager(natsClient)
		if err := streamManager.EnsureStream(ctx); err != nil {
			log.Error("failed to ensure stream", "error", err)
			os.Exit(1)
		}
	}

	// Initialize LLM clients; agents fall back to scripted replies when
	// no client is configured.
	var openaiClient, anthropicClient llm.Client
	if cfg.OpenAIAPIKey != "" {
		openaiClient, err = llm.NewOpenAIClient(cfg.OpenAIAPIKey)
		if err != nil {
			log.Warn("failed to create OpenAI client", "error", err)
		}
	}
	if cfg.AnthropicAPIKey != "" {
		anthropicClient, err = llm.NewAnthropicClient(cfg.AnthropicAPIKey)
		if err != nil {
			log.Warn("failed to create Anthropic client", "error", err)
		}
	}
	registry := llm.NewRegistry(openaiClient, anthropicClient)

	// Open the saved-conversation store
	boltStore, err := store.NewBoltStore(cfg.ConversationDBPath)
	if err != nil {
		log.Error("failed to open conversation store", "path", cfg.ConversationDBPath, "error", err)
		os.Exit(1)
	}
	defer boltStore.Close()

	// Initialize services
	negotiationSvc := service.NewNegotiationService(streamManager, registry, cfg, log)
	conversationSvc := service.NewConversationService(boltStore, log)

	// Initialize handlers
	healthHandler := handler.NewHealthHandler(natsClient)
	negotiateHandler := handler.NewNegotiateHandler(negotiationSvc, log)
	conversationHandler := handler.NewConversationHandler(conversationSvc, log)
	transcriptHandler := handler.NewTranscriptHandler(streamManager, log)

	// Create router
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging(log))
	r.Use(middleware.SecurityHeaders)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposedHeaders:   []string{"Link", "X-Correlation-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health endpoints (no auth required)
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	// Metrics endpoint
	r.Handle("/metrics", promhttp.Handler())

	// API routes with authentication
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWTSecret))
		r.Use(middleware.RateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow))

		// Negotiations
		r.Post("/negotiate", negotiateHandler.Negotiate)
		r.Post("/negotiate/store", negotiateHandler.NegotiateStore)
		r.Get("/negotiations/{id}/transcript", transcriptHandler.Replay)

		// Saved conversations
		r.Route("/conversations", func(r chi.Router) {
			r.Post("/", conversationHandler.Save)
			r.Get("/", conversationHandler.List)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", conversationHandler.Get)
				r.Delete("/", conversationHandler.Delete)
			})
		})
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      r,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info("server listening", "port", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}
