package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/twistandthread/chatwidget/internal/adapter/filewatcher"
	"github.com/twistandthread/chatwidget/internal/adapter/llm"
	"github.com/twistandthread/chatwidget/internal/config"
	"github.com/twistandthread/chatwidget/internal/repository"
	"github.com/twistandthread/chatwidget/internal/service"
	handler "github.com/twistandthread/chatwidget/internal/transport/http"
	"github.com/twistandthread/chatwidget/policy"
)

func main() {
	// Load .env before reading configuration; missing file is fine.
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded configuration from .env")
	}

	cfg := config.Load()

	log.Printf("Starting chat widget backend...")
	log.Printf("HTTP Port: %d", cfg.HTTPPort)
	log.Printf("Storage backend: %s", cfg.StorageBackend)
	log.Printf("Knowledge base: %s", cfg.KnowledgeBasePath)

	// Initialize store
	store, err := repository.New(cfg.StorageBackend, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer store.Close()

	// Initialize LLM service
	llmService := llm.NewService(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.EmbeddingModel, cfg.ChatModel, cfg.LLMTimeout)

	// Initialize upload policy engine
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	policyEngine, err := policy.NewEngine(ctx, policy.DefaultPolicy)
	if err != nil {
		log.Fatalf("Failed to initialize policy engine: %v", err)
	}

	// Initialize service
	svc := service.New(store, llmService, policyEngine, cfg)

	// Ingest the knowledge base. Startup proceeds without it; chat turns
	// then run without standing context.
	if _, err := svc.InitializeKnowledgeBase(ctx); err != nil {
		log.Printf("ERROR: failed to initialize knowledge base: %v", err)
	}

	// Watch the knowledge base file for edits
	if cfg.WatchKnowledgeBase {
		watcher, err := filewatcher.New(cfg.KnowledgeBasePath, func(ctx context.Context) error {
			_, err := svc.ReloadKnowledgeBase(ctx)
			return err
		})
		if err != nil {
			log.Printf("WARN: failed to create knowledge base watcher: %v", err)
		} else if err := watcher.Watch(ctx); err != nil {
			log.Printf("WARN: failed to watch knowledge base file: %v", err)
		} else {
			defer watcher.Stop()
		}
	}

	// Create Echo server
	server := echo.New()
	server.HideBanner = true

	// Middleware
	server.Use(middleware.Logger())
	server.Use(middleware.Recover())
	server.Use(middleware.CORS())

	// Register routes
	h := handler.NewHandler(svc, cfg)
	h.RegisterRoutes(server)

	// Start server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		if err := server.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	log.Printf("API started on port %d", cfg.HTTPPort)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Failed to shutdown server gracefully: %v", err)
	}

	log.Println("Server stopped")
}
