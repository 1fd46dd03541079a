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

	"vidsight/internal/config"
	"vidsight/internal/gateway"
	"vidsight/internal/handlers"
	"vidsight/internal/middleware"
	"vidsight/internal/router"
	"vidsight/internal/session"
	"vidsight/internal/websocket"
)

func main() {
	log.Println("🚀 Starting Vidsight...")

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	log.Println("✓ Environment variables loaded")

	// ──── Step 2: Initialize Catalog Gateway ────
	// Per-request credentials from the command surface win; the configured
	// token, if any, covers calls issued outside a request.
	gw := gateway.New(
		cfg.BackendURL,
		gateway.WithTimeout(cfg.RequestTimeout),
		gateway.WithTokenSource(gateway.ContextTokenSource{
			Fallback: gateway.StaticTokenSource(cfg.BackendToken),
		}),
	)
	log.Printf("✓ Catalog gateway targeting %s", cfg.BackendURL)

	// ──── Step 3: Start Session Manager ────
	manager := session.NewManager(gw, cfg.DebounceDelay, cfg.WorkspaceTTL)
	log.Printf("✓ Session manager started (workspace TTL %s)", cfg.WorkspaceTTL)

	// ──── Step 4: Start WebSocket Hub ────
	wsHub := websocket.NewHub(manager)
	log.Println("✓ WebSocket hub started")

	// ──── Step 5: Start HTTP Server ────
	auth := middleware.NewBearerAuth()
	workspaceHandler := handlers.NewWorkspaceHandler(manager)
	commandLimiter := middleware.NewRateLimiter(cfg.RateLimitPerMinute, time.Minute)

	r := router.New(auth, workspaceHandler, wsHub, commandLimiter, cfg.FrontendURL)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")
		manager.Stop()
		commandLimiter.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Printf("✓ Vidsight ready on http://localhost:%s", cfg.Port)
	log.Printf("  API: http://localhost:%s/api/v1", cfg.Port)
	log.Printf("  WS:  ws://localhost:%s/api/v1/workspaces/{id}/ws", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
