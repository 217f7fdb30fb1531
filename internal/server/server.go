// Package server assembles all HTTP handlers and starts the server.
package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matthewbaird/appdeck/internal/ai"
	"github.com/matthewbaird/appdeck/internal/preview/engine"
	"github.com/matthewbaird/appdeck/internal/preview/session"
	"github.com/matthewbaird/appdeck/internal/preview/wire"
	"github.com/matthewbaird/appdeck/internal/registry"
)

// Config holds server configuration.
type Config struct {
	Port int
	Apps registry.Store
	// AIEndpoint is the external AI execution service. Empty disables
	// ai actions (they take their failure path).
	AIEndpoint string
	// PreviewIdleTimeout bounds how long an inactive preview is kept.
	PreviewIdleTimeout time.Duration
}

// Router builds the chi router with all routes registered.
func Router(cfg Config) chi.Router {
	var aiExec ai.Executor
	if cfg.AIEndpoint != "" {
		aiExec = ai.NewClient(cfg.AIEndpoint)
	}
	idle := cfg.PreviewIdleTimeout
	if idle <= 0 {
		idle = 30 * time.Minute
	}

	sessions := session.NewManager(idle)
	eng := engine.New(aiExec)
	previews := wire.NewHandler(sessions, eng)

	r := chi.NewRouter()
	r.Use(recovery, logging)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	NewAppHandler(cfg.Apps, previews).RegisterRoutes(r)
	return r
}

// Run starts the HTTP server and shuts it down when ctx is cancelled.
func Run(ctx context.Context, cfg Config) error {
	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: Router(cfg),
	}

	log.Printf("server: listening on %s", addr)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
