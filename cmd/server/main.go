// docextract HTTP server.
//
//	@title			docextract API
//	@version		1.0
//	@description	Extracts structured fields from invoice-like PDFs with several language model providers.
//	@BasePath		/api/v1
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"docextract/internal/bootstrap"
	"docextract/internal/config"
	"docextract/internal/handler"
	"docextract/internal/router"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	app, err := bootstrap.Build(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize pipeline: %w", err)
	}

	srv := newServer(cfg, app)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case sig := <-quit:
		log.Printf("Received %s, shutting down", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.WriteTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

// newServer wires the handlers and router around a built pipeline.
func newServer(cfg *config.Config, app *bootstrap.App) *http.Server {
	// Initialize handlers
	extractH := handler.NewExtractHandler(app.Service)
	legacyH := handler.NewLegacyHandler(app.Service)
	healthH := handler.NewHealthHandler(map[string]handler.ReadinessCheck{
		"providers": func() error {
			if len(app.Dispatcher.ProviderIDs()) == 0 {
				return errors.New("no providers configured")
			}
			return nil
		},
	})

	// Setup router
	r := router.Setup(extractH, legacyH, healthH, router.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		MaxUploadBytes: cfg.Server.MaxUploadBytes(),
	})

	return &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
}
