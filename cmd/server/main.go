package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SaieshPriolkar/coinvision/internal/api"
	"github.com/SaieshPriolkar/coinvision/internal/catalog"
	"github.com/SaieshPriolkar/coinvision/internal/config"
	"github.com/SaieshPriolkar/coinvision/internal/db"
	"github.com/SaieshPriolkar/coinvision/internal/external"
	"github.com/SaieshPriolkar/coinvision/internal/notifications"
	"github.com/SaieshPriolkar/coinvision/internal/quiz"
)

const banner = `
╔══════════════════════════════════════╗
║       Coinvision Backend v0.1        ║
║                                      ║
╚══════════════════════════════════════╝
`

func main() {
	fmt.Print(banner)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load error: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	cfg.Print()

	// Database
	fmt.Printf("\n[DB] Connecting to %s:%d/%s ...\n", cfg.DBHost, cfg.DBPort, cfg.DBName)
	pool, err := db.Connect(cfg.DSN())
	if err != nil {
		fmt.Fprintf(os.Stderr, "[DB] Connection failed: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		pool.Close()
		fmt.Println("[DB] Connection pool closed")
	}()

	if err := db.TestConnection(pool); err != nil {
		fmt.Fprintf(os.Stderr, "[DB] Test query failed: %v\n", err)
		os.Exit(1)
	}

	if err := db.EnsureSchema(pool); err != nil {
		fmt.Fprintf(os.Stderr, "[DB] Schema setup failed: %v\n", err)
		os.Exit(1)
	}

	// Graceful shutdown context
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// External providers. Each one is optional: a missing key leaves the
	// client nil and the matching endpoints answer 503.
	var fred api.SeriesFetcher
	if cfg.FREDAPIKey != "" {
		fred = external.NewFREDClient(cfg.FREDAPIKey, external.FREDOptions{
			Lenient: cfg.FetchPartialResults,
		})
	}

	var rates api.RateClient
	if cfg.CurrencyLayerAPIKey != "" {
		rates = external.NewCurrencyLayerClient(cfg.CurrencyLayerAPIKey, external.CurrencyLayerOptions{})
	}

	var generator api.ContentGenerator
	if cfg.GeminiAPIKey != "" {
		gen, err := quiz.NewGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiImageModel)
		if err != nil {
			fmt.Fprintf(os.Stderr, "[QUIZ] Generator init failed: %v\n", err)
			os.Exit(1)
		}
		generator = gen
	}

	// Notifications
	notify := notifications.NewSender(cfg.WebhookURL, cfg.ServiceName)

	srv := api.NewServer(pool, catalog.Default(), fred, rates, generator, notify,
		cfg.APIPort, cfg.APIKey, cfg.CORSAllowOrigin)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fmt.Fprintf(os.Stderr, "[API] Server error: %v\n", err)
			os.Exit(1)
		}
	}()

	fmt.Println("\nAll services started successfully")

	// Wait for shutdown signal
	<-ctx.Done()
	fmt.Println("\nShutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		fmt.Fprintf(os.Stderr, "[API] Shutdown error: %v\n", err)
	}
	fmt.Println("[API] Server closed")
	fmt.Println("Shutdown complete")
}
