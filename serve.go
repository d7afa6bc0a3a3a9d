package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/pranav244872/skillgap/api"
	"github.com/pranav244872/skillgap/config"
	"github.com/pranav244872/skillgap/logger"
	"github.com/pranav244872/skillgap/skillz"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	// Step 1: Load configuration
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("could not load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Step 2: Set up structured logging
	logger.Setup(cfg.LogLevel)
	slog.Info("configuration loaded", "address", cfg.ServerAddress, "log_level", cfg.LogLevel)

	// Step 3: Initialize the skill processing service
	httpClient := &http.Client{Timeout: cfg.HTTPClientTimeout}
	lightningClient := skillz.NewLightningClient(cfg.LightningAPIURL, cfg.LightningAPIToken, httpClient)
	processor := skillz.NewLLMProcessor(lightningClient)

	// Step 4: Create a new API server instance
	server, err := api.NewServer(cfg, processor)
	if err != nil {
		return fmt.Errorf("could not create the server: %w", err)
	}

	// Step 5: Run until interrupted, then drain in-flight requests
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("starting server", "address", cfg.ServerAddress)
		if err := server.Start(cfg.ServerAddress); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		slog.Info("shutting down server", "timeout", cfg.ShutdownTimeout)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	slog.Info("server stopped")
	return nil
}
