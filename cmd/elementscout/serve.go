package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/v0xg/elementscout/internal/ai"
	"github.com/v0xg/elementscout/internal/api"
	"github.com/v0xg/elementscout/internal/pipeline"
)

var addr string

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the interactions, element, action-script and modifications endpoints over HTTP",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default: from env or :5001)")
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	if verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(os.Stderr).Level(level).With().Timestamp().Str("service", "elementscout").Logger()

	client, err := newClient()
	if err != nil {
		return fmt.Errorf("AI provider init failed: %w", err)
	}
	prompts, err := loadPrompts()
	if err != nil {
		return err
	}
	fetcher, err := newFetcher()
	if err != nil {
		return err
	}
	store := newSnapshotStore(logger)
	detector := ai.NewDetector(client, prompts.Missing, prompts.Alternative)

	server := api.NewServer(
		newAnalyzer(fetcher, client, prompts, logger),
		ai.NewLocator(client, prompts.Locate),
		ai.NewSynthesizer(client, prompts.Script),
		pipeline.NewChangeTracker(fetcher, store.Latest, detector, logger),
		logger,
	)

	listen := addr
	if listen == "" {
		listen = cfg.HTTPAddr
	}
	httpServer := &http.Server{
		Addr:         listen,
		Handler:      server.Routes(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", listen).Str("provider", selectedProvider()).Msg("listening")
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-cmd.Context().Done():
	}

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
