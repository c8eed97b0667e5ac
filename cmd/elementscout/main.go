package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/v0xg/elementscout/internal/ai"
	"github.com/v0xg/elementscout/internal/config"
	"github.com/v0xg/elementscout/internal/crawler"
	"github.com/v0xg/elementscout/internal/pipeline"
	"github.com/v0xg/elementscout/internal/snapshot"
)

var (
	provider  string
	model     string
	browser   string
	chunkSize int
	verbose   bool
	profile   string

	cfg config.Config
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "elementscout",
		Short: "Find and classify the interactive elements of a web page using AI",
		Long: `elementscout renders a web page, extracts its buttons, inputs, links and selects,
and asks a language model to describe how each one can be interacted with.

Example:
  elementscout interactions "https://myapp.com"
  elementscout locate "https://myapp.com" "log in"
  elementscout script "fill email with test@example.com" --interactions-file results.txt
  elementscout diff "https://myapp.com" --alternatives`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (silently ignore if not found)
			config.LoadEnv()
			cfg = config.Load()
		},
	}

	rootCmd.PersistentFlags().StringVar(&provider, "provider", "", "AI provider: claude, openai, ollama (default: from env or claude)")
	rootCmd.PersistentFlags().StringVar(&model, "model", "", "Specific model override")
	rootCmd.PersistentFlags().StringVar(&browser, "browser", "", "Page fetcher: rod, chromedp, playwright, http (default: from env or rod)")
	rootCmd.PersistentFlags().IntVar(&chunkSize, "chunk-size", 0, "Maximum characters of element markup per model request (default: from env or 1000)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show detailed progress")
	rootCmd.PersistentFlags().StringVar(&profile, "profile", "", "Chrome/Chromium profile directory for authenticated sessions (close browser first)")

	rootCmd.AddCommand(
		newInteractionsCmd(),
		newLocateCmd(),
		newScriptCmd(),
		newSnapshotCmd(),
		newDiffCmd(),
		newServeCmd(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func selectedProvider() string {
	if provider != "" {
		return provider
	}
	return cfg.Provider
}

func newClient() (ai.Client, error) {
	selected := model
	if selected == "" {
		selected = cfg.Model
	}
	return ai.NewProvider(selectedProvider(), selected, ai.Options{
		BaseURL:   cfg.ModelBaseURL,
		MaxTokens: cfg.MaxTokens,
		Timeout:   cfg.ModelTimeout,
	})
}

func newFetcher() (crawler.Fetcher, error) {
	name := browser
	if name == "" {
		name = cfg.Browser
	}
	profileDir := profile
	if profileDir == "" {
		profileDir = cfg.ProfileDir
	}
	return crawler.New(name, crawler.Options{
		Width:      cfg.ViewportWidth,
		Height:     cfg.ViewportHeight,
		Timeout:    cfg.FetchTimeout,
		Settle:     cfg.FetchSettle,
		ProfileDir: profileDir,
	})
}

func maxChunkSize() int {
	if chunkSize > 0 {
		return chunkSize
	}
	return cfg.MaxChunkSize
}

func loadPrompts() (ai.Prompts, error) {
	return ai.LoadPrompts(ai.PromptFiles{
		Classify:    cfg.ClassifyPrompt,
		Locate:      cfg.LocatePrompt,
		Script:      cfg.ScriptPrompt,
		Missing:     cfg.MissingPrompt,
		Alternative: cfg.AlternativePrompt,
	})
}

func newLogger() zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).
		With().Timestamp().Logger()
}

func newSnapshotStore(logger zerolog.Logger) *snapshot.Store {
	return snapshot.NewStore(cfg.SnapshotDir, uint(cfg.ThumbnailWidth), logger)
}

// newAnalyzer wires the fetcher and classifier into a pipeline analyzer
func newAnalyzer(fetcher crawler.Fetcher, client ai.Client, prompts ai.Prompts, logger zerolog.Logger) *pipeline.Analyzer {
	classifier := ai.NewClassifier(client, prompts.Classify)
	return pipeline.NewAnalyzer(fetcher, classifier.Classify, maxChunkSize(), logger)
}

// progress prints a status line on stderr so stdout only carries results
func progress(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format, args...)
}

func logVerbose(format string, args ...interface{}) {
	if verbose {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
}
