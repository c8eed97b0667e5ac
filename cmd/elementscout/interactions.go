package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/v0xg/elementscout/internal/ai"
	"github.com/v0xg/elementscout/internal/crawler"
	"github.com/v0xg/elementscout/internal/extract"
	"github.com/v0xg/elementscout/internal/pipeline"
	"github.com/v0xg/elementscout/internal/snapshot"
)

var (
	htmlFile     string
	fromSnapshot bool
	saveHTML     string
	saveElements string
	saveResults  string
	strict       bool
)

func addPageFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&htmlFile, "html-file", "", "Analyze a saved HTML file instead of fetching the URL")
	cmd.Flags().BoolVar(&fromSnapshot, "from-snapshot", false, "Analyze the newest stored snapshot of the URL's host instead of fetching it")
	cmd.Flags().StringVar(&saveHTML, "save-html", "", "Write the fetched HTML to this file")
	cmd.Flags().StringVar(&saveElements, "save-elements", "", "Write the extracted element markup to this file")
	cmd.Flags().StringVar(&saveResults, "save-results", "", "Write the classification results to this file")
}

func newInteractionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "interactions <url>",
		Short: "Classify the interactive elements of a page",
		Args:  cobra.ExactArgs(1),
		RunE:  runInteractions,
	}
	addPageFlags(cmd)
	cmd.Flags().BoolVar(&strict, "strict", false, "Parse the model output into descriptors and fail on malformed answers")
	return cmd
}

func newLocateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "locate <url> <goal>",
		Short: "Find the single element of a page that matches a goal",
		Args:  cobra.ExactArgs(2),
		RunE:  runLocate,
	}
	addPageFlags(cmd)
	return cmd
}

func runInteractions(cmd *cobra.Command, args []string) error {
	logger := newLogger()
	client, err := newClient()
	if err != nil {
		return fmt.Errorf("AI provider init failed: %w", err)
	}
	prompts, err := loadPrompts()
	if err != nil {
		return err
	}

	results, err := analyzePage(cmd.Context(), args[0], client, prompts, logger)
	if err != nil {
		return err
	}

	if strict {
		descriptors, err := ai.ParseResults(results)
		if err != nil {
			return fmt.Errorf("model output rejected: %w", err)
		}
		out, err := json.MarshalIndent(descriptors, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal descriptors: %w", err)
		}
		fmt.Println(string(out))
		return nil
	}

	for _, r := range results {
		fmt.Println(r)
	}
	return nil
}

func runLocate(cmd *cobra.Command, args []string) error {
	url := args[0]
	goal := args[1]

	logger := newLogger()
	client, err := newClient()
	if err != nil {
		return fmt.Errorf("AI provider init failed: %w", err)
	}
	prompts, err := loadPrompts()
	if err != nil {
		return err
	}

	results, err := analyzePage(cmd.Context(), url, client, prompts, logger)
	if err != nil {
		return err
	}

	progress("→ Locating element for %q... ", goal)
	element, err := ai.NewLocator(client, prompts.Locate).Locate(cmd.Context(), results, goal)
	if err != nil {
		progress("failed\n")
		return fmt.Errorf("locate failed: %w", err)
	}
	progress("done\n")

	fmt.Println(element)
	return nil
}

// analyzePage loads the page markup and runs it through the classification pipeline
func analyzePage(ctx context.Context, url string, client ai.Client, prompts ai.Prompts, logger zerolog.Logger) ([]string, error) {
	files := snapshot.NewFiles(logger)

	logVerbose("Starting elementscout")
	logVerbose("  URL: %s", url)
	logVerbose("  Provider: %s", selectedProvider())

	fetcher, err := newFetcher()
	if err != nil {
		return nil, err
	}
	html, err := loadHTML(ctx, url, fetcher, files, logger)
	if err != nil {
		return nil, err
	}
	if saveHTML != "" {
		files.Save(saveHTML, html)
	}

	analyzer := newAnalyzer(fetcher, client, prompts, logger)
	analyzer.SetHooks(pipeline.Hooks{
		Extracted: func(elements []string, chunks []extract.Chunk) {
			if saveElements != "" {
				files.Save(saveElements, extract.Join(elements))
			}
			progress("→ Classifying %d elements in %d chunks via %s... ", len(elements), len(chunks), selectedProvider())
			if verbose {
				progress("\n")
			}
		},
		Classifying: func(n, total int, chunk string) {
			logVerbose("  [%d/%d] classifying chunk (%d chars)", n, total, len(chunk))
		},
	})

	results, err := analyzer.Analyze(ctx, html)
	if err != nil {
		progress("failed\n")
		return nil, fmt.Errorf("classification failed: %w", err)
	}
	progress("done (%d results)\n", len(results))

	if saveResults != "" {
		files.SaveLines(saveResults, results)
	}
	return results, nil
}

func loadHTML(ctx context.Context, url string, fetcher crawler.Fetcher, files *snapshot.Files, logger zerolog.Logger) (string, error) {
	switch {
	case htmlFile != "":
		html := files.Read(htmlFile)
		if html == "" {
			return "", fmt.Errorf("no HTML read from %s", htmlFile)
		}
		return html, nil
	case fromSnapshot:
		html, err := newSnapshotStore(logger).Latest(url)
		if err != nil {
			return "", fmt.Errorf("load snapshot: %w", err)
		}
		return html, nil
	}

	progress("→ Fetching %s... ", url)
	html, err := fetcher.Fetch(ctx, url)
	if err != nil {
		progress("failed\n")
		return "", fmt.Errorf("fetch failed: %w", err)
	}
	progress("done (%.1f KB)\n", float64(len(html))/1024)
	return html, nil
}
