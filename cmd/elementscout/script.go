package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/v0xg/elementscout/internal/ai"
	"github.com/v0xg/elementscout/internal/crawler"
	"github.com/v0xg/elementscout/internal/snapshot"
)

var (
	interactions     string
	interactionsFile string
	scriptURL        string
	output           string
)

func newScriptCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "script <goal>",
		Short: "Generate a Playwright script that reaches a goal",
		Long: `script asks the model for an automation script that uses only the given interactions.
Interactions come from --interactions, --interactions-file, or a fresh analysis of --url.

Example:
  elementscout script "Click the login button" --interactions '[["login-btn", "button", "Log In", "click"]]'`,
		Args: cobra.ExactArgs(1),
		RunE: runScript,
	}
	cmd.Flags().StringVar(&interactions, "interactions", "", "Interaction descriptors as text")
	cmd.Flags().StringVar(&interactionsFile, "interactions-file", "", "Read interaction descriptors from this file")
	cmd.Flags().StringVar(&scriptURL, "url", "", "Analyze this page to obtain the interactions")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the script to this file")
	return cmd
}

func runScript(cmd *cobra.Command, args []string) error {
	goal := args[0]

	logger := newLogger()
	files := snapshot.NewFiles(logger)

	client, err := newClient()
	if err != nil {
		return fmt.Errorf("AI provider init failed: %w", err)
	}
	prompts, err := loadPrompts()
	if err != nil {
		return err
	}

	text := interactions
	switch {
	case text != "":
	case interactionsFile != "":
		text = files.Read(interactionsFile)
	case scriptURL != "":
		results, err := analyzePage(cmd.Context(), scriptURL, client, prompts, logger)
		if err != nil {
			return err
		}
		text = strings.Join(results, "\n")
	}
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("no interactions provided (use --interactions, --interactions-file or --url)")
	}

	progress("→ Generating script via %s... ", selectedProvider())
	script, err := ai.NewSynthesizer(client, prompts.Script).Script(cmd.Context(), goal, text)
	if err != nil {
		progress("failed\n")
		return fmt.Errorf("script generation failed: %w", err)
	}
	progress("done\n")

	if output != "" {
		if files.Save(output, script) {
			progress("✓ Saved to %s\n", output)
		}
		return nil
	}
	fmt.Println(script)
	return nil
}

// capturer is implemented by fetchers that can also screenshot the page
type capturer interface {
	Capture(ctx context.Context, url string) (*crawler.Capture, error)
}

func newSnapshotCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "snapshot <url>",
		Short: "Store the page HTML, a screenshot and a thumbnail for later offline analysis",
		Args:  cobra.ExactArgs(1),
		RunE:  runSnapshot,
	}
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	url := args[0]
	logger := newLogger()

	fetcher, err := newFetcher()
	if err != nil {
		return err
	}

	progress("→ Capturing %s... ", url)
	var html string
	var screenshot []byte
	if c, ok := fetcher.(capturer); ok {
		capture, err := c.Capture(cmd.Context(), url)
		if err != nil {
			progress("failed\n")
			return fmt.Errorf("capture failed: %w", err)
		}
		html, screenshot = capture.HTML, capture.Screenshot
		logVerbose("  title: %s (spa: %t)", capture.Title, capture.IsSPA)
	} else {
		html, err = fetcher.Fetch(cmd.Context(), url)
		if err != nil {
			progress("failed\n")
			return fmt.Errorf("fetch failed: %w", err)
		}
	}
	progress("done\n")

	snap, err := newSnapshotStore(logger).Take(url, html, screenshot)
	if err != nil {
		return fmt.Errorf("snapshot failed: %w", err)
	}
	progress("✓ Saved to %s\n", snap.Dir)
	return nil
}
