package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/v0xg/elementscout/internal/ai"
	"github.com/v0xg/elementscout/internal/pipeline"
	"github.com/v0xg/elementscout/internal/snapshot"
)

var (
	beforeFile   string
	alternatives bool
	update       bool
)

func newDiffCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diff <url>",
		Short: "Report the elements that disappeared since the last snapshot of a page",
		Long: `diff compares the interactive elements of the newest stored snapshot of a page
with its current state and asks the model which ones are gone.
With --alternatives the model also picks a replacement for every missing element.

Example:
  elementscout snapshot "https://myapp.com"
  elementscout diff "https://myapp.com" --alternatives --update`,
		Args: cobra.ExactArgs(1),
		RunE: runDiff,
	}
	cmd.Flags().StringVar(&beforeFile, "before-file", "", "Compare against a saved HTML file instead of the newest snapshot")
	cmd.Flags().StringVar(&htmlFile, "html-file", "", "Use a saved HTML file as the current state instead of fetching the URL")
	cmd.Flags().BoolVar(&alternatives, "alternatives", false, "Ask for a replacement of every missing element")
	cmd.Flags().BoolVar(&update, "update", false, "Store the current state as the new snapshot afterwards")
	return cmd
}

func runDiff(cmd *cobra.Command, args []string) error {
	url := args[0]
	logger := newLogger()
	files := snapshot.NewFiles(logger)
	store := newSnapshotStore(logger)

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

	var before string
	if beforeFile != "" {
		before = files.Read(beforeFile)
		if before == "" {
			return fmt.Errorf("no HTML read from %s", beforeFile)
		}
	} else {
		before, err = store.Latest(url)
		if err != nil {
			return fmt.Errorf("load baseline: %w (run `elementscout snapshot %s` first)", err, url)
		}
	}

	after, err := loadHTML(cmd.Context(), url, fetcher, files, logger)
	if err != nil {
		return err
	}

	detector := ai.NewDetector(client, prompts.Missing, prompts.Alternative)
	tracker := pipeline.NewChangeTracker(fetcher, store.Latest, detector, logger)

	progress("→ Comparing elements via %s... ", selectedProvider())
	changes, err := tracker.Compare(cmd.Context(), before, after, alternatives)
	if err != nil {
		progress("failed\n")
		return fmt.Errorf("comparison failed: %w", err)
	}
	progress("done (%d replacements)\n", len(changes.Replacements))

	if update {
		snap, err := store.Take(url, after, nil)
		if err != nil {
			return fmt.Errorf("snapshot failed: %w", err)
		}
		progress("✓ Saved to %s\n", snap.Dir)
	}

	out, err := json.MarshalIndent(changes, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal changes: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
