package pipeline

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/v0xg/elementscout/internal/ai"
	"github.com/v0xg/elementscout/internal/crawler"
	"github.com/v0xg/elementscout/internal/extract"
)

// ChangeDetector asks the model which elements disappeared and what replaces them
type ChangeDetector interface {
	MissingElements(ctx context.Context, before, after string) (string, error)
	Alternative(ctx context.Context, element, candidates string) (string, error)
}

// Replacement pairs a missing element with the substitute the model picked
type Replacement struct {
	Element     string `json:"element"`
	Alternative string `json:"alternative"`
}

// Changes is the outcome of comparing a stored page with its current state.
// Missing is the raw model answer.
type Changes struct {
	Missing      string        `json:"missing"`
	Replacements []Replacement `json:"replacements,omitempty"`
}

const noChanges = "[]"

// DetectChanges extracts the interactive elements of both documents and asks the
// detector which ones of before are gone in after. With alternatives set, the
// answer is parsed and every missing element is matched against the current
// elements, one model call each, in order. Identical element lists skip the model.
func DetectChanges(ctx context.Context, before, after string, detector ChangeDetector, alternatives bool) (*Changes, error) {
	beforeElements, err := extract.Elements(before)
	if err != nil {
		return nil, fmt.Errorf("extract baseline elements: %w", err)
	}
	afterElements, err := extract.Elements(after)
	if err != nil {
		return nil, fmt.Errorf("extract current elements: %w", err)
	}

	previous := extract.Join(beforeElements)
	current := extract.Join(afterElements)
	if previous == current {
		return &Changes{Missing: noChanges}, nil
	}

	missing, err := detector.MissingElements(ctx, previous, current)
	if err != nil {
		return nil, fmt.Errorf("detect missing elements: %w", err)
	}
	changes := &Changes{Missing: missing}
	if !alternatives {
		return changes, nil
	}

	elements, err := ai.ElementObjects(missing)
	if err != nil {
		return nil, fmt.Errorf("parse missing elements: %w", err)
	}
	for i, element := range elements {
		alt, err := detector.Alternative(ctx, element, current)
		if err != nil {
			return nil, fmt.Errorf("find alternative %d/%d: %w", i+1, len(elements), err)
		}
		changes.Replacements = append(changes.Replacements, Replacement{Element: element, Alternative: alt})
	}
	return changes, nil
}

// BaselineFunc returns the stored markup a page is compared against
type BaselineFunc func(url string) (string, error)

// ChangeTracker compares the stored baseline of a page with a fresh fetch
type ChangeTracker struct {
	fetcher  crawler.Fetcher
	baseline BaselineFunc
	detector ChangeDetector
	logger   zerolog.Logger
}

func NewChangeTracker(fetcher crawler.Fetcher, baseline BaselineFunc, detector ChangeDetector, logger zerolog.Logger) *ChangeTracker {
	return &ChangeTracker{
		fetcher:  fetcher,
		baseline: baseline,
		detector: detector,
		logger:   logger,
	}
}

// Modifications loads the baseline of url, fetches the page again and compares both
func (t *ChangeTracker) Modifications(ctx context.Context, url string, alternatives bool) (*Changes, error) {
	before, err := t.baseline(url)
	if err != nil {
		return nil, fmt.Errorf("load baseline: %w", err)
	}
	after, err := t.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	t.logger.Debug().Str("url", url).Int("bytes", len(after)).Msg("page fetched")
	return t.Compare(ctx, before, after, alternatives)
}

// Compare runs DetectChanges over two already loaded documents
func (t *ChangeTracker) Compare(ctx context.Context, before, after string, alternatives bool) (*Changes, error) {
	changes, err := DetectChanges(ctx, before, after, t.detector, alternatives)
	if err != nil {
		return nil, err
	}
	t.logger.Debug().Int("replacements", len(changes.Replacements)).Msg("page compared")
	return changes, nil
}
