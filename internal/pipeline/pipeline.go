// Package pipeline runs extraction, chunking and per-chunk classification in order.
package pipeline

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/v0xg/elementscout/internal/crawler"
	"github.com/v0xg/elementscout/internal/extract"
)

// ClassifyFunc classifies one chunk of element markup into raw model text
type ClassifyFunc func(ctx context.Context, chunk string) (string, error)

// Hooks observe an analysis run. Nil hooks are skipped.
type Hooks struct {
	// Extracted receives the elements and their chunks before classification starts
	Extracted func(elements []string, chunks []extract.Chunk)
	// Classifying runs before chunk n of total is sent, n counts from 1
	Classifying func(n, total int, chunk string)
}

// Process extracts the interactive elements of html, packs them into chunks of at
// most maxChunkSize characters and classifies every chunk in order. The result has
// one entry per chunk. Any classification error aborts the run without partial results.
func Process(ctx context.Context, html string, classify ClassifyFunc, maxChunkSize int) ([]string, error) {
	return process(ctx, html, classify, maxChunkSize, Hooks{})
}

func process(ctx context.Context, html string, classify ClassifyFunc, maxChunkSize int, hooks Hooks) ([]string, error) {
	elements, err := extract.Elements(html)
	if err != nil {
		return nil, fmt.Errorf("extract elements: %w", err)
	}

	chunks := extract.ChunkElements(elements, maxChunkSize)
	if hooks.Extracted != nil {
		hooks.Extracted(elements, chunks)
	}

	results := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		text := chunk.String()
		if hooks.Classifying != nil {
			hooks.Classifying(i+1, len(chunks), text)
		}
		result, err := classify(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("classify chunk %d/%d: %w", i+1, len(chunks), err)
		}
		results = append(results, result)
	}
	return results, nil
}

// Analyzer fetches pages and runs them through Process
type Analyzer struct {
	fetcher      crawler.Fetcher
	classify     ClassifyFunc
	maxChunkSize int
	hooks        Hooks
	logger       zerolog.Logger
}

// NewAnalyzer creates an analyzer. maxChunkSize <= 0 selects the default budget.
func NewAnalyzer(fetcher crawler.Fetcher, classify ClassifyFunc, maxChunkSize int, logger zerolog.Logger) *Analyzer {
	return &Analyzer{
		fetcher:      fetcher,
		classify:     classify,
		maxChunkSize: maxChunkSize,
		logger:       logger,
	}
}

// SetHooks installs progress hooks for subsequent runs
func (a *Analyzer) SetHooks(hooks Hooks) {
	a.hooks = hooks
}

// Results fetches url and returns the per-chunk classification results
func (a *Analyzer) Results(ctx context.Context, url string) ([]string, error) {
	html, err := a.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	a.logger.Debug().Str("url", url).Int("bytes", len(html)).Msg("page fetched")
	return a.Analyze(ctx, html)
}

// Analyze runs Process over an already fetched document
func (a *Analyzer) Analyze(ctx context.Context, html string) ([]string, error) {
	results, err := process(ctx, html, a.classify, a.maxChunkSize, a.hooks)
	if err != nil {
		return nil, err
	}
	a.logger.Debug().Int("chunks", len(results)).Msg("page classified")
	return results, nil
}
