package ai

import (
	"context"
	"fmt"
	"strings"
)

// Classifier turns one chunk of element markup into interaction descriptors
type Classifier struct {
	client Client
	prompt string
}

// NewClassifier creates a classifier using the given system instruction
func NewClassifier(client Client, prompt string) *Classifier {
	return &Classifier{client: client, prompt: prompt}
}

// Classify issues exactly one model request for chunk and returns the raw answer.
// The answer is not parsed or validated.
func (c *Classifier) Classify(ctx context.Context, chunk string) (string, error) {
	return c.client.Complete(ctx, c.prompt, buildClassifyInput(chunk))
}

// Locator picks the single element that best matches a goal
type Locator struct {
	client Client
	prompt string
}

// NewLocator creates a locator using the given system instruction
func NewLocator(client Client, prompt string) *Locator {
	return &Locator{client: client, prompt: prompt}
}

// Locate joins the classification results and asks the model for the matching element
func (l *Locator) Locate(ctx context.Context, results []string, goal string) (string, error) {
	return l.client.Complete(ctx, l.prompt, buildLocateInput(strings.Join(results, "\n"), goal))
}

// Synthesizer writes an automation script for a goal
type Synthesizer struct {
	client Client
	prompt string
}

// NewSynthesizer creates a synthesizer using the given system instruction
func NewSynthesizer(client Client, prompt string) *Synthesizer {
	return &Synthesizer{client: client, prompt: prompt}
}

// Script asks the model for code that reaches goal using only the given interactions
func (s *Synthesizer) Script(ctx context.Context, goal, interactions string) (string, error) {
	return s.client.Complete(ctx, s.prompt, buildScriptInput(interactions, goal))
}

// Detector compares two states of a page and proposes replacements for what went missing
type Detector struct {
	client            Client
	missingPrompt     string
	alternativePrompt string
}

// NewDetector creates a detector using the missing-element and alternative instructions
func NewDetector(client Client, missingPrompt, alternativePrompt string) *Detector {
	return &Detector{client: client, missingPrompt: missingPrompt, alternativePrompt: alternativePrompt}
}

// MissingElements asks which elements of before are gone from after.
// Both sides are newline separated element markup. The answer is returned raw.
func (d *Detector) MissingElements(ctx context.Context, before, after string) (string, error) {
	return d.client.Complete(ctx, d.missingPrompt, buildMissingInput(before, after))
}

// Alternative asks for the candidate that best replaces a missing element
func (d *Detector) Alternative(ctx context.Context, element, candidates string) (string, error) {
	input, err := buildAlternativeInput(element, candidates)
	if err != nil {
		return "", fmt.Errorf("encode alternative request: %w", err)
	}
	return d.client.Complete(ctx, d.alternativePrompt, input)
}
