package crawler

import (
	"context"
	"fmt"

	"github.com/playwright-community/playwright-go"
)

// PlaywrightFetcher renders pages in Playwright's Chromium and waits for network idle
type PlaywrightFetcher struct {
	opts Options
}

// NewPlaywrightFetcher creates a Playwright backed fetcher
func NewPlaywrightFetcher(opts Options) *PlaywrightFetcher {
	return &PlaywrightFetcher{opts: opts.withDefaults()}
}

// Fetch navigates to url, waits for network idle and returns the page content.
// Playwright has no context support, so ctx is only checked before launching.
func (f *PlaywrightFetcher) Fetch(ctx context.Context, url string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", &FetchError{URL: url, Err: err}
	}

	pw, err := playwright.Run()
	if err != nil {
		return "", &FetchError{URL: url, Err: fmt.Errorf("start pw failed: %w", err)}
	}
	defer func() { _ = pw.Stop() }()

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	})
	if err != nil {
		return "", &FetchError{URL: url, Err: fmt.Errorf("launch chromium: %w", err)}
	}
	defer func() { _ = browser.Close() }()

	page, err := browser.NewPage(playwright.BrowserNewPageOptions{
		Viewport:  &playwright.Size{Width: f.opts.Width, Height: f.opts.Height},
		UserAgent: playwright.String(f.opts.UserAgent),
	})
	if err != nil {
		return "", &FetchError{URL: url, Err: fmt.Errorf("new page: %w", err)}
	}

	_, err = page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateNetworkidle,
		Timeout:   playwright.Float(float64(f.opts.Timeout.Milliseconds())),
	})
	if err != nil {
		return "", &FetchError{URL: url, Err: err}
	}

	html, err := page.Content()
	if err != nil {
		return "", &FetchError{URL: url, Err: fmt.Errorf("read content: %w", err)}
	}
	return html, nil
}
