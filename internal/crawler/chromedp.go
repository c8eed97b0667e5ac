package crawler

import (
	"context"

	"github.com/chromedp/chromedp"
)

// ChromedpFetcher renders pages through the Chrome DevTools Protocol with chromedp
type ChromedpFetcher struct {
	opts Options
}

// NewChromedpFetcher creates a chromedp backed fetcher
func NewChromedpFetcher(opts Options) *ChromedpFetcher {
	return &ChromedpFetcher{opts: opts.withDefaults()}
}

func (f *ChromedpFetcher) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Headless,
		chromedp.WindowSize(f.opts.Width, f.opts.Height),
		chromedp.UserAgent(f.opts.UserAgent),
	)
	if f.opts.ProfileDir != "" {
		opts = append(opts, chromedp.UserDataDir(f.opts.ProfileDir))
	}
	return opts
}

// Fetch navigates to url, waits for the body and a settle period, then returns the document markup
func (f *ChromedpFetcher) Fetch(ctx context.Context, url string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, f.opts.Timeout)
	defer cancel()

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, f.allocatorOptions()...)
	defer cancelAlloc()

	tabCtx, cancelTab := chromedp.NewContext(allocCtx)
	defer cancelTab()

	var html string
	err := chromedp.Run(tabCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(f.opts.Settle),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return "", &FetchError{URL: url, Err: err}
	}
	return html, nil
}
