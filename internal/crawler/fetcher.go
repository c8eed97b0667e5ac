package crawler

import (
	"context"
	"fmt"
	"time"
)

// Fetcher turns a URL into the rendered document markup
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// FetchError reports a navigation or timeout failure for one URL
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Options configures the fetcher behavior
type Options struct {
	Width      int
	Height     int
	Timeout    time.Duration
	Settle     time.Duration // how long the network must stay idle before the page counts as loaded
	ProfileDir string        // Chrome/Chromium profile directory for authenticated sessions
	UserAgent  string
}

func (o Options) withDefaults() Options {
	if o.Width == 0 {
		o.Width = 1280
	}
	if o.Height == 0 {
		o.Height = 720
	}
	if o.Timeout == 0 {
		o.Timeout = 30 * time.Second
	}
	if o.Settle == 0 {
		o.Settle = 500 * time.Millisecond
	}
	if o.UserAgent == "" {
		o.UserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	}
	return o
}

// Backends lists the fetcher names accepted by New
var Backends = []string{"rod", "chromedp", "playwright", "http"}

// New creates a fetcher for the named browser backend
func New(name string, opts Options) (Fetcher, error) {
	opts = opts.withDefaults()
	switch name {
	case "", "rod":
		return &RodFetcher{opts: opts}, nil
	case "chromedp", "chrome":
		return &ChromedpFetcher{opts: opts}, nil
	case "playwright", "pw":
		return &PlaywrightFetcher{opts: opts}, nil
	case "http", "static":
		return NewHTTPFetcher(opts), nil
	default:
		return nil, fmt.Errorf("unknown browser backend: %s (supported: rod, chromedp, playwright, http)", name)
	}
}
