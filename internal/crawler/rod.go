package crawler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// RodFetcher renders pages in a headless Chromium driven by Rod.
// Every call launches its own browser and tears it down before returning.
type RodFetcher struct {
	opts Options
}

// NewRodFetcher creates a Rod backed fetcher
func NewRodFetcher(opts Options) *RodFetcher {
	return &RodFetcher{opts: opts.withDefaults()}
}

// Capture holds the rendered markup and a PNG screenshot of one page
type Capture struct {
	URL        string
	Title      string
	HTML       string
	Screenshot []byte
	IsSPA      bool
}

// Fetch navigates to url, waits for the network to go idle and returns the document markup
func (f *RodFetcher) Fetch(ctx context.Context, url string) (string, error) {
	c, err := f.render(ctx, url, false)
	if err != nil {
		return "", err
	}
	return c.HTML, nil
}

// Capture is like Fetch but also grabs a viewport screenshot
func (f *RodFetcher) Capture(ctx context.Context, url string) (*Capture, error) {
	return f.render(ctx, url, true)
}

func (f *RodFetcher) render(ctx context.Context, url string, screenshot bool) (*Capture, error) {
	opts := f.opts
	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	// Launch headless browser
	path, _ := launcher.LookPath()
	l := launcher.New().Context(ctx).Bin(path).Headless(true)
	if opts.ProfileDir != "" {
		l = l.UserDataDir(opts.ProfileDir)
	} else {
		// Cleanup deletes the user data dir
		defer l.Cleanup()
	}

	u, err := l.Launch()
	if err != nil {
		return nil, &FetchError{URL: url, Err: fmt.Errorf("launch browser: %w", err)}
	}

	browser := rod.New().ControlURL(u).Context(ctx)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, &FetchError{URL: url, Err: fmt.Errorf("connect browser: %w", err)}
	}
	defer browser.Close()

	page, err := browser.Page(proto.TargetCreateTarget{URL: url})
	if err != nil {
		return nil, &FetchError{URL: url, Err: fmt.Errorf("open page: %w", err)}
	}

	err = page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             opts.Width,
		Height:            opts.Height,
		DeviceScaleFactor: 1,
	})
	if err != nil {
		return nil, &FetchError{URL: url, Err: fmt.Errorf("set viewport: %w", err)}
	}

	if err := page.WaitLoad(); err != nil {
		return nil, &FetchError{URL: url, Err: fmt.Errorf("wait load: %w", err)}
	}

	// Don't hang on persistent connections (WebSockets, polling, etc.)
	page.Timeout(5*time.Second).WaitRequestIdle(opts.Settle, nil, nil, nil)()

	isSPA := detectSPA(page)
	if isSPA {
		// Frameworks hydrate after load, give them a moment to render controls
		waitForInteractiveElements(ctx, page, 5*time.Second)
	}

	html, err := page.HTML()
	if err != nil {
		return nil, &FetchError{URL: url, Err: fmt.Errorf("read document: %w", err)}
	}

	c := &Capture{URL: url, HTML: html, IsSPA: isSPA}
	if info, err := page.Info(); err == nil {
		c.Title = info.Title
	}

	if screenshot {
		data, err := page.Screenshot(false, &proto.PageCaptureScreenshot{
			Format: proto.PageCaptureScreenshotFormatPng,
		})
		if err != nil {
			return nil, &FetchError{URL: url, Err: fmt.Errorf("screenshot: %w", err)}
		}
		c.Screenshot = data
	}

	return c, nil
}

// waitForInteractiveElements polls until interactive elements appear or timeout
func waitForInteractiveElements(ctx context.Context, page *rod.Page, timeout time.Duration) {
	deadline := time.Now().Add(timeout)
	checkInterval := 200 * time.Millisecond

	for time.Now().Before(deadline) {
		res, err := page.Eval(`() => document.querySelectorAll('button, input, a, select').length`)
		if err == nil && res.Value.Int() > 0 {
			time.Sleep(300 * time.Millisecond)
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(checkInterval):
		}
	}
}

// detectSPA checks if the page is a Single Page Application
func detectSPA(page *rod.Page) bool {
	res, err := page.Eval(`() => {
		// React
		if (window.__REACT_DEVTOOLS_GLOBAL_HOOK__ || document.querySelector('[data-reactroot]') || document.querySelector('#__next')) return true;
		// Vue
		if (window.__VUE__ || document.querySelector('[data-v-]')) return true;
		// Angular
		if (window.ng || document.querySelector('[ng-version]') || document.querySelector('app-root')) return true;
		// Svelte
		if (document.querySelector('[class*="svelte-"]')) return true;
		return false;
	}`)
	if err != nil {
		return false
	}
	return res.Value.Bool()
}
