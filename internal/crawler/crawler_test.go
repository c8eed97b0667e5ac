package crawler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNewSelectsBackend(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"", "*crawler.RodFetcher"},
		{"rod", "*crawler.RodFetcher"},
		{"chromedp", "*crawler.ChromedpFetcher"},
		{"playwright", "*crawler.PlaywrightFetcher"},
		{"http", "*crawler.HTTPFetcher"},
	}
	for _, tc := range cases {
		f, err := New(tc.name, Options{})
		if err != nil {
			t.Fatalf("New(%q): %v", tc.name, err)
		}
		got := fmt.Sprintf("%T", f)
		if got != tc.want {
			t.Fatalf("New(%q) = %s, want %s", tc.name, got, tc.want)
		}
	}

	if _, err := New("lynx", Options{}); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}

func TestHTTPFetcherReturnsBody(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(`<html><body><button id="b1">Go</button></body></html>`))
	}))
	defer srv.Close()

	f := NewHTTPFetcher(Options{UserAgent: "scout-test"})
	html, err := f.Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if !strings.Contains(html, `<button id="b1">Go</button>`) {
		t.Fatalf("unexpected body: %s", html)
	}
	if gotUA != "scout-test" {
		t.Fatalf("expected user agent to be sent, got %q", gotUA)
	}
}

func TestHTTPFetcherWrapsStatusErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer srv.Close()

	_, err := NewHTTPFetcher(Options{}).Fetch(context.Background(), srv.URL)
	if err == nil {
		t.Fatalf("expected error")
	}
	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected *FetchError, got %T", err)
	}
	if fe.URL != srv.URL {
		t.Fatalf("expected url %q, got %q", srv.URL, fe.URL)
	}
	if !strings.Contains(err.Error(), "410") {
		t.Fatalf("expected status in error, got %v", err)
	}
}

func TestOptionsDefaults(t *testing.T) {
	o := Options{Width: 800}.withDefaults()
	if o.Width != 800 || o.Height != 720 {
		t.Fatalf("unexpected viewport %dx%d", o.Width, o.Height)
	}
	if o.Timeout == 0 || o.Settle == 0 || o.UserAgent == "" {
		t.Fatalf("expected defaults to be filled: %+v", o)
	}
}
