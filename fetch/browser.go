package fetch

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/chromedp"
)

// BrowserOptions configures a BrowserFetcher.
type BrowserOptions struct {
	ChromeBin string
	// UserAgent is asked once per fetch; each tab overrides its user agent
	// with the answer. Nil or empty keeps the browser default.
	UserAgent func() string
	Timeout   time.Duration
}

// BrowserFetcher renders pages in a headless Chrome shared across fetches.
type BrowserFetcher struct {
	browserCtx context.Context
	cancel     context.CancelFunc
	timeout    time.Duration
	userAgent  func() string
}

// NewBrowserFetcher starts a headless browser. Call Close when done.
func NewBrowserFetcher(opts BrowserOptions) (*BrowserFetcher, error) {
	chromeBin := opts.ChromeBin
	if chromeBin == "" {
		chromeBin = findChromeBinary()
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-setuid-sandbox", true),
	)
	if chromeBin != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(chromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	// Suppress chromedp log noise
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))

	// Start the browser now so a missing binary fails here rather than on the first page.
	if err := chromedp.Run(browserCtx); err != nil {
		cancelBrowser()
		cancelAlloc()
		return nil, fmt.Errorf("start browser %q: %w", chromeBin, err)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &BrowserFetcher{
		browserCtx: browserCtx,
		cancel: func() {
			cancelBrowser()
			cancelAlloc()
		},
		timeout:   timeout,
		userAgent: opts.UserAgent,
	}, nil
}

// Fetch opens url in a fresh tab and returns the rendered document.
func (b *BrowserFetcher) Fetch(ctx context.Context, url string) (*Page, error) {
	tabCtx, cancelTab := chromedp.NewContext(b.browserCtx)
	defer cancelTab()
	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, b.timeout)
	defer cancelTimeout()

	stop := context.AfterFunc(ctx, cancelTab)
	defer stop()

	if override := b.userAgentOverride(); override != nil {
		if err := chromedp.Run(tabCtx, override); err != nil {
			return nil, fmt.Errorf("set user agent for %s: %w", url, err)
		}
	}

	resp, err := chromedp.RunResponse(tabCtx, chromedp.Navigate(url))
	if err != nil {
		return nil, fmt.Errorf("navigate %s: %w", url, err)
	}

	var html string
	if err := chromedp.Run(tabCtx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return nil, fmt.Errorf("read %s: %w", url, err)
	}

	status := 200
	if resp != nil {
		status = int(resp.Status)
	}
	return &Page{URL: url, StatusCode: status, Body: []byte(html)}, nil
}

func (b *BrowserFetcher) userAgentOverride() *emulation.SetUserAgentOverrideParams {
	if b.userAgent == nil {
		return nil
	}
	ua := b.userAgent()
	if ua == "" {
		return nil
	}
	return emulation.SetUserAgentOverride(ua)
}

// Close shuts the browser down.
func (b *BrowserFetcher) Close() error {
	b.cancel()
	return nil
}

// findChromeBinary locates a Chrome/Chromium executable, checking CHROME_BIN
// first, then PATH, then common install locations.
func findChromeBinary() string {
	if bin := os.Getenv("CHROME_BIN"); bin != "" {
		return bin
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
