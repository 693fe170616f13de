// internal/lister/browser.go
package lister

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"
)

// BrowserConfig configures the browser-backed lister.
type BrowserConfig struct {
	Headless  bool
	Timeout   time.Duration
	UserAgent string
}

// BrowserLister renders a listing page in a headless browser before
// extracting anchors. Only needed for archive mirrors that build their
// directory index with JavaScript; the plain HTTPLister covers static
// listings.
type BrowserLister struct {
	allocCtx context.Context
	cancel   context.CancelFunc
	timeout  time.Duration
}

// NewBrowserLister starts a browser allocator with the given configuration.
// Close must be called to release the browser.
func NewBrowserLister(config BrowserConfig) *BrowserLister {
	if config.Timeout == 0 {
		config.Timeout = 60 * time.Second
	}

	opts := []chromedp.ExecAllocatorOption{
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.DisableGPU,
		chromedp.NoSandbox, // Required for Docker environments
	}
	if config.Headless {
		opts = append(opts, chromedp.Headless)
	}
	if config.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(config.UserAgent))
	}

	allocCtx, cancel := chromedp.NewExecAllocator(context.Background(), opts...)

	return &BrowserLister{
		allocCtx: allocCtx,
		cancel:   cancel,
		timeout:  config.Timeout,
	}
}

// FetchAndList navigates to targetURL, waits for the body to render, and
// returns every anchor href in the resulting DOM.
func (l *BrowserLister) FetchAndList(ctx context.Context, targetURL string) ([]string, error) {
	tabCtx, cancelTab := chromedp.NewContext(l.allocCtx)
	defer cancelTab()

	runCtx, cancelRun := context.WithTimeout(tabCtx, l.timeout)
	defer cancelRun()

	// Propagate caller cancellation into the browser run.
	go func() {
		select {
		case <-ctx.Done():
			cancelRun()
		case <-runCtx.Done():
		}
	}()

	var html string
	err := chromedp.Run(runCtx,
		chromedp.Navigate(targetURL),
		chromedp.WaitReady("body"),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return nil, &ListError{URL: targetURL, Err: fmt.Errorf("browser navigation: %w", err)}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, &ListError{URL: targetURL, Err: fmt.Errorf("parse rendered HTML: %w", err)}
	}
	return ExtractHrefs(doc), nil
}

// Close releases the browser allocator.
func (l *BrowserLister) Close() {
	l.cancel()
}
