// internal/lister/http.go
package lister

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"
)

// ErrNotFound reports a listing URL the server does not know.
var ErrNotFound = errors.New("listing not found")

// ListError wraps a failed fetch with the URL it was issued against. The
// crawler uses it to tell a failed subtree apart from a failed root.
type ListError struct {
	URL string
	Err error
}

func (e *ListError) Error() string { return fmt.Sprintf("list %s: %v", e.URL, e.Err) }
func (e *ListError) Unwrap() error { return e.Err }

// IsNotFound reports whether err stems from a missing listing.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// HTTPConfig configures the HTTP-backed lister.
type HTTPConfig struct {
	Timeout       time.Duration
	RetryAttempts int
	RetryDelay    time.Duration
	RateLimit     float64 // requests per second
	RateBurst     int
	UserAgent     string
}

// applyDefaults fills zero values with production-safe defaults.
func (c *HTTPConfig) applyDefaults() {
	if c.Timeout == 0 {
		c.Timeout = 30 * time.Second
	}
	if c.RetryAttempts == 0 {
		c.RetryAttempts = 2
	}
	if c.RetryDelay == 0 {
		c.RetryDelay = time.Second
	}
	if c.RateLimit == 0 {
		c.RateLimit = 2.0
	}
	if c.RateBurst == 0 {
		c.RateBurst = 5
	}
	if c.UserAgent == "" {
		c.UserAgent = "SolarArchiver/1.0"
	}
}

// HTTPLister fetches directory listings over HTTP and extracts anchor
// targets from the returned HTML. Fetches are rate limited and retried with
// exponential backoff; after retries are exhausted the error propagates so
// the affected subtree fails fast.
type HTTPLister struct {
	client    *http.Client
	limiter   *rate.Limiter
	retries   int
	delay     time.Duration
	userAgent string
}

// NewHTTPLister creates an HTTP lister with the given configuration.
func NewHTTPLister(config HTTPConfig) *HTTPLister {
	config.applyDefaults()

	return &HTTPLister{
		client: &http.Client{
			Timeout: config.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		limiter:   rate.NewLimiter(rate.Limit(config.RateLimit), config.RateBurst),
		retries:   config.RetryAttempts,
		delay:     config.RetryDelay,
		userAgent: config.UserAgent,
	}
}

// FetchAndList fetches targetURL and returns the href of every anchor in the
// response body.
func (l *HTTPLister) FetchAndList(ctx context.Context, targetURL string) ([]string, error) {
	if _, err := url.Parse(targetURL); err != nil {
		return nil, &ListError{URL: targetURL, Err: fmt.Errorf("invalid URL: %w", err)}
	}

	var lastErr error
	for attempt := 0; attempt <= l.retries; attempt++ {
		if attempt > 0 {
			// Exponential backoff between attempts.
			backoff := l.delay * time.Duration(1<<(attempt-1))
			select {
			case <-ctx.Done():
				return nil, &ListError{URL: targetURL, Err: ctx.Err()}
			case <-time.After(backoff):
			}
		}

		if err := l.limiter.Wait(ctx); err != nil {
			return nil, &ListError{URL: targetURL, Err: fmt.Errorf("rate limiter: %w", err)}
		}

		hrefs, retryable, err := l.fetchOnce(ctx, targetURL)
		if err == nil {
			return hrefs, nil
		}
		lastErr = err
		if !retryable {
			break
		}
	}
	return nil, &ListError{URL: targetURL, Err: lastErr}
}

// fetchOnce performs a single GET and parse. retryable reports whether the
// failure is worth another attempt.
func (l *HTTPLister) fetchOnce(ctx context.Context, targetURL string) (hrefs []string, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, false, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", l.userAgent)

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, false, ErrNotFound
	case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
		return nil, true, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	case resp.StatusCode >= 400:
		return nil, false, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, false, fmt.Errorf("parse HTML: %w", err)
	}
	return ExtractHrefs(doc), false, nil
}

// ExtractHrefs returns the href attribute of every anchor in the document.
func ExtractHrefs(doc *goquery.Document) []string {
	var hrefs []string
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		if href, ok := s.Attr("href"); ok && strings.TrimSpace(href) != "" {
			hrefs = append(hrefs, href)
		}
	})
	return hrefs
}
