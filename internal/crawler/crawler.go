// internal/crawler/crawler.go
package crawler

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/valpere/SolarArchiver/internal/lister"
	"github.com/valpere/SolarArchiver/internal/utils"
)

// yearPrefix filters root entries to year-like directory names.
const yearPrefix = "20"

// Config configures a crawl.
type Config struct {
	BaseURL    string
	Extensions []string
}

// DefaultExtensions returns the media extensions the archive carries.
func DefaultExtensions() []string {
	return []string{".mp4", ".mov", ".jpg", ".png"}
}

// Failure records one subtree whose crawl aborted. Sibling subtrees keep
// their results; only a root-level failure is fatal for the run.
type Failure struct {
	URL string
	Err error
}

// Result is the outcome of a full media crawl: every discovered link plus
// the subtrees that failed, surfaced for operator triage rather than
// silently dropped.
type Result struct {
	Links    []string
	Failures []Failure
}

// Crawler walks a remote tree of directory listings, discovering
// year/date subdirectories and the media files beneath them. All fetching
// goes through the injected Lister; the crawl itself is synchronous and
// depth-first, one fetch at a time.
type Crawler struct {
	lister lister.Lister
	logger utils.Logger
	config Config
}

// New creates a crawler over the given listing capability.
func New(l lister.Lister, logger utils.Logger, config Config) *Crawler {
	if logger == nil {
		logger = utils.NopLogger{}
	}
	if len(config.Extensions) == 0 {
		config.Extensions = DefaultExtensions()
	}
	if !strings.HasSuffix(config.BaseURL, "/") {
		config.BaseURL += "/"
	}
	return &Crawler{lister: l, logger: logger, config: config}
}

// isChildDir reports whether href names a directory one level below the
// listing it came from. Parent links, absolute paths, and Apache column-sort
// links all fail the test; following them would walk out of the subtree or
// recurse forever.
func isChildDir(href string) bool {
	return strings.HasSuffix(href, "/") &&
		!strings.HasPrefix(href, "/") &&
		!strings.HasPrefix(href, ".") &&
		!strings.HasPrefix(href, "?")
}

// Subdirectories returns the absolute URL of every directory entry one level
// below url.
func (c *Crawler) Subdirectories(ctx context.Context, url string) ([]string, error) {
	hrefs, err := c.lister.FetchAndList(ctx, url)
	if err != nil {
		return nil, err
	}
	var subdirs []string
	for _, href := range hrefs {
		if isChildDir(href) {
			subdirs = append(subdirs, url+href)
		}
	}
	return subdirs, nil
}

// Files returns every entry at url whose name ends in extension (literal
// suffix match). When a level has no direct matches the search descends
// depth-first into every subdirectory, accumulating results in discovery
// order; listing order comes from the remote server and is not guaranteed
// stable across runs. A fetch failure anywhere aborts this subtree.
func (c *Crawler) Files(ctx context.Context, url, extension string) ([]string, error) {
	hrefs, err := c.lister.FetchAndList(ctx, url)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, href := range hrefs {
		if strings.HasSuffix(href, extension) {
			files = append(files, url+href)
		}
	}
	if len(files) > 0 {
		return files, nil
	}

	for _, href := range hrefs {
		if !isChildDir(href) {
			continue
		}
		sub, err := c.Files(ctx, url+href, extension)
		if err != nil {
			return nil, err
		}
		files = append(files, sub...)
	}
	return files, nil
}

// Years lists the year directories at the archive root: entries whose name
// starts with the literal prefix "20". Names keep their trailing slash. A
// failure here is a root failure and aborts the crawl.
func (c *Crawler) Years(ctx context.Context) ([]string, error) {
	hrefs, err := c.lister.FetchAndList(ctx, c.config.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("listing archive root: %w", err)
	}
	var years []string
	for _, href := range hrefs {
		if strings.HasSuffix(href, "/") && strings.HasPrefix(href, yearPrefix) {
			years = append(years, href)
		}
	}
	return years, nil
}

// Dates lists the observation directories one level below the given years,
// as paths relative to the root ("2013/2013-06-30/"). The filter keeps
// entries with exactly two path separators; the directory's own name is not
// constrained, so non-date-named directories ("2013/calibration/") are kept
// and crawled. A failed year listing is recorded and its siblings continue.
func (c *Crawler) Dates(ctx context.Context, years []string) ([]string, []Failure) {
	var dates []string
	var failures []Failure
	for _, year := range years {
		hrefs, err := c.lister.FetchAndList(ctx, c.config.BaseURL+year)
		if err != nil {
			c.logger.Warnf("skipping year %s: %v", year, err)
			failures = append(failures, Failure{URL: c.config.BaseURL + year, Err: err})
			continue
		}
		for _, href := range hrefs {
			entry := year + href
			if isChildDir(href) && strings.Count(entry, "/") == 2 {
				dates = append(dates, entry)
			}
		}
	}
	return dates, failures
}

// MediaLinks performs the full crawl: years, dates, then the configured
// media extensions beneath every date directory. Failed date subtrees are
// recorded in the result and the crawl continues; links come back sorted.
func (c *Crawler) MediaLinks(ctx context.Context) (*Result, error) {
	years, err := c.Years(ctx)
	if err != nil {
		return nil, err
	}
	c.logger.Infof("archive has %d year directories", len(years))

	dates, failures := c.Dates(ctx, years)
	c.logger.Infof("archive has %d dated observation directories", len(dates))

	result := &Result{Failures: failures}
	for _, date := range dates {
		dateURL := c.config.BaseURL + date
		for _, ext := range c.config.Extensions {
			files, err := c.Files(ctx, dateURL, ext)
			if err != nil {
				c.logger.Warnf("skipping subtree %s (%s): %v", dateURL, ext, err)
				result.Failures = append(result.Failures, Failure{URL: dateURL, Err: err})
				break
			}
			result.Links = append(result.Links, files...)
		}
	}

	sort.Strings(result.Links)
	c.logger.Infof("discovered %d media links (%d failed subtrees)",
		len(result.Links), len(result.Failures))
	return result, nil
}
