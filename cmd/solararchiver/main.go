// cmd/solararchiver/main.go - CLI entry point for the archive cataloger
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/valpere/SolarArchiver/internal/bibsearch"
	"github.com/valpere/SolarArchiver/internal/catalog"
	"github.com/valpere/SolarArchiver/internal/classify"
	"github.com/valpere/SolarArchiver/internal/config"
	"github.com/valpere/SolarArchiver/internal/crawler"
	"github.com/valpere/SolarArchiver/internal/errors"
	"github.com/valpere/SolarArchiver/internal/lister"
	"github.com/valpere/SolarArchiver/internal/monitoring"
	"github.com/valpere/SolarArchiver/internal/server"
	"github.com/valpere/SolarArchiver/internal/store"
	"github.com/valpere/SolarArchiver/internal/timestamp"
	"github.com/valpere/SolarArchiver/internal/utils"
)

// Version information (set by build flags)
var (
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"
)

var errorService = errors.NewService()

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	verbose := hasFlag("-v") || hasFlag("--verbose")
	errorService = errorService.WithTechnicalDetails(verbose)

	command := os.Args[1]
	args := positionalArgs(os.Args[2:])

	var err error
	switch command {
	case "crawl":
		err = runCrawl(args, verbose)
	case "update":
		err = runUpdate(args, verbose)
	case "validate":
		err = runValidate(args)
	case "template":
		err = runTemplate()
	case "export":
		err = runExport(args)
	case "serve":
		err = runServe(args, verbose)
	case "bibsearch":
		err = runBibsearch(args)
	case "version":
		fmt.Printf("solararchiver %s (built %s, commit %s)\n", version, buildTime, gitCommit)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", errorService.UserMessage(err))
		os.Exit(1)
	}
}

// runCrawl discovers every media link in the archive and saves the link
// cache.
func runCrawl(args []string, verbose bool) error {
	cfg, logger, err := loadConfig(args, verbose)
	if err != nil {
		return err
	}

	listing, closeLister := newLister(cfg)
	defer closeLister()

	c := crawler.New(listing, logger, crawler.Config{
		BaseURL:    cfg.Archive.BaseURL,
		Extensions: cfg.Archive.Extensions,
	})

	result, err := c.MediaLinks(context.Background())
	if err != nil {
		return fmt.Errorf("crawl failed: %w", err)
	}
	for _, failure := range result.Failures {
		logger.Warnf("failed subtree %s: %v", failure.URL, failure.Err)
	}

	if cfg.Archive.LinkCache != "" {
		if err := store.SaveLinks(cfg.Archive.LinkCache, result.Links); err != nil {
			return fmt.Errorf("saving link cache: %w", err)
		}
		logger.Infof("saved %d links to %s", len(result.Links), cfg.Archive.LinkCache)
	}
	fmt.Printf("Discovered %d media links (%d failed subtrees)\n",
		len(result.Links), len(result.Failures))
	return nil
}

// runUpdate is the full pipeline: obtain links (cache or fresh crawl),
// extract and validate timestamps, build sessions, merge into the existing
// catalog, and persist.
func runUpdate(args []string, verbose bool) error {
	cfg, logger, err := loadConfig(args, verbose)
	if err != nil {
		return err
	}

	metrics, _ := monitoring.NewMetrics("solararchiver")

	links, err := loadOrCrawlLinks(cfg, logger, metrics)
	if err != nil {
		return err
	}
	metrics.AddLinksDiscovered(len(links))

	extraction := timestamp.ExtractValidated(links, timestamp.DefaultPatterns(), timestamp.DefaultFormats())
	logger.Infof("timestamps: %d extracted, %d unmatched, %d invalid",
		len(extraction.Times), len(extraction.Unmatched), len(extraction.Invalid))
	for _, link := range extraction.Unmatched {
		logger.Debugf("no timestamp grammar matched %s", link)
	}

	fresh, err := catalog.Build(extraction.Times, extraction.URLs, builderConfig(cfg))
	if err != nil {
		return fmt.Errorf("building sessions: %w", err)
	}
	metrics.AddSessionsBuilt(len(fresh))

	existing, err := store.LoadCSV(cfg.Catalog.File)
	if err != nil {
		return fmt.Errorf("loading catalog: %w", err)
	}

	merged := catalog.Merge(existing, fresh)
	metrics.AddSessionsMerged(len(merged) - len(existing))
	metrics.SetCatalogSize(len(merged))
	logger.Infof("catalog: %d existing + %d fresh -> %d sessions",
		len(existing), len(fresh), len(merged))

	manager, err := store.NewManager(&cfg.Store)
	if err != nil {
		return err
	}
	if err := manager.Write(merged); err != nil {
		return fmt.Errorf("persisting catalog: %w", err)
	}

	fmt.Printf("Catalog updated: %d sessions (%d new)\n", len(merged), len(merged)-len(existing))
	return nil
}

// runValidate checks a configuration file without touching the network.
func runValidate(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: solararchiver validate <config.yaml>")
	}
	if _, err := config.LoadFromFile(args[0]); err != nil {
		return err
	}
	fmt.Printf("Configuration file '%s' is valid\n", args[0])
	return nil
}

// runTemplate prints a starter configuration to stdout.
func runTemplate() error {
	template := config.GenerateTemplate()
	data, err := yaml.Marshal(&template)
	if err != nil {
		return fmt.Errorf("failed to marshal template to YAML: %w", err)
	}
	fmt.Print(string(data))
	return nil
}

// runExport rewrites the persisted catalog through the configured store
// backend, e.g. to produce an Excel or JSON copy of the CSV catalog.
func runExport(args []string) error {
	cfg, _, err := loadConfig(args, false)
	if err != nil {
		return err
	}

	sessions, err := store.LoadCSV(cfg.Catalog.File)
	if err != nil {
		return fmt.Errorf("loading catalog: %w", err)
	}
	if len(sessions) == 0 {
		return fmt.Errorf("catalog %s is empty; run update first", cfg.Catalog.File)
	}

	manager, err := store.NewManager(&cfg.Store)
	if err != nil {
		return err
	}
	if err := manager.Write(sessions); err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	fmt.Printf("Exported %d sessions via %s backend\n", len(sessions), cfg.Store.Format)
	return nil
}

// runServe starts the catalog browse/edit API.
func runServe(args []string, verbose bool) error {
	cfg, logger, err := loadConfig(args, verbose)
	if err != nil {
		return err
	}
	address := cfg.Server.ListenAddress
	if address == "" {
		address = ":8080"
	}

	sessions, err := store.LoadCSV(cfg.Catalog.File)
	if err != nil {
		return fmt.Errorf("loading catalog: %w", err)
	}

	metrics, registry := monitoring.NewMetrics("solararchiver")
	metrics.SetCatalogSize(len(sessions))

	manager, err := store.NewManager(&cfg.Store)
	if err != nil {
		return err
	}
	repo := server.NewRepository(sessions, manager)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.New(repo, logger, registry).Start(ctx, address)
}

// runBibsearch queries ADS for publications about one catalog session.
func runBibsearch(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: solararchiver bibsearch <config.yaml> <obs_id>")
	}
	cfg, _, err := loadConfig(args[:1], false)
	if err != nil {
		return err
	}
	id, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("obs_id must be an integer, got %q", args[1])
	}

	sessions, err := store.LoadCSV(cfg.Catalog.File)
	if err != nil {
		return fmt.Errorf("loading catalog: %w", err)
	}
	if id < 0 || id >= len(sessions) {
		return fmt.Errorf("no session with obs_id %d (catalog has %d)", id, len(sessions))
	}

	client, err := bibsearch.NewClient(bibsearch.ClientConfig{
		APIURL:   cfg.ADS.APIURL,
		TokenEnv: cfg.ADS.TokenEnv,
	})
	if err != nil {
		return err
	}

	terms := bibsearch.SearchTerms(sessions[id])
	records, err := client.Search(context.Background(), terms)
	if err != nil {
		return err
	}

	fmt.Printf("Found %d publications for session %d (%v)\n",
		len(records), id, terms)
	for _, record := range records {
		fmt.Printf("  %s  %s (%s, %s)\n    %s\n",
			record.Bibcode, record.Title, record.FirstAuthor, record.Year, record.URL)
	}
	return nil
}

// loadOrCrawlLinks prefers the link cache and falls back to a live crawl.
func loadOrCrawlLinks(cfg *config.Config, logger utils.Logger, metrics *monitoring.Metrics) ([]string, error) {
	if cfg.Archive.LinkCache != "" {
		links, err := store.LoadLinks(cfg.Archive.LinkCache)
		if err != nil {
			return nil, err
		}
		if len(links) > 0 {
			logger.Infof("loaded %d links from cache %s", len(links), cfg.Archive.LinkCache)
			return links, nil
		}
	}

	listing, closeLister := newLister(cfg)
	defer closeLister()
	instrumented := monitoring.NewInstrumentedLister(listing, metrics)

	c := crawler.New(instrumented, logger, crawler.Config{
		BaseURL:    cfg.Archive.BaseURL,
		Extensions: cfg.Archive.Extensions,
	})

	var result *crawler.Result
	err := errorService.ExecuteWithRetry(context.Background(), "crawl", func(ctx context.Context) error {
		var crawlErr error
		result, crawlErr = c.MediaLinks(ctx)
		return crawlErr
	})
	if err != nil {
		return nil, err
	}
	for _, failure := range result.Failures {
		logger.Warnf("failed subtree %s: %v", failure.URL, failure.Err)
	}

	if cfg.Archive.LinkCache != "" {
		if err := store.SaveLinks(cfg.Archive.LinkCache, result.Links); err != nil {
			logger.Warnf("could not save link cache: %v", err)
		}
	}
	return result.Links, nil
}

// newLister builds the configured listing capability. The returned cleanup
// is a no-op for the plain HTTP lister.
func newLister(cfg *config.Config) (lister.Lister, func()) {
	if cfg.Crawler.UseBrowser {
		browser := lister.NewBrowserLister(lister.BrowserConfig{
			Headless:  cfg.Crawler.Headless,
			Timeout:   cfg.Crawler.Timeout,
			UserAgent: cfg.Crawler.UserAgent,
		})
		return browser, browser.Close
	}
	httpLister := lister.NewHTTPLister(lister.HTTPConfig{
		Timeout:       cfg.Crawler.Timeout,
		RetryAttempts: cfg.Crawler.RetryAttempts,
		RetryDelay:    cfg.Crawler.RetryDelay,
		RateLimit:     cfg.Crawler.RateLimit,
		RateBurst:     cfg.Crawler.RateBurst,
		UserAgent:     cfg.Crawler.UserAgent,
	})
	return httpLister, func() {}
}

// builderConfig assembles the catalog build configuration, overlaying any
// keyword tables from the file over the defaults.
func builderConfig(cfg *config.Config) catalog.BuilderConfig {
	bc := catalog.DefaultBuilderConfig()
	if cfg.Catalog.ToleranceSeconds > 0 {
		bc.Tolerance = time.Duration(cfg.Catalog.ToleranceSeconds) * time.Second
	}
	if len(cfg.Catalog.InstrumentKeywords) > 0 {
		bc.InstrumentKeywords = classify.KeywordTable(cfg.Catalog.InstrumentKeywords)
	}
	if len(cfg.Catalog.PolarimetryKeywords) > 0 {
		bc.PolarimetryKeywords = classify.KeywordTable(cfg.Catalog.PolarimetryKeywords)
	}
	return bc
}

// loadConfig loads and validates the configuration named by the first
// positional argument.
func loadConfig(args []string, verbose bool) (*config.Config, utils.Logger, error) {
	if len(args) < 1 {
		return nil, nil, fmt.Errorf("a configuration file argument is required")
	}
	cfg, err := config.LoadFromFile(args[0])
	if err != nil {
		return nil, nil, err
	}

	level := utils.InfoLevel
	if verbose {
		level = utils.DebugLevel
	}
	return cfg, utils.NewLoggerWithLevel(level), nil
}

// positionalArgs strips flag-like arguments.
func positionalArgs(args []string) []string {
	var out []string
	for _, arg := range args {
		if len(arg) > 0 && arg[0] != '-' {
			out = append(out, arg)
		}
	}
	return out
}

// hasFlag reports whether a flag appears anywhere on the command line.
func hasFlag(name string) bool {
	for _, arg := range os.Args[1:] {
		if arg == name {
			return true
		}
	}
	return false
}

func printUsage() {
	fmt.Print(`solararchiver - observation archive crawler and catalog builder

Usage:
  solararchiver <command> [arguments]

Commands:
  crawl <config.yaml>              Discover media links and save the link cache
  update <config.yaml>             Crawl (or reuse cache), build sessions, merge into catalog
  validate <config.yaml>           Check a configuration file
  template                         Print a starter configuration
  export <config.yaml>             Re-export the catalog via the configured store backend
  serve <config.yaml>              Start the catalog browse/edit API
  bibsearch <config.yaml> <obs_id> Search ADS for publications about a session
  version                          Print version information
  help                             Show this help

Flags:
  -v, --verbose                    Debug logging and technical error details
`)
}
