// internal/config/types.go
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/valpere/SolarArchiver/internal/store"
)

// Config is the root configuration for an archive run.
type Config struct {
	Name    string        `yaml:"name"`
	Archive ArchiveConfig `yaml:"archive"`
	Crawler CrawlerConfig `yaml:"crawler"`
	Catalog CatalogConfig `yaml:"catalog"`
	Store   store.Config  `yaml:"store"`
	Server  ServerConfig  `yaml:"server,omitempty"`
	ADS     ADSConfig     `yaml:"ads,omitempty"`
}

// ArchiveConfig describes the remote directory tree.
type ArchiveConfig struct {
	BaseURL    string   `yaml:"base_url"`
	Extensions []string `yaml:"extensions,omitempty"`
	LinkCache  string   `yaml:"link_cache,omitempty"`
}

// CrawlerConfig controls fetching behavior.
type CrawlerConfig struct {
	Timeout       time.Duration `yaml:"timeout,omitempty"`
	RetryAttempts int           `yaml:"retry_attempts,omitempty"`
	RetryDelay    time.Duration `yaml:"retry_delay,omitempty"`
	RateLimit     float64       `yaml:"rate_limit,omitempty"`
	RateBurst     int           `yaml:"rate_burst,omitempty"`
	UserAgent     string        `yaml:"user_agent,omitempty"`
	UseBrowser    bool          `yaml:"use_browser,omitempty"`
	Headless      bool          `yaml:"headless,omitempty"`
}

// CatalogConfig controls session building and the persisted catalog file.
type CatalogConfig struct {
	File                string              `yaml:"file"`
	ToleranceSeconds    int                 `yaml:"tolerance_seconds,omitempty"`
	InstrumentKeywords  map[string][]string `yaml:"instrument_keywords,omitempty"`
	PolarimetryKeywords map[string][]string `yaml:"polarimetry_keywords,omitempty"`
}

// ServerConfig controls the catalog browse/edit API.
type ServerConfig struct {
	Enabled       bool   `yaml:"enabled,omitempty"`
	ListenAddress string `yaml:"listen_address,omitempty"`
}

// ADSConfig controls the bibliographic search client. The token is read
// from the named environment variable, never stored in the file.
type ADSConfig struct {
	APIURL   string `yaml:"api_url,omitempty"`
	TokenEnv string `yaml:"token_env,omitempty"`
}

// Validate checks the configuration for internal consistency.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Archive.BaseURL) == "" {
		return fmt.Errorf("archive base_url is required")
	}
	parsed, err := url.Parse(c.Archive.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("archive base_url %q is not an absolute URL", c.Archive.BaseURL)
	}
	for _, ext := range c.Archive.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("extension %q must start with a dot", ext)
		}
	}
	if c.Catalog.File == "" {
		return fmt.Errorf("catalog file is required")
	}
	if c.Catalog.ToleranceSeconds < 0 {
		return fmt.Errorf("tolerance_seconds cannot be negative")
	}
	if c.Crawler.RetryAttempts < 0 {
		return fmt.Errorf("retry_attempts cannot be negative")
	}
	if c.Store.Format != "" {
		valid := false
		for _, f := range store.ValidFormats() {
			if c.Store.Format == f {
				valid = true
				break
			}
		}
		if !valid {
			return fmt.Errorf("unsupported store format: %s", c.Store.Format)
		}
	}
	if c.Server.Enabled && c.Server.ListenAddress == "" {
		return fmt.Errorf("server listen_address is required when the server is enabled")
	}
	return nil
}
