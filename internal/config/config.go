// internal/config/config.go
package config

import (
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/valpere/SolarArchiver/internal/catalog"
	"github.com/valpere/SolarArchiver/internal/crawler"
	"github.com/valpere/SolarArchiver/internal/store"
)

// LoadFromFile loads configuration from a YAML file.
func LoadFromFile(filename string) (*Config, error) {
	if filename == "" {
		return nil, fmt.Errorf("configuration filename cannot be empty")
	}
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file not found: %s", filename)
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file: %v", err)
	}
	return LoadFromBytes(data)
}

// LoadFromBytes loads configuration from YAML bytes.
func LoadFromBytes(data []byte) (*Config, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("configuration data cannot be empty")
	}

	// Substitute environment variables of the form ${VAR}.
	expanded := os.Expand(string(data), func(key string) string {
		return os.Getenv(key)
	})

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML configuration: %v", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %v", err)
	}
	return &cfg, nil
}

// LoadFromReader loads configuration from an io.Reader.
func LoadFromReader(reader io.Reader) (*Config, error) {
	if reader == nil {
		return nil, fmt.Errorf("reader cannot be nil")
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read from reader: %v", err)
	}
	return LoadFromBytes(data)
}

// applyDefaults fills in missing configuration values.
func applyDefaults(cfg *Config) {
	if cfg.Name == "" {
		cfg.Name = "solar-archive"
	}
	if len(cfg.Archive.Extensions) == 0 {
		cfg.Archive.Extensions = crawler.DefaultExtensions()
	}
	if cfg.Crawler.Timeout == 0 {
		cfg.Crawler.Timeout = 30 * time.Second
	}
	if cfg.Crawler.RetryAttempts == 0 {
		cfg.Crawler.RetryAttempts = 2
	}
	if cfg.Crawler.RetryDelay == 0 {
		cfg.Crawler.RetryDelay = time.Second
	}
	if cfg.Crawler.RateLimit == 0 {
		cfg.Crawler.RateLimit = 2.0
	}
	if cfg.Crawler.RateBurst == 0 {
		cfg.Crawler.RateBurst = 5
	}
	if cfg.Crawler.UserAgent == "" {
		cfg.Crawler.UserAgent = "SolarArchiver/1.0"
	}
	if cfg.Catalog.ToleranceSeconds == 0 {
		cfg.Catalog.ToleranceSeconds = catalog.DefaultToleranceSeconds
	}
	if cfg.Store.Format == "" {
		cfg.Store.Format = store.FormatCSV
		if cfg.Store.File == "" {
			cfg.Store.File = cfg.Catalog.File
		}
	}
	if cfg.Server.Enabled && cfg.Server.ListenAddress == "" {
		cfg.Server.ListenAddress = ":8080"
	}
	if cfg.ADS.APIURL == "" {
		cfg.ADS.APIURL = "https://api.adsabs.harvard.edu/v1/search/query"
	}
	if cfg.ADS.TokenEnv == "" {
		cfg.ADS.TokenEnv = "ADS_DEV_KEY"
	}
}

// SaveToFile saves configuration to a YAML file.
func SaveToFile(cfg *Config, filename string) error {
	if cfg == nil {
		return fmt.Errorf("configuration cannot be nil")
	}
	if filename == "" {
		return fmt.Errorf("filename cannot be empty")
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %v", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal configuration to YAML: %v", err)
	}
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write configuration file: %v", err)
	}
	return nil
}

// GenerateTemplate generates a starter configuration for the La Palma
// archive mirror.
func GenerateTemplate() Config {
	cfg := Config{
		Name: "la-palma-archive",
		Archive: ArchiveConfig{
			BaseURL:    "http://tsih3.uio.no/lapalma/",
			Extensions: crawler.DefaultExtensions(),
			LinkCache:  "data/all_media_links.csv",
		},
		Catalog: CatalogConfig{
			File:             "data/la_palma_obs_data.csv",
			ToleranceSeconds: catalog.DefaultToleranceSeconds,
		},
		Store: store.Config{
			Format: store.FormatCSV,
			File:   "data/la_palma_obs_data.csv",
		},
		Server: ServerConfig{
			Enabled:       false,
			ListenAddress: ":8080",
		},
	}
	applyDefaults(&cfg)
	return cfg
}
