// internal/config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/valpere/SolarArchiver/internal/store"
)

const testYAML = `
name: "la_palma_test"
archive:
  base_url: "http://tsih3.uio.no/lapalma/"
  link_cache: "data/links.csv"
catalog:
  file: "data/catalog.csv"
store:
  format: "csv"
  file: "data/catalog.csv"
`

func TestLoadFromBytes(t *testing.T) {
	cfg, err := LoadFromBytes([]byte(testYAML))
	if err != nil {
		t.Fatalf("LoadFromBytes failed: %v", err)
	}

	if cfg.Name != "la_palma_test" {
		t.Errorf("expected name 'la_palma_test', got %q", cfg.Name)
	}
	if cfg.Archive.BaseURL != "http://tsih3.uio.no/lapalma/" {
		t.Errorf("unexpected base URL %q", cfg.Archive.BaseURL)
	}
}

func TestLoadFromBytesAppliesDefaults(t *testing.T) {
	cfg, err := LoadFromBytes([]byte(testYAML))
	if err != nil {
		t.Fatalf("LoadFromBytes failed: %v", err)
	}

	if len(cfg.Archive.Extensions) == 0 {
		t.Error("expected default extensions")
	}
	if cfg.Crawler.Timeout != 30*time.Second {
		t.Errorf("expected default timeout 30s, got %v", cfg.Crawler.Timeout)
	}
	if cfg.Catalog.ToleranceSeconds != 60 {
		t.Errorf("expected default tolerance 60, got %d", cfg.Catalog.ToleranceSeconds)
	}
	if cfg.Crawler.UserAgent == "" {
		t.Error("expected a default user agent")
	}
}

func TestLoadFromFile(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(filename, []byte(testYAML), 0644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg, err := LoadFromFile(filename)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}
	if cfg.Name != "la_palma_test" {
		t.Errorf("expected name 'la_palma_test', got %q", cfg.Name)
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	if _, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestEnvironmentVariableExpansion(t *testing.T) {
	t.Setenv("TEST_ARCHIVE_URL", "http://mirror.example/lapalma/")

	yaml := `
archive:
  base_url: "${TEST_ARCHIVE_URL}"
catalog:
  file: "data/catalog.csv"
`
	cfg, err := LoadFromBytes([]byte(yaml))
	if err != nil {
		t.Fatalf("LoadFromBytes failed: %v", err)
	}
	if cfg.Archive.BaseURL != "http://mirror.example/lapalma/" {
		t.Errorf("expected the env var expanded, got %q", cfg.Archive.BaseURL)
	}
}

func TestValidateRejectsBadConfigs(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"missing base_url", `
catalog:
  file: "data/catalog.csv"
`},
		{"relative base_url", `
archive:
  base_url: "lapalma/"
catalog:
  file: "data/catalog.csv"
`},
		{"missing catalog file", `
archive:
  base_url: "http://tsih3.uio.no/lapalma/"
`},
		{"bad extension", `
archive:
  base_url: "http://tsih3.uio.no/lapalma/"
  extensions: ["mp4"]
catalog:
  file: "data/catalog.csv"
`},
		{"bad store format", `
archive:
  base_url: "http://tsih3.uio.no/lapalma/"
catalog:
  file: "data/catalog.csv"
store:
  format: "parquet"
`},
	}

	for _, tc := range cases {
		if _, err := LoadFromBytes([]byte(tc.yaml)); err == nil {
			t.Errorf("%s: expected an error", tc.name)
		}
	}
}

func TestGenerateTemplate(t *testing.T) {
	cfg := GenerateTemplate()

	if err := cfg.Validate(); err != nil {
		t.Errorf("generated template should be valid: %v", err)
	}
	if cfg.Archive.BaseURL == "" {
		t.Error("template should carry a base URL")
	}
	if cfg.Store.Format != store.FormatCSV {
		t.Errorf("expected csv store format, got %s", cfg.Store.Format)
	}
}

func TestSaveToFileRoundTrip(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "saved.yaml")
	cfg := GenerateTemplate()

	if err := SaveToFile(&cfg, filename); err != nil {
		t.Fatalf("SaveToFile failed: %v", err)
	}
	loaded, err := LoadFromFile(filename)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}
	if loaded.Archive.BaseURL != cfg.Archive.BaseURL {
		t.Errorf("expected %q, got %q", cfg.Archive.BaseURL, loaded.Archive.BaseURL)
	}
}
