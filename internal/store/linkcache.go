// internal/store/linkcache.go
package store

import (
	"encoding/csv"
	"fmt"
	"os"
)

// linksColumn is the single header of the crawl link cache.
const linksColumn = "Links"

// SaveLinks persists raw crawl results as a one-column CSV so later rebuilds
// can skip the slow crawl.
func SaveLinks(filename string, links []string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create link cache: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write([]string{linksColumn}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, link := range links {
		if err := writer.Write([]string{link}); err != nil {
			return fmt.Errorf("failed to write link: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// LoadLinks reads a previously saved link cache. A missing file loads as
// nil so the caller falls back to crawling.
func LoadLinks(filename string) ([]string, error) {
	file, err := os.Open(filename)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open link cache: %w", err)
	}
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read link cache: %w", err)
	}
	var links []string
	for i, row := range rows {
		if i == 0 && len(row) > 0 && row[0] == linksColumn {
			continue
		}
		if len(row) > 0 {
			links = append(links, row[0])
		}
	}
	return links, nil
}
