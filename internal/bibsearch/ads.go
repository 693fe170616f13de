// internal/bibsearch/ads.go
package bibsearch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/valpere/SolarArchiver/internal/catalog"
)

// DefaultAPIURL is the ADS search endpoint.
const DefaultAPIURL = "https://api.adsabs.harvard.edu/v1/search/query"

// Record is one bibliographic search hit.
type Record struct {
	Title       string `json:"title"`
	Bibcode     string `json:"bibcode"`
	FirstAuthor string `json:"first_author"`
	Year        string `json:"year"`
	URL         string `json:"url"`
}

// Client queries the ADS full-text search API.
type Client struct {
	apiURL string
	token  string
	client *http.Client
}

// ClientConfig configures the ADS client. TokenEnv names the environment
// variable holding the API token.
type ClientConfig struct {
	APIURL   string
	TokenEnv string
	Timeout  time.Duration
}

// NewClient creates an ADS client. It fails when the token variable is
// unset so a misconfigured run surfaces before the first query.
func NewClient(config ClientConfig) (*Client, error) {
	if config.APIURL == "" {
		config.APIURL = DefaultAPIURL
	}
	if config.TokenEnv == "" {
		config.TokenEnv = "ADS_DEV_KEY"
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}

	token := os.Getenv(config.TokenEnv)
	if token == "" {
		return nil, fmt.Errorf("ADS API token not set: export %s", config.TokenEnv)
	}

	return &Client{
		apiURL: config.APIURL,
		token:  token,
		client: &http.Client{Timeout: config.Timeout},
	}, nil
}

// SearchTerms builds the full-text terms for one observation session: the
// telescope name, the instruments used, and the spelled-out date.
func SearchTerms(session catalog.Session) []string {
	terms := []string{"SST"}
	terms = append(terms, session.Instruments...)
	terms = append(terms, session.DateTime.Format("2 January 2006"))
	return terms
}

// Search runs a full-text AND query over the given terms and returns the
// matching records, newest first.
func (c *Client) Search(ctx context.Context, terms []string) ([]Record, error) {
	if len(terms) == 0 {
		return nil, fmt.Errorf("at least one search term is required")
	}

	clauses := make([]string, len(terms))
	for i, term := range terms {
		clauses[i] = fmt.Sprintf("full:%q", term)
	}

	params := url.Values{}
	params.Set("q", strings.Join(clauses, " AND "))
	params.Set("fl", "id,title,bibcode,author,year")
	params.Set("rows", "100")
	params.Set("sort", "date desc")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ADS request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ADS returned HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	var payload struct {
		Response struct {
			Docs []struct {
				Title   []string `json:"title"`
				Bibcode string   `json:"bibcode"`
				Author  []string `json:"author"`
				Year    string   `json:"year"`
			} `json:"docs"`
		} `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode ADS response: %w", err)
	}

	records := make([]Record, 0, len(payload.Response.Docs))
	for _, doc := range payload.Response.Docs {
		record := Record{
			Bibcode: doc.Bibcode,
			Year:    doc.Year,
			URL:     "https://ui.adsabs.harvard.edu/abs/" + url.PathEscape(doc.Bibcode),
		}
		if len(doc.Title) > 0 {
			record.Title = doc.Title[0]
		}
		if len(doc.Author) > 0 {
			record.FirstAuthor = doc.Author[0]
		}
		records = append(records, record)
	}
	return records, nil
}
