// internal/bibsearch/ads_test.go
package bibsearch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/valpere/SolarArchiver/internal/catalog"
)

func TestSearchTerms(t *testing.T) {
	session := catalog.Session{
		DateTime:    time.Date(2013, 6, 30, 10, 20, 30, 0, time.UTC),
		Instruments: []string{"CHROMIS", "CRISP"},
	}

	terms := SearchTerms(session)
	want := []string{"SST", "CHROMIS", "CRISP", "30 June 2013"}
	if !reflect.DeepEqual(terms, want) {
		t.Errorf("expected %v, got %v", want, terms)
	}
}

func TestNewClientRequiresToken(t *testing.T) {
	t.Setenv("TEST_ADS_TOKEN", "")

	if _, err := NewClient(ClientConfig{TokenEnv: "TEST_ADS_TOKEN"}); err == nil {
		t.Fatal("expected an error when the token variable is unset")
	}
}

func TestSearchBuildsQueryAndParsesResponse(t *testing.T) {
	var gotQuery, gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"response": {
				"docs": [
					{
						"title": ["Chromospheric heating in a sunspot"],
						"bibcode": "2020A&A...999..111X",
						"author": ["Observer, A.", "Theorist, B."],
						"year": "2020"
					}
				]
			}
		}`))
	}))
	defer server.Close()

	t.Setenv("TEST_ADS_TOKEN", "secret-token")
	client, err := NewClient(ClientConfig{APIURL: server.URL, TokenEnv: "TEST_ADS_TOKEN"})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	records, err := client.Search(context.Background(), []string{"SST", "CRISP", "30 June 2013"})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	wantQuery := `full:"SST" AND full:"CRISP" AND full:"30 June 2013"`
	if gotQuery != wantQuery {
		t.Errorf("expected query %q, got %q", wantQuery, gotQuery)
	}
	if gotAuth != "Bearer secret-token" {
		t.Errorf("expected a bearer token header, got %q", gotAuth)
	}

	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	record := records[0]
	if record.Title != "Chromospheric heating in a sunspot" {
		t.Errorf("unexpected title %q", record.Title)
	}
	if record.FirstAuthor != "Observer, A." {
		t.Errorf("unexpected first author %q", record.FirstAuthor)
	}
	if record.Year != "2020" {
		t.Errorf("unexpected year %q", record.Year)
	}
	if record.URL != "https://ui.adsabs.harvard.edu/abs/2020A&A...999..111X" {
		t.Errorf("unexpected URL %q", record.URL)
	}
}

func TestSearchRejectsEmptyTerms(t *testing.T) {
	t.Setenv("TEST_ADS_TOKEN", "secret-token")
	client, err := NewClient(ClientConfig{TokenEnv: "TEST_ADS_TOKEN"})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	if _, err := client.Search(context.Background(), nil); err == nil {
		t.Fatal("expected an error for empty terms")
	}
}

func TestSearchSurfacesHTTPErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	t.Setenv("TEST_ADS_TOKEN", "bad-token")
	client, err := NewClient(ClientConfig{APIURL: server.URL, TokenEnv: "TEST_ADS_TOKEN"})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	if _, err := client.Search(context.Background(), []string{"SST"}); err == nil {
		t.Fatal("expected an error for HTTP 401")
	}
}
