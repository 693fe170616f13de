// internal/lister/http_test.go
package lister

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sync/atomic"
	"testing"
	"time"
)

const listingHTML = `<html><body>
<h1>Index of /lapalma/2013</h1>
<a href="../">Parent Directory</a>
<a href="2013-06-30/">2013-06-30/</a>
<a href="crisp_2013-06-30_102030_halpha.mp4">crisp movie</a>
<a href="">empty</a>
<a>no href</a>
</body></html>`

func TestHTTPListerExtractsAnchors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(listingHTML))
	}))
	defer server.Close()

	l := NewHTTPLister(HTTPConfig{RateLimit: 1000, RateBurst: 10})
	hrefs, err := l.FetchAndList(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("FetchAndList failed: %v", err)
	}

	want := []string{"../", "2013-06-30/", "crisp_2013-06-30_102030_halpha.mp4"}
	if !reflect.DeepEqual(hrefs, want) {
		t.Errorf("expected %v, got %v", want, hrefs)
	}
}

func TestHTTPListerNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	l := NewHTTPLister(HTTPConfig{RateLimit: 1000, RateBurst: 10})
	_, err := l.FetchAndList(context.Background(), server.URL+"/missing/")
	if err == nil {
		t.Fatal("expected an error for a 404")
	}
	if !IsNotFound(err) {
		t.Errorf("expected a not-found error, got %v", err)
	}

	var listErr *ListError
	if !errors.As(err, &listErr) {
		t.Fatalf("expected a *ListError, got %T", err)
	}
	if listErr.URL != server.URL+"/missing/" {
		t.Errorf("expected the failing URL recorded, got %s", listErr.URL)
	}
}

func TestHTTPListerRetriesServerErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`<a href="2013/">2013/</a>`))
	}))
	defer server.Close()

	l := NewHTTPLister(HTTPConfig{
		RetryAttempts: 2,
		RetryDelay:    time.Millisecond,
		RateLimit:     1000,
		RateBurst:     10,
	})
	hrefs, err := l.FetchAndList(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Errorf("expected 3 attempts, got %d", got)
	}
	if len(hrefs) != 1 || hrefs[0] != "2013/" {
		t.Errorf("unexpected hrefs: %v", hrefs)
	}
}

func TestHTTPListerDoesNotRetryNotFound(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	l := NewHTTPLister(HTTPConfig{
		RetryAttempts: 3,
		RetryDelay:    time.Millisecond,
		RateLimit:     1000,
		RateBurst:     10,
	})
	if _, err := l.FetchAndList(context.Background(), server.URL); err == nil {
		t.Fatal("expected an error")
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("a 404 must not be retried, got %d attempts", got)
	}
}

func TestHTTPListerSendsUserAgent(t *testing.T) {
	var agent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		agent = r.Header.Get("User-Agent")
		w.Write([]byte(`<a href="2013/">2013/</a>`))
	}))
	defer server.Close()

	l := NewHTTPLister(HTTPConfig{UserAgent: "test-agent/1.0", RateLimit: 1000, RateBurst: 10})
	if _, err := l.FetchAndList(context.Background(), server.URL); err != nil {
		t.Fatalf("FetchAndList failed: %v", err)
	}
	if agent != "test-agent/1.0" {
		t.Errorf("expected the configured User-Agent, got %q", agent)
	}
}

func TestMemoryLister(t *testing.T) {
	m := &Memory{Tree: map[string][]string{"http://x/": {"a/", "b.mp4"}}}

	hrefs, err := m.FetchAndList(context.Background(), "http://x/")
	if err != nil {
		t.Fatalf("FetchAndList failed: %v", err)
	}
	if len(hrefs) != 2 {
		t.Errorf("expected 2 hrefs, got %d", len(hrefs))
	}

	if _, err := m.FetchAndList(context.Background(), "http://x/unknown/"); !IsNotFound(err) {
		t.Errorf("expected a not-found error, got %v", err)
	}
}
