// internal/monitoring/metrics_test.go
package monitoring

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/valpere/SolarArchiver/internal/lister"
)

func TestMetricsCounters(t *testing.T) {
	m, _ := NewMetrics("test")

	m.RecordFetch(true, 10*time.Millisecond)
	m.RecordFetch(false, 5*time.Millisecond)
	m.AddLinksDiscovered(42)
	m.SetCatalogSize(7)

	if got := testutil.ToFloat64(m.fetchesTotal.WithLabelValues("true")); got != 1 {
		t.Errorf("expected 1 successful fetch, got %v", got)
	}
	if got := testutil.ToFloat64(m.fetchesTotal.WithLabelValues("false")); got != 1 {
		t.Errorf("expected 1 failed fetch, got %v", got)
	}
	if got := testutil.ToFloat64(m.linksDiscovered); got != 42 {
		t.Errorf("expected 42 links discovered, got %v", got)
	}
	if got := testutil.ToFloat64(m.catalogSize); got != 7 {
		t.Errorf("expected catalog size 7, got %v", got)
	}
}

func TestInstrumentedListerRecordsOutcomes(t *testing.T) {
	m, _ := NewMetrics("test")
	memory := &lister.Memory{Tree: map[string][]string{
		"http://x/": {"2013/"},
	}}
	wrapped := NewInstrumentedLister(memory, m)

	if _, err := wrapped.FetchAndList(context.Background(), "http://x/"); err != nil {
		t.Fatalf("FetchAndList failed: %v", err)
	}
	if _, err := wrapped.FetchAndList(context.Background(), "http://x/missing/"); err == nil {
		t.Fatal("expected an error for an unknown URL")
	}

	if got := testutil.ToFloat64(m.fetchesTotal.WithLabelValues("true")); got != 1 {
		t.Errorf("expected 1 successful fetch, got %v", got)
	}
	if got := testutil.ToFloat64(m.fetchErrors.WithLabelValues("not_found")); got != 1 {
		t.Errorf("expected 1 not_found error, got %v", got)
	}
}

func TestHandlerServesRegistry(t *testing.T) {
	m, registry := NewMetrics("test")
	m.AddSessionsBuilt(3)

	rec := httptest.NewRecorder()
	Handler(registry).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "test_sessions_built_total 3") {
		t.Errorf("expected the counter in the exposition, got:\n%s", rec.Body.String())
	}
}
