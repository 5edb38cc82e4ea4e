package observability_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"bena_places/internal/adapters/observability"
)

func TestMetricsRegistryAndHandler(t *testing.T) {
	reg := observability.InitRegistry()

	// record samples so the vectors are exported
	observability.ObserveHTTP("/test", "GET", 200, 12*time.Millisecond)
	observability.ObserveExternal("maps", "/place/textsearch/json", 200, 30*time.Millisecond)
	observability.ObserveRow("ingest", observability.RowInserted)

	mh := observability.MetricsHandler(reg)
	req := httptest.NewRequest("GET", "/metrics", nil)
	rr := httptest.NewRecorder()
	mh.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("metrics status: %d", rr.Code)
	}
	body, _ := io.ReadAll(rr.Body)
	out := string(body)
	for _, name := range []string{"bena_http_requests_total", "bena_external_requests_total", "bena_enrich_rows_total"} {
		if !strings.Contains(out, name) {
			t.Fatalf("expected %s in output", name)
		}
	}
}

func TestNewLogger_Level(t *testing.T) {
	l := observability.NewLogger("prod", "warn")
	if l.GetLevel().String() != "warn" {
		t.Fatalf("level: %s", l.GetLevel())
	}
	if observability.NewLogger("dev", "bogus").GetLevel().String() != "info" {
		t.Fatalf("unknown level should fall back to info")
	}
}
