package maps_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"bena_places/internal/adapters/maps"
)

const textSearchBody = `{
  "status": "OK",
  "results": [
    {
      "formatted_address": "Karnak, Luxor City, Luxor Governorate 1362501, Egypt",
      "geometry": {"location": {"lat": 25.7188346, "lng": 32.6572703}},
      "types": ["tourist_attraction", "point_of_interest"],
      "place_id": "ChIJ-karnak"
    },
    {
      "formatted_address": "Other",
      "geometry": {"location": {"lat": 1, "lng": 2}},
      "types": ["museum"],
      "place_id": "ChIJ-other"
    }
  ]
}`

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/place/textsearch/json", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("key") != "k" {
			_, _ = w.Write([]byte(`{"status":"REQUEST_DENIED","results":[]}`))
			return
		}
		if r.URL.Query().Get("query") == "nowhere" {
			_, _ = w.Write([]byte(`{"status":"ZERO_RESULTS","results":[]}`))
			return
		}
		_, _ = w.Write([]byte(textSearchBody))
	})
	mux.HandleFunc("/place/details/json", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("place_id") != "ChIJ-karnak" {
			_, _ = w.Write([]byte(`{"status":"NOT_FOUND"}`))
			return
		}
		_, _ = w.Write([]byte(`{"status":"OK","result":{"url":"https://maps.google.com/?cid=42"}}`))
	})
	return httptest.NewServer(mux)
}

func TestClient_TextSearch(t *testing.T) {
	ts := newServer(t)
	defer ts.Close()

	c, err := maps.New(ts.URL, "k", 100)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	res, err := c.TextSearch(context.Background(), "Karnak Temple")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if res.Status != "OK" || len(res.Results) != 2 {
		t.Fatalf("unexpected response: %+v", res)
	}
	first := res.Results[0]
	if first.PlaceID != "ChIJ-karnak" || first.Lat != 25.7188346 || first.Types[0] != "tourist_attraction" {
		t.Fatalf("unexpected first result: %+v", first)
	}

	zero, err := c.TextSearch(context.Background(), "nowhere")
	if err != nil {
		t.Fatalf("zero results must not error: %v", err)
	}
	if zero.Status != "ZERO_RESULTS" || len(zero.Results) != 0 {
		t.Fatalf("unexpected zero response: %+v", zero)
	}
}

func TestClient_Details(t *testing.T) {
	ts := newServer(t)
	defer ts.Close()

	c, _ := maps.New(ts.URL, "k", 100)
	d, err := c.Details(context.Background(), "ChIJ-karnak")
	if err != nil {
		t.Fatalf("details: %v", err)
	}
	if d.URL != "https://maps.google.com/?cid=42" {
		t.Fatalf("url: %q", d.URL)
	}
	if _, err := c.Details(context.Background(), "missing"); err == nil {
		t.Fatalf("expected error for non-OK details status")
	}
}

func TestNew_RequiresKey(t *testing.T) {
	if _, err := maps.New("", "", 1); err == nil {
		t.Fatalf("expected error for empty key")
	}
}
