package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

func newTestPlacesClient(t *testing.T, handler http.HandlerFunc) *PlacesClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	cache, _ := lru.New[string, []Place](4)
	return &PlacesClient{
		apiKey:  "test-key",
		baseURL: srv.URL,
		http:    &http.Client{Timeout: 2 * time.Second},
		cache:   cache,
	}
}

func placesPayload() []byte {
	b, _ := json.Marshal(map[string]any{
		"results": []map[string]any{
			{
				"fsq_id":     "abc",
				"name":       "Corner Cafe",
				"distance":   120,
				"categories": []map[string]any{{"name": "Cafe"}},
				"location":   map[string]any{"formatted_address": "1 Main St"},
				"geocodes": map[string]any{
					"main": map[string]any{"latitude": 40.71, "longitude": -74.0},
				},
			},
		},
	})
	return b
}

func TestPlacesClient_CachesRepeatQueries(t *testing.T) {
	calls := 0
	client := newTestPlacesClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write(placesPayload())
	})

	for i := 0; i < 3; i++ {
		places, err := client.Nearby(context.Background(), 40.712345, -74.000001, "cafe", 10)
		if err != nil {
			t.Fatalf("Nearby: %v", err)
		}
		if len(places) != 1 || places[0].Name != "Corner Cafe" {
			t.Fatalf("unexpected places: %+v", places)
		}
	}
	if calls != 1 {
		t.Fatalf("expected 1 provider call, got %d", calls)
	}
}

func TestPlacesClient_NearbyCoordinatesShareEntry(t *testing.T) {
	calls := 0
	client := newTestPlacesClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write(placesPayload())
	})

	// ~100m apart, same rounded key.
	if _, err := client.Nearby(context.Background(), 40.7123, -74.0001, "cafe", 10); err != nil {
		t.Fatalf("Nearby: %v", err)
	}
	if _, err := client.Nearby(context.Background(), 40.7124, -74.0004, "cafe", 10); err != nil {
		t.Fatalf("Nearby: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected shared cache entry, got %d provider calls", calls)
	}

	// A different query must miss.
	if _, err := client.Nearby(context.Background(), 40.7123, -74.0001, "gym", 10); err != nil {
		t.Fatalf("Nearby: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected distinct entry for new query, got %d provider calls", calls)
	}
}

func TestPlacesClient_BoundedCacheEvicts(t *testing.T) {
	calls := 0
	client := newTestPlacesClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write(placesPayload())
	})

	// Cache holds 4 entries; the fifth distinct key evicts the oldest.
	coords := []float64{10, 20, 30, 40, 50}
	for _, lat := range coords {
		if _, err := client.Nearby(context.Background(), lat, 0, "", 10); err != nil {
			t.Fatalf("Nearby: %v", err)
		}
	}
	if calls != 5 {
		t.Fatalf("expected 5 provider calls, got %d", calls)
	}

	// The first key was evicted and refetches; the last still hits.
	if _, err := client.Nearby(context.Background(), 50, 0, "", 10); err != nil {
		t.Fatalf("Nearby: %v", err)
	}
	if calls != 5 {
		t.Fatalf("latest entry should still be cached, got %d calls", calls)
	}
	if _, err := client.Nearby(context.Background(), 10, 0, "", 10); err != nil {
		t.Fatalf("Nearby: %v", err)
	}
	if calls != 6 {
		t.Fatalf("oldest entry should have been evicted, got %d calls", calls)
	}
}

func TestPlacesClient_NotConfigured(t *testing.T) {
	cache, _ := lru.New[string, []Place](4)
	client := &PlacesClient{cache: cache}
	if _, err := client.Nearby(context.Background(), 1, 1, "", 10); err != errPlacesNotConfigured {
		t.Fatalf("expected not-configured error, got %v", err)
	}
}
