package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lettergeo/internal/model"
)

func testGeocodeConfig(baseURL string) model.GeocodeConfig {
	return model.GeocodeConfig{
		BaseURL:    baseURL,
		UserAgent:  "lettergeo-test/0",
		Timeout:    5 * time.Second,
		MaxRetries: 3,
		RatePerSec: 10000, // effectively unlimited in tests
	}
}

func silenceSleep(t *testing.T) {
	t.Helper()
	orig := sleepFunc
	sleepFunc = func(time.Duration) {}
	t.Cleanup(func() { sleepFunc = orig })
}

func TestNominatim_Success(t *testing.T) {
	var gotQuery, gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			t.Errorf("expected path /search, got %s", r.URL.Path)
		}
		gotQuery = r.URL.Query().Get("q")
		gotUA = r.Header.Get("User-Agent")
		_ = json.NewEncoder(w).Encode([]nominatimPlace{
			{Lat: "41.8933203", Lon: "12.4829321", DisplayName: "Roma, Italia"},
		})
	}))
	defer server.Close()

	n := NewNominatim(testGeocodeConfig(server.URL))
	result, err := n.Geocode(context.Background(), "Rom")
	if err != nil {
		t.Fatalf("Geocode failed: %v", err)
	}

	if gotQuery != "Rom" {
		t.Errorf("expected query Rom, got %q", gotQuery)
	}
	if gotUA != "lettergeo-test/0" {
		t.Errorf("expected custom user agent, got %q", gotUA)
	}
	if result.Lat < 41.8 || result.Lat > 42.0 {
		t.Errorf("unexpected latitude %f", result.Lat)
	}
	if result.Lon < 12.4 || result.Lon > 12.6 {
		t.Errorf("unexpected longitude %f", result.Lon)
	}
}

func TestNominatim_Unresolved(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("[]"))
	}))
	defer server.Close()

	n := NewNominatim(testGeocodeConfig(server.URL))
	_, err := n.Geocode(context.Background(), "Atlantis")
	if !errors.Is(err, ErrUnresolved) {
		t.Errorf("expected ErrUnresolved, got %v", err)
	}
}

func TestNominatim_RetriesExhausted(t *testing.T) {
	silenceSleep(t)

	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	n := NewNominatim(testGeocodeConfig(server.URL))
	_, err := n.Geocode(context.Background(), "Rom")
	if err == nil {
		t.Fatal("expected error after exhausted retries")
	}
	// A failed lookup is not a definitive unresolved answer.
	if errors.Is(err, ErrUnresolved) {
		t.Error("retry exhaustion must not masquerade as unresolved")
	}
	if attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}
}

func TestNominatim_RecoversAfterTransientError(t *testing.T) {
	silenceSleep(t)

	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_ = json.NewEncoder(w).Encode([]nominatimPlace{{Lat: "48.85", Lon: "2.35"}})
	}))
	defer server.Close()

	n := NewNominatim(testGeocodeConfig(server.URL))
	result, err := n.Geocode(context.Background(), "Paris")
	if err != nil {
		t.Fatalf("Geocode failed: %v", err)
	}
	if attempts != 2 {
		t.Errorf("expected 2 attempts, got %d", attempts)
	}
	if result.Lat != 48.85 {
		t.Errorf("unexpected latitude %f", result.Lat)
	}
}

func TestNominatim_ClientErrorIsNotRetried(t *testing.T) {
	silenceSleep(t)

	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	n := NewNominatim(testGeocodeConfig(server.URL))
	if _, err := n.Geocode(context.Background(), "Rom"); err == nil {
		t.Fatal("expected error for 403 response")
	}
	if attempts != 1 {
		t.Errorf("expected 1 attempt for a non-transient failure, got %d", attempts)
	}
}
