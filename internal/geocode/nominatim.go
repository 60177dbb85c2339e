package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"lettergeo/internal/model"
)

const maxResponseBytes = 1 << 20

// sleepFunc is the sleep used between retries (injectable for tests).
var sleepFunc = time.Sleep

// Nominatim is a client for the OpenStreetMap Nominatim search API.
// Requests are rate limited (the public instance allows one per second) and
// transient failures are retried a bounded number of times with doubling
// backoff before the name is reported as a failed lookup.
type Nominatim struct {
	baseURL    string
	userAgent  string
	maxRetries int
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewNominatim creates a client from the geocoder configuration.
func NewNominatim(cfg model.GeocodeConfig) *Nominatim {
	retries := cfg.MaxRetries
	if retries <= 0 {
		retries = 3
	}
	rps := cfg.RatePerSec
	if rps <= 0 {
		rps = 1
	}
	return &Nominatim{
		baseURL:    cfg.BaseURL,
		userAgent:  cfg.UserAgent,
		maxRetries: retries,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
	}
}

type nominatimPlace struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Geocode resolves one name. Transport errors, 429 and 5xx responses count
// as transient and are retried; an empty result set is ErrUnresolved.
func (n *Nominatim) Geocode(ctx context.Context, name string) (*Result, error) {
	backoff := time.Second
	var lastErr error

	for attempt := 0; attempt < n.maxRetries; attempt++ {
		if attempt > 0 {
			sleepFunc(backoff)
			backoff *= 2
		}

		if err := n.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		result, retryable, err := n.lookup(ctx, name)
		if err == nil {
			return result, nil
		}
		if !retryable {
			return nil, err
		}
		lastErr = err
	}

	return nil, fmt.Errorf("geocode %q: retries exhausted: %w", name, lastErr)
}

// lookup performs a single search request. The bool reports whether the
// failure is worth retrying.
func (n *Nominatim) lookup(ctx context.Context, name string) (*Result, bool, error) {
	q := url.Values{}
	q.Set("q", name)
	q.Set("format", "jsonv2")
	q.Set("limit", "1")
	q.Set("accept-language", "en")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.baseURL+"/search?"+q.Encode(), nil)
	if err != nil {
		return nil, false, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", n.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return nil, true, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, false, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, true, fmt.Errorf("read response: %w", err)
	}

	var places []nominatimPlace
	if err := json.Unmarshal(body, &places); err != nil {
		return nil, false, fmt.Errorf("decode response: %w", err)
	}
	if len(places) == 0 {
		return nil, false, ErrUnresolved
	}

	lat, err := strconv.ParseFloat(places[0].Lat, 64)
	if err != nil {
		return nil, false, fmt.Errorf("parse latitude %q: %w", places[0].Lat, err)
	}
	lon, err := strconv.ParseFloat(places[0].Lon, 64)
	if err != nil {
		return nil, false, fmt.Errorf("parse longitude %q: %w", places[0].Lon, err)
	}

	return &Result{Lat: lat, Lon: lon, DisplayName: places[0].DisplayName}, false, nil
}
