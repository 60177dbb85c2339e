package ner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"lettergeo/internal/model"
)

// ServerRecognizer talks to a local tagging server (a spaCy/DaCy model
// behind a small HTTP wrapper). Inference stays on the user's machine; the
// pipeline only ships text over localhost.
type ServerRecognizer struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

// Tagging server API structures.
type tagRequest struct {
	Text  string `json:"text"`
	Model string `json:"model,omitempty"`
}

type tagResponse struct {
	Spans []Span `json:"spans"`
}

type tagError struct {
	Error string `json:"error"`
}

// NewServerRecognizer creates a recognizer for the configured endpoint.
func NewServerRecognizer(cfg model.NERConfig) (*ServerRecognizer, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		return nil, fmt.Errorf("NER server base URL is required")
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second // transformer models can be slow on CPU
	}

	return &ServerRecognizer{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		model:      cfg.Model,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// Name returns the provider name.
func (r *ServerRecognizer) Name() string {
	return "server"
}

// IsAvailable checks whether the tagging server answers its health endpoint.
func (r *ServerRecognizer) IsAvailable(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+"/health", nil)
	if err != nil {
		return false
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "NER server check failed (connection to %s): %v\n", r.baseURL, err)
		return false
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		fmt.Fprintf(os.Stderr, "NER server check failed (HTTP %d from %s)\n", resp.StatusCode, r.baseURL)
		return false
	}
	return true
}

// Recognize posts the text to the server and keeps the place-labeled spans.
func (r *ServerRecognizer) Recognize(ctx context.Context, text string) ([]Span, error) {
	body, err := json.Marshal(tagRequest{Text: text, Model: r.model})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/tag", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr tagError
		if err := json.Unmarshal(respBody, &apiErr); err == nil && apiErr.Error != "" {
			return nil, fmt.Errorf("API error (%d): %s", resp.StatusCode, apiErr.Error)
		}
		return nil, fmt.Errorf("API error (%d): %s", resp.StatusCode, string(respBody))
	}

	var tagged tagResponse
	if err := json.Unmarshal(respBody, &tagged); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	var spans []Span
	for _, s := range tagged.Spans {
		if IsLocation(s.Label) {
			spans = append(spans, s)
		}
	}
	return spans, nil
}
