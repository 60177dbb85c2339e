package ner

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/sashabaranov/go-openai"

	"lettergeo/internal/model"
)

// OpenAIRecognizer extracts place names with an OpenAI chat model. It is an
// opt-in alternative for corpora in languages the local tagger handles
// poorly; unlike the other providers it sends letter text to a third party.
type OpenAIRecognizer struct {
	client *openai.Client
	model  string
}

const openaiSystemPrompt = `You extract place names from 19th-century letters.
Return ONLY a JSON array of the location names mentioned in the text, in
order of appearance, one entry per mention (repeat a name if it occurs
twice). Include cities, countries, regions, streets and named buildings.
Do not include people, dates or anything else. No prose, no code fences.`

// NewOpenAIRecognizer creates the OpenAI-backed recognizer.
func NewOpenAIRecognizer(cfg model.NERConfig) (*OpenAIRecognizer, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	m := cfg.Model
	if m == "" {
		m = openai.GPT4oMini
	}

	return &OpenAIRecognizer{
		client: openai.NewClientWithConfig(clientConfig),
		model:  m,
	}, nil
}

// Name returns the provider name.
func (r *OpenAIRecognizer) Name() string {
	return "openai"
}

// IsAvailable checks if the provider is properly configured.
func (r *OpenAIRecognizer) IsAvailable(ctx context.Context) bool {
	_, err := r.client.ListModels(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "OpenAI API check failed: %v\n", err)
		return false
	}
	return true
}

// Recognize asks the model for the location names in the text and maps them
// back onto character offsets.
func (r *OpenAIRecognizer) Recognize(ctx context.Context, text string) ([]Span, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	resp, err := r.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       r.model,
		Temperature: 0,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: openaiSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("openai API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai API returned no choices")
	}

	names, err := parseNameList(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}

	var spans []Span
	cursor := 0
	for _, name := range names {
		span := Span{Text: name, Label: "LOC", Start: -1, End: -1}
		if idx := strings.Index(text[cursor:], name); idx >= 0 {
			span.Start = cursor + idx
			span.End = span.Start + len(name)
			cursor = span.End
		}
		spans = append(spans, span)
	}
	return spans, nil
}

// parseNameList decodes the model output, tolerating the code fences some
// models insist on adding.
func parseNameList(content string) ([]string, error) {
	s := strings.TrimSpace(content)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSpace(s)

	var names []string
	if err := json.Unmarshal([]byte(s), &names); err != nil {
		return nil, fmt.Errorf("parse model output as JSON array: %w", err)
	}

	out := names[:0]
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, n)
		}
	}
	return out, nil
}
