package ner

import (
	"context"
	"fmt"
	"strings"

	"github.com/jdkato/prose/v2"
)

// ProseRecognizer runs local inference with the prose NER model. No network
// is involved, so it is the default provider.
type ProseRecognizer struct{}

// NewProseRecognizer creates the local recognizer.
func NewProseRecognizer() *ProseRecognizer {
	return &ProseRecognizer{}
}

// Name returns the provider name.
func (r *ProseRecognizer) Name() string {
	return "prose"
}

// IsAvailable always reports true: the model ships with the library.
func (r *ProseRecognizer) IsAvailable(ctx context.Context) bool {
	return true
}

// Recognize tags the text and keeps the spans labeled as places. Character
// offsets are recovered by searching for each entity in document order;
// downstream stages only use the span text, so a repeated name mapping to
// its next occurrence is good enough.
func (r *ProseRecognizer) Recognize(ctx context.Context, text string) ([]Span, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc, err := prose.NewDocument(text, prose.WithExtraction(true))
	if err != nil {
		return nil, fmt.Errorf("prose tagging: %w", err)
	}

	var spans []Span
	cursor := 0
	for _, ent := range doc.Entities() {
		if !IsLocation(ent.Label) {
			continue
		}
		span := Span{Text: ent.Text, Label: ent.Label, Start: -1, End: -1}
		if idx := strings.Index(text[cursor:], ent.Text); idx >= 0 {
			span.Start = cursor + idx
			span.End = span.Start + len(ent.Text)
			cursor = span.End
		}
		spans = append(spans, span)
	}
	return spans, nil
}
