// Package ner detects place-name mentions in letter text. The actual model
// sits behind the Recognizer interface so the pipeline can run against the
// bundled local tagger, an external tagging server, or a fake in tests.
package ner

import "context"

// Span is one tagged region of text.
type Span struct {
	Text  string `json:"text"`
	Label string `json:"label"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// Recognizer defines the interface for NER providers.
type Recognizer interface {
	// Name returns the provider name.
	Name() string

	// Recognize returns the location spans found in text.
	Recognize(ctx context.Context, text string) ([]Span, error)

	// IsAvailable checks if the provider is properly configured and accessible.
	IsAvailable(ctx context.Context) bool
}

// locationLabels are the entity labels treated as places. Taggers disagree
// on the exact label set, so both the OntoNotes-style GPE and the plain LOC
// are accepted.
var locationLabels = map[string]bool{
	"GPE": true,
	"LOC": true,
	"FAC": true,
}

// IsLocation reports whether a span's label marks a place.
func IsLocation(label string) bool {
	return locationLabels[label]
}
