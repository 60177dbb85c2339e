package ner

import (
	"fmt"
	"strings"

	"lettergeo/internal/model"
)

// New creates a recognizer based on configuration.
func New(cfg model.NERConfig) (Recognizer, error) {
	switch strings.ToLower(cfg.Provider) {
	case "", "prose":
		return NewProseRecognizer(), nil

	case "server":
		return NewServerRecognizer(cfg)

	case "openai":
		return NewOpenAIRecognizer(cfg)

	default:
		return nil, fmt.Errorf("unknown NER provider: %s (supported: prose, server, openai)", cfg.Provider)
	}
}
