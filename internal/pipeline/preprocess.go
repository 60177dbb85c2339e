package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"lettergeo/internal/corpus"
	"lettergeo/internal/dedupe"
	"lettergeo/internal/model"
	"lettergeo/internal/ner"
	"lettergeo/internal/normalize"
	"lettergeo/internal/table"
)

// Preprocess orchestrates pipeline A: XML corpus -> plain text -> location
// mentions -> normalized names -> fuzzy clusters -> counts table.
type Preprocess struct {
	cfg        *model.Config
	extractor  *corpus.Extractor
	recognizer ner.Recognizer
	normalizer *normalize.Normalizer
}

// PreprocessStats summarizes one run for the final report line.
type PreprocessStats struct {
	Letters        int // letters successfully parsed
	SkippedLetters int // letters dropped by parse or recognizer failures
	Mentions       int // raw location spans detected
	Discarded      int // mentions removed by the normalizer
	Clusters       int // canonical locations in the final table
}

// NewPreprocess wires pipeline A. The recognizer is injected so tests can
// run the pipeline against a fake model.
func NewPreprocess(cfg *model.Config, recognizer ner.Recognizer) *Preprocess {
	return &Preprocess{
		cfg:        cfg,
		extractor:  corpus.NewExtractor(cfg.Corpus.Dir, cfg.Corpus.DataDir),
		recognizer: recognizer,
		normalizer: normalize.New(cfg.Normalize),
	}
}

// Run executes the full pipeline from the XML archive.
func (p *Preprocess) Run(ctx context.Context) (*PreprocessStats, error) {
	stats := &PreprocessStats{}

	// 1. Parse XML letters into plain text
	p.verbosef("Parsing letters from %s...", p.cfg.Corpus.Dir)
	letters, skipped, err := p.extractor.Extract()
	if err != nil {
		return nil, fmt.Errorf("extract corpus: %w", err)
	}
	stats.Letters = len(letters)
	stats.SkippedLetters = skipped

	// 2. Detect location mentions per letter
	p.verbosef("Recognizing locations with %s...", p.recognizer.Name())
	var mentions []model.Mention
	for _, letter := range letters {
		spans, err := p.recognizer.Recognize(ctx, letter.Text)
		if err != nil {
			// One bad letter never aborts the run
			fmt.Fprintf(os.Stderr, "Warning: recognize %s: %v\n", letter.ID, err)
			stats.SkippedLetters++
			continue
		}
		for _, span := range spans {
			mentions = append(mentions, model.Mention{
				Letter: letter.ID,
				Text:   span.Text,
				Start:  span.Start,
				End:    span.End,
			})
		}
	}
	stats.Mentions = len(mentions)

	// 3. Checkpoint the raw mentions so --counts-only can skip inference
	mentionsPath := filepath.Join(table.CSVDir(p.cfg.Corpus.DataDir), table.MentionsFile)
	if err := table.WriteMentions(mentionsPath, mentions); err != nil {
		return nil, err
	}
	p.verbosef("Wrote %d mentions: %s", len(mentions), mentionsPath)

	return p.finish(stats, mentions)
}

// RunCountsOnly re-derives the counts table from a previously saved
// mentions checkpoint, skipping XML parsing and model inference.
func (p *Preprocess) RunCountsOnly(ctx context.Context) (*PreprocessStats, error) {
	_ = ctx

	mentionsPath := filepath.Join(table.CSVDir(p.cfg.Corpus.DataDir), table.MentionsFile)
	mentions, err := table.ReadMentions(mentionsPath)
	if err != nil {
		return nil, err
	}

	stats := &PreprocessStats{Mentions: len(mentions)}
	return p.finish(stats, mentions)
}

// finish runs the shared tail of both entry points: normalization, fuzzy
// clustering and the sorted counts table.
func (p *Preprocess) finish(stats *PreprocessStats, mentions []model.Mention) (*PreprocessStats, error) {
	// 4. Normalize and cluster in order of appearance
	clusterer := dedupe.NewClusterer(p.cfg.Dedupe.Threshold, p.cfg.Dedupe.Seeds)
	for _, mention := range mentions {
		name, ok := p.normalizer.Normalize(mention.Text)
		if !ok {
			stats.Discarded++
			continue
		}
		clusterer.Add(name)
	}

	// 5. Aggregate into the sorted counts table
	rows := dedupe.Aggregate(clusterer.Clusters())
	stats.Clusters = len(rows)

	countsPath := filepath.Join(table.CSVDir(p.cfg.Corpus.DataDir), table.CountsFile)
	if err := table.WriteCounts(countsPath, rows); err != nil {
		return nil, err
	}

	fmt.Fprintf(os.Stderr, "✓ %d letters, %d mentions (%d discarded), %d locations -> %s\n",
		stats.Letters, stats.Mentions, stats.Discarded, stats.Clusters, countsPath)
	if stats.SkippedLetters > 0 {
		fmt.Fprintf(os.Stderr, "  %d letters skipped\n", stats.SkippedLetters)
	}
	return stats, nil
}

func (p *Preprocess) verbosef(format string, a ...interface{}) {
	if p.cfg.Output.Verbose {
		fmt.Fprintf(os.Stderr, format+"\n", a...)
	}
}
