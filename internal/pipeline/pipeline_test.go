package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"unicode"

	"lettergeo/internal/geocode"
	"lettergeo/internal/model"
	"lettergeo/internal/ner"
	"lettergeo/internal/table"
)

// fakeRecognizer tags every whole word found in its vocabulary, in order of
// appearance, standing in for the NER model.
type fakeRecognizer struct {
	vocab map[string]bool
}

func (f *fakeRecognizer) Name() string                         { return "fake" }
func (f *fakeRecognizer) IsAvailable(ctx context.Context) bool { return true }

func (f *fakeRecognizer) Recognize(ctx context.Context, text string) ([]ner.Span, error) {
	var spans []ner.Span
	start := -1
	flush := func(end int) {
		if start < 0 {
			return
		}
		word := text[start:end]
		if f.vocab[word] {
			spans = append(spans, ner.Span{Text: word, Label: "LOC", Start: start, End: end})
		}
		start = -1
	}
	for i, r := range text {
		if unicode.IsLetter(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		flush(i)
	}
	flush(len(text))
	sort.SliceStable(spans, func(i, j int) bool { return spans[i].Start < spans[j].Start })
	return spans, nil
}

// fakeGeocoder resolves from a fixed map and leaves everything else
// unresolved.
type fakeGeocoder struct {
	coords map[string]geocode.Result
}

func (f *fakeGeocoder) Geocode(ctx context.Context, name string) (*geocode.Result, error) {
	if r, ok := f.coords[name]; ok {
		return &r, nil
	}
	return nil, geocode.ErrUnresolved
}

func letterXML(body string) string {
	return "<TEI><text><body><p>" + body + "</p></body></text></TEI>"
}

func testPipelineConfig(t *testing.T) *model.Config {
	t.Helper()
	cfg := model.DefaultConfig()
	cfg.Corpus.Dir = t.TempDir()
	cfg.Corpus.DataDir = t.TempDir()
	cfg.Render.OutputDir = t.TempDir()
	cfg.Dedupe.Seeds = nil
	return cfg
}

func writeCorpus(t *testing.T, dir string) {
	t.Helper()
	letters := map[string]string{
		"letter1.xml": letterXML("Vi rejste fra Roma til Paris i foraaret."),
		"letter2.xml": letterXML("Byen Rom er varm om sommeren."),
		"letter3.xml": letterXML("Romas gader er smukke."),
	}
	for name, content := range letters {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatalf("write corpus: %v", err)
		}
	}
}

func TestPreprocess_EndToEnd(t *testing.T) {
	cfg := testPipelineConfig(t)
	writeCorpus(t, cfg.Corpus.Dir)

	rec := &fakeRecognizer{vocab: map[string]bool{
		"Roma": true, "Rom": true, "Romas": true, "Paris": true,
	}}

	p := NewPreprocess(cfg, rec)
	stats, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if stats.Letters != 3 {
		t.Errorf("expected 3 letters, got %d", stats.Letters)
	}
	if stats.Mentions != 4 {
		t.Errorf("expected 4 mentions, got %d", stats.Mentions)
	}

	// "Romas" normalizes to "Roma"; "Rom" merges into the "Roma" cluster.
	rows, err := table.ReadCounts(filepath.Join(table.CSVDir(cfg.Corpus.DataDir), table.CountsFile))
	if err != nil {
		t.Fatalf("ReadCounts failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d: %+v", len(rows), rows)
	}
	if rows[0].Loc != "Roma" || rows[0].Count != 3 {
		t.Errorf("expected (Roma, 3) first, got %+v", rows[0])
	}
	if rows[1].Loc != "Paris" || rows[1].Count != 1 {
		t.Errorf("expected (Paris, 1) second, got %+v", rows[1])
	}
}

func TestPreprocess_CountsOnlyReusesMentions(t *testing.T) {
	cfg := testPipelineConfig(t)
	writeCorpus(t, cfg.Corpus.Dir)

	rec := &fakeRecognizer{vocab: map[string]bool{
		"Roma": true, "Rom": true, "Romas": true, "Paris": true,
	}}
	p := NewPreprocess(cfg, rec)
	if _, err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	// Remove the corpus: --counts-only must not need it.
	if err := os.RemoveAll(cfg.Corpus.Dir); err != nil {
		t.Fatal(err)
	}

	stats, err := p.RunCountsOnly(context.Background())
	if err != nil {
		t.Fatalf("RunCountsOnly failed: %v", err)
	}
	if stats.Clusters != 2 {
		t.Errorf("expected 2 clusters, got %d", stats.Clusters)
	}
}

func TestPreprocess_MissingCorpusIsFatal(t *testing.T) {
	cfg := testPipelineConfig(t)
	cfg.Corpus.Dir = filepath.Join(cfg.Corpus.Dir, "does-not-exist")

	p := NewPreprocess(cfg, &fakeRecognizer{})
	if _, err := p.Run(context.Background()); err == nil {
		t.Error("expected error for missing corpus dir")
	}
}

func TestGeomap_EndToEnd(t *testing.T) {
	cfg := testPipelineConfig(t)

	countsPath := filepath.Join(table.CSVDir(cfg.Corpus.DataDir), table.CountsFile)
	counts := []model.LocationCount{
		{Loc: "Roma", Count: 3},
		{Loc: "Paris", Count: 1},
		{Loc: "Atlantis", Count: 1},
	}
	if err := table.WriteCounts(countsPath, counts); err != nil {
		t.Fatalf("WriteCounts failed: %v", err)
	}

	g := NewGeomap(cfg, &fakeGeocoder{coords: map[string]geocode.Result{
		"Roma":  {Lat: 41.89, Lon: 12.48},
		"Paris": {Lat: 48.85, Lon: 2.35},
	}})

	stats, err := g.Run(context.Background(), "")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	// Atlantis stays unresolved but never aborts the run.
	if stats.Resolved != 2 || stats.Unresolved != 1 {
		t.Errorf("expected 2 resolved / 1 unresolved, got %d / %d", stats.Resolved, stats.Unresolved)
	}

	coords, err := table.ReadCoordinates(filepath.Join(table.CSVDir(cfg.Corpus.DataDir), table.CoordinatesFile))
	if err != nil {
		t.Fatalf("ReadCoordinates failed: %v", err)
	}
	if len(coords) != 2 {
		t.Fatalf("expected 2 coordinate rows, got %d", len(coords))
	}
	for _, row := range coords {
		if row.Loc == "Atlantis" {
			t.Error("unresolved location leaked into the coordinates table")
		}
	}

	if stats.Rendered == 0 {
		t.Error("expected at least one artifact to render")
	}
}

func TestGeomap_PlotOnlySkipsGeocoding(t *testing.T) {
	cfg := testPipelineConfig(t)

	coordsPath := filepath.Join(table.CSVDir(cfg.Corpus.DataDir), table.CoordinatesFile)
	rows := []model.GeocodedLocation{
		{Loc: "Roma", Count: 3, Lat: 41.89, Lon: 12.48},
	}
	if err := table.WriteCoordinates(coordsPath, rows); err != nil {
		t.Fatalf("WriteCoordinates failed: %v", err)
	}

	// A geocoder that fails on contact proves the network is never touched.
	g := NewGeomap(cfg, &fakeGeocoder{})

	stats, err := g.RunPlotOnly(context.Background())
	if err != nil {
		t.Fatalf("RunPlotOnly failed: %v", err)
	}
	if stats.Resolved != 1 {
		t.Errorf("expected 1 resolved row, got %d", stats.Resolved)
	}
}

func TestGeomap_MissingInputIsFatal(t *testing.T) {
	cfg := testPipelineConfig(t)
	g := NewGeomap(cfg, &fakeGeocoder{})

	if _, err := g.Run(context.Background(), filepath.Join(cfg.Corpus.DataDir, "nope.csv")); err == nil {
		t.Error("expected error for missing counts table")
	}
	if _, err := g.RunPlotOnly(context.Background()); err == nil {
		t.Error("expected error for missing coordinates table")
	}
}
