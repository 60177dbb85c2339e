// Package corpus turns the XML letter archive into plain text. Each letter
// is written to its own txt checkpoint so later stages (and re-runs with
// --counts-only) never touch the XML again.
package corpus

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"lettergeo/internal/model"
)

// Extractor parses the letter archive.
type Extractor struct {
	corpusDir string
	txtDir    string
	warnf     func(format string, a ...interface{})
}

// NewExtractor creates an extractor reading XML from corpusDir and writing
// txt checkpoints under dataDir/txt.
func NewExtractor(corpusDir, dataDir string) *Extractor {
	return &Extractor{
		corpusDir: corpusDir,
		txtDir:    filepath.Join(dataDir, "txt"),
		warnf: func(format string, a ...interface{}) {
			fmt.Fprintf(os.Stderr, "Warning: "+format+"\n", a...)
		},
	}
}

// Extract parses every *.xml letter, writes one txt file per letter and
// returns the letters in filename order. A letter that cannot be read or
// parsed is skipped with a warning; the skipped count is returned alongside.
// A missing or unreadable corpus directory is a hard error.
func (e *Extractor) Extract() ([]model.Letter, int, error) {
	files, err := filepath.Glob(filepath.Join(e.corpusDir, "*.xml"))
	if err != nil {
		return nil, 0, fmt.Errorf("scan corpus dir: %w", err)
	}
	if _, err := os.Stat(e.corpusDir); err != nil {
		return nil, 0, fmt.Errorf("corpus dir: %w", err)
	}
	sort.Strings(files)

	if err := os.MkdirAll(e.txtDir, 0755); err != nil {
		return nil, 0, fmt.Errorf("create txt dir: %w", err)
	}

	var letters []model.Letter
	skipped := 0
	for _, file := range files {
		text, err := parseLetter(file)
		if err != nil {
			e.warnf("skipping %s: %v", filepath.Base(file), err)
			skipped++
			continue
		}

		id := letterID(file)
		if err := os.WriteFile(filepath.Join(e.txtDir, id+".txt"), []byte(text), 0644); err != nil {
			return nil, skipped, fmt.Errorf("write letter text: %w", err)
		}
		letters = append(letters, model.Letter{ID: id, Text: text})
	}
	return letters, skipped, nil
}

// ReadTexts loads a previously written txt checkpoint back as letters, in
// filename order.
func ReadTexts(dataDir string) ([]model.Letter, error) {
	txtDir := filepath.Join(dataDir, "txt")
	files, err := filepath.Glob(filepath.Join(txtDir, "*.txt"))
	if err != nil {
		return nil, fmt.Errorf("scan txt dir: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no letter texts found in %s", txtDir)
	}
	sort.Strings(files)

	letters := make([]model.Letter, 0, len(files))
	for _, file := range files {
		raw, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read letter text: %w", err)
		}
		letters = append(letters, model.Letter{ID: letterID(file), Text: string(raw)})
	}
	return letters, nil
}

// parseLetter extracts the body text of one letter: the text of its p
// elements, which hold the letter body while address lines and metadata
// live in other elements.
func parseLetter(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		return "", fmt.Errorf("parse XML: %w", err)
	}

	var body strings.Builder
	doc.Find("p").Each(func(_ int, sel *goquery.Selection) {
		text := strings.TrimSpace(sel.Text())
		body.WriteString(strings.ReplaceAll(text, "\n", ""))
	})

	if body.Len() == 0 {
		return "", fmt.Errorf("no body paragraphs")
	}
	return body.String(), nil
}

// letterID is the archive identifier: the filename without extension.
func letterID(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
