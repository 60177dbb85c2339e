package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"lettergeo/internal/model"
)

// Normalizer canonicalizes raw recognizer output. A mention either comes out
// as a cleaned name or is discarded entirely.
type Normalizer struct {
	deny     map[string]struct{}
	keep     map[string]struct{}
	translit *strings.Replacer
}

// New builds a Normalizer from the configured denylist and keep list.
func New(cfg model.NormalizeConfig) *Normalizer {
	n := &Normalizer{
		deny: make(map[string]struct{}, len(cfg.Denylist)),
		keep: make(map[string]struct{}, len(cfg.KeepSuffix)),
		// The archive transcribes Danish/Norwegian å as aa.
		translit: strings.NewReplacer("å", "aa", "Å", "Aa"),
	}
	for _, d := range cfg.Denylist {
		n.deny[foldKey(d)] = struct{}{}
	}
	for _, k := range cfg.KeepSuffix {
		n.keep[k] = struct{}{}
	}
	return n
}

// Normalize cleans one raw mention. The second return value is false when
// the mention should be discarded.
//
// Rules, in order: unicode NFC, denylist, surrounding space/punct trim,
// å→aa transliteration, trailing-s strip. The trailing-s rule is a blunt
// suffix heuristic, not a dictionary lookup; names that genuinely end in s
// are protected only by the keep list.
func (n *Normalizer) Normalize(raw string) (string, bool) {
	s := norm.NFC.String(raw)

	// Denylist matches the recognizer output as-is, before trimming strips
	// the punctuation some junk entries consist of.
	if _, bad := n.deny[foldKey(s)]; bad {
		return "", false
	}

	s = strings.TrimFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsPunct(r)
	})
	if s == "" {
		return "", false
	}
	if _, bad := n.deny[foldKey(s)]; bad {
		return "", false
	}

	s = n.translit.Replace(s)

	if stripped, ok := n.stripSuffix(s); ok {
		s = stripped
	}
	if s == "" {
		return "", false
	}
	return s, true
}

// stripSuffix removes a trailing possessive/plural "s" (Danmarks → Danmark)
// unless the name is on the keep list or nothing would remain.
func (n *Normalizer) stripSuffix(s string) (string, bool) {
	if !strings.HasSuffix(s, "s") {
		return s, false
	}
	if _, protected := n.keep[s]; protected {
		return s, false
	}
	base := strings.TrimSpace(s[:len(s)-1])
	if base == "" {
		return s, false
	}
	return base, true
}

// foldKey collapses case and whitespace so denylist matching ignores both.
func foldKey(s string) string {
	fields := strings.FieldsFunc(s, unicode.IsSpace)
	return strings.ToLower(strings.Join(fields, " "))
}
