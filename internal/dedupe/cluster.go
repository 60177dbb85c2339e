package dedupe

import (
	"unicode/utf8"

	"github.com/agnivade/levenshtein"

	"lettergeo/internal/model"
)

// Clusterer merges spelling variants of the same place into canonical
// clusters. Names are fed in a fixed order (order of first appearance) and
// clusters are kept in creation order, so the same input sequence always
// produces the same clustering.
type Clusterer struct {
	threshold int
	clusters  []*model.Cluster
	byName    map[string]*model.Cluster // every seen spelling -> its cluster
}

// NewClusterer creates a clusterer with the given similarity threshold
// (0-100). Seeds are preferred spellings preloaded as empty clusters so
// historic variants collapse onto them; seeds that attract no mentions are
// dropped from the final result.
func NewClusterer(threshold int, seeds []string) *Clusterer {
	c := &Clusterer{
		threshold: threshold,
		byName:    make(map[string]*model.Cluster),
	}
	for _, s := range seeds {
		if s == "" {
			continue
		}
		if _, dup := c.byName[s]; dup {
			continue
		}
		cl := &model.Cluster{Name: s, Seeded: true}
		c.clusters = append(c.clusters, cl)
		c.byName[s] = cl
	}
	return c
}

// Add feeds one normalized name into the clustering. A spelling seen before
// goes straight to its cluster; otherwise the name is compared against every
// existing representative and merged into the best match at or above the
// threshold, with ties going to the earliest-created cluster. Below the
// threshold it starts a new cluster with itself as representative. The
// representative of a cluster never changes after creation.
func (c *Clusterer) Add(name string) {
	if cl, seen := c.byName[name]; seen {
		cl.Count++
		return
	}

	var best *model.Cluster
	bestScore := 0
	for _, cl := range c.clusters {
		if maxScore(name, cl.Name) < c.threshold {
			continue // length gap alone puts this pair below the threshold
		}
		if score := Similarity(name, cl.Name); score > bestScore {
			bestScore = score
			best = cl
		}
	}

	if best != nil && bestScore >= c.threshold {
		best.Count++
		best.Variants = append(best.Variants, name)
		c.byName[name] = best
		return
	}

	cl := &model.Cluster{Name: name, Count: 1, Variants: []string{name}}
	c.clusters = append(c.clusters, cl)
	c.byName[name] = cl
}

// Clusters returns the finalized clusters in creation order, excluding
// seeds that never matched a mention.
func (c *Clusterer) Clusters() []model.Cluster {
	out := make([]model.Cluster, 0, len(c.clusters))
	for _, cl := range c.clusters {
		if cl.Count == 0 {
			continue
		}
		out = append(out, *cl)
	}
	return out
}

// Similarity scores two names on a 0-100 scale from their edit distance:
// 100*(la+lb-dist)/(la+lb), measured in runes. Identical strings score 100.
func Similarity(a, b string) int {
	la := utf8.RuneCountInString(a)
	lb := utf8.RuneCountInString(b)
	total := la + lb
	if total == 0 {
		return 100
	}
	dist := levenshtein.ComputeDistance(a, b)
	return (total - dist) * 100 / total
}

// maxScore is the best similarity two names of these lengths can reach.
// Edit distance is at least the length difference, so this is a conservative
// bound: skipping pairs below the threshold never changes the clustering.
func maxScore(a, b string) int {
	la := utf8.RuneCountInString(a)
	lb := utf8.RuneCountInString(b)
	total := la + lb
	if total == 0 {
		return 100
	}
	diff := la - lb
	if diff < 0 {
		diff = -diff
	}
	return (total - diff) * 100 / total
}
