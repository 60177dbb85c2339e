package dedupe

import (
	"sort"

	"lettergeo/internal/model"
)

// Aggregate turns the finalized clusters into the counts table, sorted by
// count descending with ties broken by name ascending so the output is
// stable across runs.
func Aggregate(clusters []model.Cluster) []model.LocationCount {
	rows := make([]model.LocationCount, 0, len(clusters))
	for _, cl := range clusters {
		if cl.Count < 1 {
			continue
		}
		rows = append(rows, model.LocationCount{Loc: cl.Name, Count: cl.Count})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		return rows[i].Loc < rows[j].Loc
	})
	return rows
}
