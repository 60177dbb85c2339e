package model

// Letter is one parsed letter from the corpus: its archive identifier and
// the plain body text with markup stripped.
type Letter struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Mention is a single location span detected in one letter's text.
type Mention struct {
	Letter string `csv:"letter" json:"letter"` // source letter ID
	Text   string `csv:"loc" json:"loc"`       // the span text as tagged
	Start  int    `csv:"-" json:"start,omitempty"`
	End    int    `csv:"-" json:"end,omitempty"`
}

// Cluster is one canonical location: a representative name plus the
// occurrence count of every variant merged into it. The representative is
// fixed when the cluster is created and never replaced afterwards.
type Cluster struct {
	Name     string   `json:"name"`
	Count    int      `json:"count"`
	Variants []string `json:"variants,omitempty"` // distinct merged spellings, in merge order
	Seeded   bool     `json:"seeded,omitempty"`   // preloaded preferred spelling
}

// LocationCount is one row of the counts table (loc_count.csv).
type LocationCount struct {
	Loc   string `csv:"loc"`
	Count int    `csv:"count"`
}

// GeocodedLocation is one row of the coordinates table (loc_coordinates.csv).
type GeocodedLocation struct {
	Loc   string  `csv:"loc"`
	Count int     `csv:"count"`
	Lat   float64 `csv:"lat"`
	Lon   float64 `csv:"lon"`
}
