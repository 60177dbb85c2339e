package dedupe

import (
	"reflect"
	"testing"

	"lettergeo/internal/model"
)

func TestClusterer_MergesSpellingVariants(t *testing.T) {
	c := NewClusterer(80, nil)
	for _, name := range []string{"Kristiania", "Kristiania", "Kristianja"} {
		c.Add(name)
	}

	clusters := c.Clusters()
	if len(clusters) != 1 {
		t.Fatalf("expected 1 cluster, got %d: %+v", len(clusters), clusters)
	}
	if clusters[0].Name != "Kristiania" {
		t.Errorf("expected representative Kristiania, got %s", clusters[0].Name)
	}
	if clusters[0].Count != 3 {
		t.Errorf("expected count 3, got %d", clusters[0].Count)
	}
}

func TestClusterer_RepresentativeIsFirstSeen(t *testing.T) {
	c := NewClusterer(80, nil)
	c.Add("Kristianja") // noisier spelling arrives first
	c.Add("Kristiania")
	c.Add("Kristiania")

	clusters := c.Clusters()
	if len(clusters) != 1 {
		t.Fatalf("expected 1 cluster, got %d", len(clusters))
	}
	// The representative is fixed at creation, even if a cleaner variant
	// arrives later.
	if clusters[0].Name != "Kristianja" {
		t.Errorf("expected first-seen representative Kristianja, got %s", clusters[0].Name)
	}
}

func TestClusterer_DistinctNamesStaySeparate(t *testing.T) {
	c := NewClusterer(80, nil)
	for _, name := range []string{"Roma", "Paris", "Berlin", "Roma"} {
		c.Add(name)
	}

	clusters := c.Clusters()
	if len(clusters) != 3 {
		t.Fatalf("expected 3 clusters, got %d: %+v", len(clusters), clusters)
	}
	if clusters[0].Name != "Roma" || clusters[0].Count != 2 {
		t.Errorf("expected Roma x2 first, got %+v", clusters[0])
	}
}

func TestClusterer_Deterministic(t *testing.T) {
	input := []string{
		"Kristiania", "Rom", "Roma", "Kristianja", "Paris", "Rom",
		"Dresden", "Dresten", "Kristiania", "Paris",
	}

	run := func() []model.Cluster {
		c := NewClusterer(80, nil)
		for _, name := range input {
			c.Add(name)
		}
		return c.Clusters()
	}

	first := run()
	for i := 0; i < 10; i++ {
		if got := run(); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d differs:\n got %+v\nwant %+v", i, got, first)
		}
	}
}

func TestClusterer_Seeds(t *testing.T) {
	c := NewClusterer(80, []string{"Rom", "København"})
	c.Add("Roma") // merges onto the seed spelling
	c.Add("Rom")

	clusters := c.Clusters()
	if len(clusters) != 1 {
		t.Fatalf("expected 1 cluster, got %d: %+v", len(clusters), clusters)
	}
	if clusters[0].Name != "Rom" {
		t.Errorf("expected seed representative Rom, got %s", clusters[0].Name)
	}
	if clusters[0].Count != 2 {
		t.Errorf("expected count 2, got %d", clusters[0].Count)
	}
	// The unmatched København seed must not appear in the result.
	for _, cl := range clusters {
		if cl.Name == "København" {
			t.Error("unmatched seed leaked into the result")
		}
	}
}

func TestSimilarity(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"Kristiania", "Kristiania", 100},
		{"Kristiania", "Kristianja", 95}, // 1 substitution over 20 runes
		{"Rom", "Roma", 85},              // 1 insertion over 7 runes
		{"", "", 100},
		{"Rom", "", 0},
	}

	for _, tt := range tests {
		if got := Similarity(tt.a, tt.b); got != tt.want {
			t.Errorf("Similarity(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestMaxScore_IsConservativeBound(t *testing.T) {
	pairs := [][2]string{
		{"Kristiania", "Kristianja"},
		{"Rom", "Roma"},
		{"Rom", "Sorrento"},
		{"Paris", "Petersborg"},
		{"København", "Kjøbenhavn"},
		{"a", "abcdefgh"},
		{"", "x"},
	}

	// The pre-filter may only skip pairs whose best possible score is below
	// the threshold; maxScore must never undershoot the real similarity.
	for _, p := range pairs {
		if bound, real := maxScore(p[0], p[1]), Similarity(p[0], p[1]); bound < real {
			t.Errorf("maxScore(%q, %q) = %d below Similarity = %d", p[0], p[1], bound, real)
		}
	}
}

func TestAggregate_SortOrder(t *testing.T) {
	clusters := []model.Cluster{
		{Name: "Paris", Count: 1},
		{Name: "Rom", Count: 5},
		{Name: "Berlin", Count: 5},
		{Name: "Dresden", Count: 2},
		{Name: "Ghost", Count: 0}, // unmatched seed, dropped
	}

	rows := Aggregate(clusters)
	want := []model.LocationCount{
		{Loc: "Berlin", Count: 5}, // count ties break ascending by name
		{Loc: "Rom", Count: 5},
		{Loc: "Dresden", Count: 2},
		{Loc: "Paris", Count: 1},
	}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("Aggregate = %+v, want %+v", rows, want)
	}
}
